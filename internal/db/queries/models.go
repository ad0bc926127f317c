package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type FodderPool struct {
	PoolID      uuid.UUID
	Name        string
	Description pgtype.Text
	CreatedBy   string
	CreatedAt   time.Time
}

type FodderPoolSummary struct {
	FodderPool
	ItemCount int64
}

type FodderItem struct {
	ItemID    uuid.UUID
	PoolID    uuid.UUID
	Text      string
	CreatedBy string
	CreatedAt time.Time
}

type QuestionTemplate struct {
	TemplateID       uuid.UUID
	ParentTemplateID pgtype.UUID
	Version          int32
	UserPromptType   string
	UserResponseType string
	ExclusivityType  string
	UserPromptText   pgtype.Text
	InstructionText  pgtype.Text
	Difficulty       pgtype.Text
	Topics           []string
	CourseID         pgtype.Text
	CreatedBy        string
	CreatedAt        time.Time
}

type TemplateMedium struct {
	MediaID                uuid.UUID
	TemplateID             uuid.UUID
	MediaContentType       string
	Height                 int32
	Width                  int32
	Url                    string
	SpecialInstructionText pgtype.Text
	Duration               pgtype.Int4
	FileSize               pgtype.Int8
	ThumbnailUrl           pgtype.Text
	Position               int32
}

type TemplateValidAnswer struct {
	AnswerID     uuid.UUID
	TemplateID   uuid.UUID
	Text         pgtype.Text
	BooleanValue pgtype.Bool
	FodderPoolID pgtype.UUID
	Position     int32
}

type QuestionActual struct {
	ActualID         uuid.UUID
	TemplateID       uuid.UUID
	ExamType         string
	SectionPosition  int32
	UserResponseType string
	UserPromptText   string
	InstructionText  string
	CreatedAt        time.Time
}

type ActualChoice struct {
	ActualID  uuid.UUID
	Text      string
	IsCorrect bool
	Position  int32
}

type ActualValidAnswer struct {
	AnswerID     uuid.UUID
	ActualID     uuid.UUID
	Text         pgtype.Text
	BooleanValue pgtype.Bool
	Position     int32
}

type ExamInstance struct {
	InstanceID  uuid.UUID
	Type        string
	Status      string
	TemplateID  string
	UserID      string
	CourseID    string
	StartDate   time.Time
	EndDate     time.Time
	StartedAt   pgtype.Timestamptz
	CompletedAt pgtype.Timestamptz
	CreatedBy   string
	CreatedAt   time.Time
}

type ExamInstanceSection struct {
	SectionID        uuid.UUID
	InstanceID       uuid.UUID
	Status           string
	Position         int32
	TimeLimitSeconds int32
	TimeSpentSeconds int32
	StartedAt        pgtype.Timestamptz
	LastActivityAt   pgtype.Timestamptz
	CompletedAt      pgtype.Timestamptz
}

type ExamInstanceQuestion struct {
	QuestionID         uuid.UUID
	SectionID          uuid.UUID
	TemplateQuestionID uuid.UUID
	ActualID           pgtype.UUID
	Status             string
	Position           int32
	StudentAnswer      pgtype.Text
	IsCorrect          bool
	Score              pgtype.Float8
	AnsweredAt         pgtype.Timestamptz
}

type ExamQuestionResponse struct {
	ResponseID  uuid.UUID
	QuestionID  uuid.UUID
	Answer      string
	SubmittedBy string
	SubmittedAt time.Time
}
