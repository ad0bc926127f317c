package lifecycle

import (
	"time"

	"github.com/google/uuid"

	"github.com/gokatarajesh/exam-engine/internal/actual"
)

// InstanceType is the kind of exam a user sits.
type InstanceType string

const (
	TypeExam         InstanceType = "exam"
	TypePracticeExam InstanceType = "practice-exam"
	TypeStudyGuide   InstanceType = "study-guide"
)

// ExamType maps the instance type onto the answer-visibility mode of its actuals.
func (t InstanceType) ExamType() actual.ExamType {
	if t == TypeExam {
		return actual.ExamLive
	}
	return actual.ExamPractice
}

func (t InstanceType) valid() bool {
	switch t {
	case TypeExam, TypePracticeExam, TypeStudyGuide:
		return true
	}
	return false
}

// InstanceStatus lifecycle states.
type InstanceStatus string

const (
	InstanceScheduled  InstanceStatus = "scheduled"
	InstanceInProgress InstanceStatus = "in-progress"
	InstanceCompleted  InstanceStatus = "completed"
	InstanceExpired    InstanceStatus = "expired"
)

func (s InstanceStatus) Terminal() bool {
	return s == InstanceCompleted || s == InstanceExpired
}

// SectionStatus lifecycle states.
type SectionStatus string

const (
	SectionNotStarted SectionStatus = "not-started"
	SectionInProgress SectionStatus = "in-progress"
	SectionCompleted  SectionStatus = "completed"
	SectionTimedOut   SectionStatus = "timed-out"
)

func (s SectionStatus) Terminal() bool {
	return s == SectionCompleted || s == SectionTimedOut
}

// QuestionStatus per-question states. None of them is terminal.
type QuestionStatus string

const (
	QuestionUnanswered QuestionStatus = "unanswered"
	QuestionAnswered   QuestionStatus = "answered"
	QuestionFlagged    QuestionStatus = "flagged"
	QuestionSkipped    QuestionStatus = "skipped"
)

// Instance is one user's sitting of an exam.
type Instance struct {
	ID          uuid.UUID      `json:"id"`
	Type        InstanceType   `json:"type"`
	Status      InstanceStatus `json:"status"`
	TemplateID  string         `json:"templateId"`
	UserID      string         `json:"userId"`
	CourseID    string         `json:"courseId"`
	StartDate   time.Time      `json:"startDate"`
	EndDate     time.Time      `json:"endDate"`
	StartedAt   *time.Time     `json:"startedAt,omitempty"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	CreatedBy   string         `json:"createdBy"`
	Sections    []Section      `json:"sections,omitempty"`
}

// Section is a timed group of questions within an instance.
type Section struct {
	ID               uuid.UUID     `json:"id"`
	InstanceID       uuid.UUID     `json:"instanceId"`
	Status           SectionStatus `json:"status"`
	Position         int           `json:"position"`
	TimeLimitSeconds int           `json:"timeLimitSeconds"`
	TimeSpentSeconds int           `json:"timeSpentSeconds"`
	StartedAt        *time.Time    `json:"startedAt,omitempty"`
	LastActivityAt   *time.Time    `json:"-"`
	CompletedAt      *time.Time    `json:"completedAt,omitempty"`
	Questions        []Question    `json:"questions,omitempty"`
}

// Question is an instance-scoped slot bound to a template.
type Question struct {
	ID                 uuid.UUID      `json:"id"`
	SectionID          uuid.UUID      `json:"sectionId"`
	TemplateQuestionID uuid.UUID      `json:"templateQuestionId"`
	ActualID           *uuid.UUID     `json:"actualId,omitempty"`
	Status             QuestionStatus `json:"status"`
	Position           int            `json:"position"`
	StudentAnswer      *string        `json:"studentAnswer,omitempty"`
	IsCorrect          bool           `json:"isCorrect"`
	Score              *float64       `json:"score,omitempty"`
	AnsweredAt         *time.Time     `json:"answeredAt,omitempty"`
}

// Response is one entry of a question's append-only answer log.
type Response struct {
	ID          uuid.UUID `json:"id"`
	QuestionID  uuid.UUID `json:"questionId"`
	Answer      string    `json:"answer"`
	SubmittedBy string    `json:"submittedBy"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// EnvelopeMeta carries the slot state shown next to an actual.
type EnvelopeMeta struct {
	SectionID     uuid.UUID       `json:"sectionId"`
	SectionStatus SectionStatus   `json:"sectionStatus"`
	Position      int             `json:"position"`
	Status        QuestionStatus  `json:"status"`
	StudentAnswer *string         `json:"studentAnswer,omitempty"`
	ExamType      actual.ExamType `json:"examType"`
}

// Envelope is the fixed shape returned when a question is opened.
type Envelope struct {
	QuestionID      uuid.UUID    `json:"questionId"`
	ExamID          uuid.UUID    `json:"examId"`
	Meta            EnvelopeMeta `json:"meta"`
	Actual          actual.DTO   `json:"actual"`
	ResponseHistory []Response   `json:"responseHistory"`
}

// NewSection describes one section of a scheduled instance.
type NewSection struct {
	TimeLimitSeconds    int         `json:"timeLimitSeconds"`
	QuestionTemplateIDs []uuid.UUID `json:"questionTemplateIds"`
}

// CreateInstanceRequest schedules an exam instance for a user.
type CreateInstanceRequest struct {
	Type       string       `json:"type"`
	TemplateID string       `json:"templateId"`
	UserID     string       `json:"userId"`
	CourseID   string       `json:"courseId"`
	StartDate  time.Time    `json:"startDate"`
	EndDate    time.Time    `json:"endDate"`
	Sections   []NewSection `json:"sections"`
}
