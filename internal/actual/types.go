package actual

import (
	"time"

	"github.com/google/uuid"

	"github.com/gokatarajesh/exam-engine/internal/examerr"
)

// ExamType selects whether the answer key travels with the actual.
type ExamType string

const (
	ExamPractice ExamType = "practice"
	ExamLive     ExamType = "live"
)

// ParseExamType validates an exam type string.
func ParseExamType(v string) (ExamType, error) {
	switch ExamType(v) {
	case ExamPractice, ExamLive:
		return ExamType(v), nil
	}
	return "", examerr.Invalid("examType", "unknown exam type %q", v)
}

// Choice is one rendered option of an actual.
type Choice struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
	Position  int    `json:"position"`
}

// ValidAnswer is the answer key copied onto practice actuals.
type ValidAnswer struct {
	Text         *string `json:"text,omitempty"`
	BooleanValue *bool   `json:"booleanValue,omitempty"`
}

// Actual is the frozen, presentable instance of a template for one section slot.
type Actual struct {
	ID               uuid.UUID     `json:"id"`
	TemplateID       uuid.UUID     `json:"templateId"`
	ExamType         ExamType      `json:"examType"`
	SectionPosition  int           `json:"sectionPosition"`
	UserResponseType string        `json:"userResponseType"`
	UserPromptText   string        `json:"userPromptText"`
	InstructionText  string        `json:"instructionText"`
	Choices          []Choice      `json:"choices"`
	ValidAnswers     []ValidAnswer `json:"validAnswers"`
	CreatedAt        time.Time     `json:"createdAt"`
}

// NewActual is the generated content handed to the repository.
type NewActual struct {
	TemplateID       uuid.UUID
	ExamType         ExamType
	SectionPosition  int
	UserResponseType string
	UserPromptText   string
	InstructionText  string
	Choices          []Choice
	ValidAnswers     []ValidAnswer
}

// ChoiceDTO hides correctness on live actuals.
type ChoiceDTO struct {
	Text      string `json:"text"`
	Position  int    `json:"position"`
	IsCorrect *bool  `json:"isCorrect,omitempty"`
}

// DTO is the client-facing form of an actual.
type DTO struct {
	ID               uuid.UUID     `json:"id"`
	TemplateID       uuid.UUID     `json:"templateId"`
	ExamType         ExamType      `json:"examType"`
	SectionPosition  int           `json:"sectionPosition"`
	UserResponseType string        `json:"userResponseType"`
	UserPromptText   string        `json:"userPromptText"`
	InstructionText  string        `json:"instructionText"`
	Choices          []ChoiceDTO   `json:"choices"`
	ValidAnswers     []ValidAnswer `json:"validAnswers,omitempty"`
}

// ToDTO renders the actual for a client. Live actuals never carry the key.
func (a Actual) ToDTO() DTO {
	dto := DTO{
		ID:               a.ID,
		TemplateID:       a.TemplateID,
		ExamType:         a.ExamType,
		SectionPosition:  a.SectionPosition,
		UserResponseType: a.UserResponseType,
		UserPromptText:   a.UserPromptText,
		InstructionText:  a.InstructionText,
		Choices:          make([]ChoiceDTO, 0, len(a.Choices)),
	}
	for _, c := range a.Choices {
		cd := ChoiceDTO{Text: c.Text, Position: c.Position}
		if a.ExamType == ExamPractice {
			correct := c.IsCorrect
			cd.IsCorrect = &correct
		}
		dto.Choices = append(dto.Choices, cd)
	}
	if a.ExamType == ExamPractice {
		dto.ValidAnswers = a.ValidAnswers
	}
	return dto
}

// AcceptsAnswer reports whether answer is a well-formed response for this actual.
func (a Actual) AcceptsAnswer(answer string) bool {
	if len(a.Choices) == 0 {
		return len([]rune(answer)) <= 255
	}
	for _, c := range a.Choices {
		if c.Text == answer {
			return true
		}
	}
	return false
}
