package template

import (
	"time"

	"github.com/google/uuid"
)

// PromptType describes how the question is presented.
type PromptType string

const (
	PromptText       PromptType = "text"
	PromptMultimedia PromptType = "multimedia"
)

// ResponseType describes how the question is answered.
type ResponseType string

const (
	ResponseFreeText255     ResponseType = "free-text-255"
	ResponseMultipleChoice4 ResponseType = "multiple-choice-4"
	ResponseTrueFalse       ResponseType = "true-false"
)

// Exclusivity restricts the contexts a template may be used in.
type Exclusivity string

const (
	ExclusivityExamOnly     Exclusivity = "exam-only"
	ExclusivityPracticeOnly Exclusivity = "practice-only"
	ExclusivityBoth         Exclusivity = "exam-practice-both"
)

// FreeTextMaxLen bounds free-text answers.
const FreeTextMaxLen = 255

// AllowsLive reports whether the template may appear in a live exam.
func (e Exclusivity) AllowsLive() bool {
	return e == ExclusivityExamOnly || e == ExclusivityBoth
}

// AllowsPractice reports whether the template may appear in practice.
func (e Exclusivity) AllowsPractice() bool {
	return e == ExclusivityPracticeOnly || e == ExclusivityBoth
}

// Shape is the tagged variant of prompt kind and response kind. Build it
// with ParseShape so payload rules can be checked against the declared kinds.
type Shape struct {
	Prompt   PromptType
	Response ResponseType
}

// Media is prompt media attached to a multimedia template.
type Media struct {
	MediaContentType       string  `json:"mediaContentType"`
	Height                 int     `json:"height"`
	Width                  int     `json:"width"`
	URL                    string  `json:"url"`
	SpecialInstructionText *string `json:"specialInstructionText,omitempty"`
	Duration               *int    `json:"duration,omitempty"`
	FileSize               *int64  `json:"fileSize,omitempty"`
	ThumbnailURL           *string `json:"thumbnailUrl,omitempty"`
}

// ValidAnswer is a canonical answer. Exactly one of Text and BooleanValue is set.
type ValidAnswer struct {
	Text         *string    `json:"text,omitempty"`
	BooleanValue *bool      `json:"booleanValue,omitempty"`
	FodderPoolID *uuid.UUID `json:"fodderPoolId,omitempty"`
}

// Template is the canonical, reusable question definition.
type Template struct {
	ID               uuid.UUID     `json:"id"`
	ParentTemplateID *uuid.UUID    `json:"parentTemplateId,omitempty"`
	Version          int           `json:"version"`
	UserPromptType   PromptType    `json:"userPromptType"`
	UserResponseType ResponseType  `json:"userResponseType"`
	ExclusivityType  Exclusivity   `json:"exclusivityType"`
	UserPromptText   *string       `json:"userPromptText,omitempty"`
	InstructionText  *string       `json:"instructionText,omitempty"`
	Difficulty       *string       `json:"difficulty,omitempty"`
	Topics           []string      `json:"topics"`
	CourseID         *string       `json:"courseId,omitempty"`
	CreatedBy        string        `json:"createdBy"`
	CreatedAt        time.Time     `json:"createdAt"`
	Media            []Media       `json:"media"`
	ValidAnswers     []ValidAnswer `json:"validAnswers"`
}

// Shape returns the template's prompt/response variant.
func (t Template) Shape() Shape {
	return Shape{Prompt: t.UserPromptType, Response: t.UserResponseType}
}

// Spec is the authoring payload for createTemplate.
type Spec struct {
	UserPromptType   string        `json:"userPromptType"`
	UserResponseType string        `json:"userResponseType"`
	ExclusivityType  string        `json:"exclusivityType"`
	UserPromptText   *string       `json:"userPromptText,omitempty"`
	InstructionText  *string       `json:"instructionText,omitempty"`
	Difficulty       *string       `json:"difficulty,omitempty"`
	Topics           []string      `json:"topics,omitempty"`
	CourseID         *string       `json:"courseId,omitempty"`
	Media            []Media       `json:"media,omitempty"`
	ValidAnswers     []ValidAnswer `json:"validAnswers"`
}

// Patch is the updateTemplate payload. A non-nil Media or ValidAnswers
// replaces the complete set; nil leaves it untouched.
type Patch struct {
	UserPromptType   *string        `json:"userPromptType,omitempty"`
	UserResponseType *string        `json:"userResponseType,omitempty"`
	ExclusivityType  *string        `json:"exclusivityType,omitempty"`
	UserPromptText   *string        `json:"userPromptText,omitempty"`
	InstructionText  *string        `json:"instructionText,omitempty"`
	Difficulty       *string        `json:"difficulty,omitempty"`
	Topics           *[]string      `json:"topics,omitempty"`
	CourseID         *string        `json:"courseId,omitempty"`
	Media            *[]Media       `json:"media,omitempty"`
	ValidAnswers     *[]ValidAnswer `json:"validAnswers,omitempty"`
}

// Filter is the conjunctive search over templates. Zero values are ignored.
type Filter struct {
	SearchTerm   string
	Difficulty   string
	Topics       []string
	PromptType   string
	ResponseType string
	CourseID     string
	Limit        int
	Offset       int
}

// Record is a validated template ready for persistence.
type Record struct {
	ParentTemplateID *uuid.UUID
	Version          int
	Shape            Shape
	ExclusivityType  Exclusivity
	UserPromptText   *string
	InstructionText  *string
	Difficulty       *string
	Topics           []string
	CourseID         *string
	CreatedBy        string
	Media            []Media
	ValidAnswers     []ValidAnswer
}
