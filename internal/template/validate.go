package template

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gokatarajesh/exam-engine/internal/examerr"
)

// ParseShape checks both kinds against the known enum values.
func ParseShape(prompt, response string) (Shape, error) {
	var s Shape
	switch PromptType(prompt) {
	case PromptText, PromptMultimedia:
		s.Prompt = PromptType(prompt)
	default:
		return Shape{}, examerr.Invalid("userPromptType", "unknown prompt type %q", prompt)
	}
	switch ResponseType(response) {
	case ResponseFreeText255, ResponseMultipleChoice4, ResponseTrueFalse:
		s.Response = ResponseType(response)
	default:
		return Shape{}, examerr.Invalid("userResponseType", "unknown response type %q", response)
	}
	return s, nil
}

// ParseExclusivity validates an exclusivity enum value.
func ParseExclusivity(v string) (Exclusivity, error) {
	switch Exclusivity(v) {
	case ExclusivityExamOnly, ExclusivityPracticeOnly, ExclusivityBoth:
		return Exclusivity(v), nil
	}
	return "", examerr.Invalid("exclusivityType", "unknown exclusivity type %q", v)
}

// ValidatePayload checks media and valid answers against the declared shape.
func (s Shape) ValidatePayload(media []Media, answers []ValidAnswer) error {
	if s.Prompt == PromptMultimedia && len(media) == 0 {
		return examerr.Invalid("media", "multimedia prompts require at least one media item")
	}
	for i, m := range media {
		if err := validateMedia(i, m); err != nil {
			return err
		}
	}

	switch s.Response {
	case ResponseMultipleChoice4, ResponseTrueFalse:
		if len(answers) == 0 {
			return examerr.Invalid("validAnswers", "%s templates require at least one valid answer", s.Response)
		}
	}

	for i, a := range answers {
		field := fmt.Sprintf("validAnswers[%d]", i)
		if (a.Text == nil) == (a.BooleanValue == nil) {
			return examerr.Invalid(field, "exactly one of text or booleanValue must be set")
		}
		if a.FodderPoolID != nil {
			if s.Response != ResponseMultipleChoice4 {
				return examerr.Invalid(field, "fodderPoolId is only allowed on multiple-choice-4 templates")
			}
		}
		switch s.Response {
		case ResponseTrueFalse:
			if a.BooleanValue == nil {
				return examerr.Invalid(field, "true-false answers use booleanValue")
			}
		case ResponseMultipleChoice4:
			if a.Text == nil || strings.TrimSpace(*a.Text) == "" {
				return examerr.Invalid(field, "multiple-choice answers need non-empty text")
			}
		case ResponseFreeText255:
			if a.Text == nil {
				return examerr.Invalid(field, "free-text answers use text")
			}
			if utf8.RuneCountInString(*a.Text) > FreeTextMaxLen {
				return examerr.Invalid(field, "free-text answers are limited to %d characters", FreeTextMaxLen)
			}
		}
	}

	// distractors are drawn from the pool of the first answer
	if s.Response == ResponseMultipleChoice4 && answers[0].FodderPoolID == nil {
		return examerr.Invalid("validAnswers[0].fodderPoolId", "multiple-choice-4 templates need a fodder pool on the first valid answer")
	}
	return nil
}

func validateMedia(i int, m Media) error {
	field := fmt.Sprintf("media[%d]", i)
	if strings.TrimSpace(m.URL) == "" {
		return examerr.Invalid(field, "url is required")
	}
	if strings.TrimSpace(m.MediaContentType) == "" {
		return examerr.Invalid(field, "mediaContentType is required")
	}
	if m.Height < 0 || m.Width < 0 {
		return examerr.Invalid(field, "height and width must not be negative")
	}
	if m.Duration != nil && *m.Duration < 0 {
		return examerr.Invalid(field, "duration must not be negative")
	}
	if m.FileSize != nil && *m.FileSize < 0 {
		return examerr.Invalid(field, "fileSize must not be negative")
	}
	return nil
}

// toRecord validates a spec and normalizes it for persistence.
func (sp Spec) toRecord(actorID string) (Record, error) {
	shape, err := ParseShape(sp.UserPromptType, sp.UserResponseType)
	if err != nil {
		return Record{}, err
	}
	excl, err := ParseExclusivity(sp.ExclusivityType)
	if err != nil {
		return Record{}, err
	}
	if err := shape.ValidatePayload(sp.Media, sp.ValidAnswers); err != nil {
		return Record{}, err
	}
	return Record{
		Version:         1,
		Shape:           shape,
		ExclusivityType: excl,
		UserPromptText:  sp.UserPromptText,
		InstructionText: sp.InstructionText,
		Difficulty:      sp.Difficulty,
		Topics:          normalizeTopics(sp.Topics),
		CourseID:        sp.CourseID,
		CreatedBy:       actorID,
		Media:           sp.Media,
		ValidAnswers:    sp.ValidAnswers,
	}, nil
}

// apply merges a patch over the current template into a full spec.
func (p Patch) apply(cur Template) Spec {
	sp := Spec{
		UserPromptType:   string(cur.UserPromptType),
		UserResponseType: string(cur.UserResponseType),
		ExclusivityType:  string(cur.ExclusivityType),
		UserPromptText:   cur.UserPromptText,
		InstructionText:  cur.InstructionText,
		Difficulty:       cur.Difficulty,
		Topics:           cur.Topics,
		CourseID:         cur.CourseID,
		Media:            cur.Media,
		ValidAnswers:     cur.ValidAnswers,
	}
	if p.UserPromptType != nil {
		sp.UserPromptType = *p.UserPromptType
	}
	if p.UserResponseType != nil {
		sp.UserResponseType = *p.UserResponseType
	}
	if p.ExclusivityType != nil {
		sp.ExclusivityType = *p.ExclusivityType
	}
	if p.UserPromptText != nil {
		sp.UserPromptText = p.UserPromptText
	}
	if p.InstructionText != nil {
		sp.InstructionText = p.InstructionText
	}
	if p.Difficulty != nil {
		sp.Difficulty = p.Difficulty
	}
	if p.Topics != nil {
		sp.Topics = *p.Topics
	}
	if p.CourseID != nil {
		sp.CourseID = p.CourseID
	}
	if p.Media != nil {
		sp.Media = *p.Media
	}
	if p.ValidAnswers != nil {
		sp.ValidAnswers = *p.ValidAnswers
	}
	return sp
}

func normalizeTopics(topics []string) []string {
	out := make([]string, 0, len(topics))
	seen := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
