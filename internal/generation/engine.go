// Package generation turns a question template into a concrete, persisted
// actual for one exam type and section slot.
package generation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/exam-engine/internal/actual"
	"github.com/gokatarajesh/exam-engine/internal/examerr"
	"github.com/gokatarajesh/exam-engine/internal/fodder"
	"github.com/gokatarajesh/exam-engine/internal/metrics"
	"github.com/gokatarajesh/exam-engine/internal/template"
)

// TemplateSource loads a template with its media and valid answers.
type TemplateSource interface {
	Get(ctx context.Context, templateID uuid.UUID) (template.Template, error)
}

// FodderSource lists the current items of a pool. A missing pool yields no items.
type FodderSource interface {
	Items(ctx context.Context, poolID uuid.UUID) ([]fodder.Item, error)
}

// ActualWriter persists an actual with its choices and answer key atomically.
type ActualWriter interface {
	Create(ctx context.Context, a actual.NewActual) (actual.Actual, error)
}

// Options tunes the engine.
type Options struct {
	Source         Source
	ShuffleCorrect bool
}

// Engine generates actuals from templates.
type Engine struct {
	templates      TemplateSource
	fodder         FodderSource
	actuals        ActualWriter
	src            Source
	shuffleCorrect bool
	metrics        *metrics.Metrics
	logger         zerolog.Logger
}

func NewEngine(templates TemplateSource, fodder FodderSource, actuals ActualWriter, m *metrics.Metrics, logger zerolog.Logger, opts Options) *Engine {
	if opts.Source == nil {
		opts.Source = NewSource(0)
	}
	return &Engine{
		templates:      templates,
		fodder:         fodder,
		actuals:        actuals,
		src:            opts.Source,
		shuffleCorrect: opts.ShuffleCorrect,
		metrics:        m,
		logger:         logger.With().Str("component", "generation").Logger(),
	}
}

// Generate builds and persists a new actual for the template. Every call
// produces an independent actual; callers that need one actual per slot must
// serialize themselves.
func (e *Engine) Generate(ctx context.Context, templateID uuid.UUID, examType actual.ExamType, sectionPosition int) (actual.Actual, error) {
	start := time.Now()
	a, err := e.generate(ctx, templateID, examType, sectionPosition)
	if err != nil {
		e.metrics.GenerationFailed(failureReason(err))
		return actual.Actual{}, err
	}
	e.metrics.ActualGenerated(string(a.ExamType), a.UserResponseType, time.Since(start))
	e.logger.Debug().
		Str("template_id", templateID.String()).
		Str("actual_id", a.ID.String()).
		Str("exam_type", string(examType)).
		Int("section_position", sectionPosition).
		Msg("actual generated")
	return a, nil
}

func (e *Engine) generate(ctx context.Context, templateID uuid.UUID, examType actual.ExamType, sectionPosition int) (actual.Actual, error) {
	if _, err := actual.ParseExamType(string(examType)); err != nil {
		return actual.Actual{}, err
	}
	if sectionPosition < 0 {
		return actual.Actual{}, examerr.Invalid("sectionPosition", "must not be negative")
	}

	t, err := e.templates.Get(ctx, templateID)
	if err != nil {
		return actual.Actual{}, err
	}
	if examType == actual.ExamLive && !t.ExclusivityType.AllowsLive() {
		return actual.Actual{}, examerr.Invalid("examType", "template %s is %s and cannot be used live", t.ID, t.ExclusivityType)
	}
	if examType == actual.ExamPractice && !t.ExclusivityType.AllowsPractice() {
		return actual.Actual{}, examerr.Invalid("examType", "template %s is %s and cannot be used for practice", t.ID, t.ExclusivityType)
	}

	na := actual.NewActual{
		TemplateID:       t.ID,
		ExamType:         examType,
		SectionPosition:  sectionPosition,
		UserResponseType: string(t.UserResponseType),
		UserPromptText:   deref(t.UserPromptText),
		InstructionText:  deref(t.InstructionText),
	}

	switch t.UserResponseType {
	case template.ResponseFreeText255:
	case template.ResponseTrueFalse:
		var correct *bool
		if len(t.ValidAnswers) > 0 {
			correct = t.ValidAnswers[0].BooleanValue
		}
		na.Choices = trueFalseChoices(correct)
	case template.ResponseMultipleChoice4:
		na.Choices, err = e.multipleChoice(ctx, t)
		if err != nil {
			return actual.Actual{}, err
		}
	default:
		return actual.Actual{}, &examerr.ConsistencyError{Message: "unknown response type " + string(t.UserResponseType)}
	}

	// The answer key only ever travels with practice actuals.
	if examType == actual.ExamPractice {
		for _, va := range t.ValidAnswers {
			na.ValidAnswers = append(na.ValidAnswers, actual.ValidAnswer{Text: va.Text, BooleanValue: va.BooleanValue})
		}
	}

	return e.actuals.Create(ctx, na)
}

func (e *Engine) multipleChoice(ctx context.Context, t template.Template) ([]actual.Choice, error) {
	if len(t.ValidAnswers) == 0 {
		return nil, &examerr.ConsistencyError{Message: "no valid answer for multiple-choice question"}
	}
	key := t.ValidAnswers[0]
	if key.Text == nil || *key.Text == "" {
		return nil, &examerr.ConsistencyError{Message: "multiple-choice valid answer has no text"}
	}
	if key.FodderPoolID == nil {
		return nil, &examerr.InsufficientFodderError{Required: DistractorCount}
	}

	items, err := e.fodder.Items(ctx, *key.FodderPoolID)
	if err != nil {
		return nil, err
	}
	distractors, err := sampleDistractors(e.src, key.FodderPoolID.String(), eligibleDistractors(items, *key.Text))
	if err != nil {
		return nil, err
	}
	return arrangeChoices(e.src, *key.Text, distractors, e.shuffleCorrect), nil
}

func failureReason(err error) string {
	var (
		notFound     *examerr.NotFoundError
		invalid      *examerr.ValidationError
		insufficient *examerr.InsufficientFodderError
		consistency  *examerr.ConsistencyError
	)
	switch {
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &invalid):
		return "validation"
	case errors.As(err, &insufficient):
		return "insufficient_fodder"
	case errors.As(err, &consistency):
		return "consistency"
	}
	return "internal"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
