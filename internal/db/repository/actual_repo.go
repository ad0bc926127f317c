package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gokatarajesh/exam-engine/internal/actual"
	"github.com/gokatarajesh/exam-engine/internal/db/queries"
)

type actualStore interface {
	CreateActual(ctx context.Context, arg queries.CreateActualParams) (queries.QuestionActual, error)
	GetActual(ctx context.Context, actualID uuid.UUID) (queries.QuestionActual, error)
	CreateActualChoice(ctx context.Context, arg queries.CreateActualChoiceParams) (queries.ActualChoice, error)
	ListActualChoices(ctx context.Context, actualID uuid.UUID) ([]queries.ActualChoice, error)
	CreateActualValidAnswer(ctx context.Context, arg queries.CreateActualValidAnswerParams) (queries.ActualValidAnswer, error)
	ListActualValidAnswers(ctx context.Context, actualID uuid.UUID) ([]queries.ActualValidAnswer, error)
}

// ActualRepository stores generated question actuals. There is no update path.
type ActualRepository struct {
	store actualStore
	inTx  txRunner[actualStore]
}

func NewActualRepository(db *queries.Store) *ActualRepository {
	return &ActualRepository{
		store: db,
		inTx:  storeTx(db, func(q *queries.Queries) actualStore { return q }),
	}
}

func newActualRepository(store actualStore) *ActualRepository {
	return &ActualRepository{store: store, inTx: directTx(store)}
}

// Create writes the actual row first, then its choices and answer key, all in one transaction.
func (r *ActualRepository) Create(ctx context.Context, a actual.NewActual) (actual.Actual, error) {
	var out actual.Actual
	err := r.inTx(ctx, func(s actualStore) error {
		row, err := s.CreateActual(ctx, queries.CreateActualParams{
			ActualID:         uuid.New(),
			TemplateID:       a.TemplateID,
			ExamType:         string(a.ExamType),
			SectionPosition:  int32(a.SectionPosition),
			UserResponseType: a.UserResponseType,
			UserPromptText:   a.UserPromptText,
			InstructionText:  a.InstructionText,
		})
		if err != nil {
			return fmt.Errorf("insert actual: %w", err)
		}
		out = actualFromRow(row)

		for _, c := range a.Choices {
			cr, err := s.CreateActualChoice(ctx, queries.CreateActualChoiceParams{
				ActualID:  row.ActualID,
				Text:      c.Text,
				IsCorrect: c.IsCorrect,
				Position:  int32(c.Position),
			})
			if err != nil {
				return fmt.Errorf("insert choice %d: %w", c.Position, err)
			}
			out.Choices = append(out.Choices, choiceFromRow(cr))
		}

		for i, v := range a.ValidAnswers {
			vr, err := s.CreateActualValidAnswer(ctx, queries.CreateActualValidAnswerParams{
				AnswerID:     uuid.New(),
				ActualID:     row.ActualID,
				Text:         pgText(v.Text),
				BooleanValue: pgBool(v.BooleanValue),
				Position:     int32(i),
			})
			if err != nil {
				return fmt.Errorf("insert valid answer %d: %w", i, err)
			}
			out.ValidAnswers = append(out.ValidAnswers, validAnswerFromRow(vr))
		}
		return nil
	})
	return out, err
}

// Get loads an actual with choices and answer key eagerly.
func (r *ActualRepository) Get(ctx context.Context, actualID uuid.UUID) (actual.Actual, error) {
	row, err := r.store.GetActual(ctx, actualID)
	if err != nil {
		return actual.Actual{}, notFound(err, "actual", actualID)
	}
	out := actualFromRow(row)

	choices, err := r.store.ListActualChoices(ctx, actualID)
	if err != nil {
		return actual.Actual{}, fmt.Errorf("list choices: %w", err)
	}
	for _, c := range choices {
		out.Choices = append(out.Choices, choiceFromRow(c))
	}

	answers, err := r.store.ListActualValidAnswers(ctx, actualID)
	if err != nil {
		return actual.Actual{}, fmt.Errorf("list valid answers: %w", err)
	}
	for _, v := range answers {
		out.ValidAnswers = append(out.ValidAnswers, validAnswerFromRow(v))
	}
	return out, nil
}

func actualFromRow(row queries.QuestionActual) actual.Actual {
	return actual.Actual{
		ID:               row.ActualID,
		TemplateID:       row.TemplateID,
		ExamType:         actual.ExamType(row.ExamType),
		SectionPosition:  int(row.SectionPosition),
		UserResponseType: row.UserResponseType,
		UserPromptText:   row.UserPromptText,
		InstructionText:  row.InstructionText,
		Choices:          []actual.Choice{},
		ValidAnswers:     []actual.ValidAnswer{},
		CreatedAt:        row.CreatedAt,
	}
}

func choiceFromRow(row queries.ActualChoice) actual.Choice {
	return actual.Choice{Text: row.Text, IsCorrect: row.IsCorrect, Position: int(row.Position)}
}

func validAnswerFromRow(row queries.ActualValidAnswer) actual.ValidAnswer {
	return actual.ValidAnswer{Text: textPtr(row.Text), BooleanValue: boolPtr(row.BooleanValue)}
}
