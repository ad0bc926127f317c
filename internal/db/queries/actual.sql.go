package queries

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createActual = `-- name: CreateActual :one
INSERT INTO question_actuals (
    actual_id, template_id, exam_type, section_position, user_response_type, user_prompt_text, instruction_text
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING actual_id, template_id, exam_type, section_position, user_response_type,
          user_prompt_text, instruction_text, created_at
`

type CreateActualParams struct {
	ActualID         uuid.UUID
	TemplateID       uuid.UUID
	ExamType         string
	SectionPosition  int32
	UserResponseType string
	UserPromptText   string
	InstructionText  string
}

func (q *Queries) CreateActual(ctx context.Context, arg CreateActualParams) (QuestionActual, error) {
	row := q.db.QueryRow(ctx, createActual,
		arg.ActualID,
		arg.TemplateID,
		arg.ExamType,
		arg.SectionPosition,
		arg.UserResponseType,
		arg.UserPromptText,
		arg.InstructionText,
	)
	var i QuestionActual
	err := row.Scan(
		&i.ActualID,
		&i.TemplateID,
		&i.ExamType,
		&i.SectionPosition,
		&i.UserResponseType,
		&i.UserPromptText,
		&i.InstructionText,
		&i.CreatedAt,
	)
	return i, err
}

const getActual = `-- name: GetActual :one
SELECT actual_id, template_id, exam_type, section_position, user_response_type,
       user_prompt_text, instruction_text, created_at
FROM question_actuals
WHERE actual_id = $1
`

func (q *Queries) GetActual(ctx context.Context, actualID uuid.UUID) (QuestionActual, error) {
	row := q.db.QueryRow(ctx, getActual, actualID)
	var i QuestionActual
	err := row.Scan(
		&i.ActualID,
		&i.TemplateID,
		&i.ExamType,
		&i.SectionPosition,
		&i.UserResponseType,
		&i.UserPromptText,
		&i.InstructionText,
		&i.CreatedAt,
	)
	return i, err
}

const createActualChoice = `-- name: CreateActualChoice :one
INSERT INTO actual_choices (actual_id, text, is_correct, position)
VALUES ($1, $2, $3, $4)
RETURNING actual_id, text, is_correct, position
`

type CreateActualChoiceParams struct {
	ActualID  uuid.UUID
	Text      string
	IsCorrect bool
	Position  int32
}

func (q *Queries) CreateActualChoice(ctx context.Context, arg CreateActualChoiceParams) (ActualChoice, error) {
	row := q.db.QueryRow(ctx, createActualChoice, arg.ActualID, arg.Text, arg.IsCorrect, arg.Position)
	var i ActualChoice
	err := row.Scan(&i.ActualID, &i.Text, &i.IsCorrect, &i.Position)
	return i, err
}

const listActualChoices = `-- name: ListActualChoices :many
SELECT actual_id, text, is_correct, position
FROM actual_choices
WHERE actual_id = $1
ORDER BY position
`

func (q *Queries) ListActualChoices(ctx context.Context, actualID uuid.UUID) ([]ActualChoice, error) {
	rows, err := q.db.Query(ctx, listActualChoices, actualID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ActualChoice
	for rows.Next() {
		var i ActualChoice
		if err := rows.Scan(&i.ActualID, &i.Text, &i.IsCorrect, &i.Position); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createActualValidAnswer = `-- name: CreateActualValidAnswer :one
INSERT INTO actual_valid_answers (answer_id, actual_id, text, boolean_value, position)
VALUES ($1, $2, $3, $4, $5)
RETURNING answer_id, actual_id, text, boolean_value, position
`

type CreateActualValidAnswerParams struct {
	AnswerID     uuid.UUID
	ActualID     uuid.UUID
	Text         pgtype.Text
	BooleanValue pgtype.Bool
	Position     int32
}

func (q *Queries) CreateActualValidAnswer(ctx context.Context, arg CreateActualValidAnswerParams) (ActualValidAnswer, error) {
	row := q.db.QueryRow(ctx, createActualValidAnswer, arg.AnswerID, arg.ActualID, arg.Text, arg.BooleanValue, arg.Position)
	var i ActualValidAnswer
	err := row.Scan(&i.AnswerID, &i.ActualID, &i.Text, &i.BooleanValue, &i.Position)
	return i, err
}

const listActualValidAnswers = `-- name: ListActualValidAnswers :many
SELECT answer_id, actual_id, text, boolean_value, position
FROM actual_valid_answers
WHERE actual_id = $1
ORDER BY position
`

func (q *Queries) ListActualValidAnswers(ctx context.Context, actualID uuid.UUID) ([]ActualValidAnswer, error) {
	rows, err := q.db.Query(ctx, listActualValidAnswers, actualID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ActualValidAnswer
	for rows.Next() {
		var i ActualValidAnswer
		if err := rows.Scan(&i.AnswerID, &i.ActualID, &i.Text, &i.BooleanValue, &i.Position); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
