package queries

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const templateColumns = `template_id, parent_template_id, version, user_prompt_type, user_response_type,
exclusivity_type, user_prompt_text, instruction_text, difficulty, topics, course_id, created_by, created_at`

func scanTemplate(row pgx.Row) (QuestionTemplate, error) {
	var i QuestionTemplate
	err := row.Scan(
		&i.TemplateID,
		&i.ParentTemplateID,
		&i.Version,
		&i.UserPromptType,
		&i.UserResponseType,
		&i.ExclusivityType,
		&i.UserPromptText,
		&i.InstructionText,
		&i.Difficulty,
		&i.Topics,
		&i.CourseID,
		&i.CreatedBy,
		&i.CreatedAt,
	)
	return i, err
}

const createTemplate = `-- name: CreateTemplate :one
INSERT INTO question_templates (
    template_id, parent_template_id, version, user_prompt_type, user_response_type,
    exclusivity_type, user_prompt_text, instruction_text, difficulty, topics, course_id, created_by
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + templateColumns

type CreateTemplateParams struct {
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
}

func (q *Queries) CreateTemplate(ctx context.Context, arg CreateTemplateParams) (QuestionTemplate, error) {
	topics := arg.Topics
	if topics == nil {
		topics = []string{}
	}
	row := q.db.QueryRow(ctx, createTemplate,
		arg.TemplateID,
		arg.ParentTemplateID,
		arg.Version,
		arg.UserPromptType,
		arg.UserResponseType,
		arg.ExclusivityType,
		arg.UserPromptText,
		arg.InstructionText,
		arg.Difficulty,
		topics,
		arg.CourseID,
		arg.CreatedBy,
	)
	return scanTemplate(row)
}

const getTemplate = `-- name: GetTemplate :one
SELECT ` + templateColumns + `
FROM question_templates
WHERE template_id = $1
`

func (q *Queries) GetTemplate(ctx context.Context, templateID uuid.UUID) (QuestionTemplate, error) {
	return scanTemplate(q.db.QueryRow(ctx, getTemplate, templateID))
}

const updateTemplate = `-- name: UpdateTemplate :one
UPDATE question_templates
SET user_prompt_type = $2,
    user_response_type = $3,
    exclusivity_type = $4,
    user_prompt_text = $5,
    instruction_text = $6,
    difficulty = $7,
    topics = $8,
    course_id = $9
WHERE template_id = $1
RETURNING ` + templateColumns

type UpdateTemplateParams struct {
	TemplateID       uuid.UUID
	UserPromptType   string
	UserResponseType string
	ExclusivityType  string
	UserPromptText   pgtype.Text
	InstructionText  pgtype.Text
	Difficulty       pgtype.Text
	Topics           []string
	CourseID         pgtype.Text
}

func (q *Queries) UpdateTemplate(ctx context.Context, arg UpdateTemplateParams) (QuestionTemplate, error) {
	topics := arg.Topics
	if topics == nil {
		topics = []string{}
	}
	row := q.db.QueryRow(ctx, updateTemplate,
		arg.TemplateID,
		arg.UserPromptType,
		arg.UserResponseType,
		arg.ExclusivityType,
		arg.UserPromptText,
		arg.InstructionText,
		arg.Difficulty,
		topics,
		arg.CourseID,
	)
	return scanTemplate(row)
}

const searchTemplates = `-- name: SearchTemplates :many
SELECT ` + templateColumns + `
FROM question_templates
WHERE ($1::text IS NULL
       OR user_prompt_text ILIKE '%' || $1::text || '%'
       OR instruction_text ILIKE '%' || $1::text || '%')
  AND ($2::text IS NULL OR difficulty = $2::text)
  AND (cardinality($3::text[]) = 0 OR topics @> $3::text[])
  AND ($4::text IS NULL OR user_prompt_type = $4::text)
  AND ($5::text IS NULL OR user_response_type = $5::text)
  AND ($6::text IS NULL OR course_id = $6::text)
ORDER BY created_at DESC, template_id
LIMIT $7 OFFSET $8
`

type SearchTemplatesParams struct {
	SearchTerm   pgtype.Text
	Difficulty   pgtype.Text
	Topics       []string
	PromptType   pgtype.Text
	ResponseType pgtype.Text
	CourseID     pgtype.Text
	Limit        int32
	Offset       int32
}

func (q *Queries) SearchTemplates(ctx context.Context, arg SearchTemplatesParams) ([]QuestionTemplate, error) {
	topics := arg.Topics
	if topics == nil {
		topics = []string{}
	}
	rows, err := q.db.Query(ctx, searchTemplates,
		arg.SearchTerm,
		arg.Difficulty,
		topics,
		arg.PromptType,
		arg.ResponseType,
		arg.CourseID,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []QuestionTemplate
	for rows.Next() {
		i, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const templateHasLiveActual = `-- name: TemplateHasLiveActual :one
SELECT EXISTS (
    SELECT 1 FROM question_actuals WHERE template_id = $1 AND exam_type = 'live'
)
`

func (q *Queries) TemplateHasLiveActual(ctx context.Context, templateID uuid.UUID) (bool, error) {
	row := q.db.QueryRow(ctx, templateHasLiveActual, templateID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const createTemplateMedium = `-- name: CreateTemplateMedium :exec
INSERT INTO template_media (
    media_id, template_id, media_content_type, height, width, url,
    special_instruction_text, duration, file_size, thumbnail_url, position
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

type CreateTemplateMediumParams struct {
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

func (q *Queries) CreateTemplateMedium(ctx context.Context, arg CreateTemplateMediumParams) error {
	_, err := q.db.Exec(ctx, createTemplateMedium,
		arg.MediaID,
		arg.TemplateID,
		arg.MediaContentType,
		arg.Height,
		arg.Width,
		arg.Url,
		arg.SpecialInstructionText,
		arg.Duration,
		arg.FileSize,
		arg.ThumbnailUrl,
		arg.Position,
	)
	return err
}

const listTemplateMedia = `-- name: ListTemplateMedia :many
SELECT media_id, template_id, media_content_type, height, width, url,
       special_instruction_text, duration, file_size, thumbnail_url, position
FROM template_media
WHERE template_id = $1
ORDER BY position
`

func (q *Queries) ListTemplateMedia(ctx context.Context, templateID uuid.UUID) ([]TemplateMedium, error) {
	rows, err := q.db.Query(ctx, listTemplateMedia, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TemplateMedium
	for rows.Next() {
		var i TemplateMedium
		if err := rows.Scan(
			&i.MediaID,
			&i.TemplateID,
			&i.MediaContentType,
			&i.Height,
			&i.Width,
			&i.Url,
			&i.SpecialInstructionText,
			&i.Duration,
			&i.FileSize,
			&i.ThumbnailUrl,
			&i.Position,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteTemplateMedia = `-- name: DeleteTemplateMedia :exec
DELETE FROM template_media WHERE template_id = $1
`

func (q *Queries) DeleteTemplateMedia(ctx context.Context, templateID uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteTemplateMedia, templateID)
	return err
}

const createTemplateValidAnswer = `-- name: CreateTemplateValidAnswer :exec
INSERT INTO template_valid_answers (answer_id, template_id, text, boolean_value, fodder_pool_id, position)
VALUES ($1, $2, $3, $4, $5, $6)
`

type CreateTemplateValidAnswerParams struct {
	AnswerID     uuid.UUID
	TemplateID   uuid.UUID
	Text         pgtype.Text
	BooleanValue pgtype.Bool
	FodderPoolID pgtype.UUID
	Position     int32
}

func (q *Queries) CreateTemplateValidAnswer(ctx context.Context, arg CreateTemplateValidAnswerParams) error {
	_, err := q.db.Exec(ctx, createTemplateValidAnswer,
		arg.AnswerID,
		arg.TemplateID,
		arg.Text,
		arg.BooleanValue,
		arg.FodderPoolID,
		arg.Position,
	)
	return err
}

const listTemplateValidAnswers = `-- name: ListTemplateValidAnswers :many
SELECT answer_id, template_id, text, boolean_value, fodder_pool_id, position
FROM template_valid_answers
WHERE template_id = $1
ORDER BY position
`

func (q *Queries) ListTemplateValidAnswers(ctx context.Context, templateID uuid.UUID) ([]TemplateValidAnswer, error) {
	rows, err := q.db.Query(ctx, listTemplateValidAnswers, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TemplateValidAnswer
	for rows.Next() {
		var i TemplateValidAnswer
		if err := rows.Scan(&i.AnswerID, &i.TemplateID, &i.Text, &i.BooleanValue, &i.FodderPoolID, &i.Position); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteTemplateValidAnswers = `-- name: DeleteTemplateValidAnswers :exec
DELETE FROM template_valid_answers WHERE template_id = $1
`

func (q *Queries) DeleteTemplateValidAnswers(ctx context.Context, templateID uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteTemplateValidAnswers, templateID)
	return err
}
