package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const instanceColumns = `i.instance_id, i.type, i.status, i.template_id, i.user_id, i.course_id,
i.start_date, i.end_date, i.started_at, i.completed_at, i.created_by, i.created_at`

func scanInstance(row pgx.Row) (ExamInstance, error) {
	var i ExamInstance
	err := row.Scan(
		&i.InstanceID,
		&i.Type,
		&i.Status,
		&i.TemplateID,
		&i.UserID,
		&i.CourseID,
		&i.StartDate,
		&i.EndDate,
		&i.StartedAt,
		&i.CompletedAt,
		&i.CreatedBy,
		&i.CreatedAt,
	)
	return i, err
}

const createExamInstance = `-- name: CreateExamInstance :one
INSERT INTO exam_instances AS i (
    instance_id, type, status, template_id, user_id, course_id, start_date, end_date, created_by
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + instanceColumns

type CreateExamInstanceParams struct {
	InstanceID uuid.UUID
	Type       string
	Status     string
	TemplateID string
	UserID     string
	CourseID   string
	StartDate  time.Time
	EndDate    time.Time
	CreatedBy  string
}

func (q *Queries) CreateExamInstance(ctx context.Context, arg CreateExamInstanceParams) (ExamInstance, error) {
	row := q.db.QueryRow(ctx, createExamInstance,
		arg.InstanceID,
		arg.Type,
		arg.Status,
		arg.TemplateID,
		arg.UserID,
		arg.CourseID,
		arg.StartDate,
		arg.EndDate,
		arg.CreatedBy,
	)
	return scanInstance(row)
}

const getExamInstanceForUpdate = `-- name: GetExamInstanceForUpdate :one
SELECT ` + instanceColumns + `
FROM exam_instances i
WHERE i.instance_id = $1
FOR UPDATE
`

func (q *Queries) GetExamInstanceForUpdate(ctx context.Context, instanceID uuid.UUID) (ExamInstance, error) {
	return scanInstance(q.db.QueryRow(ctx, getExamInstanceForUpdate, instanceID))
}

const getExamInstanceBySectionForUpdate = `-- name: GetExamInstanceBySectionForUpdate :one
SELECT ` + instanceColumns + `
FROM exam_instances i
JOIN exam_instance_sections s ON s.instance_id = i.instance_id
WHERE s.section_id = $1
FOR UPDATE OF i
`

func (q *Queries) GetExamInstanceBySectionForUpdate(ctx context.Context, sectionID uuid.UUID) (ExamInstance, error) {
	return scanInstance(q.db.QueryRow(ctx, getExamInstanceBySectionForUpdate, sectionID))
}

const getExamInstanceByQuestionForUpdate = `-- name: GetExamInstanceByQuestionForUpdate :one
SELECT ` + instanceColumns + `
FROM exam_instances i
JOIN exam_instance_sections s ON s.instance_id = i.instance_id
JOIN exam_instance_questions q ON q.section_id = s.section_id
WHERE q.question_id = $1
FOR UPDATE OF i
`

func (q *Queries) GetExamInstanceByQuestionForUpdate(ctx context.Context, questionID uuid.UUID) (ExamInstance, error) {
	return scanInstance(q.db.QueryRow(ctx, getExamInstanceByQuestionForUpdate, questionID))
}

const updateExamInstance = `-- name: UpdateExamInstance :one
UPDATE exam_instances AS i
SET status = $2, started_at = $3, completed_at = $4
WHERE i.instance_id = $1
RETURNING ` + instanceColumns

type UpdateExamInstanceParams struct {
	InstanceID  uuid.UUID
	Status      string
	StartedAt   pgtype.Timestamptz
	CompletedAt pgtype.Timestamptz
}

func (q *Queries) UpdateExamInstance(ctx context.Context, arg UpdateExamInstanceParams) (ExamInstance, error) {
	return scanInstance(q.db.QueryRow(ctx, updateExamInstance, arg.InstanceID, arg.Status, arg.StartedAt, arg.CompletedAt))
}

const sectionColumns = `section_id, instance_id, status, position, time_limit_seconds, time_spent_seconds,
started_at, last_activity_at, completed_at`

func scanSection(row pgx.Row) (ExamInstanceSection, error) {
	var i ExamInstanceSection
	err := row.Scan(
		&i.SectionID,
		&i.InstanceID,
		&i.Status,
		&i.Position,
		&i.TimeLimitSeconds,
		&i.TimeSpentSeconds,
		&i.StartedAt,
		&i.LastActivityAt,
		&i.CompletedAt,
	)
	return i, err
}

const createExamSection = `-- name: CreateExamSection :one
INSERT INTO exam_instance_sections (section_id, instance_id, status, position, time_limit_seconds)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + sectionColumns

type CreateExamSectionParams struct {
	SectionID        uuid.UUID
	InstanceID       uuid.UUID
	Status           string
	Position         int32
	TimeLimitSeconds int32
}

func (q *Queries) CreateExamSection(ctx context.Context, arg CreateExamSectionParams) (ExamInstanceSection, error) {
	return scanSection(q.db.QueryRow(ctx, createExamSection,
		arg.SectionID, arg.InstanceID, arg.Status, arg.Position, arg.TimeLimitSeconds))
}

const getExamSection = `-- name: GetExamSection :one
SELECT ` + sectionColumns + `
FROM exam_instance_sections
WHERE section_id = $1
`

func (q *Queries) GetExamSection(ctx context.Context, sectionID uuid.UUID) (ExamInstanceSection, error) {
	return scanSection(q.db.QueryRow(ctx, getExamSection, sectionID))
}

const listExamSections = `-- name: ListExamSections :many
SELECT ` + sectionColumns + `
FROM exam_instance_sections
WHERE instance_id = $1
ORDER BY position
`

func (q *Queries) ListExamSections(ctx context.Context, instanceID uuid.UUID) ([]ExamInstanceSection, error) {
	rows, err := q.db.Query(ctx, listExamSections, instanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ExamInstanceSection
	for rows.Next() {
		i, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const updateExamSection = `-- name: UpdateExamSection :one
UPDATE exam_instance_sections
SET status = $2,
    time_spent_seconds = $3,
    started_at = $4,
    last_activity_at = $5,
    completed_at = $6
WHERE section_id = $1
RETURNING ` + sectionColumns

type UpdateExamSectionParams struct {
	SectionID        uuid.UUID
	Status           string
	TimeSpentSeconds int32
	StartedAt        pgtype.Timestamptz
	LastActivityAt   pgtype.Timestamptz
	CompletedAt      pgtype.Timestamptz
}

func (q *Queries) UpdateExamSection(ctx context.Context, arg UpdateExamSectionParams) (ExamInstanceSection, error) {
	return scanSection(q.db.QueryRow(ctx, updateExamSection,
		arg.SectionID,
		arg.Status,
		arg.TimeSpentSeconds,
		arg.StartedAt,
		arg.LastActivityAt,
		arg.CompletedAt,
	))
}

const questionColumns = `question_id, section_id, template_question_id, actual_id, status, position,
student_answer, is_correct, score, answered_at`

func scanQuestion(row pgx.Row) (ExamInstanceQuestion, error) {
	var i ExamInstanceQuestion
	err := row.Scan(
		&i.QuestionID,
		&i.SectionID,
		&i.TemplateQuestionID,
		&i.ActualID,
		&i.Status,
		&i.Position,
		&i.StudentAnswer,
		&i.IsCorrect,
		&i.Score,
		&i.AnsweredAt,
	)
	return i, err
}

const createExamQuestion = `-- name: CreateExamQuestion :one
INSERT INTO exam_instance_questions (question_id, section_id, template_question_id, status, position)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + questionColumns

type CreateExamQuestionParams struct {
	QuestionID         uuid.UUID
	SectionID          uuid.UUID
	TemplateQuestionID uuid.UUID
	Status             string
	Position           int32
}

func (q *Queries) CreateExamQuestion(ctx context.Context, arg CreateExamQuestionParams) (ExamInstanceQuestion, error) {
	return scanQuestion(q.db.QueryRow(ctx, createExamQuestion,
		arg.QuestionID, arg.SectionID, arg.TemplateQuestionID, arg.Status, arg.Position))
}

const getExamQuestion = `-- name: GetExamQuestion :one
SELECT ` + questionColumns + `
FROM exam_instance_questions
WHERE question_id = $1
`

func (q *Queries) GetExamQuestion(ctx context.Context, questionID uuid.UUID) (ExamInstanceQuestion, error) {
	return scanQuestion(q.db.QueryRow(ctx, getExamQuestion, questionID))
}

const listExamQuestions = `-- name: ListExamQuestions :many
SELECT ` + questionColumns + `
FROM exam_instance_questions
WHERE section_id = $1
ORDER BY position
`

func (q *Queries) ListExamQuestions(ctx context.Context, sectionID uuid.UUID) ([]ExamInstanceQuestion, error) {
	rows, err := q.db.Query(ctx, listExamQuestions, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ExamInstanceQuestion
	for rows.Next() {
		i, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const updateExamQuestion = `-- name: UpdateExamQuestion :one
UPDATE exam_instance_questions
SET status = $2, student_answer = $3, answered_at = $4
WHERE question_id = $1
RETURNING ` + questionColumns

type UpdateExamQuestionParams struct {
	QuestionID    uuid.UUID
	Status        string
	StudentAnswer pgtype.Text
	AnsweredAt    pgtype.Timestamptz
}

func (q *Queries) UpdateExamQuestion(ctx context.Context, arg UpdateExamQuestionParams) (ExamInstanceQuestion, error) {
	return scanQuestion(q.db.QueryRow(ctx, updateExamQuestion,
		arg.QuestionID, arg.Status, arg.StudentAnswer, arg.AnsweredAt))
}

const bindExamQuestionActual = `-- name: BindExamQuestionActual :execrows
UPDATE exam_instance_questions
SET actual_id = $2
WHERE question_id = $1 AND actual_id IS NULL
`

type BindExamQuestionActualParams struct {
	QuestionID uuid.UUID
	ActualID   uuid.UUID
}

func (q *Queries) BindExamQuestionActual(ctx context.Context, arg BindExamQuestionActualParams) (int64, error) {
	tag, err := q.db.Exec(ctx, bindExamQuestionActual, arg.QuestionID, arg.ActualID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const createQuestionResponse = `-- name: CreateQuestionResponse :one
INSERT INTO exam_question_responses (response_id, question_id, answer, submitted_by, submitted_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING response_id, question_id, answer, submitted_by, submitted_at
`

type CreateQuestionResponseParams struct {
	ResponseID  uuid.UUID
	QuestionID  uuid.UUID
	Answer      string
	SubmittedBy string
	SubmittedAt time.Time
}

func (q *Queries) CreateQuestionResponse(ctx context.Context, arg CreateQuestionResponseParams) (ExamQuestionResponse, error) {
	row := q.db.QueryRow(ctx, createQuestionResponse,
		arg.ResponseID, arg.QuestionID, arg.Answer, arg.SubmittedBy, arg.SubmittedAt)
	var i ExamQuestionResponse
	err := row.Scan(&i.ResponseID, &i.QuestionID, &i.Answer, &i.SubmittedBy, &i.SubmittedAt)
	return i, err
}

const listQuestionResponses = `-- name: ListQuestionResponses :many
SELECT response_id, question_id, answer, submitted_by, submitted_at
FROM exam_question_responses
WHERE question_id = $1
ORDER BY submitted_at, response_id
`

func (q *Queries) ListQuestionResponses(ctx context.Context, questionID uuid.UUID) ([]ExamQuestionResponse, error) {
	rows, err := q.db.Query(ctx, listQuestionResponses, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ExamQuestionResponse
	for rows.Next() {
		var i ExamQuestionResponse
		if err := rows.Scan(&i.ResponseID, &i.QuestionID, &i.Answer, &i.SubmittedBy, &i.SubmittedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
