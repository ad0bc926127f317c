package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gokatarajesh/exam-engine/internal/db/queries"
	"github.com/gokatarajesh/exam-engine/internal/lifecycle"
)

type examStore interface {
	CreateExamInstance(ctx context.Context, arg queries.CreateExamInstanceParams) (queries.ExamInstance, error)
	GetExamInstanceForUpdate(ctx context.Context, instanceID uuid.UUID) (queries.ExamInstance, error)
	GetExamInstanceBySectionForUpdate(ctx context.Context, sectionID uuid.UUID) (queries.ExamInstance, error)
	GetExamInstanceByQuestionForUpdate(ctx context.Context, questionID uuid.UUID) (queries.ExamInstance, error)
	UpdateExamInstance(ctx context.Context, arg queries.UpdateExamInstanceParams) (queries.ExamInstance, error)

	CreateExamSection(ctx context.Context, arg queries.CreateExamSectionParams) (queries.ExamInstanceSection, error)
	GetExamSection(ctx context.Context, sectionID uuid.UUID) (queries.ExamInstanceSection, error)
	ListExamSections(ctx context.Context, instanceID uuid.UUID) ([]queries.ExamInstanceSection, error)
	UpdateExamSection(ctx context.Context, arg queries.UpdateExamSectionParams) (queries.ExamInstanceSection, error)

	CreateExamQuestion(ctx context.Context, arg queries.CreateExamQuestionParams) (queries.ExamInstanceQuestion, error)
	GetExamQuestion(ctx context.Context, questionID uuid.UUID) (queries.ExamInstanceQuestion, error)
	ListExamQuestions(ctx context.Context, sectionID uuid.UUID) ([]queries.ExamInstanceQuestion, error)
	UpdateExamQuestion(ctx context.Context, arg queries.UpdateExamQuestionParams) (queries.ExamInstanceQuestion, error)
	BindExamQuestionActual(ctx context.Context, arg queries.BindExamQuestionActualParams) (int64, error)

	CreateQuestionResponse(ctx context.Context, arg queries.CreateQuestionResponseParams) (queries.ExamQuestionResponse, error)
	ListQuestionResponses(ctx context.Context, questionID uuid.UUID) ([]queries.ExamQuestionResponse, error)
}

// ExamRepository persists exam instances, sections, questions and the response log.
type ExamRepository struct {
	inTx txRunner[examStore]
}

var _ lifecycle.Store = (*ExamRepository)(nil)

func NewExamRepository(db *queries.Store) *ExamRepository {
	return &ExamRepository{inTx: storeTx(db, func(q *queries.Queries) examStore { return q })}
}

func newExamRepository(store examStore) *ExamRepository {
	return &ExamRepository{inTx: directTx(store)}
}

// CreateInstance writes the instance tree with positions assigned from 0 in
// request order.
func (r *ExamRepository) CreateInstance(ctx context.Context, req lifecycle.CreateInstanceRequest, createdBy string) (lifecycle.Instance, error) {
	var out lifecycle.Instance
	err := r.inTx(ctx, func(s examStore) error {
		row, err := s.CreateExamInstance(ctx, queries.CreateExamInstanceParams{
			InstanceID: uuid.New(),
			Type:       req.Type,
			Status:     string(lifecycle.InstanceScheduled),
			TemplateID: req.TemplateID,
			UserID:     req.UserID,
			CourseID:   req.CourseID,
			StartDate:  req.StartDate,
			EndDate:    req.EndDate,
			CreatedBy:  createdBy,
		})
		if err != nil {
			return fmt.Errorf("insert instance: %w", err)
		}
		out = instanceFromRow(row)

		for si, ns := range req.Sections {
			srow, err := s.CreateExamSection(ctx, queries.CreateExamSectionParams{
				SectionID:        uuid.New(),
				InstanceID:       row.InstanceID,
				Status:           string(lifecycle.SectionNotStarted),
				Position:         int32(si),
				TimeLimitSeconds: int32(ns.TimeLimitSeconds),
			})
			if err != nil {
				return fmt.Errorf("insert section %d: %w", si, err)
			}
			sec := sectionFromRow(srow)
			for qi, templateID := range ns.QuestionTemplateIDs {
				qrow, err := s.CreateExamQuestion(ctx, queries.CreateExamQuestionParams{
					QuestionID:         uuid.New(),
					SectionID:          srow.SectionID,
					TemplateQuestionID: templateID,
					Status:             string(lifecycle.QuestionUnanswered),
					Position:           int32(qi),
				})
				if err != nil {
					return fmt.Errorf("insert question %d/%d: %w", si, qi, err)
				}
				sec.Questions = append(sec.Questions, questionFromRow(qrow))
			}
			out.Sections = append(out.Sections, sec)
		}
		return nil
	})
	return out, err
}

// WithinTx runs fn in one database transaction.
func (r *ExamRepository) WithinTx(ctx context.Context, fn func(lifecycle.Tx) error) error {
	return r.inTx(ctx, func(s examStore) error {
		return fn(examTx{s: s})
	})
}

type examTx struct {
	s examStore
}

func (t examTx) LockInstance(ctx context.Context, instanceID uuid.UUID) (lifecycle.Instance, error) {
	row, err := t.s.GetExamInstanceForUpdate(ctx, instanceID)
	if err != nil {
		return lifecycle.Instance{}, notFound(err, "exam instance", instanceID)
	}
	return instanceFromRow(row), nil
}

func (t examTx) LockInstanceBySection(ctx context.Context, sectionID uuid.UUID) (lifecycle.Instance, error) {
	row, err := t.s.GetExamInstanceBySectionForUpdate(ctx, sectionID)
	if err != nil {
		return lifecycle.Instance{}, notFound(err, "section", sectionID)
	}
	return instanceFromRow(row), nil
}

func (t examTx) LockInstanceByQuestion(ctx context.Context, questionID uuid.UUID) (lifecycle.Instance, error) {
	row, err := t.s.GetExamInstanceByQuestionForUpdate(ctx, questionID)
	if err != nil {
		return lifecycle.Instance{}, notFound(err, "question", questionID)
	}
	return instanceFromRow(row), nil
}

func (t examTx) GetSection(ctx context.Context, sectionID uuid.UUID) (lifecycle.Section, error) {
	row, err := t.s.GetExamSection(ctx, sectionID)
	if err != nil {
		return lifecycle.Section{}, notFound(err, "section", sectionID)
	}
	return sectionFromRow(row), nil
}

func (t examTx) ListSections(ctx context.Context, instanceID uuid.UUID) ([]lifecycle.Section, error) {
	rows, err := t.s.ListExamSections(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	out := make([]lifecycle.Section, 0, len(rows))
	for _, row := range rows {
		out = append(out, sectionFromRow(row))
	}
	return out, nil
}

func (t examTx) GetQuestion(ctx context.Context, questionID uuid.UUID) (lifecycle.Question, error) {
	row, err := t.s.GetExamQuestion(ctx, questionID)
	if err != nil {
		return lifecycle.Question{}, notFound(err, "question", questionID)
	}
	return questionFromRow(row), nil
}

func (t examTx) ListQuestions(ctx context.Context, sectionID uuid.UUID) ([]lifecycle.Question, error) {
	rows, err := t.s.ListExamQuestions(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	out := make([]lifecycle.Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, questionFromRow(row))
	}
	return out, nil
}

func (t examTx) ListResponses(ctx context.Context, questionID uuid.UUID) ([]lifecycle.Response, error) {
	rows, err := t.s.ListQuestionResponses(ctx, questionID)
	if err != nil {
		return nil, err
	}
	out := make([]lifecycle.Response, 0, len(rows))
	for _, row := range rows {
		out = append(out, responseFromRow(row))
	}
	return out, nil
}

func (t examTx) UpdateInstance(ctx context.Context, inst lifecycle.Instance) error {
	_, err := t.s.UpdateExamInstance(ctx, queries.UpdateExamInstanceParams{
		InstanceID:  inst.ID,
		Status:      string(inst.Status),
		StartedAt:   pgTime(inst.StartedAt),
		CompletedAt: pgTime(inst.CompletedAt),
	})
	if err != nil {
		return fmt.Errorf("update instance: %w", notFound(err, "exam instance", inst.ID))
	}
	return nil
}

func (t examTx) UpdateSection(ctx context.Context, sec lifecycle.Section) error {
	_, err := t.s.UpdateExamSection(ctx, queries.UpdateExamSectionParams{
		SectionID:        sec.ID,
		Status:           string(sec.Status),
		TimeSpentSeconds: int32(sec.TimeSpentSeconds),
		StartedAt:        pgTime(sec.StartedAt),
		LastActivityAt:   pgTime(sec.LastActivityAt),
		CompletedAt:      pgTime(sec.CompletedAt),
	})
	if err != nil {
		return fmt.Errorf("update section: %w", notFound(err, "section", sec.ID))
	}
	return nil
}

func (t examTx) UpdateQuestion(ctx context.Context, q lifecycle.Question) error {
	_, err := t.s.UpdateExamQuestion(ctx, queries.UpdateExamQuestionParams{
		QuestionID:    q.ID,
		Status:        string(q.Status),
		StudentAnswer: pgText(q.StudentAnswer),
		AnsweredAt:    pgTime(q.AnsweredAt),
	})
	if err != nil {
		return fmt.Errorf("update question: %w", notFound(err, "question", q.ID))
	}
	return nil
}

func (t examTx) AppendResponse(ctx context.Context, r lifecycle.Response) (lifecycle.Response, error) {
	row, err := t.s.CreateQuestionResponse(ctx, queries.CreateQuestionResponseParams{
		ResponseID:  uuid.New(),
		QuestionID:  r.QuestionID,
		Answer:      r.Answer,
		SubmittedBy: r.SubmittedBy,
		SubmittedAt: r.SubmittedAt,
	})
	if err != nil {
		return lifecycle.Response{}, fmt.Errorf("append response: %w", err)
	}
	return responseFromRow(row), nil
}

func (t examTx) BindActual(ctx context.Context, questionID, actualID uuid.UUID) (bool, error) {
	n, err := t.s.BindExamQuestionActual(ctx, queries.BindExamQuestionActualParams{
		QuestionID: questionID,
		ActualID:   actualID,
	})
	if err != nil {
		return false, fmt.Errorf("bind actual: %w", err)
	}
	return n == 1, nil
}

func instanceFromRow(row queries.ExamInstance) lifecycle.Instance {
	return lifecycle.Instance{
		ID:          row.InstanceID,
		Type:        lifecycle.InstanceType(row.Type),
		Status:      lifecycle.InstanceStatus(row.Status),
		TemplateID:  row.TemplateID,
		UserID:      row.UserID,
		CourseID:    row.CourseID,
		StartDate:   row.StartDate,
		EndDate:     row.EndDate,
		StartedAt:   timePtr(row.StartedAt),
		CompletedAt: timePtr(row.CompletedAt),
		CreatedBy:   row.CreatedBy,
	}
}

func sectionFromRow(row queries.ExamInstanceSection) lifecycle.Section {
	return lifecycle.Section{
		ID:               row.SectionID,
		InstanceID:       row.InstanceID,
		Status:           lifecycle.SectionStatus(row.Status),
		Position:         int(row.Position),
		TimeLimitSeconds: int(row.TimeLimitSeconds),
		TimeSpentSeconds: int(row.TimeSpentSeconds),
		StartedAt:        timePtr(row.StartedAt),
		LastActivityAt:   timePtr(row.LastActivityAt),
		CompletedAt:      timePtr(row.CompletedAt),
	}
}

func questionFromRow(row queries.ExamInstanceQuestion) lifecycle.Question {
	return lifecycle.Question{
		ID:                 row.QuestionID,
		SectionID:          row.SectionID,
		TemplateQuestionID: row.TemplateQuestionID,
		ActualID:           uuidPtr(row.ActualID),
		Status:             lifecycle.QuestionStatus(row.Status),
		Position:           int(row.Position),
		StudentAnswer:      textPtr(row.StudentAnswer),
		IsCorrect:          row.IsCorrect,
		Score:              float8Ptr(row.Score),
		AnsweredAt:         timePtr(row.AnsweredAt),
	}
}

func responseFromRow(row queries.ExamQuestionResponse) lifecycle.Response {
	return lifecycle.Response{
		ID:          row.ResponseID,
		QuestionID:  row.QuestionID,
		Answer:      row.Answer,
		SubmittedBy: row.SubmittedBy,
		SubmittedAt: row.SubmittedAt,
	}
}
