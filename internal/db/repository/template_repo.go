package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gokatarajesh/exam-engine/internal/db/queries"
	"github.com/gokatarajesh/exam-engine/internal/template"
)

const defaultSearchLimit = 50

type templateStore interface {
	CreateTemplate(ctx context.Context, arg queries.CreateTemplateParams) (queries.QuestionTemplate, error)
	GetTemplate(ctx context.Context, templateID uuid.UUID) (queries.QuestionTemplate, error)
	UpdateTemplate(ctx context.Context, arg queries.UpdateTemplateParams) (queries.QuestionTemplate, error)
	SearchTemplates(ctx context.Context, arg queries.SearchTemplatesParams) ([]queries.QuestionTemplate, error)
	TemplateHasLiveActual(ctx context.Context, templateID uuid.UUID) (bool, error)
	CreateTemplateMedium(ctx context.Context, arg queries.CreateTemplateMediumParams) error
	ListTemplateMedia(ctx context.Context, templateID uuid.UUID) ([]queries.TemplateMedium, error)
	DeleteTemplateMedia(ctx context.Context, templateID uuid.UUID) error
	CreateTemplateValidAnswer(ctx context.Context, arg queries.CreateTemplateValidAnswerParams) error
	ListTemplateValidAnswers(ctx context.Context, templateID uuid.UUID) ([]queries.TemplateValidAnswer, error)
	DeleteTemplateValidAnswers(ctx context.Context, templateID uuid.UUID) error
}

// TemplateRepository persists question templates with their media and valid answers.
type TemplateRepository struct {
	store templateStore
	inTx  txRunner[templateStore]
}

func NewTemplateRepository(db *queries.Store) *TemplateRepository {
	return &TemplateRepository{
		store: db,
		inTx:  storeTx(db, func(q *queries.Queries) templateStore { return q }),
	}
}

func newTemplateRepository(store templateStore) *TemplateRepository {
	return &TemplateRepository{store: store, inTx: directTx(store)}
}

// Create inserts a template row plus its media and answers in one transaction.
func (r *TemplateRepository) Create(ctx context.Context, rec template.Record) (template.Template, error) {
	var out template.Template
	err := r.inTx(ctx, func(s templateStore) error {
		row, err := s.CreateTemplate(ctx, queries.CreateTemplateParams{
			TemplateID:       uuid.New(),
			ParentTemplateID: pgUUID(rec.ParentTemplateID),
			Version:          int32(rec.Version),
			UserPromptType:   string(rec.Shape.Prompt),
			UserResponseType: string(rec.Shape.Response),
			ExclusivityType:  string(rec.ExclusivityType),
			UserPromptText:   pgText(rec.UserPromptText),
			InstructionText:  pgText(rec.InstructionText),
			Difficulty:       pgText(rec.Difficulty),
			Topics:           rec.Topics,
			CourseID:         pgText(rec.CourseID),
			CreatedBy:        rec.CreatedBy,
		})
		if err != nil {
			return fmt.Errorf("insert template: %w", err)
		}
		if err := insertMedia(ctx, s, row.TemplateID, rec.Media); err != nil {
			return err
		}
		if err := insertValidAnswers(ctx, s, row.TemplateID, rec.ValidAnswers); err != nil {
			return err
		}
		out = templateFromRow(row)
		out.Media = nonNilMedia(rec.Media)
		out.ValidAnswers = nonNilAnswers(rec.ValidAnswers)
		return nil
	})
	return out, err
}

// Get loads a template with media and valid answers in stored order.
func (r *TemplateRepository) Get(ctx context.Context, templateID uuid.UUID) (template.Template, error) {
	row, err := r.store.GetTemplate(ctx, templateID)
	if err != nil {
		return template.Template{}, notFound(err, "template", templateID)
	}
	return r.hydrate(ctx, r.store, row)
}

// Update rewrites the template row. Media and valid answers are deleted and
// re-inserted as complete sets when the matching replace flag is set.
func (r *TemplateRepository) Update(ctx context.Context, templateID uuid.UUID, rec template.Record, replaceMedia, replaceAnswers bool) (template.Template, error) {
	var out template.Template
	err := r.inTx(ctx, func(s templateStore) error {
		row, err := s.UpdateTemplate(ctx, queries.UpdateTemplateParams{
			TemplateID:       templateID,
			UserPromptType:   string(rec.Shape.Prompt),
			UserResponseType: string(rec.Shape.Response),
			ExclusivityType:  string(rec.ExclusivityType),
			UserPromptText:   pgText(rec.UserPromptText),
			InstructionText:  pgText(rec.InstructionText),
			Difficulty:       pgText(rec.Difficulty),
			Topics:           rec.Topics,
			CourseID:         pgText(rec.CourseID),
		})
		if err != nil {
			return notFound(err, "template", templateID)
		}
		if replaceMedia {
			if err := s.DeleteTemplateMedia(ctx, templateID); err != nil {
				return fmt.Errorf("delete media: %w", err)
			}
			if err := insertMedia(ctx, s, templateID, rec.Media); err != nil {
				return err
			}
		}
		if replaceAnswers {
			if err := s.DeleteTemplateValidAnswers(ctx, templateID); err != nil {
				return fmt.Errorf("delete valid answers: %w", err)
			}
			if err := insertValidAnswers(ctx, s, templateID, rec.ValidAnswers); err != nil {
				return err
			}
		}
		out, err = r.hydrate(ctx, s, row)
		return err
	})
	return out, err
}

// Search applies every non-empty filter field conjunctively.
func (r *TemplateRepository) Search(ctx context.Context, f template.Filter) ([]template.Template, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	rows, err := r.store.SearchTemplates(ctx, queries.SearchTemplatesParams{
		SearchTerm:   optionalText(f.SearchTerm),
		Difficulty:   optionalText(f.Difficulty),
		Topics:       f.Topics,
		PromptType:   optionalText(f.PromptType),
		ResponseType: optionalText(f.ResponseType),
		CourseID:     optionalText(f.CourseID),
		Limit:        int32(limit),
		Offset:       int32(f.Offset),
	})
	if err != nil {
		return nil, err
	}
	out := make([]template.Template, 0, len(rows))
	for _, row := range rows {
		t, err := r.hydrate(ctx, r.store, row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// HasLiveActual reports whether a live actual has been generated from the template.
func (r *TemplateRepository) HasLiveActual(ctx context.Context, templateID uuid.UUID) (bool, error) {
	return r.store.TemplateHasLiveActual(ctx, templateID)
}

func (r *TemplateRepository) hydrate(ctx context.Context, s templateStore, row queries.QuestionTemplate) (template.Template, error) {
	t := templateFromRow(row)
	media, err := s.ListTemplateMedia(ctx, row.TemplateID)
	if err != nil {
		return template.Template{}, fmt.Errorf("list media: %w", err)
	}
	t.Media = make([]template.Media, 0, len(media))
	for _, m := range media {
		t.Media = append(t.Media, template.Media{
			MediaContentType:       m.MediaContentType,
			Height:                 int(m.Height),
			Width:                  int(m.Width),
			URL:                    m.Url,
			SpecialInstructionText: textPtr(m.SpecialInstructionText),
			Duration:               int4Ptr(m.Duration),
			FileSize:               int8Ptr(m.FileSize),
			ThumbnailURL:           textPtr(m.ThumbnailUrl),
		})
	}
	answers, err := s.ListTemplateValidAnswers(ctx, row.TemplateID)
	if err != nil {
		return template.Template{}, fmt.Errorf("list valid answers: %w", err)
	}
	t.ValidAnswers = make([]template.ValidAnswer, 0, len(answers))
	for _, a := range answers {
		t.ValidAnswers = append(t.ValidAnswers, template.ValidAnswer{
			Text:         textPtr(a.Text),
			BooleanValue: boolPtr(a.BooleanValue),
			FodderPoolID: uuidPtr(a.FodderPoolID),
		})
	}
	return t, nil
}

func insertMedia(ctx context.Context, s templateStore, templateID uuid.UUID, media []template.Media) error {
	for i, m := range media {
		err := s.CreateTemplateMedium(ctx, queries.CreateTemplateMediumParams{
			MediaID:                uuid.New(),
			TemplateID:             templateID,
			MediaContentType:       m.MediaContentType,
			Height:                 int32(m.Height),
			Width:                  int32(m.Width),
			Url:                    m.URL,
			SpecialInstructionText: pgText(m.SpecialInstructionText),
			Duration:               pgInt4(m.Duration),
			FileSize:               pgInt8(m.FileSize),
			ThumbnailUrl:           pgText(m.ThumbnailURL),
			Position:               int32(i),
		})
		if err != nil {
			return fmt.Errorf("insert media %d: %w", i, err)
		}
	}
	return nil
}

func insertValidAnswers(ctx context.Context, s templateStore, templateID uuid.UUID, answers []template.ValidAnswer) error {
	for i, a := range answers {
		err := s.CreateTemplateValidAnswer(ctx, queries.CreateTemplateValidAnswerParams{
			AnswerID:     uuid.New(),
			TemplateID:   templateID,
			Text:         pgText(a.Text),
			BooleanValue: pgBool(a.BooleanValue),
			FodderPoolID: pgUUID(a.FodderPoolID),
			Position:     int32(i),
		})
		if err != nil {
			return fmt.Errorf("insert valid answer %d: %w", i, err)
		}
	}
	return nil
}

func templateFromRow(row queries.QuestionTemplate) template.Template {
	topics := row.Topics
	if topics == nil {
		topics = []string{}
	}
	return template.Template{
		ID:               row.TemplateID,
		ParentTemplateID: uuidPtr(row.ParentTemplateID),
		Version:          int(row.Version),
		UserPromptType:   template.PromptType(row.UserPromptType),
		UserResponseType: template.ResponseType(row.UserResponseType),
		ExclusivityType:  template.Exclusivity(row.ExclusivityType),
		UserPromptText:   textPtr(row.UserPromptText),
		InstructionText:  textPtr(row.InstructionText),
		Difficulty:       textPtr(row.Difficulty),
		Topics:           topics,
		CourseID:         textPtr(row.CourseID),
		CreatedBy:        row.CreatedBy,
		CreatedAt:        row.CreatedAt,
	}
}

func nonNilMedia(m []template.Media) []template.Media {
	if m == nil {
		return []template.Media{}
	}
	return m
}

func nonNilAnswers(a []template.ValidAnswer) []template.ValidAnswer {
	if a == nil {
		return []template.ValidAnswer{}
	}
	return a
}
