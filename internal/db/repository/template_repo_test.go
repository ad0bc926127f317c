package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/exam-engine/internal/db/queries"
	"github.com/gokatarajesh/exam-engine/internal/template"
)

type mockTemplateStore struct {
	mock.Mock
}

func (m *mockTemplateStore) CreateTemplate(ctx context.Context, arg queries.CreateTemplateParams) (queries.QuestionTemplate, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(queries.QuestionTemplate), args.Error(1)
}

func (m *mockTemplateStore) GetTemplate(ctx context.Context, templateID uuid.UUID) (queries.QuestionTemplate, error) {
	args := m.Called(ctx, templateID)
	return args.Get(0).(queries.QuestionTemplate), args.Error(1)
}

func (m *mockTemplateStore) UpdateTemplate(ctx context.Context, arg queries.UpdateTemplateParams) (queries.QuestionTemplate, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(queries.QuestionTemplate), args.Error(1)
}

func (m *mockTemplateStore) SearchTemplates(ctx context.Context, arg queries.SearchTemplatesParams) ([]queries.QuestionTemplate, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]queries.QuestionTemplate), args.Error(1)
}

func (m *mockTemplateStore) TemplateHasLiveActual(ctx context.Context, templateID uuid.UUID) (bool, error) {
	args := m.Called(ctx, templateID)
	return args.Bool(0), args.Error(1)
}

func (m *mockTemplateStore) CreateTemplateMedium(ctx context.Context, arg queries.CreateTemplateMediumParams) error {
	return m.Called(ctx, arg).Error(0)
}

func (m *mockTemplateStore) ListTemplateMedia(ctx context.Context, templateID uuid.UUID) ([]queries.TemplateMedium, error) {
	args := m.Called(ctx, templateID)
	return args.Get(0).([]queries.TemplateMedium), args.Error(1)
}

func (m *mockTemplateStore) DeleteTemplateMedia(ctx context.Context, templateID uuid.UUID) error {
	return m.Called(ctx, templateID).Error(0)
}

func (m *mockTemplateStore) CreateTemplateValidAnswer(ctx context.Context, arg queries.CreateTemplateValidAnswerParams) error {
	return m.Called(ctx, arg).Error(0)
}

func (m *mockTemplateStore) ListTemplateValidAnswers(ctx context.Context, templateID uuid.UUID) ([]queries.TemplateValidAnswer, error) {
	args := m.Called(ctx, templateID)
	return args.Get(0).([]queries.TemplateValidAnswer), args.Error(1)
}

func (m *mockTemplateStore) DeleteTemplateValidAnswers(ctx context.Context, templateID uuid.UUID) error {
	return m.Called(ctx, templateID).Error(0)
}

func TestTemplateRepository_CreateKeepsAnswerOrder(t *testing.T) {
	store := new(mockTemplateStore)
	repo := newTemplateRepository(store)
	id := uuidFromByte(1)
	pool := uuidFromByte(2)

	store.On("CreateTemplate", mock.Anything, mock.MatchedBy(func(p queries.CreateTemplateParams) bool {
		return p.UserResponseType == "multiple-choice-4" && p.Version == 1 && !p.ParentTemplateID.Valid
	})).Return(queries.QuestionTemplate{TemplateID: id, Version: 1, UserPromptType: "text", UserResponseType: "multiple-choice-4"}, nil)
	store.On("CreateTemplateValidAnswer", mock.Anything, mock.MatchedBy(func(p queries.CreateTemplateValidAnswerParams) bool {
		return p.Position == 0 && p.Text.String == "Nov 9 1989" && p.FodderPoolID.Valid
	})).Return(nil).Once()
	store.On("CreateTemplateValidAnswer", mock.Anything, mock.MatchedBy(func(p queries.CreateTemplateValidAnswerParams) bool {
		return p.Position == 1 && p.Text.String == "9 November 1989"
	})).Return(nil).Once()

	got, err := repo.Create(context.Background(), template.Record{
		Version: 1,
		Shape:   template.Shape{Prompt: template.PromptText, Response: template.ResponseMultipleChoice4},
		ValidAnswers: []template.ValidAnswer{
			{Text: strPtr("Nov 9 1989"), FodderPoolID: &pool},
			{Text: strPtr("9 November 1989")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Len(t, got.ValidAnswers, 2)
	assert.Empty(t, got.Media)
	store.AssertExpectations(t)
}

func TestTemplateRepository_UpdateReplacesOnlyFlaggedSets(t *testing.T) {
	store := new(mockTemplateStore)
	repo := newTemplateRepository(store)
	id := uuidFromByte(3)

	store.On("UpdateTemplate", mock.Anything, mock.MatchedBy(func(p queries.UpdateTemplateParams) bool {
		return p.TemplateID == id
	})).Return(queries.QuestionTemplate{TemplateID: id, Version: 1}, nil)
	store.On("DeleteTemplateValidAnswers", mock.Anything, id).Return(nil)
	store.On("CreateTemplateValidAnswer", mock.Anything, mock.Anything).Return(nil)
	store.On("ListTemplateMedia", mock.Anything, id).Return([]queries.TemplateMedium{}, nil)
	store.On("ListTemplateValidAnswers", mock.Anything, id).Return([]queries.TemplateValidAnswer{}, nil)

	_, err := repo.Update(context.Background(), id, template.Record{
		ValidAnswers: []template.ValidAnswer{{Text: strPtr("x")}},
	}, false, true)
	require.NoError(t, err)
	store.AssertNotCalled(t, "DeleteTemplateMedia", mock.Anything, mock.Anything)
	store.AssertCalled(t, "DeleteTemplateValidAnswers", mock.Anything, id)
}

func TestTemplateRepository_SearchDefaultsLimit(t *testing.T) {
	store := new(mockTemplateStore)
	repo := newTemplateRepository(store)

	store.On("SearchTemplates", mock.Anything, mock.MatchedBy(func(p queries.SearchTemplatesParams) bool {
		return p.Limit == defaultSearchLimit && p.Difficulty.String == "hard" && !p.SearchTerm.Valid
	})).Return([]queries.QuestionTemplate{}, nil)

	got, err := repo.Search(context.Background(), template.Filter{Difficulty: "hard"})
	require.NoError(t, err)
	assert.Empty(t, got)
}
