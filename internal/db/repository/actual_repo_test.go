package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/exam-engine/internal/actual"
	"github.com/gokatarajesh/exam-engine/internal/db/queries"
	"github.com/gokatarajesh/exam-engine/internal/examerr"
)

type mockActualStore struct {
	mock.Mock
}

func (m *mockActualStore) CreateActual(ctx context.Context, arg queries.CreateActualParams) (queries.QuestionActual, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(queries.QuestionActual), args.Error(1)
}

func (m *mockActualStore) GetActual(ctx context.Context, actualID uuid.UUID) (queries.QuestionActual, error) {
	args := m.Called(ctx, actualID)
	return args.Get(0).(queries.QuestionActual), args.Error(1)
}

func (m *mockActualStore) CreateActualChoice(ctx context.Context, arg queries.CreateActualChoiceParams) (queries.ActualChoice, error) {
	args := m.Called(ctx, arg)
	if fn, ok := args.Get(0).(func(queries.CreateActualChoiceParams) queries.ActualChoice); ok {
		return fn(arg), args.Error(1)
	}
	return args.Get(0).(queries.ActualChoice), args.Error(1)
}

func (m *mockActualStore) ListActualChoices(ctx context.Context, actualID uuid.UUID) ([]queries.ActualChoice, error) {
	args := m.Called(ctx, actualID)
	return args.Get(0).([]queries.ActualChoice), args.Error(1)
}

func (m *mockActualStore) CreateActualValidAnswer(ctx context.Context, arg queries.CreateActualValidAnswerParams) (queries.ActualValidAnswer, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(queries.ActualValidAnswer), args.Error(1)
}

func (m *mockActualStore) ListActualValidAnswers(ctx context.Context, actualID uuid.UUID) ([]queries.ActualValidAnswer, error) {
	args := m.Called(ctx, actualID)
	return args.Get(0).([]queries.ActualValidAnswer), args.Error(1)
}

func TestActualRepository_CreateWritesActualBeforeChildren(t *testing.T) {
	store := new(mockActualStore)
	repo := newActualRepository(store)
	actualID := uuidFromByte(1)
	templateID := uuidFromByte(2)

	var order []string
	store.On("CreateActual", mock.Anything, mock.MatchedBy(func(p queries.CreateActualParams) bool {
		return p.TemplateID == templateID && p.ExamType == "practice" && p.SectionPosition == 3
	})).Run(func(mock.Arguments) { order = append(order, "actual") }).
		Return(queries.QuestionActual{ActualID: actualID, TemplateID: templateID, ExamType: "practice", SectionPosition: 3}, nil)
	store.On("CreateActualChoice", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { order = append(order, "choice") }).
		Return(func(p queries.CreateActualChoiceParams) queries.ActualChoice {
			return queries.ActualChoice{ActualID: p.ActualID, Text: p.Text, IsCorrect: p.IsCorrect, Position: p.Position}
		}, nil)
	store.On("CreateActualValidAnswer", mock.Anything, mock.MatchedBy(func(p queries.CreateActualValidAnswerParams) bool {
		return p.ActualID == actualID && p.Text.String == "True" && !p.BooleanValue.Valid
	})).Run(func(mock.Arguments) { order = append(order, "answer") }).
		Return(queries.ActualValidAnswer{ActualID: actualID, Text: pgtype.Text{String: "True", Valid: true}}, nil)

	got, err := repo.Create(context.Background(), actual.NewActual{
		TemplateID:      templateID,
		ExamType:        actual.ExamPractice,
		SectionPosition: 3,
		Choices: []actual.Choice{
			{Text: "True", IsCorrect: true, Position: 0},
			{Text: "False", Position: 1},
		},
		ValidAnswers: []actual.ValidAnswer{{Text: strPtr("True")}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"actual", "choice", "choice", "answer"}, order)
	assert.Equal(t, actualID, got.ID)
	require.Len(t, got.Choices, 2)
	assert.True(t, got.Choices[0].IsCorrect)
	require.Len(t, got.ValidAnswers, 1)
}

func TestActualRepository_CreateStopsOnChoiceFailure(t *testing.T) {
	store := new(mockActualStore)
	repo := newActualRepository(store)

	store.On("CreateActual", mock.Anything, mock.Anything).Return(queries.QuestionActual{ActualID: uuidFromByte(1)}, nil)
	store.On("CreateActualChoice", mock.Anything, mock.Anything).Return(queries.ActualChoice{}, errors.New("boom"))

	_, err := repo.Create(context.Background(), actual.NewActual{
		ExamType: actual.ExamLive,
		Choices:  []actual.Choice{{Text: "a"}, {Text: "b", Position: 1}},
	})
	require.Error(t, err)
	store.AssertNumberOfCalls(t, "CreateActualChoice", 1)
	store.AssertNotCalled(t, "CreateActualValidAnswer", mock.Anything, mock.Anything)
}

func TestActualRepository_GetHydrates(t *testing.T) {
	store := new(mockActualStore)
	repo := newActualRepository(store)
	id := uuidFromByte(9)

	store.On("GetActual", mock.Anything, id).Return(queries.QuestionActual{ActualID: id, ExamType: "live", UserResponseType: "multiple-choice-4"}, nil)
	store.On("ListActualChoices", mock.Anything, id).Return([]queries.ActualChoice{
		{ActualID: id, Text: "a", Position: 0},
		{ActualID: id, Text: "b", Position: 1, IsCorrect: true},
	}, nil)
	store.On("ListActualValidAnswers", mock.Anything, id).Return([]queries.ActualValidAnswer{}, nil)

	got, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, actual.ExamLive, got.ExamType)
	assert.Len(t, got.Choices, 2)
	assert.Empty(t, got.ValidAnswers)
}

func TestActualRepository_GetNotFound(t *testing.T) {
	store := new(mockActualStore)
	repo := newActualRepository(store)

	store.On("GetActual", mock.Anything, uuidFromByte(1)).Return(queries.QuestionActual{}, pgxErrNoRows())

	_, err := repo.Get(context.Background(), uuidFromByte(1))
	assert.True(t, examerr.IsNotFound(err))
}
