package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/exam-engine/internal/db/queries"
	"github.com/gokatarajesh/exam-engine/internal/examerr"
	"github.com/gokatarajesh/exam-engine/internal/fodder"
)

type mockFodderStore struct {
	mock.Mock
}

func (m *mockFodderStore) CreateFodderPool(ctx context.Context, arg queries.CreateFodderPoolParams) (queries.FodderPool, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(queries.FodderPool), args.Error(1)
}

func (m *mockFodderStore) GetFodderPool(ctx context.Context, poolID uuid.UUID) (queries.FodderPool, error) {
	args := m.Called(ctx, poolID)
	return args.Get(0).(queries.FodderPool), args.Error(1)
}

func (m *mockFodderStore) ListFodderPools(ctx context.Context) ([]queries.FodderPoolSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]queries.FodderPoolSummary), args.Error(1)
}

func (m *mockFodderStore) DeleteFodderPool(ctx context.Context, poolID uuid.UUID) (int64, error) {
	args := m.Called(ctx, poolID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockFodderStore) FodderPoolExists(ctx context.Context, poolID uuid.UUID) (bool, error) {
	args := m.Called(ctx, poolID)
	return args.Bool(0), args.Error(1)
}

func (m *mockFodderStore) CreateFodderItem(ctx context.Context, arg queries.CreateFodderItemParams) (queries.FodderItem, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(queries.FodderItem), args.Error(1)
}

func (m *mockFodderStore) ListFodderItems(ctx context.Context, poolID uuid.UUID) ([]queries.FodderItem, error) {
	args := m.Called(ctx, poolID)
	return args.Get(0).([]queries.FodderItem), args.Error(1)
}

func (m *mockFodderStore) DeleteFodderItems(ctx context.Context, arg queries.DeleteFodderItemsParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func TestFodderRepository_CreatePool(t *testing.T) {
	store := new(mockFodderStore)
	repo := newFodderRepository(store)
	poolID := uuidFromByte(1)

	store.On("CreateFodderPool", mock.Anything, mock.MatchedBy(func(p queries.CreateFodderPoolParams) bool {
		return p.Name == "Historical Dates" && p.CreatedBy == "author-1" && !p.Description.Valid
	})).Return(queries.FodderPool{PoolID: poolID, Name: "Historical Dates", CreatedBy: "author-1"}, nil)

	for i, text := range []string{"July 4 1776", "Oct 12 1492"} {
		itemID := uuidFromByte(byte(10 + i))
		store.On("CreateFodderItem", mock.Anything, mock.MatchedBy(func(p queries.CreateFodderItemParams) bool {
			return p.PoolID == poolID && p.Text == text
		})).Return(queries.FodderItem{ItemID: itemID, PoolID: poolID, Text: text, CreatedBy: "author-1"}, nil).Once()
	}

	got, err := repo.CreatePool(context.Background(), fodder.NewPool{
		Name:      "Historical Dates",
		Items:     []string{"July 4 1776", "Oct 12 1492"},
		CreatedBy: "author-1",
	})
	require.NoError(t, err)
	assert.Equal(t, poolID, got.ID)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Oct 12 1492", got.Items[1].Text)
	store.AssertExpectations(t)
}

func TestFodderRepository_GetPoolNotFound(t *testing.T) {
	store := new(mockFodderStore)
	repo := newFodderRepository(store)
	poolID := uuidFromByte(2)

	store.On("GetFodderPool", mock.Anything, poolID).Return(queries.FodderPool{}, pgxErrNoRows())

	_, err := repo.GetPool(context.Background(), poolID)
	assert.True(t, examerr.IsNotFound(err))
}

func TestFodderRepository_AddItemsRequiresPool(t *testing.T) {
	store := new(mockFodderStore)
	repo := newFodderRepository(store)
	poolID := uuidFromByte(3)

	store.On("FodderPoolExists", mock.Anything, poolID).Return(false, nil)

	_, err := repo.AddItems(context.Background(), poolID, []string{"x"}, "author-1")
	assert.True(t, examerr.IsNotFound(err))
	store.AssertNotCalled(t, "CreateFodderItem", mock.Anything, mock.Anything)
}

func TestFodderRepository_RemoveItems(t *testing.T) {
	store := new(mockFodderStore)
	repo := newFodderRepository(store)
	poolID := uuidFromByte(4)
	ids := []uuid.UUID{uuidFromByte(40), uuidFromByte(41)}

	store.On("FodderPoolExists", mock.Anything, poolID).Return(true, nil)
	store.On("DeleteFodderItems", mock.Anything, queries.DeleteFodderItemsParams{PoolID: poolID, ItemIDs: ids}).Return(int64(1), nil)

	n, err := repo.RemoveItems(context.Background(), poolID, ids)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestFodderRepository_DeletePool(t *testing.T) {
	store := new(mockFodderStore)
	repo := newFodderRepository(store)

	store.On("DeleteFodderPool", mock.Anything, uuidFromByte(5)).Return(int64(1), nil)
	store.On("DeleteFodderPool", mock.Anything, uuidFromByte(6)).Return(int64(0), nil)

	assert.NoError(t, repo.DeletePool(context.Background(), uuidFromByte(5)))
	assert.True(t, examerr.IsNotFound(repo.DeletePool(context.Background(), uuidFromByte(6))))
}

func TestFodderRepository_ListPools(t *testing.T) {
	store := new(mockFodderStore)
	repo := newFodderRepository(store)

	store.On("ListFodderPools", mock.Anything).Return([]queries.FodderPoolSummary{
		{FodderPool: queries.FodderPool{PoolID: uuidFromByte(7), Name: "Capitals"}, ItemCount: 12},
	}, nil)

	got, err := repo.ListPools(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Capitals", got[0].Name)
	assert.Equal(t, 12, got[0].ItemCount)
}
