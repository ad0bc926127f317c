package actual

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/exam-engine/internal/examerr"
	"github.com/gokatarajesh/exam-engine/internal/logging"
)

type memoryCache struct {
	mu    sync.Mutex
	store map[uuid.UUID]Actual
	fail  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{store: map[uuid.UUID]Actual{}}
}

func (c *memoryCache) Get(_ context.Context, id uuid.UUID) (*Actual, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return nil, c.fail
	}
	if a, ok := c.store[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (c *memoryCache) Set(_ context.Context, a Actual) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[a.ID] = a
	return nil
}

type stubRepo struct {
	reads   atomic.Int32
	delay   time.Duration
	actuals map[uuid.UUID]Actual
}

func (r *stubRepo) Get(_ context.Context, id uuid.UUID) (Actual, error) {
	r.reads.Add(1)
	time.Sleep(r.delay)
	a, ok := r.actuals[id]
	if !ok {
		return Actual{}, examerr.NotFound("actual", id.String())
	}
	return a, nil
}

type stubGenerator struct {
	out Actual
	err error
}

func (g stubGenerator) Generate(_ context.Context, templateID uuid.UUID, examType ExamType, pos int) (Actual, error) {
	if g.err != nil {
		return Actual{}, g.err
	}
	a := g.out
	a.TemplateID, a.ExamType, a.SectionPosition = templateID, examType, pos
	return a, nil
}

func strPtr(s string) *string { return &s }

func liveActual() Actual {
	return Actual{
		ID:               uuid.New(),
		ExamType:         ExamLive,
		UserResponseType: "multiple-choice-4",
		Choices: []Choice{
			{Text: "July 4 1776", Position: 0},
			{Text: "Nov 9 1989", Position: 1, IsCorrect: true},
			{Text: "Oct 12 1492", Position: 2},
			{Text: "June 6 1944", Position: 3},
		},
	}
}

func TestService_GetUsesCacheAfterFirstRead(t *testing.T) {
	a := liveActual()
	repo := &stubRepo{actuals: map[uuid.UUID]Actual{a.ID: a}}
	cache := newMemoryCache()
	svc := NewService(repo, cache, nil, nil, zerolog.New(io.Discard))

	for i := 0; i < 3; i++ {
		got, err := svc.Get(context.Background(), a.ID)
		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)
	}
	assert.Equal(t, int32(1), repo.reads.Load())
}

func TestService_GetCoalescesConcurrentMisses(t *testing.T) {
	a := liveActual()
	repo := &stubRepo{actuals: map[uuid.UUID]Actual{a.ID: a}, delay: 50 * time.Millisecond}
	svc := NewService(repo, nil, nil, nil, zerolog.New(io.Discard))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Get(context.Background(), a.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Less(t, repo.reads.Load(), int32(10))
}

func TestService_GetFallsBackWhenCacheFails(t *testing.T) {
	a := liveActual()
	repo := &stubRepo{actuals: map[uuid.UUID]Actual{a.ID: a}}
	cache := newMemoryCache()
	cache.fail = errors.New("redis down")
	svc := NewService(repo, cache, nil, nil, zerolog.New(io.Discard))

	got, err := svc.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.True(t, examerr.IsNotFound(err))
}

func TestService_GenerateWarmsCache(t *testing.T) {
	a := liveActual()
	cache := newMemoryCache()
	svc := NewService(&stubRepo{}, cache, stubGenerator{out: a}, nil, zerolog.New(io.Discard))

	got, err := svc.Generate(context.Background(), uuid.New(), ExamLive, 1)
	require.NoError(t, err)
	cached, err := cache.Get(context.Background(), got.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, 1, cached.SectionPosition)
}

func TestToDTO_HidesKeyOnLive(t *testing.T) {
	live := liveActual()
	live.ValidAnswers = []ValidAnswer{{Text: strPtr("Nov 9 1989")}}
	dto := live.ToDTO()
	assert.Nil(t, dto.ValidAnswers)
	for _, c := range dto.Choices {
		assert.Nil(t, c.IsCorrect)
	}

	practice := liveActual()
	practice.ExamType = ExamPractice
	practice.ValidAnswers = []ValidAnswer{{Text: strPtr("Nov 9 1989")}}
	dto = practice.ToDTO()
	require.Len(t, dto.ValidAnswers, 1)
	require.NotNil(t, dto.Choices[1].IsCorrect)
	assert.True(t, *dto.Choices[1].IsCorrect)
}

func TestAcceptsAnswer(t *testing.T) {
	mc := liveActual()
	assert.True(t, mc.AcceptsAnswer("Nov 9 1989"))
	assert.False(t, mc.AcceptsAnswer("Nov 10 1989"))

	ft := Actual{UserResponseType: "free-text-255"}
	assert.True(t, ft.AcceptsAnswer(strings.Repeat("a", 255)))
	assert.False(t, ft.AcceptsAnswer(strings.Repeat("a", 256)))
}

func TestHTTPHandler_GenerateLiveOmitsKey(t *testing.T) {
	a := liveActual()
	svc := NewService(&stubRepo{}, nil, stubGenerator{out: a}, nil, zerolog.New(io.Discard))
	routes := NewHTTPHandler(svc, zerolog.New(io.Discard)).Routes()

	body := `{"templateId":"` + uuid.NewString() + `","examType":"live","sectionPosition":0}`
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "validAnswers")
	assert.NotContains(t, rec.Body.String(), "isCorrect")

	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"examType":"mock"}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHTTPHandler_GenerateMapsInsufficientFodder(t *testing.T) {
	gen := stubGenerator{err: &examerr.InsufficientFodderError{PoolID: "p", Eligible: 1, Required: 3}}
	svc := NewService(&stubRepo{}, nil, gen, nil, zerolog.New(io.Discard))
	routes := NewHTTPHandler(svc, zerolog.New(io.Discard)).Routes()

	body := `{"templateId":"` + uuid.NewString() + `","examType":"practice","sectionPosition":0}`
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient_fodder")
}

func TestHTTPHandler_FailureLogsWithRequestLogger(t *testing.T) {
	gen := stubGenerator{err: &examerr.InsufficientFodderError{PoolID: "p", Eligible: 1, Required: 3}}
	svc := NewService(&stubRepo{}, nil, gen, nil, zerolog.New(io.Discard))
	routes := NewHTTPHandler(svc, zerolog.New(io.Discard)).Routes()

	var buf bytes.Buffer
	reqLogger := zerolog.New(&buf).With().Str("request_id", "req-7").Logger()
	body := `{"templateId":"` + uuid.NewString() + `","examType":"practice","sectionPosition":0}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req = req.WithContext(logging.IntoContext(req.Context(), reqLogger))

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, buf.String(), `"request_id":"req-7"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "actual request failed")
}
