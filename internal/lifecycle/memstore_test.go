package lifecycle

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gokatarajesh/exam-engine/internal/examerr"
)

// memStore is an in-memory Store. WithinTx holds a single mutex and restores
// a snapshot when fn fails.
type memStore struct {
	mu        sync.Mutex
	instances map[uuid.UUID]Instance
	sections  map[uuid.UUID]Section
	questions map[uuid.UUID]Question
	responses map[uuid.UUID][]Response
}

func newMemStore() *memStore {
	return &memStore{
		instances: map[uuid.UUID]Instance{},
		sections:  map[uuid.UUID]Section{},
		questions: map[uuid.UUID]Question{},
		responses: map[uuid.UUID][]Response{},
	}
}

func (m *memStore) CreateInstance(_ context.Context, req CreateInstanceRequest, createdBy string) (Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inst := Instance{
		ID:         uuid.New(),
		Type:       InstanceType(req.Type),
		Status:     InstanceScheduled,
		TemplateID: req.TemplateID,
		UserID:     req.UserID,
		CourseID:   req.CourseID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		CreatedBy:  createdBy,
	}
	m.instances[inst.ID] = inst
	for i, ns := range req.Sections {
		sec := Section{ID: uuid.New(), InstanceID: inst.ID, Status: SectionNotStarted, Position: i, TimeLimitSeconds: ns.TimeLimitSeconds}
		m.sections[sec.ID] = sec
		for j, tid := range ns.QuestionTemplateIDs {
			q := Question{ID: uuid.New(), SectionID: sec.ID, TemplateQuestionID: tid, Status: QuestionUnanswered, Position: j}
			m.questions[q.ID] = q
			sec.Questions = append(sec.Questions, q)
		}
		inst.Sections = append(inst.Sections, sec)
	}
	return inst, nil
}

func (m *memStore) WithinTx(_ context.Context, fn func(Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.clone()
	if err := fn(memTx{m}); err != nil {
		m.instances, m.sections, m.questions, m.responses = snapshot.instances, snapshot.sections, snapshot.questions, snapshot.responses
		return err
	}
	return nil
}

func (m *memStore) clone() *memStore {
	out := &memStore{
		instances: maps.Clone(m.instances),
		sections:  maps.Clone(m.sections),
		questions: maps.Clone(m.questions),
		responses: map[uuid.UUID][]Response{},
	}
	for k, v := range m.responses {
		out.responses[k] = slices.Clone(v)
	}
	return out
}

// read helpers for assertions; callers must not hold mu.
func (m *memStore) instance(id uuid.UUID) Instance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.instances[id]
}

func (m *memStore) section(id uuid.UUID) Section {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sections[id]
}

func (m *memStore) question(id uuid.UUID) Question {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.questions[id]
}

type memTx struct{ m *memStore }

func (t memTx) LockInstance(_ context.Context, id uuid.UUID) (Instance, error) {
	inst, ok := t.m.instances[id]
	if !ok {
		return Instance{}, examerr.NotFound("exam instance", id.String())
	}
	return inst, nil
}

func (t memTx) LockInstanceBySection(ctx context.Context, id uuid.UUID) (Instance, error) {
	sec, ok := t.m.sections[id]
	if !ok {
		return Instance{}, examerr.NotFound("section", id.String())
	}
	return t.LockInstance(ctx, sec.InstanceID)
}

func (t memTx) LockInstanceByQuestion(ctx context.Context, id uuid.UUID) (Instance, error) {
	q, ok := t.m.questions[id]
	if !ok {
		return Instance{}, examerr.NotFound("question", id.String())
	}
	return t.LockInstanceBySection(ctx, q.SectionID)
}

func (t memTx) GetSection(_ context.Context, id uuid.UUID) (Section, error) {
	sec, ok := t.m.sections[id]
	if !ok {
		return Section{}, examerr.NotFound("section", id.String())
	}
	return sec, nil
}

func (t memTx) ListSections(_ context.Context, instanceID uuid.UUID) ([]Section, error) {
	var out []Section
	for _, sec := range t.m.sections {
		if sec.InstanceID == instanceID {
			out = append(out, sec)
		}
	}
	slices.SortFunc(out, func(a, b Section) int { return a.Position - b.Position })
	return out, nil
}

func (t memTx) GetQuestion(_ context.Context, id uuid.UUID) (Question, error) {
	q, ok := t.m.questions[id]
	if !ok {
		return Question{}, examerr.NotFound("question", id.String())
	}
	return q, nil
}

func (t memTx) ListQuestions(_ context.Context, sectionID uuid.UUID) ([]Question, error) {
	var out []Question
	for _, q := range t.m.questions {
		if q.SectionID == sectionID {
			out = append(out, q)
		}
	}
	slices.SortFunc(out, func(a, b Question) int { return a.Position - b.Position })
	return out, nil
}

func (t memTx) ListResponses(_ context.Context, questionID uuid.UUID) ([]Response, error) {
	return slices.Clone(t.m.responses[questionID]), nil
}

func (t memTx) UpdateInstance(_ context.Context, inst Instance) error {
	inst.Sections = nil
	t.m.instances[inst.ID] = inst
	return nil
}

func (t memTx) UpdateSection(_ context.Context, sec Section) error {
	sec.Questions = nil
	t.m.sections[sec.ID] = sec
	return nil
}

func (t memTx) UpdateQuestion(_ context.Context, q Question) error {
	// the binding is owned by BindActual
	q.ActualID = t.m.questions[q.ID].ActualID
	t.m.questions[q.ID] = q
	return nil
}

func (t memTx) AppendResponse(_ context.Context, r Response) (Response, error) {
	t.m.responses[r.QuestionID] = append(t.m.responses[r.QuestionID], r)
	return r, nil
}

func (t memTx) BindActual(_ context.Context, questionID, actualID uuid.UUID) (bool, error) {
	q, ok := t.m.questions[questionID]
	if !ok {
		return false, examerr.NotFound("question", questionID.String())
	}
	if q.ActualID != nil {
		return false, nil
	}
	q.ActualID = &actualID
	t.m.questions[questionID] = q
	return true, nil
}

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
