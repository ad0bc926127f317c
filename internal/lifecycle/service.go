package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/exam-engine/internal/actual"
	"github.com/gokatarajesh/exam-engine/internal/examerr"
	"github.com/gokatarajesh/exam-engine/internal/metrics"
)

// Options tunes the service. A nil Clock uses time.Now.
type Options struct {
	Clock func() time.Time
}

// Service drives exam instances through their lifecycle. Expiry and section
// time limits are evaluated on access and persisted by the request that
// observes them.
type Service struct {
	store     Store
	templates TemplateSource
	gen       Generator
	actuals   ActualReader
	locker    Locker
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

func NewService(store Store, templates TemplateSource, gen Generator, actuals ActualReader, locker Locker, m *metrics.Metrics, logger zerolog.Logger, opts Options) *Service {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:     store,
		templates: templates,
		gen:       gen,
		actuals:   actuals,
		locker:    locker,
		metrics:   m,
		logger:    logger.With().Str("component", "lifecycle").Logger(),
		now:       func() time.Time { return now().UTC() },
	}
}

// CreateInstance schedules an exam for a user.
func (s *Service) CreateInstance(ctx context.Context, req CreateInstanceRequest, actorID string) (Instance, error) {
	typ := InstanceType(req.Type)
	if !typ.valid() {
		return Instance{}, examerr.Invalid("type", "unknown instance type %q", req.Type)
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		return Instance{}, examerr.Invalid("userId", "userId is required")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return Instance{}, examerr.Invalid("startDate", "startDate and endDate are required")
	}
	if !req.EndDate.After(req.StartDate) {
		return Instance{}, examerr.Invalid("endDate", "endDate must be after startDate")
	}
	if len(req.Sections) == 0 {
		return Instance{}, examerr.Invalid("sections", "at least one section is required")
	}
	for i, sec := range req.Sections {
		if sec.TimeLimitSeconds < 0 {
			return Instance{}, examerr.Invalid(fmt.Sprintf("sections[%d].timeLimitSeconds", i), "time limit cannot be negative")
		}
		if len(sec.QuestionTemplateIDs) == 0 {
			return Instance{}, examerr.Invalid(fmt.Sprintf("sections[%d].questionTemplateIds", i), "a section needs at least one question")
		}
		for j, id := range sec.QuestionTemplateIDs {
			if err := s.checkTemplate(ctx, typ, id, fmt.Sprintf("sections[%d].questionTemplateIds[%d]", i, j)); err != nil {
				return Instance{}, err
			}
		}
	}

	inst, err := s.store.CreateInstance(ctx, req, actorID)
	if err != nil {
		return Instance{}, fmt.Errorf("create instance: %w", err)
	}
	s.logger.Info().
		Str("instance_id", inst.ID.String()).
		Str("user_id", inst.UserID).
		Str("type", string(inst.Type)).
		Int("sections", len(inst.Sections)).
		Msg("exam instance scheduled")
	return inst, nil
}

func (s *Service) checkTemplate(ctx context.Context, typ InstanceType, id uuid.UUID, field string) error {
	if s.templates == nil {
		return nil
	}
	t, err := s.templates.Get(ctx, id)
	if examerr.IsNotFound(err) {
		return examerr.Invalid(field, "template %s does not exist", id)
	}
	if err != nil {
		return err
	}
	if typ.ExamType() == actual.ExamLive && !t.ExclusivityType.AllowsLive() {
		return examerr.Invalid(field, "template %s is %s and cannot be used in an exam", id, t.ExclusivityType)
	}
	if typ.ExamType() == actual.ExamPractice && !t.ExclusivityType.AllowsPractice() {
		return examerr.Invalid(field, "template %s is %s and cannot be used for practice", id, t.ExclusivityType)
	}
	return nil
}

// GetInstance returns the full instance tree with effective statuses.
func (s *Service) GetInstance(ctx context.Context, instanceID uuid.UUID) (Instance, error) {
	var out Instance
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		now := s.now()
		inst, err := tx.LockInstance(ctx, instanceID)
		if err != nil {
			return err
		}
		if inst, err = s.reconcile(ctx, tx, inst, now); err != nil {
			return err
		}
		sections, err := tx.ListSections(ctx, inst.ID)
		if err != nil {
			return err
		}
		timedOut := false
		for i := range sections {
			if sections[i], err = s.checkpoint(ctx, tx, sections[i], now); err != nil {
				return err
			}
			timedOut = timedOut || sections[i].Status == SectionTimedOut
		}
		if timedOut {
			if inst, err = s.settleInstance(ctx, tx, inst, now); err != nil {
				return err
			}
		}
		for i := range sections {
			if sections[i].Questions, err = tx.ListQuestions(ctx, sections[i].ID); err != nil {
				return err
			}
		}
		inst.Sections = sections
		out = inst
		return nil
	})
	return out, err
}

// StartSection moves a section to in-progress and, on the first start, the
// instance with it.
func (s *Service) StartSection(ctx context.Context, sectionID uuid.UUID) (Section, error) {
	var out Section
	err := s.mutate(ctx, func(tx Tx) error {
		now := s.now()
		inst, err := tx.LockInstanceBySection(ctx, sectionID)
		if err != nil {
			return err
		}
		sec, err := tx.GetSection(ctx, sectionID)
		if err != nil {
			return err
		}
		if inst, err = s.reconcile(ctx, tx, inst, now); err != nil {
			return err
		}
		prev := inst.Status
		inst, sec, err = startSection(inst, sec, now)
		if err != nil {
			return err
		}
		if err := tx.UpdateSection(ctx, sec); err != nil {
			return err
		}
		s.metrics.Transition("section", string(sec.Status))
		if inst.Status != prev {
			if err := tx.UpdateInstance(ctx, inst); err != nil {
				return err
			}
			s.metrics.Transition("instance", string(inst.Status))
		}
		out = sec
		return nil
	})
	return out, err
}

// OpenQuestion resolves the question's actual, generating it on first open,
// and returns it with the slot state and answer history. Questions of
// finished sections stay readable for review.
func (s *Service) OpenQuestion(ctx context.Context, questionID uuid.UUID) (Envelope, error) {
	var sc scope
	var history []Response
	err := s.mutate(ctx, func(tx Tx) error {
		var err error
		if sc, err = s.loadQuestion(ctx, tx, questionID, s.now()); err != nil {
			return err
		}
		if sc.sec.Status == SectionNotStarted {
			return examerr.Illegal("section", sc.sec.ID.String(), string(sc.sec.Status), "open question")
		}
		history, err = tx.ListResponses(ctx, questionID)
		return err
	})
	if err != nil {
		return Envelope{}, err
	}

	a, err := s.ensureActual(ctx, questionID)
	if err != nil {
		return Envelope{}, err
	}
	if history == nil {
		history = []Response{}
	}
	return Envelope{
		QuestionID: sc.q.ID,
		ExamID:     sc.inst.ID,
		Meta: EnvelopeMeta{
			SectionID:     sc.sec.ID,
			SectionStatus: sc.sec.Status,
			Position:      sc.q.Position,
			Status:        sc.q.Status,
			StudentAnswer: sc.q.StudentAnswer,
			ExamType:      a.ExamType,
		},
		Actual:          a.ToDTO(),
		ResponseHistory: history,
	}, nil
}

// SubmitAnswer records an answer and appends it to the response log. Answers
// can be revised for as long as the section stays in progress.
func (s *Service) SubmitAnswer(ctx context.Context, questionID uuid.UUID, answer, actorID string) (Question, error) {
	if err := s.precheck(ctx, questionID, "answer"); err != nil {
		return Question{}, err
	}
	a, err := s.ensureActual(ctx, questionID)
	if err != nil {
		return Question{}, err
	}
	if !a.AcceptsAnswer(answer) {
		return Question{}, examerr.Invalid("answer", "answer is not a valid response for this question")
	}

	var out Question
	err = s.mutate(ctx, func(tx Tx) error {
		now := s.now()
		sc, err := s.loadQuestion(ctx, tx, questionID, now)
		if err != nil {
			return err
		}
		if err := requireActive(sc.inst, sc.sec, "answer"); err != nil {
			return err
		}
		q, err := answerQuestion(sc.q, answer, now)
		if err != nil {
			return err
		}
		if err := tx.UpdateQuestion(ctx, q); err != nil {
			return err
		}
		if _, err := tx.AppendResponse(ctx, Response{
			ID:          uuid.New(),
			QuestionID:  q.ID,
			Answer:      answer,
			SubmittedBy: actorID,
			SubmittedAt: now,
		}); err != nil {
			return err
		}
		s.metrics.Transition("question", string(q.Status))
		out = q
		return nil
	})
	return out, err
}

// FlagQuestion marks a question for review. The actual is resolved first so
// the flagged slot always has something to review.
func (s *Service) FlagQuestion(ctx context.Context, questionID uuid.UUID) (Question, error) {
	if err := s.precheck(ctx, questionID, "flag"); err != nil {
		return Question{}, err
	}
	if _, err := s.ensureActual(ctx, questionID); err != nil {
		return Question{}, err
	}
	return s.applyQuestion(ctx, questionID, "flag", flagQuestion)
}

func (s *Service) UnflagQuestion(ctx context.Context, questionID uuid.UUID) (Question, error) {
	return s.applyQuestion(ctx, questionID, "unflag", unflagQuestion)
}

func (s *Service) SkipQuestion(ctx context.Context, questionID uuid.UUID) (Question, error) {
	return s.applyQuestion(ctx, questionID, "skip", skipQuestion)
}

func (s *Service) applyQuestion(ctx context.Context, questionID uuid.UUID, action string, fn func(Question) (Question, error)) (Question, error) {
	var out Question
	err := s.mutate(ctx, func(tx Tx) error {
		now := s.now()
		sc, err := s.loadQuestion(ctx, tx, questionID, now)
		if err != nil {
			return err
		}
		if err := requireActive(sc.inst, sc.sec, action); err != nil {
			return err
		}
		q, err := fn(sc.q)
		if err != nil {
			return err
		}
		if q.Status != sc.q.Status {
			if err := tx.UpdateQuestion(ctx, q); err != nil {
				return err
			}
			s.metrics.Transition("question", string(q.Status))
		}
		out = q
		return nil
	})
	return out, err
}

// CompleteSection submits a section explicitly.
func (s *Service) CompleteSection(ctx context.Context, sectionID uuid.UUID) (Section, error) {
	var out Section
	err := s.mutate(ctx, func(tx Tx) error {
		now := s.now()
		inst, err := tx.LockInstanceBySection(ctx, sectionID)
		if err != nil {
			return err
		}
		sec, err := tx.GetSection(ctx, sectionID)
		if err != nil {
			return err
		}
		if inst, sec, err = s.reconcileScope(ctx, tx, inst, sec, now); err != nil {
			return err
		}
		sec, err = completeSection(inst, sec, now)
		if err != nil {
			return err
		}
		if err := tx.UpdateSection(ctx, sec); err != nil {
			return err
		}
		s.metrics.Transition("section", string(sec.Status))
		if _, err := s.settleInstance(ctx, tx, inst, now); err != nil {
			return err
		}
		out = sec
		return nil
	})
	return out, err
}

// CompleteInstance submits the whole exam. Sections still in progress are
// completed with it; sections never started stay not-started.
func (s *Service) CompleteInstance(ctx context.Context, instanceID uuid.UUID) (Instance, error) {
	var out Instance
	err := s.mutate(ctx, func(tx Tx) error {
		now := s.now()
		inst, err := tx.LockInstance(ctx, instanceID)
		if err != nil {
			return err
		}
		if inst, err = s.reconcile(ctx, tx, inst, now); err != nil {
			return err
		}
		sections, err := tx.ListSections(ctx, inst.ID)
		if err != nil {
			return err
		}
		for i := range sections {
			if sections[i], err = s.checkpoint(ctx, tx, sections[i], now); err != nil {
				return err
			}
		}
		inst, err = completeInstance(inst, now)
		if err != nil {
			return err
		}
		for i := range sections {
			if sections[i].Status != SectionInProgress {
				continue
			}
			sections[i] = closeSection(sections[i], now)
			if err := tx.UpdateSection(ctx, sections[i]); err != nil {
				return err
			}
			s.metrics.Transition("section", string(SectionCompleted))
		}
		if err := tx.UpdateInstance(ctx, inst); err != nil {
			return err
		}
		s.metrics.Transition("instance", string(inst.Status))
		inst.Sections = sections
		out = inst
		return nil
	})
	return out, err
}

// scope is a question with its locked instance and owning section.
type scope struct {
	inst Instance
	sec  Section
	q    Question
}

func (s *Service) loadQuestion(ctx context.Context, tx Tx, questionID uuid.UUID, now time.Time) (scope, error) {
	inst, err := tx.LockInstanceByQuestion(ctx, questionID)
	if err != nil {
		return scope{}, err
	}
	q, err := tx.GetQuestion(ctx, questionID)
	if err != nil {
		return scope{}, err
	}
	sec, err := tx.GetSection(ctx, q.SectionID)
	if err != nil {
		return scope{}, err
	}
	inst, sec, err = s.reconcileScope(ctx, tx, inst, sec, now)
	if err != nil {
		return scope{}, err
	}
	return scope{inst: inst, sec: sec, q: q}, nil
}

// reconcileScope persists lazy expiry of the instance and time accounting of
// the section, completing the instance when a timeout leaves nothing open.
func (s *Service) reconcileScope(ctx context.Context, tx Tx, inst Instance, sec Section, now time.Time) (Instance, Section, error) {
	inst, err := s.reconcile(ctx, tx, inst, now)
	if err != nil {
		return inst, sec, err
	}
	prev := sec.Status
	if sec, err = s.checkpoint(ctx, tx, sec, now); err != nil {
		return inst, sec, err
	}
	if prev != sec.Status {
		if inst, err = s.settleInstance(ctx, tx, inst, now); err != nil {
			return inst, sec, err
		}
	}
	return inst, sec, nil
}

func (s *Service) reconcile(ctx context.Context, tx Tx, inst Instance, now time.Time) (Instance, error) {
	inst, changed := reconcileInstance(inst, now)
	if !changed {
		return inst, nil
	}
	if err := tx.UpdateInstance(ctx, inst); err != nil {
		return inst, err
	}
	s.metrics.Transition("instance", string(inst.Status))
	s.logger.Info().Str("instance_id", inst.ID.String()).Msg("exam instance expired")
	return inst, nil
}

func (s *Service) checkpoint(ctx context.Context, tx Tx, sec Section, now time.Time) (Section, error) {
	if sec.Status != SectionInProgress {
		return sec, nil
	}
	sec = checkpointSection(sec, now)
	if err := tx.UpdateSection(ctx, sec); err != nil {
		return sec, err
	}
	if sec.Status == SectionTimedOut {
		s.metrics.Transition("section", string(sec.Status))
		s.logger.Info().Str("section_id", sec.ID.String()).Int("time_spent", sec.TimeSpentSeconds).Msg("section timed out")
	}
	return sec, nil
}

// settleInstance completes an in-progress instance whose sections are all terminal.
func (s *Service) settleInstance(ctx context.Context, tx Tx, inst Instance, now time.Time) (Instance, error) {
	if inst.Status != InstanceInProgress {
		return inst, nil
	}
	sections, err := tx.ListSections(ctx, inst.ID)
	if err != nil {
		return inst, err
	}
	if !allSectionsTerminal(sections) {
		return inst, nil
	}
	next, err := completeInstance(inst, now)
	if err != nil {
		return inst, err
	}
	if err := tx.UpdateInstance(ctx, next); err != nil {
		return inst, err
	}
	s.metrics.Transition("instance", string(next.Status))
	return next, nil
}

// precheck rejects a question mutation before any actual is generated for it.
func (s *Service) precheck(ctx context.Context, questionID uuid.UUID, action string) error {
	return s.mutate(ctx, func(tx Tx) error {
		sc, err := s.loadQuestion(ctx, tx, questionID, s.now())
		if err != nil {
			return err
		}
		return requireActive(sc.inst, sc.sec, action)
	})
}

// mutate runs fn in a transaction. A rejected transition still commits the
// expiry and time accounting persisted before the rejection.
func (s *Service) mutate(ctx context.Context, fn func(Tx) error) error {
	var rejected error
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		err := fn(tx)
		if examerr.IsIllegalTransition(err) || examerr.IsValidation(err) {
			rejected = err
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}
	return rejected
}

// ensureActual returns the actual bound to the question, generating and
// binding one on first use. The Redis lock keeps replicas from generating
// twice; BindActual keeps the binding single even if the lock is lost.
func (s *Service) ensureActual(ctx context.Context, questionID uuid.UUID) (actual.Actual, error) {
	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, "exam:question:"+questionID.String()+":actual")
		if err != nil {
			return actual.Actual{}, fmt.Errorf("lock question %s: %w", questionID, err)
		}
		defer unlock()
	}

	var (
		bound      *uuid.UUID
		templateID uuid.UUID
		examType   actual.ExamType
		position   int
	)
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		inst, err := tx.LockInstanceByQuestion(ctx, questionID)
		if err != nil {
			return err
		}
		q, err := tx.GetQuestion(ctx, questionID)
		if err != nil {
			return err
		}
		if q.ActualID != nil {
			bound = q.ActualID
			return nil
		}
		sec, err := tx.GetSection(ctx, q.SectionID)
		if err != nil {
			return err
		}
		templateID, examType, position = q.TemplateQuestionID, inst.Type.ExamType(), sec.Position
		return nil
	})
	if err != nil {
		return actual.Actual{}, err
	}
	if bound != nil {
		return s.actuals.Get(ctx, *bound)
	}

	a, err := s.gen.Generate(ctx, templateID, examType, position)
	if err != nil {
		return actual.Actual{}, err
	}

	winner := a.ID
	err = s.store.WithinTx(ctx, func(tx Tx) error {
		ok, err := tx.BindActual(ctx, questionID, a.ID)
		if err != nil || ok {
			return err
		}
		q, err := tx.GetQuestion(ctx, questionID)
		if err != nil {
			return err
		}
		if q.ActualID == nil {
			return &examerr.ConsistencyError{Message: fmt.Sprintf("question %s lost its actual binding", questionID)}
		}
		winner = *q.ActualID
		return nil
	})
	if err != nil {
		return actual.Actual{}, err
	}
	if winner != a.ID {
		s.logger.Warn().
			Str("question_id", questionID.String()).
			Str("orphan_actual_id", a.ID.String()).
			Msg("question bound concurrently, discarding generated actual")
		return s.actuals.Get(ctx, winner)
	}
	s.logger.Debug().Str("question_id", questionID.String()).Str("actual_id", a.ID.String()).Msg("actual bound to question")
	return a, nil
}
