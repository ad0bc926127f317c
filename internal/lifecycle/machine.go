package lifecycle

import (
	"time"

	"github.com/gokatarajesh/exam-engine/internal/examerr"
)

// Transition table:
//
//	instance  scheduled -> in-progress (first section start)
//	          in-progress -> completed (all sections terminal, or explicit submit)
//	          scheduled|in-progress -> expired (now > endDate, evaluated lazily)
//	section   not-started -> in-progress -> completed | timed-out
//	question  unanswered|answered|skipped -> answered, flagged keeps its flag on answer
//	          unanswered|answered -> flagged, unanswered -> skipped
//
// Every function below is pure: it takes stored state and the current time
// and returns the next state or an *examerr.IllegalTransitionError.

// EffectiveInstanceStatus folds lazy expiry into the stored status.
func EffectiveInstanceStatus(inst Instance, now time.Time) InstanceStatus {
	if !inst.Status.Terminal() && now.After(inst.EndDate) {
		return InstanceExpired
	}
	return inst.Status
}

// EffectiveTimeSpent is the stored time plus wall time since the last checkpoint.
func EffectiveTimeSpent(sec Section, now time.Time) int {
	spent := sec.TimeSpentSeconds
	if sec.Status == SectionInProgress && sec.LastActivityAt != nil && now.After(*sec.LastActivityAt) {
		spent += int(now.Sub(*sec.LastActivityAt) / time.Second)
	}
	return spent
}

// EffectiveSectionStatus folds the time limit into the stored status.
func EffectiveSectionStatus(sec Section, now time.Time) SectionStatus {
	if sec.Status == SectionInProgress && sec.TimeLimitSeconds > 0 &&
		EffectiveTimeSpent(sec, now) >= sec.TimeLimitSeconds {
		return SectionTimedOut
	}
	return sec.Status
}

// reconcileInstance applies lazy expiry. changed reports whether it must be persisted.
func reconcileInstance(inst Instance, now time.Time) (Instance, bool) {
	if EffectiveInstanceStatus(inst, now) == InstanceExpired && inst.Status != InstanceExpired {
		inst.Status = InstanceExpired
		return inst, true
	}
	return inst, false
}

// checkpointSection accrues time on an in-progress section and times it out
// once the limit is reached.
func checkpointSection(sec Section, now time.Time) Section {
	if sec.Status != SectionInProgress {
		return sec
	}
	spent := EffectiveTimeSpent(sec, now)
	if sec.TimeLimitSeconds > 0 && spent >= sec.TimeLimitSeconds {
		spent = sec.TimeLimitSeconds
		sec.Status = SectionTimedOut
		sec.CompletedAt = &now
	}
	sec.TimeSpentSeconds = spent
	sec.LastActivityAt = &now
	return sec
}

func startSection(inst Instance, sec Section, now time.Time) (Instance, Section, error) {
	if inst.Status.Terminal() {
		return inst, sec, examerr.Illegal("exam instance", inst.ID.String(), string(inst.Status), "start section")
	}
	if now.Before(inst.StartDate) {
		return inst, sec, examerr.Illegal("exam instance", inst.ID.String(), string(inst.Status), "start section before the exam window opens")
	}
	if sec.Status != SectionNotStarted {
		return inst, sec, examerr.Illegal("section", sec.ID.String(), string(sec.Status), "start")
	}
	sec.Status = SectionInProgress
	sec.StartedAt = &now
	sec.LastActivityAt = &now
	if inst.Status == InstanceScheduled {
		inst.Status = InstanceInProgress
		inst.StartedAt = &now
	}
	return inst, sec, nil
}

// requireActive guards every question mutation.
func requireActive(inst Instance, sec Section, action string) error {
	if inst.Status.Terminal() {
		return examerr.Illegal("exam instance", inst.ID.String(), string(inst.Status), action)
	}
	if sec.Status != SectionInProgress {
		return examerr.Illegal("section", sec.ID.String(), string(sec.Status), action)
	}
	return nil
}

func answerQuestion(q Question, answer string, now time.Time) (Question, error) {
	switch q.Status {
	case QuestionUnanswered, QuestionAnswered, QuestionSkipped:
		q.Status = QuestionAnswered
	case QuestionFlagged:
		// flag is metadata; the answer is still recorded
	default:
		return q, examerr.Illegal("question", q.ID.String(), string(q.Status), "answer")
	}
	q.StudentAnswer = &answer
	q.AnsweredAt = &now
	return q, nil
}

func flagQuestion(q Question) (Question, error) {
	switch q.Status {
	case QuestionUnanswered, QuestionAnswered:
		q.Status = QuestionFlagged
	case QuestionFlagged:
	default:
		return q, examerr.Illegal("question", q.ID.String(), string(q.Status), "flag")
	}
	return q, nil
}

func unflagQuestion(q Question) (Question, error) {
	if q.Status != QuestionFlagged {
		return q, examerr.Illegal("question", q.ID.String(), string(q.Status), "unflag")
	}
	if q.AnsweredAt != nil {
		q.Status = QuestionAnswered
	} else {
		q.Status = QuestionUnanswered
	}
	return q, nil
}

func skipQuestion(q Question) (Question, error) {
	if q.Status != QuestionUnanswered {
		return q, examerr.Illegal("question", q.ID.String(), string(q.Status), "skip")
	}
	q.Status = QuestionSkipped
	return q, nil
}

func completeSection(inst Instance, sec Section, now time.Time) (Section, error) {
	if err := requireActive(inst, sec, "complete"); err != nil {
		return sec, err
	}
	sec.Status = SectionCompleted
	sec.CompletedAt = &now
	return sec, nil
}

// closeSection ends an in-progress section as part of an instance submit.
func closeSection(sec Section, now time.Time) Section {
	sec.Status = SectionCompleted
	sec.CompletedAt = &now
	return sec
}

// allSectionsTerminal drives the automatic instance completion.
func allSectionsTerminal(sections []Section) bool {
	if len(sections) == 0 {
		return false
	}
	for _, s := range sections {
		if !s.Status.Terminal() {
			return false
		}
	}
	return true
}

func completeInstance(inst Instance, now time.Time) (Instance, error) {
	if inst.Status != InstanceInProgress {
		return inst, examerr.Illegal("exam instance", inst.ID.String(), string(inst.Status), "complete")
	}
	inst.Status = InstanceCompleted
	inst.CompletedAt = &now
	return inst, nil
}
