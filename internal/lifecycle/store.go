package lifecycle

import (
	"context"

	"github.com/google/uuid"

	"github.com/gokatarajesh/exam-engine/internal/actual"
	"github.com/gokatarajesh/exam-engine/internal/template"
)

// Store is the persistence boundary of the state machine. Every mutation runs
// inside WithinTx, which holds the owning instance row lock for its duration.
type Store interface {
	CreateInstance(ctx context.Context, req CreateInstanceRequest, createdBy string) (Instance, error)
	WithinTx(ctx context.Context, fn func(Tx) error) error
}

// Tx is a Store bound to a single transaction.
type Tx interface {
	LockInstance(ctx context.Context, instanceID uuid.UUID) (Instance, error)
	LockInstanceBySection(ctx context.Context, sectionID uuid.UUID) (Instance, error)
	LockInstanceByQuestion(ctx context.Context, questionID uuid.UUID) (Instance, error)

	GetSection(ctx context.Context, sectionID uuid.UUID) (Section, error)
	ListSections(ctx context.Context, instanceID uuid.UUID) ([]Section, error)
	GetQuestion(ctx context.Context, questionID uuid.UUID) (Question, error)
	ListQuestions(ctx context.Context, sectionID uuid.UUID) ([]Question, error)
	ListResponses(ctx context.Context, questionID uuid.UUID) ([]Response, error)

	UpdateInstance(ctx context.Context, inst Instance) error
	UpdateSection(ctx context.Context, sec Section) error
	UpdateQuestion(ctx context.Context, q Question) error
	AppendResponse(ctx context.Context, r Response) (Response, error)
	// BindActual sets the question's actual only if none is bound yet and
	// reports whether this call won.
	BindActual(ctx context.Context, questionID, actualID uuid.UUID) (bool, error)
}

// Generator produces a fresh actual for a template slot.
type Generator interface {
	Generate(ctx context.Context, templateID uuid.UUID, examType actual.ExamType, sectionPosition int) (actual.Actual, error)
}

// ActualReader loads an already generated actual.
type ActualReader interface {
	Get(ctx context.Context, actualID uuid.UUID) (actual.Actual, error)
}

// Locker serializes generation for a single question slot across replicas.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// TemplateSource resolves the templates a new instance is scheduled from.
type TemplateSource interface {
	Get(ctx context.Context, templateID uuid.UUID) (template.Template, error)
}
