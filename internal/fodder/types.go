package fodder

import (
	"time"

	"github.com/google/uuid"
)

// Pool is a named collection of interchangeable distractor candidates.
type Pool struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	Items       []Item    `json:"items"`
}

// Item is one candidate answer string; it belongs to exactly one pool.
type Item struct {
	ID        uuid.UUID `json:"id"`
	PoolID    uuid.UUID `json:"poolId"`
	Text      string    `json:"text"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summary is a pool row without its items.
type Summary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	ItemCount   int       `json:"itemCount"`
}

// CreatePoolRequest is the authoring payload for a new pool.
type CreatePoolRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Items       []string `json:"items,omitempty"`
}

// NewPool is what the repository persists; items are inserted in the same transaction.
type NewPool struct {
	Name        string
	Description *string
	Items       []string
	CreatedBy   string
}
