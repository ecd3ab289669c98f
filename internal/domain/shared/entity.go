package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries the identity and audit timestamps shared by every
// persisted domain object. Aggregates embed it by value; the
// persistence layer maps it onto its own base model.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity assigns a fresh random ID and stamps both audit
// timestamps with the same instant.
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch refreshes the update timestamp. State transitions call it
// after mutating the embedding aggregate.
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}
