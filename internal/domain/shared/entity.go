package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity provides the identity fields shared by persisted entities
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

// NewBaseEntity creates a base entity with a generated ID
func NewBaseEntity() BaseEntity {
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
	}
}
