// Package session keeps billing sessions and production calculation
// history outside the database, either in process memory or in redis.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/sangkips/stockroom-api/internal/domain/billing"
	"github.com/sangkips/stockroom-api/internal/domain/production"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Store persists billing sessions.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*billing.Session, error)
	Save(ctx context.Context, s *billing.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// HistoryStore keeps a bounded, newest-first calculation history per owner.
type HistoryStore interface {
	Push(ctx context.Context, owner uuid.UUID, calc production.Calculation) error
	List(ctx context.Context, owner uuid.UUID) ([]production.Calculation, error)
	Clear(ctx context.Context, owner uuid.UUID) error
}
