package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stockroom-api/internal/domain/entity"
)

// IdempotencyRepository stores Idempotency-Key reservations and the
// responses they replay.
type IdempotencyRepository interface {
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	// Reserve inserts an in-flight row. It returns false when the user
	// already holds a row for the same key.
	Reserve(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error)
	// Complete attaches the response to a reserved row and extends its expiry.
	Complete(ctx context.Context, id uuid.UUID, code int, body string, expiresAt time.Time) error
	// Release drops a reservation whose request did not succeed.
	Release(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context) error
}
