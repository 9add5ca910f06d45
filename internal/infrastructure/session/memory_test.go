package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/stockroom-api/internal/domain/billing"
	"github.com/sangkips/stockroom-api/internal/domain/production"
)

var (
	_ Store        = (*MemoryStore)(nil)
	_ Store        = (*RedisStore)(nil)
	_ HistoryStore = (*MemoryHistory)(nil)
	_ HistoryStore = (*RedisHistory)(nil)
)

func TestMemoryStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	s := billing.NewSession(uuid.New(), time.Now())
	require.NoError(t, s.Cart.AddItem(billing.StockEntry{
		ID:                uuid.New(),
		Name:              "Bolt",
		UnitPrice:         decimal.RequireFromString("2.5"),
		AvailableQuantity: 3,
	}))
	s.Notes = "rush"
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Cart.Len())
	assert.Equal(t, "rush", got.Notes)

	// mutating the loaded copy must not leak into the store
	got.Cart.Clear()
	again, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Cart.Len())
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	s := billing.NewSession(uuid.New(), now)
	require.NoError(t, store.Save(ctx, s))

	now = now.Add(2 * time.Minute)
	_, err := store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, store.Sweep())
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	s := billing.NewSession(uuid.New(), time.Now())
	require.NoError(t, store.Save(ctx, s))

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err := store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryHistory_PerOwnerCap(t *testing.T) {
	ctx := context.Background()
	h := NewMemoryHistory(2)
	alice, bob := uuid.New(), uuid.New()

	for i := 1; i <= 3; i++ {
		require.NoError(t, h.Push(ctx, alice, production.Calculation{RequestedQuantity: i}))
	}
	require.NoError(t, h.Push(ctx, bob, production.Calculation{RequestedQuantity: 9}))

	got, err := h.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].RequestedQuantity)
	assert.Equal(t, 2, got[1].RequestedQuantity)

	require.NoError(t, h.Clear(ctx, alice))
	got, _ = h.List(ctx, alice)
	assert.Empty(t, got)

	other, _ := h.List(ctx, bob)
	assert.Len(t, other, 1)
}
