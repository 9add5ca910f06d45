package session

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Locker = (*MemoryLocker)(nil)
	_ Locker = (*RedisLocker)(nil)
)

func TestMemoryLocker_SerializesOneSession(t *testing.T) {
	locker := NewMemoryLocker()
	id := uuid.New()
	ctx := context.Background()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, id)
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()
			// unsynchronized read-modify-write, safe only under the lock
			n := counter
			counter = n + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Zero(t, locker.held())
}

func TestMemoryLocker_IndependentSessions(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	unlockA, err := locker.Lock(ctx, uuid.New())
	require.NoError(t, err)
	unlockB, err := locker.Lock(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 2, locker.held())

	unlockA()
	unlockB()
	assert.Zero(t, locker.held())
}
