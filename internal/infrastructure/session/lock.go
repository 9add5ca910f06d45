package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrLockTimeout is returned when a session stays locked past the wait limit.
var ErrLockTimeout = errors.New("session is locked")

// Locker serializes load-mutate-save cycles on one session.
type Locker interface {
	Lock(ctx context.Context, id uuid.UUID) (unlock func(), err error)
}

// MemoryLocker hands out one mutex per session and forgets sessions nobody
// holds. It only covers a single process.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

// NewMemoryLocker creates an in-process Locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[uuid.UUID]*refMutex)}
}

// Lock blocks until id is free and returns the matching unlock func.
func (k *MemoryLocker) Lock(_ context.Context, id uuid.UUID) (func(), error) {
	k.mu.Lock()
	m, ok := k.locks[id]
	if !ok {
		m = &refMutex{}
		k.locks[id] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}, nil
}

func (k *MemoryLocker) held() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
