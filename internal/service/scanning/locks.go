package scanning

import (
	"sync"

	"github.com/google/uuid"
)

// sessionLocks serializes work on one session while leaving independent
// sessions uncontended. Entries are reference counted and removed when the
// last holder or waiter releases.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[uuid.UUID]*sessionLock)}
}

// lock blocks until id is free and returns the matching unlock.
func (l *sessionLocks) lock(id uuid.UUID) (unlock func()) {
	l.mu.Lock()
	sl, ok := l.locks[id]
	if !ok {
		sl = &sessionLock{}
		l.locks[id] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.Lock()

	return func() {
		sl.Unlock()

		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
