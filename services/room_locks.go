package services

import "sync"

// roomLocks hands out one mutex per room id. Entries are reference counted and removed
// once the last holder unlocks, so the table only grows with concurrent activity.
type roomLocks struct {
	mu    sync.Mutex
	locks map[uint]*roomLock
}

type roomLock struct {
	mu   sync.Mutex
	refs int
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[uint]*roomLock)}
}

// Lock blocks until the caller holds the room's mutex and returns the release function.
func (l *roomLocks) Lock(roomID uint) (unlock func()) {
	l.mu.Lock()
	lock, ok := l.locks[roomID]
	if !ok {
		lock = &roomLock{}
		l.locks[roomID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, roomID)
		}
		l.mu.Unlock()
	}
}

func (l *roomLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
