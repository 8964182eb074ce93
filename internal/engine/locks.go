package engine

import "sync"

// lockTable hands out one mutex per flight identity so that holds,
// releases and simulator ticks for the same flight serialize while
// different flights proceed in parallel.  Entries are never removed;
// the set of flights is small and grows slowly.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the mutex for the given flight key and returns the
// matching unlock function.
func (t *lockTable) acquire(key string) func() {
	t.mu.Lock()
	l, ok := t.locks[key]
	if !ok {
		l = &sync.Mutex{}
		t.locks[key] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}
