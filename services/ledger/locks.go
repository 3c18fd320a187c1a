package ledger

import "sync"

// unitLocks hands out one mutex per unit id so read-modify-write-persist
// cycles for the same unit are serialized while different units proceed in
// parallel. Locks are never evicted; the unit set is small and fixed.
type unitLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUnitLocks() *unitLocks {
	return &unitLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *unitLocks) forUnit(unitID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[unitID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[unitID] = m
	}
	return m
}
