package service

import "sync"

// keyedMutex serializes writes per achievement so concurrent verdicts and
// owner edits never interleave on the same decision list.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uint]*keyedLockEntry
}

type keyedLockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: map[uint]*keyedLockEntry{}}
}

// Lock acquires the mutex for the given key and returns its release func.
// Entries are removed once the last holder releases, so the map stays
// bounded by the number of in-flight writes.
func (m *keyedMutex) Lock(key uint) func() {
	m.mu.Lock()
	entry, ok := m.locks[key]
	if !ok {
		entry = &keyedLockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	m.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		m.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(m.locks, key)
		}
		m.mu.Unlock()
	}
}
