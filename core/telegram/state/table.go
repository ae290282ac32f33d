package state

import "sync"

// Table maps chat ids to a conversation state of type S.
// A missing entry reads as the zero value of S, and storing the zero value
// removes the entry, so the zero value should mean "idle".
type Table[S comparable] struct {
	mu      sync.RWMutex
	entries map[int64]S

	locksMu sync.Mutex
	locks   map[int64]*chatLock
}

type chatLock struct {
	mu   sync.Mutex
	refs int
}

// NewTable constructs an empty in-memory table.
func NewTable[S comparable]() *Table[S] {
	return &Table[S]{
		entries: make(map[int64]S),
		locks:   make(map[int64]*chatLock),
	}
}

// Get returns the state of a chat and whether it is non-idle.
func (t *Table[S]) Get(chatID int64) (S, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.entries[chatID]
	return s, ok
}

// Set stores the state of a chat. Setting the zero value clears it.
func (t *Table[S]) Set(chatID int64, s S) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.store(chatID, s)
}

// Clear resets a chat to idle.
func (t *Table[S]) Clear(chatID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, chatID)
}

// CompareAndSwap replaces the chat state with next only if it currently equals
// old. An absent entry compares equal to the zero value.
func (t *Table[S]) CompareAndSwap(chatID int64, old, next S) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.entries[chatID] != old {
		return false
	}
	t.store(chatID, next)
	return true
}

// Len returns the number of chats with a non-idle state.
func (t *Table[S]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Lock serialises work for one chat and returns the matching unlock func.
// Different chats never contend. Locks are dropped once no caller holds or
// waits for them.
func (t *Table[S]) Lock(chatID int64) (unlock func()) {
	t.locksMu.Lock()
	l, ok := t.locks[chatID]
	if !ok {
		l = &chatLock{}
		t.locks[chatID] = l
	}
	l.refs++
	t.locksMu.Unlock()

	l.mu.Lock()
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()
			t.locksMu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(t.locks, chatID)
			}
			t.locksMu.Unlock()
		})
	}
}

func (t *Table[S]) store(chatID int64, s S) {
	var zero S
	if s == zero {
		delete(t.entries, chatID)
		return
	}
	t.entries[chatID] = s
}
