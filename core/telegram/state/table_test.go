package state

import (
	"sync"
	"testing"
	"time"
)

type step struct {
	Name string
	ID   int64
}

func TestTableZeroValueIsIdle(t *testing.T) {
	tbl := NewTable[step]()
	if s, ok := tbl.Get(1); ok || s != (step{}) {
		t.Fatalf("fresh table returned %+v, %v", s, ok)
	}
	tbl.Set(1, step{Name: "await_title"})
	if s, ok := tbl.Get(1); !ok || s.Name != "await_title" {
		t.Fatalf("Get after Set = %+v, %v", s, ok)
	}
	tbl.Set(1, step{})
	if _, ok := tbl.Get(1); ok {
		t.Fatal("setting the zero value should clear the entry")
	}
	if tbl.Len() != 0 {
		t.Fatalf("Len = %d, want 0", tbl.Len())
	}
}

func TestTableClear(t *testing.T) {
	tbl := NewTable[step]()
	tbl.Set(7, step{Name: "a"})
	tbl.Set(8, step{Name: "b"})
	tbl.Clear(7)
	if _, ok := tbl.Get(7); ok {
		t.Fatal("chat 7 should be idle")
	}
	if s, _ := tbl.Get(8); s.Name != "b" {
		t.Fatalf("chat 8 = %+v, want b", s)
	}
}

func TestTableCompareAndSwap(t *testing.T) {
	tbl := NewTable[step]()
	if !tbl.CompareAndSwap(1, step{}, step{Name: "a"}) {
		t.Fatal("swap from idle should succeed")
	}
	if tbl.CompareAndSwap(1, step{}, step{Name: "b"}) {
		t.Fatal("swap with stale old value should fail")
	}
	if !tbl.CompareAndSwap(1, step{Name: "a"}, step{Name: "b", ID: 3}) {
		t.Fatal("swap with current value should succeed")
	}
	if s, _ := tbl.Get(1); s != (step{Name: "b", ID: 3}) {
		t.Fatalf("state = %+v", s)
	}
	if !tbl.CompareAndSwap(1, step{Name: "b", ID: 3}, step{}) {
		t.Fatal("swap to idle should succeed")
	}
	if tbl.Len() != 0 {
		t.Fatalf("Len = %d, want 0", tbl.Len())
	}
}

func TestTableLockSerialisesSameChat(t *testing.T) {
	tbl := NewTable[step]()
	const workers = 50

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			unlock := tbl.Lock(42)
			defer unlock()
			cur, _ := tbl.Get(42)
			time.Sleep(time.Microsecond)
			tbl.Set(42, step{Name: "n", ID: cur.ID + 1})
		}()
	}
	wg.Wait()

	if s, _ := tbl.Get(42); s.ID != workers {
		t.Fatalf("lost updates: ID = %d, want %d", s.ID, workers)
	}
	tbl.locksMu.Lock()
	defer tbl.locksMu.Unlock()
	if len(tbl.locks) != 0 {
		t.Fatalf("lock entries leaked: %d", len(tbl.locks))
	}
}

func TestTableLockDoesNotBlockOtherChats(t *testing.T) {
	tbl := NewTable[step]()
	unlock := tbl.Lock(1)
	defer unlock()

	done := make(chan struct{})
	go func() {
		u := tbl.Lock(2)
		u()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on chat 2 blocked by chat 1")
	}
}

func TestTableUnlockIsIdempotent(t *testing.T) {
	tbl := NewTable[step]()
	unlock := tbl.Lock(5)
	unlock()
	unlock()
	u := tbl.Lock(5)
	u()
}
