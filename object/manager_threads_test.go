//go:build threads

package object

import (
	"sync"
	"testing"

	"github.com/wippyai/gdbind/errors"
)

func TestManual_ConcurrentDropWrap(t *testing.T) {
	m, _ := newManager(t)

	for i := 0; i < 2000; i++ {
		h, err := m.New("Node")
		if err != nil {
			t.Fatal(err)
		}
		ptr, id := h.Ptr(), h.InstanceID()

		var wg sync.WaitGroup
		var wrapped *Handle
		var wrapErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.Drop()
		}()
		go func() {
			defer wg.Done()
			wrapped, wrapErr = m.Wrap(ptr, id, "Node", Manual)
		}()
		wg.Wait()
		if wrapErr != nil {
			t.Fatalf("iteration %d: Wrap failed: %v", i, wrapErr)
		}

		// Every live handle must share one state, whichever goroutine won.
		other, err := m.Wrap(ptr, id, "Node", Manual)
		if err != nil {
			t.Fatal(err)
		}
		if err := wrapped.Free(); err != nil {
			t.Fatalf("iteration %d: Free failed: %v", i, err)
		}
		if err := other.Free(); !errors.IsKind(err, errors.KindDoubleFree) {
			t.Fatalf("iteration %d: second Free error = %v, want double_free", i, err)
		}
		other.Drop()
		if m.Tracked() != 0 {
			t.Fatalf("iteration %d: Tracked = %d after free", i, m.Tracked())
		}
	}
}

func TestManual_ConcurrentCloneDrop(t *testing.T) {
	m, _ := newManager(t)
	h, err := m.New("Node")
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				c, err := h.Clone()
				if err != nil {
					t.Errorf("Clone failed: %v", err)
					return
				}
				c.Drop()
			}
		}()
	}
	wg.Wait()

	if m.LeakCount() != 0 {
		t.Fatalf("LeakCount = %d while the first handle is live", m.LeakCount())
	}
	if m.Tracked() != 1 {
		t.Fatalf("Tracked = %d, want 1", m.Tracked())
	}
	if err := h.Free(); err != nil {
		t.Fatalf("Free failed: %v", err)
	}
}

func TestRefCounted_ConcurrentCloneDrop(t *testing.T) {
	m, _ := newManager(t)
	h, err := m.New("Resource")
	if err != nil {
		t.Fatal(err)
	}
	defer h.Drop()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				c, err := h.Clone()
				if err != nil {
					t.Errorf("Clone failed: %v", err)
					return
				}
				c.Drop()
			}
		}()
	}
	wg.Wait()

	if n, _ := h.RefCount(); n != 1 {
		t.Fatalf("refcount = %d after balanced clones, want 1", n)
	}
}
