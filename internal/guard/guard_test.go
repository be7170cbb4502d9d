package guard

import "testing"

func TestCounter(t *testing.T) {
	var c Counter
	if got := c.Add(3); got != 3 {
		t.Fatalf("Add(3) = %d", got)
	}
	if got := c.Add(-1); got != 2 {
		t.Fatalf("Add(-1) = %d", got)
	}
	c.Store(10)
	if c.Load() != 10 {
		t.Fatalf("Load = %d", c.Load())
	}
}

func TestFlag(t *testing.T) {
	var f Flag
	if f.IsSet() {
		t.Fatal("new flag is set")
	}
	if !f.Set() {
		t.Fatal("first Set should report a change")
	}
	if f.Set() {
		t.Fatal("second Set should not report a change")
	}
	if !f.IsSet() {
		t.Fatal("flag should be set")
	}
}

func TestRWMutex(t *testing.T) {
	var mu RWMutex
	mu.RLock()
	mu.RUnlock()
	mu.Lock()
	mu.Unlock()
}
