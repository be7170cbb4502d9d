//go:build threads

package guard

import (
	"sync"
	"sync/atomic"
)

// RWMutex allows many concurrent readers and one writer.
type RWMutex struct {
	mu sync.RWMutex
}

func (m *RWMutex) Lock()    { m.mu.Lock() }
func (m *RWMutex) Unlock()  { m.mu.Unlock() }
func (m *RWMutex) RLock()   { m.mu.RLock() }
func (m *RWMutex) RUnlock() { m.mu.RUnlock() }

// Counter is a signed counter.
type Counter struct {
	n atomic.Int64
}

func (c *Counter) Add(delta int64) int64 { return c.n.Add(delta) }
func (c *Counter) Load() int64           { return c.n.Load() }
func (c *Counter) Store(v int64)         { c.n.Store(v) }

// Flag is a one-way boolean.
type Flag struct {
	v atomic.Bool
}

// Set sets the flag and reports whether this call changed it.
func (f *Flag) Set() bool { return f.v.CompareAndSwap(false, true) }

func (f *Flag) IsSet() bool { return f.v.Load() }
