//go:build !threads

package guard

// RWMutex is a no-op lock.
type RWMutex struct{}

func (*RWMutex) Lock()    {}
func (*RWMutex) Unlock()  {}
func (*RWMutex) RLock()   {}
func (*RWMutex) RUnlock() {}

// Counter is a signed counter.
type Counter struct {
	n int64
}

func (c *Counter) Add(delta int64) int64 {
	c.n += delta
	return c.n
}

func (c *Counter) Load() int64   { return c.n }
func (c *Counter) Store(v int64) { c.n = v }

// Flag is a one-way boolean.
type Flag struct {
	v bool
}

// Set sets the flag and reports whether this call changed it.
func (f *Flag) Set() bool {
	if f.v {
		return false
	}
	f.v = true
	return true
}

func (f *Flag) IsSet() bool { return f.v }
