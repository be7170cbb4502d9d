// Package guard provides the locks and counters used by shared tables.
//
// With the threads build tag the types are backed by sync.RWMutex and
// sync/atomic. Without it every operation is a no-op or a plain field access,
// so single-threaded builds pay nothing for synchronization.
package guard
