// Package instance stores the native payloads of extension class instances,
// keyed by the engine's instance id.
//
// The engine owns object identity. Storage only maps an id to the Go value
// that backs it for the lifetime the engine announces: an entry is
// registered when an instance is created and removed when the engine sends
// its destruction notification. Lookups after removal fail with an
// unknown_instance error instead of reaching a stale payload.
//
// Payloads implementing Dropper are dropped when their entry is removed.
// Observers receive Registered and Unregistered events after the storage
// lock is released, so an observer may call back into the storage.
package instance
