// Package object provides ownership-aware handles to engine objects.
//
// A Handle pairs an engine pointer with the instance id the engine assigned
// to it. Validity is decided by asking the engine whether the id still maps
// to the same pointer, so a handle to a destroyed object fails with a
// stale_reference error instead of touching freed memory.
//
// Every handle carries an ownership tag:
//
//	RefCounted   the engine counts references; Clone adds one, Drop removes
//	             one and destroys the object when the count reaches zero
//	Manual       the object lives until someone calls Free; Clone makes a
//	             second non-owning handle and a second Free is a double_free
//
// Dropping the last handle of a manually managed object that was never freed
// records a leak (debug builds) and logs a warning. It never aborts.
package object
