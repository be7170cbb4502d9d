// Package enginetest provides an in-memory engine that implements abi.Host.
//
// The engine knows a handful of native classes (Object, RefCounted, Node,
// Node2D, Resource) with a few working methods, keeps an object table keyed by
// pointer and instance id, and stores extension class registrations so tests
// can drive them the way a real engine would:
//
//	eng := enginetest.New()
//	ext := extension.New(eng)
//	...
//	ptr, id, err := eng.Instantiate("Player")     // engine-driven creation
//	ret, status := eng.CallExtension(id, "add", variant.NewInt(2), variant.NewInt(3))
//	eng.Destroy(id)                               // destruction notification
//
// Object pointers are recycled after destruction while instance ids never
// are, so stale handles are detected the same way as against a real engine.
package enginetest
