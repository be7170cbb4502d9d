// Package native resolves the entry points of a running engine.
//
// An engine hands extensions a single get_proc_address function. Load turns
// that pointer into a Host whose methods call the named entry points through
// purego, without cgo. Open loads an extension library from disk and looks
// up its exported symbols, which is how tools probe a library before an
// engine loads it.
//
// Host binds memory, variant, object identity and method bind entry points.
// It does not bind classdb_register_extension_class or its method, property
// and signal siblings, so it does not implement abi.Host. Class registration
// goes through an abi.Host implementation such as enginetest.
//
// Variant values cross the boundary in the engine's fixed size layout:
//
//	offset 0   uint32 type tag
//	offset 8   payload, 4 reals wide
//
// Encode and Decode convert the primitive types (nil, bool, int, float,
// Vector2, Vector2i, Vector3, Vector3i and Color). Other types live in
// engine memory and report unsupported.
package native
