// Package variant implements the engine's universal value type.
//
// A Variant is a closed tagged union over the engine's builtin types. Values
// move between Go and Variant through two contracts:
//
//	From(value any) (Variant, error)   total for every supported Go type
//	To[T any](v Variant) (T, error)    fallible: TypeMismatch or RangeError
//
// Numeric narrowing that would lose information is rejected rather than
// truncated. Float to integer conversion fails for fractional values, NaN,
// infinities and values outside the target range. Integer to float conversion
// fails when the integer has no exact float representation.
//
// Slices and maps convert element by element. The first failing element aborts
// the conversion and its position is recorded in the error path:
//
//	[3]        fourth element of an array
//	["hp"]     value under key "hp" of a dictionary
//
// # Sharing
//
// Array and Dictionary are reference types: copies of a Variant holding one
// observe each other's mutations, and Duplicate produces an independent copy.
// Strings and packed arrays are values and are copied on the way in and out.
// Object payloads are non-owning identity records (ObjectRef); see package
// object for ownership.
//
// Vector and matrix components use config.Real, which is float32 unless the
// double_precision build tag is set.
package variant
