// Package errors provides structured error types for the gdbind library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: value path, Go/Variant type names, class and
// member names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
//		Path("[2]", "speed").
//		GoType("int32").
//		VariantType("String").
//		Detail("cannot convert string to integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.PhaseConvert, path, "int32", "String")
//	err := errors.UnknownInstance(errors.PhaseInstance, id)
//
// All errors implement the standard error interface and support errors.Is/As.
// A target with an empty Phase matches on Kind alone:
//
//	if errors.IsKind(err, errors.KindStaleReference) { ... }
package errors
