package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConvert  Phase = "convert"  // Go <-> Variant conversion
	PhaseObject   Phase = "object"   // object handle operations
	PhaseInstance Phase = "instance" // instance storage
	PhaseRegister Phase = "register" // class registration
	PhaseDispatch Phase = "dispatch" // call dispatch
	PhaseLoad     Phase = "load"     // extension and metadata loading
	PhaseConfig   Phase = "config"   // configuration
	PhaseABI      Phase = "abi"      // raw engine calls
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch      Kind = "type_mismatch"
	KindRange             Kind = "range_error"
	KindStaleReference    Kind = "stale_reference"
	KindDoubleFree        Kind = "double_free"
	KindAlreadyRegistered Kind = "already_registered"
	KindUnknownInstance   Kind = "unknown_instance"
	KindDuplicateMember   Kind = "duplicate_member"
	KindSignatureConflict Kind = "signature_conflict"
	KindMethodNotFound    Kind = "method_not_found"
	KindArgumentMismatch  Kind = "argument_mismatch"
	KindStaleMetadata     Kind = "stale_metadata"
	KindNativeFailure     Kind = "native_failure"
	KindUnsupported       Kind = "unsupported"
	KindNotFound          Kind = "not_found"
	KindInvalidInput      Kind = "invalid_input"
	KindInvalidData       Kind = "invalid_data"
	KindNotInitialized    Kind = "not_initialized"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value       any
	Cause       error
	Phase       Phase
	Kind        Kind
	GoType      string
	VariantType string
	Class       string
	Member      string
	Detail      string
	Path        []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Class != "" {
		b.WriteString(" in ")
		b.WriteString(e.Class)
		if e.Member != "" {
			b.WriteString("::")
			b.WriteString(e.Member)
		}
	} else if e.Member != "" {
		b.WriteString(" in ")
		b.WriteString(e.Member)
	}

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" || e.VariantType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.VariantType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", Variant type ")
			b.WriteString(e.VariantType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("Variant type ")
			b.WriteString(e.VariantType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.VariantType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a Phase matches any phase.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Phase == "" {
			return e.Kind == t.Kind
		}
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return stderrors.Is(err, &Error{Kind: kind})
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the value path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// VariantType sets the Variant type name
func (b *Builder) VariantType(t string) *Builder {
	b.err.VariantType = t
	return b
}

// Class sets the class name
func (b *Builder) Class(name string) *Builder {
	b.err.Class = name
	return b
}

// Member sets the method, property or signal name
func (b *Builder) Member(name string) *Builder {
	b.err.Member = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, variantType string) *Error {
	return &Error{
		Phase:       phase,
		Kind:        KindTypeMismatch,
		Path:        path,
		GoType:      goType,
		VariantType: variantType,
	}
}

// Range creates an error for a conversion that would lose information
func Range(phase Phase, path []string, value any, targetType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRange,
		Path:   path,
		GoType: targetType,
		Detail: fmt.Sprintf("value %v not representable as %s", value, targetType),
		Value:  value,
	}
}

// StaleReference creates an error for use of a destroyed or freed object
func StaleReference(phase Phase, class string, id uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindStaleReference,
		Class:  class,
		Detail: fmt.Sprintf("instance %d is no longer alive", id),
		Value:  id,
	}
}

// DoubleFree creates an error for freeing an already freed object
func DoubleFree(class string, id uint64) *Error {
	return &Error{
		Phase:  PhaseObject,
		Kind:   KindDoubleFree,
		Class:  class,
		Detail: fmt.Sprintf("instance %d already freed", id),
		Value:  id,
	}
}

// AlreadyRegistered creates an error for a duplicate registration
func AlreadyRegistered(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAlreadyRegistered,
		Detail: fmt.Sprintf("%s already registered", what),
	}
}

// UnknownInstance creates an error for a lookup of an instance that is not stored
func UnknownInstance(phase Phase, id uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownInstance,
		Detail: fmt.Sprintf("instance %d not found", id),
		Value:  id,
	}
}

// DuplicateMember creates an error for a class member declared twice
func DuplicateMember(class, member, detail string) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindDuplicateMember,
		Class:  class,
		Member: member,
		Detail: detail,
	}
}

// SignatureConflict creates an error for incompatible member signatures
func SignatureConflict(class, member, detail string) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindSignatureConflict,
		Class:  class,
		Member: member,
		Detail: detail,
	}
}

// MethodNotFound creates an error for a call to a method the class does not have
func MethodNotFound(phase Phase, class, method string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMethodNotFound,
		Class:  class,
		Member: method,
	}
}

// ArgumentMismatch creates an error for calls with incompatible arguments
func ArgumentMismatch(phase Phase, class, method, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindArgumentMismatch,
		Class:  class,
		Member: method,
		Detail: detail,
	}
}

// StaleMetadata creates an error for dispatch through metadata that no longer applies
func StaleMetadata(class, member, detail string) *Error {
	return &Error{
		Phase:  PhaseDispatch,
		Kind:   KindStaleMetadata,
		Class:  class,
		Member: member,
		Detail: detail,
	}
}

// NativeFailure creates an error for a native method that failed or panicked
func NativeFailure(class, method string, recovered any, cause error) *Error {
	e := &Error{
		Phase:  PhaseDispatch,
		Kind:   KindNativeFailure,
		Class:  class,
		Member: method,
		Cause:  cause,
		Value:  recovered,
	}
	if recovered != nil {
		e.Detail = fmt.Sprintf("panic: %v", recovered)
	}
	return e
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NotInitialized creates a not-initialized error for missing state
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// Registration wraps a failure to register one class
func Registration(class string, cause error) *Error {
	kind := KindOf(cause)
	if kind == "" {
		kind = KindInvalidData
	}
	return &Error{
		Phase:  PhaseRegister,
		Kind:   kind,
		Class:  class,
		Detail: "class registration aborted",
		Cause:  cause,
	}
}

// WithPath returns a copy of err with prefix prepended to its path if err is an
// *Error, or err unchanged otherwise. Used to report the element that failed in
// element-wise conversions.
func WithPath(err error, prefix string) error {
	var e *Error
	if !stderrors.As(err, &e) {
		return err
	}
	cp := *e
	cp.Path = append([]string{prefix}, e.Path...)
	return &cp
}
