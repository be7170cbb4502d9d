package classdb

import (
	"github.com/wippyai/gdbind/abi"
	"github.com/wippyai/gdbind/variant"
)

// ClassNamer overrides the class name, which defaults to the Go type name.
type ClassNamer interface {
	ClassName() string
}

// ParentNamer names the parent class. The default parent is Object.
type ParentNamer interface {
	ParentClass() string
}

// PropertyLister declares properties.
type PropertyLister interface {
	Properties() []PropertySpec
}

// SignalLister declares signals.
type SignalLister interface {
	Signals() []SignalSpec
}

// MethodRenamer maps Go method names to engine method names.
type MethodRenamer interface {
	MethodNames() map[string]string
}

// PropertySpec declares a property. Getter and Setter name methods by Go or
// engine name and default to get_<name> and set_<name>. A property without
// a setter is read-only.
type PropertySpec struct {
	Name     string
	Getter   string
	Setter   string
	HintText string
	Hint     abi.PropertyHint
	Usage    abi.PropertyUsage
}

// SignalSpec declares a signal.
type SignalSpec struct {
	Name   string
	Params []ParamSpec
}

// ParamSpec declares a signal argument.
type ParamSpec struct {
	Name  string
	Class string
	Type  variant.Type
}

// skipped are methods of the optional interfaces and lifecycle hooks that
// are never exposed as engine methods.
var skipped = map[string]bool{
	"ClassName":    true,
	"ParentClass":  true,
	"Properties":   true,
	"Signals":      true,
	"MethodNames":  true,
	"Notification": true,
	"String":       true,
	"Drop":         true,
	"Attach":       true,
	"Object":       true,
}

// Option configures Describe.
type Option func(*options)

type options struct {
	virtuals VirtualSource
	factory  func() any
	skip     map[string]bool
	name     string
	parent   string
	abstract bool
}

// WithName overrides the class name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithParent overrides the parent class.
func WithParent(parent string) Option {
	return func(o *options) { o.parent = parent }
}

// WithVirtuals resolves virtual overrides against engine metadata.
func WithVirtuals(src VirtualSource) Option {
	return func(o *options) { o.virtuals = src }
}

// WithFactory sets the function that creates instance payloads. It must
// return values of the prototype's type.
func WithFactory(fn func() any) Option {
	return func(o *options) { o.factory = fn }
}

// WithSkip hides Go methods from the engine.
func WithSkip(goNames ...string) Option {
	return func(o *options) {
		if o.skip == nil {
			o.skip = make(map[string]bool)
		}
		for _, n := range goNames {
			o.skip[n] = true
		}
	}
}

// Abstract marks the class as not instantiable by the engine.
func Abstract() Option {
	return func(o *options) { o.abstract = true }
}
