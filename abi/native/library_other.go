//go:build !(darwin || linux || freebsd)

package native

import "github.com/wippyai/gdbind/errors"

// Library is an extension shared library opened in this process.
type Library struct{ path string }

// Open is not supported on this platform.
func Open(path string) (*Library, error) {
	return nil, errors.Unsupported(errors.PhaseLoad, "loading shared libraries on this platform")
}

// Path returns the path the library was opened from.
func (l *Library) Path() string { return l.path }

// Symbol is not supported on this platform.
func (l *Library) Symbol(name string) (uintptr, error) {
	return 0, errors.Unsupported(errors.PhaseLoad, "symbol lookup on this platform")
}

// Close does nothing.
func (l *Library) Close() error { return nil }
