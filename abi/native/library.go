//go:build darwin || linux || freebsd

package native

import (
	"github.com/ebitengine/purego"

	"github.com/wippyai/gdbind/errors"
)

// Library is an extension shared library opened in this process.
type Library struct {
	path   string
	handle uintptr
}

// Open loads the shared library at path.
func Open(path string) (*Library, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindNotFound, err, "open "+path)
	}
	return &Library{path: path, handle: h}, nil
}

// Path returns the path the library was opened from.
func (l *Library) Path() string { return l.path }

// Symbol returns the address of an exported symbol.
func (l *Library) Symbol(name string) (uintptr, error) {
	addr, err := purego.Dlsym(l.handle, name)
	if err != nil || addr == 0 {
		return 0, errors.New(errors.PhaseLoad, errors.KindNotFound).
			Value(name).
			Cause(err).
			Detail("symbol %s not exported by %s", name, l.path).
			Build()
	}
	return addr, nil
}

// Close unloads the library.
func (l *Library) Close() error {
	if l.handle == 0 {
		return nil
	}
	err := purego.Dlclose(l.handle)
	l.handle = 0
	if err != nil {
		return errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, "close "+l.path)
	}
	return nil
}
