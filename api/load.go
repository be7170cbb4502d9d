package api

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/wippyai/gdbind/errors"
)

// Parse decodes an interface description.
func Parse(r io.Reader) (*API, error) {
	var a API
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, errors.Load("decode extension api", err)
	}
	return &a, nil
}

// Load reads an interface description from path.
func Load(path string) (*API, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindNotFound, err, fmt.Sprintf("open %s", path))
	}
	defer f.Close()
	return Parse(f)
}

// LoadContext reads path and indexes it.
func LoadContext(path string, opts ...ContextOption) (*Context, error) {
	a, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewContext(a, opts...)
}
