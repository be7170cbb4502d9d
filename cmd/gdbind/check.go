package main

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"

	"github.com/wippyai/gdbind/abi/native"
	"github.com/wippyai/gdbind/api"
	"github.com/wippyai/gdbind/config"
)

type checkReport struct {
	manifest *config.Manifest
	engine   string
	notes    []string
	problems []string
}

func (r *checkReport) ok() bool { return len(r.problems) == 0 }

func (r *checkReport) problem(format string, args ...any) {
	r.problems = append(r.problems, fmt.Sprintf(format, args...))
}

func (r *checkReport) note(format string, args ...any) {
	r.notes = append(r.notes, fmt.Sprintf(format, args...))
}

func (r *checkReport) print(w io.Writer) {
	m := r.manifest
	fmt.Fprintf(w, "Extension: %s (%s)\n", m.Name, m.Path)
	fmt.Fprintf(w, "Entry symbol: %s\n", m.EntrySymbol)
	if r.engine != "" {
		fmt.Fprintf(w, "Engine: %s\n", r.engine)
	}
	fmt.Fprintf(w, "Build precision: %s\n", config.PrecisionName)
	fmt.Fprintf(w, "Classes: %d\n", len(m.Classes))
	for _, c := range m.Classes {
		fmt.Fprintf(w, "  %s @ %s\n", c.Name, c.Level)
	}
	for _, n := range r.notes {
		fmt.Fprintf(w, "note: %s\n", n)
	}
	for _, p := range r.problems {
		fmt.Fprintf(w, "problem: %s\n", p)
	}
	if r.ok() {
		fmt.Fprintln(w, "OK")
	}
}

// check validates the manifest at path against its engine metadata. Load
// failures are returned; findings go into the report.
func check(path string, probe bool) (*checkReport, error) {
	m, err := config.LoadManifest(path)
	if err != nil {
		return nil, err
	}
	r := &checkReport{manifest: m}

	if m.APIPath() == "" {
		r.note("no engine metadata; class names not checked")
	} else {
		a, err := api.Load(m.APIPath())
		if err != nil {
			return nil, err
		}
		if err := config.CheckPrecision(a.Header.Precision); err != nil {
			r.problem("%v", err)
		}
		ctx, err := api.NewContext(a, api.WithoutPrecisionCheck())
		if err != nil {
			return nil, err
		}
		r.engine = ctx.Version()
		for _, c := range m.Classes {
			if _, ok := ctx.Class(c.Name); ok {
				r.problem("class %s collides with an engine class", c.Name)
			}
		}
	}

	if probe {
		probeLibrary(r, m)
	}
	return r, nil
}

func probeLibrary(r *checkReport, m *config.Manifest) {
	key := platformKey()
	lib, ok := m.Library(key)
	if !ok {
		r.problem("no library for %s", key)
		return
	}
	if !filepath.IsAbs(lib) && m.Path != "" {
		lib = filepath.Join(filepath.Dir(m.Path), lib)
	}
	l, err := native.Open(lib)
	if err != nil {
		r.problem("%v", err)
		return
	}
	defer l.Close()
	if _, err := l.Symbol(m.EntrySymbol); err != nil {
		r.problem("%v", err)
		return
	}
	r.note("%s exports %s", lib, m.EntrySymbol)
}

// platformKey returns the manifest library key for this process, such as
// "linux.x86_64".
func platformKey() string {
	arch := runtime.GOARCH
	switch arch {
	case "amd64":
		arch = "x86_64"
	case "386":
		arch = "x86_32"
	case "arm":
		arch = "arm32"
	}
	goos := runtime.GOOS
	if goos == "darwin" {
		goos = "macos"
	}
	return goos + "." + arch
}
