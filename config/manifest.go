package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/gdbind/errors"
)

// InitLevel is the engine initialization stage at which classes are registered.
// Levels run in ascending order on load and descending order on unload.
type InitLevel int

const (
	LevelCore InitLevel = iota
	LevelServers
	LevelScene
	LevelEditor
)

var levelNames = [...]string{
	LevelCore:    "core",
	LevelServers: "servers",
	LevelScene:   "scene",
	LevelEditor:  "editor",
}

func (l InitLevel) String() string {
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseInitLevel parses a level name. The empty string means LevelScene.
func ParseInitLevel(s string) (InitLevel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelScene, nil
	}
	for i, name := range levelNames {
		if name == s {
			return InitLevel(i), nil
		}
	}
	return 0, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Value(s).
		Detail("unknown init level %q", s).
		Build()
}

// Manifest describes an extension library and the classes it provides.
type Manifest struct {
	Libraries            map[string]string
	Path                 string
	Name                 string
	EntrySymbol          string
	CompatibilityMinimum string
	API                  string
	LogLevel             string
	Classes              []ManifestClass
}

// ManifestClass names a class and the level it registers at.
type ManifestClass struct {
	Name  string
	Level InitLevel
}

// APIPath returns the metadata path resolved against the manifest's directory.
func (m *Manifest) APIPath() string {
	if m.API == "" || filepath.IsAbs(m.API) || m.Path == "" {
		return m.API
	}
	return filepath.Join(filepath.Dir(m.Path), m.API)
}

// Library returns the library path for a platform key such as "linux.x86_64".
func (m *Manifest) Library(platform string) (string, bool) {
	p, ok := m.Libraries[platform]
	return p, ok
}

// LoadManifest parses a manifest from disk.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, errors.InvalidInput(errors.PhaseConfig, "manifest: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, fmt.Sprintf("manifest: resolve %s", path))
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, fmt.Sprintf("manifest: read %s", abs))
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	m.Path = abs
	return m, nil
}

// ParseManifest parses manifest YAML. Unknown fields are rejected.
func ParseManifest(data []byte) (*Manifest, error) {
	var raw manifestDisk
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "manifest: parse")
	}
	return raw.toManifest()
}

// Marshal serializes the manifest back to YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m.toDisk()); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "manifest: marshal")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "manifest: encoder close")
	}
	return buf.Bytes(), nil
}

type manifestDisk struct {
	Libraries            map[string]string   `yaml:"libraries,omitempty"`
	Name                 string              `yaml:"name"`
	EntrySymbol          string              `yaml:"entry_symbol"`
	CompatibilityMinimum string              `yaml:"compatibility_minimum,omitempty"`
	API                  string              `yaml:"api,omitempty"`
	LogLevel             string              `yaml:"log_level,omitempty"`
	Classes              []manifestClassDisk `yaml:"classes,omitempty"`
}

type manifestClassDisk struct {
	Name  string `yaml:"name"`
	Level string `yaml:"level,omitempty"`
}

func (d manifestDisk) toManifest() (*Manifest, error) {
	m := &Manifest{
		Name:                 strings.TrimSpace(d.Name),
		EntrySymbol:          strings.TrimSpace(d.EntrySymbol),
		CompatibilityMinimum: strings.TrimSpace(d.CompatibilityMinimum),
		API:                  strings.TrimSpace(d.API),
		LogLevel:             strings.TrimSpace(d.LogLevel),
		Libraries:            d.Libraries,
	}
	if m.Name == "" {
		return nil, errors.InvalidInput(errors.PhaseConfig, "manifest: name is required")
	}
	if m.EntrySymbol == "" {
		return nil, errors.InvalidInput(errors.PhaseConfig, "manifest: entry_symbol is required")
	}

	seen := make(map[string]bool, len(d.Classes))
	for _, c := range d.Classes {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, errors.InvalidInput(errors.PhaseConfig, "manifest: class without name")
		}
		if seen[name] {
			return nil, errors.AlreadyRegistered(errors.PhaseConfig, fmt.Sprintf("manifest class %q", name))
		}
		seen[name] = true
		level, err := ParseInitLevel(c.Level)
		if err != nil {
			return nil, err
		}
		m.Classes = append(m.Classes, ManifestClass{Name: name, Level: level})
	}
	return m, nil
}

func (m *Manifest) toDisk() manifestDisk {
	d := manifestDisk{
		Name:                 m.Name,
		EntrySymbol:          m.EntrySymbol,
		CompatibilityMinimum: m.CompatibilityMinimum,
		API:                  m.API,
		LogLevel:             m.LogLevel,
		Libraries:            m.Libraries,
	}
	for _, c := range m.Classes {
		d.Classes = append(d.Classes, manifestClassDisk{Name: c.Name, Level: c.Level.String()})
	}
	return d
}

// CheckPrecision reports a configuration error when engine metadata was built
// for a different float precision than this binary.
func CheckPrecision(engine string) error {
	if engine == "" || strings.EqualFold(engine, PrecisionName) {
		return nil
	}
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Value(engine).
		Detail("engine precision %q does not match build precision %q", engine, PrecisionName).
		Build()
}
