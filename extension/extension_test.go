package extension

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"go.uber.org/multierr"

	"github.com/wippyai/gdbind/api"
	"github.com/wippyai/gdbind/config"
	"github.com/wippyai/gdbind/dispatch"
	"github.com/wippyai/gdbind/enginetest"
	"github.com/wippyai/gdbind/errors"
	"github.com/wippyai/gdbind/variant"
)

const apiPath = "../api/testdata/extension_api.json"

type Player struct {
	dispatch.Base
	jumps int
}

func (*Player) ParentClass() string { return "Node" }

func (p *Player) Jump(height float64) bool {
	p.jumps++
	return height > 0
}

type Boss struct {
	Player
}

func (*Boss) ParentClass() string { return "Player" }
func (*Boss) Roar() string        { return "roar" }

type Orphan struct{}

func (*Orphan) ParentClass() string { return "Missing" }

type Tool struct{}

func (*Tool) ParentClass() string { return "Resource" }

func newExtension(t *testing.T) (*Extension, *enginetest.Engine) {
	t.Helper()
	ctx, err := api.LoadContext(apiPath, api.WithoutPrecisionCheck())
	if err != nil {
		t.Fatalf("LoadContext failed: %v", err)
	}
	eng := enginetest.New()
	return New(eng, WithAPI(ctx)), eng
}

func TestExtension_Levels(t *testing.T) {
	ext, eng := newExtension(t)

	// Boss is queued before its parent.
	for _, c := range []struct {
		proto any
		level config.InitLevel
	}{
		{&Boss{}, config.LevelScene},
		{&Player{}, config.LevelScene},
		{&Tool{}, config.LevelEditor},
	} {
		if err := ext.RegisterClass(c.proto, c.level); err != nil {
			t.Fatalf("RegisterClass(%T) failed: %v", c.proto, err)
		}
	}

	if err := ext.Initialize(config.LevelScene); err != nil {
		t.Fatalf("Initialize(scene) failed: %v", err)
	}
	if got := eng.ExtensionClasses(); !slices.Equal(got, []string{"Player", "Boss"}) {
		t.Fatalf("engine classes = %v, want [Player Boss]", got)
	}
	if err := ext.Initialize(config.LevelScene); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("second Initialize error = %v, want invalid_input", err)
	}
	if err := ext.Initialize(config.LevelEditor); err != nil {
		t.Fatalf("Initialize(editor) failed: %v", err)
	}
	if got := ext.Levels(); !slices.Equal(got, []config.InitLevel{config.LevelScene, config.LevelEditor}) {
		t.Errorf("levels = %v", got)
	}

	_, id, err := eng.Instantiate("Boss")
	if err != nil {
		t.Fatal(err)
	}
	ret, st := eng.CallExtension(id, "jump", variant.NewFloat(1))
	if !st.OK() {
		t.Fatalf("jump status = %s", st)
	}
	if ok, _ := ret.AsBool(); !ok {
		t.Errorf("jump(1) = %v, want true", ret)
	}
	boss, err := dispatch.InstanceOf[*Boss](ext.Dispatcher(), id)
	if err != nil {
		t.Fatal(err)
	}
	if boss.jumps != 1 {
		t.Errorf("jumps = %d, want 1", boss.jumps)
	}
	eng.Destroy(id)

	if err := ext.Deinitialize(config.LevelScene); err != nil {
		t.Fatalf("Deinitialize(scene) failed: %v", err)
	}
	if got := eng.ExtensionClasses(); !slices.Equal(got, []string{"Tool"}) {
		t.Errorf("engine classes after deinit = %v", got)
	}
	if ext.Registry().Has("Player") {
		t.Error("Player still in registry")
	}
	if err := ext.Deinitialize(config.LevelScene); !errors.IsKind(err, errors.KindNotInitialized) {
		t.Errorf("second Deinitialize error = %v, want not_initialized", err)
	}

	if err := ext.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if len(eng.ExtensionClasses()) != 0 || len(ext.Levels()) != 0 {
		t.Error("Close left classes behind")
	}
}

func TestExtension_PartialFailure(t *testing.T) {
	ext, eng := newExtension(t)
	if err := ext.RegisterClass(&Orphan{}, config.LevelScene); err != nil {
		t.Fatal(err)
	}
	if err := ext.RegisterClass(&Player{}, config.LevelScene); err != nil {
		t.Fatal(err)
	}

	err := ext.Initialize(config.LevelScene)
	if err == nil {
		t.Fatal("Initialize succeeded with an unknown parent")
	}
	if n := len(multierr.Errors(err)); n != 1 {
		t.Errorf("aggregated %d errors, want 1: %v", n, err)
	}
	if !errors.IsKind(err, errors.KindNotFound) {
		t.Errorf("error = %v, want not_found", err)
	}
	if got := eng.ExtensionClasses(); !slices.Equal(got, []string{"Player"}) {
		t.Errorf("engine classes = %v, want [Player]", got)
	}
}

func TestExtension_RegisterClass(t *testing.T) {
	ext, eng := newExtension(t)
	if err := ext.Initialize(config.LevelScene); err != nil {
		t.Fatal(err)
	}

	if err := ext.RegisterClass(&Player{}, config.LevelScene); err != nil {
		t.Fatalf("late RegisterClass failed: %v", err)
	}
	if got := eng.ExtensionClasses(); !slices.Equal(got, []string{"Player"}) {
		t.Errorf("late class not registered immediately: %v", got)
	}
	if err := ext.RegisterClass(&Player{}, config.LevelScene); !errors.IsKind(err, errors.KindAlreadyRegistered) {
		t.Errorf("duplicate RegisterClass error = %v, want already_registered", err)
	}
	if err := ext.RegisterClass(Player{}, config.LevelScene); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("non-pointer prototype error = %v, want invalid_input", err)
	}
}

func TestNewFromManifest(t *testing.T) {
	abs, err := filepath.Abs(apiPath)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.gdextension.yaml")
	manifest := "name: demo\n" +
		"entry_symbol: demo_init\n" +
		"api: " + abs + "\n" +
		"classes:\n" +
		"  - name: Player\n" +
		"    level: core\n"
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	eng := enginetest.New()
	ext, err := NewFromManifest(eng, path)
	if err != nil {
		t.Fatalf("NewFromManifest failed: %v", err)
	}
	if ext.API() == nil || ext.Manifest().Name != "demo" {
		t.Fatal("manifest or metadata not loaded")
	}

	if err := ext.RegisterClass(&Player{}, config.LevelScene); err != nil {
		t.Fatal(err)
	}
	if err := ext.Initialize(config.LevelScene); err != nil {
		t.Fatal(err)
	}
	if len(eng.ExtensionClasses()) != 0 {
		t.Error("manifest level ignored")
	}
	if err := ext.Initialize(config.LevelCore); err != nil {
		t.Fatal(err)
	}
	if got := eng.ExtensionClasses(); !slices.Equal(got, []string{"Player"}) {
		t.Errorf("engine classes = %v, want [Player]", got)
	}

	if _, err := NewFromManifest(eng, filepath.Join(dir, "missing.yaml")); !errors.IsKind(err, errors.KindNotFound) {
		t.Errorf("missing manifest error = %v, want not_found", err)
	}
}
