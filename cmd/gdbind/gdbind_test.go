package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/gdbind/config"
	"github.com/wippyai/gdbind/errors"
)

const apiPath = "../../api/testdata/extension_api.json"

func TestListClasses(t *testing.T) {
	ctx, err := loadAPI(apiPath)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := listClasses(&buf, ctx, "sprite"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Sprite2D < Node2D < CanvasItem < Node < Object") {
		t.Errorf("lineage missing:\n%s", out)
	}
	if strings.Contains(out, "EditorPlugin") {
		t.Errorf("filter ignored:\n%s", out)
	}
	if !strings.Contains(out, "Classes: 1") {
		t.Errorf("count missing:\n%s", out)
	}
}

func TestGenerate(t *testing.T) {
	ctx, err := loadAPI(apiPath)
	if err != nil {
		t.Fatal(err)
	}
	f, err := generate(ctx, "engineapi", []string{"Node", "Resource"})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"package engineapi",
		"DO NOT EDIT",
		`"github.com/wippyai/gdbind/api"`,
		"api.Class{",
		`"Node"`,
		`"Resource"`,
		"func Context(",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s", want)
		}
	}
	if strings.Contains(out, `"Sprite2D"`) {
		t.Error("unselected class emitted")
	}

	if _, err := generate(ctx, "engineapi", []string{"Missing"}); !errors.IsKind(err, errors.KindNotFound) {
		t.Errorf("unknown class error = %v, want not_found", err)
	}
}

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheck(t *testing.T) {
	abs, err := filepath.Abs(apiPath)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	good := writeFile(t, dir, "good.yaml", "name: demo\nentry_symbol: demo_init\napi: "+abs+"\n"+
		"classes:\n  - name: Player\n    level: scene\n")
	r, err := check(good, false)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !r.ok() {
		t.Errorf("problems = %v", r.problems)
	}

	bad := writeFile(t, dir, "bad.yaml", "name: demo\nentry_symbol: demo_init\napi: "+abs+"\n"+
		"classes:\n  - name: Node\n    level: scene\n")
	r, err = check(bad, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.problems) != 1 || !strings.Contains(r.problems[0], "Node") {
		t.Errorf("problems = %v, want a collision with Node", r.problems)
	}

	other := "double"
	if config.DoublePrecision {
		other = "single"
	}
	writeFile(t, dir, "api.json", `{"header": {"precision": "`+other+`"}, "classes": []}`)
	mismatch := writeFile(t, dir, "mismatch.yaml", "name: demo\nentry_symbol: demo_init\napi: api.json\n")
	r, err = check(mismatch, false)
	if err != nil {
		t.Fatal(err)
	}
	if r.ok() || !strings.Contains(r.problems[0], "precision") {
		t.Errorf("problems = %v, want precision mismatch", r.problems)
	}

	probe := writeFile(t, dir, "probe.yaml", "name: demo\nentry_symbol: demo_init\n")
	r, err = check(probe, true)
	if err != nil {
		t.Fatal(err)
	}
	if r.ok() {
		t.Error("probe without a library passed")
	}

	if _, err := check(filepath.Join(dir, "missing.yaml"), false); !errors.IsKind(err, errors.KindNotFound) {
		t.Errorf("missing manifest error = %v, want not_found", err)
	}
}

func TestBrowser(t *testing.T) {
	ctx, err := loadAPI(apiPath)
	if err != nil {
		t.Fatal(err)
	}
	m := newBrowserModel(ctx, apiPath, "")
	if len(m.classes) != len(ctx.Classes()) {
		t.Fatalf("unfiltered classes = %d", len(m.classes))
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("node")})
	if len(m.classes) != 2 {
		t.Errorf("filtered classes = %v, want Node and Node2D", m.classes)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.selected != 1 {
		t.Errorf("selected = %d, want 1", m.selected)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateDetail {
		t.Fatal("enter did not open details")
	}
	if view := m.View(); !strings.Contains(view, "Node2D < CanvasItem") {
		t.Errorf("detail view:\n%s", view)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != stateList {
		t.Error("esc did not return to the list")
	}
}
