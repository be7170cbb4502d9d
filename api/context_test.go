package api

import (
	"slices"
	"strings"
	"testing"

	"github.com/wippyai/gdbind/config"
	"github.com/wippyai/gdbind/errors"
	"github.com/wippyai/gdbind/variant"
)

func loadTestContext(t *testing.T, opts ...ContextOption) *Context {
	t.Helper()
	opts = append([]ContextOption{WithoutPrecisionCheck()}, opts...)
	ctx, err := LoadContext("testdata/extension_api.json", opts...)
	if err != nil {
		t.Fatalf("LoadContext failed: %v", err)
	}
	return ctx
}

func TestContext_Lookups(t *testing.T) {
	ctx := loadTestContext(t)

	if _, ok := ctx.Class("Node2D"); !ok {
		t.Fatal("Node2D missing")
	}
	if !ctx.IsBuiltin("Variant") || !ctx.IsBuiltin("Vector2") || ctx.IsBuiltin("Object") {
		t.Error("builtin set wrong")
	}
	if !ctx.IsSingleton("Engine") || ctx.IsSingleton("Node") {
		t.Error("singleton set wrong")
	}
	if !ctx.IsNativeStructure("AudioFrame") {
		t.Error("native structure missing")
	}
	if got := ctx.Version(); !strings.Contains(got, "4.2") {
		t.Errorf("Version = %q", got)
	}
	if got := ctx.Classes(); got[0] != "Object" || len(got) != 8 {
		t.Errorf("Classes = %v", got)
	}
}

func TestContext_Bases(t *testing.T) {
	ctx := loadTestContext(t)

	got := ctx.Bases("Sprite2D")
	want := []string{"Node2D", "CanvasItem", "Node", "Object"}
	if !slices.Equal(got, want) {
		t.Fatalf("Bases(Sprite2D) = %v, want %v", got, want)
	}
	if len(ctx.Bases("Object")) != 0 {
		t.Errorf("Object has bases")
	}
	if !ctx.Inherits("Sprite2D", "Node") || ctx.Inherits("Node", "Sprite2D") {
		t.Errorf("Inherits wrong")
	}
}

func TestContext_IsExportable(t *testing.T) {
	ctx := loadTestContext(t)
	tests := map[string]bool{
		"Node":       true,
		"Resource":   true,
		"Sprite2D":   true,
		"RefCounted": false,
		"Object":     false,
	}
	for class, want := range tests {
		if got := ctx.IsExportable(class); got != want {
			t.Errorf("IsExportable(%s) = %v, want %v", class, got, want)
		}
	}
}

func TestContext_IsRefCounted(t *testing.T) {
	ctx := loadTestContext(t)
	if !ctx.IsRefCounted("Resource") || !ctx.IsRefCounted("RefCounted") {
		t.Error("Resource and RefCounted are reference counted")
	}
	if ctx.IsRefCounted("Node") {
		t.Error("Node is manually managed")
	}
}

func TestContext_Notifications(t *testing.T) {
	ctx := loadTestContext(t)

	consts := ctx.NotificationConstants("Node")
	if len(consts) != 2 || consts[1].Name != "NOTIFICATION_READY" || consts[1].Value != 13 {
		t.Fatalf("Node notifications = %v", consts)
	}
	if len(ctx.NotificationConstants("Object")) != 2 {
		t.Errorf("CONNECT_DEFERRED must not count as a notification")
	}

	tests := []struct {
		class string
		name  string
		own   bool
	}{
		{"Object", "ObjectNotification", true},
		{"Node", "NodeNotification", true},
		{"RefCounted", "ObjectNotification", false},
		{"Resource", "ObjectNotification", false},
		{"Node2D", "CanvasItemNotification", false},
		{"Sprite2D", "CanvasItemNotification", false},
	}
	for _, tt := range tests {
		n, ok := ctx.NotificationEnum(tt.class)
		if !ok {
			t.Errorf("%s: no notification enum", tt.class)
			continue
		}
		if n.Name != tt.name || n.DeclaredByOwnClass != tt.own {
			t.Errorf("%s: enum = %+v, want %s own=%v", tt.class, n, tt.name, tt.own)
		}
		if _, owns := n.OwnName(); owns != tt.own {
			t.Errorf("%s: OwnName ok = %v", tt.class, owns)
		}
	}
}

func TestContext_Virtual(t *testing.T) {
	ctx := loadTestContext(t)

	m, owner, ok := ctx.Virtual("Sprite2D", "_process")
	if !ok || owner != "Node" || len(m.Arguments) != 1 {
		t.Fatalf("Virtual(_process) = %v, %q, %v", m, owner, ok)
	}
	if _, _, ok := ctx.Virtual("Node", "get_name"); ok {
		t.Error("get_name is not virtual")
	}
	if _, _, ok := ctx.Virtual("RefCounted", "_draw"); ok {
		t.Error("_draw belongs to CanvasItem")
	}
	if _, owner, ok := ctx.Method("Node2D", "get_class"); !ok || owner != "Object" {
		t.Errorf("Method(get_class) owner = %q, %v", owner, ok)
	}
}

func TestContext_Excluded(t *testing.T) {
	ctx := loadTestContext(t, WithExcluded("EditorPlugin"))
	if _, ok := ctx.Class("EditorPlugin"); ok {
		t.Error("excluded class present")
	}
}

func TestContext_Precision(t *testing.T) {
	a := &API{Header: Header{Precision: config.PrecisionName}}
	if _, err := NewContext(a); err != nil {
		t.Fatalf("matching precision rejected: %v", err)
	}
	other := "double"
	if config.DoublePrecision {
		other = "single"
	}
	a.Header.Precision = other
	if _, err := NewContext(a); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Fatalf("expected precision mismatch, got %v", err)
	}
}

func TestContext_DuplicateClass(t *testing.T) {
	a := &API{Classes: []Class{{Name: "A"}, {Name: "A"}}}
	if _, err := NewContext(a, WithoutPrecisionCheck()); !errors.IsKind(err, errors.KindAlreadyRegistered) {
		t.Fatalf("expected already_registered, got %v", err)
	}
}

func TestInheritanceTree(t *testing.T) {
	tree := NewInheritanceTree()
	if err := tree.Insert("B", "A"); err != nil {
		t.Fatal(err)
	}
	if err := tree.Insert("B", "C"); !errors.IsKind(err, errors.KindAlreadyRegistered) {
		t.Fatalf("duplicate insert: %v", err)
	}
	_ = tree.Insert("A", "B")
	if got := tree.Bases("B"); !slices.Equal(got, []string{"A"}) {
		t.Errorf("cycle not cut: %v", got)
	}
}

func TestVariantType(t *testing.T) {
	ctx := loadTestContext(t)
	tests := []struct {
		in     string
		want   variant.Type
		wantOK bool
	}{
		{"int", variant.TypeInt, true},
		{"float", variant.TypeFloat, true},
		{"bool", variant.TypeBool, true},
		{"String", variant.TypeString, true},
		{"Vector2", variant.TypeVector2, true},
		{"PackedByteArray", variant.TypePackedByteArray, true},
		{"Variant", variant.TypeNil, true},
		{"enum::Error", variant.TypeInt, true},
		{"bitfield::MethodFlags", variant.TypeInt, true},
		{"typedarray::Node", variant.TypeArray, true},
		{"Node", variant.TypeObject, true},
		{"Nope", variant.TypeNil, false},
	}
	for _, tt := range tests {
		got, ok := ctx.VariantType(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("VariantType(%q) = %s, %v; want %s, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
	if _, ok := VariantType("Node"); ok {
		t.Error("package VariantType should not know classes")
	}
	if elem, ok := TypedArrayElem("typedarray::Node"); !ok || elem != "Node" {
		t.Errorf("TypedArrayElem = %q, %v", elem, ok)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load("testdata/missing.json"); !errors.IsKind(err, errors.KindNotFound) {
		t.Errorf("missing file: %v", err)
	}
	if _, err := Parse(strings.NewReader("{")); !errors.IsKind(err, errors.KindInvalidData) {
		t.Errorf("bad json: %v", err)
	}
}
