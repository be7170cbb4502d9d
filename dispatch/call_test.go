package dispatch

import (
	"testing"

	"github.com/wippyai/gdbind/errors"
	"github.com/wippyai/gdbind/object"
	"github.com/wippyai/gdbind/variant"
)

func TestCall_Outbound(t *testing.T) {
	f := newFixture(t)
	f.register(t, &Foo{})

	h, err := f.d.Construct("Foo")
	if err != nil {
		t.Fatalf("Construct failed: %v", err)
	}
	if h.Ownership() != object.Manual {
		t.Errorf("ownership = %s, want manual", h.Ownership())
	}

	sum, err := Call[int64](h, "add", 2, 3)
	if err != nil {
		t.Fatalf("Call(add) failed: %v", err)
	}
	if sum != 5 {
		t.Errorf("add(2, 3) = %d, want 5", sum)
	}

	class, err := Call[string](h, "get_class")
	if err != nil || class != "Foo" {
		t.Errorf("get_class = %q, %v", class, err)
	}

	if err := CallVoid(h, "set_health", 9); err != nil {
		t.Fatalf("CallVoid(set_health) failed: %v", err)
	}
	if hp, _ := Call[int64](h, "get_health"); hp != 9 {
		t.Errorf("health = %d, want 9", hp)
	}

	if _, err := Call[int64](h, "no_such_method"); !errors.IsKind(err, errors.KindMethodNotFound) {
		t.Errorf("unknown method error = %v, want method_not_found", err)
	}
	if _, err := Call[int64](h, "add", "two", 3); !errors.IsKind(err, errors.KindArgumentMismatch) {
		t.Errorf("bad argument error = %v, want argument_mismatch", err)
	}
	if _, err := Call[bool](h, "add", 2, 3); !errors.IsKind(err, errors.KindTypeMismatch) {
		t.Errorf("bad result error = %v, want type_mismatch", err)
	}
	if _, err := Call[int64](h, "add", struct{}{}, 3); !errors.IsKind(err, errors.KindUnsupported) {
		t.Errorf("unconvertible argument error = %v, want unsupported", err)
	}

	id := h.InstanceID()
	if err := h.Free(); err != nil {
		t.Fatalf("Free failed: %v", err)
	}
	if f.d.Storage().Has(id) {
		t.Error("instance still registered after Free")
	}
	if _, err := Call[int64](h, "add", 2, 3); !errors.IsKind(err, errors.KindStaleReference) {
		t.Errorf("call on freed object error = %v, want stale_reference", err)
	}
}

func TestCall_NativeFailure(t *testing.T) {
	f := newFixture(t)
	f.register(t, &Foo{})
	h, err := f.d.Construct("Foo")
	if err != nil {
		t.Fatal(err)
	}
	defer h.Free()

	for _, method := range []string{"fail", "explode"} {
		t.Run(method, func(t *testing.T) {
			_, err := h.Call(method)
			if !errors.IsKind(err, errors.KindNativeFailure) {
				t.Errorf("Call(%s) error = %v, want native_failure", method, err)
			}
			if _, err := Call[int64](h, method); !errors.IsKind(err, errors.KindNativeFailure) {
				t.Errorf("Call[int64](%s) error = %v, want native_failure", method, err)
			}
		})
	}

	if _, err := h.Call("no_such_method"); !errors.IsKind(err, errors.KindMethodNotFound) {
		t.Errorf("missing method error = %v, want method_not_found", err)
	}
	if sum, err := Call[int64](h, "add", 2, 3); err != nil || sum != 5 {
		t.Errorf("add after failures = %d, %v", sum, err)
	}
}

func TestCall_ObjectArguments(t *testing.T) {
	f := newFixture(t)
	f.register(t, &Foo{})

	foo, err := f.d.Construct("Foo")
	if err != nil {
		t.Fatal(err)
	}
	defer foo.Free()
	node, err := f.d.Objects().New("Node")
	if err != nil {
		t.Fatal(err)
	}
	defer node.Free()

	got, err := Call[string](foo, "friend", node)
	if err != nil {
		t.Fatalf("Call(friend) failed: %v", err)
	}
	if got != "Node" {
		t.Errorf("friend(node) = %q, want Node", got)
	}

	got, err = Call[string](foo, "friend", (*object.Handle)(nil))
	if err != nil || got != "nobody" {
		t.Errorf("friend(nil) = %q, %v", got, err)
	}

	if n := f.d.Objects().Tracked(); n != 2 {
		t.Errorf("tracked manual objects = %d, want 2", n)
	}
}

func TestCall_HandleResult(t *testing.T) {
	f := newFixture(t)
	res, err := f.d.Objects().New("Resource")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Drop()

	node, err := f.d.Objects().New("Node")
	if err != nil {
		t.Fatal(err)
	}
	defer node.Free()
	if err := node.Set("child", res.Variant()); err != nil {
		t.Fatal(err)
	}

	got, err := Call[*object.Handle](node, "get", variant.StringName("child"))
	if err != nil {
		t.Fatalf("Call(get) failed: %v", err)
	}
	if !got.Equal(res) || got.Ownership() != object.RefCounted {
		t.Fatalf("get(child) = %v", got)
	}
	if n, _ := got.RefCount(); n != 2 {
		t.Errorf("refcount = %d, want 2", n)
	}
	got.Drop()
	if n, _ := res.RefCount(); n != 1 {
		t.Errorf("refcount after drop = %d, want 1", n)
	}
}

func TestDispatcher_Emit(t *testing.T) {
	f := newFixture(t)
	f.register(t, &Foo{})
	h, err := f.d.Construct("Foo")
	if err != nil {
		t.Fatal(err)
	}
	defer h.Free()

	if err := f.d.Emit(h, "hit", 5); err != nil {
		t.Fatalf("Emit(hit) failed: %v", err)
	}
	if err := f.d.Emit(h, "ready"); err != nil {
		t.Errorf("Emit(ready) failed: %v", err)
	}

	tests := []struct {
		name   string
		signal string
		args   []any
		kind   errors.Kind
	}{
		{"missing argument", "hit", nil, errors.KindArgumentMismatch},
		{"extra argument", "hit", []any{1, 2}, errors.KindArgumentMismatch},
		{"wrong type", "hit", []any{"five"}, errors.KindArgumentMismatch},
		{"unknown signal", "bogus", nil, errors.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := f.d.Emit(h, tt.signal, tt.args...); !errors.IsKind(err, tt.kind) {
				t.Errorf("Emit error = %v, want %s", err, tt.kind)
			}
		})
	}

	em := f.eng.Emissions(h.InstanceID())
	if len(em) != 2 || em[0].Signal != "hit" || em[1].Signal != "ready" {
		t.Fatalf("emissions = %+v", em)
	}
	if n, _ := em[0].Args[0].AsInt(); n != 5 {
		t.Errorf("hit damage = %v, want 5", em[0].Args[0])
	}
}
