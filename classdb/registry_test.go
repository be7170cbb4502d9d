package classdb

import (
	"testing"

	"github.com/wippyai/gdbind/api"
	"github.com/wippyai/gdbind/errors"
	"github.com/wippyai/gdbind/variant"
)

func loadAPI(t *testing.T) *api.Context {
	t.Helper()
	ctx, err := api.LoadContext("../api/testdata/extension_api.json", api.WithoutPrecisionCheck())
	if err != nil {
		t.Fatalf("LoadContext failed: %v", err)
	}
	return ctx
}

type Player struct {
	ready   bool
	elapsed float64
}

func (p *Player) ParentClass() string      { return "Node" }
func (p *Player) Ready()                   { p.ready = true }
func (p *Player) Process(delta float64)    { p.elapsed += delta }
func (p *Player) Jump(height float64) bool { return height > 0 }

type Boss struct {
	Player
}

func (b *Boss) ParentClass() string { return "Player" }
func (b *Boss) Roar() string        { return "roar" }

type Minion struct{}

func (*Minion) ParentClass() string { return "Player" }
func (*Minion) Wave()               {}

type badVirtual struct{}

func (*badVirtual) ParentClass() string  { return "Node" }
func (*badVirtual) Process(delta string) {}

type badVirtualReturn struct{}

func (*badVirtualReturn) ParentClass() string { return "Node" }
func (*badVirtualReturn) Ready() int64        { return 1 }

func mustDescribe(t *testing.T, proto any, opts ...Option) *ClassDescriptor {
	t.Helper()
	desc, err := Describe(proto, opts...)
	if err != nil {
		t.Fatalf("Describe(%T) failed: %v", proto, err)
	}
	return desc
}

func TestDescribe_Virtuals(t *testing.T) {
	ctx := loadAPI(t)
	desc := mustDescribe(t, &Player{}, WithVirtuals(ctx))

	ready, ok := desc.Method("_ready")
	if !ok || !ready.Virtual {
		t.Fatal("Ready should override _ready")
	}
	if _, ok := desc.Method("ready"); ok {
		t.Error("virtual override also exposed under its plain name")
	}
	if process, ok := desc.Method("_process"); !ok || !process.Virtual {
		t.Error("Process should override _process")
	}
	if jump, _ := desc.Method("jump"); jump.Virtual {
		t.Error("jump is not a virtual")
	}

	if n := len(desc.Virtuals()); n != 2 {
		t.Errorf("Virtuals() = %d, want 2", n)
	}
	for _, info := range desc.MethodInfos() {
		if info.Name == "_ready" || info.Name == "_process" {
			t.Errorf("virtual %s registered as a method", info.Name)
		}
	}

	_, err := Describe(&badVirtual{}, WithVirtuals(ctx))
	if !errors.IsKind(err, errors.KindSignatureConflict) {
		t.Errorf("wrong argument type: expected signature_conflict, got %v", err)
	}
	_, err = Describe(&badVirtualReturn{}, WithVirtuals(ctx))
	if !errors.IsKind(err, errors.KindSignatureConflict) {
		t.Errorf("unexpected return: expected signature_conflict, got %v", err)
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	desc := mustDescribe(t, &Foo{})

	reg, err := r.Register(desc)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	add, _ := reg.Method("add")
	if add.Bind == 0 {
		t.Fatal("bind id not assigned")
	}

	b, err := r.Bind(add.Bind)
	if err != nil {
		t.Fatal(err)
	}
	if b.Class != "Foo" || b.Method.Name != "add" {
		t.Errorf("Bind resolved to %s.%s", b.Class, b.Method.Name)
	}

	// Re-registering the same name is rejected and leaves the first intact
	_, err = r.Register(mustDescribe(t, &Foo{}))
	if !errors.IsKind(err, errors.KindAlreadyRegistered) {
		t.Fatalf("expected already_registered, got %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len = %d", r.Len())
	}
	if _, err := r.Bind(add.Bind); err != nil {
		t.Fatal("failed re-registration invalidated existing binds")
	}
}

func TestRegistry_Immutable(t *testing.T) {
	r := NewRegistry()
	reg, err := r.Register(mustDescribe(t, &Foo{}))
	if err != nil {
		t.Fatal(err)
	}

	reg.Methods[0].Name = "mutated"
	reg.Methods[0].Params = nil
	reg.Properties = nil

	c, _ := r.Class("Foo")
	if c.Methods[0].Name == "mutated" || len(c.Properties) != 1 {
		t.Fatal("registered descriptor changed through a returned copy")
	}
}

func TestRegistry_Parents(t *testing.T) {
	ctx := loadAPI(t)
	r := NewRegistry(WithAPI(ctx))

	if _, err := r.Register(mustDescribe(t, &Foo{}, WithParent("Missing"))); !errors.IsKind(err, errors.KindNotFound) {
		t.Fatalf("unknown parent: expected not_found, got %v", err)
	}
	if _, err := r.Register(mustDescribe(t, &Foo{}, WithName("Node2D"))); !errors.IsKind(err, errors.KindAlreadyRegistered) {
		t.Fatalf("engine class name: expected already_registered, got %v", err)
	}

	if _, err := r.Register(mustDescribe(t, &Player{})); err != nil {
		t.Fatalf("Register Player failed: %v", err)
	}
	if _, err := r.Register(mustDescribe(t, &Boss{})); err != nil {
		t.Fatalf("Register Boss failed: %v", err)
	}

	want := []string{"Player", "Node", "Object"}
	got := r.Bases("Boss")
	if len(got) != len(want) {
		t.Fatalf("Bases = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Bases = %v, want %v", got, want)
		}
	}
	if !r.IsSubclass("Boss", "Node") || r.IsSubclass("Player", "Boss") {
		t.Error("IsSubclass gave wrong answer")
	}
	if got := r.EngineBase("Boss"); got != "Node" {
		t.Errorf("EngineBase = %q", got)
	}
	if got := r.Bases("Node2D"); len(got) != 3 || got[0] != "CanvasItem" {
		t.Errorf("engine class bases = %v", got)
	}

	// Methods resolve up the registered chain
	if _, err := r.Register(mustDescribe(t, &Minion{})); err != nil {
		t.Fatal(err)
	}
	m, owner, ok := r.Method("Minion", "jump")
	if !ok || owner != "Player" || m.Name != "jump" {
		t.Errorf("Method(Minion, jump) = %v, %q, %v", m.Name, owner, ok)
	}
	if _, owner, _ := r.Method("Boss", "jump"); owner != "Boss" {
		t.Errorf("promoted method owner = %q, want Boss", owner)
	}
	if _, _, ok := r.Method("Boss", "_ready"); ok {
		t.Error("virtual overrides are not plain methods")
	}

	if got := r.Classes(); len(got) != 3 || got[0] != "Player" || got[2] != "Minion" {
		t.Errorf("Classes = %v", got)
	}
}

func TestRegistry_Virtuals(t *testing.T) {
	ctx := loadAPI(t)
	r := NewRegistry(WithAPI(ctx))

	// Virtual resolution happens at registration even without WithVirtuals
	if _, err := r.Register(mustDescribe(t, &Player{})); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Register(mustDescribe(t, &Boss{})); err != nil {
		t.Fatal(err)
	}

	bind, ok := r.Virtual("Boss", "_ready")
	if !ok {
		t.Fatal("Boss should inherit the _ready override")
	}
	b, err := r.ResolveVirtual(bind)
	if err != nil {
		t.Fatal(err)
	}
	if b.Class != "Boss" || b.Method.GoName != "Ready" {
		t.Errorf("resolved to %s.%s", b.Class, b.Method.GoName)
	}
	if _, err := r.Register(mustDescribe(t, &Minion{})); err != nil {
		t.Fatal(err)
	}
	mb, ok := r.Virtual("Minion", "_ready")
	if !ok {
		t.Fatal("Minion should inherit Player's _ready override")
	}
	if b, _ := r.ResolveVirtual(mb); b.Class != "Player" {
		t.Errorf("inherited override owner = %q, want Player", b.Class)
	}
	if _, ok := r.Virtual("Boss", "_draw"); ok {
		t.Error("_draw is not overridden")
	}
	if _, ok := r.Virtual("Node", "_ready"); ok {
		t.Error("engine classes have no registered overrides")
	}
}

func TestRegistry_UnregisterStale(t *testing.T) {
	ctx := loadAPI(t)
	r := NewRegistry(WithAPI(ctx))

	reg, _ := r.Register(mustDescribe(t, &Player{}))
	jump, _ := reg.Method("jump")
	vbind, _ := r.Virtual("Player", "_ready")
	gen := r.Generation()

	if _, err := r.Register(mustDescribe(t, &Boss{})); err != nil {
		t.Fatal(err)
	}
	if err := r.Unregister("Player"); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Fatalf("unregister with subclass: expected invalid_input, got %v", err)
	}
	if err := r.Unregister("Boss"); err != nil {
		t.Fatal(err)
	}
	if err := r.Unregister("Player"); err != nil {
		t.Fatal(err)
	}
	if r.Generation() <= gen {
		t.Fatal("generation did not advance")
	}

	if _, err := r.Bind(jump.Bind); !errors.IsKind(err, errors.KindStaleMetadata) {
		t.Fatalf("stale bind: expected stale_metadata, got %v", err)
	}
	if _, err := r.ResolveVirtual(vbind); !errors.IsKind(err, errors.KindStaleMetadata) {
		t.Fatalf("stale virtual: expected stale_metadata, got %v", err)
	}

	// Hot reload: the class comes back under a new generation
	reg2, err := r.Register(mustDescribe(t, &Player{}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.ResolveVirtual(vbind); !errors.IsKind(err, errors.KindStaleMetadata) {
		t.Fatalf("old virtual bind after reload: expected stale_metadata, got %v", err)
	}
	jump2, _ := reg2.Method("jump")
	if jump2.Bind == jump.Bind {
		t.Error("bind ids must not be reused")
	}

	if err := r.Unregister("Nope"); !errors.IsKind(err, errors.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

type loudBoss struct {
	Player
}

func (*loudBoss) ParentClass() string { return "Player" }

// Jump conflicts with Player.Jump(float64) bool.
func (*loudBoss) Jump(height string) bool { return height != "" }

func TestRegistry_OverrideConflict(t *testing.T) {
	r := NewRegistry(WithAPI(loadAPI(t)))
	if _, err := r.Register(mustDescribe(t, &Player{})); err != nil {
		t.Fatal(err)
	}
	_, err := r.Register(mustDescribe(t, &loudBoss{}, WithName("LoudBoss")))
	if !errors.IsKind(err, errors.KindSignatureConflict) {
		t.Fatalf("expected signature_conflict, got %v", err)
	}
}

func TestRegistry_ClassExistsFallback(t *testing.T) {
	known := map[string]bool{"Node": true}
	r := NewRegistry(WithClassExists(func(c string) bool { return known[c] }))

	if _, err := r.Register(mustDescribe(t, &Foo{}, WithParent("Node"))); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := r.Register(mustDescribe(t, &Foo{}, WithName("Bar"), WithParent("Sprite2D"))); !errors.IsKind(err, errors.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}

	add, _, _ := r.Method("Foo", "add")
	if add.Params[0].Type != variant.TypeInt {
		t.Errorf("add param type = %s", add.Params[0].Type)
	}
}
