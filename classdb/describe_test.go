package classdb

import (
	"testing"

	"github.com/wippyai/gdbind/abi"
	"github.com/wippyai/gdbind/errors"
	"github.com/wippyai/gdbind/variant"
)

type Foo struct {
	health int64
}

func (f *Foo) Add(a, b int64) int64 { return a + b }

func (f *Foo) GetHealth() int64 { return f.health }

func (f *Foo) SetHealth(v int64) { f.health = v }

func (f *Foo) Greet(name string) (string, error) { return "hi " + name, nil }

func (f *Foo) Sum(xs ...int64) int64 {
	var s int64
	for _, x := range xs {
		s += x
	}
	return s
}

func (f *Foo) Any(v variant.Variant) variant.Variant { return v }

func (f *Foo) Properties() []PropertySpec {
	return []PropertySpec{{Name: "health", Hint: abi.HintRange, HintText: "0,100"}}
}

func (f *Foo) Signals() []SignalSpec {
	return []SignalSpec{{Name: "hit", Params: []ParamSpec{{Name: "damage", Type: variant.TypeInt}}}}
}

func TestDescribe_Foo(t *testing.T) {
	desc, err := Describe(&Foo{})
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if desc.Name != "Foo" || desc.Parent != "Object" {
		t.Fatalf("unexpected class %s(%s)", desc.Name, desc.Parent)
	}

	add, ok := desc.Method("add")
	if !ok {
		t.Fatal("method add missing")
	}
	if got := add.Signature(); got != "add(int, int) -> int" {
		t.Errorf("add signature = %q", got)
	}
	if add.Virtual {
		t.Error("add should not be virtual")
	}

	greet, _ := desc.Method("greet")
	if !greet.ReturnsError || greet.Return == nil || greet.Return.Type != variant.TypeString {
		t.Errorf("greet described wrong: %+v", greet)
	}

	sum, _ := desc.Method("sum")
	if !sum.Vararg() || len(sum.Params) != 0 {
		t.Errorf("sum should be variadic with no fixed params")
	}
	if info := sum.Info(); info.Flags&abi.MethodVararg == 0 {
		t.Error("vararg flag missing from method info")
	}

	anyM, _ := desc.Method("any")
	if !anyM.Params[0].AcceptsAny() {
		t.Error("Variant parameter should accept any type")
	}
	if info := anyM.Info(); info.Args[0].Usage&abi.UsageNilIsVariant == 0 {
		t.Error("Variant parameter should be flagged nil-is-variant")
	}

	for _, skippedName := range []string{"properties", "signals"} {
		if _, ok := desc.Method(skippedName); ok {
			t.Errorf("%s should not be exposed", skippedName)
		}
	}

	p, ok := desc.Property("health")
	if !ok {
		t.Fatal("property health missing")
	}
	if p.Getter != "get_health" || p.Setter != "set_health" || p.Type != variant.TypeInt {
		t.Errorf("unexpected property %+v", p)
	}
	if b := p.Binding(); b.Info.Usage != abi.UsageDefault || b.Info.HintText != "0,100" {
		t.Errorf("unexpected binding %+v", b)
	}

	s, ok := desc.Signal("hit")
	if !ok || len(s.Params) != 1 || s.Params[0].Type != variant.TypeInt {
		t.Errorf("unexpected signal %+v", s)
	}

	payload := desc.NewInstance()
	if _, ok := payload.(*Foo); !ok {
		t.Fatalf("NewInstance returned %T", payload)
	}
}

type named struct{}

func (*named) ClassName() string   { return "Renamed" }
func (*named) ParentClass() string { return "Node" }
func (*named) DoThing()            {}
func (*named) MethodNames() map[string]string {
	return map[string]string{"DoThing": "perform"}
}

func TestDescribe_Overrides(t *testing.T) {
	desc, err := Describe(&named{})
	if err != nil {
		t.Fatal(err)
	}
	if desc.Name != "Renamed" || desc.Parent != "Node" {
		t.Errorf("got %s(%s)", desc.Name, desc.Parent)
	}
	if _, ok := desc.Method("perform"); !ok {
		t.Error("renamed method missing")
	}

	desc, err = Describe(&named{}, WithName("Other"), WithParent("Resource"), Abstract())
	if err != nil {
		t.Fatal(err)
	}
	if desc.Name != "Other" || desc.Parent != "Resource" || !desc.Abstract {
		t.Errorf("options not applied: %s", desc)
	}
}

type dupNames struct{}

func (*dupNames) Run()  {}
func (*dupNames) Walk() {}
func (*dupNames) MethodNames() map[string]string {
	return map[string]string{"Walk": "run"}
}

type badParam struct{}

func (*badParam) Take(ch chan int) {}

type badResult struct{}

func (*badResult) Pair() (int64, int64) { return 0, 0 }

type tooManyResults struct{}

func (*tooManyResults) Triple() (int64, int64, error) { return 0, 0, nil }

type missingGetter struct{}

func (*missingGetter) Properties() []PropertySpec { return []PropertySpec{{Name: "speed"}} }

type mismatchedProperty struct{}

func (*mismatchedProperty) GetSpeed() float64 { return 0 }
func (*mismatchedProperty) SetSpeed(v int64)  {}
func (*mismatchedProperty) Properties() []PropertySpec {
	return []PropertySpec{{Name: "speed"}}
}

type missingSetter struct{}

func (*missingSetter) GetSpeed() float64 { return 0 }
func (*missingSetter) Properties() []PropertySpec {
	return []PropertySpec{{Name: "speed", Setter: "ChangeSpeed"}}
}

type dupSignal struct{}

func (*dupSignal) Signals() []SignalSpec { return []SignalSpec{{Name: "a"}, {Name: "a"}} }

type signalMethodClash struct{}

func (*signalMethodClash) Fire() {}
func (*signalMethodClash) Signals() []SignalSpec {
	return []SignalSpec{{Name: "fire"}}
}

func TestDescribe_Errors(t *testing.T) {
	tests := []struct {
		name  string
		proto any
		kind  errors.Kind
	}{
		{"nil", nil, errors.KindInvalidInput},
		{"not a pointer", Foo{}, errors.KindInvalidInput},
		{"pointer to non-struct", new(int), errors.KindInvalidInput},
		{"duplicate method name", &dupNames{}, errors.KindDuplicateMember},
		{"unsupported parameter", &badParam{}, errors.KindUnsupported},
		{"second result not error", &badResult{}, errors.KindUnsupported},
		{"too many results", &tooManyResults{}, errors.KindUnsupported},
		{"missing getter", &missingGetter{}, errors.KindSignatureConflict},
		{"getter setter disagree", &mismatchedProperty{}, errors.KindSignatureConflict},
		{"explicit setter missing", &missingSetter{}, errors.KindSignatureConflict},
		{"duplicate signal", &dupSignal{}, errors.KindDuplicateMember},
		{"signal named like method", &signalMethodClash{}, errors.KindDuplicateMember},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Describe(tt.proto)
			if !errors.IsKind(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}

type speedOnly struct{}

func (*speedOnly) GetSpeed() float64 { return 3 }
func (*speedOnly) Properties() []PropertySpec {
	return []PropertySpec{{Name: "speed"}}
}

func TestDescribe_GetterOnly(t *testing.T) {
	desc, err := Describe(&speedOnly{})
	if err != nil {
		t.Fatal(err)
	}
	p, _ := desc.Property("speed")
	if p.Setter != "" {
		t.Errorf("expected read-only property, setter = %q", p.Setter)
	}
}

func TestDescribe_Skip(t *testing.T) {
	desc, err := Describe(&Foo{}, WithSkip("Sum", "Any"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := desc.Method("sum"); ok {
		t.Error("skipped method exposed")
	}
	if len(desc.MethodInfos()) != len(desc.Methods) {
		t.Error("non-virtual methods should all have infos")
	}
}

func TestDescribeClass(t *testing.T) {
	desc, err := DescribeClass[Foo]()
	if err != nil {
		t.Fatal(err)
	}
	if desc.GoType().String() != "*classdb.Foo" {
		t.Errorf("GoType = %s", desc.GoType())
	}
}
