package native

import (
	"reflect"
	"strings"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/wippyai/gdbind/errors"
)

// procs holds the engine entry points. Each field is bound to the entry
// point named by its proc tag.
type procs struct {
	GetGodotVersion        func(out unsafe.Pointer)                                                              `proc:"get_godot_version"`
	MemAlloc               func(size uintptr) unsafe.Pointer                                                     `proc:"mem_alloc"`
	MemFree                func(p unsafe.Pointer)                                                                `proc:"mem_free"`
	VariantNewCopy         func(dst, src unsafe.Pointer)                                                         `proc:"variant_new_copy"`
	VariantNewNil          func(dst unsafe.Pointer)                                                              `proc:"variant_new_nil"`
	VariantDestroy         func(v unsafe.Pointer)                                                                `proc:"variant_destroy"`
	VariantGetType         func(v unsafe.Pointer) uint32                                                         `proc:"variant_get_type"`
	StringNewWithUTF8      func(dst unsafe.Pointer, s string, n int64)                                           `proc:"string_new_with_utf8_chars_and_len"`
	StringToUTF8           func(s unsafe.Pointer, buf unsafe.Pointer, n int64) int64                             `proc:"string_to_utf8_chars"`
	StringNameNewWithUTF8  func(dst unsafe.Pointer, s string, n int64)                                           `proc:"string_name_new_with_utf8_chars_and_len"`
	ObjectMethodBindCall   func(bind, obj uintptr, args unsafe.Pointer, argc int64, ret, callErr unsafe.Pointer) `proc:"object_method_bind_call"`
	ClassdbGetMethodBind   func(class, method unsafe.Pointer, hash int64) uintptr                                `proc:"classdb_get_method_bind"`
	ClassdbConstructObject func(class unsafe.Pointer) uintptr                                                    `proc:"classdb_construct_object"`
	ObjectDestroy          func(obj uintptr)                                                                     `proc:"object_destroy"`
	ObjectGetInstanceFrom  func(id uint64) uintptr                                                               `proc:"object_get_instance_from_id"`
	ObjectGetInstanceID    func(obj uintptr) uint64                                                              `proc:"object_get_instance_id"`
}

// resolve binds every entry point through getProcAddress. Entry points the
// engine does not provide are reported together.
func resolve(getProcAddress uintptr) (*procs, error) {
	var lookup func(name string) uintptr
	purego.RegisterFunc(&lookup, getProcAddress)

	var p procs
	t := reflect.TypeOf(&p).Elem()
	v := reflect.ValueOf(&p).Elem()
	var missing []string
	for i := range t.NumField() {
		field := t.Field(i)
		name := field.Tag.Get("proc")
		if field.Type.Kind() != reflect.Func || name == "" {
			continue
		}
		addr := lookup(name)
		if addr == 0 {
			missing = append(missing, name)
			continue
		}
		purego.RegisterFunc(v.Field(i).Addr().Interface(), addr)
	}
	if len(missing) > 0 {
		return nil, errors.New(errors.PhaseABI, errors.KindNotFound).
			Detail("engine does not provide %s", strings.Join(missing, ", ")).
			Build()
	}
	return &p, nil
}

// Names returns the entry points Load resolves.
func Names() []string {
	t := reflect.TypeFor[procs]()
	out := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		if name := t.Field(i).Tag.Get("proc"); name != "" {
			out = append(out, name)
		}
	}
	return out
}
