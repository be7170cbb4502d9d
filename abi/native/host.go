package native

import (
	"fmt"
	"unsafe"

	"github.com/wippyai/gdbind"
	"github.com/wippyai/gdbind/abi"
	"github.com/wippyai/gdbind/errors"
	"github.com/wippyai/gdbind/internal/guard"
	"github.com/wippyai/gdbind/variant"
)

// Version is the engine version reported by get_godot_version.
type Version struct {
	Major, Minor, Patch uint32
	Text                string
}

func (v Version) String() string {
	if v.Text != "" {
		return v.Text
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// versionC mirrors the engine's version struct.
type versionC struct {
	major, minor, patch uint32
	text                *byte
}

// Host calls engine entry points resolved from get_proc_address. It covers
// memory, variants, object identity and method binds.
type Host struct {
	p     *procs
	names map[string]unsafe.Pointer
	mu    guard.RWMutex
}

// Load resolves the engine entry points through getProcAddress, the
// function pointer the engine passes to the extension entry symbol.
func Load(getProcAddress uintptr) (*Host, error) {
	if getProcAddress == 0 {
		return nil, errors.InvalidInput(errors.PhaseABI, "nil get_proc_address")
	}
	p, err := resolve(getProcAddress)
	if err != nil {
		return nil, err
	}
	return &Host{p: p, names: make(map[string]unsafe.Pointer)}, nil
}

// Version returns the running engine version.
func (h *Host) Version() Version {
	var v versionC
	h.p.GetGodotVersion(unsafe.Pointer(&v))
	return Version{Major: v.major, Minor: v.minor, Patch: v.patch, Text: cstring(v.text)}
}

// Alloc allocates size bytes from the engine allocator.
func (h *Host) Alloc(size uintptr) unsafe.Pointer { return h.p.MemAlloc(size) }

// Free returns memory obtained from Alloc.
func (h *Host) Free(p unsafe.Pointer) { h.p.MemFree(p) }

// NewVariant encodes v into engine memory owned by the caller. Release it
// with DestroyVariant.
func (h *Host) NewVariant(v variant.Variant) (*Raw, error) {
	raw, err := Encode(v)
	if err != nil {
		return nil, err
	}
	dst := (*Raw)(h.Alloc(VariantSize))
	if dst == nil {
		return nil, errors.New(errors.PhaseABI, errors.KindInvalidData).
			Detail("engine allocator returned nil").
			Build()
	}
	h.p.VariantNewCopy(unsafe.Pointer(dst), unsafe.Pointer(&raw))
	return dst, nil
}

// DestroyVariant releases a variant created by NewVariant.
func (h *Host) DestroyVariant(r *Raw) {
	if r == nil {
		return
	}
	h.p.VariantDestroy(unsafe.Pointer(r))
	h.Free(unsafe.Pointer(r))
}

// ReadVariant decodes an engine-owned variant.
func (h *Host) ReadVariant(r *Raw) (variant.Variant, error) {
	if t := variant.Type(h.p.VariantGetType(unsafe.Pointer(r))); t != r.Type() {
		return variant.Nil(), errors.New(errors.PhaseABI, errors.KindInvalidData).
			VariantType(t.String()).
			Detail("variant header reports %s", r.Type()).
			Build()
	}
	return Decode(r)
}

// ReadString copies an engine String into Go memory.
func (h *Host) ReadString(s unsafe.Pointer) string {
	n := h.p.StringToUTF8(s, nil, 0)
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	h.p.StringToUTF8(s, unsafe.Pointer(&buf[0]), n)
	return string(buf)
}

// WriteString initializes the engine String at dst with s.
func (h *Host) WriteString(dst unsafe.Pointer, s string) {
	h.p.StringNewWithUTF8(dst, s, int64(len(s)))
}

// InstanceFromID returns the object for id, or zero if it is gone.
func (h *Host) InstanceFromID(id gdbind.InstanceID) gdbind.ObjectPtr {
	return gdbind.ObjectPtr(h.p.ObjectGetInstanceFrom(uint64(id)))
}

// InstanceID returns the id of a live object.
func (h *Host) InstanceID(ptr gdbind.ObjectPtr) gdbind.InstanceID {
	return gdbind.InstanceID(h.p.ObjectGetInstanceID(uintptr(ptr)))
}

// DestroyObject destroys an engine object.
func (h *Host) DestroyObject(ptr gdbind.ObjectPtr) {
	h.p.ObjectDestroy(uintptr(ptr))
}

// stringName returns an engine StringName for s. Names are interned for the
// life of the process.
func (h *Host) stringName(s string) unsafe.Pointer {
	h.mu.RLock()
	sn, ok := h.names[s]
	h.mu.RUnlock()
	if ok {
		return sn
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if sn, ok := h.names[s]; ok {
		return sn
	}
	sn = h.Alloc(stringNameSize)
	h.p.StringNameNewWithUTF8(sn, s, int64(len(s)))
	h.names[s] = sn
	return sn
}

// MethodBind looks up an engine method by class, name and metadata hash.
func (h *Host) MethodBind(class, method string, hash int64) (uintptr, error) {
	bind := h.p.ClassdbGetMethodBind(h.stringName(class), h.stringName(method), hash)
	if bind == 0 {
		return 0, errors.New(errors.PhaseABI, errors.KindMethodNotFound).
			Class(class).
			Member(method).
			Value(hash).
			Detail("no method bind").
			Build()
	}
	return bind, nil
}

// ConstructObject creates an object of a native engine class.
func (h *Host) ConstructObject(class string) (gdbind.ObjectPtr, error) {
	ptr := h.p.ClassdbConstructObject(h.stringName(class))
	if ptr == 0 {
		return 0, errors.NotFound(errors.PhaseABI, "engine class", class)
	}
	return gdbind.ObjectPtr(ptr), nil
}

// CallBind calls a method bind on obj. Arguments and the result are copied
// through engine memory; the engine never sees Go pointers.
func (h *Host) CallBind(bind uintptr, obj gdbind.ObjectPtr, args []variant.Variant) (variant.Variant, abi.CallError, error) {
	var raws []*Raw
	defer func() {
		for _, r := range raws {
			h.DestroyVariant(r)
		}
	}()
	for i, a := range args {
		r, err := h.NewVariant(a)
		if err != nil {
			return variant.Nil(), abi.CallError{}, errors.WithPath(err, fmt.Sprintf("[%d]", i))
		}
		raws = append(raws, r)
	}

	var argv unsafe.Pointer
	if len(raws) > 0 {
		argv = h.Alloc(uintptr(len(raws)) * unsafe.Sizeof(uintptr(0)))
		defer h.Free(argv)
		ptrs := unsafe.Slice((*uintptr)(argv), len(raws))
		for i, r := range raws {
			ptrs[i] = uintptr(unsafe.Pointer(r))
		}
	}

	ret := (*Raw)(h.Alloc(VariantSize))
	defer h.Free(unsafe.Pointer(ret))
	status := (*abi.CallError)(h.Alloc(unsafe.Sizeof(abi.CallError{})))
	defer h.Free(unsafe.Pointer(status))
	*status = abi.CallError{}

	h.p.ObjectMethodBindCall(bind, uintptr(obj), argv, int64(len(raws)), unsafe.Pointer(ret), unsafe.Pointer(status))
	if !status.OK() {
		return variant.Nil(), *status, nil
	}
	defer h.p.VariantDestroy(unsafe.Pointer(ret))
	v, err := h.ReadVariant(ret)
	return v, *status, err
}

func cstring(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return unsafe.String(p, n)
}
