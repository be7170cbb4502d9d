package variant

import (
	"slices"

	"github.com/wippyai/gdbind/errors"
)

// Array is an ordered, heterogeneous sequence of Variants. Arrays are shared by
// reference: every Variant wrapping the same *Array sees the same elements.
//
// A typed array accepts only elements of its element type (plus Nil for
// object arrays). A read-only array rejects every mutation.
type Array struct {
	elems    []Variant
	elemType Type
	typed    bool
	readOnly bool
}

// NewArray returns an untyped array holding elems.
func NewArray(elems ...Variant) *Array {
	return &Array{elems: slices.Clone(elems)}
}

// NewTypedArray returns an empty array restricted to elem.
func NewTypedArray(elem Type) *Array {
	return &Array{elemType: elem, typed: true}
}

// IsTyped reports whether the array restricts its element type.
func (a *Array) IsTyped() bool { return a.typed }

// ElemType returns the element type of a typed array, or TypeNil.
func (a *Array) ElemType() Type { return a.elemType }

func (a *Array) IsReadOnly() bool { return a.readOnly }

// MakeReadOnly freezes the array. It cannot be undone.
func (a *Array) MakeReadOnly() { a.readOnly = true }

func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.elems)
}

// At returns the element at i.
func (a *Array) At(i int) (Variant, bool) {
	if i < 0 || i >= a.Len() {
		return Variant{}, false
	}
	return a.elems[i], true
}

// Values returns a copy of the elements.
func (a *Array) Values() []Variant {
	if a == nil {
		return nil
	}
	return slices.Clone(a.elems)
}

// Each calls fn for every element in order until fn returns false.
func (a *Array) Each(fn func(i int, v Variant) bool) {
	for i := 0; i < a.Len(); i++ {
		if !fn(i, a.elems[i]) {
			return
		}
	}
}

func (a *Array) Set(i int, v Variant) error {
	if err := a.checkWrite(v); err != nil {
		return err
	}
	if i < 0 || i >= len(a.elems) {
		return a.indexError(i)
	}
	a.elems[i] = v
	return nil
}

func (a *Array) Append(vs ...Variant) error {
	for _, v := range vs {
		if err := a.checkWrite(v); err != nil {
			return err
		}
	}
	a.elems = append(a.elems, vs...)
	return nil
}

// Insert places v before index i. i may equal Len.
func (a *Array) Insert(i int, v Variant) error {
	if err := a.checkWrite(v); err != nil {
		return err
	}
	if i < 0 || i > len(a.elems) {
		return a.indexError(i)
	}
	a.elems = slices.Insert(a.elems, i, v)
	return nil
}

// Remove deletes the element at i.
func (a *Array) Remove(i int) error {
	if a.readOnly {
		return errReadOnly("Array")
	}
	if i < 0 || i >= len(a.elems) {
		return a.indexError(i)
	}
	a.elems = slices.Delete(a.elems, i, i+1)
	return nil
}

func (a *Array) Clear() error {
	if a.readOnly {
		return errReadOnly("Array")
	}
	clear(a.elems)
	a.elems = a.elems[:0]
	return nil
}

// Find returns the index of the first element equal to v, or -1.
func (a *Array) Find(v Variant) int {
	for i := 0; i < a.Len(); i++ {
		if Equal(a.elems[i], v) {
			return i
		}
	}
	return -1
}

// Slice returns a new array holding elements [begin, end). Bounds are clamped.
func (a *Array) Slice(begin, end int) *Array {
	n := a.Len()
	begin = max(0, min(begin, n))
	end = max(begin, min(end, n))
	out := &Array{elemType: a.elemType, typed: a.typed}
	out.elems = slices.Clone(a.elems[begin:end])
	return out
}

// Duplicate returns an independent, writable copy. With deep set, nested
// arrays and dictionaries are duplicated as well.
func (a *Array) Duplicate(deep bool) *Array {
	out := &Array{elemType: a.elemType, typed: a.typed}
	out.elems = make([]Variant, len(a.elems))
	for i, v := range a.elems {
		if deep {
			v = duplicateVariant(v)
		}
		out.elems[i] = v
	}
	return out
}

// Equal reports whether both arrays hold equal elements in the same order.
func (a *Array) Equal(o *Array) bool {
	return equalArrays(a, o, 0)
}

func (a *Array) Hash() uint64 {
	return NewArrayVariant(a).Hash()
}

func (a *Array) String() string {
	return NewArrayVariant(a).String()
}

func (a *Array) checkWrite(v Variant) error {
	if a.readOnly {
		return errReadOnly("Array")
	}
	if !a.typed || v.typ == a.elemType {
		return nil
	}
	if a.elemType == TypeObject && v.typ == TypeNil {
		return nil
	}
	return errors.New(errors.PhaseConvert, errors.KindTypeMismatch).
		VariantType(v.typ.String()).
		Detail("typed array of %s cannot hold %s", a.elemType, v.typ).
		Build()
}

func (a *Array) indexError(i int) error {
	return errors.New(errors.PhaseConvert, errors.KindInvalidInput).
		Value(i).
		Detail("index %d out of bounds (size %d)", i, len(a.elems)).
		Build()
}

func errReadOnly(what string) error {
	return errors.New(errors.PhaseConvert, errors.KindInvalidInput).
		VariantType(what).
		Detail("%s is read-only", what).
		Build()
}

func duplicateVariant(v Variant) Variant {
	switch v.typ {
	case TypeArray:
		return NewArrayVariant(v.ref.(*Array).Duplicate(true))
	case TypeDictionary:
		return NewDictionaryVariant(v.ref.(*Dictionary).Duplicate(true))
	}
	return v
}
