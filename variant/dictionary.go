package variant

import (
	"slices"
)

// Dictionary is an insertion-ordered mapping from Variant keys to Variant
// values. Like Array it is shared by reference.
type Dictionary struct {
	index    map[uint64][]int
	keys     []Variant
	values   []Variant
	readOnly bool
}

func NewDictionary() *Dictionary {
	return &Dictionary{index: make(map[uint64][]int)}
}

func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

func (d *Dictionary) IsReadOnly() bool { return d.readOnly }

// MakeReadOnly freezes the dictionary. It cannot be undone.
func (d *Dictionary) MakeReadOnly() { d.readOnly = true }

func (d *Dictionary) find(k Variant) int {
	if d == nil {
		return -1
	}
	for _, i := range d.index[k.Hash()] {
		if Equal(d.keys[i], k) {
			return i
		}
	}
	return -1
}

// Get returns the value stored under k.
func (d *Dictionary) Get(k Variant) (Variant, bool) {
	if i := d.find(k); i >= 0 {
		return d.values[i], true
	}
	return Variant{}, false
}

func (d *Dictionary) Has(k Variant) bool {
	return d.find(k) >= 0
}

// Set stores v under k. A new key is appended to the iteration order; an
// existing key keeps its position.
func (d *Dictionary) Set(k, v Variant) error {
	if d.readOnly {
		return errReadOnly("Dictionary")
	}
	if i := d.find(k); i >= 0 {
		d.values[i] = v
		return nil
	}
	if d.index == nil {
		d.index = make(map[uint64][]int)
	}
	h := k.Hash()
	d.index[h] = append(d.index[h], len(d.keys))
	d.keys = append(d.keys, k)
	d.values = append(d.values, v)
	return nil
}

// Delete removes k and reports whether it was present.
func (d *Dictionary) Delete(k Variant) (bool, error) {
	if d.readOnly {
		return false, errReadOnly("Dictionary")
	}
	i := d.find(k)
	if i < 0 {
		return false, nil
	}
	d.keys = slices.Delete(d.keys, i, i+1)
	d.values = slices.Delete(d.values, i, i+1)
	d.reindex()
	return true, nil
}

func (d *Dictionary) Clear() error {
	if d.readOnly {
		return errReadOnly("Dictionary")
	}
	d.keys = nil
	d.values = nil
	clear(d.index)
	return nil
}

func (d *Dictionary) reindex() {
	if d.index == nil {
		d.index = make(map[uint64][]int, len(d.keys))
	}
	clear(d.index)
	for i, k := range d.keys {
		h := k.Hash()
		d.index[h] = append(d.index[h], i)
	}
}

// Keys returns the keys in insertion order.
func (d *Dictionary) Keys() []Variant {
	if d == nil {
		return nil
	}
	return slices.Clone(d.keys)
}

// Values returns the values in key insertion order.
func (d *Dictionary) Values() []Variant {
	if d == nil {
		return nil
	}
	return slices.Clone(d.values)
}

// Each calls fn for every entry in insertion order until fn returns false.
func (d *Dictionary) Each(fn func(k, v Variant) bool) {
	for i := 0; i < d.Len(); i++ {
		if !fn(d.keys[i], d.values[i]) {
			return
		}
	}
}

// Duplicate returns an independent, writable copy.
func (d *Dictionary) Duplicate(deep bool) *Dictionary {
	out := NewDictionary()
	out.keys = slices.Clone(d.keys)
	out.values = make([]Variant, len(d.values))
	for i, v := range d.values {
		if deep {
			v = duplicateVariant(v)
		}
		out.values[i] = v
	}
	out.reindex()
	return out
}

// Equal reports whether both dictionaries hold the same entries. Order is not
// significant.
func (d *Dictionary) Equal(o *Dictionary) bool {
	return equalDictionaries(d, o, 0)
}

func (d *Dictionary) Hash() uint64 {
	return NewDictionaryVariant(d).Hash()
}

func (d *Dictionary) String() string {
	return NewDictionaryVariant(d).String()
}
