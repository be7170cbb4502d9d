package variant

import (
	"hash"
	"hash/fnv"
	"math"
	"slices"
)

// Containers nested deeper than this compare unequal and stop hashing.
const maxDepth = 256

// Equal reports whether a and b have the same type and equal payloads.
// Arrays and dictionaries compare by content, objects by instance id, and
// floats by value with NaN equal to NaN.
func Equal(a, b Variant) bool {
	return equalVariants(a, b, 0)
}

// Equal is shorthand for Equal(v, o).
func (v Variant) Equal(o Variant) bool {
	return equalVariants(v, o, 0)
}

func equalVariants(a, b Variant, depth int) bool {
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case TypeNil:
		return true
	case TypeBool, TypeInt, TypeRID:
		return a.num == b.num
	case TypeFloat:
		return equalFloat(math.Float64frombits(a.num), math.Float64frombits(b.num))
	case TypeObject:
		return a.ref.(ObjectRef).ID == b.ref.(ObjectRef).ID
	case TypeCallable:
		return a.ref.(Callable).Equal(b.ref.(Callable))
	case TypeSignal:
		sa, sb := a.ref.(Signal), b.ref.(Signal)
		return sa.Object.ID == sb.Object.ID && sa.Name == sb.Name
	case TypeArray:
		return equalArrays(a.ref.(*Array), b.ref.(*Array), depth+1)
	case TypeDictionary:
		return equalDictionaries(a.ref.(*Dictionary), b.ref.(*Dictionary), depth+1)
	case TypePackedByteArray:
		return slices.Equal(a.ref.([]byte), b.ref.([]byte))
	case TypePackedInt32Array:
		return slices.Equal(a.ref.([]int32), b.ref.([]int32))
	case TypePackedInt64Array:
		return slices.Equal(a.ref.([]int64), b.ref.([]int64))
	case TypePackedFloat32Array:
		return slices.EqualFunc(a.ref.([]float32), b.ref.([]float32), func(x, y float32) bool {
			return equalFloat(float64(x), float64(y))
		})
	case TypePackedFloat64Array:
		return slices.EqualFunc(a.ref.([]float64), b.ref.([]float64), equalFloat)
	case TypePackedStringArray:
		return slices.Equal(a.ref.([]string), b.ref.([]string))
	case TypePackedVector2Array:
		return slices.Equal(a.ref.([]Vector2), b.ref.([]Vector2))
	case TypePackedVector3Array:
		return slices.Equal(a.ref.([]Vector3), b.ref.([]Vector3))
	case TypePackedColorArray:
		return slices.Equal(a.ref.([]Color), b.ref.([]Color))
	}
	// strings and fixed-size math types are comparable values
	return a.ref == b.ref
}

func equalFloat(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}

func equalArrays(a, b *Array, depth int) bool {
	if a == b {
		return true
	}
	if depth > maxDepth || a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !equalVariants(a.elems[i], b.elems[i], depth) {
			return false
		}
	}
	return true
}

func equalDictionaries(a, b *Dictionary, depth int) bool {
	if a == b {
		return true
	}
	if depth > maxDepth || a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		ov, ok := b.Get(a.keys[i])
		if !ok || !equalVariants(a.values[i], ov, depth) {
			return false
		}
	}
	return true
}

// Hash returns a hash consistent with Equal.
func (v Variant) Hash() uint64 {
	h := fnv.New64a()
	hashVariant(h, v, 0)
	return h.Sum64()
}

func hashVariant(h hash.Hash64, v Variant, depth int) {
	var buf [8]byte
	word := func(x uint64) {
		putUint64(buf[:], x)
		h.Write(buf[:])
	}
	hashFloat := func(f float64) {
		switch {
		case math.IsNaN(f):
			word(math.Float64bits(math.NaN()))
		case f == 0:
			word(0)
		default:
			word(math.Float64bits(f))
		}
	}

	h.Write([]byte{byte(v.typ)})
	if depth > maxDepth {
		return
	}
	switch v.typ {
	case TypeNil:
	case TypeBool, TypeInt, TypeRID:
		word(v.num)
	case TypeFloat:
		hashFloat(math.Float64frombits(v.num))
	case TypeString:
		h.Write([]byte(v.ref.(string)))
	case TypeStringName:
		h.Write([]byte(v.ref.(StringName)))
	case TypeNodePath:
		h.Write([]byte(v.ref.(NodePath)))
	case TypeObject:
		word(uint64(v.ref.(ObjectRef).ID))
	case TypeCallable:
		word(v.ref.(Callable).Hash())
	case TypeSignal:
		s := v.ref.(Signal)
		word(uint64(s.Object.ID))
		h.Write([]byte(s.Name))
	case TypeArray:
		a := v.ref.(*Array)
		word(uint64(a.Len()))
		for _, e := range a.elems {
			hashVariant(h, e, depth+1)
		}
	case TypeDictionary:
		// order-independent so that Equal dictionaries hash alike
		d := v.ref.(*Dictionary)
		var sum uint64
		for i := range d.keys {
			eh := fnv.New64a()
			hashVariant(eh, d.keys[i], depth+1)
			hashVariant(eh, d.values[i], depth+1)
			sum += eh.Sum64()
		}
		word(uint64(d.Len()))
		word(sum)
	case TypePackedByteArray:
		h.Write(v.ref.([]byte))
	case TypePackedInt32Array:
		for _, x := range v.ref.([]int32) {
			word(uint64(x))
		}
	case TypePackedInt64Array:
		for _, x := range v.ref.([]int64) {
			word(uint64(x))
		}
	case TypePackedFloat32Array:
		for _, x := range v.ref.([]float32) {
			hashFloat(float64(x))
		}
	case TypePackedFloat64Array:
		for _, x := range v.ref.([]float64) {
			hashFloat(x)
		}
	case TypePackedStringArray:
		for _, s := range v.ref.([]string) {
			word(uint64(len(s)))
			h.Write([]byte(s))
		}
	default:
		// fixed-size math types and remaining packed arrays hash their text form
		h.Write([]byte(v.String()))
	}
}
