package variant

import (
	"math"
	"strconv"
	"strings"
)

// String formats v the way the engine stringifies Variants.
func (v Variant) String() string {
	var b strings.Builder
	writeVariant(&b, v, false, 0)
	return b.String()
}

func writeVariant(b *strings.Builder, v Variant, quoted bool, depth int) {
	if depth > maxDepth {
		b.WriteString("...")
		return
	}
	switch v.typ {
	case TypeNil:
		b.WriteString("<null>")
	case TypeBool:
		b.WriteString(strconv.FormatBool(v.num != 0))
	case TypeInt:
		b.WriteString(strconv.FormatInt(int64(v.num), 10))
	case TypeFloat:
		b.WriteString(formatFloat(math.Float64frombits(v.num)))
	case TypeString:
		writeText(b, v.ref.(string), quoted)
	case TypeStringName:
		if quoted {
			b.WriteByte('&')
		}
		writeText(b, string(v.ref.(StringName)), quoted)
	case TypeNodePath:
		if quoted {
			b.WriteByte('^')
		}
		writeText(b, string(v.ref.(NodePath)), quoted)
	case TypeRID:
		b.WriteString("RID(")
		b.WriteString(strconv.FormatUint(v.num, 10))
		b.WriteByte(')')
	case TypeVector2:
		x := v.ref.(Vector2)
		writeTuple(b, float64(x.X), float64(x.Y))
	case TypeVector2i:
		x := v.ref.(Vector2i)
		writeIntTuple(b, x.X, x.Y)
	case TypeRect2:
		x := v.ref.(Rect2)
		b.WriteString("[P: ")
		writeTuple(b, float64(x.Position.X), float64(x.Position.Y))
		b.WriteString(", S: ")
		writeTuple(b, float64(x.Size.X), float64(x.Size.Y))
		b.WriteByte(']')
	case TypeRect2i:
		x := v.ref.(Rect2i)
		b.WriteString("[P: ")
		writeIntTuple(b, x.Position.X, x.Position.Y)
		b.WriteString(", S: ")
		writeIntTuple(b, x.Size.X, x.Size.Y)
		b.WriteByte(']')
	case TypeVector3:
		x := v.ref.(Vector3)
		writeTuple(b, float64(x.X), float64(x.Y), float64(x.Z))
	case TypeVector3i:
		x := v.ref.(Vector3i)
		writeIntTuple(b, x.X, x.Y, x.Z)
	case TypeTransform2D:
		x := v.ref.(Transform2D)
		b.WriteString("[X: ")
		writeTuple(b, float64(x.X.X), float64(x.X.Y))
		b.WriteString(", Y: ")
		writeTuple(b, float64(x.Y.X), float64(x.Y.Y))
		b.WriteString(", O: ")
		writeTuple(b, float64(x.Origin.X), float64(x.Origin.Y))
		b.WriteByte(']')
	case TypeVector4:
		x := v.ref.(Vector4)
		writeTuple(b, float64(x.X), float64(x.Y), float64(x.Z), float64(x.W))
	case TypeVector4i:
		x := v.ref.(Vector4i)
		writeIntTuple(b, x.X, x.Y, x.Z, x.W)
	case TypePlane:
		x := v.ref.(Plane)
		b.WriteString("[N: ")
		writeTuple(b, float64(x.Normal.X), float64(x.Normal.Y), float64(x.Normal.Z))
		b.WriteString(", D: ")
		b.WriteString(formatFloat(float64(x.D)))
		b.WriteByte(']')
	case TypeQuaternion:
		x := v.ref.(Quaternion)
		writeTuple(b, float64(x.X), float64(x.Y), float64(x.Z), float64(x.W))
	case TypeAABB:
		x := v.ref.(AABB)
		b.WriteString("[P: ")
		writeTuple(b, float64(x.Position.X), float64(x.Position.Y), float64(x.Position.Z))
		b.WriteString(", S: ")
		writeTuple(b, float64(x.Size.X), float64(x.Size.Y), float64(x.Size.Z))
		b.WriteByte(']')
	case TypeBasis:
		writeBasis(b, v.ref.(Basis))
	case TypeTransform3D:
		x := v.ref.(Transform3D)
		writeBasis(b, x.Basis)
		b.WriteString(" - ")
		writeTuple(b, float64(x.Origin.X), float64(x.Origin.Y), float64(x.Origin.Z))
	case TypeProjection:
		x := v.ref.(Projection)
		for i, c := range x.Columns {
			if i > 0 {
				b.WriteByte('\n')
			}
			writeTuple(b, float64(c.X), float64(c.Y), float64(c.Z), float64(c.W))
		}
	case TypeColor:
		x := v.ref.(Color)
		writeTuple(b, float64(x.R), float64(x.G), float64(x.B), float64(x.A))
	case TypeObject:
		b.WriteString(v.ref.(ObjectRef).String())
	case TypeCallable:
		b.WriteString(v.ref.(Callable).String())
	case TypeSignal:
		b.WriteString(v.ref.(Signal).String())
	case TypeArray:
		b.WriteByte('[')
		for i, e := range v.ref.(*Array).elems {
			if i > 0 {
				b.WriteString(", ")
			}
			writeVariant(b, e, true, depth+1)
		}
		b.WriteByte(']')
	case TypeDictionary:
		d := v.ref.(*Dictionary)
		if d.Len() == 0 {
			b.WriteString("{  }")
			return
		}
		b.WriteString("{ ")
		for i := range d.keys {
			if i > 0 {
				b.WriteString(", ")
			}
			writeVariant(b, d.keys[i], true, depth+1)
			b.WriteString(": ")
			writeVariant(b, d.values[i], true, depth+1)
		}
		b.WriteString(" }")
	default:
		elems, _ := v.PackedElements()
		b.WriteByte('[')
		for i, e := range elems {
			if i > 0 {
				b.WriteString(", ")
			}
			writeVariant(b, e, true, depth+1)
		}
		b.WriteByte(']')
	}
}

func writeText(b *strings.Builder, s string, quoted bool) {
	if quoted {
		b.WriteString(strconv.Quote(s))
		return
	}
	b.WriteString(s)
}

func writeTuple(b *strings.Builder, xs ...float64) {
	b.WriteByte('(')
	for i, x := range xs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatFloat(x))
	}
	b.WriteByte(')')
}

func writeIntTuple(b *strings.Builder, xs ...int32) {
	b.WriteByte('(')
	for i, x := range xs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatInt(int64(x), 10))
	}
	b.WriteByte(')')
}

// writeBasis prints the basis by columns, matching the engine.
func writeBasis(b *strings.Builder, x Basis) {
	labels := [3]string{"X: ", "Y: ", "Z: "}
	b.WriteByte('[')
	for i := range 3 {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(labels[i])
		c := x.Column(i)
		writeTuple(b, float64(c.X), float64(c.Y), float64(c.Z))
	}
	b.WriteByte(']')
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
