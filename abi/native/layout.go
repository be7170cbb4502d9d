package native

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/wippyai/gdbind/config"
	"github.com/wippyai/gdbind/errors"
	"github.com/wippyai/gdbind/variant"
)

const (
	realSize = unsafe.Sizeof(config.Real(0))

	// VariantSize is the size of an engine Variant for this build's
	// precision.
	VariantSize = 8 + 4*realSize

	payloadOffset = 8

	stringNameSize = 8
)

// Raw is a Variant in engine memory layout.
type Raw [VariantSize]byte

// Type returns the type tag of r.
func (r *Raw) Type() variant.Type {
	return variant.Type(binary.LittleEndian.Uint32(r[:4]))
}

// Encode lays v out the way the engine stores it.
func Encode(v variant.Variant) (Raw, error) {
	var r Raw
	binary.LittleEndian.PutUint32(r[:4], uint32(v.Type()))
	p := r[payloadOffset:]

	switch v.Type() {
	case variant.TypeNil:
	case variant.TypeBool:
		if b, _ := v.AsBool(); b {
			p[0] = 1
		}
	case variant.TypeInt:
		n, _ := v.AsInt()
		binary.LittleEndian.PutUint64(p, uint64(n))
	case variant.TypeFloat:
		f, _ := v.AsFloat()
		binary.LittleEndian.PutUint64(p, math.Float64bits(f))
	case variant.TypeVector2:
		x, _ := v.AsVector2()
		putReals(p, x.X, x.Y)
	case variant.TypeVector2i:
		x, _ := v.AsVector2i()
		putInt32s(p, x.X, x.Y)
	case variant.TypeVector3:
		x, _ := v.AsVector3()
		putReals(p, x.X, x.Y, x.Z)
	case variant.TypeVector3i:
		x, _ := v.AsVector3i()
		putInt32s(p, x.X, x.Y, x.Z)
	case variant.TypeColor:
		c, _ := v.AsColor()
		for i, f := range [4]float32{c.R, c.G, c.B, c.A} {
			binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(f))
		}
	default:
		return Raw{}, unsupported(v.Type())
	}
	return r, nil
}

// Decode reads a Variant from engine layout.
func Decode(r *Raw) (variant.Variant, error) {
	p := r[payloadOffset:]
	switch t := r.Type(); t {
	case variant.TypeNil:
		return variant.Nil(), nil
	case variant.TypeBool:
		return variant.NewBool(p[0] != 0), nil
	case variant.TypeInt:
		return variant.NewInt(int64(binary.LittleEndian.Uint64(p))), nil
	case variant.TypeFloat:
		return variant.NewFloat(math.Float64frombits(binary.LittleEndian.Uint64(p))), nil
	case variant.TypeVector2:
		return variant.NewVector2(variant.Vector2{X: realAt(p, 0), Y: realAt(p, 1)}), nil
	case variant.TypeVector2i:
		return variant.NewVector2i(variant.Vector2i{X: int32At(p, 0), Y: int32At(p, 1)}), nil
	case variant.TypeVector3:
		return variant.NewVector3(variant.Vector3{X: realAt(p, 0), Y: realAt(p, 1), Z: realAt(p, 2)}), nil
	case variant.TypeVector3i:
		return variant.NewVector3i(variant.Vector3i{X: int32At(p, 0), Y: int32At(p, 1), Z: int32At(p, 2)}), nil
	case variant.TypeColor:
		var c [4]float32
		for i := range c {
			c[i] = math.Float32frombits(binary.LittleEndian.Uint32(p[4*i:]))
		}
		return variant.NewColor(variant.Color{R: c[0], G: c[1], B: c[2], A: c[3]}), nil
	default:
		return variant.Nil(), unsupported(t)
	}
}

func unsupported(t variant.Type) error {
	return errors.New(errors.PhaseABI, errors.KindUnsupported).
		VariantType(t.String()).
		Detail("not stored inline in engine variants").
		Build()
}

func putReals(p []byte, xs ...config.Real) {
	for i, x := range xs {
		if realSize == 8 {
			binary.LittleEndian.PutUint64(p[8*i:], math.Float64bits(float64(x)))
		} else {
			binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(float32(x)))
		}
	}
}

func realAt(p []byte, i int) config.Real {
	if realSize == 8 {
		return config.Real(math.Float64frombits(binary.LittleEndian.Uint64(p[8*i:])))
	}
	return config.Real(math.Float32frombits(binary.LittleEndian.Uint32(p[4*i:])))
}

func putInt32s(p []byte, xs ...int32) {
	for i, x := range xs {
		binary.LittleEndian.PutUint32(p[4*i:], uint32(x))
	}
}

func int32At(p []byte, i int) int32 {
	return int32(binary.LittleEndian.Uint32(p[4*i:]))
}
