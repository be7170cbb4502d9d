package variant

import "math"

const (
	twoPow63 = 9223372036854775808.0
	twoPow64 = 18446744073709551616.0
)

// floatToInt64 accepts only finite integral values inside the int64 range.
func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < -twoPow63 || f >= twoPow63 {
		return 0, false
	}
	return int64(f), true
}

// floatToUint64 accepts only finite non-negative integral values inside the
// uint64 range.
func floatToUint64(f float64) (uint64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < 0 || f >= twoPow64 {
		return 0, false
	}
	return uint64(f), true
}

// int64ToFloat64 accepts integers with an exact float64 representation.
func int64ToFloat64(i int64) (float64, bool) {
	f := float64(i)
	// values close to MaxInt64 round up to 2^63, which int64 cannot hold
	if f >= twoPow63 {
		return 0, false
	}
	return f, int64(f) == i
}

// int64ToFloat32 accepts integers with an exact float32 representation.
func int64ToFloat32(i int64) (float32, bool) {
	f := float32(i)
	if float64(f) >= twoPow63 {
		return 0, false
	}
	return f, int64(f) == i
}

// float64ToFloat32 accepts values float32 can hold exactly. NaN and the
// infinities carry over.
func float64ToFloat32(f float64) (float32, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return float32(f), true
	}
	g := float32(f)
	return g, float64(g) == f
}
