//go:build double_precision

package config

// Real is the floating point type used for vector and matrix components.
type Real = float64

// DoublePrecision reports whether Real is float64.
const DoublePrecision = true

// PrecisionName is the engine's name for the active precision.
const PrecisionName = "double"
