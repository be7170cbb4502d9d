package variant

import (
	"math"
	"testing"
)

func TestFloatToInt64(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		want   int64
		wantOK bool
	}{
		{"zero", 0, 0, true},
		{"negative zero", math.Copysign(0, -1), 0, true},
		{"integral", 42, 42, true},
		{"negative integral", -7, -7, true},
		{"fractional", 2.5, 0, false},
		{"tiny fraction", 1e-9, 0, false},
		{"NaN", math.NaN(), 0, false},
		{"+Inf", math.Inf(1), 0, false},
		{"-Inf", math.Inf(-1), 0, false},
		{"min int64", -twoPow63, math.MinInt64, true},
		{"2^63", twoPow63, 0, false},
		{"large integral", 1 << 53, 1 << 53, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := floatToInt64(tt.input)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("floatToInt64(%v) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFloatToUint64(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		want   uint64
		wantOK bool
	}{
		{"zero", 0, 0, true},
		{"positive", 300, 300, true},
		{"negative", -1, 0, false},
		{"fractional", 0.5, 0, false},
		{"2^63", twoPow63, 1 << 63, true},
		{"2^64", twoPow64, 0, false},
		{"NaN", math.NaN(), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := floatToUint64(tt.input)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("floatToUint64(%v) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestIntToFloat(t *testing.T) {
	tests := []struct {
		name   string
		input  int64
		want64 bool
		want32 bool
	}{
		{"zero", 0, true, true},
		{"small", 1000, true, true},
		{"2^24", 1 << 24, true, true},
		{"2^24+1", 1<<24 + 1, true, false},
		{"2^53", 1 << 53, true, true},
		{"2^53+1", 1<<53 + 1, false, false},
		{"max int64", math.MaxInt64, false, false},
		{"min int64", math.MinInt64, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := int64ToFloat64(tt.input); ok != tt.want64 {
				t.Errorf("int64ToFloat64(%d) ok = %v, want %v", tt.input, ok, tt.want64)
			}
			if _, ok := int64ToFloat32(tt.input); ok != tt.want32 {
				t.Errorf("int64ToFloat32(%d) ok = %v, want %v", tt.input, ok, tt.want32)
			}
		})
	}
}

func TestFloat64ToFloat32(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		wantOK bool
	}{
		{"exact", 0.5, true},
		{"inexact", 0.1, false},
		{"NaN", math.NaN(), true},
		{"+Inf", math.Inf(1), true},
		{"overflow", math.MaxFloat64, false},
		{"max float32", math.MaxFloat32, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := float64ToFloat32(tt.input); ok != tt.wantOK {
				t.Errorf("float64ToFloat32(%v) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
		})
	}
}
