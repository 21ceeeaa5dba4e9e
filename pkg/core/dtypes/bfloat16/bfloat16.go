// Package bfloat16 implements the bfloat16 scalar type used by tensor literals of dtype BFloat16.
//
// It follows the API of github.com/x448/float16, which doesn't cover bfloat16
// (see https://github.com/x448/float16/issues/22).
package bfloat16

import (
	"math"
	"strconv"
)

// BFloat16 (brain floating point) is the upper 16 bits of an IEEE 754 float32:
// 1 bit of sign, 8 bits of exponent and 7 bits of mantissa.
// It keeps the dynamic range of float32 with reduced precision.
type BFloat16 uint16

// SmallestNonzero is the smallest positive denormal value (0x1p-133, about 9.1835e-41).
const SmallestNonzero = BFloat16(0x0001)

// Float32 converts to float32, exactly.
func (f BFloat16) Float32() float32 {
	return math.Float32frombits(uint32(f) << 16)
}

// Float64 converts to float64, exactly.
func (f BFloat16) Float64() float64 {
	return float64(f.Float32())
}

// FromFloat32 converts a float32 to a BFloat16, rounding to the nearest even value.
// NaN values are kept NaN (quiet).
func FromFloat32(x float32) BFloat16 {
	bits := math.Float32bits(x)
	if math.IsNaN(float64(x)) {
		return BFloat16(bits>>16 | 0x0040)
	}
	rounding := uint32(0x7FFF) + (bits>>16)&1
	return BFloat16((bits + rounding) >> 16)
}

// FromFloat64 converts a float64 to a BFloat16, going through float32.
func FromFloat64(x float64) BFloat16 {
	return FromFloat32(float32(x))
}

// FromBits converts the raw bits to a BFloat16.
func FromBits(bits uint16) BFloat16 {
	return BFloat16(bits)
}

// Bits returns the raw bits.
func (f BFloat16) Bits() uint16 {
	return uint16(f)
}

// IsNaN reports whether f is a "not-a-number" value.
func (f BFloat16) IsNaN() bool {
	return f&0x7F80 == 0x7F80 && f&0x007F != 0
}

// IsInf reports whether f is an infinity, according to sign.
// If sign > 0, IsInf reports whether f is positive infinity.
// If sign < 0, IsInf reports whether f is negative infinity.
// If sign == 0, IsInf reports whether f is either infinity.
func (f BFloat16) IsInf(sign int) bool {
	switch {
	case sign > 0:
		return f == 0x7F80
	case sign < 0:
		return f == 0xFF80
	default:
		return f&0x7FFF == 0x7F80
	}
}

// Inf returns positive infinity if sign >= 0, negative infinity if sign < 0.
func Inf(sign int) BFloat16 {
	if sign >= 0 {
		return 0x7F80
	}
	return 0xFF80
}

// String implements fmt.Stringer, and prints a float representation of the BFloat16.
func (f BFloat16) String() string {
	return strconv.FormatFloat(float64(f.Float32()), 'f', -1, 32)
}
