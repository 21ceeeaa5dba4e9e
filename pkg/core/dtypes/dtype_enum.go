// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package dtypes

import "strconv"

// DType is an enum that represents the scalar (element) type of a tensor literal.
//
// The numeric values follow the XLA primitive type numbering (as in pjrt_c_api.h), so shapes
// hashed in one process hash the same in another, and remain aligned with XLA-based backends.
type DType int32

const (
	// InvalidDType is the zero value, used for uninitialized and tuple shapes.
	InvalidDType DType = 0

	// Bool: two-state booleans (PRED in XLA).
	Bool DType = 1

	// Int8 and the following are signed integral values of fixed width.
	Int8  DType = 2
	Int16 DType = 3
	Int32 DType = 4
	Int64 DType = 5

	// Uint8 and the following are unsigned integral values of fixed width.
	Uint8  DType = 6
	Uint16 DType = 7
	Uint32 DType = 8
	Uint64 DType = 9

	// Float16 and the following are floating-point values of fixed width.
	Float16 DType = 10
	Float32 DType = 11
	Float64 DType = 12

	// BFloat16 is the truncated 16 bit floating-point format: 1 bit for the sign, 8 bits for the
	// exponent and 7 bits for the mantissa.
	BFloat16 DType = 13

	// Complex64 is a pair of float32: real and imaginary parts.
	Complex64 DType = 14

	// Complex128 is a pair of float64: real and imaginary parts.
	Complex128 DType = 15
)

// Aliases using the XLA short names.
const (
	INVALID = InvalidDType
	PRED    = Bool
	S8      = Int8
	S16     = Int16
	S32     = Int32
	S64     = Int64
	U8      = Uint8
	U16     = Uint16
	U32     = Uint32
	U64     = Uint64
	F16     = Float16
	F32     = Float32
	F64     = Float64
	BF16    = BFloat16
	C64     = Complex64
	C128    = Complex128
)

// dtypeNames is indexed by the DType value.
var dtypeNames = [...]string{
	InvalidDType: "InvalidDType",
	Bool:         "Bool",
	Int8:         "Int8",
	Int16:        "Int16",
	Int32:        "Int32",
	Int64:        "Int64",
	Uint8:        "Uint8",
	Uint16:       "Uint16",
	Uint32:       "Uint32",
	Uint64:       "Uint64",
	Float16:      "Float16",
	Float32:      "Float32",
	Float64:      "Float64",
	BFloat16:     "BFloat16",
	Complex64:    "Complex64",
	Complex128:   "Complex128",
}

// String implements fmt.Stringer.
func (dtype DType) String() string {
	if dtype < 0 || int(dtype) >= len(dtypeNames) {
		return "DType(" + strconv.Itoa(int(dtype)) + ")"
	}
	return dtypeNames[dtype]
}

// MapOfNames maps names (the Go constant names and the XLA short names) to DType.
// Lower-case versions of all names are added at initialization.
var MapOfNames = map[string]DType{
	"InvalidDType": InvalidDType,
	"INVALID":      InvalidDType,
	"Bool":         Bool,
	"PRED":         Bool,
	"Int8":         Int8,
	"S8":           Int8,
	"Int16":        Int16,
	"S16":          Int16,
	"Int32":        Int32,
	"S32":          Int32,
	"Int64":        Int64,
	"S64":          Int64,
	"Uint8":        Uint8,
	"U8":           Uint8,
	"Uint16":       Uint16,
	"U16":          Uint16,
	"Uint32":       Uint32,
	"U32":          Uint32,
	"Uint64":       Uint64,
	"U64":          Uint64,
	"Float16":      Float16,
	"F16":          Float16,
	"Float32":      Float32,
	"F32":          Float32,
	"Float64":      Float64,
	"F64":          Float64,
	"BFloat16":     BFloat16,
	"BF16":         BFloat16,
	"Complex64":    Complex64,
	"C64":          Complex64,
	"Complex128":   Complex128,
	"C128":         Complex128,
}
