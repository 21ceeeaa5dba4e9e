// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package dtypes

import (
	"testing"

	"github.com/gomlx/lazytensors/pkg/core/dtypes/bfloat16"
	"github.com/x448/float16"
)

func TestMapOfNames(t *testing.T) {
	for _, name := range []string{"Float16", "float16", "F16", "f16"} {
		if MapOfNames[name] != Float16 {
			t.Fatalf("expected MapOfNames[%q] to be Float16, got %v", name, MapOfNames[name])
		}
	}
	for _, name := range []string{"BFloat16", "bfloat16", "BF16", "bf16"} {
		if MapOfNames[name] != BFloat16 {
			t.Fatalf("expected MapOfNames[%q] to be BFloat16, got %v", name, MapOfNames[name])
		}
	}
}

func TestFromName(t *testing.T) {
	for name, want := range map[string]DType{"f32": Float32, "PRED": Bool, "Int64": Int64, "C128": Complex128} {
		got, err := FromName(name)
		if err != nil {
			t.Fatalf("FromName(%q) failed: %+v", name, err)
		}
		if got != want {
			t.Fatalf("FromName(%q) = %s, wanted %s", name, got, want)
		}
	}
	if _, err := FromName("float8"); err == nil {
		t.Fatal("expected error for unknown dtype name")
	}
	if _, err := FromName("invalid"); err == nil {
		t.Fatal("expected error for InvalidDType name")
	}
}

func TestString(t *testing.T) {
	if Float32.String() != "Float32" {
		t.Fatalf("expected Float32.String() to be \"Float32\", got %q", Float32.String())
	}
	if DType(99).String() != "DType(99)" {
		t.Fatalf("expected DType(99).String() to be \"DType(99)\", got %q", DType(99).String())
	}
}

func TestFromAny(t *testing.T) {
	if FromAny(int64(7)) != Int64 {
		t.Fatalf("expected FromAny(int64(7)) to be Int64, got %v", FromAny(int64(7)))
	}
	if FromAny(float32(13)) != Float32 {
		t.Fatalf("expected FromAny(float32(13)) to be Float32, got %v", FromAny(float32(13)))
	}
	if FromAny(bfloat16.FromFloat32(1.0)) != BFloat16 {
		t.Fatalf("expected FromAny(bfloat16.FromFloat32(1.0)) to be BFloat16, got %v", FromAny(bfloat16.FromFloat32(1.0)))
	}
	if FromAny(float16.Fromfloat32(3.0)) != Float16 {
		t.Fatalf("expected FromAny(float16.Fromfloat32(3.0)) to be Float16, got %v", FromAny(float16.Fromfloat32(3.0)))
	}
	if FromAny("x") != InvalidDType {
		t.Fatalf("expected FromAny(\"x\") to be InvalidDType, got %v", FromAny("x"))
	}
}

func TestSize(t *testing.T) {
	if Int64.Size() != 8 {
		t.Fatalf("expected Int64.Size() to be 8, got %d", Int64.Size())
	}
	if Float32.Size() != 4 {
		t.Fatalf("expected Float32.Size() to be 4, got %d", Float32.Size())
	}
	if BFloat16.Size() != 2 {
		t.Fatalf("expected BFloat16.Size() to be 2, got %d", BFloat16.Size())
	}
	if Complex128.Size() != 16 {
		t.Fatalf("expected Complex128.Size() to be 16, got %d", Complex128.Size())
	}
}

func TestSizeForDimensions(t *testing.T) {
	if Int64.SizeForDimensions(2, 3) != 2*3*8 {
		t.Fatalf("expected Int64.SizeForDimensions(2, 3) to be %d, got %d", 2*3*8, Int64.SizeForDimensions(2, 3))
	}
	if Float32.SizeForDimensions() != 4 {
		t.Fatalf("expected Float32.SizeForDimensions() to be 4, got %d", Float32.SizeForDimensions())
	}
	if Float32.SizeForDimensions(4, 0) != 0 {
		t.Fatalf("expected Float32.SizeForDimensions(4, 0) to be 0, got %d", Float32.SizeForDimensions(4, 0))
	}
}

func TestIsSupported(t *testing.T) {
	if InvalidDType.IsSupported() {
		t.Fatal("InvalidDType should not be supported")
	}
	for dtype := Bool; dtype <= Complex128; dtype++ {
		if !dtype.IsSupported() {
			t.Fatalf("%s should be supported", dtype)
		}
		_ = dtype.GoType() // Must not panic.
	}
}

func TestPredicates(t *testing.T) {
	for _, dtype := range []DType{Float16, BFloat16, Float32, Float64} {
		if !dtype.IsFloat() || dtype.IsInt() || dtype.IsComplex() || dtype.IsUnsigned() {
			t.Fatalf("%s should be a float only", dtype)
		}
	}
	for _, dtype := range []DType{Complex64, Complex128} {
		if !dtype.IsComplex() || dtype.IsFloat() || dtype.IsInt() {
			t.Fatalf("%s should be a complex only", dtype)
		}
	}
	for _, dtype := range []DType{Int8, Int16, Int32, Int64} {
		if !dtype.IsInt() || dtype.IsUnsigned() || dtype.IsFloat() {
			t.Fatalf("%s should be a signed int", dtype)
		}
	}
	for _, dtype := range []DType{Uint8, Uint16, Uint32, Uint64} {
		if !dtype.IsInt() || !dtype.IsUnsigned() {
			t.Fatalf("%s should be an unsigned int", dtype)
		}
	}
	for _, dtype := range []DType{Bool, InvalidDType} {
		if dtype.IsInt() || dtype.IsFloat() || dtype.IsComplex() || dtype.IsUnsigned() {
			t.Fatalf("%s should not be numeric", dtype)
		}
	}
}
