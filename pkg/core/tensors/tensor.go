// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package tensors implements Tensor, the dense storage block backing a tensor literal.
//
// A Tensor is a multidimensional array (from scalar with 0 dimensions, to arbitrarily large dimensions),
// defined by its shape (a data type and its axes' dimensions) and its contents, stored as a flat
// (1D) Go slice of the type corresponding to the DType, in row-major order.
//
// There are various ways to allocate a Tensor:
//
//   - FromShape(shape shapes.Shape): allocates storage for the given shape. The contents carry no
//     value guarantee: callers must write them before reading.
//
//   - FromScalarAndDimensions[T dtypes.Supported](value T, dimensions ...int): creates a Tensor with the
//     given dimensions, filled with the scalar value given.
//
//   - FromFlatDataAndDimensions[T dtypes.Supported](data []T, dimensions ...int): creates a Tensor with the
//     given dimensions and set the flattened values with the given data. Example:
//
//     t := FromFlatDataAndDimensions([]int8{1, 2, 3, 4}, 2, 2}) // Tensor with [[1,2], [3,4]]
//
//   - FromValue[S MultiDimensionSlice](value S): converts a scalar or an arbitrary (regular) multidimensional
//     slice. Example:
//
//     t := FromValue([][]float32{{1,2}, {3, 5}, {7, 11}})
//
// Tuples shapes have no storage, and are refused by all constructors.
//
// A Tensor owns its storage, and it's never aliased by other tensors. Access to the contents is always
// done through callbacks (ConstFlatData, MutableFlatData, etc.) during which the Tensor is locked.
package tensors

import (
	"sync"

	"github.com/gomlx/lazytensors/pkg/core/dtypes"
	"github.com/gomlx/lazytensors/pkg/core/shapes"
	"github.com/pkg/errors"
)

// Tensor represents a multidimensional array defined by its shape, a data type (dtypes.DType) and its axes'
// dimensions, and its actual content stored as a flat (1D) array of values.
//
// More details in the `tensors` package documentation.
type Tensor struct {
	// shape of the tensor.
	shape shapes.Shape

	// mu protects flat, but not the shape, which is considered immutable (only changed
	// when Tensor is finalized).
	mu sync.Mutex

	// flat holds the array with actual data: a slice of the Go type for the dtype of the shape.
	// It is nil after the tensor is finalized.
	flat any
}

// must panics if err is not nil.
func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Shape of the tensor, includes DType.
func (t *Tensor) Shape() shapes.Shape { return t.shape }

// DType returns the DType of the tensor's shape.
// It is a shortcut to `Tensor.Shape().DType`.
func (t *Tensor) DType() dtypes.DType {
	if t == nil {
		return dtypes.InvalidDType
	}
	return t.shape.DType
}

// Rank returns the rank of the tensor's shape.
// It is a shortcut to `Tensor.Shape().Rank()`.
func (t *Tensor) Rank() int { return t.shape.Rank() }

// IsScalar returns whether the tensor represents a scalar value.
// It is a shortcut to `Tensor.Shape().IsScalar()`.
func (t *Tensor) IsScalar() bool { return t.shape.IsScalar() }

// Size returns the number of elements in the tensor.
// It is a shortcut to `Tensor.Shape().Size()`.
func (t *Tensor) Size() int { return t.shape.Size() }

// Memory returns the number of bytes used to store the tensor. An alias to Tensor.Shape().Memory().
func (t *Tensor) Memory() uintptr { return t.shape.Memory() }

// Ok returns whether the Tensor is in a valid state: it is not nil, and it hasn't been finalized.
func (t *Tensor) Ok() bool {
	return t != nil && t.shape.Ok() && t.flat != nil
}

// CheckValid returns an error if it's nil, has been finalized, or if its shape is invalid.
func (t *Tensor) CheckValid() error {
	if t == nil {
		return errors.New("Tensor is nil")
	}
	if !t.shape.Ok() {
		return errors.New("Tensor shape is invalid")
	}
	if t.flat == nil {
		return errors.New("Tensor has been finalized")
	}
	return nil
}

// AssertValid panics if it's nil, has been finalized, or if its shape is invalid.
func (t *Tensor) AssertValid() {
	must(t.CheckValid())
}

// FinalizeAll immediately frees the associated storage and leave Tensor in an invalid state.
//
// It's the caller's responsibility to ensure the storage is not being used elsewhere.
// It is a no-op on nil or already finalized tensors.
func (t *Tensor) FinalizeAll() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flat = nil
	t.shape = shapes.Invalid()
}
