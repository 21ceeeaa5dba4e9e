// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package shapes defines Shape, the descriptor of a tensor literal: its scalar type (DType) and
// the dimensions of each of its axes. It also provides the structural Hash of a shape.
//
// A Shape can also describe a tuple: an aggregate of other shapes. Tuples have no DType nor
// dimensions of their own, and most of the tensor tooling (storage allocation, literals, hashing)
// refuses them.
//
// ## Glossary
//
//   - Rank: number of axes (dimensions) of a tensor.
//   - Axis: the index of a dimension on a multidimensional tensor.
//   - Dimension: the size of a tensor in one of its axes.
//   - DType: the data type of the unit element in a tensor. Enumeration defined in
//     github.com/gomlx/lazytensors/pkg/core/dtypes.
//   - Scalar: a shape with no axes, only a single value of the associated DType.
//
// Example: The multi-dimensional array `[][]int32{{0, 1, 2}, {3, 4, 5}}` if converted to a tensor
// would have shape `(Int32)[2 3]`. We say it has rank 2 (so 2 axes), axis 0 has
// dimension 2, and axis 1 has dimension 3. This shape could be created with
// `shapes.Make(dtypes.Int32, 2, 3)`.
package shapes

import (
	"fmt"
	"math"
	"math/bits"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/lazytensors/pkg/core/dtypes"
	"github.com/pkg/errors"
)

// Shape represents the shape of a tensor literal: its DType and the dimensions of its axes.
//
// Use Make to create a new shape. See example in package shapes documentation.
type Shape struct {
	DType       dtypes.DType
	Dimensions  []int
	TupleShapes []Shape // Shapes of the tuple, if this is a tuple.
}

// Make returns a Shape structure filled with the values given.
// Dimensions must be non-negative: a zero dimension is valid and gives a shape with no elements.
// The number of elements and the memory of the shape must fit an int, see Shape.CheckSize.
//
// See MakeTuple for tuple shapes.
func Make(dtype dtypes.DType, dimensions ...int) Shape {
	s := Shape{Dimensions: slices.Clone(dimensions), DType: dtype}
	for _, dim := range dimensions {
		if dim < 0 {
			exceptions.Panicf("shapes.Make(%s): cannot create a shape with an axis with dimension < 0", s)
		}
	}
	if err := s.CheckSize(); err != nil {
		panic(errors.WithMessage(err, "shapes.Make()"))
	}
	return s
}

// Scalar returns a scalar Shape for the given type.
func Scalar[T dtypes.Supported]() Shape {
	return Shape{DType: dtypes.FromGenericsType[T]()}
}

// Invalid returns an invalid shape.
//
// Invalid().Ok() == false.
func Invalid() Shape {
	return Shape{DType: dtypes.InvalidDType}
}

// MakeTuple returns a shape representing a tuple of elements with the given shapes.
// An empty list of elements is still a (empty) tuple.
func MakeTuple(elements []Shape) Shape {
	tupleShapes := make([]Shape, 0, len(elements))
	for _, element := range elements {
		tupleShapes = append(tupleShapes, element.Clone())
	}
	return Shape{DType: dtypes.InvalidDType, TupleShapes: tupleShapes}
}

// IsTuple returns whether the shape represents a tuple.
func (s Shape) IsTuple() bool {
	return s.DType == dtypes.InvalidDType && s.TupleShapes != nil
}

// TupleSize returns the number of elements in the tuple, if it is a tuple.
func (s Shape) TupleSize() int {
	return len(s.TupleShapes)
}

// Ok returns whether this is a valid Shape. A "zero" shape, that is just instantiating it with Shape{} will be invalid.
func (s Shape) Ok() bool { return s.DType != dtypes.InvalidDType || s.IsTuple() }

// Rank of the shape, that is, the number of dimensions.
func (s Shape) Rank() int { return len(s.Dimensions) }

// IsScalar returns whether the shape represents a scalar, that is there are no dimensions (rank==0).
func (s Shape) IsScalar() bool { return s.Ok() && !s.IsTuple() && s.Rank() == 0 }

// Dim returns the dimension of the given axis. axis can take negative numbers, in which
// case it counts as starting from the end -- so axis=-1 refers to the last axis.
// Like with a slice indexing, it panics for an out-of-bound axis.
func (s Shape) Dim(axis int) int {
	adjustedAxis := axis
	if adjustedAxis < 0 {
		adjustedAxis += s.Rank()
	}
	if adjustedAxis < 0 || adjustedAxis >= s.Rank() {
		exceptions.Panicf("Shape.Dim(%d) out-of-bounds for rank %d (shape=%s)", axis, s.Rank(), s)
	}
	return s.Dimensions[adjustedAxis]
}

// Shape returns a shallow copy of itself. It implements the HasShape interface.
func (s Shape) Shape() Shape { return s }

// String implements stringer, pretty-prints the shape.
func (s Shape) String() string {
	if s.IsTuple() {
		parts := make([]string, 0, s.TupleSize())
		for _, tuple := range s.TupleShapes {
			parts = append(parts, tuple.String())
		}
		return fmt.Sprintf("Tuple<%s>", strings.Join(parts, ", "))
	}
	if s.Rank() == 0 {
		return fmt.Sprintf("(%s)", s.DType)
	}
	return fmt.Sprintf("(%s)%v", s.DType, s.Dimensions)
}

// Size returns the number of elements of DType are needed for this shape. It's the product of all dimensions.
//
// It panics if the product overflows an int, which can only happen for shapes not created with Make.
func (s Shape) Size() int {
	size, ok := s.checkedSize()
	if !ok {
		exceptions.Panicf("Shape.Size(): number of elements of shape %s overflows int", s)
	}
	return size
}

// checkedSize returns the product of the dimensions, and false if it overflows an int.
// Negative dimensions are taken as overflow.
func (s Shape) checkedSize() (int, bool) {
	for _, d := range s.Dimensions {
		if d < 0 {
			return 0, false
		}
	}
	if s.IsZeroSize() {
		return 0, true
	}
	size := uint64(1)
	for _, d := range s.Dimensions {
		hi, lo := bits.Mul64(size, uint64(d))
		if hi != 0 || lo > math.MaxInt {
			return 0, false
		}
		size = lo
	}
	return int(size), true
}

// CheckSize returns an error if the number of elements of the shape, or the number of bytes
// needed to store them, overflows an int.
func (s Shape) CheckSize() error {
	size, ok := s.checkedSize()
	if !ok {
		return errors.Errorf("number of elements of shape %s overflows int", s)
	}
	if !s.DType.IsSupported() {
		return nil
	}
	hi, lo := bits.Mul64(uint64(size), uint64(s.DType.Memory()))
	if hi != 0 || lo > math.MaxInt {
		return errors.Errorf("memory of shape %s (%d elements of %s) overflows int", s, size, s.DType)
	}
	return nil
}

// IsZeroSize returns whether any of the axes has dimension 0, in which case the shape holds no elements.
func (s Shape) IsZeroSize() bool {
	return slices.Contains(s.Dimensions, 0)
}

// Memory returns the number of bytes used to store an array of the given shape.
//
// It panics on overflow, see Shape.CheckSize.
func (s Shape) Memory() uintptr {
	if err := s.CheckSize(); err != nil {
		panic(errors.WithMessage(err, "Shape.Memory()"))
	}
	return s.DType.Memory() * uintptr(s.Size())
}

// Strides returns the strides for each axis of the shape, assuming a "row-major" layout
// in memory.
//
// Notice the strides are **not in bytes**, but in indices.
func (s Shape) Strides() (strides []int) {
	rank := s.Rank()
	if rank == 0 {
		return
	}
	strides = make([]int, rank)
	if s.IsZeroSize() {
		// Some axis is zero-dimension.
		return
	}
	currentStride := 1
	for axis := rank - 1; axis >= 0; axis-- {
		strides[axis] = currentStride
		currentStride *= s.Dimensions[axis]
	}
	return
}

// Equal compares two shapes for equality: dtype and dimensions are compared.
func (s Shape) Equal(s2 Shape) bool {
	if s.DType != s2.DType {
		return false
	}
	if s.IsTuple() != s2.IsTuple() {
		return false
	}
	if s.IsTuple() {
		if s.TupleSize() != s2.TupleSize() {
			return false
		}
		for ii, element := range s.TupleShapes {
			if !element.Equal(s2.TupleShapes[ii]) {
				return false
			}
		}
		return true
	}
	return slices.Equal(s.Dimensions, s2.Dimensions)
}

// EqualDimensions compares two shapes for equality of dimensions. Dtypes can be different.
func (s Shape) EqualDimensions(s2 Shape) bool {
	if s.IsTuple() {
		if !s2.IsTuple() || s.TupleSize() != s2.TupleSize() {
			return false
		}
		for ii, element := range s.TupleShapes {
			if !element.EqualDimensions(s2.TupleShapes[ii]) {
				return false
			}
		}
		return true
	}
	return !s2.IsTuple() && slices.Equal(s.Dimensions, s2.Dimensions)
}

// Clone returns a new deep copy of the shape.
func (s Shape) Clone() (s2 Shape) {
	s2.DType = s.DType
	s2.Dimensions = slices.Clone(s.Dimensions)
	if s.TupleShapes != nil {
		s2.TupleShapes = make([]Shape, 0, len(s.TupleShapes))
		for _, subShape := range s.TupleShapes {
			s2.TupleShapes = append(s2.TupleShapes, subShape.Clone())
		}
	}
	return
}
