// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"github.com/gomlx/lazytensors/pkg/core/dtypes"
	"github.com/pkg/errors"
)

// UncheckedAxis can be used in CheckDims or AssertDims functions for an axis
// whose dimension doesn't matter.
const UncheckedAxis = int(-1)

// ErrTupleShape is returned (or wrapped in a panic) when a tuple shape is given where only
// array shapes are supported.
var ErrTupleShape = errors.New("tuple shapes are not supported")

// HasShape is an interface for objects that have an associated Shape.
// tensors.Tensor, literals.Literal and Shape itself implement the interface.
type HasShape interface {
	Shape() Shape
}

// CheckNotTuple returns an error wrapping ErrTupleShape if the shape is a tuple.
func (s Shape) CheckNotTuple() error {
	if s.IsTuple() {
		return errors.Wrapf(ErrTupleShape, "shape %s", s)
	}
	return nil
}

// AssertNotTuple panics with an error wrapping ErrTupleShape if the shape is a tuple.
func (s Shape) AssertNotTuple() {
	if err := s.CheckNotTuple(); err != nil {
		panic(err)
	}
}

// CheckDims checks that the shape has the given dimensions and rank. A value of -1 in
// dimensions means it can take any value and is not checked.
//
// It returns an error if the rank is different or if any of the dimensions don't match.
func (s Shape) CheckDims(dimensions ...int) error {
	if s.Rank() != len(dimensions) {
		return errors.Errorf("shape (%s) has incompatible rank %d (wanted %d)", s, s.Rank(), len(dimensions))
	}
	for ii, wantDim := range dimensions {
		if wantDim != UncheckedAxis && s.Dimensions[ii] != wantDim {
			return errors.Errorf("shape (%s) axis %d has dimension %d, wanted %d (shape wanted=%v)", s, ii, s.Dimensions[ii], wantDim, dimensions)
		}
	}
	return nil
}

// Check that the shape has the given dtype, dimensions and rank. A value of -1 in
// dimensions means it can take any value and is not checked.
func (s Shape) Check(dtype dtypes.DType, dimensions ...int) error {
	if dtype != s.DType {
		return errors.Errorf("shape (%s) has incompatible dtype %s (wanted %s)", s, s.DType, dtype)
	}
	return s.CheckDims(dimensions...)
}

// CheckRank checks that the shape has the given rank.
func (s Shape) CheckRank(rank int) error {
	if s.Rank() != rank {
		return errors.Errorf("shape (%s) has incompatible rank %d -- wanted %d", s, s.Rank(), rank)
	}
	return nil
}

// AssertDims is like CheckDims, but panics if it doesn't match.
func (s Shape) AssertDims(dimensions ...int) {
	if err := s.CheckDims(dimensions...); err != nil {
		panic(errors.WithMessagef(err, "shapes.AssertDims(%v)", dimensions))
	}
}

// Assert is like Check, but panics if it doesn't match.
func (s Shape) Assert(dtype dtypes.DType, dimensions ...int) {
	if err := s.Check(dtype, dimensions...); err != nil {
		panic(errors.WithMessagef(err, "shapes.Assert(%s, %v)", dtype, dimensions))
	}
}

// AssertRank is like CheckRank, but panics if it doesn't match.
func (s Shape) AssertRank(rank int) {
	if err := s.CheckRank(rank); err != nil {
		panic(errors.WithMessagef(err, "shapes.AssertRank(%d)", rank))
	}
}

// CheckDims checks that shaped has the given dimensions and rank.
func CheckDims(shaped HasShape, dimensions ...int) error {
	return shaped.Shape().CheckDims(dimensions...)
}

// AssertDims checks that shaped has the given dimensions and rank, and panics otherwise.
func AssertDims(shaped HasShape, dimensions ...int) {
	shaped.Shape().AssertDims(dimensions...)
}

// Assert checks that shaped has the given dtype, dimensions and rank, and panics otherwise.
func Assert(shaped HasShape, dtype dtypes.DType, dimensions ...int) {
	shaped.Shape().Assert(dtype, dimensions...)
}

// AssertRank checks that shaped has the given rank, and panics otherwise.
func AssertRank(shaped HasShape, rank int) {
	shaped.Shape().AssertRank(rank)
}
