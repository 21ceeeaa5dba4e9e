// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package literals implements Literal, a typed tensor value: a shape and the storage it describes.
//
// A Literal is what a lazy tensor runtime holds for a constant (already materialized) value: it owns
// its shape and a dense tensors.Tensor allocated from it. Its Hash depends only on the shape, so it is
// usable to bucket literals in caches, but not as a proxy for equality of contents -- see Literal.Equal
// and the literalcache package.
//
// Literals never hold tuple shapes: constructing one from a tuple, or hashing one, is a programming
// error and panics with an error wrapping ErrTupleShape. Use NewChecked to get an error instead.
//
// A Literal is meant to be owned by one goroutine at a time: sharing it requires the owner to
// synchronize access.
package literals

import (
	"fmt"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/lazytensors/pkg/core/shapes"
	"github.com/gomlx/lazytensors/pkg/core/tensors"
	"github.com/pkg/errors"
)

// ErrTupleShape is wrapped by the panics (and errors) raised when a tuple shape is given to a Literal.
var ErrTupleShape = shapes.ErrTupleShape

// Literal is a typed tensor value: it owns a shape and a storage block whose dtype and dimensions are
// the ones in the shape.
type Literal struct {
	shape shapes.Shape
	value *tensors.Tensor
}

// assertNotTuple panics with an error wrapping ErrTupleShape if shape is a tuple.
func assertNotTuple(shape shapes.Shape, caller string) {
	if shape.IsTuple() {
		panic(errors.Wrapf(ErrTupleShape, "%s: literal shape %s", caller, shape))
	}
}

// New allocates a Literal for the given shape: storage for shape.Size() elements of shape.DType.
// The contents carry no value guarantee until written, see Literal.Value.
//
// It panics if shape is a tuple (with an error wrapping ErrTupleShape) or if it is invalid.
func New(shape shapes.Shape) *Literal {
	assertNotTuple(shape, "literals.New()")
	shape = shape.Clone()
	return &Literal{
		shape: shape,
		value: tensors.FromShape(shape),
	}
}

// NewChecked is like New, but returns an error instead of panicking for tuple or invalid shapes, or
// shapes whose size overflows (see shapes.Shape.CheckSize).
func NewChecked(shape shapes.Shape) (*Literal, error) {
	if err := shape.CheckNotTuple(); err != nil {
		return nil, errors.WithMessage(err, "literals.NewChecked()")
	}
	if !shape.Ok() {
		return nil, errors.Errorf("literals.NewChecked(): invalid shape %s", shape)
	}
	if err := shape.CheckSize(); err != nil {
		return nil, errors.WithMessage(err, "literals.NewChecked()")
	}
	return New(shape), nil
}

// FromTensor creates a Literal that takes ownership of the given tensor: the caller must not use
// it afterwards, other than through the Literal.
//
// It panics if the tensor is invalid.
func FromTensor(t *tensors.Tensor) *Literal {
	t.AssertValid()
	assertNotTuple(t.Shape(), "literals.FromTensor()")
	return &Literal{
		shape: t.Shape().Clone(),
		value: t,
	}
}

// Shape returns the shape of the literal. It implements shapes.HasShape.
//
// The returned Shape shares the dimensions slice with the Literal: it must not be modified.
func (l *Literal) Shape() shapes.Shape { return l.shape }

// Hash returns the structural hash of the literal: it depends only on its shape (dtype, rank and
// dimensions), never on its contents. Literals with equal shapes always have equal hashes.
//
// It panics with an error wrapping ErrTupleShape if the literal shape is a tuple, and it panics if
// the literal has been finalized.
func (l *Literal) Hash() uint64 {
	assertNotTuple(l.shape, "Literal.Hash()")
	if !l.shape.Ok() {
		exceptions.Panicf("Literal.Hash(): literal is invalid or has been finalized")
	}
	return shapes.Hash(l.shape)
}

// Value returns the tensor holding the literal contents. It is owned by the Literal.
func (l *Literal) Value() *tensors.Tensor { return l.value }

// Equal returns whether both literals have the same shape and contents.
//
// Floating-point values are compared numerically: -0 equals +0 and NaN never equals anything.
// See BitEqual for an exact comparison.
func (l *Literal) Equal(other *Literal) bool {
	if l == other {
		return true
	}
	if l == nil || other == nil {
		return false
	}
	if !l.shape.Equal(other.shape) {
		return false
	}
	return l.value.Equal(other.value)
}

// BitEqual returns whether both literals have the same shape and the same raw contents, bit by bit.
//
// Unlike Equal, -0 and +0 differ, and NaNs with the same bits are equal. Equal hashes are a necessary
// condition, so it is used to confirm a match between literals bucketed by Hash.
func (l *Literal) BitEqual(other *Literal) bool {
	if l == other {
		return true
	}
	if l == nil || other == nil {
		return false
	}
	if !l.shape.Equal(other.shape) {
		return false
	}
	return l.value.BitEqual(other.value)
}

// String implements fmt.Stringer.
func (l *Literal) String() string {
	if l == nil {
		return "Literal(nil)"
	}
	return fmt.Sprintf("Literal(%s)", l.value)
}

// Finalize immediately frees the literal storage. The Literal is left with an invalid shape, and
// shouldn't be used afterwards.
func (l *Literal) Finalize() {
	if l == nil {
		return
	}
	l.value.FinalizeAll()
	l.shape = shapes.Invalid()
}
