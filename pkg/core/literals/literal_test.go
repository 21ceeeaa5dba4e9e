// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package literals

import (
	"math"
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/lazytensors/pkg/core/dtypes"
	"github.com/gomlx/lazytensors/pkg/core/shapes"
	"github.com/gomlx/lazytensors/pkg/core/tensors"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	shape := shapes.Make(dtypes.Float32, 4)
	l := New(shape)
	require.True(t, shape.Equal(l.Shape()))
	require.Equal(t, []int{4}, l.Shape().Dimensions)
	require.Equal(t, dtypes.Float32, l.Value().DType())
	require.Equal(t, 4, l.Value().Size())
	require.Equal(t, uintptr(16), l.Value().Memory())
	require.Equal(t, l.Hash(), l.Hash(), "hash must be stable across calls")

	// Storage is writable through the tensor.
	require.NoError(t, tensors.AssignFlatData(l.Value(), []float32{1, 2, 3, 4}))
	require.Equal(t, []float32{1, 2, 3, 4}, tensors.CopyFlatData[float32](l.Value()))

	// The literal owns a copy of the shape.
	shape.Dimensions[0] = 8
	require.Equal(t, []int{4}, l.Shape().Dimensions)
}

func TestShapePreserved(t *testing.T) {
	for _, shape := range []shapes.Shape{
		shapes.Make(dtypes.Bool),
		shapes.Make(dtypes.Int8, 1),
		shapes.Make(dtypes.Float64, 2, 3),
		shapes.Make(dtypes.BFloat16, 2, 0, 5),
		shapes.Make(dtypes.Complex128, 1, 1, 1, 1),
	} {
		l := New(shape)
		require.Truef(t, shape.Equal(l.Shape()), "New(%s).Shape() = %s", shape, l.Shape())
		require.True(t, shape.Equal(l.Value().Shape()))
	}
}

func TestHash(t *testing.T) {
	a := New(shapes.Make(dtypes.Float32, 2, 3))
	b := New(shapes.Make(dtypes.Float32, 2, 3))
	require.Equal(t, a.Hash(), b.Hash())
	require.Equal(t, shapes.Hash(a.Shape()), a.Hash())

	// Contents don't matter.
	require.NoError(t, tensors.AssignFlatData(a.Value(), []float32{1, 2, 3, 4, 5, 6}))
	require.NoError(t, tensors.AssignFlatData(b.Value(), []float32{6, 5, 4, 3, 2, 1}))
	require.Equal(t, a.Hash(), b.Hash())
	require.False(t, a.Equal(b))

	require.NotEqual(t, a.Hash(), New(shapes.Make(dtypes.Float64, 2, 3)).Hash())
	require.NotEqual(t, a.Hash(), New(shapes.Make(dtypes.Float32, 3, 2)).Hash())
	require.NotEqual(t, a.Hash(), New(shapes.Make(dtypes.Float32, 2, 3, 1)).Hash())
}

func TestTupleInvariant(t *testing.T) {
	tuple := shapes.MakeTuple([]shapes.Shape{shapes.Make(dtypes.Float32, 4), shapes.Make(dtypes.Int32)})

	err := exceptions.TryCatch[error](func() { _ = New(tuple) })
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTupleShape))
	require.ErrorContains(t, err, "literals.New()")

	// Hash re-checks the invariant, even if the shape was changed after construction.
	l := New(shapes.Make(dtypes.Float32, 4))
	l.shape = tuple
	err = exceptions.TryCatch[error](func() { _ = l.Hash() })
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTupleShape))
	require.ErrorContains(t, err, "Literal.Hash()")
}

func TestNewChecked(t *testing.T) {
	l, err := NewChecked(shapes.Make(dtypes.Int64, 3))
	require.NoError(t, err)
	require.Equal(t, 3, l.Value().Size())

	_, err = NewChecked(shapes.MakeTuple(nil))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTupleShape))

	_, err = NewChecked(shapes.Invalid())
	require.Error(t, err)

	// Number of elements overflows int.
	_, err = NewChecked(shapes.Shape{DType: dtypes.Float32, Dimensions: []int{math.MaxInt / 2, 4}})
	require.Error(t, err)
	require.Panics(t, func() {
		_ = New(shapes.Shape{DType: dtypes.Float32, Dimensions: []int{math.MaxInt / 2, 4}})
	})
}

func TestBitEqual(t *testing.T) {
	plusZero := FromTensor(tensors.FromValue([]float32{0}))
	minusZero := FromTensor(tensors.FromValue([]float32{float32(math.Copysign(0, -1))}))
	require.True(t, plusZero.Equal(minusZero))
	require.False(t, plusZero.BitEqual(minusZero))
	require.Equal(t, plusZero.Hash(), minusZero.Hash())

	nan0 := FromTensor(tensors.FromValue([]float64{math.NaN()}))
	nan1 := FromTensor(tensors.FromValue([]float64{math.NaN()}))
	require.False(t, nan0.Equal(nan1))
	require.True(t, nan0.BitEqual(nan1))

	require.True(t, nan0.BitEqual(nan0))
	require.False(t, nan0.BitEqual(nil))
	require.False(t, nan0.BitEqual(FromTensor(tensors.FromValue([]float32{float32(math.NaN())}))), "different dtypes")
}

func TestFinalize(t *testing.T) {
	l := New(shapes.Make(dtypes.Int16, 2))
	l.Finalize()
	require.False(t, l.Shape().Ok())
	require.False(t, l.Value().Ok())
	require.Panics(t, func() { _ = l.Hash() })
	require.NotPanics(t, func() { l.Finalize() })
}

func TestFromTensor(t *testing.T) {
	tensor := tensors.FromValue([][]int32{{1, 2}, {3, 4}})
	l := FromTensor(tensor)
	require.Same(t, tensor, l.Value())
	require.NoError(t, l.Shape().Check(dtypes.Int32, 2, 2))
	require.Equal(t, "Literal((Int32)[2 2]\n{{1, 2},\n {3, 4}})", l.String())

	require.True(t, l.Equal(FromTensor(tensors.FromValue([][]int32{{1, 2}, {3, 4}}))))
	require.True(t, l.Equal(l))
	require.False(t, l.Equal(nil))
	require.False(t, l.Equal(FromTensor(tensors.FromValue([]int32{1, 2, 3, 4}))))

	l.Finalize()
	require.False(t, l.Value().Ok())
	require.Panics(t, func() { _ = FromTensor(tensor) }, "finalized tensor")
}
