// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tensors

import (
	"bytes"
	"fmt"
	"reflect"
	"slices"
	"unsafe"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/lazytensors/pkg/core/dtypes"
	"github.com/gomlx/lazytensors/pkg/core/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// FromShape returns a Tensor with storage allocated for the given shape: shape.Size() elements of the
// Go type of shape.DType, densely packed.
//
// The contents carry no value guarantee: write them (e.g. with MutableFlatData or AssignFlatData)
// before reading.
//
// It panics if you provide an invalid shape, and with an error wrapping shapes.ErrTupleShape for tuples.
func FromShape(shape shapes.Shape) *Tensor {
	if shape.IsTuple() {
		panic(errors.Wrapf(shapes.ErrTupleShape, "tensors.FromShape(%s)", shape))
	}
	if !shape.Ok() {
		panic(errors.New("tensors.FromShape(): invalid shape"))
	}
	if err := shape.CheckSize(); err != nil {
		exceptions.Panicf("tensors.FromShape(): %v", err)
	}
	t := &Tensor{shape: shape.Clone()}
	size := t.shape.Size()
	t.flat = reflect.MakeSlice(reflect.SliceOf(t.shape.DType.GoType()), size, size).Interface()
	if klog.V(2).Enabled() {
		klog.Infof("tensors.FromShape(%s): allocated %d bytes", shape, t.shape.Memory())
	}
	return t
}

// Clone creates a deep copy of the Tensor, with its own storage.
func (t *Tensor) Clone() (*Tensor, error) {
	var clone *Tensor
	err := t.ConstFlatData(func(flat any) {
		flatV := reflect.ValueOf(flat)
		size := flatV.Len()
		cloneFlatV := reflect.MakeSlice(flatV.Type(), size, size)
		reflect.Copy(cloneFlatV, flatV)
		clone = &Tensor{shape: t.shape.Clone(), flat: cloneFlatV.Interface()}
	})
	if err != nil {
		return nil, err
	}
	return clone, nil
}

// ConstFlatData calls accessFn with the flattened data as a slice of the Go type corresponding to the DType type.
// Even scalar values have a flattened data representation of one element.
// It locks the Tensor until accessFn returns.
//
// This provides accessFn with the actual Tensor data (not a copy), owned by the Tensor, and it should not be
// changed. See Tensor.MutableFlatData to access a mutable version of the flat data.
//
// See Tensor.Size for the number of elements, and Tensor.LayoutStrides to calculate the offset of individual
// positions, given the indices at each axis.
func (t *Tensor) ConstFlatData(accessFn func(flat any)) error {
	if t == nil {
		return errors.New("Tensor is nil")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.CheckValid(); err != nil {
		return err
	}
	accessFn(t.flat)
	return nil
}

// MustConstFlatData is like Tensor.ConstFlatData, but panics on error.
func (t *Tensor) MustConstFlatData(accessFn func(flat any)) {
	must(t.ConstFlatData(accessFn))
}

// ConstFlatData calls accessFn with the flattened data as a slice of the Go type corresponding to the DType type.
// It is the "generics" version of Tensor.ConstFlatData(): it returns an error if T doesn't match the dtype.
func ConstFlatData[T dtypes.Supported](t *Tensor, accessFn func(flat []T)) error {
	if t.DType() != dtypes.FromGenericsType[T]() {
		var v T
		return errors.Errorf("ConstFlatData[%T] is incompatible with Tensor's dtype %s -- expected dtype %s",
			v, t.DType(), dtypes.FromGenericsType[T]())
	}
	return t.ConstFlatData(func(anyFlat any) {
		accessFn(asSliceOf[T](anyFlat))
	})
}

// MustConstFlatData is like ConstFlatData, but panics on error.
func MustConstFlatData[T dtypes.Supported](t *Tensor, accessFn func(flat []T)) {
	must(ConstFlatData(t, accessFn))
}

// asSliceOf converts the flat storage to []T. It handles Go's `int`, which is stored as []int32 or []int64
// depending on the platform.
func asSliceOf[T dtypes.Supported](flat any) []T {
	if typed, ok := flat.([]T); ok {
		return typed
	}
	flatV := reflect.ValueOf(flat)
	var v T
	if flatV.Type().Elem().Size() != unsafe.Sizeof(v) {
		exceptions.Panicf("cannot convert tensor storage %T to []%T", flat, v)
	}
	if flatV.Len() == 0 {
		return []T{}
	}
	return unsafe.Slice((*T)(flatV.Index(0).Addr().UnsafePointer()), flatV.Len())
}

// bytesOf returns a view of the flat storage as bytes.
func bytesOf(flat any) []byte {
	flatV := reflect.ValueOf(flat)
	if flatV.Len() == 0 {
		return []byte{}
	}
	element0 := flatV.Index(0)
	sizeBytes := uintptr(flatV.Len()) * element0.Type().Size()
	return unsafe.Slice((*byte)(element0.Addr().UnsafePointer()), sizeBytes)
}

// ConstBytes calls accessFn with the data as a bytes slice.
// It locks the Tensor until accessFn returns.
//
// This provides accessFn with the actual Tensor data (not a copy), owned by the Tensor, and it should not be
// changed. See Tensor.MutableBytes to access a mutable version of the data as bytes.
func (t *Tensor) ConstBytes(accessFn func(data []byte)) error {
	return t.ConstFlatData(func(flat any) {
		accessFn(bytesOf(flat))
	})
}

// MutableFlatData calls accessFn with a flat slice pointing to the Tensor data.
// The type of the slice corresponds to the DType of the tensor.
// The contents of the slice itself can be changed until accessFn returns.
// During this time the Tensor is locked.
func (t *Tensor) MutableFlatData(accessFn func(flat any)) error {
	// Storage is local only, so the access is the same as ConstFlatData: there are no other copies to invalidate.
	return t.ConstFlatData(accessFn)
}

// MustMutableFlatData is like Tensor.MutableFlatData, but panics on error.
func (t *Tensor) MustMutableFlatData(accessFn func(flat any)) {
	must(t.MutableFlatData(accessFn))
}

// MutableBytes gives mutable access to the storage of the tensor, as bytes.
// It's similar to MutableFlatData but provides a bytes view to the same data.
func (t *Tensor) MutableBytes(accessFn func(data []byte)) error {
	return t.MutableFlatData(func(flat any) {
		accessFn(bytesOf(flat))
	})
}

// MutableFlatData calls accessFn with a flat slice pointing to the Tensor data.
// It is the "generics" version of Tensor.MutableFlatData(): it returns an error if T doesn't match the dtype.
func MutableFlatData[T dtypes.Supported](t *Tensor, accessFn func(flat []T)) error {
	if t.DType() != dtypes.FromGenericsType[T]() {
		var v T
		return errors.Errorf("MutableFlatData[%T] is incompatible with Tensor's dtype %s", v, t.DType())
	}
	return t.MutableFlatData(func(anyFlat any) {
		accessFn(asSliceOf[T](anyFlat))
	})
}

// MustMutableFlatData is like MutableFlatData, but panics on error.
func MustMutableFlatData[T dtypes.Supported](t *Tensor, accessFn func(flat []T)) {
	must(MutableFlatData(t, accessFn))
}

// AssignFlatData will copy over the values in fromFlat to the storage used by toTensor.
// It returns an error if the dtypes are not compatible or if the size is wrong.
func AssignFlatData[T dtypes.Supported](toTensor *Tensor, fromFlat []T) error {
	var lenErr error
	accessErr := MutableFlatData(toTensor, func(toFlat []T) {
		if len(toFlat) != len(fromFlat) {
			var v T
			lenErr = errors.Errorf(
				"AssignFlatData[%T] is trying to store %d values into shape %s, which requires %d values",
				v, len(fromFlat), toTensor.Shape(), toTensor.Shape().Size())
			return
		}
		copy(toFlat, fromFlat)
	})
	if accessErr != nil {
		return accessErr
	}
	return lenErr
}

// CopyFlatData returns a copy of the flat data of the Tensor.
//
// It panics if the given generic type doesn't match the DType of the tensor.
func CopyFlatData[T dtypes.Supported](t *Tensor) []T {
	var flatCopy []T
	MustConstFlatData(t, func(flat []T) {
		flatCopy = slices.Clone(flat)
	})
	return flatCopy
}

// ToScalar returns the scalar value of the Tensor.
//
// It panics if the given generic type doesn't match the DType of the tensor, or if the tensor is not a scalar.
func ToScalar[T dtypes.Supported](t *Tensor) T {
	if !t.shape.IsScalar() {
		var v T
		exceptions.Panicf("ToScalar[%T] requires scalar Tensor, got shape %s instead", v, t.shape)
	}
	var value T
	MustConstFlatData(t, func(flat []T) {
		value = flat[0]
	})
	return value
}

// MultiDimensionSlice lists the Go types a Tensor can be converted to/from. There are no recursions in
// generics' constraint definitions, so we list up to 5 levels of slices. FromAnyValue works with any
// arbitrary number.
type MultiDimensionSlice interface {
	bool | float32 | float64 | int | int32 | int64 | uint8 | uint32 | uint64 | complex64 | complex128 |
		[]bool | []float32 | []float64 | []int | []int32 | []int64 | []uint8 | []uint32 | []uint64 | []complex64 | []complex128 |
		[][]bool | [][]float32 | [][]float64 | [][]int | [][]int32 | [][]int64 | [][]uint8 | [][]uint32 | [][]uint64 | [][]complex64 | [][]complex128 |
		[][][]bool | [][][]float32 | [][][]float64 | [][][]int | [][][]int32 | [][][]int64 | [][][]uint8 | [][][]uint32 | [][][]uint64 | [][][]complex64 | [][][]complex128 |
		[][][][]bool | [][][][]float32 | [][][][]float64 | [][][][]int | [][][][]int32 | [][][][]int64 | [][][][]uint8 | [][][][]uint32 | [][][][]uint64 | [][][][]complex64 | [][][][]complex128
}

// LayoutStrides return the strides for each axis. This can be handy when manipulating the flat data.
func (t *Tensor) LayoutStrides() (strides []int) {
	return t.shape.Strides()
}

// Value returns a multidimensional slice (except if the shape is a scalar) containing a copy of the values stored
// in the tensor.
// This is expensive and usually only used for smaller tensors in tests and to print results.
//
// It panics if the tensor is invalid.
func (t *Tensor) Value() any {
	var mdSlice any
	t.MustConstFlatData(func(flat any) {
		flatV := reflect.ValueOf(flat)
		if t.shape.IsScalar() {
			mdSlice = flatV.Index(0).Interface()
			return
		}
		flatCopyV := reflect.MakeSlice(flatV.Type(), flatV.Len(), flatV.Len())
		reflect.Copy(flatCopyV, flatV)
		mdSlice = convertDataToSlices(flatCopyV, t.shape.Dimensions...).Interface()
	})
	return mdSlice
}

// FromScalar creates a tensor with the given scalar.
// The `DType` is inferred from the value.
func FromScalar[T dtypes.Supported](value T) *Tensor {
	return FromScalarAndDimensions(value)
}

// FromScalarAndDimensions creates a tensor with the given dimensions, filled with the
// given scalar value replicated everywhere.
// The `DType` is inferred from the value.
func FromScalarAndDimensions[T dtypes.Supported](value T, dimensions ...int) *Tensor {
	t := FromShape(shapes.Make(dtypes.FromGenericsType[T](), dimensions...))
	MustMutableFlatData(t, func(flat []T) {
		for ii := range flat {
			flat[ii] = value
		}
	})
	return t
}

// FromFlatDataAndDimensions creates a tensor with the given dimensions, filled with the flattened values given in `data`.
// The data is copied to the Tensor.
// The `DType` is inferred from the `data` type.
//
// It panics if the size of data is wrong for the shape.
func FromFlatDataAndDimensions[T dtypes.Supported](data []T, dimensions ...int) *Tensor {
	shape := shapes.Make(dtypes.FromGenericsType[T](), dimensions...)
	if len(data) != shape.Size() {
		exceptions.Panicf("FromFlatDataAndDimensions(%s): data size is %d, but dimensions size is %d",
			shape, len(data), shape.Size())
	}
	t := FromShape(shape)
	MustMutableFlatData(t, func(flat []T) {
		copy(flat, data)
	})
	return t
}

// FromValue returns a tensor constructed from the given multi-dimension slice (or scalar).
// If the rank of the `value` is larger than 1, the shape of all sub-slices must be the same.
//
// It panics if the shape is not regular.
//
// Notice that FromFlatDataAndDimensions is much faster if speed here is a concern.
func FromValue[S MultiDimensionSlice](value S) *Tensor {
	return FromAnyValue(value)
}

// FromAnyValue is a non-generic version of FromValue.
// The input is expected to be either a scalar or a slice of slices with homogeneous dimensions.
// If the input is a tensor already, it is simply returned.
//
// It panics with an error if the value type is unsupported or the shape is not regular.
func FromAnyValue(value any) *Tensor {
	if valueT, ok := value.(*Tensor); ok {
		return valueT
	}
	shape, err := shapeForValue(value)
	if err != nil {
		panic(errors.WithMessagef(err, "cannot create shape from %T", value))
	}
	t := FromShape(shape)
	t.MustMutableFlatData(func(flatAny any) {
		if baseType(reflect.TypeOf(value)).Kind() == reflect.Int {
			// Go `int` is stored as int32 or int64 depending on the architecture: reinterpret the
			// storage as []int so reflect.Copy accepts it.
			flatV := reflect.ValueOf(flatAny)
			if flatV.Len() > 0 {
				flatAny = unsafe.Slice((*int)(flatV.Index(0).Addr().UnsafePointer()), flatV.Len())
			} else {
				flatAny = []int{}
			}
		}
		flatV := reflect.ValueOf(flatAny)
		if shape.IsScalar() {
			flatV.Index(0).Set(reflect.ValueOf(value))
			return
		}
		copySlicesRecursively(flatV, reflect.ValueOf(value), t.LayoutStrides())
	})
	return t
}

// copySlicesRecursively copy values on a multi-dimension slice to a flat data slice
// assuming the strides for each dimension.
func copySlicesRecursively(data reflect.Value, mdSlice reflect.Value, strides []int) {
	if len(strides) == 1 {
		reflect.Copy(data, mdSlice)
		return
	}
	subStrides := strides[1:]
	for ii := range mdSlice.Len() {
		subData := data.Slice(ii*strides[0], (ii+1)*strides[0])
		copySlicesRecursively(subData, mdSlice.Index(ii), subStrides)
	}
}

// convertDataToSlices takes data as a flat slice and creates a multidimensional slice with the given dimensions that
// points to the given data.
func convertDataToSlices(dataV reflect.Value, dimensions ...int) reflect.Value {
	if len(dimensions) <= 1 {
		return dataV
	}
	resultT := dataV.Type().Elem()
	for range dimensions {
		resultT = reflect.SliceOf(resultT)
	}
	strides := make([]int, len(dimensions))
	currentStride := 1
	for axis := len(dimensions) - 1; axis >= 0; axis-- {
		strides[axis] = currentStride
		currentStride *= dimensions[axis]
	}
	return createSlicesRecursively(resultT, dataV, dimensions, strides)
}

// createSlicesRecursively creates the multidimensional slices pointing to the flat data.
func createSlicesRecursively(resultT reflect.Type, data reflect.Value, dimensions []int, strides []int) reflect.Value {
	if len(strides) == 1 {
		return data
	}
	numElements := dimensions[0]
	slice := reflect.MakeSlice(resultT, numElements, numElements)
	for ii := range numElements {
		subData := data.Slice(ii*strides[0], (ii+1)*strides[0])
		slice.Index(ii).Set(createSlicesRecursively(resultT.Elem(), subData, dimensions[1:], strides[1:]))
	}
	return slice
}

func shapeForValue(v any) (shapes.Shape, error) {
	var shape shapes.Shape
	err := shapeForValueRecursive(&shape, reflect.ValueOf(v), reflect.TypeOf(v))
	return shape, err
}

func shapeForValueRecursive(shape *shapes.Shape, v reflect.Value, t reflect.Type) error {
	switch t.Kind() {
	case reflect.Slice:
		t = t.Elem()
		shape.Dimensions = append(shape.Dimensions, v.Len())
		shapePrefix := shape.Clone()
		if v.Len() == 0 {
			return errors.Errorf("value with empty slice not valid for Tensor conversion: %T -- use shapes.Make "+
				"and FromShape for shapes with zero-dimensions", v.Interface())
		}

		// The first element is the reference
		err := shapeForValueRecursive(shape, v.Index(0), t)
		if err != nil {
			return err
		}
		for ii := 1; ii < v.Len(); ii++ {
			shapeTest := shapePrefix.Clone()
			err = shapeForValueRecursive(&shapeTest, v.Index(ii), t)
			if err != nil {
				return err
			}
			if !shape.Equal(shapeTest) {
				return fmt.Errorf("sub-slices have irregular shapes, found shapes %q, and %q", shape, shapeTest)
			}
		}

	case reflect.Pointer:
		return fmt.Errorf("cannot convert Pointer (%s) to a concrete value for tensors", t)

	default:
		shape.DType = dtypes.FromGoType(t)
		if shape.DType == dtypes.InvalidDType {
			return fmt.Errorf("cannot convert type %s to a value concrete tensor type (maybe type not supported yet?)", t)
		}
	}
	return nil
}

// baseType will return the underlying type of a multi-dimension array/slice. So `baseType([][]int{})` would
// return the type `int`.
func baseType(valueType reflect.Type) reflect.Type {
	for valueType.Kind() == reflect.Slice || valueType.Kind() == reflect.Array {
		valueType = valueType.Elem()
	}
	return valueType
}

// Equal checks whether t == otherTensor: same shape and same elements.
// If they are the same pointer, they are considered equal.
// If either side is invalid (nil or finalized), it panics.
//
// Floating-point elements are compared with Go's `==`, so NaN values are never equal, and -0 equals +0.
// See BitEqual for a comparison of the raw contents.
//
// The two tensors are never locked at the same time: the contents of otherTensor are copied first.
func (t *Tensor) Equal(otherTensor *Tensor) bool {
	t.AssertValid()
	otherTensor.AssertValid()
	if t == otherTensor {
		return true
	}
	if !t.shape.Equal(otherTensor.shape) {
		return false
	}
	var otherV reflect.Value
	otherTensor.MustConstFlatData(func(flat any) {
		flatV := reflect.ValueOf(flat)
		otherV = reflect.MakeSlice(flatV.Type(), flatV.Len(), flatV.Len())
		reflect.Copy(otherV, flatV)
	})
	equal := true
	t.MustConstFlatData(func(flat any) {
		flatV := reflect.ValueOf(flat)
		for ii := range flatV.Len() {
			if !flatV.Index(ii).Equal(otherV.Index(ii)) {
				equal = false
				return
			}
		}
	})
	return equal
}

// BitEqual checks whether t and otherTensor have the same shape and the same raw contents, byte by byte.
// If either side is invalid (nil or finalized), it panics.
//
// Unlike Equal, -0 and +0 differ, and NaN values with the same bits are equal.
// As with Equal, the two tensors are never locked at the same time.
func (t *Tensor) BitEqual(otherTensor *Tensor) bool {
	t.AssertValid()
	otherTensor.AssertValid()
	if t == otherTensor {
		return true
	}
	if !t.shape.Equal(otherTensor.shape) {
		return false
	}
	var otherData []byte
	must(otherTensor.ConstBytes(func(data []byte) {
		otherData = slices.Clone(data)
	}))
	var equal bool
	must(t.ConstBytes(func(data []byte) {
		equal = bytes.Equal(data, otherData)
	}))
	return equal
}
