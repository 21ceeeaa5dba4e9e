package tensors

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gomlx/lazytensors/pkg/core/dtypes"
	"github.com/gomlx/lazytensors/pkg/core/dtypes/bfloat16"
	"github.com/x448/float16"
)

// TensorStringDefaultPrecision used by Tensor.String.
const TensorStringDefaultPrecision = 4

// summaryMaxRowElements is the max number of elements printed per row (or rows per axis) before
// the middle ones are elided with "...".
const summaryMaxRowElements = 6

// String converts to string, if not too large. It uses t.Summary(precision=4).
func (t *Tensor) String() string {
	if !t.Ok() {
		return "<invalid tensor>"
	}
	return t.Summary(TensorStringDefaultPrecision)
}

// Summary returns a multi-line summary of the Tensor's content, prefixed by the shape.
// Long axes have their middle elements elided. Inspired by numpy output.
func (t *Tensor) Summary(precision int) string {
	if t.shape.IsZeroSize() {
		return t.shape.String()
	}
	var sb strings.Builder
	w := func(format string, args ...any) { _, _ = fmt.Fprintf(&sb, format, args...) }

	dtype := t.shape.DType
	wValue := func(v reflect.Value) {
		switch {
		case dtype == dtypes.Float16:
			w("%.*g", precision, v.Interface().(float16.Float16).Float32())
		case dtype == dtypes.BFloat16:
			w("%.*g", precision, v.Interface().(bfloat16.BFloat16).Float32())
		case dtype.IsFloat():
			w("%.*g", precision, v.Float())
		case dtype.IsComplex():
			c := v.Complex()
			w("(%.*g%+.*gi)", precision, real(c), precision, imag(c))
		case dtype.IsUnsigned():
			w("%d", v.Uint())
		case dtype.IsInt():
			w("%d", v.Int())
		default:
			w("%v", v.Interface())
		}
	}

	// visibleIndices returns which indices of an axis of the given dimension are printed; -1 marks the ellipsis.
	visibleIndices := func(dim int) []int {
		if dim <= summaryMaxRowElements {
			indices := make([]int, dim)
			for ii := range indices {
				indices[ii] = ii
			}
			return indices
		}
		half := summaryMaxRowElements / 2
		indices := make([]int, 0, summaryMaxRowElements+1)
		for ii := range half {
			indices = append(indices, ii)
		}
		indices = append(indices, -1)
		for ii := dim - half; ii < dim; ii++ {
			indices = append(indices, ii)
		}
		return indices
	}

	strides := t.shape.Strides()
	dims := t.shape.Dimensions
	t.MustConstFlatData(func(flat any) {
		values := reflect.ValueOf(flat)
		w("%s", t.shape)
		if len(dims) == 0 {
			w("(")
			wValue(values.Index(0))
			w(")")
			return
		}

		var printAxis func(axis, offset int)
		printAxis = func(axis, offset int) {
			w("{")
			lastAxis := axis == len(dims)-1
			for ii, idx := range visibleIndices(dims[axis]) {
				if ii > 0 {
					if lastAxis {
						w(", ")
					} else {
						w(",\n%s", strings.Repeat(" ", axis+1))
					}
				}
				switch {
				case idx < 0:
					w("...")
				case lastAxis:
					wValue(values.Index(offset + idx))
				default:
					printAxis(axis+1, offset+idx*strides[axis])
				}
			}
			w("}")
		}
		if len(dims) > 1 {
			w("\n")
		}
		printAxis(0, 0)
	})
	return sb.String()
}
