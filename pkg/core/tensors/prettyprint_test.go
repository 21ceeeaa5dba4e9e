package tensors

import (
	"testing"

	"github.com/gomlx/lazytensors/pkg/core/dtypes/bfloat16"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestSummary(t *testing.T) {
	require.Equal(t, "(Float32)(3)", FromScalar(float32(3)).String())
	require.Equal(t, "(Int32)[3]{1, 2, 3}", FromValue([]int32{1, 2, 3}).String())
	require.Equal(t, "(Bool)[2]{true, false}", FromValue([]bool{true, false}).String())
	require.Equal(t, "(Complex64)[1]{(1+2i)}", FromValue([]complex64{1 + 2i}).String())
	require.Equal(t, "(Float64)[2 2]\n{{1, 2},\n {3.5, 4}}", FromValue([][]float64{{1, 2}, {3.5, 4}}).String())
	require.Equal(t, "(Int64)[8]{0, 1, 2, ..., 5, 6, 7}",
		FromValue([]int64{0, 1, 2, 3, 4, 5, 6, 7}).String())
	require.Equal(t, "(Float32)[1]{3.142}", FromValue([]float32{3.14159}).Summary(4))
	require.Equal(t, "(Uint64)[2]{0, 18446744073709551615}", FromValue([]uint64{0, 1<<64 - 1}).String())
	require.Equal(t, "(Float16)[2]{1.5, -2}",
		FromAnyValue([]float16.Float16{float16.Fromfloat32(1.5), float16.Fromfloat32(-2)}).String())
	require.Equal(t, "(BFloat16)[1]{0.5}", FromAnyValue([]bfloat16.BFloat16{bfloat16.FromFloat32(0.5)}).String())
}
