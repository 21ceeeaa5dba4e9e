// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"testing"

	"github.com/gomlx/lazytensors/pkg/core/dtypes"
	"github.com/stretchr/testify/require"
)

func TestFromString(t *testing.T) {
	testCases := map[string]Shape{
		"f32[2,3]":         Make(dtypes.Float32, 2, 3),
		"Float32[2 3]":     Make(dtypes.Float32, 2, 3),
		" (Int64)[4] ":     Make(dtypes.Int64, 4),
		"bool":             Make(dtypes.Bool),
		"(BFloat16)":       Make(dtypes.BFloat16),
		"u8[]":             Make(dtypes.Uint8),
		"c64[1, 0, 2]":     Make(dtypes.Complex64, 1, 0, 2),
		"PRED[2]":          Make(dtypes.Bool, 2),
		"(Float64)[7 1 2]": Make(dtypes.Float64, 7, 1, 2),
	}
	for text, want := range testCases {
		got, err := FromString(text)
		require.NoErrorf(t, err, "parsing %q", text)
		require.Truef(t, want.Equal(got), "parsing %q: got %s, wanted %s", text, got, want)
	}

	// Shape.String() output parses back to the same shape.
	for _, s := range []Shape{Make(dtypes.Int16, 3, 5), Make(dtypes.Complex128)} {
		got, err := FromString(s.String())
		require.NoError(t, err)
		require.True(t, s.Equal(got))
	}

	for _, text := range []string{"", "f32[2", "f33[2]", "f32[a]", "f32[-1]", "Tuple<(Float32)>",
		"f32[4294967296,4294967296]", "f64[9223372036854775807]"} {
		_, err := FromString(text)
		require.Errorf(t, err, "parsing %q should have failed", text)
	}
}
