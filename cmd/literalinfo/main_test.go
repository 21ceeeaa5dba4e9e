package main

import (
	"testing"

	"github.com/gomlx/lazytensors/pkg/core/dtypes"
	"github.com/gomlx/lazytensors/pkg/core/literals/literalcache"
	"github.com/gomlx/lazytensors/pkg/core/shapes"
	"github.com/gomlx/lazytensors/pkg/core/tensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShapes(t *testing.T) {
	got, err := parseShapes([]string{"f32[2,3]", "(Int8)", "bool[0]"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].Equal(shapes.Make(dtypes.Float32, 2, 3)))
	assert.True(t, got[1].Equal(shapes.Make(dtypes.Int8)))
	assert.True(t, got[2].Equal(shapes.Make(dtypes.Bool, 0)))

	_, err = parseShapes([]string{"f32[2]", "f99[2]"})
	require.Error(t, err)
}

func TestLiteralRow(t *testing.T) {
	shape := shapes.Make(dtypes.Float32, 1000, 1000)
	l := zeroLiteral(shape)
	row := literalRow(l)
	require.Len(t, row, len(literalHeaders))
	assert.Equal(t, "(Float32)[1000 1000]", row[0])
	assert.Equal(t, "2", row[1])
	assert.Equal(t, "1,000,000", row[2])
	assert.Equal(t, "4.0 MB", row[3])
	assert.Len(t, row[4], 16)
}

func TestZeroLiteral(t *testing.T) {
	l := zeroLiteral(shapes.Make(dtypes.Int32, 2, 2))
	want := tensors.FromValue([][]int32{{0, 0}, {0, 0}})
	require.True(t, l.Value().Equal(want))
}

func TestStatsRows(t *testing.T) {
	rows := statsRows(literalcache.Stats{Hits: 1234, Misses: 2, Collisions: 1, Buckets: 1, Entries: 2})
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"hits", "1,234"}, rows[0])
	assert.Equal(t, []string{"entries", "2"}, rows[4])
}
