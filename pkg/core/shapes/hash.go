// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/pkg/errors"
)

// Hash returns the structural hash of the shape: a 64-bit FNV-1a hash over its DType, rank
// and dimensions.
//
// It doesn't depend on any tensor contents: equal shapes always hash the same, in any process
// and platform, so it can be used as a cache or bucketing key. It is not a proxy for equality of
// values -- two different literals with the same shape have the same hash.
//
// It panics with an error wrapping ErrTupleShape for tuples: there is no defined hash for them.
func Hash(s Shape) uint64 {
	if s.IsTuple() {
		panic(errors.Wrapf(ErrTupleShape, "shapes.Hash(%s)", s))
	}
	h := fnv.New64a()
	var buf [8]byte
	writeUint64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = h.Write(buf[:])
	}
	writeUint64(uint64(s.DType))
	// The rank prefixes the dimensions, so (2,3) and (2)+(3) never collide structurally.
	writeUint64(uint64(s.Rank()))
	for _, dim := range s.Dimensions {
		writeUint64(uint64(dim))
	}
	return h.Sum64()
}

// Hash returns the structural hash of the shape. See package function Hash.
func (s Shape) Hash() uint64 {
	return Hash(s)
}
