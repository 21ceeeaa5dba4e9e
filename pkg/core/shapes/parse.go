// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"strconv"
	"strings"

	"github.com/gomlx/lazytensors/pkg/core/dtypes"
	"github.com/pkg/errors"
)

// FromString parses a textual shape description.
//
// The accepted format is a dtype name followed by an optional list of dimensions in brackets,
// separated by commas or spaces. Dtype names are resolved with dtypes.FromName, and may be
// surrounded by parenthesis, so the output of Shape.String is also accepted. Examples:
//
//	"f32[2,3]", "Float32[2 3]", "(Float32)[2 3]", "bool", "(Int64)", "u8[]"
//
// Tuples are not accepted.
func FromString(text string) (Shape, error) {
	text = strings.TrimSpace(text)
	dtypeStr, dimsStr := text, ""
	if idx := strings.IndexByte(text, '['); idx >= 0 {
		if !strings.HasSuffix(text, "]") {
			return Invalid(), errors.Errorf("shape %q: missing closing \"]\"", text)
		}
		dtypeStr, dimsStr = text[:idx], text[idx+1:len(text)-1]
	}
	dtypeStr = strings.TrimSpace(dtypeStr)
	dtypeStr = strings.TrimSuffix(strings.TrimPrefix(dtypeStr, "("), ")")
	dtype, err := dtypes.FromName(dtypeStr)
	if err != nil {
		return Invalid(), errors.WithMessagef(err, "shape %q", text)
	}

	fields := strings.FieldsFunc(dimsStr, func(r rune) bool { return r == ',' || r == ' ' })
	var dimensions []int
	for axis, field := range fields {
		dim, err := strconv.Atoi(field)
		if err != nil {
			return Invalid(), errors.Wrapf(err, "shape %q: invalid dimension for axis %d", text, axis)
		}
		if dim < 0 {
			return Invalid(), errors.Errorf("shape %q: axis %d has negative dimension %d", text, axis, dim)
		}
		dimensions = append(dimensions, dim)
	}
	shape := Shape{DType: dtype, Dimensions: dimensions}
	if err := shape.CheckSize(); err != nil {
		return Invalid(), errors.WithMessagef(err, "shape %q", text)
	}
	return shape, nil
}
