// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Lunaplot Authors

package plot

import (
	"github.com/samber/oops"
)

// XYer is the point-like capability: per-axis coordinate access keyed
// by axis index (0 = x, 1 = y). Points are never converted wholesale;
// call sites decompose point sequences into parallel coordinate
// sequences with SplitXY.
type XYer interface {
	Coordinate(axis int) float64
}

// Point is a plain 2-D point.
type Point struct {
	X, Y float64
}

// Coordinate implements XYer.
func (p Point) Coordinate(axis int) float64 {
	if axis == 0 {
		return p.X
	}
	return p.Y
}

// SplitXY decomposes a point sequence into parallel x and y coordinate
// sequences, preserving order.
func SplitXY[P XYer](points []P) (xs, ys []float64) {
	xs = make([]float64, len(points))
	ys = make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Coordinate(0)
		ys[i] = p.Coordinate(1)
	}
	return xs, ys
}

// Matrix adapts a rectangular [][]float64 to the image-like Grid
// capability. Ragged input is rejected at construction, so a Matrix
// that exists is always convertible.
type Matrix struct {
	rows [][]float64
	cols int
}

// NewMatrix validates that all rows have equal length and wraps them.
func NewMatrix(rows [][]float64) (Matrix, error) {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	for i, row := range rows {
		if len(row) != cols {
			return Matrix{}, oops.In("plot").
				With("row", i).
				With("want", cols).
				With("got", len(row)).
				New("ragged matrix")
		}
	}
	return Matrix{rows: rows, cols: cols}, nil
}

// Dims returns (rows, cols).
func (m Matrix) Dims() (int, int) {
	return len(m.rows), m.cols
}

// At returns the value at (row, col), row-major.
func (m Matrix) At(row, col int) any {
	return m.rows[row][col]
}
