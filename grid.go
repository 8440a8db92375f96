package aaigrid

import (
	"github.com/bits-and-blooms/bitset"
)

// Number is the set of element types a Grid can be built from.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Grid is a two-dimensional raster stored in row-major order. Int32 and
// float32 values are held exactly in the float64 storage.
type Grid struct {
	// Type is Int32 or Float32 for decoded grids and Undetermined for grids
	// built from int, int64 or float64 values.
	Type ElementType

	rows, cols int
	data       []float64
}

func newGrid(rows, cols int, typ ElementType) *Grid {
	return &Grid{
		Type: typ,
		rows: rows,
		cols: cols,
		data: make([]float64, rows*cols),
	}
}

// growCap bounds the storage reserved up front for a decoded grid. The rest
// grows with the tokens actually read.
const growCap = 1 << 20

// newDecodedGrid returns an empty grid that parseNext fills in row-major order.
func newDecodedGrid(rows, cols int, typ ElementType) *Grid {
	return &Grid{
		Type: typ,
		rows: rows,
		cols: cols,
		data: make([]float64, 0, min(rows*cols, growCap)),
	}
}

// NewGrid copies rows into a new grid. All rows must have the same length.
func NewGrid[T Number](rows [][]T) (*Grid, error) {
	var typ ElementType
	switch any(*new(T)).(type) {
	case int32:
		typ = Int32
	case float32:
		typ = Float32
	}

	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}

	g := newGrid(len(rows), cols, typ)
	for r, row := range rows {
		if len(row) != cols {
			return nil, &ShapeMismatchError{Expected: [2]int{len(rows), cols}, Actual: [2]int{len(rows), len(row)}}
		}
		for c, v := range row {
			g.data[r*cols+c] = float64(v)
		}
	}

	return g, nil
}

// Dims returns the number of rows and columns.
func (g *Grid) Dims() (rows, cols int) {
	return g.rows, g.cols
}

// At returns the value at row r, column c.
// It will panic if r or c are out of bounds.
func (g *Grid) At(r, c int) float64 {
	return g.data[g.index(r, c)]
}

// Set sets the value at row r, column c.
func (g *Grid) Set(r, c int, v float64) {
	g.data[g.index(r, c)] = v
}

// Int32At returns the value at (r, c) converted to int32.
func (g *Grid) Int32At(r, c int) int32 {
	return int32(g.At(r, c))
}

// Float32At returns the value at (r, c) converted to float32.
func (g *Grid) Float32At(r, c int) float32 {
	return float32(g.At(r, c))
}

// Row returns a copy of row r.
func (g *Grid) Row(r int) []float64 {
	row := make([]float64, g.cols)
	if g.cols == 0 {
		return row
	}
	copy(row, g.data[g.index(r, 0):])
	return row
}

// Equal reports whether both grids have the same shape and values.
func (g *Grid) Equal(o *Grid) bool {
	if g.rows != o.rows || g.cols != o.cols {
		return false
	}
	for i, v := range g.data {
		if o.data[i] != v {
			return false
		}
	}
	return true
}

// NoDataMask returns a bitset with bit r*cols+c set for every cell holding
// the nodata sentinel.
func (g *Grid) NoDataMask(nodata float64) *bitset.BitSet {
	mask := bitset.New(uint(len(g.data)))
	for i, v := range g.data {
		if v == nodata {
			mask.Set(uint(i))
		}
	}
	return mask
}

// ValidCount returns the number of cells not holding the nodata sentinel.
func (g *Grid) ValidCount(nodata float64) int {
	return len(g.data) - int(g.NoDataMask(nodata).Count())
}

func (g *Grid) index(r, c int) int {
	if r < 0 || r >= g.rows || c < 0 || c >= g.cols {
		panic("aaigrid: index out of range")
	}
	return r*g.cols + c
}

// parseNext appends tok as the next cell of a decoded grid.
func (g *Grid) parseNext(tok string) error {
	v, err := parseValue(tok, g.Type)
	if err != nil {
		i := len(g.data)
		return &MalformedDataError{Row: i / g.cols, Col: i % g.cols, Raw: tok, Type: g.Type}
	}
	g.data = append(g.data, v)
	return nil
}
