package aaigrid

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// EncodeOptions controls how grid values are written.
type EncodeOptions struct {
	// DetectType writes Int32 values when the header's no-data value is
	// integral, or, for headers without a typed no-data value, when the grid
	// itself is Int32. By default every value is written as Float32.
	DetectType bool
}

// Encode writes the header and grid to w. The grid shape must match the
// header and every value must be representable in the target type; both are
// checked before anything is written.
func Encode(w io.Writer, g *Grid, h *Header, opts EncodeOptions) error {
	typ, err := prepare(g, h, opts)
	if err != nil {
		return err
	}
	return write(w, g, h, typ)
}

// EncodeParams is like Encode but builds the header from raw params.
func EncodeParams(w io.Writer, g *Grid, p Params, opts EncodeOptions) error {
	h, err := p.Header()
	if err != nil {
		return err
	}
	return Encode(w, g, h, opts)
}

// prepare validates g against h and returns the element type values will be
// written as.
func prepare(g *Grid, h *Header, opts EncodeOptions) (ElementType, error) {
	if err := h.Validate(); err != nil {
		return Undetermined, err
	}

	rows, cols := g.Dims()
	if rows != h.Nrows || cols != h.Ncols {
		return Undetermined, &ShapeMismatchError{
			Expected: [2]int{h.Nrows, h.Ncols},
			Actual:   [2]int{rows, cols},
		}
	}

	typ := Float32
	if opts.DetectType && resolvedType(g, h) == Int32 {
		typ = Int32
	}

	if err := coerce(h.NoDataValue, typ); err != nil {
		return Undetermined, err
	}
	for _, v := range g.data {
		if err := coerce(v, typ); err != nil {
			return Undetermined, err
		}
	}

	return typ, nil
}

// resolvedType is the header's no-data type, or the grid's own type when the
// header carries no typed no-data value.
func resolvedType(g *Grid, h *Header) ElementType {
	if h.Type == Undetermined {
		return g.Type
	}
	return h.Type
}

func write(w io.Writer, g *Grid, h *Header, typ ElementType) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%-14s%d\n", "ncols", h.Ncols)
	fmt.Fprintf(bw, "%-14s%d\n", "nrows", h.Nrows)
	fmt.Fprintf(bw, "%-14s%s\n", "xllcorner", formatFloat64(h.XllCorner))
	fmt.Fprintf(bw, "%-14s%s\n", "yllcorner", formatFloat64(h.YllCorner))
	fmt.Fprintf(bw, "%-14s%s\n", "dx", formatFloat64(h.Dx))
	fmt.Fprintf(bw, "%-14s%s\n", "dy", formatFloat64(h.Dy))
	fmt.Fprintf(bw, "%-14s%s\n", "NODATA_value", formatValue(h.NoDataValue, typ))

	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			bw.WriteByte(' ')
			bw.WriteString(formatValue(g.data[r*g.cols+c], typ))
		}
		bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing grid: %w", err)
	}
	return nil
}

// coerce checks that v can be written as typ without loss.
func coerce(v float64, typ ElementType) error {
	if math.IsNaN(v) {
		return &TypeCoercionError{Value: v, Target: typ}
	}

	switch typ {
	case Int32:
		if math.IsInf(v, 0) || math.Trunc(v) != v || v < math.MinInt32 || v > math.MaxInt32 {
			return &TypeCoercionError{Value: v, Target: typ}
		}
	case Float32:
		if !math.IsInf(v, 0) && float64(float32(v)) != v {
			return &TypeCoercionError{Value: v, Target: typ}
		}
	}

	return nil
}

// formatValue writes Float32 values with a decimal point so the type
// survives a re-read.
func formatValue(v float64, typ ElementType) string {
	if typ == Int32 {
		return strconv.FormatInt(int64(v), 10)
	}

	s := strconv.FormatFloat(v, 'f', -1, 32)
	if !math.IsInf(v, 0) && !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatFloat64(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
