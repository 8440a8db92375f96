package aaigrid

import (
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// DefaultNoDataValue is used when the header has no NODATA_value line.
const DefaultNoDataValue = -9999.0

// ElementType is the numeric type of the grid values.
type ElementType int

const (
	// Undetermined means the type has to be inferred from the grid body.
	Undetermined ElementType = iota
	Int32
	Float32
)

func (t ElementType) String() string {
	switch t {
	case Int32:
		return "int32"
	case Float32:
		return "float32"
	default:
		return "undetermined"
	}
}

// Header holds the parsed geometry of an AAIGrid raster
type Header struct {
	Ncols, Nrows         int
	XllCorner, YllCorner float64
	Dx, Dy               float64
	NoDataValue          float64

	// Type is derived from the textual no-data value. It stays Undetermined
	// when the header has none; the type inferred from the body is then
	// reported by Grid.Type, and Encode falls back to it.
	Type ElementType

	// Lines is the number of lines the header occupies in the source text.
	Lines int

	// Warnings collects non-fatal diagnostics found while parsing.
	Warnings []error
}

// Dims returns the dimensions of the grid.
func (h *Header) Dims() (cols, rows int) {
	return h.Ncols, h.Nrows
}

// X returns the x coordinate of the centre of column c.
func (h *Header) X(c int) float64 {
	return h.XllCorner + (float64(c)+0.5)*h.Dx
}

// Y returns the y coordinate of the centre of row r. Row 0 is the top row.
func (h *Header) Y(r int) float64 {
	return h.YllCorner + (float64(h.Nrows-r)-0.5)*h.Dy
}

// Bound returns the area covered by the grid.
func (h *Header) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{h.XllCorner, h.YllCorner},
		Max: orb.Point{h.XllCorner + float64(h.Ncols)*h.Dx, h.YllCorner + float64(h.Nrows)*h.Dy},
	}
}

// Validate checks that dimensions and cell sizes are positive.
func (h *Header) Validate() error {
	if h.Ncols <= 0 {
		return &MalformedValueError{Field: keyNcols, Raw: strconv.Itoa(h.Ncols)}
	}
	if h.Nrows <= 0 {
		return &MalformedValueError{Field: keyNrows, Raw: strconv.Itoa(h.Nrows)}
	}
	if !(h.Dx > 0) || math.IsInf(h.Dx, 0) {
		return &MalformedValueError{Field: keyDx, Raw: formatFloat64(h.Dx)}
	}
	if !(h.Dy > 0) || math.IsInf(h.Dy, 0) {
		return &MalformedValueError{Field: keyDy, Raw: formatFloat64(h.Dy)}
	}
	return nil
}

// Params is the raw keyword form of a header, used when encoding a grid
// without a previously decoded header.
type Params struct {
	Ncols, Nrows         int
	XllCorner, YllCorner float64

	// CellSize applies to both axes and takes precedence over Dx and Dy.
	CellSize float64
	Dx, Dy   float64

	// NoDataValue is the textual sentinel. A decimal point makes the grid
	// Float32, none makes it Int32, empty means DefaultNoDataValue.
	NoDataValue string
}

// Header builds a validated header from the params.
func (p Params) Header() (*Header, error) {
	h := &Header{
		Ncols:     p.Ncols,
		Nrows:     p.Nrows,
		XllCorner: p.XllCorner,
		YllCorner: p.YllCorner,
	}

	if p.CellSize != 0 {
		h.Dx, h.Dy = p.CellSize, p.CellSize
		if p.Dx != 0 {
			h.Warnings = append(h.Warnings, &ConflictingFieldError{Field: keyDx, Ignored: formatFloat64(p.Dx), Precedes: keyCellSize})
		}
		if p.Dy != 0 {
			h.Warnings = append(h.Warnings, &ConflictingFieldError{Field: keyDy, Ignored: formatFloat64(p.Dy), Precedes: keyCellSize})
		}
	} else {
		if p.Dx == 0 {
			return nil, &MissingFieldError{Field: keyDx}
		}
		if p.Dy == 0 {
			return nil, &MissingFieldError{Field: keyDy}
		}
		h.Dx, h.Dy = p.Dx, p.Dy
	}

	if p.NoDataValue == "" {
		h.NoDataValue, h.Type = DefaultNoDataValue, Undetermined
	} else {
		v, t, err := ParseNoDataValue(p.NoDataValue)
		if err != nil {
			return nil, err
		}
		h.NoDataValue, h.Type = v, t
	}

	if err := h.Validate(); err != nil {
		return nil, err
	}

	return h, nil
}

// ParseNoDataValue parses a textual no-data sentinel and infers the grid type
// from it: Int32 without a decimal point, Float32 with one.
func ParseNoDataValue(raw string) (float64, ElementType, error) {
	if strings.Contains(raw, ".") {
		f, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return 0, Undetermined, &MalformedValueError{Field: keyNoData, Raw: raw, Err: err}
		}
		return f, Float32, nil
	}

	i, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, Undetermined, &MalformedValueError{Field: keyNoData, Raw: raw, Err: err}
	}
	return float64(i), Int32, nil
}
