package aaigrid_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/gruppe-adler/aaigrid"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fourByFour = `ncols 4
nrows 4
xllcorner 15
yllcorner 12
dx 1
dy 1
NODATA_value 1
 1 1 1 1
 2 2 2 2
 3 3 3 3
 4 4 4 4
`

func TestDecode(t *testing.T) {
	t.Parallel()

	g, h, err := aaigrid.Decode(strings.NewReader(fourByFour), false)
	require.NoError(t, err)

	assert.Equal(t, 4, h.Ncols)
	assert.Equal(t, 4, h.Nrows)
	assert.Equal(t, 15.0, h.XllCorner)
	assert.Equal(t, 12.0, h.YllCorner)
	assert.Equal(t, 1.0, h.Dx)
	assert.Equal(t, 1.0, h.Dy)
	assert.Equal(t, 1.0, h.NoDataValue)
	assert.Equal(t, aaigrid.Int32, h.Type)
	assert.Equal(t, 7, h.Lines)
	assert.Empty(t, h.Warnings)

	assert.Equal(t, aaigrid.Int32, g.Type)
	rows, cols := g.Dims()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 4, cols)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			assert.Equal(t, int32(r+1), g.Int32At(r, c))
		}
	}
	assert.Equal(t, int32(3), g.Int32At(2, 3))
}

func TestDecode_lazy(t *testing.T) {
	t.Parallel()

	g, h, err := aaigrid.Decode(strings.NewReader(fourByFour), true)
	require.NoError(t, err)
	assert.Nil(t, g)
	assert.Equal(t, 4, h.Nrows)
}

func TestDecodeHeader_caseAndWhitespace(t *testing.T) {
	t.Parallel()

	text := "  NCOLS\t  3  \r\nNRows 2\r\nXLLCORNER -1.5\r\nyllCorner 2e3\r\nCELLSIZE 0.25\r\n 1 2 3\r\n 4 5 6\r\n"

	h, err := aaigrid.DecodeHeader(strings.NewReader(text))
	require.NoError(t, err)

	assert.Equal(t, 3, h.Ncols)
	assert.Equal(t, 2, h.Nrows)
	assert.Equal(t, -1.5, h.XllCorner)
	assert.Equal(t, 2000.0, h.YllCorner)
	assert.Equal(t, 0.25, h.Dx)
	assert.Equal(t, 0.25, h.Dy)
	assert.Equal(t, 5, h.Lines)
}

func TestDecodeHeader_missingField(t *testing.T) {
	t.Parallel()

	lines := map[string]string{
		"ncols":     "ncols 2",
		"nrows":     "nrows 2",
		"xllcorner": "xllcorner 0",
		"yllcorner": "yllcorner 0",
		"cellsize":  "cellsize 1",
	}

	build := func(omit ...string) string {
		var b strings.Builder
		for _, key := range []string{"ncols", "nrows", "xllcorner", "yllcorner", "cellsize"} {
			skip := false
			for _, o := range omit {
				skip = skip || o == key
			}
			if !skip {
				b.WriteString(lines[key] + "\n")
			}
		}
		b.WriteString(" 1 2\n 3 4\n")
		return b.String()
	}

	tests := []struct {
		name  string
		omit  []string
		field string
	}{
		{name: "ncols", omit: []string{"ncols"}, field: "ncols"},
		{name: "nrows", omit: []string{"nrows"}, field: "nrows"},
		{name: "xllcorner", omit: []string{"xllcorner"}, field: "xllcorner"},
		{name: "yllcorner", omit: []string{"yllcorner"}, field: "yllcorner"},
		{name: "first in order wins", omit: []string{"yllcorner", "xllcorner", "nrows"}, field: "nrows"},
		{name: "mandatory before cell size", omit: []string{"cellsize", "yllcorner"}, field: "yllcorner"},
		{name: "dx without cellsize", omit: []string{"cellsize"}, field: "dx"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := aaigrid.DecodeHeader(strings.NewReader(build(tt.omit...)))
			require.ErrorIs(t, err, aaigrid.ErrMissingField)

			var missing *aaigrid.MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.field, missing.Field)
		})
	}
}

func TestDecodeHeader_missingDy(t *testing.T) {
	t.Parallel()

	text := "ncols 1\nnrows 1\nxllcorner 0\nyllcorner 0\ndx 1\n 5\n"

	_, err := aaigrid.DecodeHeader(strings.NewReader(text))

	var missing *aaigrid.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "dy", missing.Field)
}

func TestDecodeHeader_cellSizeConflict(t *testing.T) {
	t.Parallel()

	text := "ncols 1\nnrows 1\nxllcorner 0\nyllcorner 0\ndx 3\ncellsize 2\ndy 4\n 5\n"

	d := aaigrid.NewDecoder(strings.NewReader(text), aaigrid.WithLogger(slogt.New(t)))
	h, err := d.DecodeHeader()
	require.NoError(t, err)

	assert.Equal(t, 2.0, h.Dx)
	assert.Equal(t, 2.0, h.Dy)
	require.Len(t, h.Warnings, 2)

	var conflict *aaigrid.ConflictingFieldError
	require.ErrorAs(t, h.Warnings[0], &conflict)
	assert.Equal(t, "dx", conflict.Field)
	assert.Equal(t, "3", conflict.Ignored)
	assert.ErrorIs(t, h.Warnings[1], aaigrid.ErrConflictingField)

	g, err := d.DecodeGrid(h)
	require.NoError(t, err)
	assert.Equal(t, 5.0, g.At(0, 0))
}

func TestDecodeHeader_noData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		line    string
		value   float64
		typ     aaigrid.ElementType
		wantErr bool
	}{
		{name: "integer", line: "NODATA_value 1\n", value: 1, typ: aaigrid.Int32},
		{name: "negative integer", line: "nodata_value -9999\n", value: -9999, typ: aaigrid.Int32},
		{name: "float", line: "NODATA_value 1.0\n", value: 1, typ: aaigrid.Float32},
		{name: "fraction", line: "NODATA_Value -0.5\n", value: -0.5, typ: aaigrid.Float32},
		{name: "absent", line: "", value: aaigrid.DefaultNoDataValue, typ: aaigrid.Undetermined},
		{name: "exponent without point", line: "NODATA_value 1e3\n", wantErr: true},
		{name: "garbage", line: "NODATA_value none\n", wantErr: true},
		{name: "integer out of range", line: "NODATA_value 3000000000\n", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			text := "ncols 1\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\n" + tt.line + " 7\n"

			h, err := aaigrid.DecodeHeader(strings.NewReader(text))
			if tt.wantErr {
				require.ErrorIs(t, err, aaigrid.ErrMalformedValue)

				var malformed *aaigrid.MalformedValueError
				require.ErrorAs(t, err, &malformed)
				assert.Equal(t, "nodata_value", malformed.Field)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.value, h.NoDataValue)
			assert.Equal(t, tt.typ, h.Type)
		})
	}
}

func TestDecodeHeader_malformedValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		field string
	}{
		{name: "ncols not a number", text: "ncols four\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\n 1\n", field: "ncols"},
		{name: "ncols zero", text: "ncols 0\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\n 1\n", field: "ncols"},
		{name: "nrows fractional", text: "ncols 1\nnrows 1.5\nxllcorner 0\nyllcorner 0\ncellsize 1\n 1\n", field: "nrows"},
		{name: "xllcorner", text: "ncols 1\nnrows 1\nxllcorner west\nyllcorner 0\ncellsize 1\n 1\n", field: "xllcorner"},
		{name: "negative cellsize", text: "ncols 1\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize -1\n 1\n", field: "cellsize"},
		{name: "zero dy", text: "ncols 1\nnrows 1\nxllcorner 0\nyllcorner 0\ndx 1\ndy 0\n 1\n", field: "dy"},
		{name: "too many fields", text: "ncols 1 2\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\n 1\n", field: "ncols"},
		{name: "no value", text: "ncols 1\nnrows\nxllcorner 0\nyllcorner 0\ncellsize 1\n 1\n", field: "nrows"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := aaigrid.DecodeHeader(strings.NewReader(tt.text))

			var malformed *aaigrid.MalformedValueError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.field, malformed.Field)
		})
	}
}

func TestDecodeHeader_unknownAndBlankLines(t *testing.T) {
	t.Parallel()

	text := "ncols 2\n\nnrows 1\nbyteorder LSBFIRST\nxllcorner 0\nyllcorner 0\ncellsize 1\n\n 8 9\n"

	h, err := aaigrid.DecodeHeader(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, 8, h.Lines)

	g, err := aaigrid.DecodeGrid(strings.NewReader(text), h)
	require.NoError(t, err)
	assert.Equal(t, []float64{8, 9}, g.Row(0))
}

func TestDecodeGrid_skipsHeaderLines(t *testing.T) {
	t.Parallel()

	h, err := aaigrid.DecodeHeader(strings.NewReader(fourByFour))
	require.NoError(t, err)

	g, err := aaigrid.DecodeGrid(strings.NewReader(fourByFour), h)
	require.NoError(t, err)

	want, err := aaigrid.NewGrid([][]int32{
		{1, 1, 1, 1},
		{2, 2, 2, 2},
		{3, 3, 3, 3},
		{4, 4, 4, 4},
	})
	require.NoError(t, err)
	assert.True(t, want.Equal(g))
}

func TestDecoder_gridBeforeHeader(t *testing.T) {
	t.Parallel()

	d := aaigrid.NewDecoder(strings.NewReader(fourByFour))
	_, err := d.DecodeGrid(&aaigrid.Header{Ncols: 4, Nrows: 4, Dx: 1, Dy: 1})
	require.ErrorIs(t, err, aaigrid.ErrHeaderNotDecoded)
}

func TestDecode_inferType(t *testing.T) {
	t.Parallel()

	const header = "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\n"

	tests := []struct {
		name string
		body string
		typ  aaigrid.ElementType
	}{
		{name: "integers", body: " 1 2\n 3 4\n", typ: aaigrid.Int32},
		{name: "one float", body: " 1 2\n 3 4.5\n", typ: aaigrid.Float32},
		{name: "tokens spanning lines", body: " 1.0\n 2 3\n 4\n", typ: aaigrid.Float32},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g, h, err := aaigrid.Decode(strings.NewReader(header+tt.body), false)
			require.NoError(t, err)
			assert.Equal(t, aaigrid.Undetermined, h.Type)
			assert.Equal(t, tt.typ, g.Type)
		})
	}
}

func TestDecode_inferTypeInspectsFirstHundredValues(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("ncols 10\nnrows 11\nxllcorner 0\nyllcorner 0\ncellsize 1\n")
	for r := 0; r < 11; r++ {
		for c := 0; c < 10; c++ {
			if r == 10 && c == 5 {
				b.WriteString(" 1.5")
			} else {
				b.WriteString(" 1")
			}
		}
		b.WriteString("\n")
	}

	_, _, err := aaigrid.Decode(strings.NewReader(b.String()), false)

	var malformed *aaigrid.MalformedDataError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 10, malformed.Row)
	assert.Equal(t, 5, malformed.Col)
	assert.Equal(t, "1.5", malformed.Raw)
	assert.Equal(t, aaigrid.Int32, malformed.Type)
}

func TestDecode_malformedData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		nodata   string
		body     string
		row, col int
		raw      string
	}{
		{name: "float in integer grid", nodata: "1", body: " 1 2\n 3.5 4\n", row: 1, col: 0, raw: "3.5"},
		{name: "word in integer grid", nodata: "-9999", body: " 1 x\n 3 4\n", row: 0, col: 1, raw: "x"},
		{name: "word in float grid", nodata: "-9999.0", body: " 1 2\n 3 four\n", row: 1, col: 1, raw: "four"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			text := "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\nNODATA_value " + tt.nodata + "\n" + tt.body

			g, h, err := aaigrid.Decode(strings.NewReader(text), false)
			require.ErrorIs(t, err, aaigrid.ErrMalformedData)
			assert.Nil(t, g)
			assert.Nil(t, h)

			var malformed *aaigrid.MalformedDataError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.row, malformed.Row)
			assert.Equal(t, tt.col, malformed.Col)
			assert.Equal(t, tt.raw, malformed.Raw)
		})
	}
}

func TestDecode_truncated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		got  int
	}{
		{name: "missing value", body: " 1 2\n 3\n", got: 3},
		{name: "no body", body: "", got: 0},
		{name: "undetermined with short body", body: " 1\n", got: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			text := "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\n" + tt.body

			_, _, err := aaigrid.Decode(strings.NewReader(text), false)

			var truncated *aaigrid.TruncatedDataError
			require.ErrorAs(t, err, &truncated)
			assert.Equal(t, 4, truncated.Expected)
			assert.Equal(t, tt.got, truncated.Got)
			assert.True(t, errors.Is(err, aaigrid.ErrTruncatedData))
		})
	}
}

func TestDecode_hugeDimensionsShortBody(t *testing.T) {
	t.Parallel()

	text := "ncols 2000000000\nnrows 2000000000\nxllcorner 0\nyllcorner 0\ncellsize 1\nNODATA_value 1\n 1 2 3\n"

	var g *aaigrid.Grid
	var err error
	require.NotPanics(t, func() {
		g, _, err = aaigrid.Decode(strings.NewReader(text), false)
	})
	assert.Nil(t, g)

	var truncated *aaigrid.TruncatedDataError
	require.ErrorAs(t, err, &truncated)
	assert.Equal(t, 2000000000*2000000000, truncated.Expected)
	assert.Equal(t, 3, truncated.Got)
}

func TestDecode_ignoresTrailingValues(t *testing.T) {
	t.Parallel()

	text := "ncols 1\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\nNODATA_value -1\n 1\n 2\n 3\n"

	g, _, err := aaigrid.Decode(strings.NewReader(text), false)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, g.Row(0))
	assert.Equal(t, []float64{2}, g.Row(1))
}
