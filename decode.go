package aaigrid

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
)

const (
	keyNcols     = "ncols"
	keyNrows     = "nrows"
	keyXllCorner = "xllcorner"
	keyYllCorner = "yllcorner"
	keyCellSize  = "cellsize"
	keyDx        = "dx"
	keyDy        = "dy"
	keyNoData    = "nodata_value"
)

// inspectLimit is the number of leading body values looked at when the
// element type has to be inferred.
const inspectLimit = 100

// ErrHeaderNotDecoded is returned by Decoder.DecodeGrid when the header has
// not been consumed yet.
var ErrHeaderNotDecoded = errors.New("aaigrid: header has not been decoded")

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger receiving parse diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(d *Decoder) {
		if l != nil {
			d.log = l
		}
	}
}

// A Decoder reads an AAIGrid raster from an input stream.
type Decoder struct {
	r   *bufio.Reader
	log *slog.Logger

	header *Header

	// pending is the first body line, read while looking for the end of
	// the header.
	pending string
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	d := &Decoder{
		r:   bufio.NewReader(r),
		log: newNopLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DecodeHeader reads the header lines. It stops at the first line whose first
// field is a number; that line is kept for DecodeGrid.
func (d *Decoder) DecodeHeader() (*Header, error) {
	if d.header != nil {
		return d.header, nil
	}

	var raw rawHeader
	lines := 0

	for {
		line, err := d.r.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("reading header: %w", err)
		}
		if line == "" && err == io.EOF {
			break
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			lines++
		} else if isNumber(fields[0]) {
			// first data line
			d.pending = line
			break
		} else {
			lines++

			key := strings.ToLower(fields[0])
			if len(fields) != 2 {
				return nil, &MalformedValueError{Field: key, Raw: strings.Join(fields[1:], " ")}
			}

			if slot := raw.slot(key); slot != nil {
				*slot = rawField{value: fields[1], ok: true}
			} else {
				d.log.Debug("Ignoring unknown header field", "field", fields[0], "line", lines)
			}
		}

		if err == io.EOF {
			break
		}
	}

	h, err := raw.resolve()
	if err != nil {
		return nil, err
	}
	h.Lines = lines

	for _, w := range h.Warnings {
		d.log.Warn("Header field ignored", "err", w)
	}

	d.header = h
	return h, nil
}

// DecodeGrid reads the grid body described by h. DecodeHeader must have been
// called first.
func (d *Decoder) DecodeGrid(h *Header) (*Grid, error) {
	if d.header == nil {
		return nil, ErrHeaderNotDecoded
	}

	var r io.Reader = d.r
	if d.pending != "" {
		r = io.MultiReader(strings.NewReader(d.pending), d.r)
		d.pending = ""
	}

	g, err := decodeBody(r, h)
	if err != nil {
		return nil, err
	}

	d.log.Debug("Decoded grid", "rows", h.Nrows, "cols", h.Ncols, "type", g.Type)
	return g, nil
}

// DecodeHeader reads only the header from r.
func DecodeHeader(r io.Reader, opts ...Option) (*Header, error) {
	return NewDecoder(r, opts...).DecodeHeader()
}

// DecodeGrid reads the grid body described by h from r. r must be positioned
// at the start of the raster text; the h.Lines header lines are skipped
// without being parsed again.
func DecodeGrid(r io.Reader, h *Header) (*Grid, error) {
	br := bufio.NewReader(r)
	if err := skipLines(br, h.Lines); err != nil {
		return nil, err
	}
	return decodeBody(br, h)
}

// Decode reads a whole raster. If lazy is set only the header is read and the
// returned grid is nil.
func Decode(r io.Reader, lazy bool, opts ...Option) (*Grid, *Header, error) {
	d := NewDecoder(r, opts...)

	h, err := d.DecodeHeader()
	if err != nil {
		return nil, nil, err
	}

	if lazy {
		return nil, h, nil
	}

	g, err := d.DecodeGrid(h)
	if err != nil {
		return nil, nil, err
	}

	return g, h, nil
}

func decodeBody(r io.Reader, h *Header) (*Grid, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}

	n := h.Nrows * h.Ncols

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	typ := h.Type
	var inspected []string
	if typ == Undetermined {
		limit := min(n, inspectLimit)
		inspected = make([]string, 0, limit)
		for len(inspected) < limit && scanner.Scan() {
			inspected = append(inspected, scanner.Text())
		}
		typ = inferType(inspected)
	}

	g := newDecodedGrid(h.Nrows, h.Ncols, typ)

	for _, tok := range inspected {
		if err := g.parseNext(tok); err != nil {
			return nil, err
		}
	}
	for len(g.data) < n && scanner.Scan() {
		if err := g.parseNext(scanner.Text()); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading grid data: %w", err)
	}
	if len(g.data) < n {
		return nil, &TruncatedDataError{Expected: n, Got: len(g.data)}
	}

	return g, nil
}

// inferType returns Float32 if any of the tokens has a decimal point.
func inferType(tokens []string) ElementType {
	for _, tok := range tokens {
		if strings.Contains(tok, ".") {
			return Float32
		}
	}
	return Int32
}

func parseValue(tok string, typ ElementType) (float64, error) {
	if typ == Int32 {
		i, err := strconv.ParseInt(tok, 10, 32)
		return float64(i), err
	}
	return strconv.ParseFloat(tok, 32)
}

func isNumber(tok string) bool {
	_, err := strconv.ParseFloat(tok, 64)
	return err == nil
}

func skipLines(br *bufio.Reader, n int) error {
	for i := 0; i < n; i++ {
		for {
			_, err := br.ReadSlice('\n')
			if err == nil {
				break
			}
			if err == bufio.ErrBufferFull {
				continue
			}
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("skipping header: %w", err)
		}
	}
	return nil
}

type rawField struct {
	value string
	ok    bool
}

// rawHeader holds the unparsed values of the known header keys.
type rawHeader struct {
	ncols, nrows         rawField
	xllcorner, yllcorner rawField
	cellsize, dx, dy     rawField
	nodata               rawField
}

func (rh *rawHeader) slot(key string) *rawField {
	switch key {
	case keyNcols:
		return &rh.ncols
	case keyNrows:
		return &rh.nrows
	case keyXllCorner:
		return &rh.xllcorner
	case keyYllCorner:
		return &rh.yllcorner
	case keyCellSize:
		return &rh.cellsize
	case keyDx:
		return &rh.dx
	case keyDy:
		return &rh.dy
	case keyNoData:
		return &rh.nodata
	}
	return nil
}

func (rh *rawHeader) resolve() (*Header, error) {
	// mandatory fields, in this order
	mandatory := []struct {
		name  string
		field rawField
	}{
		{keyNcols, rh.ncols},
		{keyNrows, rh.nrows},
		{keyXllCorner, rh.xllcorner},
		{keyYllCorner, rh.yllcorner},
	}
	for _, m := range mandatory {
		if !m.field.ok {
			return nil, &MissingFieldError{Field: m.name}
		}
	}

	h := &Header{}
	var err error

	if h.Ncols, err = parseDim(keyNcols, rh.ncols.value); err != nil {
		return nil, err
	}
	if h.Nrows, err = parseDim(keyNrows, rh.nrows.value); err != nil {
		return nil, err
	}
	if h.XllCorner, err = parseFloat(keyXllCorner, rh.xllcorner.value); err != nil {
		return nil, err
	}
	if h.YllCorner, err = parseFloat(keyYllCorner, rh.yllcorner.value); err != nil {
		return nil, err
	}

	if rh.cellsize.ok {
		if h.Dx, err = parseCellSize(keyCellSize, rh.cellsize.value); err != nil {
			return nil, err
		}
		h.Dy = h.Dx

		if rh.dx.ok {
			h.Warnings = append(h.Warnings, &ConflictingFieldError{Field: keyDx, Ignored: rh.dx.value, Precedes: keyCellSize})
		}
		if rh.dy.ok {
			h.Warnings = append(h.Warnings, &ConflictingFieldError{Field: keyDy, Ignored: rh.dy.value, Precedes: keyCellSize})
		}
	} else {
		if !rh.dx.ok {
			return nil, &MissingFieldError{Field: keyDx}
		}
		if !rh.dy.ok {
			return nil, &MissingFieldError{Field: keyDy}
		}
		if h.Dx, err = parseCellSize(keyDx, rh.dx.value); err != nil {
			return nil, err
		}
		if h.Dy, err = parseCellSize(keyDy, rh.dy.value); err != nil {
			return nil, err
		}
	}

	if rh.nodata.ok {
		if h.NoDataValue, h.Type, err = ParseNoDataValue(rh.nodata.value); err != nil {
			return nil, err
		}
	} else {
		h.NoDataValue, h.Type = DefaultNoDataValue, Undetermined
	}

	return h, nil
}

func parseDim(field, raw string) (int, error) {
	i, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, &MalformedValueError{Field: field, Raw: raw, Err: err}
	}
	if i <= 0 {
		return 0, &MalformedValueError{Field: field, Raw: raw, Err: errors.New("must be greater than 0")}
	}
	return int(i), nil
}

func parseFloat(field, raw string) (float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &MalformedValueError{Field: field, Raw: raw, Err: err}
	}
	return f, nil
}

func parseCellSize(field, raw string) (float64, error) {
	f, err := parseFloat(field, raw)
	if err != nil {
		return 0, err
	}
	if !(f > 0) {
		return 0, &MalformedValueError{Field: field, Raw: raw, Err: errors.New("must be greater than 0")}
	}
	return f, nil
}
