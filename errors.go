package aaigrid

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrMissingField     = errors.New("missing header field")
	ErrMalformedValue   = errors.New("malformed header value")
	ErrConflictingField = errors.New("conflicting header field")
	ErrShapeMismatch    = errors.New("grid shape mismatch")
	ErrTruncatedData    = errors.New("truncated grid data")
	ErrMalformedData    = errors.New("malformed grid data")
	ErrTypeCoercion     = errors.New("type coercion failed")
)

// MissingFieldError is returned when a mandatory header key is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("header is missing mandatory field %q", e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// MalformedValueError is returned when a header value can't be parsed as its
// expected type or violates the header invariants.
type MalformedValueError struct {
	Field string
	Raw   string
	Err   error
}

func (e *MalformedValueError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("header field %q has malformed value %q: %v", e.Field, e.Raw, e.Err)
	}
	return fmt.Sprintf("header field %q has malformed value %q", e.Field, e.Raw)
}

func (e *MalformedValueError) Is(target error) bool { return target == ErrMalformedValue }

func (e *MalformedValueError) Unwrap() error { return e.Err }

// ConflictingFieldError reports a field that was ignored because a mutually
// exclusive field took precedence. It is a warning, never returned as a
// failure.
type ConflictingFieldError struct {
	Field    string
	Ignored  string
	Precedes string
}

func (e *ConflictingFieldError) Error() string {
	return fmt.Sprintf("header field %q (%s) is ignored because %q is present", e.Field, e.Ignored, e.Precedes)
}

func (e *ConflictingFieldError) Is(target error) bool { return target == ErrConflictingField }

// ShapeMismatchError is returned when grid dimensions disagree with the
// header. Shapes are (rows, cols).
type ShapeMismatchError struct {
	Expected [2]int
	Actual   [2]int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("grid shape %dx%d does not match expected %dx%d",
		e.Actual[0], e.Actual[1], e.Expected[0], e.Expected[1])
}

func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }

// TruncatedDataError is returned when the body ends before nrows*ncols tokens
// were read.
type TruncatedDataError struct {
	Expected int
	Got      int
}

func (e *TruncatedDataError) Error() string {
	return fmt.Sprintf("grid data is truncated: expected %d values, got %d", e.Expected, e.Got)
}

func (e *TruncatedDataError) Is(target error) bool { return target == ErrTruncatedData }

// MalformedDataError is returned when a body token fails to parse under the
// resolved element type. Row and Col are zero based.
type MalformedDataError struct {
	Row, Col int
	Raw      string
	Type     ElementType
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("grid value %q at row %d, col %d is not a valid %s", e.Raw, e.Row, e.Col, e.Type)
}

func (e *MalformedDataError) Is(target error) bool { return target == ErrMalformedData }

// TypeCoercionError is returned by the encoder when a value can't be
// represented exactly in the target element type.
type TypeCoercionError struct {
	Value  float64
	Target ElementType
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("value %v can not be represented as %s", e.Value, e.Target)
}

func (e *TypeCoercionError) Is(target error) bool { return target == ErrTypeCoercion }
