package models

import "github.com/rotisserie/eris"

// Error taxonomy shared by the parsers and converters. Match with errors.Is.
var (
	// ErrMalformedInput means the text does not match the grammar it was
	// handed to.
	ErrMalformedInput = eris.New("malformed input")
	// ErrOutOfRange means a numeric value is outside the geographic or UTM
	// domain.
	ErrOutOfRange = eris.New("value out of range")
	// ErrInvalidZoneFormat means a zone/band token could not be decomposed.
	ErrInvalidZoneFormat = eris.New("invalid zone format")
)

// MalformedInputf wraps ErrMalformedInput with context.
func MalformedInputf(format string, args ...any) error {
	return eris.Wrapf(ErrMalformedInput, format, args...)
}

// OutOfRangef wraps ErrOutOfRange with context.
func OutOfRangef(format string, args ...any) error {
	return eris.Wrapf(ErrOutOfRange, format, args...)
}

// InvalidZoneFormatf wraps ErrInvalidZoneFormat with context.
func InvalidZoneFormatf(format string, args ...any) error {
	return eris.Wrapf(ErrInvalidZoneFormat, format, args...)
}
