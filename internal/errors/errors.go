// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package errors

import (
	"fmt"
	"strings"
)

type xerror string

func (e xerror) Error() string {
	return string(e)
}

const (
	// The parameter list (or a parameter within it) is malformed or carries
	// a semantically invalid value. Every more specific decode failure below
	// also matches this error.
	ErrInvalid = xerror("ddsi: Invalid parameter list")

	// A parameter flagged as "must understand" was not recognised
	//
	// This is kept apart from ErrInvalid so that a caller can distinguish a
	// peer using a newer, incompatible protocol extension from a peer sending
	// garbage.
	ErrIncompatible = xerror("ddsi: Incompatible parameter list")
)

// reason is a specific cause of an invalid parameter list.
type reason string

func (r reason) Error() string {
	return string(r)
}

func (r reason) Is(target error) bool {
	return target == ErrInvalid
}

const (
	// Buffer shorter than the minimum size of the field being read
	ErrShortBuffer = reason("ddsi: Buffer too small")

	// Parameter length not a multiple of 4
	ErrUnaligned = reason("ddsi: Parameter length not a multiple of 4")

	// End of buffer reached before the sentinel
	ErrMissingSentinel = reason("ddsi: Sentinel missing")

	// String not terminated by a NUL byte, or of length 0
	ErrMissingTerminator = reason("ddsi: String not terminated")

	// Encoding is neither PL_CDR_BE nor PL_CDR_LE
	ErrUnsupportedEncoding = reason("ddsi: Unsupported encoding")

	// Unrecognised parameter rejected under strict decoding
	ErrUnknownParameter = reason("ddsi: Unknown parameter")

	// Value out of range for its type
	ErrInvalidValue = reason("ddsi: Invalid value")

	// Combination of policies is inconsistent
	ErrInconsistent = reason("ddsi: Inconsistent policies")
)

// LengthError reports a length prefix (or parameter length) which exceeds
// the number of bytes remaining.
type LengthError struct {
	Actual, Max uint64
}

func (err LengthError) Is(target error) bool {
	return target == ErrInvalid
}

func (err LengthError) Error() string {
	return fmt.Sprintf("ddsi: Length exceeds buffer (%d > %d)", err.Actual, err.Max)
}

type FieldError struct {
	Underlying error
	Path       string
}

func (err FieldError) Unwrap() error {
	return err.Underlying
}

func (err FieldError) Error() string {
	uerr := strings.TrimPrefix(err.Underlying.Error(), "ddsi: ")
	return fmt.Sprintf("ddsi: %s (at %s)", uerr, err.Path)
}

// WithFieldError annotates err with the policy path it occurred at.
// Nested calls prepend their path, so the outermost policy comes first.
func WithFieldError(err error, parts ...string) error {
	if err == nil {
		return nil
	}

	combined := strings.Join(parts, ".")
	if combined == "" {
		combined = "<anonymous>"
	}

	switch err := err.(type) {
	case FieldError:
		err.Path = fmt.Sprintf("%s.%s", combined, err.Path)
		return err
	default:
		return FieldError{err, combined}
	}
}

// ParamError locates a decode failure within a parameter list.
type ParamError struct {
	Underlying error
	PID        uint16
	Name       string
	Offset     int
}

func (err ParamError) Unwrap() error {
	return err.Underlying
}

func (err ParamError) Error() string {
	uerr := strings.TrimPrefix(err.Underlying.Error(), "ddsi: ")
	name := err.Name
	if name == "" {
		name = "?"
	}
	return fmt.Sprintf("ddsi: %s (pid %#04x %s at offset %d)", uerr, err.PID, name, err.Offset)
}

func WithParamError(err error, pid uint16, name string, offset int) error {
	if err == nil {
		return nil
	}
	return ParamError{err, pid, name, offset}
}
