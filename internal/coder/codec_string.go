// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"math"

	"go.e43.eu/ddsi/internal/errors"
)

// String reads a length-prefixed, NUL terminated string and returns a view
// of its contents (without the terminator).
//
// The length includes the terminator, so it must be at least 1.
func (d *Decoder) String() ([]byte, error) {
	l, err := d.Uint32()
	switch {
	case err != nil:
		return nil, err
	case l == 0:
		return nil, errors.ErrMissingTerminator
	case uint64(l) > uint64(d.Len()):
		return nil, errors.LengthError{Actual: uint64(l), Max: uint64(d.Len())}
	}

	b, _ := d.Bytes(int(l))
	if b[l-1] != 0 {
		return nil, errors.ErrMissingTerminator
	}
	return b[:l-1 : l-1], nil
}

// OctetSeq reads a length-prefixed byte sequence and returns a view of it.
// An empty sequence yields nil.
func (d *Decoder) OctetSeq() ([]byte, error) {
	l, err := d.Uint32()
	switch {
	case err != nil:
		return nil, err
	case l == math.MaxUint32 || uint64(l) > uint64(d.Len()):
		return nil, errors.LengthError{Actual: uint64(l), Max: uint64(d.Len())}
	case l == 0:
		return nil, nil
	}
	return d.Bytes(int(l))
}

// StringSeq reads a count followed by that many strings, each starting on
// a 4 byte boundary. Nothing is returned unless every string is valid.
func (d *Decoder) StringSeq() ([][]byte, error) {
	n, err := d.Uint32()
	if err != nil {
		return nil, err
	}

	// Each string occupies more than 4 bytes (length + terminator), so a
	// larger count is necessarily truncated. Checking up front keeps a
	// hostile count from driving the allocation below.
	if uint64(n)*4 > uint64(d.Len()) {
		return nil, errors.LengthError{Actual: uint64(n), Max: uint64(d.Len() / 4)}
	}

	seq := make([][]byte, 0, n)
	for i := uint32(0); i < n; i++ {
		s, err := d.String()
		if err != nil {
			return nil, err
		}
		seq = append(seq, s)
		d.Align()
	}
	return seq, nil
}

// PutString writes s as a length-prefixed string with a NUL terminator
func (e *Encoder) PutString(s []byte) error {
	if uint64(len(s))+1 > uint64(math.MaxUint32) {
		return errors.LengthError{Actual: uint64(len(s)) + 1, Max: math.MaxUint32}
	}
	e.PutUint32(uint32(len(s) + 1))
	e.b = append(e.b, s...)
	e.b = append(e.b, 0)
	return nil
}

func (e *Encoder) PutOctetSeq(b []byte) error {
	if uint64(len(b)) >= uint64(math.MaxUint32) {
		return errors.LengthError{Actual: uint64(len(b)), Max: math.MaxUint32 - 1}
	}
	e.PutUint32(uint32(len(b)))
	e.b = append(e.b, b...)
	return nil
}

func (e *Encoder) PutStringSeq(seq [][]byte) error {
	e.PutUint32(uint32(len(seq)))
	for _, s := range seq {
		e.Align()
		if err := e.PutString(s); err != nil {
			return err
		}
	}
	return nil
}

// PutFixed writes b verbatim
func (e *Encoder) PutFixed(b []byte) {
	e.b = append(e.b, b...)
}
