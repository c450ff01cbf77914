// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"encoding/binary"

	"go.e43.eu/ddsi/internal/errors"
)

// Decoder reads fields out of a borrowed byte slice.
//
// Every read checks the remaining length before touching the buffer, so a
// Decoder never reads past the slice it was given. Views returned by the
// variable-length readers alias that slice.
type Decoder struct {
	buf []byte
	off int
	bo  binary.ByteOrder
}

func NewDecoder(buf []byte, bo binary.ByteOrder) *Decoder {
	return &Decoder{buf: buf, bo: bo}
}

// Len returns the number of unread bytes
func (d *Decoder) Len() int {
	return len(d.buf) - d.off
}

// Offset returns the number of bytes consumed so far
func (d *Decoder) Offset() int {
	return d.off
}

func (d *Decoder) ByteOrder() binary.ByteOrder {
	return d.bo
}

// Rest returns the unread part of the buffer without consuming it
func (d *Decoder) Rest() []byte {
	return d.buf[d.off:]
}

func (d *Decoder) need(n int) error {
	if n < 0 || n > d.Len() {
		return errors.ErrShortBuffer
	}
	return nil
}

// Bytes consumes n bytes and returns a view of them
func (d *Decoder) Bytes(n int) ([]byte, error) {
	if err := d.need(n); err != nil {
		return nil, err
	}
	b := d.buf[d.off : d.off+n : d.off+n]
	d.off += n
	return b, nil
}

func (d *Decoder) Skip(n int) error {
	if err := d.need(n); err != nil {
		return err
	}
	d.off += n
	return nil
}

// Align skips padding up to the next multiple of 4, stopping at the end of
// the buffer if the padding is truncated
func (d *Decoder) Align() {
	n := align4(d.off)
	if n > len(d.buf) {
		n = len(d.buf)
	}
	d.off = n
}

// Sub consumes n bytes and returns a Decoder over them
func (d *Decoder) Sub(n int) (*Decoder, error) {
	b, err := d.Bytes(n)
	if err != nil {
		return nil, err
	}
	return &Decoder{buf: b, bo: d.bo}, nil
}
