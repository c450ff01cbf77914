// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"encoding/binary"

	"go.e43.eu/ddsi/internal/errors"
)

func (d *Decoder) Uint8() (uint8, error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	v := d.buf[d.off]
	d.off++
	return v, nil
}

// Bool reads a one byte boolean, of which only the least significant bit
// may be set
func (d *Decoder) Bool() (bool, error) {
	v, err := d.Uint8()
	switch {
	case err != nil:
		return false, err
	case v&^1 != 0:
		return false, errors.ErrInvalidValue
	default:
		return v == 1, nil
	}
}

func (d *Decoder) Uint16() (uint16, error) {
	if err := d.need(2); err != nil {
		return 0, err
	}
	v := d.bo.Uint16(d.buf[d.off:])
	d.off += 2
	return v, nil
}

func (d *Decoder) Uint32() (uint32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	v := d.bo.Uint32(d.buf[d.off:])
	d.off += 4
	return v, nil
}

func (d *Decoder) Int32() (int32, error) {
	u, err := d.Uint32()
	return int32(u), err
}

// BigUint32 reads a uint32 which is big-endian whatever the encoding
// (entity ids, status info)
func (d *Decoder) BigUint32() (uint32, error) {
	if err := d.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(d.buf[d.off:])
	d.off += 4
	return v, nil
}

// Duration reads a {int32 seconds, uint32 fraction} pair
func (d *Decoder) Duration() (int32, uint32, error) {
	if err := d.need(8); err != nil {
		return 0, 0, err
	}
	sec, _ := d.Int32()
	frac, _ := d.Uint32()
	return sec, frac, nil
}

func (e *Encoder) PutUint8(v uint8) {
	e.b = append(e.b, v)
}

func (e *Encoder) PutBool(v bool) {
	if v {
		e.PutUint8(1)
	} else {
		e.PutUint8(0)
	}
}

func (e *Encoder) PutUint16(v uint16) {
	e.bo.PutUint16(e.scratch[:2], v)
	e.b = append(e.b, e.scratch[:2]...)
}

func (e *Encoder) PutUint32(v uint32) {
	e.bo.PutUint32(e.scratch[:4], v)
	e.b = append(e.b, e.scratch[:4]...)
}

func (e *Encoder) PutInt32(v int32) {
	e.PutUint32(uint32(v))
}

func (e *Encoder) PutBigUint32(v uint32) {
	binary.BigEndian.PutUint32(e.scratch[:4], v)
	e.b = append(e.b, e.scratch[:4]...)
}

func (e *Encoder) PutDuration(sec int32, frac uint32) {
	e.PutInt32(sec)
	e.PutUint32(frac)
}
