// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package coder implements the primitive field readers and the record writer
// shared by the parameter list decoder and encoder.
package coder

import (
	"encoding/binary"
	"fmt"

	"go.e43.eu/ddsi/internal/errors"
)

// Encoding is the RTPS encapsulation identifier of a parameter list
type Encoding uint16

const (
	PL_CDR_BE Encoding = 0x0002
	PL_CDR_LE Encoding = 0x0003
)

// hostOrder is the byte order of the machine we are running on
var hostOrder binary.ByteOrder = func() binary.ByteOrder {
	if binary.NativeEndian.Uint16([]byte{1, 0}) == 1 {
		return binary.LittleEndian
	}
	return binary.BigEndian
}()

// ByteOrder returns the byte order multi-byte integers are transmitted in
func (e Encoding) ByteOrder() (binary.ByteOrder, error) {
	switch e {
	case PL_CDR_BE:
		return binary.BigEndian, nil
	case PL_CDR_LE:
		return binary.LittleEndian, nil
	default:
		return nil, errors.ErrUnsupportedEncoding
	}
}

// NeedsSwap reports whether the encoding differs from host byte order.
//
// Readers never consult this: they decode through ByteOrder(), which swaps
// exactly when this returns true. It is only reported for diagnostics.
func (e Encoding) NeedsSwap() bool {
	bo, err := e.ByteOrder()
	if err != nil {
		return false
	}
	return bo != hostOrder
}

func (e Encoding) String() string {
	switch e {
	case PL_CDR_BE:
		return "PL_CDR_BE"
	case PL_CDR_LE:
		return "PL_CDR_LE"
	default:
		return fmt.Sprintf("Encoding(%#04x)", uint16(e))
	}
}

// align4 rounds n up to a multiple of 4
func align4(n int) int {
	return (n + 3) &^ 3
}
