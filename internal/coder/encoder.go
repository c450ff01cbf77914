// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"encoding/binary"
	"math"
	"sync"

	"go.e43.eu/ddsi/internal/errors"
)

// 4 byte array which will always contain zeroes that we use whenever
// we need to emit padding
var pad [4]byte

var encoderPool = sync.Pool{
	New: func() interface{} {
		return &Encoder{param: -1}
	},
}

// Encoder builds a parameter list in memory.
//
// Parameters are opened with BeginParam and closed with EndParam, which pads
// the payload to a multiple of 4 and back-patches the header length.
type Encoder struct {
	b  []byte
	bo binary.ByteOrder

	// Offset of the header of the open parameter, or -1
	param int

	// Small scratch buffer (avoids needing to ever allocate when writing primitives)
	scratch [8]byte
}

// NewEncoder returns a pooled encoder; call Release once done with it
func NewEncoder(bo binary.ByteOrder) *Encoder {
	e := encoderPool.Get().(*Encoder)
	e.b = e.b[:0]
	e.bo = bo
	e.param = -1
	return e
}

func (e *Encoder) ByteOrder() binary.ByteOrder {
	return e.bo
}

// Align pads with zeroes up to the next multiple of 4
func (e *Encoder) Align() {
	e.b = append(e.b, pad[:align4(len(e.b))-len(e.b)]...)
}

// BeginParam writes a parameter header with a placeholder length
func (e *Encoder) BeginParam(pid uint16) {
	e.Align()
	e.param = len(e.b)
	e.PutUint16(pid)
	e.PutUint16(0)
}

// EndParam pads the open parameter and fills in its length
func (e *Encoder) EndParam() error {
	if e.param < 0 {
		panic("coder: EndParam without BeginParam")
	}
	e.Align()
	l := len(e.b) - e.param - 4
	if l > math.MaxUint16 {
		return errors.LengthError{Actual: uint64(l), Max: math.MaxUint16}
	}
	e.bo.PutUint16(e.b[e.param+2:], uint16(l))
	e.param = -1
	return nil
}

// Sentinel terminates the list
func (e *Encoder) Sentinel(pid uint16) {
	e.Align()
	e.PutUint16(pid)
	e.PutUint16(0)
}

// Bytes returns a copy of the encoded data
func (e *Encoder) Bytes() []byte {
	return append([]byte(nil), e.b...)
}

// Release returns the encoder to the pool
func (e *Encoder) Release() {
	e.bo = nil
	encoderPool.Put(e)
}
