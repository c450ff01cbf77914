// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package plist

import (
	"encoding/binary"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"go.e43.eu/ddsi/internal/coder"
	"go.e43.eu/ddsi/qos"
)

var encodings = []coder.Encoding{coder.PL_CDR_BE, coder.PL_CDR_LE}

// listBuilder assembles parameter lists by hand, in either byte order
type listBuilder struct {
	bo binary.AppendByteOrder
	b  []byte
}

func newList(enc coder.Encoding) *listBuilder {
	bo, err := enc.ByteOrder()
	if err != nil {
		panic(err)
	}
	return &listBuilder{bo: bo.(binary.AppendByteOrder)}
}

// param appends a parameter, padding the payload to a multiple of 4
func (l *listBuilder) param(pid PID, payload ...[]byte) *listBuilder {
	var body []byte
	for _, p := range payload {
		body = append(body, p...)
	}
	for len(body)%4 != 0 {
		body = append(body, 0)
	}
	return l.raw(pid, uint16(len(body)), body)
}

// raw appends a parameter with exactly the given header length and payload
func (l *listBuilder) raw(pid PID, length uint16, payload []byte) *listBuilder {
	l.b = l.bo.AppendUint16(l.b, uint16(pid))
	l.b = l.bo.AppendUint16(l.b, length)
	l.b = append(l.b, payload...)
	return l
}

func (l *listBuilder) sentinel() []byte {
	return l.raw(PID_SENTINEL, 0, nil).b
}

func (l *listBuilder) u32(v uint32) []byte {
	return l.bo.AppendUint32(nil, v)
}

func (l *listBuilder) i32(v int32) []byte {
	return l.u32(uint32(v))
}

func (l *listBuilder) duration(d qos.Duration) []byte {
	return append(l.i32(d.Sec), l.u32(d.Frac)...)
}

func be32(v uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, v)
}

// str is a CDR string, unpadded
func (l *listBuilder) str(s string) []byte {
	b := l.u32(uint32(len(s) + 1))
	b = append(b, s...)
	return append(b, 0)
}

// strSeq is a CDR sequence of strings, each padded to a multiple of 4
func (l *listBuilder) strSeq(ss ...string) []byte {
	b := l.u32(uint32(len(ss)))
	for _, s := range ss {
		b = append(b, l.str(s)...)
		for len(b)%4 != 0 {
			b = append(b, 0)
		}
	}
	return b
}

func (l *listBuilder) locator(kind LocatorKind, port uint32, addr [16]byte) []byte {
	b := l.i32(int32(kind))
	b = append(b, l.u32(port)...)
	return append(b, addr[:]...)
}

func ipv4(a, b, c, d byte) [16]byte {
	var addr [16]byte
	addr[12], addr[13], addr[14], addr[15] = a, b, c, d
	return addr
}

func source(enc coder.Encoding, buf []byte) Source {
	return Source{Buf: buf, Encoding: enc, ProtocolVersion: ProtocolVersion2_1, Vendor: VendorEclipse}
}

var testGUIDPrefix = GUIDPrefix{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

// plistCmp compares decoded and constructed lists by value, regardless of
// which memory their strings live in
var plistCmp = []cmp.Option{
	cmp.Comparer(qos.String.Equal),
	cmp.Comparer(qos.Octets.Equal),
	cmpopts.EquateEmpty(),
}
