// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package qos

import (
	"bytes"
	"encoding/hex"
)

// Octets is a variable-length byte field. It either borrows its bytes from
// the buffer it was decoded from, or owns them.
//
// A borrowed value is only valid while that buffer is neither modified nor
// reused; call Unalias to extend its lifetime.
type Octets struct {
	b        []byte
	borrowed bool
}

// BorrowOctets returns an Octets aliasing b
func BorrowOctets(b []byte) Octets {
	return Octets{b: b, borrowed: true}
}

// NewOctets returns an Octets owning a copy of b
func NewOctets(b []byte) Octets {
	if len(b) == 0 {
		return Octets{}
	}
	return Octets{b: append([]byte(nil), b...)}
}

func (o Octets) Bytes() []byte {
	return o.b
}

func (o Octets) Len() int {
	return len(o.b)
}

func (o Octets) Borrowed() bool {
	return o.borrowed
}

// Unalias returns an owned equivalent of o, copying only if o is borrowed
func (o Octets) Unalias() Octets {
	if !o.borrowed {
		return o
	}
	return NewOctets(o.b)
}

// Clone always returns an independently owned copy
func (o Octets) Clone() Octets {
	return NewOctets(o.b)
}

func (o Octets) Equal(p Octets) bool {
	return bytes.Equal(o.b, p.b)
}

func (o Octets) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(o.b)), nil
}

func (o *Octets) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return err
	}
	*o = Octets{b: b}
	return nil
}

// String is a string field which, like Octets, either borrows from a receive
// buffer or owns its storage. The terminating NUL is not included.
type String struct {
	b        []byte
	borrowed bool
}

// BorrowString returns a String aliasing b
func BorrowString(b []byte) String {
	return String{b: b, borrowed: true}
}

// NewString returns an owned String
func NewString(s string) String {
	if s == "" {
		return String{}
	}
	return String{b: []byte(s)}
}

func (s String) String() string {
	return string(s.b)
}

func (s String) Bytes() []byte {
	return s.b
}

func (s String) Borrowed() bool {
	return s.borrowed
}

func (s String) Unalias() String {
	if !s.borrowed {
		return s
	}
	return s.Clone()
}

func (s String) Clone() String {
	if len(s.b) == 0 {
		return String{}
	}
	return String{b: append([]byte(nil), s.b...)}
}

func (s String) Equal(t String) bool {
	return bytes.Equal(s.b, t.b)
}

func (s String) MarshalText() ([]byte, error) {
	return s.Clone().b, nil
}

func (s *String) UnmarshalText(text []byte) error {
	*s = NewString(string(text))
	return nil
}

// StringSeq is a sequence of strings, each of which may independently be
// borrowed or owned
type StringSeq []String

// NewStringSeq returns an owned sequence holding ss
func NewStringSeq(ss ...string) StringSeq {
	seq := make(StringSeq, len(ss))
	for i, s := range ss {
		seq[i] = NewString(s)
	}
	return seq
}

// BorrowStringSeq returns a sequence aliasing each element of bs
func BorrowStringSeq(bs [][]byte) StringSeq {
	seq := make(StringSeq, len(bs))
	for i, b := range bs {
		seq[i] = BorrowString(b)
	}
	return seq
}

func (seq StringSeq) Strings() []string {
	ss := make([]string, len(seq))
	for i, s := range seq {
		ss[i] = s.String()
	}
	return ss
}

// Bytes returns views of the elements, in order
func (seq StringSeq) Bytes() [][]byte {
	bs := make([][]byte, len(seq))
	for i, s := range seq {
		bs[i] = s.b
	}
	return bs
}

// Borrowed reports whether any element aliases external memory
func (seq StringSeq) Borrowed() bool {
	for _, s := range seq {
		if s.borrowed {
			return true
		}
	}
	return false
}

func (seq StringSeq) Unalias() StringSeq {
	if !seq.Borrowed() {
		return seq
	}
	return seq.Clone()
}

func (seq StringSeq) Clone() StringSeq {
	if seq == nil {
		return nil
	}
	out := make(StringSeq, len(seq))
	for i, s := range seq {
		out[i] = s.Clone()
	}
	return out
}

// Equal compares element by element, in order
func (seq StringSeq) Equal(other StringSeq) bool {
	if len(seq) != len(other) {
		return false
	}
	for i := range seq {
		if !seq[i].Equal(other[i]) {
			return false
		}
	}
	return true
}
