// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package ddsi

import (
	"go.e43.eu/ddsi/plist"
)

// Codec decodes and encodes parameter lists under a common policy.
//
// A Codec (which may be safely used from multiple goroutines) must not be
// modified once in use.
type Codec struct {
	Policy   Policy
	Logger   Logger
	Observer Observer
}

// The default codec (used by the package global functions)
//
// It decodes leniently, encodes interoperably, and logs nothing.
var DefaultCodec Codec

func (c *Codec) decoder() *plist.Decoder {
	return &plist.Decoder{Policy: c.Policy, Logger: c.Logger, Observer: c.Observer}
}

func (c *Codec) encoder() *plist.Encoder {
	return &plist.Encoder{Policy: c.Policy}
}

// Decode parses a parameter list; see plist.Decoder.Decode
func (c *Codec) Decode(src Source, pwanted Mask, qwanted QoSMask) (*Plist, int, error) {
	return c.decoder().Decode(src, pwanted, qwanted)
}

// QuickScan summarises the inline QoS of a sample; see plist.Decoder.QuickScan
func (c *Codec) QuickScan(src Source) (SampleInfo, int, error) {
	return c.decoder().QuickScan(src)
}

// Encode serializes a parameter list
func (c *Codec) Encode(p *Plist, enc Encoding, pwanted Mask, qwanted QoSMask) ([]byte, error) {
	return c.encoder().Encode(p, enc, pwanted, qwanted)
}

// EncodeQoS serializes a QoS as a parameter list
func (c *Codec) EncodeQoS(q *QoS, enc Encoding, wanted QoSMask) ([]byte, error) {
	return c.encoder().EncodeQoS(q, enc, wanted)
}

// Decodes the parameter list in src using the default codec
func Decode(src Source, pwanted Mask, qwanted QoSMask) (*Plist, int, error) {
	return DefaultCodec.Decode(src, pwanted, qwanted)
}

// Scans the inline QoS in src using the default codec
func QuickScan(src Source) (SampleInfo, int, error) {
	return DefaultCodec.QuickScan(src)
}

// Encodes p using the default codec
func Encode(p *Plist, enc Encoding, pwanted Mask, qwanted QoSMask) ([]byte, error) {
	return DefaultCodec.Encode(p, enc, pwanted, qwanted)
}

// Encodes q using the default codec
func EncodeQoS(q *QoS, enc Encoding, wanted QoSMask) ([]byte, error) {
	return DefaultCodec.EncodeQoS(q, enc, wanted)
}
