// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package ddsi implements decoding and encoding of RTPS parameter lists, the
// self describing format in which DDS implementations exchange discovery
// data and the inline QoS of samples, together with the DDS QoS model they
// carry.
//
// A parameter list is a sequence of records, each 4 byte aligned:
//
//     +--------+--------+----------------------------+
//     |  pid   | length | value (length bytes)       |
//     +--------+--------+----------------------------+
//      uint16   uint16   length is a multiple of 4
//
// terminated by a record with pid SENTINEL (whose length is ignored). The
// byte order of pid, length and most values is given by the encapsulation:
// PL_CDR_BE or PL_CDR_LE. Entity ids and status info are always big endian.
//
// Values are encoded using CDR:
//
//                  CDR | Go
//     -----------------+--------------------------------------
//        unsigned long | uint32
//                 long | int32
//        boolean/octet | bool/uint8 (1 byte, padded)
//               string | qos.String (uint32 length incl. NUL)
//      sequence<octet> | qos.Octets (uint32 length)
//     sequence<string> | qos.StringSeq (uint32 count)
//           Duration_t | qos.Duration {int32 sec; uint32 frac}
//            Locator_t | plist.Locator {int32 kind; uint32 port; octet[16]}
//               GUID_t | plist.GUID {octet[12]; big endian entity id}
//
// Which parameters are understood depends upon the vendor of the message:
// vendor specific parameters (pid bit 0x8000) are only interpreted for the
// vendors which define them, and otherwise skipped. Unknown parameters with
// bit 0x4000 set cannot be skipped, and fail decoding with ErrIncompatible.
//
// Decoding borrows: strings and octet sequences in a decoded Plist refer to
// the source buffer until Unalias is called. Encoding always copies.
//
// The Codec type bundles a decode policy, logger and observer; DefaultCodec
// (used by the package level functions) is lenient and silent.
package ddsi

import (
	ddsiinterfaces "go.e43.eu/ddsi/interfaces"
	"go.e43.eu/ddsi/internal/coder"
	"go.e43.eu/ddsi/internal/errors"
	"go.e43.eu/ddsi/plist"
	"go.e43.eu/ddsi/qos"
)

// Encoding is the encapsulation of a parameter list
type Encoding = coder.Encoding

const (
	PL_CDR_BE = coder.PL_CDR_BE
	PL_CDR_LE = coder.PL_CDR_LE
)

type (
	Plist      = plist.Plist
	Source     = plist.Source
	Policy     = plist.Policy
	SampleInfo = plist.SampleInfo
	Mask       = plist.Mask
	QoS        = qos.QoS
	QoSMask    = qos.Mask
)

// interface Observer receives decode outcomes
type Observer = ddsiinterfaces.Observer

// Logger receives decode diagnostics
type Logger = ddsiinterfaces.Logger

const (
	// Every decode failure matches ErrInvalid, except for a
	// must-understand parameter which was not understood
	ErrInvalid      = errors.ErrInvalid
	ErrIncompatible = errors.ErrIncompatible

	ErrShortBuffer         = errors.ErrShortBuffer
	ErrUnaligned           = errors.ErrUnaligned
	ErrMissingSentinel     = errors.ErrMissingSentinel
	ErrMissingTerminator   = errors.ErrMissingTerminator
	ErrUnsupportedEncoding = errors.ErrUnsupportedEncoding
	ErrUnknownParameter    = errors.ErrUnknownParameter
	ErrInvalidValue        = errors.ErrInvalidValue
	ErrInconsistent        = errors.ErrInconsistent
)

// ParamError locates a decode failure within a parameter list
type ParamError = errors.ParamError

// FieldError locates an error within a policy
type FieldError = errors.FieldError
