// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package plist

import (
	"io"

	log "github.com/sirupsen/logrus"

	ddsiinterfaces "go.e43.eu/ddsi/interfaces"
	"go.e43.eu/ddsi/internal/coder"
	"go.e43.eu/ddsi/internal/errors"
	"go.e43.eu/ddsi/qos"
)

// Source is a parameter list as received, together with the header fields of
// the message that carried it
type Source struct {
	Buf             []byte
	Encoding        coder.Encoding
	ProtocolVersion ProtocolVersion
	Vendor          VendorID
}

type decodeContext struct {
	src     Source
	policy  Policy
	pwanted Mask
	qwanted qos.Mask
	ip      ipParams
}

var discardLogger = func() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}()

// Decoder decodes parameter lists. The zero value is a lenient decoder which
// logs nothing. A Decoder is safe for concurrent use.
type Decoder struct {
	Policy   Policy
	Logger   ddsiinterfaces.Logger
	Observer ddsiinterfaces.Observer
}

func (dec *Decoder) logger() ddsiinterfaces.Logger {
	if dec.Logger == nil {
		return discardLogger
	}
	return dec.Logger
}

func (dec *Decoder) observer() ddsiinterfaces.Observer {
	if dec.Observer == nil {
		return ddsiinterfaces.NopObserver{}
	}
	return dec.Observer
}

// Decode parses the parameter list in src up to and including its sentinel.
//
// Only the variable length attributes and policies selected by pwanted and
// qwanted are stored; all others are still checked (variable length ones
// only when decoding strictly). Strings, octet sequences and the like in the
// result borrow from src.Buf.
//
// On success it returns the list and the offset just past the sentinel. On
// failure nothing is returned, and the error matches either ErrInvalid or
// ErrIncompatible.
func (dec *Decoder) Decode(src Source, pwanted Mask, qwanted qos.Mask) (*Plist, int, error) {
	p, n, err := dec.decode(src, pwanted, qwanted)
	dec.observer().Decoded(err)
	return p, n, err
}

func (dec *Decoder) decode(src Source, pwanted Mask, qwanted qos.Mask) (*Plist, int, error) {
	logger := dec.logger().WithFields(log.Fields{
		"encoding": src.Encoding,
		"vendor":   src.Vendor,
		"protocol": src.ProtocolVersion,
	})

	bo, err := src.Encoding.ByteOrder()
	if err != nil {
		logger.Warn("plist: unsupported encoding")
		return nil, 0, err
	}

	dc := &decodeContext{src: src, policy: dec.Policy, pwanted: pwanted, qwanted: qwanted}
	p := &Plist{}
	d := coder.NewDecoder(src.Buf, bo)
	for d.Len() >= 4 {
		off := d.Offset()
		rawPID, _ := d.Uint16()
		length, _ := d.Uint16()
		pid := PID(rawPID)
		plog := logger.WithFields(log.Fields{"pid": uint16(pid), "param": pid.String(), "offset": off})

		if pid == PID_SENTINEL {
			if err := finalValidate(p, dc); err != nil {
				plog.WithError(err).Debug("plist: final validation failed")
				return nil, 0, err
			}
			return p, d.Offset(), nil
		}

		if int(length) > d.Len() {
			err := errors.LengthError{Actual: uint64(length), Max: uint64(d.Len())}
			plog.WithError(err).Warn("plist: parameter length out of bounds")
			return nil, 0, errors.WithParamError(err, rawPID, pid.Name(), off)
		}
		if length%4 != 0 {
			plog.Warn("plist: parameter length not a multiple of 4")
			return nil, 0, errors.WithParamError(errors.ErrUnaligned, rawPID, pid.Name(), off)
		}

		payload, _ := d.Sub(int(length))
		outcome, err := dec.param(p, pid, payload, dc)
		dec.observer().ParamDecoded(rawPID, pid.String(), outcome)
		if err != nil {
			plog.WithError(err).Debug("plist: parameter rejected")
			return nil, 0, errors.WithParamError(err, rawPID, pid.Name(), off)
		}
	}

	logger.WithField("offset", d.Offset()).Warn("plist: sentinel missing")
	return nil, 0, errors.ErrMissingSentinel
}

// param dispatches a single parameter
func (dec *Decoder) param(p *Plist, pid PID, d *coder.Decoder, dc *decodeContext) (ddsiinterfaces.ParamOutcome, error) {
	if e, ok := paramTable[pid]; ok {
		if e.decode == nil || (e.vendor != nil && !e.vendor(dc.src.Vendor)) {
			return ddsiinterfaces.ParamIgnored, nil
		}
		if err := e.decode(p, d, dc); err != nil {
			return ddsiinterfaces.ParamRejected, err
		}
		return ddsiinterfaces.ParamAccepted, nil
	}

	switch {
	case pid.IsIncompatibleIfUnrecognized():
		return ddsiinterfaces.ParamRejected, errors.ErrIncompatible
	case pid.IsVendorSpecific():
		return ddsiinterfaces.ParamIgnored, nil
	case dc.policy.Strict && !dc.src.ProtocolVersion.IsNewer():
		return ddsiinterfaces.ParamRejected, errors.ErrUnknownParameter
	default:
		return ddsiinterfaces.ParamIgnored, nil
	}
}
