// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package plist

import (
	log "github.com/sirupsen/logrus"

	"go.e43.eu/ddsi/internal/coder"
	"go.e43.eu/ddsi/internal/errors"
)

// SampleInfo is what QuickScan learns about the inline QoS of a sample
type SampleInfo struct {
	// Dispose and unregister bits of the status info, or 0
	StatusInfo uint32

	// Set when the list holds anything beyond padding and plain status
	// info, in which case the sample needs a full Decode
	ComplexQoS bool

	// Set when the encoding differs from the host byte order
	Swap bool
}

// QuickScan walks the inline QoS of a data sample to route it, without
// decoding it. Far fewer errors are detected than by Decode: only the
// framing of the list and the length of the status info are checked.
//
// It returns the offset just past the sentinel.
func (dec *Decoder) QuickScan(src Source) (SampleInfo, int, error) {
	info, n, err := dec.quickScan(src)
	dec.observer().QuickScanned(err)
	return info, n, err
}

func (dec *Decoder) quickScan(src Source) (SampleInfo, int, error) {
	logger := dec.logger().WithFields(log.Fields{
		"encoding": src.Encoding,
		"vendor":   src.Vendor,
	})

	var info SampleInfo
	bo, err := src.Encoding.ByteOrder()
	if err != nil {
		logger.Warn("plist: quickscan: unsupported encoding")
		return info, 0, err
	}
	info.Swap = src.Encoding.NeedsSwap()

	d := coder.NewDecoder(src.Buf, bo)
	for d.Len() >= 4 {
		off := d.Offset()
		rawPID, _ := d.Uint16()
		length, _ := d.Uint16()
		pid := PID(rawPID)

		if pid == PID_SENTINEL {
			return info, d.Offset(), nil
		}
		if int(length) > d.Len() {
			err := errors.LengthError{Actual: uint64(length), Max: uint64(d.Len())}
			logger.WithField("offset", off).WithError(err).Warn("plist: quickscan: parameter length out of bounds")
			return SampleInfo{}, 0, errors.WithParamError(err, rawPID, pid.Name(), off)
		}
		if length%4 != 0 {
			logger.WithField("offset", off).Warn("plist: quickscan: parameter length not a multiple of 4")
			return SampleInfo{}, 0, errors.WithParamError(errors.ErrUnaligned, rawPID, pid.Name(), off)
		}

		payload, _ := d.Sub(int(length))
		switch pid {
		case PID_PAD:
		case PID_STATUSINFO:
			stinfo, err := payload.BigUint32()
			if err != nil {
				logger.WithField("offset", off).Debug("plist: quickscan: status info too short")
				return SampleInfo{}, 0, errors.WithParamError(err, rawPID, pid.Name(), off)
			}
			var stinfox uint32
			if payload.Len() >= 4 && src.Vendor.IsEclipseOrOpenSplice() {
				stinfox, _ = payload.BigUint32()
			}
			info.StatusInfo = stinfo & STATUSINFO_STANDARDIZED
			if stinfo&^STATUSINFO_STANDARDIZED != 0 || stinfox != 0 {
				info.ComplexQoS = true
			}
		default:
			info.ComplexQoS = true
		}
	}

	logger.WithField("offset", d.Offset()).Warn("plist: quickscan: sentinel missing")
	return SampleInfo{}, 0, errors.ErrMissingSentinel
}
