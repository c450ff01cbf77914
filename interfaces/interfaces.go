// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package ddsiinterfaces defines the interfaces through which the parameter
// list codec reports on its work
//
// (This package is primarily separated out in order to permit the
// implementation to be broken down into multiple packages)
package ddsiinterfaces

import (
	"github.com/sirupsen/logrus"
)

// Logger is the structured logger the codec writes diagnostics to
type Logger = logrus.FieldLogger

// ParamOutcome is what became of a single parameter during decoding
type ParamOutcome int

const (
	// The parameter was decoded and stored (or deliberately not stored
	// because it was not wanted)
	ParamAccepted ParamOutcome = iota

	// The parameter was skipped: padding, deprecated, unknown vendor
	// specific, or defined by a different vendor
	ParamIgnored

	// The parameter failed validation, failing the whole list
	ParamRejected
)

func (o ParamOutcome) String() string {
	switch o {
	case ParamAccepted:
		return "accepted"
	case ParamIgnored:
		return "ignored"
	case ParamRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// interface Observer receives the outcome of decode operations.
//
// Observers are called synchronously from the decoding goroutine and must be
// safe for concurrent use if the codec is shared.
type Observer interface {
	// ParamDecoded is called once for every parameter header read
	ParamDecoded(pid uint16, name string, outcome ParamOutcome)

	// Decoded is called once at the end of every Decode, with its error
	Decoded(err error)

	// QuickScanned is called once at the end of every QuickScan
	QuickScanned(err error)
}

// NopObserver ignores everything
type NopObserver struct{}

func (NopObserver) ParamDecoded(uint16, string, ParamOutcome) {}
func (NopObserver) Decoded(error)                             {}
func (NopObserver) QuickScanned(error)                        {}
