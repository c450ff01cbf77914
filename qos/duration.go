// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package qos

import (
	"math"
	"time"

	"go.e43.eu/ddsi/internal/errors"
)

// Duration is an RTPS duration: whole seconds plus a binary fraction of a
// second (units of 2^-32 s)
type Duration struct {
	Sec  int32
	Frac uint32
}

// Infinite is the duration representing "never"
var Infinite = Duration{Sec: -1, Frac: math.MaxUint32}

const nsPerSec = int64(time.Second)

// DurationOf converts a Go duration, truncating to the representable
// resolution. Durations beyond the range of the seconds field become
// Infinite.
func DurationOf(t time.Duration) Duration {
	ns := int64(t)
	if ns < 0 {
		return Duration{Sec: int32(ns / nsPerSec), Frac: 0}
	}
	sec := ns / nsPerSec
	if sec > math.MaxInt32 {
		return Infinite
	}
	frac := uint32(((ns % nsPerSec) << 32) / nsPerSec)
	return Duration{Sec: int32(sec), Frac: frac}
}

func (d Duration) IsInfinite() bool {
	return d == Infinite
}

// Std converts to a Go duration; Infinite maps to the largest time.Duration
func (d Duration) Std() time.Duration {
	if d.IsInfinite() {
		return time.Duration(math.MaxInt64)
	}
	ns := int64(d.Sec)*nsPerSec + int64((uint64(d.Frac)*uint64(nsPerSec)+(1<<31))>>32)
	return time.Duration(ns)
}

// Validate accepts zero, positive and infinite durations
func (d Duration) Validate() error {
	if d.Sec >= 0 || d.IsInfinite() {
		return nil
	}
	return errors.ErrInvalidValue
}

func (d Duration) String() string {
	if d.IsInfinite() {
		return "infinite"
	}
	return d.Std().String()
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	if string(text) == "infinite" {
		*d = Infinite
		return nil
	}
	t, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = DurationOf(t)
	return nil
}
