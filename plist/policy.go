// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package plist

import (
	"golang.org/x/exp/slices"
)

// Policy controls how tolerant decoding is and how some values are mapped
// onto the wire. The zero value is the lenient, interoperable default for a
// connectionless (UDP) transport.
type Policy struct {
	// Reject anything the protocol version of the message does not define
	Strict bool `yaml:"strict"`

	// Follow the RTPS standard to the letter even where common
	// implementations do not. This selects the reliability kind values on
	// the wire, rejects unknown locator kinds and sends the endpoint GUID
	// under its vendor specific parameter id.
	Pedantic bool `yaml:"pedantic"`

	// The transport is connection oriented, so locators built from an IP
	// address and port are TCP rather than UDP
	Connected bool `yaml:"connected"`

	// Locator kinds the transport supports. Empty means UDPv4 and UDPv6.
	LocatorKinds []LocatorKind `yaml:"locator_kinds,omitempty"`
}

var defaultLocatorKinds = []LocatorKind{LOCATOR_KIND_UDPv4, LOCATOR_KIND_UDPv6}

func (p Policy) supports(kind LocatorKind) bool {
	kinds := p.LocatorKinds
	if len(kinds) == 0 {
		kinds = defaultLocatorKinds
	}
	return slices.Contains(kinds, kind)
}

// ipLocatorKind is the kind of locator built from a separate address and port
func (p Policy) ipLocatorKind() LocatorKind {
	if p.Connected {
		return LOCATOR_KIND_TCPv4
	}
	return LOCATOR_KIND_UDPv4
}

// Wire values of the reliability kind
const (
	pedanticBestEffort uint32 = 1
	pedanticReliable   uint32 = 3
	interopBestEffort  uint32 = 1
	interopReliable    uint32 = 2
)

func (p Policy) reliabilityWireKinds() (bestEffort, reliable uint32) {
	if p.Pedantic {
		return pedanticBestEffort, pedanticReliable
	}
	return interopBestEffort, interopReliable
}
