// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package plist

import (
	"fmt"
	"net/netip"

	"go.e43.eu/ddsi/internal/coder"
	"go.e43.eu/ddsi/internal/errors"
)

// LocatorKind is the transport a locator addresses
type LocatorKind int32

const (
	LOCATOR_KIND_INVALID    LocatorKind = -1
	LOCATOR_KIND_RESERVED   LocatorKind = 0
	LOCATOR_KIND_UDPv4      LocatorKind = 1
	LOCATOR_KIND_UDPv6      LocatorKind = 2
	LOCATOR_KIND_TCPv4      LocatorKind = 4
	LOCATOR_KIND_TCPv6      LocatorKind = 8
	LOCATOR_KIND_UDPv4MCGEN LocatorKind = 0x4fff0000
)

// Size of a locator on the wire
const locatorSize = 24

var locatorKindNames = map[LocatorKind]string{
	LOCATOR_KIND_INVALID:    "invalid",
	LOCATOR_KIND_RESERVED:   "reserved",
	LOCATOR_KIND_UDPv4:      "udp4",
	LOCATOR_KIND_UDPv6:      "udp6",
	LOCATOR_KIND_TCPv4:      "tcp4",
	LOCATOR_KIND_TCPv6:      "tcp6",
	LOCATOR_KIND_UDPv4MCGEN: "udp4mcgen",
}

func (k LocatorKind) String() string {
	if name, ok := locatorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("LocatorKind(%d)", int32(k))
}

func (k LocatorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *LocatorKind) UnmarshalText(text []byte) error {
	for kind, name := range locatorKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("plist: unknown locator kind %q", text)
}

// Locator is a transport address
type Locator struct {
	Kind    LocatorKind
	Port    uint32
	Address [16]byte
}

// Locators is an ordered list of locators
type Locators []Locator

// IPv4Locator returns a locator for an IPv4 address; the address occupies
// the last 4 bytes
func IPv4Locator(kind LocatorKind, addr [4]byte, port uint32) Locator {
	l := Locator{Kind: kind, Port: port}
	copy(l.Address[12:], addr[:])
	return l
}

// mcgenAddress is the layout of the address of a UDPv4MCGEN locator, which
// describes a range of multicast addresses
type mcgenAddress struct {
	IPv4             [4]byte
	Base, Count, Idx uint8
}

func (l Locator) mcgen() mcgenAddress {
	var m mcgenAddress
	copy(m.IPv4[:], l.Address[:4])
	m.Base, m.Count, m.Idx = l.Address[4], l.Address[5], l.Address[6]
	return m
}

func (l Locator) prefix12Zero() bool {
	return [12]byte(l.Address[:12]) == [12]byte{}
}

func (l Locator) addressZero() bool {
	return l.Address == [16]byte{}
}

func (l Locator) String() string {
	switch l.Kind {
	case LOCATOR_KIND_UDPv4, LOCATOR_KIND_TCPv4:
		addr := netip.AddrFrom4([4]byte(l.Address[12:]))
		return fmt.Sprintf("%s/%s", l.Kind, netip.AddrPortFrom(addr, uint16(l.Port)))
	case LOCATOR_KIND_UDPv6, LOCATOR_KIND_TCPv6:
		addr := netip.AddrFrom16(l.Address)
		return fmt.Sprintf("%s/%s", l.Kind, netip.AddrPortFrom(addr, uint16(l.Port)))
	case LOCATOR_KIND_UDPv4MCGEN:
		m := l.mcgen()
		return fmt.Sprintf("%s/%s;%d;%d;%d:%d", l.Kind, netip.AddrFrom4(m.IPv4), m.Base, m.Count, m.Idx, l.Port)
	default:
		return fmt.Sprintf("%s/%x:%d", l.Kind, l.Address, l.Port)
	}
}

func (l Locator) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func validPort(p uint32) bool {
	return p >= 1 && p <= 65535
}

// decodeLocator reads a locator and checks it. keep is false for locators
// which are valid but should be dropped.
func decodeLocator(d *coder.Decoder, dc *decodeContext) (l Locator, keep bool, err error) {
	if d.Len() < locatorSize {
		return l, false, errors.ErrShortBuffer
	}
	kind, _ := d.Int32()
	l.Kind = LocatorKind(kind)
	l.Port, _ = d.Uint32()
	addr, _ := d.Bytes(len(l.Address))
	copy(l.Address[:], addr)

	switch l.Kind {
	case LOCATOR_KIND_UDPv4, LOCATOR_KIND_TCPv4:
		if !validPort(l.Port) || !l.prefix12Zero() {
			return l, false, errors.ErrInvalidValue
		}
	case LOCATOR_KIND_UDPv6, LOCATOR_KIND_TCPv6:
		if !validPort(l.Port) {
			return l, false, errors.ErrInvalidValue
		}
	case LOCATOR_KIND_UDPv4MCGEN:
		if !dc.policy.supports(LOCATOR_KIND_UDPv4) {
			return l, false, nil
		}
		m := l.mcgen()
		if l.Port < 1 || l.Port > 65536 {
			return l, false, errors.ErrInvalidValue
		}
		if int(m.Base)+int(m.Count) >= 28 || m.Count == 0 || m.Idx >= m.Count {
			return l, false, errors.ErrInvalidValue
		}
	case LOCATOR_KIND_INVALID:
		if !l.addressZero() || l.Port != 0 {
			return l, false, errors.ErrInvalidValue
		}
		return l, false, nil
	case LOCATOR_KIND_RESERVED:
		return l, false, nil
	default:
		if dc.policy.Pedantic {
			return l, false, errors.ErrInvalidValue
		}
		return l, false, nil
	}
	return l, true, nil
}

func encodeLocator(e *coder.Encoder, l Locator) {
	e.PutInt32(int32(l.Kind))
	e.PutUint32(l.Port)
	e.PutFixed(l.Address[:])
}
