// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package plist

import (
	"go.e43.eu/ddsi/internal/coder"
	"go.e43.eu/ddsi/internal/errors"
)

// ipSlot identifies one of the legacy address/port parameter pairs
type ipSlot int

const (
	ipMulticast ipSlot = iota
	ipDefaultUnicast
	ipMetatrafficUnicast
	ipMetatrafficMulticast
	numIPSlots
)

type ipPair struct {
	addr             [4]byte
	port             uint32
	hasAddr, hasPort bool
}

// ipParams holds the halves of address/port pairs seen so far in one list
type ipParams [numIPSlots]ipPair

// ipTarget returns the list a completed pair is added to, and the wanted bit
// gating it. Pairs for the default unicast address go to the unicast list.
// The multicast address has no port parameter and so never completes.
func ipTarget(p *Plist, slot ipSlot) (*Locators, Mask) {
	switch slot {
	case ipDefaultUnicast:
		return &p.UnicastLocators, MaskDefaultUnicastLocator
	case ipMetatrafficUnicast:
		return &p.MetatrafficUnicastLocators, MaskMetatrafficUnicastLocator
	case ipMetatrafficMulticast:
		return &p.MetatrafficMulticastLocators, MaskMetatrafficMulticastLocator
	default:
		return nil, 0
	}
}

// completeIP adds a locator once both halves of a pair are known, then
// forgets the pair so that another may follow
func completeIP(p *Plist, slot ipSlot, dc *decodeContext) {
	pair := &dc.ip[slot]
	ls, m := ipTarget(p, slot)
	if ls == nil || !pair.hasAddr || !pair.hasPort {
		return
	}
	if dc.pwanted&m != 0 {
		*ls = append(*ls, IPv4Locator(dc.policy.ipLocatorKind(), pair.addr, pair.port))
	}
	pair.hasAddr, pair.hasPort = false, false
}

func ipAddress(slot ipSlot) decodeFunc {
	return func(p *Plist, d *coder.Decoder, dc *decodeContext) error {
		b, err := d.Bytes(4)
		if err != nil {
			return err
		}
		pair := &dc.ip[slot]
		copy(pair.addr[:], b)
		pair.hasAddr = true
		completeIP(p, slot, dc)
		return nil
	}
}

func ipPort(slot ipSlot) decodeFunc {
	return func(p *Plist, d *coder.Decoder, dc *decodeContext) error {
		port, err := d.Uint32()
		if err != nil {
			return err
		}
		if !validPort(port) {
			return errors.ErrInvalidValue
		}
		pair := &dc.ip[slot]
		pair.port = port
		pair.hasPort = true
		completeIP(p, slot, dc)
		return nil
	}
}
