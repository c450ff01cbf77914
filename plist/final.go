// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package plist

import (
	"go.e43.eu/ddsi/internal/errors"
	"go.e43.eu/ddsi/qos"
)

// finalValidate checks the constraints which span parameters, once the whole
// list has been read
func finalValidate(p *Plist, dc *decodeContext) error {
	q := &p.QoS
	if err := q.CompleteHistoryAndLimits(); err != nil {
		return err
	}

	if q.DurabilityService == nil {
		return nil
	}

	// Some implementations send an all zero durability service in place of
	// an absent one. Where the durability makes the policy irrelevant that
	// is tolerated (and the policy dropped) if the sender is known to do
	// this.
	var acceptZero bool
	switch {
	case dc.src.ProtocolVersion.IsNewer():
		acceptZero = true
	case dc.policy.Strict:
		acceptZero = dc.src.Vendor.IsTwinOaks()
	default:
		acceptZero = !dc.src.Vendor.IsEclipse()
	}

	durability := qos.Volatile
	if q.Durability != nil {
		durability = *q.Durability
	}
	if (durability == qos.Volatile || durability == qos.TransientLocal) && acceptZero && q.DurabilityService.IsZero() {
		q.DurabilityService = nil
		return nil
	}
	return errors.WithFieldError(q.DurabilityService.Validate(), "durability_service")
}
