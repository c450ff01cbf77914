// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package plist decodes and encodes RTPS parameter lists: the self
// describing sequence of (parameter id, length, value) records used for
// discovery data and inline QoS.
package plist

import (
	"go.e43.eu/ddsi/qos"
)

// Mask has one bit per non-QoS attribute of a Plist
type Mask uint64

const (
	MaskProtocolVersion Mask = 1 << iota
	MaskVendorID
	MaskUnicastLocator
	MaskMulticastLocator
	MaskDefaultUnicastLocator
	MaskDefaultMulticastLocator
	MaskMetatrafficUnicastLocator
	MaskMetatrafficMulticastLocator
	MaskExpectsInlineQoS
	MaskParticipantManualLivelinessCount
	MaskParticipantLeaseDuration
	MaskParticipantGUID
	MaskGroupGUID
	MaskEndpointGUID
	MaskBuiltinEndpointSet
	MaskPrismTechBuiltinEndpointSet
	MaskEntityName
	MaskKeyHash
	MaskStatusInfo
	MaskCoherentSet
	MaskParticipantVersionInfo
	MaskNodeName
	MaskExecName
	MaskProcessID
	MaskServiceType
	MaskTypeDescription
	MaskEOTInfo

	MaskAll = MaskEOTInfo<<1 - 1
)

// Status info bits
const (
	STATUSINFO_DISPOSE      uint32 = 0x1
	STATUSINFO_UNREGISTER   uint32 = 0x2
	STATUSINFO_STANDARDIZED uint32 = STATUSINFO_DISPOSE | STATUSINFO_UNREGISTER

	// OpenSplice "auto" flag, carried in the second word of the parameter
	// and folded into an unused bit internally
	STATUSINFO_OSPL_AUTO  uint32 = 0x10000000
	STATUSINFOX_OSPL_AUTO uint32 = 0x1
)

// Bits of the builtin endpoint set defined by protocol version 2.1
const BUILTIN_ENDPOINT_SET_KNOWN uint32 = 0x3fff

// KeyHash is the 16 byte hash of an instance key
type KeyHash [16]byte

// SequenceNumber is a 64 bit RTPS sequence number
type SequenceNumber int64

// SEQUENCE_NUMBER_UNKNOWN is {high: -1, low: 0}
const SEQUENCE_NUMBER_UNKNOWN SequenceNumber = -1 << 32

// ParticipantVersionInfo describes the OpenSplice/Cyclone build of a
// participant
type ParticipantVersionInfo struct {
	Version   uint32
	Flags     uint32
	Unused    [3]uint32
	Internals qos.String
}

// EOTGroup is one writer's part of a coherent transaction
type EOTGroup struct {
	Writer        EntityID
	TransactionID uint32
}

// EOTInfo marks the end of an OpenSplice coherent transaction
type EOTInfo struct {
	TransactionID uint32
	Groups        []EOTGroup
}

// Plist is a decoded parameter list: a QoS plus the protocol attributes
// carried alongside it in discovery data and inline QoS.
//
// Every attribute is optional. Pointer attributes are absent when nil;
// locator lists are absent when empty.
type Plist struct {
	QoS qos.QoS `yaml:"qos"`

	ProtocolVersion              *ProtocolVersion        `yaml:"protocol_version,omitempty"`
	VendorID                     *VendorID               `yaml:"vendor_id,omitempty"`
	UnicastLocators              Locators                `yaml:"unicast_locators,omitempty"`
	MulticastLocators            Locators                `yaml:"multicast_locators,omitempty"`
	DefaultUnicastLocators       Locators                `yaml:"default_unicast_locators,omitempty"`
	DefaultMulticastLocators     Locators                `yaml:"default_multicast_locators,omitempty"`
	MetatrafficUnicastLocators   Locators                `yaml:"metatraffic_unicast_locators,omitempty"`
	MetatrafficMulticastLocators Locators                `yaml:"metatraffic_multicast_locators,omitempty"`
	ExpectsInlineQoS             *bool                   `yaml:"expects_inline_qos,omitempty"`
	ManualLivelinessCount        *int32                  `yaml:"participant_manual_liveliness_count,omitempty"`
	ParticipantLeaseDuration     *qos.Duration           `yaml:"participant_lease_duration,omitempty"`
	ParticipantGUID              *GUID                   `yaml:"participant_guid,omitempty"`
	GroupGUID                    *GUID                   `yaml:"group_guid,omitempty"`
	EndpointGUID                 *GUID                   `yaml:"endpoint_guid,omitempty"`
	BuiltinEndpointSet           *uint32                 `yaml:"builtin_endpoint_set,omitempty"`
	PrismTechBuiltinEndpointSet  *uint32                 `yaml:"prismtech_builtin_endpoint_set,omitempty"`
	EntityName                   *qos.String             `yaml:"entity_name,omitempty"`
	KeyHash                      *KeyHash                `yaml:"keyhash,omitempty"`
	StatusInfo                   *uint32                 `yaml:"statusinfo,omitempty"`
	CoherentSet                  *SequenceNumber         `yaml:"coherent_set,omitempty"`
	ParticipantVersionInfo       *ParticipantVersionInfo `yaml:"participant_version_info,omitempty"`
	NodeName                     *qos.String             `yaml:"node_name,omitempty"`
	ExecName                     *qos.String             `yaml:"exec_name,omitempty"`
	ProcessID                    *uint32                 `yaml:"process_id,omitempty"`
	ServiceType                  *uint32                 `yaml:"service_type,omitempty"`
	TypeDescription              *qos.String             `yaml:"type_description,omitempty"`
	EOTInfo                      *EOTInfo                `yaml:"eotinfo,omitempty"`
}

func bit[T any](p *T, m Mask) Mask {
	if p != nil {
		return m
	}
	return 0
}

func listBit(l Locators, m Mask) Mask {
	if len(l) != 0 {
		return m
	}
	return 0
}

// Present returns the set of non-QoS attributes which are present
func (p *Plist) Present() Mask {
	return bit(p.ProtocolVersion, MaskProtocolVersion) |
		bit(p.VendorID, MaskVendorID) |
		listBit(p.UnicastLocators, MaskUnicastLocator) |
		listBit(p.MulticastLocators, MaskMulticastLocator) |
		listBit(p.DefaultUnicastLocators, MaskDefaultUnicastLocator) |
		listBit(p.DefaultMulticastLocators, MaskDefaultMulticastLocator) |
		listBit(p.MetatrafficUnicastLocators, MaskMetatrafficUnicastLocator) |
		listBit(p.MetatrafficMulticastLocators, MaskMetatrafficMulticastLocator) |
		bit(p.ExpectsInlineQoS, MaskExpectsInlineQoS) |
		bit(p.ManualLivelinessCount, MaskParticipantManualLivelinessCount) |
		bit(p.ParticipantLeaseDuration, MaskParticipantLeaseDuration) |
		bit(p.ParticipantGUID, MaskParticipantGUID) |
		bit(p.GroupGUID, MaskGroupGUID) |
		bit(p.EndpointGUID, MaskEndpointGUID) |
		bit(p.BuiltinEndpointSet, MaskBuiltinEndpointSet) |
		bit(p.PrismTechBuiltinEndpointSet, MaskPrismTechBuiltinEndpointSet) |
		bit(p.EntityName, MaskEntityName) |
		bit(p.KeyHash, MaskKeyHash) |
		bit(p.StatusInfo, MaskStatusInfo) |
		bit(p.CoherentSet, MaskCoherentSet) |
		bit(p.ParticipantVersionInfo, MaskParticipantVersionInfo) |
		bit(p.NodeName, MaskNodeName) |
		bit(p.ExecName, MaskExecName) |
		bit(p.ProcessID, MaskProcessID) |
		bit(p.ServiceType, MaskServiceType) |
		bit(p.TypeDescription, MaskTypeDescription) |
		bit(p.EOTInfo, MaskEOTInfo)
}

func borrowedBit(s *qos.String, m Mask) Mask {
	if s != nil && s.Borrowed() {
		return m
	}
	return 0
}

// Aliased returns the set of present non-QoS attributes which borrow
// memory from the buffer they were decoded from
func (p *Plist) Aliased() Mask {
	m := borrowedBit(p.EntityName, MaskEntityName) |
		borrowedBit(p.NodeName, MaskNodeName) |
		borrowedBit(p.ExecName, MaskExecName) |
		borrowedBit(p.TypeDescription, MaskTypeDescription)
	if p.ParticipantVersionInfo != nil && p.ParticipantVersionInfo.Internals.Borrowed() {
		m |= MaskParticipantVersionInfo
	}
	return m
}

func mergeValue[T any](dst **T, src *T) {
	if *dst == nil && src != nil {
		v := *src
		*dst = &v
	}
}

func mergeString(dst **qos.String, src *qos.String) {
	if *dst == nil && src != nil {
		v := src.Clone()
		*dst = &v
	}
}

func mergeLocators(dst *Locators, src Locators) {
	if len(*dst) == 0 && len(src) != 0 {
		*dst = append(Locators(nil), src...)
	}
}

// MergeMissing copies into p every attribute (and QoS policy) which src
// has and p lacks. Copies are always owned.
func (p *Plist) MergeMissing(src *Plist) {
	if src == nil {
		return
	}
	p.QoS.MergeMissing(&src.QoS)

	mergeValue(&p.ProtocolVersion, src.ProtocolVersion)
	mergeValue(&p.VendorID, src.VendorID)
	mergeLocators(&p.UnicastLocators, src.UnicastLocators)
	mergeLocators(&p.MulticastLocators, src.MulticastLocators)
	mergeLocators(&p.DefaultUnicastLocators, src.DefaultUnicastLocators)
	mergeLocators(&p.DefaultMulticastLocators, src.DefaultMulticastLocators)
	mergeLocators(&p.MetatrafficUnicastLocators, src.MetatrafficUnicastLocators)
	mergeLocators(&p.MetatrafficMulticastLocators, src.MetatrafficMulticastLocators)
	mergeValue(&p.ExpectsInlineQoS, src.ExpectsInlineQoS)
	mergeValue(&p.ManualLivelinessCount, src.ManualLivelinessCount)
	mergeValue(&p.ParticipantLeaseDuration, src.ParticipantLeaseDuration)
	mergeValue(&p.ParticipantGUID, src.ParticipantGUID)
	mergeValue(&p.GroupGUID, src.GroupGUID)
	mergeValue(&p.EndpointGUID, src.EndpointGUID)
	mergeValue(&p.BuiltinEndpointSet, src.BuiltinEndpointSet)
	mergeValue(&p.PrismTechBuiltinEndpointSet, src.PrismTechBuiltinEndpointSet)
	mergeString(&p.EntityName, src.EntityName)
	mergeValue(&p.KeyHash, src.KeyHash)
	mergeValue(&p.StatusInfo, src.StatusInfo)
	mergeValue(&p.CoherentSet, src.CoherentSet)
	if p.ParticipantVersionInfo == nil && src.ParticipantVersionInfo != nil {
		v := *src.ParticipantVersionInfo
		v.Internals = v.Internals.Clone()
		p.ParticipantVersionInfo = &v
	}
	mergeString(&p.NodeName, src.NodeName)
	mergeString(&p.ExecName, src.ExecName)
	mergeValue(&p.ProcessID, src.ProcessID)
	mergeValue(&p.ServiceType, src.ServiceType)
	mergeString(&p.TypeDescription, src.TypeDescription)
	if p.EOTInfo == nil && src.EOTInfo != nil {
		v := *src.EOTInfo
		v.Groups = append([]EOTGroup(nil), v.Groups...)
		p.EOTInfo = &v
	}
}

// Clone returns a deep, fully owned copy of p
func (p *Plist) Clone() *Plist {
	out := &Plist{}
	out.MergeMissing(p)
	return out
}

func unaliasString(s *qos.String) {
	if s != nil {
		*s = s.Unalias()
	}
}

// Unalias replaces every borrowed value in p with an owned copy, after
// which p no longer references the buffer it was decoded from
func (p *Plist) Unalias() {
	p.QoS.Unalias()
	unaliasString(p.EntityName)
	unaliasString(p.NodeName)
	unaliasString(p.ExecName)
	unaliasString(p.TypeDescription)
	if p.ParticipantVersionInfo != nil {
		unaliasString(&p.ParticipantVersionInfo.Internals)
	}
}

// Reset removes every attribute and policy from p
func (p *Plist) Reset() {
	*p = Plist{}
}
