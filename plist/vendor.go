// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package plist

import (
	"fmt"
)

// VendorID identifies the implementation which sent a message
type VendorID [2]byte

var (
	VendorUnknown          = VendorID{0x00, 0x00}
	VendorRTI              = VendorID{0x01, 0x01}
	VendorOpenSplice       = VendorID{0x01, 0x02}
	VendorOCI              = VendorID{0x01, 0x03}
	VendorMilSoft          = VendorID{0x01, 0x04}
	VendorKongsberg        = VendorID{0x01, 0x05}
	VendorTwinOaks         = VendorID{0x01, 0x06}
	VendorLakota           = VendorID{0x01, 0x07}
	VendorICOUP            = VendorID{0x01, 0x08}
	VendorETRI             = VendorID{0x01, 0x09}
	VendorRTIMicro         = VendorID{0x01, 0x0a}
	VendorPrismTechJava    = VendorID{0x01, 0x0b}
	VendorPrismTechGateway = VendorID{0x01, 0x0c}
	VendorPrismTechLite    = VendorID{0x01, 0x0d}
	VendorTechnicolor      = VendorID{0x01, 0x0e}
	VendorEProsima         = VendorID{0x01, 0x0f}
	VendorEclipse          = VendorID{0x01, 0x10}
	VendorPrismTechCloud   = VendorID{0x01, 0x20}
)

var vendorNames = map[VendorID]string{
	VendorRTI:              "RTI Connext",
	VendorOpenSplice:       "PrismTech OpenSplice",
	VendorOCI:              "OCI OpenDDS",
	VendorMilSoft:          "MilSoft",
	VendorKongsberg:        "Kongsberg InterCOM",
	VendorTwinOaks:         "TwinOaks CoreDX",
	VendorLakota:           "Lakota Technical Systems",
	VendorICOUP:            "ICOUP Consulting",
	VendorETRI:             "ETRI",
	VendorRTIMicro:         "RTI Connext Micro",
	VendorPrismTechJava:    "PrismTech Vortex Cafe",
	VendorPrismTechGateway: "PrismTech Vortex Gateway",
	VendorPrismTechLite:    "PrismTech Vortex Lite",
	VendorTechnicolor:      "Technicolor Qeo",
	VendorEProsima:         "eProsima",
	VendorEclipse:          "Eclipse Cyclone DDS",
	VendorPrismTechCloud:   "PrismTech Vortex Cloud",
}

func (v VendorID) String() string {
	if name, ok := vendorNames[v]; ok {
		return name
	}
	return fmt.Sprintf("vendor %d.%d", v[0], v[1])
}

func (v VendorID) IsRTI() bool {
	return v == VendorRTI
}

func (v VendorID) IsTwinOaks() bool {
	return v == VendorTwinOaks
}

func (v VendorID) IsEclipse() bool {
	return v == VendorEclipse
}

// IsPrismTech reports whether v is any of PrismTech's products
func (v VendorID) IsPrismTech() bool {
	switch v {
	case VendorOpenSplice, VendorPrismTechJava, VendorPrismTechGateway, VendorPrismTechLite, VendorPrismTechCloud:
		return true
	default:
		return false
	}
}

// IsEclipseOrPrismTech reports whether v understands the PrismTech
// vendor specific parameters
func (v VendorID) IsEclipseOrPrismTech() bool {
	return v.IsEclipse() || v.IsPrismTech()
}

func (v VendorID) IsEclipseOrOpenSplice() bool {
	return v.IsEclipse() || v == VendorOpenSplice
}

// ProtocolVersion is the RTPS protocol version of a message
type ProtocolVersion struct {
	Major, Minor uint8
}

// ProtocolVersion2_1 is the newest protocol version this package fully
// understands
var ProtocolVersion2_1 = ProtocolVersion{2, 1}

// IsNewer reports whether v is newer than 2.1, in which case unknown
// parameters and unexpected flag bits are tolerated
func (v ProtocolVersion) IsNewer() bool {
	return v.Major > 2 || (v.Major == 2 && v.Minor > 1)
}

func (v ProtocolVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}
