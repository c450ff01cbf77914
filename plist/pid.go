// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package plist

import (
	"fmt"
)

// PID is a parameter identifier
type PID uint16

const (
	PID_PAD                                 PID = 0x0000
	PID_SENTINEL                            PID = 0x0001
	PID_PARTICIPANT_LEASE_DURATION          PID = 0x0002
	PID_TIME_BASED_FILTER                   PID = 0x0004
	PID_TOPIC_NAME                          PID = 0x0005
	PID_OWNERSHIP_STRENGTH                  PID = 0x0006
	PID_TYPE_NAME                           PID = 0x0007
	PID_METATRAFFIC_MULTICAST_IPADDRESS     PID = 0x000b
	PID_DEFAULT_UNICAST_IPADDRESS           PID = 0x000c
	PID_METATRAFFIC_UNICAST_PORT            PID = 0x000d
	PID_DEFAULT_UNICAST_PORT                PID = 0x000e
	PID_MULTICAST_IPADDRESS                 PID = 0x0011
	PID_PROTOCOL_VERSION                    PID = 0x0015
	PID_VENDORID                            PID = 0x0016
	PID_RELIABILITY                         PID = 0x001a
	PID_LIVELINESS                          PID = 0x001b
	PID_DURABILITY                          PID = 0x001d
	PID_DURABILITY_SERVICE                  PID = 0x001e
	PID_OWNERSHIP                           PID = 0x001f
	PID_PRESENTATION                        PID = 0x0021
	PID_DEADLINE                            PID = 0x0023
	PID_DESTINATION_ORDER                   PID = 0x0025
	PID_LATENCY_BUDGET                      PID = 0x0027
	PID_PARTITION                           PID = 0x0029
	PID_LIFESPAN                            PID = 0x002b
	PID_USER_DATA                           PID = 0x002c
	PID_GROUP_DATA                          PID = 0x002d
	PID_TOPIC_DATA                          PID = 0x002e
	PID_UNICAST_LOCATOR                     PID = 0x002f
	PID_MULTICAST_LOCATOR                   PID = 0x0030
	PID_DEFAULT_UNICAST_LOCATOR             PID = 0x0031
	PID_METATRAFFIC_UNICAST_LOCATOR         PID = 0x0032
	PID_METATRAFFIC_MULTICAST_LOCATOR       PID = 0x0033
	PID_PARTICIPANT_MANUAL_LIVELINESS_COUNT PID = 0x0034
	PID_CONTENT_FILTER_PROPERTY             PID = 0x0035
	PID_HISTORY                             PID = 0x0040
	PID_RESOURCE_LIMITS                     PID = 0x0041
	PID_EXPECTS_INLINE_QOS                  PID = 0x0043
	PID_PARTICIPANT_BUILTIN_ENDPOINTS       PID = 0x0044
	PID_METATRAFFIC_UNICAST_IPADDRESS       PID = 0x0045
	PID_METATRAFFIC_MULTICAST_PORT          PID = 0x0046
	PID_DEFAULT_MULTICAST_LOCATOR           PID = 0x0048
	PID_TRANSPORT_PRIORITY                  PID = 0x0049
	PID_PARTICIPANT_GUID                    PID = 0x0050
	PID_PARTICIPANT_ENTITYID                PID = 0x0051
	PID_GROUP_GUID                          PID = 0x0052
	PID_GROUP_ENTITYID                      PID = 0x0053
	PID_CONTENT_FILTER_INFO                 PID = 0x0055
	PID_COHERENT_SET                        PID = 0x0056
	PID_DIRECTED_WRITE                      PID = 0x0057
	PID_BUILTIN_ENDPOINT_SET                PID = 0x0058
	PID_PROPERTY_LIST                       PID = 0x0059
	PID_ENDPOINT_GUID                       PID = 0x005a
	PID_TYPE_MAX_SIZE_SERIALIZED            PID = 0x0060
	PID_ORIGINAL_WRITER_INFO                PID = 0x0061
	PID_ENTITY_NAME                         PID = 0x0062
	PID_KEYHASH                             PID = 0x0070
	PID_STATUSINFO                          PID = 0x0071
)

// Deprecated parameters, which are accepted and ignored
const (
	PID_PERSISTENCE                   PID = 0x0003
	PID_TYPE_CHECKSUM                 PID = 0x0008
	PID_TYPE2_NAME                    PID = 0x0009
	PID_TYPE2_CHECKSUM                PID = 0x000a
	PID_EXPECTS_ACK                   PID = 0x0010
	PID_MANAGER_KEY                   PID = 0x0012
	PID_SEND_QUEUE_SIZE               PID = 0x0013
	PID_RELIABILITY_ENABLED           PID = 0x0014
	PID_VARGAPPS_SEQUENCE_NUMBER_LAST PID = 0x0017
	PID_RECV_QUEUE_SIZE               PID = 0x0018
	PID_RELIABILITY_OFFERED           PID = 0x0019
)

const (
	// Set on parameters whose meaning is defined by the sending vendor
	PID_VENDORSPECIFIC_FLAG PID = 0x8000

	// Set on parameters which a receiver must understand to process the
	// message correctly
	PID_UNRECOGNIZED_INCOMPATIBLE_FLAG PID = 0x4000
)

// Vendor specific parameters. These are only interpreted when the vendor of
// the enclosing message is one which defines them.
const (
	PID_PRISMTECH_WRITER_INFO              PID = PID_VENDORSPECIFIC_FLAG | 0x1
	PID_PRISMTECH_READER_DATA_LIFECYCLE    PID = PID_VENDORSPECIFIC_FLAG | 0x2
	PID_PRISMTECH_WRITER_DATA_LIFECYCLE    PID = PID_VENDORSPECIFIC_FLAG | 0x3
	PID_PRISMTECH_ENDPOINT_GUID            PID = PID_VENDORSPECIFIC_FLAG | 0x4
	PID_PRISMTECH_SYNCHRONOUS_ENDPOINT     PID = PID_VENDORSPECIFIC_FLAG | 0x5
	PID_PRISMTECH_RELAXED_QOS_MATCHING     PID = PID_VENDORSPECIFIC_FLAG | 0x6
	PID_PRISMTECH_PARTICIPANT_VERSION_INFO PID = PID_VENDORSPECIFIC_FLAG | 0x7
	PID_PRISMTECH_NODE_NAME                PID = PID_VENDORSPECIFIC_FLAG | 0x8
	PID_PRISMTECH_EXEC_NAME                PID = PID_VENDORSPECIFIC_FLAG | 0x9
	PID_PRISMTECH_PROCESS_ID               PID = PID_VENDORSPECIFIC_FLAG | 0xa
	PID_PRISMTECH_SERVICE_TYPE             PID = PID_VENDORSPECIFIC_FLAG | 0xb
	PID_PRISMTECH_ENTITY_FACTORY           PID = PID_VENDORSPECIFIC_FLAG | 0xc
	PID_PRISMTECH_SUBSCRIPTION_KEYS        PID = PID_VENDORSPECIFIC_FLAG | 0xf
	PID_PRISMTECH_READER_LIFESPAN          PID = PID_VENDORSPECIFIC_FLAG | 0x10
	PID_PRISMTECH_TYPE_DESCRIPTION         PID = PID_VENDORSPECIFIC_FLAG | 0x12
	PID_PRISMTECH_EOTINFO                  PID = PID_VENDORSPECIFIC_FLAG | 0x15
	PID_PRISMTECH_BUILTIN_ENDPOINT_SET     PID = PID_VENDORSPECIFIC_FLAG | 0x19

	// RTI reuses the PrismTech endpoint GUID parameter id for its typecode
	PID_RTI_TYPECODE PID = PID_VENDORSPECIFIC_FLAG | 0x4
)

func (pid PID) IsVendorSpecific() bool {
	return pid&PID_VENDORSPECIFIC_FLAG != 0
}

func (pid PID) IsIncompatibleIfUnrecognized() bool {
	return pid&PID_UNRECOGNIZED_INCOMPATIBLE_FLAG != 0
}

// Name returns the name of a known parameter, or "" for any other
func (pid PID) Name() string {
	if e, ok := paramTable[pid]; ok {
		return e.name
	}
	return ""
}

func (pid PID) String() string {
	if name := pid.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("PID(%#04x)", uint16(pid))
}
