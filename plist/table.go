// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package plist

import (
	"go.e43.eu/ddsi/internal/coder"
	"go.e43.eu/ddsi/internal/errors"
	"go.e43.eu/ddsi/qos"
)

// decodeFunc decodes the payload of one parameter into p. d covers exactly
// the parameter's payload.
type decodeFunc func(p *Plist, d *coder.Decoder, dc *decodeContext) error

type paramEntry struct {
	name string

	// If set, the parameter is only interpreted for messages from vendors
	// for which this returns true, and ignored otherwise
	vendor func(VendorID) bool

	// nil for parameters which are recognised but ignored
	decode decodeFunc
}

var paramTable map[PID]*paramEntry

func init() {
	eclipseOrPrismTech := VendorID.IsEclipseOrPrismTech
	eclipseOrOpenSplice := VendorID.IsEclipseOrOpenSplice

	paramTable = map[PID]*paramEntry{
		PID_PAD:      {name: "PAD"},
		PID_SENTINEL: {name: "SENTINEL"},

		// QoS
		PID_TOPIC_NAME:         {name: "TOPIC_NAME", decode: qosString(qos.MaskTopicName, func(p *Plist) **qos.String { return &p.QoS.TopicName })},
		PID_TYPE_NAME:          {name: "TYPE_NAME", decode: qosString(qos.MaskTypeName, func(p *Plist) **qos.String { return &p.QoS.TypeName })},
		PID_PRESENTATION:       {name: "PRESENTATION", decode: decodePresentation},
		PID_PARTITION:          {name: "PARTITION", decode: decodePartition},
		PID_GROUP_DATA:         {name: "GROUP_DATA", decode: qosOctets(qos.MaskGroupData, func(p *Plist) **qos.Octets { return &p.QoS.GroupData })},
		PID_TOPIC_DATA:         {name: "TOPIC_DATA", decode: qosOctets(qos.MaskTopicData, func(p *Plist) **qos.Octets { return &p.QoS.TopicData })},
		PID_USER_DATA:          {name: "USER_DATA", decode: qosOctets(qos.MaskUserData, func(p *Plist) **qos.Octets { return &p.QoS.UserData })},
		PID_DURABILITY:         {name: "DURABILITY", decode: decodeDurability},
		PID_DURABILITY_SERVICE: {name: "DURABILITY_SERVICE", decode: decodeDurabilityService},
		PID_DEADLINE:           {name: "DEADLINE", decode: qosDuration(func(p *Plist) **qos.Duration { return &p.QoS.Deadline })},
		PID_LATENCY_BUDGET:     {name: "LATENCY_BUDGET", decode: qosDuration(func(p *Plist) **qos.Duration { return &p.QoS.LatencyBudget })},
		PID_LIFESPAN:           {name: "LIFESPAN", decode: qosDuration(func(p *Plist) **qos.Duration { return &p.QoS.Lifespan })},
		PID_TIME_BASED_FILTER:  {name: "TIME_BASED_FILTER", decode: qosDuration(func(p *Plist) **qos.Duration { return &p.QoS.TimeBasedFilter })},
		PID_LIVELINESS:         {name: "LIVELINESS", decode: decodeLiveliness},
		PID_RELIABILITY:        {name: "RELIABILITY", decode: decodeReliability},
		PID_DESTINATION_ORDER:  {name: "DESTINATION_ORDER", decode: decodeDestinationOrder},
		PID_HISTORY:            {name: "HISTORY", decode: decodeHistory},
		PID_RESOURCE_LIMITS:    {name: "RESOURCE_LIMITS", decode: decodeResourceLimits},
		PID_OWNERSHIP:          {name: "OWNERSHIP", decode: decodeOwnership},
		PID_OWNERSHIP_STRENGTH: {name: "OWNERSHIP_STRENGTH", decode: qosInt32(func(p *Plist) **int32 { return &p.QoS.OwnershipStrength })},
		PID_TRANSPORT_PRIORITY: {name: "TRANSPORT_PRIORITY", decode: qosInt32(func(p *Plist) **int32 { return &p.QoS.TransportPriority })},

		// Protocol
		PID_PROTOCOL_VERSION:                    {name: "PROTOCOL_VERSION", decode: decodeProtocolVersion},
		PID_VENDORID:                            {name: "VENDORID", decode: decodeVendorID},
		PID_UNICAST_LOCATOR:                     {name: "UNICAST_LOCATOR", decode: locatorList(MaskUnicastLocator, func(p *Plist) *Locators { return &p.UnicastLocators })},
		PID_MULTICAST_LOCATOR:                   {name: "MULTICAST_LOCATOR", decode: locatorList(MaskMulticastLocator, func(p *Plist) *Locators { return &p.MulticastLocators })},
		PID_DEFAULT_UNICAST_LOCATOR:             {name: "DEFAULT_UNICAST_LOCATOR", decode: locatorList(MaskDefaultUnicastLocator, func(p *Plist) *Locators { return &p.DefaultUnicastLocators })},
		PID_DEFAULT_MULTICAST_LOCATOR:           {name: "DEFAULT_MULTICAST_LOCATOR", decode: locatorList(MaskDefaultMulticastLocator, func(p *Plist) *Locators { return &p.DefaultMulticastLocators })},
		PID_METATRAFFIC_UNICAST_LOCATOR:         {name: "METATRAFFIC_UNICAST_LOCATOR", decode: locatorList(MaskMetatrafficUnicastLocator, func(p *Plist) *Locators { return &p.MetatrafficUnicastLocators })},
		PID_METATRAFFIC_MULTICAST_LOCATOR:       {name: "METATRAFFIC_MULTICAST_LOCATOR", decode: locatorList(MaskMetatrafficMulticastLocator, func(p *Plist) *Locators { return &p.MetatrafficMulticastLocators })},
		PID_MULTICAST_IPADDRESS:                 {name: "MULTICAST_IPADDRESS", decode: ipAddress(ipMulticast)},
		PID_DEFAULT_UNICAST_IPADDRESS:           {name: "DEFAULT_UNICAST_IPADDRESS", decode: ipAddress(ipDefaultUnicast)},
		PID_DEFAULT_UNICAST_PORT:                {name: "DEFAULT_UNICAST_PORT", decode: ipPort(ipDefaultUnicast)},
		PID_METATRAFFIC_UNICAST_IPADDRESS:       {name: "METATRAFFIC_UNICAST_IPADDRESS", decode: ipAddress(ipMetatrafficUnicast)},
		PID_METATRAFFIC_UNICAST_PORT:            {name: "METATRAFFIC_UNICAST_PORT", decode: ipPort(ipMetatrafficUnicast)},
		PID_METATRAFFIC_MULTICAST_IPADDRESS:     {name: "METATRAFFIC_MULTICAST_IPADDRESS", decode: ipAddress(ipMetatrafficMulticast)},
		PID_METATRAFFIC_MULTICAST_PORT:          {name: "METATRAFFIC_MULTICAST_PORT", decode: ipPort(ipMetatrafficMulticast)},
		PID_EXPECTS_INLINE_QOS:                  {name: "EXPECTS_INLINE_QOS", decode: decodeExpectsInlineQoS},
		PID_PARTICIPANT_MANUAL_LIVELINESS_COUNT: {name: "PARTICIPANT_MANUAL_LIVELINESS_COUNT", decode: decodeManualLivelinessCount},
		PID_PARTICIPANT_LEASE_DURATION:          {name: "PARTICIPANT_LEASE_DURATION", decode: decodeLeaseDuration},
		PID_PARTICIPANT_GUID:                    {name: "PARTICIPANT_GUID", decode: decodeParticipantGUID},
		PID_GROUP_GUID:                          {name: "GROUP_GUID", decode: decodeGroupGUID},
		PID_ENDPOINT_GUID:                       {name: "ENDPOINT_GUID", decode: decodeEndpointGUID},
		PID_PARTICIPANT_BUILTIN_ENDPOINTS:       {name: "PARTICIPANT_BUILTIN_ENDPOINTS", decode: decodeBuiltinEndpointSet},
		PID_BUILTIN_ENDPOINT_SET:                {name: "BUILTIN_ENDPOINT_SET", decode: decodeBuiltinEndpointSet},
		PID_ENTITY_NAME:                         {name: "ENTITY_NAME", decode: plistString(MaskEntityName, func(p *Plist) **qos.String { return &p.EntityName })},
		PID_KEYHASH:                             {name: "KEYHASH", decode: decodeKeyHash},
		PID_STATUSINFO:                          {name: "STATUSINFO", decode: decodeStatusInfo},
		PID_COHERENT_SET:                        {name: "COHERENT_SET", decode: decodeCoherentSet},

		// Standard, but not interpreted
		PID_PROPERTY_LIST:            {name: "PROPERTY_LIST"},
		PID_TYPE_MAX_SIZE_SERIALIZED: {name: "TYPE_MAX_SIZE_SERIALIZED"},
		PID_CONTENT_FILTER_PROPERTY:  {name: "CONTENT_FILTER_PROPERTY"},
		PID_CONTENT_FILTER_INFO:      {name: "CONTENT_FILTER_INFO"},
		PID_DIRECTED_WRITE:           {name: "DIRECTED_WRITE"},
		PID_ORIGINAL_WRITER_INFO:     {name: "ORIGINAL_WRITER_INFO"},
		PID_PARTICIPANT_ENTITYID:     {name: "PARTICIPANT_ENTITYID"},
		PID_GROUP_ENTITYID:           {name: "GROUP_ENTITYID"},

		// Deprecated
		PID_PERSISTENCE:                   {name: "PERSISTENCE"},
		PID_TYPE_CHECKSUM:                 {name: "TYPE_CHECKSUM"},
		PID_TYPE2_NAME:                    {name: "TYPE2_NAME"},
		PID_TYPE2_CHECKSUM:                {name: "TYPE2_CHECKSUM"},
		PID_EXPECTS_ACK:                   {name: "EXPECTS_ACK"},
		PID_MANAGER_KEY:                   {name: "MANAGER_KEY"},
		PID_SEND_QUEUE_SIZE:               {name: "SEND_QUEUE_SIZE"},
		PID_RELIABILITY_ENABLED:           {name: "RELIABILITY_ENABLED"},
		PID_VARGAPPS_SEQUENCE_NUMBER_LAST: {name: "VARGAPPS_SEQUENCE_NUMBER_LAST"},
		PID_RECV_QUEUE_SIZE:               {name: "RECV_QUEUE_SIZE"},
		PID_RELIABILITY_OFFERED:           {name: "RELIABILITY_OFFERED"},

		// Vendor specific
		PID_PRISMTECH_ENDPOINT_GUID:            {name: "PRISMTECH_ENDPOINT_GUID", decode: decodePrismTechEndpointGUID},
		PID_PRISMTECH_READER_DATA_LIFECYCLE:    {name: "PRISMTECH_READER_DATA_LIFECYCLE", vendor: eclipseOrPrismTech, decode: decodeReaderDataLifecycle},
		PID_PRISMTECH_WRITER_DATA_LIFECYCLE:    {name: "PRISMTECH_WRITER_DATA_LIFECYCLE", vendor: eclipseOrPrismTech, decode: decodeWriterDataLifecycle},
		PID_PRISMTECH_RELAXED_QOS_MATCHING:     {name: "PRISMTECH_RELAXED_QOS_MATCHING", vendor: eclipseOrPrismTech, decode: qosBool(func(p *Plist) **bool { return &p.QoS.RelaxedQoSMatching })},
		PID_PRISMTECH_SYNCHRONOUS_ENDPOINT:     {name: "PRISMTECH_SYNCHRONOUS_ENDPOINT", vendor: eclipseOrPrismTech, decode: qosBool(func(p *Plist) **bool { return &p.QoS.SynchronousEndpoint })},
		PID_PRISMTECH_ENTITY_FACTORY:           {name: "PRISMTECH_ENTITY_FACTORY", vendor: eclipseOrPrismTech, decode: qosBool(func(p *Plist) **bool { return &p.QoS.EntityFactory })},
		PID_PRISMTECH_SUBSCRIPTION_KEYS:        {name: "PRISMTECH_SUBSCRIPTION_KEYS", vendor: eclipseOrPrismTech, decode: decodeSubscriptionKeys},
		PID_PRISMTECH_READER_LIFESPAN:          {name: "PRISMTECH_READER_LIFESPAN", vendor: eclipseOrPrismTech, decode: decodeReaderLifespan},
		PID_PRISMTECH_PARTICIPANT_VERSION_INFO: {name: "PRISMTECH_PARTICIPANT_VERSION_INFO", vendor: eclipseOrPrismTech, decode: decodeParticipantVersionInfo},
		PID_PRISMTECH_NODE_NAME:                {name: "PRISMTECH_NODE_NAME", vendor: eclipseOrPrismTech, decode: plistString(MaskNodeName, func(p *Plist) **qos.String { return &p.NodeName })},
		PID_PRISMTECH_EXEC_NAME:                {name: "PRISMTECH_EXEC_NAME", vendor: eclipseOrPrismTech, decode: plistString(MaskExecName, func(p *Plist) **qos.String { return &p.ExecName })},
		PID_PRISMTECH_TYPE_DESCRIPTION:         {name: "PRISMTECH_TYPE_DESCRIPTION", vendor: eclipseOrPrismTech, decode: plistString(MaskTypeDescription, func(p *Plist) **qos.String { return &p.TypeDescription })},
		PID_PRISMTECH_PROCESS_ID:               {name: "PRISMTECH_PROCESS_ID", vendor: eclipseOrPrismTech, decode: plistUint32(func(p *Plist) **uint32 { return &p.ProcessID })},
		PID_PRISMTECH_SERVICE_TYPE:             {name: "PRISMTECH_SERVICE_TYPE", vendor: eclipseOrPrismTech, decode: plistUint32(func(p *Plist) **uint32 { return &p.ServiceType })},
		PID_PRISMTECH_BUILTIN_ENDPOINT_SET:     {name: "PRISMTECH_BUILTIN_ENDPOINT_SET", vendor: eclipseOrPrismTech, decode: plistUint32(func(p *Plist) **uint32 { return &p.PrismTechBuiltinEndpointSet })},
		PID_PRISMTECH_EOTINFO:                  {name: "PRISMTECH_EOTINFO", vendor: eclipseOrOpenSplice, decode: decodeEOTInfo},
	}
}

func need(d *coder.Decoder, n int) error {
	if d.Len() < n {
		return errors.ErrShortBuffer
	}
	return nil
}

// variable decodes a variable length field. Fields which are not wanted are
// only checked when decoding strictly, and are never stored.
func variable[T any](d *coder.Decoder, dc *decodeContext, want bool, dst **T, read func(*coder.Decoder) (T, error)) error {
	if !want && !dc.policy.Strict {
		return nil
	}
	v, err := read(d)
	if err != nil || !want {
		return err
	}
	*dst = &v
	return nil
}

func readString(d *coder.Decoder) (qos.String, error) {
	b, err := d.String()
	return qos.BorrowString(b), err
}

func readOctets(d *coder.Decoder) (qos.Octets, error) {
	b, err := d.OctetSeq()
	return qos.BorrowOctets(b), err
}

func readStringSeq(d *coder.Decoder) (qos.StringSeq, error) {
	bs, err := d.StringSeq()
	if err != nil {
		return nil, err
	}
	return qos.BorrowStringSeq(bs), nil
}

func qosString(m qos.Mask, field func(*Plist) **qos.String) decodeFunc {
	return func(p *Plist, d *coder.Decoder, dc *decodeContext) error {
		return variable(d, dc, dc.qwanted&m != 0, field(p), readString)
	}
}

func plistString(m Mask, field func(*Plist) **qos.String) decodeFunc {
	return func(p *Plist, d *coder.Decoder, dc *decodeContext) error {
		return variable(d, dc, dc.pwanted&m != 0, field(p), readString)
	}
}

func qosOctets(m qos.Mask, field func(*Plist) **qos.Octets) decodeFunc {
	return func(p *Plist, d *coder.Decoder, dc *decodeContext) error {
		return variable(d, dc, dc.qwanted&m != 0, field(p), readOctets)
	}
}

func decodePartition(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	return variable(d, dc, dc.qwanted&qos.MaskPartition != 0, &p.QoS.Partition, readStringSeq)
}

// decodeRTITypecode takes the whole payload as an opaque blob
func decodeRTITypecode(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	if dc.qwanted&qos.MaskRTITypecode == 0 {
		return nil
	}
	b, _ := d.Bytes(d.Len())
	p.QoS.RTITypecode = qos.Ptr(qos.BorrowOctets(b))
	return nil
}

func readDuration(d *coder.Decoder) (qos.Duration, error) {
	sec, frac, err := d.Duration()
	return qos.Duration{Sec: sec, Frac: frac}, err
}

func qosDuration(field func(*Plist) **qos.Duration) decodeFunc {
	return func(p *Plist, d *coder.Decoder, dc *decodeContext) error {
		v, err := readDuration(d)
		if err != nil {
			return err
		}
		if err := v.Validate(); err != nil {
			return err
		}
		*field(p) = &v
		return nil
	}
}

func qosInt32(field func(*Plist) **int32) decodeFunc {
	return func(p *Plist, d *coder.Decoder, dc *decodeContext) error {
		v, err := d.Int32()
		if err != nil {
			return err
		}
		*field(p) = &v
		return nil
	}
}

func qosBool(field func(*Plist) **bool) decodeFunc {
	return func(p *Plist, d *coder.Decoder, dc *decodeContext) error {
		v, err := d.Bool()
		if err != nil {
			return err
		}
		*field(p) = &v
		return nil
	}
}

func plistUint32(field func(*Plist) **uint32) decodeFunc {
	return func(p *Plist, d *coder.Decoder, dc *decodeContext) error {
		v, err := d.Uint32()
		if err != nil {
			return err
		}
		*field(p) = &v
		return nil
	}
}

func decodeDurability(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	v, err := d.Uint32()
	if err != nil {
		return err
	}
	k := qos.DurabilityKind(v)
	if err := k.Validate(); err != nil {
		return err
	}
	p.QoS.Durability = &k
	return nil
}

func decodeDestinationOrder(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	v, err := d.Uint32()
	if err != nil {
		return err
	}
	k := qos.DestinationOrderKind(v)
	if err := k.Validate(); err != nil {
		return err
	}
	p.QoS.DestinationOrder = &k
	return nil
}

func decodeOwnership(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	v, err := d.Uint32()
	if err != nil {
		return err
	}
	k := qos.OwnershipKind(v)
	if err := k.Validate(); err != nil {
		return err
	}
	p.QoS.Ownership = &k
	return nil
}

func decodePresentation(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	if err := need(d, 8); err != nil {
		return err
	}
	var v qos.Presentation
	scope, _ := d.Uint32()
	v.AccessScope = qos.PresentationAccessScope(scope)
	coherent, err := d.Bool()
	if err != nil {
		return errors.WithFieldError(err, "coherent_access")
	}
	ordered, err := d.Bool()
	if err != nil {
		return errors.WithFieldError(err, "ordered_access")
	}
	v.CoherentAccess, v.OrderedAccess = coherent, ordered
	if err := v.Validate(); err != nil {
		return err
	}
	p.QoS.Presentation = &v
	return nil
}

func readHistory(d *coder.Decoder) qos.History {
	kind, _ := d.Uint32()
	depth, _ := d.Int32()
	return qos.History{Kind: qos.HistoryKind(kind), Depth: depth}
}

func readResourceLimits(d *coder.Decoder) qos.ResourceLimits {
	var r qos.ResourceLimits
	r.MaxSamples, _ = d.Int32()
	r.MaxInstances, _ = d.Int32()
	r.MaxSamplesPerInstance, _ = d.Int32()
	return r
}

func decodeHistory(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	if err := need(d, 8); err != nil {
		return err
	}
	v := readHistory(d)
	if err := v.Validate(); err != nil {
		return err
	}
	p.QoS.History = &v
	return nil
}

func decodeResourceLimits(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	if err := need(d, 12); err != nil {
		return err
	}
	v := readResourceLimits(d)
	if err := v.Validate(); err != nil {
		return err
	}
	p.QoS.ResourceLimits = &v
	return nil
}

// decodeDurabilityService accepts the all zero policy, which CoreDX sends
// when it has nothing to say; final validation decides whether that is
// acceptable for the list as a whole
func decodeDurabilityService(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	if err := need(d, 28); err != nil {
		return err
	}
	var v qos.DurabilityService
	v.ServiceCleanupDelay, _ = readDuration(d)
	v.History = readHistory(d)
	v.ResourceLimits = readResourceLimits(d)
	if err := v.ValidateAcceptZero(true); err != nil {
		return err
	}
	p.QoS.DurabilityService = &v
	return nil
}

func decodeLiveliness(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	if err := need(d, 12); err != nil {
		return err
	}
	kind, _ := d.Uint32()
	lease, _ := readDuration(d)
	v := qos.Liveliness{Kind: qos.LivelinessKind(kind), LeaseDuration: lease}
	if err := v.Validate(); err != nil {
		return err
	}
	p.QoS.Liveliness = &v
	return nil
}

func decodeReliability(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	if err := need(d, 12); err != nil {
		return err
	}
	kind, _ := d.Uint32()
	maxBlocking, _ := readDuration(d)

	v := qos.Reliability{MaxBlockingTime: maxBlocking}
	bestEffort, reliable := dc.policy.reliabilityWireKinds()
	switch kind {
	case bestEffort:
		v.Kind = qos.BestEffort
	case reliable:
		v.Kind = qos.Reliable
	default:
		return errors.WithFieldError(errors.ErrInvalidValue, "kind")
	}
	if err := v.Validate(); err != nil {
		return err
	}
	p.QoS.Reliability = &v
	return nil
}

func decodeReaderDataLifecycle(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	var v qos.ReaderDataLifecycle
	switch {
	case d.Len() >= 24:
		v.AutopurgeNowriterSamplesDelay, _ = readDuration(d)
		v.AutopurgeDisposedSamplesDelay, _ = readDuration(d)
		disposeAll, err := d.Bool()
		if err != nil {
			return errors.WithFieldError(err, "autopurge_dispose_all")
		}
		enable, err := d.Bool()
		if err != nil {
			return errors.WithFieldError(err, "enable_invalid_samples")
		}
		_ = d.Skip(2)
		visibility, _ := d.Uint32()
		v.AutopurgeDisposeAll = disposeAll
		v.EnableInvalidSamples = enable
		v.InvalidSampleVisibility = qos.InvalidSampleVisibilityKind(visibility)

	case d.Len() >= 16:
		// Older peers send only the two delays
		v.AutopurgeNowriterSamplesDelay, _ = readDuration(d)
		v.AutopurgeDisposedSamplesDelay, _ = readDuration(d)
		v.EnableInvalidSamples = true
		v.InvalidSampleVisibility = qos.MinimumInvalidSamples

	default:
		return errors.ErrShortBuffer
	}
	if err := v.Validate(); err != nil {
		return err
	}
	p.QoS.ReaderDataLifecycle = &v
	return nil
}

func decodeWriterDataLifecycle(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	var v qos.WriterDataLifecycle
	autodispose, err := d.Bool()
	if err != nil {
		return errors.WithFieldError(err, "autodispose_unregistered_instances")
	}
	v.AutodisposeUnregisteredInstances = autodispose
	if d.Len() >= 19 {
		_ = d.Skip(3)
		v.AutounregisterInstanceDelay, _ = readDuration(d)
		v.AutopurgeSuspendedSamplesDelay, _ = readDuration(d)
	} else {
		// Only the flag, as the standard defines it
		v.AutounregisterInstanceDelay = qos.Infinite
		v.AutopurgeSuspendedSamplesDelay = qos.Infinite
	}
	if err := v.Validate(); err != nil {
		return err
	}
	p.QoS.WriterDataLifecycle = &v
	return nil
}

// Stored whatever the wanted masks say
func decodeSubscriptionKeys(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	if err := need(d, 4); err != nil {
		return err
	}
	use, err := d.Bool()
	if err != nil {
		return errors.WithFieldError(err, "use_key_list")
	}
	_ = d.Skip(3)
	keys, err := readStringSeq(d)
	if err != nil {
		return errors.WithFieldError(err, "key_list")
	}
	p.QoS.SubscriptionKeys = &qos.SubscriptionKeys{UseKeyList: use, KeyList: keys}
	return nil
}

func decodeReaderLifespan(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	if err := need(d, 12); err != nil {
		return err
	}
	use, err := d.Bool()
	if err != nil {
		return errors.WithFieldError(err, "use_lifespan")
	}
	_ = d.Skip(3)
	dur, _ := readDuration(d)
	v := qos.ReaderLifespan{UseLifespan: use, Duration: dur}
	if err := v.Validate(); err != nil {
		return err
	}
	p.QoS.ReaderLifespan = &v
	return nil
}

func decodeProtocolVersion(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	b, err := d.Bytes(2)
	if err != nil {
		return err
	}
	v := ProtocolVersion{Major: b[0], Minor: b[1]}
	if dc.policy.Strict && v != dc.src.ProtocolVersion {
		return errors.ErrInvalidValue
	}
	p.ProtocolVersion = &v
	return nil
}

func decodeVendorID(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	b, err := d.Bytes(2)
	if err != nil {
		return err
	}
	v := VendorID{b[0], b[1]}
	if dc.policy.Strict && v != dc.src.Vendor {
		return errors.ErrInvalidValue
	}
	p.VendorID = &v
	return nil
}

func locatorList(m Mask, field func(*Plist) *Locators) decodeFunc {
	return func(p *Plist, d *coder.Decoder, dc *decodeContext) error {
		l, keep, err := decodeLocator(d, dc)
		if err != nil {
			return err
		}
		if keep && dc.pwanted&m != 0 {
			ls := field(p)
			*ls = append(*ls, l)
		}
		return nil
	}
}

func decodeExpectsInlineQoS(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	v, err := d.Bool()
	if err != nil {
		return err
	}
	p.ExpectsInlineQoS = &v
	return nil
}

// The count is meant to increase monotonically, but being a signed 32 bit
// value any value at all is accepted
func decodeManualLivelinessCount(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	v, err := d.Int32()
	if err != nil {
		return err
	}
	p.ManualLivelinessCount = &v
	return nil
}

func decodeLeaseDuration(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	v, err := readDuration(d)
	if err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}
	p.ParticipantLeaseDuration = &v
	return nil
}

func decodeParticipantGUID(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	g, err := decodeGUID(d)
	if err != nil {
		return err
	}
	if err := validateParticipantGUID(&g, dc); err != nil {
		return err
	}
	p.ParticipantGUID = &g
	return nil
}

func decodeGroupGUID(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	g, err := decodeGUID(d)
	if err != nil {
		return err
	}
	if err := validateGroupGUID(&g); err != nil {
		return err
	}
	p.GroupGUID = &g
	return nil
}

func readEndpointGUID(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	g, err := decodeGUID(d)
	if err != nil {
		return err
	}
	if err := validateEndpointGUID(&g, dc); err != nil {
		return err
	}
	p.EndpointGUID = &g
	return nil
}

// decodeEndpointGUID reads the standard endpoint GUID parameter, which
// protocol version 2.1 does not define
func decodeEndpointGUID(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	if dc.policy.Pedantic && !dc.src.ProtocolVersion.IsNewer() {
		return errors.ErrUnknownParameter
	}
	return readEndpointGUID(p, d, dc)
}

// decodePrismTechEndpointGUID handles 0x8004, which is an endpoint GUID
// from Eclipse and PrismTech and a typecode from RTI
func decodePrismTechEndpointGUID(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	switch {
	case dc.src.Vendor.IsEclipseOrPrismTech():
		return readEndpointGUID(p, d, dc)
	case dc.src.Vendor.IsRTI():
		return decodeRTITypecode(p, d, dc)
	default:
		return nil
	}
}

func decodeBuiltinEndpointSet(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	v, err := d.Uint32()
	if err != nil {
		return err
	}
	if dc.policy.Strict && !dc.src.ProtocolVersion.IsNewer() && v&^BUILTIN_ENDPOINT_SET_KNOWN != 0 {
		return errors.ErrInvalidValue
	}
	p.BuiltinEndpointSet = &v
	return nil
}

func decodeKeyHash(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	var v KeyHash
	b, err := d.Bytes(len(v))
	if err != nil {
		return err
	}
	copy(v[:], b)
	p.KeyHash = &v
	return nil
}

// decodeStatusInfo reads the status info, which is big endian whatever the
// encoding. Only the dispose and unregister bits are kept, plus the
// OpenSplice auto flag carried in an optional second word.
func decodeStatusInfo(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	v, err := d.BigUint32()
	if err != nil {
		return err
	}
	if dc.policy.Strict && !dc.src.ProtocolVersion.IsNewer() && v&^STATUSINFO_STANDARDIZED != 0 {
		return errors.ErrInvalidValue
	}
	v &= STATUSINFO_STANDARDIZED
	if d.Len() >= 4 && dc.src.Vendor.IsEclipseOrOpenSplice() {
		x, _ := d.BigUint32()
		if x&STATUSINFOX_OSPL_AUTO != 0 {
			v |= STATUSINFO_OSPL_AUTO
		}
	}
	p.StatusInfo = &v
	return nil
}

func decodeCoherentSet(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	if err := need(d, 8); err != nil {
		return err
	}
	high, _ := d.Int32()
	low, _ := d.Uint32()
	v := SequenceNumber(int64(high)<<32 | int64(low))
	if v <= 0 && v != SEQUENCE_NUMBER_UNKNOWN {
		return errors.ErrInvalidValue
	}
	p.CoherentSet = &v
	return nil
}

// participantVersionInfoFixedSize is the size of the numeric fields plus the
// smallest possible string
const participantVersionInfoFixedSize = 5*4 + 4

// Stored whatever the wanted masks say
func decodeParticipantVersionInfo(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	if err := need(d, participantVersionInfoFixedSize); err != nil {
		return err
	}
	var v ParticipantVersionInfo
	v.Version, _ = d.Uint32()
	v.Flags, _ = d.Uint32()
	for i := range v.Unused {
		v.Unused[i], _ = d.Uint32()
	}
	s, err := readString(d)
	if err != nil {
		return errors.WithFieldError(err, "internals")
	}
	v.Internals = s
	p.ParticipantVersionInfo = &v
	return nil
}

func decodeEOTInfo(p *Plist, d *coder.Decoder, dc *decodeContext) error {
	if err := need(d, 8); err != nil {
		return err
	}
	var v EOTInfo
	v.TransactionID, _ = d.Uint32()
	n, _ := d.Uint32()
	if uint64(n) > uint64(d.Len()/8) {
		return errors.LengthError{Actual: uint64(n), Max: uint64(d.Len() / 8)}
	}
	v.Groups = make([]EOTGroup, n)
	for i := range v.Groups {
		eid, _ := d.BigUint32()
		txn, _ := d.Uint32()
		v.Groups[i] = EOTGroup{Writer: EntityID(eid), TransactionID: txn}
	}
	p.EOTInfo = &v
	return nil
}
