// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package plist

import (
	"go.e43.eu/ddsi/internal/coder"
	"go.e43.eu/ddsi/internal/errors"
	"go.e43.eu/ddsi/qos"
)

// Encoder serializes parameter lists. The zero value uses the interoperable
// wire representation. An Encoder is safe for concurrent use.
type Encoder struct {
	Policy Policy
}

type paramWriter struct {
	e      *coder.Encoder
	policy Policy
	err    error
}

func (w *paramWriter) param(pid PID, body func(e *coder.Encoder) error) {
	if w.err != nil {
		return
	}
	w.e.BeginParam(uint16(pid))
	if err := body(w.e); err != nil {
		w.err = errors.WithFieldError(err, pid.String())
		return
	}
	if err := w.e.EndParam(); err != nil {
		w.err = errors.WithFieldError(err, pid.String())
	}
}

// put writes v as parameter pid, if it is present and wanted
func put[T any](w *paramWriter, want bool, pid PID, v *T, body func(*coder.Encoder, T) error) {
	if v == nil || !want {
		return
	}
	w.param(pid, func(e *coder.Encoder) error { return body(e, *v) })
}

func newParamWriter(enc coder.Encoding, policy Policy) (*paramWriter, error) {
	bo, err := enc.ByteOrder()
	if err != nil {
		return nil, err
	}
	return &paramWriter{e: coder.NewEncoder(bo), policy: policy}, nil
}

func (w *paramWriter) finish() ([]byte, error) {
	defer w.e.Release()
	if w.err != nil {
		return nil, w.err
	}
	w.e.Sentinel(uint16(PID_SENTINEL))
	return w.e.Bytes(), nil
}

// EncodeQoS serializes the policies of q which are in wanted, followed by a
// sentinel
func (enc *Encoder) EncodeQoS(q *qos.QoS, encoding coder.Encoding, wanted qos.Mask) ([]byte, error) {
	w, err := newParamWriter(encoding, enc.Policy)
	if err != nil {
		return nil, err
	}
	w.qos(q, wanted)
	return w.finish()
}

// Encode serializes the attributes of p in pwanted and the policies of its
// QoS in qwanted, followed by a sentinel. Decoding the result with the same
// masks yields p again.
func (enc *Encoder) Encode(p *Plist, encoding coder.Encoding, pwanted Mask, qwanted qos.Mask) ([]byte, error) {
	w, err := newParamWriter(encoding, enc.Policy)
	if err != nil {
		return nil, err
	}
	w.qos(&p.QoS, qwanted)
	w.plist(p, pwanted)
	return w.finish()
}

func (w *paramWriter) qos(q *qos.QoS, wanted qos.Mask) {
	want := func(m qos.Mask) bool { return wanted&m != 0 }

	put(w, want(qos.MaskTopicName), PID_TOPIC_NAME, q.TopicName, putString)
	put(w, want(qos.MaskTypeName), PID_TYPE_NAME, q.TypeName, putString)
	put(w, want(qos.MaskPresentation), PID_PRESENTATION, q.Presentation, putPresentation)
	put(w, want(qos.MaskPartition), PID_PARTITION, q.Partition, putStringSeq)
	put(w, want(qos.MaskGroupData), PID_GROUP_DATA, q.GroupData, putOctets)
	put(w, want(qos.MaskTopicData), PID_TOPIC_DATA, q.TopicData, putOctets)
	put(w, want(qos.MaskDurability), PID_DURABILITY, q.Durability, putKind[qos.DurabilityKind])
	put(w, want(qos.MaskDurabilityService), PID_DURABILITY_SERVICE, q.DurabilityService, putDurabilityService)
	put(w, want(qos.MaskDeadline), PID_DEADLINE, q.Deadline, putDuration)
	put(w, want(qos.MaskLatencyBudget), PID_LATENCY_BUDGET, q.LatencyBudget, putDuration)
	put(w, want(qos.MaskLiveliness), PID_LIVELINESS, q.Liveliness, putLiveliness)
	put(w, want(qos.MaskReliability), PID_RELIABILITY, q.Reliability, w.putReliability)
	put(w, want(qos.MaskDestinationOrder), PID_DESTINATION_ORDER, q.DestinationOrder, putKind[qos.DestinationOrderKind])
	put(w, want(qos.MaskHistory), PID_HISTORY, q.History, putHistory)
	put(w, want(qos.MaskResourceLimits), PID_RESOURCE_LIMITS, q.ResourceLimits, putResourceLimits)
	put(w, want(qos.MaskTransportPriority), PID_TRANSPORT_PRIORITY, q.TransportPriority, putInt32)
	put(w, want(qos.MaskLifespan), PID_LIFESPAN, q.Lifespan, putDuration)
	put(w, want(qos.MaskUserData), PID_USER_DATA, q.UserData, putOctets)
	put(w, want(qos.MaskOwnership), PID_OWNERSHIP, q.Ownership, putKind[qos.OwnershipKind])
	put(w, want(qos.MaskOwnershipStrength), PID_OWNERSHIP_STRENGTH, q.OwnershipStrength, putInt32)
	put(w, want(qos.MaskTimeBasedFilter), PID_TIME_BASED_FILTER, q.TimeBasedFilter, putDuration)
	put(w, want(qos.MaskReaderDataLifecycle), PID_PRISMTECH_READER_DATA_LIFECYCLE, q.ReaderDataLifecycle, putReaderDataLifecycle)
	put(w, want(qos.MaskWriterDataLifecycle), PID_PRISMTECH_WRITER_DATA_LIFECYCLE, q.WriterDataLifecycle, putWriterDataLifecycle)
	put(w, want(qos.MaskRelaxedQoSMatching), PID_PRISMTECH_RELAXED_QOS_MATCHING, q.RelaxedQoSMatching, putBool)
	put(w, want(qos.MaskReaderLifespan), PID_PRISMTECH_READER_LIFESPAN, q.ReaderLifespan, putReaderLifespan)
	put(w, want(qos.MaskSubscriptionKeys), PID_PRISMTECH_SUBSCRIPTION_KEYS, q.SubscriptionKeys, putSubscriptionKeys)
	put(w, want(qos.MaskEntityFactory), PID_PRISMTECH_ENTITY_FACTORY, q.EntityFactory, putBool)
	put(w, want(qos.MaskSynchronousEndpoint), PID_PRISMTECH_SYNCHRONOUS_ENDPOINT, q.SynchronousEndpoint, putBool)
	put(w, want(qos.MaskRTITypecode), PID_RTI_TYPECODE, q.RTITypecode, putOctets)
	// Ignore local is never sent
}

func (w *paramWriter) plist(p *Plist, wanted Mask) {
	want := func(m Mask) bool { return wanted&m != 0 }

	put(w, want(MaskProtocolVersion), PID_PROTOCOL_VERSION, p.ProtocolVersion, putProtocolVersion)
	put(w, want(MaskVendorID), PID_VENDORID, p.VendorID, putVendorID)

	w.locators(want(MaskUnicastLocator), PID_UNICAST_LOCATOR, p.UnicastLocators)
	w.locators(want(MaskMulticastLocator), PID_MULTICAST_LOCATOR, p.MulticastLocators)
	w.locators(want(MaskDefaultUnicastLocator), PID_DEFAULT_UNICAST_LOCATOR, p.DefaultUnicastLocators)
	w.locators(want(MaskDefaultMulticastLocator), PID_DEFAULT_MULTICAST_LOCATOR, p.DefaultMulticastLocators)
	w.locators(want(MaskMetatrafficUnicastLocator), PID_METATRAFFIC_UNICAST_LOCATOR, p.MetatrafficUnicastLocators)
	w.locators(want(MaskMetatrafficMulticastLocator), PID_METATRAFFIC_MULTICAST_LOCATOR, p.MetatrafficMulticastLocators)

	put(w, want(MaskExpectsInlineQoS), PID_EXPECTS_INLINE_QOS, p.ExpectsInlineQoS, putBool)
	put(w, want(MaskParticipantManualLivelinessCount), PID_PARTICIPANT_MANUAL_LIVELINESS_COUNT, p.ManualLivelinessCount, putInt32)
	put(w, want(MaskParticipantLeaseDuration), PID_PARTICIPANT_LEASE_DURATION, p.ParticipantLeaseDuration, putDuration)
	put(w, want(MaskParticipantGUID), PID_PARTICIPANT_GUID, p.ParticipantGUID, putGUID)
	put(w, want(MaskBuiltinEndpointSet), PID_BUILTIN_ENDPOINT_SET, p.BuiltinEndpointSet, putUint32)
	put(w, want(MaskKeyHash), PID_KEYHASH, p.KeyHash, putKeyHash)
	put(w, want(MaskStatusInfo), PID_STATUSINFO, p.StatusInfo, putStatusInfo)
	put(w, want(MaskCoherentSet), PID_COHERENT_SET, p.CoherentSet, putSequenceNumber)

	// The standard parameter is not defined by 2.1
	endpointPID := PID_ENDPOINT_GUID
	if w.policy.Pedantic {
		endpointPID = PID_PRISMTECH_ENDPOINT_GUID
	}
	put(w, want(MaskEndpointGUID), endpointPID, p.EndpointGUID, putGUID)
	put(w, want(MaskGroupGUID), PID_GROUP_GUID, p.GroupGUID, putGUID)
	put(w, want(MaskPrismTechBuiltinEndpointSet), PID_PRISMTECH_BUILTIN_ENDPOINT_SET, p.PrismTechBuiltinEndpointSet, putUint32)
	put(w, want(MaskParticipantVersionInfo), PID_PRISMTECH_PARTICIPANT_VERSION_INFO, p.ParticipantVersionInfo, putParticipantVersionInfo)
	put(w, want(MaskEntityName), PID_ENTITY_NAME, p.EntityName, putString)
	put(w, want(MaskNodeName), PID_PRISMTECH_NODE_NAME, p.NodeName, putString)
	put(w, want(MaskExecName), PID_PRISMTECH_EXEC_NAME, p.ExecName, putString)
	put(w, want(MaskProcessID), PID_PRISMTECH_PROCESS_ID, p.ProcessID, putUint32)
	put(w, want(MaskServiceType), PID_PRISMTECH_SERVICE_TYPE, p.ServiceType, putUint32)
	put(w, want(MaskTypeDescription), PID_PRISMTECH_TYPE_DESCRIPTION, p.TypeDescription, putString)
	put(w, want(MaskEOTInfo), PID_PRISMTECH_EOTINFO, p.EOTInfo, putEOTInfo)
}

// locators writes one parameter per locator
func (w *paramWriter) locators(want bool, pid PID, ls Locators) {
	if !want {
		return
	}
	for _, l := range ls {
		w.param(pid, func(e *coder.Encoder) error {
			encodeLocator(e, l)
			return nil
		})
	}
}

func putString(e *coder.Encoder, s qos.String) error {
	return e.PutString(s.Bytes())
}

func putOctets(e *coder.Encoder, o qos.Octets) error {
	return e.PutOctetSeq(o.Bytes())
}

func putStringSeq(e *coder.Encoder, seq qos.StringSeq) error {
	return e.PutStringSeq(seq.Bytes())
}

func putInt32(e *coder.Encoder, v int32) error {
	e.PutInt32(v)
	return nil
}

func putUint32(e *coder.Encoder, v uint32) error {
	e.PutUint32(v)
	return nil
}

func putBool(e *coder.Encoder, v bool) error {
	e.PutBool(v)
	return nil
}

func putKind[K ~uint32](e *coder.Encoder, k K) error {
	e.PutUint32(uint32(k))
	return nil
}

func putDuration(e *coder.Encoder, d qos.Duration) error {
	writeDuration(e, d)
	return nil
}

// The write* helpers cannot fail, and are shared by the composite policies
func writeDuration(e *coder.Encoder, d qos.Duration) {
	e.PutDuration(d.Sec, d.Frac)
}

func putPresentation(e *coder.Encoder, p qos.Presentation) error {
	e.PutUint32(uint32(p.AccessScope))
	e.PutBool(p.CoherentAccess)
	e.PutBool(p.OrderedAccess)
	return nil
}

func putHistory(e *coder.Encoder, h qos.History) error {
	writeHistory(e, h)
	return nil
}

func writeHistory(e *coder.Encoder, h qos.History) {
	e.PutUint32(uint32(h.Kind))
	e.PutInt32(h.Depth)
}

func putResourceLimits(e *coder.Encoder, r qos.ResourceLimits) error {
	writeResourceLimits(e, r)
	return nil
}

func writeResourceLimits(e *coder.Encoder, r qos.ResourceLimits) {
	e.PutInt32(r.MaxSamples)
	e.PutInt32(r.MaxInstances)
	e.PutInt32(r.MaxSamplesPerInstance)
}

func putDurabilityService(e *coder.Encoder, d qos.DurabilityService) error {
	writeDuration(e, d.ServiceCleanupDelay)
	writeHistory(e, d.History)
	writeResourceLimits(e, d.ResourceLimits)
	return nil
}

func putLiveliness(e *coder.Encoder, l qos.Liveliness) error {
	e.PutUint32(uint32(l.Kind))
	return putDuration(e, l.LeaseDuration)
}

func (w *paramWriter) putReliability(e *coder.Encoder, r qos.Reliability) error {
	bestEffort, reliable := w.policy.reliabilityWireKinds()
	switch r.Kind {
	case qos.BestEffort:
		e.PutUint32(bestEffort)
	case qos.Reliable:
		e.PutUint32(reliable)
	default:
		return errors.WithFieldError(errors.ErrInvalidValue, "kind")
	}
	return putDuration(e, r.MaxBlockingTime)
}

func putReaderDataLifecycle(e *coder.Encoder, r qos.ReaderDataLifecycle) error {
	writeDuration(e, r.AutopurgeNowriterSamplesDelay)
	writeDuration(e, r.AutopurgeDisposedSamplesDelay)
	e.PutBool(r.AutopurgeDisposeAll)
	e.PutBool(r.EnableInvalidSamples)
	e.Align()
	e.PutUint32(uint32(r.InvalidSampleVisibility))
	return nil
}

func putWriterDataLifecycle(e *coder.Encoder, w qos.WriterDataLifecycle) error {
	e.PutBool(w.AutodisposeUnregisteredInstances)
	e.Align()
	writeDuration(e, w.AutounregisterInstanceDelay)
	writeDuration(e, w.AutopurgeSuspendedSamplesDelay)
	return nil
}

func putReaderLifespan(e *coder.Encoder, r qos.ReaderLifespan) error {
	e.PutBool(r.UseLifespan)
	e.Align()
	return putDuration(e, r.Duration)
}

func putSubscriptionKeys(e *coder.Encoder, k qos.SubscriptionKeys) error {
	e.PutBool(k.UseKeyList)
	e.Align()
	return putStringSeq(e, k.KeyList)
}

func putProtocolVersion(e *coder.Encoder, v ProtocolVersion) error {
	e.PutUint8(v.Major)
	e.PutUint8(v.Minor)
	return nil
}

func putVendorID(e *coder.Encoder, v VendorID) error {
	e.PutFixed(v[:])
	return nil
}

func putGUID(e *coder.Encoder, g GUID) error {
	encodeGUID(e, g)
	return nil
}

func putKeyHash(e *coder.Encoder, k KeyHash) error {
	e.PutFixed(k[:])
	return nil
}

// putStatusInfo writes the status info big endian, adding the OpenSplice
// extension word only when the auto flag is set
func putStatusInfo(e *coder.Encoder, v uint32) error {
	e.PutBigUint32(v & STATUSINFO_STANDARDIZED)
	if v&STATUSINFO_OSPL_AUTO != 0 {
		e.PutBigUint32(STATUSINFOX_OSPL_AUTO)
	}
	return nil
}

func putSequenceNumber(e *coder.Encoder, sn SequenceNumber) error {
	e.PutInt32(int32(int64(sn) >> 32))
	e.PutUint32(uint32(sn))
	return nil
}

func putParticipantVersionInfo(e *coder.Encoder, v ParticipantVersionInfo) error {
	e.PutUint32(v.Version)
	e.PutUint32(v.Flags)
	for _, u := range v.Unused {
		e.PutUint32(u)
	}
	return putString(e, v.Internals)
}

func putEOTInfo(e *coder.Encoder, v EOTInfo) error {
	e.PutUint32(v.TransactionID)
	e.PutUint32(uint32(len(v.Groups)))
	for _, g := range v.Groups {
		e.PutBigUint32(uint32(g.Writer))
		e.PutUint32(g.TransactionID)
	}
	return nil
}
