// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package plist

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.e43.eu/ddsi/internal/coder"
	ierrors "go.e43.eu/ddsi/internal/errors"
	"go.e43.eu/ddsi/qos"
)

func TestEncodeWireBytes(t *testing.T) {
	q := &qos.QoS{
		TopicName:   qos.Ptr(qos.NewString("ab")),
		Durability:  qos.Ptr(qos.TransientLocal),
		Reliability: &qos.Reliability{Kind: qos.Reliable, MaxBlockingTime: qos.Duration{Sec: 1}},
		IgnoreLocal: qos.Ptr(qos.IgnoreLocalProcess),
	}

	testcases := []struct {
		name   string
		enc    coder.Encoding
		policy Policy
		expect []byte
	}{
		{"BE", coder.PL_CDR_BE, Policy{}, []byte{
			0x00, 0x05, 0x00, 0x08, 0x00, 0x00, 0x00, 0x03, 'a', 'b', 0x00, 0x00,
			0x00, 0x1d, 0x00, 0x04, 0x00, 0x00, 0x00, 0x01,
			0x00, 0x1a, 0x00, 0x0c, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
			0x00, 0x01, 0x00, 0x00,
		}},
		{"LE", coder.PL_CDR_LE, Policy{}, []byte{
			0x05, 0x00, 0x08, 0x00, 0x03, 0x00, 0x00, 0x00, 'a', 'b', 0x00, 0x00,
			0x1d, 0x00, 0x04, 0x00, 0x01, 0x00, 0x00, 0x00,
			0x1a, 0x00, 0x0c, 0x00, 0x02, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0x01, 0x00, 0x00, 0x00,
		}},
		{"LEPedantic", coder.PL_CDR_LE, Policy{Pedantic: true}, []byte{
			0x05, 0x00, 0x08, 0x00, 0x03, 0x00, 0x00, 0x00, 'a', 'b', 0x00, 0x00,
			0x1d, 0x00, 0x04, 0x00, 0x01, 0x00, 0x00, 0x00,
			0x1a, 0x00, 0x0c, 0x00, 0x03, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0x01, 0x00, 0x00, 0x00,
		}},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			enc := Encoder{Policy: tc.policy}
			b, err := enc.EncodeQoS(q, tc.enc, qos.MaskAll)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, b)
		})
	}

	// Only wanted policies are written
	var enc Encoder
	b, err := enc.EncodeQoS(q, coder.PL_CDR_BE, qos.MaskDurability)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x1d, 0x00, 0x04, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00}, b)

	b, err = enc.EncodeQoS(&qos.QoS{}, coder.PL_CDR_LE, qos.MaskAll)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x00}, b)
}

func TestEncodeEndpointGUID(t *testing.T) {
	p := &Plist{EndpointGUID: &GUID{testGUIDPrefix, 0x107}}
	body := append(testGUIDPrefix[:], 0x00, 0x00, 0x01, 0x07)

	var enc Encoder
	b, err := enc.Encode(p, coder.PL_CDR_BE, MaskAll, 0)
	require.NoError(t, err)
	expect := append([]byte{0x00, 0x5a, 0x00, 0x10}, body...)
	assert.Equal(t, append(expect, 0x00, 0x01, 0x00, 0x00), b)

	enc.Policy.Pedantic = true
	b, err = enc.Encode(p, coder.PL_CDR_BE, MaskAll, 0)
	require.NoError(t, err)
	expect = append([]byte{0x80, 0x04, 0x00, 0x10}, body...)
	assert.Equal(t, append(expect, 0x00, 0x01, 0x00, 0x00), b)
}

func TestEncodeStatusInfo(t *testing.T) {
	var enc Encoder
	p := &Plist{StatusInfo: qos.Ptr(STATUSINFO_DISPOSE)}
	b, err := enc.Encode(p, coder.PL_CDR_LE, MaskAll, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x71, 0x00, 0x04, 0x00, 0x00, 0x00, 0x00, 0x01,
		0x01, 0x00, 0x00, 0x00,
	}, b)

	p.StatusInfo = qos.Ptr(STATUSINFO_UNREGISTER | STATUSINFO_OSPL_AUTO)
	b, err = enc.Encode(p, coder.PL_CDR_LE, MaskAll, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x71, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x01,
		0x01, 0x00, 0x00, 0x00,
	}, b)
}

func TestEncodeCompositePolicies(t *testing.T) {
	q := &qos.QoS{
		DurabilityService: &qos.DurabilityService{
			ServiceCleanupDelay: qos.Duration{Sec: 2, Frac: 3},
			History:             qos.History{Kind: qos.KeepAll, Depth: 4},
			ResourceLimits:      qos.ResourceLimits{MaxSamples: 5, MaxInstances: 6, MaxSamplesPerInstance: 7},
		},
		ReaderDataLifecycle: &qos.ReaderDataLifecycle{
			AutopurgeNowriterSamplesDelay: qos.Duration{Sec: 1},
			AutopurgeDisposedSamplesDelay: qos.Duration{Sec: 2},
			AutopurgeDisposeAll:           true,
			InvalidSampleVisibility:       qos.AllInvalidSamples,
		},
		WriterDataLifecycle: &qos.WriterDataLifecycle{
			AutodisposeUnregisteredInstances: true,
			AutounregisterInstanceDelay:      qos.Duration{Sec: 3},
			AutopurgeSuspendedSamplesDelay:   qos.Duration{Sec: 4},
		},
	}

	var enc Encoder
	b, err := enc.EncodeQoS(q, coder.PL_CDR_BE, qos.MaskAll)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x00, 0x1e, 0x00, 0x1c,
		0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x03,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x04,
		0x00, 0x00, 0x00, 0x05, 0x00, 0x00, 0x00, 0x06, 0x00, 0x00, 0x00, 0x07,

		0x80, 0x02, 0x00, 0x18,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x02,

		0x80, 0x03, 0x00, 0x14,
		0x01, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x03, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00, 0x00,

		0x00, 0x01, 0x00, 0x00,
	}, b)
}

func TestEncodeErrors(t *testing.T) {
	var enc Encoder
	_, err := enc.EncodeQoS(&qos.QoS{}, 0x0001, qos.MaskAll)
	assert.ErrorIs(t, err, ierrors.ErrUnsupportedEncoding)

	q := &qos.QoS{Reliability: &qos.Reliability{Kind: 7}}
	_, err = enc.EncodeQoS(q, coder.PL_CDR_BE, qos.MaskAll)
	assert.ErrorIs(t, err, ierrors.ErrInvalidValue)
	var ferr ierrors.FieldError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, "RELIABILITY.kind", ferr.Path)

	// The encoder is usable again afterwards
	_, err = enc.EncodeQoS(&qos.QoS{}, coder.PL_CDR_BE, qos.MaskAll)
	assert.NoError(t, err)
}

// fullQoS has every policy which is sent on the wire
func fullQoS() *qos.QoS {
	q := qos.DefaultWriter()
	q.TopicName = qos.Ptr(qos.NewString("Square"))
	q.TypeName = qos.Ptr(qos.NewString("ShapeType"))
	q.Presentation = &qos.Presentation{AccessScope: qos.TopicPresentation, CoherentAccess: true, OrderedAccess: true}
	q.Partition = qos.Ptr(qos.NewStringSeq("a", "b*", ""))
	q.GroupData = qos.Ptr(qos.NewOctets([]byte{1}))
	q.TopicData = qos.Ptr(qos.NewOctets([]byte{1, 2, 3, 4, 5}))
	q.UserData = qos.Ptr(qos.NewOctets(nil))
	q.Durability = qos.Ptr(qos.Persistent)
	q.DurabilityService.History = qos.History{Kind: qos.KeepAll}
	q.Liveliness = &qos.Liveliness{Kind: qos.ManualByParticipantLiveliness, LeaseDuration: qos.Duration{Sec: 3, Frac: 5}}
	q.Ownership = qos.Ptr(qos.ExclusiveOwnership)
	q.OwnershipStrength = qos.Ptr[int32](-10)
	q.TimeBasedFilter = qos.Ptr(qos.Duration{Frac: 1 << 31})
	q.ReaderDataLifecycle = &qos.ReaderDataLifecycle{
		AutopurgeNowriterSamplesDelay: qos.Duration{Sec: 1},
		AutopurgeDisposedSamplesDelay: qos.Infinite,
		AutopurgeDisposeAll:           true,
		InvalidSampleVisibility:       qos.AllInvalidSamples,
	}
	q.WriterDataLifecycle.AutodisposeUnregisteredInstances = false
	q.RelaxedQoSMatching = qos.Ptr(true)
	q.ReaderLifespan = &qos.ReaderLifespan{UseLifespan: true, Duration: qos.Duration{Sec: 60}}
	q.SubscriptionKeys = &qos.SubscriptionKeys{UseKeyList: true, KeyList: qos.NewStringSeq("id", "color")}
	q.EntityFactory = qos.Ptr(false)
	q.SynchronousEndpoint = qos.Ptr(true)
	return q
}

func fullPlist() *Plist {
	v6 := ipv4(1, 2, 3, 4)
	v6[0] = 0xfe
	return &Plist{
		QoS:                          *fullQoS(),
		ProtocolVersion:              qos.Ptr(ProtocolVersion2_1),
		VendorID:                     qos.Ptr(VendorEclipse),
		UnicastLocators:              Locators{IPv4Locator(LOCATOR_KIND_UDPv4, [4]byte{10, 0, 0, 1}, 7410), {LOCATOR_KIND_UDPv6, 7410, v6}},
		MulticastLocators:            Locators{IPv4Locator(LOCATOR_KIND_UDPv4, [4]byte{239, 255, 0, 1}, 7401)},
		DefaultUnicastLocators:       Locators{IPv4Locator(LOCATOR_KIND_UDPv4, [4]byte{10, 0, 0, 1}, 7412)},
		DefaultMulticastLocators:     Locators{IPv4Locator(LOCATOR_KIND_UDPv4, [4]byte{239, 255, 0, 1}, 7403)},
		MetatrafficUnicastLocators:   Locators{IPv4Locator(LOCATOR_KIND_TCPv4, [4]byte{10, 0, 0, 1}, 7410)},
		MetatrafficMulticastLocators: Locators{IPv4Locator(LOCATOR_KIND_UDPv4, [4]byte{239, 255, 0, 1}, 7400)},
		ExpectsInlineQoS:             qos.Ptr(true),
		ManualLivelinessCount:        qos.Ptr[int32](12),
		ParticipantLeaseDuration:     qos.Ptr(qos.Duration{Sec: 20}),
		ParticipantGUID:              &GUID{testGUIDPrefix, ENTITYID_PARTICIPANT},
		GroupGUID:                    &GUID{testGUIDPrefix, 0x1c8},
		EndpointGUID:                 &GUID{testGUIDPrefix, 0x107},
		BuiltinEndpointSet:           qos.Ptr[uint32](0x3f),
		PrismTechBuiltinEndpointSet:  qos.Ptr[uint32](1),
		EntityName:                   qos.Ptr(qos.NewString("reader")),
		KeyHash:                      &KeyHash{15: 1},
		StatusInfo:                   qos.Ptr(STATUSINFO_DISPOSE | STATUSINFO_OSPL_AUTO),
		CoherentSet:                  qos.Ptr(SequenceNumber(1<<33 + 5)),
		ParticipantVersionInfo: &ParticipantVersionInfo{
			Version:   1,
			Flags:     2,
			Unused:    [3]uint32{3, 4, 5},
			Internals: qos.NewString("internals"),
		},
		NodeName:        qos.Ptr(qos.NewString("node")),
		ExecName:        qos.Ptr(qos.NewString("exec")),
		ProcessID:       qos.Ptr[uint32](1234),
		ServiceType:     qos.Ptr[uint32](0),
		TypeDescription: qos.Ptr(qos.NewString("<struct/>")),
		EOTInfo:         &EOTInfo{TransactionID: 7, Groups: []EOTGroup{{0x102, 1}, {0x202, 2}}},
	}
}

func TestRoundTripQoS(t *testing.T) {
	q := fullQoS()
	require.NoError(t, q.Validate())

	// Never sent
	expect := q.Clone()
	expect.IgnoreLocal = nil

	for _, policy := range []Policy{{}, {Pedantic: true}} {
		for _, encoding := range encodings {
			enc := Encoder{Policy: policy}
			b, err := enc.EncodeQoS(q, encoding, qos.MaskAll)
			require.NoError(t, err)

			dec := Decoder{Policy: policy}
			p, n, err := dec.Decode(source(encoding, b), MaskAll, qos.MaskAll)
			require.NoError(t, err)
			assert.Equal(t, len(b), n)
			assert.Empty(t, cmp.Diff(expect, &p.QoS, plistCmp...), "%v %+v", encoding, policy)
			assert.Equal(t, Mask(0), p.Present())
		}
	}
}

func TestRoundTripPlist(t *testing.T) {
	p := fullPlist()
	expect := p.Clone()
	expect.QoS.IgnoreLocal = nil

	for _, policy := range []Policy{{}, {Pedantic: true}, {Strict: true}} {
		for _, encoding := range encodings {
			enc := Encoder{Policy: policy}
			b, err := enc.Encode(p, encoding, MaskAll, qos.MaskAll)
			require.NoError(t, err)

			dec := Decoder{Policy: policy}
			got, n, err := dec.Decode(source(encoding, b), MaskAll, qos.MaskAll)
			require.NoError(t, err)
			assert.Equal(t, len(b), n)
			assert.Empty(t, cmp.Diff(expect, got, plistCmp...), "%v %+v", encoding, policy)
			assert.Equal(t, expect.Present(), got.Present())
			assert.Equal(t, expect.QoS.Present(), got.QoS.Present())

			// Nothing unwanted is kept
			got, _, err = dec.Decode(source(encoding, b), MaskEntityName, qos.MaskTopicName)
			require.NoError(t, err)
			assert.Nil(t, got.NodeName)
			assert.Nil(t, got.QoS.TypeName)
			assert.Empty(t, got.UnicastLocators)
			assert.Equal(t, "reader", got.EntityName.String())
			assert.Equal(t, "Square", got.QoS.TopicName.String())
		}
	}

	// Encoding a subset decodes as that subset
	var enc Encoder
	b, err := enc.Encode(p, coder.PL_CDR_LE, MaskParticipantGUID|MaskUnicastLocator, qos.MaskDurability)
	require.NoError(t, err)
	var dec Decoder
	got, _, err := dec.Decode(source(coder.PL_CDR_LE, b), MaskAll, qos.MaskAll)
	require.NoError(t, err)
	assert.Equal(t, MaskParticipantGUID|MaskUnicastLocator, got.Present())
	assert.Equal(t, qos.MaskDurability, got.QoS.Present())
	assert.Equal(t, p.UnicastLocators, got.UnicastLocators)
}

func BenchmarkEncode(b *testing.B) {
	p := fullPlist()
	var enc Encoder
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := enc.Encode(p, coder.PL_CDR_LE, MaskAll, qos.MaskAll); err != nil {
			b.Fatalf("Encode: %s", err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	var enc Encoder
	buf, err := enc.Encode(fullPlist(), coder.PL_CDR_LE, MaskAll, qos.MaskAll)
	if err != nil {
		b.Fatalf("Encode: %s", err)
	}
	src := source(coder.PL_CDR_LE, buf)

	b.Run("All", func(b *testing.B) {
		var dec Decoder
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, _, err := dec.Decode(src, MaskAll, qos.MaskAll); err != nil {
				b.Fatalf("Decode: %s", err)
			}
		}
	})

	b.Run("Nothing", func(b *testing.B) {
		var dec Decoder
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, _, err := dec.Decode(src, 0, 0); err != nil {
				b.Fatalf("Decode: %s", err)
			}
		}
	})

	b.Run("QuickScan", func(b *testing.B) {
		var dec Decoder
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, _, err := dec.QuickScan(src); err != nil {
				b.Fatalf("QuickScan: %s", err)
			}
		}
	})
}
