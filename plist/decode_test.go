// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package plist

import (
	"errors"
	"fmt"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ddsiinterfaces "go.e43.eu/ddsi/interfaces"
	"go.e43.eu/ddsi/internal/coder"
	ierrors "go.e43.eu/ddsi/internal/errors"
	"go.e43.eu/ddsi/qos"
)

func TestDecodeWireBytes(t *testing.T) {
	testcases := []struct {
		enc coder.Encoding
		buf []byte
	}{
		{coder.PL_CDR_BE, []byte{0x00, 0x1d, 0x00, 0x04, 0, 0, 0, 1, 0x00, 0x01, 0x00, 0x00}},
		{coder.PL_CDR_LE, []byte{0x1d, 0x00, 0x04, 0x00, 1, 0, 0, 0, 0x01, 0x00, 0x00, 0x00}},
	}

	for _, tc := range testcases {
		t.Run(tc.enc.String(), func(t *testing.T) {
			var dec Decoder
			p, n, err := dec.Decode(source(tc.enc, tc.buf), 0, 0)
			require.NoError(t, err)
			assert.Equal(t, 12, n)
			require.NotNil(t, p.QoS.Durability)
			assert.Equal(t, qos.TransientLocal, *p.QoS.Durability)
			assert.Equal(t, qos.MaskDurability, p.QoS.Present())
			assert.Equal(t, Mask(0), p.Present())
		})
	}
}

func TestDecodeFraming(t *testing.T) {
	for _, enc := range encodings {
		t.Run(enc.String(), func(t *testing.T) {
			var dec Decoder

			// Sentinel alone; its length is not checked and what follows it
			// is not read
			l := newList(enc)
			buf := append(l.raw(PID_SENTINEL, 12, nil).b, 0xde, 0xad)
			p, n, err := dec.Decode(source(enc, buf), MaskAll, qos.MaskAll)
			require.NoError(t, err)
			assert.Equal(t, 4, n)
			assert.Equal(t, Mask(0), p.Present())
			assert.Equal(t, qos.Mask(0), p.QoS.Present())

			// Padding is skipped
			l = newList(enc)
			buf = l.param(PID_PAD, make([]byte, 8)).sentinel()
			_, n, err = dec.Decode(source(enc, buf), MaskAll, qos.MaskAll)
			require.NoError(t, err)
			assert.Equal(t, 16, n)

			// No sentinel
			l = newList(enc)
			buf = l.param(PID_DURABILITY, l.u32(0)).b
			p, n, err = dec.Decode(source(enc, buf), MaskAll, qos.MaskAll)
			assert.ErrorIs(t, err, ierrors.ErrMissingSentinel)
			assert.ErrorIs(t, err, ierrors.ErrInvalid)
			assert.Nil(t, p)
			assert.Equal(t, 0, n)

			// Truncated header
			_, _, err = dec.Decode(source(enc, append(buf, 0, 1)), MaskAll, qos.MaskAll)
			assert.ErrorIs(t, err, ierrors.ErrMissingSentinel)

			// Length beyond the end of the buffer
			l = newList(enc)
			buf = l.param(PID_DURABILITY, l.u32(0)).raw(PID_TOPIC_NAME, 8, []byte{0, 0, 0, 0}).b
			p, _, err = dec.Decode(source(enc, buf), MaskAll, qos.MaskAll)
			assert.Nil(t, p)
			var lerr ierrors.LengthError
			require.True(t, errors.As(err, &lerr))
			assert.Equal(t, ierrors.LengthError{Actual: 8, Max: 4}, lerr)
			var perr ierrors.ParamError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, uint16(PID_TOPIC_NAME), perr.PID)
			assert.Equal(t, "TOPIC_NAME", perr.Name)
			assert.Equal(t, 8, perr.Offset)

			// Length not a multiple of 4
			l = newList(enc)
			buf = l.raw(PID_DURABILITY, 2, []byte{0, 0}).sentinel()
			_, _, err = dec.Decode(source(enc, buf), MaskAll, qos.MaskAll)
			assert.ErrorIs(t, err, ierrors.ErrUnaligned)
		})
	}
}

func TestDecodeUnsupportedEncoding(t *testing.T) {
	var dec Decoder
	_, _, err := dec.Decode(Source{Buf: []byte{0, 1, 0, 0}, Encoding: 0x0001}, MaskAll, qos.MaskAll)
	assert.ErrorIs(t, err, ierrors.ErrUnsupportedEncoding)
	assert.ErrorIs(t, err, ierrors.ErrInvalid)
}

func TestDecodeStrings(t *testing.T) {
	for _, enc := range encodings {
		t.Run(enc.String(), func(t *testing.T) {
			l := newList(enc)
			testcases := []struct {
				name    string
				payload []byte
				strict  bool
				wanted  qos.Mask
				expect  *string
				err     error
			}{
				{"Plain", l.str("abc"), false, qos.MaskTopicName, qos.Ptr("abc"), nil},
				{"Empty", l.str(""), false, qos.MaskTopicName, qos.Ptr(""), nil},
				{"ZeroLength", l.u32(0), false, qos.MaskTopicName, nil, ierrors.ErrMissingTerminator},
				{"Unterminated", append(l.u32(4), "abcd"...), false, qos.MaskTopicName, nil, ierrors.ErrMissingTerminator},
				{"TooLong", append(l.u32(9), "abc\x00"...), false, qos.MaskTopicName, nil, ierrors.ErrInvalid},
				{"UnwantedUnchecked", l.u32(0), false, 0, nil, nil},
				{"UnwantedStrict", l.u32(0), true, 0, nil, ierrors.ErrMissingTerminator},
				{"UnwantedStrictValid", l.str("abc"), true, 0, nil, nil},
			}

			for _, tc := range testcases {
				t.Run(tc.name, func(t *testing.T) {
					dec := Decoder{Policy: Policy{Strict: tc.strict}}
					buf := newList(enc).param(PID_TOPIC_NAME, tc.payload).sentinel()
					p, _, err := dec.Decode(source(enc, buf), 0, tc.wanted)
					if tc.err != nil {
						assert.ErrorIs(t, err, tc.err)
						return
					}
					require.NoError(t, err)
					if tc.expect == nil {
						assert.Nil(t, p.QoS.TopicName)
					} else {
						require.NotNil(t, p.QoS.TopicName)
						assert.Equal(t, *tc.expect, p.QoS.TopicName.String())
					}
				})
			}
		})
	}
}

func TestDecodeSequences(t *testing.T) {
	for _, enc := range encodings {
		t.Run(enc.String(), func(t *testing.T) {
			var dec Decoder
			l := newList(enc)
			buf := l.param(PID_PARTITION, l.strSeq("a", "bcde", "")).
				param(PID_USER_DATA, l.u32(3), []byte{1, 2, 3}).
				param(PID_GROUP_DATA, l.u32(0)).
				sentinel()

			p, _, err := dec.Decode(source(enc, buf), 0, qos.MaskAll)
			require.NoError(t, err)
			require.NotNil(t, p.QoS.Partition)
			assert.Equal(t, []string{"a", "bcde", ""}, p.QoS.Partition.Strings())
			require.NotNil(t, p.QoS.UserData)
			assert.Equal(t, []byte{1, 2, 3}, p.QoS.UserData.Bytes())
			require.NotNil(t, p.QoS.GroupData)
			assert.Equal(t, 0, p.QoS.GroupData.Len())

			// A count larger than can possibly fit
			l = newList(enc)
			buf = l.param(PID_PARTITION, l.u32(1000), l.str("a")).sentinel()
			_, _, err = dec.Decode(source(enc, buf), 0, qos.MaskAll)
			var lerr ierrors.LengthError
			assert.True(t, errors.As(err, &lerr))
		})
	}
}

func TestDecodeUnknownParameters(t *testing.T) {
	testcases := []struct {
		pid      PID
		strict   bool
		protocol ProtocolVersion
		err      error
	}{
		{0x4abc, false, ProtocolVersion2_1, ierrors.ErrIncompatible},
		{0xcabc, false, ProtocolVersion2_1, ierrors.ErrIncompatible},
		{0x4abc, false, ProtocolVersion{2, 5}, ierrors.ErrIncompatible},
		{0x8abc, true, ProtocolVersion2_1, nil},
		{0x0abc, false, ProtocolVersion2_1, nil},
		{0x0abc, true, ProtocolVersion2_1, ierrors.ErrUnknownParameter},
		{0x0abc, true, ProtocolVersion{2, 2}, nil},
		{PID_PROPERTY_LIST, true, ProtocolVersion2_1, nil},
	}

	for _, tc := range testcases {
		t.Run(fmt.Sprintf("%v/%v/%v", tc.pid, tc.strict, tc.protocol), func(t *testing.T) {
			dec := Decoder{Policy: Policy{Strict: tc.strict}}
			l := newList(coder.PL_CDR_LE)
			src := source(coder.PL_CDR_LE, l.param(tc.pid, l.u32(0xffffffff)).sentinel())
			src.ProtocolVersion = tc.protocol
			_, _, err := dec.Decode(src, MaskAll, qos.MaskAll)
			if tc.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.err)
		})
	}

	// Incompatible is a class of its own
	var dec Decoder
	l := newList(coder.PL_CDR_BE)
	_, _, err := dec.Decode(source(coder.PL_CDR_BE, l.param(0x4abc).sentinel()), MaskAll, qos.MaskAll)
	assert.ErrorIs(t, err, ierrors.ErrIncompatible)
	assert.False(t, errors.Is(err, ierrors.ErrInvalid))
}

func TestDecodeVendorSpecific(t *testing.T) {
	l := newList(coder.PL_CDR_LE)
	lifespan := qos.Duration{Sec: 1}
	buf := l.param(PID_PRISMTECH_READER_LIFESPAN, []byte{1, 0, 0, 0}, l.duration(lifespan)).
		param(PID_PRISMTECH_EXEC_NAME, l.str("ddsperf")).
		sentinel()

	var dec Decoder
	src := source(coder.PL_CDR_LE, buf)

	p, _, err := dec.Decode(src, MaskAll, qos.MaskAll)
	require.NoError(t, err)
	assert.Equal(t, &qos.ReaderLifespan{UseLifespan: true, Duration: lifespan}, p.QoS.ReaderLifespan)
	require.NotNil(t, p.ExecName)
	assert.Equal(t, "ddsperf", p.ExecName.String())

	for _, vendor := range []VendorID{VendorOpenSplice, VendorPrismTechJava} {
		src.Vendor = vendor
		p, _, err = dec.Decode(src, MaskAll, qos.MaskAll)
		require.NoError(t, err)
		assert.NotNil(t, p.QoS.ReaderLifespan, vendor.String())
	}

	for _, vendor := range []VendorID{VendorRTI, VendorTwinOaks, VendorUnknown} {
		src.Vendor = vendor
		p, _, err = dec.Decode(src, MaskAll, qos.MaskAll)
		require.NoError(t, err)
		assert.Nil(t, p.QoS.ReaderLifespan, vendor.String())
		assert.Nil(t, p.ExecName, vendor.String())
	}
}

func TestDecodeLocators(t *testing.T) {
	for _, enc := range encodings {
		t.Run(enc.String(), func(t *testing.T) {
			l := newList(enc)
			good := l.locator(LOCATOR_KIND_UDPv4, 7400, ipv4(192, 168, 1, 1))
			prefixed := ipv4(10, 0, 0, 1)
			prefixed[0] = 1

			testcases := []struct {
				name     string
				payload  []byte
				pedantic bool
				wanted   Mask
				expect   Locators
				err      error
			}{
				{"UDPv4", good, false, MaskUnicastLocator, Locators{IPv4Locator(LOCATOR_KIND_UDPv4, [4]byte{192, 168, 1, 1}, 7400)}, nil},
				{"Unwanted", good, false, 0, nil, nil},
				{"UDPv4PortZero", l.locator(LOCATOR_KIND_UDPv4, 0, ipv4(10, 0, 0, 1)), false, MaskUnicastLocator, nil, ierrors.ErrInvalidValue},
				{"UDPv4PortRange", l.locator(LOCATOR_KIND_UDPv4, 65536, ipv4(10, 0, 0, 1)), false, MaskUnicastLocator, nil, ierrors.ErrInvalidValue},
				{"UDPv4Prefix", l.locator(LOCATOR_KIND_UDPv4, 7400, prefixed), false, MaskUnicastLocator, nil, ierrors.ErrInvalidValue},
				{"UDPv6", l.locator(LOCATOR_KIND_UDPv6, 7400, prefixed), false, MaskUnicastLocator, Locators{{LOCATOR_KIND_UDPv6, 7400, prefixed}}, nil},
				{"Invalid", l.locator(LOCATOR_KIND_INVALID, 0, [16]byte{}), false, MaskUnicastLocator, nil, nil},
				{"InvalidWithPort", l.locator(LOCATOR_KIND_INVALID, 1, [16]byte{}), false, MaskUnicastLocator, nil, ierrors.ErrInvalidValue},
				{"Reserved", l.locator(LOCATOR_KIND_RESERVED, 1, prefixed), false, MaskUnicastLocator, nil, nil},
				{"UnknownKind", l.locator(0x1234, 1, prefixed), false, MaskUnicastLocator, nil, nil},
				{"UnknownKindPedantic", l.locator(0x1234, 1, prefixed), true, MaskUnicastLocator, nil, ierrors.ErrInvalidValue},
				{"Short", good[:20], false, MaskUnicastLocator, nil, ierrors.ErrShortBuffer},
			}

			for _, tc := range testcases {
				t.Run(tc.name, func(t *testing.T) {
					dec := Decoder{Policy: Policy{Pedantic: tc.pedantic}}
					buf := newList(enc).param(PID_UNICAST_LOCATOR, tc.payload).sentinel()
					p, _, err := dec.Decode(source(enc, buf), tc.wanted, 0)
					if tc.err != nil {
						assert.ErrorIs(t, err, tc.err)
						return
					}
					require.NoError(t, err)
					assert.Equal(t, tc.expect, p.UnicastLocators)
				})
			}
		})
	}
}

func TestDecodeMCGenLocator(t *testing.T) {
	l := newList(coder.PL_CDR_BE)
	addr := [16]byte{239, 255, 0, 1, 0, 4, 2}
	buf := l.param(PID_MULTICAST_LOCATOR, l.locator(LOCATOR_KIND_UDPv4MCGEN, 7401, addr)).sentinel()

	var dec Decoder
	p, _, err := dec.Decode(source(coder.PL_CDR_BE, buf), MaskAll, 0)
	require.NoError(t, err)
	assert.Equal(t, Locators{{LOCATOR_KIND_UDPv4MCGEN, 7401, addr}}, p.MulticastLocators)

	// Dropped when the transport does not do UDPv4
	dec.Policy.LocatorKinds = []LocatorKind{LOCATOR_KIND_UDPv6}
	p, _, err = dec.Decode(source(coder.PL_CDR_BE, buf), MaskAll, 0)
	require.NoError(t, err)
	assert.Empty(t, p.MulticastLocators)

	// Index beyond count
	addr[6] = 4
	buf = newList(coder.PL_CDR_BE).param(PID_MULTICAST_LOCATOR, l.locator(LOCATOR_KIND_UDPv4MCGEN, 7401, addr)).sentinel()
	dec.Policy.LocatorKinds = nil
	_, _, err = dec.Decode(source(coder.PL_CDR_BE, buf), MaskAll, 0)
	assert.ErrorIs(t, err, ierrors.ErrInvalidValue)
}

func TestDecodeIPAddressAndPort(t *testing.T) {
	for _, enc := range encodings {
		t.Run(enc.String(), func(t *testing.T) {
			l := newList(enc)
			buf := l.param(PID_DEFAULT_UNICAST_IPADDRESS, []byte{10, 0, 0, 1}).
				param(PID_DEFAULT_UNICAST_PORT, l.u32(7410)).
				param(PID_METATRAFFIC_UNICAST_PORT, l.u32(7411)).
				param(PID_METATRAFFIC_UNICAST_IPADDRESS, []byte{10, 0, 0, 2}).
				param(PID_METATRAFFIC_MULTICAST_IPADDRESS, []byte{239, 255, 0, 1}).
				sentinel()

			var dec Decoder
			p, _, err := dec.Decode(source(enc, buf), MaskAll, 0)
			require.NoError(t, err)
			assert.Equal(t, Locators{IPv4Locator(LOCATOR_KIND_UDPv4, [4]byte{10, 0, 0, 1}, 7410)}, p.UnicastLocators)
			assert.Equal(t, Locators{IPv4Locator(LOCATOR_KIND_UDPv4, [4]byte{10, 0, 0, 2}, 7411)}, p.MetatrafficUnicastLocators)
			// No port, so no locator
			assert.Empty(t, p.MetatrafficMulticastLocators)

			dec.Policy.Connected = true
			p, _, err = dec.Decode(source(enc, buf), MaskDefaultUnicastLocator, 0)
			require.NoError(t, err)
			assert.Equal(t, Locators{IPv4Locator(LOCATOR_KIND_TCPv4, [4]byte{10, 0, 0, 1}, 7410)}, p.UnicastLocators)
			assert.Empty(t, p.MetatrafficUnicastLocators)

			l = newList(enc)
			buf = l.param(PID_DEFAULT_UNICAST_PORT, l.u32(0)).sentinel()
			_, _, err = dec.Decode(source(enc, buf), MaskAll, 0)
			assert.ErrorIs(t, err, ierrors.ErrInvalidValue)
		})
	}
}

func TestDecodeReliability(t *testing.T) {
	blocking := qos.Duration{Frac: 1 << 30}
	testcases := []struct {
		wire     uint32
		pedantic bool
		expect   qos.ReliabilityKind
		ok       bool
	}{
		{1, false, qos.BestEffort, true},
		{2, false, qos.Reliable, true},
		{3, false, 0, false},
		{1, true, qos.BestEffort, true},
		{2, true, 0, false},
		{3, true, qos.Reliable, true},
	}

	for _, tc := range testcases {
		t.Run(fmt.Sprintf("%d/%v", tc.wire, tc.pedantic), func(t *testing.T) {
			dec := Decoder{Policy: Policy{Pedantic: tc.pedantic}}
			l := newList(coder.PL_CDR_LE)
			buf := l.param(PID_RELIABILITY, l.u32(tc.wire), l.duration(blocking)).sentinel()
			p, _, err := dec.Decode(source(coder.PL_CDR_LE, buf), 0, qos.MaskAll)
			if !tc.ok {
				assert.ErrorIs(t, err, ierrors.ErrInvalidValue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, &qos.Reliability{Kind: tc.expect, MaxBlockingTime: blocking}, p.QoS.Reliability)
		})
	}
}

func TestDecodeFixedPolicies(t *testing.T) {
	for _, enc := range encodings {
		t.Run(enc.String(), func(t *testing.T) {
			var dec Decoder
			l := newList(enc)
			buf := l.param(PID_PRESENTATION, l.u32(uint32(qos.GroupPresentation)), []byte{1, 0}).
				param(PID_LIVELINESS, l.u32(uint32(qos.ManualByTopicLiveliness)), l.duration(qos.Infinite)).
				param(PID_DEADLINE, l.duration(qos.Duration{Sec: 5})).
				param(PID_OWNERSHIP, l.u32(1)).
				param(PID_OWNERSHIP_STRENGTH, l.i32(-3)).
				param(PID_DESTINATION_ORDER, l.u32(1)).
				param(PID_HISTORY, l.u32(uint32(qos.KeepAll)), l.i32(0)).
				sentinel()

			p, _, err := dec.Decode(source(enc, buf), 0, qos.MaskAll)
			require.NoError(t, err)
			q := &p.QoS
			assert.Equal(t, &qos.Presentation{AccessScope: qos.GroupPresentation, CoherentAccess: true}, q.Presentation)
			assert.Equal(t, &qos.Liveliness{Kind: qos.ManualByTopicLiveliness, LeaseDuration: qos.Infinite}, q.Liveliness)
			assert.Equal(t, qos.Ptr(qos.Duration{Sec: 5}), q.Deadline)
			assert.Equal(t, qos.Ptr(qos.ExclusiveOwnership), q.Ownership)
			assert.Equal(t, qos.Ptr[int32](-3), q.OwnershipStrength)
			assert.Equal(t, qos.Ptr(qos.BySourceTimestamp), q.DestinationOrder)
			assert.Equal(t, &qos.History{Kind: qos.KeepAll}, q.History)
			// Completed from the history
			assert.Equal(t, &qos.ResourceLimits{MaxSamples: qos.LengthUnlimited, MaxInstances: qos.LengthUnlimited, MaxSamplesPerInstance: qos.LengthUnlimited}, q.ResourceLimits)

			bad := []struct {
				name string
				pid  PID
				body []byte
			}{
				{"ShortDeadline", PID_DEADLINE, l.i32(5)},
				{"NegativeDeadline", PID_DEADLINE, l.duration(qos.Duration{Sec: -5})},
				{"Durability", PID_DURABILITY, l.u32(4)},
				{"Ownership", PID_OWNERSHIP, l.u32(2)},
				{"Scope", PID_PRESENTATION, append(l.u32(3), 0, 0)},
				{"Bool", PID_PRESENTATION, append(l.u32(0), 2, 0)},
				{"HistoryDepth", PID_HISTORY, append(l.u32(uint32(qos.KeepLast)), l.i32(0)...)},
				{"Limits", PID_RESOURCE_LIMITS, append(append(l.i32(0), l.i32(-1)...), l.i32(-1)...)},
				{"Liveliness", PID_LIVELINESS, append(l.u32(3), l.duration(qos.Infinite)...)},
			}
			for _, tc := range bad {
				t.Run(tc.name, func(t *testing.T) {
					buf := newList(enc).param(tc.pid, tc.body).sentinel()
					p, _, err := dec.Decode(source(enc, buf), 0, qos.MaskAll)
					assert.ErrorIs(t, err, ierrors.ErrInvalid)
					assert.Nil(t, p)
				})
			}
		})
	}
}

func TestDecodeHistoryAndLimits(t *testing.T) {
	var dec Decoder
	l := newList(coder.PL_CDR_BE)
	buf := l.param(PID_HISTORY, l.u32(uint32(qos.KeepLast)), l.i32(5)).
		param(PID_RESOURCE_LIMITS, l.i32(-1), l.i32(-1), l.i32(4)).
		sentinel()
	_, _, err := dec.Decode(source(coder.PL_CDR_BE, buf), 0, qos.MaskAll)
	assert.ErrorIs(t, err, ierrors.ErrInconsistent)

	l = newList(coder.PL_CDR_BE)
	buf = l.param(PID_RESOURCE_LIMITS, l.i32(10), l.i32(-1), l.i32(4)).sentinel()
	p, _, err := dec.Decode(source(coder.PL_CDR_BE, buf), 0, qos.MaskAll)
	require.NoError(t, err)
	assert.Equal(t, &qos.History{Kind: qos.KeepLast, Depth: 1}, p.QoS.History)
}

func TestDecodeDurabilityService(t *testing.T) {
	zero := make([]byte, 28)

	testcases := []struct {
		name       string
		strict     bool
		vendor     VendorID
		protocol   ProtocolVersion
		durability *qos.DurabilityKind
		dropped    bool
	}{
		{"Lenient", false, VendorRTI, ProtocolVersion2_1, nil, true},
		{"LenientTransientLocal", false, VendorRTI, ProtocolVersion2_1, qos.Ptr(qos.TransientLocal), true},
		{"LenientTransient", false, VendorRTI, ProtocolVersion2_1, qos.Ptr(qos.Transient), false},
		{"LenientEclipse", false, VendorEclipse, ProtocolVersion2_1, nil, false},
		{"StrictTwinOaks", true, VendorTwinOaks, ProtocolVersion2_1, nil, true},
		{"StrictOther", true, VendorRTI, ProtocolVersion2_1, nil, false},
		{"Newer", true, VendorEclipse, ProtocolVersion{2, 3}, nil, true},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			dec := Decoder{Policy: Policy{Strict: tc.strict}}
			l := newList(coder.PL_CDR_LE)
			if tc.durability != nil {
				l.param(PID_DURABILITY, l.u32(uint32(*tc.durability)))
			}
			src := source(coder.PL_CDR_LE, l.param(PID_DURABILITY_SERVICE, zero).sentinel())
			src.Vendor = tc.vendor
			src.ProtocolVersion = tc.protocol

			p, _, err := dec.Decode(src, 0, qos.MaskAll)
			if !tc.dropped {
				assert.ErrorIs(t, err, ierrors.ErrInvalid)
				return
			}
			require.NoError(t, err)
			assert.Nil(t, p.QoS.DurabilityService)
		})
	}

	// A meaningful policy is kept whoever sends it
	var dec Decoder
	l := newList(coder.PL_CDR_LE)
	ds := qos.DurabilityService{
		ServiceCleanupDelay: qos.Duration{Sec: 1},
		History:             qos.History{Kind: qos.KeepLast, Depth: 2},
		ResourceLimits:      qos.ResourceLimits{MaxSamples: -1, MaxInstances: -1, MaxSamplesPerInstance: -1},
	}
	buf := l.param(PID_DURABILITY_SERVICE,
		l.duration(ds.ServiceCleanupDelay),
		l.u32(uint32(ds.History.Kind)), l.i32(ds.History.Depth),
		l.i32(-1), l.i32(-1), l.i32(-1)).sentinel()
	p, _, err := dec.Decode(source(coder.PL_CDR_LE, buf), 0, qos.MaskAll)
	require.NoError(t, err)
	assert.Equal(t, &ds, p.QoS.DurabilityService)
}

func TestDecodeLifecycles(t *testing.T) {
	for _, enc := range encodings {
		t.Run(enc.String(), func(t *testing.T) {
			var dec Decoder
			l := newList(enc)
			d1, d2 := qos.Duration{Sec: 1}, qos.Duration{Sec: 2}

			// Flag only
			buf := l.param(PID_PRISMTECH_WRITER_DATA_LIFECYCLE, []byte{0}).
				param(PID_PRISMTECH_READER_DATA_LIFECYCLE, l.duration(d1), l.duration(d2)).
				sentinel()
			p, _, err := dec.Decode(source(enc, buf), 0, qos.MaskAll)
			require.NoError(t, err)
			assert.Equal(t, &qos.WriterDataLifecycle{
				AutodisposeUnregisteredInstances: false,
				AutounregisterInstanceDelay:      qos.Infinite,
				AutopurgeSuspendedSamplesDelay:   qos.Infinite,
			}, p.QoS.WriterDataLifecycle)
			assert.Equal(t, &qos.ReaderDataLifecycle{
				AutopurgeNowriterSamplesDelay: d1,
				AutopurgeDisposedSamplesDelay: d2,
				EnableInvalidSamples:          true,
				InvalidSampleVisibility:       qos.MinimumInvalidSamples,
			}, p.QoS.ReaderDataLifecycle)

			// Full
			l = newList(enc)
			buf = l.param(PID_PRISMTECH_WRITER_DATA_LIFECYCLE, []byte{1, 0, 0, 0}, l.duration(d1), l.duration(d2)).
				param(PID_PRISMTECH_READER_DATA_LIFECYCLE, l.duration(d1), l.duration(d2), []byte{1, 0, 0, 0}, l.u32(uint32(qos.AllInvalidSamples))).
				sentinel()
			p, _, err = dec.Decode(source(enc, buf), 0, qos.MaskAll)
			require.NoError(t, err)
			assert.Equal(t, &qos.WriterDataLifecycle{
				AutodisposeUnregisteredInstances: true,
				AutounregisterInstanceDelay:      d1,
				AutopurgeSuspendedSamplesDelay:   d2,
			}, p.QoS.WriterDataLifecycle)
			assert.Equal(t, &qos.ReaderDataLifecycle{
				AutopurgeNowriterSamplesDelay: d1,
				AutopurgeDisposedSamplesDelay: d2,
				AutopurgeDisposeAll:           true,
				EnableInvalidSamples:          false,
				InvalidSampleVisibility:       qos.AllInvalidSamples,
			}, p.QoS.ReaderDataLifecycle)

			// Too short for either form
			l = newList(enc)
			buf = l.param(PID_PRISMTECH_READER_DATA_LIFECYCLE, l.duration(d1)).sentinel()
			_, _, err = dec.Decode(source(enc, buf), 0, qos.MaskAll)
			assert.ErrorIs(t, err, ierrors.ErrShortBuffer)
		})
	}
}

func TestDecodeSubscriptionKeys(t *testing.T) {
	var dec Decoder
	l := newList(coder.PL_CDR_LE)
	buf := l.param(PID_PRISMTECH_SUBSCRIPTION_KEYS, []byte{1, 0, 0, 0}, l.strSeq("id", "name")).sentinel()
	p, _, err := dec.Decode(source(coder.PL_CDR_LE, buf), 0, qos.MaskAll)
	require.NoError(t, err)
	require.NotNil(t, p.QoS.SubscriptionKeys)
	assert.True(t, p.QoS.SubscriptionKeys.UseKeyList)
	assert.Equal(t, []string{"id", "name"}, p.QoS.SubscriptionKeys.KeyList.Strings())
}

func TestDecodeIgnoresMasks(t *testing.T) {
	var dec Decoder
	l := newList(coder.PL_CDR_BE)
	buf := l.param(PID_PRISMTECH_SUBSCRIPTION_KEYS, []byte{0, 0, 0, 0}, l.strSeq("id")).
		param(PID_PRISMTECH_PARTICIPANT_VERSION_INFO, l.u32(1), l.u32(2), l.u32(0), l.u32(0), l.u32(0), l.str("x")).
		sentinel()
	p, n, err := dec.Decode(source(coder.PL_CDR_BE, buf), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)

	require.NotNil(t, p.QoS.SubscriptionKeys)
	assert.False(t, p.QoS.SubscriptionKeys.UseKeyList)
	assert.Equal(t, []string{"id"}, p.QoS.SubscriptionKeys.KeyList.Strings())

	require.NotNil(t, p.ParticipantVersionInfo)
	assert.Equal(t, uint32(1), p.ParticipantVersionInfo.Version)
	assert.Equal(t, uint32(2), p.ParticipantVersionInfo.Flags)
	assert.Equal(t, "x", p.ParticipantVersionInfo.Internals.String())
}

func TestDecodeStatusInfo(t *testing.T) {
	for _, enc := range encodings {
		t.Run(enc.String(), func(t *testing.T) {
			var dec Decoder

			// Big endian regardless of encoding
			l := newList(enc)
			buf := l.param(PID_STATUSINFO, be32(STATUSINFO_DISPOSE|STATUSINFO_UNREGISTER)).sentinel()
			p, _, err := dec.Decode(source(enc, buf), MaskAll, 0)
			require.NoError(t, err)
			assert.Equal(t, qos.Ptr(STATUSINFO_STANDARDIZED), p.StatusInfo)

			// OpenSplice extension word
			l = newList(enc)
			buf = l.param(PID_STATUSINFO, be32(STATUSINFO_DISPOSE), be32(STATUSINFOX_OSPL_AUTO)).sentinel()
			src := source(enc, buf)
			p, _, err = dec.Decode(src, MaskAll, 0)
			require.NoError(t, err)
			assert.Equal(t, qos.Ptr(STATUSINFO_DISPOSE|STATUSINFO_OSPL_AUTO), p.StatusInfo)

			src.Vendor = VendorRTI
			p, _, err = dec.Decode(src, MaskAll, 0)
			require.NoError(t, err)
			assert.Equal(t, qos.Ptr(STATUSINFO_DISPOSE), p.StatusInfo)

			// Undefined bits
			l = newList(enc)
			buf = l.param(PID_STATUSINFO, be32(0x4|STATUSINFO_UNREGISTER)).sentinel()
			p, _, err = dec.Decode(source(enc, buf), MaskAll, 0)
			require.NoError(t, err)
			assert.Equal(t, qos.Ptr(STATUSINFO_UNREGISTER), p.StatusInfo)

			dec.Policy.Strict = true
			_, _, err = dec.Decode(source(enc, buf), MaskAll, 0)
			assert.ErrorIs(t, err, ierrors.ErrInvalidValue)
		})
	}
}

func TestDecodeGUIDs(t *testing.T) {
	guid := func(prefix GUIDPrefix, eid EntityID) []byte {
		return append(prefix[:], be32(uint32(eid))...)
	}

	for _, enc := range encodings {
		t.Run(enc.String(), func(t *testing.T) {
			testcases := []struct {
				name     string
				pid      PID
				body     []byte
				vendor   VendorID
				protocol ProtocolVersion
				pedantic bool
				check    func(t *testing.T, p *Plist)
				err      error
			}{
				{"Participant", PID_PARTICIPANT_GUID, guid(testGUIDPrefix, ENTITYID_PARTICIPANT), VendorEclipse, ProtocolVersion2_1, false,
					func(t *testing.T, p *Plist) {
						assert.Equal(t, &GUID{testGUIDPrefix, ENTITYID_PARTICIPANT}, p.ParticipantGUID)
					}, nil},
				{"ParticipantZero", PID_PARTICIPANT_GUID, guid(GUIDPrefix{}, 0), VendorEclipse, ProtocolVersion2_1, false,
					func(t *testing.T, p *Plist) {
						assert.Equal(t, &GUID{}, p.ParticipantGUID)
					}, nil},
				{"ParticipantTwinOaks", PID_PARTICIPANT_GUID, guid(testGUIDPrefix, 0), VendorTwinOaks, ProtocolVersion2_1, false,
					func(t *testing.T, p *Plist) {
						assert.Equal(t, &GUID{testGUIDPrefix, ENTITYID_PARTICIPANT}, p.ParticipantGUID)
					}, nil},
				{"ParticipantBadEntity", PID_PARTICIPANT_GUID, guid(testGUIDPrefix, 0), VendorEclipse, ProtocolVersion2_1, false, nil, ierrors.ErrInvalidValue},
				{"Group", PID_GROUP_GUID, guid(testGUIDPrefix, 0x1c8), VendorEclipse, ProtocolVersion2_1, false,
					func(t *testing.T, p *Plist) {
						assert.Equal(t, &GUID{testGUIDPrefix, 0x1c8}, p.GroupGUID)
					}, nil},
				{"GroupZeroEntity", PID_GROUP_GUID, guid(testGUIDPrefix, 0), VendorEclipse, ProtocolVersion2_1, false, nil, ierrors.ErrInvalidValue},
				{"Endpoint", PID_ENDPOINT_GUID, guid(testGUIDPrefix, 0x102), VendorRTI, ProtocolVersion2_1, false,
					func(t *testing.T, p *Plist) {
						assert.Equal(t, &GUID{testGUIDPrefix, 0x102}, p.EndpointGUID)
					}, nil},
				{"EndpointBuiltin", PID_ENDPOINT_GUID, guid(testGUIDPrefix, ENTITYID_SEDP_BUILTIN_TOPIC_WRITER), VendorRTI, ProtocolVersion2_1, false,
					func(t *testing.T, p *Plist) {
						assert.Equal(t, &GUID{testGUIDPrefix, ENTITYID_SEDP_BUILTIN_TOPIC_WRITER}, p.EndpointGUID)
					}, nil},
				{"EndpointUnknownKind", PID_ENDPOINT_GUID, guid(testGUIDPrefix, 0x105), VendorRTI, ProtocolVersion2_1, false, nil, ierrors.ErrInvalidValue},
				{"EndpointUnknownKindNewer", PID_ENDPOINT_GUID, guid(testGUIDPrefix, 0x105), VendorRTI, ProtocolVersion{2, 4}, false,
					func(t *testing.T, p *Plist) {
						assert.Equal(t, &GUID{testGUIDPrefix, 0x105}, p.EndpointGUID)
					}, nil},
				{"EndpointPedantic", PID_ENDPOINT_GUID, guid(testGUIDPrefix, 0x102), VendorRTI, ProtocolVersion2_1, true, nil, ierrors.ErrUnknownParameter},
				{"EndpointPrismTech", PID_PRISMTECH_ENDPOINT_GUID, guid(testGUIDPrefix, 0x107), VendorOpenSplice, ProtocolVersion2_1, true,
					func(t *testing.T, p *Plist) {
						assert.Equal(t, &GUID{testGUIDPrefix, 0x107}, p.EndpointGUID)
					}, nil},
				{"EndpointVendorEntity", PID_PRISMTECH_ENDPOINT_GUID, guid(testGUIDPrefix, ENTITYID_PRISMTECH_CM_PARTICIPANT_WRITER), VendorEclipse, ProtocolVersion2_1, false,
					func(t *testing.T, p *Plist) {
						assert.Equal(t, &GUID{testGUIDPrefix, ENTITYID_PRISMTECH_CM_PARTICIPANT_WRITER}, p.EndpointGUID)
					}, nil},
				{"RTITypecode", PID_RTI_TYPECODE, guid(testGUIDPrefix, 0x102), VendorRTI, ProtocolVersion2_1, false,
					func(t *testing.T, p *Plist) {
						assert.Nil(t, p.EndpointGUID)
						require.NotNil(t, p.QoS.RTITypecode)
						assert.Equal(t, guid(testGUIDPrefix, 0x102), p.QoS.RTITypecode.Bytes())
					}, nil},
				{"OtherVendor", PID_PRISMTECH_ENDPOINT_GUID, guid(testGUIDPrefix, 0x102), VendorTwinOaks, ProtocolVersion2_1, false,
					func(t *testing.T, p *Plist) {
						assert.Nil(t, p.EndpointGUID)
						assert.Nil(t, p.QoS.RTITypecode)
					}, nil},
				{"Short", PID_PARTICIPANT_GUID, testGUIDPrefix[:], VendorEclipse, ProtocolVersion2_1, false, nil, ierrors.ErrShortBuffer},
			}

			for _, tc := range testcases {
				t.Run(tc.name, func(t *testing.T) {
					dec := Decoder{Policy: Policy{Pedantic: tc.pedantic}}
					src := source(enc, newList(enc).param(tc.pid, tc.body).sentinel())
					src.Vendor = tc.vendor
					src.ProtocolVersion = tc.protocol
					p, _, err := dec.Decode(src, MaskAll, qos.MaskAll)
					if tc.err != nil {
						assert.ErrorIs(t, err, tc.err)
						return
					}
					require.NoError(t, err)
					tc.check(t, p)
				})
			}
		})
	}
}

func TestDecodeProtocolAttributes(t *testing.T) {
	l := newList(coder.PL_CDR_LE)
	buf := l.param(PID_PROTOCOL_VERSION, []byte{2, 1}).
		param(PID_VENDORID, VendorEclipse[:]).
		param(PID_EXPECTS_INLINE_QOS, []byte{1}).
		param(PID_PARTICIPANT_MANUAL_LIVELINESS_COUNT, l.i32(-7)).
		param(PID_PARTICIPANT_LEASE_DURATION, l.duration(qos.Duration{Sec: 10})).
		param(PID_BUILTIN_ENDPOINT_SET, l.u32(0x3f)).
		param(PID_KEYHASH, []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}).
		param(PID_COHERENT_SET, l.i32(0), l.u32(42)).
		param(PID_ENTITY_NAME, l.str("participant")).
		sentinel()

	dec := Decoder{Policy: Policy{Strict: true}}
	p, _, err := dec.Decode(source(coder.PL_CDR_LE, buf), MaskAll, 0)
	require.NoError(t, err)
	assert.Equal(t, &ProtocolVersion2_1, p.ProtocolVersion)
	assert.Equal(t, &VendorEclipse, p.VendorID)
	assert.Equal(t, qos.Ptr(true), p.ExpectsInlineQoS)
	assert.Equal(t, qos.Ptr[int32](-7), p.ManualLivelinessCount)
	assert.Equal(t, &qos.Duration{Sec: 10}, p.ParticipantLeaseDuration)
	assert.Equal(t, qos.Ptr[uint32](0x3f), p.BuiltinEndpointSet)
	assert.Equal(t, &KeyHash{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, p.KeyHash)
	assert.Equal(t, qos.Ptr(SequenceNumber(42)), p.CoherentSet)
	require.NotNil(t, p.EntityName)
	assert.Equal(t, "participant", p.EntityName.String())

	// Strictly, the list must agree with the message header
	src := source(coder.PL_CDR_LE, buf)
	src.Vendor = VendorRTI
	_, _, err = dec.Decode(src, MaskAll, 0)
	assert.ErrorIs(t, err, ierrors.ErrInvalidValue)

	dec.Policy.Strict = false
	_, _, err = dec.Decode(src, MaskAll, 0)
	assert.NoError(t, err)

	// Coherent set sequence numbers must be positive or unknown
	l = newList(coder.PL_CDR_LE)
	buf = l.param(PID_COHERENT_SET, l.i32(-1), l.u32(0)).sentinel()
	p, _, err = dec.Decode(source(coder.PL_CDR_LE, buf), MaskAll, 0)
	require.NoError(t, err)
	assert.Equal(t, qos.Ptr(SEQUENCE_NUMBER_UNKNOWN), p.CoherentSet)

	l = newList(coder.PL_CDR_LE)
	buf = l.param(PID_COHERENT_SET, l.i32(0), l.u32(0)).sentinel()
	_, _, err = dec.Decode(source(coder.PL_CDR_LE, buf), MaskAll, 0)
	assert.ErrorIs(t, err, ierrors.ErrInvalidValue)
}

func TestDecodeEOTInfo(t *testing.T) {
	var dec Decoder
	l := newList(coder.PL_CDR_BE)
	buf := l.param(PID_PRISMTECH_EOTINFO, l.u32(9), l.u32(2),
		be32(0x102), l.u32(3), be32(0x202), l.u32(4)).sentinel()
	p, _, err := dec.Decode(source(coder.PL_CDR_BE, buf), MaskAll, 0)
	require.NoError(t, err)
	assert.Equal(t, &EOTInfo{TransactionID: 9, Groups: []EOTGroup{{0x102, 3}, {0x202, 4}}}, p.EOTInfo)

	l = newList(coder.PL_CDR_BE)
	buf = l.param(PID_PRISMTECH_EOTINFO, l.u32(9), l.u32(2), be32(0x102), l.u32(3)).sentinel()
	_, _, err = dec.Decode(source(coder.PL_CDR_BE, buf), MaskAll, 0)
	var lerr ierrors.LengthError
	assert.True(t, errors.As(err, &lerr))
}

func TestDecodeAliasing(t *testing.T) {
	for _, enc := range encodings {
		t.Run(enc.String(), func(t *testing.T) {
			var dec Decoder
			l := newList(enc)
			buf := l.param(PID_TOPIC_NAME, l.str("topic")).
				param(PID_PARTITION, l.strSeq("p1", "p2")).
				param(PID_USER_DATA, l.u32(2), []byte{7, 8}).
				param(PID_ENTITY_NAME, l.str("reader")).
				sentinel()

			p, _, err := dec.Decode(source(enc, buf), MaskAll, qos.MaskAll)
			require.NoError(t, err)
			assert.Equal(t, qos.MaskTopicName|qos.MaskPartition|qos.MaskUserData, p.QoS.Aliased())
			assert.Equal(t, MaskEntityName, p.Aliased())

			clone := p.Clone()
			assert.Equal(t, qos.Mask(0), clone.QoS.Aliased())
			assert.Equal(t, Mask(0), clone.Aliased())

			p.Unalias()
			assert.Equal(t, qos.Mask(0), p.QoS.Aliased())
			assert.Equal(t, Mask(0), p.Aliased())

			for i := range buf {
				buf[i] = 0xff
			}
			for _, q := range []*Plist{p, clone} {
				assert.Equal(t, "topic", q.QoS.TopicName.String())
				assert.Equal(t, []string{"p1", "p2"}, q.QoS.Partition.Strings())
				assert.Equal(t, []byte{7, 8}, q.QoS.UserData.Bytes())
				assert.Equal(t, "reader", q.EntityName.String())
			}
		})
	}
}

type recordingObserver struct {
	params  []ddsiinterfaces.ParamOutcome
	decoded []error
	scanned []error
}

func (o *recordingObserver) ParamDecoded(pid uint16, name string, outcome ddsiinterfaces.ParamOutcome) {
	o.params = append(o.params, outcome)
}

func (o *recordingObserver) Decoded(err error) {
	o.decoded = append(o.decoded, err)
}

func (o *recordingObserver) QuickScanned(err error) {
	o.scanned = append(o.scanned, err)
}

func TestDecodeObserverAndLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	obs := &recordingObserver{}
	dec := Decoder{Logger: logger, Observer: obs}

	l := newList(coder.PL_CDR_LE)
	buf := l.param(PID_PAD).
		param(PID_DURABILITY, l.u32(0)).
		param(PID_DURABILITY, l.u32(9)).
		sentinel()
	_, _, err := dec.Decode(source(coder.PL_CDR_LE, buf), MaskAll, qos.MaskAll)
	require.ErrorIs(t, err, ierrors.ErrInvalidValue)
	assert.Equal(t, []ddsiinterfaces.ParamOutcome{
		ddsiinterfaces.ParamIgnored,
		ddsiinterfaces.ParamAccepted,
		ddsiinterfaces.ParamRejected,
	}, obs.params)
	require.Len(t, obs.decoded, 1)
	assert.Equal(t, err, obs.decoded[0])

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, log.DebugLevel, entry.Level)
	assert.Equal(t, "DURABILITY", entry.Data["param"])
	assert.Equal(t, 12, entry.Data["offset"])

	hook.Reset()
	l = newList(coder.PL_CDR_LE)
	buf = l.raw(PID_DURABILITY, 2, []byte{0, 0}).sentinel()
	_, _, err = dec.Decode(source(coder.PL_CDR_LE, buf), MaskAll, qos.MaskAll)
	require.ErrorIs(t, err, ierrors.ErrUnaligned)
	entry = hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, log.WarnLevel, entry.Level)
	assert.Equal(t, uint16(PID_DURABILITY), entry.Data["pid"])
	assert.Equal(t, VendorEclipse, entry.Data["vendor"])
}
