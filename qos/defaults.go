// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package qos

import (
	"fmt"
	"time"
)

// EntityKind selects a set of default policies
type EntityKind int

const (
	ReaderEntity EntityKind = iota
	WriterEntity
	TopicEntity
	PublisherEntity
	SubscriberEntity
	ParticipantEntity
)

var entityKindNames = enumNames{"reader", "writer", "topic", "publisher", "subscriber", "participant"}

func (k EntityKind) String() string { return entityKindNames.format("EntityKind", uint32(k)) }
func (k EntityKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *EntityKind) UnmarshalText(text []byte) error {
	v, err := entityKindNames.parse("entity kind", text)
	*k = EntityKind(v)
	return err
}

// EntityKinds lists every entity kind with defaults
var EntityKinds = []EntityKind{
	ReaderEntity, WriterEntity, TopicEntity, PublisherEntity, SubscriberEntity, ParticipantEntity,
}

// 100ms, the default reliability max blocking time
var defaultMaxBlockingTime = DurationOf(100 * time.Millisecond)

var unlimitedResources = ResourceLimits{
	MaxSamples:            LengthUnlimited,
	MaxInstances:          LengthUnlimited,
	MaxSamplesPerInstance: LengthUnlimited,
}

func defaultDurabilityService() *DurabilityService {
	return &DurabilityService{
		ServiceCleanupDelay: Duration{},
		History:             History{Kind: KeepLast, Depth: 1},
		ResourceLimits:      unlimitedResources,
	}
}

// common holds the policies shared by readers, writers and topics
func common() *QoS {
	return &QoS{
		Partition:           &StringSeq{},
		Presentation:        &Presentation{AccessScope: InstancePresentation},
		Durability:          Ptr(Volatile),
		Deadline:            Ptr(Infinite),
		LatencyBudget:       Ptr(Duration{}),
		Liveliness:          &Liveliness{Kind: AutomaticLiveliness, LeaseDuration: Infinite},
		DestinationOrder:    Ptr(ByReceptionTimestamp),
		History:             &History{Kind: KeepLast, Depth: 1},
		ResourceLimits:      Ptr(unlimitedResources),
		TransportPriority:   Ptr[int32](0),
		Ownership:           Ptr(SharedOwnership),
		RelaxedQoSMatching:  Ptr(false),
		SynchronousEndpoint: Ptr(false),
		IgnoreLocal:         Ptr(IgnoreLocalNone),
	}
}

func DefaultReader() *QoS {
	q := common()
	q.Reliability = &Reliability{Kind: BestEffort, MaxBlockingTime: defaultMaxBlockingTime}
	q.TimeBasedFilter = Ptr(Duration{})
	q.ReaderDataLifecycle = &ReaderDataLifecycle{
		AutopurgeNowriterSamplesDelay: Infinite,
		AutopurgeDisposedSamplesDelay: Infinite,
		AutopurgeDisposeAll:           false,
		EnableInvalidSamples:          true,
		InvalidSampleVisibility:       MinimumInvalidSamples,
	}
	q.ReaderLifespan = &ReaderLifespan{UseLifespan: false, Duration: Infinite}
	q.SubscriptionKeys = &SubscriptionKeys{UseKeyList: false, KeyList: StringSeq{}}
	return q
}

func DefaultWriter() *QoS {
	q := common()
	q.DurabilityService = defaultDurabilityService()
	q.Reliability = &Reliability{Kind: Reliable, MaxBlockingTime: defaultMaxBlockingTime}
	q.OwnershipStrength = Ptr[int32](0)
	q.Lifespan = Ptr(Infinite)
	q.WriterDataLifecycle = &WriterDataLifecycle{
		AutodisposeUnregisteredInstances: true,
		AutounregisterInstanceDelay:      Infinite,
		AutopurgeSuspendedSamplesDelay:   Infinite,
	}
	return q
}

// DefaultWriterNoAutodispose is DefaultWriter, except that unregistering an
// instance does not dispose it
func DefaultWriterNoAutodispose() *QoS {
	q := DefaultWriter()
	q.WriterDataLifecycle.AutodisposeUnregisteredInstances = false
	return q
}

func DefaultTopic() *QoS {
	q := common()
	q.DurabilityService = defaultDurabilityService()
	q.Reliability = &Reliability{Kind: BestEffort, MaxBlockingTime: defaultMaxBlockingTime}
	q.Lifespan = Ptr(Infinite)
	q.SubscriptionKeys = &SubscriptionKeys{UseKeyList: false, KeyList: StringSeq{}}
	return q
}

func defaultGroup() *QoS {
	return &QoS{
		EntityFactory: Ptr(true),
		Partition:     &StringSeq{},
	}
}

func DefaultPublisher() *QoS {
	return defaultGroup()
}

func DefaultSubscriber() *QoS {
	return defaultGroup()
}

func DefaultParticipant() *QoS {
	return &QoS{EntityFactory: Ptr(false)}
}

// Defaults returns a fresh, owned copy of the defaults for kind
func Defaults(kind EntityKind) (*QoS, error) {
	switch kind {
	case ReaderEntity:
		return DefaultReader(), nil
	case WriterEntity:
		return DefaultWriter(), nil
	case TopicEntity:
		return DefaultTopic(), nil
	case PublisherEntity:
		return DefaultPublisher(), nil
	case SubscriberEntity:
		return DefaultSubscriber(), nil
	case ParticipantEntity:
		return DefaultParticipant(), nil
	default:
		return nil, fmt.Errorf("qos: no defaults for %v", kind)
	}
}
