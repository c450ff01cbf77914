// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package qos

func historyEqual(a, b History) bool {
	if a.Kind != b.Kind {
		return false
	}
	return a.Kind != KeepLast || a.Depth == b.Depth
}

func readerLifespanEqual(a, b ReaderLifespan) bool {
	if a.UseLifespan != b.UseLifespan {
		return false
	}
	return !a.UseLifespan || a.Duration == b.Duration
}

func subscriptionKeysEqual(a, b SubscriptionKeys) bool {
	if a.UseKeyList != b.UseKeyList {
		return false
	}
	return !a.UseKeyList || PartitionsEqual(a.KeyList, b.KeyList)
}

func durabilityServiceEqual(a, b DurabilityService) bool {
	return a.ServiceCleanupDelay == b.ServiceCleanupDelay &&
		historyEqual(a.History, b.History) &&
		a.ResourceLimits == b.ResourceLimits
}

// differs returns m if exactly one of a and b is present, or both are and
// eq says they differ
func differs[T any](a, b *T, m Mask, eq func(T, T) bool) Mask {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil || b == nil:
		return m
	case eq(*a, *b):
		return 0
	default:
		return m
	}
}

func equal[T comparable](a, b T) bool {
	return a == b
}

// Delta returns the policies in mask which are present in only one of a and
// b, or which are present in both with different values
func Delta(a, b *QoS, mask Mask) Mask {
	d := differs(a.TopicName, b.TopicName, MaskTopicName, String.Equal) |
		differs(a.TypeName, b.TypeName, MaskTypeName, String.Equal) |
		differs(a.Presentation, b.Presentation, MaskPresentation, equal[Presentation]) |
		differs(a.Partition, b.Partition, MaskPartition, PartitionsEqual) |
		differs(a.GroupData, b.GroupData, MaskGroupData, Octets.Equal) |
		differs(a.TopicData, b.TopicData, MaskTopicData, Octets.Equal) |
		differs(a.Durability, b.Durability, MaskDurability, equal[DurabilityKind]) |
		differs(a.DurabilityService, b.DurabilityService, MaskDurabilityService, durabilityServiceEqual) |
		differs(a.Deadline, b.Deadline, MaskDeadline, equal[Duration]) |
		differs(a.LatencyBudget, b.LatencyBudget, MaskLatencyBudget, equal[Duration]) |
		differs(a.Liveliness, b.Liveliness, MaskLiveliness, equal[Liveliness]) |
		differs(a.Reliability, b.Reliability, MaskReliability, equal[Reliability]) |
		differs(a.DestinationOrder, b.DestinationOrder, MaskDestinationOrder, equal[DestinationOrderKind]) |
		differs(a.History, b.History, MaskHistory, historyEqual) |
		differs(a.ResourceLimits, b.ResourceLimits, MaskResourceLimits, equal[ResourceLimits]) |
		differs(a.TransportPriority, b.TransportPriority, MaskTransportPriority, equal[int32]) |
		differs(a.Lifespan, b.Lifespan, MaskLifespan, equal[Duration]) |
		differs(a.UserData, b.UserData, MaskUserData, Octets.Equal) |
		differs(a.Ownership, b.Ownership, MaskOwnership, equal[OwnershipKind]) |
		differs(a.OwnershipStrength, b.OwnershipStrength, MaskOwnershipStrength, equal[int32]) |
		differs(a.TimeBasedFilter, b.TimeBasedFilter, MaskTimeBasedFilter, equal[Duration]) |
		differs(a.WriterDataLifecycle, b.WriterDataLifecycle, MaskWriterDataLifecycle, equal[WriterDataLifecycle]) |
		differs(a.ReaderDataLifecycle, b.ReaderDataLifecycle, MaskReaderDataLifecycle, equal[ReaderDataLifecycle]) |
		differs(a.RelaxedQoSMatching, b.RelaxedQoSMatching, MaskRelaxedQoSMatching, equal[bool]) |
		differs(a.ReaderLifespan, b.ReaderLifespan, MaskReaderLifespan, readerLifespanEqual) |
		differs(a.SubscriptionKeys, b.SubscriptionKeys, MaskSubscriptionKeys, subscriptionKeysEqual) |
		differs(a.EntityFactory, b.EntityFactory, MaskEntityFactory, equal[bool]) |
		differs(a.SynchronousEndpoint, b.SynchronousEndpoint, MaskSynchronousEndpoint, equal[bool]) |
		differs(a.RTITypecode, b.RTITypecode, MaskRTITypecode, Octets.Equal) |
		differs(a.IgnoreLocal, b.IgnoreLocal, MaskIgnoreLocal, equal[IgnoreLocalKind])
	return d & mask
}
