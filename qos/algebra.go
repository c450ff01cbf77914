// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package qos

// mergeValue fills *dst with a copy of *src if dst is absent and src present
func mergeValue[T any](dst **T, src *T) {
	if *dst == nil && src != nil {
		v := *src
		*dst = &v
	}
}

// mergeWith is mergeValue for types holding references, which are deep
// copied with clone
func mergeWith[T any](dst **T, src *T, clone func(T) T) {
	if *dst == nil && src != nil {
		v := clone(*src)
		*dst = &v
	}
}

func cloneSubscriptionKeys(k SubscriptionKeys) SubscriptionKeys {
	k.KeyList = k.KeyList.Clone()
	return k
}

// MergeMissing copies into q every policy which src has and q lacks. Copied
// values are always owned, whether or not they are borrowed in src; policies
// already in q are left untouched.
func (q *QoS) MergeMissing(src *QoS) {
	if src == nil {
		return
	}
	mergeWith(&q.TopicName, src.TopicName, String.Clone)
	mergeWith(&q.TypeName, src.TypeName, String.Clone)
	mergeValue(&q.Presentation, src.Presentation)
	mergeWith(&q.Partition, src.Partition, StringSeq.Clone)
	mergeWith(&q.GroupData, src.GroupData, Octets.Clone)
	mergeWith(&q.TopicData, src.TopicData, Octets.Clone)
	mergeValue(&q.Durability, src.Durability)
	mergeValue(&q.DurabilityService, src.DurabilityService)
	mergeValue(&q.Deadline, src.Deadline)
	mergeValue(&q.LatencyBudget, src.LatencyBudget)
	mergeValue(&q.Liveliness, src.Liveliness)
	mergeValue(&q.Reliability, src.Reliability)
	mergeValue(&q.DestinationOrder, src.DestinationOrder)
	mergeValue(&q.History, src.History)
	mergeValue(&q.ResourceLimits, src.ResourceLimits)
	mergeValue(&q.TransportPriority, src.TransportPriority)
	mergeValue(&q.Lifespan, src.Lifespan)
	mergeWith(&q.UserData, src.UserData, Octets.Clone)
	mergeValue(&q.Ownership, src.Ownership)
	mergeValue(&q.OwnershipStrength, src.OwnershipStrength)
	mergeValue(&q.TimeBasedFilter, src.TimeBasedFilter)
	mergeValue(&q.WriterDataLifecycle, src.WriterDataLifecycle)
	mergeValue(&q.ReaderDataLifecycle, src.ReaderDataLifecycle)
	mergeValue(&q.RelaxedQoSMatching, src.RelaxedQoSMatching)
	mergeValue(&q.ReaderLifespan, src.ReaderLifespan)
	mergeWith(&q.SubscriptionKeys, src.SubscriptionKeys, cloneSubscriptionKeys)
	mergeValue(&q.EntityFactory, src.EntityFactory)
	mergeValue(&q.SynchronousEndpoint, src.SynchronousEndpoint)
	mergeWith(&q.RTITypecode, src.RTITypecode, Octets.Clone)
	mergeValue(&q.IgnoreLocal, src.IgnoreLocal)
}

// Clone returns a deep, fully owned copy of q
func (q *QoS) Clone() *QoS {
	out := &QoS{}
	out.MergeMissing(q)
	return out
}

func unalias[T interface{ Unalias() T }](p *T) {
	if p != nil {
		*p = (*p).Unalias()
	}
}

// Unalias replaces every borrowed value in q with an owned copy, after
// which q no longer references the buffer it was decoded from
func (q *QoS) Unalias() {
	unalias(q.TopicName)
	unalias(q.TypeName)
	unalias(q.Partition)
	unalias(q.GroupData)
	unalias(q.TopicData)
	unalias(q.UserData)
	unalias(q.RTITypecode)
	if q.SubscriptionKeys != nil {
		q.SubscriptionKeys.KeyList = q.SubscriptionKeys.KeyList.Unalias()
	}
}

// Reset removes every policy from q
func (q *QoS) Reset() {
	*q = QoS{}
}
