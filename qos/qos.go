// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package qos implements the DDS QoS policy model: the policy types, their
// validation rules, the per-entity defaults and the set algebra (merging,
// copying and diffing) used when layering QoS across an entity hierarchy.
//
// Every policy of a QoS is optional; a nil field is absent. The Mask
// returned by Present is computed from the fields on demand and exists for
// fast set operations only.
package qos

// Mask has one bit per policy
type Mask uint64

const (
	MaskTopicName Mask = 1 << iota
	MaskTypeName
	MaskPresentation
	MaskPartition
	MaskGroupData
	MaskTopicData
	MaskDurability
	MaskDurabilityService
	MaskDeadline
	MaskLatencyBudget
	MaskLiveliness
	MaskReliability
	MaskDestinationOrder
	MaskHistory
	MaskResourceLimits
	MaskTransportPriority
	MaskLifespan
	MaskUserData
	MaskOwnership
	MaskOwnershipStrength
	MaskTimeBasedFilter
	MaskWriterDataLifecycle
	MaskReaderDataLifecycle
	MaskRelaxedQoSMatching
	MaskReaderLifespan
	MaskSubscriptionKeys
	MaskEntityFactory
	MaskSynchronousEndpoint
	MaskRTITypecode
	MaskIgnoreLocal

	MaskAll = MaskIgnoreLocal<<1 - 1

	// Requested/offered policies, which decide whether a reader and writer match
	MaskRxO = MaskDurability | MaskPresentation | MaskDeadline | MaskLatencyBudget |
		MaskOwnership | MaskLiveliness | MaskReliability | MaskDestinationOrder
)

var maskNames = [...]string{
	"topic_name", "type_name", "presentation", "partition", "group_data",
	"topic_data", "durability", "durability_service", "deadline",
	"latency_budget", "liveliness", "reliability", "destination_order",
	"history", "resource_limits", "transport_priority", "lifespan",
	"user_data", "ownership", "ownership_strength", "time_based_filter",
	"writer_data_lifecycle", "reader_data_lifecycle", "relaxed_qos_matching",
	"reader_lifespan", "subscription_keys", "entity_factory",
	"synchronous_endpoint", "rti_typecode", "ignore_local",
}

// Names lists the policies in m, in bit order
func (m Mask) Names() []string {
	var names []string
	for i, name := range maskNames {
		if m&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return names
}

// QoS is a set of independently optional policies
type QoS struct {
	TopicName           *String               `yaml:"topic_name,omitempty"`
	TypeName            *String               `yaml:"type_name,omitempty"`
	Presentation        *Presentation         `yaml:"presentation,omitempty"`
	Partition           *StringSeq            `yaml:"partition,omitempty"`
	GroupData           *Octets               `yaml:"group_data,omitempty"`
	TopicData           *Octets               `yaml:"topic_data,omitempty"`
	Durability          *DurabilityKind       `yaml:"durability,omitempty"`
	DurabilityService   *DurabilityService    `yaml:"durability_service,omitempty"`
	Deadline            *Duration             `yaml:"deadline,omitempty"`
	LatencyBudget       *Duration             `yaml:"latency_budget,omitempty"`
	Liveliness          *Liveliness           `yaml:"liveliness,omitempty"`
	Reliability         *Reliability          `yaml:"reliability,omitempty"`
	DestinationOrder    *DestinationOrderKind `yaml:"destination_order,omitempty"`
	History             *History              `yaml:"history,omitempty"`
	ResourceLimits      *ResourceLimits       `yaml:"resource_limits,omitempty"`
	TransportPriority   *int32                `yaml:"transport_priority,omitempty"`
	Lifespan            *Duration             `yaml:"lifespan,omitempty"`
	UserData            *Octets               `yaml:"user_data,omitempty"`
	Ownership           *OwnershipKind        `yaml:"ownership,omitempty"`
	OwnershipStrength   *int32                `yaml:"ownership_strength,omitempty"`
	TimeBasedFilter     *Duration             `yaml:"time_based_filter,omitempty"`
	WriterDataLifecycle *WriterDataLifecycle  `yaml:"writer_data_lifecycle,omitempty"`
	ReaderDataLifecycle *ReaderDataLifecycle  `yaml:"reader_data_lifecycle,omitempty"`
	RelaxedQoSMatching  *bool                 `yaml:"relaxed_qos_matching,omitempty"`
	ReaderLifespan      *ReaderLifespan       `yaml:"reader_lifespan,omitempty"`
	SubscriptionKeys    *SubscriptionKeys     `yaml:"subscription_keys,omitempty"`
	EntityFactory       *bool                 `yaml:"autoenable_created_entities,omitempty"`
	SynchronousEndpoint *bool                 `yaml:"synchronous_endpoint,omitempty"`
	RTITypecode         *Octets               `yaml:"rti_typecode,omitempty"`
	IgnoreLocal         *IgnoreLocalKind      `yaml:"ignore_local,omitempty"`
}

// Ptr returns a pointer to a copy of v, for filling in optional policies
func Ptr[T any](v T) *T {
	return &v
}

func bit[T any](p *T, m Mask) Mask {
	if p != nil {
		return m
	}
	return 0
}

// Present returns the set of policies which are present
func (q *QoS) Present() Mask {
	return bit(q.TopicName, MaskTopicName) |
		bit(q.TypeName, MaskTypeName) |
		bit(q.Presentation, MaskPresentation) |
		bit(q.Partition, MaskPartition) |
		bit(q.GroupData, MaskGroupData) |
		bit(q.TopicData, MaskTopicData) |
		bit(q.Durability, MaskDurability) |
		bit(q.DurabilityService, MaskDurabilityService) |
		bit(q.Deadline, MaskDeadline) |
		bit(q.LatencyBudget, MaskLatencyBudget) |
		bit(q.Liveliness, MaskLiveliness) |
		bit(q.Reliability, MaskReliability) |
		bit(q.DestinationOrder, MaskDestinationOrder) |
		bit(q.History, MaskHistory) |
		bit(q.ResourceLimits, MaskResourceLimits) |
		bit(q.TransportPriority, MaskTransportPriority) |
		bit(q.Lifespan, MaskLifespan) |
		bit(q.UserData, MaskUserData) |
		bit(q.Ownership, MaskOwnership) |
		bit(q.OwnershipStrength, MaskOwnershipStrength) |
		bit(q.TimeBasedFilter, MaskTimeBasedFilter) |
		bit(q.WriterDataLifecycle, MaskWriterDataLifecycle) |
		bit(q.ReaderDataLifecycle, MaskReaderDataLifecycle) |
		bit(q.RelaxedQoSMatching, MaskRelaxedQoSMatching) |
		bit(q.ReaderLifespan, MaskReaderLifespan) |
		bit(q.SubscriptionKeys, MaskSubscriptionKeys) |
		bit(q.EntityFactory, MaskEntityFactory) |
		bit(q.SynchronousEndpoint, MaskSynchronousEndpoint) |
		bit(q.RTITypecode, MaskRTITypecode) |
		bit(q.IgnoreLocal, MaskIgnoreLocal)
}

// Aliased returns the set of present policies holding borrowed memory.
// It is always a subset of Present.
func (q *QoS) Aliased() Mask {
	var m Mask
	if q.TopicName != nil && q.TopicName.Borrowed() {
		m |= MaskTopicName
	}
	if q.TypeName != nil && q.TypeName.Borrowed() {
		m |= MaskTypeName
	}
	if q.Partition != nil && q.Partition.Borrowed() {
		m |= MaskPartition
	}
	if q.GroupData != nil && q.GroupData.Borrowed() {
		m |= MaskGroupData
	}
	if q.TopicData != nil && q.TopicData.Borrowed() {
		m |= MaskTopicData
	}
	if q.UserData != nil && q.UserData.Borrowed() {
		m |= MaskUserData
	}
	if q.SubscriptionKeys != nil && q.SubscriptionKeys.KeyList.Borrowed() {
		m |= MaskSubscriptionKeys
	}
	if q.RTITypecode != nil && q.RTITypecode.Borrowed() {
		m |= MaskRTITypecode
	}
	return m
}
