// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package qos

import (
	"fmt"
	"strconv"
	"strings"
)

// LengthUnlimited marks a resource limit as unbounded
const LengthUnlimited int32 = -1

type DurabilityKind uint32

const (
	Volatile DurabilityKind = iota
	TransientLocal
	Transient
	Persistent
)

type PresentationAccessScope uint32

const (
	InstancePresentation PresentationAccessScope = iota
	TopicPresentation
	GroupPresentation
)

type LivelinessKind uint32

const (
	AutomaticLiveliness LivelinessKind = iota
	ManualByParticipantLiveliness
	ManualByTopicLiveliness
)

// ReliabilityKind is the internal representation; the wire uses different
// values depending on whether the peer is being pedantic
type ReliabilityKind uint32

const (
	BestEffort ReliabilityKind = iota
	Reliable
)

type DestinationOrderKind uint32

const (
	ByReceptionTimestamp DestinationOrderKind = iota
	BySourceTimestamp
)

type HistoryKind uint32

const (
	KeepLast HistoryKind = iota
	KeepAll
)

type OwnershipKind uint32

const (
	SharedOwnership OwnershipKind = iota
	ExclusiveOwnership
)

type InvalidSampleVisibilityKind uint32

const (
	NoInvalidSamples InvalidSampleVisibilityKind = iota
	MinimumInvalidSamples
	AllInvalidSamples
)

// IgnoreLocalKind controls whether data from local entities is delivered.
// It is never sent on the wire.
type IgnoreLocalKind uint32

const (
	IgnoreLocalNone IgnoreLocalKind = iota
	IgnoreLocalParticipant
	IgnoreLocalProcess
)

type Presentation struct {
	AccessScope    PresentationAccessScope `yaml:"access_scope"`
	CoherentAccess bool                    `yaml:"coherent_access"`
	OrderedAccess  bool                    `yaml:"ordered_access"`
}

type History struct {
	Kind  HistoryKind `yaml:"kind"`
	Depth int32       `yaml:"depth"`
}

type ResourceLimits struct {
	MaxSamples            int32 `yaml:"max_samples"`
	MaxInstances          int32 `yaml:"max_instances"`
	MaxSamplesPerInstance int32 `yaml:"max_samples_per_instance"`
}

type DurabilityService struct {
	ServiceCleanupDelay Duration       `yaml:"service_cleanup_delay"`
	History             History        `yaml:"history"`
	ResourceLimits      ResourceLimits `yaml:"resource_limits"`
}

type Liveliness struct {
	Kind          LivelinessKind `yaml:"kind"`
	LeaseDuration Duration       `yaml:"lease_duration"`
}

type Reliability struct {
	Kind            ReliabilityKind `yaml:"kind"`
	MaxBlockingTime Duration        `yaml:"max_blocking_time"`
}

type ReaderDataLifecycle struct {
	AutopurgeNowriterSamplesDelay Duration                    `yaml:"autopurge_nowriter_samples_delay"`
	AutopurgeDisposedSamplesDelay Duration                    `yaml:"autopurge_disposed_samples_delay"`
	AutopurgeDisposeAll           bool                        `yaml:"autopurge_dispose_all"`
	EnableInvalidSamples          bool                        `yaml:"enable_invalid_samples"`
	InvalidSampleVisibility       InvalidSampleVisibilityKind `yaml:"invalid_sample_visibility"`
}

type WriterDataLifecycle struct {
	AutodisposeUnregisteredInstances bool     `yaml:"autodispose_unregistered_instances"`
	AutounregisterInstanceDelay      Duration `yaml:"autounregister_instance_delay"`
	AutopurgeSuspendedSamplesDelay   Duration `yaml:"autopurge_suspended_samples_delay"`
}

type ReaderLifespan struct {
	UseLifespan bool     `yaml:"use_lifespan"`
	Duration    Duration `yaml:"duration"`
}

type SubscriptionKeys struct {
	UseKeyList bool      `yaml:"use_key_list"`
	KeyList    StringSeq `yaml:"key_list"`
}

// enumNames maps the values of an enumeration (from 0) to names
type enumNames []string

func (n enumNames) format(typ string, v uint32) string {
	if uint64(v) < uint64(len(n)) {
		return n[v]
	}
	return fmt.Sprintf("%s(%d)", typ, v)
}

func (n enumNames) parse(typ string, text []byte) (uint32, error) {
	s := strings.ToLower(string(text))
	for i, name := range n {
		if s == name {
			return uint32(i), nil
		}
	}
	if v, err := strconv.ParseUint(s, 10, 32); err == nil {
		return uint32(v), nil
	}
	return 0, fmt.Errorf("qos: unknown %s %q", typ, text)
}

var (
	durabilityNames       = enumNames{"volatile", "transient_local", "transient", "persistent"}
	accessScopeNames      = enumNames{"instance", "topic", "group"}
	livelinessNames       = enumNames{"automatic", "manual_by_participant", "manual_by_topic"}
	reliabilityNames      = enumNames{"best_effort", "reliable"}
	destinationOrderNames = enumNames{"by_reception_timestamp", "by_source_timestamp"}
	historyNames          = enumNames{"keep_last", "keep_all"}
	ownershipNames        = enumNames{"shared", "exclusive"}
	visibilityNames       = enumNames{"no", "minimum", "all"}
	ignoreLocalNames      = enumNames{"none", "participant", "process"}
)

func (k DurabilityKind) String() string { return durabilityNames.format("DurabilityKind", uint32(k)) }
func (k DurabilityKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *DurabilityKind) UnmarshalText(text []byte) error {
	v, err := durabilityNames.parse("durability kind", text)
	*k = DurabilityKind(v)
	return err
}

func (k PresentationAccessScope) String() string {
	return accessScopeNames.format("PresentationAccessScope", uint32(k))
}
func (k PresentationAccessScope) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *PresentationAccessScope) UnmarshalText(text []byte) error {
	v, err := accessScopeNames.parse("access scope", text)
	*k = PresentationAccessScope(v)
	return err
}

func (k LivelinessKind) String() string { return livelinessNames.format("LivelinessKind", uint32(k)) }
func (k LivelinessKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *LivelinessKind) UnmarshalText(text []byte) error {
	v, err := livelinessNames.parse("liveliness kind", text)
	*k = LivelinessKind(v)
	return err
}

func (k ReliabilityKind) String() string { return reliabilityNames.format("ReliabilityKind", uint32(k)) }
func (k ReliabilityKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *ReliabilityKind) UnmarshalText(text []byte) error {
	v, err := reliabilityNames.parse("reliability kind", text)
	*k = ReliabilityKind(v)
	return err
}

func (k DestinationOrderKind) String() string {
	return destinationOrderNames.format("DestinationOrderKind", uint32(k))
}
func (k DestinationOrderKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *DestinationOrderKind) UnmarshalText(text []byte) error {
	v, err := destinationOrderNames.parse("destination order kind", text)
	*k = DestinationOrderKind(v)
	return err
}

func (k HistoryKind) String() string { return historyNames.format("HistoryKind", uint32(k)) }
func (k HistoryKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *HistoryKind) UnmarshalText(text []byte) error {
	v, err := historyNames.parse("history kind", text)
	*k = HistoryKind(v)
	return err
}

func (k OwnershipKind) String() string { return ownershipNames.format("OwnershipKind", uint32(k)) }
func (k OwnershipKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *OwnershipKind) UnmarshalText(text []byte) error {
	v, err := ownershipNames.parse("ownership kind", text)
	*k = OwnershipKind(v)
	return err
}

func (k InvalidSampleVisibilityKind) String() string {
	return visibilityNames.format("InvalidSampleVisibilityKind", uint32(k))
}
func (k InvalidSampleVisibilityKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *InvalidSampleVisibilityKind) UnmarshalText(text []byte) error {
	v, err := visibilityNames.parse("invalid sample visibility", text)
	*k = InvalidSampleVisibilityKind(v)
	return err
}

func (k IgnoreLocalKind) String() string { return ignoreLocalNames.format("IgnoreLocalKind", uint32(k)) }
func (k IgnoreLocalKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
func (k *IgnoreLocalKind) UnmarshalText(text []byte) error {
	v, err := ignoreLocalNames.parse("ignore local kind", text)
	*k = IgnoreLocalKind(v)
	return err
}
