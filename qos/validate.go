// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package qos

import (
	"go.e43.eu/ddsi/internal/errors"
)

func (k DurabilityKind) Validate() error {
	if k > Persistent {
		return errors.ErrInvalidValue
	}
	return nil
}

func (k DestinationOrderKind) Validate() error {
	if k > BySourceTimestamp {
		return errors.ErrInvalidValue
	}
	return nil
}

func (k OwnershipKind) Validate() error {
	if k > ExclusiveOwnership {
		return errors.ErrInvalidValue
	}
	return nil
}

func (k IgnoreLocalKind) Validate() error {
	if k > IgnoreLocalProcess {
		return errors.ErrInvalidValue
	}
	return nil
}

func (p Presentation) Validate() error {
	if p.AccessScope > GroupPresentation {
		return errors.WithFieldError(errors.ErrInvalidValue, "access_scope")
	}
	return nil
}

func (h History) Validate() error {
	switch h.Kind {
	case KeepLast:
		if h.Depth < 1 {
			return errors.WithFieldError(errors.ErrInvalidValue, "depth")
		}
	case KeepAll:
	default:
		return errors.WithFieldError(errors.ErrInvalidValue, "kind")
	}
	return nil
}

func validLimit(v int32) bool {
	return v == LengthUnlimited || v >= 1
}

func (r ResourceLimits) Validate() error {
	if !validLimit(r.MaxSamples) {
		return errors.WithFieldError(errors.ErrInvalidValue, "max_samples")
	}
	if !validLimit(r.MaxInstances) {
		return errors.WithFieldError(errors.ErrInvalidValue, "max_instances")
	}
	if !validLimit(r.MaxSamplesPerInstance) {
		return errors.WithFieldError(errors.ErrInvalidValue, "max_samples_per_instance")
	}
	if r.MaxSamples != LengthUnlimited && r.MaxSamplesPerInstance != LengthUnlimited &&
		r.MaxSamples < r.MaxSamplesPerInstance {
		return errors.ErrInconsistent
	}
	return nil
}

// ValidateHistoryAndResourceLimits checks both policies and that a keep-last
// depth fits within the per-instance sample limit
func ValidateHistoryAndResourceLimits(h History, r ResourceLimits) error {
	if err := h.Validate(); err != nil {
		return errors.WithFieldError(err, "history")
	}
	if err := r.Validate(); err != nil {
		return errors.WithFieldError(err, "resource_limits")
	}
	if h.Kind == KeepLast && r.MaxSamplesPerInstance != LengthUnlimited &&
		h.Depth > r.MaxSamplesPerInstance {
		return errors.ErrInconsistent
	}
	return nil
}

// IsZero reports whether every field is zero, which some implementations
// send in place of an absent policy
func (d DurabilityService) IsZero() bool {
	return d == DurabilityService{}
}

func (d DurabilityService) Validate() error {
	return d.ValidateAcceptZero(false)
}

// ValidateAcceptZero is Validate, except that if acceptZero is set the all
// zero policy passes as well
func (d DurabilityService) ValidateAcceptZero(acceptZero bool) error {
	if acceptZero && d.IsZero() {
		return nil
	}
	if err := d.ServiceCleanupDelay.Validate(); err != nil {
		return errors.WithFieldError(err, "service_cleanup_delay")
	}
	return ValidateHistoryAndResourceLimits(d.History, d.ResourceLimits)
}

func (l Liveliness) Validate() error {
	if l.Kind > ManualByTopicLiveliness {
		return errors.WithFieldError(errors.ErrInvalidValue, "kind")
	}
	return errors.WithFieldError(l.LeaseDuration.Validate(), "lease_duration")
}

func (r Reliability) Validate() error {
	switch r.Kind {
	case BestEffort:
		return nil
	case Reliable:
		return errors.WithFieldError(r.MaxBlockingTime.Validate(), "max_blocking_time")
	default:
		return errors.WithFieldError(errors.ErrInvalidValue, "kind")
	}
}

func (r ReaderDataLifecycle) Validate() error {
	if err := r.AutopurgeNowriterSamplesDelay.Validate(); err != nil {
		return errors.WithFieldError(err, "autopurge_nowriter_samples_delay")
	}
	if err := r.AutopurgeDisposedSamplesDelay.Validate(); err != nil {
		return errors.WithFieldError(err, "autopurge_disposed_samples_delay")
	}
	if r.InvalidSampleVisibility > AllInvalidSamples {
		return errors.WithFieldError(errors.ErrInvalidValue, "invalid_sample_visibility")
	}
	return nil
}

func (w WriterDataLifecycle) Validate() error {
	if err := w.AutounregisterInstanceDelay.Validate(); err != nil {
		return errors.WithFieldError(err, "autounregister_instance_delay")
	}
	return errors.WithFieldError(w.AutopurgeSuspendedSamplesDelay.Validate(), "autopurge_suspended_samples_delay")
}

func (r ReaderLifespan) Validate() error {
	return errors.WithFieldError(r.Duration.Validate(), "duration")
}

// ValidateDeadlineAndTimeBasedFilter requires the minimum separation of a
// reader's time based filter not to exceed its deadline
func ValidateDeadlineAndTimeBasedFilter(deadline, minSep Duration) error {
	if err := deadline.Validate(); err != nil {
		return errors.WithFieldError(err, "deadline")
	}
	if err := minSep.Validate(); err != nil {
		return errors.WithFieldError(err, "time_based_filter")
	}
	if minSep.Std() > deadline.Std() {
		return errors.ErrInconsistent
	}
	return nil
}

// CompleteHistoryAndLimits supplies the default for whichever of history and
// resource limits is missing when only the other is present, then checks the
// pair. With neither present it does nothing.
func (q *QoS) CompleteHistoryAndLimits() error {
	if q.History == nil && q.ResourceLimits == nil {
		return nil
	}
	if q.History == nil {
		q.History = &History{Kind: KeepLast, Depth: 1}
	}
	if q.ResourceLimits == nil {
		q.ResourceLimits = &ResourceLimits{LengthUnlimited, LengthUnlimited, LengthUnlimited}
	}
	return ValidateHistoryAndResourceLimits(*q.History, *q.ResourceLimits)
}

type validator interface {
	Validate() error
}

// Validate checks every present policy and the combinations that are
// constrained jointly
func (q *QoS) Validate() error {
	checks := []struct {
		name string
		v    validator
	}{
		{"presentation", optional(q.Presentation)},
		{"durability", optional(q.Durability)},
		{"durability_service", optional(q.DurabilityService)},
		{"deadline", optional(q.Deadline)},
		{"latency_budget", optional(q.LatencyBudget)},
		{"liveliness", optional(q.Liveliness)},
		{"reliability", optional(q.Reliability)},
		{"destination_order", optional(q.DestinationOrder)},
		{"history", optional(q.History)},
		{"resource_limits", optional(q.ResourceLimits)},
		{"lifespan", optional(q.Lifespan)},
		{"ownership", optional(q.Ownership)},
		{"time_based_filter", optional(q.TimeBasedFilter)},
		{"writer_data_lifecycle", optional(q.WriterDataLifecycle)},
		{"reader_data_lifecycle", optional(q.ReaderDataLifecycle)},
		{"reader_lifespan", optional(q.ReaderLifespan)},
		{"ignore_local", optional(q.IgnoreLocal)},
	}
	for _, c := range checks {
		if c.v == nil {
			continue
		}
		if err := c.v.Validate(); err != nil {
			return errors.WithFieldError(err, c.name)
		}
	}

	if q.History != nil && q.ResourceLimits != nil {
		if err := ValidateHistoryAndResourceLimits(*q.History, *q.ResourceLimits); err != nil {
			return err
		}
	}
	if q.Deadline != nil && q.TimeBasedFilter != nil {
		if err := ValidateDeadlineAndTimeBasedFilter(*q.Deadline, *q.TimeBasedFilter); err != nil {
			return errors.WithFieldError(err, "time_based_filter")
		}
	}
	return nil
}

// optional returns nil for an absent policy, so that it is skipped rather
// than being a non-nil interface holding a nil pointer
func optional[T validator](p *T) validator {
	if p == nil {
		return nil
	}
	return *p
}
