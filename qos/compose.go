// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package qos

// ComposeReader resolves the effective QoS of a reader: the policies the
// user set, then those of its subscriber and topic, then the reader
// defaults. Any of the inputs may be nil.
//
// When a topic is given, durability service, transport priority and lifespan
// are removed after merging it, as they only apply to writers.
func ComposeReader(user, subscriber, topic *QoS) (*QoS, error) {
	q := &QoS{}
	q.MergeMissing(user)
	q.MergeMissing(subscriber)
	if topic != nil {
		q.MergeMissing(topic)
		q.DurabilityService = nil
		q.TransportPriority = nil
		q.Lifespan = nil
	}
	q.MergeMissing(DefaultReader())
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// ComposeWriter resolves the effective QoS of a writer in the same way as
// ComposeReader, using the writer defaults
func ComposeWriter(user, publisher, topic *QoS) (*QoS, error) {
	q := &QoS{}
	q.MergeMissing(user)
	q.MergeMissing(publisher)
	q.MergeMissing(topic)
	q.MergeMissing(DefaultWriter())
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}
