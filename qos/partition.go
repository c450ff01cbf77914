// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package qos

import (
	"bytes"

	"golang.org/x/exp/slices"
)

// isDefaultPartition reports whether seq names only the default partition,
// which may be spelt as an empty list or as any number of empty strings
func isDefaultPartition(seq StringSeq) bool {
	for _, s := range seq {
		if len(s.b) != 0 {
			return false
		}
	}
	return true
}

// contains reports whether s is in seq by linear search
func contains(seq StringSeq, s String) bool {
	for _, t := range seq {
		if s.Equal(t) {
			return true
		}
	}
	return false
}

// subset reports whether every element of b is in a. Small inputs are
// compared pairwise, larger ones by sorting a.
func subset(a, b StringSeq) bool {
	if len(a)*len(b) < 10 {
		for _, s := range b {
			if !contains(a, s) {
				return false
			}
		}
		return true
	}

	sorted := a.Bytes()
	slices.SortFunc(sorted, bytes.Compare)
	for _, s := range b {
		if _, found := slices.BinarySearchFunc(sorted, s.b, bytes.Compare); !found {
			return false
		}
	}
	return true
}

// PartitionsEqual compares two partition lists as sets, so order and
// repetition do not matter
func PartitionsEqual(a, b StringSeq) bool {
	if len(a) == 1 && len(b) == 1 {
		return a[0].Equal(b[0])
	}

	aDefault, bDefault := isDefaultPartition(a), isDefaultPartition(b)
	if aDefault || bDefault {
		return aDefault == bDefault
	}

	if len(a) < len(b) {
		a, b = b, a
	}
	return subset(a, b) && subset(b, a)
}
