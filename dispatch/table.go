// Copyright 2026 The TensorGo Authors. SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"slices"

	"golang.org/x/exp/maps"

	"github.com/tensorgo/tensorgo/backends"
	"github.com/tensorgo/tensorgo/types/xsync"
)

// keyedTable maps dispatch keys to kernel entries for one operator.
//
// Lookups are the hot path: every operator invocation on every thread goes
// through one, so they must never block, not even on a concurrent
// registration. The map is hosted in a xsync.LeftRight: readers run lock-free
// on the active copy while writers (rare: kernel registration and
// deregistration) serialize and keep both copies in sync. A reader observes
// either the fully-pre-write or fully-post-write map, never a torn one.
type keyedTable struct {
	lr *xsync.LeftRight[map[backends.Key]KernelEntry]
}

func newKeyedTable() keyedTable {
	return keyedTable{
		lr: xsync.NewLeftRight(func() map[backends.Key]KernelEntry {
			return make(map[backends.Key]KernelEntry)
		}),
	}
}

// emplace inserts entry under key. Fails with DuplicateKernelError if the key
// is already taken, leaving the table unmodified.
func (kt keyedTable) emplace(key backends.Key, entry KernelEntry, operator string) error {
	var err error
	kt.lr.Write(func(m *map[backends.Key]KernelEntry) {
		if _, found := (*m)[key]; found {
			err = &DuplicateKernelError{Operator: operator, Key: key}
			return
		}
		(*m)[key] = entry
	})
	return err
}

// erase removes the entry under key. Fails with MissingKernelError if there is
// none, leaving the table unmodified.
func (kt keyedTable) erase(key backends.Key, operator string) error {
	var err error
	kt.lr.Write(func(m *map[backends.Key]KernelEntry) {
		if _, found := (*m)[key]; !found {
			err = &MissingKernelError{Operator: operator, Key: key, Known: sortedKeys(*m)}
			return
		}
		delete(*m, key)
	})
	return err
}

// lookup returns the entry under key, or MissingKernelError carrying a
// snapshot of the registered keys for diagnostics.
func (kt keyedTable) lookup(key backends.Key, operator string) (KernelEntry, error) {
	var entry KernelEntry
	var err error
	kt.lr.Read(func(m *map[backends.Key]KernelEntry) {
		found := false
		entry, found = (*m)[key]
		if !found {
			err = &MissingKernelError{Operator: operator, Key: key, Known: sortedKeys(*m)}
		}
	})
	return entry, err
}

// isEmpty reports whether no kernels are registered.
func (kt keyedTable) isEmpty() bool {
	empty := false
	kt.lr.Read(func(m *map[backends.Key]KernelEntry) {
		empty = len(*m) == 0
	})
	return empty
}

// sortedKeys snapshots the registered keys in deterministic order. Only called
// on failure paths to build diagnostics.
func sortedKeys(m map[backends.Key]KernelEntry) []backends.Key {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
