// Copyright 2026 The TensorGo Authors. SPDX-License-Identifier: Apache-2.0

// Package xsync implements some extra synchronization tools.
package xsync

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// LeftRight holds two copies of a value T and coordinates them so that any
// number of concurrent readers proceed without locks and without ever blocking
// on a writer, while writers are serialized among themselves.
//
// A write is applied to the copy readers are not using, the active copy is
// flipped atomically, and once the readers still working on the old copy have
// drained, the same mutation is replayed there so the two copies stay in sync.
// A reader therefore always observes either the fully-pre-write or the
// fully-post-write state, never a partially applied one.
//
// Because mutations are applied twice (once per copy), the function given to
// Write must be deterministic: applied to equal states, it must produce equal
// states.
type LeftRight[T any] struct {
	muWriter sync.Mutex

	// active is the index (0 or 1) of the instance new readers use.
	active atomic.Int32

	// version is the index of the reader counter new readers mark themselves on.
	// It is flipped separately from active so a writer can tell when every
	// reader that might still be looking at the old instance is gone.
	version atomic.Int32

	readers   [2]atomic.Int32
	instances [2]T
}

// NewLeftRight creates a LeftRight whose two copies are both initialized with
// newInstance (called twice). The two initial values must be equal.
func NewLeftRight[T any](newInstance func() T) *LeftRight[T] {
	lr := &LeftRight[T]{}
	lr.instances[0] = newInstance()
	lr.instances[1] = newInstance()
	return lr
}

// Read calls fn with the currently active copy. fn must not mutate it and must
// not retain the pointer past the call. Read never blocks: it only bumps an
// atomic reader count for the duration of fn.
func (lr *LeftRight[T]) Read(fn func(instance *T)) {
	vi := lr.version.Load()
	lr.readers[vi].Add(1)
	defer lr.readers[vi].Add(-1)
	fn(&lr.instances[lr.active.Load()])
}

// Write applies fn to both copies, serialized against other writers. New
// readers see the mutation as soon as the active copy is flipped; Write only
// returns after the mutation has also been replayed on the old copy.
//
// fn is called exactly twice. It must be deterministic (see type doc), and it
// must not call back into this LeftRight.
func (lr *LeftRight[T]) Write(fn func(instance *T)) {
	lr.muWriter.Lock()
	defer lr.muWriter.Unlock()

	oldActive := lr.active.Load()
	newActive := 1 - oldActive
	fn(&lr.instances[newActive])
	lr.active.Store(newActive)

	// Flip the reader-counter index and drain both counters in turn: after
	// this no reader can still be inside the old instance.
	vi := lr.version.Load()
	lr.waitForReaders(1 - vi)
	lr.version.Store(1 - vi)
	lr.waitForReaders(vi)

	fn(&lr.instances[oldActive])
}

// waitForReaders spins until the given reader counter drains. Reader critical
// sections are short in-memory operations, so yielding the processor between
// checks is enough.
func (lr *LeftRight[T]) waitForReaders(vi int32) {
	for lr.readers[vi].Load() != 0 {
		runtime.Gosched()
	}
}

// Latch implements a "latch" synchronization mechanism.
//
// A Latch is a signal that can be waited for until it is triggered.
// Once triggered it never changes state, it's forever triggered.
type Latch struct {
	muTrigger sync.Mutex
	wait      chan struct{}
}

// NewLatch returns an un-triggered latch.
func NewLatch() *Latch {
	return &Latch{
		wait: make(chan struct{}),
	}
}

// Trigger latch.
func (l *Latch) Trigger() {
	l.muTrigger.Lock()
	defer l.muTrigger.Unlock()

	if l.Test() {
		// Already triggered, discard value.
		return
	}
	close(l.wait)
}

// Wait waits for the latch to be triggered.
func (l *Latch) Wait() {
	<-l.wait
}

// Test checks whether the latch has been triggered.
func (l *Latch) Test() bool {
	select {
	case <-l.wait:
		return true
	default:
		return false
	}
}

// WaitChan returns the channel that one can use on a `select` to check when
// the latch triggers.
// The returned channel is closed when the latch is triggered.
func (l *Latch) WaitChan() <-chan struct{} {
	return l.wait
}

// SyncMap is a trivial wrapper to sync.Map that casts the key and value types accordingly.
//
// As sync.Map, it can be created ready to go, but should not be copied once it is used.
type SyncMap[K comparable, V any] struct {
	Map sync.Map
}

// Load returns the value stored in the map for a key, or nil if no value is present.
// The ok result indicates whether value was found in the map.
func (m *SyncMap[K, V]) Load(key K) (value V, ok bool) {
	v, ok := m.Map.Load(key)
	if !ok {
		return value, false
	}
	return v.(V), true
}

// Store sets the value for a key.
func (m *SyncMap[K, V]) Store(key K, value V) {
	m.Map.Store(key, value)
}

// LoadOrStore returns the existing value for the key if present.
// Otherwise, it stores and returns the given value.
// The loaded result is true if the value was loaded, false if stored.
func (m *SyncMap[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	v, loaded := m.Map.LoadOrStore(key, value)
	return v.(V), loaded
}

// Delete deletes the value for a key.
func (m *SyncMap[K, V]) Delete(key K) {
	m.Map.Delete(key)
}

// LoadAndDelete deletes the value for a key, returning the previous value if any.
// The loaded result reports whether the key was present.
func (m *SyncMap[K, V]) LoadAndDelete(key K) (value V, loaded bool) {
	v, loaded := m.Map.LoadAndDelete(key)
	if !loaded {
		return value, false
	}
	return v.(V), true
}

// Range calls f sequentially for each key and value present in the map.
// If f returns false, range stops the iteration.
func (m *SyncMap[K, V]) Range(f func(key K, value V) bool) {
	m.Map.Range(func(key, value any) bool {
		return f(key.(K), value.(V))
	})
}

// Clear removes all key-value pairs from the map.
func (m *SyncMap[K, V]) Clear() {
	m.Map.Clear()
}
