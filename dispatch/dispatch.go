// Copyright 2026 The TensorGo Authors. SPDX-License-Identifier: Apache-2.0

// Package dispatch implements the per-operator dynamic dispatch registry: for
// every named operator it maps the runtime backend tag carried by a tensor
// argument (see package backends) to the concrete kernel that must run for
// tensors carrying that tag.
//
// For each operator there is one Table, built once from the operator's Schema.
// Construction decides, once, where in the call stack the dispatch-determining
// argument lives; after that every call only peeks that one position, derives
// a backends.Key and looks the kernel up in a read-optimized concurrent map.
// Lookups never block and never take a lock, registration and deregistration
// are rare and serialize among themselves; see types/xsync.LeftRight for the
// underlying pattern.
//
// Tables are usually owned by a Registry, one per process (or one per runtime
// instance), which also offers the per-call invocation path (Registry.Call).
//
// Selection only: this package decides which kernel runs, not whether it is
// correct for the input shapes or dtypes.
package dispatch

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/tensorgo/tensorgo/backends"
)

// Table is the dispatch table of a single operator.
//
// It is built once from the operator's schema (NewTable) and lives for as long
// as the operator is registered in the runtime. Kernels come and go over its
// lifetime: built-in backends register at process start, optional backends
// register and deregister as extensions load and unload, all concurrently with
// calls to Dispatch.
type Table struct {
	kernels  keyedTable
	strategy dispatchStrategy
	operator string
}

// NewTable builds the dispatch table for the operator described by schema.
//
// The schema is consumed here, exactly once: the dispatch strategy it implies
// is immutable for the lifetime of the table. Fails with
// NoDispatchableArgumentError if the schema has no tensor or list-of-tensor
// argument.
func NewTable(schema Schema) (*Table, error) {
	strategy, err := strategyFor(schema)
	if err != nil {
		return nil, err
	}
	return &Table{
		kernels:  newKeyedTable(),
		strategy: strategy,
		operator: schema.Name,
	}, nil
}

// Name returns the operator's display name, used in diagnostics.
func (t *Table) Name() string { return t.operator }

// RegisterKernel registers a kernel to run when the dispatch-determining
// argument carries key. The entry's Kernel must not be nil: once stored, an
// entry is invoked without further checks. Fails with DuplicateKernelError if
// the key is already taken; the table is left unchanged on any failure.
func (t *Table) RegisterKernel(key backends.Key, entry KernelEntry) error {
	if entry.Kernel == nil {
		return errors.Errorf("cannot register a nil kernel for operator %q at dispatch key %s", t.operator, key)
	}
	if err := t.kernels.emplace(key, entry, t.operator); err != nil {
		return err
	}
	klog.V(1).Infof("dispatch: registered kernel for operator %q at dispatch key %s", t.operator, key)
	return nil
}

// DeregisterKernel removes the kernel registered under key. Fails with
// MissingKernelError if there is none; the table is left unchanged on failure.
func (t *Table) DeregisterKernel(key backends.Key) error {
	if err := t.kernels.erase(key, t.operator); err != nil {
		return err
	}
	klog.V(1).Infof("dispatch: deregistered kernel for operator %q at dispatch key %s", t.operator, key)
	return nil
}

// Dispatch derives the dispatch key from the call stack and returns the kernel
// entry registered under it.
//
// It may fail with EmptyDispatchListError (the dispatch-determining argument
// is an empty tensor list) or MissingKernelError (no kernel for the derived
// key). Dispatch never blocks, regardless of concurrent registrations.
func (t *Table) Dispatch(stack *Stack) (KernelEntry, error) {
	key, err := t.strategy.extractKey(stack, t.operator)
	if err != nil {
		return KernelEntry{}, err
	}
	return t.kernels.lookup(key, t.operator)
}

// IsEmpty reports whether no kernels are currently registered.
func (t *Table) IsEmpty() bool {
	return t.kernels.isEmpty()
}
