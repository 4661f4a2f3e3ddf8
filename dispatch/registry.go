// Copyright 2026 The TensorGo Authors. SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/tensorgo/tensorgo/types/xsync"
)

// Registry owns one dispatch Table per registered operator.
//
// It is an explicit object, built with NewRegistry and injected where needed,
// rather than an ambient process-wide global: all lock/atomic reasoning stays
// inside the tables. A Registry is safe for concurrent use.
type Registry struct {
	tables xsync.SyncMap[string, *Table]
}

// NewRegistry returns an empty operator registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterOperator builds the dispatch table for the operator described by
// schema and adds it to the registry. Each operator is registered exactly
// once; a second registration under the same name fails with
// DuplicateOperatorError. Schema problems surface as
// NoDispatchableArgumentError.
func (r *Registry) RegisterOperator(schema Schema) (*Table, error) {
	table, err := NewTable(schema)
	if err != nil {
		return nil, err
	}
	if _, loaded := r.tables.LoadOrStore(schema.Name, table); loaded {
		return nil, errors.WithStack(&DuplicateOperatorError{Operator: schema.Name})
	}
	klog.V(1).Infof("dispatch: registered operator %q (%d arguments)", schema.Name, len(schema.Args))
	return table, nil
}

// DeregisterOperator removes the operator's table from the registry, e.g. when
// the operator is fully deregistered from the runtime. Fails with
// MissingOperatorError if the operator is unknown.
func (r *Registry) DeregisterOperator(name string) error {
	if _, loaded := r.tables.LoadAndDelete(name); !loaded {
		return errors.WithStack(&MissingOperatorError{Operator: name})
	}
	klog.V(1).Infof("dispatch: deregistered operator %q", name)
	return nil
}

// Lookup returns the dispatch table of the named operator, if registered.
func (r *Registry) Lookup(name string) (*Table, bool) {
	return r.tables.Load(name)
}

// Call performs one full operator invocation: it dispatches on the stack to
// select the kernel, creates a fresh private cache for it if the kernel keeps
// one, and invokes it with the original stack and that cache.
//
// The cache instance lives only for this invocation context; callers that want
// to reuse a kernel's cache across calls should Dispatch themselves, hold on
// to the entry and the cache, and invoke the kernel directly.
func (r *Registry) Call(name string, stack *Stack) error {
	table, found := r.Lookup(name)
	if !found {
		return errors.WithStack(&MissingOperatorError{Operator: name})
	}
	entry, err := table.Dispatch(stack)
	if err != nil {
		return err
	}
	cache := entry.Kernel.NewCache()
	return entry.Kernel.Invoke(stack, cache)
}
