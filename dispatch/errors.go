// Copyright 2026 The TensorGo Authors. SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"fmt"
	"strings"

	"github.com/tensorgo/tensorgo/backends"
)

// The error types below carry the raw facts of a failure; the human-readable
// rendering (including the list of registered dispatch keys) happens only when
// Error is actually called, so the successful hot path pays no formatting
// cost. Match them with errors.As.

// NoDispatchableArgumentError reports a schema with no tensor or
// list-of-tensor argument: such an operator cannot be dynamically dispatched.
// It is returned at table construction time, never at call time.
type NoDispatchableArgumentError struct {
	Operator string
}

func (e *NoDispatchableArgumentError) Error() string {
	return fmt.Sprintf("cannot build a dispatch table for operator %q: its schema has no tensor or tensor-list arguments", e.Operator)
}

// DuplicateKernelError reports an attempt to register a second kernel under a
// dispatch key that is already taken for the operator.
type DuplicateKernelError struct {
	Operator string
	Key      backends.Key
}

func (e *DuplicateKernelError) Error() string {
	return fmt.Sprintf("tried to register multiple kernels with the same dispatch key %s for operator %q", e.Key, e.Operator)
}

// MissingKernelError reports that no kernel is registered under the given
// dispatch key for the operator. It is returned both by lookups (the common
// "operator doesn't support this backend" user-visible error) and by
// deregistration of a key that was never registered.
//
// Known is a snapshot of the dispatch keys registered at the time of the
// failure.
type MissingKernelError struct {
	Operator string
	Key      backends.Key
	Known    []backends.Key
}

func (e *MissingKernelError) Error() string {
	return fmt.Sprintf("no kernel registered under dispatch key %s for operator %q; registered dispatch keys are: %s",
		e.Key, e.Operator, renderKeys(e.Known))
}

// EmptyDispatchListError reports a call whose dispatch-determining argument is
// a list of tensors that turned out to be empty. This is a caller-input
// problem, distinct from MissingKernelError.
type EmptyDispatchListError struct {
	Operator string
}

func (e *EmptyDispatchListError) Error() string {
	return fmt.Sprintf("cannot dispatch operator %q based on an empty tensor list: when the first tensor argument of an operator is a tensor list, it must not be empty", e.Operator)
}

// DuplicateOperatorError reports an attempt to register an operator name that
// already has a dispatch table in the registry.
type DuplicateOperatorError struct {
	Operator string
}

func (e *DuplicateOperatorError) Error() string {
	return fmt.Sprintf("operator %q is already registered", e.Operator)
}

// MissingOperatorError reports an operator name with no dispatch table in the
// registry.
type MissingOperatorError struct {
	Operator string
}

func (e *MissingOperatorError) Error() string {
	return fmt.Sprintf("operator %q is not registered", e.Operator)
}

func renderKeys(keys []backends.Key) string {
	if len(keys) == 0 {
		return "(none)"
	}
	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = key.String()
	}
	return strings.Join(parts, ", ")
}
