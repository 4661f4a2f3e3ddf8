// Copyright 2026 The TensorGo Authors. SPDX-License-Identifier: Apache-2.0

package dispatch

// Cache is an opaque handle to a kernel's private mutable state.
//
// The registry never touches a cache: it is created by Kernel.NewCache once
// per lookup context and handed back to the kernel on every Invoke within
// that context. Whoever performs the lookup owns the cache's lifetime (see
// Registry.Call).
type Cache any

// Kernel is the concrete implementation of an operator for one dispatch key.
//
// Besides being invocable, a kernel may keep a private reusable cache: if it
// does, NewCache returns a fresh instance; stateless kernels return nil.
type Kernel interface {
	// Invoke runs the kernel on the call stack. cache is the instance created
	// by NewCache for this lookup context, or nil for stateless kernels.
	Invoke(stack *Stack, cache Cache) error

	// NewCache creates a fresh private cache for the kernel, or returns nil
	// if the kernel keeps no state between calls.
	NewCache() Cache
}

// KernelFunc adapts a plain function into a stateless Kernel.
type KernelFunc func(stack *Stack) error

// Invoke implements Kernel.
func (f KernelFunc) Invoke(stack *Stack, _ Cache) error { return f(stack) }

// NewCache implements Kernel: a KernelFunc keeps no cache.
func (f KernelFunc) NewCache() Cache { return nil }

// KernelEntry is what a dispatch table stores per dispatch key and what a
// successful Dispatch returns. The Kernel is never nil once registered; both
// the kernel and its cache behavior are fixed at registration time.
type KernelEntry struct {
	Kernel Kernel
}
