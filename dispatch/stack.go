// Copyright 2026 The TensorGo Authors. SPDX-License-Identifier: Apache-2.0

package dispatch

import "github.com/tensorgo/tensorgo/backends"

// Tagged is a tensor-like value that carries the backend tag of its concrete
// implementation. It is the only thing the dispatcher needs to know about a
// tensor.
type Tagged interface {
	DispatchKey() backends.Key
}

// Value is a boxed call argument. The dispatcher only ever asks a Value to
// reinterpret itself as a tensor or as a list of tensors; either call may fail
// if the box holds something else, and that failure is propagated to the
// caller as-is.
type Value interface {
	// Tensor interprets the boxed value as a single tensor-like value.
	Tensor() (Tagged, error)

	// TensorList interprets the boxed value as a list of tensor-like values.
	TensorList() ([]Tagged, error)
}

// Stack is the ordered sequence of boxed arguments for one operator
// invocation. Arguments are pushed in declaration order, so the last declared
// argument sits on top.
//
// The stack is owned by the caller of Dispatch; the dispatcher only peeks at
// it and never shares it with concurrent registrations.
type Stack []Value

// Push appends a value on top of the stack.
func (s *Stack) Push(v Value) {
	*s = append(*s, v)
}

// Pop removes and returns the value on top of the stack.
func (s *Stack) Pop() Value {
	last := len(*s) - 1
	v := (*s)[last]
	(*s)[last] = nil
	*s = (*s)[:last]
	return v
}

// Peek returns the value fromTop positions from the top of the stack without
// popping it. fromTop is 1-based: Peek(1) is the top of the stack.
func (s *Stack) Peek(fromTop int) Value {
	return (*s)[len(*s)-fromTop]
}

// Len returns the number of values on the stack.
func (s *Stack) Len() int {
	return len(*s)
}
