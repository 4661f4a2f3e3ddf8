// Copyright 2026 The TensorGo Authors. SPDX-License-Identifier: Apache-2.0

package dispatch

// ArgKind classifies a declared operator argument for dispatch purposes.
// Only whether an argument is a tensor (or a list of tensors) matters here;
// everything else is KindOther.
type ArgKind int

const (
	// KindOther is any argument that is not a tensor: scalars, shapes,
	// attribute values, etc.
	KindOther ArgKind = iota

	// KindTensor is a single tensor argument.
	KindTensor

	// KindTensorList is a list-of-tensors argument.
	KindTensorList
)

// Arg is one declared argument of an operator schema.
type Arg struct {
	Name string
	Kind ArgKind
}

// Schema is the declared signature of an operator, as far as dispatch is
// concerned: its display name and the ordered argument declarations.
//
// It is consumed exactly once, when the operator's dispatch table is built;
// calls never re-parse it.
type Schema struct {
	Name string
	Args []Arg
}
