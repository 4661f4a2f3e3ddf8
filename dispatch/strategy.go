// Copyright 2026 The TensorGo Authors. SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"github.com/pkg/errors"

	"github.com/tensorgo/tensorgo/backends"
)

// dispatchStrategy caches where in a call stack the dispatch-determining
// argument lives, so the schema doesn't have to be re-parsed on every call.
//
// argOffset is the 1-based distance from the top of the stack: arguments are
// pushed in declaration order, so for a schema with N arguments whose first
// tensor argument is at index i, the offset is N-i (an offset of 1 is the last
// argument). Computed once at table construction, immutable afterwards.
type dispatchStrategy struct {
	argOffset int
	isList    bool
}

// strategyFor scans the schema's arguments in declaration order and selects
// the first one classified tensor or list-of-tensor. Later tensor arguments
// are ignored. Fails with NoDispatchableArgumentError if there is none.
func strategyFor(schema Schema) (dispatchStrategy, error) {
	for i, arg := range schema.Args {
		switch arg.Kind {
		case KindTensor:
			return dispatchStrategy{argOffset: len(schema.Args) - i, isList: false}, nil
		case KindTensorList:
			return dispatchStrategy{argOffset: len(schema.Args) - i, isList: true}, nil
		}
	}
	return dispatchStrategy{}, errors.WithStack(&NoDispatchableArgumentError{Operator: schema.Name})
}

// extractKey reads the dispatch key from the call stack. It is a pure read:
// nothing is popped and nothing is mutated.
//
// For a list-of-tensor argument the first element's tag decides; an empty list
// fails with EmptyDispatchListError. Reinterpretation failures from the boxed
// value propagate as-is.
func (ds dispatchStrategy) extractKey(stack *Stack, operator string) (backends.Key, error) {
	arg := stack.Peek(ds.argOffset)
	if ds.isList {
		elems, err := arg.TensorList()
		if err != nil {
			return backends.KeyInvalid, err
		}
		if len(elems) == 0 {
			return backends.KeyInvalid, &EmptyDispatchListError{Operator: operator}
		}
		return elems[0].DispatchKey(), nil
	}
	tensor, err := arg.Tensor()
	if err != nil {
		return backends.KeyInvalid, err
	}
	return tensor.DispatchKey(), nil
}
