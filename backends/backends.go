// Copyright 2026 The TensorGo Authors. SPDX-License-Identifier: Apache-2.0

// Package backends names the runtime backends known to the process and mints
// the dispatch keys used to select kernels for them.
//
// A backend is a concrete device/layout implementation a tensor argument can
// carry: CPU, CUDA, a sparse layout, etc. Each backend registers a name once
// (usually during initialization of its package, or when an extension loads)
// and receives a Key in return. The key is what tensors carry at runtime and
// what kernels are registered under in the dispatch tables.
package backends

import (
	"fmt"
	"sync"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Key is an opaque tag identifying a runtime backend/type.
//
// Keys are small comparable values: they can be copied freely and used as map
// keys. A Key is immutable once minted by Register.
type Key int32

// KeyInvalid is the zero Key. It never identifies a backend: Register starts
// minting at 1, and failed registrations return KeyInvalid, so a mishandled
// error cannot alias a real backend's key.
const KeyInvalid Key = 0

// String renders the key for diagnostics as "name[id]".
//
// The name is looked up best-effort: a key that was never registered with a
// name (e.g. it arrived from a backend that has since unloaded) renders with
// an empty name, just "[id]". String never fails.
func (k Key) String() string {
	name, _ := KeyName(k)
	return fmt.Sprintf("%s[%d]", name, int32(k))
}

var (
	muRegistry sync.Mutex
	keysByName = make(map[string]Key)
	namesByKey = make(map[Key]string)
	nextKey    = KeyInvalid + 1
)

// Register mints a fresh Key bound to the given backend name.
//
// It is safe to call concurrently: optional backends register whenever their
// extension loads. Registering the same name twice is an error.
func Register(name string) (Key, error) {
	muRegistry.Lock()
	defer muRegistry.Unlock()
	if name == "" {
		return KeyInvalid, errors.New("backend name cannot be empty")
	}
	if _, found := keysByName[name]; found {
		return KeyInvalid, errors.Errorf("backend %q is already registered", name)
	}
	key := nextKey
	nextKey++
	keysByName[name] = key
	namesByKey[key] = name
	return key, nil
}

// MustRegister registers the backend name and panics (with a stack trace) if
// the registration fails. Meant for use during initialization of a backend
// package.
func MustRegister(name string) Key {
	key, err := Register(name)
	if err != nil {
		exceptions.Panicf("backends.MustRegister(%q): %v", name, err)
	}
	return key
}

// KeyName returns the backend name a key was registered under, if any.
func KeyName(key Key) (string, bool) {
	muRegistry.Lock()
	defer muRegistry.Unlock()
	name, found := namesByKey[key]
	return name, found
}

// CPU is the built-in backend every process has.
var CPU = MustRegister("cpu")
