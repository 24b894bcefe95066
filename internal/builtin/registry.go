// Package builtin provides the named native operations callable from
// filter source and the registry the executor looks them up in.
package builtin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jacoelho/jx/internal/value"
)

// ErrBuiltin indicates a builtin precondition failure or a lookup of an
// unknown name.
var ErrBuiltin = errors.New("builtin: error")

// Func is a builtin implementation: it receives the current value and
// returns zero or more outputs. A non-nil error aborts execution.
type Func func(input *value.Value) ([]*value.Value, error)

// Registry maps builtin names to implementations. The zero value is not
// usable; construct with New or Default. A Registry is safe for concurrent
// registration and lookup.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Default returns a registry populated with the standard builtins:
// keys, values, type, length, empty, reverse, sort and to_entries.
func Default() *Registry {
	r := New()
	r.Register("keys", keysBuiltin)
	r.Register("values", valuesBuiltin)
	r.Register("type", typeBuiltin)
	r.Register("length", lengthBuiltin)
	r.Register("empty", emptyBuiltin)
	r.Register("reverse", reverseBuiltin)
	r.Register("sort", sortBuiltin)
	r.Register("to_entries", toEntriesBuiltin)
	return r
}

// Register adds fn under name, replacing any existing registration.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
}

// Lookup returns the builtin registered under name.
func (r *Registry) Lookup(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}

// Call invokes the builtin registered under name with input.
func (r *Registry) Call(name string, input *value.Value) ([]*value.Value, error) {
	fn, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown builtin %q", ErrBuiltin, name)
	}
	return fn(input)
}

// Names returns the registered builtin names in unspecified order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	return names
}
