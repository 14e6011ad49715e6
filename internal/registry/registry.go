// Package registry is the declarative tagging mechanism that turns a plain
// callable into a discoverable action. Action packages register themselves at
// startup; the scanner merges the registry with the manifest-declared actions
// found on disk.
package registry

import (
	"os"
	"sync"

	"launchpad/pkg/types"
)

// Option configures an action built with New.
type Option func(*types.Descriptor)

// WithDescription attaches a human-readable description. The first line is
// used as the one-line summary in flattened views.
func WithDescription(description string) Option {
	return func(d *types.Descriptor) {
		d.Description = description
	}
}

// ActivateIf gates the action on a live predicate, evaluated on every render.
func ActivateIf(predicate func() bool) Option {
	return func(d *types.Descriptor) {
		d.Active = predicate
	}
}

// ActivateWhen gates the action on a literal boolean, lifted to a constant
// predicate.
func ActivateWhen(active bool) Option {
	return func(d *types.Descriptor) {
		d.Active = func() bool { return active }
	}
}

// PathExists is a convenience predicate for the common case of actions that
// need a template folder or network share to be reachable.
func PathExists(path string) func() bool {
	return func() bool {
		_, err := os.Stat(path)
		return err == nil
	}
}

// AllExist builds a predicate requiring every given path to be reachable.
func AllExist(paths ...string) func() bool {
	return func() bool {
		for _, p := range paths {
			if _, err := os.Stat(p); err != nil {
				return false
			}
		}
		return true
	}
}

// New tags a callable as an action under the given folder. The callable is
// invoked with the same arguments and its error is returned unchanged; name
// and description survive for diagnostics.
func New(folder, name string, fn types.Callback, opts ...Option) types.Descriptor {
	d := types.Descriptor{
		Path:     types.NormalizePath(folder),
		Name:     name,
		Callback: fn,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Registry collects tagged actions for one process run.
type Registry struct {
	mu      sync.Mutex
	actions []types.Descriptor
}

// Register adds descriptors to the registry.
func (r *Registry) Register(descriptors ...types.Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, descriptors...)
}

// All returns a snapshot of the registered actions.
func (r *Registry) All() []types.Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.Descriptor, len(r.actions))
	copy(out, r.actions)
	return out
}

// Reset clears the registry. Used by tests.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = nil
}

var defaultRegistry = &Registry{}

// Default returns the process-global registry.
func Default() *Registry {
	return defaultRegistry
}

// Register adds descriptors to the process-global registry.
func Register(descriptors ...types.Descriptor) {
	defaultRegistry.Register(descriptors...)
}
