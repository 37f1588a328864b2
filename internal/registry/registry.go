// Package registry provides a namespaced, idempotent store for singleton
// definitions.
//
// A script that may be evaluated many times on the same page resolves its
// definitions through a Registry so that every evaluation after the first
// reuses what the first one built. The pattern is
//
//	value, err := reg.Ensure(name, build)
//
// which runs build only when name is unbound. Side effects placed inside build
// (attaching a page-ready listener, for instance) therefore run exactly once
// per root scope, however many times the calling code runs.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/conneroisu/embedposts/internal/errors"
)

// Registry resolves names within one dotted namespace of a root scope.
type Registry struct {
	path  string
	scope *Scope
}

// Event represents a binding change in a namespace.
type Event struct {
	Type      EventType
	Name      string
	Value     any
	Timestamp time.Time
}

// EventType represents the type of registry event
type EventType int

const (
	EventTypeInstalled EventType = iota
	EventTypeReplaced
)

// String returns the string representation of the EventType
func (e EventType) String() string {
	switch e {
	case EventTypeInstalled:
		return "installed"
	case EventTypeReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// New walks path ("org.example.widget") from root, creating each missing
// segment as a nested scope. A nil root means DefaultScope().
func New(path string, root *Scope) (*Registry, error) {
	if root == nil {
		root = DefaultScope()
	}
	if path == "" {
		return nil, errors.NewValidationError(errors.ErrCodeRegistryPath, "namespace path is empty")
	}

	scope := root
	for _, segment := range strings.Split(path, ".") {
		if segment == "" {
			return nil, errors.NewValidationError(errors.ErrCodeRegistryPath,
				fmt.Sprintf("namespace path %q has an empty segment", path))
		}

		next, err := scope.child(segment)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("namespace %q", path))
		}
		scope = next
	}

	return &Registry{path: path, scope: scope}, nil
}

// Path returns the dotted namespace path.
func (r *Registry) Path() string {
	return r.path
}

// Find returns the value bound to name and whether it was bound.
func (r *Registry) Find(name string) (any, bool) {
	return r.scope.Get(name)
}

// Install binds name to value unconditionally and returns value.
func (r *Registry) Install(name string, value any) any {
	r.scope.set(name, value)
	return value
}

// Ensure returns the value bound to name, or binds the result of build when
// name is unbound. build runs at most once per name and must not call Ensure
// on a registry sharing this namespace. A failing build binds nothing.
func (r *Registry) Ensure(name string, build func() (any, error)) (any, error) {
	if v, ok := r.Find(name); ok {
		return v, nil
	}

	r.scope.ensure.Lock()
	defer r.scope.ensure.Unlock()

	if v, ok := r.Find(name); ok {
		return v, nil
	}

	v, err := build()
	if err != nil {
		return nil, err
	}
	return r.Install(name, v), nil
}

// EnsureAs is Ensure with a typed result. A name already bound to a value of
// another type is reported as a conflict.
func EnsureAs[T any](r *Registry, name string, build func() (T, error)) (T, error) {
	var zero T

	v, err := r.Ensure(name, func() (any, error) {
		built, err := build()
		if err != nil {
			return nil, err
		}
		return built, nil
	})
	if err != nil {
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		return zero, errors.NewInternalError(errors.ErrCodeRegistryConflict,
			fmt.Sprintf("%s.%s is bound to %T", r.path, name, v), nil)
	}
	return typed, nil
}

// Names returns the bound names in sorted order.
func (r *Registry) Names() []string {
	r.scope.mutex.RLock()
	defer r.scope.mutex.RUnlock()

	names := make([]string, 0, len(r.scope.entries))
	for name := range r.scope.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Watch returns a channel that receives binding events for this namespace.
func (r *Registry) Watch() <-chan Event {
	r.scope.mutex.Lock()
	defer r.scope.mutex.Unlock()

	ch := make(chan Event, 100)
	r.scope.watchers = append(r.scope.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it
func (r *Registry) UnWatch(ch <-chan Event) {
	r.scope.mutex.Lock()
	defer r.scope.mutex.Unlock()

	for i, watcher := range r.scope.watchers {
		if watcher == ch {
			close(watcher)
			r.scope.watchers = append(r.scope.watchers[:i], r.scope.watchers[i+1:]...)
			break
		}
	}
}
