package dom

import (
	"context"
	"sync"
	"time"

	"github.com/conneroisu/embedposts/internal/registry"
)

// Event types dispatched by a Window.
const (
	EventReadyStateChange = "readystatechange"
	EventContentLoaded    = "DOMContentLoaded"
)

// ReadyState mirrors document.readyState.
type ReadyState string

const (
	ReadyStateLoading     ReadyState = "loading"
	ReadyStateInteractive ReadyState = "interactive"
	ReadyStateComplete    ReadyState = "complete"
)

// Event is a page lifecycle event.
type Event struct {
	Type       string
	ReadyState ReadyState
	Timestamp  time.Time
}

// Listener handles a dispatched event.
type Listener func(ctx context.Context, event Event)

// EventTarget accepts listeners.
type EventTarget interface {
	AddEventListener(eventType string, listener Listener)
}

// Window is the host page environment: an event target that owns the page
// lifecycle and the global scope the module registry lives in.
type Window struct {
	mu         sync.Mutex
	listeners  map[string][]Listener
	readyState ReadyState
	global     *registry.Scope
}

// NewWindow creates a window in the loading state. A nil global gets a fresh,
// isolated scope.
func NewWindow(global *registry.Scope) *Window {
	if global == nil {
		global = registry.NewScope()
	}
	return &Window{
		listeners:  make(map[string][]Listener),
		readyState: ReadyStateLoading,
		global:     global,
	}
}

// Global returns the root scope for namespaced registries.
func (w *Window) Global() *registry.Scope {
	return w.global
}

// ReadyState returns the current lifecycle state.
func (w *Window) ReadyState() ReadyState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.readyState
}

// AddEventListener registers listener for eventType. Listeners added after an
// event was dispatched are not replayed.
func (w *Window) AddEventListener(eventType string, listener Listener) {
	if listener == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners[eventType] = append(w.listeners[eventType], listener)
}

// ListenerCount reports how many listeners are registered for eventType.
func (w *Window) ListenerCount(eventType string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.listeners[eventType])
}

// Dispatch delivers event to the listeners registered for its type at the
// time of the call.
func (w *Window) Dispatch(ctx context.Context, event Event) {
	w.mu.Lock()
	listeners := make([]Listener, len(w.listeners[event.Type]))
	copy(listeners, w.listeners[event.Type])
	w.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	for _, listener := range listeners {
		listener(ctx, event)
	}
}

// Ready drives the one-shot page lifecycle: loading → interactive (with
// readystatechange then DOMContentLoaded) → complete (with readystatechange).
// It returns false if the page already left the loading state.
func (w *Window) Ready(ctx context.Context) bool {
	if !w.advance(ReadyStateLoading, ReadyStateInteractive) {
		return false
	}
	w.Dispatch(ctx, Event{Type: EventReadyStateChange, ReadyState: ReadyStateInteractive})
	w.Dispatch(ctx, Event{Type: EventContentLoaded, ReadyState: ReadyStateInteractive})

	w.advance(ReadyStateInteractive, ReadyStateComplete)
	w.Dispatch(ctx, Event{Type: EventReadyStateChange, ReadyState: ReadyStateComplete})
	return true
}

func (w *Window) advance(from, to ReadyState) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.readyState != from {
		return false
	}
	w.readyState = to
	return true
}
