package registry

import (
	"sync"
	"time"

	"github.com/conneroisu/embedposts/internal/errors"
)

// Scope is a node in the global object tree. Registries resolve their dotted
// namespace path against a root Scope.
type Scope struct {
	entries  map[string]any
	mutex    sync.RWMutex
	ensure   sync.Mutex
	watchers []chan Event
}

var (
	defaultScope     *Scope
	defaultScopeOnce sync.Once
)

// NewScope creates an empty, isolated scope.
func NewScope() *Scope {
	return &Scope{
		entries:  make(map[string]any),
		watchers: make([]chan Event, 0),
	}
}

// DefaultScope returns the process-wide root scope, created on first use and
// never torn down.
func DefaultScope() *Scope {
	defaultScopeOnce.Do(func() {
		defaultScope = NewScope()
	})
	return defaultScope
}

// Get returns the value bound to name.
func (s *Scope) Get(name string) (any, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	v, ok := s.entries[name]
	return v, ok
}

func (s *Scope) set(name string, value any) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	eventType := EventTypeInstalled
	if _, exists := s.entries[name]; exists {
		eventType = EventTypeReplaced
	}
	s.entries[name] = value

	event := Event{Type: eventType, Name: name, Value: value, Timestamp: time.Now()}
	for _, watcher := range s.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}

// child returns the nested scope bound to name, creating it when absent.
func (s *Scope) child(name string) (*Scope, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if existing, ok := s.entries[name]; ok {
		child, isScope := existing.(*Scope)
		if !isScope {
			return nil, errors.NewInternalError(errors.ErrCodeRegistryConflict,
				"namespace segment is bound to a non-scope value", nil).
				WithContext("segment", name)
		}
		return child, nil
	}

	child := NewScope()
	s.entries[name] = child
	return child, nil
}
