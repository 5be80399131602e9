// Package store holds the application state in memory and applies every
// mutation to it. Mutations never fail: an unknown ID makes them a no-op.
//
// Every mutation builds new slices from the old ones instead of editing
// them, so a State returned by Snapshot never changes afterwards and can be
// read without holding any lock.
package store

import (
	"slices"
	"sync"

	"github.com/erazemk/musemate/internal/idgen"
	"github.com/erazemk/musemate/internal/model"
)

// State is the full application state.
type State struct {
	Items     []model.Item              `json:"items"`
	Events    []model.Event             `json:"events"`
	Templates []model.ChecklistTemplate `json:"templates"`
	Loading   bool                      `json:"loading"`
	Error     string                    `json:"error,omitempty"`
	UserID    string                    `json:"userId,omitempty"`
}

// Empty returns the initial state with empty collections.
func Empty() State {
	return State{
		Items:     []model.Item{},
		Events:    []model.Event{},
		Templates: []model.ChecklistTemplate{},
	}
}

// Hook is called after each mutation that changed the state, with the name
// of the operation and the new state. It runs while the store is locked so
// hooks observe states in mutation order; it must not call back into the
// store.
type Hook func(op string, state State)

// Chain returns a hook that calls each of hooks in order.
func Chain(hooks ...Hook) Hook {
	return func(op string, state State) {
		for _, h := range hooks {
			h(op, state)
		}
	}
}

// Store is the single source of truth for items and events.
type Store struct {
	mu    sync.RWMutex
	state State
	ids   idgen.Generator
	hook  Hook
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the default UUIDv7 generator.
func WithIDGenerator(g idgen.Generator) Option {
	return func(s *Store) { s.ids = g }
}

// WithHook registers the change hook.
func WithHook(h Hook) Option {
	return func(s *Store) { s.hook = h }
}

// New creates a store seeded with initial. Nil collections are replaced with
// empty ones.
func New(initial State, opts ...Option) *Store {
	if initial.Items == nil {
		initial.Items = []model.Item{}
	}
	if initial.Events == nil {
		initial.Events = []model.Event{}
	}
	if initial.Templates == nil {
		initial.Templates = []model.ChecklistTemplate{}
	}
	s := &Store{state: initial, ids: idgen.UUID{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state. The returned slices are shared with
// the store and must be treated as read-only.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// update applies fn to a copy of the state. If fn reports a change, the copy
// replaces the current state and the hook runs.
func (s *Store) update(op string, fn func(st *State) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	if !fn(&next) {
		return
	}
	s.state = next
	if s.hook != nil {
		s.hook(op, next)
	}
}

// SetUserID records the signed-in user's opaque ID. Empty clears it.
func (s *Store) SetUserID(id string) {
	s.update("set_user_id", func(st *State) bool {
		if st.UserID == id {
			return false
		}
		st.UserID = id
		return true
	})
}

// SetLoading sets the transient loading flag.
func (s *Store) SetLoading(loading bool) {
	s.update("set_loading", func(st *State) bool {
		st.Loading = loading
		return true
	})
}

// SetError sets the transient error message. Empty clears it.
func (s *Store) SetError(msg string) {
	s.update("set_error", func(st *State) bool {
		st.Error = msg
		return true
	})
}

// replaceAt returns a copy of list with list[i] replaced by v.
func replaceAt[T any](list []T, i int, v T) []T {
	out := slices.Clone(list)
	out[i] = v
	return out
}

// without returns a new slice holding the elements of list for which drop
// is false, and whether anything was dropped.
func without[T any](list []T, drop func(T) bool) ([]T, bool) {
	if list == nil {
		return nil, false
	}
	out := make([]T, 0, len(list))
	for _, v := range list {
		if !drop(v) {
			out = append(out, v)
		}
	}
	return out, len(out) != len(list)
}
