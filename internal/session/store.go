// Package session holds the process-wide authentication state and its
// transitions. The store is an explicit, injectable object so tests can
// construct independent instances; transitions go through pure reducers so
// a given (state, action) pair always produces the same next state.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/policydesk/policydesk/internal/errors"
	"github.com/policydesk/policydesk/internal/models"
)

// State is the observable authentication state. The zero value is the
// Anonymous state. User is non-nil exactly when IsAuthenticated is true;
// Set and Hydrate enforce this shape.
type State struct {
	IsAuthenticated bool             `json:"is_authenticated"`
	User            *models.AuthUser `json:"user"`
}

// clone returns a deep copy so callers cannot mutate the store's user
// through a snapshot.
func (s State) clone() State {
	if s.User == nil {
		return State{IsAuthenticated: s.IsAuthenticated}
	}
	u := *s.User
	return State{IsAuthenticated: s.IsAuthenticated, User: &u}
}

// action is a transition request consumed by the reducer.
type action struct {
	kind string // "set", "login", "logout", "hydrate"
	next State
}

// reduce is the pure transition function: (state, action) -> state.
// It never mutates its inputs.
func reduce(_ State, a action) State {
	switch a.kind {
	case "set", "hydrate":
		return a.next.clone()
	case "login":
		return a.next.clone()
	case "logout":
		return State{}
	default:
		panic("session: unknown action " + a.kind)
	}
}

// Store is a thread-safe session state container. Transitions are atomic;
// subscribers observe every committed state in order.
type Store struct {
	mu          sync.RWMutex
	state       State
	hydrated    bool
	hydrateDone chan struct{}
	subscribers map[int]func(State)
	nextSubID   int
	logger      zerolog.Logger
}

// NewStore creates a store in the Anonymous state.
func NewStore(logger zerolog.Logger) *Store {
	return &Store{
		hydrateDone: make(chan struct{}),
		subscribers: make(map[int]func(State)),
		logger:      logger.With().Str("component", "session").Logger(),
	}
}

// Snapshot returns a consistent copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// IsAuthenticated reports whether the current state is authenticated.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

// Set replaces the whole state. The inconsistent shape
// {IsAuthenticated: true, User: nil} is rejected with ErrNilUser.
func (s *Store) Set(next State) error {
	if next.IsAuthenticated && next.User == nil {
		return errors.ErrNilUser
	}
	s.apply(action{kind: "set", next: next})
	return nil
}

// LoginSuccess transitions to the authenticated state for the given user.
// Taking the user by value makes a nil user unrepresentable.
func (s *Store) LoginSuccess(user models.AuthUser) {
	s.apply(action{kind: "login", next: State{IsAuthenticated: true, User: &user}})
	s.logger.Info().Str("user_id", user.ID).Msg("login")
}

// Logout resets to the Anonymous state unconditionally.
func (s *Store) Logout() {
	s.apply(action{kind: "logout"})
	s.logger.Info().Msg("logout")
}

// Hydrate replaces the auth state wholesale with a server-computed slice.
// It is a one-shot transition: a second call returns ErrAlreadyHydrated.
// Replacement, never merge — no pre-hydration field survives.
func (s *Store) Hydrate(slice State) error {
	if slice.IsAuthenticated && slice.User == nil {
		return errors.ErrNilUser
	}

	s.mu.Lock()
	if s.hydrated {
		s.mu.Unlock()
		return errors.ErrAlreadyHydrated
	}
	s.hydrated = true
	s.mu.Unlock()

	s.apply(action{kind: "hydrate", next: slice})
	close(s.hydrateDone)
	s.logger.Debug().Bool("authenticated", slice.IsAuthenticated).Msg("session hydrated")
	return nil
}

// Hydrated reports whether Hydrate has run.
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// AwaitHydration blocks until Hydrate has run or the context is done.
// Protected views wait on this before their first guard evaluation so a
// valid session never flashes through a login redirect.
func (s *Store) AwaitHydration(ctx context.Context) error {
	select {
	case <-s.hydrateDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe registers fn to run after every committed transition, with the
// new state. The returned cancel func removes the subscription. Callbacks
// run synchronously on the transitioning goroutine, outside the lock.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// apply commits an action through the reducer and notifies subscribers.
func (s *Store) apply(a action) {
	s.mu.Lock()
	s.state = reduce(s.state, a)
	committed := s.state.clone()
	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(committed)
	}
}
