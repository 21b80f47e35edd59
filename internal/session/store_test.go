package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/policydesk/policydesk/internal/errors"
	"github.com/policydesk/policydesk/internal/models"
	"github.com/policydesk/policydesk/internal/session"
)

func newStore() *session.Store {
	return session.NewStore(zerolog.Nop())
}

func TestStore_InitialStateIsAnonymous(t *testing.T) {
	s := newStore()

	st := s.Snapshot()
	assert.False(t, st.IsAuthenticated)
	assert.Nil(t, st.User)
}

func TestStore_LoginLogoutRoundTrip(t *testing.T) {
	s := newStore()
	initial := s.Snapshot()

	s.LoginSuccess(models.AuthUser{ID: "1"})
	st := s.Snapshot()
	assert.True(t, st.IsAuthenticated)
	require.NotNil(t, st.User)
	assert.Equal(t, "1", st.User.ID)

	s.Logout()
	assert.Equal(t, initial, s.Snapshot())
}

func TestStore_SetReplacesWholeState(t *testing.T) {
	s := newStore()
	s.LoginSuccess(models.AuthUser{ID: "1", Name: "Dana"})

	err := s.Set(session.State{})
	require.NoError(t, err)
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.Snapshot().User)
}

func TestStore_SetRejectsAuthenticatedWithoutUser(t *testing.T) {
	s := newStore()

	err := s.Set(session.State{IsAuthenticated: true})
	assert.ErrorIs(t, err, errors.ErrNilUser)
	// Failed transition leaves the state untouched.
	assert.False(t, s.IsAuthenticated())
}

func TestStore_HydrateReplacesNotMerges(t *testing.T) {
	s := newStore()
	// Pre-hydration state that must not leak through.
	s.LoginSuccess(models.AuthUser{ID: "stale", Name: "Stale", Email: "stale@example.com"})

	slice := session.State{
		IsAuthenticated: true,
		User:            &models.AuthUser{ID: "42"},
	}
	require.NoError(t, s.Hydrate(slice))

	st := s.Snapshot()
	assert.True(t, st.IsAuthenticated)
	require.NotNil(t, st.User)
	assert.Equal(t, "42", st.User.ID)
	assert.Empty(t, st.User.Name, "pre-hydration fields must not survive replacement")
	assert.Empty(t, st.User.Email)
}

func TestStore_HydrateIsOneShot(t *testing.T) {
	s := newStore()
	require.NoError(t, s.Hydrate(session.State{}))

	err := s.Hydrate(session.State{})
	assert.ErrorIs(t, err, errors.ErrAlreadyHydrated)
}

func TestStore_HydrateRejectsNilUser(t *testing.T) {
	s := newStore()

	err := s.Hydrate(session.State{IsAuthenticated: true})
	assert.ErrorIs(t, err, errors.ErrNilUser)
	// A rejected slice does not consume the hydration slot.
	assert.False(t, s.Hydrated())
}

func TestStore_AwaitHydration(t *testing.T) {
	s := newStore()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.AwaitHydration(ctx), context.DeadlineExceeded)

	require.NoError(t, s.Hydrate(session.State{}))
	assert.NoError(t, s.AwaitHydration(context.Background()))
}

func TestStore_SubscribeObservesTransitions(t *testing.T) {
	s := newStore()

	var seen []session.State
	cancel := s.Subscribe(func(st session.State) { seen = append(seen, st) })
	defer cancel()

	s.LoginSuccess(models.AuthUser{ID: "1"})
	s.Logout()

	require.Len(t, seen, 2)
	assert.True(t, seen[0].IsAuthenticated)
	assert.False(t, seen[1].IsAuthenticated)
}

func TestStore_SubscribeCancelStopsNotifications(t *testing.T) {
	s := newStore()

	calls := 0
	cancel := s.Subscribe(func(session.State) { calls++ })

	s.LoginSuccess(models.AuthUser{ID: "1"})
	cancel()
	s.Logout()

	assert.Equal(t, 1, calls)
}

func TestStore_SnapshotIsIsolated(t *testing.T) {
	s := newStore()
	s.LoginSuccess(models.AuthUser{ID: "1", Name: "Dana"})

	st := s.Snapshot()
	st.User.Name = "hacked"

	assert.Equal(t, "Dana", s.Snapshot().User.Name)
}
