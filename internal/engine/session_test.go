package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hitmaker/internal/config"
	"github.com/talgya/hitmaker/internal/entropy"
	"github.com/talgya/hitmaker/internal/world"
)

type memStore struct {
	mu      sync.Mutex
	save    *world.Save
	loadErr error
	weeks   []Summary
}

func (m *memStore) Load(context.Context) (*world.Save, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.save, nil
}

func (m *memStore) Save(_ context.Context, sv *world.Save) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.save = sv
	return nil
}

func (m *memStore) RecordWeek(_ context.Context, _ string, sum Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.weeks = append(m.weeks, sum)
	return nil
}

func newSession(t *testing.T) (*Session, *memStore) {
	t.Helper()
	store := &memStore{}
	s := NewSession(NewSimulation(config.Default(), entropy.NewSeeded(40)), store)
	_, err := s.NewGame(context.Background(), world.Artist{Name: "Kite", Genre: world.GenreIndie})
	require.NoError(t, err)
	return s, store
}

func TestSession_AdvancePersists(t *testing.T) {
	s, store := newSession(t)
	var seen []WeekResult
	s.Subscribe(func(r WeekResult) { seen = append(seen, r) })

	res, err := s.Advance(context.Background())
	require.NoError(t, err)

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Same(t, res.State, snap.State)
	assert.Same(t, res.State, store.save.State)
	require.Len(t, store.weeks, 1)
	assert.Equal(t, snap.State.Date, store.weeks[0].Date)
	assert.Len(t, seen, 1)
}

func TestSession_SubscribeDuringDelivery(t *testing.T) {
	s, _ := newSession(t)
	var first, late int
	s.Subscribe(func(WeekResult) {
		first++
		if first == 1 {
			s.Subscribe(func(WeekResult) { late++ })
		}
	})

	_, err := s.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first)
	assert.Zero(t, late)

	_, err = s.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first)
	assert.Equal(t, 1, late)
}

func TestSession_RejectsConcurrentAdvance(t *testing.T) {
	s, _ := newSession(t)
	s.write.Lock()
	_, err := s.Advance(context.Background())
	assert.ErrorIs(t, err, ErrTickInFlight)
	_, err = s.Apply(context.Background(), func(st *world.State, _ world.Artist) (*world.State, error) { return st, nil })
	assert.ErrorIs(t, err, ErrTickInFlight)
	s.write.Unlock()

	_, err = s.Advance(context.Background())
	assert.NoError(t, err)
}

func TestSession_LoadFailureKeepsCurrentSave(t *testing.T) {
	s, store := newSession(t)
	before, err := s.Snapshot()
	require.NoError(t, err)

	store.loadErr = errors.New("corrupt payload")
	err = s.Load(context.Background())
	require.Error(t, err)

	after, err := s.Snapshot()
	require.NoError(t, err)
	assert.Same(t, before, after)
}

func TestSession_ApplyActionError(t *testing.T) {
	s, _ := newSession(t)
	before, _ := s.Snapshot()
	_, err := s.Apply(context.Background(), func(st *world.State, a world.Artist) (*world.State, error) {
		next, _, err := s.Simulation().RecordSong(st, a, SongRequest{Title: ""})
		return next, err
	})
	assert.ErrorIs(t, err, ErrNoTitle)
	after, _ := s.Snapshot()
	assert.Same(t, before, after)
}

func TestSession_NoGame(t *testing.T) {
	s := NewSession(NewSimulation(config.Default(), entropy.NewSeeded(1)), nil)
	_, err := s.Advance(context.Background())
	assert.ErrorIs(t, err, ErrNoGame)
	_, err = s.Snapshot()
	assert.ErrorIs(t, err, ErrNoGame)
}

func TestEngine_RunAdvancesUntilCancelled(t *testing.T) {
	s, _ := newSession(t)
	e := NewEngine(s, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return e.Weeks() >= 2 }, 10*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
	}
	assert.False(t, e.Running())

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, snap.State.Date.Linear(), 3)
}

func TestEngine_StopsWhenWeeksOverrunInterval(t *testing.T) {
	s, _ := newSession(t)
	e := NewEngine(s, time.Nanosecond)
	e.SetSpeed(1e6)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return e.Weeks() >= 1 }, 10*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
	}
	assert.False(t, e.Running())
}

func TestEngine_PausedDoesNotAdvance(t *testing.T) {
	s, _ := newSession(t)
	e := NewEngine(s, time.Millisecond)
	e.SetSpeed(0)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	e.Run(ctx)
	assert.Zero(t, e.Weeks())
}
