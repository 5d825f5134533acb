package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/talgya/hitmaker/internal/world"
)

var (
	ErrTickInFlight = errors.New("a week is already being advanced")
	ErrNoGame       = errors.New("no game loaded")
)

// Store persists the current save. Implementations must reject malformed
// payloads on Load rather than return a partial save.
type Store interface {
	Load(ctx context.Context) (*world.Save, error)
	Save(ctx context.Context, sv *world.Save) error
}

// WeekRecorder is implemented by stores that also keep a per-week log.
type WeekRecorder interface {
	RecordWeek(ctx context.Context, artistID string, sum Summary) error
}

// Session owns the live save. It serialises every write (advances and
// player actions) and hands out immutable snapshots to readers.
type Session struct {
	sim   *Simulation
	store Store

	write sync.Mutex // held for the whole of an advance or action

	mu   sync.RWMutex
	save *world.Save
	subs []func(WeekResult)
}

// NewSession creates a session with no game loaded. store may be nil for
// in-memory play.
func NewSession(sim *Simulation, store Store) *Session {
	return &Session{sim: sim, store: store}
}

// Simulation returns the simulation the session drives.
func (s *Session) Simulation() *Simulation { return s.sim }

// Subscribe registers fn to be called after every successful advance.
func (s *Session) Subscribe(fn func(WeekResult)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Snapshot returns the current save. Callers must not modify it.
func (s *Session) Snapshot() (*world.Save, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.save == nil {
		return nil, ErrNoGame
	}
	return s.save, nil
}

// Load replaces the live save with the stored one. On failure the current
// save is kept.
func (s *Session) Load(ctx context.Context) error {
	if s.store == nil {
		return ErrNoGame
	}
	if !s.write.TryLock() {
		return ErrTickInFlight
	}
	defer s.write.Unlock()

	sv, err := s.store.Load(ctx)
	if err != nil {
		slog.Warn("load save failed", "error", err)
		return fmt.Errorf("load save: %w", err)
	}
	s.set(sv)
	slog.Info("save loaded", "artist", sv.Artist.Name, "date", sv.State.Date.String())
	return nil
}

// NewGame starts a career and persists it.
func (s *Session) NewGame(ctx context.Context, artist world.Artist) (*world.Save, error) {
	if !s.write.TryLock() {
		return nil, ErrTickInFlight
	}
	defer s.write.Unlock()

	sv, err := s.sim.NewGame(artist)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, sv); err != nil {
		return nil, err
	}
	s.set(sv)
	return sv, nil
}

// Advance runs one week. A second call while one is running returns
// ErrTickInFlight immediately.
func (s *Session) Advance(ctx context.Context) (WeekResult, error) {
	if !s.write.TryLock() {
		return WeekResult{}, ErrTickInFlight
	}
	defer s.write.Unlock()

	cur, err := s.Snapshot()
	if err != nil {
		return WeekResult{}, err
	}
	res := s.sim.AdvanceWeek(cur.State, cur.Artist)
	if res.Err != nil {
		return res, res.Err
	}

	next := &world.Save{State: res.State, Artist: cur.Artist}
	if err := s.persist(ctx, next); err != nil {
		return WeekResult{State: cur.State, Err: err}, err
	}
	if rec, ok := s.store.(WeekRecorder); ok {
		if err := rec.RecordWeek(ctx, cur.Artist.ID, res.Summary); err != nil {
			slog.Warn("week history not recorded", "error", err)
		}
	}
	s.set(next)

	s.mu.RLock()
	subs := slices.Clone(s.subs)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(res)
	}
	return res, nil
}

// Action is a player action over the current state.
type Action func(st *world.State, artist world.Artist) (*world.State, error)

// Apply runs a player action and persists its result. Actions are rejected
// while an advance is in flight.
func (s *Session) Apply(ctx context.Context, act Action) (*world.Save, error) {
	if !s.write.TryLock() {
		return nil, ErrTickInFlight
	}
	defer s.write.Unlock()

	cur, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	st, err := act(cur.State, cur.Artist)
	if err != nil {
		return nil, err
	}
	next := &world.Save{State: st, Artist: cur.Artist}
	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}
	s.set(next)
	return next, nil
}

func (s *Session) persist(ctx context.Context, sv *world.Save) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(ctx, sv); err != nil {
		slog.Error("save failed", "error", err)
		return fmt.Errorf("persist save: %w", err)
	}
	return nil
}

func (s *Session) set(sv *world.Save) {
	s.mu.Lock()
	s.save = sv
	s.mu.Unlock()
}
