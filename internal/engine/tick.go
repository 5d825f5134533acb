// Package engine runs the weekly simulation and the loop that drives it.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Engine advances a session on a wall-clock interval.
type Engine struct {
	Session  *Session
	Interval time.Duration // real time per sim-week at speed 1

	mu      sync.Mutex
	speed   float64 // 1.0 = one week per Interval, 0 = paused
	running bool
	weeks   uint64
}

// NewEngine creates an auto-advance loop with default settings.
func NewEngine(s *Session, interval time.Duration) *Engine {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Engine{
		Session:  s,
		Interval: interval,
		speed:    1.0,
	}
}

// Speed returns the current multiplier.
func (e *Engine) Speed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}

// SetSpeed changes the multiplier. Zero or less pauses the loop.
func (e *Engine) SetSpeed(v float64) {
	e.mu.Lock()
	e.speed = v
	e.mu.Unlock()
}

// Running reports whether Run is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Weeks is the number of weeks this loop has advanced.
func (e *Engine) Weeks() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.weeks
}

// Run advances weeks until ctx is cancelled or Stop is called.
func (e *Engine) Run(ctx context.Context) {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()
	slog.Info("auto-advance started", "interval", e.Interval, "speed", e.Speed())

	for e.Running() {
		if ctx.Err() != nil {
			break
		}
		speed := e.Speed()
		if speed <= 0 {
			// Paused: check again shortly.
			if !sleep(ctx, 100*time.Millisecond) {
				break
			}
			continue
		}

		start := time.Now()
		e.step(ctx)

		target := time.Duration(float64(e.Interval) / speed)
		if elapsed := time.Since(start); elapsed < target {
			if !sleep(ctx, target-elapsed) {
				break
			}
		}
	}

	e.Stop()
	slog.Info("auto-advance stopped", "weeks", e.Weeks())
}

// Stop halts the loop after the current week.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
}

func (e *Engine) step(ctx context.Context) {
	_, err := e.Session.Advance(ctx)
	switch {
	case err == nil:
		e.mu.Lock()
		e.weeks++
		e.mu.Unlock()
	case errors.Is(err, ErrTickInFlight):
		slog.Debug("auto-advance skipped, week in flight")
	default:
		slog.Error("auto-advance failed", "error", err)
	}
}

// sleep waits for d or until ctx is done. It reports false if ctx ended.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
