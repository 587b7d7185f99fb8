// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package annotate

import (
	"context"
	"sync"
	"time"

	"github.com/jeranaias/fontweave/internal/host"
)

// DefaultQuietPeriod is how long mutations must stop before a pass fires.
// Initial chat load delivers one notification per rendered message; the
// quiet period collapses the burst into a single pass.
const DefaultQuietPeriod = 100 * time.Millisecond

// Watcher coalesces mutation notifications into debounced annotation
// passes. Notifications arriving while paused are dropped: the pipeline
// pauses the watcher around its own DOM writes, and those writes are
// exactly the mutations that must not schedule another pass.
type Watcher struct {
	mu      sync.Mutex
	paused  bool
	pending bool
	force   bool

	quiet  time.Duration
	signal chan struct{}
	onPass func(force bool)
}

// NewWatcher returns a watcher firing onPass after each quiet period.
// A zero quiet duration uses DefaultQuietPeriod.
func NewWatcher(quiet time.Duration, onPass func(force bool)) *Watcher {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Watcher{
		quiet:  quiet,
		signal: make(chan struct{}, 1),
		onPass: onPass,
	}
}

// Notify records a mutation. Never blocks. ForceRefresh is sticky: once any
// coalesced mutation requests it, the eventual pass is a forced one.
func (w *Watcher) Notify(m host.Mutation) {
	w.mu.Lock()
	if w.paused {
		w.mu.Unlock()
		return
	}
	w.pending = true
	w.force = w.force || m.ForceRefresh
	w.mu.Unlock()

	select {
	case w.signal <- struct{}{}:
	default:
	}
}

// Pause drops incoming notifications until Resume. Calls do not nest.
func (w *Watcher) Pause() {
	w.mu.Lock()
	w.paused = true
	w.mu.Unlock()
}

// Resume re-enables notifications.
func (w *Watcher) Resume() {
	w.mu.Lock()
	w.paused = false
	w.mu.Unlock()
}

// Run processes notifications until ctx is done. Each burst of
// notifications produces one onPass call after the quiet period.
func (w *Watcher) Run(ctx context.Context) {
	timer := time.NewTimer(w.quiet)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-w.signal:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.quiet)
		case <-timer.C:
			w.mu.Lock()
			fire := w.pending
			force := w.force
			w.pending = false
			w.force = false
			w.mu.Unlock()
			if fire {
				w.onPass(force)
			}
		}
	}
}
