// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package fontweave wires the font management core together: persisted
// settings, layered resolution, stylesheet generation, chat message
// annotation, and theme-linked preset switching.
//
// The host application supplies the integration points: a storage.KV for
// persistence, a StyleSink that injects generated CSS, a ChatSource
// exposing message data, and a Document callback giving access to the
// rendered chat DOM. The manager owns everything behind those interfaces.
package fontweave

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jeranaias/fontweave/internal/annotate"
	"github.com/jeranaias/fontweave/internal/commands"
	"github.com/jeranaias/fontweave/internal/host"
	"github.com/jeranaias/fontweave/internal/resolve"
	"github.com/jeranaias/fontweave/internal/settings"
	"github.com/jeranaias/fontweave/internal/storage"
	"github.com/jeranaias/fontweave/internal/stylegen"
	"github.com/jeranaias/fontweave/internal/theme"
)

// Config carries the host integration points.
type Config struct {
	// Storage persists settings. Required.
	Storage storage.KV

	// Sink receives generated stylesheets. Required.
	Sink host.StyleSink

	// Chat exposes message source data. Optional; without it message
	// annotation is inactive.
	Chat host.ChatSource

	// Document returns the current chat DOM for annotation passes.
	// Optional; without it message annotation is inactive.
	Document func() *goquery.Document

	// QuietPeriod debounces mutation bursts. Zero uses the default.
	QuietPeriod time.Duration

	// ExportDir is where export commands write files. Empty means the
	// current directory.
	ExportDir string
}

// Manager is the front door to the font management core.
type Manager struct {
	cfg   Config
	store *settings.Store

	pipeline *annotate.Pipeline
	watcher  *annotate.Watcher
	resolver *theme.Resolver
	registry *commands.Registry

	mu          sync.Mutex
	session     *resolve.Session
	lastMain    string
	lastMD      string
	applied     bool
	chatRetries int
}

// New builds a manager over the given integration points.
func New(cfg Config) (*Manager, error) {
	if cfg.Storage == nil {
		return nil, errors.New("fontweave: Config.Storage is required")
	}
	if cfg.Sink == nil {
		return nil, errors.New("fontweave: Config.Sink is required")
	}

	m := &Manager{
		cfg:      cfg,
		store:    settings.NewStore(cfg.Storage),
		pipeline: annotate.NewPipeline(),
		registry: commands.NewRegistry(),
	}
	m.resolver = theme.NewResolver(m.store)
	m.watcher = annotate.NewWatcher(cfg.QuietPeriod, func(force bool) {
		m.annotatePass(force)
	})

	// Every persisted mutation re-renders styles and forces the next
	// annotation pass to rescan with the new rule set.
	m.store.SetOnChange(func() {
		m.Refresh()
		m.watcher.Notify(host.Mutation{ForceRefresh: true})
	})

	m.Refresh()
	return m, nil
}

// Store exposes the settings store for direct mutation.
func (m *Manager) Store() *settings.Store { return m.store }

// Commands returns the slash command registry.
func (m *Manager) Commands() *commands.Registry { return m.registry }

// CommandContext returns the context slash command handlers run with.
func (m *Manager) CommandContext() *commands.Context {
	return &commands.Context{Store: m.store, ExportDir: m.cfg.ExportDir}
}

// OpenSession starts an override session for a settings panel. Only one
// session is live at a time; opening again returns the existing one.
// Session changes preview through Refresh without persisting.
func (m *Manager) OpenSession() *resolve.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		m.session = resolve.NewSession(m.store)
	}
	return m.session
}

// CloseSession ends the live session. Commit or Cancel is the caller's
// responsibility before closing; closing alone just stops the previewing.
func (m *Manager) CloseSession() {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
	m.Refresh()
}

// Resolved returns the current effective values, session overrides
// included.
func (m *Manager) Resolved() *resolve.Resolved {
	m.mu.Lock()
	ss := m.session
	m.mu.Unlock()
	if ss != nil {
		return ss.Resolved()
	}
	return resolve.Resolve(m.store.Snapshot(), nil)
}

// Refresh regenerates both stylesheets and hands them to the sink. Sheets
// identical to the last applied ones are skipped.
func (m *Manager) Refresh() {
	r := m.Resolved()
	main := stylegen.Generate(r)
	md := stylegen.GenerateMarkdown(r)

	m.mu.Lock()
	skip := m.applied && main == m.lastMain && md == m.lastMD
	if !skip {
		m.lastMain = main
		m.lastMD = md
		m.applied = true
	}
	m.mu.Unlock()
	if skip {
		return
	}
	m.cfg.Sink.Apply(main, md)
}

// NotifyMutation reports a chat DOM mutation; bursts coalesce into one
// annotation pass.
func (m *Manager) NotifyMutation(mut host.Mutation) {
	m.watcher.Notify(mut)
}

// maxChatRetries bounds how often a pass reschedules itself while the host
// has not exposed its chat data yet (early startup).
const maxChatRetries = 5

// annotatePass runs one batch annotation over the chat DOM. The watcher is
// paused for the duration so the pipeline's own writes don't schedule
// another pass.
func (m *Manager) annotatePass(force bool) {
	if m.cfg.Chat == nil || m.cfg.Document == nil {
		return
	}
	if m.cfg.Chat.Messages() == nil {
		m.retryLater(force)
		return
	}
	m.mu.Lock()
	m.chatRetries = 0
	m.mu.Unlock()

	doc := m.cfg.Document()
	if doc == nil {
		return
	}

	m.watcher.Pause()
	defer m.watcher.Resume()

	if force {
		m.pipeline.Invalidate(doc)
	}
	r := m.Resolved()
	if changed := m.pipeline.Annotate(doc, m.cfg.Chat, r); changed > 0 {
		log.Printf("fontweave: annotated %d message(s)", changed)
	}
}

// retryLater reschedules a pass while chat data is absent, up to
// maxChatRetries times. The host may simply not be a chat surface yet.
func (m *Manager) retryLater(force bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.chatRetries >= maxChatRetries {
		return
	}
	m.chatRetries++
	time.AfterFunc(m.retryDelay(), func() {
		m.watcher.Notify(host.Mutation{ForceRefresh: force})
	})
}

func (m *Manager) retryDelay() time.Duration {
	if m.cfg.QuietPeriod > 0 {
		return 4 * m.cfg.QuietPeriod
	}
	return 4 * annotate.DefaultQuietPeriod
}

// Run services the watcher and theme signals until ctx is done.
// themeSignals may be nil when the host has no theme notifications.
func (m *Manager) Run(ctx context.Context, themeSignals <-chan string) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.watcher.Run(ctx)
	}()
	if themeSignals != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.resolver.Run(ctx, themeSignals)
		}()
	}

	// Annotate whatever is already rendered.
	m.watcher.Notify(host.Mutation{ForceRefresh: true})
	wg.Wait()
}

// Close releases the storage backend.
func (m *Manager) Close() error {
	return m.cfg.Storage.Close()
}
