// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fontweave

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jeranaias/fontweave/internal/host"
	"github.com/jeranaias/fontweave/internal/settings"
)

type memKV struct{ data map[string]string }

func newMemKV() *memKV                              { return &memKV{data: map[string]string{}} }
func (m *memKV) Get(k string) (string, bool, error) { v, ok := m.data[k]; return v, ok, nil }
func (m *memKV) Set(k, v string) error              { m.data[k] = v; return nil }
func (m *memKV) Delete(k string) error              { delete(m.data, k); return nil }
func (m *memKV) Close() error                       { return nil }

type recordingSink struct {
	mu      sync.Mutex
	applies int
	main    string
	md      string
}

func (s *recordingSink) Apply(main, markdown string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applies++
	s.main = main
	s.md = markdown
}

func (s *recordingSink) state() (int, string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applies, s.main, s.md
}

type fakeChat struct {
	mu       sync.Mutex
	messages []host.Message
}

func (f *fakeChat) Messages() []host.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messages
}

func newManager(t *testing.T, chat host.ChatSource, doc *goquery.Document) (*Manager, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	cfg := Config{
		Storage:     newMemKV(),
		Sink:        sink,
		QuietPeriod: 10 * time.Millisecond,
	}
	if chat != nil {
		cfg.Chat = chat
		cfg.Document = func() *goquery.Document { return doc }
	}
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m, sink
}

func TestNewRequiresStorageAndSink(t *testing.T) {
	if _, err := New(Config{Sink: &recordingSink{}}); err == nil {
		t.Error("missing storage accepted")
	}
	if _, err := New(Config{Storage: newMemKV()}); err == nil {
		t.Error("missing sink accepted")
	}
}

func TestStoreMutationRegeneratesStyles(t *testing.T) {
	m, sink := newManager(t, nil, nil)

	// Disabled at start: initial apply is the empty sheet.
	_, main, _ := sink.state()
	if main != "" {
		t.Fatalf("initial sheet = %q, want empty", main)
	}

	m.Store().SetEnabled(true)
	_, main, _ = sink.state()
	if !strings.Contains(main, "--fontweave-ui-size: 14px") {
		t.Errorf("sheet after enable missing variables:\n%s", main)
	}

	m.Store().SetEnabled(false)
	_, main, _ = sink.state()
	if main != "" {
		t.Errorf("sheet after disable = %q, want empty", main)
	}
}

func TestRefreshSkipsIdenticalSheets(t *testing.T) {
	m, sink := newManager(t, nil, nil)
	before, _, _ := sink.state()
	m.Refresh()
	m.Refresh()
	after, _, _ := sink.state()
	if after != before {
		t.Errorf("redundant refreshes applied %d extra times", after-before)
	}
}

func TestSessionPreviewAndCommit(t *testing.T) {
	m, sink := newManager(t, nil, nil)
	m.Store().SetEnabled(true)

	ss := m.OpenSession()
	ss.SetMessageFont("Pretendard")
	m.Refresh()
	_, main, _ := sink.state()
	if !strings.Contains(main, "Pretendard") {
		t.Fatal("session override not previewed")
	}

	// Persisted state untouched until commit.
	if got := m.Store().Snapshot().ActivePreset().MessageFont; got != "" {
		t.Errorf("preset MessageFont = %q before commit", got)
	}

	// Commit triggers a refresh that resolves back through the session;
	// it must return rather than block on it.
	done := make(chan error, 1)
	go func() { done <- ss.Commit() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Commit: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Commit did not return")
	}
	m.CloseSession()
	if got := m.Store().Snapshot().ActivePreset().MessageFont; got != "Pretendard" {
		t.Errorf("preset MessageFont = %q after commit", got)
	}
	_, main, _ = sink.state()
	if !strings.Contains(main, "Pretendard") {
		t.Error("committed font missing from sheet")
	}
}

func TestSessionCancelRestoresSheet(t *testing.T) {
	m, sink := newManager(t, nil, nil)
	m.Store().SetEnabled(true)

	ss := m.OpenSession()
	ss.SetMessageFont("Pretendard")
	m.Refresh()
	ss.Cancel()
	m.CloseSession()

	_, main, _ := sink.state()
	if strings.Contains(main, "Pretendard") {
		t.Error("cancelled override still in sheet")
	}
}

func TestRunAnnotatesRenderedMessages(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div class="mes" mesid="0"><div class="mes_text">hello</div></div>`))
	if err != nil {
		t.Fatal(err)
	}
	chat := &fakeChat{messages: []host.Message{{Text: "<q>hello</q>"}}}

	m, _ := newManager(t, chat, doc)
	m.Store().SetEnabled(true)
	presetID := m.Store().Snapshot().CurrentPreset
	if _, err := m.Store().AddCustomTag(presetID, "q", "Pretendard", 0); err != nil {
		t.Fatal(err)
	}
	if err := m.Store().SetCustomTagsEnabled(presetID, true); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, nil)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for doc.Find("span[data-fontweave-tag]").Length() == 0 {
		select {
		case <-deadline:
			t.Fatal("message never annotated")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestThemeSignalSwitchesPreset(t *testing.T) {
	m, _ := newManager(t, nil, nil)
	altID, err := m.Store().AddPreset("dark")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Store().AddThemeRule("Midnight", altID); err != nil {
		t.Fatal(err)
	}

	signals := make(chan string, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx, signals)

	signals <- "Midnight"
	deadline := time.After(2 * time.Second)
	for m.Store().Snapshot().CurrentPreset != altID {
		select {
		case <-deadline:
			t.Fatal("theme signal did not switch preset")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestCommandSurfaceWired(t *testing.T) {
	m, _ := newManager(t, nil, nil)
	cmd := m.Commands().Get("/font")
	if cmd == nil {
		t.Fatal("/font not registered")
	}
	out, err := cmd.Handler(m.CommandContext(), []string{"on"})
	if err != nil || !strings.Contains(out, "enabled") {
		t.Fatalf("handler: %q, %v", out, err)
	}
	if !m.Store().Enabled() {
		t.Error("command did not reach the store")
	}

	// The settings.Default preset name shows in status output.
	out, err = cmd.Handler(m.CommandContext(), nil)
	if err != nil || !strings.Contains(out, settings.DefaultPresetName) {
		t.Errorf("status = %q, %v", out, err)
	}
}
