// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package theme

import (
	"context"
	"testing"
	"time"

	"github.com/jeranaias/fontweave/internal/settings"
)

type memKV struct{ data map[string]string }

func newMemKV() *memKV                              { return &memKV{data: map[string]string{}} }
func (m *memKV) Get(k string) (string, bool, error) { v, ok := m.data[k]; return v, ok, nil }
func (m *memKV) Set(k, v string) error              { m.data[k] = v; return nil }
func (m *memKV) Delete(k string) error              { delete(m.data, k); return nil }
func (m *memKV) Close() error                       { return nil }

func setup(t *testing.T) (*settings.Store, *Resolver, string) {
	t.Helper()
	st := settings.NewStore(newMemKV())
	altID, err := st.AddPreset("dark-mode")
	if err != nil {
		t.Fatalf("AddPreset: %v", err)
	}
	return st, NewResolver(st), altID
}

func TestMatchExactCaseInsensitive(t *testing.T) {
	st, r, altID := setup(t)
	if _, err := st.AddThemeRule("Midnight", altID); err != nil {
		t.Fatalf("AddThemeRule: %v", err)
	}

	if rule := r.Match("midnight"); rule == nil || rule.PresetID != altID {
		t.Errorf("Match(midnight) = %+v", rule)
	}
	if rule := r.Match("MIDNIGHT"); rule == nil {
		t.Error("upper-case theme name did not match")
	}
	if rule := r.Match("daylight"); rule != nil {
		t.Errorf("unrelated theme matched %+v", rule)
	}
}

func TestMatchContainmentEitherDirection(t *testing.T) {
	st, r, altID := setup(t)
	if _, err := st.AddThemeRule("Midnight", altID); err != nil {
		t.Fatalf("AddThemeRule: %v", err)
	}

	// Theme name contains the rule name.
	if rule := r.Match("Midnight Blue (dark)"); rule == nil {
		t.Error("rule-in-theme containment did not match")
	}
	// Rule name contains the theme name.
	if rule := r.Match("night"); rule == nil {
		t.Error("theme-in-rule containment did not match")
	}
}

func TestMatchFirstConfiguredRuleWins(t *testing.T) {
	st, r, altID := setup(t)
	otherID, _ := st.AddPreset("other")
	if _, err := st.AddThemeRule("Dark", otherID); err != nil {
		t.Fatal(err)
	}
	if _, err := st.AddThemeRule("dark theme v2", altID); err != nil {
		t.Fatal(err)
	}

	// The second rule matches exactly, but the first configured rule
	// already matches by containment and takes precedence.
	rule := r.Match("Dark Theme v2")
	if rule == nil || rule.PresetID != otherID {
		t.Errorf("Match = %+v, want first configured rule", rule)
	}
}

func TestApplySwitchesPreset(t *testing.T) {
	st, r, altID := setup(t)
	st.AddThemeRule("dark", altID)

	if !r.Apply("dark") {
		t.Fatal("Apply reported no switch")
	}
	if got := st.Snapshot().CurrentPreset; got != altID {
		t.Errorf("CurrentPreset = %q, want %q", got, altID)
	}

	// Already active: no switch reported.
	if r.Apply("dark") {
		t.Error("re-applying an active preset reported a switch")
	}
}

func TestApplyDanglingPresetIsSkipped(t *testing.T) {
	st, r, altID := setup(t)
	st.AddThemeRule("dark", altID)
	before := st.Snapshot().CurrentPreset
	if err := st.DeletePreset(altID); err != nil {
		t.Fatalf("DeletePreset: %v", err)
	}

	if r.Apply("dark") {
		t.Error("dangling rule reported a switch")
	}
	// Rule survives deletion; it renders as "(deleted preset)".
	if len(st.Snapshot().ThemeRules) != 1 {
		t.Error("dangling rule was purged")
	}
	if got := st.PresetName(altID); got != "(deleted preset)" {
		t.Errorf("PresetName = %q", got)
	}
	if got := st.Snapshot().CurrentPreset; got != before {
		t.Errorf("CurrentPreset changed to %q", got)
	}
}

func TestRunConsumesSignals(t *testing.T) {
	st, r, altID := setup(t)
	st.AddThemeRule("dark", altID)

	signals := make(chan string, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, signals)
		close(done)
	}()

	signals <- "dark"
	deadline := time.After(time.Second)
	for st.Snapshot().CurrentPreset != altID {
		select {
		case <-deadline:
			t.Fatal("signal not applied")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
