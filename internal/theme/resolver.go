// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package theme

import (
	"context"
	"log"
	"strings"

	"github.com/jeranaias/fontweave/internal/settings"
)

// Resolver matches announced theme names against the configured link rules
// and applies the linked preset.
type Resolver struct {
	store *settings.Store
}

// NewResolver returns a resolver over the store.
func NewResolver(store *settings.Store) *Resolver {
	return &Resolver{store: store}
}

// Match returns the link rule for a theme name, nil when no rule applies.
// Rules are checked in configuration order and the first match wins.
// A rule matches case-insensitively on exact equality or on substring
// containment in either direction.
func (r *Resolver) Match(themeName string) *settings.ThemeLinkRule {
	themeName = strings.TrimSpace(themeName)
	if themeName == "" {
		return nil
	}
	lowered := strings.ToLower(themeName)

	s := r.store.Snapshot()
	for i := range s.ThemeRules {
		ruleName := strings.ToLower(s.ThemeRules[i].ThemeName)
		if ruleName == "" {
			continue
		}
		if ruleName == lowered || strings.Contains(lowered, ruleName) || strings.Contains(ruleName, lowered) {
			rule := s.ThemeRules[i]
			return &rule
		}
	}
	return nil
}

// Apply matches a theme name and activates the linked preset. Applying a
// rule whose preset is already active is a no-op (ApplyPreset skips the
// save). A rule pointing at a deleted preset is logged and skipped.
// Reports whether a preset switch happened.
func (r *Resolver) Apply(themeName string) bool {
	rule := r.Match(themeName)
	if rule == nil {
		return false
	}
	before := r.store.Snapshot().CurrentPreset
	if err := r.store.ApplyPreset(rule.PresetID); err != nil {
		log.Printf("theme: rule %q points at a deleted preset", rule.ThemeName)
		return false
	}
	return before != rule.PresetID
}

// Run consumes theme names from signals until ctx is done or the channel
// closes.
func (r *Resolver) Run(ctx context.Context, signals <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case name, ok := <-signals:
			if !ok {
				return
			}
			if r.Apply(name) {
				log.Printf("theme: %q activated preset %q", name, r.store.PresetName(r.store.Snapshot().CurrentPreset))
			}
		}
	}
}
