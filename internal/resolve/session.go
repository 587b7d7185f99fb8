// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package resolve

import (
	"sync"

	"github.com/jeranaias/fontweave/internal/settings"
)

// Session holds the uncommitted override layer while a settings panel is
// open. Overrides preview live through Resolved without touching persisted
// state. Commit folds them into the active preset; Cancel drops them.
type Session struct {
	mu    sync.Mutex
	store *settings.Store
	ov    *Overrides
}

// NewSession starts a session over the store with an empty override layer.
func NewSession(store *settings.Store) *Session {
	return &Session{store: store, ov: NewOverrides()}
}

// Resolved returns the effective values with current overrides applied.
func (ss *Session) Resolved() *Resolved {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return Resolve(ss.store.Snapshot(), ss.ov)
}

// SelectPreset activates a preset and clears the override layer. Overrides
// made against the previous preset never bleed into the new one.
//
// The store mutation runs without ss.mu held: its change notification may
// call back into Resolved, which takes ss.mu.
func (ss *Session) SelectPreset(id string) error {
	if err := ss.store.ApplyPreset(id); err != nil {
		return err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.ov.Clear()
	return nil
}

// SetUIFont overrides the UI font for the session.
func (ss *Session) SetUIFont(name string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.ov.UIFont = &name
	ss.ov.UIFontDefault = false
}

// UseDefaultUIFont forces an explicit reset of the UI font.
func (ss *Session) UseDefaultUIFont() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.ov.UIFont = nil
	ss.ov.UIFontDefault = true
}

// SetMessageFont overrides the message font for the session.
func (ss *Session) SetMessageFont(name string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.ov.MessageFont = &name
	ss.ov.MessageFontDefault = false
}

// UseDefaultMessageFont forces an explicit reset of the message font.
func (ss *Session) UseDefaultMessageFont() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.ov.MessageFont = nil
	ss.ov.MessageFontDefault = true
}

// SetLanguageFont overrides one language slot.
func (ss *Session) SetLanguageFont(lang settings.Language, name string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.ov.LanguageFonts[lang] = &name
}

// SetMultiLanguage overrides the multi-language toggle.
func (ss *Session) SetMultiLanguage(on bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.ov.MultiLanguage = &on
}

// SetSizing overrides individual sizing fields; nil fields fall through.
func (ss *Session) SetSizing(z SizingOverrides) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	merge := &ss.ov.Sizing
	if z.UIFontSize != nil {
		merge.UIFontSize = z.UIFontSize
	}
	if z.UIFontWeight != nil {
		merge.UIFontWeight = z.UIFontWeight
	}
	if z.ChatFontSize != nil {
		merge.ChatFontSize = z.ChatFontSize
	}
	if z.InputFontSize != nil {
		merge.InputFontSize = z.InputFontSize
	}
	if z.ChatFontWeight != nil {
		merge.ChatFontWeight = z.ChatFontWeight
	}
	if z.ChatLineHeight != nil {
		merge.ChatLineHeight = z.ChatLineHeight
	}
}

// Commit resolves the current state and writes the font and sizing values
// into the active preset, then clears the override layer. An explicit
// default commits as an empty slot. While multi-language mode is on the
// single message font is out of the resolution chain; the stored slot
// keeps its previous value.
//
// SavePresetValues runs without ss.mu held, same reason as SelectPreset.
func (ss *Session) Commit() error {
	ss.mu.Lock()
	snap := ss.store.Snapshot()
	r := Resolve(snap, ss.ov)
	ss.mu.Unlock()

	if r.PresetID == "" {
		ss.Cancel()
		return nil
	}

	messageFont := committedName(r.MessageFont)
	if r.MultiLanguage {
		if p := snap.PresetByID(r.PresetID); p != nil {
			messageFont = p.MessageFont
		}
	}
	langFonts := make(map[settings.Language]string, len(r.LanguageFonts))
	for lang, c := range r.LanguageFonts {
		langFonts[lang] = committedName(c)
	}
	err := ss.store.SavePresetValues(
		r.PresetID,
		committedName(r.UIFont),
		messageFont,
		r.MultiLanguage,
		langFonts,
		r.Sizing,
	)
	if err != nil {
		return err
	}
	ss.Cancel()
	return nil
}

// Cancel drops every uncommitted override.
func (ss *Session) Cancel() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.ov.Clear()
}

// Dirty reports whether uncommitted overrides exist.
func (ss *Session) Dirty() bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return !ss.ov.Empty()
}

func committedName(c FontChoice) string {
	if c.ExplicitDefault {
		return ""
	}
	return c.Name
}
