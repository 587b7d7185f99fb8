// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jeranaias/fontweave/internal/storage"
)

// Persistence keys. LegacyKey is the pre-2.0 location; on first load its
// value moves to StorageKey and the legacy key is deleted.
const (
	StorageKey = "fontweave-settings"
	LegacyKey  = "fontweave-backup-settings"
)

// Store owns the persisted Settings aggregate. All mutation goes through
// Store methods; every successful mutation persists before returning.
//
// RELIABILITY: persistence failures are logged, never surfaced to callers.
// The in-memory state stays authoritative for the session either way.
type Store struct {
	mu sync.Mutex
	kv storage.KV

	settings *Settings
	onChange func()
	pending  atomic.Bool
}

// NewStore loads settings from kv, migrating from the legacy key when the
// primary key is absent. Unreadable or corrupt data falls back to defaults.
func NewStore(kv storage.KV) *Store {
	st := &Store{kv: kv}
	st.settings = st.load()
	return st
}

// SetOnChange registers a callback fired after every persisted mutation.
// Must be called before the store is shared across goroutines.
func (st *Store) SetOnChange(fn func()) {
	st.onChange = fn
}

func (st *Store) load() *Settings {
	raw, ok, err := st.kv.Get(StorageKey)
	if err != nil {
		log.Printf("settings: load failed, using defaults: %v", err)
		return Default()
	}
	if !ok {
		// One-time migration: move the legacy value to the primary key.
		raw, ok, err = st.kv.Get(LegacyKey)
		if err != nil || !ok {
			return Default()
		}
		log.Printf("settings: migrating from legacy storage key")
		if err := st.kv.Set(StorageKey, raw); err != nil {
			log.Printf("settings: migration write failed: %v", err)
		} else if err := st.kv.Delete(LegacyKey); err != nil {
			log.Printf("settings: legacy key cleanup failed: %v", err)
		}
	}

	s := &Settings{}
	if err := json.Unmarshal([]byte(raw), s); err != nil {
		log.Printf("settings: corrupt stored settings, using defaults: %v", err)
		return Default()
	}
	EnsureDefaults(s)
	return s
}

// save persists the current state and flags a pending change
// notification. Caller holds mu; the notification itself fires from
// notify() after the lock is released, so the callback may call back into
// the store.
func (st *Store) save() {
	raw, err := json.Marshal(st.settings)
	if err != nil {
		log.Printf("settings: marshal failed: %v", err)
		return
	}
	if err := st.kv.Set(StorageKey, string(raw)); err != nil {
		log.Printf("settings: persist failed: %v", err)
	}
	st.pending.Store(true)
}

// notify fires the change callback when a save happened since the last
// notify. Runs unlocked.
func (st *Store) notify() {
	if st.pending.Swap(false) && st.onChange != nil {
		st.onChange()
	}
}

// Snapshot returns a deep copy of the current settings.
func (st *Store) Snapshot() *Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.settings.Clone()
}

// Replace swaps in a whole new aggregate (import path) and persists it.
func (st *Store) Replace(s *Settings) {
	st.mu.Lock()
	defer st.notify()
	defer st.mu.Unlock()
	EnsureDefaults(s)
	st.settings = s
	st.save()
}

// Reset discards everything and reverts to defaults.
func (st *Store) Reset() {
	st.mu.Lock()
	defer st.notify()
	defer st.mu.Unlock()
	st.settings = Default()
	st.save()
}

// SetEnabled toggles the whole feature on or off.
func (st *Store) SetEnabled(on bool) {
	st.mu.Lock()
	defer st.notify()
	defer st.mu.Unlock()
	if st.settings.Enabled == on {
		return
	}
	st.settings.Enabled = on
	st.save()
}

// Enabled reports whether styling is active.
func (st *Store) Enabled() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.settings.Enabled
}

// =============================================================================
// FONTS
// =============================================================================

// AddFont validates and registers a new font asset, returning its ID.
func (st *Store) AddFont(name, cssSource string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ValidationError{Field: "font name", Message: "empty name"}
	}
	if err := ValidateFontCSS(cssSource); err != nil {
		return "", err
	}

	st.mu.Lock()
	defer st.notify()
	defer st.mu.Unlock()
	if st.settings.FontByName(name) != nil {
		return "", &ValidationError{Field: "font name", Message: fmt.Sprintf("%q already exists", name)}
	}

	family := ExtractFamily(cssSource)
	if family == "" {
		family = name
	}
	f := FontAsset{
		ID:        NewID(),
		Name:      name,
		Type:      "source",
		CSSSource: cssSource,
		Family:    family,
	}
	st.settings.Fonts = append(st.settings.Fonts, f)
	st.save()
	return f.ID, nil
}

// DeleteFont removes a font asset. References by name elsewhere are left in
// place; they resolve as plain family names afterwards.
func (st *Store) DeleteFont(id string) error {
	st.mu.Lock()
	defer st.notify()
	defer st.mu.Unlock()
	for i := range st.settings.Fonts {
		if st.settings.Fonts[i].ID == id {
			st.settings.Fonts = append(st.settings.Fonts[:i], st.settings.Fonts[i+1:]...)
			st.save()
			return nil
		}
	}
	return &ValidationError{Field: "font", Message: "not found"}
}

// =============================================================================
// PRESETS
// =============================================================================

// AddPreset creates a preset named name, initialized from the current global
// font and sizing choices, and returns its ID.
func (st *Store) AddPreset(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ValidationError{Field: "preset name", Message: "empty name"}
	}

	st.mu.Lock()
	defer st.notify()
	defer st.mu.Unlock()
	if st.settings.PresetByName(name) != nil {
		return "", &ValidationError{Field: "preset name", Message: fmt.Sprintf("%q already exists", name)}
	}

	p := NewPreset(name)
	p.UIFont = st.settings.UIFont
	p.MessageFont = st.settings.MessageFont
	p.MultiLanguage = st.settings.MultiLanguage
	for lang, font := range st.settings.LanguageFonts {
		p.LanguageFonts[lang] = font
	}
	p.Sizing = st.settings.Sizing

	st.settings.Presets = append(st.settings.Presets, p)
	st.save()
	return p.ID, nil
}

// RenamePreset changes a preset's display name.
func (st *Store) RenamePreset(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: "preset name", Message: "empty name"}
	}
	st.mu.Lock()
	defer st.notify()
	defer st.mu.Unlock()
	if other := st.settings.PresetByName(name); other != nil && other.ID != id {
		return &ValidationError{Field: "preset name", Message: fmt.Sprintf("%q already exists", name)}
	}
	p := st.settings.PresetByID(id)
	if p == nil {
		return &ValidationError{Field: "preset", Message: "not found"}
	}
	p.Name = name
	st.save()
	return nil
}

// DeletePreset removes a preset. The last remaining preset cannot be
// deleted. Deleting the active preset activates the first remaining one.
func (st *Store) DeletePreset(id string) error {
	st.mu.Lock()
	defer st.notify()
	defer st.mu.Unlock()
	if len(st.settings.Presets) <= 1 {
		return &ValidationError{Field: "preset", Message: "cannot delete the last preset"}
	}
	for i := range st.settings.Presets {
		if st.settings.Presets[i].ID != id {
			continue
		}
		st.settings.Presets = append(st.settings.Presets[:i], st.settings.Presets[i+1:]...)
		if st.settings.CurrentPreset == id {
			st.settings.CurrentPreset = st.settings.Presets[0].ID
		}
		st.save()
		return nil
	}
	return &ValidationError{Field: "preset", Message: "not found"}
}

// ApplyPreset activates a preset and copies its font and sizing choices into
// the global fallback slots. Saves only when something actually changed.
func (st *Store) ApplyPreset(id string) error {
	st.mu.Lock()
	defer st.notify()
	defer st.mu.Unlock()
	p := st.settings.PresetByID(id)
	if p == nil {
		return &ValidationError{Field: "preset", Message: "not found"}
	}

	s := st.settings
	changed := s.CurrentPreset != id ||
		s.UIFont != p.UIFont ||
		s.MessageFont != p.MessageFont ||
		s.MultiLanguage != p.MultiLanguage ||
		s.Sizing != p.Sizing
	for _, lang := range Languages() {
		if s.LanguageFonts[lang] != p.LanguageFonts[lang] {
			changed = true
		}
	}
	if !changed {
		return nil
	}

	s.CurrentPreset = id
	s.UIFont = p.UIFont
	s.MessageFont = p.MessageFont
	s.MultiLanguage = p.MultiLanguage
	for _, lang := range Languages() {
		s.LanguageFonts[lang] = p.LanguageFonts[lang]
	}
	s.Sizing = p.Sizing
	st.save()
	return nil
}

// SavePresetValues writes font and sizing values into a preset (the session
// commit path) and mirrors them into the globals when the preset is active.
func (st *Store) SavePresetValues(id string, uiFont, messageFont string, multiLanguage bool, languageFonts map[Language]string, sizing Sizing) error {
	if err := ValidateSizing(sizing); err != nil {
		return err
	}
	st.mu.Lock()
	defer st.notify()
	defer st.mu.Unlock()
	p := st.settings.PresetByID(id)
	if p == nil {
		return &ValidationError{Field: "preset", Message: "not found"}
	}
	p.UIFont = uiFont
	p.MessageFont = messageFont
	p.MultiLanguage = multiLanguage
	for _, lang := range Languages() {
		p.LanguageFonts[lang] = languageFonts[lang]
	}
	p.Sizing = sizing

	if st.settings.CurrentPreset == id {
		s := st.settings
		s.UIFont = uiFont
		s.MessageFont = messageFont
		s.MultiLanguage = multiLanguage
		for _, lang := range Languages() {
			s.LanguageFonts[lang] = languageFonts[lang]
		}
		s.Sizing = sizing
	}
	st.save()
	return nil
}

// PresetName returns the display name for a preset ID, with a placeholder
// for IDs that no longer resolve.
func (st *Store) PresetName(id string) string {
	st.mu.Lock()
	defer st.mu.Unlock()
	if p := st.settings.PresetByID(id); p != nil {
		return p.Name
	}
	return "(deleted preset)"
}

// =============================================================================
// CUSTOM TAGS
// =============================================================================

// AddCustomTag adds a tag rule to a preset. Tag names are unique within the
// preset, case-insensitively.
func (st *Store) AddCustomTag(presetID, tagName, fontName string, fontSize int) (string, error) {
	tagName = strings.TrimSpace(tagName)
	if tagName == "" {
		return "", &ValidationError{Field: "tag name", Message: "empty name"}
	}
	if fontSize != 0 {
		if fontSize < MinFontSize || fontSize > MaxFontSize {
			return "", &ValidationError{
				Field:   "tag font size",
				Message: fmt.Sprintf("%d out of range [%d, %d]", fontSize, MinFontSize, MaxFontSize),
			}
		}
	}

	st.mu.Lock()
	defer st.notify()
	defer st.mu.Unlock()
	p := st.settings.PresetByID(presetID)
	if p == nil {
		return "", &ValidationError{Field: "preset", Message: "not found"}
	}
	for _, t := range p.CustomTags {
		if strings.EqualFold(t.TagName, tagName) {
			return "", &ValidationError{Field: "tag name", Message: fmt.Sprintf("%q already exists", tagName)}
		}
	}

	rule := CustomTagRule{ID: NewID(), TagName: tagName, FontName: fontName, FontSize: fontSize}
	p.CustomTags = append(p.CustomTags, rule)
	st.save()
	return rule.ID, nil
}

// RemoveCustomTag deletes a tag rule from a preset.
func (st *Store) RemoveCustomTag(presetID, ruleID string) error {
	st.mu.Lock()
	defer st.notify()
	defer st.mu.Unlock()
	p := st.settings.PresetByID(presetID)
	if p == nil {
		return &ValidationError{Field: "preset", Message: "not found"}
	}
	for i := range p.CustomTags {
		if p.CustomTags[i].ID == ruleID {
			p.CustomTags = append(p.CustomTags[:i], p.CustomTags[i+1:]...)
			st.save()
			return nil
		}
	}
	return &ValidationError{Field: "tag rule", Message: "not found"}
}

// SetCustomTagsEnabled toggles tag processing for a preset.
func (st *Store) SetCustomTagsEnabled(presetID string, on bool) error {
	st.mu.Lock()
	defer st.notify()
	defer st.mu.Unlock()
	p := st.settings.PresetByID(presetID)
	if p == nil {
		return &ValidationError{Field: "preset", Message: "not found"}
	}
	if p.CustomTagsEnabled == on {
		return nil
	}
	p.CustomTagsEnabled = on
	st.save()
	return nil
}

// =============================================================================
// MARKDOWN
// =============================================================================

// SetMarkdownRule replaces the rule for one construct in a preset.
func (st *Store) SetMarkdownRule(presetID string, c Construct, rule MarkdownRule) error {
	if rule.FontSize != 0 {
		if rule.FontSize < MinFontSize || rule.FontSize > MaxFontSize {
			return &ValidationError{
				Field:   "markdown font size",
				Message: fmt.Sprintf("%d out of range [%d, %d]", rule.FontSize, MinFontSize, MaxFontSize),
			}
		}
	}
	st.mu.Lock()
	defer st.notify()
	defer st.mu.Unlock()
	p := st.settings.PresetByID(presetID)
	if p == nil {
		return &ValidationError{Field: "preset", Message: "not found"}
	}
	p.Markdown[c] = rule
	st.save()
	return nil
}

// SetMarkdownEnabled toggles markdown styling for a preset.
func (st *Store) SetMarkdownEnabled(presetID string, on bool) error {
	st.mu.Lock()
	defer st.notify()
	defer st.mu.Unlock()
	p := st.settings.PresetByID(presetID)
	if p == nil {
		return &ValidationError{Field: "preset", Message: "not found"}
	}
	if p.MarkdownEnabled == on {
		return nil
	}
	p.MarkdownEnabled = on
	st.save()
	return nil
}

// =============================================================================
// THEME RULES
// =============================================================================

// AddThemeRule links a theme name to a preset. Theme names are unique.
func (st *Store) AddThemeRule(themeName, presetID string) (string, error) {
	themeName = strings.TrimSpace(themeName)
	if themeName == "" {
		return "", &ValidationError{Field: "theme name", Message: "empty name"}
	}

	st.mu.Lock()
	defer st.notify()
	defer st.mu.Unlock()
	if st.settings.PresetByID(presetID) == nil {
		return "", &ValidationError{Field: "preset", Message: "not found"}
	}
	for _, r := range st.settings.ThemeRules {
		if r.ThemeName == themeName {
			return "", &ValidationError{Field: "theme name", Message: fmt.Sprintf("%q already linked", themeName)}
		}
	}

	rule := ThemeLinkRule{ID: NewID(), ThemeName: themeName, PresetID: presetID}
	st.settings.ThemeRules = append(st.settings.ThemeRules, rule)
	st.save()
	return rule.ID, nil
}

// RemoveThemeRule deletes a theme link.
func (st *Store) RemoveThemeRule(ruleID string) error {
	st.mu.Lock()
	defer st.notify()
	defer st.mu.Unlock()
	for i := range st.settings.ThemeRules {
		if st.settings.ThemeRules[i].ID == ruleID {
			st.settings.ThemeRules = append(st.settings.ThemeRules[:i], st.settings.ThemeRules[i+1:]...)
			st.save()
			return nil
		}
	}
	return &ValidationError{Field: "theme rule", Message: "not found"}
}
