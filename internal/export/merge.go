// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"log"

	"github.com/jeranaias/fontweave/internal/settings"
)

// MergeStats reports what a merge actually did.
type MergeStats struct {
	FontsAdded        int
	FontsSkipped      int
	PresetsAdded      int
	PresetsSkipped    int
	ThemeRulesAdded   int
	ThemeRulesSkipped int
	EnabledChanged    bool
}

// Merge folds an imported document into dst additively. Entries whose name
// already exists in dst are skipped; added entries get a fresh ID when
// theirs collides with an existing one. Imported theme rules are remapped
// to follow their preset by name, since preset IDs may have been
// regenerated. Of the scalar globals only the enabled flag is taken from
// the document; everything else keeps dst's current value so the active
// preset stays consistent.
func Merge(dst *settings.Settings, env *Envelope) MergeStats {
	src := env.Settings
	var stats MergeStats

	existingFontNames := make(map[string]bool, len(dst.Fonts))
	existingFontIDs := make(map[string]bool, len(dst.Fonts))
	for _, f := range dst.Fonts {
		existingFontNames[f.Name] = true
		existingFontIDs[f.ID] = true
	}
	for _, f := range src.Fonts {
		if existingFontNames[f.Name] {
			stats.FontsSkipped++
			continue
		}
		if existingFontIDs[f.ID] {
			f.ID = settings.NewID()
		}
		dst.Fonts = append(dst.Fonts, f)
		existingFontNames[f.Name] = true
		existingFontIDs[f.ID] = true
		stats.FontsAdded++
	}

	// presetIDRemap tracks imported preset IDs whose entry got a new ID,
	// or whose name matched an existing preset. Theme rules follow it.
	presetIDRemap := make(map[string]string)

	existingPresetNames := make(map[string]string, len(dst.Presets))
	existingPresetIDs := make(map[string]bool, len(dst.Presets))
	for _, p := range dst.Presets {
		existingPresetNames[p.Name] = p.ID
		existingPresetIDs[p.ID] = true
	}
	for _, p := range src.Presets {
		if id, ok := existingPresetNames[p.Name]; ok {
			presetIDRemap[p.ID] = id
			stats.PresetsSkipped++
			continue
		}
		if existingPresetIDs[p.ID] {
			oldID := p.ID
			p.ID = settings.NewID()
			presetIDRemap[oldID] = p.ID
		} else {
			presetIDRemap[p.ID] = p.ID
		}
		dst.Presets = append(dst.Presets, p)
		existingPresetNames[p.Name] = p.ID
		existingPresetIDs[p.ID] = true
		stats.PresetsAdded++
	}

	existingThemeNames := make(map[string]bool, len(dst.ThemeRules))
	existingThemeIDs := make(map[string]bool, len(dst.ThemeRules))
	for _, r := range dst.ThemeRules {
		existingThemeNames[r.ThemeName] = true
		existingThemeIDs[r.ID] = true
	}
	for _, r := range src.ThemeRules {
		if existingThemeNames[r.ThemeName] {
			stats.ThemeRulesSkipped++
			continue
		}
		if mapped, ok := presetIDRemap[r.PresetID]; ok {
			r.PresetID = mapped
		}
		if existingThemeIDs[r.ID] {
			r.ID = settings.NewID()
		}
		dst.ThemeRules = append(dst.ThemeRules, r)
		existingThemeNames[r.ThemeName] = true
		existingThemeIDs[r.ID] = true
		stats.ThemeRulesAdded++
	}

	if dst.Enabled != src.Enabled {
		dst.Enabled = src.Enabled
		stats.EnabledChanged = true
	}

	log.Printf("import: merged %d fonts (%d skipped), %d presets (%d skipped), %d theme rules (%d skipped)",
		stats.FontsAdded, stats.FontsSkipped,
		stats.PresetsAdded, stats.PresetsSkipped,
		stats.ThemeRulesAdded, stats.ThemeRulesSkipped)
	return stats
}

// Import merges a validated document into the store.
func Import(store *settings.Store, env *Envelope) MergeStats {
	s := store.Snapshot()
	stats := Merge(s, env)
	store.Replace(s)
	return stats
}
