// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeranaias/fontweave/internal/settings"
	"github.com/jeranaias/fontweave/internal/util"
)

// Version is the document format version this package writes. Documents
// without a version field are treated as "1.0".
const Version = "2.0"

// PresetInfo identifies the preset a single-preset document was exported
// around.
type PresetInfo struct {
	SelectedPresetID   string `json:"selectedPresetId"`
	SelectedPresetName string `json:"selectedPresetName"`
}

// Envelope is the on-disk document: a version header wrapped around a
// settings aggregate. Timestamp is kept as a string so foreign documents
// with nonstandard formats still import.
type Envelope struct {
	Version       string             `json:"version"`
	Timestamp     string             `json:"timestamp"`
	CurrentPreset *PresetInfo        `json:"currentPreset,omitempty"`
	Settings      *settings.Settings `json:"settings"`
}

// IsPresetFile reports whether the document is a single-preset export as
// opposed to a full-settings one.
func (e *Envelope) IsPresetFile() bool {
	return e.Version == Version && e.CurrentPreset != nil &&
		e.Settings != nil && len(e.Settings.Presets) == 1
}

// ExportPreset builds a single-preset document: the named preset, the whole
// font registry (the preset may reference any of it), no theme rules, and
// neutral globals. Globals are overwritten on preset apply anyway, so
// exporting the live ones would only leak unrelated state.
func ExportPreset(s *settings.Settings, presetID string, now time.Time) (*Envelope, error) {
	p := s.PresetByID(presetID)
	if p == nil {
		return nil, fmt.Errorf("export preset: preset %q not found", presetID)
	}

	minimal := &settings.Settings{
		Enabled:       s.Enabled,
		Fonts:         s.Fonts,
		Presets:       []settings.Preset{*p},
		CurrentPreset: p.ID,
		Sizing:        settings.DefaultSizing(),
		ThemeRules:    []settings.ThemeLinkRule{},
	}
	return &Envelope{
		Version:   Version,
		Timestamp: now.UTC().Format(time.RFC3339),
		CurrentPreset: &PresetInfo{
			SelectedPresetID:   p.ID,
			SelectedPresetName: p.Name,
		},
		Settings: minimal,
	}, nil
}

// ExportAll builds a full-settings document.
func ExportAll(s *settings.Settings, now time.Time) *Envelope {
	env := &Envelope{
		Version:   Version,
		Timestamp: now.UTC().Format(time.RFC3339),
		Settings:  s.Clone(),
	}
	if p := s.ActivePreset(); p != nil {
		env.CurrentPreset = &PresetInfo{
			SelectedPresetID:   p.ID,
			SelectedPresetName: p.Name,
		}
	}
	return env
}

// PresetFilename returns the download filename for a single-preset export.
func PresetFilename(presetName string, now time.Time) string {
	return fmt.Sprintf("font-preset-%s-%s.json", util.SafeFilename(presetName), now.Format("20060102-1504"))
}

// AllFilename returns the download filename for a full-settings export.
func AllFilename(now time.Time) string {
	return fmt.Sprintf("fontweave-all-settings-%s.json", now.Format("20060102-1504"))
}

// Marshal renders a document as indented JSON.
func Marshal(env *Envelope) ([]byte, error) {
	raw, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export marshal: %w", err)
	}
	return raw, nil
}

// WriteFile writes a document to path atomically.
func WriteFile(path string, env *Envelope) error {
	raw, err := Marshal(env)
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(path, raw, 0600); err != nil {
		return fmt.Errorf("export write: %w", err)
	}
	return nil
}
