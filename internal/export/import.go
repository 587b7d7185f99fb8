// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// MaxImportSize caps import documents at 10MB. Settings documents are
// dominated by embedded @font-face data URIs; anything past this is not a
// settings file.
const MaxImportSize = 10 << 20

var (
	ErrTooLarge    = errors.New("import file exceeds 10MB")
	ErrNotJSON     = errors.New("import file must be a .json file")
	ErrInvalidData = errors.New("not a valid settings document")
)

// ReadFile loads and validates an import document from path. Nothing is
// mutated here; callers merge the result separately.
func ReadFile(path string) (*Envelope, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".json") {
		return nil, ErrNotJSON
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("import stat: %w", err)
	}
	if info.Size() > MaxImportSize {
		return nil, ErrTooLarge
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("import read: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates an import document.
func Parse(raw []byte) (*Envelope, error) {
	if len(raw) > MaxImportSize {
		return nil, ErrTooLarge
	}
	env := &Envelope{}
	if err := json.Unmarshal(raw, env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if env.Version == "" {
		env.Version = "1.0"
	}
	if err := validate(env); err != nil {
		return nil, err
	}
	return env, nil
}

// validate checks document structure before any merge happens. A document
// that fails here must leave the store completely untouched.
func validate(env *Envelope) error {
	if env.Settings == nil {
		return fmt.Errorf("%w: missing settings", ErrInvalidData)
	}
	s := env.Settings
	if s.Fonts == nil {
		return fmt.Errorf("%w: fonts is not an array", ErrInvalidData)
	}
	if s.Presets == nil {
		return fmt.Errorf("%w: presets is not an array", ErrInvalidData)
	}
	for i, f := range s.Fonts {
		if f.ID == "" || f.Name == "" || f.Type == "" {
			return fmt.Errorf("%w: font %d missing required fields", ErrInvalidData, i)
		}
	}
	for i, p := range s.Presets {
		if p.ID == "" || p.Name == "" {
			return fmt.Errorf("%w: preset %d missing required fields", ErrInvalidData, i)
		}
	}
	for i, r := range s.ThemeRules {
		if r.ID == "" || r.ThemeName == "" || r.PresetID == "" {
			return fmt.Errorf("%w: theme rule %d missing required fields", ErrInvalidData, i)
		}
	}
	return nil
}
