// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package resolve

import "github.com/jeranaias/fontweave/internal/settings"

// FontChoice is one resolved font slot. ExplicitDefault marks a forced
// reset: the slot renders as the built-in default even where an inherited
// value would otherwise apply.
type FontChoice struct {
	Name            string
	ExplicitDefault bool
}

// Set reports whether the slot contributes anything to generated styles.
func (c FontChoice) Set() bool {
	return c.Name != "" || c.ExplicitDefault
}

// Resolved is the flattened output of the precedence chain, the sole input
// to stylesheet generation and message annotation.
type Resolved struct {
	Enabled bool

	PresetID   string
	PresetName string

	UIFont      FontChoice
	MessageFont FontChoice

	MultiLanguage bool
	LanguageFonts map[settings.Language]FontChoice

	Sizing settings.Sizing

	CustomTagsEnabled bool
	CustomTags        []settings.CustomTagRule

	MarkdownEnabled bool
	Markdown        map[settings.Construct]settings.MarkdownRule

	// Fonts is the full asset list, for @font-face emission and
	// name-to-family lookups downstream.
	Fonts []settings.FontAsset
}

// FamilyFor returns the CSS family for a font name, passing unregistered
// names through unchanged.
func (r *Resolved) FamilyFor(name string) string {
	for i := range r.Fonts {
		if r.Fonts[i].Name == name && r.Fonts[i].Family != "" {
			return r.Fonts[i].Family
		}
	}
	return name
}

// Resolve flattens the precedence chain for the given settings snapshot and
// override layer. ov may be nil (no session active). The preset consulted is
// the snapshot's active preset.
func Resolve(s *settings.Settings, ov *Overrides) *Resolved {
	preset := s.ActivePreset()
	if ov == nil {
		ov = NewOverrides()
	}

	r := &Resolved{
		Enabled:       s.Enabled,
		LanguageFonts: make(map[settings.Language]FontChoice, len(settings.Languages())),
		Fonts:         s.Fonts,
	}
	if preset != nil {
		r.PresetID = preset.ID
		r.PresetName = preset.Name
		r.CustomTagsEnabled = preset.CustomTagsEnabled
		r.CustomTags = preset.CustomTags
		r.MarkdownEnabled = preset.MarkdownEnabled
		r.Markdown = preset.Markdown
	}

	presetFont := func(get func(*settings.Preset) string) string {
		if preset == nil {
			return ""
		}
		return get(preset)
	}

	r.UIFont = resolveFont(ov.UIFont, ov.UIFontDefault,
		presetFont(func(p *settings.Preset) string { return p.UIFont }), s.UIFont)

	if ov.MultiLanguage != nil {
		r.MultiLanguage = *ov.MultiLanguage
	} else if preset != nil {
		r.MultiLanguage = preset.MultiLanguage
	} else {
		r.MultiLanguage = s.MultiLanguage
	}

	// Multi-language mode and the single message font are mutually
	// exclusive at this step, not just at render time: while the mode is
	// on, the slot resolves as unset.
	if !r.MultiLanguage {
		r.MessageFont = resolveFont(ov.MessageFont, ov.MessageFontDefault,
			presetFont(func(p *settings.Preset) string { return p.MessageFont }), s.MessageFont)
	}

	for _, lang := range settings.Languages() {
		var fromPreset string
		if preset != nil {
			fromPreset = preset.LanguageFonts[lang]
		}
		r.LanguageFonts[lang] = resolveFont(ov.LanguageFonts[lang], false, fromPreset, s.LanguageFonts[lang])
	}

	r.Sizing = resolveSizing(ov.Sizing, preset, s)
	return r
}

// resolveFont applies the chain for a single font slot: explicit default,
// then override, then preset, then global. Empty at every layer resolves to
// the built-in (empty name, no explicit flag).
func resolveFont(override *string, explicitDefault bool, fromPreset, fromGlobal string) FontChoice {
	if explicitDefault {
		return FontChoice{ExplicitDefault: true}
	}
	if override != nil {
		return FontChoice{Name: *override}
	}
	if fromPreset != "" {
		return FontChoice{Name: fromPreset}
	}
	return FontChoice{Name: fromGlobal}
}

func resolveSizing(ov SizingOverrides, preset *settings.Preset, s *settings.Settings) settings.Sizing {
	base := s.Sizing
	if preset != nil {
		base = preset.Sizing
	}
	if ov.UIFontSize != nil {
		base.UIFontSize = *ov.UIFontSize
	}
	if ov.UIFontWeight != nil {
		base.UIFontWeight = *ov.UIFontWeight
	}
	if ov.ChatFontSize != nil {
		base.ChatFontSize = *ov.ChatFontSize
	}
	if ov.InputFontSize != nil {
		base.InputFontSize = *ov.InputFontSize
	}
	if ov.ChatFontWeight != nil {
		base.ChatFontWeight = *ov.ChatFontWeight
	}
	if ov.ChatLineHeight != nil {
		base.ChatLineHeight = *ov.ChatLineHeight
	}
	return base
}
