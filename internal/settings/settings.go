// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"encoding/json"

	"github.com/google/uuid"
)

// =============================================================================
// ENUMERATIONS
// =============================================================================

// Language identifies one per-language font slot in multi-language mode.
type Language string

const (
	LanguageEnglish  Language = "english"
	LanguageKorean   Language = "korean"
	LanguageJapanese Language = "japanese"
	LanguageChinese  Language = "chinese"
)

// Languages returns all language slots in stable declaration order.
// The order matters: it is the fallback-chain order in generated CSS.
func Languages() []Language {
	return []Language{LanguageEnglish, LanguageKorean, LanguageJapanese, LanguageChinese}
}

// Construct identifies one markdown construct a MarkdownRule can style.
type Construct string

const (
	ConstructDialogue  Construct = "dialogue"
	ConstructItalic    Construct = "italic"
	ConstructUnderline Construct = "underline"
	ConstructStrong    Construct = "strong"
)

// Constructs returns all markdown constructs in stable order.
func Constructs() []Construct {
	return []Construct{ConstructDialogue, ConstructItalic, ConstructUnderline, ConstructStrong}
}

// =============================================================================
// DATA MODEL
// =============================================================================

// FontAsset is one registered font: a user-facing name plus the raw
// @font-face source it was imported with. Immutable once created except for
// deletion.
type FontAsset struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // currently always "source"

	// CSSSource is the raw @font-face block(s) as imported.
	CSSSource string `json:"cssSource"`

	// Family is the font-family extracted from CSSSource, falling back to
	// Name when extraction fails.
	Family string `json:"family"`
}

// Sizing bundles the numeric style tunables.
type Sizing struct {
	UIFontSize     int     `json:"uiFontSize"`
	UIFontWeight   float64 `json:"uiFontWeight"` // text-stroke width, px
	ChatFontSize   int     `json:"chatFontSize"`
	InputFontSize  int     `json:"inputFontSize"`
	ChatFontWeight float64 `json:"chatFontWeight"`
	ChatLineHeight float64 `json:"chatLineHeight"` // rem
}

// CustomTagRule maps an inline tag like <q>...</q> in message source text to
// a font. Tag names are unique within a preset, case-insensitively.
type CustomTagRule struct {
	ID       string `json:"id"`
	TagName  string `json:"tagName"`
	FontName string `json:"fontName"`
	FontSize int    `json:"fontSize,omitempty"` // px, 0 = inherit
}

// MarkdownRule styles one markdown construct in rendered messages.
// All fields are optional; empty means "leave alone".
type MarkdownRule struct {
	FontName          string `json:"fontName,omitempty"`
	FontSize          int    `json:"fontSize,omitempty"` // px, 0 = inherit
	BackgroundColor   string `json:"backgroundColor,omitempty"`
	BackgroundPadding string `json:"backgroundPadding,omitempty"`
}

// ThemeLinkRule links an externally detected theme name to a preset.
// A PresetID pointing at a deleted preset is tolerated, not purged.
type ThemeLinkRule struct {
	ID        string `json:"id"`
	ThemeName string `json:"themeName"`
	PresetID  string `json:"presetId"`
}

// Preset is a named bundle of font/size/tag/markdown choices. Exactly one
// preset is active at a time (Settings.CurrentPreset).
type Preset struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Empty string means "no font selected" for this slot.
	UIFont      string `json:"uiFont"`
	MessageFont string `json:"messageFont"`

	MultiLanguage bool                `json:"multiLanguageEnabled"`
	LanguageFonts map[Language]string `json:"languageFonts"`

	Sizing Sizing `json:"sizing"`

	CustomTagsEnabled bool            `json:"customTagEnabled"`
	CustomTags        []CustomTagRule `json:"customTags"`

	MarkdownEnabled bool                       `json:"markdownCustomEnabled"`
	Markdown        map[Construct]MarkdownRule `json:"markdownCustom"`
}

// Settings is the whole persisted aggregate.
type Settings struct {
	Enabled bool `json:"enabled"`

	Fonts         []FontAsset `json:"fonts"`
	Presets       []Preset    `json:"presets"`
	CurrentPreset string      `json:"currentPreset"`

	// Global fallbacks below the active preset in the resolution chain.
	UIFont        string              `json:"currentUiFont"`
	MessageFont   string              `json:"currentMessageFont"`
	MultiLanguage bool                `json:"multiLanguageEnabled"`
	LanguageFonts map[Language]string `json:"languageFonts"`
	Sizing        Sizing              `json:"sizing"`

	ThemeRules []ThemeLinkRule `json:"themeRules"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Built-in constants at the bottom of the resolution chain.
const (
	DefaultFontSize   = 14
	DefaultFontWeight = 0.0
	DefaultLineHeight = 1.2

	DefaultPresetName = "default"
)

// Numeric bounds enforced at input boundaries.
const (
	MinFontSize   = 8
	MaxFontSize   = 32
	MinFontWeight = 0.0
	MaxFontWeight = 2.0
	MinLineHeight = 0.8
	MaxLineHeight = 3.0
)

// DefaultSizing returns the built-in sizing values.
func DefaultSizing() Sizing {
	return Sizing{
		UIFontSize:     DefaultFontSize,
		UIFontWeight:   DefaultFontWeight,
		ChatFontSize:   DefaultFontSize,
		InputFontSize:  DefaultFontSize,
		ChatFontWeight: DefaultFontWeight,
		ChatLineHeight: DefaultLineHeight,
	}
}

// Default returns a fully-populated Settings with schema defaults and one
// default preset.
func Default() *Settings {
	s := &Settings{
		Enabled:       false,
		Fonts:         []FontAsset{},
		Presets:       []Preset{},
		LanguageFonts: emptyLanguageFonts(),
		Sizing:        DefaultSizing(),
		ThemeRules:    []ThemeLinkRule{},
	}
	EnsureDefaults(s)
	return s
}

func emptyLanguageFonts() map[Language]string {
	m := make(map[Language]string, len(Languages()))
	for _, lang := range Languages() {
		m[lang] = ""
	}
	return m
}

func emptyMarkdown() map[Construct]MarkdownRule {
	m := make(map[Construct]MarkdownRule, len(Constructs()))
	for _, c := range Constructs() {
		m[c] = MarkdownRule{}
	}
	return m
}

// NewPreset returns a preset with schema defaults and a fresh ID.
func NewPreset(name string) Preset {
	return Preset{
		ID:            NewID(),
		Name:          name,
		LanguageFonts: emptyLanguageFonts(),
		Sizing:        DefaultSizing(),
		CustomTags:    []CustomTagRule{},
		Markdown:      emptyMarkdown(),
	}
}

// NewID returns a fresh entity ID.
func NewID() string {
	return uuid.NewString()
}

// EnsureDefaults fills every missing top-level and nested field with schema
// defaults. It accepts arbitrary partially-populated input (older persisted
// documents lack newer fields) and is idempotent.
//
// Invariant on return: at least one preset exists and CurrentPreset
// references an existing preset.
func EnsureDefaults(s *Settings) {
	if s.Fonts == nil {
		s.Fonts = []FontAsset{}
	}
	if s.Presets == nil {
		s.Presets = []Preset{}
	}
	if s.ThemeRules == nil {
		s.ThemeRules = []ThemeLinkRule{}
	}
	ensureLanguageFonts(&s.LanguageFonts)
	ensureSizing(&s.Sizing)

	for i := range s.Fonts {
		f := &s.Fonts[i]
		if f.ID == "" {
			f.ID = NewID()
		}
		if f.Type == "" {
			f.Type = "source"
		}
		if f.Family == "" {
			f.Family = f.Name
		}
	}

	for i := range s.Presets {
		p := &s.Presets[i]
		if p.ID == "" {
			p.ID = NewID()
		}
		ensureLanguageFonts(&p.LanguageFonts)
		ensureSizing(&p.Sizing)
		if p.CustomTags == nil {
			p.CustomTags = []CustomTagRule{}
		}
		if p.Markdown == nil {
			p.Markdown = emptyMarkdown()
		} else {
			for _, c := range Constructs() {
				if _, ok := p.Markdown[c]; !ok {
					p.Markdown[c] = MarkdownRule{}
				}
			}
		}
	}

	if len(s.Presets) == 0 {
		p := NewPreset(DefaultPresetName)
		s.Presets = append(s.Presets, p)
		s.CurrentPreset = p.ID
		return
	}
	if s.PresetByID(s.CurrentPreset) == nil {
		s.CurrentPreset = s.Presets[0].ID
	}
}

func ensureLanguageFonts(m *map[Language]string) {
	if *m == nil {
		*m = emptyLanguageFonts()
		return
	}
	for _, lang := range Languages() {
		if _, ok := (*m)[lang]; !ok {
			(*m)[lang] = ""
		}
	}
}

func ensureSizing(z *Sizing) {
	if z.UIFontSize == 0 {
		z.UIFontSize = DefaultFontSize
	}
	if z.ChatFontSize == 0 {
		z.ChatFontSize = DefaultFontSize
	}
	if z.InputFontSize == 0 {
		z.InputFontSize = DefaultFontSize
	}
	if z.ChatLineHeight == 0 {
		z.ChatLineHeight = DefaultLineHeight
	}
	// Weights legitimately default to 0; nothing to fill.
}

// =============================================================================
// LOOKUPS
// =============================================================================

// PresetByID returns the preset with the given ID, nil if absent.
func (s *Settings) PresetByID(id string) *Preset {
	if id == "" {
		return nil
	}
	for i := range s.Presets {
		if s.Presets[i].ID == id {
			return &s.Presets[i]
		}
	}
	return nil
}

// PresetByName returns the preset with the given name, nil if absent.
func (s *Settings) PresetByName(name string) *Preset {
	for i := range s.Presets {
		if s.Presets[i].Name == name {
			return &s.Presets[i]
		}
	}
	return nil
}

// ActivePreset returns the current preset, nil when none is active.
func (s *Settings) ActivePreset() *Preset {
	return s.PresetByID(s.CurrentPreset)
}

// FontByID returns the font with the given ID, nil if absent.
func (s *Settings) FontByID(id string) *FontAsset {
	for i := range s.Fonts {
		if s.Fonts[i].ID == id {
			return &s.Fonts[i]
		}
	}
	return nil
}

// FontByName returns the font with the given user-facing name, nil if absent.
func (s *Settings) FontByName(name string) *FontAsset {
	if name == "" {
		return nil
	}
	for i := range s.Fonts {
		if s.Fonts[i].Name == name {
			return &s.Fonts[i]
		}
	}
	return nil
}

// FamilyFor returns the CSS font-family for a registered font name.
// Unregistered names pass through unchanged (local/system fonts).
func (s *Settings) FamilyFor(name string) string {
	if f := s.FontByName(name); f != nil && f.Family != "" {
		return f.Family
	}
	return name
}

// Clone returns a deep copy of the settings.
func (s *Settings) Clone() *Settings {
	raw, err := json.Marshal(s)
	if err != nil {
		// Settings is a plain data tree; marshal cannot fail on it.
		panic("settings: clone marshal: " + err.Error())
	}
	out := &Settings{}
	if err := json.Unmarshal(raw, out); err != nil {
		panic("settings: clone unmarshal: " + err.Error())
	}
	return out
}
