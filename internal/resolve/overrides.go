// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package resolve

import "github.com/jeranaias/fontweave/internal/settings"

// Overrides is the transient top layer of the resolution chain. A nil
// pointer slot means "no override, fall through"; a non-nil slot wins over
// every lower layer. The *Default flags mark an explicit reset, which also
// wins but resolves to the built-in default instead of a font name.
type Overrides struct {
	UIFont      *string
	MessageFont *string

	UIFontDefault      bool
	MessageFontDefault bool

	MultiLanguage *bool
	LanguageFonts map[settings.Language]*string

	Sizing SizingOverrides
}

// SizingOverrides holds per-field sizing overrides. Nil means fall through.
type SizingOverrides struct {
	UIFontSize     *int
	UIFontWeight   *float64
	ChatFontSize   *int
	InputFontSize  *int
	ChatFontWeight *float64
	ChatLineHeight *float64
}

// NewOverrides returns an empty override layer.
func NewOverrides() *Overrides {
	return &Overrides{
		LanguageFonts: make(map[settings.Language]*string),
	}
}

// Clear empties every slot, including the explicit-default flags.
func (o *Overrides) Clear() {
	*o = Overrides{
		LanguageFonts: make(map[settings.Language]*string),
	}
}

// Empty reports whether no slot is set.
func (o *Overrides) Empty() bool {
	if o.UIFont != nil || o.MessageFont != nil ||
		o.UIFontDefault || o.MessageFontDefault || o.MultiLanguage != nil {
		return false
	}
	for _, v := range o.LanguageFonts {
		if v != nil {
			return false
		}
	}
	z := o.Sizing
	return z.UIFontSize == nil && z.UIFontWeight == nil &&
		z.ChatFontSize == nil && z.InputFontSize == nil &&
		z.ChatFontWeight == nil && z.ChatLineHeight == nil
}
