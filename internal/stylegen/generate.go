// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stylegen

import (
	"fmt"
	"strings"

	"github.com/jeranaias/fontweave/internal/resolve"
	"github.com/jeranaias/fontweave/internal/settings"
)

// Style element IDs the host uses when injecting the generated sheets.
const (
	MainSheetID     = "fontweave-ui-fonts"
	MarkdownSheetID = "fontweave-markdown"
)

// Icon-font class exemptions. Icon glyphs are mapped through their own
// families; overriding them renders tofu.
const (
	faGuardClasses = `.fa, .fas, .far, .fab, .fal, .fad, .fass, .fasr, .fasl, .fasd,
[class*="fa-"], i[class*="fa"]`

	faGuardFamilies = `"Font Awesome 6 Free", "Font Awesome 6 Brands", "Font Awesome 5 Free", "Font Awesome 5 Pro", "FontAwesome"`
)

// uiSelectors covers the chrome outside message text. The span exemptions
// keep icon glyph elements out; the textarea exemption keeps the chat input
// on its own rule.
const uiSelectors = `html body,
html body input,
html body select,
html body span:not([class*="fa"]):not(.fa):not(.fas):not(.far):not(.fab):not(.fal):not(.fad):not(.fass):not(.fasr):not(.fasl):not(.fasd),
html body code,
html body .list-group-item,
html body .ui-widget-content .ui-menu-item-wrapper,
html body textarea:not(#send_textarea)`

const messageSelectors = `.mes_text,
.mes_text *:not(.fa):not(.fas):not(.far):not(.fab):not(.fal):not(.fad):not(.fass):not(.fasr):not(.fasl):not(.fasd):not([class*="fa-"]):not(i[class*="fa"])`

const inputSelector = `#send_form textarea`

// Generate renders the main stylesheet for a resolved snapshot. Disabled
// settings yield an empty sheet, which the host injects as-is to clear any
// previous styling.
func Generate(r *resolve.Resolved) string {
	if !r.Enabled {
		return ""
	}

	var b strings.Builder

	b.WriteString("/*\n * === CSS VARIABLES ===\n */\n")
	writeVariables(&b, r.Sizing)

	b.WriteString("\n/*\n * === FONT DEFINITIONS ===\n */\n")
	for _, f := range r.Fonts {
		if f.Type != "source" || f.CSSSource == "" {
			continue
		}
		fmt.Fprintf(&b, "/* FONT: %s */\n%s\n\n", f.Name, strings.TrimSpace(f.CSSSource))
	}

	b.WriteString("\n/*\n * === UI FONT APPLICATION ===\n */\n")
	writeUIBlock(&b, r)
	b.WriteString("\n")
	writeMessageBlock(&b, r)
	b.WriteString("\n")

	// Message-area icon guard, repeated with higher specificity than the
	// message rule above.
	fmt.Fprintf(&b, ".mes_text .fa, .mes_text .fas, .mes_text .far, .mes_text .fab, .mes_text .fal, .mes_text .fad, .mes_text .fass, .mes_text .fasr, .mes_text .fasl, .mes_text .fasd,\n.mes_text [class*=\"fa-\"], .mes_text i[class*=\"fa\"] {\n  font-family: %s !important;\n}\n", faGuardFamilies)

	return Sanitize(b.String())
}

func writeVariables(b *strings.Builder, z settings.Sizing) {
	fmt.Fprintf(b, `:root {
  --fontweave-ui-size: %dpx;
  --fontweave-ui-weight: %gpx;
  --fontweave-chat-size: %dpx;
  --fontweave-input-size: %dpx;
  --fontweave-chat-weight: %gpx;
  --fontweave-chat-line-height: %grem;
}
`, z.UIFontSize, z.UIFontWeight, z.ChatFontSize, z.InputFontSize, z.ChatFontWeight, z.ChatLineHeight)
}

func writeUIBlock(b *strings.Builder, r *resolve.Resolved) {
	if r.UIFont.Name != "" && !r.UIFont.ExplicitDefault {
		family := r.FamilyFor(r.UIFont.Name)
		fmt.Fprintf(b, `%s {
  font-family: "%s", Sans-Serif !important;
  font-size: var(--fontweave-ui-size) !important;
  font-weight: normal !important;
  line-height: 1.1rem !important;
  -webkit-text-stroke: var(--fontweave-ui-weight) !important;
}
`, uiSelectors, family)
	} else {
		// Default font: reset family explicitly, keep the tunables.
		fmt.Fprintf(b, `%s {
  font-family: initial !important;
  font-size: var(--fontweave-ui-size) !important;
  -webkit-text-stroke: var(--fontweave-ui-weight) !important;
}
`, uiSelectors)
	}
	fmt.Fprintf(b, "\n%s {\n  font-family: %s !important;\n}\n", faGuardClasses, faGuardFamilies)
}

func writeMessageBlock(b *strings.Builder, r *resolve.Resolved) {
	if r.MultiLanguage {
		writeMultiLanguageBlock(b, r)
		return
	}

	if r.MessageFont.Name != "" && !r.MessageFont.ExplicitDefault {
		family := r.FamilyFor(r.MessageFont.Name)
		writeMessageRules(b, fmt.Sprintf("%q", family))
	} else {
		writeMessageRules(b, "initial")
	}
}

// writeMultiLanguageBlock emits one synthetic @font-face per configured
// language, scoped by unicode-range, then a fallback chain in declaration
// order. Multi-language mode bypasses the single message font entirely.
func writeMultiLanguageBlock(b *strings.Builder, r *resolve.Resolved) {
	var fallbacks []string
	for _, lang := range settings.Languages() {
		choice := r.LanguageFonts[lang]
		if choice.Name == "" {
			continue
		}
		src := languageSrc(r, choice.Name)
		fmt.Fprintf(b, `@font-face {
  font-family: "%s";
  src: %s;
  unicode-range: %s;
}
`, syntheticFamily(lang), src, strings.Join(unicodeRanges[lang], ", "))
		fallbacks = append(fallbacks, fmt.Sprintf("%q", syntheticFamily(lang)))
	}

	if len(fallbacks) == 0 {
		writeMessageRules(b, "initial")
		return
	}
	writeMessageRules(b, strings.Join(fallbacks, ", ")+", sans-serif")
}

// languageSrc picks the src for a synthetic @font-face: the src extracted
// from the registered asset's own @font-face when present, otherwise a
// local() reference by family name.
func languageSrc(r *resolve.Resolved, fontName string) string {
	family := r.FamilyFor(fontName)
	for i := range r.Fonts {
		f := &r.Fonts[i]
		if f.Name != fontName || f.CSSSource == "" {
			continue
		}
		if src := settings.ExtractSrc(f.CSSSource); src != "" {
			return src
		}
	}
	return fmt.Sprintf("local(%q)", family)
}

func writeMessageRules(b *strings.Builder, familyValue string) {
	fmt.Fprintf(b, `%s {
  font-family: %s !important;
  font-size: var(--fontweave-chat-size) !important;
  line-height: var(--fontweave-chat-line-height) !important;
  -webkit-text-stroke: var(--fontweave-chat-weight) !important;
}

%s {
  font-family: %s !important;
  font-size: var(--fontweave-input-size) !important;
  -webkit-text-stroke: var(--fontweave-chat-weight) !important;
}
`, messageSelectors, familyValue, inputSelector, familyValue)
}

// =============================================================================
// MARKDOWN SHEET
// =============================================================================

// constructSelectors maps each markdown construct to the element the host
// renders it as inside message text.
var constructSelectors = map[settings.Construct]string{
	settings.ConstructDialogue:  ".mes_text q",
	settings.ConstructItalic:    ".mes_text em",
	settings.ConstructUnderline: ".mes_text u",
	settings.ConstructStrong:    ".mes_text strong",
}

// GenerateMarkdown renders the markdown sub-sheet. It is empty when styling
// or per-construct markdown rules are disabled; the host still injects the
// empty sheet so stale rules are cleared.
func GenerateMarkdown(r *resolve.Resolved) string {
	if !r.Enabled || !r.MarkdownEnabled || len(r.Markdown) == 0 {
		return ""
	}

	var b strings.Builder
	for _, c := range settings.Constructs() {
		rule, ok := r.Markdown[c]
		if !ok || rule == (settings.MarkdownRule{}) {
			continue
		}
		var decls []string
		if rule.FontName != "" {
			decls = append(decls, fmt.Sprintf("  font-family: %q, sans-serif !important;", r.FamilyFor(rule.FontName)))
		}
		if rule.FontSize > 0 {
			decls = append(decls, fmt.Sprintf("  font-size: %dpx !important;", rule.FontSize))
		}
		if rule.BackgroundColor != "" {
			decls = append(decls, fmt.Sprintf("  background-color: %s !important;", rule.BackgroundColor))
			decls = append(decls, "  border-radius: 4px;")
		}
		if rule.BackgroundPadding != "" {
			decls = append(decls, fmt.Sprintf("  padding: %s !important;", rule.BackgroundPadding))
		}
		if len(decls) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s {\n%s\n}\n\n", constructSelectors[c], strings.Join(decls, "\n"))
	}
	return Sanitize(b.String())
}
