// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stylegen

import (
	"strings"
	"testing"

	"github.com/jeranaias/fontweave/internal/resolve"
	"github.com/jeranaias/fontweave/internal/settings"
)

func baseResolved() *resolve.Resolved {
	return &resolve.Resolved{
		Enabled:       true,
		Sizing:        settings.DefaultSizing(),
		LanguageFonts: map[settings.Language]resolve.FontChoice{},
	}
}

func TestGenerateDisabledIsEmpty(t *testing.T) {
	r := baseResolved()
	r.Enabled = false
	if got := Generate(r); got != "" {
		t.Errorf("disabled sheet = %q, want empty", got)
	}
	if got := GenerateMarkdown(r); got != "" {
		t.Errorf("disabled markdown sheet = %q, want empty", got)
	}
}

func TestGenerateVariables(t *testing.T) {
	r := baseResolved()
	r.Sizing.ChatFontSize = 18
	r.Sizing.ChatLineHeight = 1.6
	css := Generate(r)

	for _, want := range []string{
		"--fontweave-ui-size: 14px",
		"--fontweave-chat-size: 18px",
		"--fontweave-chat-line-height: 1.6rem",
		"--fontweave-chat-weight: 0px",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("sheet missing %q", want)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	r := baseResolved()
	r.UIFont = resolve.FontChoice{Name: "Inter"}
	r.MessageFont = resolve.FontChoice{Name: "Pretendard"}
	r.Fonts = []settings.FontAsset{
		{Name: "Pretendard", Type: "source", Family: "Pretendard",
			CSSSource: `@font-face { font-family: Pretendard; src: local("Pretendard"); }`},
	}
	a := Generate(r)
	b := Generate(r)
	if a != b {
		t.Error("same input produced different sheets")
	}
}

func TestGenerateFontSelection(t *testing.T) {
	r := baseResolved()
	r.MessageFont = resolve.FontChoice{Name: "My Font"}
	r.Fonts = []settings.FontAsset{
		{Name: "My Font", Type: "source", Family: "ActualFamily",
			CSSSource: `@font-face { font-family: ActualFamily; src: local("x"); }`},
	}
	css := Generate(r)

	if !strings.Contains(css, `"ActualFamily"`) {
		t.Error("registered family not used for message font")
	}
	if !strings.Contains(css, "ActualFamily") || !strings.Contains(css, "local(") {
		t.Error("@font-face source not carried into the sheet")
	}
	// FontAwesome guard present alongside any font override.
	if !strings.Contains(css, "Font Awesome 6 Free") {
		t.Error("icon guard missing")
	}
}

func TestGenerateExplicitDefault(t *testing.T) {
	r := baseResolved()
	r.UIFont = resolve.FontChoice{ExplicitDefault: true}
	r.MessageFont = resolve.FontChoice{Name: "Pretendard", ExplicitDefault: true}
	css := Generate(r)

	if !strings.Contains(css, "font-family: initial") {
		t.Error("explicit default did not force font-family: initial")
	}
	if strings.Contains(css, "Pretendard") {
		t.Error("explicitly-defaulted font name leaked into the sheet")
	}
}

func TestGenerateMultiLanguage(t *testing.T) {
	r := baseResolved()
	r.MultiLanguage = true
	r.MessageFont = resolve.FontChoice{Name: "Ignored"}
	r.LanguageFonts = map[settings.Language]resolve.FontChoice{
		settings.LanguageEnglish: {Name: "Inter"},
		settings.LanguageKorean:  {Name: "Pretendard"},
	}
	r.Fonts = []settings.FontAsset{
		{Name: "Pretendard", Type: "source", Family: "Pretendard",
			CSSSource: `@font-face { font-family: Pretendard; src: url('p.woff2') format('woff2'); }`},
	}
	css := Generate(r)

	if !strings.Contains(css, "fontweave-english") || !strings.Contains(css, "fontweave-korean") {
		t.Error("synthetic language families missing")
	}
	if !strings.Contains(css, "U+AC00-D7AF") {
		t.Error("korean unicode-range missing")
	}
	// Registered font contributes its own src; unregistered uses local().
	if !strings.Contains(css, "p.woff2") {
		t.Error("extracted src not used for registered language font")
	}
	if !strings.Contains(css, `local("Inter")`) {
		t.Error("local() fallback not used for unregistered language font")
	}
	// Single message font is bypassed entirely.
	if strings.Contains(css, "Ignored") {
		t.Error("message font leaked into multi-language sheet")
	}
	// Fallback chain in declaration order: english before korean.
	if strings.Index(css, `"fontweave-english", "fontweave-korean"`) < 0 {
		t.Error("fallback chain out of order")
	}
}

func TestGenerateMultiLanguageNoFonts(t *testing.T) {
	r := baseResolved()
	r.MultiLanguage = true
	css := Generate(r)
	if !strings.Contains(css, "font-family: initial") {
		t.Error("empty multi-language mode should reset the message font")
	}
}

func TestGenerateMarkdownRules(t *testing.T) {
	r := baseResolved()
	r.MarkdownEnabled = true
	r.Markdown = map[settings.Construct]settings.MarkdownRule{
		settings.ConstructDialogue: {FontName: "Pretendard", FontSize: 16},
		settings.ConstructItalic:   {BackgroundColor: "#333", BackgroundPadding: "2px 4px"},
		settings.ConstructStrong:   {},
	}
	css := GenerateMarkdown(r)

	if !strings.Contains(css, ".mes_text q") || !strings.Contains(css, "16px") {
		t.Errorf("dialogue rule missing:\n%s", css)
	}
	if !strings.Contains(css, ".mes_text em") || !strings.Contains(css, "#333") {
		t.Errorf("italic rule missing:\n%s", css)
	}
	if strings.Contains(css, ".mes_text strong") {
		t.Error("empty rule emitted a selector")
	}

	r.MarkdownEnabled = false
	if GenerateMarkdown(r) != "" {
		t.Error("disabled markdown produced rules")
	}
}

func TestSanitizePassthrough(t *testing.T) {
	in := `.mes_text { font-size: 14px; }`
	out := Sanitize(in)
	if !strings.Contains(out, "font-size") {
		t.Errorf("sanitize dropped a valid declaration: %q", out)
	}
	if Sanitize("") != "" {
		t.Error("empty input not preserved")
	}
	// Unparseable input comes back verbatim rather than failing closed.
	broken := ".x { color: red"
	if Sanitize(broken) == "" {
		t.Error("unparseable input was dropped")
	}
}
