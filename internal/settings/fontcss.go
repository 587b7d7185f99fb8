// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// =============================================================================
// VALIDATION ERRORS
// =============================================================================

// ValidationError describes an invalid user-supplied value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// =============================================================================
// FONT CSS VALIDATION
// =============================================================================

// MaxFontFaceBlocks caps how many @font-face rules one asset may carry.
const MaxFontFaceBlocks = 10

// SECURITY: substrings rejected in user-supplied font CSS. The source is
// injected verbatim into a shared stylesheet, so anything that can load
// sub-resources or run script is blocked outright.
var dangerousCSSPatterns = []string{
	"@import",
	"@media",
	"@keyframes",
	"@charset",
	"@namespace",
	"javascript:",
	"expression(",
	"behavior:",
	"binding:",
	"<script",
	"onclick",
	"onload",
	"onerror",
}

var fontFaceRe = regexp.MustCompile(`(?i)@font-face`)

// ValidateFontCSS checks user-supplied font CSS before it is accepted as a
// FontAsset source. It rejects empty input, dangerous constructs, more than
// MaxFontFaceBlocks @font-face rules, and any rule that is not @font-face.
func ValidateFontCSS(source string) error {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return &ValidationError{Field: "font css", Message: "empty source"}
	}

	lower := strings.ToLower(trimmed)
	for _, pat := range dangerousCSSPatterns {
		if strings.Contains(lower, pat) {
			return &ValidationError{
				Field:   "font css",
				Message: fmt.Sprintf("disallowed construct %q", pat),
			}
		}
	}

	if n := len(fontFaceRe.FindAllStringIndex(trimmed, -1)); n == 0 {
		return &ValidationError{Field: "font css", Message: "no @font-face rule found"}
	} else if n > MaxFontFaceBlocks {
		return &ValidationError{
			Field:   "font css",
			Message: fmt.Sprintf("%d @font-face blocks, maximum is %d", n, MaxFontFaceBlocks),
		}
	}

	sheet, err := parser.Parse(trimmed)
	if err != nil {
		return &ValidationError{Field: "font css", Message: "unparseable CSS"}
	}
	for _, rule := range sheet.Rules {
		if rule.Kind != css.AtRule || !strings.EqualFold(rule.Name, "@font-face") {
			return &ValidationError{
				Field:   "font css",
				Message: "only @font-face rules are allowed",
			}
		}
	}
	return nil
}

// =============================================================================
// EXTRACTION
// =============================================================================

var (
	familyFallbackRe = regexp.MustCompile(`(?i)font-family\s*:\s*(['"]?)([^'";}]+)`)
	srcFallbackRe    = regexp.MustCompile(`(?i)src\s*:\s*([^;}]+)`)
)

// ExtractFamily returns the font-family declared in the first @font-face
// block of source, or "" when none is found. Falls back to a regex scan when
// the CSS does not parse cleanly.
func ExtractFamily(source string) string {
	if sheet, err := parser.Parse(source); err == nil {
		for _, rule := range sheet.Rules {
			if rule.Kind != css.AtRule || !strings.EqualFold(rule.Name, "@font-face") {
				continue
			}
			for _, decl := range rule.Declarations {
				if strings.EqualFold(decl.Property, "font-family") {
					return strings.Trim(strings.TrimSpace(decl.Value), `'"`)
				}
			}
		}
	}
	if m := familyFallbackRe.FindStringSubmatch(source); m != nil {
		return strings.TrimSpace(m[2])
	}
	return ""
}

// ExtractSrc returns the src value of the first @font-face block, or ""
// when none is found.
func ExtractSrc(source string) string {
	if sheet, err := parser.Parse(source); err == nil {
		for _, rule := range sheet.Rules {
			if rule.Kind != css.AtRule || !strings.EqualFold(rule.Name, "@font-face") {
				continue
			}
			for _, decl := range rule.Declarations {
				if strings.EqualFold(decl.Property, "src") {
					return strings.TrimSpace(decl.Value)
				}
			}
		}
	}
	if m := srcFallbackRe.FindStringSubmatch(source); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// =============================================================================
// SIZING VALIDATION
// =============================================================================

// ValidateSizing checks every numeric tunable against its bounds.
func ValidateSizing(z Sizing) error {
	check := func(field string, v, lo, hi int) error {
		if v < lo || v > hi {
			return &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%d out of range [%d, %d]", v, lo, hi),
			}
		}
		return nil
	}
	checkF := func(field string, v, lo, hi float64) error {
		if v < lo || v > hi {
			return &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("%g out of range [%g, %g]", v, lo, hi),
			}
		}
		return nil
	}

	if err := check("ui font size", z.UIFontSize, MinFontSize, MaxFontSize); err != nil {
		return err
	}
	if err := check("chat font size", z.ChatFontSize, MinFontSize, MaxFontSize); err != nil {
		return err
	}
	if err := check("input font size", z.InputFontSize, MinFontSize, MaxFontSize); err != nil {
		return err
	}
	if err := checkF("ui font weight", z.UIFontWeight, MinFontWeight, MaxFontWeight); err != nil {
		return err
	}
	if err := checkF("chat font weight", z.ChatFontWeight, MinFontWeight, MaxFontWeight); err != nil {
		return err
	}
	if err := checkF("chat line height", z.ChatLineHeight, MinLineHeight, MaxLineHeight); err != nil {
		return err
	}
	return nil
}
