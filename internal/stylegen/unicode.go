// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stylegen

import "github.com/jeranaias/fontweave/internal/settings"

// unicodeRanges maps each language slot to the unicode-range descriptor of
// its synthetic @font-face. A glyph outside every range falls through to the
// next family in the fallback chain.
var unicodeRanges = map[settings.Language][]string{
	settings.LanguageEnglish: {
		"U+0020-007F", // Basic Latin
		"U+00A0-00FF", // Latin-1 Supplement
		"U+0100-017F", // Latin Extended-A
		"U+1E00-1EFF", // Latin Extended Additional
	},
	settings.LanguageKorean: {
		"U+1100-11FF", // Hangul Jamo
		"U+3130-318F", // Hangul Compatibility Jamo
		"U+AC00-D7AF", // Hangul Syllables
		"U+A960-A97F", // Hangul Jamo Extended-A
	},
	settings.LanguageJapanese: {
		"U+3040-309F", // Hiragana
		"U+30A0-30FF", // Katakana
		"U+31F0-31FF", // Katakana Phonetic Extensions
		"U+FF65-FF9F", // Halfwidth Katakana
	},
	settings.LanguageChinese: {
		"U+4E00-9FFF", // CJK Unified Ideographs
		"U+3400-4DBF", // CJK Extension A
		"U+2F00-2FDF", // Kangxi Radicals
		"U+F900-FAFF", // CJK Compatibility Ideographs
	},
}

// syntheticFamily is the generated per-language family name referenced by
// the multi-language fallback chain.
func syntheticFamily(lang settings.Language) string {
	return "fontweave-" + string(lang)
}
