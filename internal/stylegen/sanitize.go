// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stylegen

import (
	"strings"

	"github.com/aymerick/douceur/parser"
)

// Sanitize round-trips CSS text through a parser and re-serializes the
// rules it understood, dropping anything unparseable between rules.
//
// RELIABILITY: this never fails closed. Unparseable input comes back
// verbatim; a sheet that styles nothing is worse than a sheet with an odd
// declaration, and the dangerous constructs were already rejected at font
// import time.
func Sanitize(css string) string {
	trimmed := strings.TrimSpace(css)
	if trimmed == "" {
		return ""
	}
	sheet, err := parser.Parse(trimmed)
	if err != nil {
		return css
	}

	var b strings.Builder
	for _, rule := range sheet.Rules {
		b.WriteString(rule.String())
		b.WriteString("\n")
	}
	return b.String()
}
