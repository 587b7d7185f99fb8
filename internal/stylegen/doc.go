// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stylegen renders resolved style values into CSS text.
//
// Generation is whole-sheet: every change rebuilds the complete stylesheet
// from the resolved snapshot rather than patching individual rules. The
// output is deterministic for a given input, so callers can compare sheets
// byte-wise to skip redundant re-injection.
//
// Two sheets are produced. The main sheet carries custom properties, raw
// @font-face definitions, and the UI/message/input selector rules. The
// markdown sheet is a separate, smaller sheet the host must append after the
// main one so its rules win specificity ties for the same elements.
package stylegen
