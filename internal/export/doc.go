// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export serializes settings to portable JSON documents and merges
// imported documents back in.
//
// Import is additive: existing fonts, presets, and theme rules are never
// overwritten or removed, incoming entries with an already-used name are
// skipped, and ID collisions are resolved by regenerating the incoming ID.
// Of the global settings only the enabled flag is taken from the imported
// document. Validation happens before any mutation; a rejected document
// leaves the store untouched.
package export
