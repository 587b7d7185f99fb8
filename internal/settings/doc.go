// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package settings owns the persisted fontweave configuration: the font
// registry, presets, theme-link rules and global style values.
//
// The configuration is a single mutable aggregate persisted as one JSON
// document in a key-value store. All reads during a UI session go through
// the resolution layer (internal/resolve); only persistence load/save and
// the store mutators touch the aggregate directly.
//
// The schema evolves over time, so EnsureDefaults must accept arbitrary
// partially-populated input and is idempotent.
package settings
