// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the key-value persistence layer for fontweave.
//
// Settings are persisted as a single JSON document under a string key,
// matching the localStorage-style contract of the host environment. Two
// backends are provided:
//
//   - SQLite: a kv table in an embedded database (pure Go driver)
//   - File: one JSON object per file, written atomically
//
// Both satisfy the KV interface; callers never depend on a concrete backend.
package storage
