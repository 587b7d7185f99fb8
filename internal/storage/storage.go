// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import "errors"

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrClosed        = errors.New("store is closed")
	ErrDatabaseError = errors.New("database error")
)

// =============================================================================
// KV INTERFACE
// =============================================================================

// KV is a minimal string key-value store.
//
// Get reports ok=false (nil error) for a missing key so callers can
// distinguish "absent" from "broken storage".
type KV interface {
	// Get returns the value for key, ok=false if the key is absent.
	Get(key string) (value string, ok bool, err error)

	// Set writes value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Close releases backend resources.
	Close() error
}
