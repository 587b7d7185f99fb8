// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/jeranaias/fontweave/internal/util"
)

// =============================================================================
// FILE BACKEND
// =============================================================================

// File is a KV persisted as a single JSON object in one file, for hosts
// where an embedded database is unavailable or unwanted.
//
// RELIABILITY: every write rewrites the whole file atomically with fsync.
type File struct {
	mu     sync.Mutex
	path   string
	data   map[string]string
	closed bool
}

// OpenFile opens (creating if necessary) a file-backed store at path.
// An unreadable or malformed file is treated as empty; the first write
// replaces it.
func OpenFile(path string) (*File, error) {
	f := &File{path: path, data: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	// Malformed content is not fatal: the caller falls back to defaults
	// exactly as it would for an absent key.
	_ = json.Unmarshal(raw, &f.data)
	return f, nil
}

// Get returns the value for key, ok=false if absent.
func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", false, ErrClosed
	}
	v, ok := f.data[key]
	return v, ok, nil
}

// Set writes value under key and persists the whole map.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	f.data[key] = value
	return f.flush()
}

// Delete removes key and persists the whole map.
func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	if _, ok := f.data[key]; !ok {
		return nil
	}
	delete(f.data, key)
	return f.flush()
}

// Close marks the store closed. The file is already up to date.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *File) flush() error {
	raw, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	// SECURITY: settings may embed user font sources; owner-only perms.
	if err := util.AtomicWriteFile(f.path, raw, 0600); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	return nil
}
