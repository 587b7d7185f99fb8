// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides shared helpers for fontweave.
//
// It contains the atomic file writer used by the persistence and export
// layers, and small string helpers for user-facing names and filenames.
package util
