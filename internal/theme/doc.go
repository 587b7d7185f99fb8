// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package theme switches the active preset when the host announces a theme
// change. The host's theme notification mechanism is deliberately outside
// this package: the resolver consumes plain theme names from a channel and
// knows nothing about where they came from.
package theme
