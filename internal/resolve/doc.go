// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package resolve computes the effective font and sizing values from the
// layered configuration: session overrides take priority over the active
// preset, which takes priority over the global fallback slots, which take
// priority over the built-in defaults.
//
// A session override can also be an explicit "use the default" choice, which
// is distinct from "no override": an explicit default wins over every layer
// below it and renders as a forced reset rather than an inherited value.
//
// Session tracks uncommitted override state while a settings panel is open.
// Commit folds the resolved values back into the preset; Cancel discards
// them. Either way the override layer is emptied.
package resolve
