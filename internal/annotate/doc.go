// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package annotate applies custom tag font rules to rendered chat messages.
//
// This is DOM synchronization, not a pure transform: the host re-renders
// message nodes on its own schedule (streaming updates, translation
// overlays), so every pass re-derives each element's state instead of
// trusting a previous pass. An element is processed when it carries a digest
// attribute matching its current source text and rule set, stale when the
// digest mismatches, and untouchable while a user is editing inside it.
//
// Tag rules target the message SOURCE text, not the rendered HTML: the host
// strips unknown inline tags like <q>...</q> during render, so matches are
// found in the source and re-applied to the element as annotated spans.
//
// Watcher turns bursty mutation notifications into single debounced passes
// and is paused while the pipeline itself writes, so the pipeline's own DOM
// writes never schedule another pass.
package annotate
