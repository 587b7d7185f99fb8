// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package annotate

import (
	"fmt"
	"hash/fnv"

	"github.com/PuerkitoBio/goquery"
)

// DOM attributes owned by the pipeline.
const (
	// AttrDigest marks a message element as processed. Its value digests
	// the source text and the active rule set, so either changing flips
	// the element back to stale.
	AttrDigest = "data-fontweave-done"

	// AttrTag marks an annotation span wrapped around matched tag content.
	AttrTag = "data-fontweave-tag"
)

// State is the per-element processing state, derived fresh each pass.
type State int

const (
	StateUnprocessed State = iota
	StateProcessed
	StateStale
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateUnprocessed:
		return "unprocessed"
	case StateProcessed:
		return "processed"
	case StateStale:
		return "stale"
	case StateEditing:
		return "editing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// elementState classifies a message element against the expected digest.
func elementState(sel *goquery.Selection, digest string) State {
	if isEditing(sel) {
		return StateEditing
	}
	got, ok := sel.Attr(AttrDigest)
	if !ok {
		return StateUnprocessed
	}
	if got != digest {
		return StateStale
	}
	return StateProcessed
}

// isEditing reports whether a user-edit control lives inside the element.
// Rewriting such an element would destroy cursor position and input state.
func isEditing(sel *goquery.Selection) bool {
	return sel.Find("input, textarea, [contenteditable]").Length() > 0
}

// digest fingerprints source text plus the rule set. Not cryptographic;
// collisions only cost a redundant rescan or a missed one until the next
// rule edit.
func digest(sourceText, ruleFingerprint string) string {
	h := fnv.New64a()
	h.Write([]byte(sourceText))
	h.Write([]byte{0})
	h.Write([]byte(ruleFingerprint))
	return fmt.Sprintf("%016x", h.Sum64())
}
