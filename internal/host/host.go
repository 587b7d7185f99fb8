// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package host

// =============================================================================
// CHAT DATA
// =============================================================================

// Message is one entry of the host's chat data array.
type Message struct {
	// Text is the raw message source text.
	Text string

	// DisplayText carries translated/overridden display text when the host
	// set one. Empty means "use Text".
	DisplayText string
}

// SourceText returns the canonical text for annotation: the display text
// when the host provided one, the raw text otherwise.
func (m Message) SourceText() string {
	if m.DisplayText != "" {
		return m.DisplayText
	}
	return m.Text
}

// ChatSource is the host's read-only message array. Messages are addressed
// by index, matching the numeric message-index attribute on rendered message
// elements. A nil slice means the chat data is not available yet.
type ChatSource interface {
	Messages() []Message
}

// =============================================================================
// STYLE INJECTION
// =============================================================================

// StyleSink receives generated stylesheets. The host is expected to inject
// main as one style element and markdown as a second element appended after
// it (and re-appended to the end of head on every call, so markdown rules win
// source-order ties against the main sheet).
type StyleSink interface {
	Apply(main, markdown string)
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

// Mutation is one chat-DOM change notification from the host.
type Mutation struct {
	// ForceRefresh requests a full re-annotation pass, ignoring
	// processed markers (set when rules or fonts changed, not just the DOM).
	ForceRefresh bool
}
