// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package host defines the interfaces between fontweave and the chat
// application it runs inside.
//
// The host owns the rendered chat DOM, the message data array and the theme
// machinery; fontweave only consumes them. Everything here is deliberately
// narrow: a read-only message source, a sink for the generated stylesheets,
// and plain channels for mutation and theme-change notifications.
package host
