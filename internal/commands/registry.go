// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"github.com/jeranaias/fontweave/internal/settings"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/font")
	Name string

	// Aliases are alternative names (e.g., "/f")
	Aliases []string

	// Description is shown in help output
	Description string

	// Usage shows argument syntax (e.g., "/font-preset <name>")
	Usage string

	// Handler executes the command and returns user-facing output
	Handler func(ctx *Context, args []string) (string, error)

	// Hidden commands don't appear in help
	Hidden bool
}

// Context carries the dependencies handlers operate on.
type Context struct {
	Store *settings.Store

	// ExportDir is where export commands write their files.
	ExportDir string
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
	order    []string
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	if _, ok := r.commands[cmd.Name]; !ok {
		r.order = append(r.order, cmd.Name)
	}
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands in registration order.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.order))
	for _, name := range r.order {
		cmds = append(cmds, r.commands[name])
	}
	return cmds
}

func (r *Registry) registerBuiltins() {
	r.Register(&Command{
		Name:        "/font",
		Aliases:     []string{"/fw"},
		Description: "Show font styling status, or toggle it on/off",
		Usage:       "/font [on|off]",
		Handler:     handleFont,
	})

	r.Register(&Command{
		Name:        "/font-preset",
		Description: "Apply a preset by name, or list presets",
		Usage:       "/font-preset [name]",
		Handler:     handlePreset,
	})

	r.Register(&Command{
		Name:        "/font-list",
		Description: "List registered fonts",
		Handler:     handleList,
	})

	r.Register(&Command{
		Name:        "/font-export",
		Description: "Export the active preset, or everything",
		Usage:       "/font-export [all]",
		Handler:     handleExport,
	})

	r.Register(&Command{
		Name:        "/font-import",
		Description: "Import a settings document",
		Usage:       "/font-import <path>",
		Handler:     handleImport,
	})
}
