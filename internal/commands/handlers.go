// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/fontweave/internal/export"
	"github.com/jeranaias/fontweave/internal/util"
)

// Display cap for user-supplied names in list output.
const maxNameRunes = 48

func handleFont(ctx *Context, args []string) (string, error) {
	if len(args) == 0 {
		s := ctx.Store.Snapshot()
		state := "off"
		if s.Enabled {
			state = "on"
		}
		return fmt.Sprintf("font styling is %s, active preset: %s (%d fonts, %d presets)",
			state, ctx.Store.PresetName(s.CurrentPreset), len(s.Fonts), len(s.Presets)), nil
	}

	switch strings.ToLower(args[0]) {
	case "on":
		ctx.Store.SetEnabled(true)
		return "font styling enabled", nil
	case "off":
		ctx.Store.SetEnabled(false)
		return "font styling disabled", nil
	default:
		return "", fmt.Errorf("unknown argument %q, expected on or off", args[0])
	}
}

func handlePreset(ctx *Context, args []string) (string, error) {
	s := ctx.Store.Snapshot()
	if len(args) == 0 {
		var b strings.Builder
		b.WriteString("presets:\n")
		for _, p := range s.Presets {
			marker := "  "
			if p.ID == s.CurrentPreset {
				marker = "* "
			}
			fmt.Fprintf(&b, "%s%s\n", marker, util.TruncateRunes(p.Name, maxNameRunes))
		}
		return b.String(), nil
	}

	name := strings.Join(args, " ")
	p := s.PresetByName(name)
	if p == nil {
		return "", fmt.Errorf("no preset named %q", name)
	}
	if err := ctx.Store.ApplyPreset(p.ID); err != nil {
		return "", err
	}
	return fmt.Sprintf("applied preset %q", p.Name), nil
}

func handleList(ctx *Context, args []string) (string, error) {
	s := ctx.Store.Snapshot()
	if len(s.Fonts) == 0 {
		return "no fonts registered", nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d fonts:\n", len(s.Fonts))
	for _, f := range s.Fonts {
		fmt.Fprintf(&b, "  %s (%s)\n", util.TruncateRunes(f.Name, maxNameRunes), util.TruncateRunes(f.Family, maxNameRunes))
	}
	return b.String(), nil
}

func handleExport(ctx *Context, args []string) (string, error) {
	s := ctx.Store.Snapshot()
	now := time.Now()

	var env *export.Envelope
	var filename string
	if len(args) > 0 && strings.EqualFold(args[0], "all") {
		env = export.ExportAll(s, now)
		filename = export.AllFilename(now)
	} else {
		p := s.ActivePreset()
		if p == nil {
			return "", fmt.Errorf("no active preset to export")
		}
		var err error
		env, err = export.ExportPreset(s, p.ID, now)
		if err != nil {
			return "", err
		}
		filename = export.PresetFilename(p.Name, now)
	}

	path := filepath.Join(ctx.ExportDir, filename)
	if err := export.WriteFile(path, env); err != nil {
		return "", err
	}
	return fmt.Sprintf("exported to %s", path), nil
}

func handleImport(ctx *Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("usage: /font-import <path>")
	}
	env, err := export.ReadFile(strings.Join(args, " "))
	if err != nil {
		return "", err
	}
	stats := export.Import(ctx.Store, env)
	return fmt.Sprintf("imported %d fonts, %d presets, %d theme rules (%d/%d/%d skipped as duplicates)",
		stats.FontsAdded, stats.PresetsAdded, stats.ThemeRulesAdded,
		stats.FontsSkipped, stats.PresetsSkipped, stats.ThemeRulesSkipped), nil
}
