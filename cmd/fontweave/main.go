// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command fontweave is a small console harness around the styling core:
// it runs slash commands against a local settings database and can dump
// the generated stylesheets. The real host embeds the library directly;
// this binary exists for inspecting and scripting a settings store.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/fontweave"
	"github.com/jeranaias/fontweave/internal/commands"
	"github.com/jeranaias/fontweave/internal/storage"
)

func main() {
	var (
		dbPath    = flag.String("db", defaultDBPath(), "settings database path (.db/.sqlite for SQLite, anything else is a JSON file)")
		exportDir = flag.String("export-dir", ".", "directory export commands write to")
		dumpCSS   = flag.Bool("css", false, "print the generated stylesheets and exit")
	)
	flag.Parse()

	if dir := filepath.Dir(*dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("create %s: %v", dir, err)
		}
	}
	kv, err := openKV(*dbPath)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}

	sink := &stdoutSink{quiet: !*dumpCSS}
	mgr, err := fontweave.New(fontweave.Config{
		Storage:   kv,
		Sink:      sink,
		ExportDir: *exportDir,
	})
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer mgr.Close()

	if *dumpCSS {
		sink.quiet = false
		mgr.Refresh()
		return
	}

	input := strings.Join(flag.Args(), " ")
	if input == "" {
		input = "/font"
	}
	if !strings.HasPrefix(input, "/") {
		input = "/" + input
	}

	parser := commands.NewParser(mgr.Commands())
	res := parser.Parse(input)
	if res.Command == nil {
		fmt.Fprintf(os.Stderr, "unknown command %q, available:\n", res.CommandName)
		for _, cmd := range mgr.Commands().All() {
			fmt.Fprintf(os.Stderr, "  %-16s %s\n", cmd.Name, cmd.Description)
		}
		os.Exit(1)
	}

	out, err := res.Command.Handler(mgr.CommandContext(), res.Args)
	if err != nil {
		log.Fatalf("%s: %v", res.Command.Name, err)
	}
	fmt.Println(strings.TrimSpace(out))
}

// openKV picks the backend by extension. SQLite is the default for hosts
// with a real filesystem; the JSON file backend covers everything else.
func openKV(path string) (storage.KV, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return storage.OpenSQLite(path)
	default:
		return storage.OpenFile(path)
	}
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "fontweave.db"
	}
	return filepath.Join(dir, "fontweave", "fontweave.db")
}

// stdoutSink prints the sheets the manager applies.
type stdoutSink struct {
	quiet bool
}

func (s *stdoutSink) Apply(main, markdown string) {
	if s.quiet {
		return
	}
	fmt.Println("/* === main sheet === */")
	fmt.Println(main)
	if markdown != "" {
		fmt.Println("/* === markdown sheet === */")
		fmt.Println(markdown)
	}
}
