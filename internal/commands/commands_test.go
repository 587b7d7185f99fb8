// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeranaias/fontweave/internal/settings"
)

type memKV struct{ data map[string]string }

func newMemKV() *memKV                              { return &memKV{data: map[string]string{}} }
func (m *memKV) Get(k string) (string, bool, error) { v, ok := m.data[k]; return v, ok, nil }
func (m *memKV) Set(k, v string) error              { m.data[k] = v; return nil }
func (m *memKV) Delete(k string) error              { delete(m.data, k); return nil }
func (m *memKV) Close() error                       { return nil }

func testContext(t *testing.T) *Context {
	t.Helper()
	return &Context{
		Store:     settings.NewStore(newMemKV()),
		ExportDir: t.TempDir(),
	}
}

func TestParserRecognizesCommands(t *testing.T) {
	p := NewParser(NewRegistry())

	res := p.Parse("/font on")
	if !res.IsCommand || res.Command == nil {
		t.Fatalf("parse /font on: %+v", res)
	}
	if res.Command.Name != "/font" || len(res.Args) != 1 || res.Args[0] != "on" {
		t.Errorf("parsed = %q %v", res.Command.Name, res.Args)
	}

	res = p.Parse("/fw")
	if res.Command == nil || res.Command.Name != "/font" {
		t.Error("alias /fw did not resolve")
	}

	res = p.Parse("plain text")
	if res.IsCommand {
		t.Error("plain text treated as command")
	}

	res = p.Parse("/nonsense")
	if !res.IsCommand || res.Command != nil {
		t.Errorf("unknown command: %+v", res)
	}
}

func TestParserQuotedArgs(t *testing.T) {
	p := NewParser(NewRegistry())
	res := p.Parse(`/font-preset "my cozy preset"`)
	if len(res.Args) != 1 || res.Args[0] != "my cozy preset" {
		t.Errorf("args = %v", res.Args)
	}
}

func TestFontToggle(t *testing.T) {
	ctx := testContext(t)

	out, err := ctx.run(t, "/font on")
	if err != nil || !strings.Contains(out, "enabled") {
		t.Fatalf("on: %q, %v", out, err)
	}
	if !ctx.Store.Enabled() {
		t.Error("store not enabled")
	}

	out, err = ctx.run(t, "/font")
	if err != nil || !strings.Contains(out, "on") {
		t.Errorf("status: %q, %v", out, err)
	}

	if _, err := ctx.run(t, "/font maybe"); err == nil {
		t.Error("bad argument accepted")
	}
}

func TestPresetApplyByName(t *testing.T) {
	ctx := testContext(t)
	id, err := ctx.Store.AddPreset("cozy")
	if err != nil {
		t.Fatal(err)
	}

	out, err := ctx.run(t, `/font-preset cozy`)
	if err != nil || !strings.Contains(out, "cozy") {
		t.Fatalf("apply: %q, %v", out, err)
	}
	if got := ctx.Store.Snapshot().CurrentPreset; got != id {
		t.Errorf("CurrentPreset = %q, want %q", got, id)
	}

	if _, err := ctx.run(t, "/font-preset nope"); err == nil {
		t.Error("missing preset accepted")
	}
}

func TestPresetListClipsLongNames(t *testing.T) {
	ctx := testContext(t)
	long := strings.TrimSpace(strings.Repeat("cozy reading nook ", 5))
	if _, err := ctx.Store.AddPreset(long); err != nil {
		t.Fatal(err)
	}

	out, err := ctx.run(t, "/font-preset")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.Contains(out, long) {
		t.Error("long preset name not clipped in list output")
	}
	if !strings.Contains(out, "...") {
		t.Errorf("no ellipsis in list output:\n%s", out)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := testContext(t)
	ctx.Store.AddPreset("travelling")

	out, err := ctx.run(t, "/font-export all")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	path := strings.TrimPrefix(strings.TrimSpace(out), "exported to ")
	if filepath.Ext(path) != ".json" {
		t.Fatalf("unexpected export path %q", path)
	}

	other := testContext(t)
	out, err = other.run(t, "/font-import "+path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if other.Store.Snapshot().PresetByName("travelling") == nil {
		t.Errorf("imported preset missing: %s", out)
	}
}

func (ctx *Context) run(t *testing.T, input string) (string, error) {
	t.Helper()
	res := NewParser(NewRegistry()).Parse(input)
	if res.Command == nil {
		t.Fatalf("no command for %q", input)
	}
	return res.Command.Handler(ctx, res.Args)
}
