// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"path/filepath"
	"testing"
)

// openFuncs lets every KV contract test run against both backends.
var openFuncs = map[string]func(t *testing.T) KV{
	"sqlite": func(t *testing.T) KV {
		kv, err := OpenSQLite(filepath.Join(t.TempDir(), "fontweave.db"))
		if err != nil {
			t.Fatalf("OpenSQLite failed: %v", err)
		}
		return kv
	},
	"file": func(t *testing.T) KV {
		kv, err := OpenFile(filepath.Join(t.TempDir(), "fontweave.json"))
		if err != nil {
			t.Fatalf("OpenFile failed: %v", err)
		}
		return kv
	},
}

func TestKV_GetSetDelete(t *testing.T) {
	for name, open := range openFuncs {
		t.Run(name, func(t *testing.T) {
			kv := open(t)
			defer kv.Close()

			// Absent key: ok=false, no error
			_, ok, err := kv.Get("missing")
			if err != nil {
				t.Fatalf("Get(missing) error: %v", err)
			}
			if ok {
				t.Error("Get(missing) reported ok")
			}

			if err := kv.Set("settings", `{"enabled":true}`); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			v, ok, err := kv.Get("settings")
			if err != nil || !ok {
				t.Fatalf("Get after Set: ok=%v err=%v", ok, err)
			}
			if v != `{"enabled":true}` {
				t.Errorf("unexpected value: %q", v)
			}

			// Replace
			if err := kv.Set("settings", `{"enabled":false}`); err != nil {
				t.Fatalf("replace failed: %v", err)
			}
			v, _, _ = kv.Get("settings")
			if v != `{"enabled":false}` {
				t.Errorf("replace kept stale value: %q", v)
			}

			// Delete, twice (second is a no-op)
			if err := kv.Delete("settings"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if err := kv.Delete("settings"); err != nil {
				t.Fatalf("second Delete failed: %v", err)
			}
			_, ok, _ = kv.Get("settings")
			if ok {
				t.Error("key present after delete")
			}
		})
	}
}

func TestKV_ClosedErrors(t *testing.T) {
	for name, open := range openFuncs {
		t.Run(name, func(t *testing.T) {
			kv := open(t)
			if err := kv.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}
			if err := kv.Set("k", "v"); err != ErrClosed {
				t.Errorf("Set after Close: got %v, want ErrClosed", err)
			}
		})
	}
}

func TestFile_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fontweave.json")

	kv, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := kv.Set("legacy", "1"); err != nil {
		t.Fatal(err)
	}
	kv.Close()

	reopened, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	v, ok, _ := reopened.Get("legacy")
	if !ok || v != "1" {
		t.Errorf("reopen lost data: ok=%v v=%q", ok, v)
	}
}
