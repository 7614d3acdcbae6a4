// Copyright 2026 The Warpboard Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "retouch.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
offset = 4096

[[library]]
path = "/system/lib/libfoo.so"
list = "/system/lib/retouch/libfoo.so.list"

[[library]]
path = "/system/lib/libbar.so"
list = "/system/lib/retouch/libbar.so.list"
`)
	m, err := loadManifest(path)
	if err != nil {
		t.Fatalf("loadManifest() returned an unexpected error: %s", err)
	}
	if m.Offset != 4096 {
		t.Errorf("m.Offset = %d, want 4096", m.Offset)
	}
	if len(m.Libraries) != 2 {
		t.Fatalf("len(m.Libraries) = %d, want 2", len(m.Libraries))
	}
	if m.Libraries[1].Path != "/system/lib/libbar.so" {
		t.Errorf("m.Libraries[1].Path = %q", m.Libraries[1].Path)
	}
}

func TestLoadManifest_Invalid(t *testing.T) {
	tests := map[string]string{
		"NoLibraries": `offset = 4096`,
		"MissingPath": `[[library]]
list = "some.list"`,
		"MissingList": `[[library]]
path = "/system/lib/libfoo.so"`,
		"BadSyntax": `offset = `,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := loadManifest(writeManifest(t, content)); err == nil {
				t.Error("loadManifest() succeeded, wanted an error")
			}
		})
	}
}
