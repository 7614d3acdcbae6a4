// Copyright 2026 The Warpboard Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// manifest lists the libraries to retouch and the randomization offset to
// apply. Each library entry names the library file and its relocation list.
type manifest struct {
	Offset    int32          `toml:"offset"`
	Libraries []libraryEntry `toml:"library"`
}

type libraryEntry struct {
	Path string `toml:"path"`
	List string `toml:"list"`
}

func loadManifest(path string) (manifest, error) {
	var m manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return manifest{}, fmt.Errorf("load manifest: %w", err)
	}
	if !meta.IsDefined("library") {
		return manifest{}, fmt.Errorf("load manifest: no [[library]] entries in %s", path)
	}
	for i, lib := range m.Libraries {
		if strings.TrimSpace(lib.Path) == "" {
			return manifest{}, fmt.Errorf("load manifest: library %d has no path", i)
		}
		if strings.TrimSpace(lib.List) == "" {
			return manifest{}, fmt.Errorf("load manifest: library %q has no relocation list", lib.Path)
		}
	}
	return m, nil
}
