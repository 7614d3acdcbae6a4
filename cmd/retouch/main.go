// Copyright 2026 The Warpboard Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command retouch replays relocation lists against a set of prelinked
// libraries, shifting their load addresses by a common offset. The set of
// libraries is read from a TOML manifest:
//
//	offset = 4096
//
//	[[library]]
//	path = "/system/lib/libfoo.so"
//	list = "/system/lib/retouch/libfoo.so.list"
package main

import (
	"errors"
	"flag"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/warpboard/platform-bootable-recovery/retouch"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to the retouch manifest")
		offset     = flag.Int("offset", 0, "randomization offset, overrides the manifest")
		dryRun     = flag.Bool("dry-run", false, "decode the lists but do not write")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*verbose {
		log = log.Level(zerolog.InfoLevel)
	}

	if *configPath == "" {
		log.Fatal().Msg("missing -config")
	}
	m, err := loadManifest(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load manifest")
	}

	delta := m.Offset
	if isFlagSet("offset") {
		delta = int32(*offset)
	}
	log.Debug().Int32("offset", delta).Int("libraries", len(m.Libraries)).Msg("manifest loaded")

	failed := 0
	for _, lib := range m.Libraries {
		if err := retouchOne(lib, delta, *dryRun); err != nil {
			log.Error().Err(err).Str("library", lib.Path).Msg("retouch failed")
			failed++
			continue
		}
		log.Info().Str("library", lib.Path).Int32("offset", delta).Msg("retouched")
	}
	if failed > 0 {
		log.Error().Int("failed", failed).Msg("some libraries were not retouched")
		os.Exit(1)
	}
}

func retouchOne(lib libraryEntry, delta int32, dryRun bool) error {
	list, err := os.Open(lib.List)
	if err != nil {
		return err
	}
	defer list.Close()

	if dryRun {
		d := retouch.NewDecoder(list)
		for {
			if _, err := d.Next(); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
		}
	}

	target, err := os.OpenFile(lib.Path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer target.Close()
	return retouch.Apply(target, list, delta)
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
