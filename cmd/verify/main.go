// Copyright 2026 The Warpboard Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command verify inspects a PKCS#7 SignedData blob, such as the signature
// block of an update package, and reports the digest algorithm and signature
// it carries. It exits non-zero if the blob cannot be parsed.
package main

import (
	"encoding/hex"
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/warpboard/platform-bootable-recovery/verifier"
)

func main() {
	hexDump := flag.Bool("hex", false, "dump the signature bytes as hex")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if flag.NArg() != 1 {
		log.Fatal().Msg("usage: verify [-hex] <blob>")
	}
	blob, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("cannot read blob")
	}

	sd, err := verifier.ParseSignedData(blob)
	if err != nil {
		log.Fatal().Err(err).Msg("malformed signature blob")
	}

	log.Info().
		Stringer("digest", sd.DigestAlgorithm).
		Str("digest_oid", hex.EncodeToString(sd.DigestOID)).
		Int("signature_bytes", len(sd.Signature)).
		Msg("signature block parsed")
	if *hexDump {
		os.Stdout.WriteString(hex.EncodeToString(sd.Signature) + "\n")
	}
}
