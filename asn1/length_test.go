// Copyright 2026 The Warpboard Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"encoding/hex"
	"errors"
	"os"
	"testing"

	"gopkg.in/yaml.v3"
)

// lengthVector is one entry of testdata/lengths.yaml.
type lengthVector struct {
	Name   string `yaml:"name"`
	Octets string `yaml:"octets"`
	Pad    int    `yaml:"pad"`
	Length int    `yaml:"length"`
	Error  string `yaml:"error"`
}

var errorClasses = map[string]error{
	"truncated":        ErrTruncated,
	"tag-mismatch":     ErrTagMismatch,
	"length-too-large": ErrLengthTooLarge,
	"out-of-bounds":    ErrOutOfBounds,
}

// TestDecodeLength_Vectors runs the length decoder over the shared vector
// corpus. The vectors describe the length octets only; each is wrapped into
// an OCTET STRING element before decoding.
func TestDecodeLength_Vectors(t *testing.T) {
	data, err := os.ReadFile("testdata/lengths.yaml")
	if err != nil {
		t.Fatalf("cannot read vector corpus: %s", err)
	}
	var corpus struct {
		Vectors []lengthVector `yaml:"vectors"`
	}
	if err := yaml.Unmarshal(data, &corpus); err != nil {
		t.Fatalf("cannot parse vector corpus: %s", err)
	}
	if len(corpus.Vectors) == 0 {
		t.Fatal("vector corpus is empty")
	}

	for _, vec := range corpus.Vectors {
		t.Run(vec.Name, func(t *testing.T) {
			octets, err := hex.DecodeString(vec.Octets)
			if err != nil {
				t.Fatalf("invalid octets %q: %s", vec.Octets, err)
			}
			input := append([]byte{0x04}, octets...)
			input = append(input, make([]byte, vec.Pad)...)

			content, err := NewCursor(input).OctetString()
			if vec.Error != "" {
				want, ok := errorClasses[vec.Error]
				if !ok {
					t.Fatalf("unknown error class %q", vec.Error)
				}
				if !errors.Is(err, want) {
					t.Fatalf("c.OctetString() error = %v, want %v", err, want)
				}
				return
			}
			if err != nil {
				t.Fatalf("c.OctetString() returned an unexpected error: %s", err)
			}
			if len(content) != vec.Length {
				t.Errorf("decoded length = %d, want %d", len(content), vec.Length)
			}
		})
	}
}
