// Copyright 2026 The Warpboard Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package minui

import "testing"

func TestPixelFormat(t *testing.T) {
	tests := []struct {
		format PixelFormat
		name   string
		size   int
	}{
		{RGB565, "RGB565", 2},
		{RGBX8888, "RGBX8888", 4},
		{BGRA8888, "BGRA8888", 4},
	}
	for _, tc := range tests {
		if got := tc.format.String(); got != tc.name {
			t.Errorf("PixelFormat(%d).String() = %q, want %q", tc.format, got, tc.name)
		}
		if got := tc.format.Size(); got != tc.size {
			t.Errorf("%s.Size() = %d, want %d", tc.name, got, tc.size)
		}
	}
	if got := PixelFormat(7).String(); got != "PixelFormat(7)" {
		t.Errorf("PixelFormat(7).String() = %q, want %q", got, "PixelFormat(7)")
	}
}
