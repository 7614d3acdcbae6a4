// Copyright 2026 The Warpboard Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"errors"
	"strconv"
)

// These errors classify the ways a decode operation can fail. They are
// returned wrapped in a [SyntaxError] and can be matched with [errors.Is].
var (
	// ErrTruncated indicates that fewer bytes remain in the region than an
	// identifier octet, the length octets, or the declared content require.
	ErrTruncated = errors.New("truncated data value")

	// ErrTagMismatch indicates that the identifier octet at the current
	// position does not match the tag required by the operation.
	ErrTagMismatch = errors.New("unexpected tag")

	// ErrLengthTooLarge indicates a long-form length whose octet count or
	// accumulated value cannot be represented without overflow.
	ErrLengthTooLarge = errors.New("length too large")

	// ErrOutOfBounds indicates a well-formed length whose content octets
	// would extend past the end of the cursor's region.
	ErrOutOfBounds = errors.New("data value exceeds region")
)

// SyntaxError reports malformed input. The error value contains the absolute
// offset of the element whose encoding is invalid, relative to the slice the
// root [Cursor] was created over.
type SyntaxError struct {
	Err error // one of the sentinel errors above

	// ByteOffset is the location of the error, usually the first identifier
	// octet of the element containing the malformed encoding.
	ByteOffset int64
}

func (e *SyntaxError) Unwrap() error { return e.Err }

func (e *SyntaxError) Error() string {
	b := []byte("asn1: syntax error")
	if e.ByteOffset > 0 {
		b = strconv.AppendInt(append(b, " at offset "...), e.ByteOffset, 10)
	}
	if e.Err != nil {
		b = append(b, ": "...)
		b = append(b, e.Err.Error()...)
	}
	return string(b)
}
