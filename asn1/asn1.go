// Copyright 2026 The Warpboard Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asn1 implements a minimal decoder for the subset of BER/DER (see
// [Rec. ITU-T X.690]) needed to walk signed metadata blobs: context-specific
// constructed elements, SEQUENCE, SET, OBJECT IDENTIFIER and OCTET STRING.
// It is not a general ASN.1 decoder. There is no encoding path, no support
// for the indefinite-length format and no interpretation of decoded content
// octets; callers compare OID contents as raw bytes.
//
// All decoding happens on a [Cursor], a bounded read-only view into a
// caller-owned byte slice. Descending into a constructed element produces a
// new Cursor scoped to exactly that element's content octets. Cursors are
// cheap values; copying one is the way to branch a parse. The package holds
// no global state, so independent Cursors may be used concurrently as long
// as the backing slice is not mutated.
//
// Every operation validates the declared element length against the bytes
// that actually remain in its region before exposing any content. Malformed
// or truncated input makes the affected operation return an error; it never
// causes a read outside the backing slice.
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
package asn1

import (
	"math"
	"math/bits"
)

// Identifier octets matched by the typed get-operations. The SEQUENCE and SET
// values include the constructed bit; matching masks off the top bit of the
// input octet, so the context-specific forms of these tags are accepted too.
const (
	tagOctetString byte = 0x04
	tagOID         byte = 0x06
	tagSequence    byte = 0x30
	tagSet         byte = 0x31
)

// maxLengthOctets is the maximum number of long-form length octets that can
// be accumulated into an untruncated native word.
const maxLengthOctets = bits.UintSize / 8

// Cursor is a bounded view into a byte slice holding BER/DER encoded data.
// The zero Cursor is empty and every operation on it fails with
// [ErrTruncated].
//
// A Cursor never owns the bytes it reads. The backing slice must stay alive
// and unmodified for as long as the Cursor, any Cursor derived from it, and
// any byte slice returned by [Cursor.OID] or [Cursor.OctetString] are in use.
type Cursor struct {
	rest []byte // unread remainder of this cursor's region
	off  int64  // absolute offset of rest[0] within the root slice
	num  uint8  // tag number, set by ConstructedGet on its children
}

// NewCursor returns a Cursor over buf. The caller keeps ownership of buf.
func NewCursor(buf []byte) Cursor {
	return Cursor{rest: buf}
}

// Len returns the number of unread bytes in the cursor's region.
func (c Cursor) Len() int { return len(c.rest) }

// Offset returns the absolute offset of the cursor's read position within
// the slice the root Cursor was created over.
func (c Cursor) Offset() int64 { return c.off }

// ContextType returns the tag number of the context-specific element this
// cursor was produced from, e.g. 0 for a cursor produced from an [0]
// element. It is only meaningful on cursors returned by
// [Cursor.ConstructedGet] and is zero otherwise.
func (c Cursor) ContextType() uint8 { return c.num }

// readByte consumes the next byte of the region.
func (c *Cursor) readByte() (byte, error) {
	if len(c.rest) == 0 {
		return 0, ErrTruncated
	}
	b := c.rest[0]
	c.rest = c.rest[1:]
	c.off++
	return b, nil
}

// decodeLength decodes definite-length octets at the current position and
// consumes them. The short form yields the low 7 bits of a single octet. In
// the long form the low 7 bits give the number of subsequent big-endian
// length octets; a count that could not be accumulated into an int, or an
// accumulated value that would overflow one, is rejected rather than
// wrapped. The indefinite-length marker 0x80 decodes as length 0, which is
// how the long form with zero follow-up octets reads.
func (c *Cursor) decodeLength() (int, error) {
	b, err := c.readByte()
	if err != nil {
		return 0, err
	}
	if b&0x80 == 0 {
		// The length is encoded in the bottom 7 bits.
		return int(b & 0x7f), nil
	}
	// Bottom 7 bits give the number of length bytes to follow.
	n := int(b & 0x7f)
	if n >= maxLengthOctets {
		return 0, ErrLengthTooLarge
	}
	length := 0
	for ; n > 0; n-- {
		if b, err = c.readByte(); err != nil {
			return 0, err
		}
		if length > math.MaxInt>>8 {
			// We can't shift length up without overflowing.
			return 0, ErrLengthTooLarge
		}
		length = length<<8 | int(b)
	}
	return length, nil
}

// get decodes one tag-length header whose identifier octet satisfies match
// and returns the identifier octet together with a cursor scoped to the
// element's content octets. c is a copy, so the caller's cursor does not
// move.
func (c Cursor) get(match func(byte) bool) (byte, Cursor, error) {
	start := c.off
	tag, err := c.readByte()
	if err != nil {
		return 0, Cursor{}, &SyntaxError{ByteOffset: start, Err: err}
	}
	if !match(tag) {
		return 0, Cursor{}, &SyntaxError{ByteOffset: start, Err: ErrTagMismatch}
	}
	length, err := c.decodeLength()
	if err != nil {
		return 0, Cursor{}, &SyntaxError{ByteOffset: start, Err: err}
	}
	// len(c.rest) is the number of bytes left in this region, so the
	// comparison cannot wrap no matter what length was decoded.
	if length > len(c.rest) {
		return 0, Cursor{}, &SyntaxError{ByteOffset: start, Err: ErrOutOfBounds}
	}
	return tag, Cursor{rest: c.rest[:length:length], off: c.off}, nil
}

// ConstructedGet reads a context-specific constructed element (identifier
// octet 0xA0 through 0xBF) at the current position and returns a cursor
// scoped to its content octets. The returned cursor reports the element's
// tag number via [Cursor.ContextType], e.g. 0xA3 yields 3.
//
// c itself does not move. To step past the element use [Cursor.Next].
func (c Cursor) ConstructedGet() (Cursor, error) {
	tag, child, err := c.get(func(b byte) bool { return b&0xe0 == 0xa0 })
	if err != nil {
		return Cursor{}, err
	}
	child.num = tag & 0x1f
	return child, nil
}

// SequenceGet reads a SEQUENCE at the current position and returns a cursor
// scoped to its content octets. The top bit of the identifier octet is
// ignored, so 0x30 and 0xB0 both match. c itself does not move.
func (c Cursor) SequenceGet() (Cursor, error) {
	_, child, err := c.get(func(b byte) bool { return b&0x7f == tagSequence })
	return child, err
}

// SetGet reads a SET at the current position and returns a cursor scoped to
// its content octets. The top bit of the identifier octet is ignored, so
// 0x31 and 0xB1 both match. c itself does not move.
func (c Cursor) SetGet() (Cursor, error) {
	_, child, err := c.get(func(b byte) bool { return b&0x7f == tagSet })
	return child, err
}

// OID reads an OBJECT IDENTIFIER (identifier octet exactly 0x06) at the
// current position and returns its content octets as a sub-slice of the
// backing buffer, without copying or interpreting them. c itself does not
// move.
func (c Cursor) OID() ([]byte, error) {
	_, child, err := c.get(func(b byte) bool { return b == tagOID })
	if err != nil {
		return nil, err
	}
	return child.rest, nil
}

// OctetString reads an OCTET STRING (identifier octet exactly 0x04) at the
// current position and returns its content octets as a sub-slice of the
// backing buffer, without copying. c itself does not move.
func (c Cursor) OctetString() ([]byte, error) {
	_, child, err := c.get(func(b byte) bool { return b == tagOctetString })
	if err != nil {
		return nil, err
	}
	return child.rest, nil
}

// Next advances c past one complete element, header and content, leaving it
// positioned at the start of the following sibling. The identifier octet is
// not validated, so Next can enumerate the elements of a SEQUENCE or SET
// without knowing their types.
//
// This is the only operation that moves a cursor. If the element is
// truncated, its length malformed, or its content would overrun the region,
// c is emptied so that every subsequent operation fails with [ErrTruncated],
// and the error is returned.
func (c *Cursor) Next() error {
	start := c.off
	fail := func(err error) error {
		c.rest = nil
		return &SyntaxError{ByteOffset: start, Err: err}
	}
	if _, err := c.readByte(); err != nil {
		return fail(err)
	}
	length, err := c.decodeLength()
	if err != nil {
		return fail(err)
	}
	if length > len(c.rest) {
		return fail(ErrOutOfBounds)
	}
	c.rest = c.rest[length:]
	c.off += int64(length)
	return nil
}
