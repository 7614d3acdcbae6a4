// Copyright 2026 The Warpboard Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package retouch undoes address randomization of prelinked libraries by
// replaying a delta-compressed relocation list against the library file.
//
// A relocation list is a stream of records, each naming a byte offset in the
// library and the 32-bit word originally stored there. The stream encodes
// most records as deltas against the previous record to save space; see
// [Decoder] for the wire format. Applying a list rewrites every named word
// with the original value shifted by the chosen randomization offset, and
// updates the prelink footer at the end of the file accordingly.
package retouch

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"os"
)

var (
	// ErrTruncated indicates that a relocation stream ended in the middle of
	// a record.
	ErrTruncated = errors.New("retouch: truncated relocation stream")

	// ErrNotPrelinked indicates that a library carries no prelink footer and
	// therefore needs no retouching.
	ErrNotPrelinked = errors.New("retouch: library is not prelinked")
)

// prelinkMarker is the offset value that marks a record as addressing the
// prelink footer rather than a file location.
const prelinkMarker = 0x3fffffff

// Record is one entry of a relocation list: the 32-bit word Value was
// originally stored at byte offset Offset in the library.
type Record struct {
	Offset int32
	Value  uint32
}

// Prelink reports whether r addresses the prelink footer instead of a file
// location. For such records Value holds the original mmap address.
func (r Record) Prelink() bool { return r.Offset == -1 }

// Decoder reads a delta-compressed relocation stream.
//
// The first byte of a record selects its form. If its top bit is set the
// record is 2 bytes: two bits of word-granular offset delta and a 13-bit
// sign-extended value delta. If bit 6 is set the record is 3 bytes: two bits
// of offset delta and a 20-bit sign-extended value delta. Otherwise the
// record is 8 bytes holding an absolute big-endian offset and value; the
// offset 0x3fffffff marks the prelink footer record. Deltas accumulate
// against the previously decoded record starting from zero.
type Decoder struct {
	br   io.ByteReader
	offs int32
	cont uint32
}

// NewDecoder returns a Decoder reading from r. If r does not implement
// [io.ByteReader] the Decoder does its own buffering.
func NewDecoder(r io.Reader) *Decoder {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Decoder{br: br}
}

// Next decodes the next record from the stream. At a clean end of the stream
// Next returns [io.EOF]; a stream ending mid-record yields [ErrTruncated].
func (d *Decoder) Next() (Record, error) {
	b0, err := d.br.ReadByte()
	if err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		return Record{}, err
	}

	var size int
	switch {
	case b0&0x80 != 0:
		size = 2
	case b0&0x40 != 0:
		size = 3
	default:
		size = 8
	}
	var in [8]byte
	in[0] = b0
	for i := 1; i < size; i++ {
		if in[i], err = d.br.ReadByte(); err != nil {
			if err == io.EOF {
				return Record{}, ErrTruncated
			}
			return Record{}, err
		}
	}

	var rec Record
	switch size {
	case 2:
		rec.Offset = d.offs + (int32(in[0]&0x60)>>5+1)*4
		delta := int32(in[0]&0x1f)<<8 | int32(in[1])
		// 1-pad to restore the sign before applying the delta
		if delta&0x1000 != 0 {
			delta |= ^int32(0x1fff)
		}
		rec.Value = d.cont + uint32(delta)
	case 3:
		rec.Offset = d.offs + (int32(in[0]&0x30)>>4+1)*4
		delta := int32(in[0]&0x0f)<<16 | int32(in[1])<<8 | int32(in[2])
		if delta&0x80000 != 0 {
			delta |= ^int32(0xfffff)
		}
		rec.Value = d.cont + uint32(delta)
	default:
		rec.Offset = int32(binary.BigEndian.Uint32(in[0:4]))
		if rec.Offset == prelinkMarker {
			rec.Offset = -1
		}
		rec.Value = binary.BigEndian.Uint32(in[4:8])
	}

	d.offs = rec.Offset
	d.cont = rec.Value
	return rec, nil
}

// footerSize is the byte size of the prelink footer at the end of a
// prelinked library: a little-endian int32 mmap address and the tag "PRE ".
const footerSize = 8

var footerTag = [4]byte{'P', 'R', 'E', ' '}

// Footer is the prelink footer of a library.
type Footer struct {
	MmapAddr int32
}

// ReadFooter reads the prelink footer of a file of the given size. If the
// file is too small or does not end in the footer tag, [ErrNotPrelinked] is
// returned.
func ReadFooter(r io.ReaderAt, size int64) (Footer, error) {
	if size < footerSize {
		return Footer{}, ErrNotPrelinked
	}
	var buf [footerSize]byte
	if _, err := r.ReadAt(buf[:], size-footerSize); err != nil {
		return Footer{}, err
	}
	if [4]byte(buf[4:8]) != footerTag {
		return Footer{}, ErrNotPrelinked
	}
	return Footer{MmapAddr: int32(binary.LittleEndian.Uint32(buf[0:4]))}, nil
}

// WriteFooter rewrites the prelink footer of a file of the given size.
func WriteFooter(w io.WriterAt, size int64, f Footer) error {
	if size < footerSize {
		return ErrNotPrelinked
	}
	var buf [footerSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(f.MmapAddr))
	copy(buf[4:8], footerTag[:])
	_, err := w.WriteAt(buf[:], size-footerSize)
	return err
}

// Apply replays the relocation list read from list against target, shifting
// every recorded value by delta. A target without a prelink footer needs no
// retouching and Apply returns nil without reading the list.
func Apply(target *os.File, list io.Reader, delta int32) error {
	info, err := target.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if _, err := ReadFooter(target, size); err != nil {
		if errors.Is(err, ErrNotPrelinked) {
			return nil
		}
		return err
	}

	d := NewDecoder(list)
	for {
		rec, err := d.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if rec.Prelink() {
			if err := WriteFooter(target, size, Footer{MmapAddr: int32(rec.Value + uint32(delta))}); err != nil {
				return err
			}
			continue
		}
		var word [4]byte
		binary.LittleEndian.PutUint32(word[:], rec.Value+uint32(delta))
		if _, err := target.WriteAt(word[:], int64(rec.Offset)); err != nil {
			return err
		}
	}
}
