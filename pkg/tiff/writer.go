package tiff

import (
	"fmt"
	"io"

	"github.com/bruceg/dngutils/pkg/byteorder"
	"github.com/bruceg/dngutils/pkg/tiff/tag"
)

// Writer emits a little-endian TIFF/DNG file to an io.WriteSeeker,
// tracking the current write position so callers can lay out an IFD
// chain and out-of-line data (strips, tiles, sub-IFDs) without
// precomputing every offset by hand.
type Writer struct {
	w   io.WriteSeeker
	pos int64
}

// NewWriter wraps w. The caller must not have written anything to w yet.
func NewWriter(w io.WriteSeeker) *Writer {
	return &Writer{w: w}
}

// Pos returns the current absolute write offset.
func (w *Writer) Pos() uint32 {
	return uint32(w.pos)
}

func (w *Writer) write(b []byte) error {
	n, err := w.w.Write(b)
	w.pos += int64(n)
	return err
}

// WriteHeader emits the 8-byte TIFF header: byte-order mark, magic
// number 42, and the offset of the first IFD. firstIFDOffset is often
// not known until that IFD has been laid out; pass 0 and patch it
// afterward with PatchLong(Handle(4), offset).
func (w *Writer) WriteHeader(firstIFDOffset uint32) error {
	header := make([]byte, 8)
	header[0], header[1] = 'I', 'I'
	byteorder.PutUint16LSB(42, header[2:])
	byteorder.PutUint32LSB(firstIFDOffset, header[4:])
	return w.write(header)
}

// Handle is the absolute file offset of a 4-byte little-endian slot
// that was written as a placeholder and can be patched once its real
// value is known — used for forward references such as a main IFD's
// pointer to a sub-IFD or EXIF IFD that is written later in the file.
type Handle int64

// ReserveLong writes a 4-byte zero placeholder and returns a Handle to
// it.
func (w *Writer) ReserveLong() (Handle, error) {
	h := Handle(w.pos)
	if err := w.write([]byte{0, 0, 0, 0}); err != nil {
		return 0, err
	}
	return h, nil
}

// PatchLong overwrites the 4 bytes at h with value, then seeks back to
// the writer's current end-of-file position so subsequent writes
// continue appending.
func (w *Writer) PatchLong(h Handle, value uint32) error {
	var buf [4]byte
	byteorder.PutUint32LSB(value, buf[:])
	if _, err := w.w.Seek(int64(h), io.SeekStart); err != nil {
		return err
	}
	if _, err := w.w.Write(buf[:]); err != nil {
		return err
	}
	_, err := w.w.Seek(w.pos, io.SeekStart)
	return err
}

// WriteIFD sorts ifd's entries by tag ID, then writes the directory at
// the writer's current position: entry count, one 12-byte record per
// entry (value inline when its payload is 4 bytes or less, otherwise an
// offset into the out-of-line area that follows), a 4-byte next-IFD
// link fixed at 0 (this module never chains IFDs), and the out-of-line
// payloads themselves. It returns the offset the directory was written
// at and, keyed by tag ID, a Handle to every entry's value: for an
// inline entry (4 bytes or less) that's the inline value's file
// position; for an out-of-line entry it's the start of its payload
// blob, so a multi-value array (e.g. one Long per tile, for
// TileOffsets) can be patched element by element with
// Handle+Handle(i*4). Either way, a caller holding a forward-reference
// tag (an EXIF or sub-IFD pointer, or a strip/tile offset written as a
// placeholder) can patch it once the pointee's real offset is known.
func (w *Writer) WriteIFD(ifd *IFD) (start uint32, handles map[tag.ID]Handle, err error) {
	ifd.sort()
	start = w.Pos()

	outOfLineOffset := start + 2 + uint32(len(ifd.Entries))*12 + 4
	handles = make(map[tag.ID]Handle, len(ifd.Entries))

	countBuf := make([]byte, 2)
	byteorder.PutUint16LSB(uint16(len(ifd.Entries)), countBuf)
	if err = w.write(countBuf); err != nil {
		return 0, nil, err
	}

	var record [12]byte
	offset := outOfLineOffset
	for i := range ifd.Entries {
		e := &ifd.Entries[i]
		byteorder.PutUint16LSB(uint16(e.ID), record[0:])
		byteorder.PutUint16LSB(uint16(e.Type), record[2:])
		byteorder.PutUint32LSB(e.Count, record[4:])

		if e.Size() > 4 {
			byteorder.PutUint32LSB(offset, record[8:])
			handles[e.ID] = Handle(offset)
			offset += e.Size()
		} else {
			record[8], record[9], record[10], record[11] = 0, 0, 0, 0
			copy(record[8:], e.Data)
			handles[e.ID] = Handle(w.pos + 8)
		}
		if err = w.write(record[:]); err != nil {
			return 0, nil, err
		}
	}

	if err = w.write([]byte{0, 0, 0, 0}); err != nil {
		return 0, nil, err
	}

	for i := range ifd.Entries {
		e := &ifd.Entries[i]
		if e.Size() > 4 {
			if err = w.write(e.Data); err != nil {
				return 0, nil, err
			}
		}
	}

	if offset != w.Pos() {
		return 0, nil, fmt.Errorf("tiff: internal write error, expected offset %d, wrote to %d", offset, w.Pos())
	}

	if pad := offset % 4; pad != 0 {
		if err = w.write(make([]byte, 4-pad)); err != nil {
			return 0, nil, err
		}
	}

	return start, handles, nil
}

// WriteRaw appends an already-encoded byte slice (a compressed tile or
// strip, a thumbnail) at the current position and returns the offset
// it was written at.
func (w *Writer) WriteRaw(data []byte) (offset uint32, err error) {
	offset = w.Pos()
	return offset, w.write(data)
}
