package tiff

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/bruceg/dngutils/pkg/byteorder"
	"github.com/bruceg/dngutils/pkg/tiff/tag"
)

// memWriteSeeker is a minimal io.WriteSeeker over an in-memory buffer,
// standing in for the destination *os.File the CLI writes to.
type memWriteSeeker struct {
	buf []byte
	pos int64
}

func newMemWriteSeeker() *memWriteSeeker {
	return &memWriteSeeker{}
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:end], p)
	m.pos = end
	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		m.pos = offset
	case io.SeekCurrent:
		m.pos += offset
	case io.SeekEnd:
		m.pos = int64(len(m.buf)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	return m.pos, nil
}

func TestWriteHeader(t *testing.T) {
	ws := newMemWriteSeeker()
	w := NewWriter(ws)
	if err := w.WriteHeader(123); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if !bytes.Equal(ws.buf[0:2], []byte("II")) {
		t.Fatalf("expected II byte order mark, got %v", ws.buf[0:2])
	}
	if byteorder.Uint32LSB(ws.buf[4:8]) != 123 {
		t.Fatalf("first-IFD offset not written correctly")
	}
}

func TestReserveAndPatchLong(t *testing.T) {
	ws := newMemWriteSeeker()
	w := NewWriter(ws)
	if err := w.WriteHeader(0); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	h, err := w.ReserveLong()
	if err != nil {
		t.Fatalf("ReserveLong: %v", err)
	}
	if err := w.write([]byte("tail")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.PatchLong(h, 0xDEADBEEF); err != nil {
		t.Fatalf("PatchLong: %v", err)
	}
	if byteorder.Uint32LSB(ws.buf[h:h+4]) != 0xDEADBEEF {
		t.Fatalf("patch did not land at the reserved offset")
	}
	if !bytes.Equal(ws.buf[len(ws.buf)-4:], []byte("tail")) {
		t.Fatalf("patch corrupted surrounding bytes: %v", ws.buf)
	}
	if w.Pos() != uint32(len(ws.buf)) {
		t.Fatalf("writer position not restored after patch: pos=%d len=%d", w.Pos(), len(ws.buf))
	}
}

func TestWriteIFDReturnsHandleForInlineForwardReference(t *testing.T) {
	ws := newMemWriteSeeker()
	w := NewWriter(ws)
	if err := w.WriteHeader(8); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}

	main := &IFD{}
	main.AddLong(tag.ExifIFD, 0) // placeholder, patched below

	_, handles, err := w.WriteIFD(main)
	if err != nil {
		t.Fatalf("WriteIFD: %v", err)
	}
	h, ok := handles[tag.ExifIFD]
	if !ok {
		t.Fatal("expected a handle for the ExifIFD pointer tag")
	}

	exif := &IFD{}
	exif.AddASCII(tag.DateTimeOriginal, "2026:07:29 00:00:00")
	exifOffset, _, err := w.WriteIFD(exif)
	if err != nil {
		t.Fatalf("WriteIFD(exif): %v", err)
	}

	if err := w.PatchLong(h, exifOffset); err != nil {
		t.Fatalf("PatchLong: %v", err)
	}
	if byteorder.Uint32LSB(ws.buf[h:h+4]) != exifOffset {
		t.Fatalf("ExifIFD pointer was not patched to %d", exifOffset)
	}
}

func TestWriteRawReturnsOffset(t *testing.T) {
	ws := newMemWriteSeeker()
	w := NewWriter(ws)
	if err := w.WriteHeader(8); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	off, err := w.WriteRaw([]byte{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	if off != 8 {
		t.Fatalf("expected offset 8 right after the header, got %d", off)
	}
}
