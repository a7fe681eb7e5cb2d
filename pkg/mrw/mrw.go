// Package mrw reads Minolta RAW (MRW) files: the block-structured file
// header (PRD, TTW, WBG, RIF, and padding blocks), and the 12-bit
// packed Bayer sensor data that follows it.
package mrw

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/bruceg/dngutils/pkg/byteorder"
)

// ErrIO marks a short read against the source file, as distinct from a
// structurally invalid one; wrapped errors satisfy errors.Is(err,
// ErrIO) so a caller can map it to the I/O exit code.
var ErrIO = errors.New("mrw: I/O error")

// Block is one top-level MRW header block: its 4-byte marker, its
// offset within the header, its payload length, and the payload
// itself.
type Block struct {
	Marker [4]byte
	Offset uint32
	Length uint32
	Data   []byte
}

// MRW holds a fully parsed MRW file: the raw header blocks needed to
// build a DNG (camera parameters, embedded EXIF, white balance, and
// the thumbnail/rotation hints in RIF) plus the unpacked sensor data.
type MRW struct {
	HeaderLength uint32
	Header       []byte

	PRD, TTW, WBG, RIF Block

	Width, Height uint32
	Raw           []uint16
}

// Load reads a complete MRW file from r: the "\0MRM" file header, the
// block-structured metadata header, and the raw sensor rows. Unknown
// block types are logged and skipped, matching the original tool's
// tolerance for MRW variants it doesn't fully understand.
func Load(ctx context.Context, r io.Reader, logger *slog.Logger) (*MRW, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var fileHeader [8]byte
	if _, err := io.ReadFull(r, fileHeader[:]); err != nil {
		return nil, fmt.Errorf("mrw: reading file header: %w: %w", ErrIO, err)
	}
	if !bytes.Equal(fileHeader[0:4], []byte("\x00MRM")) {
		return nil, fmt.Errorf("mrw: not an MRW file (bad magic %q)", fileHeader[0:4])
	}

	m := &MRW{HeaderLength: byteorder.Uint32MSB(fileHeader[4:8])}
	m.Header = make([]byte, m.HeaderLength)
	if _, err := io.ReadFull(r, m.Header); err != nil {
		return nil, fmt.Errorf("mrw: reading header blocks: %w: %w", ErrIO, err)
	}

	if err := m.parseBlocks(ctx, logger); err != nil {
		return nil, err
	}

	if err := m.loadRaw(r); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MRW) parseBlocks(ctx context.Context, logger *slog.Logger) error {
	for offset := uint32(0); offset < m.HeaderLength; {
		if offset+8 > m.HeaderLength {
			return fmt.Errorf("mrw: truncated block header at offset %d", offset)
		}
		marker := m.Header[offset : offset+4]
		length := byteorder.Uint32MSB(m.Header[offset+4 : offset+8])
		data := m.Header[offset+8:]
		if uint32(len(data)) < length {
			return fmt.Errorf("mrw: block at offset %d overruns header (length %d)", offset, length)
		}
		data = data[:length]

		var markerBuf [4]byte
		copy(markerBuf[:], marker)
		block := Block{Marker: markerBuf, Offset: offset, Length: length, Data: data}
		switch {
		case bytes.Equal(marker, []byte("\x00PRD")):
			m.PRD = block
		case bytes.Equal(marker, []byte("\x00TTW")):
			m.TTW = block
		case bytes.Equal(marker, []byte("\x00WBG")):
			m.WBG = block
		case bytes.Equal(marker, []byte("\x00RIF")):
			m.RIF = block
		case bytes.Equal(marker, []byte("\x00PAD")):
			// Padding block, deliberately skipped.
		default:
			logger.WarnContext(ctx, "unknown MRW block type", "marker", fmt.Sprintf("%q", marker), "offset", offset, "length", length)
		}

		offset += length + 8
	}

	if m.PRD.Length == 0 || m.TTW.Length == 0 || m.WBG.Length == 0 || m.RIF.Length == 0 {
		return fmt.Errorf("mrw: missing a required header block (PRD/TTW/WBG/RIF)")
	}

	m.Width = uint32(byteorder.Uint16MSB(m.PRD.Data[10:12]))
	m.Height = uint32(byteorder.Uint16MSB(m.PRD.Data[8:10]))
	return nil
}

// loadRaw reads mrw.Height rows of 12-bit packed samples, 3 bytes per
// 2 pixels, and unpacks them into 16-bit samples holding the 12-bit
// value in the low bits, with the high 4 bits clear.
func (m *MRW) loadRaw(r io.Reader) error {
	row := make([]byte, m.Width*3/2)
	m.Raw = make([]uint16, m.Width*m.Height)

	for y := uint32(0); y < m.Height; y++ {
		if _, err := io.ReadFull(r, row); err != nil {
			return fmt.Errorf("mrw: reading raw row %d: %w: %w", y, ErrIO, err)
		}
		dst := m.Raw[y*m.Width:]
		for x, src := uint32(0), 0; x < m.Width; x, src = x+2, src+3 {
			dst[x] = uint16(row[src])<<4 | uint16(row[src+1])>>4
			dst[x+1] = (uint16(row[src+1])<<8 | uint16(row[src+2])) & 0xFFF
		}
	}
	return nil
}

// At returns the raw sample at (row, col).
func (m *MRW) At(row, col uint32) uint16 {
	return m.Raw[row*m.Width+col]
}
