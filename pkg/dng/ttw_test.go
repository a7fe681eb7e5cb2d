package dng

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bruceg/dngutils/pkg/byteorder"
	"github.com/bruceg/dngutils/pkg/tiff"
	"github.com/bruceg/dngutils/pkg/tiff/tag"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, nil))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func entryValue(ifd *tiff.IFD, id tag.ID) (tiff.Entry, bool) {
	return findEntry(ifd, id)
}

func TestCopyTagASCIIInline(t *testing.T) {
	ifd := &tiff.IFD{}
	// "AB\x00" packed MSB-first into the inline value field; the stored
	// payload is padded to an even length.
	value := uint32(0x41420000)
	copyTag(context.Background(), discardLogger(), ifd, nil, tag.ImageDescription, tiff.ASCII, 3, value)
	e, ok := entryValue(ifd, tag.ImageDescription)
	require.True(t, ok)
	assert.Equal(t, []byte{0x41, 0x42, 0x00, 0x00}, e.Data)
}

func TestCopyTagASCIIOutOfLine(t *testing.T) {
	start := make([]byte, 32)
	copy(start[16:], "hello\x00")
	ifd := &tiff.IFD{}
	copyTag(context.Background(), discardLogger(), ifd, start, tag.ImageDescription, tiff.ASCII, 6, 16)
	e, ok := entryValue(ifd, tag.ImageDescription)
	require.True(t, ok)
	assert.Equal(t, "hello\x00", string(e.Data))
}

func TestCopyTagShortInlineOne(t *testing.T) {
	ifd := &tiff.IFD{}
	copyTag(context.Background(), discardLogger(), ifd, nil, tag.Orientation, tiff.Short, 1, 0x12340000)
	e, ok := entryValue(ifd, tag.Orientation)
	require.True(t, ok)
	assert.Equal(t, uint16(0x1234), byteorder.Uint16LSB(e.Data))
}

func TestCopyTagShortInlineTwo(t *testing.T) {
	ifd := &tiff.IFD{}
	copyTag(context.Background(), discardLogger(), ifd, nil, tag.YCbCrSubSampling, tiff.Short, 2, 0x12340056)
	e, ok := entryValue(ifd, tag.YCbCrSubSampling)
	require.True(t, ok)
	assert.Equal(t, uint16(0x1234), byteorder.Uint16LSB(e.Data[0:2]))
	assert.Equal(t, uint16(0x0056), byteorder.Uint16LSB(e.Data[2:4]))
}

func TestCopyTagShortOutOfLine(t *testing.T) {
	start := make([]byte, 32)
	byteorder.PutUint16MSB(10, start[8:])
	byteorder.PutUint16MSB(20, start[10:])
	byteorder.PutUint16MSB(30, start[12:])
	ifd := &tiff.IFD{}
	copyTag(context.Background(), discardLogger(), ifd, start, tag.BitsPerSample, tiff.Short, 3, 8)
	e, ok := entryValue(ifd, tag.BitsPerSample)
	require.True(t, ok)
	assert.Equal(t, []uint16{10, 20, 30}, []uint16{
		byteorder.Uint16LSB(e.Data[0:2]), byteorder.Uint16LSB(e.Data[2:4]), byteorder.Uint16LSB(e.Data[4:6]),
	})
}

func TestCopyTagRational(t *testing.T) {
	start := make([]byte, 32)
	byteorder.PutUint32MSB(3, start[8:])
	byteorder.PutUint32MSB(4, start[12:])
	ifd := &tiff.IFD{}
	copyTag(context.Background(), discardLogger(), ifd, start, tag.XResolution, tiff.RationalType, 1, 8)
	e, ok := entryValue(ifd, tag.XResolution)
	require.True(t, ok)
	assert.Equal(t, uint32(3), byteorder.Uint32LSB(e.Data[0:4]))
	assert.Equal(t, uint32(4), byteorder.Uint32LSB(e.Data[4:8]))
}

func TestCopyTagLongInlineOne(t *testing.T) {
	ifd := &tiff.IFD{}
	copyTag(context.Background(), discardLogger(), ifd, nil, tag.ImageWidth, tiff.Long, 1, 1500)
	e, ok := entryValue(ifd, tag.ImageWidth)
	require.True(t, ok)
	assert.Equal(t, uint32(1500), byteorder.Uint32LSB(e.Data))
}

func TestCopyTagLongOutOfLine(t *testing.T) {
	start := make([]byte, 32)
	byteorder.PutUint32MSB(111, start[8:])
	byteorder.PutUint32MSB(222, start[12:])
	ifd := &tiff.IFD{}
	copyTag(context.Background(), discardLogger(), ifd, start, tag.StripOffsets, tiff.Long, 2, 8)
	e, ok := entryValue(ifd, tag.StripOffsets)
	require.True(t, ok)
	assert.Equal(t, uint32(111), byteorder.Uint32LSB(e.Data[0:4]))
	assert.Equal(t, uint32(222), byteorder.Uint32LSB(e.Data[4:8]))
}

func TestCStringAt(t *testing.T) {
	start := []byte("abc\x00def")
	assert.Equal(t, "abc", cStringAt(start, 0))
	assert.Equal(t, "def", cStringAt(start, 4))
}

func TestParseTTWRejectsBadHeader(t *testing.T) {
	main, exif, iop := &tiff.IFD{}, &tiff.IFD{}, &tiff.IFD{}
	_, err := parseTTW(context.Background(), discardLogger(), []byte("too short"), main, exif, iop)
	assert.ErrorIs(t, err, errInvalidTTW)
}

// buildIFD packs a minimal big-endian IFD at the given offset within
// buf: a 2-byte entry count, one 12-byte entry per supplied tuple, and
// a 4-byte next-IFD link (always 0, since mrw.WalkIFD ignores it).
func buildIFD(buf []byte, offset uint32, entries [][4]uint32) {
	byteorder.PutUint16MSB(uint16(len(entries)), buf[offset:])
	pos := offset + 2
	for _, e := range entries {
		byteorder.PutUint16MSB(uint16(e[0]), buf[pos:])
		byteorder.PutUint16MSB(uint16(e[1]), buf[pos+2:])
		byteorder.PutUint32MSB(e[2], buf[pos+4:])
		byteorder.PutUint32MSB(e[3], buf[pos+8:])
		pos += 12
	}
}

func TestParseTTWThumbnailAndMakerNote(t *testing.T) {
	buf := make([]byte, 256)
	copy(buf[0:8], ttwHeader)

	const (
		makerNoteIFDOffset   = 100
		thumbOffsetIFDOffset = 150
		thumbDataOffset      = 200
		thumbLength          = 16
		exifIFDOffset        = 60
	)

	buildIFD(buf, 8, [][4]uint32{
		{uint32(tag.ExifIFD), uint32(tiff.Long), 1, exifIFDOffset},
	})
	buildIFD(buf, exifIFDOffset, [][4]uint32{
		{uint32(tag.MakerNote), uint32(tiff.Undefined), 40, makerNoteIFDOffset},
	})
	buildIFD(buf, makerNoteIFDOffset, [][4]uint32{
		{minoltaThumbnailOffset, uint32(tiff.Long), 1, thumbDataOffset},
		{minoltaThumbnailLength, uint32(tiff.Long), 1, thumbLength},
	})
	for i := 0; i < thumbLength; i++ {
		buf[thumbDataOffset+i] = 0xEE
	}

	main, exif, iop := &tiff.IFD{}, &tiff.IFD{}, &tiff.IFD{}
	res, err := parseTTW(context.Background(), discardLogger(), buf, main, exif, iop)
	require.NoError(t, err)

	assert.True(t, res.haveMakerNote)
	assert.Equal(t, uint32(makerNoteIFDOffset), res.makerNoteAt)
	assert.Equal(t, uint32(thumbLength), res.thumbnail.Length)
	assert.Equal(t, uint32(thumbLength), res.thumbnail.Length)
	assert.Equal(t, buf[thumbDataOffset:thumbDataOffset+thumbLength], res.thumbnail.Start[:thumbLength])

	_, ok := entryValue(main, tag.StripOffsets)
	assert.True(t, ok, "thumbnail description tags should be written onto main")
	e, ok := entryValue(main, tag.StripByteCounts)
	require.True(t, ok)
	assert.Equal(t, uint32(thumbLength), byteorder.Uint32LSB(e.Data))
}
