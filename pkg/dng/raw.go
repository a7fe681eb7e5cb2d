package dng

import (
	"bytes"
	"fmt"

	"github.com/bruceg/dngutils/pkg/byteorder"
	"github.com/bruceg/dngutils/pkg/codec/ljpeg"
	"github.com/bruceg/dngutils/pkg/tiff"
	"github.com/bruceg/dngutils/pkg/tiff/tag"
)

// bitDepth is the Bayer sample precision MRW sensor data is packed at;
// fixed across every supported camera body.
const bitDepth = 12

// RawLayout is the raw sub-IFD's strip or tile storage: the payload
// buffers to append to the file in order, and which tag holds their
// forward-reference offsets for Convert to patch once each buffer's
// file position is known.
type RawLayout struct {
	// Buffers holds one compressed tile per element, in raster order,
	// or, when Tiled is false, a single strip (compressed or not).
	Buffers [][]byte
	// Tiled reports whether the offsets were written under
	// TileOffsets/TileByteCounts (true) or StripOffsets/RowsPerStrip/
	// StripByteCounts (false).
	Tiled bool
	// OffsetsTag is the tag whose out-of-line array Convert must patch,
	// one uint32 per Buffers element, once each buffer is written.
	OffsetsTag tag.ID
}

// buildRawLayout compresses (or, uncompressed, packs) MRW's sensor
// data and writes the corresponding geometry/compression tags onto
// sub. samples is row-major, height rows of width samples each,
// exactly as mrw.MRW.Raw holds it.
func buildRawLayout(sub *tiff.IFD, samples []uint16, width, height uint32, opts Options) (RawLayout, error) {
	if !opts.Compress {
		return buildUncompressedStrip(sub, samples, width, height)
	}
	if opts.Tile {
		return buildTiledRaw(sub, samples, width, height, opts)
	}
	return buildCompressedStrip(sub, samples, width, height, opts)
}

func buildUncompressedStrip(sub *tiff.IFD, samples []uint16, width, height uint32) (RawLayout, error) {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		byteorder.PutUint16LSB(s, buf[i*2:])
	}

	sub.AddLong(tag.StripOffsets, 0)
	sub.AddLong(tag.RowsPerStrip, height)
	sub.AddLong(tag.StripByteCounts, uint32(len(buf)))

	return RawLayout{Buffers: [][]byte{buf}, Tiled: false, OffsetsTag: tag.StripOffsets}, nil
}

func buildCompressedStrip(sub *tiff.IFD, samples []uint16, width, height uint32, opts Options) (RawLayout, error) {
	buf, err := compressBlock(samples, 0, width, 0, height, width, opts)
	if err != nil {
		return RawLayout{}, err
	}

	sub.AddLong(tag.StripOffsets, 0)
	sub.AddLong(tag.RowsPerStrip, height)
	sub.AddLong(tag.StripByteCounts, uint32(len(buf)))

	return RawLayout{Buffers: [][]byte{buf}, Tiled: false, OffsetsTag: tag.StripOffsets}, nil
}

func buildTiledRaw(sub *tiff.IFD, samples []uint16, width, height uint32, opts Options) (RawLayout, error) {
	tw, th := uint32(opts.TileWidth), uint32(opts.TileHeight)
	tilesX := (width + tw - 1) / tw
	tilesY := (height + th - 1) / th
	tileCount := tilesX * tilesY

	sub.AddLong(tag.TileWidth, tw)
	sub.AddLong(tag.TileLength, th)
	sub.AddLong(tag.TileOffsets, make([]uint32, tileCount)...)

	buffers := make([][]byte, 0, tileCount)
	byteCounts := make([]uint32, 0, tileCount)
	for y := uint32(0); y < height; y += th {
		for x := uint32(0); x < width; x += tw {
			w := minUint32(width-x, tw)
			h := minUint32(height-y, th)
			buf, err := compressBlock(samples, x, w, y, h, width, opts)
			if err != nil {
				return RawLayout{}, err
			}
			buffers = append(buffers, buf)
			byteCounts = append(byteCounts, uint32(len(buf)))
		}
	}
	sub.AddLong(tag.TileByteCounts, byteCounts...)

	return RawLayout{Buffers: buffers, Tiled: true, OffsetsTag: tag.TileOffsets}, nil
}

// compressBlock encodes the width x height sample rectangle starting
// at (xoffset, yoffset) within a stride-wide sensor image. A trailing
// odd byte is padded so every compressed tile begins its successor on
// an even boundary, matching the original tool's stream padding.
func compressBlock(samples []uint16, xoffset, width, yoffset, height, stride uint32, opts Options) ([]byte, error) {
	grid := ljpeg.Grid{
		Rows:    int(height),
		Cols:    int(width),
		Stride:  int(stride),
		Samples: samples[yoffset*stride+xoffset:],
	}

	var buf bytes.Buffer
	if err := ljpeg.Encode(&buf, grid, int(height), int(width), bitDepth, ljpeg.Options{MultiTable: opts.MultiTable}); err != nil {
		return nil, fmt.Errorf("dng: compressing tile at (%d,%d): %w", xoffset, yoffset, err)
	}
	if buf.Len()%2 != 0 {
		buf.WriteByte(0)
	}
	return buf.Bytes(), nil
}

func minUint32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
