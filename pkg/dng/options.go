// Package dng maps a parsed MRW file onto a DNG tag set and writes the
// resulting TIFF/DNG container: camera-model dispatch from the PRD
// block, EXIF sub-IFD reconstruction from TTW, white balance from WBG,
// fixed baseline calibration for the one supported camera body, tiled
// or strip raw compression, and thumbnail placement.
package dng

import "fmt"

// MinTileDimension is the smallest tile width or height Convert will
// accept; the CLI rejects anything smaller before calling in.
const MinTileDimension = 16

// Options configures one conversion.
type Options struct {
	// Compress selects lossless-JPEG tile compression (Compression=7)
	// over an uncompressed strip (Compression=1).
	Compress bool
	// Tile selects tiled raw storage over a single full-height strip.
	// It applies only when Compress is set; uncompressed data is always
	// written as one strip.
	Tile bool
	// TileWidth and TileHeight size each tile when Tile is set. Each
	// must be at least MinTileDimension.
	TileWidth, TileHeight int
	// MultiTable is forwarded to ljpeg.Options.MultiTable.
	MultiTable bool
}

// DefaultOptions matches the CLI's documented defaults: compress, tile,
// 256x256 tiles, dual Huffman tables.
func DefaultOptions() Options {
	return Options{
		Compress:   true,
		Tile:       true,
		TileWidth:  256,
		TileHeight: 256,
		MultiTable: true,
	}
}

// Validate rejects tile dimensions below MinTileDimension. It is a
// no-op when Tile is false.
func (o Options) Validate() error {
	if !o.Tile {
		return nil
	}
	if o.TileWidth < MinTileDimension {
		return fmt.Errorf("dng: tile width %d below minimum %d", o.TileWidth, MinTileDimension)
	}
	if o.TileHeight < MinTileDimension {
		return fmt.Errorf("dng: tile height %d below minimum %d", o.TileHeight, MinTileDimension)
	}
	return nil
}
