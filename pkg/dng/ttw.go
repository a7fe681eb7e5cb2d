package dng

import (
	"context"
	"log/slog"

	"github.com/bruceg/dngutils/pkg/byteorder"
	"github.com/bruceg/dngutils/pkg/mrw"
	"github.com/bruceg/dngutils/pkg/tiff"
	"github.com/bruceg/dngutils/pkg/tiff/tag"
)

// Minolta MakerNote thumbnail pointer tags. Proprietary to the
// MakerNote IFD, not part of the baseline/EXIF tag set this module
// otherwise enumerates in pkg/tiff/tag.
const (
	minoltaThumbnailOffset = 0x0081
	minoltaThumbnailLength = 0x0088
)

// ttwHeader is the fixed 8-byte TIFF header every TTW block starts
// with: big-endian byte order, magic 42, first-IFD offset 8.
var ttwHeader = []byte{'M', 'M', 0, 42, 0, 0, 0, 8}

// Thumbnail locates the embedded preview JPEG found via the TTW
// block's MakerNote sub-IFD.
type Thumbnail struct {
	Start  []byte
	Length uint32
}

// ttwResult collects everything parseTTW extracts that Convert needs
// after the IFDs are built: the located thumbnail, and the raw
// MakerNote bytes (Convert assembles these with the MRW header blocks
// into the DNGPrivateData envelope once parseTTW returns — all the
// bytes it needs are already in hand, so no placeholder/patch is
// required for that tag, unlike the thumbnail's StripOffsets, whose
// value is a file offset that genuinely isn't known until everything
// ahead of it has been written).
type ttwResult struct {
	thumbnail     Thumbnail
	makerNote     []byte
	makerNoteAt   uint32
	haveMakerNote bool
}

// parseTTW walks a TTW block's embedded big-endian TIFF IFD, copying
// EXIF data onto main/exif/iop and locating the embedded thumbnail.
func parseTTW(ctx context.Context, logger *slog.Logger, start []byte, main, exif, iop *tiff.IFD) (ttwResult, error) {
	if len(start) < 8 || string(start[0:8]) != string(ttwHeader) {
		return ttwResult{}, errInvalidTTW
	}

	res := &ttwResult{}
	mrw.WalkIFD(start, 8, func(start []byte, t, typ uint16, count, value uint32) {
		parseTTWTag(ctx, logger, start, tag.ID(t), tiff.Type(typ), count, value, main, exif, iop, res)
	})

	if res.thumbnail.Length > 0 {
		main.AddLong(tag.ImageWidth, 640)
		main.AddLong(tag.ImageLength, 480)
		main.AddShort(tag.BitsPerSample, 8, 8, 8)
		main.AddShort(tag.Compression, 7)
		main.AddShort(tag.PhotometricInterpretation, 6)
		main.AddLong(tag.StripOffsets, 0) // patched once the thumbnail's file position is known
		main.AddShort(tag.SamplesPerPixel, 3)
		main.AddLong(tag.RowsPerStrip, 480)
		main.AddLong(tag.StripByteCounts, res.thumbnail.Length)
		main.AddShort(tag.PlanarConfiguration, 1)
		main.AddShort(tag.YCbCrSubSampling, 2, 1)
		main.AddRational(tag.RefBlackWhite,
			tiff.Rational{Num: 0, Den: 1}, tiff.Rational{Num: 255, Den: 1},
			tiff.Rational{Num: 128, Den: 1}, tiff.Rational{Num: 255, Den: 1},
			tiff.Rational{Num: 128, Den: 1}, tiff.Rational{Num: 255, Den: 1})
		main.AddRational(tag.YCbCrCoefficients,
			tiff.Rational{Num: 299, Den: 1000}, tiff.Rational{Num: 587, Den: 1000}, tiff.Rational{Num: 114, Den: 1000})
		main.AddShort(tag.YCbCrPositioning, 2)
	}

	return *res, nil
}

func parseTTWTag(ctx context.Context, logger *slog.Logger, start []byte, id tag.ID, typ tiff.Type, count, value uint32, main, exif, iop *tiff.IFD, res *ttwResult) {
	switch id {
	case tag.ImageWidth, tag.ImageLength, tag.Compression:
		// Superseded by the raw sub-IFD's own geometry/compression tags.
	case tag.DateTime, tag.ImageDescription, tag.Make, tag.Model, tag.Software:
		main.AddASCII(id, cStringAt(start, value))
	case tag.ExifIFD:
		mrw.WalkIFD(start, value, func(start []byte, t, typ uint16, count, value uint32) {
			parseTTWSubtag(ctx, logger, start, tag.ID(t), tiff.Type(typ), count, value, exif, iop, res)
		})
	case tag.Orientation:
		main.AddShort(id, uint16(value>>16))
	case tag.XResolution, tag.YResolution, tag.ResolutionUnit:
		// Not meaningful for raw sensor data; dropped like the rest of
		// the EXIF preview-image-only fields.
	default:
		logger.WarnContext(ctx, "unhandled EXIF tag", "tag", id)
	}
}

func parseTTWSubtag(ctx context.Context, logger *slog.Logger, start []byte, id tag.ID, typ tiff.Type, count, value uint32, exif, iop *tiff.IFD, res *ttwResult) {
	switch id {
	case tag.MakerNote:
		parseMakerNoteThumbnail(start, value, res)
		res.makerNote = start[value : value+count]
		res.makerNoteAt = value
		res.haveMakerNote = true
	case tag.InteropIFD:
		exif.AddLong(id, 0) // patched by Convert once the Interoperability IFD's offset is known
		mrw.WalkIFD(start, value, func(start []byte, t, typ uint16, count, value uint32) {
			copyTag(ctx, logger, iop, start, tag.ID(t), tiff.Type(typ), count, value)
		})
	case tag.PrintImageMatching:
		exif.AddUndefined(id, start[value:value+count])
	default:
		copyTag(ctx, logger, exif, start, id, typ, count, value)
	}
}

// parseMakerNoteThumbnail walks the MakerNote IFD itself, looking for
// the proprietary Minolta thumbnail pointer tags.
func parseMakerNoteThumbnail(start []byte, offset uint32, res *ttwResult) {
	mrw.WalkIFD(start, offset, func(start []byte, t, typ uint16, count, value uint32) {
		switch t {
		case minoltaThumbnailOffset:
			res.thumbnail.Start = start[value:]
		case minoltaThumbnailLength:
			res.thumbnail.Length = value
		}
	})
}

// copyTag copies one embedded big-endian EXIF entry onto a
// little-endian output IFD, converting its payload per TIFF type.
func copyTag(ctx context.Context, logger *slog.Logger, ifd *tiff.IFD, start []byte, id tag.ID, typ tiff.Type, count, value uint32) {
	switch typ {
	case tiff.ASCII, tiff.Undefined:
		if count > 4 {
			ifd.Add(id, typ, count, start[value:value+count])
		} else {
			data := make([]byte, count)
			v := value
			for i := uint32(0); i < count; i, v = i+1, v<<8 {
				data[i] = byte(v >> 24)
			}
			ifd.Add(id, typ, count, data)
		}
	case tiff.Short, tiff.SShort:
		data := make([]byte, count*2)
		switch count {
		case 1:
			byteorder.PutUint16LSB(uint16(value>>16), data)
		case 2:
			byteorder.PutUint16LSB(uint16(value>>16), data[0:])
			byteorder.PutUint16LSB(uint16(value), data[2:])
		default:
			for i := uint32(0); i < count; i++ {
				byteorder.PutUint16LSB(byteorder.Uint16MSB(start[value+i*2:]), data[i*2:])
			}
		}
		ifd.Add(id, typ, count, data)
	case tiff.RationalType, tiff.SRationalType:
		data := make([]byte, count*8)
		for i := uint32(0); i < count; i++ {
			byteorder.PutUint32LSB(byteorder.Uint32MSB(start[value+i*8:]), data[i*8:])
			byteorder.PutUint32LSB(byteorder.Uint32MSB(start[value+i*8+4:]), data[i*8+4:])
		}
		ifd.Add(id, typ, count, data)
	case tiff.Long:
		data := make([]byte, count*4)
		if count == 1 {
			byteorder.PutUint32LSB(value, data)
		} else {
			for i := uint32(0); i < count; i++ {
				byteorder.PutUint32LSB(byteorder.Uint32MSB(start[value+i*4:]), data[i*4:])
			}
		}
		ifd.Add(id, typ, count, data)
	default:
		logger.WarnContext(ctx, "unhandled sub-EXIF type", "tag", id, "type", typ)
	}
}

// cStringAt reads a NUL-terminated string starting at start[offset:].
func cStringAt(start []byte, offset uint32) string {
	end := offset
	for end < uint32(len(start)) && start[end] != 0 {
		end++
	}
	return string(start[offset:end])
}
