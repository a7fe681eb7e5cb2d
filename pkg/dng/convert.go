package dng

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/bruceg/dngutils/pkg/mrw"
	"github.com/bruceg/dngutils/pkg/tiff"
	"github.com/bruceg/dngutils/pkg/tiff/tag"
)

// Convert reads a complete MRW file from src and writes the
// corresponding DNG file to dst, which must support seeking so
// forward-reference offsets (sub-IFD and EXIF pointers, tile/strip
// offsets) can be patched in after the bytes they point to are known
// to have been written. sourceName is recorded in the DNG's
// OriginalRawFileName tag.
func Convert(ctx context.Context, logger *slog.Logger, src io.Reader, dst io.WriteSeeker, sourceName string, opts Options) error {
	if logger == nil {
		logger = slog.Default()
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	m, err := mrw.Load(ctx, src, logger)
	if err != nil {
		return err
	}

	camInfo, err := ParsePRD(m.PRD.Data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedCamera, err)
	}
	wb, err := ParseWhiteBalance(m.WBG.Data)
	if err != nil {
		return err
	}

	main := &tiff.IFD{}
	sub := &tiff.IFD{}
	exif := &tiff.IFD{}
	iop := &tiff.IFD{}

	writeBaselineMainTags(main, sourceName)
	camInfo.writeModelTags(main)
	camInfo.writeRawGeometry(sub)
	writeBaselineRawTags(sub, opts.Compress)
	analog, neutral := AnalogBalance(), wb.AsShotNeutral()
	main.AddRational(tag.AnalogBalance, analog[:]...)
	main.AddRational(tag.AsShotNeutral, neutral[:]...)

	ttwRes, err := parseTTW(ctx, logger, m.TTW.Data, main, exif, iop)
	if err != nil {
		return err
	}

	if ttwRes.haveMakerNote {
		main.AddByte(tag.DNGPrivateData, BuildDNGPrivateData(ttwRes.makerNote, ttwRes.makerNoteAt, m.PRD, m.WBG, m.RIF))
	}

	// The RIF block's fields are duplicated by the EXIF data already
	// copied out of TTW above, so it contributes nothing further here
	// beyond its raw bytes in the DNGPrivateData envelope.

	layout, err := buildRawLayout(sub, m.Raw, m.Width, m.Height, opts)
	if err != nil {
		return err
	}

	main.AddLong(tag.SubIFDs, 0)
	main.AddLong(tag.ExifIFD, 0)
	haveIop := len(iop.Entries) > 0

	writer := tiff.NewWriter(dst)
	if err := writer.WriteHeader(8); err != nil {
		return fmt.Errorf("dng: writing header: %w: %w", ErrIO, err)
	}

	_, mainHandles, err := writer.WriteIFD(main)
	if err != nil {
		return fmt.Errorf("dng: writing main IFD: %w: %w", ErrIO, err)
	}
	subStart, subHandles, err := writer.WriteIFD(sub)
	if err != nil {
		return fmt.Errorf("dng: writing raw sub-IFD: %w: %w", ErrIO, err)
	}
	exifStart, exifHandles, err := writer.WriteIFD(exif)
	if err != nil {
		return fmt.Errorf("dng: writing EXIF IFD: %w: %w", ErrIO, err)
	}

	if err := writer.PatchLong(mainHandles[tag.SubIFDs], subStart); err != nil {
		return fmt.Errorf("dng: patching SubIFDs offset: %w: %w", ErrIO, err)
	}
	if err := writer.PatchLong(mainHandles[tag.ExifIFD], exifStart); err != nil {
		return fmt.Errorf("dng: patching ExifIFD offset: %w: %w", ErrIO, err)
	}

	if haveIop {
		iopStart, _, err := writer.WriteIFD(iop)
		if err != nil {
			return fmt.Errorf("dng: writing Interoperability IFD: %w: %w", ErrIO, err)
		}
		if err := writer.PatchLong(exifHandles[tag.InteropIFD], iopStart); err != nil {
			return fmt.Errorf("dng: patching InteropIFD offset: %w: %w", ErrIO, err)
		}
	}

	if ttwRes.thumbnail.Length > 0 {
		thumbStart, err := writer.WriteRaw(repairThumbnail(ttwRes.thumbnail))
		if err != nil {
			return fmt.Errorf("dng: writing thumbnail: %w: %w", ErrIO, err)
		}
		if err := writer.PatchLong(mainHandles[tag.StripOffsets], thumbStart); err != nil {
			return fmt.Errorf("dng: patching thumbnail offset: %w: %w", ErrIO, err)
		}
	}

	for i, buf := range layout.Buffers {
		offset, err := writer.WriteRaw(buf)
		if err != nil {
			return fmt.Errorf("dng: writing raw data buffer %d: %w: %w", i, ErrIO, err)
		}
		h := subHandles[layout.OffsetsTag]
		if layout.Tiled {
			h += tiff.Handle(i) * 4
		}
		if err := writer.PatchLong(h, offset); err != nil {
			return fmt.Errorf("dng: patching raw data offset %d: %w: %w", i, ErrIO, err)
		}
	}

	return nil
}

// repairThumbnail replaces the embedded thumbnail's first two bytes,
// which are corrupted in every known MRW file, with a correct JPEG SOI
// marker.
func repairThumbnail(t Thumbnail) []byte {
	out := make([]byte, t.Length)
	out[0], out[1] = 0xFF, 0xD8
	copy(out[2:], t.Start[2:t.Length])
	return out
}
