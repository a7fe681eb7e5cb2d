package dng

import (
	"bytes"
	"fmt"

	"github.com/bruceg/dngutils/pkg/byteorder"
	"github.com/bruceg/dngutils/pkg/tiff"
	"github.com/bruceg/dngutils/pkg/tiff/tag"
)

// cameraModelMagic identifies the only camera body this converter
// understands, by the string embedded in the PRD block's sensor
// identifier field.
const cameraModelMagic = "21810002"

const cameraModelName = "Konica Minolta Maxxum 7D"

// CameraInfo is everything PRD contributes to the DNG tag set: the
// recognized model name and the crop geometry for the active sensor
// area.
type CameraInfo struct {
	Width, Height            uint32
	CropWidth, CropHeight    uint32
	CropOriginX, CropOriginY uint32
}

// ParsePRD validates a PRD block against the one supported camera body
// and derives its crop geometry. Width and height come from the block
// in the same layout mrw.Load already reads (bytes 8:10 height,
// 10:12 width); this revalidates storage-format bytes the loader
// trusts implicitly and rejects anything this converter cannot emit a
// correct DNG for.
func ParsePRD(prd []byte) (CameraInfo, error) {
	if len(prd) < 24 {
		return CameraInfo{}, fmt.Errorf("dng: PRD block too short (%d bytes)", len(prd))
	}
	if !bytes.Contains(prd, []byte(cameraModelMagic)) {
		return CameraInfo{}, fmt.Errorf("dng: unrecognized camera model in PRD block")
	}
	if prd[16] != 12 || prd[17] != 12 || prd[18] != 0x59 {
		return CameraInfo{}, fmt.Errorf("dng: unsupported PRD storage format (DataSize/PixelSize/StorageMethod)")
	}
	if byteorder.Uint16MSB(prd[22:24]) != 1 {
		return CameraInfo{}, fmt.Errorf("dng: unsupported PRD Bayer pattern")
	}

	height := uint32(byteorder.Uint16MSB(prd[8:10]))
	width := uint32(byteorder.Uint16MSB(prd[10:12]))
	cropX := uint32(byteorder.Uint16MSB(prd[12:14]))
	cropY := uint32(byteorder.Uint16MSB(prd[14:16]))

	return CameraInfo{
		Width:       width,
		Height:      height,
		CropWidth:   cropX,
		CropHeight:  cropY,
		CropOriginX: (width - cropX) / 2,
		CropOriginY: (height - cropY) / 2,
	}, nil
}

// writeModelTags writes the PRD-derived identity tags onto the main
// IFD: the recognized model name, in both its full and localized form.
func (c CameraInfo) writeModelTags(main *tiff.IFD) {
	main.AddASCII(tag.UniqueCameraModel, cameraModelName)
	main.AddASCII(tag.LocalizedCameraModel, cameraModelName)
}

// writeRawGeometry writes the dimensional and CFA description tags
// derived from the PRD block onto the raw sub-IFD.
func (c CameraInfo) writeRawGeometry(sub *tiff.IFD) {
	sub.AddLong(tag.ImageWidth, c.Width)
	sub.AddLong(tag.ImageLength, c.Height)
	sub.AddLong(tag.ActiveArea, 0, 0, c.Height, c.Width)
	sub.AddRational(tag.DefaultScale, tiff.Rational{Num: 1, Den: 1}, tiff.Rational{Num: 1, Den: 1})
	sub.AddRational(tag.DefaultCropOrigin,
		tiff.Rational{Num: c.CropOriginX, Den: 1}, tiff.Rational{Num: c.CropOriginY, Den: 1})
	sub.AddRational(tag.DefaultCropSize,
		tiff.Rational{Num: c.CropWidth, Den: 1}, tiff.Rational{Num: c.CropHeight, Den: 1})

	sub.AddShort(tag.CFARepeatPatternDim, 2, 2)
	sub.AddByte(tag.CFAPattern, []byte{0, 1, 1, 2})
	sub.AddByte(tag.CFAPlaneColor, []byte{0, 1, 2})
	sub.AddShort(tag.CFALayout, 1)
}
