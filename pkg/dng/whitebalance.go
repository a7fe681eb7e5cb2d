package dng

import (
	"fmt"

	"github.com/bruceg/dngutils/pkg/byteorder"
	"github.com/bruceg/dngutils/pkg/tiff"
)

// WhiteBalance is the as-shot neutral color derived from a WBG block's
// four per-channel shift/gain pairs.
type WhiteBalance struct {
	R, G, B float64
}

// ParseWhiteBalance derives the as-shot neutral white balance from a
// WBG block: four leading shift bytes at w[0:4], then four 16-bit
// big-endian gains for red, green-red and green-blue (averaged), and
// blue at w[4:12].
func ParseWhiteBalance(w []byte) (WhiteBalance, error) {
	if len(w) < 12 {
		return WhiteBalance{}, fmt.Errorf("dng: WBG block too short (%d bytes)", len(w))
	}
	r := float64(byteorder.Uint16MSB(w[4:6])) / float64(int(64)<<w[0])
	gr := float64(byteorder.Uint16MSB(w[6:8])) / float64(int(64)<<w[1])
	gb := float64(byteorder.Uint16MSB(w[8:10])) / float64(int(64)<<w[2])
	b := float64(byteorder.Uint16MSB(w[10:12])) / float64(int(64)<<w[3])
	return WhiteBalance{R: r, G: (gr + gb) / 2, B: b}, nil
}

// AsShotNeutral converts the derived gains into the reciprocal
// rationals DNG's AsShotNeutral tag expects, scaled to a million for
// precision without resorting to floating point in the file itself.
func (wb WhiteBalance) AsShotNeutral() [3]tiff.Rational {
	const scale = 1000000
	return [3]tiff.Rational{
		{Num: uint32(scale / wb.R), Den: scale},
		{Num: uint32(scale / wb.G), Den: scale},
		{Num: uint32(scale / wb.B), Den: scale},
	}
}

// AnalogBalance is always unity for this camera body; the gain is
// fully captured by AsShotNeutral instead.
func AnalogBalance() [3]tiff.Rational {
	return [3]tiff.Rational{{Num: 1000000, Den: 1000000}, {Num: 1000000, Den: 1000000}, {Num: 1000000, Den: 1000000}}
}
