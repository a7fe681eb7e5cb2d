package dng

import (
	"time"

	"github.com/bruceg/dngutils/pkg/tiff"
	"github.com/bruceg/dngutils/pkg/tiff/tag"
)

// colorMatrix1 and colorMatrix2 are the fixed camera-to-XYZ color
// calibration matrices for the one supported body, under its two
// standard illuminants (CalibrationIlluminant1=17 Standard Light A,
// CalibrationIlluminant2=21 D65).
var colorMatrix1 = [9]tiff.SRational{
	{Num: 12036, Den: 10000}, {Num: -4954, Den: 10000}, {Num: -75, Den: 10000},
	{Num: -7019, Den: 10000}, {Num: 14449, Den: 10000}, {Num: 2811, Den: 10000},
	{Num: -513, Den: 10000}, {Num: 635, Den: 10000}, {Num: 6839, Den: 10000},
}

var colorMatrix2 = [9]tiff.SRational{
	{Num: 10239, Den: 10000}, {Num: -3104, Den: 10000}, {Num: -1099, Den: 10000},
	{Num: -8037, Den: 10000}, {Num: 15727, Den: 10000}, {Num: 2451, Den: 10000},
	{Num: -927, Den: 10000}, {Num: 925, Den: 10000}, {Num: 6871, Den: 10000},
}

// writeBaselineMainTags writes the fixed DNG identity and calibration
// tags onto the main IFD that don't depend on per-file MRW content:
// version markers, the source file name, the local UTC offset, and
// the calibration constants carried verbatim from the one supported
// camera body.
func writeBaselineMainTags(main *tiff.IFD, sourceName string) {
	_, offsetSeconds := time.Now().Zone()
	offsetHours := int16(offsetSeconds / 3600)

	main.AddLong(tag.NewSubfileType, 1)
	main.AddSShort(tag.TimeZoneOffset, offsetHours, offsetHours)
	main.AddByte(tag.DNGVersion, []byte{1, 1, 0, 0})
	main.AddByte(tag.DNGBackwardVersion, []byte{1, 1, 0, 0})
	main.AddASCII(tag.OriginalRawFileName, sourceName)

	main.AddSRational(tag.BaselineExposure, tiff.SRational{Num: -50, Den: 100})
	main.AddRational(tag.BaselineNoise, tiff.Rational{Num: 133, Den: 100})
	main.AddRational(tag.BaselineSharpness, tiff.Rational{Num: 133, Den: 100})
	main.AddRational(tag.LinearResponseLimit, tiff.Rational{Num: 100, Den: 100})
	main.AddRational(tag.ShadowScale, tiff.Rational{Num: 1, Den: 1})
	main.AddShort(tag.CalibrationIlluminant1, 17)
	main.AddShort(tag.CalibrationIlluminant2, 21)
	main.AddSRational(tag.ColorMatrix1, colorMatrix1[:]...)
	main.AddSRational(tag.ColorMatrix2, colorMatrix2[:]...)
}

// writeBaselineRawTags writes the fixed raw sub-IFD tags that describe
// how to interpret the Bayer sensor data, independent of its
// dimensions or tiling layout; only the Compression value depends on
// compress.
func writeBaselineRawTags(sub *tiff.IFD, compress bool) {
	sub.AddLong(tag.NewSubfileType, 0)
	sub.AddShort(tag.PhotometricInterpretation, 32803)
	sub.AddShort(tag.BitsPerSample, 16)
	sub.AddLong(tag.BayerGreenSplit, 500)
	sub.AddShort(tag.PlanarConfiguration, 1)
	if compress {
		sub.AddShort(tag.Compression, 7)
	} else {
		sub.AddShort(tag.Compression, 1)
	}
	sub.AddShort(tag.SamplesPerPixel, 1)
	sub.AddRational(tag.AntiAliasStrength, tiff.Rational{Num: 100, Den: 100})
	sub.AddRational(tag.BestQualityScale, tiff.Rational{Num: 1, Den: 1})
	sub.AddShort(tag.BlackLevelRepeatDim, 1, 1)
	sub.AddRational(tag.BlackLevel, tiff.Rational{Num: 0, Den: 256})
	sub.AddShort(tag.WhiteLevel, 4095)
}
