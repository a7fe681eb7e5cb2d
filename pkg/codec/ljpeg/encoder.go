// Package ljpeg implements the lossless-JPEG entropy coder used to
// compress Bayer sensor tiles: Huffman-coded prediction residuals framed
// by SOF3/DHT/SOS, adapted from the classic predictive scheme in Annex
// H of ISO/IEC 10918-1 rather than the adaptive Golomb-Rice JPEG-LS
// algorithm its name might suggest.
package ljpeg

import (
	"fmt"
	"io"

	"github.com/bruceg/dngutils/pkg/bitio"
	"github.com/bruceg/dngutils/pkg/huffman"
)

// Options controls encoder table selection.
type Options struct {
	// MultiTable, when true, builds one Huffman table per sample lane.
	// When false, both lanes share a single merged table.
	MultiTable bool
}

// Grid is a read-only view over a rectangle of raw Bayer samples. Rows
// and Cols describe how much of the rectangle actually holds data;
// tiles at the right or bottom edge of an image may declare a larger
// area than they can fill, in which case Encode pads the shortfall.
type Grid struct {
	Rows, Cols int
	Stride     int
	Samples    []uint16
}

func (g Grid) at(row, col int) int32 {
	return int32(g.Samples[row*g.Stride+col])
}

func sampleAt(g Grid, row, col int) (int32, bool) {
	if row >= g.Rows || col >= g.Cols {
		return 0, false
	}
	return g.at(row, col), true
}

// Encode writes one lossless-JPEG entropy-coded scan for a declRows x
// declCols Bayer sample region to w. Rows are paired two at a time and
// concatenated into a single output row of declCols two-sample columns
// (twice the physical row's sample count), halving the declared image
// height; see walk for the full transform. bitDepth is
// the sample precision (12 for MRW raw data).
func Encode(w io.Writer, g Grid, declRows, declCols, bitDepth int, opts Options) error {
	if declRows%2 != 0 || declCols%2 != 0 {
		return fmt.Errorf("ljpeg: declared dimensions must be even, got %dx%d", declRows, declCols)
	}

	trials := make([][2][256]uint64, 7)
	for p := 1; p <= 7; p++ {
		walk(g, declRows, declCols, bitDepth, p, func(lane int, residual int32) {
			trials[p-1][lane][category(residual)]++
		})
	}

	bestPredictor := 1
	var bestCost uint64
	for p := 1; p <= 7; p++ {
		merged := mergeFreq(trials[p-1][0], trials[p-1][1])
		table := huffman.Build(merged)
		cost := estimateCost(table, merged)
		if p == 1 || cost < bestCost {
			bestCost = cost
			bestPredictor = p
		}
	}

	freq0, freq1 := trials[bestPredictor-1][0], trials[bestPredictor-1][1]

	var table0, table1 *huffman.Table
	if opts.MultiTable {
		table0 = huffman.Build(freq0)
		table1 = huffman.Build(freq1)
	} else {
		shared := huffman.Build(mergeFreq(freq0, freq1))
		table0, table1 = shared, shared
	}

	stream := bitio.NewByteStream()
	bw := bitio.NewBitWriter(stream)

	height, width := declRows/2, declCols
	if err := writeHeader(bw, bitDepth, height, width, byte(bestPredictor), table0, table1, opts.MultiTable); err != nil {
		return err
	}

	var walkErr error
	walk(g, declRows, declCols, bitDepth, bestPredictor, func(lane int, residual int32) {
		if walkErr != nil {
			return
		}
		table := table0
		if lane == 1 {
			table = table1
		}
		if err := writeResidual(bw, table, residual); err != nil {
			walkErr = err
		}
	})
	if walkErr != nil {
		return walkErr
	}

	if err := bw.Flush(); err != nil {
		return err
	}
	if err := bw.WriteMarker(markerEOI); err != nil {
		return err
	}

	_, err := stream.WriteTo(w.Write)
	return err
}

func mergeFreq(a, b [256]uint64) [256]uint64 {
	var out [256]uint64
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}

// estimateCost approximates the encoded bit count for a table over its
// own histogram: for each category, (code length + mantissa bits) times
// how often that category occurred.
func estimateCost(t *huffman.Table, freq [256]uint64) uint64 {
	var cost uint64
	for cat := 0; cat <= 16; cat++ {
		if freq[cat] == 0 {
			continue
		}
		cost += (uint64(t.EHufSi[cat]) + uint64(cat)) * freq[cat]
	}
	return cost
}

// walk traverses a declRows x declCols Bayer region as declRows/2 paired
// rows, each processed as declCols two-sample steps. Each paired row is
// the concatenation of two physical rows; a step index below half the
// width reads the first physical row, at or above half reads the
// second, so the color pairing resets in the middle of every row.
//
// The predictor for a step's pair is seeded, at the start of each row,
// from the first step's actual values of the previous output row (or
// 1<<(bitDepth-1) for the first row, which also forces predictor 1
// throughout). Every later step recomputes it from Ra (the pair just
// encoded), Rb and Rc (the previous row's pair at this step and the one
// before it). Steps past the available data, whether from a short tile
// or a short final row pair, contribute a category-0 residual and leave
// the predictor unchanged.
func walk(g Grid, declRows, declCols, bitDepth, predictor int, action func(lane int, residual int32)) {
	half := declCols / 2
	initVal := int32(1) << uint(bitDepth-1)
	prevRow := make([][2]int32, declCols)
	seed0, seed1 := initVal, initVal

	for rp := 0; rp < declRows/2; rp++ {
		pred := predictor
		if rp == 0 {
			pred = 1
		}
		currRow := make([][2]int32, declCols)
		pred0, pred1 := seed0, seed1

		for k := 0; k < declCols; k++ {
			var physRow, col int
			if k < half {
				physRow, col = rp*2, 2*k
			} else {
				physRow, col = rp*2+1, 2*(k-half)
			}

			v0, ok0 := sampleAt(g, physRow, col)
			v1, ok1 := sampleAt(g, physRow, col+1)

			var actual0, actual1 int32
			if ok0 && ok1 {
				actual0, actual1 = v0, v1
				action(0, actual0-pred0)
				action(1, actual1-pred1)
			} else {
				actual0, actual1 = pred0, pred1
				action(0, 0)
				action(1, 0)
			}
			currRow[k] = [2]int32{actual0, actual1}

			if k+1 < declCols {
				rb0, rb1 := prevRow[k+1][0], prevRow[k+1][1]
				rc0, rc1 := prevRow[k][0], prevRow[k][1]
				pred0 = predict(pred, actual0, rb0, rc0)
				pred1 = predict(pred, actual1, rb1, rc1)
			}
		}

		seed0, seed1 = currRow[0][0], currRow[0][1]
		prevRow = currRow
	}
}

// writeResidual emits one Huffman-coded category symbol followed by its
// mantissa bits, omitted for category 0 (an exact match, no bits
// needed) and for category 16 (a fixed-magnitude residual with nothing
// left to distinguish).
func writeResidual(bw *bitio.BitWriter, t *huffman.Table, residual int32) error {
	cat := category(residual)
	if err := bw.WriteBits(uint(t.EHufSi[cat]), t.EHufCo[cat]); err != nil {
		return err
	}
	if cat == 0 || cat == 16 {
		return nil
	}
	data := residual
	if data < 0 {
		data = ^(-data)
	}
	mask := uint32(1)<<uint(cat) - 1
	return bw.WriteBits(uint(cat), uint32(data)&mask)
}
