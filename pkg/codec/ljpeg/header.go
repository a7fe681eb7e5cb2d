package ljpeg

import (
	"github.com/bruceg/dngutils/pkg/bitio"
	"github.com/bruceg/dngutils/pkg/huffman"
)

// writeHeader emits SOI, one SOF3 lossless frame header, one or two DHT
// segments, and the SOS header that starts the entropy-coded scan.
func writeHeader(bw *bitio.BitWriter, bitDepth, height, width int, predictor byte, table0, table1 *huffman.Table, multiTable bool) error {
	if err := bw.WriteMarker(markerSOI); err != nil {
		return err
	}
	if err := writeSOF3(bw, bitDepth, height, width); err != nil {
		return err
	}

	selectors := [2]byte{0, 0}
	if err := writeDHT(bw, 0, table0); err != nil {
		return err
	}
	if multiTable {
		selectors[1] = 1
		if err := writeDHT(bw, 1, table1); err != nil {
			return err
		}
	}

	return writeSOS(bw, predictor, selectors)
}

// writeSOF3 emits the lossless sequential frame header (SOF3): sample
// precision, image dimensions, and one component descriptor per sample
// lane, both at 1:1 sampling with no quantization table.
func writeSOF3(bw *bitio.BitWriter, bitDepth, height, width int) error {
	if err := bw.WriteMarker(markerSOF3); err != nil {
		return err
	}
	const nf = 2
	length := uint16(2 + 1 + 2 + 2 + 1 + nf*3)
	if err := bw.WriteWord(length); err != nil {
		return err
	}
	if err := bw.WriteByte(byte(bitDepth)); err != nil {
		return err
	}
	if err := bw.WriteWord(uint16(height)); err != nil {
		return err
	}
	if err := bw.WriteWord(uint16(width)); err != nil {
		return err
	}
	if err := bw.WriteByte(nf); err != nil {
		return err
	}
	for id := byte(1); id <= nf; id++ {
		if err := bw.WriteByte(id); err != nil {
			return err
		}
		if err := bw.WriteByte(0x11); err != nil {
			return err
		}
		if err := bw.WriteByte(0); err != nil {
			return err
		}
	}
	return nil
}

// writeDHT emits one Huffman table segment. tableID is the destination
// slot (0 or 1); the table class nibble is always 0, the only class
// lossless scans use.
func writeDHT(bw *bitio.BitWriter, tableID byte, t *huffman.Table) error {
	if err := bw.WriteMarker(markerDHT); err != nil {
		return err
	}
	length := uint16(2 + 1 + 16 + len(t.HuffVal))
	if err := bw.WriteWord(length); err != nil {
		return err
	}
	if err := bw.WriteByte(tableID); err != nil {
		return err
	}
	for l := 1; l <= 16; l++ {
		if err := bw.WriteByte(t.Bits[l]); err != nil {
			return err
		}
	}
	for _, v := range t.HuffVal {
		if err := bw.WriteByte(v); err != nil {
			return err
		}
	}
	return nil
}

// writeSOS emits the scan header: two components, each selecting its
// Huffman table via selectors, and the predictor selection value
// carried in the spectral-selection-start field per the lossless scan
// convention. Successive approximation and end-of-spectral-selection
// are unused and fixed to 0.
func writeSOS(bw *bitio.BitWriter, predictor byte, selectors [2]byte) error {
	if err := bw.WriteMarker(markerSOS); err != nil {
		return err
	}
	const ns = 2
	length := uint16(2 + 1 + ns*2 + 3)
	if err := bw.WriteWord(length); err != nil {
		return err
	}
	if err := bw.WriteByte(ns); err != nil {
		return err
	}
	for i := 0; i < ns; i++ {
		if err := bw.WriteByte(byte(i + 1)); err != nil {
			return err
		}
		if err := bw.WriteByte(selectors[i] << 4); err != nil {
			return err
		}
	}
	if err := bw.WriteByte(predictor); err != nil {
		return err
	}
	if err := bw.WriteByte(0); err != nil {
		return err
	}
	return bw.WriteByte(0)
}
