package ljpeg

import (
	"bytes"
	"testing"
)

func constantGrid(rows, cols int, val uint16) Grid {
	samples := make([]uint16, rows*cols)
	for i := range samples {
		samples[i] = val
	}
	return Grid{Rows: rows, Cols: cols, Stride: cols, Samples: samples}
}

func TestEncodeMarkerFraming(t *testing.T) {
	g := constantGrid(4, 4, 2048)
	var buf bytes.Buffer
	if err := Encode(&buf, g, 4, 4, 12, Options{MultiTable: true}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := buf.Bytes()
	if len(out) < 4 {
		t.Fatalf("output too short: %d bytes", len(out))
	}
	if out[0] != 0xFF || out[1] != markerSOI {
		t.Fatalf("expected SOI at start, got %02x %02x", out[0], out[1])
	}
	if out[len(out)-2] != 0xFF || out[len(out)-1] != markerEOI {
		t.Fatalf("expected EOI at end, got %02x %02x", out[len(out)-2], out[len(out)-1])
	}
	if !bytes.Contains(out, []byte{0xFF, markerSOF3}) {
		t.Fatal("missing SOF3 marker")
	}
	if !bytes.Contains(out, []byte{0xFF, markerDHT}) {
		t.Fatal("missing DHT marker")
	}
	if !bytes.Contains(out, []byte{0xFF, markerSOS}) {
		t.Fatal("missing SOS marker")
	}
}

func TestEncodeSingleTableMode(t *testing.T) {
	g := constantGrid(4, 4, 100)
	var buf bytes.Buffer
	if err := Encode(&buf, g, 4, 4, 12, Options{MultiTable: false}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := buf.Bytes()
	count := bytes.Count(out, []byte{0xFF, markerDHT})
	if count != 1 {
		t.Fatalf("expected exactly one DHT segment in single-table mode, got %d", count)
	}
}

func TestEncodeMultiTableMode(t *testing.T) {
	g := constantGrid(4, 4, 100)
	var buf bytes.Buffer
	if err := Encode(&buf, g, 4, 4, 12, Options{MultiTable: true}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := buf.Bytes()
	count := bytes.Count(out, []byte{0xFF, markerDHT})
	if count != 2 {
		t.Fatalf("expected exactly two DHT segments in multi-table mode, got %d", count)
	}
}

func TestEncodeRejectsOddDimensions(t *testing.T) {
	g := constantGrid(3, 4, 1)
	var buf bytes.Buffer
	if err := Encode(&buf, g, 3, 4, 12, Options{}); err == nil {
		t.Fatal("expected error for odd row count")
	}
}

func TestEncodePadsShortTile(t *testing.T) {
	// Grid only supplies the top-left 2x2 corner of a declared 4x4 tile;
	// the rest should be padded with category-0 residuals, not panic.
	g := Grid{Rows: 2, Cols: 2, Stride: 2, Samples: []uint16{10, 20, 30, 40}}
	var buf bytes.Buffer
	if err := Encode(&buf, g, 4, 4, 12, Options{MultiTable: true}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
}

func TestWalkConstantGridYieldsMostlyZeroResiduals(t *testing.T) {
	// With predictor 1 (Px = Ra) every step after the very first pair of
	// the image predicts from an identical neighbour, so only the seed
	// mismatch at row 0 col 0 (predicted from 1<<(bitDepth-1), not from
	// a real neighbour) can produce a nonzero residual.
	g := constantGrid(6, 6, 512)
	var nonZero int
	walk(g, 6, 6, 12, 1, func(lane int, residual int32) {
		if residual != 0 {
			nonZero++
		}
	})
	if nonZero > 2 {
		t.Fatalf("expected at most 2 nonzero residuals (the initial seed mismatch) on a constant grid, got %d", nonZero)
	}
}
