package dng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWhiteBalance(t *testing.T) {
	// Shifts all zero; gains 6400/3200/1600/640 for R/Gr/Gb/B so the
	// derived channel values land on round numbers: r=100, gr=50,
	// gb=25 (averaged to 37.5), b=10.
	w := make([]byte, 12)
	w[0], w[1], w[2], w[3] = 0, 0, 0, 0
	putU16 := func(b []byte, v uint16) {
		b[0] = byte(v >> 8)
		b[1] = byte(v)
	}
	putU16(w[4:6], 6400)
	putU16(w[6:8], 3200)
	putU16(w[8:10], 1600)
	putU16(w[10:12], 640)

	wb, err := ParseWhiteBalance(w)
	require.NoError(t, err)
	assert.InDelta(t, 100, wb.R, 1e-9)
	assert.InDelta(t, 37.5, wb.G, 1e-9)
	assert.InDelta(t, 10, wb.B, 1e-9)
}

func TestParseWhiteBalanceShift(t *testing.T) {
	// A shift of 1 doubles the divisor (64<<1 = 128), halving the
	// derived channel value for an unchanged gain.
	w := make([]byte, 12)
	w[0] = 1
	w[4], w[5] = 0, 100 // gain 100, shift 1 -> 100/128
	wb, err := ParseWhiteBalance(w)
	require.NoError(t, err)
	assert.InDelta(t, 100.0/128.0, wb.R, 1e-9)
}

func TestParseWhiteBalanceTooShort(t *testing.T) {
	_, err := ParseWhiteBalance(make([]byte, 11))
	assert.Error(t, err)
}

func TestAsShotNeutral(t *testing.T) {
	wb := WhiteBalance{R: 100, G: 50, B: 25}
	neutral := wb.AsShotNeutral()
	const scale = 1000000
	for i, want := range []float64{100, 50, 25} {
		assert.Equal(t, uint32(scale), neutral[i].Den)
		assert.InDelta(t, scale/want, float64(neutral[i].Num), 1)
	}
}

func TestAnalogBalanceIsUnity(t *testing.T) {
	for _, r := range AnalogBalance() {
		assert.Equal(t, r.Num, r.Den)
	}
}
