package ljpeg

// JPEG marker codes used by the lossless scan: start/end of image, the
// lossless sequential frame header, Huffman tables, and start of scan.
const (
	markerSOI = 0xD8
	markerEOI = 0xD9
	markerSOF3 = 0xC3
	markerDHT  = 0xC4
	markerSOS  = 0xDA
)
