// Package byteorder packs and unpacks fixed-width integers in either
// byte order. MRW and EXIF data is big-endian; TIFF/DNG output is
// little-endian.
package byteorder

// Uint16MSB reads a big-endian uint16 starting at b[0].
func Uint16MSB(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

// Uint32MSB reads a big-endian uint32 starting at b[0].
func Uint32MSB(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// Uint32LSB reads a little-endian uint32 starting at b[0].
func Uint32LSB(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// Uint16LSB reads a little-endian uint16 starting at b[0].
func Uint16LSB(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

// PutUint16MSB writes v big-endian into b[0:2].
func PutUint16MSB(v uint16, b []byte) {
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}

// PutUint16LSB writes v little-endian into b[0:2].
func PutUint16LSB(v uint16, b []byte) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

// PutUint32LSB writes v little-endian into b[0:4].
func PutUint32LSB(v uint32, b []byte) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// PutUint32MSB writes v big-endian into b[0:4].
func PutUint32MSB(v uint32, b []byte) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}
