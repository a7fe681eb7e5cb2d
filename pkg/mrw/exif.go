package mrw

import "github.com/bruceg/dngutils/pkg/byteorder"

// EntryHandler receives one decoded directory entry while walking an
// embedded big-endian TIFF-style IFD: start is the buffer the entry's
// tag/type/count/value were read from (needed to resolve value as an
// offset back into the same buffer for out-of-line payloads).
type EntryHandler func(start []byte, tag uint16, typ uint16, count uint32, value uint32)

// WalkIFD parses one big-endian IFD within start at byte offset and
// calls fn once per entry, in file order. It does not follow the
// next-IFD link; every embedded directory this module reads (the TTW
// block's EXIF IFD, a MakerNote, an Interoperability IFD) is walked
// individually by its own caller instead.
func WalkIFD(start []byte, offset uint32, fn EntryHandler) {
	entries := byteorder.Uint16MSB(start[offset:])
	offset += 2
	for i := uint16(0); i < entries; i++ {
		tag := byteorder.Uint16MSB(start[offset:])
		typ := byteorder.Uint16MSB(start[offset+2:])
		count := byteorder.Uint32MSB(start[offset+4:])
		value := byteorder.Uint32MSB(start[offset+8:])
		fn(start, tag, typ, count, value)
		offset += 12
	}
}
