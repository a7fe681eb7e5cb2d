package dng

import (
	"github.com/bruceg/dngutils/pkg/byteorder"
	"github.com/bruceg/dngutils/pkg/mrw"
)

// BuildDNGPrivateData assembles the DNGPrivateData tag payload: an
// "Adobe" creator tag, a "MakN" MakerNote marker, the original
// MakerNote bytes (byte-order-tagged with their source offset so a
// consumer can locate embedded pointers within them), followed by the
// PRD/WBG/RIF blocks re-prefixed with their original 8-byte
// marker+length headers — extra context the Adobe DNG converter also
// preserves here, even though parseTTW already copied their EXIF-visible
// fields onto the output IFDs.
func BuildDNGPrivateData(makerNote []byte, offset uint32, prd, wbg, rif mrw.Block) []byte {
	out := make([]byte, 0, 20+len(makerNote)+12+8+len(prd.Data)+8+len(wbg.Data)+8+len(rif.Data)+4)

	out = append(out, "Adobe\x00MakN"...)
	var lenBuf, offBuf [4]byte
	byteorder.PutUint32MSB(uint32(len(makerNote))+6, lenBuf[:])
	out = append(out, lenBuf[:]...)
	out = append(out, 'M', 'M')
	byteorder.PutUint32MSB(offset, offBuf[:])
	out = append(out, offBuf[:]...)

	out = append(out, makerNote...)

	mrwHeaderPos := len(out)
	out = append(out, "MRW \x00\x00\x00\x00MM\x00\x03"...)

	appendBlock := func(b mrw.Block) {
		var header [8]byte
		copy(header[0:4], b.Marker[:])
		byteorder.PutUint32MSB(b.Length, header[4:8])
		out = append(out, header[:]...)
		out = append(out, b.Data...)
	}
	appendBlock(prd)
	appendBlock(wbg)
	appendBlock(rif)

	mrwSectionLen := 8 + prd.Length + 8 + wbg.Length + 8 + rif.Length + 4
	byteorder.PutUint32MSB(mrwSectionLen, out[mrwHeaderPos+4:mrwHeaderPos+8])

	return out
}
