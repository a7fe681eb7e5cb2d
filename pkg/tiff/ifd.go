// Package tiff writes little-endian TIFF/DNG files: typed tag entries
// grouped into IFDs, sorted by ascending tag ID, with payloads over
// four bytes relocated out of line and a size computation that matches
// what gets physically written.
package tiff

import (
	"sort"

	"github.com/bruceg/dngutils/pkg/byteorder"
	"github.com/bruceg/dngutils/pkg/tiff/tag"
)

// Type is a TIFF field data type, as defined by the baseline 6.0 spec.
type Type uint16

const (
	Byte Type = 1 + iota
	ASCII
	Short
	Long
	RationalType
	SByte
	Undefined
	SShort
	SLong
	SRationalType
	Float
	Double
)

// typeSize gives the encoded byte width of a single value of each type,
// indexed by Type; index 0 is unused padding so Type values index
// directly.
var typeSize = [...]uint32{0, 1, 1, 2, 4, 8, 1, 1, 2, 4, 8, 4, 8}

// Entry is one fully-packed tag: Data already holds the little-endian
// encoded payload, rounded up to an even length the way the original
// writer pads it.
type Entry struct {
	ID    tag.ID
	Type  Type
	Count uint32
	Data  []byte
}

// Size returns the payload's on-disk footprint, len(Data), which is
// already padded to an even length; it drives the inline/out-of-line
// placement decision.
func (e *Entry) Size() uint32 {
	return uint32(len(e.Data))
}

// IFD is an ordered collection of tag entries forming one directory.
// Entries are kept in a plain slice rather than the original's linked
// list: that data structure choice only mattered for the original's
// find-or-replace insertion semantics, which this writer does not need
// since every IFD is built once, tag by tag, before being sorted and
// written.
type IFD struct {
	Entries []Entry
}

func roundEven(n uint32) uint32 {
	return (n + 1) &^ 1
}

// Add appends a raw entry; count and the already-encoded little-endian
// data must agree with typ's element size.
func (ifd *IFD) Add(id tag.ID, typ Type, count uint32, data []byte) *Entry {
	padded := make([]byte, roundEven(uint32(len(data))))
	copy(padded, data)
	ifd.Entries = append(ifd.Entries, Entry{ID: id, Type: typ, Count: count, Data: padded})
	return &ifd.Entries[len(ifd.Entries)-1]
}

// AddASCII adds a NUL-terminated string value.
func (ifd *IFD) AddASCII(id tag.ID, s string) *Entry {
	b := append([]byte(s), 0)
	return ifd.Add(id, ASCII, uint32(len(b)), b)
}

// AddByte adds a raw byte array value.
func (ifd *IFD) AddByte(id tag.ID, b []byte) *Entry {
	return ifd.Add(id, Byte, uint32(len(b)), b)
}

// AddUndefined adds an opaque byte array value, used for maker notes
// and other tags whose contents this module does not interpret.
func (ifd *IFD) AddUndefined(id tag.ID, b []byte) *Entry {
	return ifd.Add(id, Undefined, uint32(len(b)), b)
}

// AddLong adds one or more 32-bit unsigned values.
func (ifd *IFD) AddLong(id tag.ID, vals ...uint32) *Entry {
	data := make([]byte, len(vals)*4)
	for i, v := range vals {
		byteorder.PutUint32LSB(v, data[i*4:])
	}
	return ifd.Add(id, Long, uint32(len(vals)), data)
}

// AddShort adds one or more 16-bit unsigned values.
func (ifd *IFD) AddShort(id tag.ID, vals ...uint16) *Entry {
	data := make([]byte, len(vals)*2)
	for i, v := range vals {
		byteorder.PutUint16LSB(v, data[i*2:])
	}
	return ifd.Add(id, Short, uint32(len(vals)), data)
}

// AddSShort adds one or more 16-bit signed values.
func (ifd *IFD) AddSShort(id tag.ID, vals ...int16) *Entry {
	data := make([]byte, len(vals)*2)
	for i, v := range vals {
		byteorder.PutUint16LSB(uint16(v), data[i*2:])
	}
	return ifd.Add(id, SShort, uint32(len(vals)), data)
}

// Rational is an unsigned fraction, numerator over denominator.
type Rational struct{ Num, Den uint32 }

// SRational is a signed fraction.
type SRational struct{ Num, Den int32 }

// AddRational adds one or more unsigned fraction values.
func (ifd *IFD) AddRational(id tag.ID, vals ...Rational) *Entry {
	data := make([]byte, len(vals)*8)
	for i, v := range vals {
		byteorder.PutUint32LSB(v.Num, data[i*8:])
		byteorder.PutUint32LSB(v.Den, data[i*8+4:])
	}
	return ifd.Add(id, RationalType, uint32(len(vals)), data)
}

// AddSRational adds one or more signed fraction values.
func (ifd *IFD) AddSRational(id tag.ID, vals ...SRational) *Entry {
	data := make([]byte, len(vals)*8)
	for i, v := range vals {
		byteorder.PutUint32LSB(uint32(v.Num), data[i*8:])
		byteorder.PutUint32LSB(uint32(v.Den), data[i*8+4:])
	}
	return ifd.Add(id, SRationalType, uint32(len(vals)), data)
}

func (ifd *IFD) sort() {
	sort.Slice(ifd.Entries, func(i, j int) bool {
		return ifd.Entries[i].ID < ifd.Entries[j].ID
	})
}

// size returns the total bytes tiff.Writer.WriteIFD will emit for this
// directory: the 2-byte count, 12 bytes per entry, the 4-byte next-IFD
// link, and any out-of-line payloads, rounded up to a 4-byte boundary.
func (ifd *IFD) size() uint32 {
	var outOfLine uint32
	for i := range ifd.Entries {
		if ifd.Entries[i].Size() > 4 {
			outOfLine += ifd.Entries[i].Size()
		}
	}
	total := outOfLine + 2 + uint32(len(ifd.Entries))*12 + 4
	return (total + 3) &^ 3
}
