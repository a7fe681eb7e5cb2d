// Package huffman builds canonical Huffman code tables from the JPEG
// Annex K/C procedure: code-size derivation with a reserved phantom
// symbol, length limiting to 16 bits, and canonical code assignment.
package huffman

// Table holds a Huffman encoder table for up to 256 symbols.
//
// Invariant: for every symbol s with EHufSi[s] > 0, EHufCo[s] fits in
// EHufSi[s] bits, no code is a prefix of another, no code is all-ones, and
// every length is at most 16.
type Table struct {
	// Bits[L] is the number of codes of length L, for L in 1..16.
	Bits [17]byte
	// HuffVal lists symbols in order of ascending code length.
	HuffVal []byte
	// EHufCo[s] and EHufSi[s] are the canonical code word and its bit
	// length for symbol s. EHufSi[s] == 0 means s is unused.
	EHufCo [256]uint32
	EHufSi [256]byte
}

// Build runs the Annex K code-size derivation followed by the Annex C
// canonical code generation over a 256-entry symbol frequency histogram.
func Build(freq [256]uint64) *Table {
	codesize, lastk := buildCodesizeAndSort(freq)

	t := &Table{}
	countBits(t, codesize)
	sortInput(t, codesize)

	huffsize := generateSizeTable(t)
	huffcode := generateCodeTable(huffsize)
	orderCodes(t, huffcode, huffsize, lastk)

	return t
}

// buildCodesizeAndSort runs Figure K.1: it returns the per-symbol code
// length (index 256 is the reserved phantom symbol) and the count of
// symbols actually assigned a length (excluding the phantom).
func buildCodesizeAndSort(freqorig [256]uint64) (codesize [257]uint, lastk int) {
	var freq [257]uint64
	copy(freq[:256], freqorig[:])
	// Reserve one code point so no code word can ever be all-ones.
	freq[256] = 1

	var others [257]int
	for i := range others {
		others[i] = -1
	}

	for {
		v1, freq1 := -1, ^uint64(0)
		for i := 0; i < 257; i++ {
			if freq[i] > 0 && freq[i] <= freq1 {
				freq1 = freq[i]
				v1 = i
			}
		}
		v2, freq2 := -1, ^uint64(0)
		for i := 0; i < 257; i++ {
			if i != v1 && freq[i] > 0 && freq[i] <= freq2 {
				freq2 = freq[i]
				v2 = i
			}
		}
		if v2 < 0 {
			break
		}

		freq[v1] += freq[v2]
		freq[v2] = 0

		codesize[v1]++
		for others[v1] >= 0 {
			v1 = others[v1]
			codesize[v1]++
		}
		others[v1] = v2

		codesize[v2]++
		for others[v2] >= 0 {
			v2 = others[v2]
			codesize[v2]++
		}
	}

	for i := 0; i < 256; i++ {
		if codesize[i] > 0 {
			lastk++
		}
	}
	return codesize, lastk
}

// countBits runs Figure K.2 followed immediately by the Figure K.3 length
// limiting procedure, since the phantom symbol's length must be folded
// into bits before it can be stripped.
func countBits(t *Table, codesize [257]uint) {
	var bits [33]int
	for i := 0; i < 257; i++ {
		if codesize[i] > 0 {
			bits[codesize[i]]++
		}
	}
	adjustBits(&bits)
	byteBits := toByteBits(bits)
	copy(t.Bits[:], byteBits[:17])
}

func toByteBits(bits [33]int) [33]byte {
	var out [33]byte
	for i, v := range bits {
		out[i] = byte(v)
	}
	return out
}

// adjustBits implements Figure K.3: promote pairs from the longest length
// class until none exceeds 16, then remove the reserved phantom symbol
// from the longest remaining nonzero class.
func adjustBits(bits *[33]int) {
	i := 32
	for i > 16 {
		if bits[i] > 0 {
			j := i - 2
			for bits[j] == 0 {
				j--
			}
			bits[i] -= 2
			bits[i-1] += 1
			bits[j+1] += 2
			bits[j] -= 1
		} else {
			i--
		}
	}
	for bits[i] == 0 {
		i--
	}
	bits[i] -= 1
}

// sortInput implements Figure K.4: symbols ordered by ascending code
// length, stable ascending by symbol index within a length class.
func sortInput(t *Table, codesize [257]uint) {
	huffval := make([]byte, 0, 256)
	for length := uint(1); length <= 32; length++ {
		for sym := 0; sym < 256; sym++ {
			if codesize[sym] == length {
				huffval = append(huffval, byte(sym))
			}
		}
	}
	t.HuffVal = huffval
}

// generateSizeTable implements Annex C Figure C.1.
func generateSizeTable(t *Table) []uint {
	huffsize := make([]uint, 0, 256)
	for length := uint(1); length <= 16; length++ {
		for n := byte(0); n < t.Bits[length]; n++ {
			huffsize = append(huffsize, length)
		}
	}
	return huffsize
}

// generateCodeTable implements Annex C Figure C.2.
func generateCodeTable(huffsize []uint) []uint32 {
	huffcode := make([]uint32, len(huffsize))
	if len(huffsize) == 0 {
		return huffcode
	}
	code := uint32(0)
	si := huffsize[0]
	k := 0
	for k < len(huffsize) {
		for k < len(huffsize) && huffsize[k] == si {
			huffcode[k] = code
			code++
			k++
		}
		if k == len(huffsize) {
			break
		}
		for huffsize[k] != si {
			code <<= 1
			si++
		}
	}
	return huffcode
}

// orderCodes implements Annex C Figure C.3, placing each (code, length)
// pair at the symbol's own index.
func orderCodes(t *Table, huffcode []uint32, huffsize []uint, lastk int) {
	for k := 0; k < lastk; k++ {
		sym := t.HuffVal[k]
		t.EHufCo[sym] = huffcode[k]
		t.EHufSi[sym] = byte(huffsize[k])
	}
}
