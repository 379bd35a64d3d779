package deflate

import (
	"fmt"

	"github.com/8infy/xiloader/internal/streamio"
)

// huffmanTree is a canonical Huffman decode table: count[l] holds the
// number of symbols of code length l, and symbols holds every symbol
// with nonzero length ordered primarily by length, secondarily by symbol
// value — the canonical-Huffman numbering.
//
// Grounded on XILoader's decompressor.h huffman_tree/construct_tree/
// decode_one.
type huffmanTree struct {
	count   [maxBits + 1]uint16
	symbols []uint16
}

// buildTree constructs a canonical Huffman tree from a code-length table.
// lengths[i] is the code length of symbol i (0 means "symbol absent").
func buildTree(lengths []uint16) (*huffmanTree, error) {
	t := &huffmanTree{symbols: make([]uint16, len(lengths))}

	for _, l := range lengths {
		t.count[l]++
	}

	if int(t.count[0]) == len(lengths) {
		return nil, fmt.Errorf("%w: all codes in the tree are zero length", ErrMalformed)
	}

	// Kraft-McMillan: verify the code lengths describe a valid prefix
	// code before computing offsets.
	codesLeft := 1
	for length := 1; length <= maxBits; length++ {
		codesLeft <<= 1
		codesLeft -= int(t.count[length])
		if codesLeft < 0 {
			return nil, fmt.Errorf("%w: more codes for length %d than allowed", ErrMalformed, length)
		}
	}

	var offsets [maxBits + 2]uint16
	for length := 1; length <= maxBits; length++ {
		offsets[length+1] = offsets[length] + t.count[length]
	}

	for symbol, length := range lengths {
		if length != 0 {
			t.symbols[offsets[length]] = uint16(symbol)
			offsets[length]++
		}
	}

	return t, nil
}

// decodeOne walks bits one at a time until they identify a single symbol
// in t, per the canonical-Huffman decode algorithm.
func decodeOne(bs *streamio.BitStream, t *huffmanTree) (uint16, error) {
	var code, first, index int32

	for length := 1; length <= maxBits; length++ {
		bit, err := bs.ReadBits(1)
		if err != nil {
			return 0, err
		}
		code |= int32(bit)

		count := int32(t.count[length])
		if code-count < first {
			return t.symbols[index+(code-first)], nil
		}
		index += count
		first += count
		first <<= 1
		code <<= 1
	}

	return 0, fmt.Errorf("%w: huffman code exceeds %d bits", ErrMalformed, maxBits)
}
