// Package deflate implements an RFC 1951 DEFLATE inflater: canonical
// Huffman tree construction and decode, the three block types
// (uncompressed, fixed, dynamic), and LZ77 back-reference expansion.
//
// Grounded on XILoader's Inflator (original_source/include/XILoader/
// decompressor.h); the block loop, dynamic-header parsing, and
// decompress_block copy logic are a direct, idiomatic-Go rendition of
// that class.
package deflate

import (
	"errors"
	"fmt"

	"github.com/8infy/xiloader/internal/streamio"
)

var (
	fixedLitLenTree *huffmanTree
	fixedDistTree   *huffmanTree
)

func init() {
	lengths := make([]uint16, fixedLitLen)
	symbol := 0
	for ; symbol < 144; symbol++ {
		lengths[symbol] = 8
	}
	for ; symbol < 256; symbol++ {
		lengths[symbol] = 9
	}
	for ; symbol < 280; symbol++ {
		lengths[symbol] = 7
	}
	for ; symbol < fixedLitLen; symbol++ {
		lengths[symbol] = 8
	}
	var err error
	fixedLitLenTree, err = buildTree(lengths)
	if err != nil {
		panic("deflate: fixed literal/length tree failed to build: " + err.Error())
	}

	distLengths := make([]uint16, maxDist)
	for i := range distLengths {
		distLengths[i] = 5
	}
	fixedDistTree, err = buildTree(distLengths)
	if err != nil {
		panic("deflate: fixed distance tree failed to build: " + err.Error())
	}
}

// Inflate reads a full DEFLATE stream (one or more blocks, terminated by
// BFINAL) from bs and appends the decompressed bytes to out, returning
// the extended slice.
func Inflate(bs *streamio.BitStream, out []byte) ([]byte, error) {
	for {
		final, err := bs.ReadBits(1)
		if err != nil {
			return out, wrapTruncated(err)
		}

		btype, err := bs.ReadBits(2)
		if err != nil {
			return out, wrapTruncated(err)
		}

		switch btype {
		case 0:
			out, err = inflateStored(bs, out)
		case 1:
			out, err = decompressBlock(bs, fixedLitLenTree, fixedDistTree, out)
		case 2:
			out, err = inflateDynamic(bs, out)
		default:
			err = fmt.Errorf("%w: unknown BTYPE 3", ErrMalformed)
		}
		if err != nil {
			return out, err
		}

		if final == 1 {
			return out, nil
		}
	}
}

func inflateStored(bs *streamio.BitStream, out []byte) ([]byte, error) {
	if err := bs.FlushByte(false); err != nil {
		return out, wrapTruncated(err)
	}

	length, err := bs.ReadBits(16)
	if err != nil {
		return out, wrapTruncated(err)
	}
	negLength, err := bs.ReadBits(16)
	if err != nil {
		return out, wrapTruncated(err)
	}
	if length^0xffff != negLength {
		return out, fmt.Errorf("%w: LEN is not the one's complement of NLEN", ErrMalformed)
	}

	for i := uint32(0); i < length; i++ {
		b, err := bs.ReadBits(8)
		if err != nil {
			return out, wrapTruncated(err)
		}
		out = append(out, byte(b))
	}
	return out, nil
}

func inflateDynamic(bs *streamio.BitStream, out []byte) ([]byte, error) {
	hlitBits, err := bs.ReadBits(5)
	if err != nil {
		return out, wrapTruncated(err)
	}
	hlit := int(hlitBits) + 257

	hdistBits, err := bs.ReadBits(5)
	if err != nil {
		return out, wrapTruncated(err)
	}
	hdist := int(hdistBits) + 1

	hclenBits, err := bs.ReadBits(4)
	if err != nil {
		return out, wrapTruncated(err)
	}
	hclen := int(hclenBits) + 4

	if hlit > maxLitLen {
		return out, fmt.Errorf("%w: HLIT %d exceeds 286", ErrMalformed, hlit)
	}
	if hdist > maxDist {
		return out, fmt.Errorf("%w: HDIST %d exceeds 30", ErrMalformed, hdist)
	}

	clLengths := make([]uint16, codeLenAlpha)
	for i := 0; i < hclen; i++ {
		v, err := bs.ReadBits(3)
		if err != nil {
			return out, wrapTruncated(err)
		}
		clLengths[codeLengthOrder[i]] = uint16(v)
	}

	clTree, err := buildTree(clLengths)
	if err != nil {
		return out, err
	}

	total := hlit + hdist
	lengths := make([]uint16, total)
	index := 0
	for index < total {
		symbol, err := decodeOne(bs, clTree)
		if err != nil {
			return out, err
		}

		var repeat int
		var value uint16

		switch {
		case symbol < 16:
			lengths[index] = symbol
			index++
			continue
		case symbol == 16:
			if index == 0 {
				return out, fmt.Errorf("%w: repeat code 16 with no preceding length", ErrMalformed)
			}
			value = lengths[index-1]
			extra, err := bs.ReadBits(2)
			if err != nil {
				return out, wrapTruncated(err)
			}
			repeat = 3 + int(extra)
		case symbol == 17:
			extra, err := bs.ReadBits(3)
			if err != nil {
				return out, wrapTruncated(err)
			}
			repeat = 3 + int(extra)
		default: // 18
			extra, err := bs.ReadBits(7)
			if err != nil {
				return out, wrapTruncated(err)
			}
			repeat = 11 + int(extra)
		}

		if index+repeat > total {
			return out, fmt.Errorf("%w: repeat instruction exceeds code length table", ErrMalformed)
		}
		for ; repeat > 0; repeat-- {
			lengths[index] = value
			index++
		}
	}

	if lengths[endOfBlock] == 0 {
		return out, fmt.Errorf("%w: end-of-block symbol has zero length", ErrMalformed)
	}

	litLenTree, err := buildTree(lengths[:hlit])
	if err != nil {
		return out, err
	}
	distTree, err := buildTree(lengths[hlit:])
	if err != nil {
		return out, err
	}

	return decompressBlock(bs, litLenTree, distTree, out)
}

// decompressBlock decodes literal/length and distance symbols from a
// single Huffman-coded block until the end-of-block symbol (256) is
// read, expanding LZ77 back-references against the whole output
// accumulated so far (references may span block boundaries).
func decompressBlock(bs *streamio.BitStream, litLenTree, distTree *huffmanTree, out []byte) ([]byte, error) {
	for {
		symbol, err := decodeOne(bs, litLenTree)
		if err != nil {
			return out, err
		}

		if symbol < 256 {
			out = append(out, byte(symbol))
			continue
		}
		if symbol == 256 {
			return out, nil
		}

		lenSym := symbol - 257
		if int(lenSym) >= len(lengthBase) {
			return out, fmt.Errorf("%w: length symbol %d out of range", ErrMalformed, symbol)
		}
		extra, err := bs.ReadBits(lengthExtra[lenSym])
		if err != nil {
			return out, wrapTruncated(err)
		}
		length := int(lengthBase[lenSym]) + int(extra)

		distSymbol, err := decodeOne(bs, distTree)
		if err != nil {
			return out, err
		}
		if int(distSymbol) >= len(distanceBase) {
			return out, fmt.Errorf("%w: distance symbol %d out of range", ErrMalformed, distSymbol)
		}
		distExtra, err := bs.ReadBits(distanceExtra[distSymbol])
		if err != nil {
			return out, wrapTruncated(err)
		}
		distance := int(distanceBase[distSymbol]) + int(distExtra)

		if distance > len(out) {
			return out, fmt.Errorf("%w: distance %d exceeds %d bytes emitted", ErrMalformed, distance, len(out))
		}

		// Byte-by-byte, not a bulk copy: distance can be smaller than
		// length, and the copy must observe bytes it just emitted.
		start := len(out) - distance
		for i := 0; i < length; i++ {
			out = append(out, out[start+i])
		}
	}
}

func wrapTruncated(err error) error {
	if errors.Is(err, streamio.ErrTruncated) {
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return err
}
