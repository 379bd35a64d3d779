package streamio

import (
	"bytes"

	"github.com/creachadair/bitstream"
)

// BitOrder selects how bits are packed within a byte when read from a
// BitStream. DEFLATE consumes LSB-first; PNG's paletted/grayscale sample
// unpacking consumes MSB-first.
type BitOrder uint8

const (
	// LSBFirst pulls the low-order bit of the current byte first.
	LSBFirst BitOrder = iota
	// MSBFirst pulls the high-order bit of the current byte first.
	MSBFirst
)

// BitStream is a bit-addressable cursor over one or more appended byte
// chunks, folded into a single continuous stream — which is how the
// PNG decoder concatenates successive IDAT payloads before inflating
// them. It wraps a github.com/creachadair/bitstream.Reader: chunk data
// is buffered ahead of the first read, exactly matching the way every
// caller in this tree gathers a stream's bytes before it starts
// pulling bits out of it.
//
// github.com/creachadair/bitstream.Reader always delivers the first
// bit it reads as the most significant bit of a multi-bit result,
// regardless of the MSBFirst/LSBFirst option — that option only
// controls which physical bit of each source byte is read first. RFC
// 1951 needs the opposite convention for multi-bit fields (the first
// bit read is the *least* significant bit of the result), so LSBFirst
// reads are corrected with reverseBits after the library call; MSBFirst
// reads, which PNG needs and which already match the library's native
// grouping, pass through untouched.
//
// Grounded on XILoader's ChunkedBitReader (data_stream.h).
type BitStream struct {
	order BitOrder
	buf   *bytes.Buffer
	r     *bitstream.Reader
	nbits uint64 // total bits delivered so far, for FlushByte's byte alignment
}

// NewBitStream creates an empty BitStream in the given bit order. Chunks
// are added with AppendChunk.
func NewBitStream(order BitOrder) *BitStream {
	buf := new(bytes.Buffer)
	opt := bitstream.MSBFirst
	if order == LSBFirst {
		opt = bitstream.LSBFirst
	}
	return &BitStream{
		order: order,
		buf:   buf,
		r:     bitstream.NewReader(buf, opt),
	}
}

// AppendChunk enqueues data to be read next. If preserveOffset is set,
// the leading byteOffset bytes of data are dropped before buffering
// (used by PNG to skip the two zlib header bytes already consumed from
// the first IDAT); otherwise the whole chunk is kept.
func (b *BitStream) AppendChunk(data []byte, byteOffset int, preserveOffset bool) {
	if preserveOffset {
		data = data[byteOffset:]
	}
	b.buf.Write(data)
}

// FlushByte advances to the next byte boundary. If force is false and
// the stream is already aligned, it is a no-op — DEFLATE's uncompressed
// blocks rely on this to align without skipping a byte they haven't
// started reading.
func (b *BitStream) FlushByte(force bool) error {
	rem := uint8(b.nbits % 8)
	if rem == 0 {
		if !force {
			return nil
		}
		return b.discard(8)
	}
	return b.discard(8 - rem)
}

// SkipBytes advances the cursor by count whole bytes.
func (b *BitStream) SkipBytes(count int) error {
	return b.SkipBits(count * 8)
}

// SkipBits advances the cursor by count bits.
func (b *BitStream) SkipBits(count int) error {
	for count > 0 {
		take := count
		if take > 64 {
			take = 64
		}
		if err := b.discard(uint8(take)); err != nil {
			return err
		}
		count -= take
	}
	return nil
}

func (b *BitStream) discard(n uint8) error {
	if n == 0 {
		return nil
	}
	got, err := b.r.ReadBits(int(n), nil)
	b.nbits += uint64(got)
	if err != nil || got < int(n) {
		return ErrTruncated
	}
	return nil
}

// ReadBits reads the next n bits (1..32) and returns them as a uint32.
//
// In LSBFirst mode bits are concatenated low-order-first: the first bit
// read becomes the result's bit 0, matching RFC 1951's packing. In
// MSBFirst mode the first bit read becomes the most significant bit of
// the n-bit result, matching PNG's paletted/grayscale sample packing.
func (b *BitStream) ReadBits(n uint8) (uint32, error) {
	if n == 0 {
		return 0, nil
	}
	if n > 32 {
		return 0, ErrTruncated
	}

	var raw uint64
	got, err := b.r.ReadBits(int(n), &raw)
	b.nbits += uint64(got)
	if err != nil || got < int(n) {
		return 0, ErrTruncated
	}

	if b.order == LSBFirst {
		raw = reverseBits(raw, n)
	}
	return uint32(raw), nil
}

// reverseBits reverses the order of the low n bits of v.
func reverseBits(v uint64, n uint8) uint64 {
	var out uint64
	for i := uint8(0); i < n; i++ {
		out = (out << 1) | (v & 1)
		v >>= 1
	}
	return out
}
