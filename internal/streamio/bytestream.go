// Package streamio implements the two sequential readers the BMP and PNG
// decoders are built on: a bounds-checked byte cursor (ByteStream) and a
// chunked bit cursor (BitStream) supporting both DEFLATE's LSB-first and
// PNG's MSB-first bit order.
//
// Grounded on XILoader's DataStream and ChunkedBitReader
// (original_source/include/XILoader/data_stream.h).
package streamio

import "errors"

// ErrTruncated is returned whenever a read would consume past the end of
// the underlying region.
var ErrTruncated = errors.New("streamio: truncated")

// ByteStream is a read-only, bounds-checked view over an immutable byte
// region with a cursor. It never copies the region it was built from;
// Subset returns an independent view sharing the same backing array.
type ByteStream struct {
	data   []byte
	cursor int
}

// NewByteStream wraps data in a ByteStream starting at offset 0.
func NewByteStream(data []byte) *ByteStream {
	return &ByteStream{data: data}
}

// BytesRead returns the number of bytes consumed so far.
func (s *ByteStream) BytesRead() int {
	return s.cursor
}

// BytesLeft returns the number of unread bytes remaining.
func (s *ByteStream) BytesLeft() int {
	return len(s.data) - s.cursor
}

func (s *ByteStream) hasAtLeast(n int) bool {
	return s.BytesLeft() >= n
}

// ReadU8 reads one unsigned byte.
func (s *ByteStream) ReadU8() (uint8, error) {
	if !s.hasAtLeast(1) {
		return 0, ErrTruncated
	}
	v := s.data[s.cursor]
	s.cursor++
	return v, nil
}

// ReadU16LE reads a little-endian 16-bit unsigned integer.
func (s *ByteStream) ReadU16LE() (uint16, error) {
	if !s.hasAtLeast(2) {
		return 0, ErrTruncated
	}
	v := uint16(s.data[s.cursor]) | uint16(s.data[s.cursor+1])<<8
	s.cursor += 2
	return v, nil
}

// ReadU32LE reads a little-endian 32-bit unsigned integer.
func (s *ByteStream) ReadU32LE() (uint32, error) {
	if !s.hasAtLeast(4) {
		return 0, ErrTruncated
	}
	v := uint32(s.data[s.cursor]) | uint32(s.data[s.cursor+1])<<8 |
		uint32(s.data[s.cursor+2])<<16 | uint32(s.data[s.cursor+3])<<24
	s.cursor += 4
	return v, nil
}

// ReadI32LE reads a little-endian signed 32-bit integer.
func (s *ByteStream) ReadI32LE() (int32, error) {
	v, err := s.ReadU32LE()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// ReadU32BE reads a big-endian 32-bit unsigned integer, used by PNG chunk
// headers and IHDR fields.
func (s *ByteStream) ReadU32BE() (uint32, error) {
	if !s.hasAtLeast(4) {
		return 0, ErrTruncated
	}
	v := uint32(s.data[s.cursor])<<24 | uint32(s.data[s.cursor+1])<<16 |
		uint32(s.data[s.cursor+2])<<8 | uint32(s.data[s.cursor+3])
	s.cursor += 4
	return v, nil
}

// ReadN copies the next n bytes into dst, which must have length n.
func (s *ByteStream) ReadN(n int, dst []byte) error {
	if !s.hasAtLeast(n) {
		return ErrTruncated
	}
	copy(dst, s.data[s.cursor:s.cursor+n])
	s.cursor += n
	return nil
}

// PeekN copies the next n bytes into dst without advancing the cursor.
func (s *ByteStream) PeekN(n int, dst []byte) error {
	if !s.hasAtLeast(n) {
		return ErrTruncated
	}
	copy(dst, s.data[s.cursor:s.cursor+n])
	return nil
}

// SkipN advances the cursor by n bytes.
func (s *ByteStream) SkipN(n int) error {
	if !s.hasAtLeast(n) {
		return ErrTruncated
	}
	s.cursor += n
	return nil
}

// RewindN moves the cursor back by n bytes.
func (s *ByteStream) RewindN(n int) error {
	if s.cursor < n {
		return ErrTruncated
	}
	s.cursor -= n
	return nil
}

// Subset returns an independent ByteStream over the next n bytes and
// advances this stream's cursor past them. The returned stream shares the
// backing array (read-only) and is valid for at least as long as s.
func (s *ByteStream) Subset(n int) (*ByteStream, error) {
	if !s.hasAtLeast(n) {
		return nil, ErrTruncated
	}
	sub := &ByteStream{data: s.data[s.cursor : s.cursor+n]}
	s.cursor += n
	return sub, nil
}

// Bytes returns the full backing region this stream views (ignoring the
// cursor). Used by callers that need to hand the raw region to a
// BitStream chunk.
func (s *ByteStream) Bytes() []byte {
	return s.data
}

