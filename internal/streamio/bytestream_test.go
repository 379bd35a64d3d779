package streamio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteStream_ReadPrimitives(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	s := NewByteStream(data)

	b, err := s.ReadU8()
	require.NoError(t, err)
	require.Equal(t, uint8(0x01), b)

	u16, err := s.ReadU16LE()
	require.NoError(t, err)
	require.Equal(t, uint16(0x0302), u16)

	s2 := NewByteStream([]byte{0x01, 0x02, 0x03, 0x04})
	u32, err := s2.ReadU32LE()
	require.NoError(t, err)
	require.Equal(t, uint32(0x04030201), u32)

	s3 := NewByteStream([]byte{0x01, 0x02, 0x03, 0x04})
	be, err := s3.ReadU32BE()
	require.NoError(t, err)
	require.Equal(t, uint32(0x01020304), be)
}

func TestByteStream_Truncation(t *testing.T) {
	s := NewByteStream([]byte{0x01})
	_, err := s.ReadU16LE()
	require.ErrorIs(t, err, ErrTruncated)
}

func TestByteStream_SkipAndRewind(t *testing.T) {
	s := NewByteStream([]byte{1, 2, 3, 4, 5})
	require.NoError(t, s.SkipN(2))
	require.Equal(t, 2, s.BytesRead())

	v, err := s.ReadU8()
	require.NoError(t, err)
	require.Equal(t, uint8(3), v)

	require.NoError(t, s.RewindN(1))
	v, err = s.ReadU8()
	require.NoError(t, err)
	require.Equal(t, uint8(3), v)

	require.ErrorIs(t, s.RewindN(100), ErrTruncated)
}

func TestByteStream_Subset(t *testing.T) {
	s := NewByteStream([]byte{1, 2, 3, 4, 5})
	require.NoError(t, s.SkipN(1))

	sub, err := s.Subset(3)
	require.NoError(t, err)
	require.Equal(t, []byte{2, 3, 4}, sub.Bytes())
	require.Equal(t, 4, s.BytesRead())

	v, err := s.ReadU8()
	require.NoError(t, err)
	require.Equal(t, uint8(5), v)

	// The subset has its own independent cursor.
	first, err := sub.ReadU8()
	require.NoError(t, err)
	require.Equal(t, uint8(2), first)
}

func TestByteStream_PeekDoesNotAdvance(t *testing.T) {
	s := NewByteStream([]byte{1, 2, 3})
	var buf [2]byte
	require.NoError(t, s.PeekN(2, buf[:]))
	require.Equal(t, []byte{1, 2}, buf[:])
	require.Equal(t, 0, s.BytesRead())
}
