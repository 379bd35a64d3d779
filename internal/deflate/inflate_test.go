package deflate

import (
	"bytes"
	"compress/flate"
	"io"
	"testing"

	kflate "github.com/klauspost/compress/flate"
	"github.com/stretchr/testify/require"

	"github.com/8infy/xiloader/internal/streamio"
)

func inflateAll(t *testing.T, data []byte) []byte {
	t.Helper()
	bs := streamio.NewBitStream(streamio.LSBFirst)
	bs.AppendChunk(data, 0, false)
	out, err := Inflate(bs, nil)
	require.NoError(t, err)
	return out
}

func TestInflate_StoredBlock(t *testing.T) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, 0) // level 0 forces stored blocks
	require.NoError(t, err)
	_, err = w.Write([]byte("hello, deflate"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out := inflateAll(t, buf.Bytes())
	require.Equal(t, "hello, deflate", string(out))
}

func TestInflate_FixedHuffmanBackreference(t *testing.T) {
	// spec.md scenario 6: "AAAAA" as one final fixed-Huffman block
	// (BFINAL=1, BTYPE=01): the literal 'A', a (length=4, distance=1)
	// back-reference, then end-of-block. Built by hand, because
	// compress/flate writes an input this short as a stored block.
	fixed := []byte{0x73, 0x04, 0x01, 0x00}
	require.Equal(t, byte(0b011), fixed[0]&0b111)
	require.Equal(t, "AAAAA", string(inflateAll(t, fixed)))

	// The same payload as compress/flate encodes it decodes alike.
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestSpeed)
	require.NoError(t, err)
	_, err = w.Write([]byte("AAAAA"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out := inflateAll(t, buf.Bytes())
	require.Equal(t, "AAAAA", string(out))
}

func TestInflate_DynamicHuffman(t *testing.T) {
	text := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 50)

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	require.NoError(t, err)
	_, err = w.Write(text)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out := inflateAll(t, buf.Bytes())
	require.Equal(t, text, out)
}

// TestInflate_RoundTripAgainstKlauspostCompress cross-checks this
// decoder against klauspost/compress/flate, the richer reference
// implementation the pack pulls in, on a larger and more repetitive
// payload than stdlib's encoder alone exercises.
func TestInflate_RoundTripAgainstKlauspostCompress(t *testing.T) {
	var src bytes.Buffer
	for i := 0; i < 2000; i++ {
		src.WriteByte(byte(i * 37 % 251))
	}

	var buf bytes.Buffer
	w, err := kflate.NewWriter(&buf, kflate.DefaultCompression)
	require.NoError(t, err)
	_, err = w.Write(src.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out := inflateAll(t, buf.Bytes())
	require.Equal(t, src.Bytes(), out)

	// Sanity-check the fixture itself decompresses the same way through
	// the reference reader.
	r := kflate.NewReader(bytes.NewReader(buf.Bytes()))
	reference, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, reference, out)
}

func TestBuildTree_RejectsKraftViolation(t *testing.T) {
	// Two length-1 codes already exhaust the length-1 space; a third
	// overflows it.
	_, err := buildTree([]uint16{1, 1, 1})
	require.ErrorIs(t, err, ErrMalformed)
}

func TestBuildTree_RejectsAllZeroLengths(t *testing.T) {
	_, err := buildTree([]uint16{0, 0, 0})
	require.ErrorIs(t, err, ErrMalformed)
}
