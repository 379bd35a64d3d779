package xiloader

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func le16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

// buildBMP24 assembles a minimal 24bpp BITMAPINFOHEADER BMP. A negative
// height signals top-down storage, matching the DIB convention.
func buildBMP24(width int, height int32, rows [][]byte) []byte {
	var buf []byte
	buf = append(buf, 'B', 'M')
	buf = append(buf, le32(0)...)
	buf = append(buf, le32(0)...)
	buf = append(buf, le32(14+40)...)
	buf = append(buf, le32(40)...)
	buf = append(buf, le32(uint32(width))...)
	buf = append(buf, le32(uint32(height))...)
	buf = append(buf, le16(1)...)
	buf = append(buf, le16(24)...)
	buf = append(buf, le32(0)...)
	buf = append(buf, le32(0)...)
	buf = append(buf, le32(0)...)
	buf = append(buf, le32(0)...)
	buf = append(buf, le32(0)...)
	buf = append(buf, le32(0)...)
	for _, row := range rows {
		buf = append(buf, row...)
	}
	return buf
}

func row24(pixelsBGR ...[3]byte) []byte {
	var row []byte
	for _, p := range pixelsBGR {
		row = append(row, p[0], p[1], p[2])
	}
	for len(row)%4 != 0 {
		row = append(row, 0)
	}
	return row
}

func TestDecodeBytes_InvalidData_ReturnsEmptyImage(t *testing.T) {
	img, err := DecodeBytes([]byte{0, 1, 2, 3})
	require.NoError(t, err)
	require.True(t, img.Empty())
}

func TestDecodeBytesStrict_UnknownFormat(t *testing.T) {
	_, err := DecodeBytesStrict([]byte{0, 1, 2, 3})
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, KindUnsupported, de.Kind)
}

func TestDecodeBytesStrict_JPEG_Unsupported(t *testing.T) {
	_, err := DecodeBytesStrict([]byte{0xFF, 0xD8, 0xFF, 0xE0})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestDecodeBytes_BMP24(t *testing.T) {
	data := buildBMP24(2, 2, [][]byte{
		row24([3]byte{255, 0, 0}, [3]byte{255, 255, 255}), // bottom row (file order): blue, white
		row24([3]byte{0, 0, 255}, [3]byte{0, 255, 0}),     // top row: red, green
	})

	img, err := DecodeBytes(data)
	require.NoError(t, err)
	require.False(t, img.Empty())
	require.Equal(t, 2, img.Width)
	require.Equal(t, 2, img.Height)
	require.Equal(t, 3, img.Channels)

	topLeft, err := img.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, []byte{255, 0, 0}, topLeft)
}

func TestImage_At_OutOfRange(t *testing.T) {
	img := &Image{Width: 2, Height: 2, Channels: 3, Pixels: make([]byte, 12)}
	_, err := img.At(2, 0)
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, KindOutOfRange, de.Kind)
}

func TestImage_Flip_IsInvolution(t *testing.T) {
	img := &Image{
		Width: 2, Height: 2, Channels: 1,
		Pixels: []byte{1, 2, 3, 4},
	}
	original := append([]byte(nil), img.Pixels...)

	img.Flip()
	require.Equal(t, []byte{3, 4, 1, 2}, img.Pixels)

	img.Flip()
	require.Equal(t, original, img.Pixels)
}

func TestDecodeBytes_TopDownAndBottomUpBMP_Agree(t *testing.T) {
	bottomUp := buildBMP24(2, 2, [][]byte{
		row24([3]byte{0, 0, 255}, [3]byte{255, 255, 255}),
		row24([3]byte{255, 0, 0}, [3]byte{0, 255, 0}),
	})
	topDown := buildBMP24(2, -2, [][]byte{
		row24([3]byte{255, 0, 0}, [3]byte{0, 255, 0}),
		row24([3]byte{0, 0, 255}, [3]byte{255, 255, 255}),
	})

	a, err := DecodeBytes(bottomUp)
	require.NoError(t, err)
	b, err := DecodeBytes(topDown)
	require.NoError(t, err)

	require.Equal(t, a.Pixels, b.Pixels)
}

func TestDecode_MissingFile_ReturnsEmptyImage(t *testing.T) {
	img, err := Decode("/nonexistent/path/does/not/exist.bmp")
	require.NoError(t, err)
	require.True(t, img.Empty())
}

func TestDecodeStrict_MissingFile_ReturnsError(t *testing.T) {
	_, err := DecodeStrict("/nonexistent/path/does/not/exist.bmp")
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, KindTruncated, de.Kind)
}
