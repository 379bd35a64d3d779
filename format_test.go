package xiloader

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSniff(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want Format
	}{
		{"bmp", []byte{0x42, 0x4D, 0, 0}, FormatBMP},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A}, FormatPNG},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, FormatJPEG},
		{"unknown", []byte{0, 1, 2, 3}, FormatUnknown},
		{"too short", []byte{0x42}, FormatUnknown},
		{"empty", nil, FormatUnknown},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, Sniff(c.data))
		})
	}
}
