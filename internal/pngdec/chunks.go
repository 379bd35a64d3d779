package pngdec

import (
	"fmt"

	"github.com/8infy/xiloader/internal/streamio"
	"github.com/8infy/xiloader/internal/xlog"
)

type ihdr struct {
	width            int
	height           int
	bitDepth         uint8
	colorType        uint8
	compressionMethd uint8
	filterMethod     uint8
	interlaceMethod  uint8
}

// readChunk reads one length-prefixed PNG chunk. The trailing CRC is
// read (to keep the stream cursor aligned) but never verified.
func readChunk(bs *streamio.ByteStream) (typ [4]byte, data *streamio.ByteStream, err error) {
	length, err := bs.ReadU32BE()
	if err != nil {
		return typ, nil, wrapTruncated(err)
	}

	if err := bs.ReadN(4, typ[:]); err != nil {
		return typ, nil, wrapTruncated(err)
	}

	data, err = bs.Subset(int(length))
	if err != nil {
		return typ, nil, wrapTruncated(err)
	}

	if err := bs.SkipN(4); err != nil { // CRC, intentionally unverified
		return typ, nil, wrapTruncated(err)
	}

	return typ, data, nil
}

func readIHDR(data *streamio.ByteStream) (*ihdr, error) {
	width, err := data.ReadU32BE()
	if err != nil {
		return nil, wrapTruncated(err)
	}
	height, err := data.ReadU32BE()
	if err != nil {
		return nil, wrapTruncated(err)
	}

	var fields [5]byte
	if err := data.ReadN(5, fields[:]); err != nil {
		return nil, wrapTruncated(err)
	}

	return &ihdr{
		width:            int(width),
		height:           int(height),
		bitDepth:         fields[0],
		colorType:        fields[1],
		compressionMethd: fields[2],
		filterMethod:     fields[3],
		interlaceMethod:  fields[4],
	}, nil
}

// zlibHeader validates the two-byte zlib stream header per RFC 1950:
// CMF's low nibble must select DEFLATE (method 8), and FLG's FDICT bit
// must be clear (this decoder doesn't support preset dictionaries).
// compression_info (CMF's high nibble, the base-2 log of the window
// size minus 8) and flevel (FLG's top two bits, the compressor's
// tuning preference) don't affect decoding and are only logged.
//
// Grounded on XILoader's png.h read_zlib_header/validate_zlib_header,
// expressed directly against RFC 1950's bit layout rather than that
// function's ambiguous get_bits offsets.
func zlibHeader(cmf, flg byte) error {
	method := cmf & 0x0f
	if method != 8 {
		return fmt.Errorf("%w: zlib compression method %d, want 8 (DEFLATE)", ErrMalformed, method)
	}
	fdict := (flg >> 5) & 1
	if fdict != 0 {
		return fmt.Errorf("%w: zlib stream uses a preset dictionary", ErrMalformed)
	}

	compressionInfo := cmf >> 4
	flevel := flg >> 6
	xlog.Debug().
		Uint8("compression_info", compressionInfo).
		Uint8("flevel", flevel).
		Msg("pngdec: zlib stream header")

	return nil
}

func isType(t [4]byte, s string) bool {
	return t[0] == s[0] && t[1] == s[1] && t[2] == s[2] && t[3] == s[3]
}

func isAncillary(t [4]byte) bool {
	return t[0] >= 'a' && t[0] <= 'z'
}
