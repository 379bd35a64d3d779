// Package bmpdec decodes the BMP/DIB header family (BITMAPCOREHEADER,
// the OS/2 2.x variants, BITMAPINFOHEADER and its V2/V3/V4/V5
// extensions) into a packed RGB/RGBA raster.
//
// Grounded on XILoader's BMP::load (original_source/include/XILoader/
// bmp.h); the header walk, palette/mask handling, and the three pixel
// paths (indexed, sampled, raw) are a direct, idiomatic-Go rendition of
// that class.
package bmpdec

import (
	"errors"
	"fmt"

	"github.com/8infy/xiloader/internal/streamio"
	"github.com/8infy/xiloader/internal/xbits"
)

// Result is the decoded raster: Width*Height*Channels bytes, row-major,
// top row first, channels interleaved (R,G,B[,A]).
type Result struct {
	Width    int
	Height   int
	Channels int
	Pixels   []byte
}

type masks struct {
	r, g, b, a xbits.ChannelMask
}

func (m masks) hasRGBA() bool {
	return m.r.Present() || m.g.Present() || m.b.Present() || m.a.Present()
}

type header struct {
	pixelArrayOffset  uint32
	dibSize           uint32
	flipped           bool
	compressionMethod uint32
	colors            uint32
	bpc               int // bytes per palette entry: 3 or 4
	bpp               uint16
	channels          int
	width             int
	height            int
	masks             masks
	palette           []byte
}

func (h *header) hasPalette() bool { return h.colors != 0 }

// Decode reads a BMP file (including its 14-byte file header) from bs and
// returns the decoded raster. forceFlip inverts the row order the file
// would otherwise be read in. alwaysRGBA32 restores the historical
// behavior of treating every 32bpp-without-mask image as RGBA instead of
// discarding its fourth byte; by default that byte is dropped and the
// image comes back as RGB, matching BITFIELDS-masked images where the
// alpha channel is only kept when a mask says it's meaningful.
func Decode(bs *streamio.ByteStream, forceFlip, alwaysRGBA32 bool) (*Result, error) {
	h := &header{}

	if err := bs.SkipN(2 + 4 + 4); err != nil { // magic, file size, reserved
		return nil, wrapTruncated(err)
	}

	pao, err := bs.ReadU32LE()
	if err != nil {
		return nil, wrapTruncated(err)
	}
	h.pixelArrayOffset = pao

	dibSize, err := bs.ReadU32LE()
	if err != nil {
		return nil, wrapTruncated(err)
	}
	h.dibSize = dibSize

	if dibSize < 12 || dibSize > 124 {
		return nil, fmt.Errorf("%w: dib size %d outside 12..124", ErrMalformed, dibSize)
	}

	switch dibSize {
	case 12, 16, 64:
		w, err := bs.ReadU16LE()
		if err != nil {
			return nil, wrapTruncated(err)
		}
		hgt, err := bs.ReadU16LE()
		if err != nil {
			return nil, wrapTruncated(err)
		}
		h.width = int(w)
		h.height = int(hgt)
	default:
		w, err := bs.ReadI32LE()
		if err != nil {
			return nil, wrapTruncated(err)
		}
		hgt, err := bs.ReadI32LE()
		if err != nil {
			return nil, wrapTruncated(err)
		}
		h.width = int(uint16(int32(w))) // narrowed to 16 bits, matching the original loader
		if hgt < 0 {
			h.flipped = true
		}
		if hgt < 0 {
			hgt = -hgt
		}
		h.height = int(uint16(int32(hgt)))
	}

	colorPlanes, err := bs.ReadU16LE()
	if err != nil {
		return nil, wrapTruncated(err)
	}
	if colorPlanes != 1 {
		return nil, fmt.Errorf("%w: color planes %d, want 1", ErrMalformed, colorPlanes)
	}

	bpp, err := bs.ReadU16LE()
	if err != nil {
		return nil, wrapTruncated(err)
	}
	h.bpp = bpp

	if dibSize >= 40 {
		method, err := bs.ReadU32LE()
		if err != nil {
			return nil, wrapTruncated(err)
		}
		h.compressionMethod = method

		if err := bs.SkipN(4 + 4 + 4); err != nil { // raw size, h-res, v-res
			return nil, wrapTruncated(err)
		}

		colors, err := bs.ReadU32LE()
		if err != nil {
			return nil, wrapTruncated(err)
		}
		h.colors = colors

		if err := bs.SkipN(4); err != nil { // important colors
			return nil, wrapTruncated(err)
		}
	}

	if h.colors != 0 && h.bpp > 8 {
		h.colors = 0
	}
	if h.colors == 0 && h.bpp <= 8 {
		h.colors = uint32(1) << h.bpp
	}

	if h.compressionMethod != 0 && h.compressionMethod != 3 && h.compressionMethod != 6 {
		return nil, fmt.Errorf("%w: compression method %d", ErrUnsupported, h.compressionMethod)
	}
	if h.compressionMethod == 3 && (dibSize == 16 || dibSize == 64) {
		return nil, fmt.Errorf("%w: OS/2 1-D Huffman compression", ErrUnsupported)
	}

	if h.hasPalette() {
		if dibSize > 12 {
			h.bpc = 4
		} else {
			h.bpc = 3
		}
	}

	if h.compressionMethod == 3 || h.compressionMethod == 6 {
		rMask, err := bs.ReadU32LE()
		if err != nil {
			return nil, wrapTruncated(err)
		}
		h.masks.r = xbits.NewChannelMask(rMask)

		gMask, err := bs.ReadU32LE()
		if err != nil {
			return nil, wrapTruncated(err)
		}
		h.masks.g = xbits.NewChannelMask(gMask)

		bMask, err := bs.ReadU32LE()
		if err != nil {
			return nil, wrapTruncated(err)
		}
		h.masks.b = xbits.NewChannelMask(bMask)

		if h.compressionMethod == 6 || dibSize >= 56 {
			aMask, err := bs.ReadU32LE()
			if err != nil {
				return nil, wrapTruncated(err)
			}
			h.masks.a = xbits.NewChannelMask(aMask)
		}
	}

	if dibSize == 64 {
		if err := bs.SkipN(2 + 2); err != nil { // units, padding
			return nil, wrapTruncated(err)
		}
		recordingAlgorithm, err := bs.ReadU16LE()
		if err != nil {
			return nil, wrapTruncated(err)
		}
		if recordingAlgorithm != 0 {
			return nil, fmt.Errorf("%w: OS/2 recording algorithm %d", ErrUnsupported, recordingAlgorithm)
		}
		if err := bs.SkipN(2 + 4 + 4); err != nil { // halftoning
			return nil, wrapTruncated(err)
		}
		if err := bs.SkipN(4); err != nil { // color model
			return nil, wrapTruncated(err)
		}
		if err := bs.SkipN(4); err != nil { // reserved
			return nil, wrapTruncated(err)
		}
	}

	if dibSize == 108 || dibSize == 124 {
		const fileHeaderSize = 14
		tail := int(dibSize) - bs.BytesRead() + fileHeaderSize
		if tail < 0 {
			return nil, fmt.Errorf("%w: negative BITMAPV4/V5 tail", ErrMalformed)
		}
		if err := bs.SkipN(tail); err != nil {
			return nil, wrapTruncated(err)
		}
	}

	if h.hasPalette() {
		paletteLen := int(h.colors) * h.bpc
		h.palette = make([]byte, paletteLen)
		if err := bs.ReadN(paletteLen, h.palette); err != nil {
			return nil, wrapTruncated(err)
		}
		h.channels = 3
	} else if h.masks.hasRGBA() {
		if h.masks.a.Present() {
			h.channels = 4
		} else {
			h.channels = 3
		}
	} else if h.bpp == 24 {
		h.channels = 3
	} else if h.bpp == 32 {
		if alwaysRGBA32 {
			h.channels = 4
		} else {
			h.channels = 3
		}
	} else {
		return nil, fmt.Errorf("%w: %d bpp with no palette or mask", ErrUnsupported, h.bpp)
	}

	gap := int(h.pixelArrayOffset) - bs.BytesRead()
	if gap < 0 {
		return nil, fmt.Errorf("%w: pixel array offset precedes end of header", ErrMalformed)
	}
	if gap > 0 {
		if err := bs.SkipN(gap); err != nil {
			return nil, wrapTruncated(err)
		}
	}

	h.flipped = h.flipped != forceFlip

	pixels, err := loadPixelArray(bs, h)
	if err != nil {
		return nil, err
	}

	return &Result{
		Width:    h.width,
		Height:   h.height,
		Channels: h.channels,
		Pixels:   pixels,
	}, nil
}

func wrapTruncated(err error) error {
	if errors.Is(err, streamio.ErrTruncated) {
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return err
}
