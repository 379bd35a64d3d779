// Package pngdec decodes a PNG container into a packed RGB/RGBA/gray
// raster: chunk walk, zlib framing, IDAT concatenation, DEFLATE
// inflation, scanline unfiltering, color-type/bit-depth postprocessing,
// and Adam7 deinterlacing.
//
// Grounded on XILoader's PNG::load (original_source/include/XILoader/
// png.h) for the chunk walk and zlib-header handling; that class stops
// at Inflator::inflate and never implements unfiltering, palette
// application, or Adam7, so everything past decompression here follows
// the PNG specification directly.
package pngdec

import (
	"errors"
	"fmt"

	"github.com/8infy/xiloader/internal/deflate"
	"github.com/8infy/xiloader/internal/streamio"
)

// Result is the decoded raster: Width*Height*Channels bytes, row-major,
// top row first, channels interleaved.
type Result struct {
	Width    int
	Height   int
	Channels int
	Pixels   []byte
}

// Decode reads a PNG file (including its 8-byte signature) from bs and
// returns the decoded raster. forceFlip inverts PNG's native top-down
// row order. preciseDownscale controls how 16-bit samples are reduced
// to 8 bits (see sampleTo8).
func Decode(bs *streamio.ByteStream, forceFlip, preciseDownscale bool) (*Result, error) {
	if err := bs.SkipN(8); err != nil { // PNG file signature
		return nil, wrapTruncated(err)
	}

	var header *ihdr
	var palette, trns []byte
	zlibSet := false
	bits := streamio.NewBitStream(streamio.LSBFirst)

	for {
		typ, data, err := readChunk(bs)
		if err != nil {
			return nil, err
		}

		switch {
		case isType(typ, "IEND"):
			goto decoded
		case isType(typ, "IHDR"):
			header, err = readIHDR(data)
			if err != nil {
				return nil, err
			}
		case isType(typ, "PLTE"):
			palette = make([]byte, data.BytesLeft())
			if err := data.ReadN(len(palette), palette); err != nil {
				return nil, wrapTruncated(err)
			}
		case isType(typ, "tRNS"):
			trns = make([]byte, data.BytesLeft())
			if err := data.ReadN(len(trns), trns); err != nil {
				return nil, wrapTruncated(err)
			}
		case isType(typ, "IDAT"):
			raw := data.Bytes()
			if !zlibSet {
				if len(raw) < 2 {
					return nil, fmt.Errorf("%w: first IDAT too short for a zlib header", ErrTruncated)
				}
				if err := zlibHeader(raw[0], raw[1]); err != nil {
					return nil, err
				}
				zlibSet = true
				bits.AppendChunk(raw, 2, true)
			} else {
				bits.AppendChunk(raw, 0, false)
			}
		default:
			if !isAncillary(typ) {
				return nil, fmt.Errorf("%w: unrecognized critical chunk %q", ErrUnsupported, typ[:])
			}
			// Ancillary chunk this decoder doesn't need: ignore.
		}
	}

decoded:
	if header == nil {
		return nil, fmt.Errorf("%w: no IHDR chunk", ErrMalformed)
	}
	if header.colorType == 3 && len(palette) == 0 {
		return nil, fmt.Errorf("%w: palette color type with no PLTE chunk", ErrMalformed)
	}
	if err := validateBitDepth(header.colorType, header.bitDepth); err != nil {
		return nil, err
	}

	filtered, err := deflate.Inflate(bits, nil)
	if err != nil {
		return nil, wrapDeflateErr(err)
	}

	samples, err := samplesPerPixel(header.colorType)
	if err != nil {
		return nil, err
	}
	bitsPerPixelRaw := samples * int(header.bitDepth)
	pixelStride := (bitsPerPixelRaw + 7) / 8

	var pixels []byte
	var channels int

	switch header.interlaceMethod {
	case 0:
		rowBytes := (header.width*bitsPerPixelRaw + 7) / 8
		unfiltered, _, err := unfilterPass(filtered, 0, header.height, rowBytes, pixelStride)
		if err != nil {
			return nil, err
		}
		pixels, channels, err = transformPass(unfiltered, header.width, header.height, int(header.bitDepth), header.colorType, palette, trns, preciseDownscale)
		if err != nil {
			return nil, err
		}
	case 1:
		channels = outChannels(header.colorType, len(trns) > 0)
		pixels = make([]byte, header.width*header.height*channels)
		offset := 0
		for _, p := range adam7Passes {
			pw, ph := adam7PassDims(p, header.width, header.height)
			if pw == 0 || ph == 0 {
				continue
			}
			rowBytes := (pw*bitsPerPixelRaw + 7) / 8
			unfilteredPass, newOffset, err := unfilterPass(filtered, offset, ph, rowBytes, pixelStride)
			if err != nil {
				return nil, err
			}
			offset = newOffset
			passPixels, passChannels, err := transformPass(unfilteredPass, pw, ph, int(header.bitDepth), header.colorType, palette, trns, preciseDownscale)
			if err != nil {
				return nil, err
			}
			scatterPass(pixels, header.width, passChannels, p, pw, ph, passPixels)
		}
	default:
		return nil, fmt.Errorf("%w: interlace method %d", ErrUnsupported, header.interlaceMethod)
	}

	if forceFlip {
		flipRows(pixels, header.width, header.height, channels)
	}

	return &Result{
		Width:    header.width,
		Height:   header.height,
		Channels: channels,
		Pixels:   pixels,
	}, nil
}

func flipRows(pixels []byte, width, height, channels int) {
	rowBytes := width * channels
	tmp := make([]byte, rowBytes)
	for y := 0; y < height/2; y++ {
		top := pixels[y*rowBytes : (y+1)*rowBytes]
		bottom := pixels[(height-1-y)*rowBytes : (height-y)*rowBytes]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}

func validateBitDepth(colorType, bitDepth uint8) error {
	valid := map[uint8][]uint8{
		0: {1, 2, 4, 8, 16},
		2: {8, 16},
		3: {1, 2, 4, 8},
		4: {8, 16},
		6: {8, 16},
	}
	depths, ok := valid[colorType]
	if !ok {
		return fmt.Errorf("%w: color type %d", ErrUnsupported, colorType)
	}
	for _, d := range depths {
		if d == bitDepth {
			return nil
		}
	}
	return fmt.Errorf("%w: bit depth %d invalid for color type %d", ErrMalformed, bitDepth, colorType)
}

func wrapTruncated(err error) error {
	if errors.Is(err, streamio.ErrTruncated) {
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return err
}

func wrapDeflateErr(err error) error {
	switch {
	case errors.Is(err, deflate.ErrTruncated):
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	case errors.Is(err, deflate.ErrMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	default:
		return err
	}
}
