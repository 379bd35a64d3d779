package bmpdec

import (
	"fmt"

	"github.com/8infy/xiloader/internal/streamio"
)

func loadPixelArray(bs *streamio.ByteStream, h *header) ([]byte, error) {
	switch {
	case h.hasPalette():
		return loadIndexed(bs, h)
	case h.masks.hasRGBA():
		return loadSampled(bs, h)
	default:
		return loadRaw(bs, h)
	}
}

// outRow translates a 0-based file row index (0 = first row physically
// stored) into a 0-based output row index (0 = top of the image).
func outRow(h *header, fileRow int) int {
	if h.flipped {
		return fileRow
	}
	return h.height - 1 - fileRow
}

func rowStridePadded(bitsPerPixel int, width int) int {
	unpadded := (width*bitsPerPixel + 7) / 8
	return (unpadded + 3) &^ 3
}

func loadIndexed(bs *streamio.ByteStream, h *header) ([]byte, error) {
	stride := rowStridePadded(int(h.bpp), h.width)
	out := make([]byte, 3*h.width*h.height)

	for fileRow := 0; fileRow < h.height; fileRow++ {
		rowBytes, err := bs.Subset(stride)
		if err != nil {
			return nil, wrapTruncated(err)
		}

		bits := streamio.NewBitStream(streamio.MSBFirst)
		bits.AppendChunk(rowBytes.Bytes(), 0, false)

		rowOffset := outRow(h, fileRow) * h.width * 3

		for x := 0; x < h.width; x++ {
			idx, err := bits.ReadBits(uint8(h.bpp))
			if err != nil {
				return nil, wrapTruncated(err)
			}

			entry := int(idx) * h.bpc
			if entry+2 >= len(h.palette) {
				return nil, fmt.Errorf("%w: palette index %d out of range", ErrMalformed, idx)
			}

			off := rowOffset + x*3
			out[off+0] = h.palette[entry+2] // R
			out[off+1] = h.palette[entry+1] // G
			out[off+2] = h.palette[entry+0] // B
		}
	}

	return out, nil
}

func loadSampled(bs *streamio.ByteStream, h *header) ([]byte, error) {
	bytesPerPixel := int(h.bpp) / 8
	if bytesPerPixel != 2 && bytesPerPixel != 4 {
		return nil, fmt.Errorf("%w: %d bpp is not sampled (want 16 or 32)", ErrMalformed, h.bpp)
	}
	stride := rowStridePadded(int(h.bpp), h.width)
	out := make([]byte, h.channels*h.width*h.height)

	for fileRow := 0; fileRow < h.height; fileRow++ {
		row, err := bs.Subset(stride)
		if err != nil {
			return nil, wrapTruncated(err)
		}

		rowOffset := outRow(h, fileRow) * h.width * h.channels

		for x := 0; x < h.width; x++ {
			var sample uint32
			if bytesPerPixel == 2 {
				v, err := row.ReadU16LE()
				if err != nil {
					return nil, wrapTruncated(err)
				}
				sample = uint32(v)
			} else {
				v, err := row.ReadU32LE()
				if err != nil {
					return nil, wrapTruncated(err)
				}
				sample = v
			}

			off := rowOffset + x*h.channels
			out[off+0] = h.masks.r.Extract(sample)
			out[off+1] = h.masks.g.Extract(sample)
			out[off+2] = h.masks.b.Extract(sample)
			if h.channels == 4 {
				if h.masks.a.Present() {
					out[off+3] = h.masks.a.Extract(sample)
				} else {
					out[off+3] = 255
				}
			}
		}
	}

	return out, nil
}

func loadRaw(bs *streamio.ByteStream, h *header) ([]byte, error) {
	bytesPerPixel := int(h.bpp) / 8
	stride := rowStridePadded(int(h.bpp), h.width)
	out := make([]byte, h.channels*h.width*h.height)

	for fileRow := 0; fileRow < h.height; fileRow++ {
		row, err := bs.Subset(stride)
		if err != nil {
			return nil, wrapTruncated(err)
		}

		rowOffset := outRow(h, fileRow) * h.width * h.channels

		for x := 0; x < h.width; x++ {
			b, err := row.ReadU8()
			if err != nil {
				return nil, wrapTruncated(err)
			}
			g, err := row.ReadU8()
			if err != nil {
				return nil, wrapTruncated(err)
			}
			r, err := row.ReadU8()
			if err != nil {
				return nil, wrapTruncated(err)
			}

			off := rowOffset + x*h.channels
			out[off+0] = r
			out[off+1] = g
			out[off+2] = b

			if h.channels >= 4 {
				a, err := row.ReadU8()
				if err != nil {
					return nil, wrapTruncated(err)
				}
				out[off+3] = a
			} else if bytesPerPixel >= 4 {
				if err := row.SkipN(1); err != nil {
					return nil, wrapTruncated(err)
				}
			}
		}
	}

	return out, nil
}
