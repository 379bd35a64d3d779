package pngdec

import (
	"fmt"

	"github.com/8infy/xiloader/internal/streamio"
	"github.com/8infy/xiloader/internal/xbits"
)

// samplesPerPixel returns the number of raw samples (before palette
// expansion) one pixel occupies for a given PNG color type.
func samplesPerPixel(colorType uint8) (int, error) {
	switch colorType {
	case 0: // grayscale
		return 1, nil
	case 2: // RGB
		return 3, nil
	case 3: // palette
		return 1, nil
	case 4: // grayscale + alpha
		return 2, nil
	case 6: // RGBA
		return 4, nil
	default:
		return 0, fmt.Errorf("%w: color type %d", ErrUnsupported, colorType)
	}
}

// outChannels returns the canonical output channel count for a color
// type, given whether a tRNS chunk supplied an alpha palette (relevant
// only for color type 3).
func outChannels(colorType uint8, hasTRNS bool) int {
	switch colorType {
	case 0:
		return 1
	case 2:
		return 3
	case 3:
		if hasTRNS {
			return 4
		}
		return 3
	case 4:
		return 2
	case 6:
		return 4
	default:
		return 0
	}
}

// transformPass converts one unfiltered (sub-)image's packed samples
// into the canonical 8-bit-per-channel layout.
func transformPass(raw []byte, width, height, bitDepth int, colorType uint8, palette, trns []byte, precise bool) ([]byte, int, error) {
	samples, err := samplesPerPixel(colorType)
	if err != nil {
		return nil, 0, err
	}

	rowBytes := (width*samples*bitDepth + 7) / 8
	channels := outChannels(colorType, len(trns) > 0)
	out := make([]byte, width*height*channels)

	for y := 0; y < height; y++ {
		rowStart := y * rowBytes
		if rowStart+rowBytes > len(raw) {
			return nil, 0, fmt.Errorf("%w: row %d missing packed samples", ErrTruncated, y)
		}
		row := raw[rowStart : rowStart+rowBytes]

		bits := streamio.NewBitStream(streamio.MSBFirst)
		bits.AppendChunk(row, 0, false)

		for x := 0; x < width; x++ {
			values := make([]uint32, samples)
			for s := 0; s < samples; s++ {
				v, err := bits.ReadBits(uint8(bitDepth))
				if err != nil {
					return nil, 0, fmt.Errorf("%w: %v", ErrTruncated, err)
				}
				values[s] = v
			}

			off := (y*width + x) * channels

			if colorType == 3 {
				idx := int(values[0])
				if idx*3+2 >= len(palette) {
					return nil, 0, fmt.Errorf("%w: palette index %d out of range", ErrMalformed, idx)
				}
				out[off+0] = palette[idx*3+0]
				out[off+1] = palette[idx*3+1]
				out[off+2] = palette[idx*3+2]
				if channels == 4 {
					if idx < len(trns) {
						out[off+3] = trns[idx]
					} else {
						out[off+3] = 255
					}
				}
				continue
			}

			for s := 0; s < samples; s++ {
				out[off+s] = sampleTo8(values[s], bitDepth, precise)
			}
		}
	}

	return out, channels, nil
}

func sampleTo8(v uint32, bitDepth int, precise bool) byte {
	switch {
	case bitDepth == 8:
		return byte(v)
	case bitDepth == 16:
		if precise {
			return byte((v*255 + 32767) / 65535)
		}
		return byte(v >> 8)
	default:
		return xbits.ReplicateTo8(v, uint8(bitDepth))
	}
}
