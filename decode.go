package xiloader

import (
	"errors"
	"os"

	"github.com/8infy/xiloader/internal/bmpdec"
	"github.com/8infy/xiloader/internal/pngdec"
	"github.com/8infy/xiloader/internal/streamio"
	"github.com/8infy/xiloader/internal/xlog"
)

// Decode reads the file at path and decodes it as BMP or PNG. Any
// failure (missing file, truncated data, malformed fields, an
// unsupported feature) is swallowed and reported as an Empty Image,
// mirroring XILoader's load()'s catch-and-return-nothing behavior. Use
// DecodeStrict to see the underlying *DecodeError instead.
func Decode(path string, opts ...Option) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		xlog.Debug().Err(err).Str("path", path).Msg("xiloader: failed to read file")
		return &Image{}, nil
	}
	return DecodeBytes(data, opts...)
}

// DecodeBytes decodes an in-memory BMP or PNG buffer. See Decode for the
// failure-swallowing behavior.
func DecodeBytes(data []byte, opts ...Option) (*Image, error) {
	img, err := DecodeBytesStrict(data, opts...)
	if err != nil {
		xlog.Debug().Err(err).Msg("xiloader: decode failed, returning empty image")
		return &Image{}, nil
	}
	return img, nil
}

// DecodeStrict is Decode, but surfaces a *DecodeError on failure instead
// of an empty Image.
func DecodeStrict(path string, opts ...Option) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newDecodeError(KindTruncated, err, "reading %s", path)
	}
	return DecodeBytesStrict(data, opts...)
}

// DecodeBytesStrict is DecodeBytes, but surfaces a *DecodeError on
// failure instead of an empty Image.
func DecodeBytesStrict(data []byte, opts ...Option) (*Image, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	format := Sniff(data)
	xlog.Trace().Stringer("format", format).Int("bytes", len(data)).Msg("xiloader: sniffed format")

	switch format {
	case FormatBMP:
		bs := streamio.NewByteStream(data)
		res, err := bmpdec.Decode(bs, cfg.forceFlip, cfg.bmpAlwaysRGBA32)
		if err != nil {
			return nil, wrapBMPError(err)
		}
		return &Image{Width: res.Width, Height: res.Height, Channels: res.Channels, Pixels: res.Pixels}, nil

	case FormatPNG:
		bs := streamio.NewByteStream(data)
		res, err := pngdec.Decode(bs, cfg.forceFlip, cfg.preciseDownscale)
		if err != nil {
			return nil, wrapPNGError(err)
		}
		return &Image{Width: res.Width, Height: res.Height, Channels: res.Channels, Pixels: res.Pixels}, nil

	case FormatJPEG:
		return nil, newDecodeError(KindUnsupported, nil, "JPEG decoding is not supported")

	default:
		return nil, newDecodeError(KindUnsupported, nil, "unrecognized image format")
	}
}

func wrapBMPError(err error) error {
	switch {
	case errors.Is(err, bmpdec.ErrTruncated):
		return newDecodeError(KindTruncated, err, "decoding BMP")
	case errors.Is(err, bmpdec.ErrUnsupported):
		return newDecodeError(KindUnsupported, err, "decoding BMP")
	default:
		return newDecodeError(KindMalformed, err, "decoding BMP")
	}
}

func wrapPNGError(err error) error {
	switch {
	case errors.Is(err, pngdec.ErrTruncated):
		return newDecodeError(KindTruncated, err, "decoding PNG")
	case errors.Is(err, pngdec.ErrUnsupported):
		return newDecodeError(KindUnsupported, err, "decoding PNG")
	default:
		return newDecodeError(KindMalformed, err, "decoding PNG")
	}
}
