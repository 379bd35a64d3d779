package pngdec

import "errors"

// ErrMalformed indicates a PNG field or chunk violates the container or
// filter-format rules (bad zlib header, unknown filter type, a chunk
// referencing a palette entry that was never supplied, and so on).
var ErrMalformed = errors.New("pngdec: malformed stream")

// ErrUnsupported indicates a recognized-but-unhandled PNG feature (an
// unknown color type, an unknown interlace method, or an unrecognized
// critical chunk). A bit depth that is invalid for its color type is
// ErrMalformed.
var ErrUnsupported = errors.New("pngdec: unsupported feature")

// ErrTruncated indicates the input ran out before a chunk, the IDAT
// stream, or a scanline was fully read.
var ErrTruncated = errors.New("pngdec: truncated")
