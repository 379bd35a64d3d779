package bmpdec

import "errors"

// ErrMalformed indicates a header field violates the DIB format family's
// constraints (bad dib_size, non-unit color planes, negative pixel array
// gap, and so on).
var ErrMalformed = errors.New("bmpdec: malformed header")

// ErrUnsupported indicates a recognized-but-unhandled BMP feature: OS/2
// 1-D Huffman compression, a compression method other than 0/3/6, a
// nonzero OS/2 recording algorithm, or a bit depth with neither a
// palette nor a channel mask that is not 24 or 32 bpp.
var ErrUnsupported = errors.New("bmpdec: unsupported feature")

// ErrTruncated indicates the input ran out before the header or pixel
// array was fully read.
var ErrTruncated = errors.New("bmpdec: truncated")
