package deflate

import "errors"

// ErrMalformed indicates a DEFLATE stream violates RFC 1951 (an invalid
// BTYPE, a Kraft-inequality violation, an out-of-range back-reference,
// mismatched LEN/NLEN, and so on).
var ErrMalformed = errors.New("deflate: malformed stream")

// ErrTruncated indicates the bit stream ran out of data mid-block.
var ErrTruncated = errors.New("deflate: truncated stream")
