package xiloader

import (
	"fmt"

	"github.com/go-stack/stack"
)

// Kind classifies why a decode failed, per the four error kinds the
// decoding pipeline can produce.
type Kind uint8

const (
	// KindTruncated means a read ran past the end of the input.
	KindTruncated Kind = iota
	// KindMalformed means a field value violates the format spec.
	KindMalformed
	// KindUnsupported means the format was recognized but this feature
	// (JPEG, BMP Huffman compression, …) is intentionally not handled.
	KindUnsupported
	// KindOutOfRange means a caller indexed the Image out of bounds.
	KindOutOfRange
)

func (k Kind) String() string {
	switch k {
	case KindTruncated:
		return "truncated"
	case KindMalformed:
		return "malformed"
	case KindUnsupported:
		return "unsupported"
	case KindOutOfRange:
		return "out of range"
	default:
		return "unknown"
	}
}

// DecodeError is the structured error surfaced by the *Strict decode
// entry points. It carries a Kind, a human-readable message, the
// underlying cause (if any), and a captured call stack.
//
// Grounded on HandmadeNetwork-hmn's oops.Error (src/oops/oops.go),
// trading its zerolog-specific marshaling for a plain Error()/Unwrap()
// pair — the error type carries no logging hooks; the decode entry
// points log through internal/xlog, and only the CLI front-end
// configures zerolog.
type DecodeError struct {
	Kind    Kind
	Message string
	Wrapped error
	Stack   stack.CallStack
}

func (e *DecodeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("xiloader: %s: %s: %v", e.Kind, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("xiloader: %s: %s", e.Kind, e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Wrapped
}

// Is supports errors.Is against the sentinel Kind values below.
func (e *DecodeError) Is(target error) bool {
	sentinel, ok := target.(*kindSentinel)
	return ok && sentinel.kind == e.Kind
}

type kindSentinel struct{ kind Kind }

func (s *kindSentinel) Error() string { return "xiloader: " + s.kind.String() }

// Sentinel errors for use with errors.Is(err, xiloader.ErrTruncated) etc.
var (
	ErrTruncated   error = &kindSentinel{KindTruncated}
	ErrMalformed   error = &kindSentinel{KindMalformed}
	ErrUnsupported error = &kindSentinel{KindUnsupported}
	ErrOutOfRange  error = &kindSentinel{KindOutOfRange}
)

func newDecodeError(kind Kind, wrapped error, format string, args ...interface{}) *DecodeError {
	return &DecodeError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Wrapped: wrapped,
		Stack:   stack.Trace().TrimRuntime(),
	}
}
