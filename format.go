package xiloader

// Format is the image container this library recognized from a byte
// buffer's leading magic number.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatBMP
	FormatPNG
	// FormatJPEG is recognized but never decoded; DecodeBytesStrict
	// reports it as KindUnsupported.
	FormatJPEG
)

func (f Format) String() string {
	switch f {
	case FormatBMP:
		return "BMP"
	case FormatPNG:
		return "PNG"
	case FormatJPEG:
		return "JPEG"
	default:
		return "unknown"
	}
}

// Sniff inspects the leading bytes of data and reports which container
// format it belongs to, without validating anything past the magic
// number.
func Sniff(data []byte) Format {
	switch {
	case len(data) >= 2 && data[0] == 0x42 && data[1] == 0x4D:
		return FormatBMP
	case len(data) >= 4 && data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G':
		return FormatPNG
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8:
		return FormatJPEG
	default:
		return FormatUnknown
	}
}
