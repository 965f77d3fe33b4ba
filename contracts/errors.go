package contracts

import "errors"

var (
	// ErrIO indicates a file could not be opened, read or written.
	ErrIO = errors.New("io error")
	// ErrFormat indicates unreadable or unsupported raster metadata.
	ErrFormat = errors.New("format error")
	// ErrEncode indicates the codec rejected the buffer or ran out of output capacity.
	ErrEncode = errors.New("encode error")
	// ErrConfig indicates a violated command line or configuration precondition.
	ErrConfig = errors.New("config error")
)

// KindOf names the error kind carried by err, or "unknown".
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrIO):
		return "io"
	case errors.Is(err, ErrFormat):
		return "format"
	case errors.Is(err, ErrEncode):
		return "encode"
	case errors.Is(err, ErrConfig):
		return "config"
	default:
		return "unknown"
	}
}
