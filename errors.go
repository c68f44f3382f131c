package figview

import "fmt"

// Kind tags the category of an Error so callers can branch on failure type
// without parsing message strings.
type Kind int

const (
	// KindInvalidHeader is raised when the input does not begin with the
	// fig-kiwi (or fig-kiwie) magic.
	KindInvalidHeader Kind = iota
	// KindDecompressionError is raised when the DEFLATE or Zstandard chunk
	// fails to decompress.
	KindDecompressionError
	// KindSchemaError is raised when the schema chunk is malformed.
	KindSchemaError
	// KindDecodeError is raised by a truncated or malformed Kiwi stream, or
	// by a poisoned lock in the concurrency layer.
	KindDecodeError
	// KindNodeNotFound is raised when a referenced id is absent from the
	// node map.
	KindNodeNotFound
	// KindUnsupportedNodeType is reserved; currently unused.
	KindUnsupportedNodeType
	// KindIoError wraps an underlying read failure on the byte cursor.
	KindIoError
)

func (k Kind) String() string {
	switch k {
	case KindInvalidHeader:
		return "InvalidHeader"
	case KindDecompressionError:
		return "DecompressionError"
	case KindSchemaError:
		return "SchemaError"
	case KindDecodeError:
		return "DecodeError"
	case KindNodeNotFound:
		return "NodeNotFound"
	case KindUnsupportedNodeType:
		return "UnsupportedNodeType"
	case KindIoError:
		return "IoError"
	default:
		return "Unknown"
	}
}

// Error is the single tagged error vocabulary this module returns from its
// fallible public entry points; the one exception is CalculateLayout, which
// returns autolayout.ErrUnsupported unwrapped.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("figview: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("figview: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// nodeNotFound builds the NodeNotFound error for id.
func nodeNotFound(id string) *Error {
	return newError(KindNodeNotFound, "node %q not found", id)
}
