package figview

import (
	"errors"
	"testing"
)

func TestErrorStringWithAndWithoutCause(t *testing.T) {
	plain := newError(KindSchemaError, "bad schema %d", 3)
	if plain.Error() != "figview: SchemaError: bad schema 3" {
		t.Fatalf("got %q", plain.Error())
	}

	cause := errors.New("boom")
	wrapped := wrapError(KindIoError, cause, "reading chunk")
	want := "figview: IoError: reading chunk: boom"
	if wrapped.Error() != want {
		t.Fatalf("got %q, want %q", wrapped.Error(), want)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	wrapped := wrapError(KindDecodeError, cause, "truncated")
	if !errors.Is(wrapped, cause) {
		t.Fatal("want errors.Is to find the wrapped cause")
	}
}

func TestNodeNotFoundKind(t *testing.T) {
	err := nodeNotFound("abc")
	if err.Kind != KindNodeNotFound {
		t.Fatalf("got kind %v, want KindNodeNotFound", err.Kind)
	}
	if err.Error() == "" {
		t.Fatal("want non-empty message")
	}
}

func TestKindStringNames(t *testing.T) {
	cases := map[Kind]string{
		KindInvalidHeader:       "InvalidHeader",
		KindDecompressionError:  "DecompressionError",
		KindSchemaError:         "SchemaError",
		KindDecodeError:         "DecodeError",
		KindNodeNotFound:        "NodeNotFound",
		KindUnsupportedNodeType: "UnsupportedNodeType",
		KindIoError:             "IoError",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
	if got := Kind(999).String(); got != "Unknown" {
		t.Errorf("unknown kind stringified as %q, want Unknown", got)
	}
}
