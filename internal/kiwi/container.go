package kiwi

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

const (
	headerPlain     = "fig-kiwi"
	headerEncrypted = "fig-kiwie"
)

// ErrKind tags the category of container-level failure so callers can branch
// without parsing error strings.
type ErrKind int

const (
	ErrInvalidHeader ErrKind = iota
	ErrDecompression
	ErrSchema
)

// ContainerError is returned by ParseContainer; Kind maps directly onto the
// host-facing error vocabulary (InvalidHeader / DecompressionError / SchemaError).
type ContainerError struct {
	Kind ErrKind
	Msg  string
}

func (e *ContainerError) Error() string { return e.Msg }

// Container is the result of splitting and decompressing a .fig byte stream:
// the parsed schema from chunk 0 and the still-encoded message bytes from
// chunk 1, ready for schema-driven decoding.
type Container struct {
	Schema  *Schema
	Message []byte
}

// ParseContainer validates the header, splits the length-prefixed chunk
// sequence, and decompresses the two mandatory chunks: chunk 0 (schema, raw
// DEFLATE) and chunk 1 (message, Zstandard).
func ParseContainer(data []byte) (*Container, error) {
	rest, err := stripHeader(data)
	if err != nil {
		return nil, err
	}

	chunks, err := splitChunks(rest)
	if err != nil {
		return nil, err
	}
	if len(chunks) < 2 {
		return nil, &ContainerError{ErrSchema, fmt.Sprintf("kiwi: expected 2 chunks, found %d", len(chunks))}
	}

	schemaBytes, err := inflateDeflate(chunks[0])
	if err != nil {
		return nil, &ContainerError{ErrDecompression, fmt.Sprintf("kiwi: schema chunk: %v", err)}
	}
	messageBytes, err := inflateZstd(chunks[1])
	if err != nil {
		return nil, &ContainerError{ErrDecompression, fmt.Sprintf("kiwi: message chunk: %v", err)}
	}

	schema, err := ParseSchema(schemaBytes)
	if err != nil {
		return nil, &ContainerError{ErrSchema, err.Error()}
	}

	return &Container{Schema: schema, Message: messageBytes}, nil
}

func stripHeader(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, []byte(headerEncrypted)):
		return nil, &ContainerError{ErrInvalidHeader,
			"kiwi: encrypted fig-kiwie container requires a key, which this decoder does not accept"}
	case bytes.HasPrefix(data, []byte(headerPlain)):
		return data[len(headerPlain):], nil
	default:
		return nil, &ContainerError{ErrInvalidHeader, "kiwi: missing fig-kiwi magic header"}
	}
}

// splitChunks reads a sequence of (uint32 little-endian length, payload)
// pairs, stopping at the first zero-length chunk or end of input.
func splitChunks(data []byte) ([][]byte, error) {
	var chunks [][]byte
	pos := 0
	for pos < len(data) {
		if pos+4 > len(data) {
			return nil, fmt.Errorf("kiwi: truncated chunk length at offset %d", pos)
		}
		n := binary.LittleEndian.Uint32(data[pos : pos+4])
		pos += 4
		if n == 0 {
			break
		}
		if pos+int(n) > len(data) {
			return nil, fmt.Errorf("kiwi: chunk of length %d overruns input at offset %d", n, pos)
		}
		chunks = append(chunks, data[pos:pos+int(n)])
		pos += int(n)
	}
	return chunks, nil
}

func inflateDeflate(compressed []byte) ([]byte, error) {
	fr := flate.NewReader(bytes.NewReader(compressed))
	defer fr.Close()
	out, err := io.ReadAll(fr)
	if err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	return out, nil
}

func inflateZstd(compressed []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	defer dec.Close()
	out, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return out, nil
}
