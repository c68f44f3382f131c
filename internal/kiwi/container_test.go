package kiwi

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/zstd"
)

// buildSchemaBytes hand-encodes a tiny bootstrap schema with one enum, one
// struct (GUID-shaped), and one message (NodeChange), mirroring the shape a
// real .fig schema chunk declares for the fields this decoder consumes.
func buildSchemaBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer

	writeVarint := func(u uint64) {
		buf.Write(encodeVarint(u))
	}
	writeString := func(s string) {
		buf.WriteString(s)
		buf.WriteByte(0)
	}
	writeField := func(name string, typeID int32, isArray bool, value int32) {
		writeString(name)
		writeVarint(uint64((int64(typeID) << 1) ^ (int64(typeID) >> 63)))
		if isArray {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
		writeVarint(uint64((int64(value) << 1) ^ (int64(value) >> 63)))
	}

	writeVarint(3) // 3 definitions: NodeType(enum)=0, GUID(struct)=1, NodeChange(message)=2

	// def 0: NodeType enum with one value, unused by the test.
	writeString("NodeType")
	writeVarint(uint64(KindEnum))
	writeVarint(1)
	writeField("RECTANGLE", 0, false, 10)

	// def 1: GUID struct { sessionID: uint, localID: uint }
	writeString("GUID")
	writeVarint(uint64(KindStruct))
	writeVarint(2)
	writeField("sessionID", int32(typeUint), false, 0)
	writeField("localID", int32(typeUint), false, 0)

	// def 2: NodeChange message { guid: GUID (field 1) }
	writeString("NodeChange")
	writeVarint(uint64(KindMessage))
	writeVarint(1)
	writeField("guid", 1, false, 1) // typeID 1 -> GUID struct

	return buf.Bytes()
}

func deflateCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestSpeed)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zstdCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	return enc.EncodeAll(data, nil)
}

func chunk(payload []byte) []byte {
	var out bytes.Buffer
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	out.Write(lenBuf[:])
	out.Write(payload)
	return out.Bytes()
}

func TestParseContainerRejectsBadHeader(t *testing.T) {
	_, err := ParseContainer([]byte("not-kiwi and then some"))
	if err == nil {
		t.Fatal("expected error for bad header")
	}
	ce, ok := err.(*ContainerError)
	if !ok || ce.Kind != ErrInvalidHeader {
		t.Fatalf("want InvalidHeader, got %#v", err)
	}
}

func TestParseContainerRoundTrip(t *testing.T) {
	schemaBytes := buildSchemaBytes(t)
	messageBytes := []byte("hello message body")

	var data bytes.Buffer
	data.WriteString(headerPlain)
	data.Write(chunk(deflateCompress(t, schemaBytes)))
	data.Write(chunk(zstdCompress(t, messageBytes)))
	data.Write(chunk(nil)) // explicit terminator is optional; exercise it anyway
	binary.LittleEndian.PutUint32(data.Bytes()[len(data.Bytes())-4:], 0)

	c, err := ParseContainer(data.Bytes())
	if err != nil {
		t.Fatalf("ParseContainer: %v", err)
	}
	if string(c.Message) != string(messageBytes) {
		t.Errorf("message mismatch: got %q", c.Message)
	}
	nc, ok := c.Schema.Definition("NodeChange")
	if !ok {
		t.Fatal("NodeChange definition missing")
	}
	if len(nc.Fields) != 1 || nc.Fields[0].Name != "guid" {
		t.Fatalf("unexpected NodeChange fields: %+v", nc.Fields)
	}
	guidDef, ok := c.Schema.Definition("GUID")
	if !ok || guidDef.Kind != KindStruct {
		t.Fatalf("GUID struct missing or wrong kind: %+v", guidDef)
	}
}

func TestReadMessageDispatchesStructField(t *testing.T) {
	schemaBytes := buildSchemaBytes(t)
	schema, err := ParseSchema(schemaBytes)
	if err != nil {
		t.Fatal(err)
	}
	nc, _ := schema.Definition("NodeChange")

	// Encode one NodeChange message: field 1 (guid) = GUID{7, 9}, then tag 0.
	var buf bytes.Buffer
	buf.Write(encodeVarint(1)) // tag 1 = guid
	buf.Write(encodeVarint(7))
	buf.Write(encodeVarint(9))
	buf.Write(encodeVarint(0)) // terminator

	r := NewReader(buf.Bytes())
	var gotSession, gotLocal uint64
	err = ReadMessage(r, nc, schema, func(r *Reader, idx int, f Field) (bool, error) {
		if f.Name != "guid" {
			return false, nil
		}
		var err error
		gotSession, err = r.Varint()
		if err != nil {
			return false, err
		}
		gotLocal, err = r.Varint()
		return true, err
	})
	if err != nil {
		t.Fatal(err)
	}
	if gotSession != 7 || gotLocal != 9 {
		t.Errorf("want (7,9), got (%d,%d)", gotSession, gotLocal)
	}
}
