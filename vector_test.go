package figview

import (
	"math"
	"testing"
)

func TestDecodeVectorEmptyBlob(t *testing.T) {
	p := DecodeVector(nil)
	if p.FillRule != FillRuleNonZero || len(p.Commands) != 0 {
		t.Fatalf("got %+v", p)
	}
}

func TestDecodeVectorMoveLineClose(t *testing.T) {
	blob := []byte{
		0, // nonzero fill rule
		1, // move
	}
	blob = append(blob, encodeRotatedFloat32(1)...)
	blob = append(blob, encodeRotatedFloat32(2)...)
	blob = append(blob, 2) // line
	blob = append(blob, encodeRotatedFloat32(3)...)
	blob = append(blob, encodeRotatedFloat32(4)...)
	blob = append(blob, 5) // close
	blob = append(blob, 0) // end

	p := DecodeVector(blob)
	if p.FillRule != FillRuleNonZero {
		t.Fatalf("got fill rule %v", p.FillRule)
	}
	want := []PathCommand{"M 1 2", "L 3 4", "Z"}
	if len(p.Commands) != len(want) {
		t.Fatalf("got %v, want %v", p.Commands, want)
	}
	for i, c := range want {
		if p.Commands[i] != c {
			t.Errorf("command %d = %q, want %q", i, p.Commands[i], c)
		}
	}
}

func TestDecodeVectorEvenOddFillRule(t *testing.T) {
	blob := []byte{1, 0} // even-odd, immediate end
	p := DecodeVector(blob)
	if p.FillRule != FillRuleEvenOdd {
		t.Fatalf("got %v, want FillRuleEvenOdd", p.FillRule)
	}
}

func TestDecodeVectorTruncatedStreamReturnsPartial(t *testing.T) {
	blob := []byte{0, 1, 0xff, 0x00} // move op tag, then a nonzero float32 prefix with its 3-byte body truncated
	p := DecodeVector(blob)
	if len(p.Commands) != 0 {
		t.Fatalf("want no commands from a truncated move, got %v", p.Commands)
	}
}

func TestSVGPathJoinsWithSingleSpaces(t *testing.T) {
	p := PathData{Commands: []PathCommand{"M 0 0", "L 1 1", "Z"}}
	if got, want := p.SVGPath(), "M 0 0 L 1 1 Z"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// encodeRotatedFloat32 is the inverse of kiwi.Reader.Float32: it rotates the
// IEEE-754 bits left by 9 so the exponent lands in the low byte and emits the
// resulting 32-bit word low byte first, matching the wire format's
// exponent-first layout. +0.0 always encodes as the single zero byte the
// reader special-cases.
func encodeRotatedFloat32(v float32) []byte {
	if v == 0 {
		return []byte{0}
	}
	bits := math.Float32bits(v)
	w := (bits >> 23) | (bits << 9)
	return []byte{byte(w), byte(w >> 8), byte(w >> 16), byte(w >> 24)}
}
