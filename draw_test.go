package figview

import "testing"

func TestSynthesizeDrawCommandInvisibleNodeSkipped(t *testing.T) {
	n := &Node{ID: "a", Type: NodeTypeRectangle, Visible: false, Width: 10, Height: 10}
	if _, ok := synthesizeDrawCommand(n, 1); ok {
		t.Fatal("want ok=false for invisible node")
	}
}

func TestSynthesizeDrawCommandRectangle(t *testing.T) {
	n := &Node{
		ID: "r", Type: NodeTypeRectangle, Visible: true,
		X: 10, Y: 20, Width: 100, Height: 50, CornerRadius: 4,
	}
	cmd, ok := synthesizeDrawCommand(n, 0.5)
	if !ok {
		t.Fatal("want ok=true for rectangle")
	}
	if cmd.Kind != CommandRect {
		t.Fatalf("got kind %v, want CommandRect", cmd.Kind)
	}
	if cmd.X != 10 || cmd.Y != 20 || cmd.Width != 100 || cmd.Height != 50 {
		t.Fatalf("got bounds %+v", cmd)
	}
	want := CornerRadii{4, 4, 4, 4}
	if cmd.CornerRadii != want {
		t.Fatalf("got corner radii %v, want %v", cmd.CornerRadii, want)
	}
	if cmd.EffectiveOpacity != 0.5 {
		t.Fatalf("got opacity %v, want 0.5", cmd.EffectiveOpacity)
	}
	if cmd.Transform != translateTransform(10, 20) {
		t.Fatalf("got transform %v", cmd.Transform)
	}
}

func TestSynthesizeDrawCommandRectangleCornerRadiiOverride(t *testing.T) {
	n := &Node{
		ID: "r", Type: NodeTypeRectangle, Visible: true, Width: 10, Height: 10,
		CornerRadius:         2,
		RectangleCornerRadii: CornerRadii{1, 0, 0, 0},
	}
	cmd, _ := synthesizeDrawCommand(n, 1)
	if cmd.CornerRadii != (CornerRadii{1, 0, 0, 0}) {
		t.Fatalf("got %v, want per-corner override to win", cmd.CornerRadii)
	}
}

func TestSynthesizeDrawCommandEllipse(t *testing.T) {
	n := &Node{ID: "e", Type: NodeTypeEllipse, Visible: true, X: 0, Y: 0, Width: 20, Height: 10}
	cmd, ok := synthesizeDrawCommand(n, 1)
	if !ok || cmd.Kind != CommandEllipse {
		t.Fatalf("got %+v, %v", cmd, ok)
	}
	if cmd.Path == "" {
		t.Fatal("want non-empty SVG path for ellipse")
	}
}

func TestSynthesizeDrawCommandText(t *testing.T) {
	n := &Node{ID: "t", Type: NodeTypeText, Visible: true, X: 1, Y: 2, Width: 3, Height: 4}
	cmd, ok := synthesizeDrawCommand(n, 1)
	if !ok || cmd.Kind != CommandText {
		t.Fatalf("got %+v, %v", cmd, ok)
	}
}

func TestSynthesizeDrawCommandVector(t *testing.T) {
	n := &Node{ID: "v", Type: NodeTypeVector, Visible: true, X: 5, Y: 6}
	cmd, ok := synthesizeDrawCommand(n, 1)
	if !ok || cmd.Kind != CommandPath {
		t.Fatalf("got %+v, %v", cmd, ok)
	}
	if cmd.Transform != translateTransform(5, 6) {
		t.Fatalf("got transform %v", cmd.Transform)
	}
}

func TestSynthesizeDrawCommandContainersEmitNothing(t *testing.T) {
	for _, kind := range []NodeType{
		NodeTypeGroup, NodeTypeBooleanOperation, NodeTypeDocument,
		NodeTypeCanvas, NodeTypeSection, NodeTypeSlice,
	} {
		n := &Node{ID: "c", Type: kind, Visible: true, Width: 10, Height: 10}
		if _, ok := synthesizeDrawCommand(n, 1); ok {
			t.Errorf("container type %v should not synthesize a command", kind)
		}
	}
}

func TestSynthesizeDrawCommandDecodesFillsAndEffects(t *testing.T) {
	fills := []byte{}
	fills = append(fills, varintBytes(1)...)
	fills = append(fills, varintBytes(0)...)
	fills = append(fills, 1, 2, 3, 255)
	fills = append(fills, encodeRotatedFloat32(1)...)
	fills = append(fills, varintBytes(1)...)

	n := &Node{
		ID: "r", Type: NodeTypeRectangle, Visible: true, Width: 1, Height: 1,
		FillPaintsBlob: fills,
	}
	cmd, ok := synthesizeDrawCommand(n, 1)
	if !ok {
		t.Fatal("want ok")
	}
	if len(cmd.Fills) != 1 || cmd.Fills[0].Solid != (Color{1, 2, 3, 255}) {
		t.Fatalf("got fills %+v", cmd.Fills)
	}
}

func TestNodeTypeStringRoundTrip(t *testing.T) {
	if got := NodeTypeRectangle.String(); got != "RECTANGLE" {
		t.Fatalf("got %q", got)
	}
	if got := NodeType(999).String(); got != "UNKNOWN" {
		t.Fatalf("got %q, want UNKNOWN", got)
	}
}

func TestNodeTypeFromVarintOutOfRange(t *testing.T) {
	if got := nodeTypeFromVarint(999); got != NodeTypeUnknown {
		t.Fatalf("got %v, want NodeTypeUnknown", got)
	}
	if got := nodeTypeFromVarint(10); got != NodeTypeRectangle {
		t.Fatalf("got %v, want NodeTypeRectangle", got)
	}
}
