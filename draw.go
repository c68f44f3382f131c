package figview

// CommandKind is the closed vocabulary of draw-command shapes.
type CommandKind int

const (
	CommandRect CommandKind = iota
	CommandEllipse
	CommandPath
	CommandText
	CommandImage
)

// DrawCommand is a backend-independent description of one drawable primitive
// plus its decoded paints, strokes, effects, and transform. Commands are
// value types: they are cloned into tile caches and returned by value across
// the host boundary.
type DrawCommand struct {
	Kind CommandKind

	NodeID string

	Fills        []PaintInfo
	Strokes      []PaintInfo
	StrokeWeight float64
	Effects      []EffectInfo

	// Transform is the 2x3 affine (m00, m01, m02, m10, m11, m12).
	Transform [6]float64

	// ClipPath, when non-empty, is an SVG path string clipping this command.
	ClipPath string

	// EffectiveOpacity is the accumulated opacity (parent * node) along the
	// scene tree.
	EffectiveOpacity float64

	X, Y, Width, Height float64 // rect/ellipse bounding box in local space
	CornerRadii         CornerRadii

	Path     string
	FillRule FillRule
}

// synthesizeDrawCommand builds the DrawCommand for a node, or reports ok=false
// for container types and invisible nodes. effectiveOpacity is the accumulated
// parent*node opacity supplied by the caller (scenetree).
func synthesizeDrawCommand(n *Node, effectiveOpacity float64) (DrawCommand, bool) {
	if !n.Visible {
		return DrawCommand{}, false
	}

	cmd := DrawCommand{
		NodeID:           n.ID,
		Fills:            DecodeFillPaint(n.FillPaintsBlob),
		Strokes:          DecodeFillPaint(n.StrokePaintsBlob),
		StrokeWeight:     n.StrokeWeight,
		Effects:          DecodeEffects(n.EffectsBlob),
		EffectiveOpacity: effectiveOpacity,
	}

	switch n.Type {
	case NodeTypeRectangle, NodeTypeFrame, NodeTypeComponent, NodeTypeInstance:
		cmd.Kind = CommandRect
		cmd.X, cmd.Y, cmd.Width, cmd.Height = n.X, n.Y, n.Width, n.Height
		cmd.CornerRadii = n.resolvedCornerRadii()
		cmd.Transform = translateTransform(n.X, n.Y)
		return cmd, true

	case NodeTypeEllipse:
		cmd.Kind = CommandEllipse
		cmd.X, cmd.Y, cmd.Width, cmd.Height = n.X, n.Y, n.Width, n.Height
		cx, cy := n.X+n.Width/2, n.Y+n.Height/2
		rx, ry := n.Width/2, n.Height/2
		cmd.Path = ellipseSVGPath(cx, cy, rx, ry)
		cmd.Transform = identityTransform
		return cmd, true

	case NodeTypeVector, NodeTypeStar, NodeTypeRegularPolygon, NodeTypeLine:
		cmd.Kind = CommandPath
		path := DecodeVector(n.VectorDataBlob)
		cmd.Path = path.SVGPath()
		cmd.FillRule = path.FillRule
		cmd.Transform = translateTransform(n.X, n.Y)
		return cmd, true

	case NodeTypeText:
		cmd.Kind = CommandText
		cmd.X, cmd.Y, cmd.Width, cmd.Height = n.X, n.Y, n.Width, n.Height
		cmd.Transform = identityTransform
		return cmd, true

	case NodeTypeGroup, NodeTypeBooleanOperation, NodeTypeDocument,
		NodeTypeCanvas, NodeTypeSection, NodeTypeSlice:
		return DrawCommand{}, false

	default:
		return DrawCommand{}, false
	}
}
