package figview

import "github.com/phanxgames/figview/internal/kiwi"

// PaintKind is the closed vocabulary of fill/stroke paint kinds.
type PaintKind int

const (
	PaintSolid PaintKind = iota
	PaintLinearGradient
	PaintRadialGradient
	PaintAngularGradient
	PaintDiamondGradient
	PaintImage
)

// BlendMode is the closed vocabulary of layer blend modes.
type BlendMode int

const (
	BlendPassThrough BlendMode = iota
	BlendNormal
	BlendDarken
	BlendMultiply
	BlendLinearBurn
	BlendColorBurn
	BlendLighten
	BlendScreen
	BlendLinearDodge
	BlendColorDodge
	BlendOverlay
	BlendSoftLight
	BlendHardLight
	BlendDifference
	BlendExclusion
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
)

func blendModeFromVarint(v uint64) BlendMode {
	if v <= uint64(BlendLuminosity) {
		return BlendMode(v)
	}
	return BlendNormal
}

// Color is a straight-alpha 8-bit-per-channel color.
type Color struct {
	R, G, B, A uint8
}

// GradientStop is one color stop along a gradient's 0..1 position axis.
type GradientStop struct {
	Position float64
	Color    Color
}

// ImageScaleMode selects how an image paint maps its image into the target
// region; carried on PaintInfo for host-side image compositing.
type ImageScaleMode int

const (
	ImageScaleFill ImageScaleMode = iota
	ImageScaleFit
	ImageScaleTile
	ImageScaleStretch
)

// PaintInfo is one decoded fill or stroke paint entry.
type PaintInfo struct {
	Kind  PaintKind
	Solid Color
	Stops []GradientStop
	// Transform is the gradient/image paint-space matrix. DecodeFillPaint
	// always sets it to identity; no matrix is read from the blob.
	Transform [6]float64
	ImageRef  string
	ScaleMode ImageScaleMode
	Opacity   float64
	BlendMode BlendMode
}

// DecodeFillPaint decodes a fill or stroke paint blob (identical layout for
// both) into an ordered list of paints. Malformed blobs return the entries
// decoded so far rather than an error, keeping draw-command synthesis total.
func DecodeFillPaint(blob []byte) []PaintInfo {
	if len(blob) == 0 {
		return nil
	}
	r := kiwi.NewReader(blob)
	count, err := r.Varint()
	if err != nil {
		return nil
	}
	out := make([]PaintInfo, 0, count)
	for i := uint64(0); i < count; i++ {
		p, ok := decodeOnePaint(r)
		if !ok {
			return out
		}
		out = append(out, p)
	}
	return out
}

func decodeOnePaint(r *kiwi.Reader) (PaintInfo, bool) {
	kindVal, err := r.Varint()
	if err != nil {
		return PaintInfo{}, false
	}
	p := PaintInfo{Transform: identityTransform}
	switch kindVal {
	case 0:
		p.Kind = PaintSolid
		c, ok := readRGBA(r)
		if !ok {
			return PaintInfo{}, false
		}
		p.Solid = c
	case 1, 2, 3, 4:
		p.Kind = PaintKind(kindVal)
		stopCount, err := r.Varint()
		if err != nil {
			return PaintInfo{}, false
		}
		stops := make([]GradientStop, 0, stopCount)
		for i := uint64(0); i < stopCount; i++ {
			pos, err := r.Float32()
			if err != nil {
				return PaintInfo{}, false
			}
			c, ok := readRGBA(r)
			if !ok {
				return PaintInfo{}, false
			}
			stops = append(stops, GradientStop{Position: float64(pos), Color: c})
		}
		p.Stops = stops
	case 5:
		p.Kind = PaintImage
		ref, err := r.String()
		if err != nil {
			return PaintInfo{}, false
		}
		p.ImageRef = ref
		// Trailing scale-mode varint is optional; end of blob defaults to
		// ImageScaleFill.
		if r.Len() > 0 {
			if sm, err := r.Varint(); err == nil && sm <= uint64(ImageScaleStretch) {
				p.ScaleMode = ImageScaleMode(sm)
			}
		}
	default:
		// Unknown kind: empty payload.
	}

	opacity, err := r.Float32()
	if err != nil {
		return PaintInfo{}, false
	}
	p.Opacity = float64(opacity)

	blend, err := r.Varint()
	if err != nil {
		return PaintInfo{}, false
	}
	p.BlendMode = blendModeFromVarint(blend)

	return p, true
}

// readRGBA reads the 4 raw (non-varint) bytes a solid or gradient-stop color
// carries: R, G, B, A, one byte each.
func readRGBA(r *kiwi.Reader) (Color, bool) {
	b, err := r.Raw(4)
	if err != nil {
		return Color{}, false
	}
	return Color{R: b[0], G: b[1], B: b[2], A: b[3]}, true
}
