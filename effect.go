package figview

import "github.com/phanxgames/figview/internal/kiwi"

// EffectKind is the closed vocabulary of layer effects.
type EffectKind int

const (
	EffectDropShadow EffectKind = iota
	EffectInnerShadow
	EffectLayerBlur
	EffectBackgroundBlur
)

// EffectInfo is one decoded effect entry.
type EffectInfo struct {
	Kind    EffectKind
	Visible bool
	Radius  float64

	// Color, Offset and Spread are only meaningful for DropShadow/InnerShadow.
	Color            Color
	OffsetX, OffsetY float64
	Spread           float64
}

// DecodeEffects decodes an effect blob into an ordered list. Malformed blobs
// return the entries decoded so far rather than an error.
func DecodeEffects(blob []byte) []EffectInfo {
	if len(blob) == 0 {
		return nil
	}
	r := kiwi.NewReader(blob)
	count, err := r.Varint()
	if err != nil {
		return nil
	}
	out := make([]EffectInfo, 0, count)
	for i := uint64(0); i < count; i++ {
		e, ok := decodeOneEffect(r)
		if !ok {
			return out
		}
		out = append(out, e)
	}
	return out
}

func decodeOneEffect(r *kiwi.Reader) (EffectInfo, bool) {
	kindVal, err := r.Varint()
	if err != nil {
		return EffectInfo{}, false
	}
	if kindVal > uint64(EffectBackgroundBlur) {
		return EffectInfo{}, false
	}
	e := EffectInfo{Kind: EffectKind(kindVal)}

	visible, err := r.Bool()
	if err != nil {
		return EffectInfo{}, false
	}
	e.Visible = visible

	radius, err := r.Float32()
	if err != nil {
		return EffectInfo{}, false
	}
	e.Radius = float64(radius)

	if e.Kind == EffectDropShadow || e.Kind == EffectInnerShadow {
		c, ok := readRGBA(r)
		if !ok {
			return EffectInfo{}, false
		}
		e.Color = c

		offsets, err := r.Float32Array(2)
		if err != nil {
			return EffectInfo{}, false
		}
		e.OffsetX, e.OffsetY = float64(offsets[0]), float64(offsets[1])

		spread, err := r.Float32()
		if err != nil {
			return EffectInfo{}, false
		}
		e.Spread = float64(spread)
	}

	return e, true
}
