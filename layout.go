package figview

import "github.com/phanxgames/figview/internal/autolayout"

// layoutModeFromTag maps a node's decimal-string layoutMode tag to the
// reserved autolayout.LayoutMode vocabulary. The wire encoding is 0=NONE,
// 1=HORIZONTAL, 2=VERTICAL; any other tag (including absent/empty) maps to
// LayoutNone.
func layoutModeFromTag(tag string) autolayout.LayoutMode {
	switch tag {
	case "1":
		return autolayout.LayoutHorizontal
	case "2":
		return autolayout.LayoutVertical
	default:
		return autolayout.LayoutNone
	}
}

// sizingModeFromTag maps a sizing-mode tag (0=FIXED, 1=HUG, 2=FILL) to the
// reserved autolayout.SizingMode vocabulary.
func sizingModeFromTag(tag string) autolayout.SizingMode {
	switch tag {
	case "1":
		return autolayout.SizingHug
	case "2":
		return autolayout.SizingFill
	default:
		return autolayout.SizingFixed
	}
}

// CalculateLayout builds the reserved autolayout.Config from id's decoded
// layout fields and attempts to resolve child placement. The constraint
// solver body is deferred, so this always returns autolayout.ErrUnsupported;
// it exists so the seam between the decoded node model and a future solver
// is exercised end to end rather than only reserved in types.
func (d *Document) CalculateLayout(id string) ([]autolayout.ChildRect, error) {
	n, ok := d.nodes[id]
	if !ok {
		return nil, nodeNotFound(id)
	}
	cfg := autolayout.Config{
		Mode:              layoutModeFromTag(n.LayoutMode),
		PrimaryAxisSizing: sizingModeFromTag(n.PrimaryAxisSizingMode),
		CounterAxisSizing: sizingModeFromTag(n.CounterAxisSizingMode),
		Padding:           [4]float64{n.PaddingLeft, n.PaddingTop, n.PaddingRight, n.PaddingBottom},
		ItemSpacing:       n.ItemSpacing,
	}
	children := make([]autolayout.ChildSize, 0, len(n.Children))
	for _, cid := range n.Children {
		if c, ok := d.nodes[cid]; ok {
			children = append(children, autolayout.ChildSize{Width: c.Width, Height: c.Height})
		}
	}
	return autolayout.Resolve(n.Width, n.Height, cfg, children)
}
