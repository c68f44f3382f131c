// Package scenetree computes the absolute-position, accumulated-opacity walk
// that both the spatial index build and per-tile/per-node draw-command
// synthesis need: a scene subtree's nodes carry only parent-relative (x, y)
// and opacity, so every consumer of absolute coordinates has to thread the
// same parent transform and alpha down the tree. The walk is one-shot and
// non-mutating over an immutable node map.
package scenetree

// NodeData is the minimal per-node shape scenetree needs, decoupling this
// package from the root package's Node type the way tilecache.Bounds is
// decoupled from Rect (avoids an import cycle and keeps this package
// reusable for any tree-shaped, locally-positioned node model).
type NodeData struct {
	X, Y, Opacity float64
	ParentID      string
	Children      []string
}

// Source resolves a node id to its NodeData. ok=false for a dangling
// reference, which callers drop silently.
type Source interface {
	Lookup(id string) (NodeData, bool)
}

// identityTransform and translateTransform/multiplyAffine mirror
// geometry.go's helpers of the same name in the root package; duplicated
// here (rather than imported) to keep this package free of a dependency on
// figview, matching internal/tilecache's own Bounds/Intersects duplication
// of Rect's shape instead of importing it.
var identityTransform = [6]float64{1, 0, 0, 0, 1, 0}

func translateTransform(x, y float64) [6]float64 {
	return [6]float64{1, 0, x, 0, 1, y}
}

func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[1]*c[3],
		p[0]*c[1] + p[1]*c[4],
		p[0]*c[2] + p[1]*c[5] + p[2],
		p[3]*c[0] + p[4]*c[3],
		p[3]*c[1] + p[4]*c[4],
		p[3]*c[2] + p[4]*c[5] + p[5],
	}
}

// Entry is one node's resolved absolute position, world transform, and
// accumulated opacity within a Tree.
type Entry struct {
	ID               string
	AbsX, AbsY       float64
	Transform        [6]float64 // identity translated by (AbsX, AbsY); never folds rotation
	EffectiveOpacity float64
}

// Tree is the absolute-position render tree built once from a scene subtree
// rooted at one node.
type Tree struct {
	entries map[string]Entry
	order   []string // pre-order id sequence, root first
}

// Build walks src depth-first from rootID, accumulating the parent transform
// and accumulated opacity, so the spatial index build and draw-command
// synthesis can share one walk.
func Build(src Source, rootID string) *Tree {
	t := &Tree{entries: make(map[string]Entry)}
	var walk func(id string, parentTransform [6]float64, parentOpacity float64)
	walk = func(id string, parentTransform [6]float64, parentOpacity float64) {
		d, ok := src.Lookup(id)
		if !ok {
			return
		}
		world := multiplyAffine(parentTransform, translateTransform(d.X, d.Y))
		opacity := parentOpacity * d.Opacity
		t.entries[id] = Entry{ID: id, AbsX: world[2], AbsY: world[5], Transform: world, EffectiveOpacity: opacity}
		t.order = append(t.order, id)
		for _, cid := range d.Children {
			walk(cid, world, opacity)
		}
	}
	walk(rootID, identityTransform, 1.0)
	return t
}

// Get returns the resolved entry for id, if it was reached during Build's
// walk (ok=false for ids outside rootID's subtree or dangling references).
func (t *Tree) Get(id string) (Entry, bool) {
	e, ok := t.entries[id]
	return e, ok
}

// PreOrder returns every reached id in depth-first pre-order, root first.
func (t *Tree) PreOrder() []string {
	return t.order
}

// Len reports how many nodes the walk reached.
func (t *Tree) Len() int { return len(t.entries) }

// AncestorOpacity walks from id upward via ParentID, multiplying each
// ancestor's opacity, for callers (like render_node on an arbitrary
// sub-root) that need a node's inherited opacity without having built a
// Tree rooted above it. A cycle in ParentID references stops the walk rather
// than looping forever.
func AncestorOpacity(src Source, id string) float64 {
	opacity := 1.0
	seen := make(map[string]bool)
	for id != "" && !seen[id] {
		seen[id] = true
		d, ok := src.Lookup(id)
		if !ok {
			break
		}
		opacity *= d.Opacity
		id = d.ParentID
	}
	return opacity
}
