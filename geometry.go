package figview

import "math"

// Rect is an axis-aligned rectangle in world coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies within the rectangle,
// inclusive on all edges.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether two rectangles overlap, inclusive on shared
// edges (a zero-area touch counts as intersecting).
func (r Rect) Intersects(o Rect) bool {
	return r.X <= o.X+o.Width && o.X <= r.X+r.Width &&
		r.Y <= o.Y+o.Height && o.Y <= r.Y+r.Height
}

// MaxX and MaxY return the rectangle's far corner.
func (r Rect) MaxX() float64 { return r.X + r.Width }
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// identityTransform is the identity 2x3 affine matrix, laid out row-major as
// (m00, m01, m02, m10, m11, m12).
var identityTransform = [6]float64{1, 0, 0, 0, 1, 0}

// translateTransform returns an identity matrix translated by (x, y), the
// transform every synthesized draw command carries. Node rotation is kept on
// the node and never folded into the emitted transform.
func translateTransform(x, y float64) [6]float64 {
	return [6]float64{1, 0, x, 0, 1, y}
}

// multiplyAffine composes two 2x3 affine matrices: result = parent * child.
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

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// worldAABB returns the axis-aligned bounding box of a w x h rectangle with
// its top-left corner transformed by m, covering the case where m carries
// rotation or skew even though no current caller produces one.
func worldAABB(m [6]float64, w, h float64) Rect {
	corners := [4][2]float64{{0, 0}, {w, 0}, {0, h}, {w, h}}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		x, y := transformPoint(m, c[0], c[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
