package figview

import "fmt"

// ellipseSVGPath returns the equivalent two-arc SVG path for an ellipse
// centered at (cx, cy) with radii (rx, ry):
//
//	M cx+rx,cy A rx,ry 0 1 1 cx-rx,cy A rx,ry 0 1 1 cx+rx,cy Z
func ellipseSVGPath(cx, cy, rx, ry float64) string {
	return fmt.Sprintf(
		"M %v,%v A %v,%v 0 1 1 %v,%v A %v,%v 0 1 1 %v,%v Z",
		cx+rx, cy, rx, ry, cx-rx, cy, rx, ry, cx+rx, cy,
	)
}
