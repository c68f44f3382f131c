// Package spatial implements the bulk-loaded R-tree over absolute-coordinate
// node bounds: point and envelope intersection queries plus a side map from
// node identity to bounds for incremental invalidation.
package spatial

import "github.com/tidwall/rtree"

// NodeBounds is an R-tree leaf: one node's absolute-coordinate envelope.
type NodeBounds struct {
	ID                     string
	MinX, MinY, MaxX, MaxY float64
}

// Width and Height report the envelope's extent; both are always >= 0.
func (b NodeBounds) Width() float64  { return b.MaxX - b.MinX }
func (b NodeBounds) Height() float64 { return b.MaxY - b.MinY }

// Index is the bulk-loaded spatial index: an R-tree of NodeBounds plus a
// side map for O(1) id -> bounds lookup.
type Index struct {
	tree      rtree.RTree
	boundsMap map[string]NodeBounds
	overall   NodeBounds
	hasAny    bool
}

// Build bulk-loads an Index from a flat list of leaf bounds. Every entry is
// inserted into the R-tree and indexed by id in boundsMap; tidwall/rtree
// handles node packing internally, keeping point and envelope queries
// output-sensitive on large documents.
func Build(leaves []NodeBounds) *Index {
	idx := &Index{boundsMap: make(map[string]NodeBounds, len(leaves))}
	for _, b := range leaves {
		idx.tree.Insert([2]float64{b.MinX, b.MinY}, [2]float64{b.MaxX, b.MaxY}, b)
		idx.boundsMap[b.ID] = b
		if !idx.hasAny {
			idx.overall = b
			idx.hasAny = true
		} else {
			if b.MinX < idx.overall.MinX {
				idx.overall.MinX = b.MinX
			}
			if b.MinY < idx.overall.MinY {
				idx.overall.MinY = b.MinY
			}
			if b.MaxX > idx.overall.MaxX {
				idx.overall.MaxX = b.MaxX
			}
			if b.MaxY > idx.overall.MaxY {
				idx.overall.MaxY = b.MaxY
			}
		}
	}
	return idx
}

// QueryRect returns every leaf whose envelope intersects the query AABB.
// Result order is unspecified.
func (idx *Index) QueryRect(minX, minY, maxX, maxY float64) []string {
	var out []string
	idx.tree.Search([2]float64{minX, minY}, [2]float64{maxX, maxY},
		func(min, max [2]float64, value interface{}) bool {
			out = append(out, value.(NodeBounds).ID)
			return true
		})
	return out
}

// QueryPoint returns every leaf containing (x, y), inclusive on all edges.
func (idx *Index) QueryPoint(x, y float64) []string {
	return idx.QueryRect(x, y, x, y)
}

// GetNodeBounds is an O(1) lookup of a node's bounds by id.
func (idx *Index) GetNodeBounds(id string) (NodeBounds, bool) {
	b, ok := idx.boundsMap[id]
	return b, ok
}

// OverallBounds returns the union of every leaf envelope, or ok=false when
// the index is empty.
func (idx *Index) OverallBounds() (NodeBounds, bool) {
	if !idx.hasAny {
		return NodeBounds{}, false
	}
	return idx.overall, true
}

// Len reports the number of leaves in the index.
func (idx *Index) Len() int { return len(idx.boundsMap) }
