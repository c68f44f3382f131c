package figview

import (
	"github.com/phanxgames/figview/internal/scenetree"
	"github.com/phanxgames/figview/internal/spatial"
	"github.com/phanxgames/figview/internal/tilecache"
)

// TileSize returns the base tile side length in world units at LOD 0.
func TileSize() float64 { return tilecache.TileSize }

// withLockGuard runs fn and converts any panic escaping it into a
// DecodeError("lock poisoned"). Go's sync.RWMutex has no poisoning concept,
// so a recovered panic during a locked critical section is what surfaces in
// its place, and the document stays usable afterward.
func withLockGuard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newError(KindDecodeError, "lock poisoned: %v", r)
		}
	}()
	return fn()
}

// InitSpatialIndex builds the spatial index from rootID's scene subtree and
// returns the number of leaves indexed. It is idempotent: a second call
// rebuilds the index from scratch.
func (d *Document) InitSpatialIndex(rootID string) (count int, err error) {
	err = withLockGuard(func() error {
		if _, ok := d.nodes[rootID]; !ok {
			return nodeNotFound(rootID)
		}
		tree := scenetree.Build(d, rootID)
		leaves := boundsFromTree(d.nodes, tree)

		d.indexMu.Lock()
		defer d.indexMu.Unlock()
		d.index = spatial.Build(leaves)
		d.rootID = rootID
		count = d.index.Len()
		return nil
	})
	return count, err
}

// ensureIndex lazily builds the spatial index on first access, taking the
// writer lock only for the build; subsequent accesses take the reader lock
// and never observe a half-built index.
func (d *Document) ensureIndex(rootID string) (*spatial.Index, error) {
	d.indexMu.RLock()
	if d.index != nil && d.rootID == rootID {
		idx := d.index
		d.indexMu.RUnlock()
		return idx, nil
	}
	d.indexMu.RUnlock()

	if _, err := d.InitSpatialIndex(rootID); err != nil {
		return nil, err
	}
	d.indexMu.RLock()
	defer d.indexMu.RUnlock()
	return d.index, nil
}

// boundsFromTree derives a spatial-index leaf per node in tree whose width
// and height are both strictly positive, using the absolute top-left
// scenetree already accumulated.
func boundsFromTree(nodes map[string]*Node, tree *scenetree.Tree) []spatial.NodeBounds {
	var out []spatial.NodeBounds
	for _, id := range tree.PreOrder() {
		n, ok := nodes[id]
		if !ok {
			continue
		}
		if n.Width <= 0 || n.Height <= 0 {
			continue
		}
		e, _ := tree.Get(id)
		out = append(out, spatial.NodeBounds{
			ID: n.ID, MinX: e.AbsX, MinY: e.AbsY, MaxX: e.AbsX + n.Width, MaxY: e.AbsY + n.Height,
		})
	}
	return out
}

// TileCoordInfo is the host-facing projection of tilecache.TileCoord.
type TileCoordInfo struct {
	X, Y int32
	Zoom uint8
}

func toCoordInfo(c tilecache.TileCoord) TileCoordInfo {
	return TileCoordInfo{X: c.X, Y: c.Y, Zoom: c.Zoom}
}
func fromCoordInfo(c TileCoordInfo) tilecache.TileCoord {
	return tilecache.TileCoord{X: c.X, Y: c.Y, Zoom: c.Zoom}
}

// Viewport is (x, y, width, height, scale) in world coordinates.
type Viewport struct {
	X, Y, Width, Height, Scale float64
}

func toTilecacheViewport(v Viewport) tilecache.Viewport {
	return tilecache.Viewport{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height, Scale: v.Scale}
}

// GetVisibleTiles enumerates the tile coordinates covering viewport, with no
// side effects on the cache.
func GetVisibleTiles(viewport Viewport) []TileCoordInfo {
	coords := tilecache.VisibleTiles(toTilecacheViewport(viewport))
	out := make([]TileCoordInfo, len(coords))
	for i, c := range coords {
		out[i] = toCoordInfo(c)
	}
	return out
}

// TileRenderResult carries one tile's generation result.
type TileRenderResult struct {
	Coord     TileCoordInfo
	Bounds    Rect
	Commands  []DrawCommand
	NodeCount int
	FromCache bool
}

// generatorFor builds a tilecache.Generator closed over this document's
// spatial index and node map: query the index for the tile's envelope, cull
// nodes below the LOD's minimum visible size, synthesize the rest.
func (d *Document) generatorFor(idx *spatial.Index) tilecache.Generator[DrawCommand] {
	return func(coord tilecache.TileCoord) (tilecache.Bounds, []DrawCommand, []string) {
		b := coord.Bounds()
		ids := idx.QueryRect(b.MinX, b.MinY, b.MaxX, b.MaxY)
		minVisible := tilecache.MinVisibleSize(coord.Zoom)

		var commands []DrawCommand
		for _, id := range ids {
			n, ok := d.nodes[id]
			if !ok {
				continue
			}
			if n.Width < minVisible && n.Height < minVisible {
				continue
			}
			opacity := scenetree.AncestorOpacity(d, n.ID)
			if cmd, ok := synthesizeDrawCommand(n, opacity); ok {
				commands = append(commands, cmd)
			}
		}
		return b, commands, ids
	}
}

// RenderTiles renders every tile visible in viewport, initializing the
// spatial index on first call.
func (d *Document) RenderTiles(rootID string, viewport Viewport) ([]TileRenderResult, error) {
	idx, err := d.ensureIndex(rootID)
	if err != nil {
		return nil, err
	}

	coords := tilecache.VisibleTiles(toTilecacheViewport(viewport))
	results := make([]TileRenderResult, 0, len(coords))

	err = withLockGuard(func() error {
		d.tilesMu.Lock()
		defer d.tilesMu.Unlock()
		gen := d.generatorFor(idx)
		for _, c := range coords {
			t, fromCache := d.tiles.Lookup(c, gen)
			results = append(results, toRenderResult(t, fromCache))
		}
		return nil
	})
	return results, err
}

// RenderSingleTile renders exactly one tile coordinate.
func (d *Document) RenderSingleTile(rootID string, coord TileCoordInfo) (TileRenderResult, error) {
	idx, err := d.ensureIndex(rootID)
	if err != nil {
		return TileRenderResult{}, err
	}

	var result TileRenderResult
	err = withLockGuard(func() error {
		d.tilesMu.Lock()
		defer d.tilesMu.Unlock()
		gen := d.generatorFor(idx)
		t, fromCache := d.tiles.Lookup(fromCoordInfo(coord), gen)
		result = toRenderResult(t, fromCache)
		return nil
	})
	return result, err
}

func toRenderResult(t tilecache.Tile[DrawCommand], fromCache bool) TileRenderResult {
	return TileRenderResult{
		Coord:     toCoordInfo(t.Coord),
		Bounds:    Rect{X: t.Bounds.MinX, Y: t.Bounds.MinY, Width: t.Bounds.MaxX - t.Bounds.MinX, Height: t.Bounds.MaxY - t.Bounds.MinY},
		Commands:  append([]DrawCommand(nil), t.Commands...),
		NodeCount: len(t.NodeIDs),
		FromCache: fromCache,
	}
}

// InvalidateTiles marks dirty every cached tile (across LOD 0..3) whose
// coord intersects any changed node's indexed bounds.
func (d *Document) InvalidateTiles(changedIDs []string) []TileCoordInfo {
	d.indexMu.RLock()
	idx := d.index
	d.indexMu.RUnlock()
	if idx == nil {
		return nil
	}

	d.tilesMu.Lock()
	defer d.tilesMu.Unlock()
	dirtied := d.tiles.InvalidateForNodes(changedIDs, func(id string) (tilecache.Bounds, bool) {
		b, ok := idx.GetNodeBounds(id)
		if !ok {
			return tilecache.Bounds{}, false
		}
		return tilecache.Bounds{MinX: b.MinX, MinY: b.MinY, MaxX: b.MaxX, MaxY: b.MaxY}, true
	})
	out := make([]TileCoordInfo, len(dirtied))
	for i, c := range dirtied {
		out[i] = toCoordInfo(c)
	}
	return out
}

// ClearTileCache empties the tile cache.
func (d *Document) ClearTileCache() {
	d.tilesMu.Lock()
	defer d.tilesMu.Unlock()
	d.tiles.Clear()
}

// TileCacheStats reports current cache occupancy.
func (d *Document) TileCacheStats() (cached, max, dirty int) {
	d.tilesMu.Lock()
	defer d.tilesMu.Unlock()
	s := d.tiles.Stats()
	if d.debug {
		d.debugLog("tile cache: cached=%d max=%d dirty=%d", s.CachedTiles, s.MaxTiles, s.DirtyTiles)
	}
	return s.CachedTiles, s.MaxTiles, s.DirtyTiles
}

// QueryNodesAtPoint returns the ids of every indexed node containing (x, y).
// Empty if no index has been built yet.
func (d *Document) QueryNodesAtPoint(x, y float64) []string {
	d.indexMu.RLock()
	defer d.indexMu.RUnlock()
	if d.index == nil {
		return nil
	}
	return d.index.QueryPoint(x, y)
}

// QueryNodesInRect returns the ids of every indexed node intersecting the
// given AABB. Empty if no index has been built yet.
func (d *Document) QueryNodesInRect(minX, minY, maxX, maxY float64) []string {
	d.indexMu.RLock()
	defer d.indexMu.RUnlock()
	if d.index == nil {
		return nil
	}
	return d.index.QueryRect(minX, minY, maxX, maxY)
}

// DocumentBounds returns the union of every indexed leaf envelope, or nil
// when no index has been built or the document is empty.
func (d *Document) DocumentBounds() *Rect {
	d.indexMu.RLock()
	defer d.indexMu.RUnlock()
	if d.index == nil {
		return nil
	}
	b, ok := d.index.OverallBounds()
	if !ok {
		return nil
	}
	return &Rect{X: b.MinX, Y: b.MinY, Width: b.Width(), Height: b.Height()}
}

// RenderNode performs a depth-first pre-order traversal from id, emitting
// one DrawCommand per node that synthesizes one. includeChildren=false
// renders only id itself.
func (d *Document) RenderNode(id string, includeChildren bool) ([]DrawCommand, error) {
	root, ok := d.nodes[id]
	if !ok {
		return nil, nodeNotFound(id)
	}
	// inherited accounts for opacity contributed by id's ancestors, so a
	// sub-tree render still reflects opacity accumulated from above root
	// even though scenetree.Build(d, id) only walks id's own subtree.
	inherited := scenetree.AncestorOpacity(d, root.ParentID)
	tree := scenetree.Build(d, id)

	var out []DrawCommand
	for _, nid := range tree.PreOrder() {
		if !includeChildren && nid != id {
			break
		}
		n, ok := d.nodes[nid]
		if !ok {
			continue
		}
		e, _ := tree.Get(nid)
		if cmd, ok := synthesizeDrawCommand(n, inherited*e.EffectiveOpacity); ok {
			out = append(out, cmd)
		}
	}
	return out, nil
}

// ExportSVGPath returns the SVG path string for id's vector geometry.
func (d *Document) ExportSVGPath(id string) (string, error) {
	n, ok := d.nodes[id]
	if !ok {
		return "", nodeNotFound(id)
	}
	switch n.Type {
	case NodeTypeEllipse:
		cx, cy := n.X+n.Width/2, n.Y+n.Height/2
		return ellipseSVGPath(cx, cy, n.Width/2, n.Height/2), nil
	default:
		return DecodeVector(n.VectorDataBlob).SVGPath(), nil
	}
}

// debugLog prints timing/statistics lines to stderr when SetDebug(true) has
// been called.
func (d *Document) debugLog(format string, args ...any) {
	if !d.debug {
		return
	}
	debugPrintf(format, args...)
}
