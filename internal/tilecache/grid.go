// Package tilecache implements a coordinate-addressed, LOD-aware,
// LRU-bounded cache of draw-command batches. It is generic over the command
// value type so it has no dependency on the root package's Node/DrawCommand
// types (avoiding an import cycle).
package tilecache

import "sync"

// TileSize is the base tile side length in world units at LOD 0.
const TileSize = 1024.0

// DefaultMaxCachedTiles is the default LRU bound.
const DefaultMaxCachedTiles = 256

// MaxLOD is the highest zoom_level this grid addresses; levels are 0..3.
const MaxLOD = 3

// TileCoord addresses a square region of world space at a given zoom level.
type TileCoord struct {
	X, Y int32
	Zoom uint8
}

// SideLength returns S_zoom = TileSize * 2^zoom.
func (c TileCoord) SideLength() float64 {
	return TileSize * float64(uint64(1)<<c.Zoom)
}

// Bounds returns the coord's absolute-coordinate envelope.
func (c TileCoord) Bounds() Bounds {
	s := c.SideLength()
	x0, y0 := float64(c.X)*s, float64(c.Y)*s
	return Bounds{MinX: x0, MinY: y0, MaxX: x0 + s, MaxY: y0 + s}
}

// Bounds is a minimal axis-aligned rectangle, decoupled from the root
// package's Rect so this package stays dependency-free.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Intersects reports whether two bounds overlap, inclusive on shared edges.
func (b Bounds) Intersects(o Bounds) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX && b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

// Viewport is the host-facing query shape: world-space origin, extent, and
// scale.
type Viewport struct {
	X, Y, Width, Height, Scale float64
}

// LOD selects the level of detail for a viewport scale:
// lod(s) = 0 if s >= 0.5; 1 if s >= 0.25; 2 if s >= 0.125; 3 otherwise.
func LOD(scale float64) uint8 {
	switch {
	case scale >= 0.5:
		return 0
	case scale >= 0.25:
		return 1
	case scale >= 0.125:
		return 2
	default:
		return 3
	}
}

// MinVisibleSize returns the small-feature culling threshold for a LOD,
// 1/simplification(lod) where simplification = {0:1, 1:0.5, 2:0.25, 3:0.125},
// yielding thresholds {1, 2, 4, 8} world units.
func MinVisibleSize(lod uint8) float64 {
	switch lod {
	case 0:
		return 1
	case 1:
		return 2
	case 2:
		return 4
	default:
		return 8
	}
}

// VisibleTiles enumerates the tile coordinates covering a viewport at its
// own LOD: the closed rectangle from floor(min/S) to floor(max/S) per axis,
// so every emitted tile intersects the viewport (edges inclusive).
func VisibleTiles(v Viewport) []TileCoord {
	lod := LOD(v.Scale)
	return tilesForBounds(Bounds{MinX: v.X, MinY: v.Y, MaxX: v.X + v.Width, MaxY: v.Y + v.Height}, lod)
}

func tilesForBounds(b Bounds, lod uint8) []TileCoord {
	s := TileCoord{Zoom: lod}.SideLength()
	txMin := floorDiv(b.MinX, s)
	txMax := floorDiv(b.MaxX, s)
	tyMin := floorDiv(b.MinY, s)
	tyMax := floorDiv(b.MaxY, s)

	var out []TileCoord
	for ty := tyMin; ty <= tyMax; ty++ {
		for tx := txMin; tx <= txMax; tx++ {
			out = append(out, TileCoord{X: int32(tx), Y: int32(ty), Zoom: lod})
		}
	}
	return out
}

func floorDiv(v, s float64) int64 {
	q := v / s
	fq := int64(q)
	if q < float64(fq) {
		fq--
	}
	return fq
}

func ceilDiv(v, s float64) int64 {
	q := v / s
	cq := int64(q)
	if q > float64(cq) {
		cq++
	}
	return cq
}

// Tile is a memoized draw-command batch for one coordinate.
type Tile[C any] struct {
	Coord        TileCoord
	Bounds       Bounds
	Commands     []C
	NodeIDs      []string
	Dirty        bool
	LastAccessed uint64
}

// Generator produces the commands for one tile coordinate, typically by
// querying the spatial index for the coord's bounds and synthesizing a
// command per intersecting node.
type Generator[C any] func(coord TileCoord) (bounds Bounds, commands []C, nodeIDs []string)

// BoundsLookup resolves a node id to its spatial-index bounds, used by
// InvalidateForNodes.
type BoundsLookup func(id string) (Bounds, bool)

// Grid is the LOD-aware, LRU-bounded tile cache.
type Grid[C any] struct {
	mu             sync.Mutex
	maxCachedTiles int
	accessCounter  uint64
	tiles          map[TileCoord]*Tile[C]
}

// NewGrid creates an empty Grid bounded by maxCachedTiles; a non-positive
// value selects the default.
func NewGrid[C any](maxCachedTiles int) *Grid[C] {
	if maxCachedTiles <= 0 {
		maxCachedTiles = DefaultMaxCachedTiles
	}
	return &Grid[C]{
		maxCachedTiles: maxCachedTiles,
		tiles:          make(map[TileCoord]*Tile[C]),
	}
}

// Lookup returns the tile for coord, generating or regenerating it via gen
// when absent or dirty, and reports whether the result came from a clean
// cache hit (fromCache is false when the tile was dirty before the lookup).
func (g *Grid[C]) Lookup(coord TileCoord, gen Generator[C]) (tile Tile[C], fromCache bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.accessCounter++
	counter := g.accessCounter

	t, exists := g.tiles[coord]
	if exists && !t.Dirty {
		t.LastAccessed = counter
		return *t, true
	}

	bounds, commands, nodeIDs := gen(coord)
	if exists {
		t.Bounds, t.Commands, t.NodeIDs = bounds, commands, nodeIDs
		t.Dirty = false
		t.LastAccessed = counter
		return *t, false
	}

	if len(g.tiles) >= g.maxCachedTiles {
		g.evictLRU()
	}
	fresh := &Tile[C]{Coord: coord, Bounds: bounds, Commands: commands, NodeIDs: nodeIDs, LastAccessed: counter}
	g.tiles[coord] = fresh
	return *fresh, false
}

// evictLRU removes the cached tile with the minimum LastAccessed. Must be
// called with g.mu held.
func (g *Grid[C]) evictLRU() {
	var victim TileCoord
	var min uint64
	first := true
	for c, t := range g.tiles {
		if first || t.LastAccessed < min {
			victim, min, first = c, t.LastAccessed, false
		}
	}
	if !first {
		delete(g.tiles, victim)
	}
}

// InvalidateForNodes marks dirty every cached tile, across all LOD levels
// 0..3, whose coord's bounds intersect any changed node's spatial-index
// bounds. Nodes absent from lookup are silently ignored. Returns the
// (possibly duplicated) list of coords marked dirty.
func (g *Grid[C]) InvalidateForNodes(ids []string, lookup BoundsLookup) []TileCoord {
	g.mu.Lock()
	defer g.mu.Unlock()

	var dirtied []TileCoord
	for _, id := range ids {
		b, ok := lookup(id)
		if !ok {
			continue
		}
		for lod := uint8(0); lod <= MaxLOD; lod++ {
			for _, coord := range tilesForBounds(b, lod) {
				t, exists := g.tiles[coord]
				if !exists {
					continue
				}
				t.Dirty = true
				dirtied = append(dirtied, coord)
			}
		}
	}
	return dirtied
}

// Clear empties the cache.
func (g *Grid[C]) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tiles = make(map[TileCoord]*Tile[C])
}

// Stats is the (cached, max, dirty) tile-count triple.
type Stats struct {
	CachedTiles int
	MaxTiles    int
	DirtyTiles  int
}

// Stats reports current cache occupancy.
func (g *Grid[C]) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := Stats{CachedTiles: len(g.tiles), MaxTiles: g.maxCachedTiles}
	for _, t := range g.tiles {
		if t.Dirty {
			s.DirtyTiles++
		}
	}
	return s
}
