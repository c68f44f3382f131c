// Package figview is a viewport-driven renderer backend for Figma design
// documents. It ingests the proprietary .fig binary container, reconstructs
// a scene tree, and serves spatial queries (point/rect hit tests, overall
// document bounds) and tiled draw-command batches for the visible portion of
// an arbitrarily large canvas at an arbitrary zoom.
//
// # Quick start
//
//	doc, err := figview.Load(data, figview.LoadOptions{})
//	info := doc.DocumentInfo()
//	cmds, err := doc.RenderNode(info.PageIDs[0], true)
//
// # Scene model
//
// Every element in a loaded document is a [Node], addressed by a string id
// formatted "<session>:<local>". [Document.Children] and [Document.NodeInfo]
// walk the node map directly; [Document.RenderNode] additionally synthesizes
// a [DrawCommand] per node via depth-first pre-order traversal.
//
// # Spatial queries and tiling
//
// [Document.InitSpatialIndex] builds an R-tree over absolute-coordinate node
// bounds (lazily, on first viewport query, or explicitly). Once built,
// [Document.QueryNodesAtPoint] and [Document.QueryNodesInRect] answer hit
// tests, and [Document.RenderTiles] / [Document.RenderSingleTile] return
// memoized, LOD-aware draw-command batches for a [Viewport]. Call
// [Document.InvalidateTiles] after mutating the host's copy of a node to
// mark the affected cached tiles dirty.
//
// # Pure decoders
//
// [DecodeFillPaint], [DecodeEffects], and [DecodeVector] decode the opaque
// per-node blobs independently of a loaded [Document], for callers that only
// need paint/effect/path data.
package figview
