package figview

import (
	"fmt"
	"math"
	"sync"

	"github.com/phanxgames/figview/internal/kiwi"
	"github.com/phanxgames/figview/internal/scenetree"
	"github.com/phanxgames/figview/internal/spatial"
	"github.com/phanxgames/figview/internal/tilecache"
)

// LoadOptions configures Load. A zero value selects the defaults; there are
// no environment variables or config files.
type LoadOptions struct {
	// MaxCachedTiles bounds the tile cache; 0 selects the default of 256.
	MaxCachedTiles int
	// Debug enables stderr timing/statistics logging from the first call,
	// including Load's own decode timing; Document.SetDebug(true) called
	// after Load enables the same logging for later calls only.
	Debug bool
}

func (o LoadOptions) maxCachedTiles() int {
	if o.MaxCachedTiles > 0 {
		return o.MaxCachedTiles
	}
	return tilecache.DefaultMaxCachedTiles
}

// Document owns the immutable parsed node map, the page id sequence, and the
// lazily built spatial index and tile cache, for the lifetime of the public
// handle.
type Document struct {
	Name    string
	Version string

	nodes   map[string]*Node
	pageIDs []string

	debug bool

	indexMu  sync.RWMutex
	index    *spatial.Index
	rootID   string // root the index was built from, for cache invalidation bookkeeping

	tilesMu sync.RWMutex
	tiles   *tilecache.Grid[DrawCommand]

	opts LoadOptions
}

// Load parses a .fig byte stream into a Document: validates the header,
// decompresses the schema and message chunks, and decodes every node change
// into the node map.
func Load(data []byte, opts LoadOptions) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newError(KindDecodeError, "panic during load: %v", r)
		}
	}()

	container, cerr := kiwi.ParseContainer(data)
	if cerr != nil {
		if ce, ok := cerr.(*kiwi.ContainerError); ok {
			switch ce.Kind {
			case kiwi.ErrInvalidHeader:
				return nil, wrapError(KindInvalidHeader, cerr, "load")
			case kiwi.ErrDecompression:
				return nil, wrapError(KindDecompressionError, cerr, "load")
			case kiwi.ErrSchema:
				return nil, wrapError(KindSchemaError, cerr, "load")
			}
		}
		return nil, wrapError(KindDecodeError, cerr, "load")
	}

	msgDef, ok := container.Schema.Definition("Message")
	if !ok {
		return nil, newError(KindSchemaError, "load: schema has no Message definition")
	}
	nodeChangeDef, ok := container.Schema.Definition("NodeChange")
	if !ok {
		return nil, newError(KindSchemaError, "load: schema has no NodeChange definition")
	}

	doc = &Document{
		Version: "1",
		nodes:   make(map[string]*Node),
		opts:    opts,
		debug:   opts.Debug,
	}

	decodeErr := timeIt(doc.debug, "decode nodeChanges", func() error {
		r := kiwi.NewReader(container.Message)
		return kiwi.ReadMessage(r, msgDef, container.Schema, func(r *kiwi.Reader, idx int, f kiwi.Field) (bool, error) {
			if f.Name != "nodeChanges" {
				return false, nil
			}
			n, err := decodeNodeChange(r, nodeChangeDef, container.Schema)
			if err != nil {
				return false, err
			}
			doc.nodes[n.ID] = n
			if n.Type == NodeTypeCanvas {
				doc.pageIDs = append(doc.pageIDs, n.ID)
			}
			if n.Type == NodeTypeDocument && doc.Name == "" {
				doc.Name = n.Name
			}
			return true, nil
		})
	})
	if decodeErr != nil {
		return nil, wrapError(KindDecodeError, decodeErr, "load: decoding nodeChanges")
	}

	doc.tiles = tilecache.NewGrid[DrawCommand](opts.maxCachedTiles())
	return doc, nil
}

// decodeNodeChange decodes one NodeChange message body into a Node; every
// field is optional and keeps its default when absent.
func decodeNodeChange(r *kiwi.Reader, def *kiwi.Definition, schema *kiwi.Schema) (*Node, error) {
	n := &Node{Visible: true, Opacity: 1.0}
	var haveTransform bool
	var m00, m01, tx, ty float64

	err := kiwi.ReadMessage(r, def, schema, func(r *kiwi.Reader, idx int, f kiwi.Field) (bool, error) {
		switch f.Name {
		case "guid":
			id, err := r.GUID()
			if err != nil {
				return false, err
			}
			n.ID = id
			return true, nil
		case "parentIndex":
			pid, err := r.GUID()
			if err != nil {
				return false, err
			}
			pos, err := r.String()
			if err != nil {
				return false, err
			}
			n.ParentID = pid
			n.SortKey = pos
			return true, nil
		case "type":
			v, err := r.Varint()
			if err != nil {
				return false, err
			}
			n.Type = nodeTypeFromVarint(v)
			return true, nil
		case "name":
			s, err := r.String()
			if err != nil {
				return false, err
			}
			n.Name = s
			return true, nil
		case "visible":
			b, err := r.Bool()
			if err != nil {
				return false, err
			}
			n.Visible = b
			return true, nil
		case "opacity":
			v, err := r.Float32()
			if err != nil {
				return false, err
			}
			n.Opacity = float64(v)
			return true, nil
		case "transform":
			vals, err := r.Float32Array(6)
			if err != nil {
				return false, err
			}
			m00, m01 = float64(vals[0]), float64(vals[1])
			tx, ty = float64(vals[4]), float64(vals[5])
			haveTransform = true
			return true, nil
		case "size":
			vals, err := r.Float32Array(2)
			if err != nil {
				return false, err
			}
			n.Width, n.Height = float64(vals[0]), float64(vals[1])
			return true, nil
		case "fillPaints":
			b, err := r.Bytes()
			if err != nil {
				return false, err
			}
			n.FillPaintsBlob = append([]byte(nil), b...)
			return true, nil
		case "strokePaints":
			b, err := r.Bytes()
			if err != nil {
				return false, err
			}
			n.StrokePaintsBlob = append([]byte(nil), b...)
			return true, nil
		case "effects":
			b, err := r.Bytes()
			if err != nil {
				return false, err
			}
			n.EffectsBlob = append([]byte(nil), b...)
			return true, nil
		case "vectorData":
			b, err := r.Bytes()
			if err != nil {
				return false, err
			}
			n.VectorDataBlob = append([]byte(nil), b...)
			return true, nil
		case "textData":
			b, err := r.Bytes()
			if err != nil {
				return false, err
			}
			n.TextDataBlob = append([]byte(nil), b...)
			return true, nil
		case "strokeWeight":
			v, err := r.Float32()
			if err != nil {
				return false, err
			}
			n.StrokeWeight = float64(v)
			return true, nil
		case "cornerRadius":
			v, err := r.Float32()
			if err != nil {
				return false, err
			}
			n.CornerRadius = float64(v)
			return true, nil
		case "fontSize":
			v, err := r.Float32()
			if err != nil {
				return false, err
			}
			n.FontSize = float64(v)
			return true, nil
		case "itemSpacing":
			v, err := r.Float32()
			if err != nil {
				return false, err
			}
			n.ItemSpacing = float64(v)
			return true, nil
		case "paddingLeft":
			v, err := r.Float32()
			if err != nil {
				return false, err
			}
			n.PaddingLeft = float64(v)
			return true, nil
		case "paddingTop":
			v, err := r.Float32()
			if err != nil {
				return false, err
			}
			n.PaddingTop = float64(v)
			return true, nil
		case "paddingRight":
			v, err := r.Float32()
			if err != nil {
				return false, err
			}
			n.PaddingRight = float64(v)
			return true, nil
		case "paddingBottom":
			v, err := r.Float32()
			if err != nil {
				return false, err
			}
			n.PaddingBottom = float64(v)
			return true, nil
		case "rectangleCornerRadii":
			vals, err := r.Float32Array(4)
			if err != nil {
				return false, err
			}
			n.RectangleCornerRadii = CornerRadii{float64(vals[0]), float64(vals[1]), float64(vals[2]), float64(vals[3])}
			return true, nil
		case "children":
			id, err := r.GUID()
			if err != nil {
				return false, err
			}
			n.Children = append(n.Children, id)
			return true, nil
		case "fontName":
			s, err := r.String()
			if err != nil {
				return false, err
			}
			n.FontName = s
			return true, nil
		case "layoutMode":
			v, err := r.Varint()
			if err != nil {
				return false, err
			}
			n.LayoutMode = fmt.Sprintf("%d", v)
			return true, nil
		case "primaryAxisSizingMode":
			v, err := r.Varint()
			if err != nil {
				return false, err
			}
			n.PrimaryAxisSizingMode = fmt.Sprintf("%d", v)
			return true, nil
		case "counterAxisSizingMode":
			v, err := r.Varint()
			if err != nil {
				return false, err
			}
			n.CounterAxisSizingMode = fmt.Sprintf("%d", v)
			return true, nil
		default:
			return false, nil
		}
	})
	if err != nil {
		return nil, err
	}

	if haveTransform {
		n.X, n.Y = tx, ty
		n.Rotation = math.Atan2(m01, m00) * 180 / math.Pi
	}
	return n, nil
}

// DocumentInfo summarizes the document's header and node-map size.
type DocumentInfo struct {
	Name      string
	Version   string
	NodeCount int
	PageIDs   []string
}

// DocumentInfo returns the document's header metadata and page id sequence.
func (d *Document) DocumentInfo() DocumentInfo {
	return DocumentInfo{
		Name:      d.Name,
		Version:   d.Version,
		NodeCount: len(d.nodes),
		PageIDs:   append([]string(nil), d.pageIDs...),
	}
}

// NodeInfo is the host-facing projection of a Node.
type NodeInfo struct {
	ID       string
	ParentID string
	Type     NodeType
	Name     string
	Visible  bool
	Opacity  float64
	X, Y     float64
	Rotation float64
	Width    float64
	Height   float64
	Children []string
}

func nodeInfo(n *Node) NodeInfo {
	return NodeInfo{
		ID: n.ID, ParentID: n.ParentID, Type: n.Type, Name: n.Name,
		Visible: n.Visible, Opacity: n.Opacity,
		X: n.X, Y: n.Y, Rotation: n.Rotation,
		Width: n.Width, Height: n.Height,
		Children: append([]string(nil), n.Children...),
	}
}

// NodeInfo looks up a node by id.
func (d *Document) NodeInfo(id string) (NodeInfo, error) {
	n, ok := d.nodes[id]
	if !ok {
		return NodeInfo{}, nodeNotFound(id)
	}
	return nodeInfo(n), nil
}

// Children returns the resolved child node infos for id, in declared order.
// References that fail to resolve are dropped silently, to tolerate partial
// documents.
func (d *Document) Children(id string) ([]NodeInfo, error) {
	n, ok := d.nodes[id]
	if !ok {
		return nil, nodeNotFound(id)
	}
	out := make([]NodeInfo, 0, len(n.Children))
	for _, cid := range n.Children {
		if c, ok := d.nodes[cid]; ok {
			out = append(out, nodeInfo(c))
		}
	}
	return out, nil
}

// SetDebug toggles stderr timing/statistics logging.
func (d *Document) SetDebug(v bool) { d.debug = v }

// Lookup implements scenetree.Source directly over the immutable node map,
// so the spatial index build and draw-command synthesis share one
// absolute-position/opacity walk.
func (d *Document) Lookup(id string) (scenetree.NodeData, bool) {
	n, ok := d.nodes[id]
	if !ok {
		return scenetree.NodeData{}, false
	}
	return scenetree.NodeData{
		X: n.X, Y: n.Y, Opacity: n.Opacity,
		ParentID: n.ParentID, Children: n.Children,
	}, true
}
