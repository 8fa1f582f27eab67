package tui

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"shp2svg/internal/geom"
)

// shapeIndex answers "which shape is under this point" in source coordinates.
type shapeIndex struct {
	rtree *rtreego.Rtree
}

type indexedShape struct {
	shape *geom.Shape
	order int
	bb    geom.BBox
}

// Bounds implements rtreego.Spatial.
func (s *indexedShape) Bounds() rtreego.Rect {
	w, h := s.bb.Width(), s.bb.Height()
	// R-tree rectangles need non-zero sides
	const epsilon = 1e-9
	if w < epsilon {
		w = epsilon
	}
	if h < epsilon {
		h = epsilon
	}
	rect, err := rtreego.NewRect(rtreego.Point{s.bb.MinX, s.bb.MinY}, []float64{w, h})
	if err != nil {
		// only non-positive lengths fail, and both are clamped above
		return rtreego.Point{s.bb.MinX, s.bb.MinY}.ToRect(epsilon)
	}
	return rect
}

func newShapeIndex(shapes []*geom.Shape) *shapeIndex {
	rt := rtreego.NewTree(2, 25, 50)
	for i, s := range shapes {
		rt.Insert(&indexedShape{shape: s, order: i, bb: s.Extent()})
	}
	return &shapeIndex{rtree: rt}
}

// at returns the shape containing p. Among overlapping candidates the
// latest one wins, matching draw order.
func (idx *shapeIndex) at(p geom.Point) (*geom.Shape, bool) {
	if idx == nil {
		return nil, false
	}
	var best *indexedShape
	for _, sp := range idx.rtree.SearchIntersect(p2rect(p)) {
		is := sp.(*indexedShape)
		if !containsPoint(is.shape, p) {
			continue
		}
		if best == nil || is.order > best.order {
			best = is
		}
	}
	if best == nil {
		return nil, false
	}
	return best.shape, true
}

func p2rect(p geom.Point) rtreego.Rect {
	return rtreego.Point{p.X, p.Y}.ToRect(1e-9)
}

// containsPoint tests p against each polygon of s; points in a hole are
// outside.
func containsPoint(s *geom.Shape, p geom.Point) bool {
	return planar.MultiPolygonContains(s.Geometry, orb.Point{p.X, p.Y})
}
