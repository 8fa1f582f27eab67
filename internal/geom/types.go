package geom

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// BBox is an axis-aligned extent: MinX <= MaxX and MinY <= MaxY.
type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Width returns |MaxX - MinX|.
func (b BBox) Width() float64 {
	if b.MaxX < b.MinX {
		return b.MinX - b.MaxX
	}
	return b.MaxX - b.MinX
}

// Height returns |MaxY - MinY|.
func (b BBox) Height() float64 {
	if b.MaxY < b.MinY {
		return b.MinY - b.MaxY
	}
	return b.MaxY - b.MinY
}

// Union returns the smallest box covering b and o.
func (b BBox) Union(o BBox) BBox {
	if o.MinX < b.MinX {
		b.MinX = o.MinX
	}
	if o.MinY < b.MinY {
		b.MinY = o.MinY
	}
	if o.MaxX > b.MaxX {
		b.MaxX = o.MaxX
	}
	if o.MaxY > b.MaxY {
		b.MaxY = o.MaxY
	}
	return b
}

// Empty reports whether b is inverted on either axis, the way orb marks the
// bound of a geometry with no points.
func (b BBox) Empty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Contains reports whether p lies inside or on the edge of b.
func (b BBox) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

func bboxFromBound(bd orb.Bound) BBox {
	return BBox{MinX: bd.Min[0], MinY: bd.Min[1], MaxX: bd.Max[0], MaxY: bd.Max[1]}
}

type Point struct {
	X float64
	Y float64
}

// Ring is one closed polygon boundary. The closing segment is implied.
type Ring []Point

// Value is an attribute value that may be absent or null in the source.
type Value struct {
	Str   string
	Valid bool
}

// StringValue wraps a present attribute value.
func StringValue(s string) Value { return Value{Str: s, Valid: true} }

// Attributes holds the per-shape key/value data read alongside the geometry.
type Attributes map[string]Value

// Lookup returns the value for key and whether it is present and non-null.
func (a Attributes) Lookup(key string) (string, bool) {
	v, ok := a[key]
	if !ok || !v.Valid {
		return "", false
	}
	return v.Str, true
}

// Shape is one polygonal feature of a collection.
type Shape struct {
	Geometry orb.MultiPolygon
	Props    Attributes
}

// NewShape promotes a Polygon to a single-part MultiPolygon. Other geometry
// types and geometries without points are rejected with ok=false.
func NewShape(g orb.Geometry, props Attributes) (*Shape, bool) {
	var mp orb.MultiPolygon
	switch t := g.(type) {
	case orb.Polygon:
		mp = orb.MultiPolygon{t}
	case orb.MultiPolygon:
		mp = t
	default:
		return nil, false
	}
	if !hasPoints(mp) {
		return nil, false
	}
	if props == nil {
		props = Attributes{}
	}
	return &Shape{Geometry: mp, Props: props}, true
}

func hasPoints(mp orb.MultiPolygon) bool {
	for _, poly := range mp {
		for _, r := range poly {
			if len(r) > 0 {
				return true
			}
		}
	}
	return false
}

// Rings flattens the multipolygon: exterior then holes, part after part.
func (s *Shape) Rings() []Ring {
	var out []Ring
	for _, poly := range s.Geometry {
		for _, r := range poly {
			ring := make(Ring, len(r))
			for i, p := range r {
				ring[i] = Point{X: p[0], Y: p[1]}
			}
			out = append(out, ring)
		}
	}
	return out
}

func (s *Shape) Extent() BBox { return bboxFromBound(s.Geometry.Bound()) }

// Centroid is the area-weighted centroid of the multipolygon.
func (s *Shape) Centroid() Point {
	c, _ := planar.CentroidArea(s.Geometry)
	return Point{X: c[0], Y: c[1]}
}

func (s *Shape) Attributes() Attributes { return s.Props }
