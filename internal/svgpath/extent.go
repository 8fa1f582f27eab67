// Package svgpath projects polygon collections into SVG screen space and
// serializes their rings as compact path data.
//
// A call runs the stages in order: the union extent of all shapes, a uniform
// scale fitting the longer side into a target size, the canvas size, the
// per-coordinate projection (translate to the extent origin, flip y, scale,
// offset) and finally path serialization. Nothing is cached between calls.
package svgpath

import "shp2svg/internal/geom"

// Extenter is anything that knows its own bounding box.
type Extenter interface {
	Extent() geom.BBox
}

// Extent returns the union of the extents of all shapes. Empty extents
// (a shape without points) do not contribute.
func Extent[S Extenter](shapes []S) (geom.BBox, error) {
	var bb geom.BBox
	found := false
	for _, s := range shapes {
		e := s.Extent()
		if e.Empty() {
			continue
		}
		if !found {
			bb, found = e, true
			continue
		}
		bb = bb.Union(e)
	}
	if !found {
		return geom.BBox{}, &EmptyInputError{}
	}
	return bb, nil
}
