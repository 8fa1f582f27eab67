package svgpath

import (
	"math"

	"shp2svg/internal/geom"
)

// Projector maps raw coordinates into screen space for one extent and scale.
type Projector struct {
	Extent geom.BBox
	Scale  float64
	Offset Offset
}

// NewProjector resolves the scale for bb and maxSize.
func NewProjector(bb geom.BBox, maxSize float64, off Offset) (Projector, error) {
	scale, err := ResolveScale(bb, maxSize)
	if err != nil {
		return Projector{}, err
	}
	return Projector{Extent: bb, Scale: scale, Offset: off}, nil
}

// flip translates p to the extent origin and flips the y axis.
func (pr Projector) flip(p geom.Point) geom.Point {
	return geom.Point{
		X: p.X - pr.Extent.MinX,
		Y: pr.Extent.Height() - (p.Y - pr.Extent.MinY),
	}
}

// Project returns the screen position of p, offset included.
func (pr Projector) Project(p geom.Point) geom.Point {
	t := pr.flip(p)
	return geom.Point{
		X: t.X*pr.Scale + float64(pr.Offset.DX),
		Y: t.Y*pr.Scale + float64(pr.Offset.DY),
	}
}

// ProjectRing projects every point of r, keeping order. r is not modified.
func (pr Projector) ProjectRing(r geom.Ring) geom.Ring {
	out := make(geom.Ring, len(r))
	for i, p := range r {
		out[i] = pr.Project(p)
	}
	return out
}

// ProjectCentroid projects c without the offset and truncates toward zero.
func (pr Projector) ProjectCentroid(c geom.Point) [2]int {
	t := pr.flip(c)
	return [2]int{int(math.Trunc(t.X * pr.Scale)), int(math.Trunc(t.Y * pr.Scale))}
}

// Unproject maps a screen position back into the source coordinate space.
func (pr Projector) Unproject(p geom.Point) geom.Point {
	x := (p.X - float64(pr.Offset.DX)) / pr.Scale
	y := (p.Y - float64(pr.Offset.DY)) / pr.Scale
	return geom.Point{
		X: x + pr.Extent.MinX,
		Y: pr.Extent.MinY + pr.Extent.Height() - y,
	}
}
