package svgpath

import (
	"math"

	"shp2svg/internal/geom"
)

// ResolveScale returns the factor that maps the longer side of bb onto
// maxSize pixels. A square extent uses its (shared) side length.
func ResolveScale(bb geom.BBox, maxSize float64) (float64, error) {
	if !(maxSize > 0) || math.IsInf(maxSize, 1) {
		return 0, &InvalidSizeError{MaxSize: maxSize}
	}
	w, h := bb.Width(), bb.Height()
	if w == 0 && h == 0 {
		return 0, &DegenerateExtentError{Extent: bb}
	}
	if h > w {
		return maxSize / h, nil
	}
	return maxSize / w, nil
}

// Offset is a translation added to screen coordinates after scaling. It lets
// several collections share one canvas.
type Offset struct {
	DX int
	DY int
}

// Canvas is the pixel size of the output, offset included.
type Canvas struct {
	Width  int
	Height int
}

// CanvasSize rounds the scaled extent up so the geometry never exceeds the
// canvas, then adds the offset.
func CanvasSize(bb geom.BBox, scale float64, off Offset) Canvas {
	return Canvas{
		Width:  int(math.Ceil(bb.Width()*scale)) + off.DX,
		Height: int(math.Ceil(bb.Height()*scale)) + off.DY,
	}
}
