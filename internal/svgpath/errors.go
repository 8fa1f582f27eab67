package svgpath

import (
	"fmt"

	"shp2svg/internal/geom"
)

// EmptyInputError indicates there were no shapes to compute an extent over.
type EmptyInputError struct{}

func (e *EmptyInputError) Error() string {
	return "svgpath: no shapes to compute extent over"
}

// DegenerateExtentError indicates an extent of zero width and zero height,
// for which no scale exists.
type DegenerateExtentError struct {
	Extent geom.BBox
}

func (e *DegenerateExtentError) Error() string {
	return fmt.Sprintf("svgpath: degenerate extent (%g,%g)-(%g,%g): width and height are zero",
		e.Extent.MinX, e.Extent.MinY, e.Extent.MaxX, e.Extent.MaxY)
}

// EmptyRingError indicates a ring with no points reached the serializer.
// Shape is -1 when the ring was serialized outside the pipeline.
type EmptyRingError struct {
	Shape int
	Ring  int
}

func (e *EmptyRingError) Error() string {
	if e.Shape < 0 {
		return fmt.Sprintf("svgpath: ring %d has no points", e.Ring)
	}
	return fmt.Sprintf("svgpath: shape %d: ring %d has no points", e.Shape, e.Ring)
}

// InvalidSizeError indicates a target size that is not a positive finite number.
type InvalidSizeError struct {
	MaxSize float64
}

func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("svgpath: max size must be positive, got %g", e.MaxSize)
}
