package svgpath

import (
	"context"
	"strings"

	"shp2svg/internal/geom"
)

// Shape is the input contract of the pipeline. Implementations must not
// change while a projection is running.
type Shape interface {
	Extenter
	Rings() []geom.Ring
	Centroid() geom.Point
	Attributes() geom.Attributes
}

// Options are the per-call parameters of a projection.
type Options struct {
	// MaxSize is the pixel length of the longer side of the extent.
	MaxSize float64
	// Key names the attribute whose value keys the output.
	Key string
	// Offset is added to every path coordinate and to the canvas size.
	Offset Offset
	// IncludeCentroid switches the output from PathOnly to PathWithCentroid.
	IncludeCentroid bool
}

// DefaultOptions returns the settings used when a caller supplies none.
func DefaultOptions() Options {
	return Options{
		MaxSize: 700,
		Key:     "postal",
	}
}

// Project runs ProjectContext without cancellation.
func Project[S Shape](shapes []S, opts Options) (*Result, error) {
	return ProjectContext(context.Background(), shapes, opts)
}

// ProjectContext projects and serializes every shape. The context is checked
// between shapes. On error no partial result is returned.
//
// Shapes sharing a key value overwrite each other; the last one wins.
func ProjectContext[S Shape](ctx context.Context, shapes []S, opts Options) (*Result, error) {
	bb, err := Extent(shapes)
	if err != nil {
		return nil, err
	}
	pr, err := NewProjector(bb, opts.MaxSize, opts.Offset)
	if err != nil {
		return nil, err
	}
	res := &Result{
		Paths:     make(map[Key]Projection, len(shapes)),
		Extent:    bb,
		Scale:     pr.Scale,
		Canvas:    CanvasSize(bb, pr.Scale, opts.Offset),
		Offset:    opts.Offset,
		Centroids: opts.IncludeCentroid,
	}
	var b strings.Builder
	for i, s := range shapes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rings := s.Rings()
		projected := make([]geom.Ring, len(rings))
		for j, r := range rings {
			projected[j] = pr.ProjectRing(r)
		}
		b.Reset()
		if err := writePath(&b, projected, i); err != nil {
			return nil, err
		}
		key := KeyOf(s.Attributes(), opts.Key)
		if opts.IncludeCentroid {
			res.Paths[key] = PathWithCentroid{Path: b.String(), Centroid: pr.ProjectCentroid(s.Centroid())}
		} else {
			res.Paths[key] = PathOnly(b.String())
		}
	}
	return res, nil
}
