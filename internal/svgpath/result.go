package svgpath

import (
	"encoding/json"
	"sort"

	"shp2svg/internal/geom"
)

// missingKeyText is how a shape without a value for the key attribute is
// keyed in encoded output.
const missingKeyText = "null"

// Key identifies a shape in a Result. Missing is set when the shape has no
// value (or a null value) for the requested attribute; such shapes are kept.
type Key struct {
	Value   string
	Missing bool
}

// KeyOf selects the output key for attrs.
func KeyOf(attrs geom.Attributes, name string) Key {
	v, ok := attrs.Lookup(name)
	if !ok {
		return Key{Missing: true}
	}
	return Key{Value: v}
}

func (k Key) String() string {
	if k.Missing {
		return missingKeyText
	}
	return k.Value
}

// MarshalText lets Key be used as a JSON object key.
func (k Key) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Projection is the per-shape output: PathOnly or PathWithCentroid.
type Projection interface {
	PathData() string
	isProjection()
}

// PathOnly is the SVG path data of one shape.
type PathOnly string

func (p PathOnly) PathData() string { return string(p) }
func (PathOnly) isProjection()       {}

// PathWithCentroid bundles the path data with the shape's projected centroid
// in whole pixels.
type PathWithCentroid struct {
	Path     string `json:"path"`
	Centroid [2]int `json:"centroid"`
}

func (p PathWithCentroid) PathData() string { return p.Path }
func (PathWithCentroid) isProjection()       {}

// Result is everything a renderer needs for one collection.
type Result struct {
	Paths     map[Key]Projection
	Extent    geom.BBox
	Scale     float64
	Canvas    Canvas
	Offset    Offset
	Centroids bool
}

// Keys returns the keys of r.Paths in lexical order of their text form.
func (r *Result) Keys() []Key {
	keys := make([]Key, 0, len(r.Paths))
	for k := range r.Paths {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].String() != keys[j].String() {
			return keys[i].String() < keys[j].String()
		}
		return !keys[i].Missing && keys[j].Missing
	})
	return keys
}

type resultJSON struct {
	Paths     map[Key]Projection `json:"paths"`
	Centroid  bool               `json:"centroid"`
	MaxCoords [2]int             `json:"max_coords"`
}

// MarshalJSON encodes r as {"paths": ..., "centroid": ..., "max_coords": [w, h]}.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		Paths:     r.Paths,
		Centroid:  r.Centroids,
		MaxCoords: [2]int{r.Canvas.Width, r.Canvas.Height},
	})
}
