// Package render writes projected collections as standalone SVG documents.
package render

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	svg "github.com/ajstarks/svgo"

	"shp2svg/internal/svgpath"
)

// Style controls the look of a rendered document.
type Style struct {
	Title          string
	Fill           string
	Stroke         string
	StrokeWidth    float64
	CentroidRadius int
	Labels         bool
}

// DefaultStyle returns a plain grey map with white borders.
func DefaultStyle() Style {
	return Style{
		Fill:           "#d0d0d0",
		Stroke:         "#ffffff",
		StrokeWidth:    0.5,
		CentroidRadius: 2,
	}
}

// WriteSVG draws one path per key in res, ordered by key, inside a canvas of
// res.Canvas size. Centroid markers are drawn when res carries centroids.
func WriteSVG(w io.Writer, res *svgpath.Result, st Style) error {
	if res.Canvas.Width <= 0 || res.Canvas.Height <= 0 {
		return fmt.Errorf("render: canvas %dx%d is empty", res.Canvas.Width, res.Canvas.Height)
	}
	canvas := svg.New(w)
	canvas.Start(res.Canvas.Width, res.Canvas.Height)
	if st.Title != "" {
		canvas.Title(st.Title)
	}
	canvas.Gstyle(fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%g", st.Fill, st.Stroke, st.StrokeWidth))
	keys := res.Keys()
	for _, k := range keys {
		canvas.Path(res.Paths[k].PathData(), fmt.Sprintf(`id="%s"`, elementID(k)))
	}
	canvas.Gend()
	if res.Centroids {
		canvas.Gstyle("fill:#c0392b;font-family:sans-serif;font-size:9px;text-anchor:middle")
		for _, k := range keys {
			pc, ok := res.Paths[k].(svgpath.PathWithCentroid)
			if !ok {
				continue
			}
			// centroids are reported without the offset the paths carry
			x, y := pc.Centroid[0]+res.Offset.DX, pc.Centroid[1]+res.Offset.DY
			canvas.Circle(x, y, st.CentroidRadius)
			if st.Labels {
				canvas.Text(x, y-st.CentroidRadius-1, k.String())
			}
		}
		canvas.Gend()
	}
	canvas.End()
	return nil
}

// elementID turns a key into a valid XML id.
func elementID(k svgpath.Key) string {
	var b strings.Builder
	b.WriteString("shape-")
	for _, r := range k.String() {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
