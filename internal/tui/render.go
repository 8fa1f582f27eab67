package tui

import (
	"math"
	"strings"

	"shp2svg/internal/geom"
	"shp2svg/internal/svgpath"
)

// layout is the projection of the current collection onto the braille dot
// grid of a w×h cell map (2×4 dots per cell).
type layout struct {
	pr     svgpath.Projector
	canvas svgpath.Canvas
}

func (m Model) layout(w, h int) (layout, bool) {
	if m.col == nil || len(m.col.Shapes) == 0 || w <= 1 || h <= 1 {
		return layout{}, false
	}
	bb, err := svgpath.Extent(m.col.Shapes)
	if err != nil {
		return layout{}, false
	}
	wMic, hMic := w*2, h*4
	scale, err := svgpath.ResolveScale(bb, fitSize(bb, wMic-1, hMic-1)*m.zoom)
	if err != nil {
		return layout{}, false
	}
	// center the fitted canvas, then pan
	plain := svgpath.CanvasSize(bb, scale, svgpath.Offset{})
	off := svgpath.Offset{
		DX: (wMic-1-plain.Width)/2 + m.offsetX*2,
		DY: (hMic-1-plain.Height)/2 + m.offsetY*4,
	}
	return layout{
		pr:     svgpath.Projector{Extent: bb, Scale: scale, Offset: off},
		canvas: svgpath.CanvasSize(bb, scale, off),
	}, true
}

// fitSize returns the largest max size for which bb fits in w×h dots.
func fitSize(bb geom.BBox, w, h int) float64 {
	ew, eh := bb.Width(), bb.Height()
	long := math.Max(ew, eh)
	size := math.Inf(1)
	if ew > 0 {
		size = float64(w) * long / ew
	}
	if eh > 0 {
		size = math.Min(size, float64(h)*long/eh)
	}
	return size
}

func toMicro(r geom.Ring) [][2]int {
	out := make([][2]int, len(r))
	for i, p := range r {
		out[i] = [2]int{int(math.Round(p.X)), int(math.Round(p.Y))}
	}
	return out
}

func (m Model) renderMap(w, h int) string {
	lines := make([]string, h)
	for y := range lines {
		lines[y] = strings.Repeat(" ", w)
	}
	lay, ok := m.layout(w, h)
	if !ok {
		return strings.Join(lines, "\n")
	}
	br := newBrailleBuf(w, h)
	var hovered *geom.Shape
	if m.hovering && m.hoverOK {
		hovered, _ = m.index.at(m.hoverGeo)
	}
	for _, s := range m.col.Shapes {
		var rings [][][2]int
		for _, r := range s.Rings() {
			if mic := toMicro(lay.pr.ProjectRing(r)); len(mic) >= 3 {
				rings = append(rings, mic)
			}
		}
		if s == hovered {
			br.fillRings(rings)
		}
		for _, r := range rings {
			br.drawRing(r)
		}
		if m.showCentroids {
			c := lay.pr.ProjectCentroid(s.Centroid())
			x, y := c[0]+lay.pr.Offset.DX, c[1]+lay.pr.Offset.DY
			br.setPixel(x, y)
			br.setPixel(x+1, y)
			br.setPixel(x, y+1)
			br.setPixel(x+1, y+1)
		}
	}
	braLines := br.toLines()
	for y := 0; y < h && y < len(braLines); y++ {
		lines[y] = braLines[y]
	}

	// Hover highlight: orange circle at the hovered cell
	if m.hovering {
		cx := m.hoverMicX / 2
		cy := m.hoverMicY / 4
		if cy >= 0 && cy < len(lines) {
			r := []rune(lines[cy])
			if cx >= 0 && cx < len(r) {
				lines[cy] = string(r[:cx]) + hoverStyle.Render("◯") + string(r[cx+1:])
			}
		}
	}
	return strings.Join(lines, "\n")
}

// hoverAt resolves the cell under the mouse to source coordinates and the
// label of the shape there.
func (m *Model) hoverAt(cx, cy, w, h int) {
	m.hoverMicX, m.hoverMicY = cx*2, cy*4
	m.hoverOK = false
	m.hoverKey = ""
	lay, ok := m.layout(w, h)
	if !ok {
		return
	}
	// use the center of the cell's dot block
	p := lay.pr.Unproject(geom.Point{X: float64(cx*2) + 0.5, Y: float64(cy*4) + 1.5})
	m.hoverGeo, m.hoverOK = p, true
	if s, ok := m.index.at(p); ok {
		m.hoverKey = svgpath.KeyOf(s.Attributes(), m.key()).String()
	}
}
