package tui

import "sort"

type brailleBuf struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell 8-bit mask
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	for i := range m {
		m[i] = make([]uint8, w)
	}
	return &brailleBuf{w: w, h: h, m: m}
}

// dot bits per (column, row) inside a 2x4 braille cell
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= brailleBits[rx][ry]
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawRing draws the closed outline of r.
func (b *brailleBuf) drawRing(r [][2]int) {
	for i := range r {
		a := r[i]
		c := r[(i+1)%len(r)]
		b.drawLineMicro(a[0], a[1], c[0], c[1])
	}
}

// fillRings fills the area enclosed by rings with the even-odd rule, one
// scanline per micro row, so holes stay empty.
func (b *brailleBuf) fillRings(rings [][][2]int) {
	hMic := b.h * 4
	for yMic := 0; yMic < hMic; yMic++ {
		var xs []int
		for _, r := range rings {
			for i := range r {
				a := r[i]
				c := r[(i+1)%len(r)]
				if a[1] == c[1] {
					continue
				}
				if (yMic >= a[1] && yMic < c[1]) || (yMic >= c[1] && yMic < a[1]) {
					t := float64(yMic-a[1]) / float64(c[1]-a[1])
					xs = append(xs, int(float64(a[0])+t*float64(c[0]-a[0])))
				}
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			end := min(xs[i+1], b.w*2-1)
			for xMic := max(0, xs[i]); xMic <= end; xMic++ {
				b.setPixel(xMic, yMic)
			}
		}
	}
}

func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		row := make([]rune, b.w)
		for x := 0; x < b.w; x++ {
			mask := b.m[y][x]
			if mask == 0 {
				row[x] = ' '
			} else {
				row[x] = rune(0x2800 + int(mask))
			}
		}
		out[y] = string(row)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
