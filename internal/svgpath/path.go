package svgpath

import (
	"strconv"
	"strings"

	"shp2svg/internal/geom"
)

// FormatCoord renders v with one decimal digit and compacts the numeral:
// "-0.0" becomes "0", a trailing "0.0" becomes "0" and a trailing ".0" is
// dropped. "12.3" stays as is, "5.0" becomes "5".
func FormatCoord(v float64) string {
	return compact(strconv.FormatFloat(v, 'f', 1, 64))
}

func compact(s string) string {
	if s == "-0.0" {
		return "0"
	}
	if strings.HasSuffix(s, "0.0") {
		s = strings.TrimSuffix(s, "0.0") + "0"
	}
	return strings.TrimSuffix(s, ".0")
}

// SerializePath writes each ring as "Mx,yLx,y...Z" and concatenates them
// with no separator. The rings must already be in screen space.
func SerializePath(rings []geom.Ring) (string, error) {
	var b strings.Builder
	if err := writePath(&b, rings, -1); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writePath(b *strings.Builder, rings []geom.Ring, shape int) error {
	for i, r := range rings {
		if len(r) == 0 {
			return &EmptyRingError{Shape: shape, Ring: i}
		}
		for j, p := range r {
			if j == 0 {
				b.WriteByte('M')
			} else {
				b.WriteByte('L')
			}
			b.WriteString(FormatCoord(p.X))
			b.WriteByte(',')
			b.WriteString(FormatCoord(p.Y))
		}
		b.WriteByte('Z')
	}
	return nil
}
