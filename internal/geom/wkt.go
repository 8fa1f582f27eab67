package geom

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"
)

// ErrUnsupportedGeometry marks geometries that are neither Polygon nor
// MultiPolygon.
var ErrUnsupportedGeometry = errors.New("geom: unsupported geometry type")

// ParseWKT parses one POLYGON or MULTIPOLYGON into a shape with no attributes.
func ParseWKT(s string) (*Shape, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("geom: empty wkt")
	}
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, fmt.Errorf("geom: wkt: %w", err)
	}
	shape, ok := NewShape(g, nil)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, g.GeoJSONType())
	}
	return shape, nil
}

// readWKT reads one geometry per non-empty line. Each shape gets an "id"
// attribute holding its 1-based line number.
func readWKT(r io.Reader) ([]*Shape, []string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	var shapes []*Shape
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		s, err := ParseWKT(text)
		if errors.Is(err, ErrUnsupportedGeometry) {
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", line, err)
		}
		s.Props["id"] = StringValue(fmt.Sprint(line))
		shapes = append(shapes, s)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	if len(shapes) == 0 {
		return nil, nil, errors.New("geom: wkt: no geometries found")
	}
	return shapes, []string{"id"}, nil
}
