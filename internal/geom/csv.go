package geom

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// readCSV reads a CSV whose geometry is stored as WKT in one column, the way
// GIS tools export layers. Column detection: wkt|geometry|geom|the_geom
// (case-insensitive). Every other column becomes an attribute; empty cells
// are treated as null.
func readCSV(r io.Reader) ([]*Shape, []string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("geom: csv: %w", err)
	}
	if len(recs) == 0 {
		return nil, nil, errors.New("geom: empty csv")
	}
	header := recs[0]
	idxGeom := -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "wkt", "geometry", "geom", "the_geom":
			if idxGeom == -1 {
				idxGeom = i
			}
		}
	}
	if idxGeom == -1 {
		return nil, nil, errors.New("geom: csv: geometry column not found")
	}
	var fields []string
	for i, h := range header {
		if i != idxGeom {
			fields = append(fields, h)
		}
	}
	var shapes []*Shape
	for n, row := range recs[1:] {
		if idxGeom >= len(row) || strings.TrimSpace(row[idxGeom]) == "" {
			continue
		}
		s, err := ParseWKT(row[idxGeom])
		if err != nil {
			// points and lines are skipped like in the other loaders
			if errors.Is(err, ErrUnsupportedGeometry) {
				continue
			}
			return nil, nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		for i, h := range header {
			if i == idxGeom {
				continue
			}
			if i >= len(row) || row[i] == "" {
				s.Props[h] = Value{}
				continue
			}
			s.Props[h] = StringValue(row[i])
		}
		shapes = append(shapes, s)
	}
	if len(shapes) == 0 {
		return nil, nil, errors.New("geom: csv: no polygon geometries parsed")
	}
	return shapes, fields, nil
}
