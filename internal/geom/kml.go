package geom

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

type kmlRing struct {
	Coordinates string `xml:"LinearRing>coordinates"`
}

type kmlPolygon struct {
	Outer kmlRing   `xml:"outerBoundaryIs"`
	Inner []kmlRing `xml:"innerBoundaryIs"`
}

type kmlData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

type kmlSimpleData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type kmlPlacemark struct {
	Name       string          `xml:"name"`
	Polygons   []kmlPolygon    `xml:"Polygon"`
	Multi      []kmlPolygon    `xml:"MultiGeometry>Polygon"`
	Data       []kmlData       `xml:"ExtendedData>Data"`
	SimpleData []kmlSimpleData `xml:"ExtendedData>SchemaData>SimpleData"`
}

// readKML extracts polygon Placemarks (Polygon or MultiGeometry>Polygon).
// KML coordinates are "x,y[,z]"; the third value is ignored. The placemark
// name and its ExtendedData become attributes.
func readKML(r io.Reader) ([]*Shape, []string, error) {
	// Placemarks may sit under Document and any number of Folders.
	var shapes []*Shape
	var fields []string
	seen := map[string]bool{}
	addField := func(k string) {
		if !seen[k] {
			seen[k] = true
			fields = append(fields, k)
		}
	}
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("geom: kml: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Placemark" {
			continue
		}
		var pm kmlPlacemark
		if err := dec.DecodeElement(&pm, &se); err != nil {
			return nil, nil, fmt.Errorf("geom: kml: %w", err)
		}
		var mp orb.MultiPolygon
		for _, p := range append(pm.Polygons, pm.Multi...) {
			poly, err := kmlToPolygon(p)
			if err != nil {
				return nil, nil, err
			}
			mp = append(mp, poly)
		}
		if len(mp) == 0 {
			continue
		}
		props := Attributes{}
		if pm.Name != "" {
			props["name"] = StringValue(strings.TrimSpace(pm.Name))
			addField("name")
		}
		for _, d := range pm.Data {
			props[d.Name] = StringValue(strings.TrimSpace(d.Value))
			addField(d.Name)
		}
		for _, d := range pm.SimpleData {
			props[d.Name] = StringValue(strings.TrimSpace(d.Value))
			addField(d.Name)
		}
		shapes = append(shapes, &Shape{Geometry: mp, Props: props})
	}
	if len(shapes) == 0 {
		return nil, nil, errors.New("geom: kml: no polygons found")
	}
	return shapes, fields, nil
}

func kmlToPolygon(p kmlPolygon) (orb.Polygon, error) {
	outer, err := parseKMLCoords(p.Outer.Coordinates)
	if err != nil {
		return nil, err
	}
	poly := orb.Polygon{outer}
	for _, in := range p.Inner {
		hole, err := parseKMLCoords(in.Coordinates)
		if err != nil {
			return nil, err
		}
		poly = append(poly, hole)
	}
	return poly, nil
}

// parseKMLCoords reads whitespace-separated "x,y[,z]" tuples.
func parseKMLCoords(s string) (orb.Ring, error) {
	var ring orb.Ring
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			return nil, fmt.Errorf("geom: kml: bad coordinate %q", tuple)
		}
		x, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		y, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("geom: kml: bad coordinate %q", tuple)
		}
		ring = append(ring, orb.Point{x, y})
	}
	if len(ring) == 0 {
		return nil, errors.New("geom: kml: empty ring")
	}
	return ring, nil
}
