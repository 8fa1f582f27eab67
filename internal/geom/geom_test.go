package geom

import (
	"errors"
	"strings"
	"testing"

	"github.com/paulmach/orb"
)

const featureCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"postal": "AK", "pop": 733391, "note": null},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[2,0],[2,2],[0,2],[0,0]]]}},
    {"type": "Feature", "properties": {"postal": "XX"},
     "geometry": {"type": "Point", "coordinates": [5,5]}},
    {"type": "Feature", "properties": {"postal": "HI", "capital": true},
     "geometry": {"type": "MultiPolygon", "coordinates": [
       [[[10,10],[11,10],[11,11],[10,11],[10,10]]],
       [[[12,12],[13,12],[13,13],[12,13],[12,12]]]
     ]}}
  ]
}`

func TestParseGeoJSONFeatureCollection(t *testing.T) {
	shapes, fields, err := ParseGeoJSON([]byte(featureCollection))
	if err != nil {
		t.Fatalf("ParseGeoJSON: %v", err)
	}
	if len(shapes) != 2 {
		t.Fatalf("got %d shapes, want 2 (point skipped)", len(shapes))
	}
	wantFields := []string{"note", "pop", "postal", "capital"}
	if strings.Join(fields, ",") != strings.Join(wantFields, ",") {
		t.Errorf("fields = %v, want %v", fields, wantFields)
	}
	if len(shapes[0].Geometry) != 1 {
		t.Errorf("polygon not promoted: %d parts", len(shapes[0].Geometry))
	}
	if v, ok := shapes[0].Props.Lookup("pop"); !ok || v != "733391" {
		t.Errorf("pop = %q, %v", v, ok)
	}
	if _, ok := shapes[0].Props.Lookup("note"); ok {
		t.Error("null property should not be present")
	}
	if v, _ := shapes[1].Props.Lookup("capital"); v != "true" {
		t.Errorf("capital = %q", v)
	}
	if got := len(shapes[1].Rings()); got != 2 {
		t.Errorf("multipolygon rings = %d, want 2", got)
	}
}

func TestParseGeoJSONBareGeometry(t *testing.T) {
	shapes, fields, err := ParseGeoJSON([]byte(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`))
	if err != nil {
		t.Fatalf("ParseGeoJSON: %v", err)
	}
	if len(shapes) != 1 || len(fields) != 0 {
		t.Fatalf("got %d shapes, fields %v", len(shapes), fields)
	}
	if shapes[0].Props == nil {
		t.Error("attributes should never be nil")
	}
}

func TestParseGeoJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{`},
		{"missing type", `{"features":[]}`},
		{"only points", `{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[1,2]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ParseGeoJSON([]byte(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseWKT(t *testing.T) {
	s, err := ParseWKT("POLYGON((0 0, 4 0, 4 4, 0 4, 0 0), (1 1, 2 1, 2 2, 1 1))")
	if err != nil {
		t.Fatalf("ParseWKT: %v", err)
	}
	if got := len(s.Rings()); got != 2 {
		t.Errorf("rings = %d, want 2", got)
	}
	bb := s.Extent()
	if bb != (BBox{MinX: 0, MinY: 0, MaxX: 4, MaxY: 4}) {
		t.Errorf("extent = %+v", bb)
	}

	_, err = ParseWKT("POINT(1 2)")
	if !errors.Is(err, ErrUnsupportedGeometry) {
		t.Errorf("POINT: err = %v, want ErrUnsupportedGeometry", err)
	}
	if _, err := ParseWKT("   "); err == nil {
		t.Error("empty input: expected error")
	}
}

func TestReadWKT(t *testing.T) {
	in := "POLYGON((0 0, 1 0, 1 1, 0 0))\n\nLINESTRING(0 0, 1 1)\nMULTIPOLYGON(((2 2, 3 2, 3 3, 2 2)))\n"
	shapes, fields, err := readWKT(strings.NewReader(in))
	if err != nil {
		t.Fatalf("readWKT: %v", err)
	}
	if len(shapes) != 2 {
		t.Fatalf("got %d shapes, want 2", len(shapes))
	}
	if len(fields) != 1 || fields[0] != "id" {
		t.Errorf("fields = %v", fields)
	}
	if id, _ := shapes[1].Props.Lookup("id"); id != "4" {
		t.Errorf("second shape id = %q, want line number 4", id)
	}
}

func TestReadCSV(t *testing.T) {
	in := `name,WKT,postal
Alpha,"POLYGON((0 0, 1 0, 1 1, 0 0))",AA
Beta,"POINT(3 3)",BB
Gamma,"POLYGON((5 5, 6 5, 6 6, 5 5))",
`
	shapes, fields, err := readCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("readCSV: %v", err)
	}
	if len(shapes) != 2 {
		t.Fatalf("got %d shapes, want 2", len(shapes))
	}
	if strings.Join(fields, ",") != "name,postal" {
		t.Errorf("fields = %v", fields)
	}
	if v, _ := shapes[0].Props.Lookup("postal"); v != "AA" {
		t.Errorf("postal = %q", v)
	}
	if _, ok := shapes[1].Props.Lookup("postal"); ok {
		t.Error("empty cell should be null")
	}
	if _, ok := shapes[1].Props["postal"]; !ok {
		t.Error("empty cell should still be recorded")
	}

	if _, _, err := readCSV(strings.NewReader("a,b\n1,2\n")); err == nil {
		t.Error("missing geometry column: expected error")
	}
}

func TestReadKML(t *testing.T) {
	in := `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
<Document><Folder>
  <Placemark>
    <name>Alpha</name>
    <ExtendedData><Data name="postal"><value>AA</value></Data></ExtendedData>
    <Polygon><outerBoundaryIs><LinearRing><coordinates>
      0,0,0 4,0,0 4,4,0 0,4,0 0,0,0
    </coordinates></LinearRing></outerBoundaryIs>
    <innerBoundaryIs><LinearRing><coordinates>1,1 2,1 2,2 1,1</coordinates></LinearRing></innerBoundaryIs>
    </Polygon>
  </Placemark>
  <Placemark><name>Pin</name><Point><coordinates>1,1</coordinates></Point></Placemark>
  <Placemark>
    <ExtendedData><SchemaData><SimpleData name="postal">BB</SimpleData></SchemaData></ExtendedData>
    <MultiGeometry>
      <Polygon><outerBoundaryIs><LinearRing><coordinates>5,5 6,5 6,6 5,5</coordinates></LinearRing></outerBoundaryIs></Polygon>
      <Polygon><outerBoundaryIs><LinearRing><coordinates>7,7 8,7 8,8 7,7</coordinates></LinearRing></outerBoundaryIs></Polygon>
    </MultiGeometry>
  </Placemark>
</Folder></Document>
</kml>`
	shapes, fields, err := readKML(strings.NewReader(in))
	if err != nil {
		t.Fatalf("readKML: %v", err)
	}
	if len(shapes) != 2 {
		t.Fatalf("got %d shapes, want 2", len(shapes))
	}
	if strings.Join(fields, ",") != "name,postal" {
		t.Errorf("fields = %v", fields)
	}
	if got := len(shapes[0].Rings()); got != 2 {
		t.Errorf("first placemark rings = %d, want outer and hole", got)
	}
	if got := len(shapes[1].Geometry); got != 2 {
		t.Errorf("multigeometry parts = %d, want 2", got)
	}
	if v, _ := shapes[1].Props.Lookup("postal"); v != "BB" {
		t.Errorf("postal = %q", v)
	}
}

func TestParseKMLCoordsErrors(t *testing.T) {
	for _, in := range []string{"", "1", "a,b", "1,2 x,3"} {
		if _, err := parseKMLCoords(in); err == nil {
			t.Errorf("parseKMLCoords(%q): expected error", in)
		}
	}
}

func TestCentroid(t *testing.T) {
	s, err := ParseWKT("POLYGON((0 0, 2 0, 2 2, 0 2, 0 0))")
	if err != nil {
		t.Fatal(err)
	}
	if c := s.Centroid(); c != (Point{X: 1, Y: 1}) {
		t.Errorf("centroid = %+v, want {1 1}", c)
	}
}

func TestBBox(t *testing.T) {
	a := BBox{MinX: 0, MinY: 0, MaxX: 2, MaxY: 1}
	b := BBox{MinX: -1, MinY: 0.5, MaxX: 1, MaxY: 3}
	u := a.Union(b)
	if u != (BBox{MinX: -1, MinY: 0, MaxX: 2, MaxY: 3}) {
		t.Errorf("union = %+v", u)
	}
	if u.Width() != 3 || u.Height() != 3 {
		t.Errorf("size = %vx%v", u.Width(), u.Height())
	}
	if !u.Contains(Point{X: 2, Y: 3}) || u.Contains(Point{X: 2.1, Y: 0}) {
		t.Error("Contains is wrong on the boundary")
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"US States":           "us-states",
		"  Départements 2024": "départements-2024",
		"a--b  c":             "a-b-c",
		"snake_case.v2":       "snake_casev2",
		"":                    "",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSupported(t *testing.T) {
	for _, p := range []string{"a.geojson", "b.JSON", "c.wkt", "d.csv", "e.kml"} {
		if !Supported(p) {
			t.Errorf("%s should be supported", p)
		}
	}
	if Supported("f.shp") {
		t.Error(".shp should not be supported")
	}
}

func TestNewShapeRejectsEmpty(t *testing.T) {
	tests := []struct {
		name string
		g    orb.Geometry
	}{
		{"empty multipolygon", orb.MultiPolygon{}},
		{"multipolygon of empty polygons", orb.MultiPolygon{{}, {orb.Ring{}}}},
		{"empty polygon", orb.Polygon{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s, ok := NewShape(tt.g, nil); ok {
				t.Errorf("NewShape() accepted %+v", s.Geometry)
			}
		})
	}

	shapes, _, err := ParseGeoJSON([]byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"postal":"E"},"geometry":{"type":"MultiPolygon","coordinates":[]}},
		{"type":"Feature","properties":{"postal":"A"},"geometry":{"type":"Polygon","coordinates":[[[10,10],[20,10],[20,20],[10,10]]]}}
	]}`))
	if err != nil {
		t.Fatalf("ParseGeoJSON: %v", err)
	}
	if len(shapes) != 1 {
		t.Fatalf("got %d shapes, want the empty feature skipped", len(shapes))
	}
	if bb := shapes[0].Extent(); bb.Empty() || bb != (BBox{MinX: 10, MinY: 10, MaxX: 20, MaxY: 20}) {
		t.Errorf("extent = %+v", bb)
	}
	if !(BBox{MinX: 1, MinY: 1, MaxX: -1, MaxY: -1}).Empty() {
		t.Error("inverted bound should be empty")
	}
}
