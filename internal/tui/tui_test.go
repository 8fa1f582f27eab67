package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"shp2svg/internal/geom"
	"shp2svg/internal/svgpath"
)

func mustShape(t *testing.T, wkt string, props geom.Attributes) *geom.Shape {
	t.Helper()
	s, err := geom.ParseWKT(wkt)
	if err != nil {
		t.Fatalf("ParseWKT(%q): %v", wkt, err)
	}
	for k, v := range props {
		s.Props[k] = v
	}
	return s
}

func testCollection(t *testing.T) *geom.Collection {
	return &geom.Collection{
		Name:   "Test Squares",
		Slug:   "test-squares",
		Fields: []string{"name", "postal"},
		Shapes: []*geom.Shape{
			mustShape(t, "POLYGON((0 0, 10 0, 10 10, 0 10, 0 0), (4 4, 6 4, 6 6, 4 6, 4 4))",
				geom.Attributes{"name": geom.StringValue("Outer"), "postal": geom.StringValue("OU")}),
			mustShape(t, "POLYGON((4.1 4.1, 5.9 4.1, 5.9 5.9, 4.1 5.9, 4.1 4.1))",
				geom.Attributes{"name": geom.StringValue("Inner"), "postal": geom.StringValue("IN")}),
		},
	}
}

func testModel(t *testing.T) Model {
	t.Helper()
	m := New(svgpath.DefaultOptions())
	m.cwd = t.TempDir()
	m.setCollection(testCollection(t))
	return m
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFitSize(t *testing.T) {
	bb := geom.BBox{MinX: 0, MinY: 0, MaxX: 10, MaxY: 5}
	if got := fitSize(bb, 20, 20); got != 20 {
		t.Errorf("wide extent: fitSize = %v, want 20", got)
	}
	if got := fitSize(bb, 40, 4); got != 8 {
		t.Errorf("height-bound: fitSize = %v, want 8", got)
	}
}

func TestBrailleFill(t *testing.T) {
	b := newBrailleBuf(2, 2)
	b.fillRings([][][2]int{{{0, 0}, {3, 0}, {3, 7}, {0, 7}}})
	lines := b.toLines()
	if got := []rune(lines[0]); got[0] != 0x28FF || got[1] != 0x28FF {
		t.Errorf("top row = %q, want full cells", lines[0])
	}
	// the bottom scanline is exclusive, so the last dot row stays empty
	if got := []rune(lines[1]); got[0] != 0x283F {
		t.Errorf("bottom row = %q, want %q", lines[1], string(rune(0x283F)))
	}
}

func TestBrailleOutOfRange(t *testing.T) {
	b := newBrailleBuf(1, 1)
	b.setPixel(-1, 0)
	b.setPixel(2, 0)
	b.setPixel(0, 4)
	if b.toLines()[0] != " " {
		t.Error("pixels outside the buffer must be dropped")
	}
	b.setPixel(0, 0)
	if b.toLines()[0] != "⠁" {
		t.Errorf("got %q", b.toLines()[0])
	}
}

func TestIndexAt(t *testing.T) {
	col := testCollection(t)
	idx := newShapeIndex(col.Shapes)

	tests := []struct {
		name string
		p    geom.Point
		want string
	}{
		{"outer ring", geom.Point{X: 1, Y: 1}, "Outer"},
		{"hole shows the shape drawn into it", geom.Point{X: 5, Y: 5}, "Inner"},
		{"hole", geom.Point{X: 4.05, Y: 4.05}, ""},
		{"outside", geom.Point{X: 20, Y: 20}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := idx.at(tt.p)
			got := ""
			if ok {
				got, _ = s.Props.Lookup("name")
			}
			if got != tt.want {
				t.Errorf("at(%v) = %q, want %q", tt.p, got, tt.want)
			}
		})
	}

	var nilIdx *shapeIndex
	if _, ok := nilIdx.at(geom.Point{}); ok {
		t.Error("nil index should find nothing")
	}
}

func TestKeyCycling(t *testing.T) {
	m := New(svgpath.Options{MaxSize: 700, Key: "postal"})
	m.setCollection(testCollection(t))
	if m.key() != "postal" {
		t.Fatalf("key = %q, want the configured default", m.key())
	}
	next, _ := m.Update(keyMsg("k"))
	m = next.(Model)
	if m.key() != "name" {
		t.Errorf("after k: key = %q, want name", m.key())
	}

	empty := New(svgpath.Options{Key: "id"})
	if empty.key() != "id" {
		t.Errorf("no collection: key = %q, want id", empty.key())
	}
}

func TestHoverAt(t *testing.T) {
	m := testModel(t)
	m.hoverAt(2, 2, 20, 10)
	if !m.hoverOK {
		t.Fatal("hover should resolve inside the map")
	}
	if m.hoverKey != "OU" {
		t.Errorf("hoverKey = %q, want OU", m.hoverKey)
	}

	m.hoverAt(10, 4, 20, 10)
	if m.hoverKey != "IN" {
		t.Errorf("center hoverKey = %q, want IN (%+v)", m.hoverKey, m.hoverGeo)
	}
}

func TestRenderMapSize(t *testing.T) {
	m := testModel(t)
	m.showCentroids = true
	out := m.renderMap(20, 10)
	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want 10", len(lines))
	}
	dots := 0
	for _, r := range out {
		if r > 0x2800 && r <= 0x28FF {
			dots++
		}
	}
	if dots == 0 {
		t.Error("map should contain outline dots")
	}
}

func TestAddPasted(t *testing.T) {
	m := New(svgpath.DefaultOptions())
	if err := m.addPasted("POLYGON((0 0, 1 0, 1 1, 0 0))"); err != nil {
		t.Fatalf("addPasted: %v", err)
	}
	if m.col == nil || m.col.Slug != "pasted" || len(m.col.Shapes) != 1 {
		t.Fatalf("unexpected collection %+v", m.col)
	}
	if id, _ := m.col.Shapes[0].Props.Lookup("id"); id != "pasted-1" {
		t.Errorf("id = %q", id)
	}
	if err := m.addPasted("POINT(1 1)"); err == nil {
		t.Error("points should be rejected")
	}

	base := testModel(t)
	orig := base.col
	if err := base.addPasted("POLYGON((0 0, 1 0, 1 1, 0 0))"); err != nil {
		t.Fatal(err)
	}
	if len(orig.Shapes) != 2 || len(base.col.Shapes) != 3 {
		t.Errorf("pasting must not modify the loaded collection: %d / %d", len(orig.Shapes), len(base.col.Shapes))
	}
	if strings.Join(base.col.Fields, ",") != "name,postal,id" {
		t.Errorf("fields = %v", base.col.Fields)
	}
}

func TestExportSVG(t *testing.T) {
	m := testModel(t)
	out, err := m.exportSVG()
	if err != nil {
		t.Fatalf("exportSVG: %v", err)
	}
	if filepath.Base(out) != "test-squares.svg" {
		t.Errorf("output = %s", out)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	svg := string(data)
	for _, want := range []string{"<svg", `id="shape-OU"`, `id="shape-IN"`, "<title>Test Squares</title>"} {
		if !strings.Contains(svg, want) {
			t.Errorf("export missing %q", want)
		}
	}

	empty := New(svgpath.DefaultOptions())
	if _, err := empty.exportSVG(); err == nil {
		t.Error("export with nothing loaded should fail")
	}
}

func TestLoadPathFromSidebar(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "Shapes.wkt")
	if err := os.WriteFile(p, []byte("POLYGON((0 0, 1 0, 1 1, 0 0))\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := New(svgpath.DefaultOptions())
	m.cwd = dir
	m.refreshDir()
	if len(m.items) != 1 {
		t.Fatalf("items = %d, want only the dataset", len(m.items))
	}
	m.loadPath(m.items[0].(fileItem).path)
	if m.col == nil || m.col.Slug != "shapes" {
		t.Fatalf("collection = %+v", m.col)
	}
	if m.key() != "id" {
		t.Errorf("key = %q, want the only field", m.key())
	}
	if !strings.HasPrefix(m.status, "loaded: Shapes.wkt") {
		t.Errorf("status = %q", m.status)
	}
}

func TestContainsPointPerPolygon(t *testing.T) {
	// two overlapping parts: the overlap is inside, not cancelled out
	s := mustShape(t, "MULTIPOLYGON(((0 0, 4 0, 4 4, 0 4, 0 0)), ((2 2, 6 2, 6 6, 2 6, 2 2)))", nil)
	tests := []struct {
		p    geom.Point
		want bool
	}{
		{geom.Point{X: 1, Y: 1}, true},
		{geom.Point{X: 3, Y: 3}, true},
		{geom.Point{X: 5, Y: 5}, true},
		{geom.Point{X: 5, Y: 1}, false},
	}
	for _, tt := range tests {
		if got := containsPoint(s, tt.p); got != tt.want {
			t.Errorf("containsPoint(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestIndexFlatShape(t *testing.T) {
	flat := mustShape(t, "POLYGON((0 0, 5 0, 5 0, 0 0))", nil)
	idx := newShapeIndex([]*geom.Shape{flat})
	if got := idx.rtree.SearchIntersect(p2rect(geom.Point{X: 2, Y: 0})); len(got) != 1 {
		t.Errorf("flat shape should still be indexed, got %d candidates", len(got))
	}
	if _, ok := idx.at(geom.Point{X: 2, Y: 1}); ok {
		t.Error("point off a flat shape should find nothing")
	}
}
