package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	list "github.com/charmbracelet/bubbles/list"

	"shp2svg/internal/geom"
	"shp2svg/internal/render"
	"shp2svg/internal/svgpath"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !geom.Supported(name) {
			continue
		}
		items = append(items, fileItem{title: name, desc: filepath.Ext(name), path: filepath.Join(m.cwd, name)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath loads a dataset into the model.
func (m *Model) loadPath(p string) {
	c, err := geom.Load(p)
	if err != nil {
		m.status = "load error: " + err.Error()
		return
	}
	m.selPath = p
	m.setCollection(c)
	m.status = fmt.Sprintf("loaded: %s  shapes=%d  key=%s", filepath.Base(p), len(c.Shapes), m.key())
	if m.showAttrs {
		m.refreshAttrsFromCurrent()
	}
}

// addPasted appends a WKT shape to the current collection, creating one if
// nothing is loaded.
func (m *Model) addPasted(wkt string) error {
	s, err := geom.ParseWKT(wkt)
	if err != nil {
		return err
	}
	c := m.col
	if c == nil {
		c = &geom.Collection{Name: "pasted", Slug: "pasted", Fields: []string{"id"}}
	} else {
		cp := *c
		cp.Shapes = append([]*geom.Shape(nil), c.Shapes...)
		c = &cp
	}
	s.Props["id"] = geom.StringValue(fmt.Sprintf("pasted-%d", len(c.Shapes)+1))
	c.Shapes = append(c.Shapes, s)
	if !containsString(c.Fields, "id") {
		c.Fields = append(append([]string(nil), c.Fields...), "id")
	}
	m.setCollection(c)
	return nil
}

// exportSVG writes the collection, keyed by the current attribute, next to
// the working directory as <slug>.svg.
func (m *Model) exportSVG() (string, error) {
	if m.col == nil {
		return "", fmt.Errorf("nothing loaded")
	}
	opts := m.opts
	opts.Key = m.key()
	opts.IncludeCentroid = m.showCentroids
	res, err := svgpath.Project(m.col.Shapes, opts)
	if err != nil {
		return "", err
	}
	name := m.col.Slug
	if name == "" {
		name = "export"
	}
	out := filepath.Join(m.cwd, name+".svg")
	f, err := os.Create(out)
	if err != nil {
		return "", err
	}
	st := render.DefaultStyle()
	st.Title = m.col.Name
	st.Labels = m.showCentroids
	if err := render.WriteSVG(f, res, st); err != nil {
		f.Close()
		return "", err
	}
	return out, f.Close()
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
