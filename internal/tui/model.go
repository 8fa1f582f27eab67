package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"shp2svg/internal/geom"
	"shp2svg/internal/svgpath"
)

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	// zoom multiplies the fitted max size; offsetX/offsetY pan in cells
	zoom    float64
	offsetX int
	offsetY int

	status string

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// Data
	col    *geom.Collection
	index  *shapeIndex
	keyIdx int

	// last rendered map size (for hover)
	mapW int
	mapH int

	// paste mode
	pasteMode bool
	ta        textarea.Model

	showCentroids bool

	// hover state
	hovering  bool
	hoverKey  string
	hoverMicX int
	hoverMicY int
	hoverGeo  geom.Point
	hoverOK   bool

	// attributes table
	showAttrs bool
	tbl       table.Model

	// opts are the CLI defaults; MaxSize and Offset are used for export
	opts svgpath.Options
}

// New returns an empty previewer using opts for keying and export.
func New(opts svgpath.Options) Model {
	m := Model{
		helpVisible: true,
		zoom:        1.0,
		status:      "shp2svg ready",
		opts:        opts,
	}
	m.cwd, _ = os.Getwd()
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT here (POLYGON, MULTIPOLYGON). Press Enter to add it; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewWithPath preloads a dataset at launch.
func NewWithPath(path string, opts svgpath.Options) Model {
	m := New(opts)
	m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// key returns the attribute currently used to label shapes.
func (m Model) key() string {
	if m.col == nil || len(m.col.Fields) == 0 {
		return m.opts.Key
	}
	return m.col.Fields[m.keyIdx%len(m.col.Fields)]
}

// setCollection installs c and rebuilds everything derived from it.
func (m *Model) setCollection(c *geom.Collection) {
	m.col = c
	m.index = newShapeIndex(c.Shapes)
	m.keyIdx = 0
	for i, f := range c.Fields {
		if f == m.opts.Key {
			m.keyIdx = i
			break
		}
	}
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	m.hovering = false
}
