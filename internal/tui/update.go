package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

const sidebarWidth = 28

// mapArea is the screen rectangle the map occupies. View and Update must
// agree on it for hover to line up.
type mapArea struct {
	x, y          int
	width, height int
	contentWidth  int
	contentHeight int
}

func (m Model) mapArea() mapArea {
	sw := 0
	if m.showSidebar {
		sw = sidebarWidth
	}
	headerHeight := 1
	footerHeight := 2
	contentHeight := max(4, m.height-headerHeight-footerHeight)
	contentWidth := max(10, m.width)
	a := mapArea{
		y:             headerHeight,
		width:         max(10, contentWidth-sw-1),
		height:        contentHeight,
		contentWidth:  contentWidth,
		contentHeight: contentHeight,
	}
	if m.showSidebar {
		a.x = sw + 1
	}
	return a
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, m.mapArea().contentHeight-2)
		}
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			switch msg.String() {
			case "esc":
				m.pasteMode = false
				m.ta.Blur()
				return m, nil
			case "enter":
				w := strings.TrimSpace(m.ta.Value())
				if w == "" {
					m.status = "paste: empty"
					return m, nil
				}
				if err := m.addPasted(w); err != nil {
					m.status = "wkt error: " + err.Error()
					return m, nil
				}
				m.status = fmt.Sprintf("added WKT shape  shapes=%d", len(m.col.Shapes))
				m.pasteMode = false
				m.ta.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.ta, cmd = m.ta.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "+", "=":
			if m.zoom < 64 {
				m.zoom *= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "-", "_":
			if m.zoom > 0.05 {
				m.zoom /= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "0":
			m.zoom = 1.0
			m.offsetX, m.offsetY = 0, 0
			m.status = "view reset"
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
				m.l.SetSize(sidebarWidth-2, m.mapArea().contentHeight-2)
			}
		case "p":
			m.pasteMode = true
			m.ta.SetValue("")
			m.status = "paste mode"
			m.ta.Focus()
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showAttrs = !m.showAttrs
			if m.showAttrs {
				m.refreshAttrsFromCurrent()
			}
		case "k":
			if m.col != nil && len(m.col.Fields) > 0 {
				m.keyIdx = (m.keyIdx + 1) % len(m.col.Fields)
				m.hoverKey = ""
				m.status = "key: " + m.key()
				if m.showAttrs {
					m.refreshAttrsFromCurrent()
				}
			}
		case "c":
			m.showCentroids = !m.showCentroids
			m.status = fmt.Sprintf("centroids: %v", m.showCentroids)
		case "e":
			out, err := m.exportSVG()
			if err != nil {
				m.status = "export error: " + err.Error()
			} else {
				m.status = "wrote " + out
			}
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.loadPath(it.path)
				}
			}
		case "up":
			m.offsetY += 1
		case "down":
			m.offsetY -= 1
		case "left":
			m.offsetX += 2
		case "right":
			m.offsetX -= 2
		}
	case tea.MouseMsg:
		a := m.mapArea()
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, a.contentHeight-2)
		}
		cx, cy := msg.X-a.x, msg.Y-a.y
		if cx >= 0 && cx < a.width && cy >= 0 && cy < a.height && !m.showAttrs && !m.pasteMode {
			m.hovering = true
			m.hoverAt(cx, cy, a.width, a.height)
		} else {
			m.hovering = false
			m.hoverOK = false
		}
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}
