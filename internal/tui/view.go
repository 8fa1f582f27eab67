package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	a := m.mapArea()

	// Update list size with accurate content height when sidebar visible
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, a.contentHeight-2)
	}

	// Header
	title := " shp2svg ─ shape preview "
	if m.col != nil {
		title += "─ " + m.col.Name + " "
	}
	header := titleStyle.Render(title)
	if m.col != nil {
		header += dimStyle.Render(fmt.Sprintf(" key=%s shapes=%d", m.key(), len(m.col.Shapes)))
	}
	header = lipgloss.NewStyle().Width(a.contentWidth).Padding(0).Render(header)

	// Sidebar
	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	m.mapW = max(8, a.width)
	m.mapH = max(4, a.height)
	var mapView string
	if m.showAttrs {
		// infer a reasonable width from columns
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		if colW == 0 {
			colW = min(60, a.contentWidth-6)
		}
		maxW := min(a.width, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(a.height-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, attrsBox)
	} else {
		var canvas string
		if m.pasteMode {
			m.ta.SetWidth(m.mapW)
			m.ta.SetHeight(min(m.mapH, 12))
			canvas = m.ta.View()
		} else {
			canvas = m.renderMap(a.width, a.height)
		}
		mapView = lipgloss.NewStyle().Width(a.width).Height(a.height).Render(canvas)
	}

	var body string
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	} else {
		body = mapView
	}

	// Footer / help
	help := m.renderHelp()
	status := dimStyle.Render(" " + m.status + " ")
	hover := ""
	if m.hovering && m.hoverOK {
		label := ""
		if m.hoverKey != "" {
			label = keyStyle.Render(m.hoverKey) + " "
		}
		hover = label + dimStyle.Render(fmt.Sprintf(" x=%.5f y=%.5f  ", m.hoverGeo.X, m.hoverGeo.Y))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, help)
	spacerW := max(0, a.contentWidth-lipgloss.Width(left)-lipgloss.Width(hover))
	right := lipgloss.Place(spacerW+lipgloss.Width(hover), 1, lipgloss.Right, lipgloss.Center, hover)
	footer := lipgloss.NewStyle().Width(a.contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(a.contentWidth).Height(m.height).Render(ui)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"0 reset",
		"Tab files",
		"Enter open",
		"p paste",
		"a attrs",
		"k key",
		"c centroids",
		"e export",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
