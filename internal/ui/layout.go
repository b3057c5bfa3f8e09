package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-way/internal/model"
	"github.com/nhle/todo-way/internal/theme"
)

// SidebarWidth is the width of the section sidebar when it is open.
const SidebarWidth = 24

// Layout manages the terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
	SidebarOpen     bool
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int, sidebarOpen bool) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
		SidebarOpen:     sidebarOpen,
	}
}

// ContentWidth returns the width left for the main content, accounting for
// the sidebar when it is open.
func (l Layout) ContentWidth() int {
	if l.SidebarOpen && l.Width > SidebarWidth*2 {
		return l.Width - SidebarWidth
	}
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// showSidebar reports whether the sidebar fits and is enabled.
func (l Layout) showSidebar() bool {
	return l.ContentWidth() != l.Width
}

// RenderHeader renders the top header bar with a title and a right-aligned
// status.
func (l Layout) RenderHeader(title, status string) string {
	titleRendered := theme.HeaderStyle.Render(title)
	statusRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(status)

	gap := max(l.Width-lipgloss.Width(titleRendered)-lipgloss.Width(statusRendered), 0)
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.HeaderStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, titleRendered, filler, statusRendered)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := max(l.Width-lipgloss.Width(rendered), 0)
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.StatusBarStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderSidebar lists the sections with their open todo counts. The active
// section filter, if any, is highlighted.
func (l Layout) RenderSidebar(sections []model.Section, counts map[string]int, active *string) string {
	var b strings.Builder
	b.WriteString(theme.DimmedStyle.Render("Sections"))
	b.WriteString("\n")

	for _, sec := range sections {
		line := fmt.Sprintf("%s (%d)", sec.Name, counts[sec.ID])
		if active != nil && *active == sec.ID {
			b.WriteString(theme.SelectedItemStyle.Render(line))
		} else {
			b.WriteString(theme.ListItemStyle.Render(line))
		}
		b.WriteString("\n")
		for _, sub := range sec.Subsections {
			b.WriteString(theme.DimmedStyle.Render("    " + sub.Name))
			b.WriteString("\n")
		}
	}

	return theme.SidebarStyle.
		Width(SidebarWidth - 2).
		Height(l.ContentHeight()).
		Render(b.String())
}

// RenderBody places the sidebar, when shown, left of the content.
func (l Layout) RenderBody(sidebar, content string) string {
	if !l.showSidebar() {
		return content
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, content)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}
