package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/portkill/portkill/internal/filter"
)

func (m MainModel) View() string {
	if m.quitting {
		return ""
	}

	outerStyle := baseStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Padding(0, 1)

	status := "Mode: Navigation (Press / to filter)"
	switch {
	case m.statusMsg != "" && m.statusErr:
		status = errorStyle.Render(m.statusMsg)
	case m.statusMsg != "":
		status = successStyle.Render(m.statusMsg)
	case m.input.Focused():
		status = "Mode: Filtering (Press Esc/Enter to stop)"
	case m.loading:
		status = "Scanning sockets..."
	}

	dimBorderColor := lipgloss.Color("#585858") // Dark Gray

	detailHeader := "Details"
	if r, ok := m.selected(); ok {
		detailHeader = fmt.Sprintf("Port %d/%s", r.Port, r.Protocol)
	}
	if !m.viewport.AtTop() && !m.viewport.AtBottom() {
		detailHeader += " ↕"
	} else if !m.viewport.AtTop() {
		detailHeader += " ↑"
	} else if !m.viewport.AtBottom() {
		detailHeader += " ↓"
	}

	detailContainerStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(dimBorderColor).
		PaddingLeft(1).
		Height(m.table.Height())

	detailHeaderStyle := tableHeaderStyle.
		Width(m.viewport.Width).
		Foreground(lipgloss.Color("#bcbcbc")). // Light Gray
		BorderForeground(dimBorderColor)

	availableWidth := m.width - 6
	listPaneWidth := max(int(float64(availableWidth)*0.65), 10)

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(listPaneWidth).Render(m.table.View()),
		detailContainerStyle.Render(
			lipgloss.JoinVertical(lipgloss.Left,
				detailHeaderStyle.Render(detailHeader),
				m.viewport.View(),
			),
		),
	)

	var helpText string
	switch {
	case m.pendingAction != actionNone:
		helpText = confirmStyle.Render(m.confirmPrompt())
	default:
		helpText = fmt.Sprintf("Showing %d of %d | t: Term | k: Kill | a/e/l: View | p/n/i/s: Sort | r: Refresh | /: Filter | q: Quit",
			len(m.filtered), len(m.snapshot.Records))
	}
	footerContent := helpText
	if m.opts.Version != "" && m.pendingAction == actionNone {
		gap := m.width - 6 - lipgloss.Width(helpText) - lipgloss.Width(m.opts.Version)
		if gap > 0 {
			footerContent = helpText + strings.Repeat(" ", gap) + m.opts.Version
		}
	}

	tabs := []string{titleStyle.Render("portkill")}
	for i, mode := range filter.Modes {
		label := fmt.Sprintf("%d. %s", i+1, modeTitle(mode))
		if mode == m.mode {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	var warnings string
	if len(m.snapshot.Warnings) > 0 {
		warnings = lipgloss.NewStyle().Foreground(lipgloss.Color("#767676")).Render(strings.Join(m.snapshot.Warnings, "; "))
	}

	return outerStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			lipgloss.NewStyle().Height(1).Render(warnings),
			lipgloss.NewStyle().MarginBottom(1).PaddingLeft(1).Render(status),
			lipgloss.NewStyle().MarginBottom(1).PaddingLeft(1).Render(m.input.View()),
			mainContent,
			lipgloss.NewStyle().Height(1).Render(""),
			footerStyle.Width(max(m.width-4, 0)).Render(footerContent),
		),
	)
}

func modeTitle(mode filter.Mode) string {
	switch mode {
	case filter.ModeListening:
		return "Listening"
	case filter.ModeEstablished:
		return "Established"
	default:
		return "All"
	}
}
