package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"

	"github.com/portkill/portkill/internal/filter"
	"github.com/portkill/portkill/internal/logging"
	"github.com/portkill/portkill/pkg/model"
)

var log = logging.L("tui")

type snapshotMsg model.Snapshot

// refreshPorts runs a full scan off the UI goroutine. Every result
// replaces the previous one.
func (m MainModel) refreshPorts() tea.Cmd {
	scan := m.opts.Scan
	return func() tea.Msg {
		if scan == nil {
			return snapshotMsg{}
		}
		return snapshotMsg(scan(context.Background()))
	}
}

func (m *MainModel) applySnapshot(s model.Snapshot) {
	m.snapshot = s
	m.loading = false
	if err := s.Err(); err != nil {
		log.Warn("scan failed", logging.KeyError, err)
		m.statusMsg = fmt.Sprintf("Scan failed: %v", err)
		m.statusErr = true
	}
	m.updatePortTable()
}

var columnKeys = []string{filter.SortPort, "", filter.SortState, filter.SortPID, filter.SortProcess, "", ""}

func (m *MainModel) getColumns() []table.Column {
	cols := []table.Column{
		{Title: "Port", Width: 7},
		{Title: "Proto", Width: 6},
		{Title: "State", Width: 12},
		{Title: "PID", Width: 8},
		{Title: "Process", Width: 20},
		{Title: "User", Width: 12},
		{Title: "Service", Width: 14},
	}
	for i, key := range columnKeys {
		if key != "" && key == m.sortCol {
			if m.sortDesc {
				cols[i].Title += " ↓"
			} else {
				cols[i].Title += " ↑"
			}
		}
	}
	return cols
}

func (m *MainModel) updatePortTable() {
	m.filtered = filter.Apply(m.snapshot.Records, filter.Options{Mode: m.mode, Text: m.input.Value()})
	filter.Sort(m.filtered, m.sortCol, m.sortDesc)

	existingCols := m.table.Columns()
	newCols := m.getColumns()
	for i := range existingCols {
		if i < len(newCols) {
			newCols[i].Width = existingCols[i].Width
		}
	}
	m.table.SetColumns(newCols)

	rows := make([]table.Row, 0, len(m.filtered))
	for _, r := range m.filtered {
		pid := "-"
		if r.HasPID() {
			pid = strconv.FormatUint(uint64(r.PID), 10)
		}
		rows = append(rows, table.Row{
			strconv.Itoa(int(r.Port)),
			string(r.Protocol),
			r.State.String(),
			pid,
			truncate.StringWithTail(orDash(r.DisplayName()), uint(newCols[4].Width), "…"),
			orDash(r.User),
			orDash(filter.WellKnownLabel(r.Port)),
		})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
	m.updateDetailViewport()
}

func (m *MainModel) setSort(col string) {
	if m.sortCol == col {
		m.sortDesc = !m.sortDesc
	} else {
		m.sortCol = col
		m.sortDesc = false
	}
	m.updatePortTable()
}

func (m *MainModel) updateDetailViewport() {
	r, ok := m.selected()
	if !ok {
		m.viewport.SetContent("")
		return
	}

	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(label+":"), orDash(value))
	}
	field("Local", r.LocalAddress)
	field("Remote", r.RemoteAddress)
	field("State", r.State.String())
	note, hint := filter.StateNote(r.State)
	fmt.Fprintf(&b, "  %s\n", note)
	if hint != "" {
		fmt.Fprintf(&b, "  %s\n", hint)
	}
	if r.HasInode() {
		field("Inode", strconv.FormatUint(uint64(r.Inode), 10))
	}
	if r.HasPID() {
		field("PID", strconv.FormatUint(uint64(r.PID), 10))
	}
	field("Process", r.ProcessName)
	field("User", r.User)
	if svc := filter.WellKnownLabel(r.Port); svc != "" {
		field("Service", svc)
	}
	if r.CommandLine != "" {
		fmt.Fprintf(&b, "\n%s\n%s\n", labelStyle.Render("Command:"), r.CommandLine)
	}
	if !r.HasPID() {
		dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#767676"))
		fmt.Fprintf(&b, "\n%s\n", dimStyle.Render("No owning process visible."))
	}

	content := b.String()
	if m.viewport.Width > 0 {
		content = wrap.String(content, m.viewport.Width)
	}
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
