package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/portkill/portkill/internal/filter"
	"github.com/portkill/portkill/pkg/model"
)

// Screen geometry shared with View: outer border and padding on the left,
// then title, blank, status, input, each followed by a margin line.
const (
	contentOffsetX = 2
	tableHeaderY   = 7
	chromeHeight   = 14
)

type tickMsg time.Time

func (m MainModel) waitTick() tea.Cmd {
	return tea.Tick(m.opts.Refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tickMsg:
		if !m.quitting && !m.input.Focused() && m.pendingAction == actionNone {
			cmd = m.refreshPorts()
		}
		return m, tea.Batch(cmd, m.waitTick())

	case snapshotMsg:
		m.applySnapshot(model.Snapshot(msg))
		return m, nil

	case actionResultMsg:
		m.setStatus(resultStatus(msg), msg.err != nil)
		if msg.err != nil {
			return m, nil
		}
		return m, m.refreshPorts()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.MouseMsg:
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			m.table.MoveUp(1)
			m.updateDetailViewport()
		case msg.Button == tea.MouseButtonWheelDown:
			m.table.MoveDown(1)
			m.updateDetailViewport()
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && msg.Y == tableHeaderY:
			m.handleHeaderClick(msg.X - contentOffsetX)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

		if m.pendingAction != actionNone {
			switch msg.String() {
			case "y", "Y":
				kind, r := m.pendingAction, m.pendingRecord
				m.pendingAction = actionNone
				return m, m.sendSignal(kind, r)
			case "n", "N", "esc", "q":
				m.pendingAction = actionNone
				m.setStatus("Cancelled", false)
			}
			return m, nil
		}

		if m.input.Focused() {
			if msg.String() == "enter" || msg.String() == "esc" {
				m.input.Blur()
				return m, nil
			}
			var inputCmd tea.Cmd
			m.input, inputCmd = m.input.Update(msg)
			m.table.SetCursor(0)
			m.updatePortTable()
			return m, inputCmd
		}

		m.statusMsg = "" // clear any transient message on interaction
		switch msg.String() {
		case "q":
			m.quitting = true
			return m, tea.Quit
		case "esc":
			if m.input.Value() != "" {
				m.input.SetValue("")
				m.updatePortTable()
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit
		case "/":
			m.input.Focus()
			return m, textinput.Blink
		case "a":
			m.setMode(filter.ModeAll)
			return m, nil
		case "e":
			m.setMode(filter.ModeEstablished)
			return m, nil
		case "l":
			m.setMode(filter.ModeListening)
			return m, nil
		case "v", "tab":
			m.setMode(m.mode.Next())
			return m, nil
		case "r":
			m.setStatus("Refreshing...", false)
			return m, m.refreshPorts()
		case "t":
			m.requestAction(actionTerm)
			return m, nil
		case "k":
			m.requestAction(actionKill)
			return m, nil
		case "p":
			m.setSort(filter.SortPort)
			return m, nil
		case "n":
			m.setSort(filter.SortProcess)
			return m, nil
		case "i":
			m.setSort(filter.SortPID)
			return m, nil
		case "s":
			m.setSort(filter.SortState)
			return m, nil
		}

		m.table, cmd = m.table.Update(msg)
		m.updateDetailViewport()
		return m, cmd
	}
	return m, nil
}

func (m *MainModel) setMode(mode filter.Mode) {
	if m.mode == mode {
		return
	}
	m.mode = mode
	m.table.SetCursor(0)
	m.updatePortTable()
}

func (m *MainModel) resize() {
	tableHeight := max(m.height-chromeHeight, 3)
	availableWidth := max(m.width-6, 20)
	listWidth := int(float64(availableWidth) * 0.65)

	m.table.SetHeight(tableHeight)
	m.table.SetWidth(listWidth)
	m.viewport.Width = max(availableWidth-listWidth-3, 10)
	m.viewport.Height = tableHeight - 2
	m.updateDetailViewport()
}
