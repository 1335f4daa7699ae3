package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/portkill/portkill/internal/killer"
	"github.com/portkill/portkill/pkg/model"
)

type actionResultMsg struct {
	message string
	err     error
}

// requestAction opens the confirmation prompt for the selected record.
// Protected processes are refused before any prompt is shown.
func (m *MainModel) requestAction(kind actionKind) {
	r, ok := m.selected()
	if !ok {
		return
	}
	if !r.HasPID() {
		m.setStatus(fmt.Sprintf("No owning process visible for port %d", r.Port), true)
		return
	}
	if m.opts.Killer == nil {
		m.setStatus("Signalling is not available", true)
		return
	}
	if m.opts.Killer.IsProtected(r.PID) {
		m.setStatus(fmt.Sprintf("Cannot kill system process %s (PID %d)", r.DisplayName(), r.PID), true)
		return
	}
	m.pendingAction = kind
	m.pendingRecord = r
}

func (m MainModel) confirmPrompt() string {
	r := m.pendingRecord
	sig := "SIGTERM (15)"
	if m.pendingAction == actionKill {
		sig = "SIGKILL (9)"
	}
	return fmt.Sprintf("Send %s to %s (PID %d) on port %d? [y]es / [n]o", sig, r.DisplayName(), r.PID, r.Port)
}

func (m MainModel) sendSignal(kind actionKind, r model.SocketRecord) tea.Cmd {
	k := m.opts.Killer
	return func() tea.Msg {
		msg, err := k.Send(r.PID, kind.signal())
		return actionResultMsg{message: msg, err: err}
	}
}

// resultStatus turns a signal outcome into the status line text.
func resultStatus(res actionResultMsg) string {
	if res.err == nil {
		return res.message
	}
	switch {
	case errors.Is(res.err, killer.ErrNoProcess):
		return "Already gone: " + res.err.Error()
	case errors.Is(res.err, killer.ErrPermission):
		return "Not permitted: " + res.err.Error()
	default:
		return "Failed: " + res.err.Error()
	}
}

func (m *MainModel) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusErr = isErr
}
