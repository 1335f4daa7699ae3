package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portkill/portkill/internal/filter"
	"github.com/portkill/portkill/internal/killer"
	"github.com/portkill/portkill/pkg/model"
)

type sentSignal struct {
	pid uint32
	sig killer.Signal
}

type fakeKiller struct {
	protected map[uint32]bool
	err       error
	sent      []sentSignal
}

func (f *fakeKiller) Send(pid uint32, sig killer.Signal) (string, error) {
	f.sent = append(f.sent, sentSignal{pid, sig})
	if f.err != nil {
		return "", f.err
	}
	return "Sent " + sig.String(), nil
}

func (f *fakeKiller) IsProtected(pid uint32) bool { return pid == 1 || f.protected[pid] }

var snapshot = model.Snapshot{Records: []model.SocketRecord{
	{Port: 8080, Protocol: model.ProtocolTCP, State: model.StateListen, PID: 300, ProcessName: "node", LocalAddress: "127.0.0.1:8080", CommandLine: "node server.js"},
	{Port: 22, Protocol: model.ProtocolTCP, State: model.StateListen, PID: 1, ProcessName: "systemd"},
	{Port: 5432, Protocol: model.ProtocolTCP6, State: model.StateListen, PID: 120, ProcessName: "postgres"},
	{Port: 51000, Protocol: model.ProtocolTCP, State: model.StateEstablished, PID: 300, ProcessName: "node"},
	{Port: 631, Protocol: model.ProtocolTCP, State: model.StateListen, Inode: 99},
}}

func newTestModel(t *testing.T, k *fakeKiller) (MainModel, *int) {
	t.Helper()
	scans := 0
	m := InitialModel(Options{
		Refresh: time.Second,
		Scan: func(context.Context) model.Snapshot {
			scans++
			return snapshot
		},
		Killer: k,
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
	m = update(t, m, snapshotMsg(snapshot))
	return m, &scans
}

func update(t *testing.T, m MainModel, msg tea.Msg) MainModel {
	t.Helper()
	next, _ := m.Update(msg)
	mm, ok := next.(MainModel)
	require.True(t, ok)
	return mm
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func visiblePorts(m MainModel) []uint16 {
	out := make([]uint16, len(m.filtered))
	for i, r := range m.filtered {
		out[i] = r.Port
	}
	return out
}

func TestInitialViewListensSortedByPort(t *testing.T) {
	m, _ := newTestModel(t, &fakeKiller{})
	assert.Equal(t, []uint16{22, 631, 5432, 8080}, visiblePorts(m))
	assert.Len(t, m.table.Rows(), 4)
	assert.False(t, m.loading)
}

func TestModeKeys(t *testing.T) {
	m, _ := newTestModel(t, &fakeKiller{})

	m = update(t, m, key("e"))
	assert.Equal(t, filter.ModeEstablished, m.mode)
	assert.Equal(t, []uint16{51000}, visiblePorts(m))

	m = update(t, m, key("a"))
	assert.Len(t, m.filtered, 5)

	m = update(t, m, key("v"))
	assert.Equal(t, filter.ModeListening, m.mode)
}

func TestFilterInput(t *testing.T) {
	m, _ := newTestModel(t, &fakeKiller{})

	m = update(t, m, key("/"))
	require.True(t, m.input.Focused())
	for _, r := range "post" {
		m = update(t, m, key(string(r)))
	}
	assert.Equal(t, []uint16{5432}, visiblePorts(m))

	m = update(t, m, key("enter"))
	assert.False(t, m.input.Focused())
	assert.Equal(t, "post", m.input.Value())

	m = update(t, m, key("esc"))
	assert.False(t, m.quitting, "first esc clears the filter")
	assert.Len(t, m.filtered, 4)
}

func TestSortKeys(t *testing.T) {
	m, _ := newTestModel(t, &fakeKiller{})

	m = update(t, m, key("p"))
	assert.True(t, m.sortDesc)
	assert.Equal(t, []uint16{8080, 5432, 631, 22}, visiblePorts(m))
	assert.True(t, strings.HasSuffix(m.table.Columns()[0].Title, "↓"))

	m = update(t, m, key("i"))
	assert.Equal(t, filter.SortPID, m.sortCol)
	assert.Equal(t, []uint16{631, 22, 5432, 8080}, visiblePorts(m))
}

func TestTerminateConfirmFlow(t *testing.T) {
	k := &fakeKiller{}
	m, _ := newTestModel(t, k)

	// rows: 22 (pid 1), 631 (no pid), 5432, 8080
	m = update(t, m, key("down"))
	m = update(t, m, key("down"))
	m = update(t, m, key("down"))
	r, ok := m.selected()
	require.True(t, ok)
	require.Equal(t, uint16(8080), r.Port)

	m = update(t, m, key("t"))
	require.Equal(t, actionTerm, m.pendingAction)
	assert.Contains(t, m.confirmPrompt(), "SIGTERM (15) to node (PID 300) on port 8080")
	assert.Empty(t, k.sent, "nothing is sent before confirmation")

	next, cmd := m.Update(key("y"))
	m = next.(MainModel)
	require.NotNil(t, cmd)
	assert.Equal(t, actionNone, m.pendingAction)

	res := cmd()
	assert.Equal(t, []sentSignal{{300, killer.SignalTerminate}}, k.sent)

	next, cmd = m.Update(res)
	m = next.(MainModel)
	assert.Equal(t, "Sent SIGTERM", m.statusMsg)
	assert.False(t, m.statusErr)
	assert.NotNil(t, cmd, "a successful kill triggers a refresh")
}

func TestKillCancelled(t *testing.T) {
	k := &fakeKiller{}
	m, _ := newTestModel(t, k)
	m.table.SetCursor(2) // 5432

	m = update(t, m, key("k"))
	require.Equal(t, actionKill, m.pendingAction)
	m = update(t, m, key("n"))
	assert.Equal(t, actionNone, m.pendingAction)
	assert.Empty(t, k.sent)
}

func TestProtectedRefusedBeforePrompt(t *testing.T) {
	k := &fakeKiller{}
	m, _ := newTestModel(t, k)
	m.table.SetCursor(0) // port 22, PID 1

	m = update(t, m, key("k"))
	assert.Equal(t, actionNone, m.pendingAction)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.statusMsg, "Cannot kill system process")
}

func TestNoOwnerRefused(t *testing.T) {
	m, _ := newTestModel(t, &fakeKiller{})
	m.table.SetCursor(1) // port 631, unresolved

	m = update(t, m, key("t"))
	assert.Equal(t, actionNone, m.pendingAction)
	assert.Contains(t, m.statusMsg, "No owning process")
}

func TestFailedSignalStatus(t *testing.T) {
	gone := &killer.Error{Kind: killer.KindNoProcess, PID: 300}
	m, _ := newTestModel(t, &fakeKiller{err: gone})

	next, cmd := m.Update(actionResultMsg{err: gone})
	m = next.(MainModel)
	assert.Nil(t, cmd, "no refresh after a failure")
	assert.True(t, m.statusErr)
	assert.True(t, strings.HasPrefix(m.statusMsg, "Already gone:"))
}

func TestTickRefreshes(t *testing.T) {
	m, scans := newTestModel(t, &fakeKiller{})

	_, cmd := m.Update(tickMsg(time.Now()))
	require.NotNil(t, cmd)

	m = update(t, m, key("/"))
	next, _ := m.Update(tickMsg(time.Now()))
	assert.True(t, next.(MainModel).input.Focused())
	assert.Zero(t, *scans, "commands are not run by Update")
}

func TestRefreshCmdScans(t *testing.T) {
	m, scans := newTestModel(t, &fakeKiller{})
	msg := m.refreshPorts()()
	assert.Equal(t, 1, *scans)
	assert.Len(t, model.Snapshot(msg.(snapshotMsg)).Records, len(snapshot.Records))
}

func TestHeaderClickSorts(t *testing.T) {
	m, _ := newTestModel(t, &fakeKiller{})
	// PID column starts after Port(7+2) Proto(6+2) State(12+2)
	m = update(t, m, tea.MouseMsg{X: contentOffsetX + 32, Y: tableHeaderY, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, filter.SortPID, m.sortCol)

	m = update(t, m, tea.MouseMsg{X: contentOffsetX + 10, Y: tableHeaderY, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, filter.SortPID, m.sortCol, "protocol column has no sort")
}

func TestViewRenders(t *testing.T) {
	m, _ := newTestModel(t, &fakeKiller{})
	v := m.View()
	assert.Contains(t, v, "portkill")
	assert.Contains(t, v, "Listening")
	assert.Contains(t, v, "Showing 4 of 5")

	m = update(t, m, key("q"))
	assert.Empty(t, m.View())
}
