package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/portkill/portkill/internal/filter"
	"github.com/portkill/portkill/internal/killer"
	"github.com/portkill/portkill/pkg/model"
)

var (
	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#585858")) // Dark Gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")). // White
			Background(lipgloss.Color("#7D56F4")). // Purple
			Padding(0, 1)

	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#5f5fd7")). // Purple/Blue
				Bold(true).
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(lipgloss.Color("#585858")). // Dark Gray
				Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5f5fd7")). // Purple/Blue
			Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676")). // Dimmed Gray
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(lipgloss.Color("#585858")). // Dark Gray
			Padding(0, 1).
			Width(100)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")). // White
			Background(lipgloss.Color("#22aa22")). // Green
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#ffffff")). // White
				Background(lipgloss.Color("#767676")). // Dimmed Gray
				Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff5f5f")). // Soft red
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5fd75f")). // Green
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#af87ff")). // Lavender
			Bold(true)

	confirmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffaf5f")). // Orange-amber
			Bold(true)
)

type actionKind int

const (
	actionNone actionKind = iota
	actionTerm            // SIGTERM
	actionKill            // SIGKILL
)

func (a actionKind) signal() killer.Signal {
	if a == actionKill {
		return killer.SignalKill
	}
	return killer.SignalTerminate
}

// Signaler is the part of *killer.Terminator the UI needs.
type Signaler interface {
	Send(pid uint32, sig killer.Signal) (string, error)
	IsProtected(pid uint32) bool
}

type Options struct {
	Version string
	Refresh time.Duration
	Mode    filter.Mode
	Sort    string
	Scan    func(ctx context.Context) model.Snapshot
	Killer  Signaler
}

type MainModel struct {
	table    table.Model
	input    textinput.Model
	viewport viewport.Model

	snapshot model.Snapshot
	filtered []model.SocketRecord
	loading  bool

	mode     filter.Mode
	sortCol  string
	sortDesc bool

	pendingAction actionKind
	pendingRecord model.SocketRecord

	statusMsg string // transient status shown in the status line
	statusErr bool

	width    int
	height   int
	quitting bool

	opts Options
}

func InitialModel(opts Options) MainModel {
	if opts.Refresh <= 0 {
		opts.Refresh = 5 * time.Second
	}
	if opts.Mode == "" {
		opts.Mode = filter.ModeListening
	}
	if opts.Sort == "" {
		opts.Sort = filter.SortPort
	}

	m := MainModel{
		mode:    opts.Mode,
		sortCol: opts.Sort,
		loading: true,
		opts:    opts,
	}

	t := table.New(
		table.WithColumns(m.getColumns()),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	s := table.DefaultStyles()
	s.Header = tableHeaderStyle
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#ffffaf")). // Light Yellow
		Background(lipgloss.Color("#5f00d7")). // Purple
		Bold(false)
	t.SetStyles(s)
	m.table = t

	ti := textinput.New()
	ti.Placeholder = "Filter by port or process name..."
	ti.CharLimit = 64
	ti.Width = 40
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle
	ti.Blur()
	m.input = ti

	vp := viewport.New(0, 0)
	vp.YPosition = 0
	m.viewport = vp

	return m
}

func Start(opts Options) error {
	if os.Getenv("COLORTERM") == "" {
		os.Setenv("COLORTERM", "truecolor") //nolint:errcheck
	}

	p := tea.NewProgram(InitialModel(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running tui: %w", err)
	}
	return nil
}

func (m MainModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.refreshPorts(),
		m.waitTick(),
		tea.EnableMouseCellMotion,
	)
}

// selected is the record under the cursor.
func (m MainModel) selected() (model.SocketRecord, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.filtered) {
		return model.SocketRecord{}, false
	}
	return m.filtered[i], true
}
