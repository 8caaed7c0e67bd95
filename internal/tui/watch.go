package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/sandpool-ctl/internal/pool"
)

// SnapshotFunc fetches the current record snapshot for display.
type SnapshotFunc func(ctx context.Context) (*pool.Snapshot, error)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("240"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true)
)

type tickMsg time.Time

type refreshMsg struct {
	snap *pool.Snapshot
	err  error
}

// WatchModel is the bubbletea model for the live pool watch table.
type WatchModel struct {
	table    table.Model
	fetch    SnapshotFunc
	interval time.Duration

	rows      int
	updatedAt time.Time
	lastErr   error
	quitting  bool
}

// NewWatch creates a watch table that refreshes via fetch every interval.
func NewWatch(fetch SnapshotFunc, interval time.Duration) WatchModel {
	columns := []table.Column{
		{Title: "NAME", Width: 11},
		{Title: "DOMAIN", Width: 16},
		{Title: "BRANCH", Width: 10},
		{Title: "TYPE", Width: 9},
		{Title: "STATUS", Width: 12},
		{Title: "ISSUE", Width: 8},
		{Title: "ASSIGNED AT", Width: 20},
	}

	styles := table.DefaultStyles()
	styles.Header = headerStyle
	styles.Selected = selectedRowStyle

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(16),
		table.WithStyles(styles),
	)

	return WatchModel{
		table:    t,
		fetch:    fetch,
		interval: interval,
	}
}

// Init kicks off the first fetch and the refresh ticker.
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.tickCmd())
}

func (m WatchModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.fetch(context.Background())
		return refreshMsg{snap: snap, err: err}
	}
}

func (m WatchModel) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			return m, m.refreshCmd()
		}

	case tickMsg:
		return m, tea.Batch(m.refreshCmd(), m.tickCmd())

	case refreshMsg:
		if msg.err != nil {
			// Keep showing the previous snapshot; surface the error
			// in the footer instead.
			m.lastErr = msg.err
			return m, nil
		}
		m.lastErr = nil
		m.updatedAt = time.Now()
		m.setRows(msg.snap)
		return m, nil

	case tea.WindowSizeMsg:
		if msg.Height > 8 {
			m.table.SetHeight(msg.Height - 6)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *WatchModel) setRows(snap *pool.Snapshot) {
	rows := make([]table.Row, 0, len(snap.CI)+len(snap.Developer))
	for _, r := range snap.CI {
		rows = append(rows, watchRow(r))
	}
	for _, r := range snap.Developer {
		rows = append(rows, watchRow(r))
	}
	m.rows = len(rows)
	m.table.SetRows(rows)
}

func watchRow(r pool.Row) table.Row {
	return table.Row{r.Name, r.Domain, r.Branch, r.Type, r.Status, r.Issue, r.AssignedAt}
}

// View renders the table with a title and footer.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	footer := fmt.Sprintf("%d record(s)", m.rows)
	if !m.updatedAt.IsZero() {
		footer += " | updated " + m.updatedAt.Format("15:04:05")
	}
	if m.lastErr != nil {
		footer += " | " + errStyle.Render(m.lastErr.Error())
	}
	footer += "  [j/k] Navigate  [r] Refresh  [q] Quit"

	return titleStyle.Render("Sandbox Pools") + "\n" +
		m.table.View() + "\n" +
		helpStyle.Render(footer)
}

// Rows reports how many records the table currently shows.
func (m WatchModel) Rows() int {
	return m.rows
}

// Err reports the most recent fetch error, if the last refresh failed.
func (m WatchModel) Err() error {
	return m.lastErr
}

// RunWatch runs the interactive watch table until the user quits.
func RunWatch(fetch SnapshotFunc, interval time.Duration) error {
	p := tea.NewProgram(NewWatch(fetch, interval), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
