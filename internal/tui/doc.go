// Package tui provides terminal user interface components for sandpool-ctl.
//
// This package uses the Bubble Tea framework to create interactive terminal
// interfaces, primarily the live pool watch table.
//
// # Watch Table
//
// The watch table re-renders a status snapshot on a fixed interval:
//
//	fetch := func(ctx context.Context) (*pool.Snapshot, error) {
//	    return reporter.Snapshot(ctx)
//	}
//	model := tui.NewWatch(fetch, 10*time.Second)
//	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
//
// # Watch Features
//
//   - One row per sandbox record, CI pools first
//   - Keyboard navigation (j/k or arrows), r to refresh now, q to quit
//   - Color-coded status column
//   - Fetch errors shown in the footer without tearing down the table
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
