package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/productdevbook/portwatch/internal/monitor"
)

// Run subscribes to mon in the given mode and shows the watch view until the
// user quits.
func Run(mon *monitor.Monitor, mode monitor.Mode) error {
	// Dropping events when the view lags is fine: each one only triggers
	// a re-read of the table.
	events := make(chan monitor.Event, 64)
	cancel := mon.Listen(func(e monitor.Event) {
		select {
		case events <- e:
		default:
		}
	})
	defer cancel()

	id := mon.Subscribe(mode)
	defer mon.Unsubscribe(id)

	p := tea.NewProgram(New(mon, id, mode, events), tea.WithAltScreen(), tea.WithReportFocus())
	_, err := p.Run()
	return err
}
