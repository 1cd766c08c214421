// Package tui renders a live port table for a monitor.
package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/productdevbook/portwatch/internal/monitor"
)

// eventMsg carries a monitor event into the update loop.
type eventMsg monitor.Event

// scannedMsg is sent when a forced scan finishes.
type scannedMsg struct{}

// Model is the bubbletea model for the watch view.
type Model struct {
	mon    *monitor.Monitor
	subID  string
	mode   monitor.Mode
	events <-chan monitor.Event

	table     table.Model
	filter    textinput.Model
	filtering bool
	ports     []monitor.DetectedPort
	shown     []monitor.DetectedPort
}

var columns = []table.Column{
	{Title: "PORT", Width: 7},
	{Title: "PID", Width: 8},
	{Title: "PROCESS", Width: 18},
	{Title: "PANE", Width: 14},
	{Title: "WORKSPACE", Width: 16},
	{Title: "ADDRESS", Width: 16},
	{Title: "SINCE", Width: 9},
}

// New builds the view for subscriber subID. events should deliver every
// monitor event; the model re-reads the table whenever one arrives.
func New(mon *monitor.Monitor, subID string, mode monitor.Mode, events <-chan monitor.Event) Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	ti := textinput.New()
	ti.Placeholder = "filter by port, process, pane or workspace"
	ti.Prompt = "/ "

	m := Model{
		mon:    mon,
		subID:  subID,
		mode:   mode,
		events: events,
		table:  t,
		filter: ti,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func waitForEvent(events <-chan monitor.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return nil
		}
		return eventMsg(e)
	}
}

func (m Model) forceScan() tea.Cmd {
	return func() tea.Msg {
		m.mon.ForceScan(context.Background())
		return scannedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// title, status, filter, help and table border
		m.table.SetHeight(max(msg.Height-8, 3))
		return m, nil

	case tea.FocusMsg:
		m.setMode(monitor.ModeActive)
		return m, nil

	case tea.BlurMsg:
		m.setMode(monitor.ModeBackground)
		return m, nil

	case eventMsg:
		m.refresh()
		return m, waitForEvent(m.events)

	case scannedMsg:
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "/":
			m.filtering = true
			cmd := m.filter.Focus()
			return m, cmd
		case "esc":
			m.filter.SetValue("")
			m.applyFilter()
			return m, nil
		case "r":
			return m, m.forceScan()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.filter.SetValue("")
		fallthrough
	case "enter":
		m.filtering = false
		m.filter.Blur()
		m.applyFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *Model) setMode(mode monitor.Mode) {
	if m.mode == mode {
		return
	}
	m.mode = mode
	m.mon.UpdateSubscriberMode(m.subID, mode)
}

// refresh re-reads the port table from the monitor.
func (m *Model) refresh() {
	m.ports = m.mon.GetAllPorts()
	m.applyFilter()
}

func (m *Model) applyFilter() {
	m.shown = filterPorts(m.ports, m.filter.Value())

	rows := make([]table.Row, len(m.shown))
	for i, p := range m.shown {
		rows[i] = table.Row{
			strconv.Itoa(p.Port),
			strconv.Itoa(p.PID),
			p.ProcessName,
			paneLabel(p.PaneID),
			p.WorkspaceID,
			p.Address,
			p.DetectedAt.Format("15:04:05"),
		}
	}
	m.table.SetRows(rows)
}

// filterPorts fuzzy-matches query against each port's searchable text,
// best matches first.
func filterPorts(ports []monitor.DetectedPort, query string) []monitor.DetectedPort {
	if query == "" {
		return ports
	}

	targets := make([]string, len(ports))
	for i, p := range ports {
		targets[i] = fmt.Sprintf("%d %s %s %s", p.Port, p.ProcessName, paneLabel(p.PaneID), p.WorkspaceID)
	}

	matches := fuzzy.Find(query, targets)
	out := make([]monitor.DetectedPort, 0, len(matches))
	for _, match := range matches {
		out = append(out, ports[match.Index])
	}
	return out
}

func paneLabel(paneID string) string {
	if paneID == monitor.SystemPaneID {
		return "system"
	}
	return paneID
}

func (m Model) View() string {
	mode := statusStyle.Render(string(m.mode))
	if m.mode == monitor.ModeActive {
		mode = activeStyle.Render(string(m.mode))
	}
	status := statusStyle.Render(fmt.Sprintf("%d ports · showing %d · ", m.mon.GetCachedPortCount(), len(m.shown))) + mode

	var filter string
	if m.filtering || m.filter.Value() != "" {
		filter = m.filter.View()
	}

	help := helpStyle.Render("/ filter • esc clear • r rescan • ↑/↓ move • q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Center, titleStyle.Render("portwatch"), " ", status),
		filter,
		tableBorder.Render(m.table.View()),
		help,
	)
}
