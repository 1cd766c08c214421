package monitor

import (
	"context"
	"sort"

	"github.com/productdevbook/portwatch/internal/scanner"
)

// paneGroup holds one pane's ports from a single scan, keyed by port.
type paneGroup struct {
	workspaceID string
	ports       map[int]scanner.Port
}

// runCycle performs one scan, attribute, diff and emit pass. Overlapping
// calls return immediately.
func (m *Monitor) runCycle(ctx context.Context) {
	if !m.scanning.CompareAndSwap(false, true) {
		m.logger.Debug("scan already in progress, skipping")
		return
	}
	defer m.scanning.Store(false)

	raw, err := m.scanner.ListeningPorts(ctx)
	if err != nil {
		m.logger.Error("port scan failed", "error", err)
		return
	}

	groups := m.group(raw, m.attribute(ctx))

	m.emitMu.Lock()
	defer m.emitMu.Unlock()

	m.mu.Lock()
	events := m.reconcile(groups)
	m.count.Store(int64(len(m.table)))
	m.mu.Unlock()

	if len(events) > 0 {
		m.logger.Debug("port table updated", "events", len(events), "ports", m.count.Load())
	}
	m.emit(events)
}

// group buckets scanned ports by owning pane, dropping ignored ports. The
// first row seen for a (pane, port) pair wins.
func (m *Monitor) group(raw []scanner.Port, owners map[int]owner) map[string]*paneGroup {
	groups := make(map[string]*paneGroup)
	for _, p := range raw {
		if m.ignored[p.Port] {
			continue
		}

		o, ok := owners[p.PID]
		if !ok {
			o = owner{paneID: SystemPaneID}
		}

		g, ok := groups[o.paneID]
		if !ok {
			g = &paneGroup{workspaceID: o.workspaceID, ports: make(map[int]scanner.Port)}
			groups[o.paneID] = g
		}
		if _, dup := g.ports[p.Port]; dup {
			continue
		}
		g.ports[p.Port] = p
	}
	return groups
}

// reconcile applies groups to the table and returns the resulting events in
// emission order. Caller holds m.mu.
func (m *Monitor) reconcile(groups map[string]*paneGroup) []Event {
	var events []Event
	seen := make(map[string]bool, len(groups))

	panes := make([]string, 0, len(groups))
	for pane := range groups {
		panes = append(panes, pane)
	}
	sort.Strings(panes)

	for _, pane := range panes {
		// The session may have been unregistered while this cycle was
		// scanning. Its ports are already pruned and must stay that way.
		if _, ok := m.sessions[pane]; !ok && pane != SystemPaneID {
			continue
		}
		seen[pane] = true
		g := groups[pane]

		ports := make([]int, 0, len(g.ports))
		for port := range g.ports {
			ports = append(ports, port)
		}
		sort.Ints(ports)

		for _, port := range ports {
			p := g.ports[port]
			key := portKey{pane: pane, port: port}

			old, exists := m.table[key]
			if exists && old.PID == p.PID && old.ProcessName == p.Process {
				continue
			}
			if exists {
				events = append(events, Event{Type: PortRemoved, Port: old})
			}

			entry := DetectedPort{
				Port:        port,
				PID:         p.PID,
				ProcessName: p.Process,
				PaneID:      pane,
				WorkspaceID: g.workspaceID,
				DetectedAt:  m.now(),
				Address:     p.Address,
			}
			m.table[key] = entry
			events = append(events, Event{Type: PortAdded, Port: entry})
		}

		for _, key := range m.keysWhere(func(k portKey) bool {
			_, current := g.ports[k.port]
			return k.pane == pane && !current
		}) {
			events = append(events, Event{Type: PortRemoved, Port: m.table[key]})
			delete(m.table, key)
		}
	}

	// Panes that had ports before but none in this scan.
	for _, key := range m.keysWhere(func(k portKey) bool { return !seen[k.pane] }) {
		events = append(events, Event{Type: PortRemoved, Port: m.table[key]})
		delete(m.table, key)
	}

	return events
}

// keysWhere returns matching table keys sorted by pane, then port.
// Caller holds m.mu.
func (m *Monitor) keysWhere(match func(portKey) bool) []portKey {
	var keys []portKey
	for key := range m.table {
		if match(key) {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].pane != keys[j].pane {
			return keys[i].pane < keys[j].pane
		}
		return keys[i].port < keys[j].port
	})
	return keys
}
