package monitor

import "sort"

// GetAllPorts returns every known port, most recently detected first.
func (m *Monitor) GetAllPorts() []DetectedPort {
	return m.snapshot(func(DetectedPort) bool { return true })
}

// GetPortsByWorkspace returns the ports attributed to workspaceID, most
// recently detected first.
func (m *Monitor) GetPortsByWorkspace(workspaceID string) []DetectedPort {
	return m.snapshot(func(p DetectedPort) bool { return p.WorkspaceID == workspaceID })
}

// GetCachedPortCount returns the table size as of the last mutation. It
// never triggers a scan.
func (m *Monitor) GetCachedPortCount() int {
	return int(m.count.Load())
}

func (m *Monitor) snapshot(match func(DetectedPort) bool) []DetectedPort {
	m.mu.Lock()
	ports := make([]DetectedPort, 0, len(m.table))
	for _, p := range m.table {
		if match(p) {
			ports = append(ports, p)
		}
	}
	m.mu.Unlock()

	sort.Slice(ports, func(i, j int) bool {
		if !ports[i].DetectedAt.Equal(ports[j].DetectedAt) {
			return ports[i].DetectedAt.After(ports[j].DetectedAt)
		}
		if ports[i].Port != ports[j].Port {
			return ports[i].Port < ports[j].Port
		}
		return ports[i].PaneID < ports[j].PaneID
	})
	return ports
}
