package monitor

import (
	"context"
	"sort"
	"sync"
)

type registeredSession struct {
	paneID      string
	session     Session
	workspaceID string
	// seq is the registration order, used to break ties when process
	// trees overlap.
	seq uint64
}

// owner is the pane a PID was attributed to.
type owner struct {
	paneID      string
	workspaceID string
}

// RegisterSession starts attributing ports in session's process tree to its
// pane. Registering a pane again replaces the session but keeps the pane's
// original registration order.
func (m *Monitor) RegisterSession(session Session, workspaceID string) {
	paneID := session.PaneID()

	m.mu.Lock()
	seq := m.nextSeq
	if prev, ok := m.sessions[paneID]; ok {
		seq = prev.seq
	} else {
		m.nextSeq++
	}
	m.sessions[paneID] = &registeredSession{
		paneID:      paneID,
		session:     session,
		workspaceID: workspaceID,
		seq:         seq,
	}
	m.mu.Unlock()

	m.logger.Debug("session registered", "pane", paneID, "workspace", workspaceID, "pid", session.PID())
}

// UnregisterSession forgets a pane and removes its ports from the table
// right away, emitting port:remove for each.
func (m *Monitor) UnregisterSession(paneID string) {
	m.emitMu.Lock()
	defer m.emitMu.Unlock()

	m.mu.Lock()
	delete(m.sessions, paneID)
	var events []Event
	for _, key := range m.keysWhere(func(k portKey) bool { return k.pane == paneID }) {
		events = append(events, Event{Type: PortRemoved, Port: m.table[key]})
		delete(m.table, key)
	}
	m.count.Store(int64(len(m.table)))
	m.mu.Unlock()

	m.logger.Debug("session unregistered", "pane", paneID, "pruned", len(events))
	m.emit(events)
}

// attribute maps every PID in a live session's process tree to its pane.
// Trees are walked concurrently; a failed walk contributes nothing. When
// trees overlap the earliest registered session keeps the PID.
func (m *Monitor) attribute(ctx context.Context) map[int]owner {
	m.mu.Lock()
	candidates := make([]registeredSession, 0, len(m.sessions))
	for _, rs := range m.sessions {
		candidates = append(candidates, *rs)
	}
	m.mu.Unlock()

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].seq < candidates[j].seq
	})

	trees := make([][]int, len(candidates))
	var wg sync.WaitGroup
	for i, rs := range candidates {
		if !rs.session.Alive() {
			continue
		}
		i, rs := i, rs
		wg.Add(1)
		go func() {
			defer wg.Done()
			pids, err := m.scanner.ProcessTree(ctx, rs.session.PID())
			if err != nil {
				m.logger.Debug("process tree lookup failed", "pane", rs.paneID, "error", err)
				return
			}
			trees[i] = pids
		}()
	}
	wg.Wait()

	owners := make(map[int]owner)
	for i, rs := range candidates {
		for _, pid := range trees[i] {
			if _, taken := owners[pid]; taken {
				continue
			}
			owners[pid] = owner{paneID: rs.paneID, workspaceID: rs.workspaceID}
		}
	}
	return owners
}
