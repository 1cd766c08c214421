package monitor

// Listener receives table changes. Listeners run synchronously on the
// goroutine that changed the table and must not call RegisterSession,
// UnregisterSession or ForceScan from within the callback.
type Listener func(Event)

type listenerEntry struct {
	id int
	fn Listener
}

// Listen registers fn for every subsequent event. The returned function
// removes it.
func (m *Monitor) Listen(fn Listener) (cancel func()) {
	m.listenersMu.Lock()
	id := m.nextListener
	m.nextListener++
	m.listeners = append(m.listeners, listenerEntry{id: id, fn: fn})
	m.listenersMu.Unlock()

	return func() {
		m.listenersMu.Lock()
		defer m.listenersMu.Unlock()
		for i, l := range m.listeners {
			if l.id == id {
				m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

// emit delivers events in order to a snapshot of the listeners.
// Caller holds m.emitMu.
func (m *Monitor) emit(events []Event) {
	if len(events) == 0 {
		return
	}

	m.listenersMu.RLock()
	listeners := append([]listenerEntry(nil), m.listeners...)
	m.listenersMu.RUnlock()

	for _, e := range events {
		for _, l := range listeners {
			l.fn(e)
		}
	}
}
