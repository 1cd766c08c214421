package monitor

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Ticker delivers scheduler ticks.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type timeTicker struct {
	t *time.Ticker
}

func realTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// Subscribe registers an observer's demand for scans and returns its id.
// The first subscriber triggers an immediate scan so callers do not wait a
// full interval for data.
func (m *Monitor) Subscribe(mode Mode) string {
	id := uuid.NewString()

	m.mu.Lock()
	first := len(m.subscribers) == 0
	m.subscribers[id] = mode
	m.reschedule()
	m.mu.Unlock()

	m.logger.Debug("subscriber added", "id", id, "mode", mode)

	if first {
		m.workers.Add(1)
		go func() {
			defer m.workers.Done()
			m.runCycle(context.Background())
		}()
	}
	return id
}

// Unsubscribe drops a subscriber. Unknown ids are ignored.
func (m *Monitor) Unsubscribe(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.subscribers[id]; !ok {
		return
	}
	delete(m.subscribers, id)
	m.reschedule()
}

// UpdateSubscriberMode changes a subscriber's mode. Unknown ids are ignored.
func (m *Monitor) UpdateSubscriberMode(id string, mode Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.subscribers[id]; !ok {
		return
	}
	m.subscribers[id] = mode
	m.reschedule()
}

// HasSubscribers reports whether anyone is waiting for updates.
func (m *Monitor) HasSubscribers() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscribers) > 0
}

// Interval returns the current scan period, or 0 when the scheduler is idle.
func (m *Monitor) Interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interval
}

// StopAllScanning drops every subscriber and stops the scheduler. A scan
// already in flight may still finish; use Wait to block until it has.
func (m *Monitor) StopAllScanning() {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.subscribers)
	m.reschedule()
}

// Wait blocks until every scheduler goroutine started so far has returned.
// Call it after StopAllScanning, or after Unsubscribe leaves no subscribers.
func (m *Monitor) Wait() {
	m.workers.Wait()
}

// desiredInterval derives the scan period from the subscriber set.
// Caller holds m.mu.
func (m *Monitor) desiredInterval() time.Duration {
	if len(m.subscribers) == 0 {
		return 0
	}
	for _, mode := range m.subscribers {
		if mode == ModeActive {
			return m.fast
		}
	}
	return m.slow
}

// reschedule restarts the ticker when the desired period changed.
// Caller holds m.mu.
func (m *Monitor) reschedule() {
	want := m.desiredInterval()
	if want == m.interval {
		return
	}

	if m.stopTicker != nil {
		m.stopTicker()
		m.stopTicker = nil
	}
	m.interval = want
	if want == 0 {
		m.logger.Debug("scheduler stopped")
		return
	}

	t := m.newTicker(want)
	done := make(chan struct{})
	m.workers.Add(1)
	go m.tickLoop(t, done)
	m.stopTicker = func() {
		close(done)
		t.Stop()
	}
	m.logger.Debug("scheduler started", "interval", want)
}

func (m *Monitor) tickLoop(t Ticker, done <-chan struct{}) {
	defer m.workers.Done()
	for {
		select {
		case <-done:
			return
		case <-t.C():
			// Both cases may be ready at once; a stopped loop never scans.
			select {
			case <-done:
				return
			default:
			}
			m.runCycle(context.Background())
		}
	}
}
