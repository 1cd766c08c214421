package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/productdevbook/portwatch/internal/scanner"
)

var errExited = errors.New("process exited")

// fakeScanner serves canned scan results. Trees maps a session's root pid
// to the pids it owns; a root without an entry fails the lookup.
type fakeScanner struct {
	mu       sync.Mutex
	ports    []scanner.Port
	err      error
	trees    map[int][]int
	scans    int
	treeHook func(pid int)
	scanHook func()
}

func newFakeScanner() *fakeScanner {
	return &fakeScanner{trees: make(map[int][]int)}
}

func (f *fakeScanner) set(ports ...scanner.Port) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ports = ports
	f.err = nil
}

func (f *fakeScanner) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeScanner) tree(root int, pids ...int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trees[root] = append([]int{root}, pids...)
}

func (f *fakeScanner) scanCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scans
}

func (f *fakeScanner) ListeningPorts(context.Context) ([]scanner.Port, error) {
	f.mu.Lock()
	f.scans++
	hook := f.scanHook
	f.mu.Unlock()

	if hook != nil {
		hook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]scanner.Port(nil), f.ports...), nil
}

func (f *fakeScanner) ProcessTree(_ context.Context, pid int) ([]int, error) {
	f.mu.Lock()
	hook := f.treeHook
	f.mu.Unlock()

	if hook != nil {
		hook(pid)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	pids, ok := f.trees[pid]
	if !ok {
		return nil, errExited
	}
	return pids, nil
}

type fakeSession struct {
	pane  string
	pid   int
	alive bool
}

func (s *fakeSession) PaneID() string { return s.pane }
func (s *fakeSession) PID() int       { return s.pid }
func (s *fakeSession) Alive() bool    { return s.alive }

func liveSession(pane string, pid int) *fakeSession {
	return &fakeSession{pane: pane, pid: pid, alive: true}
}

// fakeTicker records the intervals the scheduler asks for and lets tests
// fire ticks by hand.
type fakeTicker struct {
	interval time.Duration
	ch       chan time.Time

	mu      sync.Mutex
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *fakeTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

type tickerFactory struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (f *tickerFactory) new(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{interval: d, ch: make(chan time.Time)}
	f.tickers = append(f.tickers, t)
	return t
}

func (f *tickerFactory) all() []*fakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*fakeTicker(nil), f.tickers...)
}

func (f *tickerFactory) intervals() []time.Duration {
	var out []time.Duration
	for _, t := range f.all() {
		out = append(out, t.interval)
	}
	return out
}

func (f *tickerFactory) last() *fakeTicker {
	all := f.all()
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}

// steppingClock advances one second on every call so consecutive
// detections get distinct timestamps.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// take returns the events recorded so far and resets the recorder.
func (r *recorder) take() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := r.events
	r.events = nil
	return events
}

func newTestMonitor(s scanner.Scanner, opts ...Option) (*Monitor, *recorder) {
	opts = append([]Option{WithNow(steppingClock()), WithTicker((&tickerFactory{}).new)}, opts...)
	m := New(s, opts...)
	rec := &recorder{}
	m.Listen(rec.record)
	return m, rec
}

func port(number, pid int, process string) scanner.Port {
	return scanner.Port{Port: number, PID: pid, Process: process, Address: "127.0.0.1"}
}
