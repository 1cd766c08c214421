// Package monitor tracks listening ports, attributes them to registered
// terminal sessions and publishes add/remove events to observers.
//
// Scanning is demand driven. A Monitor does not touch the operating system
// until someone subscribes, scans every FastInterval while any subscriber is
// active and every SlowInterval while all of them are in the background.
//
// One scan cycle lists every listening port, walks the process tree of each
// live session to map PIDs to panes, groups the ports by pane and diffs each
// group against the port table. Ports no session owns land in SystemPaneID.
package monitor

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/productdevbook/portwatch/internal/scanner"
)

const (
	// DefaultFastInterval is used while at least one subscriber is active.
	DefaultFastInterval = 2500 * time.Millisecond
	// DefaultSlowInterval is used while every subscriber is in the background.
	DefaultSlowInterval = 10 * time.Second
)

// Monitor owns the session registry, the subscriber registry, the scan
// scheduler and the port table. Construct one per process with New.
type Monitor struct {
	scanner   scanner.Scanner
	logger    *slog.Logger
	now       func() time.Time
	newTicker TickerFunc
	fast      time.Duration
	slow      time.Duration
	ignored   map[int]bool
	extra     []int

	mu          sync.Mutex
	sessions    map[string]*registeredSession
	nextSeq     uint64
	subscribers map[string]Mode
	table       map[portKey]DetectedPort
	interval    time.Duration
	stopTicker  func()

	// workers counts the kickoff scan and tick loop goroutines.
	workers sync.WaitGroup

	// scanning rejects overlapping cycles.
	scanning atomic.Bool
	count    atomic.Int64

	// emitMu keeps each mutation and its events together so observers
	// never see two event sequences interleaved.
	emitMu       sync.Mutex
	listenersMu  sync.RWMutex
	listeners    []listenerEntry
	nextListener int
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithIntervals overrides the fast and slow scan intervals. Non-positive
// values keep the defaults.
func WithIntervals(fast, slow time.Duration) Option {
	return func(m *Monitor) {
		if fast > 0 {
			m.fast = fast
		}
		if slow > 0 {
			m.slow = slow
		}
	}
}

// WithIgnoredPorts adds ports to the built-in ignore list.
func WithIgnoredPorts(ports ...int) Option {
	return func(m *Monitor) {
		m.extra = append(m.extra, ports...)
	}
}

// WithTicker replaces the scheduler's ticker source.
func WithTicker(fn TickerFunc) Option {
	return func(m *Monitor) {
		if fn != nil {
			m.newTicker = fn
		}
	}
}

// WithNow replaces the clock used to stamp DetectedAt.
func WithNow(now func() time.Time) Option {
	return func(m *Monitor) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates a Monitor that scans through s. No scanning happens until
// the first Subscribe or ForceScan.
func New(s scanner.Scanner, opts ...Option) *Monitor {
	m := &Monitor{
		scanner:     s,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:         time.Now,
		newTicker:   realTicker,
		fast:        DefaultFastInterval,
		slow:        DefaultSlowInterval,
		sessions:    make(map[string]*registeredSession),
		subscribers: make(map[string]Mode),
		table:       make(map[portKey]DetectedPort),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.ignored = newIgnoreSet(m.extra)
	return m
}

// ForceScan runs one reconciliation cycle and returns when it is done. If a
// cycle is already in flight it returns immediately without scanning.
func (m *Monitor) ForceScan(ctx context.Context) {
	m.runCycle(ctx)
}
