package scanner

import "context"

// Port represents a listening port and its associated process
type Port struct {
	Port    int    `json:"port"`
	PID     int    `json:"pid"`
	Process string `json:"process"`
	User    string `json:"user"`
	Address string `json:"address"`
}

// Scanner enumerates listening sockets and process trees on the local host.
type Scanner interface {
	// ListeningPorts returns every TCP port in LISTEN state system-wide.
	ListeningPorts(ctx context.Context) ([]Port, error)
	// ProcessTree returns pid followed by all of its descendants. It fails
	// when pid no longer exists.
	ProcessTree(ctx context.Context, pid int) ([]int, error)
}

// New returns a platform-specific scanner
func New() Scanner {
	return newPlatformScanner()
}
