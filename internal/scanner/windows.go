//go:build windows

package scanner

import (
	"context"
	"os/exec"
)

type windowsScanner struct{}

func newPlatformScanner() Scanner {
	return &windowsScanner{}
}

func (s *windowsScanner) ListeningPorts(ctx context.Context) ([]Port, error) {
	// netstat -ano: all connections, numeric, owner PID
	output, err := exec.CommandContext(ctx, "netstat", "-ano", "-p", "TCP").Output()
	if err != nil {
		return scanWithPsutil(ctx)
	}

	ports := parseNetstat(output)

	// Names are best effort; return without them if tasklist fails
	output, err = exec.CommandContext(ctx, "tasklist", "/FO", "CSV", "/NH").Output()
	if err != nil {
		return ports, nil
	}
	names := parseTasklist(output)
	for i := range ports {
		ports[i].Process = names[ports[i].PID]
	}

	return ports, nil
}

func (s *windowsScanner) ProcessTree(ctx context.Context, pid int) ([]int, error) {
	return processTree(ctx, pid)
}
