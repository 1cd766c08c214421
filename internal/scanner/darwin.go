//go:build darwin

package scanner

import (
	"context"
	"fmt"
	"os/exec"
)

type darwinScanner struct{}

func newPlatformScanner() Scanner {
	return &darwinScanner{}
}

func (s *darwinScanner) ListeningPorts(ctx context.Context) ([]Port, error) {
	// +c 0 disables command name truncation
	args := append(append([]string{}, lsofArgs...), "+c", "0")
	output, err := exec.CommandContext(ctx, "lsof", args...).Output()
	if err != nil {
		// lsof returns exit code 1 when no results, that's ok
		if isExitCode(err, 1) {
			return []Port{}, nil
		}
		return nil, fmt.Errorf("running lsof: %w", err)
	}

	return parseLsof(output), nil
}

func (s *darwinScanner) ProcessTree(ctx context.Context, pid int) ([]int, error) {
	return processTree(ctx, pid)
}
