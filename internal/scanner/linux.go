//go:build linux

package scanner

import (
	"context"
	"os/exec"
)

type linuxScanner struct{}

func newPlatformScanner() Scanner {
	return &linuxScanner{}
}

func (s *linuxScanner) ListeningPorts(ctx context.Context) ([]Port, error) {
	output, err := exec.CommandContext(ctx, "lsof", lsofArgs...).Output()
	if err == nil {
		return parseLsof(output), nil
	}
	if isExitCode(err, 1) {
		// lsof exits 1 when nothing matches
		return []Port{}, nil
	}

	// lsof might not be installed, try ss
	output, err = exec.CommandContext(ctx, "ss", "-tlnp").Output()
	if err == nil {
		return parseSS(output), nil
	}

	return scanWithPsutil(ctx)
}

func (s *linuxScanner) ProcessTree(ctx context.Context, pid int) ([]int, error) {
	return processTree(ctx, pid)
}
