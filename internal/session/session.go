// Package session provides terminal session handles backed by OS processes.
package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// Process is a pane whose shell runs as Pid.
type Process struct {
	Pane string
	Pid  int
}

func (p *Process) PaneID() string { return p.Pane }
func (p *Process) PID() int       { return p.Pid }

// Alive reports whether the shell process still exists.
func (p *Process) Alive() bool {
	ok, err := process.PidExists(int32(p.Pid))
	return err == nil && ok
}

// Spec is a session given on the command line.
type Spec struct {
	Process
	Workspace string
}

// Parse reads "pane=pid[@workspace]". The workspace defaults to the pane id.
func Parse(s string) (Spec, error) {
	pane, rest, ok := strings.Cut(s, "=")
	if !ok || pane == "" {
		return Spec{}, fmt.Errorf("invalid session %q: want pane=pid[@workspace]", s)
	}

	pidStr, workspace, hasWorkspace := strings.Cut(rest, "@")
	pid, err := strconv.Atoi(pidStr)
	if err != nil || pid <= 0 {
		return Spec{}, fmt.Errorf("invalid session %q: bad pid %q", s, pidStr)
	}
	if !hasWorkspace || workspace == "" {
		workspace = pane
	}

	return Spec{
		Process:   Process{Pane: pane, Pid: pid},
		Workspace: workspace,
	}, nil
}

// ParseAll parses every spec, failing on the first invalid one.
func ParseAll(specs []string) ([]Spec, error) {
	out := make([]Spec, 0, len(specs))
	for _, s := range specs {
		spec, err := Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, spec)
	}
	return out, nil
}
