package scanner

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

// processTree walks pid's descendants breadth-first. Children that vanish
// mid-walk are skipped; only a missing root is an error.
func processTree(ctx context.Context, pid int) ([]int, error) {
	root, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return nil, fmt.Errorf("process %d: %w", pid, err)
	}

	pids := []int{pid}
	visited := map[int32]bool{root.Pid: true}
	queue := []*process.Process{root}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		children, err := p.ChildrenWithContext(ctx)
		if err != nil {
			// ErrorNoChildren, or the process exited since we queued it.
			continue
		}
		for _, child := range children {
			if visited[child.Pid] {
				continue
			}
			visited[child.Pid] = true
			pids = append(pids, int(child.Pid))
			queue = append(queue, child)
		}
	}

	return pids, nil
}

// scanWithPsutil lists LISTEN sockets through gopsutil. Used when none of the
// platform command line tools are available.
func scanWithPsutil(ctx context.Context) ([]Port, error) {
	conns, err := net.ConnectionsWithContext(ctx, "tcp")
	if err != nil {
		return nil, fmt.Errorf("listing connections: %w", err)
	}

	var ports []Port
	seen := make(map[string]bool)
	names := make(map[int32]string)

	for _, c := range conns {
		if c.Status != "LISTEN" {
			continue
		}
		port := int(c.Laddr.Port)
		if !markSeen(seen, port, int(c.Pid)) {
			continue
		}

		name, ok := names[c.Pid]
		if !ok && c.Pid > 0 {
			if p, err := process.NewProcessWithContext(ctx, c.Pid); err == nil {
				name, _ = p.NameWithContext(ctx)
			}
			names[c.Pid] = name
		}

		ports = append(ports, Port{
			Port:    port,
			PID:     int(c.Pid),
			Process: name,
			User:    userOf(c.Uids),
			Address: c.Laddr.IP,
		})
	}

	return ports, nil
}

// userOf reports the owning uid; gopsutil does not resolve user names here.
func userOf(uids []int32) string {
	if len(uids) == 0 {
		return ""
	}
	return strconv.Itoa(int(uids[0]))
}
