package scanner

import (
	"bufio"
	"bytes"
	"regexp"
	"strconv"
	"strings"
)

var (
	ssPID     = regexp.MustCompile(`pid=(\d+)`)
	ssProcess = regexp.MustCompile(`"([^"]+)"`)
)

// parseSS parses `ss -tlnp` output.
//
//	State Recv-Q Send-Q Local Address:Port Peer Address:Port Process
//	LISTEN 0 128 0.0.0.0:22 0.0.0.0:* users:(("sshd",pid=1234,fd=3))
func parseSS(output []byte) []Port {
	var ports []Port
	seen := make(map[string]bool)

	sc := bufio.NewScanner(bytes.NewReader(output))
	// Skip header
	sc.Scan()

	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 5 {
			continue
		}

		address, port, ok := splitHostPort(fields[3])
		if !ok {
			continue
		}

		// ss only reports the owner when it is allowed to see it.
		var pid int
		var process string
		if len(fields) >= 6 {
			procInfo := fields[5]
			if m := ssPID.FindStringSubmatch(procInfo); m != nil {
				pid, _ = strconv.Atoi(m[1])
			}
			if m := ssProcess.FindStringSubmatch(procInfo); m != nil {
				process = m[1]
			}
		}

		if !markSeen(seen, port, pid) {
			continue
		}

		ports = append(ports, Port{
			Port:    port,
			PID:     pid,
			Process: process,
			Address: address,
		})
	}

	return ports
}
