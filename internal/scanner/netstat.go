package scanner

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
)

// parseNetstat parses Windows `netstat -ano -p TCP` output.
//
//	Proto Local Address Foreign Address State PID
//	TCP 0.0.0.0:3000 0.0.0.0:0 LISTENING 1234
func parseNetstat(output []byte) []Port {
	var ports []Port
	seen := make(map[string]bool)

	sc := bufio.NewScanner(bytes.NewReader(output))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.Contains(line, "LISTENING") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}

		address, port, ok := splitHostPort(fields[1])
		if !ok {
			continue
		}
		pid, err := strconv.Atoi(fields[4])
		if err != nil {
			continue
		}

		if !markSeen(seen, port, pid) {
			continue
		}

		ports = append(ports, Port{
			Port:    port,
			PID:     pid,
			Address: address,
		})
	}

	return ports
}

// parseTasklist maps pid to image name from `tasklist /FO CSV /NH`.
//
//	"process.exe","1234","Console","1","10,000 K"
func parseTasklist(output []byte) map[int]string {
	names := make(map[int]string)
	sc := bufio.NewScanner(bytes.NewReader(output))
	for sc.Scan() {
		fields := strings.Split(sc.Text(), ",")
		if len(fields) < 2 {
			continue
		}
		pid, err := strconv.Atoi(strings.Trim(fields[1], "\""))
		if err != nil {
			continue
		}
		names[pid] = strings.Trim(fields[0], "\"")
	}
	return names
}
