package scanner

import (
	"bufio"
	"bytes"
	"regexp"
	"strconv"
	"strings"
)

// lsofAddr matches the NAME column, e.g. "127.0.0.1:3000", "*:8080" or
// "[::1]:3000". lsof may append " (LISTEN)" as a separate field.
var lsofAddr = regexp.MustCompile(`^(\*|\[?[^\]]+\]?):(\d+)`)

// lsofArgs lists listening TCP sockets without resolving hosts or ports.
var lsofArgs = []string{"-iTCP", "-sTCP:LISTEN", "-P", "-n"}

// parseLsof parses `lsof -iTCP -sTCP:LISTEN -P -n` output.
//
//	COMMAND PID USER FD TYPE DEVICE SIZE/OFF NODE NAME [(LISTEN)]
func parseLsof(output []byte) []Port {
	var ports []Port
	seen := make(map[string]bool)

	sc := bufio.NewScanner(bytes.NewReader(output))
	// Skip header
	sc.Scan()

	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 9 {
			continue
		}

		pid, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}

		matches := lsofAddr.FindStringSubmatch(fields[8])
		if matches == nil {
			continue
		}
		port, err := strconv.Atoi(matches[2])
		if err != nil {
			continue
		}

		if !markSeen(seen, port, pid) {
			continue
		}

		ports = append(ports, Port{
			Port:    port,
			PID:     pid,
			Process: unescapeProcessName(fields[0]),
			User:    fields[2],
			Address: matches[1],
		})
	}

	return ports
}

// unescapeProcessName undoes lsof's hex escapes ("Code\x20Helper").
func unescapeProcessName(name string) string {
	name = strings.ReplaceAll(name, "\\x20", " ")
	name = strings.ReplaceAll(name, "\\x2d", "-")
	return name
}

// markSeen reports whether (port, pid) is new and records it.
func markSeen(seen map[string]bool, port, pid int) bool {
	key := strconv.Itoa(port) + ":" + strconv.Itoa(pid)
	if seen[key] {
		return false
	}
	seen[key] = true
	return true
}

// splitHostPort splits on the last colon so IPv6 literals keep their
// inner colons.
func splitHostPort(addr string) (string, int, bool) {
	lastColon := strings.LastIndex(addr, ":")
	if lastColon == -1 {
		return "", 0, false
	}
	port, err := strconv.Atoi(addr[lastColon+1:])
	if err != nil {
		return "", 0, false
	}
	return addr[:lastColon], port, true
}
