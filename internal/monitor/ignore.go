package monitor

// defaultIgnoredPorts are well-known system services that are never reported:
// SSH, HTTP, HTTPS, MySQL, PostgreSQL, Redis and MongoDB.
var defaultIgnoredPorts = []int{22, 80, 443, 3306, 5432, 6379, 27017}

func newIgnoreSet(extra []int) map[int]bool {
	set := make(map[int]bool, len(defaultIgnoredPorts)+len(extra))
	for _, p := range defaultIgnoredPorts {
		set[p] = true
	}
	for _, p := range extra {
		set[p] = true
	}
	return set
}
