package scanner

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLsof(t *testing.T) {
	output := []byte(`COMMAND     PID  USER   FD   TYPE DEVICE SIZE/OFF NODE NAME
node      41235  dev   23u  IPv4 0x1234      0t0  TCP 127.0.0.1:3000 (LISTEN)
node      41235  dev   24u  IPv6 0x1235      0t0  TCP [::1]:3000 (LISTEN)
Code\x20Helper 512 dev 30u IPv4 0x9999 0t0 TCP *:9229 (LISTEN)
postgres    88  pg    5u  IPv6 0xabcd      0t0  TCP [::1]:5432 (LISTEN)
broken      xx  dev    5u  IPv4 0xabcd      0t0  TCP *:1 (LISTEN)
short line
`)

	ports := parseLsof(output)
	require.Len(t, ports, 3)

	assert.Equal(t, Port{Port: 3000, PID: 41235, Process: "node", User: "dev", Address: "127.0.0.1"}, ports[0])
	assert.Equal(t, "Code Helper", ports[1].Process)
	assert.Equal(t, "*", ports[1].Address)
	assert.Equal(t, 9229, ports[1].Port)
	assert.Equal(t, "[::1]", ports[2].Address)
	assert.Equal(t, 5432, ports[2].Port)
}

func TestParseSS(t *testing.T) {
	output := []byte(`State  Recv-Q Send-Q Local Address:Port Peer Address:Port Process
LISTEN 0      128    0.0.0.0:22         0.0.0.0:*     users:(("sshd",pid=1234,fd=3))
LISTEN 0      511    [::]:5173          [::]:*        users:(("node",pid=777,fd=21))
LISTEN 0      511    0.0.0.0:5173       0.0.0.0:*     users:(("node",pid=777,fd=20))
LISTEN 0      4096   127.0.0.53%lo:53   0.0.0.0:*
`)

	ports := parseSS(output)
	require.Len(t, ports, 3)

	assert.Equal(t, Port{Port: 22, PID: 1234, Process: "sshd", Address: "0.0.0.0"}, ports[0])
	assert.Equal(t, Port{Port: 5173, PID: 777, Process: "node", Address: "[::]"}, ports[1])
	assert.Equal(t, 53, ports[2].Port)
	assert.Zero(t, ports[2].PID, "owner is hidden without privileges")
}

func TestParseNetstat(t *testing.T) {
	output := []byte(`
Active Connections

  Proto  Local Address          Foreign Address        State           PID
  TCP    0.0.0.0:135            0.0.0.0:0              LISTENING       1032
  TCP    0.0.0.0:3000           0.0.0.0:0              LISTENING       4242
  TCP    [::]:3000              [::]:0                 LISTENING       4242
  TCP    10.0.0.5:50123         140.82.112.3:443       ESTABLISHED     9001
`)

	ports := parseNetstat(output)
	require.Len(t, ports, 2)
	assert.Equal(t, Port{Port: 135, PID: 1032, Address: "0.0.0.0"}, ports[0])
	assert.Equal(t, Port{Port: 3000, PID: 4242, Address: "0.0.0.0"}, ports[1])
}

func TestParseTasklist(t *testing.T) {
	names := parseTasklist([]byte(`"node.exe","4242","Console","1","52,000 K"
"System","4","Services","0","144 K"
garbage`))

	assert.Equal(t, map[int]string{4242: "node.exe", 4: "System"}, names)
}

func TestSplitHostPort(t *testing.T) {
	tests := []struct {
		in   string
		host string
		port int
		ok   bool
	}{
		{"127.0.0.1:8080", "127.0.0.1", 8080, true},
		{"[::1]:3000", "[::1]", 3000, true},
		{"*:*", "", 0, false},
		{"nocolon", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			host, port, ok := splitHostPort(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.port, port)
		})
	}
}

func TestProcessTree_Self(t *testing.T) {
	pids, err := processTree(context.Background(), os.Getpid())
	require.NoError(t, err)
	require.NotEmpty(t, pids)
	assert.Equal(t, os.Getpid(), pids[0])
}
