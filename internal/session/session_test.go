package session

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Spec
		wantErr bool
	}{
		{
			name: "with workspace",
			in:   "web=1234@shop",
			want: Spec{Process: Process{Pane: "web", Pid: 1234}, Workspace: "shop"},
		},
		{
			name: "workspace defaults to pane",
			in:   "api=99",
			want: Spec{Process: Process{Pane: "api", Pid: 99}, Workspace: "api"},
		},
		{
			name: "empty workspace defaults to pane",
			in:   "api=99@",
			want: Spec{Process: Process{Pane: "api", Pid: 99}, Workspace: "api"},
		},
		{name: "missing equals", in: "web1234", wantErr: true},
		{name: "empty pane", in: "=1234", wantErr: true},
		{name: "non-numeric pid", in: "web=abc", wantErr: true},
		{name: "zero pid", in: "web=0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAll(t *testing.T) {
	specs, err := ParseAll([]string{"a=1@x", "b=2"})
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "x", specs[0].Workspace)
	assert.Equal(t, "b", specs[1].PaneID())

	_, err = ParseAll([]string{"a=1", "bad"})
	assert.Error(t, err)
}

func TestProcess_Alive(t *testing.T) {
	self := &Process{Pane: "self", Pid: os.Getpid()}
	assert.True(t, self.Alive())
	assert.Equal(t, os.Getpid(), self.PID())

	// PIDs are capped well below this on every supported platform.
	gone := &Process{Pane: "gone", Pid: 1 << 30}
	assert.False(t, gone.Alive())
}
