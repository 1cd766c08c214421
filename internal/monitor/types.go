package monitor

import (
	"fmt"
	"time"
)

// SystemPaneID groups ports that no registered session owns.
const SystemPaneID = "__system__"

// DetectedPort is a listening port attributed to a pane.
type DetectedPort struct {
	Port        int       `json:"port"`
	PID         int       `json:"pid"`
	ProcessName string    `json:"processName"`
	PaneID      string    `json:"paneId"`
	WorkspaceID string    `json:"workspaceId"`
	DetectedAt  time.Time `json:"detectedAt"`
	Address     string    `json:"address"`
}

// portKey is the identity of a table entry.
type portKey struct {
	pane string
	port int
}

// Mode declares how eagerly a subscriber wants updates.
type Mode string

const (
	ModeActive     Mode = "active"
	ModeBackground Mode = "background"
)

// ParseMode validates a mode string from user input.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeActive, ModeBackground:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid mode %q (want %q or %q)", s, ModeActive, ModeBackground)
	}
}

// Session is a terminal session whose process tree owns ports.
type Session interface {
	PaneID() string
	Alive() bool
	PID() int
}

// EventType names a table change.
type EventType string

const (
	PortAdded   EventType = "port:add"
	PortRemoved EventType = "port:remove"
)

// Event reports a single table change.
type Event struct {
	Type EventType    `json:"type"`
	Port DetectedPort `json:"port"`
}
