package model

import "fmt"

type Protocol string

const (
	ProtocolTCP  Protocol = "TCP"
	ProtocolTCP6 Protocol = "TCP6"
)

// Protocols lists the families a full scan covers, in scan order.
var Protocols = []Protocol{ProtocolTCP, ProtocolTCP6}

// State is the kernel TCP state code (include/net/tcp_states.h).
// Codes outside the named set are kept verbatim and render as Other(code).
type State uint8

const (
	StateEstablished State = 0x01
	StateTimeWait    State = 0x06
	StateCloseWait   State = 0x08
	StateListen      State = 0x0A
)

// Known reports whether s is one of the named states.
func (s State) Known() bool {
	switch s {
	case StateEstablished, StateListen, StateTimeWait, StateCloseWait:
		return true
	}
	return false
}

func (s State) String() string {
	switch s {
	case StateEstablished:
		return "ESTABLISHED"
	case StateListen:
		return "LISTEN"
	case StateTimeWait:
		return "TIME_WAIT"
	case StateCloseWait:
		return "CLOSE_WAIT"
	default:
		return fmt.Sprintf("Other(%d)", uint8(s))
	}
}

// MarshalText keeps JSON output readable.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SocketRecord is one TCP socket from a single scan. It is built by the
// table decoder and enriched in place by the resolver; it is never carried
// over to the next scan.
type SocketRecord struct {
	Port          uint16   `json:"port"`
	Protocol      Protocol `json:"protocol"`
	State         State    `json:"state"`
	LocalAddress  string   `json:"localAddress"`
	RemoteAddress string   `json:"remoteAddress,omitempty"`
	Inode         uint32   `json:"inode,omitempty"` // 0: no open descriptor
	PID           uint32   `json:"pid,omitempty"`   // 0: owner unknown
	ProcessName   string   `json:"processName,omitempty"`
	CommandLine   string   `json:"commandLine,omitempty"`
	User          string   `json:"user,omitempty"`
}

func (r SocketRecord) HasInode() bool { return r.Inode != 0 }
func (r SocketRecord) HasPID() bool   { return r.PID != 0 }

// DisplayName is the process name, or a "PID <n>" placeholder when the
// name could not be read. Only for presentation.
func (r SocketRecord) DisplayName() string {
	if r.ProcessName != "" {
		return r.ProcessName
	}
	if r.HasPID() {
		return fmt.Sprintf("PID %d", r.PID)
	}
	return ""
}
