package filter

import "github.com/portkill/portkill/pkg/model"

// kernelStates names the codes of include/net/tcp_states.h that the
// model does not.
var kernelStates = map[model.State]string{
	0x02: "SYN_SENT",
	0x03: "SYN_RECV",
	0x04: "FIN_WAIT1",
	0x05: "FIN_WAIT2",
	0x07: "CLOSE",
	0x09: "LAST_ACK",
	0x0B: "CLOSING",
	0x0C: "NEW_SYN_RECV",
}

// StateNote describes what a socket in state s is doing, plus a hint when
// the state usually means a port stays busy after its owner is gone.
func StateNote(s model.State) (note, hint string) {
	switch s {
	case model.StateListen:
		return "Accepting new connections", ""
	case model.StateEstablished:
		return "Active connection", ""
	case model.StateTimeWait:
		return "Closed, waiting out delayed packets",
			"No process owns it; the port frees itself after the kernel timeout (usually 60s)"
	case model.StateCloseWait:
		return "Peer closed, local side has not",
			"The owning process never closed the socket; restarting it releases the port"
	}
	if name, ok := kernelStates[s]; ok {
		return "Kernel state " + name, ""
	}
	return "Unrecognized kernel state", ""
}
