// Package filter narrows and orders a scan for display.
package filter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/portkill/portkill/pkg/model"
)

// Mode selects which socket states are shown.
type Mode string

const (
	ModeListening   Mode = "listening"
	ModeEstablished Mode = "established"
	ModeAll         Mode = "all"
)

var Modes = []Mode{ModeListening, ModeEstablished, ModeAll}

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeListening, ModeEstablished, ModeAll:
		return m, nil
	case "":
		return ModeListening, nil
	}
	return "", fmt.Errorf("unknown view %q (want listening, established or all)", s)
}

// Next cycles listening -> established -> all.
func (m Mode) Next() Mode {
	for i, mode := range Modes {
		if mode == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return ModeListening
}

func (m Mode) Matches(s model.State) bool {
	switch m {
	case ModeListening:
		return s == model.StateListen
	case ModeEstablished:
		return s == model.StateEstablished
	default:
		return true
	}
}

// Options is one view over a snapshot.
type Options struct {
	Mode Mode
	// Text matches a substring of the port number or, case-insensitively,
	// of the process name. Empty matches everything.
	Text string
	Port uint16 // exact local port, 0 for any
}

func (o Options) Match(r model.SocketRecord) bool {
	if !o.Mode.Matches(r.State) {
		return false
	}
	if o.Port != 0 && r.Port != o.Port {
		return false
	}
	return MatchText(r, o.Text)
}

func MatchText(r model.SocketRecord, text string) bool {
	if text == "" {
		return true
	}
	if strings.Contains(strconv.Itoa(int(r.Port)), text) {
		return true
	}
	return strings.Contains(strings.ToLower(r.ProcessName), strings.ToLower(text))
}

// Apply returns the matching records in a new slice; records is not
// modified.
func Apply(records []model.SocketRecord, o Options) []model.SocketRecord {
	out := make([]model.SocketRecord, 0, len(records))
	for _, r := range records {
		if o.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// OwnersOfPort returns the distinct PIDs holding sockets on port, in
// ascending order.
func OwnersOfPort(records []model.SocketRecord, port uint16) []uint32 {
	seen := map[uint32]bool{}
	var pids []uint32
	for _, r := range records {
		if r.Port != port || !r.HasPID() || seen[r.PID] {
			continue
		}
		seen[r.PID] = true
		pids = append(pids, r.PID)
	}
	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })
	return pids
}
