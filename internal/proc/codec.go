package proc

import (
	"encoding/hex"
	"net"
	"strconv"
	"strings"

	"github.com/portkill/portkill/pkg/model"
)

// DecodePort reads the port half of a kernel "ADDR:PPPP" pair (a bare
// "PPPP" is accepted too). Leading zeros are stripped before parsing, so an
// empty, malformed or all-zero port reports ok=false.
func DecodePort(raw string) (uint16, bool) {
	portHex := raw
	if idx := strings.LastIndexByte(raw, ':'); idx != -1 {
		portHex = raw[idx+1:]
	}
	portHex = strings.TrimLeft(portHex, "0")
	if portHex == "" {
		return 0, false
	}
	port, err := strconv.ParseUint(portHex, 16, 16)
	if err != nil {
		return 0, false
	}
	return uint16(port), true
}

// DecodeAddress turns "0100007F:0050" into "127.0.0.1:80". The kernel
// prints every 32-bit word of the address in host (little-endian) order, so
// the bytes of each word are reversed. The port is dropped when it does not
// decode; an IP half shorter than 8 hex chars yields "".
func DecodeAddress(raw string) string {
	ipHex, _, found := strings.Cut(raw, ":")
	if !found {
		return ""
	}
	ip := decodeIP(ipHex)
	if ip == "" {
		return ""
	}
	port, ok := DecodePort(raw)
	if !ok {
		return ip
	}
	return net.JoinHostPort(ip, strconv.Itoa(int(port)))
}

func decodeIP(ipHex string) string {
	if len(ipHex) < 8 {
		return ""
	}

	if len(ipHex) >= 32 {
		b, err := hex.DecodeString(ipHex[:32])
		if err != nil {
			return ""
		}
		ip := make(net.IP, net.IPv6len)
		for word := 0; word < 4; word++ {
			for i := 0; i < 4; i++ {
				ip[word*4+i] = b[word*4+3-i]
			}
		}
		return ip.String()
	}

	// IPv4: the last four bytes, taken from the tail backward.
	tail := ipHex[len(ipHex)-8:]
	b := make([]byte, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseUint(tail[6-2*i:8-2*i], 16, 8)
		if err != nil {
			v = 0
		}
		b[i] = byte(v)
	}
	return net.IP(b).String()
}

// DecodeState maps the one-byte state column to a model.State. Empty input
// is Other(0); anything that is not a hex byte reports ok=false.
func DecodeState(raw string) (model.State, bool) {
	if raw == "" {
		return model.State(0), true
	}
	v, err := strconv.ParseUint(raw, 16, 8)
	if err != nil {
		return 0, false
	}
	return model.State(v), true
}

// stateNames maps the textual states printed by lsof and ss back onto the
// kernel codes, so both scanning paths agree on model.State.
var stateNames = map[string]model.State{
	"ESTABLISHED": 0x01,
	"SYN_SENT":    0x02,
	"SYN_RECV":    0x03,
	"SYN_RCVD":    0x03,
	"FIN_WAIT1":   0x04,
	"FIN_WAIT_1":  0x04,
	"FIN_WAIT2":   0x05,
	"FIN_WAIT_2":  0x05,
	"TIME_WAIT":   0x06,
	"CLOSE":       0x07,
	"CLOSED":      0x07,
	"CLOSE_WAIT":  0x08,
	"LAST_ACK":    0x09,
	"LISTEN":      0x0A,
	"CLOSING":     0x0B,
}

// StateFromName is the inverse of the textual state column. Unknown names
// are Other(0) rather than an error.
func StateFromName(name string) model.State {
	if s, ok := stateNames[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return s
	}
	return model.State(0)
}
