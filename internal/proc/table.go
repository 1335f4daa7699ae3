package proc

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/portkill/portkill/pkg/model"
)

// Positional columns of /proc/net/tcp{,6}.
const (
	fieldLocal  = 1
	fieldRemote = 2
	fieldState  = 3
	fieldInode  = 9
	minFields   = 10
)

// DecodeLine parses one data line of a kernel socket table. It reports
// ok=false for short lines, a missing local port or an unparseable state;
// the caller just skips those.
func DecodeLine(line string, proto model.Protocol) (model.SocketRecord, bool) {
	fields := strings.Fields(line)
	if len(fields) < minFields {
		return model.SocketRecord{}, false
	}

	port, ok := DecodePort(fields[fieldLocal])
	if !ok {
		return model.SocketRecord{}, false
	}
	state, ok := DecodeState(fields[fieldState])
	if !ok {
		return model.SocketRecord{}, false
	}

	return model.SocketRecord{
		Port:          port,
		Protocol:      proto,
		State:         state,
		LocalAddress:  DecodeAddress(fields[fieldLocal]),
		RemoteAddress: DecodeAddress(fields[fieldRemote]),
		Inode:         parseInode(fields[fieldInode]),
	}, true
}

// parseInode returns 0 for "0" and for anything that does not fit a uint32.
func parseInode(raw string) uint32 {
	if raw == "0" {
		return 0
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(v)
}

// DecodeTable reads a whole table: one header line, then data lines. Blank
// and malformed lines are dropped; only a read error fails the call.
func DecodeTable(r io.Reader, proto model.Protocol) ([]model.SocketRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Scan() // skip header

	var records []model.SocketRecord
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if rec, ok := DecodeLine(line, proto); ok {
			records = append(records, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return records, err
	}
	return records, nil
}

// tableHasInode reports whether any data line of a socket table carries
// the given inode in its inode column.
func tableHasInode(r io.Reader, inode uint32) bool {
	want := strconv.FormatUint(uint64(inode), 10)
	scanner := bufio.NewScanner(r)
	scanner.Scan() // skip header
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < minFields {
			continue
		}
		if fields[fieldInode] == want {
			return true
		}
	}
	return false
}
