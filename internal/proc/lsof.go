package proc

import (
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"

	"github.com/portkill/portkill/internal/logging"
	"github.com/portkill/portkill/pkg/model"
)

// LsofScanner is the fallback for hosts without /proc/net/tcp (macOS and
// the BSDs). It produces the same records from `lsof` output, with the PID,
// command and user already filled in and no inode.
type LsofScanner struct {
	Path string

	// run executes the command; nil means exec.CommandContext.
	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

func NewLsofScanner(path string) *LsofScanner {
	if path == "" {
		path = "lsof"
	}
	return &LsofScanner{Path: path}
}

func lsofArgs(proto model.Protocol) []string {
	family := "-i4TCP"
	if proto == model.ProtocolTCP6 {
		family = "-i6TCP"
	}
	// -n/-P: no host or port name resolution, -w: no warnings.
	return []string{"-nP", "-w", family}
}

func (s *LsofScanner) Scan(ctx context.Context, proto model.Protocol) ([]model.SocketRecord, error) {
	run := s.run
	if run == nil {
		run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		}
	}

	out, err := run(ctx, s.Path, lsofArgs(proto)...)
	if err != nil {
		// lsof exits 1 when nothing matched.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && len(strings.TrimSpace(string(out))) == 0 {
			return nil, nil
		}
		return nil, &SourceError{Protocol: proto, Source: s.Path, Err: err}
	}

	records := ParseLsof(string(out), proto)
	log.Debug("lsof output decoded", logging.KeyProtocol, proto, "records", len(records))
	return records, nil
}

// ParseLsof parses `lsof -nP -i` output:
//
//	COMMAND   PID USER   FD   TYPE DEVICE SIZE/OFF NODE NAME
//	node    4242 alice   23u  IPv4 0x...      0t0  TCP *:3000 (LISTEN)
//	curl    4343 alice    5u  IPv6 0x...      0t0  TCP [::1]:50000->[::1]:3000 (ESTABLISHED)
//
// Lines for the other IP family, non-TCP nodes and unparseable ports are
// skipped.
func ParseLsof(out string, proto model.Protocol) []model.SocketRecord {
	wantType := "IPv4"
	if proto == model.ProtocolTCP6 {
		wantType = "IPv6"
	}

	var records []model.SocketRecord
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 9 || fields[0] == "COMMAND" {
			continue
		}

		pid, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil || pid == 0 {
			continue
		}
		if typ := fields[4]; (typ == "IPv4" || typ == "IPv6") && typ != wantType {
			continue
		}
		if fields[7] != "TCP" {
			continue
		}

		name := strings.Join(fields[8:], " ")
		addrs, stateText := name, ""
		if open := strings.LastIndexByte(name, '('); open != -1 && strings.HasSuffix(name, ")") {
			addrs = strings.TrimSpace(name[:open])
			stateText = name[open+1 : len(name)-1]
		}

		local, remote, _ := strings.Cut(addrs, "->")
		port, ok := lsofPort(local)
		if !ok {
			continue
		}

		records = append(records, model.SocketRecord{
			Port:          port,
			Protocol:      proto,
			State:         StateFromName(stateText),
			LocalAddress:  normalizeLsofAddr(local, proto),
			RemoteAddress: normalizeLsofAddr(remote, proto),
			PID:           uint32(pid),
			ProcessName:   fields[0],
			User:          fields[2],
		})
	}
	return records
}

func lsofPort(addr string) (uint16, bool) {
	idx := strings.LastIndexByte(addr, ':')
	if idx == -1 {
		return 0, false
	}
	port, err := strconv.ParseUint(addr[idx+1:], 10, 16)
	if err != nil || port == 0 {
		return 0, false
	}
	return uint16(port), true
}

// normalizeLsofAddr rewrites the "*" wildcard to the family's any-address
// so both scanning paths print the same thing.
func normalizeLsofAddr(addr string, proto model.Protocol) string {
	if !strings.HasPrefix(addr, "*") {
		return addr
	}
	wildcard := "0.0.0.0"
	if proto == model.ProtocolTCP6 {
		wildcard = "[::]"
	}
	return wildcard + strings.TrimPrefix(addr, "*")
}
