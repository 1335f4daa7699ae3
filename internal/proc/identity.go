package proc

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// Status is the subset of a process status record the resolver uses.
type Status struct {
	Name string
	UID  string // numeric, as printed by the kernel
}

// Identity reads the identity files of a live process. Every method is
// independent; a failure of one says nothing about the others.
type Identity interface {
	Args(ctx context.Context, pid uint32) ([]string, error)
	Status(ctx context.Context, pid uint32) (Status, error)
}

// ProcfsIdentity reads <root>/<pid>/cmdline and <root>/<pid>/status.
type ProcfsIdentity struct {
	Root string
}

func (p ProcfsIdentity) pidPath(pid uint32, name string) string {
	return filepath.Join(p.Root, strconv.FormatUint(uint64(pid), 10), name)
}

func (p ProcfsIdentity) Args(_ context.Context, pid uint32) ([]string, error) {
	data, err := os.ReadFile(p.pidPath(pid, "cmdline"))
	if err != nil {
		return nil, err
	}
	return SplitArgs(data), nil
}

func (p ProcfsIdentity) Status(_ context.Context, pid uint32) (Status, error) {
	data, err := os.ReadFile(p.pidPath(pid, "status"))
	if err != nil {
		return Status{}, err
	}
	return ParseStatus(data), nil
}

// SplitArgs splits a NUL-separated argument vector, dropping the
// terminating NUL.
func SplitArgs(data []byte) []string {
	data = bytes.TrimRight(data, "\x00")
	if len(data) == 0 {
		return nil
	}
	return strings.Split(string(data), "\x00")
}

// ParseStatus reads "Key:\tValue" lines, keeping Name and the first
// (real) UID of the Uid line.
func ParseStatus(data []byte) Status {
	var st Status
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Name":
			st.Name = value
		case "Uid":
			if fields := strings.Fields(value); len(fields) > 0 {
				if _, err := strconv.ParseUint(fields[0], 10, 32); err == nil {
					st.UID = fields[0]
				}
			}
		}
	}
	return st
}

// PsutilIdentity asks gopsutil, for platforms where the process tree is
// not a readable file system.
type PsutilIdentity struct{}

// ErrPIDRange reports a PID that gopsutil's int32 PIDs cannot hold.
var ErrPIDRange = errors.New("pid out of range")

func newPsutilProcess(ctx context.Context, pid uint32) (*process.Process, error) {
	if pid == 0 || pid > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d", ErrPIDRange, pid)
	}
	return process.NewProcessWithContext(ctx, int32(pid))
}

func (PsutilIdentity) Args(ctx context.Context, pid uint32) ([]string, error) {
	p, err := newPsutilProcess(ctx, pid)
	if err != nil {
		return nil, err
	}
	return p.CmdlineSliceWithContext(ctx)
}

func (PsutilIdentity) Status(ctx context.Context, pid uint32) (Status, error) {
	p, err := newPsutilProcess(ctx, pid)
	if err != nil {
		return Status{}, err
	}
	var st Status
	name, nameErr := p.NameWithContext(ctx)
	if nameErr == nil {
		st.Name = name
	}
	uids, uidErr := p.UidsWithContext(ctx)
	if uidErr == nil && len(uids) > 0 {
		st.UID = strconv.FormatInt(int64(uids[0]), 10)
	}
	if nameErr != nil && uidErr != nil {
		return Status{}, nameErr
	}
	return st, nil
}
