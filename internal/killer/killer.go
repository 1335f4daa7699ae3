// Package killer sends termination signals to processes found by a scan.
package killer

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/portkill/portkill/internal/logging"
	"github.com/portkill/portkill/internal/proc"
)

var log = logging.L("killer")

// Signal is the severity of a termination request.
type Signal int

const (
	// SignalTerminate asks the process to shut down (SIGTERM).
	SignalTerminate Signal = iota
	// SignalKill stops the process unconditionally (SIGKILL).
	SignalKill
)

func (s Signal) String() string {
	switch s {
	case SignalTerminate:
		return "SIGTERM"
	case SignalKill:
		return "SIGKILL"
	default:
		return fmt.Sprintf("Signal(%d)", int(s))
	}
}

// DefaultProtectedNames are supervisor processes that are never signalled.
var DefaultProtectedNames = []string{"systemd", "init", "launchd", "kernel_task"}

// Terminator delivers signals and applies the protected-process policy.
// It holds no per-process state; every call stands alone.
type Terminator struct {
	// Identity reads the process name for messages and the protection
	// check. Nil disables both; only PID 1 is then protected.
	Identity proc.Identity
	// ProtectedNames replaces DefaultProtectedNames when non-nil.
	ProtectedNames []string

	deliver func(pid int, sig Signal) error
}

// New returns a Terminator using the host's signal delivery.
func New(identity proc.Identity, protected []string) *Terminator {
	return &Terminator{Identity: identity, ProtectedNames: protected}
}

// Terminate sends SIGTERM.
func (t *Terminator) Terminate(pid uint32) (string, error) {
	return t.Send(pid, SignalTerminate)
}

// Kill sends SIGKILL.
func (t *Terminator) Kill(pid uint32) (string, error) {
	return t.Send(pid, SignalKill)
}

// Send delivers sig to pid. On success it returns a confirmation naming
// the process; on failure the error is always a *Error.
func (t *Terminator) Send(pid uint32, sig Signal) (string, error) {
	name := t.commandLine(pid)

	// 0 and values past int32 would address process groups.
	if pid == 0 || pid > math.MaxInt32 {
		return "", &Error{Kind: KindNoProcess, PID: pid, Name: name, Err: fmt.Errorf("invalid pid %d", pid)}
	}

	deliver := t.deliver
	if deliver == nil {
		deliver = deliverSignal
	}
	if err := deliver(int(pid), sig); err != nil {
		kerr := &Error{Kind: classify(err), PID: pid, Name: name, Err: err}
		log.Warn("signal failed", logging.KeyPID, pid, "signal", sig.String(), "kind", kerr.Kind.String(), logging.KeyError, err)
		return "", kerr
	}

	log.Info("signal sent", logging.KeyPID, pid, "signal", sig.String())
	return fmt.Sprintf("Sent %s to %s", sig, label(pid, name)), nil
}

// IsProtected reports whether pid must not be signalled: PID 1 always,
// otherwise any process whose status name is on the protected list.
// It does not check whether the caller could signal the process.
func (t *Terminator) IsProtected(pid uint32) bool {
	if pid == 1 {
		return true
	}
	if t.Identity == nil {
		return false
	}
	st, err := t.Identity.Status(context.Background(), pid)
	if err != nil || st.Name == "" {
		return false
	}
	names := t.ProtectedNames
	if names == nil {
		names = DefaultProtectedNames
	}
	return slices.Contains(names, st.Name)
}

// Describe names pid for prompts: its command line when readable.
func (t *Terminator) Describe(pid uint32) string {
	return label(pid, t.commandLine(pid))
}

// commandLine is the space-joined argument vector, or "" when unreadable.
func (t *Terminator) commandLine(pid uint32) string {
	if t.Identity == nil || pid == 0 {
		return ""
	}
	args, err := t.Identity.Args(context.Background(), pid)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(args, " "))
}

func label(pid uint32, name string) string {
	if name == "" {
		return fmt.Sprintf("PID %d", pid)
	}
	return fmt.Sprintf("%s (PID %d)", name, pid)
}
