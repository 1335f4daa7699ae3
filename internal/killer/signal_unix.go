//go:build unix

package killer

import (
	"errors"

	"golang.org/x/sys/unix"
)

func deliverSignal(pid int, sig Signal) error {
	s := unix.SIGTERM
	if sig == SignalKill {
		s = unix.SIGKILL
	}
	return unix.Kill(pid, s)
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, unix.EPERM):
		return KindPermission
	case errors.Is(err, unix.ESRCH):
		return KindNoProcess
	default:
		return KindOther
	}
}
