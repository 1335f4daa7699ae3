//go:build !unix

package killer

import (
	"errors"
	"os"
)

func deliverSignal(pid int, _ Signal) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}

func classify(err error) Kind {
	switch {
	case errors.Is(err, os.ErrPermission):
		return KindPermission
	case errors.Is(err, os.ErrProcessDone):
		return KindNoProcess
	default:
		return KindOther
	}
}
