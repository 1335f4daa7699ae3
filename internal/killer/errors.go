package killer

import (
	"errors"
	"fmt"
)

// Kind classifies a failed signal delivery. Callers pick retry or abort
// messaging from it.
type Kind int

const (
	KindOther Kind = iota
	KindPermission
	KindNoProcess
)

func (k Kind) String() string {
	switch k {
	case KindPermission:
		return "permission"
	case KindNoProcess:
		return "no-process"
	default:
		return "other"
	}
}

var (
	ErrPermission = errors.New("permission denied")
	ErrNoProcess  = errors.New("no such process")
)

// Error is returned by every failed Send.
type Error struct {
	Kind Kind
	PID  uint32
	Name string // command line when it could be read
	Err  error
}

func (e *Error) Error() string {
	who := label(e.PID, e.Name)
	switch e.Kind {
	case KindPermission:
		return fmt.Sprintf("permission denied: use `sudo portkill` to signal %s", who)
	case KindNoProcess:
		return fmt.Sprintf("%s is no longer running", who)
	default:
		return fmt.Sprintf("failed to signal %s: %v", who, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match ErrPermission and ErrNoProcess by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrPermission:
		return e.Kind == KindPermission
	case ErrNoProcess:
		return e.Kind == KindNoProcess
	}
	return false
}
