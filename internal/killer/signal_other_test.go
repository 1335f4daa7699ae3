//go:build !unix

package killer

import "os"

var (
	errPermission = os.ErrPermission
	errNoProcess  = os.ErrProcessDone
)
