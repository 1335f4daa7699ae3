//go:build !unix

package app

import "io"

func terminalWidth(io.Writer) int { return 0 }
