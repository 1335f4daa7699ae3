//go:build !linux && !darwin && !freebsd

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "portkill needs /proc/net/tcp or lsof and runs on Linux, macOS and FreeBSD only.")
	os.Exit(2)
}
