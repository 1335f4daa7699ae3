package proc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/portkill/portkill/internal/logging"
	"github.com/portkill/portkill/pkg/model"
)

var log = logging.L("scan")

// Scanner lists the TCP sockets of one protocol family. Implementations
// fail only when the whole source is unavailable; bad lines are skipped.
type Scanner interface {
	Scan(ctx context.Context, proto model.Protocol) ([]model.SocketRecord, error)
}

// SourceError reports a socket source that could not be opened or run.
type SourceError struct {
	Protocol model.Protocol
	Source   string
	Err      error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("scan %s: %s: %v", e.Protocol, e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// ProcScanner reads the kernel tables under Root (normally /proc).
type ProcScanner struct {
	Root string
}

// TablePath returns the kernel table for proto under root.
func TablePath(root string, proto model.Protocol) string {
	if proto == model.ProtocolTCP6 {
		return filepath.Join(root, "net", "tcp6")
	}
	return filepath.Join(root, "net", "tcp")
}

func (s ProcScanner) Scan(ctx context.Context, proto model.Protocol) ([]model.SocketRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := TablePath(s.Root, proto)
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceError{Protocol: proto, Source: path, Err: err}
	}
	defer f.Close()

	records, err := DecodeTable(f, proto)
	if err != nil {
		return nil, &SourceError{Protocol: proto, Source: path, Err: err}
	}
	log.Debug("kernel table decoded", logging.KeyProtocol, proto, "path", path, "records", len(records))
	return records, nil
}
