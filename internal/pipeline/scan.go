package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/portkill/portkill/internal/logging"
	"github.com/portkill/portkill/internal/proc"
	"github.com/portkill/portkill/pkg/model"
)

var log = logging.L("scan")

type ScanConfig struct {
	Scanner  proc.Scanner
	Resolver *proc.Resolver
	// Protocols to scan, in order. Nil means model.Protocols.
	Protocols []model.Protocol
	// Privileged suppresses the hidden-owner warning.
	Privileged bool
	Now        func() time.Time
}

// Scan reads every requested family, then resolves owners for the merged
// list. A family that fails is recorded in Failures and does not stop the
// others.
func Scan(ctx context.Context, cfg ScanConfig) model.Snapshot {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	protocols := cfg.Protocols
	if protocols == nil {
		protocols = model.Protocols
	}

	snap := model.Snapshot{TakenAt: now(), Scanned: protocols}
	for _, p := range protocols {
		records, err := cfg.Scanner.Scan(ctx, p)
		if err != nil {
			log.Warn("scan failed", logging.KeyProtocol, string(p), logging.KeyError, err)
			if snap.Failures == nil {
				snap.Failures = make(map[model.Protocol]error)
			}
			snap.Failures[p] = err
			snap.Warnings = append(snap.Warnings, fmt.Sprintf("%s sockets not listed: %v", p, err))
			continue
		}
		log.Debug("scanned", logging.KeyProtocol, string(p), "records", len(records))
		snap.Records = append(snap.Records, records...)
	}

	if cfg.Resolver != nil {
		cfg.Resolver.ResolveAll(ctx, snap.Records)
	}

	if !cfg.Privileged {
		if n := unowned(snap.Records); n > 0 {
			snap.Warnings = append(snap.Warnings,
				fmt.Sprintf("%d sockets have no visible owner; run with sudo to see processes of other users", n))
		}
	}
	return snap
}

// unowned counts records that hold a descriptor but could not be tied to a
// process. Sockets without an inode (TIME_WAIT and friends) have no owner
// to find.
func unowned(records []model.SocketRecord) int {
	n := 0
	for _, r := range records {
		if r.HasInode() && !r.HasPID() {
			n++
		}
	}
	return n
}
