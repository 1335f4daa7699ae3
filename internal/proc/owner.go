package proc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/portkill/portkill/pkg/model"
)

// OwnerFinder maps a socket inode to the PID holding it. It returns 0 and
// no error when no process owns the inode (it exited, or we lack access).
type OwnerFinder interface {
	FindOwner(ctx context.Context, inode uint32, proto model.Protocol) (uint32, error)
}

// TableOwners searches every process's own socket table
// (<root>/<pid>/net/tcp or tcp6) for the inode.
type TableOwners struct {
	Root    string
	Workers int
}

func (o TableOwners) FindOwner(ctx context.Context, inode uint32, proto model.Protocol) (uint32, error) {
	pids, err := listPIDs(o.Root)
	if err != nil {
		return 0, err
	}
	return firstMatch(ctx, pids, o.Workers, func(pid uint32) bool {
		f, err := os.Open(TablePath(filepath.Join(o.Root, strconv.FormatUint(uint64(pid), 10)), proto))
		if err != nil {
			return false
		}
		defer f.Close()
		return tableHasInode(f, inode)
	})
}

// FDOwners looks for a "socket:[inode]" link in <root>/<pid>/fd. Unlike the
// per-process tables, which show the whole network namespace, this finds
// the process that actually holds the descriptor.
type FDOwners struct {
	Root    string
	Workers int
}

func (o FDOwners) FindOwner(ctx context.Context, inode uint32, _ model.Protocol) (uint32, error) {
	pids, err := listPIDs(o.Root)
	if err != nil {
		return 0, err
	}
	target := fmt.Sprintf("socket:[%d]", inode)
	return firstMatch(ctx, pids, o.Workers, func(pid uint32) bool {
		fdDir := filepath.Join(o.Root, strconv.FormatUint(uint64(pid), 10), "fd")
		fds, err := os.ReadDir(fdDir)
		if err != nil {
			return false
		}
		for _, fd := range fds {
			link, err := os.Readlink(filepath.Join(fdDir, fd.Name()))
			if err == nil && link == target {
				return true
			}
		}
		return false
	})
}

// listPIDs returns the numeric entries of the process root in ascending
// order. Directory listing order is unspecified, so sorting pins which
// process wins when an inode appears under several PIDs.
func listPIDs(root string) ([]uint32, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", root, err)
	}

	pids := make([]uint32, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.ParseUint(e.Name(), 10, 32)
		if err != nil || pid == 0 {
			continue
		}
		pids = append(pids, uint32(pid))
	}
	sort.Slice(pids, func(i, j int) bool { return pids[i] < pids[j] })
	return pids, nil
}

// firstMatch runs match over pids on a bounded errgroup and returns the
// lowest-indexed PID that matched, exactly what a sequential scan would
// return. Candidates above the best match so far are skipped.
func firstMatch(ctx context.Context, pids []uint32, workers int, match func(pid uint32) bool) (uint32, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	var best atomic.Int64
	best.Store(int64(len(pids)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, pid := range pids {
		if int64(i) > best.Load() {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if int64(i) > best.Load() || !match(pid) {
				return nil
			}
			for {
				cur := best.Load()
				if int64(i) >= cur || best.CompareAndSwap(cur, int64(i)) {
					return nil
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if idx := best.Load(); idx < int64(len(pids)) {
		return pids[idx], nil
	}
	return 0, nil
}
