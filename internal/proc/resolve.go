package proc

import (
	"context"
	"os/user"
	"strings"

	"github.com/portkill/portkill/internal/logging"
	"github.com/portkill/portkill/pkg/model"
)

var rlog = logging.L("resolve")

// Resolver fills in PID, process name, command line and user of a record.
// It is best effort: anything it cannot read stays empty.
type Resolver struct {
	Owners   OwnerFinder
	Identity Identity

	// LookupUser maps a numeric UID to a user name; nil means os/user.
	LookupUser func(uid string) (string, error)
}

func lookupUser(uid string) (string, error) {
	u, err := user.LookupId(uid)
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// ResolveAll enriches every record in place.
func (r *Resolver) ResolveAll(ctx context.Context, records []model.SocketRecord) {
	for i := range records {
		if ctx.Err() != nil {
			return
		}
		r.Resolve(ctx, &records[i])
	}
}

// Resolve enriches one record in place. Records that already carry a PID
// (the lsof path) skip the inode search.
func (r *Resolver) Resolve(ctx context.Context, rec *model.SocketRecord) {
	if !rec.HasPID() {
		if !rec.HasInode() || r.Owners == nil {
			return
		}
		pid, err := r.Owners.FindOwner(ctx, rec.Inode, rec.Protocol)
		if err != nil {
			rlog.Debug("inode search failed", logging.KeyInode, rec.Inode, logging.KeyError, err)
			return
		}
		if pid == 0 {
			rlog.Debug("no owner for inode", logging.KeyInode, rec.Inode)
			return
		}
		rec.PID = pid
	}
	if r.Identity == nil {
		return
	}

	uid := r.readArgsAndStatus(ctx, rec)
	if rec.User == "" && uid != "" {
		rec.User = r.userName(uid)
	}
}

// readArgsAndStatus applies the argument vector, then the status record on
// top of it, and returns the numeric owner from status.
func (r *Resolver) readArgsAndStatus(ctx context.Context, rec *model.SocketRecord) string {
	if args, err := r.Identity.Args(ctx, rec.PID); err == nil && len(args) > 0 {
		rec.CommandLine = strings.TrimSpace(strings.Join(args, " "))
		if name := nameFromCommandLine(rec.CommandLine); name != "" {
			rec.ProcessName = name
		}
	} else if err != nil {
		rlog.Debug("read args failed", logging.KeyPID, rec.PID, logging.KeyError, err)
	}

	st, err := r.Identity.Status(ctx, rec.PID)
	if err != nil {
		rlog.Debug("read status failed", logging.KeyPID, rec.PID, logging.KeyError, err)
		return ""
	}
	if st.Name != "" {
		rec.ProcessName = st.Name
	}
	return st.UID
}

func (r *Resolver) userName(uid string) string {
	lookup := r.LookupUser
	if lookup == nil {
		lookup = lookupUser
	}
	name, err := lookup(uid)
	if err != nil || name == "" {
		return uid
	}
	return name
}

// nameFromCommandLine is the first token of the command line with any
// trailing path separator removed.
func nameFromCommandLine(cmdline string) string {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimRight(fields[0], "/")
}
