package app

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/portkill/portkill/internal/config"
	"github.com/portkill/portkill/internal/killer"
	"github.com/portkill/portkill/internal/logging"
	"github.com/portkill/portkill/internal/pipeline"
	"github.com/portkill/portkill/internal/proc"
	"github.com/portkill/portkill/pkg/model"
)

// runtimeEnv is everything a command needs once config is loaded.
type runtimeEnv struct {
	platform   proc.Platform
	terminator *killer.Terminator
	privileged bool
}

func newRuntimeEnv(c *config.Config) (*runtimeEnv, error) {
	p, err := proc.Detect(proc.PlatformConfig{
		ProcRoot: c.ProcRoot,
		LsofPath: c.LsofPath,
		Strategy: c.Resolver.Strategy,
		Workers:  c.Resolver.Workers,
	})
	if err != nil {
		return nil, err
	}
	logging.L("app").Debug("platform detected", "platform", p.Name)

	return &runtimeEnv{
		platform:   p,
		terminator: killer.New(p.Resolver.Identity, c.ProtectedNames),
		privileged: os.Geteuid() == 0,
	}, nil
}

func (e *runtimeEnv) scan(ctx context.Context) model.Snapshot {
	if ctx == nil {
		ctx = context.Background()
	}
	return pipeline.Scan(ctx, pipeline.ScanConfig{
		Scanner:    e.platform.Scanner,
		Resolver:   e.platform.Resolver,
		Privileged: e.privileged,
	})
}

// colorEnabled reports whether w is a terminal and color was not turned
// off with --no-color or NO_COLOR.
func (c *cli) colorEnabled(w io.Writer) bool {
	if c.noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
