package proc

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/portkill/portkill/pkg/model"
)

// Owner search strategies.
const (
	StrategyTable = "table"
	StrategyFD    = "fd"
)

// PlatformConfig is what Detect needs to pick an implementation.
type PlatformConfig struct {
	ProcRoot string
	LsofPath string
	Strategy string
	Workers  int
}

// Platform is the scanner/resolver pair for the running host.
type Platform struct {
	Name     string
	Scanner  Scanner
	Resolver *Resolver
}

// Detect probes the host once: a readable kernel table selects the procfs
// implementation, otherwise lsof on PATH selects the fallback.
func Detect(cfg PlatformConfig) (Platform, error) {
	if cfg.ProcRoot == "" {
		cfg.ProcRoot = "/proc"
	}

	if _, err := os.Stat(TablePath(cfg.ProcRoot, model.ProtocolTCP)); err == nil {
		// descriptor links name the holder; per-process tables show the
		// whole namespace, so only use them when asked
		var owners OwnerFinder = FDOwners{Root: cfg.ProcRoot, Workers: cfg.Workers}
		if cfg.Strategy == StrategyTable {
			owners = TableOwners{Root: cfg.ProcRoot, Workers: cfg.Workers}
		}
		return Platform{
			Name:     "procfs",
			Scanner:  ProcScanner{Root: cfg.ProcRoot},
			Resolver: &Resolver{
				Owners:   owners,
				Identity: ProcfsIdentity{Root: cfg.ProcRoot},
			},
		}, nil
	}

	lsof := NewLsofScanner(cfg.LsofPath)
	if _, err := exec.LookPath(lsof.Path); err != nil {
		return Platform{}, fmt.Errorf("no socket source: %s missing and %s not found: %w",
			TablePath(cfg.ProcRoot, model.ProtocolTCP), lsof.Path, err)
	}
	return Platform{
		Name:     "lsof",
		Scanner:  lsof,
		Resolver: &Resolver{Identity: PsutilIdentity{}},
	}, nil
}
