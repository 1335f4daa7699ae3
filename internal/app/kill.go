package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/portkill/portkill/internal/filter"
	"github.com/portkill/portkill/internal/killer"
)

type killOptions struct {
	port  uint16
	force bool
	yes   bool
}

func (c *cli) newKillCmd() *cobra.Command {
	o := &killOptions{}
	cmd := &cobra.Command{
		Use:   "kill [pid...]",
		Short: "Send SIGTERM (or SIGKILL) to processes by PID or by port",
		Example: `  portkill kill 4242
  portkill kill --port 8080 --force --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runKill(cmd, o, args)
		},
	}
	f := cmd.Flags()
	f.Uint16VarP(&o.port, "port", "p", 0, "signal every process that owns this local port")
	f.BoolVar(&o.force, "force", false, "send SIGKILL instead of SIGTERM")
	f.BoolVarP(&o.yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func parsePIDs(args []string) ([]uint32, error) {
	pids := make([]uint32, 0, len(args))
	for _, a := range args {
		n, err := strconv.ParseUint(a, 10, 32)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("invalid pid %q", a)
		}
		pids = append(pids, uint32(n))
	}
	return pids, nil
}

func (c *cli) runKill(cmd *cobra.Command, o *killOptions, args []string) error {
	byPort := cmd.Flags().Changed("port")
	switch {
	case byPort && len(args) > 0:
		return errors.New("give either pids or --port, not both")
	case !byPort && len(args) == 0:
		return errors.New("nothing to kill: give a pid or --port")
	}

	pids, err := parsePIDs(args)
	if err != nil {
		return err
	}

	env, err := newRuntimeEnv(c.cfg)
	if err != nil {
		return err
	}

	if byPort {
		snap := env.scan(cmd.Context())
		if err := snap.Err(); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		pids = filter.OwnersOfPort(snap.Records, o.port)
		if len(pids) == 0 {
			return fmt.Errorf("no visible process owns port %d", o.port)
		}
	}

	sig := killer.SignalTerminate
	if o.force {
		sig = killer.SignalKill
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	in := bufio.NewReader(cmd.InOrStdin())
	failed := 0
	for _, pid := range pids {
		target := env.terminator.Describe(pid)
		if env.terminator.IsProtected(pid) {
			fmt.Fprintf(errOut, "Refusing to signal system process %s\n", target)
			failed++
			continue
		}
		if !o.yes && !confirm(in, out, fmt.Sprintf("Send %s to %s?", sig, target)) {
			fmt.Fprintln(out, "Skipped", target)
			continue
		}
		msg, err := env.terminator.Send(pid, sig)
		if err != nil {
			fmt.Fprintln(errOut, err)
			failed++
			continue
		}
		fmt.Fprintln(out, msg)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d processes not signalled", failed, len(pids))
	}
	return nil
}

// confirm asks a yes/no question; anything but y or yes, including EOF,
// is a no.
func confirm(in *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, _ := in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
