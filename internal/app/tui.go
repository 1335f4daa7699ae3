package app

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/portkill/portkill/internal/filter"
	"github.com/portkill/portkill/internal/logging"
	"github.com/portkill/portkill/internal/tui"
)

func (c *cli) newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:     "tui",
		Aliases: []string{"i"},
		Short:   "Browse sockets interactively and kill their owners",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := filter.ParseMode(c.cfg.Show)
			if err != nil {
				return err
			}
			env, err := newRuntimeEnv(c.cfg)
			if err != nil {
				return err
			}

			// log lines would tear the alternate screen
			logging.Discard()

			return tui.Start(tui.Options{
				Version: versionString(),
				Refresh: time.Duration(c.cfg.RefreshIntervalSeconds) * time.Second,
				Mode:    mode,
				Sort:    c.cfg.Sort,
				Scan:    env.scan,
				Killer:  env.terminator,
			})
		},
	}
}
