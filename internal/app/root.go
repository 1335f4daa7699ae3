package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/portkill/portkill/internal/config"
	"github.com/portkill/portkill/internal/logging"
)

// cli holds the state shared by every command of one invocation.
type cli struct {
	v       *viper.Viper
	cfgFile string
	noColor bool
	cfg     *config.Config
}

// rootFlags maps persistent flags to config keys.
var rootFlags = map[string]string{
	"log-level":  "log_level",
	"log-format": "log_format",
	"proc-root":  "proc_root",
	"lsof":       "lsof_path",
	"strategy":   "resolver.strategy",
	"workers":    "resolver.workers",
	"refresh":    "refresh_interval_seconds",
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New(), cfg: config.Default()}

	list := &listOptions{}
	rootCmd := &cobra.Command{
		Use:   "portkill",
		Short: "List TCP ports and stop the processes that hold them",
		Long: `portkill reads the kernel socket tables, finds the process that owns each
TCP socket and can send it SIGTERM or SIGKILL.

Run without a subcommand to list listening sockets.`,
		Version:           versionString(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.loadConfig,
		Args:              cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runList(cmd, list)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/portkill/portkill.yaml)")
	pf.BoolVar(&c.noColor, "no-color", false, "disable colored output")
	pf.String("log-level", "warn", "log level: debug, info, warn or error")
	pf.String("log-format", "text", "log format: text or json")
	pf.String("proc-root", "/proc", "process file system root")
	pf.String("lsof", "lsof", "lsof binary used when the kernel tables are missing")
	pf.String("strategy", "fd", "owner search: fd (descriptor links) or table (per-process socket tables)")
	pf.Int("workers", 0, "parallel owner lookups (0: one per CPU)")
	pf.Int("refresh", 5, "seconds between refreshes in the interactive view")
	bindFlags(c.v, pf, rootFlags)

	addListFlags(rootCmd, list)

	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newKillCmd())
	rootCmd.AddCommand(c.newTUICmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for flag, key := range keys {
		if f := flags.Lookup(flag); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

func (c *cli) loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(c.v, c.cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	res := loaded.Validate()
	if res.HasFatals() {
		return fmt.Errorf("invalid config: %w", res.Fatals[0])
	}

	logging.Init(loaded.LogFormat, loaded.LogLevel, cmd.ErrOrStderr())
	log := logging.L("app")
	for _, w := range res.Warnings {
		log.Warn("config adjusted", logging.KeyError, w)
	}

	c.cfg = loaded
	return nil
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
