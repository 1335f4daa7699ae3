package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/portkill/portkill/internal/filter"
	"github.com/portkill/portkill/internal/killer"
	"github.com/portkill/portkill/internal/proc"
)

// EnvPrefix is prepended to every key when read from the environment,
// e.g. PORTKILL_RESOLVER_WORKERS.
const EnvPrefix = "PORTKILL"

type Config struct {
	LogLevel               string         `mapstructure:"log_level"`
	LogFormat              string         `mapstructure:"log_format"`
	ProcRoot               string         `mapstructure:"proc_root"`
	LsofPath               string         `mapstructure:"lsof_path"`
	Resolver               ResolverConfig `mapstructure:"resolver"`
	RefreshIntervalSeconds int            `mapstructure:"refresh_interval_seconds"`
	ProtectedNames         []string       `mapstructure:"protected_names"`
	Show                   string         `mapstructure:"show"`
	Sort                   string         `mapstructure:"sort"`
}

type ResolverConfig struct {
	Strategy string `mapstructure:"strategy"`
	Workers  int    `mapstructure:"workers"` // 0: one per CPU
}

func Default() *Config {
	return &Config{
		LogLevel:               "warn",
		LogFormat:              "text",
		ProcRoot:               "/proc",
		LsofPath:               "lsof",
		Resolver:               ResolverConfig{Strategy: proc.StrategyFD},
		RefreshIntervalSeconds: 5,
		ProtectedNames:         append([]string(nil), killer.DefaultProtectedNames...),
		Show:                   string(filter.ModeListening),
		Sort:                   filter.SortPort,
	}
}

// defaults registers every key so environment variables are seen by
// Unmarshal even when no file sets them.
func defaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("proc_root", d.ProcRoot)
	v.SetDefault("lsof_path", d.LsofPath)
	v.SetDefault("resolver.strategy", d.Resolver.Strategy)
	v.SetDefault("resolver.workers", d.Resolver.Workers)
	v.SetDefault("refresh_interval_seconds", d.RefreshIntervalSeconds)
	v.SetDefault("protected_names", d.ProtectedNames)
	v.SetDefault("show", d.Show)
	v.SetDefault("sort", d.Sort)
}

// Load reads cfgFile, or portkill.yaml from the usual config directories
// when cfgFile is empty, then applies PORTKILL_* environment overrides and
// whatever flags were bound to v. A missing default file is not an error.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	defaults(v)

	if cfgFile == "" {
		cfgFile = findConfigFile(configDirs())
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	// every key has a default in v, so start from zero values
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configFileNames are tried in each directory. Only names with a YAML
// extension count, so a binary called portkill is never read as config.
var configFileNames = []string{"portkill.yaml", "portkill.yml"}

// findConfigFile returns the first regular config file in dirs, or "".
func findConfigFile(dirs []string) string {
	for _, dir := range dirs {
		for _, name := range configFileNames {
			path := filepath.Join(dir, name)
			if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
				return path
			}
		}
	}
	return ""
}

func configDirs() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "portkill"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "portkill"))
	}
	return append(dirs, "/etc/portkill", ".")
}
