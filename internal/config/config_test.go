package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portkill.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.Validate().HasFatals())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
proc_root: /host/proc
resolver:
  strategy: table
  workers: 4
refresh_interval_seconds: 10
protected_names: [sshd]
show: all
`)
	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat, "unset keys keep their default")
	assert.Equal(t, "/host/proc", cfg.ProcRoot)
	assert.Equal(t, ResolverConfig{Strategy: "table", Workers: 4}, cfg.Resolver)
	assert.Equal(t, 10, cfg.RefreshIntervalSeconds)
	assert.Equal(t, []string{"sshd"}, cfg.ProtectedNames)
	assert.Equal(t, "all", cfg.Show)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "resolver:\n  workers: 4\nshow: all\n")
	t.Setenv("PORTKILL_RESOLVER_WORKERS", "9")
	t.Setenv("PORTKILL_SHOW", "established")
	t.Setenv("PORTKILL_PROTECTED_NAMES", "systemd,sshd")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Resolver.Workers)
	assert.Equal(t, "established", cfg.Show)
	assert.Equal(t, []string{"systemd", "sshd"}, cfg.ProtectedNames)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	_, err := Load(viper.New(), writeConfig(t, "show: [unterminated\n"))
	assert.Error(t, err)
}

func TestValidateFatals(t *testing.T) {
	tests := map[string]func(*Config){
		"log level":  func(c *Config) { c.LogLevel = "loud" },
		"log format": func(c *Config) { c.LogFormat = "xml" },
		"proc root":  func(c *Config) { c.ProcRoot = " " },
		"strategy":   func(c *Config) { c.Resolver.Strategy = "guess" },
		"show":       func(c *Config) { c.Show = "closing" },
		"sort":       func(c *Config) { c.Sort = "cpu" },
	}
	for name, mutate := range tests {
		cfg := Default()
		mutate(cfg)
		assert.True(t, cfg.Validate().HasFatals(), name)
	}
}

func TestValidateClamps(t *testing.T) {
	cfg := Default()
	cfg.RefreshIntervalSeconds = 0
	cfg.Resolver.Workers = -3
	r := cfg.Validate()

	assert.False(t, r.HasFatals())
	assert.Len(t, r.Warnings, 2)
	assert.Equal(t, 1, cfg.RefreshIntervalSeconds)
	assert.Equal(t, 0, cfg.Resolver.Workers)

	cfg = Default()
	cfg.RefreshIntervalSeconds = 99999
	cfg.Resolver.Workers = 1000
	cfg.Validate()
	assert.Equal(t, maxRefreshSeconds, cfg.RefreshIntervalSeconds)
	assert.Equal(t, maxWorkers, cfg.Resolver.Workers)
}

func TestLoadIgnoresBinaryNamedPortkill(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cwd := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cwd, "portkill"), []byte("\x7fELF\x02\x01\x01\x00\x00"), 0o755))
	t.Chdir(cwd)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFindsYAMLInWorkingDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cwd := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cwd, "portkill"), []byte("\x7fELF"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cwd, "portkill.yml"), []byte("show: all\n"), 0o600))
	t.Chdir(cwd)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "all", cfg.Show)
}

func TestFindConfigFile(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(first, "portkill.yaml"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(second, "portkill.yml"), nil, 0o600))

	assert.Equal(t, filepath.Join(second, "portkill.yml"), findConfigFile([]string{first, second}))
	assert.Empty(t, findConfigFile([]string{first}), "directories are not config files")
	assert.Empty(t, findConfigFile(nil))
}
