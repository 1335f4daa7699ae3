package config

import (
	"fmt"
	"strings"

	"github.com/portkill/portkill/internal/filter"
	"github.com/portkill/portkill/internal/logging"
	"github.com/portkill/portkill/internal/proc"
)

const (
	minRefreshSeconds = 1
	maxRefreshSeconds = 3600
	maxWorkers        = 256
)

// ValidationResult separates values that stop startup from values that
// were clamped into range.
type ValidationResult struct {
	Fatals   []error
	Warnings []error
}

func (r ValidationResult) HasFatals() bool { return len(r.Fatals) > 0 }

// Validate checks every field. Out-of-range numbers are clamped in place
// and reported as warnings; unknown enum values are fatal.
func (c *Config) Validate() ValidationResult {
	var r ValidationResult

	if !logging.ValidLevel(c.LogLevel) {
		r.Fatals = append(r.Fatals, fmt.Errorf("log_level %q is not valid (use debug, info, warn, error)", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		r.Fatals = append(r.Fatals, fmt.Errorf("log_format %q is not valid (use text or json)", c.LogFormat))
	}
	if strings.TrimSpace(c.ProcRoot) == "" {
		r.Fatals = append(r.Fatals, fmt.Errorf("proc_root must not be empty"))
	}

	switch c.Resolver.Strategy {
	case proc.StrategyTable, proc.StrategyFD:
	default:
		r.Fatals = append(r.Fatals, fmt.Errorf("resolver.strategy %q is not valid (use %s or %s)",
			c.Resolver.Strategy, proc.StrategyTable, proc.StrategyFD))
	}

	if c.Resolver.Workers < 0 {
		r.Warnings = append(r.Warnings, fmt.Errorf("resolver.workers %d is negative, using one per CPU", c.Resolver.Workers))
		c.Resolver.Workers = 0
	} else if c.Resolver.Workers > maxWorkers {
		r.Warnings = append(r.Warnings, fmt.Errorf("resolver.workers %d exceeds maximum %d, clamping", c.Resolver.Workers, maxWorkers))
		c.Resolver.Workers = maxWorkers
	}

	if c.RefreshIntervalSeconds < minRefreshSeconds {
		r.Warnings = append(r.Warnings, fmt.Errorf("refresh_interval_seconds %d is below minimum %d, clamping",
			c.RefreshIntervalSeconds, minRefreshSeconds))
		c.RefreshIntervalSeconds = minRefreshSeconds
	} else if c.RefreshIntervalSeconds > maxRefreshSeconds {
		r.Warnings = append(r.Warnings, fmt.Errorf("refresh_interval_seconds %d exceeds maximum %d, clamping",
			c.RefreshIntervalSeconds, maxRefreshSeconds))
		c.RefreshIntervalSeconds = maxRefreshSeconds
	}

	if _, err := filter.ParseMode(c.Show); err != nil {
		r.Fatals = append(r.Fatals, fmt.Errorf("show: %w", err))
	}
	if err := filter.ValidSort(c.Sort); err != nil {
		r.Fatals = append(r.Fatals, fmt.Errorf("sort: %w", err))
	}

	for _, name := range c.ProtectedNames {
		if strings.TrimSpace(name) == "" {
			r.Warnings = append(r.Warnings, fmt.Errorf("protected_names contains an empty entry"))
			break
		}
	}
	return r
}
