// # internal/core/config/env.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration
// and returns the keys that were applied.
// Pattern: RELIGHT_[SECTION]_[KEY] (e.g., RELIGHT_LOG_LEVEL).
func ApplyEnvOverrides(cfg *Config) []string {
	var applied []string
	track := func(key string, ok bool) {
		if ok {
			applied = append(applied, key)
		}
	}

	// Log
	track("RELIGHT_LOG_LEVEL", setEnvString(&cfg.Log.Level, "RELIGHT_LOG_LEVEL"))

	// Parser
	track("RELIGHT_PARSER_POOL_SIZE", setEnvInt(&cfg.Parser.PoolSize, "RELIGHT_PARSER_POOL_SIZE"))

	// Watch
	track("RELIGHT_WATCH_DEBOUNCE", setEnvDuration(&cfg.Watch.Debounce, "RELIGHT_WATCH_DEBOUNCE"))
	track("RELIGHT_WATCH_MAX_PER_SECOND", setEnvFloat64(&cfg.Watch.MaxPerSecond, "RELIGHT_WATCH_MAX_PER_SECOND"))

	// Observability
	track("RELIGHT_OBSERVABILITY_METRICS_ADDR", setEnvString(&cfg.Observability.MetricsAddr, "RELIGHT_OBSERVABILITY_METRICS_ADDR"))
	track("RELIGHT_OBSERVABILITY_OTLP_ENDPOINT", setEnvString(&cfg.Observability.OTLPEndpoint, "RELIGHT_OBSERVABILITY_OTLP_ENDPOINT"))

	// Highlight
	track("RELIGHT_HIGHLIGHT_REFERENCES", setEnvBool(&cfg.Highlight.References, "RELIGHT_HIGHLIGHT_REFERENCES"))
	track("RELIGHT_HIGHLIGHT_EXIT_POINTS", setEnvBool(&cfg.Highlight.ExitPoints, "RELIGHT_HIGHLIGHT_EXIT_POINTS"))
	track("RELIGHT_HIGHLIGHT_BREAK_POINTS", setEnvBool(&cfg.Highlight.BreakPoints, "RELIGHT_HIGHLIGHT_BREAK_POINTS"))
	track("RELIGHT_HIGHLIGHT_CLOSURE_CAPTURES", setEnvBool(&cfg.Highlight.ClosureCaptures, "RELIGHT_HIGHLIGHT_CLOSURE_CAPTURES"))
	track("RELIGHT_HIGHLIGHT_YIELD_POINTS", setEnvBool(&cfg.Highlight.YieldPoints, "RELIGHT_HIGHLIGHT_YIELD_POINTS"))

	// Paths
	track("RELIGHT_PATHS_STATE_DIR", setEnvString(&cfg.Paths.StateDir, "RELIGHT_PATHS_STATE_DIR"))

	if len(applied) > 0 {
		normalize(cfg)
	}
	return applied
}

func setEnvString(target *string, key string) bool {
	if val, ok := os.LookupEnv(key); ok {
		*target = val
		return true
	}
	return false
}

func setEnvInt(target *int, key string) bool {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			*target = i
			return true
		}
	}
	return false
}

func setEnvBool(target **bool, key string) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			*target = &b
			return true
		}
	}
	return false
}

func setEnvFloat64(target *float64, key string) bool {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			*target = f
			return true
		}
	}
	return false
}

func setEnvDuration(target *time.Duration, key string) bool {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(val)); err == nil {
			*target = d
			return true
		}
	}
	return false
}
