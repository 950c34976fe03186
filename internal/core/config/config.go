// # internal/core/config/config.go
package config

import (
	"time"
)

const (
	CurrentVersion = 1
	DefaultFile    = "relight.toml"
)

type Config struct {
	Version       int           `toml:"version"`
	Highlight     Highlight     `toml:"highlight"`
	Sources       Sources       `toml:"sources"`
	Parser        Parser        `toml:"parser"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
	Log           Log           `toml:"log"`
	Paths         Paths         `toml:"paths"`
}

// Highlight holds the default feature toggles. A key missing from the file
// means enabled.
type Highlight struct {
	References      *bool `toml:"references"`
	ExitPoints      *bool `toml:"exit_points"`
	BreakPoints     *bool `toml:"break_points"`
	ClosureCaptures *bool `toml:"closure_captures"`
	YieldPoints     *bool `toml:"yield_points"`
}

// Sources restricts which paths may be highlighted. Patterns use glob
// syntax with `**` crossing directories.
type Sources struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

type Parser struct {
	PoolSize int `toml:"pool_size"`
}

type Watch struct {
	Debounce     time.Duration `toml:"debounce"`
	MaxPerSecond float64       `toml:"max_per_second"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

type Log struct {
	Level string `toml:"level"`
}

type Paths struct {
	// StateDir receives the interactive viewer's log file.
	StateDir string `toml:"state_dir"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Enabled reads an optional toggle, treating nil as true.
func Enabled(flag *bool) bool {
	return flag == nil || *flag
}

func boolPtr(v bool) *bool { return &v }
