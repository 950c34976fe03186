// # internal/core/config/loader.go
package config

import (
	"os"
	"strings"
	"time"

	"relight/internal/core/errors"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
)

// Load reads path from the OS filesystem. See LoadFs.
func Load(path string) (*Config, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs reads, defaults, overrides from the environment and validates the
// configuration at path. A missing file yields the defaults.
func LoadFs(fs afero.Fs, path string) (*Config, error) {
	var cfg Config
	data, err := afero.ReadFile(fs, path)
	switch {
	case err == nil:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, errors.AddContext(
				errors.Wrap(err, errors.CodeValidationError, "decode config"),
				errors.CtxPath, path,
			)
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.AddContext(
			errors.Wrap(err, errors.CodeInternal, "read config"),
			errors.CtxPath, path,
		)
	}

	applyDefaults(&cfg)
	normalize(&cfg)
	ApplyEnvOverrides(&cfg)

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.AddContext(
			errors.Wrap(joinErrors(errs), errors.CodeValidationError, "invalid config"),
			errors.CtxPath, path,
		)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = CurrentVersion
	}

	h := &cfg.Highlight
	for _, flag := range []**bool{&h.References, &h.ExitPoints, &h.BreakPoints, &h.ClosureCaptures, &h.YieldPoints} {
		if *flag == nil {
			*flag = boolPtr(true)
		}
	}

	if len(cfg.Sources.Include) == 0 {
		cfg.Sources.Include = []string{"**.rs"}
	}
	if cfg.Sources.Exclude == nil {
		cfg.Sources.Exclude = []string{"**/target/**"}
	}

	if cfg.Parser.PoolSize <= 0 {
		cfg.Parser.PoolSize = 4
	}

	// Default debounce if not set.
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 200 * time.Millisecond
	}
	if cfg.Watch.MaxPerSecond == 0 {
		cfg.Watch.MaxPerSecond = 5
	}

	if strings.TrimSpace(cfg.Log.Level) == "" {
		cfg.Log.Level = "info"
	}
	if strings.TrimSpace(cfg.Paths.StateDir) == "" {
		cfg.Paths.StateDir = ".relight/state"
	}
}

func normalize(cfg *Config) {
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Observability.MetricsAddr = strings.TrimSpace(cfg.Observability.MetricsAddr)
	cfg.Observability.OTLPEndpoint = strings.TrimSpace(cfg.Observability.OTLPEndpoint)
	cfg.Sources.Include = normalizePatterns(cfg.Sources.Include)
	cfg.Sources.Exclude = normalizePatterns(cfg.Sources.Exclude)
}

func normalizePatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = NormalizePattern(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
