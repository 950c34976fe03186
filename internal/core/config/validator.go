// # internal/core/config/validator.go
package config

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog"
	terrors "gitlab.com/tozd/go/errors"
)

// Validate checks cfg and returns every problem found.
func Validate(cfg *Config) []error {
	var errs []error
	for _, check := range []func(*Config) error{
		validateVersion,
		validateSources,
		validateParser,
		validateWatch,
		validateLog,
		validatePaths,
	} {
		if err := check(cfg); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func validateVersion(cfg *Config) error {
	if cfg.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version %d; supported version is %d", cfg.Version, CurrentVersion)
	}
	return nil
}

func validateSources(cfg *Config) error {
	if len(cfg.Sources.Include) == 0 {
		return fmt.Errorf("sources.include must not be empty")
	}
	for _, group := range []struct {
		name     string
		patterns []string
	}{
		{"sources.include", cfg.Sources.Include},
		{"sources.exclude", cfg.Sources.Exclude},
	} {
		for _, p := range group.patterns {
			if _, err := glob.Compile(p, '/'); err != nil {
				return fmt.Errorf("%s: invalid pattern %q: %v", group.name, p, err)
			}
		}
	}
	return nil
}

func validateParser(cfg *Config) error {
	if cfg.Parser.PoolSize < 1 {
		return fmt.Errorf("parser.pool_size must be >= 1, got %d", cfg.Parser.PoolSize)
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must be positive, got %s", cfg.Watch.Debounce)
	}
	if cfg.Watch.MaxPerSecond < 0 {
		return fmt.Errorf("watch.max_per_second must be positive, got %g", cfg.Watch.MaxPerSecond)
	}
	return nil
}

func validateLog(cfg *Config) error {
	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %v", err)
	}
	return nil
}

func validatePaths(cfg *Config) error {
	if strings.ContainsRune(cfg.Paths.StateDir, 0) {
		return fmt.Errorf("paths.state_dir contains a NUL byte")
	}
	return nil
}

func joinErrors(errs []error) error {
	return terrors.Join(errs...)
}
