// # cmd/relight/root.go
package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	coreapp "relight/internal/core/app"
	"relight/internal/core/config"
	"relight/internal/shared/observability"
	"relight/internal/shared/util"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
)

type globalFlags struct {
	configPath string
	verbose    bool
}

func newRootCommand() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "relight",
		Short:         "Highlight the code related to a cursor position in Rust sources",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		cmd.Version = info.Main.Version
	} else {
		cmd.Version = "unknown"
	}

	cmd.PersistentFlags().StringVar(&g.configPath, "config", config.DefaultFile, "path to the config file")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newHighlightCommand(g),
		newWatchCommand(g),
		newViewCommand(g),
		newVersionCommand(),
	)
	return cmd
}

// session is what every command needs once flags are parsed.
type session struct {
	cfg      *config.Config
	app      *coreapp.App
	closers  []func(context.Context) error
	logClose io.Closer
}

// open loads config, installs the logger on ctx, starts tracing and builds
// the app. With logToFile the log goes under the state dir instead of
// stderr.
func (g *globalFlags) open(ctx context.Context, logToFile bool) (context.Context, *session, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return ctx, nil, err
	}

	s := &session{cfg: cfg}
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr}
	if logToFile {
		f, err := util.OpenAppend(afero.NewOsFs(), filepath.Join(cfg.Paths.StateDir, "relight.log"))
		if err != nil {
			return ctx, nil, errors.Errorf("open log file: %w", err)
		}
		out, s.logClose = f, f
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if g.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(out).Level(level).With().Timestamp().Str("component", "relight").Logger()
	ctx = logger.WithContext(ctx)

	shutdown, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint)
	if err != nil {
		logger.Warn().Err(err).Msg("tracing disabled")
	} else {
		s.closers = append(s.closers, shutdown)
	}

	app, err := coreapp.New(cfg)
	if err != nil {
		s.close(ctx)
		return ctx, nil, err
	}
	s.app = app
	s.closers = append(s.closers, app.Close)
	return ctx, s, nil
}

// serveMetrics starts the /metrics and /health server when configured.
func (s *session) serveMetrics(ctx context.Context) {
	addr := s.cfg.Observability.MetricsAddr
	if addr == "" {
		return
	}
	srv := observability.NewServer(addr, coreapp.NewHealthService(s.app).Check)
	if err := srv.Start(ctx); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("metrics server not started")
		return
	}
	s.closers = append(s.closers, srv.Stop)
}

// watchConfig hot-reloads the config file into the running app.
func (s *session) watchConfig(ctx context.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	w := config.NewWatcher(path, func(cfg *config.Config) {
		if err := s.app.SetConfig(cfg); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("config reload rejected")
			return
		}
		zerolog.Ctx(ctx).Info().Msg("config reloaded")
	})
	if err := w.Start(ctx); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("config watcher not started")
		return
	}
	s.closers = append(s.closers, func(context.Context) error {
		w.Stop()
		return nil
	})
}

func (s *session) close(ctx context.Context) {
	var err error
	for i := len(s.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, s.closers[i](context.WithoutCancel(ctx)))
	}
	for _, e := range multierr.Errors(err) {
		zerolog.Ctx(ctx).Debug().Err(e).Msg("shutdown")
	}
	if s.logClose != nil {
		_ = s.logClose.Close()
	}
}
