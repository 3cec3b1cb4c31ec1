package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/WessleyAI/carhub/engine/catalog"
	"github.com/WessleyAI/carhub/engine/domain"
	"github.com/WessleyAI/carhub/engine/remote"
	"github.com/WessleyAI/carhub/pkg/config"
	"github.com/WessleyAI/carhub/pkg/kv"
)

// app is the state shared by every command. Fields left nil are opened
// from the configuration on first use.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	slot   kv.Store
	source remote.Source

	catalog *catalog.Service
	closers []func() error
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "garage",
		Short: "Browse sports cars and manage your favorites and compare list",
		Long: `garage reads the carhub catalog (remote store with a built-in static
fallback) and keeps your favorites and compare list on disk.

Configuration is read from $XDG_CONFIG_HOME/carhub/config.yaml, then the
file given with --config, then CARHUB_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}

	cmd.PersistentFlags().String("config", "", "Path to a config file")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("output", "o", "", "Output format: table, json or markdown")

	cmd.AddCommand(newCarsCmd(a))
	cmd.AddCommand(newStoreCmd(a, storeFavorites))
	cmd.AddCommand(newStoreCmd(a, storeCompare))
	cmd.AddCommand(newScoreCmd(a))
	cmd.AddCommand(newSeedCmd(a))
	cmd.AddCommand(newActivityCmd(a))

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.cfg == nil {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		a.cfg.Verbose = true
	}
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		a.cfg.Output = out
		if err := a.cfg.Validate(); err != nil {
			return err
		}
	}

	if a.logger == nil {
		level := slog.LevelWarn
		if a.cfg.Verbose {
			level = slog.LevelDebug
		}
		a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	}
	return nil
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// store returns the kv slot for the garage stores.
func (a *app) store() (kv.Store, error) {
	if a.slot == nil {
		fs, err := kv.NewFileStore(a.cfg.DataDir)
		if err != nil {
			return nil, err
		}
		a.slot = fs
	}
	return a.slot, nil
}

// openSource opens the configured remote store. An unreachable store is
// logged and replaced by remote.Disabled so reads fall back to static data.
func (a *app) openSource(ctx context.Context) remote.Source {
	var (
		src    remote.Source
		closer func() error
		err    error
	)
	switch a.cfg.Backend {
	case config.BackendSQL:
		var s *remote.SQLSource
		if s, err = remote.OpenSQLite(a.cfg.SQLitePath); err == nil {
			src, closer = s, s.Close
		}
	case config.BackendNeo4j:
		var g *remote.GraphSource
		if g, err = remote.OpenNeo4j(ctx, a.cfg.Neo4j.URL, a.cfg.Neo4j.User, a.cfg.Neo4j.Password); err == nil {
			src, closer = g, func() error { return g.Close(context.Background()) }
		}
	default:
		return remote.Disabled{}
	}
	if err != nil {
		a.logger.Warn("remote store unavailable, using static catalog", "backend", a.cfg.Backend, "err", err)
		return remote.Disabled{}
	}
	a.closers = append(a.closers, closer)
	return src
}

func (a *app) catalogService(ctx context.Context) *catalog.Service {
	if a.catalog == nil {
		if a.source == nil {
			a.source = a.openSource(ctx)
		}
		a.catalog = catalog.New(a.source, catalog.WithLogger(a.logger))
	}
	return a.catalog
}

// resolve looks a car up by slug and fails when it exists in neither source.
func (a *app) resolve(ctx context.Context, slug string) (domain.Vehicle, error) {
	res := a.catalogService(ctx).FetchBySlug(ctx, slug)
	logResolution(a.logger, "fetch_by_slug", res)
	if v := res.Value(); v != nil {
		return *v, nil
	}
	if c := res.Cause(); c != nil && !errors.Is(c, remote.ErrNotConfigured) {
		return domain.Vehicle{}, fmt.Errorf("look up %s: %w", slug, c)
	}
	return domain.Vehicle{}, fmt.Errorf("no car with slug %q", slug)
}

func logResolution[T any](logger *slog.Logger, op string, r catalog.Resolution[T]) {
	logger.Debug("catalog read", "op", op, "source", string(r.Source), "status", r.Status().String(), "err", r.Cause())
}

func (a *app) printer(w io.Writer) printer {
	return printer{w: w, format: a.cfg.Output}
}
