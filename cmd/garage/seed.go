package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/WessleyAI/carhub/engine/catalog"
	"github.com/WessleyAI/carhub/engine/remote"
	"github.com/WessleyAI/carhub/pkg/config"
)

func newSeedCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the built-in catalog into the remote store",
		Long: `Seed upserts every car of the built-in catalog into the configured
remote store (sql or neo4j). Existing rows with the same slug are replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			workers, _ := cmd.Flags().GetInt("workers")
			w, closeW, err := a.openWriter(cmd.Context())
			if err != nil {
				return err
			}
			defer closeW()

			n, err := seed(cmd.Context(), w, workers)
			if err != nil {
				return err
			}
			return a.printer(cmd.OutOrStdout()).message("seeded %d cars into the %s store", n, a.cfg.Backend)
		},
	}
	cmd.Flags().IntP("workers", "w", 4, "Concurrent upserts")
	return cmd
}

// openWriter opens the configured store for writing. Unlike reads, seeding
// fails when the store is unreachable.
func (a *app) openWriter(ctx context.Context) (remote.Writer, func() error, error) {
	switch a.cfg.Backend {
	case config.BackendSQL:
		s, err := remote.OpenSQLite(a.cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendNeo4j:
		g, err := remote.OpenNeo4j(ctx, a.cfg.Neo4j.URL, a.cfg.Neo4j.User, a.cfg.Neo4j.Password)
		if err != nil {
			return nil, nil, err
		}
		return g, func() error { return g.Close(context.Background()) }, nil
	default:
		return nil, nil, fmt.Errorf("seed: backend %q cannot be written", a.cfg.Backend)
	}
}

// seed upserts the static catalog with at most workers concurrent writes.
func seed(ctx context.Context, w remote.Writer, workers int) (int, error) {
	cars := catalog.Static()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))
	for _, v := range cars {
		g.Go(func() error {
			if err := w.UpsertCar(ctx, remote.RowFromVehicle(v)); err != nil {
				return fmt.Errorf("seed %s: %w", v.Slug, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(cars), nil
}
