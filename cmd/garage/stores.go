package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/WessleyAI/carhub/engine/domain"
	"github.com/WessleyAI/carhub/engine/garage"
	"github.com/WessleyAI/carhub/pkg/kv"
)

// storeKind describes one of the two garage stores.
type storeKind struct {
	use   string
	alias string
	title string
	open  func(kv.Store, *slog.Logger) *garage.Store[garage.Entry]
}

var (
	storeFavorites = storeKind{use: "fav", alias: "favorites", title: "favorites", open: garage.Favorites}
	storeCompare   = storeKind{use: "compare", alias: "cmp", title: "compare list", open: garage.Compare}
)

func newStoreCmd(a *app, k storeKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:     k.use,
		Aliases: []string{k.alias},
		Short:   "Manage your " + k.title,
	}

	open := func() (*garage.Store[garage.Entry], error) {
		slot, err := a.store()
		if err != nil {
			return nil, err
		}
		return k.open(slot, a.logger), nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <slug>",
		Short: "Add a car",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			return addEntry(a, cmd, s, k, args[0], garage.ActionAdd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <slug>",
		Short: "Remove a car",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			st := s.Load(ctx)
			p := a.printer(cmd.OutOrStdout())
			if !s.Contains(st, args[0]) {
				return p.message("%s is not in your %s", args[0], k.title)
			}
			s.Reduce(ctx, st, garage.Action[garage.Entry]{Type: garage.ActionRemove, Slug: args[0]})
			return p.message("removed %s from your %s", args[0], k.title)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle <slug>",
		Short: "Add a car, or remove it if present",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			// Removal only needs the slug, so a present car is not resolved.
			if st := s.Load(ctx); s.Contains(st, args[0]) {
				s.Reduce(ctx, st, garage.Action[garage.Entry]{Type: garage.ActionToggle, Vehicle: domain.Vehicle{Slug: args[0]}})
				return a.printer(cmd.OutOrStdout()).message("removed %s from your %s", args[0], k.title)
			}
			return addEntry(a, cmd, s, k, args[0], garage.ActionToggle)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved cars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			st := s.Load(cmd.Context())
			rows := make([][]string, len(st.Items))
			for i, e := range st.Items {
				added := "-"
				if !e.AddedAt.IsZero() {
					added = e.AddedAt.Local().Format("2006-01-02 15:04")
				}
				rows[i] = []string{strconv.Itoa(i + 1), e.Slug, e.Name, orDash(string(e.Tier)), num(e.HP), orDash(e.PriceRange), added}
			}
			return a.printer(cmd.OutOrStdout()).emit(st, []string{"#", "SLUG", "NAME", "TIER", "HP", "PRICE", "ADDED"}, rows)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every car",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			s.Reduce(cmd.Context(), garage.Empty[garage.Entry](), garage.Action[garage.Entry]{Type: garage.ActionClear})
			return a.printer(cmd.OutOrStdout()).message("cleared your %s", k.title)
		},
	})

	return cmd
}

// addEntry resolves slug and dispatches typ (ADD or TOGGLE) for it. A full
// store is reported as an error wrapping garage.ErrCapacity; the stored
// state is left unchanged.
func addEntry(a *app, cmd *cobra.Command, s *garage.Store[garage.Entry], k storeKind, slug string, typ garage.ActionType) error {
	ctx := cmd.Context()
	p := a.printer(cmd.OutOrStdout())
	st := s.Load(ctx)
	if s.Contains(st, slug) {
		return p.message("%s is already in your %s", slug, k.title)
	}
	switch err := s.CanAdd(st, slug); {
	case errors.Is(err, garage.ErrCapacity):
		return fmt.Errorf("your %s is full (%d/%d): %w", k.title, st.Len(), s.Capacity, err)
	case err != nil:
		return fmt.Errorf("add %q: %w", slug, err)
	}
	v, err := a.resolve(ctx, slug)
	if err != nil {
		return err
	}
	next := s.Reduce(ctx, st, garage.Action[garage.Entry]{Type: typ, Vehicle: v})
	if next.Len() == st.Len() {
		return errors.New("car was not added")
	}
	return p.message("added %s to your %s (%d/%d)", v.Name, k.title, next.Len(), s.Capacity)
}
