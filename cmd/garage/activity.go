package main

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/WessleyAI/carhub/engine/activity"
	"github.com/WessleyAI/carhub/pkg/natsutil"
)

func newActivityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Inspect tracked activity",
	}
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Ask the API's activity recorder for its counters over NATS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.NATSURL == "" {
				return errors.New("activity stats needs natsUrl (or CARHUB_NATS_URL)")
			}
			timeout, _ := cmd.Flags().GetDuration("timeout")
			nc, err := natsutil.Connect(a.cfg.NATSURL, "carhub-garage", a.logger)
			if err != nil {
				return err
			}
			defer nc.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			st, err := activity.QueryStats(ctx, nc)
			if err != nil {
				return err
			}
			return printStats(a.printer(cmd.OutOrStdout()), st)
		},
	}
	stats.Flags().Duration("timeout", 5*time.Second, "How long to wait for a reply")
	cmd.AddCommand(stats)
	return cmd
}

func printStats(p printer, st activity.Stats) error {
	rows := [][]string{
		{"total", strconv.FormatInt(st.Total, 10)},
		{"sessions", strconv.Itoa(st.Sessions)},
	}
	for _, k := range activity.Kinds {
		rows = append(rows, []string{string(k), strconv.FormatInt(st.ByKind[k], 10)})
	}
	for _, c := range st.TopCars {
		rows = append(rows, []string{"car " + c.Slug, strconv.FormatInt(c.Count, 10)})
	}
	return p.emit(st, []string{"METRIC", "COUNT"}, rows)
}
