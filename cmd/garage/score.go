package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/WessleyAI/carhub/engine/tunability"
)

func newScoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "score <slug>",
		Short: "Rate how easy a car is to modify",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			r := tunability.Score(v)
			rows := [][]string{{"Score", fmt.Sprintf("%.1f/10 %s", r.Score, r.Label)}}
			for _, f := range r.Factors {
				rows = append(rows, []string{f.Factor, fmt.Sprintf("%+.1f", f.Impact)})
			}
			return a.printer(cmd.OutOrStdout()).emit(r, []string{v.Name, r.Description}, rows)
		},
	}
}
