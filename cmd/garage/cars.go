package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/WessleyAI/carhub/engine/catalog"
	"github.com/WessleyAI/carhub/engine/domain"
)

func newCarsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cars",
		Short: "Browse the catalog",
	}
	cmd.AddCommand(newCarsListCmd(a), newCarsShowCmd(a), newCarsSearchCmd(a))
	return cmd
}

func newCarsListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cars, cheapest first",
		Example: `  garage cars list
  garage cars list --tier budget
  garage cars list --category Mid-Engine -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			tier, _ := cmd.Flags().GetString("tier")
			category, _ := cmd.Flags().GetString("category")

			svc := a.catalogService(ctx)
			var res catalog.Resolution[[]domain.Vehicle]
			switch {
			case tier != "":
				res = svc.FetchByTier(ctx, domain.Tier(tier))
			case category != "":
				res = svc.FetchByCategory(ctx, domain.Category(category))
			default:
				res = svc.FetchAll(ctx)
			}
			logResolution(a.logger, "list", res)
			return printCars(a.printer(cmd.OutOrStdout()), res.Value())
		},
	}
	cmd.Flags().StringP("tier", "t", "", "Only cars in this price tier (budget, mid, upper-mid, premium)")
	cmd.Flags().StringP("category", "c", "", "Only cars with this layout (Front-Engine, Mid-Engine, Rear-Engine)")
	return cmd
}

func newCarsSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search names, engines and notes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			res := a.catalogService(ctx).Search(ctx, strings.Join(args, " "))
			logResolution(a.logger, "search", res)
			return printCars(a.printer(cmd.OutOrStdout()), res.Value())
		},
	}
}

func newCarsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug>",
		Short: "Show one car with its maintenance data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.resolve(ctx, args[0]); err != nil {
				return err
			}
			res := a.catalogService(ctx).FetchDetail(ctx, args[0])
			logResolution(a.logger, "detail", res)
			for _, w := range res.Warnings {
				a.logger.Info("partial detail", "warning", w)
			}
			d := res.Value()
			if d == nil {
				return fmt.Errorf("no car with slug %q", args[0])
			}
			v := d.Vehicle
			rows := [][]string{
				{"Name", v.Name},
				{"Brand", orDash(v.Brand)},
				{"Years", orDash(v.Years)},
				{"Tier", orDash(string(v.Tier))},
				{"Layout", orDash(string(v.Category)) + " / " + orDash(string(v.Drivetrain))},
				{"Engine", orDash(v.Engine)},
				{"Power", num(v.HP) + " hp / " + num(v.Torque) + " lb-ft"},
				{"0-60", num(v.ZeroToSixty) + " s"},
				{"Price", orDash(v.PriceRange)},
			}
			if d.Maintenance != nil {
				rows = append(rows, []string{"Oil", orDash(d.Maintenance.OilType)})
			}
			for _, i := range d.KnownIssues {
				rows = append(rows, []string{"Known issue", i.Title})
			}
			return a.printer(cmd.OutOrStdout()).emit(d, []string{"FIELD", "VALUE"}, rows)
		},
	}
}

func printCars(p printer, cars []domain.Vehicle) error {
	if cars == nil {
		cars = []domain.Vehicle{}
	}
	rows := make([][]string, len(cars))
	for i, v := range cars {
		rows[i] = []string{v.Slug, v.Name, orDash(string(v.Tier)), orDash(string(v.Category)), num(v.HP), orDash(v.PriceRange)}
	}
	return p.emit(cars, []string{"SLUG", "NAME", "TIER", "LAYOUT", "HP", "PRICE"}, rows)
}
