package main

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/consorcio/internal/breakeven"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize [input-file]",
	Short: "Search the ágio, contemplation month or embedded bid for a goal",
	Long: `Search one plan parameter for the value that best meets a goal.

Targets:
  agio                 Ágio needed to reach --target-roi (match_roi only)
  contemplation_month  Contemplation month, scanned month by month
  embedded_bid         Embedded bid share, scanned on an even grid
  all                  Every target, compared side by side

Goals:
  match_roi        Reach --target-roi (latest month or largest bid that still does)
  maximize_roi     Highest resale ROI
  minimize_cost    Lowest total paid over the term
  maximize_credit  Most credit accessed at contemplation

Examples:
  consorcio optimize plan.yaml -s casa-lance --target contemplation_month --goal maximize_roi
  consorcio optimize plan.yaml -s casa-60 --target agio --goal match_roi --target-roi 0
  consorcio optimize plan.yaml -s casa-lance --target all --goal match_roi --target-roi 0.1 --month 24`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		simulation, _ := cmd.Flags().GetString("simulation")
		targetName, _ := cmd.Flags().GetString("target")
		goalName, _ := cmd.Flags().GetString("goal")
		format, _ := cmd.Flags().GetString("format")

		target, err := breakeven.ParseTarget(targetName)
		if err != nil {
			return err
		}
		goal, err := breakeven.ParseGoal(goalName)
		if err != nil {
			return err
		}
		format = strings.ToLower(format)
		switch format {
		case "table", "json":
		default:
			return fmt.Errorf("unknown output format: %s (valid: table, json)", format)
		}

		in, err := loadSimulation(args[0], simulation)
		if err != nil {
			return err
		}

		constraints := breakeven.DefaultConstraints(in.Parameters.TermMonths)
		if err := optimizeConstraints(cmd, &constraints); err != nil {
			return err
		}

		solver := breakeven.NewDefaultSolver(newEngine(cmd))
		out := cmd.OutOrStdout()

		if target == breakeven.OptimizeAll {
			result, err := solver.OptimizeAllTargets(cmd.Context(), in, constraints, goal)
			if err != nil {
				return fmt.Errorf("optimization failed: %w", err)
			}
			if format == "json" {
				data, err := (&breakeven.JSONFormatter{Pretty: true}).FormatMultiDimensional(result)
				if err != nil {
					return fmt.Errorf("failed to format JSON: %w", err)
				}
				fmt.Fprintln(out, data)
				return nil
			}
			fmt.Fprint(out, (&breakeven.TableFormatter{}).FormatMultiDimensional(result))
			return nil
		}

		result, err := solver.Optimize(cmd.Context(), breakeven.OptimizationRequest{
			Base:        in,
			Target:      target,
			Goal:        goal,
			Constraints: constraints,
		})
		if err != nil {
			return fmt.Errorf("optimization failed: %w", err)
		}
		if format == "json" {
			data, err := (&breakeven.JSONFormatter{Pretty: true}).Format(result)
			if err != nil {
				return fmt.Errorf("failed to format JSON: %w", err)
			}
			fmt.Fprintln(out, data)
			return nil
		}
		fmt.Fprint(out, (&breakeven.TableFormatter{}).Format(result))
		return nil
	},
}

// optimizeConstraints narrows the default constraints with the bound flags
func optimizeConstraints(cmd *cobra.Command, c *breakeven.Constraints) error {
	for name, dst := range map[string]**decimal.Decimal{
		"target-roi": &c.TargetROI,
		"min-agio":   &c.MinAgio,
		"max-agio":   &c.MaxAgio,
		"min-bid":    &c.MinEmbeddedPercentage,
		"max-bid":    &c.MaxEmbeddedPercentage,
	} {
		if !cmd.Flags().Changed(name) {
			continue
		}
		var v decimal.Decimal
		if err := decimalFlag(cmd, name, &v); err != nil {
			return err
		}
		*dst = &v
	}

	if cmd.Flags().Changed("min-month") {
		v, _ := cmd.Flags().GetInt("min-month")
		c.MinContemplationMonth = &v
	}
	if cmd.Flags().Changed("max-month") {
		v, _ := cmd.Flags().GetInt("max-month")
		c.MaxContemplationMonth = &v
	}
	c.TargetMonth, _ = cmd.Flags().GetInt("month")
	return nil
}

func init() {
	optimizeCmd.Flags().StringP("simulation", "s", "", "Simulation name (defaults to the first one)")
	optimizeCmd.Flags().String("target", string(breakeven.OptimizeContemplation), "Parameter to optimize (agio, contemplation_month, embedded_bid, all)")
	optimizeCmd.Flags().String("goal", string(breakeven.GoalMaximizeROI), "Goal (match_roi, maximize_roi, minimize_cost, maximize_credit)")
	optimizeCmd.Flags().String("target-roi", "", "ROI to reach for match_roi, e.g. 0.1")
	optimizeCmd.Flags().IntP("month", "m", 0, "Month the quota is sold (defaults to the contemplation month)")
	optimizeCmd.Flags().String("min-agio", "", "Lowest ágio to consider")
	optimizeCmd.Flags().String("max-agio", "", "Highest ágio to consider")
	optimizeCmd.Flags().Int("min-month", 0, "Earliest contemplation month to consider")
	optimizeCmd.Flags().Int("max-month", 0, "Latest contemplation month to consider")
	optimizeCmd.Flags().String("min-bid", "", "Smallest embedded bid share to consider")
	optimizeCmd.Flags().String("max-bid", "", "Largest embedded bid share to consider")
	optimizeCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	optimizeCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")

	rootCmd.AddCommand(optimizeCmd)
}
