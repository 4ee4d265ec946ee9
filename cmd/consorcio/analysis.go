package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/consorcio/internal/calculation"
	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/rgehrsitz/consorcio/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var capitalGainCmd = &cobra.Command{
	Use:   "capital-gain [input-file]",
	Short: "Compute the resale gain of a contemplated quota",
	Long: `Compute the profit and ROI of selling the quota at a target month with an ágio.

Examples:
  consorcio capital-gain plan.yaml --simulation casa-lance
  consorcio capital-gain plan.yaml --simulation casa-60 --month 72 --agio 0.25`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		simulation, _ := cmd.Flags().GetString("simulation")
		month, _ := cmd.Flags().GetInt("month")
		format, _ := cmd.Flags().GetString("format")

		in, err := loadSimulation(args[0], simulation)
		if err != nil {
			return err
		}
		if err := decimalFlag(cmd, "agio", &in.Parameters.AgioPercent); err != nil {
			return err
		}
		if month == 0 {
			month = in.Parameters.ContemplationMonth
		}

		result, err := newEngine(cmd).RunSimulation(cmd.Context(), in)
		if err != nil {
			return err
		}
		gain, err := calculation.CapitalGainAt(result.Rows, month, in.Parameters.AgioPercent)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch strings.ToLower(format) {
		case "json":
			data, err := json.MarshalIndent(gain, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
		case "console", "":
			fmt.Fprintf(out, "CAPITAL GAIN: %s at month %d\n", in.Name, gain.Month)
			fmt.Fprintln(out, strings.Repeat("=", 45))
			fmt.Fprintf(out, "%-28s %s\n", "Accessed credit:", output.FormatCurrency(gain.AccessedCredit))
			fmt.Fprintf(out, "%-28s %s (%s)\n", "Ágio:", output.FormatCurrency(gain.Agio), output.FormatPercentage(gain.AgioPercent))
			fmt.Fprintf(out, "%-28s %s\n", "Paid so far:", output.FormatCurrency(gain.PaidSoFar))
			fmt.Fprintf(out, "%-28s %s\n", "Profit:", output.FormatCurrency(gain.Profit))
			fmt.Fprintf(out, "%-28s %s\n", "ROI:", output.FormatPercentage(gain.ROI))
			fmt.Fprintf(out, "%-28s %s\n", "Break-even ágio:", output.FormatPercentage(gain.BreakEvenAgioPercent))
		default:
			return fmt.Errorf("unknown output format: %s (valid: console, json)", format)
		}
		return nil
	},
}

var leverageCmd = &cobra.Command{
	Use:   "leverage [input-file]",
	Short: "Model renting out properties bought with the accessed credit",
	Long: `Model patrimonial leverage: buy properties with the credit accessed at the
acquisition month, rent them out and follow the cash flow against the installments.

Flags override the leverage block of the simulation.

Examples:
  consorcio leverage plan.yaml --simulation casa-lance
  consorcio leverage plan.yaml --simulation casa-60 --property-value 150000 --mode monthly_rent --monthly-rent 0.006`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		simulation, _ := cmd.Flags().GetString("simulation")
		format, _ := cmd.Flags().GetString("format")

		in, err := loadSimulation(args[0], simulation)
		if err != nil {
			return err
		}

		lev := domain.LeverageInputs{Mode: domain.RentalShortStay}
		if in.Leverage != nil {
			lev = *in.Leverage
		}
		if err := leverageFlags(cmd, &lev); err != nil {
			return err
		}
		if !lev.PropertyValue.IsPositive() {
			return fmt.Errorf("simulation %s has no leverage block, set --property-value", in.Name)
		}
		in.Leverage = &lev

		result, err := newEngine(cmd).RunSimulation(cmd.Context(), in)
		if err != nil {
			return err
		}
		months, err := calculation.LeverageProjection(result.Rows, lev)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch strings.ToLower(format) {
		case "json":
			data, err := json.MarshalIndent(struct {
				Metrics *domain.LeverageMetrics `json:"metrics"`
				Months  []domain.LeverageMonth  `json:"months"`
			}{result.Leverage, months}, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
		case "console", "":
			fmt.Fprint(out, output.FormatLeverageProjection(*result.Leverage, months))
		default:
			return fmt.Errorf("unknown output format: %s (valid: console, json)", format)
		}
		return nil
	},
}

func leverageFlags(cmd *cobra.Command, lev *domain.LeverageInputs) error {
	if cmd.Flags().Changed("acquisition-month") {
		lev.AcquisitionMonth, _ = cmd.Flags().GetInt("acquisition-month")
	}
	if cmd.Flags().Changed("mode") {
		mode, _ := cmd.Flags().GetString("mode")
		lev.Mode = domain.RentalMode(mode)
	}
	for name, dst := range map[string]*decimal.Decimal{
		"property-value": &lev.PropertyValue,
		"daily-rate":     &lev.DailyRatePercent,
		"occupancy":      &lev.OccupancyDays,
		"monthly-rent":   &lev.MonthlyRentPercent,
		"expenses":       &lev.ExpensesPercent,
		"management":     &lev.ManagementPercent,
	} {
		if err := decimalFlag(cmd, name, dst); err != nil {
			return err
		}
	}
	return nil
}

// decimalFlag parses a string flag into dst when the user set it
func decimalFlag(cmd *cobra.Command, name string, dst *decimal.Decimal) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	raw, _ := cmd.Flags().GetString(name)
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid --%s value %q: %w", name, raw, err)
	}
	*dst = v
	return nil
}

func init() {
	capitalGainCmd.Flags().StringP("simulation", "s", "", "Simulation name (defaults to the first one)")
	capitalGainCmd.Flags().IntP("month", "m", 0, "Target month (defaults to the contemplation month)")
	capitalGainCmd.Flags().String("agio", "", "Ágio percentage as a fraction, e.g. 0.2 (defaults to the simulation's)")
	capitalGainCmd.Flags().StringP("format", "f", "console", "Output format (console, json)")
	capitalGainCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")

	leverageCmd.Flags().StringP("simulation", "s", "", "Simulation name (defaults to the first one)")
	leverageCmd.Flags().StringP("format", "f", "console", "Output format (console, json)")
	leverageCmd.Flags().Int("acquisition-month", 0, "Month the properties are bought (defaults to the contemplation month)")
	leverageCmd.Flags().String("mode", "", "Rental mode (short_stay, monthly_rent)")
	leverageCmd.Flags().String("property-value", "", "Value of each property")
	leverageCmd.Flags().String("daily-rate", "", "Daily rate as a fraction of the property value (short_stay)")
	leverageCmd.Flags().String("occupancy", "", "Occupied days per month (short_stay)")
	leverageCmd.Flags().String("monthly-rent", "", "Monthly rent as a fraction of the property value (monthly_rent)")
	leverageCmd.Flags().String("expenses", "", "Monthly expenses as a fraction of the patrimony")
	leverageCmd.Flags().String("management", "", "Management fee as a fraction of the gross income")
	leverageCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")

	rootCmd.AddCommand(capitalGainCmd)
	rootCmd.AddCommand(leverageCmd)
}
