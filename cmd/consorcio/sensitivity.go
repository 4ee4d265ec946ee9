package main

import (
	"fmt"

	"github.com/rgehrsitz/consorcio/internal/calculation"
	"github.com/rgehrsitz/consorcio/internal/domain"
	"github.com/rgehrsitz/consorcio/internal/output"
	"github.com/spf13/cobra"
)

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity [input-file]",
	Short: "Perform sensitivity analysis on a consórcio simulation",
	Long: `Sweep plan parameters one at a time and report how the key metrics move.

Examples:
  # Single parameter sweep
  consorcio sensitivity plan.yaml --parameter annual_update_rate:0.03-0.10:8

  # Multiple parameter sweep
  consorcio sensitivity plan.yaml --parameter agio_percent:0.05-0.30:6 --parameter contemplation_month:12-120:10

  # Use predefined parameter sets
  consorcio sensitivity plan.yaml --parameter-set common --base casa-60 --output csv`,
	Args: cobra.ExactArgs(1),
	RunE: runSensitivityAnalysis,
}

var (
	sensitivityParameter    []string
	sensitivityBase         string
	sensitivityOutputFormat string
	sensitivityParameterSet string
)

func init() {
	sensitivityCmd.Flags().StringSliceVar(&sensitivityParameter, "parameter", []string{}, "Parameter to analyze (format: name:min-max[:steps])")
	sensitivityCmd.Flags().StringVar(&sensitivityBase, "base", "", "Base simulation name (defaults to the first one)")
	sensitivityCmd.Flags().StringVar(&sensitivityOutputFormat, "output", "table", "Output format (table, csv, json)")
	sensitivityCmd.Flags().StringVar(&sensitivityParameterSet, "parameter-set", "", "Use predefined parameter set (common, rates, timing)")
	sensitivityCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")

	rootCmd.AddCommand(sensitivityCmd)
}

func runSensitivityAnalysis(cmd *cobra.Command, args []string) error {
	in, err := loadSimulation(args[0], sensitivityBase)
	if err != nil {
		return err
	}

	var parameters []domain.SensitivityParameter
	switch {
	case sensitivityParameterSet != "":
		parameters, err = getPredefinedParameterSet(sensitivityParameterSet)
	case len(sensitivityParameter) > 0:
		parameters, err = parseCustomParameters(sensitivityParameter)
	default:
		err = fmt.Errorf("must specify either --parameter or --parameter-set (sweepable: %v)", calculation.SweepableParameters())
	}
	if err != nil {
		return err
	}

	analyzer := calculation.NewSensitivityAnalyzer(newEngine(cmd))
	analysis, err := analyzer.Analyze(cmd.Context(), in.Name, in.Parameters, parameters)
	if err != nil {
		return fmt.Errorf("sensitivity analysis failed: %w", err)
	}

	formatter := output.NewSensitivityFormatter(sensitivityOutputFormat)
	text, err := formatter.FormatSensitivityAnalysis(analysis)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), text)
	return nil
}

func getPredefinedParameterSet(setName string) ([]domain.SensitivityParameter, error) {
	switch setName {
	case "common":
		return []domain.SensitivityParameter{
			domain.AnnualUpdateSensitivity,
			domain.AgioSensitivity,
			domain.EmbeddedBidSensitivity,
			domain.ContemplationSensitivity,
		}, nil
	case "rates":
		return []domain.SensitivityParameter{
			domain.AnnualUpdateSensitivity,
			domain.AgioSensitivity,
		}, nil
	case "timing":
		return []domain.SensitivityParameter{
			domain.ContemplationSensitivity,
			domain.EmbeddedBidSensitivity,
		}, nil
	default:
		return nil, fmt.Errorf("unknown parameter set %q (valid: common, rates, timing)", setName)
	}
}

func parseCustomParameters(specs []string) ([]domain.SensitivityParameter, error) {
	parameters := make([]domain.SensitivityParameter, 0, len(specs))
	for _, spec := range specs {
		param, err := calculation.ParseSensitivityParameter(spec)
		if err != nil {
			return nil, err
		}
		parameters = append(parameters, param)
	}
	return parameters, nil
}
