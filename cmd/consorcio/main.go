package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"

	"github.com/rgehrsitz/consorcio/internal/calculation"
	"github.com/rgehrsitz/consorcio/internal/compare"
	"github.com/rgehrsitz/consorcio/internal/config"
	"github.com/rgehrsitz/consorcio/internal/output"
	"github.com/rgehrsitz/consorcio/internal/transform"
	"github.com/spf13/cobra"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "consorcio %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(out, info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:           "consorcio",
	Short:         "Consórcio plan simulator CLI",
	Long:          "Projects consórcio schedules month by month: credit updates, installments, balance, capital gain and patrimonial leverage",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// newEngine builds a calculation engine, logging through the CLI logger in debug mode
func newEngine(cmd *cobra.Command) *calculation.CalculationEngine {
	engine := calculation.NewCalculationEngine()
	debugMode, _ := cmd.Flags().GetBool("debug")
	if debugMode {
		engine.SetLogger(simpleCLILogger{})
		engine.Debug = true
	}
	return engine
}

// loadSimulation reads the configuration file and resolves one simulation.
// An empty name selects the first simulation in the file.
func loadSimulation(inputFile, name string) (calculation.SimulationInput, error) {
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(inputFile)
	if err != nil {
		return calculation.SimulationInput{}, err
	}
	if name == "" {
		name = cfg.Simulations[0].Name
	}
	return parser.Resolve(cfg, name)
}

var projectCmd = &cobra.Command{
	Use:   "project [input-file]",
	Short: "Project the month-by-month schedule of a simulation",
	Long: `Project a consórcio simulation and print its report.

Examples:
  consorcio project plan.yaml --simulation casa-60
  consorcio project plan.yaml --simulation casa-60 --format csv
  consorcio project plan.yaml --format xlsx --out report.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		simulation, _ := cmd.Flags().GetString("simulation")
		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")

		f := output.GetFormatterByName(format)
		if f == nil {
			return fmt.Errorf("unknown output format %q (valid: %s; aliases: %s)", format,
				strings.Join(output.AvailableFormatterNames(), ", "), strings.Join(output.AvailableFormatAliases(), ", "))
		}
		if output.IsBinaryFormat(format) && outPath == "" {
			return fmt.Errorf("format %s is binary, use --out to choose a file", f.Name())
		}

		in, err := loadSimulation(args[0], simulation)
		if err != nil {
			return err
		}
		result, err := newEngine(cmd).RunSimulation(cmd.Context(), in)
		if err != nil {
			return err
		}

		if outPath == "" {
			return output.WriteReport(cmd.OutOrStdout(), result, format)
		}

		file, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outPath, err)
		}
		if err := output.WriteReport(file, result, format); err != nil {
			file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outPath)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate a configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]

		parser := config.NewInputParser()
		cfg, err := parser.LoadFromFile(inputFile)
		if err != nil {
			return err
		}
		for i := range cfg.Simulations {
			if _, err := parser.ResolveSimulation(cfg, &cfg.Simulations[i]); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file %s is valid (%d simulations)\n", inputFile, len(cfg.Simulations))
		return nil
	},
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List built-in plan templates and transforms",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprint(out, transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Transforms:")
		for _, name := range transform.NewTransformRegistry().List() {
			fmt.Fprintf(out, "  %s\n", name)
		}
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare [input-file]",
	Short: "Compare a simulation against plan variants",
	Long: `Compare a base consórcio simulation against templates or ad-hoc transforms.

Examples:
  consorcio compare plan.yaml --base casa-60 --with bid_25,contemplate_month_12
  consorcio compare plan.yaml --base casa-60 --with half_installment --format csv
  consorcio compare --list-templates  # Show all available templates
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		listTemplates, _ := cmd.Flags().GetBool("list-templates")
		if listTemplates {
			fmt.Fprint(out, transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("input file required for comparison (use --list-templates to see available templates)")
		}
		inputFile := args[0]

		baseName, _ := cmd.Flags().GetString("base")
		variants, _ := cmd.Flags().GetString("with")
		outputFormat, _ := cmd.Flags().GetString("format")

		entries := transform.ParseTemplateList(variants)
		if len(entries) == 0 {
			return fmt.Errorf("--with flag is required to specify variants to compare (or use --list-templates)")
		}

		base, err := loadSimulation(inputFile, baseName)
		if err != nil {
			return err
		}

		compareEngine := compare.NewCompareEngine(newEngine(cmd))
		comparisonSet, err := compareEngine.Compare(cmd.Context(), base, compare.CompareOptions{
			With:       entries,
			ConfigPath: inputFile,
		})
		if err != nil {
			return fmt.Errorf("comparison failed: %w", err)
		}

		switch strings.ToLower(outputFormat) {
		case "csv":
			formatter := &compare.CSVFormatter{}
			text, err := formatter.Format(comparisonSet)
			if err != nil {
				return fmt.Errorf("failed to format CSV: %w", err)
			}
			fmt.Fprint(out, text)
		case "json":
			formatter := &compare.JSONFormatter{Pretty: true}
			text, err := formatter.Format(comparisonSet)
			if err != nil {
				return fmt.Errorf("failed to format JSON: %w", err)
			}
			fmt.Fprint(out, text)
		case "compact":
			fmt.Fprint(out, (&compare.TableFormatter{}).FormatCompact(comparisonSet))
		case "table", "console", "":
			fmt.Fprint(out, (&compare.TableFormatter{}).Format(comparisonSet))
		default:
			return fmt.Errorf("unknown output format: %s (valid: table, compact, csv, json)", outputFormat)
		}
		return nil
	},
}

func init() {
	projectCmd.Flags().StringP("simulation", "s", "", "Simulation name (defaults to the first one)")
	projectCmd.Flags().StringP("format", "f", "console", "Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
	projectCmd.Flags().StringP("out", "o", "", "Write the report to this file instead of stdout")
	projectCmd.Flags().Bool("debug", false, "Enable debug output for every projected month")

	compareCmd.Flags().String("base", "", "Base simulation name (defaults to the first one)")
	compareCmd.Flags().String("with", "", "Comma-separated templates or transforms to compare (required)")
	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	compareCmd.Flags().Bool("list-templates", false, "List all available plan templates")
	compareCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
