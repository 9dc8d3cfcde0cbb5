// Package main provides the CLI entry point for rtplot-go.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/rtplot-go/internal/config"
	"github.com/ukaji3/rtplot-go/internal/telemetry"
	"github.com/ukaji3/rtplot-go/pkg/rtplot"
	"github.com/ukaji3/rtplot-go/pkg/rtplot/canvas"
	"github.com/ukaji3/rtplot-go/pkg/rtplot/input"
)

const serviceName = "rtplot"

var (
	outputPath  string
	format      string
	detail      string
	minDate     string
	summaryPath string
	pretty      bool
	verbose     bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rtplot",
		Short: "Render R_t estimates and test-count forecasts as charts",
		Long: `rtplot-go renders the outputs of an R_t model (posterior draws, test-count
forecasts and their components) as annotated SVG, PNG or XLSX charts.`,
		SilenceUsage: true,
	}

	renderCmds := []*cobra.Command{
		{
			Use:   "dashboard [bundle.json]",
			Short: "Render the four-panel R_t dashboard",
			Args:  cobra.ExactArgs(1),
			RunE:  runView(dashboardFigure),
		},
		{
			Use:   "forecast [bundle.json]",
			Short: "Render the test-count forecast detail",
			Args:  cobra.ExactArgs(1),
			RunE:  runView(forecastFigure),
		},
		{
			Use:   "components [bundle.json]",
			Short: "Render the forecast components",
			Args:  cobra.ExactArgs(1),
			RunE:  runView(componentsFigure),
		},
	}
	for _, c := range renderCmds {
		c.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
		c.Flags().StringVar(&format, "format", "", "Output format: svg, png, xlsx (default: from the output extension or RTPLOT_FORMAT)")
		c.Flags().StringVar(&detail, "detail", "", "Band detail: light, standard, verbose (default: RTPLOT_DETAIL)")
		c.Flags().StringVar(&minDate, "min-date", "", "First date of the forecast views, or none (default: RTPLOT_MIN_DATE)")
		c.Flags().StringVar(&summaryPath, "summary", "", "Write a JSON chart summary to this path")
		c.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
		rootCmd.AddCommand(c)
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [charts.xlsx]",
		Short: "List the charts of an exported workbook as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	inspectCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	inspectCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.AddCommand(inspectCmd)

	rootCmd.AddCommand(newImportCmd())
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log rendering warnings to stderr")
	return rootCmd
}

// figureFunc renders one view of a bundle.
type figureFunc func(ctx context.Context, r *rtplot.Renderer, b *input.Bundle) (*canvas.Figure, error)

func runView(view figureFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		shutdown, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint, cfg.OTelEnabled)
		if err != nil {
			return fmt.Errorf("telemetry setup failed: %w", err)
		}
		defer shutdown(context.Background())

		opts, err := renderOptions(cfg)
		if err != nil {
			return err
		}
		outFormat, err := outputFormat(format, outputPath, cfg.Format)
		if err != nil {
			return err
		}

		bundle, err := input.ReadBundle(args[0])
		if err != nil {
			return fmt.Errorf("failed to read bundle: %w", err)
		}
		fig, err := view(ctx, rtplot.New(opts), bundle)
		if err != nil {
			return err
		}

		if err := writeFigure(fig, outFormat, outputPath, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if summaryPath != "" {
			if err := writeJSON(summaryPath, nil, canvas.Describe(fig)); err != nil {
				return fmt.Errorf("failed to write summary: %w", err)
			}
		}
		return nil
	}
}

// renderOptions applies the command-line flags over the environment defaults.
func renderOptions(cfg config.Config) (rtplot.Options, error) {
	if detail != "" {
		cfg.Detail = detail
	}
	if minDate != "" {
		cfg.MinDate = minDate
	}
	opts, err := cfg.Options()
	if err != nil {
		return opts, err
	}
	if verbose || cfg.Verbose {
		opts.Logger = log.New(os.Stderr, "rtplot: ", 0)
	}
	opts.Tracer = telemetry.Tracer(serviceName)
	return opts, nil
}

func dashboardFigure(ctx context.Context, r *rtplot.Renderer, b *input.Bundle) (*canvas.Figure, error) {
	layout, err := r.TrendDashboard(ctx, b.Dashboard(), nil)
	if err != nil {
		return nil, err
	}
	return layout.Figure, nil
}

func forecastFigure(ctx context.Context, r *rtplot.Renderer, b *input.Bundle) (*canvas.Figure, error) {
	layout, err := r.ForecastDetail(ctx, b.ForecastResult, b.Forecast, b.Annotations, nil)
	if err != nil {
		return nil, err
	}
	return layout.Figure, nil
}

func componentsFigure(ctx context.Context, r *rtplot.Renderer, b *input.Bundle) (*canvas.Figure, error) {
	layout, err := r.ForecastComponents(ctx, b.Components, b.Annotations)
	if err != nil {
		return nil, err
	}
	return layout.Figure, nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	charts, err := inspectWorkbook(f)
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}
	var w io.Writer
	if outputPath == "" {
		w = cmd.OutOrStdout()
	}
	return writeJSON(outputPath, w, charts)
}
