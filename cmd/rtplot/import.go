package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/ukaji3/rtplot-go/pkg/rtplot/input"
	"github.com/ukaji3/rtplot-go/pkg/rtplot/models"
	"github.com/xuri/excelize/v2"
)

// importSheets names the worksheets read by the import command. Empty names
// and absent sheets are skipped.
type importSheets struct {
	forecast, history, result, components, events string
	historyStart                                 string
	base, region                                 string
}

func newImportCmd() *cobra.Command {
	var sheets importSheets
	cmd := &cobra.Command{
		Use:   "import [tables.xlsx]",
		Short: "Build a bundle from forecast and event tables kept in a workbook",
		Long: `import reads forecast, history, result, components and event tables from
an xlsx workbook and writes them as a bundle. Bundles ending in .zst are
zstd compressed. With --base the tables are merged into an existing bundle.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputPath == "" {
				return errors.New("an output path is required (-o)")
			}
			b, err := importBundle(args[0], sheets)
			if err != nil {
				return err
			}
			return input.WriteBundle(outputPath, b)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Bundle file path (.json or .json.zst)")
	cmd.Flags().StringVar(&sheets.base, "base", "", "Existing bundle to merge the tables into")
	cmd.Flags().StringVar(&sheets.region, "region", "", "Region name stored in the bundle")
	cmd.Flags().StringVar(&sheets.forecast, "forecast-sheet", "forecast", "Sheet with ds, yhat, yhat_lower, yhat_upper")
	cmd.Flags().StringVar(&sheets.history, "history-sheet", "history", "Sheet with the forecast training data")
	cmd.Flags().StringVar(&sheets.result, "result-sheet", "result", "Sheet with the smoothed result series")
	cmd.Flags().StringVar(&sheets.components, "components-sheet", "components", "Sheet with the forecast components")
	cmd.Flags().StringVar(&sheets.events, "events-sheet", "events", "Sheet with event dates and labels")
	cmd.Flags().StringVar(&sheets.historyStart, "history-start", "", "First training date of the components (default: first history date)")
	return cmd
}

func importBundle(path string, sheets importSheets) (*input.Bundle, error) {
	b := &input.Bundle{}
	if sheets.base != "" {
		base, err := input.ReadBundle(sheets.base)
		if err != nil {
			return nil, fmt.Errorf("failed to read base bundle: %w", err)
		}
		b = base
	}
	if sheets.region != "" {
		b.Region = sheets.region
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	has := func(sheet string) bool {
		if sheet == "" {
			return false
		}
		idx, err := f.GetSheetIndex(sheet)
		return err == nil && idx >= 0
	}

	if has(sheets.forecast) && has(sheets.history) {
		if b.Forecast, err = input.ReadForecastTable(f, sheets.forecast, sheets.history); err != nil {
			return nil, err
		}
	}
	if has(sheets.result) {
		if b.ForecastResult, err = input.ReadSeries(f, sheets.result); err != nil {
			return nil, err
		}
	}
	if has(sheets.components) {
		start, err := componentsStart(sheets.historyStart, b.Forecast)
		if err != nil {
			return nil, err
		}
		if b.Components, err = input.ReadComponentTable(f, sheets.components, start); err != nil {
			return nil, err
		}
	}
	if has(sheets.events) {
		if b.Annotations, err = input.ReadNamedDates(f, sheets.events); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// componentsStart returns the explicit history start, else the first
// forecast training date, else the zero time.
func componentsStart(flag string, forecast *models.ForecastTable) (time.Time, error) {
	if flag != "" {
		return models.ParseDate(flag)
	}
	if forecast == nil {
		return time.Time{}, nil
	}
	start, err := forecast.HistoryStart()
	if errors.Is(err, models.ErrEmptyHistory) {
		return time.Time{}, nil
	}
	return start, err
}
