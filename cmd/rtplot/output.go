package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/rtplot-go/pkg/rtplot/backend/raster"
	"github.com/ukaji3/rtplot-go/pkg/rtplot/backend/workbook"
	"github.com/ukaji3/rtplot-go/pkg/rtplot/canvas"
	"github.com/ukaji3/rtplot-go/pkg/rtplot/models"
)

const formatXLSX = "xlsx"

// outputFormat picks the explicit flag, then the output extension, then the
// configured default.
func outputFormat(flag, path, fallback string) (string, error) {
	f := flag
	if f == "" {
		f = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		switch f {
		case string(raster.FormatSVG), string(raster.FormatPNG), formatXLSX:
		default:
			f = fallback
		}
	}
	f = strings.ToLower(f)
	if f == formatXLSX {
		return f, nil
	}
	if _, err := raster.ParseFormat(f); err != nil {
		return "", fmt.Errorf("invalid format: %s (must be svg, png, or xlsx)", f)
	}
	return f, nil
}

// writeFigure encodes fig to path, or to stdout when path is empty.
func writeFigure(fig *canvas.Figure, format, path string, stdout io.Writer) (err error) {
	w := stdout
	if path != "" {
		f, createErr := os.Create(path)
		if createErr != nil {
			return createErr
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}

	if format == formatXLSX {
		return workbook.Write(fig, w)
	}
	return raster.Render(fig, raster.Format(format), w)
}

// writeJSON serializes v to path, or to w when path is empty.
func writeJSON(path string, w io.Writer, v any) error {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if path != "" {
		return os.WriteFile(path, data, 0644)
	}
	if w == nil {
		w = os.Stdout
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func inspectWorkbook(f *os.File) ([]models.ChartSummary, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return workbook.Inspect(f, info.Size())
}
