package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KotFed0t/isin_resolver/config"
	"github.com/KotFed0t/isin_resolver/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/KotFed0t/isin_resolver/internal/model"
	"github.com/KotFed0t/isin_resolver/internal/reportGenerator/csvGenerator"
	"github.com/KotFed0t/isin_resolver/internal/reportGenerator/xslsxGenerator"
)

type exportOptions struct {
	csvPath  string
	xlsxPath string
	upload   bool
}

// exportFinal writes the final table and optionally publishes the CSV to Google Drive.
func exportFinal(ctx context.Context, cfg *config.Config, w io.Writer, quotes []model.FinalQuote, opts exportOptions) error {
	csvBytes, _, err := csvGenerator.New().GenerateFinal(ctx, quotes)
	if err != nil {
		return fmt.Errorf("generate csv: %w", err)
	}
	if err := os.WriteFile(opts.csvPath, csvBytes, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.csvPath, err)
	}
	fmt.Fprintf(w, "final table written to %s\n", opts.csvPath)

	if opts.xlsxPath != "" {
		xlsxBytes, _, err := xslsxGenerator.New().GenerateFinal(ctx, quotes)
		if err != nil {
			return fmt.Errorf("generate xlsx: %w", err)
		}
		if err := os.WriteFile(opts.xlsxPath, xlsxBytes, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.xlsxPath, err)
		}
		fmt.Fprintf(w, "final workbook written to %s\n", opts.xlsxPath)
	}

	if !opts.upload {
		return nil
	}

	drive, err := googleDriveApi.New(ctx, cfg)
	if err != nil {
		return err
	}
	if err := drive.DeleteOldFiles(ctx); err != nil {
		fmt.Fprintf(w, "Warning: could not prune old uploads: %v\n", err)
	}

	link, err := drive.UploadFile(ctx, bytes.NewReader(csvBytes), filepath.Base(opts.csvPath))
	if err != nil {
		return fmt.Errorf("upload to google drive: %w", err)
	}
	fmt.Fprintf(w, "shared link: %s\n", link)

	return nil
}

func printFinal(w io.Writer, quotes []model.FinalQuote) {
	for _, q := range quotes {
		price := "n/a"
		if q.Found {
			price = q.Price.StringFixed(2) + " " + q.Currency
		}
		fmt.Fprintf(w, "%-14s %-12s %14s  %s\n", q.ISIN, q.Symbol, strings.TrimSpace(price), q.Name)
	}
}

func printWarnings(w io.Writer, warnings []model.Warning) {
	if len(warnings) == 0 {
		return
	}

	fmt.Fprintf(w, "%d warning(s):\n", len(warnings))
	for _, warn := range warnings {
		subject := warn.ISIN
		if warn.Symbol != "" {
			subject += " " + warn.Symbol
		}
		fmt.Fprintf(w, "  [%s] %s: %s\n", warn.Code, strings.TrimSpace(subject), warn.Message)
	}
}
