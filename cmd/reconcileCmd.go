package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/KotFed0t/isin_resolver/config"
	"github.com/KotFed0t/isin_resolver/internal/reportGenerator/csvGenerator"
	"github.com/KotFed0t/isin_resolver/internal/reportGenerator/xslsxGenerator"
	"github.com/KotFed0t/isin_resolver/internal/service"
	"github.com/KotFed0t/isin_resolver/utils"
	"github.com/google/subcommands"
)

// reconcileCmd implements the "reconcile" command.
type reconcileCmd struct {
	cfg *config.Config

	review string
	out    string
	xlsx   string
	upload bool
}

func (*reconcileCmd) Name() string     { return "reconcile" }
func (*reconcileCmd) Synopsis() string { return "decides one ticker per ISIN from a reviewed workbook" }
func (*reconcileCmd) Usage() string {
	return `reconcile -review <review.xlsx> [-out file.csv] [-xlsx file.xlsx] [-upload]

Reads the workbook written by resolve and picks one final ticker per ISIN:
  single   - ManualTicker if filled, else the proposed Symbol
  multiple - ManualTicker of the Chosen row, else the Chosen Symbol,
             else the first Symbol in alphabetical order,
             else a ManualTicker typed on the empty row of the ISIN
An ISIN with more than one Chosen row is rejected.

Every final ticker is quoted again and the table is written as CSV with a BOM.
`
}

func (c *reconcileCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.review, "review", "review.xlsx", "reviewed workbook")
	f.StringVar(&c.out, "out", csvGenerator.DefaultFileName, "final CSV to write")
	f.StringVar(&c.xlsx, "xlsx", "", "also write the final table as a workbook")
	f.BoolVar(&c.upload, "upload", false, "upload the final CSV to Google Drive and print a shared link")
}

func (c *reconcileCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = utils.CreateCtxWithRunID(ctx)
	runID := utils.GetRunIDFromCtx(ctx)
	op := "reconcileCmd.Execute"

	file, err := os.Open(c.review)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not open %s: %v\n", c.review, err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	selections, err := xslsxGenerator.New().ReadSelections(ctx, file)
	if err != nil {
		slog.Error("failed to read review workbook", slog.String("runID", runID), slog.String("op", op), slog.String("err", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: could not read %s: %v\n", c.review, err)
		return subcommands.ExitFailure
	}

	svc, cleanup, err := newResolver(ctx, c.cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	res, err := svc.Reconcile(ctx, selections)
	printWarnings(os.Stderr, res.Warnings)
	if err != nil {
		if errors.Is(err, service.ErrNoFinalTickers) {
			fmt.Fprintf(os.Stderr, "Error: no final ticker could be decided, check the selections\n")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return subcommands.ExitFailure
	}

	found := 0
	for _, q := range res.Quotes {
		if q.Found {
			found++
		}
	}
	printFinal(os.Stdout, res.Quotes)
	fmt.Printf("final tickers: %d, quoted: %d\n", len(res.Quotes), found)

	err = exportFinal(ctx, c.cfg, os.Stdout, res.Quotes, exportOptions{csvPath: c.out, xlsxPath: c.xlsx, upload: c.upload})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
