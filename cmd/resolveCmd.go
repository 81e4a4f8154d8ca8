package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/KotFed0t/isin_resolver/config"
	"github.com/KotFed0t/isin_resolver/internal/model"
	"github.com/KotFed0t/isin_resolver/internal/reader/degiroReader"
	"github.com/KotFed0t/isin_resolver/internal/reportGenerator/csvGenerator"
	"github.com/KotFed0t/isin_resolver/internal/reportGenerator/xslsxGenerator"
	"github.com/KotFed0t/isin_resolver/internal/service"
	"github.com/KotFed0t/isin_resolver/internal/service/resolverService"
	"github.com/KotFed0t/isin_resolver/utils"
	"github.com/google/subcommands"
)

// resolveCmd implements the "resolve" command.
type resolveCmd struct {
	cfg *config.Config

	in     string
	review string
	auto   bool
	out    string
	xlsx   string
	upload bool
}

func (*resolveCmd) Name() string     { return "resolve" }
func (*resolveCmd) Synopsis() string { return "maps broker ISINs to quoted market-data symbols" }
func (*resolveCmd) Usage() string {
	return `resolve -in <broker export.csv> [-review review.xlsx] [-auto [-out file.csv] [-xlsx file.xlsx] [-upload]]

Reads the ISIN column of a broker export, looks every ISIN up in OpenFIGI,
keeps the listings on exchanges the broker supports and probes the derived
Yahoo symbols for a live price.

Quoted symbols are written to a review workbook: sheet "single" for ISINs with
one quoted symbol, sheet "multiple" for the rest. Edit it and run reconcile.
With -auto the review is skipped and the defaults are reconciled at once.
`
}

func (c *resolveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.in, "in", "", "broker CSV export with an ISIN column (required)")
	f.StringVar(&c.review, "review", "review.xlsx", "review workbook to write")
	f.BoolVar(&c.auto, "auto", false, "skip the manual review and reconcile the proposed symbols")
	f.StringVar(&c.out, "out", csvGenerator.DefaultFileName, "final CSV written with -auto")
	f.StringVar(&c.xlsx, "xlsx", "", "also write the final table as a workbook with -auto")
	f.BoolVar(&c.upload, "upload", false, "upload the final CSV to Google Drive with -auto")
}

func (c *resolveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.in == "" {
		fmt.Fprintf(os.Stderr, "Error: -in is required\n\n%s", c.Usage())
		return subcommands.ExitUsageError
	}

	ctx = utils.CreateCtxWithRunID(ctx)
	runID := utils.GetRunIDFromCtx(ctx)
	op := "resolveCmd.Execute"

	isins, err := degiroReader.New(c.cfg).ReadFile(c.in)
	if err != nil {
		slog.Error("failed to read broker export", slog.String("runID", runID), slog.String("op", op), slog.String("err", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: could not read %s: %v\n", c.in, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("unique ISINs after cleanup: %d\n", len(isins))

	svc, cleanup, err := newResolver(ctx, c.cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer cleanup()

	res, err := svc.Resolve(ctx, isins)
	printWarnings(os.Stderr, res.Warnings)
	if err != nil {
		if errors.Is(err, service.ErrEmptyResult) {
			fmt.Fprintf(os.Stderr, "Error: no valid quote was found for any ISIN, check the input data (%v)\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return subcommands.ExitFailure
	}

	printResolveSummary(res)

	if c.auto {
		return c.reconcileDefaults(ctx, svc, res.Review)
	}

	fileBytes, _, err := xslsxGenerator.New().GenerateReview(ctx, res.Review)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not build review workbook: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := os.WriteFile(c.review, fileBytes, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not write %s: %v\n", c.review, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("review workbook written to %s\n", c.review)
	fmt.Printf("mark Chosen or fill ManualTicker where needed, then run: reconcile -review %s\n", c.review)

	return subcommands.ExitSuccess
}

func (c *resolveCmd) reconcileDefaults(ctx context.Context, svc *resolverService.ResolverService, review model.Review) subcommands.ExitStatus {
	res, err := svc.Reconcile(ctx, resolverService.DefaultSelections(review))
	printWarnings(os.Stderr, res.Warnings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printFinal(os.Stdout, res.Quotes)

	err = exportFinal(ctx, c.cfg, os.Stdout, res.Quotes, exportOptions{csvPath: c.out, xlsxPath: c.xlsx, upload: c.upload})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}

func printResolveSummary(res resolverService.ResolveResult) {
	multipleISINs := make(map[string]struct{})
	for _, r := range res.Review.Multiple {
		multipleISINs[r.ISIN] = struct{}{}
	}

	fmt.Printf("ISINs: %d, supported listings: %d, quoted symbols: %d\n", res.ISINs, res.Candidates, len(res.Rows))
	fmt.Printf("single: %d ISINs, multiple: %d ISINs (%d symbols), unresolved: %d ISINs\n",
		len(res.Review.Single), len(multipleISINs), len(res.Review.Multiple),
		res.ISINs-len(res.Review.Single)-len(multipleISINs))
}
