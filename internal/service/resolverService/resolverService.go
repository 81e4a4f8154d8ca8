package resolverService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KotFed0t/isin_resolver/internal/model"
	"github.com/KotFed0t/isin_resolver/internal/service"
	"github.com/KotFed0t/isin_resolver/utils"
)

type MappingApi interface {
	MapISIN(ctx context.Context, isin string) ([]model.MappingCandidate, error)
}

type QuoteSource interface {
	GetRawQuote(ctx context.Context, symbol string) (model.RawQuote, error)
}

type ExchangeTable interface {
	Has(code string) bool
	Suffixes(code string) []string
}

type QuoteCache interface {
	GetQuote(ctx context.Context, symbol string) (model.Quote, bool)
	SetQuote(ctx context.Context, symbol string, quote model.Quote)
}

// Cache memoizes external lookups for the duration of one run.
type Cache interface {
	QuoteCache
	GetMappings(ctx context.Context, isin string) ([]model.MappingCandidate, bool)
	SetMappings(ctx context.Context, isin string, candidates []model.MappingCandidate)
}

type ResolveResult struct {
	ISINs      int
	Candidates int
	Rows       []model.QuotedRow
	Review     model.Review
	Warnings   []model.Warning
}

type ReconcileResult struct {
	Quotes   []model.FinalQuote
	Warnings []model.Warning
}

type ResolverService struct {
	mappingApi MappingApi
	table      ExchangeTable
	cache      Cache
	prober     *Prober
}

func New(mappingApi MappingApi, quoteSource QuoteSource, table ExchangeTable, cache Cache) *ResolverService {
	return &ResolverService{
		mappingApi: mappingApi,
		table:      table,
		cache:      cache,
		prober:     NewProber(quoteSource, cache),
	}
}

// Resolve runs the exploration phase: mapping, filtering, symbol synthesis and probing.
// It fails with ErrEmptyResult when no symbol of any ISIN returned a quote.
func (s *ResolverService) Resolve(ctx context.Context, isins []string) (ResolveResult, error) {
	runID := utils.GetRunIDFromCtx(ctx)
	op := "ResolverService.Resolve"

	slog.Debug("Resolve start", slog.String("runID", runID), slog.String("op", op), slog.Int("isins", len(isins)))
	defer func() {
		slog.Debug("Resolve finished", slog.String("runID", runID), slog.String("op", op))
	}()

	res := ResolveResult{Warnings: make([]model.Warning, 0)}

	seen := make(map[string]struct{}, len(isins))
	ordered := make([]string, 0, len(isins))
	for _, isin := range isins {
		isin = strings.TrimSpace(isin)
		if isin == "" {
			continue
		}
		if _, ok := seen[isin]; ok {
			continue
		}
		seen[isin] = struct{}{}
		ordered = append(ordered, isin)
	}
	res.ISINs = len(ordered)

	symbolCandidates := make([]model.SymbolCandidate, 0)
	for _, isin := range ordered {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		mappings, warning := s.mapISIN(ctx, isin)
		if warning != nil {
			res.Warnings = append(res.Warnings, *warning)
		}

		filtered := FilterCandidates(isin, mappings, s.table)
		res.Candidates += len(filtered)

		slog.Debug(
			"isin mapped",
			slog.String("runID", runID),
			slog.String("isin", isin),
			slog.Int("mappings", len(mappings)),
			slog.Int("supported", len(filtered)),
		)

		symbolCandidates = append(symbolCandidates, SynthesizeSymbols(filtered, s.table)...)
	}

	rows, warnings := ExpandCandidates(ctx, s.prober, symbolCandidates)
	res.Warnings = append(res.Warnings, warnings...)
	if err := ctx.Err(); err != nil {
		return res, err
	}

	res.Rows = rows
	res.Review = BuildReview(rows)

	quoted := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		quoted[r.ISIN] = struct{}{}
	}
	for _, isin := range ordered {
		if _, ok := quoted[isin]; !ok {
			res.Warnings = append(res.Warnings, model.Warning{
				Code:    model.WarnUnresolvedISIN,
				ISIN:    isin,
				Message: "no quoted symbol",
			})
		}
	}

	if len(rows) == 0 {
		slog.Error("no quoted candidates", slog.String("runID", runID), slog.String("op", op), slog.Int("isins", res.ISINs))
		return res, fmt.Errorf("%w: %d isins, %d candidates", service.ErrEmptyResult, res.ISINs, res.Candidates)
	}

	return res, nil
}

// Reconcile runs the decision phase and re-probes every final symbol.
// It fails with ErrNoFinalTickers when no ISIN could be decided.
func (s *ResolverService) Reconcile(ctx context.Context, selections []model.Selection) (ReconcileResult, error) {
	runID := utils.GetRunIDFromCtx(ctx)
	op := "ResolverService.Reconcile"

	slog.Debug("Reconcile start", slog.String("runID", runID), slog.String("op", op), slog.Int("selections", len(selections)))
	defer func() {
		slog.Debug("Reconcile finished", slog.String("runID", runID), slog.String("op", op))
	}()

	finals, warnings := Reconcile(selections)
	res := ReconcileResult{Warnings: warnings}

	for _, w := range warnings {
		slog.Warn("selection rejected", slog.String("runID", runID), slog.String("op", op), slog.String("isin", w.ISIN), slog.String("reason", w.Message))
	}

	if len(finals) == 0 {
		return res, service.ErrNoFinalTickers
	}

	res.Quotes = make([]model.FinalQuote, 0, len(finals))
	for _, final := range finals {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		quote, warning := s.prober.Probe(ctx, final.Symbol)
		if warning != nil {
			warning.ISIN = final.ISIN
			res.Warnings = append(res.Warnings, *warning)
		}

		res.Quotes = append(res.Quotes, model.FinalQuote{
			FinalTicker:  final,
			Found:        quote.Found,
			Price:        quote.Price,
			Currency:     quote.Currency,
			ExchangeName: quote.ExchangeName,
		})
	}

	return res, nil
}

// mapISIN turns a mapping-service failure into an empty candidate list and a warning.
func (s *ResolverService) mapISIN(ctx context.Context, isin string) ([]model.MappingCandidate, *model.Warning) {
	runID := utils.GetRunIDFromCtx(ctx)
	op := "ResolverService.mapISIN"

	if mappings, ok := s.cache.GetMappings(ctx, isin); ok {
		return mappings, nil
	}

	mappings, err := s.mappingApi.MapISIN(ctx, isin)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}

		slog.Warn("mapping service failed", slog.String("runID", runID), slog.String("op", op), slog.String("isin", isin), slog.String("err", err.Error()))
		mappings = []model.MappingCandidate{}
		s.cache.SetMappings(ctx, isin, mappings)

		return mappings, &model.Warning{
			Code:    model.WarnMappingService,
			ISIN:    isin,
			Message: err.Error(),
		}
	}

	s.cache.SetMappings(ctx, isin, mappings)

	return mappings, nil
}
