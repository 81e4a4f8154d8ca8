package resolverService

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KotFed0t/isin_resolver/data/cache"
	"github.com/KotFed0t/isin_resolver/internal/exchangeTable"
	"github.com/KotFed0t/isin_resolver/internal/externalApi"
	"github.com/KotFed0t/isin_resolver/internal/model"
	"github.com/KotFed0t/isin_resolver/internal/service"
	"github.com/KotFed0t/isin_resolver/utils"
)

type testEnv struct {
	mapping *fakeMappingApi
	quotes  *fakeQuoteSource
	svc     *ResolverService
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	mapping := newFakeMappingApi()
	quotes := newFakeQuoteSource()
	table := exchangeTable.New(map[string][]string{
		"NMS": {""},
		"SM":  {".MC"},
		"NA":  {".AS"},
		"GR":  {".DE"},
	})

	return testEnv{
		mapping: mapping,
		quotes:  quotes,
		svc:     New(mapping, quotes, table, cache.NewMemoryCache()),
	}
}

func testCtx() context.Context {
	return utils.WithRunID(context.Background(), "test-run")
}

func TestResolveAndReconcile_AppleRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.mapping.add("US0378331005", [2]string{"AAPL", "NMS"}, [2]string{"AAPL", "SM"})
	env.quotes.price("AAPL", 189.84, "USD")
	env.quotes.price("AAPL.MC", 175.1, "EUR")

	res, err := env.svc.Resolve(testCtx(), []string{"US0378331005"})
	require.NoError(t, err)

	require.Len(t, res.Rows, 1)
	assert.Equal(t, "AAPL", res.Rows[0].Symbol)
	assert.Equal(t, "NMS", res.Rows[0].ExchangeCode)
	assert.Equal(t, model.CardinalitySingle, res.Rows[0].Cardinality)
	assert.Equal(t, 1, res.ISINs)
	assert.Equal(t, 1, res.Candidates)
	assert.Len(t, res.Review.Single, 1)
	assert.Empty(t, res.Review.Multiple)
	assert.Zero(t, env.quotes.calls["AAPL.MC"])

	final, err := env.svc.Reconcile(testCtx(), DefaultSelections(res.Review))
	require.NoError(t, err)

	require.Len(t, final.Quotes, 1)
	assert.Equal(t, model.FinalTicker{ISIN: "US0378331005", Name: "NAME US0378331005", Symbol: "AAPL"}, final.Quotes[0].FinalTicker)
	assert.True(t, final.Quotes[0].Found)
	assert.Equal(t, "189.84", final.Quotes[0].Price.String())
	assert.Equal(t, "USD", final.Quotes[0].Currency)
}

func TestResolve_ZeroCandidatesIsAbsentEverywhere(t *testing.T) {
	env := newTestEnv(t)
	env.mapping.add("NL0010273215", [2]string{"ASML", "NA"})
	env.quotes.price("ASML.AS", 612.4, "EUR")

	res, err := env.svc.Resolve(testCtx(), []string{"XS0000000000", "NL0010273215"})
	require.NoError(t, err)

	for _, r := range res.Rows {
		assert.NotEqual(t, "XS0000000000", r.ISIN)
	}
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "ASML.AS", res.Rows[0].Symbol)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, model.WarnUnresolvedISIN, res.Warnings[0].Code)
	assert.Equal(t, "XS0000000000", res.Warnings[0].ISIN)
}

func TestResolve_MappingErrorIsWarning(t *testing.T) {
	env := newTestEnv(t)
	env.mapping.errs["DE0007164600"] = errors.Join(externalApi.ErrBadStatus, errors.New("status 429"))
	env.mapping.add("NL0010273215", [2]string{"ASML", "NA"})
	env.quotes.price("ASML.AS", 612.4, "EUR")

	res, err := env.svc.Resolve(testCtx(), []string{"DE0007164600", "NL0010273215", "DE0007164600"})
	require.NoError(t, err)

	assert.Equal(t, 2, res.ISINs)
	assert.Equal(t, 1, env.mapping.calls["DE0007164600"])

	codes := make([]model.WarningCode, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []model.WarningCode{model.WarnMappingService, model.WarnUnresolvedISIN}, codes)
}

func TestResolve_EmptyResult(t *testing.T) {
	env := newTestEnv(t)
	env.mapping.add("US0378331005", [2]string{"AAPL", "NMS"})

	_, err := env.svc.Resolve(testCtx(), []string{"US0378331005", "", "  "})
	assert.ErrorIs(t, err, service.ErrEmptyResult)

	_, err = env.svc.Resolve(testCtx(), nil)
	assert.ErrorIs(t, err, service.ErrEmptyResult)
}

func TestResolve_MultipleAndLexicographicFallback(t *testing.T) {
	env := newTestEnv(t)
	env.mapping.add("DE0007164600", [2]string{"SAP", "GR"}, [2]string{"SAP", "LN"})
	env.quotes.price("SAP.DE", 178.12, "EUR")
	env.quotes.price("SAP.AS", 178.3, "EUR")

	res, err := env.svc.Resolve(testCtx(), []string{"DE0007164600"})
	require.NoError(t, err)

	require.Len(t, res.Rows, 2)
	for _, r := range res.Rows {
		assert.Equal(t, model.CardinalityMultiple, r.Cardinality)
	}
	assert.Equal(t, "SAP.AS", res.Review.Multiple[0].Symbol)
	assert.Equal(t, 1, env.quotes.calls["SAP.DE"])
	assert.Equal(t, 1, env.quotes.calls["SAP.AS"])

	final, err := env.svc.Reconcile(testCtx(), DefaultSelections(res.Review))
	require.NoError(t, err)
	require.Len(t, final.Quotes, 1)
	assert.Equal(t, "SAP.AS", final.Quotes[0].Symbol)
}

func TestReconcile_ManualTickerIsReprobed(t *testing.T) {
	env := newTestEnv(t)
	env.quotes.price("ASML.MI", 610.0, "EUR")

	final, err := env.svc.Reconcile(testCtx(), []model.Selection{
		multiple("NL0010273215", "ASML", "ASML.AS", true, "ASML.MI"),
		multiple("NL0010273215", "ASML", "ASML.DE", false, ""),
		blankRow("NL0010273215", ""),
		single("US0378331005", "NOPE", ""),
	})
	require.NoError(t, err)

	require.Len(t, final.Quotes, 2)
	assert.Equal(t, "ASML.MI", final.Quotes[0].Symbol)
	assert.True(t, final.Quotes[0].Found)
	assert.Equal(t, "610", final.Quotes[0].Price.String())

	assert.Equal(t, "NOPE", final.Quotes[1].Symbol)
	assert.False(t, final.Quotes[1].Found)
}

func TestReconcile_NoFinalTickers(t *testing.T) {
	env := newTestEnv(t)

	final, err := env.svc.Reconcile(testCtx(), []model.Selection{
		multiple("NL0010273215", "ASML", "ASML.AS", true, ""),
		multiple("NL0010273215", "ASML", "ASML.DE", true, ""),
	})
	assert.ErrorIs(t, err, service.ErrNoFinalTickers)
	require.Len(t, final.Warnings, 1)
	assert.Equal(t, model.WarnSelectionConflict, final.Warnings[0].Code)

	_, err = env.svc.Reconcile(testCtx(), nil)
	assert.ErrorIs(t, err, service.ErrNoFinalTickers)
}

func TestResolve_Canceled(t *testing.T) {
	env := newTestEnv(t)
	env.mapping.add("US0378331005", [2]string{"AAPL", "NMS"})

	ctx, cancel := context.WithCancel(testCtx())
	cancel()

	_, err := env.svc.Resolve(ctx, []string{"US0378331005"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, env.mapping.calls["US0378331005"])
}
