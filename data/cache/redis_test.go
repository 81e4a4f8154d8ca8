package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KotFed0t/isin_resolver/config"
	"github.com/KotFed0t/isin_resolver/internal/model"
	"github.com/KotFed0t/isin_resolver/utils"
)

func newTestRedisCache(t *testing.T) (*RedisCache, redismock.ClientMock) {
	t.Helper()

	db, mock := redismock.NewClientMock()
	cfg := &config.Config{}
	cfg.Cache.Expiration = time.Hour

	return NewRedisCache(db, cfg), mock
}

func TestRedisCache_SetMappings(t *testing.T) {
	c, mock := newTestRedisCache(t)
	ctx := utils.WithRunID(context.Background(), "run-1")

	mock.ExpectSet("run-1:figi:US0378331005", `[{"ISIN":"US0378331005","Ticker":"AAPL","Name":"APPLE INC","ExchangeCode":"US","MappingID":"BBG000B9XRY4"}]`, time.Hour).SetVal("OK")

	c.SetMappings(ctx, "US0378331005", []model.MappingCandidate{{
		ISIN:         "US0378331005",
		Ticker:       "AAPL",
		Name:         "APPLE INC",
		ExchangeCode: "US",
		MappingID:    "BBG000B9XRY4",
	}})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_SetMappings_Empty(t *testing.T) {
	c, mock := newTestRedisCache(t)
	ctx := utils.WithRunID(context.Background(), "run-1")

	mock.ExpectSet("run-1:figi:XS0000000000", `[]`, time.Hour).SetVal("OK")

	c.SetMappings(ctx, "XS0000000000", nil)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_GetMappings(t *testing.T) {
	c, mock := newTestRedisCache(t)
	ctx := utils.WithRunID(context.Background(), "run-1")

	mock.ExpectGet("run-1:figi:US0378331005").SetVal(`[{"ISIN":"US0378331005","Ticker":"AAPL","ExchangeCode":"US"}]`)
	mock.ExpectGet("run-1:figi:DE0007164600").RedisNil()
	mock.ExpectGet("run-1:figi:NL0010273215").SetErr(errors.New("connection refused"))
	mock.ExpectGet("run-1:figi:FR0000120271").SetVal(`not json`)

	got, ok := c.GetMappings(ctx, "US0378331005")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "AAPL", got[0].Ticker)

	_, ok = c.GetMappings(ctx, "DE0007164600")
	assert.False(t, ok)

	_, ok = c.GetMappings(ctx, "NL0010273215")
	assert.False(t, ok)

	_, ok = c.GetMappings(ctx, "FR0000120271")
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_Quote(t *testing.T) {
	c, mock := newTestRedisCache(t)
	ctx := utils.WithRunID(context.Background(), "run-2")

	mock.ExpectSet("run-2:quote:AAPL", `{"symbol":"AAPL","found":true,"price":"189.84","currency":"USD","exchangeName":"NasdaqGS"}`, time.Hour).SetVal("OK")
	mock.ExpectGet("run-2:quote:AAPL").SetVal(`{"symbol":"AAPL","found":true,"price":"189.84","currency":"USD","exchangeName":"NasdaqGS"}`)
	mock.ExpectGet("run-2:quote:MSFT").RedisNil()

	c.SetQuote(ctx, "AAPL", model.Quote{
		Symbol:       "AAPL",
		Found:        true,
		Price:        decimal.RequireFromString("189.84"),
		Currency:     "USD",
		ExchangeName: "NasdaqGS",
	})

	q, ok := c.GetQuote(ctx, "AAPL")
	require.True(t, ok)
	assert.True(t, q.Found)
	assert.True(t, q.Price.Equal(decimal.RequireFromString("189.84")))
	assert.Equal(t, "NasdaqGS", q.ExchangeName)

	_, ok = c.GetQuote(ctx, "MSFT")
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_SetError(t *testing.T) {
	c, mock := newTestRedisCache(t)
	ctx := utils.WithRunID(context.Background(), "run-3")

	mock.ExpectSet("run-3:quote:SAN.MC", `{"symbol":"SAN.MC","found":false,"price":"0"}`, time.Hour).SetErr(errors.New("READONLY"))

	assert.NotPanics(t, func() {
		c.SetQuote(ctx, "SAN.MC", model.Quote{Symbol: "SAN.MC"})
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
