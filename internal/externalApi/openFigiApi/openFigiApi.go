package openFigiApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/KotFed0t/isin_resolver/config"
	"github.com/KotFed0t/isin_resolver/internal/converter/figiConverter"
	"github.com/KotFed0t/isin_resolver/internal/externalApi"
	"github.com/KotFed0t/isin_resolver/internal/model"
	"github.com/KotFed0t/isin_resolver/internal/model/figiModel"
	"github.com/KotFed0t/isin_resolver/internal/rateLimiter"
	"github.com/KotFed0t/isin_resolver/utils"
	"github.com/go-resty/resty/v2"
)

const idTypeISIN = "ID_ISIN"

type OpenFigiApi struct {
	client  *resty.Client
	limiter *rateLimiter.RateLimiter
}

func New(cfg *config.Config) *OpenFigiApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.OpenFigi.Url)

	if cfg.API.OpenFigi.ApiKey != "" {
		client.SetHeader("X-OPENFIGI-APIKEY", cfg.API.OpenFigi.ApiKey)
	}

	return &OpenFigiApi{
		client:  client,
		limiter: rateLimiter.New(cfg.API.OpenFigi.RateLimit, cfg.API.OpenFigi.RateInterval),
	}
}

// MapISIN asks the mapping service for every listing of one ISIN.
// A response without data yields an empty slice; a non-200 status yields ErrBadStatus.
func (a *OpenFigiApi) MapISIN(ctx context.Context, isin string) ([]model.MappingCandidate, error) {
	runID := utils.GetRunIDFromCtx(ctx)
	op := "OpenFigiApi.MapISIN"

	slog.Debug("start OpenFigiApi.MapISIN request", slog.String("runID", runID), slog.String("isin", isin))

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	payload := []figiModel.MappingRequest{{IDType: idTypeISIN, IDValue: isin}}

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(payload).
		Post("/mapping")
	if err != nil {
		slog.Error("error while dialing OpenFigiApi", slog.String("runID", runID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	if resp.StatusCode() != http.StatusOK {
		slog.Warn(
			"unexpected OpenFigiApi status",
			slog.String("runID", runID),
			slog.String("op", op),
			slog.Int("status", resp.StatusCode()),
			slog.String("body", resp.String()),
		)
		return nil, fmt.Errorf("%w: status %d: %s", externalApi.ErrBadStatus, resp.StatusCode(), resp.String())
	}

	var responses []figiModel.MappingResponse
	err = json.Unmarshal(resp.Body(), &responses)
	if err != nil {
		slog.Error("can't unmarshall response into []figiModel.MappingResponse", slog.String("runID", runID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	if len(responses) == 0 || responses[0].Data == nil {
		slog.Debug("OpenFigiApi returned no data", slog.String("runID", runID), slog.String("isin", isin))
		return []model.MappingCandidate{}, nil
	}

	res := figiConverter.ConvertMappingResults(isin, responses[0].Data)

	slog.Debug("OpenFigiApi.MapISIN request complete", slog.String("runID", runID), slog.String("isin", isin), slog.Int("candidates", len(res)))

	return res, nil
}
