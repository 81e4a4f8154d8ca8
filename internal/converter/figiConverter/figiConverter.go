package figiConverter

import (
	"github.com/KotFed0t/isin_resolver/internal/model"
	"github.com/KotFed0t/isin_resolver/internal/model/figiModel"
)

func ConvertMappingResult(isin string, res figiModel.MappingResult) model.MappingCandidate {
	return model.MappingCandidate{
		ISIN:         isin,
		Ticker:       deref(res.Ticker),
		Name:         deref(res.Name),
		ExchangeCode: deref(res.ExchCode),
		MappingID:    deref(res.FIGI),
	}
}

func ConvertMappingResults(isin string, results []figiModel.MappingResult) []model.MappingCandidate {
	candidates := make([]model.MappingCandidate, 0, len(results))
	for _, res := range results {
		candidates = append(candidates, ConvertMappingResult(isin, res))
	}
	return candidates
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
