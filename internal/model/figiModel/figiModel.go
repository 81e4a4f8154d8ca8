package figiModel

type MappingRequest struct {
	IDType  string `json:"idType"`
	IDValue string `json:"idValue"`
}

type MappingResult struct {
	FIGI     *string `json:"figi"`
	Ticker   *string `json:"ticker"`
	Name     *string `json:"name"`
	ExchCode *string `json:"exchCode"`
}

type MappingResponse struct {
	Data    []MappingResult `json:"data"`
	Error   string          `json:"error,omitempty"`
	Warning string          `json:"warning,omitempty"`
}
