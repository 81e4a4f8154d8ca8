package model

type WarningCode string

const (
	WarnMappingService    WarningCode = "mapping_service"
	WarnQuoteFetch        WarningCode = "quote_fetch"
	WarnUnresolvedISIN    WarningCode = "unresolved_isin"
	WarnSelectionConflict WarningCode = "selection_conflict"
)

// Warning is a non-fatal issue surfaced to the operator at the end of a phase.
type Warning struct {
	Code    WarningCode
	ISIN    string
	Symbol  string
	Message string
}
