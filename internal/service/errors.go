package service

import "errors"

var (
	ErrInputSchema       = errors.New("input schema error")
	ErrEmptyResult       = errors.New("no candidates resolved")
	ErrNoFinalTickers    = errors.New("reconciliation produced no final tickers")
	ErrSelectionConflict = errors.New("more than one row chosen")
)
