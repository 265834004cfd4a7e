package models

import "errors"

// Pipeline error taxonomy. The API layer maps these onto HTTP statuses:
// ErrInvalidTicker -> 400, ErrUpstreamUnavailable -> 500, ErrNoData -> 200
// with an inline error field so the caller can render it next to the form.
var (
	ErrInvalidTicker       = errors.New("invalid ticker: expected a 6-digit A-share or ETF code")
	ErrUpstreamUnavailable = errors.New("upstream data provider unavailable")
	ErrNoData              = errors.New("no price history returned, ticker may be ambiguous or suspended")
)
