package models

import "time"

// PriceBar is one daily forward-adjusted OHLCV bar. Bars are kept in
// chronological ascending order, one per trading day.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	Close  float64   `json:"close"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Volume int64     `json:"volume"`
}

// DividendEvent is a single normalized cash-distribution event produced by
// whichever dividend source succeeds first. A year may carry several events;
// they are summed downstream, never overwritten.
type DividendEvent struct {
	Year         int     `json:"year"`
	CashPerShare float64 `json:"cash_per_share"` // yuan per share, always > 0
	ExDate       string  `json:"ex_date,omitempty"`
}

// YearlyRecord joins price history and dividends for one calendar year.
type YearlyRecord struct {
	Year                 int     `json:"year"`
	TotalDividend        float64 `json:"totalDividend"`
	DividendYieldPercent float64 `json:"dividendYieldPercent"`
	GrowthRatePercent    float64 `json:"growthRatePercent"`
	YearStartPrice       float64 `json:"yearStartPrice"`
	YearEndPrice         float64 `json:"yearEndPrice"`
}

// AnalysisResult is the request-scoped aggregate returned by the analysis
// pipeline. Monetary and percentage fields are rounded to 2 decimals at
// assembly time only.
type AnalysisResult struct {
	Symbol        string         `json:"symbol"`
	Name          string         `json:"name,omitempty"`
	StartDate     string         `json:"startDate,omitempty"`
	EndDate       string         `json:"endDate,omitempty"`
	StartPrice    float64        `json:"startPrice,omitempty"`
	EndPrice      float64        `json:"endPrice,omitempty"`
	Years         float64        `json:"years,omitempty"`
	CAGRPercent   float64        `json:"cagrPercent"`
	YearlyRecords []YearlyRecord `json:"yearlyRecords"`
	HasDividends  bool           `json:"hasDividends"`
	Error         string         `json:"error,omitempty"`
}

// SimulationResult is the outcome of projecting a lump-sum investment over
// the yearly series. An infeasible simulation is reported through Feasible
// and Reason, never as an error.
type SimulationResult struct {
	Symbol             string  `json:"symbol"`
	Principal          float64 `json:"principal"`
	Reinvest           bool    `json:"reinvest"`
	Feasible           bool    `json:"feasible"`
	Reason             string  `json:"reason,omitempty"`
	EntryYear          int     `json:"entryYear,omitempty"`
	BuyPrice           float64 `json:"buyPrice,omitempty"`
	Shares             float64 `json:"shares,omitempty"`
	EndShares          float64 `json:"endShares,omitempty"`
	CashReceived       float64 `json:"cashReceived"`
	EndValue           float64 `json:"endValue"`
	TotalReturn        float64 `json:"totalReturn"`
	TotalReturnPercent float64 `json:"totalReturnPercent"`
	CAGRPercent        float64 `json:"cagrPercent"`
}
