// Package analysis joins price history and dividend events into per-year
// statistics and drives the whole per-request pipeline.
package analysis

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"divscope/pkg/models"
)

const dateLayout = "2006-01-02"

// round2 rounds at the output boundary only; intermediate math stays full
// precision.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// BuildResult derives the yearly series and whole-period CAGR from price
// bars (chronological ascending) and normalized dividend events.
func BuildResult(symbol, name string, bars []models.PriceBar, events []models.DividendEvent) models.AnalysisResult {
	result := models.AnalysisResult{
		Symbol:        symbol,
		Name:          name,
		YearlyRecords: []models.YearlyRecord{},
	}
	type yearPrices struct{ start, end float64 }
	prices := map[int]*yearPrices{}
	for _, bar := range bars {
		y := bar.Date.Year()
		p, ok := prices[y]
		if !ok {
			p = &yearPrices{start: bar.Close}
			prices[y] = p
		}
		p.end = bar.Close
	}

	dividends := map[int]float64{}
	for _, ev := range events {
		dividends[ev.Year] += ev.CashPerShare
	}

	// Year axis is the union of both groupings.
	yearSet := map[int]struct{}{}
	for y := range prices {
		yearSet[y] = struct{}{}
	}
	for y := range dividends {
		yearSet[y] = struct{}{}
	}
	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	for _, y := range years {
		rec := models.YearlyRecord{Year: y, TotalDividend: dividends[y]}
		if p, ok := prices[y]; ok {
			rec.YearStartPrice = p.start
			rec.YearEndPrice = p.end
			if p.start > 0 {
				rec.GrowthRatePercent = (p.end - p.start) / p.start * 100
			}
			if p.end > 0 {
				rec.DividendYieldPercent = rec.TotalDividend / p.end * 100
			}
		}
		rec.TotalDividend = round2(rec.TotalDividend)
		rec.DividendYieldPercent = round2(rec.DividendYieldPercent)
		rec.GrowthRatePercent = round2(rec.GrowthRatePercent)
		rec.YearStartPrice = round2(rec.YearStartPrice)
		rec.YearEndPrice = round2(rec.YearEndPrice)
		result.YearlyRecords = append(result.YearlyRecords, rec)
	}
	result.HasDividends = len(events) > 0
	if len(bars) == 0 {
		return result
	}

	first, last := bars[0], bars[len(bars)-1]
	result.StartDate = first.Date.Format(dateLayout)
	result.EndDate = last.Date.Format(dateLayout)
	spanYears := last.Date.Sub(first.Date).Hours() / 24 / 365.25

	cagr := 0.0
	if spanYears > 0 && first.Close > 0 {
		cagr = (math.Pow(last.Close/first.Close, 1/spanYears) - 1) * 100
	}
	result.StartPrice = round2(first.Close)
	result.EndPrice = round2(last.Close)
	result.Years = round2(spanYears)
	result.CAGRPercent = round2(cagr)
	return result
}
