// Package simulate projects a one-shot investment over a yearly dividend
// and growth series. Pure computation, no I/O.
package simulate

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"divscope/pkg/models"
)

const dateLayout = "2006-01-02"

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Project buys at the first year with a positive start price and walks the
// series forward. With reinvest set, each year's cash converts to extra
// shares at that year's end price; otherwise cash accumulates. An
// infeasible simulation (non-positive principal, no valid entry year) is
// reported via Feasible, never as an error.
func Project(result models.AnalysisResult, principal float64, reinvest bool) models.SimulationResult {
	sim := models.SimulationResult{
		Symbol:    result.Symbol,
		Principal: principal,
		Reinvest:  reinvest,
	}
	if principal <= 0 {
		sim.Reason = "principal must be positive"
		return sim
	}

	entry := -1
	for i, rec := range result.YearlyRecords {
		if rec.YearStartPrice > 0 {
			entry = i
			break
		}
	}
	if entry < 0 {
		sim.Reason = "no year with a valid start price"
		return sim
	}

	buyPrice := result.YearlyRecords[entry].YearStartPrice
	shares := principal / buyPrice
	sim.Feasible = true
	sim.EntryYear = result.YearlyRecords[entry].Year
	sim.BuyPrice = buyPrice
	sim.Shares = shares

	cash := 0.0
	finalEnd := 0.0
	for _, rec := range result.YearlyRecords[entry:] {
		payout := shares * rec.TotalDividend
		if reinvest && rec.YearEndPrice > 0 {
			shares += payout / rec.YearEndPrice
		} else {
			cash += payout
		}
		// A trailing dividend-only year carries no prices; keep the last
		// year that actually traded as the terminal price.
		if rec.YearEndPrice > 0 {
			finalEnd = rec.YearEndPrice
		}
	}

	// EndValue is the terminal market value of the position; cash received
	// stays separate but counts toward the realized return and CAGR.
	positionValue := shares * finalEnd
	terminal := positionValue + cash
	sim.EndShares = shares
	sim.CashReceived = round2(cash)
	sim.EndValue = round2(positionValue)
	sim.TotalReturn = round2(terminal - principal)
	sim.TotalReturnPercent = round2((terminal - principal) / principal * 100)
	sim.CAGRPercent = round2(holdingCAGR(sim.EntryYear, result.EndDate, terminal/principal))
	return sim
}

// holdingCAGR compounds from Jan 1 of the entry year to the series' final
// date.
func holdingCAGR(entryYear int, endDate string, ratio float64) float64 {
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return 0
	}
	start := time.Date(entryYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	years := end.Sub(start).Hours() / 24 / 365.25
	if years <= 0 || ratio <= 0 {
		return 0
	}
	return (math.Pow(ratio, 1/years) - 1) * 100
}
