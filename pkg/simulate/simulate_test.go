package simulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"divscope/pkg/models"
)

func oneYearResult() models.AnalysisResult {
	return models.AnalysisResult{
		Symbol:  "600001",
		EndDate: "2022-12-30",
		YearlyRecords: []models.YearlyRecord{
			{Year: 2022, YearStartPrice: 10, YearEndPrice: 12, TotalDividend: 0.5},
		},
	}
}

func TestProjectNoReinvest(t *testing.T) {
	sim := Project(oneYearResult(), 100000, false)

	require.True(t, sim.Feasible)
	assert.Equal(t, 2022, sim.EntryYear)
	assert.Equal(t, 10.0, sim.BuyPrice)
	assert.Equal(t, 10000.0, sim.Shares)
	assert.Equal(t, 5000.0, sim.CashReceived) // 10000 shares x 0.5
	assert.Equal(t, 120000.0, sim.EndValue)   // position value only
	assert.Equal(t, 25000.0, sim.TotalReturn) // 20000 gain + 5000 cash
	assert.Equal(t, 25.0, sim.TotalReturnPercent)
	assert.Greater(t, sim.CAGRPercent, 0.0)
}

func TestProjectReinvest(t *testing.T) {
	sim := Project(oneYearResult(), 100000, true)

	require.True(t, sim.Feasible)
	// 5000 yuan of dividends buys 416.67 extra shares at the year-end price.
	assert.InDelta(t, 10000+5000.0/12, sim.EndShares, 1e-6)
	assert.Equal(t, 0.0, sim.CashReceived)
	assert.Equal(t, 125000.0, sim.EndValue)
}

func TestProjectSkipsYearsWithoutStartPrice(t *testing.T) {
	result := models.AnalysisResult{
		Symbol:  "600001",
		EndDate: "2022-12-30",
		YearlyRecords: []models.YearlyRecord{
			{Year: 2020, TotalDividend: 1.0}, // dividend-only year, no prices
			{Year: 2021, YearStartPrice: 20, YearEndPrice: 25},
			{Year: 2022, YearStartPrice: 25, YearEndPrice: 30, TotalDividend: 1.0},
		},
	}
	sim := Project(result, 10000, false)
	require.True(t, sim.Feasible)
	assert.Equal(t, 2021, sim.EntryYear)
	assert.Equal(t, 20.0, sim.BuyPrice)
	assert.Equal(t, 500.0, sim.Shares)
	assert.Equal(t, 500.0, sim.CashReceived)
	assert.Equal(t, 15000.0, sim.EndValue) // 500 x 30
	assert.Equal(t, 5500.0, sim.TotalReturn)
}

func TestProjectTrailingDividendOnlyYear(t *testing.T) {
	// An ex-date announced after the last trading bar yields a final record
	// with dividends but no prices; it must pay out without zeroing the
	// terminal position value.
	result := models.AnalysisResult{
		Symbol:  "600001",
		EndDate: "2022-12-30",
		YearlyRecords: []models.YearlyRecord{
			{Year: 2022, YearStartPrice: 10, YearEndPrice: 12, TotalDividend: 0.5},
			{Year: 2023, TotalDividend: 0.6},
		},
	}
	sim := Project(result, 100000, false)

	require.True(t, sim.Feasible)
	assert.Equal(t, 120000.0, sim.EndValue) // still 10000 shares x 12
	assert.Equal(t, 11000.0, sim.CashReceived)
	assert.Equal(t, 31000.0, sim.TotalReturn)
	assert.Equal(t, 31.0, sim.TotalReturnPercent)
}

func TestProjectInfeasible(t *testing.T) {
	sim := Project(oneYearResult(), 0, false)
	assert.False(t, sim.Feasible)
	assert.NotEmpty(t, sim.Reason)

	sim = Project(oneYearResult(), -5, true)
	assert.False(t, sim.Feasible)

	noEntry := models.AnalysisResult{
		Symbol:        "600001",
		EndDate:       "2022-12-30",
		YearlyRecords: []models.YearlyRecord{{Year: 2022, TotalDividend: 0.5}},
	}
	sim = Project(noEntry, 1000, false)
	assert.False(t, sim.Feasible)
	assert.NotEmpty(t, sim.Reason)

	empty := models.AnalysisResult{Symbol: "600001"}
	sim = Project(empty, 1000, false)
	assert.False(t, sim.Feasible)
}

func TestHoldingCAGR(t *testing.T) {
	// 2x over exactly one 365.25-day year would be 100%; a calendar year is
	// close but not exact, so just pin the sign and rough magnitude.
	got := holdingCAGR(2022, "2022-12-31", 2)
	assert.InDelta(t, 100, got, 5)

	assert.Equal(t, 0.0, holdingCAGR(2022, "not-a-date", 2))
	assert.Equal(t, 0.0, holdingCAGR(2022, "2021-01-01", 2)) // non-positive span
	assert.Equal(t, 0.0, holdingCAGR(2022, "2022-12-31", 0))
}
