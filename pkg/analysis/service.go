package analysis

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"divscope/pkg/models"
	"divscope/pkg/simulate"
	"divscope/pkg/ticker"
)

// PriceSource fetches the full daily history plus the provider's security
// name.
type PriceSource interface {
	DailyHistory(ctx context.Context, sec ticker.Security) (string, []models.PriceBar, error)
}

// DividendCollector runs the fallback chain. It never fails.
type DividendCollector interface {
	Collect(ctx context.Context, sec ticker.Security) []models.DividendEvent
}

// Service runs the per-request pipeline: resolve, fetch, join, derive. One
// instance serves all requests; every call owns its own fetch chain and no
// state is shared across calls.
type Service struct {
	prices    PriceSource
	dividends DividendCollector
	logger    *zap.Logger
}

func NewService(prices PriceSource, dividends DividendCollector, logger *zap.Logger) *Service {
	return &Service{prices: prices, dividends: dividends, logger: logger}
}

// Analyze resolves the symbol, fetches price history and dividends
// concurrently, and assembles the yearly series. Errors keep the pipeline
// taxonomy: models.ErrInvalidTicker, models.ErrUpstreamUnavailable,
// models.ErrNoData.
func (s *Service) Analyze(ctx context.Context, symbol string) (models.AnalysisResult, error) {
	sec, err := ticker.Resolve(symbol)
	if err != nil {
		return models.AnalysisResult{Symbol: symbol}, err
	}

	var (
		wg       sync.WaitGroup
		name     string
		bars     []models.PriceBar
		priceErr error
		events   []models.DividendEvent
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		name, bars, priceErr = s.prices.DailyHistory(ctx, sec)
	}()
	go func() {
		defer wg.Done()
		events = s.dividends.Collect(ctx, sec)
	}()
	wg.Wait()

	if priceErr != nil {
		return models.AnalysisResult{Symbol: symbol}, priceErr
	}

	result := BuildResult(symbol, name, bars, events)
	s.logger.Info("analysis complete",
		zap.String("symbol", symbol),
		zap.String("secid", sec.SecID),
		zap.Int("bars", len(bars)),
		zap.Int("dividend_events", len(events)),
		zap.Int("years", len(result.YearlyRecords)))
	return result, nil
}

// Simulate runs Analyze and projects a lump-sum investment over the result.
func (s *Service) Simulate(ctx context.Context, symbol string, principal float64, reinvest bool) (models.SimulationResult, error) {
	result, err := s.Analyze(ctx, symbol)
	if err != nil {
		return models.SimulationResult{Symbol: symbol, Principal: principal, Reinvest: reinvest}, err
	}
	return simulate.Project(result, principal, reinvest), nil
}
