// Package dividend collects cash-dividend events through a priority-ordered
// chain of upstream sources.
package dividend

import (
	"context"

	"go.uber.org/zap"

	"divscope/pkg/models"
	"divscope/pkg/ticker"
)

// Source is one dividend data provider. Fetch may fail; the aggregator
// absorbs failures. Supports gates sources that only apply to a subset of
// securities (the fund-only scrapers).
type Source interface {
	Name() string
	Supports(sec ticker.Security) bool
	Fetch(ctx context.Context, sec ticker.Security) ([]models.DividendEvent, error)
}

// Aggregator walks its sources in priority order and keeps the first
// non-empty result. Results are never merged across sources.
type Aggregator struct {
	sources []Source
	logger  *zap.Logger
}

func NewAggregator(logger *zap.Logger, sources ...Source) *Aggregator {
	return &Aggregator{sources: sources, logger: logger}
}

// Collect never fails outward: source errors are logged and treated as zero
// results, and the worst case is an empty slice, which downstream renders as
// "no dividend data" rather than an error.
func (a *Aggregator) Collect(ctx context.Context, sec ticker.Security) []models.DividendEvent {
	for _, src := range a.sources {
		if !src.Supports(sec) {
			continue
		}
		events, err := src.Fetch(ctx, sec)
		if err != nil {
			a.logger.Warn("dividend source failed, trying next",
				zap.String("source", src.Name()),
				zap.String("code", sec.Code),
				zap.Error(err))
			continue
		}
		if len(events) == 0 {
			a.logger.Debug("dividend source empty",
				zap.String("source", src.Name()),
				zap.String("code", sec.Code))
			continue
		}
		return events
	}
	return nil
}
