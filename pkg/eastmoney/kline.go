package eastmoney

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"divscope/pkg/models"
	"divscope/pkg/ticker"
)

// klineResponse is the push2his kline payload. Each bar arrives as one
// comma-delimited string in source (earliest-first) order.
type klineResponse struct {
	Data *struct {
		Code   string   `json:"code"`
		Name   string   `json:"name"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

// DailyHistory fetches the full daily forward-adjusted history for a
// security: klt=101 daily bars, fqt=1 forward adjusted, from the earliest
// available date to far future, up to 100000 bars. Exactly one call, no
// retry. Returns the provider's security name alongside the bars.
func (c *Client) DailyHistory(ctx context.Context, sec ticker.Security) (string, []models.PriceBar, error) {
	q := url.Values{}
	q.Set("secid", sec.SecID)
	q.Set("klt", "101")
	q.Set("fqt", "1")
	q.Set("beg", "0")
	q.Set("end", "20500101")
	q.Set("lmt", "100000")
	q.Set("fields1", "f1,f2,f3,f4,f5,f6")
	q.Set("fields2", "f51,f52,f53,f54,f55,f56")

	body, err := c.get(ctx, c.KlineBase+"/api/qt/stock/kline/get?"+q.Encode())
	if err != nil {
		return "", nil, err
	}

	var resp klineResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", nil, fmt.Errorf("%w: decode kline: %v", models.ErrUpstreamUnavailable, err)
	}
	if resp.Data == nil || len(resp.Data.Klines) == 0 {
		return "", nil, models.ErrNoData
	}

	bars := make([]models.PriceBar, 0, len(resp.Data.Klines))
	for _, line := range resp.Data.Klines {
		bar, err := parseKline(line)
		if err != nil {
			c.Logger.Debug("skipping malformed kline", zap.String("line", line), zap.Error(err))
			continue
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return "", nil, models.ErrNoData
	}
	return resp.Data.Name, bars, nil
}

// parseKline decodes one "date,open,close,high,low,volume" bar string.
func parseKline(line string) (models.PriceBar, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 6 {
		return models.PriceBar{}, fmt.Errorf("kline: want 6 fields, got %d", len(fields))
	}
	date, err := time.Parse("2006-01-02", fields[0])
	if err != nil {
		return models.PriceBar{}, fmt.Errorf("kline date %q: %w", fields[0], err)
	}
	nums := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return models.PriceBar{}, fmt.Errorf("kline field %q: %w", fields[i+1], err)
		}
		nums[i] = v
	}
	return models.PriceBar{
		Date:   date,
		Open:   nums[0],
		Close:  nums[1],
		High:   nums[2],
		Low:    nums[3],
		Volume: int64(nums[4]),
	}, nil
}
