// Package eastmoney talks to the Eastmoney quote, datacenter and fund
// endpoints and normalizes their payloads into the canonical model types.
package eastmoney

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"
	"go.uber.org/zap"

	"divscope/pkg/models"
)

// Fixed outbound identity sent with every upstream request. The provider
// rejects clients without a browser-looking User-Agent and a referer from
// its own quote pages.
const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	referer   = "https://quote.eastmoney.com/"
)

// Default endpoint bases. Overridable per Client for tests.
const (
	defaultKlineBase      = "https://push2his.eastmoney.com"
	defaultDataCenterBase = "https://datacenter-web.eastmoney.com"
	defaultFundAPIBase    = "https://api.fund.eastmoney.com"
	defaultFundPageBase   = "https://fundf10.eastmoney.com"
)

// Client is a shared HTTP client for all Eastmoney endpoints. One instance
// serves all requests; it holds no per-request state.
type Client struct {
	HTTP   *http.Client
	Logger *zap.Logger

	KlineBase      string
	DataCenterBase string
	FundAPIBase    string
	FundPageBase   string
}

// NewClient builds a Client with a per-call timeout. Timeouts surface as
// models.ErrUpstreamUnavailable on the price path and are swallowed on the
// dividend path.
func NewClient(logger *zap.Logger, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		HTTP:           &http.Client{Timeout: timeout},
		Logger:         logger,
		KlineBase:      defaultKlineBase,
		DataCenterBase: defaultDataCenterBase,
		FundAPIBase:    defaultFundAPIBase,
		FundPageBase:   defaultFundPageBase,
	}
}

// get performs one GET with the fixed identity headers and returns the raw
// body. Non-2xx statuses map to models.ErrUpstreamUnavailable.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", referer)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", models.ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", models.ErrUpstreamUnavailable, resp.StatusCode)
	}
	return body, nil
}

var jsonpWrapper = regexp.MustCompile(`(?s)^\s*[\w$.]+\s*\((.*)\)\s*;?\s*$`)

// unwrapJSONP accepts either direct JSON or a JSONP `callback({...});` body
// and returns plain JSON. The unwrapped text is run through jsonrepair since
// some endpoints emit single-quoted or trailing-comma payloads.
func unwrapJSONP(body []byte) (string, error) {
	text := strings.TrimSpace(string(body))
	if m := jsonpWrapper.FindStringSubmatch(text); m != nil && !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "[") {
		text = m[1]
	}
	repaired, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return "", fmt.Errorf("unwrap jsonp: %w", err)
	}
	return repaired, nil
}
