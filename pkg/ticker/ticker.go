// Package ticker resolves raw user input into Eastmoney security identifiers.
package ticker

import (
	"strings"

	"divscope/pkg/models"
)

// Market identifies the listing exchange.
type Market int

const (
	Shanghai Market = iota + 1
	Shenzhen
)

func (m Market) String() string {
	switch m {
	case Shanghai:
		return "SH"
	case Shenzhen:
		return "SZ"
	default:
		return "?"
	}
}

// Security is a resolved provider identifier. It lives for one request and
// is never mutated after Resolve returns it.
type Security struct {
	Code   string // 6-digit exchange code, e.g. "600519"
	SecID  string // Eastmoney secid, e.g. "1.600519"
	Market Market
}

// Prefixes that mark an exchange-traded fund. Best-effort heuristic, not an
// authoritative fund classification.
var fundPrefixes = []string{"51", "56", "58", "15", "16"}

// IsFund reports whether the code looks like an exchange-traded fund.
func (s Security) IsFund() bool {
	for _, p := range fundPrefixes {
		if strings.HasPrefix(s.Code, p) {
			return true
		}
	}
	return false
}

// Resolve maps a free-text symbol to a Security. Whitespace is stripped; the
// remainder must be exactly 6 ASCII digits. Classification, first match wins:
// leading 6/5/9 or prefix 51/56/58 list on Shanghai, leading 0/3 or prefix
// 15/16 on Shenzhen. Anything else fails with models.ErrInvalidTicker.
func Resolve(raw string) (Security, error) {
	code := strings.Join(strings.Fields(raw), "")
	if len(code) != 6 {
		return Security{}, models.ErrInvalidTicker
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return Security{}, models.ErrInvalidTicker
		}
	}

	switch code[0] {
	case '6', '5', '9':
		return Security{Code: code, SecID: "1." + code, Market: Shanghai}, nil
	}
	switch code[:2] {
	case "51", "56", "58":
		return Security{Code: code, SecID: "1." + code, Market: Shanghai}, nil
	}
	switch code[0] {
	case '0', '3':
		return Security{Code: code, SecID: "0." + code, Market: Shenzhen}, nil
	}
	switch code[:2] {
	case "15", "16":
		return Security{Code: code, SecID: "0." + code, Market: Shenzhen}, nil
	}
	return Security{}, models.ErrInvalidTicker
}
