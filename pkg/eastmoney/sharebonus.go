package eastmoney

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"divscope/pkg/models"
	"divscope/pkg/ticker"
)

// Years outside this open interval are treated as data-entry garbage and the
// row is dropped, not the whole batch.
const (
	minPlausibleYear = 1990
	maxPlausibleYear = 2100
)

// datacenterResponse is the common envelope of datacenter-web report
// queries. Rows stay raw so each source can decode its own shape.
type datacenterResponse struct {
	Success bool `json:"success"`
	Result  *struct {
		Data []json.RawMessage `json:"data"`
	} `json:"result"`
}

func (c *Client) queryReport(ctx context.Context, report, filter, sortColumns string) ([]json.RawMessage, error) {
	q := url.Values{}
	q.Set("reportName", report)
	q.Set("columns", "ALL")
	q.Set("pageNumber", "1")
	q.Set("pageSize", "500")
	q.Set("filter", filter)
	if sortColumns != "" {
		q.Set("sortColumns", sortColumns)
		q.Set("sortTypes", "-1")
	}
	body, err := c.get(ctx, c.DataCenterBase+"/api/data/v1/get?"+q.Encode())
	if err != nil {
		return nil, err
	}
	var resp datacenterResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode %s: %w", report, err)
	}
	if !resp.Success || resp.Result == nil {
		return nil, nil
	}
	return resp.Result.Data, nil
}

// yearOf extracts the calendar year from a datacenter date string
// ("2006-01-02" or "2006-01-02 15:04:05") and checks plausibility.
func yearOf(date string) (int, string, bool) {
	date = strings.TrimSpace(date)
	if len(date) < 10 {
		return 0, "", false
	}
	day := date[:10]
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return 0, "", false
	}
	y := t.Year()
	if y <= minPlausibleYear || y >= maxPlausibleYear {
		return 0, "", false
	}
	return y, day, true
}

func validCash(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// DetailSource is dividend source #1: the datacenter per-event share-bonus
// detail report. Rows carry a direct per-share cash field and an ex-dividend
// date, with notice and report dates as fallbacks.
type DetailSource struct {
	Client *Client
}

type bonusDetailRow struct {
	SecurityCode   string  `json:"SECURITY_CODE"`
	PerShareDivRMB float64 `json:"PER_SHARE_DIV_RMB"`
	ExDividendDate string  `json:"EX_DIVIDEND_DATE"`
	NoticeDate     string  `json:"NOTICE_DATE"`
	ReportDate     string  `json:"REPORT_DATE"`
}

func (s *DetailSource) Name() string { return "datacenter-detail" }

func (s *DetailSource) Supports(ticker.Security) bool { return true }

func (s *DetailSource) Fetch(ctx context.Context, sec ticker.Security) ([]models.DividendEvent, error) {
	rows, err := s.Client.queryReport(ctx, "RPT_SHAREBONUS_DET",
		fmt.Sprintf(`(SECURITY_CODE="%s")`, sec.Code), "EX_DIVIDEND_DATE")
	if err != nil {
		return nil, err
	}

	var events []models.DividendEvent
	for _, raw := range rows {
		var row bonusDetailRow
		if err := json.Unmarshal(raw, &row); err != nil {
			continue
		}
		if row.SecurityCode != sec.Code || !validCash(row.PerShareDivRMB) {
			continue
		}
		date := row.ExDividendDate
		if date == "" {
			date = row.NoticeDate
		}
		if date == "" {
			date = row.ReportDate
		}
		year, day, ok := yearOf(date)
		if !ok {
			continue
		}
		events = append(events, models.DividendEvent{
			Year:         year,
			CashPerShare: row.PerShareDivRMB,
			ExDate:       day,
		})
	}
	return events, nil
}

// PlanSource is dividend source #2: the share-bonus plan report whose
// implementation-plan rows encode the distribution as free text like
// "10送2转3派3.75元(含税)". Used only when the detail report comes up empty.
type PlanSource struct {
	Client *Client
}

type bonusPlanRow struct {
	ImplPlanProfile string `json:"IMPL_PLAN_PROFILE"`
	ExDividendDate  string `json:"EX_DIVIDEND_DATE"`
	NoticeDate      string `json:"NOTICE_DATE"`
	PlanNoticeDate  string `json:"PLAN_NOTICE_DATE"`
}

// legacyPlanRow is the older row shape still returned for some securities.
// PretaxBonusRMB is yuan per 10 shares.
type legacyPlanRow struct {
	PretaxBonusRMB   float64 `json:"PRETAX_BONUS_RMB"`
	EquityRecordDate string  `json:"EQUITY_RECORD_DATE"`
	NoticeDate       string  `json:"NOTICE_DATE"`
}

func (s *PlanSource) Name() string { return "datacenter-plan" }

func (s *PlanSource) Supports(ticker.Security) bool { return true }

func (s *PlanSource) Fetch(ctx context.Context, sec ticker.Security) ([]models.DividendEvent, error) {
	rows, err := s.Client.queryReport(ctx, "RPT_SHAREBONUS_PLAN",
		fmt.Sprintf(`(SECURITY_CODE="%s")`, sec.Code), "NOTICE_DATE")
	if err != nil {
		return nil, err
	}

	var events []models.DividendEvent
	for _, raw := range rows {
		var row bonusPlanRow
		if err := json.Unmarshal(raw, &row); err != nil {
			continue
		}
		cash, ok := ParsePlanProfile(row.ImplPlanProfile)
		if !ok {
			continue
		}
		date := row.ExDividendDate
		if date == "" {
			date = row.NoticeDate
		}
		if date == "" {
			date = row.PlanNoticeDate
		}
		year, day, dok := yearOf(date)
		if !dok {
			continue
		}
		events = append(events, models.DividendEvent{Year: year, CashPerShare: cash, ExDate: day})
	}
	if len(events) > 0 {
		return events, nil
	}

	// Legacy shape fallback: same rows, differently named fields, amount
	// quoted per 10 shares.
	for _, raw := range rows {
		var row legacyPlanRow
		if err := json.Unmarshal(raw, &row); err != nil {
			continue
		}
		if !validCash(row.PretaxBonusRMB) {
			continue
		}
		date := row.EquityRecordDate
		if date == "" {
			date = row.NoticeDate
		}
		year, day, ok := yearOf(date)
		if !ok {
			continue
		}
		events = append(events, models.DividendEvent{
			Year:         year,
			CashPerShare: row.PretaxBonusRMB / 10,
			ExDate:       day,
		})
	}
	if len(events) > 0 {
		s.Client.Logger.Debug("plan source used legacy row shape", zap.String("code", sec.Code))
	}
	return events, nil
}

// Plan-profile grammar: the literal "10", anything up to a distribution verb
// (派 / 派现 / 派息, possibly preceded by 送/转 clauses), a decimal amount,
// an optional 元 unit. The amount is yuan per 10 shares.
var (
	noDistribution = regexp.MustCompile(`不分配|不转增`)
	planProfile    = regexp.MustCompile(`10[^派]*派(?:现金?|息)?([0-9]+(?:\.[0-9]+)?)元?`)
)

// ParsePlanProfile decodes a per-share cash amount from distribution plan
// text. "10派3.75元" yields 0.375. Text declaring no distribution, or text
// with no parsable amount, yields ok=false and no event.
func ParsePlanProfile(text string) (float64, bool) {
	if text == "" || noDistribution.MatchString(text) {
		return 0, false
	}
	m := planProfile.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	per10, err := strconv.ParseFloat(m[1], 64)
	if err != nil || !validCash(per10) {
		return 0, false
	}
	return per10 / 10, true
}
