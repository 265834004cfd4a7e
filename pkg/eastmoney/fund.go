package eastmoney

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"divscope/pkg/models"
	"divscope/pkg/ticker"
)

// FundAPISource is dividend source #3a: the fund F10 distribution API. The
// endpoint answers either plain JSON or a JSONP callback wrapper depending
// on the query, so the body goes through unwrapJSONP before decoding. ETFs
// only.
type FundAPISource struct {
	Client *Client
}

type fundDividendResponse struct {
	Data *struct {
		FHInfo []fundDividendRow `json:"FHInfo"`
	} `json:"Data"`
	ErrCode int `json:"ErrCode"`
}

type fundDividendRow struct {
	CashPerUnit float64 `json:"FHFCZ"` // yuan per fund unit
	ExDate      string  `json:"FSRQ"`
	PayDate     string  `json:"FFR"`
}

func (s *FundAPISource) Name() string { return "fund-api" }

func (s *FundAPISource) Supports(sec ticker.Security) bool { return sec.IsFund() }

func (s *FundAPISource) Fetch(ctx context.Context, sec ticker.Security) ([]models.DividendEvent, error) {
	url := fmt.Sprintf("%s/f10/JJFH?fundcode=%s&pageIndex=1&pageSize=500&callback=jQuery_divscope", s.Client.FundAPIBase, sec.Code)
	body, err := s.Client.get(ctx, url)
	if err != nil {
		return nil, err
	}
	text, err := unwrapJSONP(body)
	if err != nil {
		return nil, err
	}
	var resp fundDividendResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, fmt.Errorf("decode fund dividends: %w", err)
	}
	if resp.ErrCode != 0 || resp.Data == nil {
		return nil, nil
	}

	var events []models.DividendEvent
	for _, row := range resp.Data.FHInfo {
		if !validCash(row.CashPerUnit) {
			continue
		}
		date := row.ExDate
		if date == "" {
			date = row.PayDate
		}
		year, day, ok := yearOf(date)
		if !ok {
			continue
		}
		events = append(events, models.DividendEvent{Year: year, CashPerShare: row.CashPerUnit, ExDate: day})
	}
	return events, nil
}

// FundPageSource is dividend source #3b, the last resort for ETFs: scraping
// the fund F10 cash-distribution disclosure page.
type FundPageSource struct {
	Client *Client
}

func (s *FundPageSource) Name() string { return "fund-page" }

func (s *FundPageSource) Supports(sec ticker.Security) bool { return sec.IsFund() }

func (s *FundPageSource) Fetch(ctx context.Context, sec ticker.Security) ([]models.DividendEvent, error) {
	url := fmt.Sprintf("%s/fhsp_%s.html", s.Client.FundPageBase, sec.Code)
	body, err := s.Client.get(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse fund page: %w", err)
	}
	return ParseFundPage(doc), nil
}

// Text patterns for the distribution table, strictest first. The strict form
// is the page's canonical "每份派现金0.7460元" cell (sometimes quoted per 10
// units); the loose form tolerates reworded rows; the raw form falls back to
// a bare decimal cell next to a date.
var (
	strictUnitCash = regexp.MustCompile(`每(10)?份派(?:现金?|息)?([0-9]+(?:\.[0-9]+)?)元`)
	looseLineCash  = regexp.MustCompile(`派[^0-9元]{0,8}([0-9]+(?:\.[0-9]+)?)元`)
	bareDecimal    = regexp.MustCompile(`^([0-9]+\.[0-9]+)$`)
	pageDate       = regexp.MustCompile(`[0-9]{4}-[0-9]{2}-[0-9]{2}`)
)

// ParseFundPage extracts distribution events from the disclosure page using
// three successively looser passes, returning the first pass that yields any
// rows. Exported for direct testing against literal HTML.
func ParseFundPage(doc *goquery.Document) []models.DividendEvent {
	type rowText struct {
		text  string
		cells []string
	}
	var rows []rowText
	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		if len(cells) == 0 {
			return
		}
		rows = append(rows, rowText{text: strings.Join(cells, " "), cells: cells})
	})

	rowEvent := func(text string, cash float64) (models.DividendEvent, bool) {
		if !validCash(cash) {
			return models.DividendEvent{}, false
		}
		date := pageDate.FindString(text)
		year, day, ok := yearOf(date)
		if !ok {
			return models.DividendEvent{}, false
		}
		return models.DividendEvent{Year: year, CashPerShare: cash, ExDate: day}, true
	}

	// Pass 1: strict row pattern.
	var events []models.DividendEvent
	for _, row := range rows {
		m := strictUnitCash.FindStringSubmatch(row.text)
		if m == nil {
			continue
		}
		cash, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		if m[1] == "10" {
			cash /= 10
		}
		if ev, ok := rowEvent(row.text, cash); ok {
			events = append(events, ev)
		}
	}
	if len(events) > 0 {
		return events
	}

	// Pass 2: loose same-line match.
	for _, row := range rows {
		m := looseLineCash.FindStringSubmatch(row.text)
		if m == nil {
			continue
		}
		cash, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if ev, ok := rowEvent(row.text, cash); ok {
			events = append(events, ev)
		}
	}
	if len(events) > 0 {
		return events
	}

	// Pass 3: raw table cell, a bare decimal alongside a date cell.
	for _, row := range rows {
		for _, cell := range row.cells {
			m := bareDecimal.FindStringSubmatch(cell)
			if m == nil {
				continue
			}
			cash, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			if ev, ok := rowEvent(row.text, cash); ok {
				events = append(events, ev)
			}
			break
		}
	}
	return events
}
