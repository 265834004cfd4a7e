package eastmoney

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"divscope/pkg/models"
)

func TestParsePlanProfile(t *testing.T) {
	tests := []struct {
		text string
		want float64
		ok   bool
	}{
		{"10派3.75元", 0.375, true},
		{"10派3.75元(含税)", 0.375, true},
		{"10送2转3派1.5元(含税,扣税后1.35元)", 0.15, true},
		{"10转3派0.8元", 0.08, true},
		{"10派现0.6元", 0.06, true},
		{"10派息2元", 0.2, true},
		{"10派5", 0.5, true}, // unit optional
		{"10派0不分配", 0, false},
		{"不分配不转增", 0, false},
		{"10转増5不分配", 0, false},
		{"10送3转2", 0, false}, // stock-only plan, no cash
		{"", 0, false},
		{"10派0元", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ParsePlanProfile(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestDetailSourceFetch(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/data/v1/get", r.URL.Path)
		assert.Equal(t, "RPT_SHAREBONUS_DET", r.URL.Query().Get("reportName"))
		assert.Contains(t, r.URL.Query().Get("filter"), `"600519"`)
		w.Write([]byte(`{"success":true,"result":{"data":[
			{"SECURITY_CODE":"600519","PER_SHARE_DIV_RMB":2.1911,"EX_DIVIDEND_DATE":"2022-06-30"},
			{"SECURITY_CODE":"600519","PER_SHARE_DIV_RMB":2.5911,"EX_DIVIDEND_DATE":"","NOTICE_DATE":"2023-06-15 00:00:00"},
			{"SECURITY_CODE":"600519","PER_SHARE_DIV_RMB":-1,"EX_DIVIDEND_DATE":"2021-06-25"},
			{"SECURITY_CODE":"600519","PER_SHARE_DIV_RMB":1.7,"EX_DIVIDEND_DATE":"1905-07-01"},
			{"SECURITY_CODE":"000858","PER_SHARE_DIV_RMB":1.3,"EX_DIVIDEND_DATE":"2022-06-01"}]}}`))
	})

	src := &DetailSource{Client: c}
	events, err := src.Fetch(context.Background(), mustResolve(t, "600519"))
	require.NoError(t, err)
	require.Len(t, events, 2) // negative cash, implausible year and wrong code all dropped
	assert.Equal(t, models.DividendEvent{Year: 2022, CashPerShare: 2.1911, ExDate: "2022-06-30"}, events[0])
	assert.Equal(t, models.DividendEvent{Year: 2023, CashPerShare: 2.5911, ExDate: "2023-06-15"}, events[1])
}

func TestDetailSourceEmpty(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	})
	events, err := (&DetailSource{Client: c}).Fetch(context.Background(), mustResolve(t, "600519"))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestPlanSourceProfileRows(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "RPT_SHAREBONUS_PLAN", r.URL.Query().Get("reportName"))
		w.Write([]byte(`{"success":true,"result":{"data":[
			{"IMPL_PLAN_PROFILE":"10派3.75元(含税)","EX_DIVIDEND_DATE":"2023-07-10"},
			{"IMPL_PLAN_PROFILE":"不分配不转增","EX_DIVIDEND_DATE":"2022-07-10"},
			{"IMPL_PLAN_PROFILE":"10送2派1.2元","EX_DIVIDEND_DATE":"","NOTICE_DATE":"2021-05-02"}]}}`))
	})

	events, err := (&PlanSource{Client: c}).Fetch(context.Background(), mustResolve(t, "600519"))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.InDelta(t, 0.375, events[0].CashPerShare, 1e-9)
	assert.Equal(t, 2023, events[0].Year)
	assert.InDelta(t, 0.12, events[1].CashPerShare, 1e-9)
	assert.Equal(t, 2021, events[1].Year)
}

func TestPlanSourceLegacyFallback(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"result":{"data":[
			{"PRETAX_BONUS_RMB":3.0,"EQUITY_RECORD_DATE":"2020-06-20"},
			{"PRETAX_BONUS_RMB":0,"EQUITY_RECORD_DATE":"2019-06-20"},
			{"PRETAX_BONUS_RMB":2.5,"EQUITY_RECORD_DATE":"","NOTICE_DATE":"2018-04-11"}]}}`))
	})

	events, err := (&PlanSource{Client: c}).Fetch(context.Background(), mustResolve(t, "600519"))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.InDelta(t, 0.3, events[0].CashPerShare, 1e-9)
	assert.Equal(t, 2020, events[0].Year)
	assert.InDelta(t, 0.25, events[1].CashPerShare, 1e-9)
	assert.Equal(t, 2018, events[1].Year)
}

func TestYearOf(t *testing.T) {
	y, day, ok := yearOf("2023-06-15 00:00:00")
	require.True(t, ok)
	assert.Equal(t, 2023, y)
	assert.Equal(t, "2023-06-15", day)

	for _, bad := range []string{"", "2023", "1990-01-01", "2100-01-01", "xxxx-06-15"} {
		_, _, ok := yearOf(bad)
		assert.False(t, ok, bad)
	}
}
