// Package api exposes the analysis pipeline over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	"divscope/pkg/models"
)

// Analyzer is the pipeline surface the handlers depend on.
type Analyzer interface {
	Analyze(ctx context.Context, symbol string) (models.AnalysisResult, error)
	Simulate(ctx context.Context, symbol string, principal float64, reinvest bool) (models.SimulationResult, error)
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	analyzer Analyzer
	logger   *zap.Logger
}

func NewHandler(analyzer Analyzer, logger *zap.Logger) *Handler {
	return &Handler{analyzer: analyzer, logger: logger}
}

type errorResponse struct {
	Symbol string `json:"symbol"`
	Error  string `json:"error"`
}

// GetStock handles GET /api/stock?symbol=<ticker>.
//
// Status mapping: unresolvable or missing symbol -> 400; price-fetch failure
// -> 500; empty price history -> 200 with an inline error field so the UI
// can render it next to the form; otherwise 200 with the full result.
func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		respondJSON(w, r, http.StatusBadRequest, errorResponse{Symbol: symbol, Error: "symbol query parameter is required"})
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), symbol)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidTicker):
			respondJSON(w, r, http.StatusBadRequest, errorResponse{Symbol: symbol, Error: err.Error()})
		case errors.Is(err, models.ErrNoData):
			result.Symbol = symbol
			result.Error = err.Error()
			if result.YearlyRecords == nil {
				result.YearlyRecords = []models.YearlyRecord{}
			}
			respondJSON(w, r, http.StatusOK, result)
		default:
			respondJSON(w, r, http.StatusInternalServerError, errorResponse{Symbol: symbol, Error: err.Error()})
		}
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

// Simulate handles GET /api/simulate?symbol=&principal=&reinvest=. The
// pipeline error taxonomy matches GetStock; an infeasible simulation is
// still a 200 with feasible=false.
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		respondJSON(w, r, http.StatusBadRequest, errorResponse{Symbol: symbol, Error: "symbol query parameter is required"})
		return
	}
	principal, err := strconv.ParseFloat(r.URL.Query().Get("principal"), 64)
	if err != nil {
		respondJSON(w, r, http.StatusBadRequest, errorResponse{Symbol: symbol, Error: "principal must be a number"})
		return
	}
	reinvest := false
	switch r.URL.Query().Get("reinvest") {
	case "1", "true", "yes":
		reinvest = true
	}

	sim, simErr := h.analyzer.Simulate(r.Context(), symbol, principal, reinvest)
	if simErr != nil {
		switch {
		case errors.Is(simErr, models.ErrInvalidTicker):
			respondJSON(w, r, http.StatusBadRequest, errorResponse{Symbol: symbol, Error: simErr.Error()})
		case errors.Is(simErr, models.ErrNoData):
			// No price history means no valid entry year: an infeasible
			// simulation, not an HTTP error.
			respondJSON(w, r, http.StatusOK, models.SimulationResult{
				Symbol:    symbol,
				Principal: principal,
				Reinvest:  reinvest,
				Reason:    simErr.Error(),
			})
		default:
			respondJSON(w, r, http.StatusInternalServerError, errorResponse{Symbol: symbol, Error: simErr.Error()})
		}
		return
	}
	respondJSON(w, r, http.StatusOK, sim)
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "encoding error", http.StatusInternalServerError)
		return
	}
	if r.URL.Query().Get("pretty") == "1" {
		body = pretty.Pretty(body)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}
