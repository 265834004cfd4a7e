package api

import (
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter wires all routes behind the request-ID and logging middleware.
func NewRouter(handler *Handler, logger *zap.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogging(logger))

	r.HandleFunc("/health", handler.Health).Methods("GET")

	apiRoutes := r.PathPrefix("/api").Subrouter()
	apiRoutes.HandleFunc("/stock", handler.GetStock).Methods("GET")
	apiRoutes.HandleFunc("/simulate", handler.Simulate).Methods("GET")

	return r
}
