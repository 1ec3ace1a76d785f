package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/segyhp/amortization-engine/pkg/response"
)

// NewRouter registers every route. CORS and logging wrap the whole router so
// preflight requests are answered before route matching.
func NewRouter(calculationHandler *CalculationHandler, healthHandler *HealthHandler) http.Handler {
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods(http.MethodGet)

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/schedules/preview", calculationHandler.Preview).Methods(http.MethodPost)
	api.HandleFunc("/payments/quote", calculationHandler.QuotePayment).Methods(http.MethodPost)
	api.HandleFunc("/calculations", calculationHandler.CreateCalculation).Methods(http.MethodPost)
	api.HandleFunc("/calculations", calculationHandler.ListCalculations).Methods(http.MethodGet)
	api.HandleFunc("/calculations/{id}", calculationHandler.GetCalculation).Methods(http.MethodGet)
	api.HandleFunc("/calculations/{id}/schedule.csv", calculationHandler.ExportCSV).Methods(http.MethodGet)

	return response.LoggingMiddleware(response.CORSMiddleware(router))
}
