package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/segyhp/amortization-engine/internal/domain"
	"github.com/segyhp/amortization-engine/internal/export"
	customError "github.com/segyhp/amortization-engine/pkg/errors"
	"github.com/segyhp/amortization-engine/pkg/response"
)

// CalculatorService is the part of service.CalculatorService the HTTP layer uses
type CalculatorService interface {
	Preview(ctx context.Context, request *domain.CalculationRequest) (*domain.CalculationResult, error)
	CreateCalculation(ctx context.Context, request *domain.CalculationRequest) (*domain.CalculationResult, error)
	GetCalculation(ctx context.Context, id uuid.UUID) (*domain.CalculationResult, error)
	ListCalculations(ctx context.Context, limit, offset int) (*domain.ListCalculationsResponse, error)
	QuotePayment(ctx context.Context, request *domain.PaymentQuoteRequest) (*domain.PaymentQuote, error)
}

type CalculationHandler struct {
	service   CalculatorService
	validator *validator.Validate
}

func NewCalculationHandler(service CalculatorService) *CalculationHandler {
	return &CalculationHandler{
		service:   service,
		validator: newValidator(),
	}
}

// Preview computes a schedule without storing it
func (h *CalculationHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var request domain.CalculationRequest
	if !h.decodeAndValidate(w, r, &request) {
		return
	}

	result, err := h.service.Preview(r.Context(), &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, result)
}

// QuotePayment returns the periodic payment only
func (h *CalculationHandler) QuotePayment(w http.ResponseWriter, r *http.Request) {
	var request domain.PaymentQuoteRequest
	if !h.decodeAndValidate(w, r, &request) {
		return
	}

	quote, err := h.service.QuotePayment(r.Context(), &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, quote)
}

// CreateCalculation computes and stores a calculation
func (h *CalculationHandler) CreateCalculation(w http.ResponseWriter, r *http.Request) {
	var request domain.CalculationRequest
	if !h.decodeAndValidate(w, r, &request) {
		return
	}

	result, err := h.service.CreateCalculation(r.Context(), &request)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, result)
}

// ListCalculations pages through stored calculations
func (h *CalculationHandler) ListCalculations(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		response.BadRequest(w, "limit must be an integer", customError.WrapInvalidRequest(err))
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		response.BadRequest(w, "offset must be an integer", customError.WrapInvalidRequest(err))
		return
	}

	calculations, err := h.service.ListCalculations(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, calculations)
}

// GetCalculation returns a stored calculation with its regenerated schedule
func (h *CalculationHandler) GetCalculation(w http.ResponseWriter, r *http.Request) {
	id, ok := calculationID(w, r)
	if !ok {
		return
	}

	result, err := h.service.GetCalculation(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportCSV downloads the schedule of a stored calculation
func (h *CalculationHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	id, ok := calculationID(w, r)
	if !ok {
		return
	}

	result, err := h.service.GetCalculation(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Attachment(w, "text/csv", export.ScheduleFilename)
	if err := export.WriteScheduleCSV(w, result.Schedule); err != nil {
		// Headers are already sent
		log.Printf("Error writing CSV for calculation %s: %v", id, err)
	}
}

func (h *CalculationHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body", customError.WrapInvalidRequest(err))
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		response.BadRequest(w, validationMessage(err), customError.WrapInvalidRequest(err))
		return false
	}

	return true
}

func calculationID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid calculation ID", customError.WrapInvalidRequest(err))
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// writeError maps a service error to its HTTP status. Internal details of
// unexpected errors are logged, not returned.
func writeError(w http.ResponseWriter, err error) {
	var businessErr *customError.BusinessError
	if !errors.As(err, &businessErr) {
		log.Printf("Request failed: %v", err)
		response.InternalServerError(w, "Internal server error", nil)
		return
	}

	status := customError.StatusCode(err)
	if status == http.StatusInternalServerError {
		log.Printf("Request failed: %v", err)
		response.Error(w, status, businessErr.Message, customError.NewBusinessError(businessErr.Code, businessErr.Message, nil))
		return
	}

	response.Error(w, status, businessErr.Message, err)
}
