package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"restaurant-pos/internal/auth"
	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/metrics"
	"restaurant-pos/internal/realtime"
	"restaurant-pos/internal/services/menu"
	"restaurant-pos/internal/services/order"
	"restaurant-pos/internal/services/payment"
	"restaurant-pos/internal/services/table"
)

// Handler aggregates the per-resource handlers plus the cross-cutting pieces
// the middleware needs.
type Handler struct {
	OrderHandler    *OrderHandler
	PaymentHandler  *PaymentHandler
	TableHandler    *TableHandler
	MenuHandler     *MenuHandler
	RealtimeHandler *RealtimeHandler

	verifier *auth.Verifier
	metrics  *metrics.Registry
	log      *logger.Logger

	ping func(context.Context) error
}

// SetPinger registers the store liveness probe reported by /health.
func (h *Handler) SetPinger(fn func(context.Context) error) { h.ping = fn }

func New(orders *order.Service, payments *payment.Service, tables *table.Service, catalog *menu.Service, bus *realtime.Bus, verifier *auth.Verifier, m *metrics.Registry, log *logger.Logger) *Handler {
	return &Handler{
		OrderHandler:    NewOrderHandler(orders),
		PaymentHandler:  NewPaymentHandler(payments),
		TableHandler:    NewTableHandler(tables),
		MenuHandler:     NewMenuHandler(catalog),
		RealtimeHandler: NewRealtimeHandler(bus, log),
		verifier:        verifier,
		metrics:         m,
		log:             log,
	}
}

// writeJSON emits a JSON body with the given status.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeProblem is the single error shape (simplified RFC7807 problem+json).
func writeProblem(w http.ResponseWriter, code int, typ, detail string) {
	writeJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}

// writeError maps domain errors onto the problem shape.
func writeError(w http.ResponseWriter, err error) {
	var verr domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeProblem(w, http.StatusBadRequest, "validation_error", verr.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeProblem(w, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Invalid("body", "invalid JSON body")
	}
	return nil
}

func param(r *http.Request, key string) string {
	return r.PathValue(key)
}

func atoiDefault(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}
