package handlers

import (
	"net/http"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/services/payment"
)

type PaymentHandler struct {
	service *payment.Service
}

func NewPaymentHandler(svc *payment.Service) *PaymentHandler {
	return &PaymentHandler{service: svc}
}

func (h *PaymentHandler) Settle(w http.ResponseWriter, r *http.Request) {
	var req payment.SettleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ord, err := h.service.Settle(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"order":   domain.NewOrderView(ord),
	})
}
