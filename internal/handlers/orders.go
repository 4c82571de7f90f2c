package handlers

import (
	"net/http"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/services/order"
)

type OrderHandler struct {
	service *order.Service
}

func NewOrderHandler(svc *order.Service) *OrderHandler {
	return &OrderHandler{service: svc}
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req order.CreateOrderRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ord, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "order": domain.NewOrderView(ord)})
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	ord, err := h.service.Get(r.Context(), param(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order": domain.NewOrderView(ord)})
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.OrderFilter{
		Status:      domain.OrderStatus(q.Get("status")),
		TableNumber: q.Get("tableNumber"),
		Page:        atoiDefault(q.Get("page"), 1),
		Limit:       atoiDefault(q.Get("limit"), 20),
	}
	if filter.Status != "" {
		if _, err := domain.ToOrderStatus(string(filter.Status)); err != nil {
			writeProblem(w, http.StatusBadRequest, "validation_error", "unknown status filter")
			return
		}
	}

	orders, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	filter.Normalize()
	pages := (total + filter.Limit - 1) / filter.Limit
	writeJSON(w, http.StatusOK, map[string]any{
		"orders": order.Views(orders),
		"pagination": map[string]any{
			"page":  filter.Page,
			"limit": filter.Limit,
			"total": total,
			"pages": pages,
		},
	})
}

func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req order.UpdateOrderRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ord, err := h.service.Edit(r.Context(), param(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": domain.NewOrderView(ord)})
}

func (h *OrderHandler) PatchStatus(w http.ResponseWriter, r *http.Request) {
	var req order.StatusPatchRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ord, err := h.service.AdvanceStatus(r.Context(), param(r, "id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": domain.NewOrderView(ord)})
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req order.CancelOrderRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	ord, err := h.service.Cancel(r.Context(), param(r, "id"), req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": domain.NewOrderView(ord)})
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.HardDelete(r.Context(), param(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
