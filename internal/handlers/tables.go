package handlers

import (
	"net/http"

	"github.com/samber/lo"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/services/table"
)

type TableHandler struct {
	service *table.Service
}

func NewTableHandler(svc *table.Service) *TableHandler {
	return &TableHandler{service: svc}
}

type createTableRequest struct {
	Number   string `json:"number"`
	Capacity int    `json:"capacity"`
	Status   string `json:"status,omitempty"`
}

type updateTableRequest struct {
	Capacity *int    `json:"capacity,omitempty"`
	Status   *string `json:"status,omitempty"`
}

func (h *TableHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTableRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	tb, err := h.service.Create(r.Context(), req.Number, req.Capacity, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, domain.NewTableView(tb))
}

func (h *TableHandler) Get(w http.ResponseWriter, r *http.Request) {
	tb, err := h.service.Find(r.Context(), param(r, "number"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.NewTableView(tb))
}

func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	tables, err := h.service.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}
	views := lo.Map(tables, func(t domain.Table, _ int) domain.TableView {
		return domain.NewTableView(t)
	})
	writeJSON(w, http.StatusOK, map[string]any{"tables": views})
}

func (h *TableHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateTableRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	patch := domain.TablePatch{Capacity: req.Capacity}
	if req.Status != nil {
		ts, err := domain.ToTableStatus(*req.Status)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "validation_error", "invalid table status")
			return
		}
		patch.Status = &ts
	}

	tb, err := h.service.Update(r.Context(), param(r, "number"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.NewTableView(tb))
}

func (h *TableHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), param(r, "number")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
