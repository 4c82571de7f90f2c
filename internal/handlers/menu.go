package handlers

import (
	"net/http"

	"github.com/samber/lo"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/services/menu"
)

type MenuHandler struct {
	service *menu.Service
}

func NewMenuHandler(svc *menu.Service) *MenuHandler {
	return &MenuHandler{service: svc}
}

type updateMenuItemRequest struct {
	Name        *string  `json:"name,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
	Available   *bool    `json:"available,omitempty"`
}

func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req menu.CreateItemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, domain.NewMenuItemView(item))
}

func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.Get(r.Context(), param(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.NewMenuItemView(item))
}

func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	views := lo.Map(items, func(m domain.MenuItem, _ int) domain.MenuItemView {
		return domain.NewMenuItemView(m)
	})
	writeJSON(w, http.StatusOK, map[string]any{"items": views})
}

func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateMenuItemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.service.Update(r.Context(), param(r, "id"), domain.MenuItemPatch{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Description: req.Description,
		Available:   req.Available,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.NewMenuItemView(item))
}

func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), param(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
