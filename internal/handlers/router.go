package handlers

import (
	"net/http"

	"restaurant-pos/internal/auth"
)

// Router wires every endpoint. Reads are open to any authenticated role;
// mutations are gated per role: waiters place, edit and cancel orders, the
// kitchen moves statuses along, the counter settles, admins manage the floor
// plan and the catalog and hold the delete escape hatch.
func Router(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /orders", h.requireRole(h.OrderHandler.Create, auth.RoleWaiter, auth.RoleAdmin))
	mux.HandleFunc("GET /orders", h.requireAuth(h.OrderHandler.List))
	mux.HandleFunc("GET /orders/{id}", h.requireAuth(h.OrderHandler.Get))
	mux.HandleFunc("PUT /orders/{id}", h.requireRole(h.OrderHandler.Update, auth.RoleWaiter, auth.RoleAdmin))
	mux.HandleFunc("PATCH /orders/{id}/status", h.requireRole(h.OrderHandler.PatchStatus, auth.RoleKitchen, auth.RoleWaiter, auth.RoleAdmin))
	mux.HandleFunc("POST /orders/{id}/cancel", h.requireRole(h.OrderHandler.Cancel, auth.RoleWaiter, auth.RoleAdmin))
	mux.HandleFunc("DELETE /orders/{id}", h.requireRole(h.OrderHandler.Delete, auth.RoleAdmin))

	mux.HandleFunc("POST /payments", h.requireRole(h.PaymentHandler.Settle, auth.RoleCounter, auth.RoleAdmin))

	mux.HandleFunc("GET /realtime/orders", h.requireAuth(h.RealtimeHandler.Stream))

	mux.HandleFunc("POST /tables", h.requireRole(h.TableHandler.Create, auth.RoleAdmin))
	mux.HandleFunc("GET /tables", h.requireAuth(h.TableHandler.List))
	mux.HandleFunc("GET /tables/{number}", h.requireAuth(h.TableHandler.Get))
	mux.HandleFunc("PUT /tables/{number}", h.requireRole(h.TableHandler.Update, auth.RoleAdmin))
	mux.HandleFunc("DELETE /tables/{number}", h.requireRole(h.TableHandler.Delete, auth.RoleAdmin))

	mux.HandleFunc("POST /menu", h.requireRole(h.MenuHandler.Create, auth.RoleAdmin))
	mux.HandleFunc("GET /menu", h.requireAuth(h.MenuHandler.List))
	mux.HandleFunc("GET /menu/{id}", h.requireAuth(h.MenuHandler.Get))
	mux.HandleFunc("PUT /menu/{id}", h.requireRole(h.MenuHandler.Update, auth.RoleAdmin))
	mux.HandleFunc("DELETE /menu/{id}", h.requireRole(h.MenuHandler.Delete, auth.RoleAdmin))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if h.ping != nil {
			if err := h.ping(r.Context()); err != nil {
				h.log.Error("health_check_failed", err, nil)
				writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})
	mux.Handle("GET /metrics", h.metrics.Handler())

	return h.withRequestLog(mux)
}
