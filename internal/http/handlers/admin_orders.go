package handlers

import (
	"net/http"
	"strings"

	"tabletap-platform/pkg/response"
)

// AdminOrderList is the cross-tenant order view, optionally filtered
// by restaurantId and status.
func (h *Handler) AdminOrderList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := `select ` + orderColumns + ` from orders`
	conditions := []string{}
	args := []any{}

	if restaurantID, ok := readQueryInt64(r, "restaurantId"); ok {
		args = append(args, restaurantID)
		conditions = append(conditions, "restaurant_id = $1")
	}
	if status := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status"))); status != "" {
		if !validOrderStatus(status) {
			response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown order status")
			return
		}
		args = append(args, status)
		if len(args) == 1 {
			conditions = append(conditions, "status = $1")
		} else {
			conditions = append(conditions, "status = $2")
		}
	}
	if len(conditions) > 0 {
		query += " where " + strings.Join(conditions, " and ")
	}
	query += " order by created_at desc limit 200"

	rows, err := h.DB.Query(ctx, query, args...)
	if err != nil {
		h.Logger.Error("admin order list failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch orders")
		return
	}
	orders, err := collectOrders(rows)
	if err != nil {
		h.Logger.Error("admin order list scan failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch orders")
		return
	}

	response.Success(w, map[string]any{"orders": orders})
}
