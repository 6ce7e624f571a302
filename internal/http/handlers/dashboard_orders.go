package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"tabletap-platform/internal/commission"
	"tabletap-platform/internal/middleware"
	"tabletap-platform/internal/queue"
	"tabletap-platform/pkg/response"
)

// Order status only moves forward. Completed is terminal; there is no
// cancel or rollback on this surface.
var allowedTransitions = map[string][]string{
	"pending":   {"preparing"},
	"preparing": {"completed"},
	"completed": {},
}

func isValidTransition(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func validOrderStatus(status string) bool {
	_, ok := allowedTransitions[status]
	return ok
}

func (h *Handler) DashboardOrderList(w http.ResponseWriter, r *http.Request) {
	h.listOrders(w, r, "")
}

// DashboardOrderActiveList is the kitchen view: pending and preparing
// only.
func (h *Handler) DashboardOrderActiveList(w http.ResponseWriter, r *http.Request) {
	h.listOrders(w, r, "and status in ('pending', 'preparing')")
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request, statusFilter string) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	query := `select ` + orderColumns + ` from orders where restaurant_id = $1 ` + statusFilter + ` order by created_at desc limit 200`
	rows, err := h.DB.Query(ctx, query, authCtx.RestaurantID)
	if err != nil {
		h.Logger.Error("order list query failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch orders")
		return
	}
	orders, err := collectOrders(rows)
	if err != nil {
		h.Logger.Error("order list scan failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch orders")
		return
	}

	response.Success(w, map[string]any{"orders": orders})
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

// DashboardOrderUpdateStatus advances one order. The UPDATE is filtered
// by both order id and the caller's restaurant id, so an id belonging
// to another tenant hits zero rows and reads as not found.
func (h *Handler) DashboardOrderUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	orderID, err := readPathInt64(r, "orderID")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order id")
		return
	}

	var body orderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	newStatus := strings.ToLower(strings.TrimSpace(body.Status))
	if !validOrderStatus(newStatus) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown order status")
		return
	}

	tx, err := h.DB.Begin(ctx)
	if err != nil {
		h.Logger.Error("order status tx begin failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update order")
		return
	}
	defer tx.Rollback(ctx)

	var currentStatus string
	err = tx.QueryRow(ctx, `
		select status from orders
		where id = $1 and restaurant_id = $2
		for update
	`, orderID, authCtx.RestaurantID).Scan(&currentStatus)
	if err != nil {
		// Covers both a missing order and another tenant's order.
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Order not found")
		return
	}

	if !isValidTransition(currentStatus, newStatus) {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"Cannot change order status from "+currentStatus+" to "+newStatus)
		return
	}

	order, err := scanOrder(tx.QueryRow(ctx, `
		update orders
		set status = $3, updated_at = now()
		where id = $1 and restaurant_id = $2
		returning `+orderColumns, orderID, authCtx.RestaurantID, newStatus))
	if err != nil {
		h.Logger.Error("order status update failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update order")
		return
	}

	// Completion brings the order's snapshotted commission into the
	// owed total.
	if newStatus == "completed" {
		if err := commission.Recalculate(ctx, tx, authCtx.RestaurantID); err != nil {
			h.Logger.Error("commission recalculate failed", zapError(err))
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update order")
			return
		}
	}

	if err := tx.Commit(ctx); err != nil {
		h.Logger.Error("order status tx commit failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update order")
		return
	}

	h.publishOrderEvent(ctx, queue.KeyOrderStatusUpdated, authCtx.RestaurantID, orderID, newStatus)
	h.notifyDashboardOrders(ctx, authCtx.RestaurantID)

	response.Success(w, map[string]any{"order": order})
}
