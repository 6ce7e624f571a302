package handlers

import (
	"net/http"

	"tabletap-platform/internal/utils"
	"tabletap-platform/pkg/response"

	"github.com/jackc/pgx/v5"
)

// PublicOrderDetail serves the order confirmation page. Access is gated
// by the HMAC tracking token handed out at creation, not by a session.
func (h *Handler) PublicOrderDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := readPathInt64(r, "orderID")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order id")
		return
	}
	token := r.URL.Query().Get("token")
	if token == "" {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Tracking token required")
		return
	}

	order, err := scanOrder(h.DB.QueryRow(ctx, `select `+orderColumns+` from orders where id = $1`, orderID))
	if err != nil {
		if err == pgx.ErrNoRows {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Order not found")
			return
		}
		h.Logger.Error("public order lookup failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch order")
		return
	}

	if !utils.VerifyOrderTrackingToken(h.Config.OrderTrackingSecret, token, order.RestaurantID, order.ID) {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid tracking token")
		return
	}

	response.Success(w, map[string]any{"order": order})
}
