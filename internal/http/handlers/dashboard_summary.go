package handlers

import (
	"net/http"

	"tabletap-platform/internal/middleware"
	"tabletap-platform/internal/utils"
	"tabletap-platform/pkg/response"

	"github.com/jackc/pgx/v5/pgtype"
)

// DashboardSummary aggregates the owner's landing page numbers in one
// query. Revenue counts completed orders only.
func (h *Handler) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var (
		totalOrders   int64
		revenue       pgtype.Numeric
		activeTables  int64
		pendingOrders int64
	)
	query := `
		select
			(select count(*) from orders where restaurant_id = $1),
			(select coalesce(sum(total), 0) from orders where restaurant_id = $1 and status = 'completed'),
			(select count(*) from restaurant_tables where restaurant_id = $1 and is_active = true),
			(select count(*) from orders where restaurant_id = $1 and status in ('pending', 'preparing'))
	`
	if err := h.DB.QueryRow(ctx, query, authCtx.RestaurantID).Scan(&totalOrders, &revenue, &activeTables, &pendingOrders); err != nil {
		h.Logger.Error("dashboard summary query failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch summary")
		return
	}

	response.Success(w, map[string]any{
		"totalOrders":   totalOrders,
		"revenue":       utils.NumericToFloat64(revenue),
		"activeTables":  activeTables,
		"pendingOrders": pendingOrders,
	})
}
