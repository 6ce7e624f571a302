package handlers

import (
	"net/http"

	"tabletap-platform/internal/utils"
	"tabletap-platform/pkg/response"

	"github.com/jackc/pgx/v5/pgtype"
)

// AdminStats aggregates the platform-wide admin landing page numbers.
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		totalRestaurants   int64
		activeRestaurants  int64
		totalOrders        int64
		totalRevenue       pgtype.Numeric
		totalOutstanding   pgtype.Numeric
		overdueRestaurants int64
	)
	query := `
		select
			(select count(*) from restaurants),
			(select count(*) from restaurants where menu_enabled = true),
			(select count(*) from orders),
			(select coalesce(sum(total), 0) from orders where status = 'completed'),
			(select coalesce(sum(commission_balance), 0) from restaurants),
			(select count(*) from restaurants where commission_balance > 0)
	`
	err := h.DB.QueryRow(ctx, query).Scan(&totalRestaurants, &activeRestaurants,
		&totalOrders, &totalRevenue, &totalOutstanding, &overdueRestaurants)
	if err != nil {
		h.Logger.Error("admin stats query failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch stats")
		return
	}

	response.Success(w, map[string]any{
		"totalRestaurants":           totalRestaurants,
		"activeRestaurants":          activeRestaurants,
		"totalOrders":                totalOrders,
		"totalRevenue":               utils.NumericToFloat64(totalRevenue),
		"totalCommissionOutstanding": utils.NumericToFloat64(totalOutstanding),
		"overdueRestaurants":         overdueRestaurants,
	})
}
