package handlers

import (
	"net/http"

	"tabletap-platform/internal/utils"
	"tabletap-platform/pkg/response"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// PublicMenu is what a QR scan lands on: restaurant status plus the
// available menu, resolved from the table id baked into the code.
func (h *Handler) PublicMenu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tableID, err := readPathInt64(r, "tableID")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid table id")
		return
	}

	var (
		status      MenuStatus
		tableNumber string
		tableActive bool
	)
	err = h.DB.QueryRow(ctx, `
		select res.id, res.name, res.menu_enabled, res.enforcement_reason, t.table_number, t.is_active
		from restaurant_tables t
		join restaurants res on res.id = t.restaurant_id
		where t.id = $1
	`, tableID).Scan(&status.RestaurantID, &status.RestaurantName, &status.MenuEnabled, &status.EnforcementReason, &tableNumber, &tableActive)
	if err != nil {
		if err == pgx.ErrNoRows {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Table not found")
			return
		}
		h.Logger.Error("public menu table lookup failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch menu")
		return
	}
	if !tableActive {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Table not found")
		return
	}

	// Scan counter is best effort.
	if _, err := h.DB.Exec(ctx, `update restaurant_tables set qr_scans = qr_scans + 1 where id = $1`, tableID); err != nil {
		h.Logger.Warn("qr scan counter update failed", zapError(err))
	}

	items := []MenuItem{}
	if status.MenuEnabled {
		rows, err := h.DB.Query(ctx, `
			select id, restaurant_id, name, description, price, category, image_url, thumbnail_url, available, created_at, updated_at
			from menu_items
			where restaurant_id = $1 and available = true
			order by category, name
		`, status.RestaurantID)
		if err != nil {
			h.Logger.Error("public menu items query failed", zapError(err))
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch menu")
			return
		}
		items, err = collectMenuItems(rows)
		if err != nil {
			h.Logger.Error("public menu items scan failed", zapError(err))
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch menu")
			return
		}
	}

	response.Success(w, map[string]any{
		"restaurant": status,
		"table": map[string]any{
			"id":           tableID,
			"table_number": tableNumber,
		},
		"items": items,
	})
}

// PublicMenuCheckStatus lets the ordering page poll the enforcement
// gate before submitting. Accepts either tableId or restaurantId.
func (h *Handler) PublicMenuCheckStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		status MenuStatus
		err    error
	)
	if tableID, ok := readQueryInt64(r, "tableId"); ok {
		err = h.DB.QueryRow(ctx, `
			select res.id, res.name, res.menu_enabled, res.enforcement_reason
			from restaurant_tables t
			join restaurants res on res.id = t.restaurant_id
			where t.id = $1
		`, tableID).Scan(&status.RestaurantID, &status.RestaurantName, &status.MenuEnabled, &status.EnforcementReason)
	} else if restaurantID, ok := readQueryInt64(r, "restaurantId"); ok {
		err = h.DB.QueryRow(ctx, `
			select id, name, menu_enabled, enforcement_reason
			from restaurants
			where id = $1
		`, restaurantID).Scan(&status.RestaurantID, &status.RestaurantName, &status.MenuEnabled, &status.EnforcementReason)
	} else {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "tableId or restaurantId is required")
		return
	}

	if err != nil {
		if err == pgx.ErrNoRows {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Restaurant not found")
			return
		}
		h.Logger.Error("menu status check failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check menu status")
		return
	}

	response.Success(w, status)
}

func scanMenuItemRow(row pgx.Row) (MenuItem, error) {
	var (
		item         MenuItem
		description  pgtype.Text
		price        pgtype.Numeric
		imageURL     pgtype.Text
		thumbnailURL pgtype.Text
	)
	err := row.Scan(
		&item.ID, &item.RestaurantID, &item.Name, &description, &price, &item.Category,
		&imageURL, &thumbnailURL, &item.Available, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return MenuItem{}, err
	}
	if description.Valid {
		item.Description = description.String
	}
	item.Price = utils.NumericToFloat64(price)
	item.ImageURL = textPtr(imageURL)
	item.ThumbnailURL = textPtr(thumbnailURL)
	return item, nil
}

func collectMenuItems(rows pgx.Rows) ([]MenuItem, error) {
	defer rows.Close()
	items := []MenuItem{}
	for rows.Next() {
		item, err := scanMenuItemRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
