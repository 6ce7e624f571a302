package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"tabletap-platform/internal/middleware"
	"tabletap-platform/pkg/response"

	"github.com/jackc/pgx/v5"
)

type menuItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Available   *bool   `json:"available"`
}

func validateMenuItem(body *menuItemRequest) string {
	if strings.TrimSpace(body.Name) == "" {
		return "Name is required"
	}
	if strings.TrimSpace(body.Category) == "" {
		return "Category is required"
	}
	if body.Price <= 0 {
		return "Price must be positive"
	}
	return ""
}

func (h *Handler) DashboardMenuList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	rows, err := h.DB.Query(ctx, `
		select id, restaurant_id, name, description, price, category, image_url, thumbnail_url, available, created_at, updated_at
		from menu_items
		where restaurant_id = $1
		order by category, name
	`, authCtx.RestaurantID)
	if err != nil {
		h.Logger.Error("menu list query failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch menu")
		return
	}
	items, err := collectMenuItems(rows)
	if err != nil {
		h.Logger.Error("menu list scan failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch menu")
		return
	}

	response.Success(w, map[string]any{"items": items})
}

func (h *Handler) DashboardMenuCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var body menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if msg := validateMenuItem(&body); msg != "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", msg)
		return
	}

	available := true
	if body.Available != nil {
		available = *body.Available
	}

	item, err := scanMenuItemRow(h.DB.QueryRow(ctx, `
		insert into menu_items (restaurant_id, name, description, price, category, available)
		values ($1, $2, $3, $4, $5, $6)
		returning id, restaurant_id, name, description, price, category, image_url, thumbnail_url, available, created_at, updated_at
	`, authCtx.RestaurantID, strings.TrimSpace(body.Name), strings.TrimSpace(body.Description),
		body.Price, strings.TrimSpace(body.Category), available))
	if err != nil {
		h.Logger.Error("menu item create failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create menu item")
		return
	}

	response.Created(w, map[string]any{"item": item})
}

func (h *Handler) DashboardMenuUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	itemID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid menu item id")
		return
	}

	var body menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if msg := validateMenuItem(&body); msg != "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", msg)
		return
	}

	available := true
	if body.Available != nil {
		available = *body.Available
	}

	item, err := scanMenuItemRow(h.DB.QueryRow(ctx, `
		update menu_items
		set name = $3, description = $4, price = $5, category = $6, available = $7, updated_at = now()
		where id = $1 and restaurant_id = $2
		returning id, restaurant_id, name, description, price, category, image_url, thumbnail_url, available, created_at, updated_at
	`, itemID, authCtx.RestaurantID, strings.TrimSpace(body.Name), strings.TrimSpace(body.Description),
		body.Price, strings.TrimSpace(body.Category), available))
	if err != nil {
		if err == pgx.ErrNoRows {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Menu item not found")
			return
		}
		h.Logger.Error("menu item update failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update menu item")
		return
	}

	response.Success(w, map[string]any{"item": item})
}

func (h *Handler) DashboardMenuDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	itemID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid menu item id")
		return
	}

	tag, err := h.DB.Exec(ctx, `
		delete from menu_items
		where id = $1 and restaurant_id = $2
	`, itemID, authCtx.RestaurantID)
	if err != nil {
		h.Logger.Error("menu item delete failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete menu item")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Menu item not found")
		return
	}

	response.Success(w, map[string]any{"deleted": true})
}

func (h *Handler) DashboardMenuToggleAvailable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	itemID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid menu item id")
		return
	}

	item, err := scanMenuItemRow(h.DB.QueryRow(ctx, `
		update menu_items
		set available = not available, updated_at = now()
		where id = $1 and restaurant_id = $2
		returning id, restaurant_id, name, description, price, category, image_url, thumbnail_url, available, created_at, updated_at
	`, itemID, authCtx.RestaurantID))
	if err != nil {
		if err == pgx.ErrNoRows {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Menu item not found")
			return
		}
		h.Logger.Error("menu item toggle failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update menu item")
		return
	}

	response.Success(w, map[string]any{"item": item})
}
