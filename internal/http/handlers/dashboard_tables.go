package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"tabletap-platform/internal/middleware"
	"tabletap-platform/pkg/response"

	"github.com/jackc/pgx/v5"
	"github.com/skip2/go-qrcode"
)

type tableRequest struct {
	TableNumber string `json:"table_number"`
	Capacity    int32  `json:"capacity"`
	IsActive    *bool  `json:"is_active"`
}

func (h *Handler) menuURLFor(tableID int64) string {
	return fmt.Sprintf("%s/menu/%d", strings.TrimRight(h.Config.PublicMenuBaseURL, "/"), tableID)
}

func (h *Handler) tableFromRow(row pgx.Row) (Table, error) {
	var table Table
	err := row.Scan(&table.ID, &table.RestaurantID, &table.TableNumber, &table.Capacity,
		&table.IsActive, &table.QRScans, &table.CreatedAt)
	if err != nil {
		return Table{}, err
	}
	table.MenuURL = h.menuURLFor(table.ID)
	return table, nil
}

const tableColumns = `id, restaurant_id, table_number, capacity, is_active, qr_scans, created_at`

func (h *Handler) DashboardTableList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	rows, err := h.DB.Query(ctx, `
		select `+tableColumns+`
		from restaurant_tables
		where restaurant_id = $1
		order by table_number
	`, authCtx.RestaurantID)
	if err != nil {
		h.Logger.Error("table list query failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch tables")
		return
	}
	defer rows.Close()

	tables := []Table{}
	for rows.Next() {
		table, err := h.tableFromRow(rows)
		if err != nil {
			h.Logger.Error("table list scan failed", zapError(err))
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch tables")
			return
		}
		tables = append(tables, table)
	}
	if err := rows.Err(); err != nil {
		h.Logger.Error("table list rows failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch tables")
		return
	}

	response.Success(w, map[string]any{"tables": tables})
}

func (h *Handler) DashboardTableCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var body tableRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	tableNumber := strings.TrimSpace(body.TableNumber)
	if tableNumber == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Table number is required")
		return
	}
	if body.Capacity <= 0 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Capacity must be positive")
		return
	}

	active := true
	if body.IsActive != nil {
		active = *body.IsActive
	}

	table, err := h.tableFromRow(h.DB.QueryRow(ctx, `
		insert into restaurant_tables (restaurant_id, table_number, capacity, is_active)
		values ($1, $2, $3, $4)
		returning `+tableColumns, authCtx.RestaurantID, tableNumber, body.Capacity, active))
	if err != nil {
		h.Logger.Error("table create failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create table")
		return
	}

	response.Created(w, map[string]any{"table": table})
}

func (h *Handler) DashboardTableUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	tableID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid table id")
		return
	}

	var body tableRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	tableNumber := strings.TrimSpace(body.TableNumber)
	if tableNumber == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Table number is required")
		return
	}
	if body.Capacity <= 0 {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Capacity must be positive")
		return
	}

	table, err := h.tableFromRow(h.DB.QueryRow(ctx, `
		update restaurant_tables
		set table_number = $3, capacity = $4
		where id = $1 and restaurant_id = $2
		returning `+tableColumns, tableID, authCtx.RestaurantID, tableNumber, body.Capacity))
	if err != nil {
		if err == pgx.ErrNoRows {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Table not found")
			return
		}
		h.Logger.Error("table update failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update table")
		return
	}

	response.Success(w, map[string]any{"table": table})
}

func (h *Handler) DashboardTableDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	tableID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid table id")
		return
	}

	tag, err := h.DB.Exec(ctx, `
		delete from restaurant_tables
		where id = $1 and restaurant_id = $2
	`, tableID, authCtx.RestaurantID)
	if err != nil {
		h.Logger.Error("table delete failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete table")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Table not found")
		return
	}

	response.Success(w, map[string]any{"deleted": true})
}

func (h *Handler) DashboardTableToggleActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	tableID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid table id")
		return
	}

	table, err := h.tableFromRow(h.DB.QueryRow(ctx, `
		update restaurant_tables
		set is_active = not is_active
		where id = $1 and restaurant_id = $2
		returning `+tableColumns, tableID, authCtx.RestaurantID))
	if err != nil {
		if err == pgx.ErrNoRows {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Table not found")
			return
		}
		h.Logger.Error("table toggle failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update table")
		return
	}

	response.Success(w, map[string]any{"table": table})
}

// DashboardTableQR renders the printable QR code that links the
// physical table to the public menu URL.
func (h *Handler) DashboardTableQR(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	tableID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid table id")
		return
	}

	var exists bool
	err = h.DB.QueryRow(ctx, `
		select true from restaurant_tables
		where id = $1 and restaurant_id = $2
	`, tableID, authCtx.RestaurantID).Scan(&exists)
	if err != nil {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Table not found")
		return
	}

	size := 512
	if requested, ok := readQueryInt64(r, "size"); ok && requested >= 128 && requested <= 2048 {
		size = int(requested)
	}

	png, err := qrcode.Encode(h.menuURLFor(tableID), qrcode.Medium, size)
	if err != nil {
		h.Logger.Error("qr encode failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}
