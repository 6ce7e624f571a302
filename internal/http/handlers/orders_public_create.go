package handlers

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strings"
	"time"

	"tabletap-platform/internal/commission"
	"tabletap-platform/internal/queue"
	"tabletap-platform/internal/utils"
	"tabletap-platform/pkg/response"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

type orderCreateRequest struct {
	TableID      int64            `json:"table_id"`
	RestaurantID int64            `json:"restaurant_id"`
	Items        []OrderItemInput `json:"items"`
	Subtotal     float64          `json:"subtotal"`
	VatAmount    float64          `json:"vat_amount"`
	TipAmount    float64          `json:"tip_amount"`
	Total        float64          `json:"total"`
	CustomerName string           `json:"customer_name"`
	Notes        string           `json:"notes"`
}

func validateOrderCreate(body *orderCreateRequest) string {
	if body.RestaurantID <= 0 {
		return "restaurant_id is required"
	}
	if body.TableID <= 0 {
		return "table_id is required"
	}
	if len(body.Items) == 0 {
		return "At least one item is required"
	}
	for _, item := range body.Items {
		if strings.TrimSpace(item.Name) == "" {
			return "Item name is required"
		}
		if item.Quantity <= 0 {
			return "Item quantity must be positive"
		}
		if item.Price < 0 || math.IsNaN(item.Price) || math.IsInf(item.Price, 0) {
			return "Item price is invalid"
		}
	}
	if body.Subtotal <= 0 || math.IsNaN(body.Subtotal) || math.IsInf(body.Subtotal, 0) {
		return "subtotal must be positive"
	}
	if body.VatAmount < 0 || body.TipAmount < 0 {
		return "vat_amount and tip_amount cannot be negative"
	}
	if body.Total <= 0 || math.IsNaN(body.Total) || math.IsInf(body.Total, 0) {
		return "total must be positive"
	}
	return ""
}

// PublicOrderCreate places a customer order. The menu_enabled gate is
// re-read from the database inside this request, after validation and
// before the insert, so a toggle that landed moments ago is always
// honored.
func (h *Handler) PublicOrderCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body orderCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if msg := validateOrderCreate(&body); msg != "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", msg)
		return
	}

	var (
		menuEnabled       bool
		enforcementReason pgtype.Text
		commissionRate    pgtype.Numeric
	)
	err := h.DB.QueryRow(ctx, `
		select menu_enabled, enforcement_reason, commission_rate
		from restaurants
		where id = $1
	`, body.RestaurantID).Scan(&menuEnabled, &enforcementReason, &commissionRate)
	if err != nil {
		if err == pgx.ErrNoRows {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Restaurant not found")
			return
		}
		h.Logger.Error("order create restaurant lookup failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create order")
		return
	}

	if !menuEnabled {
		message := "Ordering is temporarily unavailable for this restaurant"
		if enforcementReason.Valid && strings.TrimSpace(enforcementReason.String) != "" {
			message = enforcementReason.String
		}
		response.Enforcement(w, message)
		return
	}

	var (
		tableRestaurantID int64
		tableActive       bool
	)
	err = h.DB.QueryRow(ctx, `
		select restaurant_id, is_active
		from restaurant_tables
		where id = $1
	`, body.TableID).Scan(&tableRestaurantID, &tableActive)
	if err != nil {
		if err == pgx.ErrNoRows {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Table not found")
			return
		}
		h.Logger.Error("order create table lookup failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create order")
		return
	}
	if !tableActive {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Table is not active")
		return
	}
	if tableRestaurantID != body.RestaurantID {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Table does not belong to this restaurant")
		return
	}

	rate := utils.NumericToFloat64(commissionRate)
	if rate <= 0 {
		rate = h.Config.DefaultCommissionRate
	}
	commissionAmount := commission.Amount(body.Subtotal, rate)

	itemsJSON, err := json.Marshal(body.Items)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid items")
		return
	}

	customerName := strings.TrimSpace(body.CustomerName)
	notes := strings.TrimSpace(body.Notes)

	var (
		orderID   int64
		createdAt time.Time
		updatedAt time.Time
	)
	err = h.DB.QueryRow(ctx, `
		insert into orders (
			restaurant_id, table_id, items, customer_name, notes,
			subtotal, vat_amount, tip_amount, total,
			commission_rate, commission_amount, status
		)
		values ($1, $2, $3, nullif($4, ''), nullif($5, ''), $6, $7, $8, $9, $10, $11, 'pending')
		returning id, created_at, updated_at
	`, body.RestaurantID, body.TableID, itemsJSON, customerName, notes,
		body.Subtotal, body.VatAmount, body.TipAmount, body.Total,
		rate, commissionAmount).Scan(&orderID, &createdAt, &updatedAt)
	if err != nil {
		h.Logger.Error("order create insert failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create order")
		return
	}

	h.publishOrderEvent(ctx, queue.KeyOrderCreated, body.RestaurantID, orderID, "pending")
	h.notifyDashboardOrders(ctx, body.RestaurantID)

	order := Order{
		ID:               orderID,
		RestaurantID:     body.RestaurantID,
		TableID:          body.TableID,
		Items:            body.Items,
		Subtotal:         body.Subtotal,
		VatAmount:        body.VatAmount,
		TipAmount:        body.TipAmount,
		Total:            body.Total,
		CommissionRate:   rate,
		CommissionAmount: commissionAmount,
		Status:           "pending",
		CreatedAt:        createdAt,
		UpdatedAt:        updatedAt,
	}
	if customerName != "" {
		order.CustomerName = &customerName
	}
	if notes != "" {
		order.Notes = &notes
	}

	response.Created(w, map[string]any{
		"order":          order,
		"tracking_token": utils.CreateOrderTrackingToken(h.Config.OrderTrackingSecret, body.RestaurantID, orderID),
	})
}

// publishOrderEvent is best effort; a stopped broker never blocks an
// order.
func (h *Handler) publishOrderEvent(ctx context.Context, key string, restaurantID, orderID int64, status string) {
	if h.Queue == nil {
		return
	}
	event := queue.Event{
		Type:         key,
		RestaurantID: restaurantID,
		OrderID:      &orderID,
		Status:       &status,
		OccurredAt:   time.Now(),
	}
	if err := h.Queue.PublishJSON(ctx, queue.EventsExchange, key, event); err != nil {
		h.Logger.Warn("order event publish failed", zap.String("routingKey", key), zapError(err))
	}
}
