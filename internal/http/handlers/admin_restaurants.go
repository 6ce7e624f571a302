package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"tabletap-platform/internal/activity"
	"tabletap-platform/internal/middleware"
	"tabletap-platform/internal/queue"
	"tabletap-platform/internal/utils"
	"tabletap-platform/pkg/response"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

const defaultEnforcementReason = "Commission payment required"

const adminRestaurantColumns = `
	res.id, res.name, u.email, res.menu_enabled, res.enforcement_reason,
	res.commission_rate, res.total_commission_owed, res.total_commission_paid,
	res.commission_balance, res.last_payment_date, res.notes
`

func scanAdminRestaurant(row pgx.Row) (AdminRestaurant, error) {
	var (
		out         AdminRestaurant
		reason      pgtype.Text
		rate        pgtype.Numeric
		owed        pgtype.Numeric
		paid        pgtype.Numeric
		balance     pgtype.Numeric
		lastPayment pgtype.Date
		notes       pgtype.Text
	)
	err := row.Scan(&out.ID, &out.Name, &out.OwnerEmail, &out.MenuEnabled, &reason,
		&rate, &owed, &paid, &balance, &lastPayment, &notes)
	if err != nil {
		return AdminRestaurant{}, err
	}
	out.EnforcementReason = textPtr(reason)
	out.CommissionRate = utils.NumericToFloat64(rate)
	out.TotalCommissionOwed = utils.NumericToFloat64(owed)
	out.TotalCommissionPaid = utils.NumericToFloat64(paid)
	out.CommissionBalance = utils.NumericToFloat64(balance)
	out.LastPaymentDate = datePtr(lastPayment)
	out.Notes = textPtr(notes)
	return out, nil
}

func (h *Handler) AdminRestaurantList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.DB.Query(ctx, `
		select `+adminRestaurantColumns+`
		from restaurants res
		join users u on u.id = res.user_id
		order by res.name
	`)
	if err != nil {
		h.Logger.Error("admin restaurant list failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch restaurants")
		return
	}
	defer rows.Close()

	restaurants := []AdminRestaurant{}
	for rows.Next() {
		restaurant, err := scanAdminRestaurant(rows)
		if err != nil {
			h.Logger.Error("admin restaurant scan failed", zapError(err))
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch restaurants")
			return
		}
		restaurants = append(restaurants, restaurant)
	}
	if err := rows.Err(); err != nil {
		h.Logger.Error("admin restaurant rows failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch restaurants")
		return
	}

	response.Success(w, map[string]any{"restaurants": restaurants})
}

func (h *Handler) AdminRestaurantDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	restaurantID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid restaurant id")
		return
	}

	restaurant, err := scanAdminRestaurant(h.DB.QueryRow(ctx, `
		select `+adminRestaurantColumns+`
		from restaurants res
		join users u on u.id = res.user_id
		where res.id = $1
	`, restaurantID))
	if err != nil {
		if err == pgx.ErrNoRows {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Restaurant not found")
			return
		}
		h.Logger.Error("admin restaurant detail failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch restaurant")
		return
	}

	response.Success(w, map[string]any{"restaurant": restaurant})
}

type menuToggleRequest struct {
	Enabled bool   `json:"enabled"`
	Reason  string `json:"reason"`
}

// AdminMenuToggle flips the enforcement gate. Disabling records a
// reason; enabling always clears it. Customers placing orders see the
// new state on their next request because the gate is read per
// submission.
func (h *Handler) AdminMenuToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	admin, ok := middleware.GetAdminIdentity(ctx)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Admin access required")
		return
	}

	restaurantID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid restaurant id")
		return
	}

	var body menuToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	var reason *string
	if !body.Enabled {
		value := strings.TrimSpace(body.Reason)
		if value == "" {
			value = defaultEnforcementReason
		}
		reason = &value
	}

	tag, err := h.DB.Exec(ctx, `
		update restaurants
		set menu_enabled = $2, enforcement_reason = $3
		where id = $1
	`, restaurantID, body.Enabled, reason)
	if err != nil {
		h.Logger.Error("menu toggle failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update restaurant")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Restaurant not found")
		return
	}

	details := activity.MenuToggleDetails{AdminName: admin.Name}
	if reason != nil {
		details.Reason = *reason
	}
	h.Activity.Record(ctx, admin, activity.ToggleAction(body.Enabled), activity.TargetRestaurant, &restaurantID, details)

	h.publishAdminEvent(ctx, queue.KeyMenuToggled, restaurantID, func(event *queue.Event) {
		event.MenuEnabled = &body.Enabled
		event.Reason = reason
	})

	response.Success(w, map[string]any{
		"restaurant_id":      restaurantID,
		"menu_enabled":       body.Enabled,
		"enforcement_reason": reason,
	})
}

type notesRequest struct {
	Notes string `json:"notes"`
}

func (h *Handler) AdminRestaurantNotes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	admin, ok := middleware.GetAdminIdentity(ctx)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Admin access required")
		return
	}

	restaurantID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid restaurant id")
		return
	}

	var body notesRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	tag, err := h.DB.Exec(ctx, `
		update restaurants
		set notes = nullif($2, '')
		where id = $1
	`, restaurantID, strings.TrimSpace(body.Notes))
	if err != nil {
		h.Logger.Error("restaurant notes update failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update restaurant")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Restaurant not found")
		return
	}

	h.Activity.Record(ctx, admin, activity.ActionRestaurantUpdated, activity.TargetRestaurant, &restaurantID,
		activity.NotesUpdatedDetails{AdminName: admin.Name})

	response.Success(w, map[string]any{"updated": true})
}

func (h *Handler) publishAdminEvent(ctx context.Context, key string, restaurantID int64, fill func(*queue.Event)) {
	if h.Queue == nil {
		return
	}
	event := queue.Event{
		Type:         key,
		RestaurantID: restaurantID,
		OccurredAt:   time.Now(),
	}
	if fill != nil {
		fill(&event)
	}
	if err := h.Queue.PublishJSON(ctx, queue.EventsExchange, key, event); err != nil {
		h.Logger.Warn("admin event publish failed", zap.String("routingKey", key), zapError(err))
	}
}
