package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func zapError(err error) zap.Field {
	return zap.Error(err)
}

func readPathString(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

func readPathInt64(r *http.Request, key string) (int64, error) {
	value := readPathString(r, key)
	if value == "" {
		return 0, errMissingParam
	}
	var out int64
	_, err := fmt.Sscan(value, &out)
	return out, err
}

func readQueryInt64(r *http.Request, key string) (int64, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

var errMissingParam = errors.New("missing param")

// notifyDashboardOrders wakes the websocket feed for one restaurant.
// Best effort; the dashboard also refetches on its own.
func (h *Handler) notifyDashboardOrders(ctx context.Context, restaurantID int64) {
	_, _ = h.DB.Exec(ctx, `select pg_notify('dashboard_orders_updates', $1::text)`, restaurantID)
}
