package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"tabletap-platform/internal/auth"
	"tabletap-platform/internal/config"
	"tabletap-platform/internal/http/handlers"
	"tabletap-platform/internal/utils"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Server struct {
	DB     *pgxpool.Pool
	Logger *zap.Logger
	Config config.Config

	ordersRealtime *dashboardOrdersRealtime
}

func New(db *pgxpool.Pool, logger *zap.Logger, cfg config.Config) *Server {
	return &Server{
		DB:             db,
		Logger:         logger,
		Config:         cfg,
		ordersRealtime: newDashboardOrdersRealtime(db, logger),
	}
}

type wsRealtimeClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsRealtimeClient) writeJSON(value any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(value)
}

// dashboardOrdersRealtime fans Postgres NOTIFY payloads out to the
// dashboards subscribed to the restaurant named in the payload.
type dashboardOrdersRealtime struct {
	db     *pgxpool.Pool
	logger *zap.Logger

	started sync.Once
	mu      sync.RWMutex
	subs    map[string]map[*wsRealtimeClient]struct{}
}

func newDashboardOrdersRealtime(db *pgxpool.Pool, logger *zap.Logger) *dashboardOrdersRealtime {
	return &dashboardOrdersRealtime{
		db:     db,
		logger: logger,
		subs:   make(map[string]map[*wsRealtimeClient]struct{}),
	}
}

func (dr *dashboardOrdersRealtime) ensureStarted() {
	dr.started.Do(func() {
		go dr.listenLoop(context.Background())
	})
}

func (dr *dashboardOrdersRealtime) subscribe(restaurantID string, client *wsRealtimeClient) (unsubscribe func()) {
	key := strings.TrimSpace(restaurantID)
	if key == "" {
		return func() {}
	}

	dr.mu.Lock()
	if dr.subs[key] == nil {
		dr.subs[key] = make(map[*wsRealtimeClient]struct{})
	}
	dr.subs[key][client] = struct{}{}
	dr.mu.Unlock()

	return func() {
		dr.mu.Lock()
		clients := dr.subs[key]
		delete(clients, client)
		if len(clients) == 0 {
			delete(dr.subs, key)
		}
		dr.mu.Unlock()
	}
}

func (dr *dashboardOrdersRealtime) broadcast(restaurantID string, message any) {
	key := strings.TrimSpace(restaurantID)
	if key == "" {
		return
	}

	dr.mu.RLock()
	clientsMap := dr.subs[key]
	clients := make([]*wsRealtimeClient, 0, len(clientsMap))
	for c := range clientsMap {
		clients = append(clients, c)
	}
	dr.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	for _, c := range clients {
		if err := c.writeJSON(message); err != nil {
			_ = c.conn.Close()
			dr.mu.Lock()
			if current := dr.subs[key]; current != nil {
				delete(current, c)
				if len(current) == 0 {
					delete(dr.subs, key)
				}
			}
			dr.mu.Unlock()
		}
	}
}

func (dr *dashboardOrdersRealtime) fetchActiveOrders(ctx context.Context, restaurantID int64) ([]handlers.Order, error) {
	query := `
		select id, restaurant_id, table_id, items, customer_name, notes,
		       subtotal, vat_amount, tip_amount, total,
		       commission_rate, commission_amount, status, created_at, updated_at
		from orders
		where restaurant_id = $1 and status in ('pending', 'preparing')
		order by created_at desc
	`
	rows, err := dr.db.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]handlers.Order, 0)
	for rows.Next() {
		var (
			order        handlers.Order
			itemsJSON    []byte
			customerName pgtype.Text
			notes        pgtype.Text
			subtotal     pgtype.Numeric
			vatAmount    pgtype.Numeric
			tipAmount    pgtype.Numeric
			total        pgtype.Numeric
			rate         pgtype.Numeric
			amount       pgtype.Numeric
		)
		err := rows.Scan(
			&order.ID, &order.RestaurantID, &order.TableID, &itemsJSON, &customerName, &notes,
			&subtotal, &vatAmount, &tipAmount, &total,
			&rate, &amount, &order.Status, &order.CreatedAt, &order.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if customerName.Valid {
			order.CustomerName = &customerName.String
		}
		if notes.Valid {
			order.Notes = &notes.String
		}
		order.Subtotal = utils.NumericToFloat64(subtotal)
		order.VatAmount = utils.NumericToFloat64(vatAmount)
		order.TipAmount = utils.NumericToFloat64(tipAmount)
		order.Total = utils.NumericToFloat64(total)
		order.CommissionRate = utils.NumericToFloat64(rate)
		order.CommissionAmount = utils.NumericToFloat64(amount)
		order.Items = []handlers.OrderItemInput{}
		if len(itemsJSON) > 0 {
			_ = json.Unmarshal(itemsJSON, &order.Items)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (dr *dashboardOrdersRealtime) listenLoop(ctx context.Context) {
	backoff := time.Second
	for {
		conn, err := dr.db.Acquire(ctx)
		if err != nil {
			if dr.logger != nil {
				dr.logger.Warn("dashboard LISTEN acquire failed", zap.Error(err))
			}
			time.Sleep(backoff)
			backoff = minDuration(backoff*2, 30*time.Second)
			continue
		}

		_, err = conn.Exec(ctx, `listen dashboard_orders_updates`)
		if err != nil {
			conn.Release()
			if dr.logger != nil {
				dr.logger.Warn("dashboard LISTEN failed", zap.Error(err))
			}
			time.Sleep(backoff)
			backoff = minDuration(backoff*2, 30*time.Second)
			continue
		}

		backoff = time.Second
		for {
			n, err := conn.Conn().WaitForNotification(ctx)
			if err != nil {
				break
			}
			restaurantIDText := strings.TrimSpace(n.Payload)
			if restaurantIDText == "" {
				continue
			}

			restaurantID, parseErr := strconv.ParseInt(restaurantIDText, 10, 64)
			if parseErr != nil {
				dr.broadcast(restaurantIDText, map[string]any{"type": "orders.refresh", "updatedAt": time.Now()})
				continue
			}

			orders, fetchErr := dr.fetchActiveOrders(ctx, restaurantID)
			if fetchErr != nil {
				dr.broadcast(restaurantIDText, map[string]any{"type": "orders.refresh", "updatedAt": time.Now()})
				continue
			}

			dr.broadcast(restaurantIDText, map[string]any{"type": "orders.state", "data": orders})
		}

		conn.Release()
		time.Sleep(backoff)
		backoff = minDuration(backoff*2, 30*time.Second)
	}
}

// DashboardOrdersWS streams the active order list to an owner's
// dashboard. The JWT arrives as a query parameter because browsers
// cannot set headers on websocket upgrades.
func (s *Server) DashboardOrdersWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	claims, err := auth.VerifyAccessToken(r.URL.Query().Get("token"), s.Config.JWTSecret)
	if err != nil || claims.RestaurantID == nil {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": "unauthorized"})
		return
	}

	restaurantID, err := strconv.ParseInt(*claims.RestaurantID, 10, 64)
	if err != nil {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": "unauthorized"})
		return
	}

	s.ordersRealtime.ensureStarted()
	ctx := r.Context()
	client := &wsRealtimeClient{conn: conn}
	unsubscribe := s.ordersRealtime.subscribe(fmt.Sprint(restaurantID), client)
	defer unsubscribe()

	// Initial snapshot before any notifications arrive.
	if orders, fetchErr := s.ordersRealtime.fetchActiveOrders(ctx, restaurantID); fetchErr == nil {
		_ = client.writeJSON(map[string]any{"type": "orders.state", "data": orders})
	} else {
		_ = client.writeJSON(map[string]any{"type": "orders.refresh", "updatedAt": time.Now()})
	}

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	select {
	case <-clientClosed:
		return
	case <-ctx.Done():
		return
	}
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
