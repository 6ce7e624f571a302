package httpapi

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"tabletap-platform/internal/activity"
	"tabletap-platform/internal/auth"
	"tabletap-platform/internal/config"
	"tabletap-platform/internal/http/handlers"
	"tabletap-platform/internal/middleware"
	"tabletap-platform/internal/queue"
	"tabletap-platform/internal/storage"
	"tabletap-platform/internal/ws"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func NewRouter(db *pgxpool.Pool, logger *zap.Logger, cfg config.Config, queueClient *queue.Client, store *storage.ObjectStore, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Telemetry(logger))

	if cfg.Env == "development" || len(cfg.CorsAllowedOrigins) > 0 {
		options := cors.Options{
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept",
				"Authorization",
				"Content-Type",
				"X-Requested-With",
				"Cache-Control",
				"Pragma",
			},
			AllowCredentials: true,
			MaxAge:           300,
		}

		if cfg.Env == "development" {
			options.AllowOriginFunc = func(_ *http.Request, origin string) bool {
				return true
			}
		} else {
			options.AllowedOrigins = cfg.CorsAllowedOrigins
		}

		r.Use(cors.Handler(options))
	}

	h := &handlers.Handler{
		DB:       db,
		Logger:   logger,
		Config:   cfg,
		Queue:    queueClient,
		Store:    store,
		Activity: &activity.Logger{DB: db, Log: logger},
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.AuthRegister)
		r.Post("/login", h.AuthLogin)
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Post("/orders", h.PublicOrderCreate)
		r.Get("/orders/{orderID}", h.PublicOrderDetail)
		r.Get("/menu/check-status", h.PublicMenuCheckStatus)
		r.Get("/menu/{tableID}", h.PublicMenu)
	})

	r.Route("/api/dashboard", func(r chi.Router) {
		r.Use(middleware.RestaurantAuth(db, cfg.JWTSecret))

		r.Get("/summary", h.DashboardSummary)

		r.Get("/orders", h.DashboardOrderList)
		r.Get("/orders/active", h.DashboardOrderActiveList)
		r.Put("/orders/{orderID}/status", h.DashboardOrderUpdateStatus)

		r.Get("/menu", h.DashboardMenuList)
		r.Post("/menu", h.DashboardMenuCreate)
		r.Put("/menu/{id}", h.DashboardMenuUpdate)
		r.Delete("/menu/{id}", h.DashboardMenuDelete)
		r.Patch("/menu/{id}/toggle-available", h.DashboardMenuToggleAvailable)
		r.Post("/menu/{id}/image", h.DashboardMenuItemImage)

		r.Get("/tables", h.DashboardTableList)
		r.Post("/tables", h.DashboardTableCreate)
		r.Put("/tables/{id}", h.DashboardTableUpdate)
		r.Delete("/tables/{id}", h.DashboardTableDelete)
		r.Patch("/tables/{id}/toggle-active", h.DashboardTableToggleActive)
		r.Get("/tables/{id}/qr", h.DashboardTableQR)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.AdminAuth(db, cfg.JWTSecret))

		// support accounts can read everything below.
		r.Get("/stats", h.AdminStats)
		r.Get("/restaurants", h.AdminRestaurantList)
		r.Get("/restaurants/{id}", h.AdminRestaurantDetail)
		r.Get("/restaurants/{id}/commission", h.AdminCommissionSummary)
		r.Get("/restaurants/{id}/commission/statement", h.AdminCommissionStatement)
		r.Get("/orders", h.AdminOrderList)
		r.Get("/activity", h.AdminActivityList)

		// Mutations require the admin role; super_admin passes too.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdminRole(auth.RoleAdmin))
			r.Put("/restaurants/{id}/menu-toggle", h.AdminMenuToggle)
			r.Put("/restaurants/{id}/notes", h.AdminRestaurantNotes)
			r.Post("/restaurants/{id}/commission/payments", h.AdminCommissionRecordPayment)
			r.Post("/restaurants/{id}/commission/recalculate", h.AdminCommissionRecalculate)
		})
	})

	r.Get("/ws/dashboard/orders", wsServer.DashboardOrdersWS)

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
