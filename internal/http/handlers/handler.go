package handlers

import (
	"tabletap-platform/internal/activity"
	"tabletap-platform/internal/config"
	"tabletap-platform/internal/queue"
	"tabletap-platform/internal/storage"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Handler struct {
	DB       *pgxpool.Pool
	Logger   *zap.Logger
	Config   config.Config
	Queue    *queue.Client
	Store    *storage.ObjectStore
	Activity *activity.Logger
}
