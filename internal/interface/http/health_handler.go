package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/user-identity-service/pkg/response"
)

type HealthHandler struct {
	Pool  *pgxpool.Pool
	Redis *redis.Client
}

func NewHealthHandler(pool *pgxpool.Pool, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{Pool: pool, Redis: rdb}
}

// Check GET /api/healthz
func (h *HealthHandler) Check(c *gin.Context) {
	ctx := c.Request.Context()
	checks := gin.H{"db": "ok", "redis": "ok"}
	healthy := true

	if h.Pool == nil {
		checks["db"] = "not configured"
		healthy = false
	} else if err := h.Pool.Ping(ctx); err != nil {
		checks["db"] = err.Error()
		healthy = false
	}
	if h.Redis == nil {
		checks["redis"] = "not configured"
	} else if err := h.Redis.Ping(ctx).Err(); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	}

	if !healthy {
		response.Error[any](c, http.StatusServiceUnavailable, "unhealthy", checks)
		return
	}
	response.Success[any](c, http.StatusOK, checks, "healthy", nil)
}
