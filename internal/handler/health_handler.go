package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function, e.g. a Redis client's Ping(ctx).Err()
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	db      Pinger
	redis   Pinger
	timeout time.Duration
}

// NewHealthHandler reports database state; redis may be nil when the replay ledger is off
func NewHealthHandler(db, redis Pinger) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, timeout: 2 * time.Second}
}

// Health answers 200 even when a dependency is down
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	body := gin.H{
		"status":  "OK",
		"message": "Backend running",
		"db":      probe(ctx, h.db),
	}
	if h.redis != nil {
		body["redis"] = probe(ctx, h.redis)
	}
	c.JSON(http.StatusOK, body)
}

func probe(ctx context.Context, p Pinger) string {
	if p == nil || p.Ping(ctx) != nil {
		return "unhealthy"
	}
	return "healthy"
}
