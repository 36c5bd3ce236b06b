package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/akeray/property-system/internal/infrastructure/db/mongo"
	"github.com/akeray/property-system/internal/infrastructure/db/redis"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	mongoClient *gomongo.Client
	redisClient *goredis.Client
}

func NewHealthHandler(mongoClient *gomongo.Client, redisClient *goredis.Client) *HealthHandler {
	return &HealthHandler{mongoClient: mongoClient, redisClient: redisClient}
}

// Live reports process liveness. It never checks dependencies.
func (h *HealthHandler) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports whether the service can actually serve: both backing stores
// must answer a ping.
func (h *HealthHandler) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	deps := map[string]string{"mongo": "ok", "redis": "ok"}
	healthy := true

	if err := mongo.Ping(ctx, h.mongoClient); err != nil {
		deps["mongo"] = "unreachable"
		healthy = false
	}
	if err := redis.Ping(ctx, h.redisClient); err != nil {
		deps["redis"] = "unreachable"
		healthy = false
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, map[string]any{"status": deps, "ready": healthy})
}
