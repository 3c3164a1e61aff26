package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Revenue-api/internal/application/dto"
)

const healthTimeout = 2 * time.Second

// Pinger lo cumplen *pgxpool.Pool y el cliente de Redis (adaptado en cmd/api).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler estado de las dependencias. La DB es obligatoria; el caché no.
type HealthHandler struct {
	db    Pinger
	cache Pinger // nil = caché deshabilitado
}

// NewHealthHandler construye el handler; cache puede ser nil.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Get responde 200 si la DB responde (el caché caído solo degrada) y 503 si no.
func (h *HealthHandler) Get(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthTimeout)
	defer cancel()

	out := dto.HealthDTO{Status: "ok", Database: "up", Cache: "disabled"}
	status := fiber.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		out.Status, out.Database = "unavailable", "down"
		status = fiber.StatusServiceUnavailable
	}
	if h.cache != nil {
		out.Cache = "up"
		if err := h.cache.Ping(ctx); err != nil {
			out.Cache = "down"
			if status == fiber.StatusOK {
				out.Status = "degraded"
			}
		}
	}
	return c.Status(status).JSON(out)
}
