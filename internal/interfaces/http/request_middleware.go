package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// requestObserver lo implementa observability.Metrics.
type requestObserver interface {
	ObserveRequest(route, method, status string, d time.Duration)
}

// RequestLogger registra cada petición (nivel según el status) y alimenta las métricas HTTP.
// obs puede ser nil.
func RequestLogger(log zerolog.Logger, obs requestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// deja que el ErrorHandler de Fiber fije el status antes de leerlo
			_ = c.App().ErrorHandler(c, err)
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()

		route := c.Route().Path
		if obs != nil {
			obs.ObserveRequest(route, c.Method(), strconv.Itoa(status), elapsed)
		}

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", elapsed).
			Str("company_id", GetCompanyID(c)).
			Msg("http")
		return nil
	}
}
