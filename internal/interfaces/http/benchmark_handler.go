package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Revenue-api/internal/application/analytics"
)

// BenchmarkHandler aporte y comparación contra el benchmark del nicho.
type BenchmarkHandler struct {
	uc  *analytics.BenchmarkUseCase
	log zerolog.Logger
}

// NewBenchmarkHandler construye el handler.
func NewBenchmarkHandler(uc *analytics.BenchmarkUseCase, log zerolog.Logger) *BenchmarkHandler {
	return &BenchmarkHandler{uc: uc, log: log}
}

// Contribute godoc
// @Summary      Aporta las métricas de la empresa al benchmark de su nicho
// @Description  Idempotente: una empresa aporta una sola vez por bucket. 409 si la actualización
//               concurrente no se pudo serializar.
// @Tags         benchmarks
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BenchmarkContributionDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/benchmarks/contribute [post]
func (h *BenchmarkHandler) Contribute(c *fiber.Ctx) error {
	out, err := h.uc.ContributeBenchmark(c.Context(), GetCompanyID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Compare godoc
// @Summary      Compara la empresa contra el promedio de su nicho
// @Tags         benchmarks
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BenchmarkComparisonDTO
// @Router       /api/benchmarks/compare [get]
func (h *BenchmarkHandler) Compare(c *fiber.Ctx) error {
	out, err := h.uc.CompareBenchmark(c.Context(), GetCompanyID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
