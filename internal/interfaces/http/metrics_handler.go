package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Revenue-api/internal/application/analytics"
	"github.com/jhoicas/Revenue-api/internal/domain/metrics"
)

// MetricsHandler maneja los endpoints de métricas de ingresos.
type MetricsHandler struct {
	uc  *analytics.MetricsUseCase
	log zerolog.Logger
	now func() time.Time
}

// NewMetricsHandler construye el handler.
func NewMetricsHandler(uc *analytics.MetricsUseCase, log zerolog.Logger) *MetricsHandler {
	return &MetricsHandler{uc: uc, log: log, now: time.Now}
}

// GetOverview godoc
// @Summary      Resumen del dashboard
// @Description  MRR, crecimiento de MRR contra el mes anterior, ingresos, miembros activos,
//               churn del último mes, LTV y ARPU. Cacheado por empresa y día.
// @Tags         metrics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OverviewDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/metrics/overview [get]
func (h *MetricsHandler) GetOverview(c *fiber.Ctx) error {
	out, err := h.uc.Overview(c.Context(), GetCompanyID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetMRR godoc
// @Summary      Ingreso recurrente mensual
// @Tags         metrics
// @Security     Bearer
// @Produce      json
// @Param        as_of  query  string  false  "Fecha de corte (YYYY-MM-DD). Sin valor: estado actual."
// @Success      200  {object}  dto.MRRDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/metrics/mrr [get]
func (h *MetricsHandler) GetMRR(c *fiber.Ctx) error {
	asOf, err := queryDate(c, "as_of")
	if err != nil {
		return badRequest(c, "as_of debe tener formato YYYY-MM-DD")
	}
	out, err := h.uc.MRR(c.Context(), GetCompanyID(c), asOf)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetRevenue godoc
// @Summary      Serie de ingresos
// @Tags         metrics
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Inicio (YYYY-MM-DD). Default: 30 días antes de end_date."
// @Param        end_date    query  string  false  "Fin inclusivo (YYYY-MM-DD). Default: hoy."
// @Param        interval    query  string  false  "day | week | month (default day)"
// @Success      200  {object}  dto.RevenueSeriesDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/metrics/revenue [get]
func (h *MetricsHandler) GetRevenue(c *fiber.Ctx) error {
	start, end, err := queryRange(c, h.now())
	if err != nil {
		return badRequest(c, "start_date y end_date deben tener formato YYYY-MM-DD")
	}
	bucket, ok := metrics.ParseBucket(c.Query("interval", string(metrics.BucketDay)))
	if !ok {
		return badRequest(c, "interval debe ser day, week o month")
	}
	out, err := h.uc.RevenueTimeSeries(c.Context(), GetCompanyID(c), start, end, bucket)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetRevenueGrowth godoc
// @Summary      Crecimiento de ingresos contra la ventana anterior de igual duración
// @Tags         metrics
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Inicio (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Fin inclusivo (YYYY-MM-DD)"
// @Success      200  {object}  dto.RevenueGrowthDTO
// @Router       /api/metrics/revenue/growth [get]
func (h *MetricsHandler) GetRevenueGrowth(c *fiber.Ctx) error {
	start, end, err := queryRange(c, h.now())
	if err != nil {
		return badRequest(c, "start_date y end_date deben tener formato YYYY-MM-DD")
	}
	out, err := h.uc.RevenueGrowth(c.Context(), GetCompanyID(c), metrics.Window{Start: start, End: end})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetChurn godoc
// @Summary      Tasa de churn del período
// @Tags         metrics
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Inicio (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Fin inclusivo (YYYY-MM-DD)"
// @Success      200  {object}  dto.ChurnDTO
// @Router       /api/metrics/churn [get]
func (h *MetricsHandler) GetChurn(c *fiber.Ctx) error {
	start, end, err := queryRange(c, h.now())
	if err != nil {
		return badRequest(c, "start_date y end_date deben tener formato YYYY-MM-DD")
	}
	out, err := h.uc.ChurnRate(c.Context(), GetCompanyID(c), start, end)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetLTV godoc
// @Summary      Valor de vida del cliente (ARPU × vida media)
// @Tags         metrics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LTVDTO
// @Router       /api/metrics/ltv [get]
func (h *MetricsHandler) GetLTV(c *fiber.Ctx) error {
	out, err := h.uc.LTV(c.Context(), GetCompanyID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetCohorts godoc
// @Summary      Tabla de retención por cohorte mensual
// @Description  -1 indica un mes todavía no observable.
// @Tags         metrics
// @Security     Bearer
// @Produce      json
// @Param        cohorts  query  int  false  "Cantidad de cohortes (default 6, máx 24)"
// @Success      200  {array}  dto.CohortDTO
// @Router       /api/metrics/cohorts [get]
func (h *MetricsHandler) GetCohorts(c *fiber.Ctx) error {
	n, err := queryInt(c, "cohorts", 0)
	if err != nil || n < 0 {
		return badRequest(c, "cohorts debe ser un entero positivo")
	}
	out, err := h.uc.Cohorts(c.Context(), GetCompanyID(c), n)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetMemberGrowth godoc
// @Summary      Evolución mensual de miembros
// @Tags         metrics
// @Security     Bearer
// @Produce      json
// @Param        months  query  int  false  "Meses hacia atrás (default 12, máx 36)"
// @Success      200  {array}  dto.MemberGrowthPointDTO
// @Router       /api/metrics/member-growth [get]
func (h *MetricsHandler) GetMemberGrowth(c *fiber.Ctx) error {
	n, err := queryInt(c, "months", 0)
	if err != nil || n < 0 {
		return badRequest(c, "months debe ser un entero positivo")
	}
	out, err := h.uc.MemberGrowth(c.Context(), GetCompanyID(c), n)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetProducts godoc
// @Summary      Desempeño por producto
// @Tags         metrics
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductPerformanceDTO
// @Router       /api/metrics/products [get]
func (h *MetricsHandler) GetProducts(c *fiber.Ctx) error {
	out, err := h.uc.ProductPerformance(c.Context(), GetCompanyID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetPaymentStats godoc
// @Summary      Estadísticas de cobros
// @Tags         metrics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.PaymentStatsDTO
// @Router       /api/metrics/payments [get]
func (h *MetricsHandler) GetPaymentStats(c *fiber.Ctx) error {
	out, err := h.uc.PaymentStats(c.Context(), GetCompanyID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetFailedPayments godoc
// @Summary      Pagos fallidos recientes
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.FailedPaymentsDTO
// @Router       /api/payments/failed [get]
func (h *MetricsHandler) GetFailedPayments(c *fiber.Ctx) error {
	out, err := h.uc.FailedPayments(c.Context(), GetCompanyID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
