package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Revenue-api/internal/application/analytics"
)

// ReportHandler reportes descargables.
type ReportHandler struct {
	uc  *analytics.ReportUseCase
	log zerolog.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.ReportUseCase, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

// GetOverviewPDF godoc
// @Summary      Reporte ejecutivo en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/overview.pdf [get]
func (h *ReportHandler) GetOverviewPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.uc.OverviewReportPDF(c.Context(), GetCompanyID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}
