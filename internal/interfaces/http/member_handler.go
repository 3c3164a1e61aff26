package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Revenue-api/internal/application/analytics"
	"github.com/jhoicas/Revenue-api/internal/application/dto"
)

// MemberHandler listado, perfil y recálculo de la analítica por miembro.
type MemberHandler struct {
	uc  *analytics.MemberAnalyticsUseCase
	log zerolog.Logger
}

// NewMemberHandler construye el handler.
func NewMemberHandler(uc *analytics.MemberAnalyticsUseCase, log zerolog.Logger) *MemberHandler {
	return &MemberHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Miembros con su analítica
// @Tags         members
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Filtra por email o username"
// @Param        risk    query  string  false  "all | high | medium | low"
// @Param        sort    query  string  false  "revenue | churn_risk | recent"
// @Param        page    query  int     false  "Página (desde 1)"
// @Param        limit   query  int     false  "Tamaño de página (máx 100)"
// @Success      200  {object}  dto.MemberListDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/members [get]
func (h *MemberHandler) List(c *fiber.Ctx) error {
	var req dto.MemberListRequest
	if err := c.QueryParser(&req); err != nil {
		return badRequest(c, "parámetros de consulta inválidos")
	}
	out, err := h.uc.ListMembers(c.Context(), GetCompanyID(c), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Perfil de un miembro (analítica, membresías y pagos)
// @Tags         members
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del miembro"
// @Success      200  {object}  dto.MemberProfileDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/members/{id} [get]
func (h *MemberHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.MemberProfile(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Recompute godoc
// @Summary      Recalcula la analítica de todos los miembros de la empresa
// @Description  Invalida el caché de métricas de la empresa. Solo rol admin.
// @Tags         members
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RecomputeResultDTO
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/members/analytics/recompute [post]
func (h *MemberHandler) Recompute(c *fiber.Ctx) error {
	out, err := h.uc.RecomputeMemberAnalytics(c.Context(), GetCompanyID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
