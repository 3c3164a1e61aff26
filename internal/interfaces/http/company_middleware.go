package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Revenue-api/internal/application/dto"
	"github.com/jhoicas/Revenue-api/internal/domain"
	"github.com/jhoicas/Revenue-api/internal/domain/entity"
)

// companyChecker contrato mínimo para verificar el tenant; lo cumple repository.CompanyRepository.
type companyChecker interface {
	GetByID(ctx context.Context, id string) (*entity.Company, error)
}

// RequireCompany verifica que la empresa del token exista antes de calcular métricas:
// sin este chequeo una empresa inexistente respondería métricas en cero.
//
// Comportamiento:
//   - 404 Not Found → la empresa no existe.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
func RequireCompany(checker companyChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := GetCompanyID(c)
		if companyID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "company_id no encontrado en el token",
			})
		}

		if _, err := checker.GetByID(c.Context(), companyID); err != nil {
			if errors.Is(err, domain.ErrCompanyNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
					Code:    "COMPANY_NOT_FOUND",
					Message: domain.ErrCompanyNotFound.Error(),
				})
			}
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "COMPANY_CHECK_FAILED",
				Message: "no se pudo verificar la empresa, intente más tarde",
			})
		}
		return c.Next()
	}
}
