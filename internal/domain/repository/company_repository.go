package repository

import (
	"context"

	"github.com/jhoicas/Revenue-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	// GetByID devuelve domain.ErrCompanyNotFound si no existe.
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	// GetByExternalID busca por el ID de la plataforma de comercio.
	GetByExternalID(ctx context.Context, externalID string) (*entity.Company, error)
}
