package repository

import (
	"context"

	"github.com/jhoicas/Revenue-api/internal/domain/entity"
)

// ProductRepository define el puerto de lectura para productos y planes.
type ProductRepository interface {
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Product, error)
	ListPlansByProduct(ctx context.Context, productID string) ([]*entity.Plan, error)
	// ListPlansByCompany todos los planes de los productos de la empresa (una sola consulta).
	ListPlansByCompany(ctx context.Context, companyID string) ([]*entity.Plan, error)
}
