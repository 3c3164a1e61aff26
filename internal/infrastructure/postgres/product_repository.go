package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	"github.com/jhoicas/Revenue-api/internal/domain/repository"
)

// ProductRepo implementa repository.ProductRepository (productos y planes).
type ProductRepo struct {
	db Querier
}

// NewProductRepository construye el repositorio de productos.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{db: pool}
}

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ListByCompany productos de la empresa, activos e inactivos.
func (r *ProductRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Product, error) {
	query := `
		SELECT id, company_id, external_id, name, is_active, is_app, created_at, updated_at
		FROM products
		WHERE company_id = $1
		ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("ProductRepo.ListByCompany: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.ExternalID, &p.Name, &p.IsActive, &p.IsApp, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("ProductRepo.ListByCompany scan: %w", err)
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ProductRepo.ListByCompany: %w", err)
	}
	return list, nil
}

const planColumns = `pl.id, pl.product_id, pl.external_id, pl.name, pl.price, pl.currency, pl.billing_period, pl.is_active, pl.created_at, pl.updated_at`

// ListPlansByProduct planes de un producto.
func (r *ProductRepo) ListPlansByProduct(ctx context.Context, productID string) ([]*entity.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans pl WHERE pl.product_id = $1 ORDER BY pl.created_at, pl.id`
	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("ProductRepo.ListPlansByProduct: %w", err)
	}
	list, err := collectPlans(rows)
	if err != nil {
		return nil, fmt.Errorf("ProductRepo.ListPlansByProduct: %w", err)
	}
	return list, nil
}

// ListPlansByCompany planes de todos los productos de la empresa.
func (r *ProductRepo) ListPlansByCompany(ctx context.Context, companyID string) ([]*entity.Plan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM plans pl
		JOIN products p ON p.id = pl.product_id
		WHERE p.company_id = $1
		ORDER BY pl.created_at, pl.id`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("ProductRepo.ListPlansByCompany: %w", err)
	}
	list, err := collectPlans(rows)
	if err != nil {
		return nil, fmt.Errorf("ProductRepo.ListPlansByCompany: %w", err)
	}
	return list, nil
}

func collectPlans(rows pgx.Rows) ([]*entity.Plan, error) {
	defer rows.Close()
	var list []*entity.Plan
	for rows.Next() {
		var p entity.Plan
		if err := rows.Scan(
			&p.ID, &p.ProductID, &p.ExternalID, &p.Name, &p.Price, &p.Currency,
			&p.BillingPeriod, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
