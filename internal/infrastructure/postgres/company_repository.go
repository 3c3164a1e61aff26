package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Revenue-api/internal/domain"
	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	"github.com/jhoicas/Revenue-api/internal/domain/repository"
)

// CompanyRepo implementa repository.CompanyRepository con pgx.
type CompanyRepo struct {
	db Querier
}

// NewCompanyRepository construye el repositorio de empresas.
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepo {
	return &CompanyRepo{db: pool}
}

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

const companyColumns = `id, external_id, name, created_at, updated_at`

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	return r.getOne(ctx, "CompanyRepo.GetByID", `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
}

// GetByExternalID obtiene una empresa por su ID en la plataforma de comercio.
func (r *CompanyRepo) GetByExternalID(ctx context.Context, externalID string) (*entity.Company, error) {
	return r.getOne(ctx, "CompanyRepo.GetByExternalID", `SELECT `+companyColumns+` FROM companies WHERE external_id = $1`, externalID)
}

func (r *CompanyRepo) getOne(ctx context.Context, op, query string, arg string) (*entity.Company, error) {
	var c entity.Company
	err := r.db.QueryRow(ctx, query, arg).Scan(&c.ID, &c.ExternalID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}
