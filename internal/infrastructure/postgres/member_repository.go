package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Revenue-api/internal/domain"
	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	"github.com/jhoicas/Revenue-api/internal/domain/repository"
)

// MemberRepo implementa repository.MemberRepository.
type MemberRepo struct {
	db Querier
}

// NewMemberRepository construye el repositorio de miembros.
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepo {
	return &MemberRepo{db: pool}
}

var _ repository.MemberRepository = (*MemberRepo)(nil)

const memberColumns = `id, company_id, external_user_id, email, username, created_at, updated_at`

// ListByCompany todos los miembros de la empresa.
func (r *MemberRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE company_id = $1 ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("MemberRepo.ListByCompany: %w", err)
	}
	list, err := collectMembers(rows)
	if err != nil {
		return nil, fmt.Errorf("MemberRepo.ListByCompany: %w", err)
	}
	return list, nil
}

// GetByID obtiene un miembro acotado a la empresa.
func (r *MemberRepo) GetByID(ctx context.Context, companyID, memberID string) (*entity.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1 AND company_id = $2`
	var m entity.Member
	err := r.db.QueryRow(ctx, query, memberID, companyID).Scan(
		&m.ID, &m.CompanyID, &m.ExternalUserID, &m.Email, &m.Username, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("MemberRepo.GetByID: %w", err)
	}
	return &m, nil
}

// Search busca por email o username con ILIKE.
func (r *MemberRepo) Search(ctx context.Context, companyID, q string) ([]*entity.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE company_id = $1 AND (email ILIKE $2 OR username ILIKE $2)
		ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query, companyID, likePattern(q))
	if err != nil {
		return nil, fmt.Errorf("MemberRepo.Search: %w", err)
	}
	list, err := collectMembers(rows)
	if err != nil {
		return nil, fmt.Errorf("MemberRepo.Search: %w", err)
	}
	return list, nil
}

func collectMembers(rows pgx.Rows) ([]*entity.Member, error) {
	defer rows.Close()
	var list []*entity.Member
	for rows.Next() {
		var m entity.Member
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.ExternalUserID, &m.Email, &m.Username, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
