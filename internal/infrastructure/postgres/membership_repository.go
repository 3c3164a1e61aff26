package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	"github.com/jhoicas/Revenue-api/internal/domain/repository"
)

// MembershipRepo implementa repository.MembershipRepository.
type MembershipRepo struct {
	db Querier
}

// NewMembershipRepository construye el repositorio de membresías.
func NewMembershipRepository(pool *pgxpool.Pool) *MembershipRepo {
	return &MembershipRepo{db: pool}
}

var _ repository.MembershipRepository = (*MembershipRepo)(nil)

// ListByCompany membresías de la empresa; los filtros vacíos no restringen.
func (r *MembershipRepo) ListByCompany(ctx context.Context, companyID string, filter repository.MembershipFilter) ([]*entity.Membership, error) {
	var b strings.Builder
	b.WriteString(`
		SELECT id, company_id, member_id, product_id, plan_id, external_id, status,
		       start_date, end_date, cancel_at_period_end, created_at, updated_at
		FROM memberships
		WHERE company_id = $1`)
	args := []any{companyID}

	if len(filter.Statuses) > 0 {
		args = append(args, filter.Statuses)
		fmt.Fprintf(&b, " AND status = ANY($%d)", len(args))
	}
	if filter.StartedBefore != nil {
		args = append(args, *filter.StartedBefore)
		fmt.Fprintf(&b, " AND start_date <= $%d", len(args))
	}
	if filter.MemberID != "" {
		args = append(args, filter.MemberID)
		fmt.Fprintf(&b, " AND member_id = $%d", len(args))
	}
	b.WriteString(" ORDER BY start_date, id")

	rows, err := r.db.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("MembershipRepo.ListByCompany: %w", err)
	}
	defer rows.Close()

	var list []*entity.Membership
	for rows.Next() {
		var m entity.Membership
		if err := rows.Scan(
			&m.ID, &m.CompanyID, &m.MemberID, &m.ProductID, &m.PlanID, &m.ExternalID, &m.Status,
			&m.StartDate, &m.EndDate, &m.CancelAtPeriodEnd, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("MembershipRepo.ListByCompany scan: %w", err)
		}
		list = append(list, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("MembershipRepo.ListByCompany: %w", err)
	}
	return list, nil
}
