package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	"github.com/jhoicas/Revenue-api/internal/domain/repository"
)

// PaymentRepo implementa repository.PaymentRepository.
type PaymentRepo struct {
	db Querier
}

// NewPaymentRepository construye el repositorio de pagos.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{db: pool}
}

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// ListByCompany pagos de la empresa; From/To son inclusivos.
func (r *PaymentRepo) ListByCompany(ctx context.Context, companyID string, filter repository.PaymentFilter) ([]*entity.Payment, error) {
	var b strings.Builder
	b.WriteString(`
		SELECT id, company_id, member_id, membership_id, external_id, amount, currency,
		       status, payment_date, refunded_amount, created_at
		FROM payments
		WHERE company_id = $1`)
	args := []any{companyID}

	if len(filter.Statuses) > 0 {
		args = append(args, filter.Statuses)
		fmt.Fprintf(&b, " AND status = ANY($%d)", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		fmt.Fprintf(&b, " AND payment_date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		fmt.Fprintf(&b, " AND payment_date <= $%d", len(args))
	}
	if filter.MemberID != "" {
		args = append(args, filter.MemberID)
		fmt.Fprintf(&b, " AND member_id = $%d", len(args))
	}
	b.WriteString(" ORDER BY payment_date, id")

	rows, err := r.db.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("PaymentRepo.ListByCompany: %w", err)
	}
	defer rows.Close()

	var list []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(
			&p.ID, &p.CompanyID, &p.MemberID, &p.MembershipID, &p.ExternalID, &p.Amount, &p.Currency,
			&p.Status, &p.PaymentDate, &p.RefundedAmount, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("PaymentRepo.ListByCompany scan: %w", err)
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("PaymentRepo.ListByCompany: %w", err)
	}
	return list, nil
}

// ListFailed pagos fallidos más recientes con email/username del miembro.
func (r *PaymentRepo) ListFailed(ctx context.Context, companyID string, limit int) ([]repository.FailedPaymentResult, error) {
	query := `
		SELECT p.id, p.company_id, p.member_id, p.membership_id, p.external_id, p.amount, p.currency,
		       p.status, p.payment_date, p.refunded_amount, p.created_at,
		       m.email, m.username
		FROM payments p
		JOIN members m ON m.id = p.member_id
		WHERE p.company_id = $1 AND p.status = $2
		ORDER BY p.payment_date DESC, p.id
		LIMIT $3`
	rows, err := r.db.Query(ctx, query, companyID, entity.PaymentFailed, limit)
	if err != nil {
		return nil, fmt.Errorf("PaymentRepo.ListFailed: %w", err)
	}
	defer rows.Close()

	var list []repository.FailedPaymentResult
	for rows.Next() {
		var p entity.Payment
		var res repository.FailedPaymentResult
		if err := rows.Scan(
			&p.ID, &p.CompanyID, &p.MemberID, &p.MembershipID, &p.ExternalID, &p.Amount, &p.Currency,
			&p.Status, &p.PaymentDate, &p.RefundedAmount, &p.CreatedAt,
			&res.MemberEmail, &res.MemberUsername,
		); err != nil {
			return nil, fmt.Errorf("PaymentRepo.ListFailed scan: %w", err)
		}
		res.Payment = &p
		list = append(list, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("PaymentRepo.ListFailed: %w", err)
	}
	return list, nil
}
