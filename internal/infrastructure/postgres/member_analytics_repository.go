package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	"github.com/jhoicas/Revenue-api/internal/domain/repository"
)

// MemberAnalyticsRepo implementa repository.MemberAnalyticsRepository.
type MemberAnalyticsRepo struct {
	db Querier
}

// NewMemberAnalyticsRepository construye el repositorio de analítica por miembro.
func NewMemberAnalyticsRepository(pool *pgxpool.Pool) *MemberAnalyticsRepo {
	return &MemberAnalyticsRepo{db: pool}
}

var _ repository.MemberAnalyticsRepository = (*MemberAnalyticsRepo)(nil)

const memberAnalyticsColumns = `id, company_id, member_id, total_revenue, total_payments, average_payment,
	lifetime_months, last_payment_at, churn_risk_score, engagement_score, calculated_at`

const upsertMemberAnalyticsSQL = `
	INSERT INTO member_analytics (` + memberAnalyticsColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (company_id, member_id) DO UPDATE SET
		total_revenue    = EXCLUDED.total_revenue,
		total_payments   = EXCLUDED.total_payments,
		average_payment  = EXCLUDED.average_payment,
		lifetime_months  = EXCLUDED.lifetime_months,
		last_payment_at  = EXCLUDED.last_payment_at,
		churn_risk_score = EXCLUDED.churn_risk_score,
		engagement_score = EXCLUDED.engagement_score,
		calculated_at    = EXCLUDED.calculated_at`

// UpsertBatch envía todas las filas en un único batch (una transacción implícita).
func (r *MemberAnalyticsRepo) UpsertBatch(ctx context.Context, rows []*entity.MemberAnalytics) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, a := range rows {
		batch.Queue(upsertMemberAnalyticsSQL,
			a.ID, a.CompanyID, a.MemberID, a.TotalRevenue, a.TotalPayments, a.AveragePayment,
			a.LifetimeMonths, a.LastPaymentAt, a.ChurnRiskScore, a.EngagementScore, a.CalculatedAt,
		)
	}

	br := r.db.SendBatch(ctx, batch)
	for i := range rows {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("MemberAnalyticsRepo.UpsertBatch fila %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("MemberAnalyticsRepo.UpsertBatch: %w", err)
	}
	return nil
}

// GetByMember devuelve nil, nil si no hay analítica calculada.
func (r *MemberAnalyticsRepo) GetByMember(ctx context.Context, companyID, memberID string) (*entity.MemberAnalytics, error) {
	query := `SELECT ` + memberAnalyticsColumns + ` FROM member_analytics WHERE company_id = $1 AND member_id = $2`
	a, err := scanMemberAnalytics(r.db.QueryRow(ctx, query, companyID, memberID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("MemberAnalyticsRepo.GetByMember: %w", err)
	}
	return a, nil
}

// ListByCompany toda la analítica almacenada de la empresa.
func (r *MemberAnalyticsRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.MemberAnalytics, error) {
	query := `SELECT ` + memberAnalyticsColumns + ` FROM member_analytics WHERE company_id = $1 ORDER BY member_id`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("MemberAnalyticsRepo.ListByCompany: %w", err)
	}
	defer rows.Close()

	var list []*entity.MemberAnalytics
	for rows.Next() {
		a, err := scanMemberAnalytics(rows)
		if err != nil {
			return nil, fmt.Errorf("MemberAnalyticsRepo.ListByCompany scan: %w", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("MemberAnalyticsRepo.ListByCompany: %w", err)
	}
	return list, nil
}

func scanMemberAnalytics(row pgx.Row) (*entity.MemberAnalytics, error) {
	var a entity.MemberAnalytics
	err := row.Scan(
		&a.ID, &a.CompanyID, &a.MemberID, &a.TotalRevenue, &a.TotalPayments, &a.AveragePayment,
		&a.LifetimeMonths, &a.LastPaymentAt, &a.ChurnRiskScore, &a.EngagementScore, &a.CalculatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
