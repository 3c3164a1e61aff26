package repository

import (
	"context"

	"github.com/jhoicas/Revenue-api/internal/domain/entity"
)

// MemberAnalyticsRepository caché persistente de la analítica por miembro.
// Es reproducible: se recalcula completa por empresa.
type MemberAnalyticsRepository interface {
	// UpsertBatch inserta o reemplaza por (company_id, member_id) en un solo viaje a la DB.
	UpsertBatch(ctx context.Context, rows []*entity.MemberAnalytics) error
	// GetByMember devuelve nil, nil si aún no fue calculada.
	GetByMember(ctx context.Context, companyID, memberID string) (*entity.MemberAnalytics, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.MemberAnalytics, error)
}
