package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Revenue-api/internal/domain/entity"
)

// MembershipFilter filtros opcionales; los campos vacíos no filtran.
type MembershipFilter struct {
	Statuses      []string
	StartedBefore *time.Time // StartDate <= StartedBefore
	MemberID      string
}

// MembershipRepository lectura de membresías (snapshot para el motor de métricas).
type MembershipRepository interface {
	ListByCompany(ctx context.Context, companyID string, filter MembershipFilter) ([]*entity.Membership, error)
}
