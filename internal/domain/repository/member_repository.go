package repository

import (
	"context"

	"github.com/jhoicas/Revenue-api/internal/domain/entity"
)

// MemberRepository lectura de miembros de una empresa.
type MemberRepository interface {
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Member, error)
	// GetByID devuelve domain.ErrMemberNotFound si el miembro no existe o es de otra empresa.
	GetByID(ctx context.Context, companyID, memberID string) (*entity.Member, error)
	// Search filtra por email o username (sin distinguir mayúsculas).
	Search(ctx context.Context, companyID, query string) ([]*entity.Member, error)
}
