package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Revenue-api/internal/domain/entity"
)

// PaymentFilter filtros opcionales; From/To son inclusivos sobre PaymentDate.
type PaymentFilter struct {
	Statuses []string
	From     *time.Time
	To       *time.Time
	MemberID string
}

// FailedPaymentResult pago fallido con datos de contacto del miembro.
// Lo produce la DB; el use case lo convierte en DTO.
type FailedPaymentResult struct {
	Payment        *entity.Payment
	MemberEmail    string
	MemberUsername string
}

// PaymentRepository lectura de pagos.
type PaymentRepository interface {
	ListByCompany(ctx context.Context, companyID string, filter PaymentFilter) ([]*entity.Payment, error)

	// ListFailed devuelve los `limit` pagos fallidos más recientes.
	ListFailed(ctx context.Context, companyID string, limit int) ([]FailedPaymentResult, error)
}
