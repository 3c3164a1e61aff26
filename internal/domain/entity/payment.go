package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago. Solo PaymentSucceeded cuenta como ingreso.
const (
	PaymentDraft      = "draft"
	PaymentPending    = "pending"
	PaymentProcessing = "processing"
	PaymentSucceeded  = "succeeded"
	PaymentFailed     = "failed"
	PaymentRefunded   = "refunded"
)

// Payment transacción de un miembro. Amount está en unidades de la moneda (nunca centavos).
type Payment struct {
	ID             string
	CompanyID      string
	MemberID       string
	MembershipID   *string
	ExternalID     string
	Amount         decimal.Decimal
	Currency       string
	Status         string
	PaymentDate    time.Time
	RefundedAmount decimal.Decimal
	CreatedAt      time.Time
}

// Succeeded indica si el pago cuenta como ingreso.
func (p *Payment) Succeeded() bool { return p.Status == PaymentSucceeded }

// Failed indica si el pago fue rechazado.
func (p *Payment) Failed() bool { return p.Status == PaymentFailed }
