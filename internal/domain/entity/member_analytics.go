package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MemberAnalytics instantánea derivada por miembro. Es caché: siempre se puede
// reconstruir a partir de Member, Membership y Payment.
type MemberAnalytics struct {
	ID              string
	CompanyID       string
	MemberID        string
	TotalRevenue    decimal.Decimal
	TotalPayments   int // pagos exitosos
	AveragePayment  decimal.Decimal
	LifetimeMonths  int
	LastPaymentAt   *time.Time
	ChurnRiskScore  int // 0–100, mayor = más probable que cancele
	EngagementScore int // 0–100, mayor = más comprometido
	CalculatedAt    time.Time
}
