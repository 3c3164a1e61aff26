package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MemberListRequest query de GET /api/members.
type MemberListRequest struct {
	Search string `query:"search"`
	Risk   string `query:"risk"` // all|high|medium|low
	Sort   string `query:"sort"` // revenue|churn_risk|recent
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

// Normalize aplica valores por defecto (página 1, 20 por página, máximo 100).
func (r *MemberListRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit <= 0 {
		r.Limit = 20
	}
	if r.Limit > 100 {
		r.Limit = 100
	}
	if r.Sort == "" {
		r.Sort = "revenue"
	}
	if r.Risk == "" {
		r.Risk = "all"
	}
}

// MemberSummaryDTO miembro con su analítica precalculada.
type MemberSummaryDTO struct {
	ID              string          `json:"id"`
	Email           string          `json:"email"`
	Username        string          `json:"username"`
	JoinedAt        time.Time       `json:"joined_at"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalPayments   int             `json:"total_payments"`
	AveragePayment  decimal.Decimal `json:"average_payment"`
	LifetimeMonths  int             `json:"lifetime_months"`
	LastPaymentAt   *time.Time      `json:"last_payment_at,omitempty"`
	ChurnRiskScore  int             `json:"churn_risk_score"`
	ChurnRisk       string          `json:"churn_risk"` // Low|Medium|High
	EngagementScore int             `json:"engagement_score"`
	CalculatedAt    *time.Time      `json:"calculated_at,omitempty"`
}

// MemberListDTO respuesta paginada de GET /api/members.
type MemberListDTO struct {
	Members []MemberSummaryDTO `json:"members"`
	Page    int                `json:"page"`
	Limit   int                `json:"limit"`
	Total   int                `json:"total"`
}

// MembershipDTO membresía en el perfil del miembro.
type MembershipDTO struct {
	ID                string     `json:"id"`
	ProductID         string     `json:"product_id"`
	PlanID            string     `json:"plan_id"`
	Status            string     `json:"status"`
	StartDate         time.Time  `json:"start_date"`
	EndDate           *time.Time `json:"end_date,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancel_at_period_end"`
}

// PaymentDTO pago en el perfil del miembro.
type PaymentDTO struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	PaymentDate time.Time       `json:"payment_date"`
}

// MemberProfileDTO respuesta de GET /api/members/:id.
type MemberProfileDTO struct {
	Member      MemberSummaryDTO `json:"member"`
	Memberships []MembershipDTO  `json:"memberships"`
	Payments    []PaymentDTO     `json:"payments"`
}

// RecomputeResultDTO resultado de POST /api/members/analytics/recompute.
type RecomputeResultDTO struct {
	CompanyID    string    `json:"company_id"`
	Members      int       `json:"members"`
	CalculatedAt time.Time `json:"calculated_at"`
}
