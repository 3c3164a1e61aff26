package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MRRDTO respuesta de GET /api/metrics/mrr.
type MRRDTO struct {
	MRR  decimal.Decimal `json:"mrr"`
	AsOf string          `json:"as_of,omitempty"` // YYYY-MM-DD; vacío = estado actual
}

// RevenuePointDTO un bucket de la serie de ingresos.
type RevenuePointDTO struct {
	Date    string          `json:"date"` // YYYY-MM-DD (día/semana) o YYYY-MM (mes)
	Revenue decimal.Decimal `json:"revenue"`
}

// RevenueSeriesDTO respuesta de GET /api/metrics/revenue.
type RevenueSeriesDTO struct {
	StartDate    string            `json:"start_date"`
	EndDate      string            `json:"end_date"`
	Interval     string            `json:"interval"`
	TotalRevenue decimal.Decimal   `json:"total_revenue"`
	Series       []RevenuePointDTO `json:"series"`
}

// RevenueGrowthDTO ingresos de la ventana contra la ventana anterior de igual duración.
type RevenueGrowthDTO struct {
	Current  decimal.Decimal `json:"current"`
	Previous decimal.Decimal `json:"previous"`
	Growth   decimal.Decimal `json:"growth"` // porcentaje, 1 decimal
}

// ChurnDTO respuesta de GET /api/metrics/churn.
type ChurnDTO struct {
	ChurnRate decimal.Decimal `json:"churn_rate"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
}

// LTVDTO valor de vida del cliente y sus componentes.
type LTVDTO struct {
	LTV                   decimal.Decimal `json:"ltv"`
	ARPU                  decimal.Decimal `json:"arpu"`
	AverageLifespanMonths decimal.Decimal `json:"average_lifespan_months"`
}

// CohortDTO fila de la tabla de retención. -1 = mes aún no observable.
type CohortDTO struct {
	Cohort string          `json:"cohort"` // YYYY-MM
	Label  string          `json:"label"`  // ej: "Jan 2024"
	Size   int             `json:"size"`
	Month0 decimal.Decimal `json:"month0"`
	Month1 decimal.Decimal `json:"month1"`
	Month2 decimal.Decimal `json:"month2"`
	Month3 decimal.Decimal `json:"month3"`
	Month4 decimal.Decimal `json:"month4"`
	Month5 decimal.Decimal `json:"month5"`
}

// MemberGrowthPointDTO evolución mensual de la base de miembros.
type MemberGrowthPointDTO struct {
	Month   string `json:"month"` // YYYY-MM
	Label   string `json:"label"`
	Members int    `json:"members"`
	New     int    `json:"new"`
	Churned int    `json:"churned"`
}

// OverviewDTO respuesta de GET /api/metrics/overview.
type OverviewDTO struct {
	MRR           decimal.Decimal `json:"mrr"`
	MRRGrowth     decimal.Decimal `json:"mrr_growth"` // % contra el MRR de hace un mes
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	ActiveMembers int             `json:"active_members"`
	MemberGrowth  decimal.Decimal `json:"member_growth"` // % de miembros activos contra hace un mes
	ChurnRate     decimal.Decimal `json:"churn_rate"`    // último mes
	ChurnChange   decimal.Decimal `json:"churn_change"`  // puntos porcentuales contra el mes anterior
	LTV           decimal.Decimal `json:"ltv"`
	ARPU          decimal.Decimal `json:"arpu"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

// ProductPerformanceDTO desempeño de un producto.
type ProductPerformanceDTO struct {
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	IsActive      bool            `json:"is_active"`
	PlanCount     int             `json:"plan_count"`
	Revenue       decimal.Decimal `json:"revenue"`
	MRR           decimal.Decimal `json:"mrr"`
	ActiveMembers int             `json:"active_members"`
	TotalMembers  int             `json:"total_members"`
	ChurnRate     decimal.Decimal `json:"churn_rate"`
}

// PaymentStatsDTO respuesta de GET /api/metrics/payments.
type PaymentStatsDTO struct {
	TotalPayments int             `json:"total_payments"`
	Succeeded     int             `json:"succeeded"`
	Failed        int             `json:"failed"`
	SuccessRate   decimal.Decimal `json:"success_rate"`
	AverageValue  decimal.Decimal `json:"average_value"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// FailedPaymentDTO pago fallido con el contacto del miembro.
type FailedPaymentDTO struct {
	ID             string          `json:"id"`
	MemberID       string          `json:"member_id"`
	MemberEmail    string          `json:"member_email"`
	MemberUsername string          `json:"member_username"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	PaymentDate    time.Time       `json:"payment_date"`
}

// FailedPaymentsDTO respuesta de GET /api/payments/failed.
type FailedPaymentsDTO struct {
	Payments      []FailedPaymentDTO `json:"payments"`
	TotalFailed   int                `json:"total_failed"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	UniqueMembers int                `json:"unique_members"`
	RecentFailed  int                `json:"recent_failed"` // últimos 30 días
}
