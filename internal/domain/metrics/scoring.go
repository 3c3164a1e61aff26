package metrics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Etiquetas de riesgo de churn.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// MemberInput datos de un miembro necesarios para puntuarlo.
type MemberInput struct {
	Member      *entity.Member
	Payments    []*entity.Payment
	Memberships []*entity.Membership
}

// ChurnRiskScore puntaje aditivo de riesgo de abandono, acotado a [0, 100].
func ChurnRiskScore(in MemberInput, now time.Time, h Heuristics) int {
	h = h.withDefaults()
	succeeded := successfulByDateDesc(in.Payments)
	score := 0

	// Historial de pagos
	if len(succeeded) == 0 {
		score += 40
	}
	failed := countFailed(in.Payments)
	score += min(failed*10, 30)

	// Recencia del último cobro exitoso (o del alta)
	reference := in.Member.CreatedAt
	if len(succeeded) > 0 {
		reference = succeeded[0].PaymentDate
	}
	switch days := DaysBetween(reference, now); {
	case days > 60:
		score += 30
	case days > 45:
		score += 25
	case days > 35:
		score += 15
	case days > 30:
		score += 10
	}

	// Estado de las membresías
	var cancelled, pastDue, expired, current bool
	for _, m := range in.Memberships {
		if m.IsCancelled() || m.CancelAtPeriodEnd {
			cancelled = true
		}
		switch m.Status {
		case entity.MembershipPastDue:
			pastDue = true
		case entity.MembershipExpired:
			expired = true
		case entity.MembershipActive, entity.MembershipTrialing, entity.MembershipCompleted:
			current = true
		}
	}
	if cancelled {
		score += 20
	}
	if pastDue {
		score += 25
	}
	if expired {
		score += 15
	}

	if decliningPayments(succeeded, h.DecliningPaymentRatio) {
		score += 15
	}

	// Antigüedad
	switch lifetime := LifetimeMonths(in.Member.CreatedAt, now); {
	case lifetime < 1:
		score += 10
	case lifetime < 3:
		score += 5
	}

	if len(in.Memberships) > 0 && !current {
		score += 25
	}
	return clampScore(score)
}

// EngagementScore puntaje de compromiso en [0, 100]; 0 si el miembro nunca pagó.
func EngagementScore(in MemberInput, now time.Time) int {
	succeeded := successfulByDateDesc(in.Payments)
	if len(succeeded) == 0 {
		return 0
	}
	lifetime := LifetimeMonths(in.Member.CreatedAt, now)

	consistency := math.Min(float64(len(succeeded))/float64(max(lifetime, 1)), 1) * 40

	recency := 0.0
	switch days := DaysBetween(succeeded[0].PaymentDate, now); {
	case days < 7:
		recency = 30
	case days < 14:
		recency = 20
	case days < 30:
		recency = 10
	}

	failureRate := float64(countFailed(in.Payments)) / float64(max(len(in.Payments), 1))
	reliability := (1 - failureRate) * 15
	tenure := math.Min(float64(lifetime)*2, 15)

	return clampScore(int(math.Round(consistency + recency + reliability + tenure)))
}

// ChurnRiskLabel <30 Low, 30-59 Medium, >=60 High.
func ChurnRiskLabel(score int) string {
	switch {
	case score >= 60:
		return RiskHigh
	case score >= 30:
		return RiskMedium
	default:
		return RiskLow
	}
}

// RiskBounds rango de puntaje [lo, hi] para una etiqueta (sin distinguir mayúsculas).
func RiskBounds(label string) (lo, hi int, ok bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "high":
		return 60, 100, true
	case "medium":
		return 30, 59, true
	case "low":
		return 0, 29, true
	default:
		return 0, 0, false
	}
}

// BuildMemberAnalytics instantánea completa de analítica de un miembro.
func BuildMemberAnalytics(in MemberInput, now time.Time, h Heuristics) *entity.MemberAnalytics {
	succeeded := successfulByDateDesc(in.Payments)
	total := decimal.Zero
	for _, p := range succeeded {
		total = total.Add(p.Amount)
	}
	avg := decimal.Zero
	if len(succeeded) > 0 {
		avg = total.Div(decimal.NewFromInt(int64(len(succeeded))))
	}
	var last *time.Time
	if len(succeeded) > 0 {
		t := succeeded[0].PaymentDate
		last = &t
	}
	return &entity.MemberAnalytics{
		CompanyID:       in.Member.CompanyID,
		MemberID:        in.Member.ID,
		TotalRevenue:    total.Round(2),
		TotalPayments:   len(succeeded),
		AveragePayment:  avg.Round(2),
		LifetimeMonths:  LifetimeMonths(in.Member.CreatedAt, now),
		LastPaymentAt:   last,
		ChurnRiskScore:  ChurnRiskScore(in, now, h),
		EngagementScore: EngagementScore(in, now),
		CalculatedAt:    now,
	}
}

// LifetimeMonths meses calendario completos entre el alta y now; nunca negativo.
func LifetimeMonths(joined, now time.Time) int {
	if !now.After(joined) {
		return 0
	}
	months := (now.Year()-joined.Year())*12 + int(now.Month()) - int(joined.Month())
	if joined.AddDate(0, months, 0).After(now) {
		months--
	}
	return max(months, 0)
}

// DaysBetween días completos (truncados) de from a to.
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func successfulByDateDesc(payments []*entity.Payment) []*entity.Payment {
	out := make([]*entity.Payment, 0, len(payments))
	for _, p := range payments {
		if p != nil && p.Succeeded() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PaymentDate.After(out[j].PaymentDate) })
	return out
}

func countFailed(payments []*entity.Payment) int {
	n := 0
	for _, p := range payments {
		if p != nil && p.Failed() {
			n++
		}
	}
	return n
}

// decliningPayments requiere al menos 4 cobros exitosos ordenados del más reciente al más antiguo.
func decliningPayments(succeeded []*entity.Payment, ratio decimal.Decimal) bool {
	if len(succeeded) < 4 {
		return false
	}
	recent := succeeded[0].Amount.Add(succeeded[1].Amount).Div(two)
	older := succeeded[2].Amount.Add(succeeded[3].Amount).Div(two)
	return recent.LessThan(older.Mul(ratio))
}

func clampScore(score int) int {
	return min(max(score, 0), 100)
}
