package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var (
	monthsPerYear = decimal.NewFromInt(12)
	weeksPerMonth = decimal.RequireFromString("4.33")
	daysPerMonth  = decimal.NewFromInt(30)
	secondsPerDay = decimal.NewFromInt(24 * 60 * 60)
)

// PlanIndex planes indexados por ID.
type PlanIndex map[string]*entity.Plan

// IndexPlans construye el índice de planes.
func IndexPlans(plans []*entity.Plan) PlanIndex {
	idx := make(PlanIndex, len(plans))
	for _, p := range plans {
		if p != nil {
			idx[p.ID] = p
		}
	}
	return idx
}

// MonthlyEquivalent normaliza el precio de un plan a su equivalente mensual.
// Periodos no reconocidos aportan 0 (nunca error).
func MonthlyEquivalent(price decimal.Decimal, billingPeriod string) decimal.Decimal {
	period := strings.ToLower(strings.TrimSpace(billingPeriod))
	if n, err := strconv.Atoi(period); err == nil {
		period = strconv.Itoa(n) // "07" y "+7" caen en la tabla como "7"
	}
	switch period {
	case entity.BillingMonthly, "month", "30":
		return price
	case entity.BillingYearly, "year", "365":
		return price.Div(monthsPerYear)
	case entity.BillingWeekly, "week", "7":
		return price.Mul(weeksPerMonth)
	case entity.BillingDaily, "day", "1":
		return price.Mul(daysPerMonth)
	default:
		days, err := strconv.Atoi(period)
		if err != nil || days <= 0 {
			return decimal.Zero
		}
		return price.Mul(daysPerMonth).Div(decimal.NewFromInt(int64(days)))
	}
}

// MRR ingreso mensual recurrente.
// Con asOf: suma sobre membresías activas en asOf según el predicado temporal (el estado no importa).
// Sin asOf: suma sobre membresías con estado active o trialing.
// Membresías sin plan conocido aportan 0. Se redondea a 2 decimales solo al final.
func MRR(memberships []*entity.Membership, plans PlanIndex, asOf *time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, m := range memberships {
		if m == nil {
			continue
		}
		if asOf != nil {
			if !IsActiveAt(m, *asOf) {
				continue
			}
		} else if !m.IsCurrent() {
			continue
		}
		plan, ok := plans[m.PlanID]
		if !ok {
			continue
		}
		total = total.Add(MonthlyEquivalent(plan.Price, plan.BillingPeriod))
	}
	return total.Round(2)
}
