package metrics

import (
	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// AverageLifespanMonths vida media en meses (días/30) de las membresías de baja con EndDate.
// Sin bajas registradas devuelve h.DefaultLifespanMonths. El resultado no se redondea:
// LTV lo multiplica tal cual y cada llamador redondea al devolverlo.
func AverageLifespanMonths(memberships []*entity.Membership, h Heuristics) decimal.Decimal {
	h = h.withDefaults()
	total := decimal.Zero
	n := 0
	for _, m := range memberships {
		if m == nil || !m.IsTerminal() || m.EndDate == nil {
			continue
		}
		seconds := decimal.NewFromInt(int64(m.EndDate.Sub(m.StartDate).Seconds()))
		total = total.Add(seconds.Div(secondsPerDay).Div(daysPerMonth))
		n++
	}
	if n == 0 {
		return h.DefaultLifespanMonths
	}
	return total.Div(decimal.NewFromInt(int64(n)))
}

// LTV valor de vida del cliente: ARPU × vida media, a 2 decimales.
func LTV(arpu, lifespanMonths decimal.Decimal) decimal.Decimal {
	return arpu.Mul(lifespanMonths).Round(2)
}
