package metrics

import (
	"time"

	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ChurnRate porcentaje de miembros activos al inicio de la ventana que se dieron de baja dentro de ella.
//
// Base: miembros distintos activos en start (predicado temporal).
// Bajas: miembros de esa base con una membresía activa en start, estado de baja y EndDate en [start, end].
// Resultado a 1 decimal; 0 si la base está vacía. Siempre queda en [0, 100].
func ChurnRate(memberships []*entity.Membership, start, end time.Time) decimal.Decimal {
	base := ActiveSetAt(memberships, start)
	if base.Len() == 0 {
		return decimal.Zero
	}

	churned := MemberSet{}
	for _, m := range memberships {
		if m == nil || !base.Has(m.MemberID) || churned.Has(m.MemberID) {
			continue
		}
		if !IsActiveAt(m, start) || !m.IsTerminal() || m.EndDate == nil {
			continue
		}
		if m.EndDate.After(end) {
			continue
		}
		churned.Add(m.MemberID)
	}
	return percentOf(churned.Len(), base.Len(), 1)
}
