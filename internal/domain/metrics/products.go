package metrics

import (
	"sort"

	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductPerformance desempeño de un producto.
type ProductPerformance struct {
	Product       *entity.Product
	PlanCount     int
	Revenue       decimal.Decimal
	MRR           decimal.Decimal
	ActiveMembers int
	TotalMembers  int
	ChurnRate     decimal.Decimal
}

// ProductsPerformance desempeño por producto, ordenado por ingresos descendente.
// Los pagos se atribuyen por MembershipID; un pago sin membresía no se atribuye a ningún producto.
// ChurnRate es el porcentaje de miembros del producto sin membresía vigente y con alguna de baja.
func ProductsPerformance(products []*entity.Product, plans []*entity.Plan, memberships []*entity.Membership, payments []*entity.Payment) []ProductPerformance {
	planIdx := IndexPlans(plans)
	planCount := make(map[string]int)
	for _, p := range plans {
		if p != nil {
			planCount[p.ProductID]++
		}
	}

	byProduct := make(map[string][]*entity.Membership)
	productOfMembership := make(map[string]string)
	for _, m := range memberships {
		if m == nil {
			continue
		}
		productID := m.ProductID
		if plan, ok := planIdx[m.PlanID]; ok && productID == "" {
			productID = plan.ProductID
		}
		byProduct[productID] = append(byProduct[productID], m)
		productOfMembership[m.ID] = productID
	}

	revenue := make(map[string]decimal.Decimal)
	for _, p := range payments {
		if p == nil || !p.Succeeded() || p.MembershipID == nil {
			continue
		}
		if productID, ok := productOfMembership[*p.MembershipID]; ok {
			revenue[productID] = revenue[productID].Add(p.Amount)
		}
	}

	out := make([]ProductPerformance, 0, len(products))
	for _, product := range products {
		if product == nil {
			continue
		}
		ms := byProduct[product.ID]
		total := MemberSet{}
		active := MemberSet{}
		churned := MemberSet{}
		for _, m := range ms {
			total.Add(m.MemberID)
			if m.IsCurrent() {
				active.Add(m.MemberID)
			}
			if m.IsTerminal() {
				churned.Add(m.MemberID)
			}
		}
		lost := 0
		for id := range churned {
			if !active.Has(id) {
				lost++
			}
		}
		out = append(out, ProductPerformance{
			Product:       product,
			PlanCount:     planCount[product.ID],
			Revenue:       revenue[product.ID].Round(2),
			MRR:           MRR(ms, planIdx, nil),
			ActiveMembers: active.Len(),
			TotalMembers:  total.Len(),
			ChurnRate:     percentOf(lost, total.Len(), 1),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue.GreaterThan(out[j].Revenue) })
	return out
}
