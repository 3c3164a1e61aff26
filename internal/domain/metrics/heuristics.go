package metrics

import "github.com/shopspring/decimal"

// Heuristics constantes heurísticas del motor. No tienen derivación estadística;
// se exponen como configuración para poder ajustarlas sin tocar el código.
type Heuristics struct {
	// DefaultLifespanMonths vida media asumida cuando la empresa aún no tiene bajas registradas.
	DefaultLifespanMonths decimal.Decimal
	// DecliningPaymentRatio umbral de caída: promedio de los 2 pagos recientes < ratio × promedio de los 2 anteriores.
	DecliningPaymentRatio decimal.Decimal
}

// DefaultHeuristics valores de referencia (12 meses, 70%).
func DefaultHeuristics() Heuristics {
	return Heuristics{
		DefaultLifespanMonths: decimal.NewFromInt(12),
		DecliningPaymentRatio: decimal.NewFromFloat(0.7),
	}
}

// withDefaults completa campos no inicializados o no positivos.
func (h Heuristics) withDefaults() Heuristics {
	def := DefaultHeuristics()
	if !h.DefaultLifespanMonths.IsPositive() {
		h.DefaultLifespanMonths = def.DefaultLifespanMonths
	}
	if !h.DecliningPaymentRatio.IsPositive() {
		h.DecliningPaymentRatio = def.DecliningPaymentRatio
	}
	return h
}

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// percentOf devuelve part/total*100 redondeado a `places`; 0 si total es 0.
func percentOf(part, total int, places int32) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(hundred).
		Round(places)
}
