package metrics

import (
	"strings"

	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// Nichos de benchmark.
const (
	NicheFitness   = "fitness"
	NicheTrading   = "trading"
	NicheEducation = "education"
	NicheGaming    = "gaming"
	NicheCreator   = "creator"
	NicheGeneral   = "general"
)

// El orden importa: gana la primera regla que coincide.
var nicheRules = []struct {
	niche    string
	keywords []string
}{
	{NicheFitness, []string{"fitness", "health", "workout"}},
	{NicheTrading, []string{"trading", "stock", "crypto"}},
	{NicheEducation, []string{"education", "course", "learn"}},
	{NicheGaming, []string{"gaming", "game"}},
	{NicheCreator, []string{"creator", "content"}},
}

// Estados de comparación contra el promedio del bucket.
const (
	StatusAbove   = "above"
	StatusBelow   = "below"
	StatusAverage = "average"
)

var (
	tenPercent  = decimal.NewFromFloat(0.1)
	rangeLimits = []int64{5000, 20000, 50000, 100000}
	rangeLabels = []string{"0-5k", "5k-20k", "20k-50k", "50k-100k", "100k+"}
)

// DetermineNiche clasifica la empresa por el nombre de su primer producto que no sea app.
func DetermineNiche(products []*entity.Product) string {
	var name string
	for _, p := range products {
		if p != nil && !p.IsApp {
			name = p.Name
			break
		}
	}
	if name == "" {
		return NicheGeneral
	}
	folded := cases.Fold().String(name)
	for _, rule := range nicheRules {
		for _, kw := range rule.keywords {
			if strings.Contains(folded, kw) {
				return rule.niche
			}
		}
	}
	return NicheGeneral
}

// RevenueRange bucket de tamaño de la empresa según su MRR.
func RevenueRange(mrr decimal.Decimal) string {
	for i, limit := range rangeLimits {
		if mrr.LessThan(decimal.NewFromInt(limit)) {
			return rangeLabels[i]
		}
	}
	return rangeLabels[len(rangeLabels)-1]
}

// BenchmarkSample métricas que una empresa aporta a su bucket.
type BenchmarkSample struct {
	MRR       decimal.Decimal
	ChurnRate decimal.Decimal
	LTV       decimal.Decimal
	ARPU      decimal.Decimal
}

// MergeContribution aplica la media móvil newAvg = (oldAvg*n + v)/(n+1) sobre una copia.
// Si la empresa ya aportó devuelve el registro sin cambios y applied=false.
func MergeContribution(current *entity.BenchmarkData, companyID string, s BenchmarkSample) (next *entity.BenchmarkData, applied bool) {
	if current.HasContributor(companyID) {
		return current, false
	}
	n := decimal.NewFromInt(int64(current.SampleSize))
	n1 := n.Add(decimal.NewFromInt(1))
	merge := func(avg, v decimal.Decimal) decimal.Decimal {
		return avg.Mul(n).Add(v).Div(n1).Round(2)
	}

	out := *current
	out.AvgMRR = merge(current.AvgMRR, s.MRR)
	out.AvgChurnRate = merge(current.AvgChurnRate, s.ChurnRate)
	out.AvgLTV = merge(current.AvgLTV, s.LTV)
	out.AvgARPU = merge(current.AvgARPU, s.ARPU)
	out.SampleSize = current.SampleSize + 1
	out.ContributingCompanies = append(append(make([]string, 0, len(current.ContributingCompanies)+1),
		current.ContributingCompanies...), companyID)
	return &out, true
}

// PercentileBand aproximación gruesa de percentil a partir de la diferencia porcentual
// contra el promedio (no es un percentil estadístico). Promedio 0 => 50.
func PercentileBand(yours, average decimal.Decimal, lowerIsBetter bool) int {
	if average.IsZero() {
		return 50
	}
	diff := yours.Sub(average).Div(average).Mul(hundred).InexactFloat64()
	if lowerIsBetter {
		diff = -diff
	}
	switch {
	case diff >= 20:
		return 90
	case diff >= 10:
		return 75
	case diff >= 0:
		return 60
	case diff >= -10:
		return 40
	case diff >= -20:
		return 25
	default:
		return 10
	}
}

// CompareStatus above/below/average con umbral de ±10% del promedio.
func CompareStatus(yours, average decimal.Decimal, lowerIsBetter bool) string {
	diff := yours.Sub(average)
	threshold := average.Mul(tenPercent)
	if lowerIsBetter {
		diff = diff.Neg()
	}
	switch {
	case diff.GreaterThan(threshold):
		return StatusAbove
	case diff.LessThan(threshold.Neg()):
		return StatusBelow
	default:
		return StatusAverage
	}
}
