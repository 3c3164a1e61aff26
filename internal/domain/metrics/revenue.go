package metrics

import (
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Bucket granularidad de una serie temporal de ingresos.
type Bucket string

const (
	BucketDay   Bucket = "day"
	BucketWeek  Bucket = "week"
	BucketMonth Bucket = "month"
)

// ParseBucket interpreta day|week|month (sin distinguir mayúsculas).
func ParseBucket(s string) (Bucket, bool) {
	switch b := Bucket(strings.ToLower(strings.TrimSpace(s))); b {
	case BucketDay, BucketWeek, BucketMonth:
		return b, true
	default:
		return "", false
	}
}

// Window intervalo de fechas cerrado [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains informa si t está en [Start, End].
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Previous ventana de igual duración que termina justo antes de Start.
func (w Window) Previous() Window {
	length := w.End.Sub(w.Start)
	end := w.Start.Add(-time.Nanosecond)
	return Window{Start: end.Add(-length), End: end}
}

// RevenuePoint un bucket de la serie de ingresos.
type RevenuePoint struct {
	Key     string
	Start   time.Time
	Revenue decimal.Decimal
}

// TotalRevenue suma de pagos succeeded; con ventana, solo los de paymentDate en [Start, End].
func TotalRevenue(payments []*entity.Payment, window *Window) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p == nil || !p.Succeeded() {
			continue
		}
		if window != nil && !window.Contains(p.PaymentDate) {
			continue
		}
		total = total.Add(p.Amount)
	}
	return total.Round(2)
}

// RevenueTimeSeries ingresos succeeded en [start, end] agrupados por bucket UTC.
// Los buckets vacíos se omiten; el resultado queda ordenado por inicio de bucket.
func RevenueTimeSeries(payments []*entity.Payment, start, end time.Time, bucket Bucket) []RevenuePoint {
	window := Window{Start: start, End: end}
	sums := make(map[time.Time]decimal.Decimal)
	for _, p := range payments {
		if p == nil || !p.Succeeded() || !window.Contains(p.PaymentDate) {
			continue
		}
		k := BucketStart(p.PaymentDate, bucket)
		sums[k] = sums[k].Add(p.Amount)
	}

	starts := make([]time.Time, 0, len(sums))
	for k := range sums {
		starts = append(starts, k)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	points := make([]RevenuePoint, 0, len(starts))
	for _, s := range starts {
		points = append(points, RevenuePoint{
			Key:     BucketKey(s, bucket),
			Start:   s,
			Revenue: sums[s].Round(2),
		})
	}
	return points
}

// BucketStart inicio del bucket que contiene t. Las semanas empiezan en domingo.
func BucketStart(t time.Time, bucket Bucket) time.Time {
	day := dayStart(t)
	switch bucket {
	case BucketWeek:
		return day.AddDate(0, 0, -int(day.Weekday()))
	case BucketMonth:
		return monthStart(t)
	default:
		return day
	}
}

// BucketKey clave del bucket: YYYY-MM para meses, YYYY-MM-DD para días y semanas.
func BucketKey(start time.Time, bucket Bucket) string {
	if bucket == BucketMonth {
		return start.Format("2006-01")
	}
	return start.Format("2006-01-02")
}

// RevenueGrowth variación porcentual (current-previous)/previous*100, a 1 decimal; 0 si previous es 0.
func RevenueGrowth(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(1)
}

// CountActiveMembers miembros distintos con alguna membresía active o trialing.
func CountActiveMembers(memberships []*entity.Membership) int {
	set := MemberSet{}
	for _, m := range memberships {
		if m != nil && m.IsCurrent() {
			set.Add(m.MemberID)
		}
	}
	return set.Len()
}

// ARPU ingreso promedio por miembro activo; 0 sin miembros activos.
func ARPU(mrr decimal.Decimal, activeMembers int) decimal.Decimal {
	if activeMembers <= 0 {
		return decimal.Zero
	}
	return mrr.Div(decimal.NewFromInt(int64(activeMembers))).Round(2)
}

// ── Estadísticas de pagos ──

// PaymentStats resumen de cobros.
type PaymentStats struct {
	Total        int
	Succeeded    int
	Failed       int
	SuccessRate  decimal.Decimal
	AverageValue decimal.Decimal
	TotalAmount  decimal.Decimal
}

// SummarizePayments calcula tasa de éxito y ticket promedio sobre los pagos dados.
func SummarizePayments(payments []*entity.Payment) PaymentStats {
	var stats PaymentStats
	amount := decimal.Zero
	for _, p := range payments {
		if p == nil {
			continue
		}
		stats.Total++
		switch {
		case p.Succeeded():
			stats.Succeeded++
			amount = amount.Add(p.Amount)
		case p.Failed():
			stats.Failed++
		}
	}
	stats.TotalAmount = amount.Round(2)
	stats.SuccessRate = percentOf(stats.Succeeded, stats.Total, 1)
	if stats.Succeeded > 0 {
		stats.AverageValue = amount.Div(decimal.NewFromInt(int64(stats.Succeeded))).Round(2)
	}
	return stats
}

// FailedPaymentStats agregados de pagos fallidos.
type FailedPaymentStats struct {
	TotalFailed   int
	TotalAmount   decimal.Decimal
	UniqueMembers int
	Recent        int // últimos 30 días
}

// SummarizeFailed agrega pagos fallidos; Recent cuenta los de los 30 días previos a now.
func SummarizeFailed(payments []*entity.Payment, now time.Time) FailedPaymentStats {
	var stats FailedPaymentStats
	members := MemberSet{}
	amount := decimal.Zero
	since := now.AddDate(0, 0, -30)
	for _, p := range payments {
		if p == nil || !p.Failed() {
			continue
		}
		stats.TotalFailed++
		amount = amount.Add(p.Amount)
		members.Add(p.MemberID)
		if !p.PaymentDate.Before(since) {
			stats.Recent++
		}
	}
	stats.TotalAmount = amount.Round(2)
	stats.UniqueMembers = members.Len()
	return stats
}
