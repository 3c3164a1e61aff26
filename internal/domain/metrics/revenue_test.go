package metrics_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	"github.com/jhoicas/Revenue-api/internal/domain/metrics"
)

func revenueFixture() []*entity.Payment {
	return []*entity.Payment{
		payment("m1", entity.PaymentSucceeded, "49.00", "2024-01-03"),
		payment("m2", entity.PaymentSucceeded, "25.50", "2024-01-07"),
		payment("m1", entity.PaymentFailed, "49.00", "2024-01-08"),
		payment("m3", entity.PaymentRefunded, "10.00", "2024-01-09"),
		payment("m1", entity.PaymentSucceeded, "49.00", "2024-02-03"),
		payment("m2", entity.PaymentPending, "25.50", "2024-02-07"),
	}
}

func TestTotalRevenue_SoloExitosos(t *testing.T) {
	assertDecimal(t, "123.50", metrics.TotalRevenue(revenueFixture(), nil))
}

func TestTotalRevenue_VentanaInclusiva(t *testing.T) {
	w := &metrics.Window{Start: day("2024-01-07"), End: day("2024-02-03")}
	assertDecimal(t, "74.50", metrics.TotalRevenue(revenueFixture(), w))
}

func TestRevenueTimeSeries_Semanal(t *testing.T) {
	points := metrics.RevenueTimeSeries(revenueFixture(), day("2024-01-01"), day("2024-02-29"), metrics.BucketWeek)

	require.Len(t, points, 3)
	// 2024-01-03 es miércoles: su semana empieza el domingo 2023-12-31
	assert.Equal(t, "2023-12-31", points[0].Key)
	assertDecimal(t, "49", points[0].Revenue)
	assert.Equal(t, "2024-01-07", points[1].Key)
	assertDecimal(t, "25.5", points[1].Revenue)
	assert.Equal(t, "2024-01-28", points[2].Key)
}

func TestRevenueTimeSeries_MensualOmiteVacios(t *testing.T) {
	payments := append(revenueFixture(), payment("m4", entity.PaymentSucceeded, "100", "2024-04-15"))
	points := metrics.RevenueTimeSeries(payments, day("2024-01-01"), day("2024-04-30"), metrics.BucketMonth)

	require.Len(t, points, 3)
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-04"}, []string{points[0].Key, points[1].Key, points[2].Key})
	assertDecimal(t, "74.5", points[0].Revenue)
	assertDecimal(t, "100", points[2].Revenue)
}

func TestRevenueTimeSeries_Diario(t *testing.T) {
	points := metrics.RevenueTimeSeries(revenueFixture(), day("2024-01-01"), day("2024-01-31"), metrics.BucketDay)
	require.Len(t, points, 2)
	assert.Equal(t, "2024-01-03", points[0].Key)
	assert.True(t, points[0].Start.Before(points[1].Start))
}

func TestParseBucket(t *testing.T) {
	b, ok := metrics.ParseBucket(" Week ")
	assert.True(t, ok)
	assert.Equal(t, metrics.BucketWeek, b)

	_, ok = metrics.ParseBucket("quarter")
	assert.False(t, ok)
}

func TestWindowPrevious_MismaDuracion(t *testing.T) {
	w := metrics.Window{Start: day("2024-02-01"), End: day("2024-02-29")}
	prev := w.Previous()
	assert.Equal(t, w.End.Sub(w.Start), prev.End.Sub(prev.Start))
	assert.True(t, prev.End.Before(w.Start))
}

func TestRevenueGrowth(t *testing.T) {
	assertDecimal(t, "20", metrics.RevenueGrowth(decimal.NewFromInt(120), decimal.NewFromInt(100)))
	assertDecimal(t, "-33.3", metrics.RevenueGrowth(decimal.NewFromInt(100), decimal.NewFromInt(150)))
	assertDecimal(t, "0", metrics.RevenueGrowth(decimal.NewFromInt(100), decimal.Zero))
}

func TestARPU(t *testing.T) {
	ms := []*entity.Membership{
		membership("m1", "p1", entity.MembershipActive, "2024-01-01", ""),
		membership("m1", "p2", entity.MembershipTrialing, "2024-01-01", ""),
		membership("m2", "p1", entity.MembershipTrialing, "2024-01-01", ""),
		membership("m3", "p1", entity.MembershipCancelled, "2024-01-01", "2024-02-01"),
	}
	active := metrics.CountActiveMembers(ms)
	assert.Equal(t, 2, active)

	assertDecimal(t, "49.50", metrics.ARPU(decimal.NewFromInt(99), active))
	assertDecimal(t, "0", metrics.ARPU(decimal.NewFromInt(99), 0))
}

func TestSummarizePayments(t *testing.T) {
	stats := metrics.SummarizePayments(revenueFixture())

	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 3, stats.Succeeded)
	assert.Equal(t, 1, stats.Failed)
	assertDecimal(t, "50", stats.SuccessRate)
	assertDecimal(t, "41.17", stats.AverageValue)
	assertDecimal(t, "123.5", stats.TotalAmount)
}

func TestSummarizeFailed(t *testing.T) {
	payments := []*entity.Payment{
		payment("m1", entity.PaymentFailed, "49", "2024-01-05"),
		payment("m1", entity.PaymentFailed, "49", "2024-03-01"),
		payment("m2", entity.PaymentFailed, "10", "2024-03-10"),
		payment("m2", entity.PaymentSucceeded, "10", "2024-03-11"),
	}
	stats := metrics.SummarizeFailed(payments, day("2024-03-15"))

	assert.Equal(t, 3, stats.TotalFailed)
	assert.Equal(t, 2, stats.UniqueMembers)
	assert.Equal(t, 2, stats.Recent)
	assertDecimal(t, "108", stats.TotalAmount)
}
