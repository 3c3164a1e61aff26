package analytics_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Revenue-api/internal/application/analytics"
	"github.com/jhoicas/Revenue-api/internal/domain"
	"github.com/jhoicas/Revenue-api/internal/domain/metrics"
)

func newBenchmarkUC(s *fakeStore) *analytics.BenchmarkUseCase {
	return analytics.NewBenchmarkUseCase(
		companyRepo{s}, benchmarkRepo{s}, membershipRepo{s}, paymentRepo{s}, productRepo{s},
		testConfig(), zerolog.Nop(),
	)
}

func TestContributeBenchmark_Idempotente(t *testing.T) {
	store := seedFitness()
	uc := newBenchmarkUC(store)

	first, err := uc.ContributeBenchmark(context.Background(), testCompanyID)
	require.NoError(t, err)
	assert.Equal(t, metrics.NicheFitness, first.Niche)
	assert.Equal(t, "0-5k", first.RevenueRange)
	assert.True(t, first.Applied)
	assert.Equal(t, 1, first.SampleSize)

	second, err := uc.ContributeBenchmark(context.Background(), testCompanyID)
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.Equal(t, 1, second.SampleSize)

	row := store.benchmarks["fitness/0-5k"]
	require.NotNil(t, row)
	assertDecimal(t, "147", row.AvgMRR)
	assert.Equal(t, []string{testCompanyID}, row.ContributingCompanies)
}

func TestCompareBenchmark(t *testing.T) {
	store := seedFitness()
	uc := newBenchmarkUC(store)

	before, err := uc.CompareBenchmark(context.Background(), testCompanyID)
	require.NoError(t, err)
	assert.True(t, before.NoBenchmark)
	assert.Empty(t, before.Metrics)

	_, err = uc.ContributeBenchmark(context.Background(), testCompanyID)
	require.NoError(t, err)

	after, err := uc.CompareBenchmark(context.Background(), testCompanyID)
	require.NoError(t, err)
	assert.False(t, after.NoBenchmark)
	require.Len(t, after.Metrics, 4)
	for _, m := range after.Metrics {
		assert.Equal(t, metrics.StatusAverage, m.Status, m.Metric)
		assert.Equal(t, 60, m.Percentile, m.Metric)
	}
}

func TestBenchmark_EmpresaInexistente(t *testing.T) {
	uc := newBenchmarkUC(seedFitness())

	_, err := uc.ContributeBenchmark(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)

	_, err = uc.CompareBenchmark(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
}
