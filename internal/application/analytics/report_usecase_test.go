package analytics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Revenue-api/internal/application/analytics"
	"github.com/jhoicas/Revenue-api/internal/application/ports"
	"github.com/jhoicas/Revenue-api/internal/domain"
)

type fakeGenerator struct {
	report *ports.OverviewReport
	err    error
}

func (g *fakeGenerator) GenerateOverviewPDF(_ context.Context, r *ports.OverviewReport) ([]byte, error) {
	g.report = r
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-1.4"), nil
}

func TestOverviewReportPDF(t *testing.T) {
	store := seedFitness()
	gen := &fakeGenerator{}
	uc := analytics.NewReportUseCase(companyRepo{store}, newMetricsUC(store, nil), gen)

	pdf, filename, err := uc.OverviewReportPDF(context.Background(), testCompanyID)
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	assert.Equal(t, "reporte_biz_123_2024-06-15.pdf", filename)
	require.NotNil(t, gen.report)
	assert.Equal(t, "Acme Fitness", gen.report.Company.Name)
	assertDecimal(t, "147", gen.report.Overview.MRR)
	assert.Len(t, gen.report.Cohorts, 2)
	assert.Len(t, gen.report.Products, 1)
}

func TestOverviewReportPDF_Errores(t *testing.T) {
	store := seedFitness()

	uc := analytics.NewReportUseCase(companyRepo{store}, newMetricsUC(store, nil), &fakeGenerator{})
	_, _, err := uc.OverviewReportPDF(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)

	genErr := errors.New("maroto: fuente no encontrada")
	uc = analytics.NewReportUseCase(companyRepo{store}, newMetricsUC(store, nil), &fakeGenerator{err: genErr})
	_, _, err = uc.OverviewReportPDF(context.Background(), testCompanyID)
	assert.ErrorIs(t, err, genErr)
}
