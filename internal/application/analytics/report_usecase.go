package analytics

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/Revenue-api/internal/application/ports"
	"github.com/jhoicas/Revenue-api/internal/domain"
	"github.com/jhoicas/Revenue-api/internal/domain/repository"
)

// reportTopProducts productos listados en el reporte.
const reportTopProducts = 5

// ReportUseCase genera el reporte ejecutivo en PDF de una empresa.
type ReportUseCase struct {
	companies repository.CompanyRepository
	metrics   *MetricsUseCase
	generator ports.ReportPDFGenerator
}

// NewReportUseCase construye el caso de uso inyectando todas sus dependencias.
func NewReportUseCase(
	companies repository.CompanyRepository,
	metrics *MetricsUseCase,
	generator ports.ReportPDFGenerator,
) *ReportUseCase {
	return &ReportUseCase{companies: companies, metrics: metrics, generator: generator}
}

// OverviewReportPDF reúne resumen, cohortes y productos y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrCompanyNotFound  si la empresa no existe.
func (uc *ReportUseCase) OverviewReportPDF(ctx context.Context, companyID string) (pdfBytes []byte, filename string, err error) {
	// ── 1. Empresa ────────────────────────────────────────────────────────────
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, domain.ErrCompanyNotFound) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("reporte: obtener empresa: %w", err)
	}

	// ── 2. Métricas ───────────────────────────────────────────────────────────
	overview, err := uc.metrics.Overview(ctx, companyID)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: resumen: %w", err)
	}
	cohorts, err := uc.metrics.Cohorts(ctx, companyID, 0)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: cohortes: %w", err)
	}
	products, err := uc.metrics.ProductPerformance(ctx, companyID)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: productos: %w", err)
	}
	if len(products) > reportTopProducts {
		products = products[:reportTopProducts]
	}

	// ── 3. Generar PDF ────────────────────────────────────────────────────────
	now := uc.metrics.cfg.now()
	pdfBytes, err = uc.generator.GenerateOverviewPDF(ctx, &ports.OverviewReport{
		Company:     company,
		Overview:    overview,
		Cohorts:     cohorts,
		Products:    products,
		GeneratedAt: now,
	})
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("reporte_%s_%s.pdf", company.ExternalID, now.Format("2006-01-02"))
	return pdfBytes, filename, nil
}
