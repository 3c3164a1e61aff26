package ports

import (
	"context"
	"time"

	"github.com/jhoicas/Revenue-api/internal/application/dto"
	"github.com/jhoicas/Revenue-api/internal/domain/entity"
)

// OverviewReport datos del reporte ejecutivo de una empresa.
type OverviewReport struct {
	Company     *entity.Company
	Overview    *dto.OverviewDTO
	Cohorts     []dto.CohortDTO
	Products    []dto.ProductPerformanceDTO
	GeneratedAt time.Time
}

// ReportPDFGenerator genera la representación PDF del reporte.
// La implementación (Maroto) vive en infrastructure/pdf.
type ReportPDFGenerator interface {
	GenerateOverviewPDF(ctx context.Context, report *OverviewReport) ([]byte, error)
}

// RecomputeRecorder registra la duración de los recálculos de analítica por miembro.
type RecomputeRecorder interface {
	ObserveRecompute(d time.Duration, members int)
}
