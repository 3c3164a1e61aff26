// Package pdf genera el reporte ejecutivo de métricas de ingresos con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + ID externo  │  REPORTE EJECUTIVO + fecha  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  KPIs: MRR | Crec. MRR | Ingresos | Miembros activos         │
//	│        Churn | Var. churn | LTV | ARPU                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  COHORTES: Cohorte | Tamaño | Mes 0 .. Mes 5                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PRODUCTOS: Producto | Planes | Ingresos | MRR | Activos | % │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda de cálculo                                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Revenue-api/internal/application/dto"
	"github.com/jhoicas/Revenue-api/internal/application/ports"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite    = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorLight    = &props.Color{Red: 235, Green: 241, Blue: 247}
	colorPositive = &props.Color{Red: 20, Green: 120, Blue: 60}
	colorNegative = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa ports.ReportPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

var _ ports.ReportPDFGenerator = (*MarotoReportGenerator)(nil)

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateOverviewPDF genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateOverviewPDF(_ context.Context, report *ports.OverviewReport) ([]byte, error) {
	if report == nil || report.Company == nil || report.Overview == nil {
		return nil, fmt.Errorf("pdf: reporte incompleto")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte ejecutivo de ingresos", true).
		WithAuthor(report.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(kpiRows(report.Overview)...)

	m.AddRows(line.NewRow(4))
	m.AddRows(sectionTitle("RETENCIÓN POR COHORTE"))
	m.AddRows(cohortHeaderRow())
	m.AddRows(cohortRows(report.Cohorts)...)

	m.AddRows(line.NewRow(4))
	m.AddRows(sectionTitle("PRODUCTOS CON MÁS INGRESOS"))
	m.AddRows(productHeaderRow())
	m.AddRows(productRows(report.Products)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa (izq) y título + fecha de generación (der).
func headerRow(r *ports.OverviewReport) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(r.Company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("ID plataforma: "+nonEmpty(r.Company.ExternalID, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE EJECUTIVO DE INGRESOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+r.GeneratedAt.UTC().Format("02/01/2006 15:04")+" UTC", props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// kpiRows: dos filas de 4 indicadores.
func kpiRows(o *dto.OverviewDTO) []core.Row {
	kpi := func(label, value string, valueColor *props.Color) core.Col {
		if valueColor == nil {
			valueColor = colorPrimary
		}
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 2, Left: 2}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 12, Color: valueColor, Top: 7, Left: 2}),
		)
	}
	return []core.Row{
		row.New(16).Add(
			kpi("MRR", "$"+formatMoney(o.MRR), nil),
			kpi("Crecimiento MRR (mes)", formatSigned(o.MRRGrowth)+"%", trendColor(o.MRRGrowth, false)),
			kpi("Ingresos totales", "$"+formatMoney(o.TotalRevenue), nil),
			kpi("Miembros activos", fmt.Sprintf("%d", o.ActiveMembers), nil),
		).WithStyle(&props.Cell{BackgroundColor: colorLight}),
		row.New(16).Add(
			kpi("Churn (último mes)", o.ChurnRate.StringFixed(1)+"%", nil),
			kpi("Variación churn", formatSigned(o.ChurnChange)+" pp", trendColor(o.ChurnChange, true)),
			kpi("LTV", "$"+formatMoney(o.LTV), nil),
			kpi("ARPU", "$"+formatMoney(o.ARPU), nil),
		),
	}
}

func sectionTitle(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1}),
	))
}

func tableHeader(cells ...core.Col) core.Row {
	return row.New(7).Add(cells...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 1.5, Left: 1, Right: 1,
	}))
}

func bodyCell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

func cohortHeaderRow() core.Row {
	cells := []core.Col{headerCell("Cohorte", 3, align.Left), headerCell("Tamaño", 1, align.Center)}
	for i, size := range cohortCols {
		cells = append(cells, headerCell(fmt.Sprintf("Mes %d", i), size, align.Center))
	}
	return tableHeader(cells...)
}

// cohortCols anchos de las columnas Mes 0..5 (suman 8 de las 12 de la grilla).
var cohortCols = [6]int{2, 1, 2, 1, 1, 1}

func cohortRows(cohorts []dto.CohortDTO) []core.Row {
	if len(cohorts) == 0 {
		return []core.Row{emptyRow("Sin cohortes en el período")}
	}
	rows := make([]core.Row, 0, len(cohorts))
	for _, c := range cohorts {
		cells := []core.Col{bodyCell(c.Label, 3, align.Left), bodyCell(fmt.Sprint(c.Size), 1, align.Center)}
		for i, v := range []decimal.Decimal{c.Month0, c.Month1, c.Month2, c.Month3, c.Month4, c.Month5} {
			cells = append(cells, bodyCell(formatRetention(v), cohortCols[i], align.Center))
		}
		rows = append(rows, row.New(6).Add(cells...))
	}
	return rows
}

func productHeaderRow() core.Row {
	return tableHeader(
		headerCell("Producto", 4, align.Left),
		headerCell("Planes", 1, align.Center),
		headerCell("Ingresos", 2, align.Right),
		headerCell("MRR", 2, align.Right),
		headerCell("Activos", 1, align.Center),
		headerCell("Churn", 2, align.Right),
	)
}

func productRows(products []dto.ProductPerformanceDTO) []core.Row {
	if len(products) == 0 {
		return []core.Row{emptyRow("Sin productos")}
	}
	rows := make([]core.Row, 0, len(products))
	for _, p := range products {
		rows = append(rows, row.New(6).Add(
			bodyCell(p.Name, 4, align.Left),
			bodyCell(fmt.Sprint(p.PlanCount), 1, align.Center),
			bodyCell("$"+formatMoney(p.Revenue), 2, align.Right),
			bodyCell("$"+formatMoney(p.MRR), 2, align.Right),
			bodyCell(fmt.Sprintf("%d/%d", p.ActiveMembers, p.TotalMembers), 1, align.Center),
			bodyCell(p.ChurnRate.StringFixed(1)+"%", 2, align.Right),
		))
	}
	return rows
}

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 1, Align: align.Center}),
	))
}

func footerRow() core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(
			"MRR normalizado a mes (anual/12, semanal x 4,33, diario x 30). Churn: bajas del período sobre "+
				"miembros activos al inicio. LTV = ARPU x vida media en meses. \"-\" = mes aún no observable.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// trendColor verde si el cambio es favorable, rojo si no. Para churn, bajar es favorable.
func trendColor(change decimal.Decimal, lowerIsBetter bool) *props.Color {
	if change.IsZero() {
		return colorGray
	}
	if change.IsPositive() != lowerIsBetter {
		return colorPositive
	}
	return colorNegative
}

func formatSigned(d decimal.Decimal) string {
	s := d.StringFixed(1)
	if d.IsPositive() {
		return "+" + s
	}
	return s
}

// formatRetention -1 (no observable) se muestra como "-". Solo caracteres Latin-1 (fuentes base).
func formatRetention(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-"
	}
	return d.StringFixed(1) + "%"
}

// formatMoney puntos de miles y coma decimal con 2 decimales.
// Ej: 25000 → "25.000,00", 1234567.5 → "1.234.567,50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3+4)
	if d.IsNegative() {
		buf = append(buf, '-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	buf = append(buf, ',')
	buf = append(buf, frac...)
	return string(buf)
}
