package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Revenue-api/internal/application/analytics"
	"github.com/jhoicas/Revenue-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MetricsUC   *analytics.MetricsUseCase
	MemberUC    *analytics.MemberAnalyticsUseCase
	BenchmarkUC *analytics.BenchmarkUseCase
	ReportUC    *analytics.ReportUseCase
	Companies   companyChecker
	JWTSecret   string
	Log         zerolog.Logger

	Health     *HealthHandler
	Prometheus nethttp.Handler // nil = sin /metrics
	Observer   requestObserver // nil = sin métricas HTTP
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestLogger(deps.Log, deps.Observer))

	// Público
	if deps.Health != nil {
		app.Get("/health", deps.Health.Get)
	}
	if deps.Prometheus != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Prometheus))
	}

	// Todo /api requiere Bearer Token y una empresa existente
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret), RequireCompany(deps.Companies))
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Métricas
	metricsHandler := NewMetricsHandler(deps.MetricsUC, deps.Log)
	m := api.Group("/metrics")
	m.Get("/overview", metricsHandler.GetOverview)
	m.Get("/mrr", metricsHandler.GetMRR)
	m.Get("/revenue", metricsHandler.GetRevenue)
	m.Get("/revenue/growth", metricsHandler.GetRevenueGrowth)
	m.Get("/churn", metricsHandler.GetChurn)
	m.Get("/ltv", metricsHandler.GetLTV)
	m.Get("/cohorts", metricsHandler.GetCohorts)
	m.Get("/member-growth", metricsHandler.GetMemberGrowth)
	m.Get("/products", metricsHandler.GetProducts)
	m.Get("/payments", metricsHandler.GetPaymentStats)
	api.Get("/payments/failed", metricsHandler.GetFailedPayments)

	// Miembros
	memberHandler := NewMemberHandler(deps.MemberUC, deps.Log)
	members := api.Group("/members")
	members.Get("/", memberHandler.List)
	members.Post("/analytics/recompute", adminOnly, memberHandler.Recompute)
	members.Get("/:id", memberHandler.GetByID)

	// Benchmarks
	benchmarkHandler := NewBenchmarkHandler(deps.BenchmarkUC, deps.Log)
	benchmarks := api.Group("/benchmarks")
	benchmarks.Post("/contribute", adminOnly, benchmarkHandler.Contribute)
	benchmarks.Get("/compare", benchmarkHandler.Compare)

	// Reportes
	reportHandler := NewReportHandler(deps.ReportUC, deps.Log)
	api.Get("/reports/overview.pdf", reportHandler.GetOverviewPDF)
}
