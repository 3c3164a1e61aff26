package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Revenue-api/internal/application/analytics"
	"github.com/jhoicas/Revenue-api/internal/application/ports"
	"github.com/jhoicas/Revenue-api/internal/domain/metrics"
	infracache "github.com/jhoicas/Revenue-api/internal/infrastructure/cache"
	"github.com/jhoicas/Revenue-api/internal/infrastructure/observability"
	infrapdf "github.com/jhoicas/Revenue-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Revenue-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Revenue-api/internal/interfaces/http"
	"github.com/jhoicas/Revenue-api/pkg/config"
	"github.com/jhoicas/Revenue-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const swaggerFile = "./docs/swagger.json"

// redisPinger adapta *redis.Client al chequeo de salud.
type redisPinger struct{ c *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.c.Ping(ctx).Err() }

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.DB.AutoMigrate {
		version, err := postgres.Migrate(cfg.DB.ConnectionString())
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones de base de datos")
		}
		log.Info().Uint("version", version).Msg("esquema actualizado")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	prom := observability.NewMetrics("revenue")

	companyRepo := postgres.NewCompanyRepository(pool)
	memberRepo := postgres.NewMemberRepository(pool)
	membershipRepo := postgres.NewMembershipRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	memberAnalyticsRepo := postgres.NewMemberAnalyticsRepository(pool)
	benchmarkRepo := postgres.NewBenchmarkRepository(pool, prom)

	// Caché de métricas: Redis con circuit breaker; sin REDIS_ADDR todo es miss.
	var metricsCache ports.MetricsCache = infracache.NoopCache{}
	var cachePinger httpRouter.Pinger
	if cfg.Redis.Enabled() {
		client, err := infracache.NewRedisClient(cfg.Redis)
		if err != nil {
			// Redis caído al arrancar no impide servir métricas.
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, se continúa sin caché")
		} else {
			defer client.Close()
			metricsCache = infracache.NewRedisCache(client, prom, log.Component("cache"))
			cachePinger = redisPinger{c: client}
		}
	}

	analyticsCfg := analytics.Config{
		CacheTTL:       cfg.Metrics.CacheTTL,
		CohortCount:    cfg.Metrics.CohortCount,
		ScoringWorkers: cfg.Metrics.ScoringWorkers,
		Heuristics: metrics.Heuristics{
			DefaultLifespanMonths: cfg.Metrics.DefaultLifespanMonths,
			DecliningPaymentRatio: cfg.Metrics.DecliningPaymentRatio,
		},
	}

	metricsUC := analytics.NewMetricsUseCase(
		membershipRepo, paymentRepo, productRepo,
		metricsCache, analyticsCfg, log.Component("metrics"),
	)
	memberUC := analytics.NewMemberAnalyticsUseCase(
		memberRepo, membershipRepo, paymentRepo, memberAnalyticsRepo,
		metricsCache, prom, analyticsCfg, log.Component("member_analytics"),
	)
	benchmarkUC := analytics.NewBenchmarkUseCase(
		companyRepo, benchmarkRepo, membershipRepo, paymentRepo, productRepo,
		analyticsCfg, log.Component("benchmark"),
	)
	reportUC := analytics.NewReportUseCase(companyRepo, metricsUC, infrapdf.NewMarotoReportGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Revenue API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado, archivo no encontrado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		MetricsUC:   metricsUC,
		MemberUC:    memberUC,
		BenchmarkUC: benchmarkUC,
		ReportUC:    reportUC,
		Companies:   companyRepo,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log.Component("http"),
		Health:      httpRouter.NewHealthHandler(pool, cachePinger),
		Prometheus:  prom.Handler(),
		Observer:    prom,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
