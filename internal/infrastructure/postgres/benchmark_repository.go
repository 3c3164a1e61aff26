package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Revenue-api/internal/domain"
	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	"github.com/jhoicas/Revenue-api/internal/domain/repository"
)

const (
	benchmarkMaxAttempts = 3
	benchmarkRetryDelay  = 25 * time.Millisecond
)

// RetryObserver recibe un aviso por cada reintento de Update (métricas).
type RetryObserver interface {
	ObserveBenchmarkRetry()
}

// BenchmarkRepo implementa repository.BenchmarkRepository.
// Update serializa el read-modify-write con SELECT ... FOR UPDATE dentro de una transacción.
type BenchmarkRepo struct {
	pool     *pgxpool.Pool
	observer RetryObserver
}

// NewBenchmarkRepository construye el repositorio; observer puede ser nil.
func NewBenchmarkRepository(pool *pgxpool.Pool, observer RetryObserver) *BenchmarkRepo {
	return &BenchmarkRepo{pool: pool, observer: observer}
}

var _ repository.BenchmarkRepository = (*BenchmarkRepo)(nil)

const benchmarkColumns = `id, niche, revenue_range, avg_mrr, avg_churn_rate, avg_ltv, avg_arpu,
	sample_size, contributing_companies, created_at, updated_at`

// Get devuelve nil, nil si el bucket no existe.
func (r *BenchmarkRepo) Get(ctx context.Context, niche, revenueRange string) (*entity.BenchmarkData, error) {
	query := `SELECT ` + benchmarkColumns + ` FROM benchmark_data WHERE niche = $1 AND revenue_range = $2`
	b, err := scanBenchmark(r.pool.QueryRow(ctx, query, niche, revenueRange))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("BenchmarkRepo.Get: %w", err)
	}
	return b, nil
}

// Update aplica fn sobre la fila bloqueada. Reintenta ante 40001/40P01 hasta benchmarkMaxAttempts.
func (r *BenchmarkRepo) Update(ctx context.Context, niche, revenueRange string, fn repository.BenchmarkUpdateFunc) (*entity.BenchmarkData, error) {
	var lastErr error
	for attempt := 1; attempt <= benchmarkMaxAttempts; attempt++ {
		result, err := r.updateOnce(ctx, niche, revenueRange, fn)
		if err == nil {
			return result, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
		if r.observer != nil {
			r.observer.ObserveBenchmarkRetry()
		}
		if attempt == benchmarkMaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("BenchmarkRepo.Update: %w", ctx.Err())
		case <-time.After(time.Duration(attempt) * benchmarkRetryDelay):
		}
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrConcurrentUpdate, lastErr)
}

func (r *BenchmarkRepo) updateOnce(ctx context.Context, niche, revenueRange string, fn repository.BenchmarkUpdateFunc) (*entity.BenchmarkData, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("BenchmarkRepo.Update begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Crear el bucket vacío si no existe; el UNIQUE (niche, revenue_range) resuelve la carrera.
	_, err = tx.Exec(ctx, `
		INSERT INTO benchmark_data (id, niche, revenue_range, sample_size, contributing_companies)
		VALUES ($1, $2, $3, 0, '{}')
		ON CONFLICT (niche, revenue_range) DO NOTHING`,
		uuid.NewString(), niche, revenueRange,
	)
	if err != nil {
		return nil, fmt.Errorf("BenchmarkRepo.Update insert: %w", err)
	}

	current, err := scanBenchmark(tx.QueryRow(ctx,
		`SELECT `+benchmarkColumns+` FROM benchmark_data WHERE niche = $1 AND revenue_range = $2 FOR UPDATE`,
		niche, revenueRange,
	))
	if err != nil {
		return nil, fmt.Errorf("BenchmarkRepo.Update lock: %w", err)
	}

	next, applied, err := fn(current)
	if err != nil {
		return nil, err
	}
	if !applied {
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("BenchmarkRepo.Update commit: %w", err)
		}
		return current, nil
	}

	err = tx.QueryRow(ctx, `
		UPDATE benchmark_data
		SET avg_mrr = $1, avg_churn_rate = $2, avg_ltv = $3, avg_arpu = $4,
		    sample_size = $5, contributing_companies = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`,
		next.AvgMRR, next.AvgChurnRate, next.AvgLTV, next.AvgARPU,
		next.SampleSize, next.ContributingCompanies, current.ID,
	).Scan(&next.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("BenchmarkRepo.Update: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("BenchmarkRepo.Update commit: %w", err)
	}

	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	return next, nil
}

func scanBenchmark(row pgx.Row) (*entity.BenchmarkData, error) {
	var b entity.BenchmarkData
	err := row.Scan(
		&b.ID, &b.Niche, &b.RevenueRange, &b.AvgMRR, &b.AvgChurnRate, &b.AvgLTV, &b.AvgARPU,
		&b.SampleSize, &b.ContributingCompanies, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
