package repository

import (
	"context"

	"github.com/jhoicas/Revenue-api/internal/domain/entity"
)

// BenchmarkUpdateFunc recibe la fila bloqueada y devuelve el nuevo estado.
// applied=false deja la fila intacta (p. ej. la empresa ya había aportado).
type BenchmarkUpdateFunc func(current *entity.BenchmarkData) (next *entity.BenchmarkData, applied bool, err error)

// BenchmarkRepository agregados entre empresas por (niche, revenueRange).
type BenchmarkRepository interface {
	// Get devuelve nil, nil si el bucket aún no existe.
	Get(ctx context.Context, niche, revenueRange string) (*entity.BenchmarkData, error)

	// Update ejecuta fn como read-modify-write serializado sobre la fila del bucket
	// (la crea vacía si no existe). Ante conflictos de concurrencia reintenta y, agotados
	// los intentos, devuelve domain.ErrConcurrentUpdate.
	Update(ctx context.Context, niche, revenueRange string, fn BenchmarkUpdateFunc) (*entity.BenchmarkData, error)
}
