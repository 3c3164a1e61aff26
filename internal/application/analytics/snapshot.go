package analytics

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	"github.com/jhoicas/Revenue-api/internal/domain/metrics"
	"github.com/jhoicas/Revenue-api/internal/domain/repository"
)

// snapshot datos de una empresa leídos una sola vez por pedido.
type snapshot struct {
	memberships []*entity.Membership
	payments    []*entity.Payment
	products    []*entity.Product
	plans       []*entity.Plan
}

func (s *snapshot) planIndex() metrics.PlanIndex { return metrics.IndexPlans(s.plans) }

// snapshotParts qué colecciones cargar.
type snapshotParts struct {
	memberships bool
	payments    bool
	products    bool
	plans       bool
}

var (
	partsMRR     = snapshotParts{memberships: true, plans: true}
	partsRevenue = snapshotParts{payments: true}
	partsAll     = snapshotParts{memberships: true, payments: true, products: true, plans: true}
)

// snapshotLoader lee en paralelo las colecciones pedidas; el primer error cancela el resto.
type snapshotLoader struct {
	memberships repository.MembershipRepository
	payments    repository.PaymentRepository
	products    repository.ProductRepository
}

func (l snapshotLoader) load(ctx context.Context, companyID string, parts snapshotParts) (*snapshot, error) {
	var snap snapshot
	g, gctx := errgroup.WithContext(ctx)

	if parts.memberships {
		g.Go(func() (err error) {
			if snap.memberships, err = l.memberships.ListByCompany(gctx, companyID, repository.MembershipFilter{}); err != nil {
				return fmt.Errorf("snapshot: membresías: %w", err)
			}
			return nil
		})
	}
	if parts.payments {
		g.Go(func() (err error) {
			if snap.payments, err = l.payments.ListByCompany(gctx, companyID, repository.PaymentFilter{}); err != nil {
				return fmt.Errorf("snapshot: pagos: %w", err)
			}
			return nil
		})
	}
	if parts.products {
		g.Go(func() (err error) {
			if snap.products, err = l.products.ListByCompany(gctx, companyID); err != nil {
				return fmt.Errorf("snapshot: productos: %w", err)
			}
			return nil
		})
	}
	if parts.plans {
		g.Go(func() (err error) {
			if snap.plans, err = l.products.ListPlansByCompany(gctx, companyID); err != nil {
				return fmt.Errorf("snapshot: planes: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}
