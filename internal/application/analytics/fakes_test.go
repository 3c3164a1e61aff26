package analytics_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Revenue-api/internal/application/analytics"
	"github.com/jhoicas/Revenue-api/internal/application/ports"
	"github.com/jhoicas/Revenue-api/internal/domain"
	"github.com/jhoicas/Revenue-api/internal/domain/entity"
	"github.com/jhoicas/Revenue-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los repositorios y puertos
// ──────────────────────────────────────────────────────────────────────────────

const testCompanyID = "company-1"

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func testConfig() analytics.Config {
	return analytics.Config{
		ScoringWorkers: 2,
		Now:            func() time.Time { return testNow },
	}
}

var errStore = errors.New("store caído")

type fakeStore struct {
	mu          sync.Mutex
	companies   []*entity.Company
	members     []*entity.Member
	memberships []*entity.Membership
	payments    []*entity.Payment
	products    []*entity.Product
	plans       []*entity.Plan
	analytics   map[string]*entity.MemberAnalytics
	benchmarks  map[string]*entity.BenchmarkData

	membershipCalls int
	failPayments    bool

	// holdMemberships hace que la lectura de membresías espere la cancelación del contexto.
	holdMemberships    bool
	membershipsAborted bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		companies:  []*entity.Company{{ID: testCompanyID, ExternalID: "biz_123", Name: "Acme Fitness"}},
		analytics:  map[string]*entity.MemberAnalytics{},
		benchmarks: map[string]*entity.BenchmarkData{},
	}
}

// ── CompanyRepository ──

func (s *fakeStore) GetByExternalID(_ context.Context, externalID string) (*entity.Company, error) {
	for _, c := range s.companies {
		if c.ExternalID == externalID {
			return c, nil
		}
	}
	return nil, domain.ErrCompanyNotFound
}

type companyRepo struct{ *fakeStore }

func (r companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	for _, c := range r.companies {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domain.ErrCompanyNotFound
}

// ── MemberRepository ──

type memberRepo struct{ *fakeStore }

func (r memberRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Member, error) {
	var out []*entity.Member
	for _, m := range r.members {
		if m.CompanyID == companyID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r memberRepo) GetByID(_ context.Context, companyID, memberID string) (*entity.Member, error) {
	for _, m := range r.members {
		if m.ID == memberID && m.CompanyID == companyID {
			return m, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (r memberRepo) Search(ctx context.Context, companyID, query string) ([]*entity.Member, error) {
	all, _ := r.ListByCompany(ctx, companyID)
	q := strings.ToLower(query)
	var out []*entity.Member
	for _, m := range all {
		if strings.Contains(strings.ToLower(m.Email), q) || strings.Contains(strings.ToLower(m.Username), q) {
			out = append(out, m)
		}
	}
	return out, nil
}

// ── MembershipRepository ──

type membershipRepo struct{ *fakeStore }

func (r membershipRepo) ListByCompany(ctx context.Context, companyID string, f repository.MembershipFilter) ([]*entity.Membership, error) {
	r.mu.Lock()
	r.membershipCalls++
	r.mu.Unlock()

	if r.holdMemberships {
		select {
		case <-ctx.Done():
			r.mu.Lock()
			r.membershipsAborted = true
			r.mu.Unlock()
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
			return nil, errors.New("membresías: el contexto nunca se canceló")
		}
	}

	var out []*entity.Membership
	for _, m := range r.memberships {
		if m.CompanyID != companyID {
			continue
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, m.Status) {
			continue
		}
		if f.StartedBefore != nil && m.StartDate.After(*f.StartedBefore) {
			continue
		}
		if f.MemberID != "" && m.MemberID != f.MemberID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// ── PaymentRepository ──

type paymentRepo struct{ *fakeStore }

func (r paymentRepo) ListByCompany(_ context.Context, companyID string, f repository.PaymentFilter) ([]*entity.Payment, error) {
	if r.failPayments {
		return nil, errStore
	}
	var out []*entity.Payment
	for _, p := range r.payments {
		if p.CompanyID != companyID {
			continue
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, p.Status) {
			continue
		}
		if f.From != nil && p.PaymentDate.Before(*f.From) {
			continue
		}
		if f.To != nil && p.PaymentDate.After(*f.To) {
			continue
		}
		if f.MemberID != "" && p.MemberID != f.MemberID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r paymentRepo) ListFailed(ctx context.Context, companyID string, limit int) ([]repository.FailedPaymentResult, error) {
	failed, err := r.ListByCompany(ctx, companyID, repository.PaymentFilter{Statuses: []string{entity.PaymentFailed}})
	if err != nil {
		return nil, err
	}
	var out []repository.FailedPaymentResult
	for _, p := range failed {
		if len(out) == limit {
			break
		}
		m, _ := memberRepo(r).GetByID(ctx, companyID, p.MemberID)
		res := repository.FailedPaymentResult{Payment: p}
		if m != nil {
			res.MemberEmail, res.MemberUsername = m.Email, m.Username
		}
		out = append(out, res)
	}
	return out, nil
}

// ── ProductRepository ──

type productRepo struct{ *fakeStore }

func (r productRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r productRepo) ListPlansByProduct(_ context.Context, productID string) ([]*entity.Plan, error) {
	var out []*entity.Plan
	for _, p := range r.plans {
		if p.ProductID == productID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r productRepo) ListPlansByCompany(ctx context.Context, companyID string) ([]*entity.Plan, error) {
	products, _ := r.ListByCompany(ctx, companyID)
	var out []*entity.Plan
	for _, prod := range products {
		plans, _ := r.ListPlansByProduct(ctx, prod.ID)
		out = append(out, plans...)
	}
	return out, nil
}

// ── MemberAnalyticsRepository ──

type analyticsRepo struct{ *fakeStore }

func (r analyticsRepo) UpsertBatch(_ context.Context, rows []*entity.MemberAnalytics) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		r.analytics[row.CompanyID+"/"+row.MemberID] = row
	}
	return nil
}

func (r analyticsRepo) GetByMember(_ context.Context, companyID, memberID string) (*entity.MemberAnalytics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.analytics[companyID+"/"+memberID], nil
}

func (r analyticsRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.MemberAnalytics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.MemberAnalytics
	for _, row := range r.analytics {
		if row.CompanyID == companyID {
			out = append(out, row)
		}
	}
	return out, nil
}

// ── BenchmarkRepository ──

type benchmarkRepo struct{ *fakeStore }

func (r benchmarkRepo) Get(_ context.Context, niche, revenueRange string) (*entity.BenchmarkData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.benchmarks[niche+"/"+revenueRange], nil
}

func (r benchmarkRepo) Update(_ context.Context, niche, revenueRange string, fn repository.BenchmarkUpdateFunc) (*entity.BenchmarkData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := niche + "/" + revenueRange
	current, ok := r.benchmarks[key]
	if !ok {
		current = &entity.BenchmarkData{ID: key, Niche: niche, RevenueRange: revenueRange}
	}
	next, applied, err := fn(current)
	if err != nil {
		return nil, err
	}
	if applied {
		r.benchmarks[key] = next
	}
	return next, nil
}

// ── MetricsCache ──

type fakeCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	getErr      error
	sets        int
	invalidated []string
}

var _ ports.MetricsCache = (*fakeCache)(nil)

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = value
	return nil
}

func (c *fakeCache) InvalidateCompany(_ context.Context, companyID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, companyID)
	prefix := "metrics:" + companyID + ":"
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

// ── Helpers de datos ──

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func (s *fakeStore) addMember(id, email string, joined time.Time) {
	s.members = append(s.members, &entity.Member{
		ID: id, CompanyID: testCompanyID, Email: email, Username: strings.Split(email, "@")[0], CreatedAt: joined,
	})
}

func (s *fakeStore) addMembership(memberID, planID, status, start, end string) *entity.Membership {
	m := &entity.Membership{
		ID:        memberID + "-" + planID + "-" + start,
		CompanyID: testCompanyID,
		MemberID:  memberID,
		ProductID: "product-1",
		PlanID:    planID,
		Status:    status,
		StartDate: day(start),
	}
	if end != "" {
		e := day(end)
		m.EndDate = &e
	}
	s.memberships = append(s.memberships, m)
	return m
}

func (s *fakeStore) addPayment(memberID, status, amount, date string) {
	s.payments = append(s.payments, &entity.Payment{
		ID:          memberID + "-" + date + "-" + status,
		CompanyID:   testCompanyID,
		MemberID:    memberID,
		Amount:      decimal.RequireFromString(amount),
		Currency:    "usd",
		Status:      status,
		PaymentDate: day(date),
	})
}

// seedFitness empresa con 3 miembros activos a 49/mes y uno que canceló el 20 de mayo.
func seedFitness() *fakeStore {
	s := newFakeStore()
	s.products = []*entity.Product{{ID: "product-1", CompanyID: testCompanyID, Name: "Elite Fitness Club", IsActive: true}}
	s.plans = []*entity.Plan{{ID: "p1", ProductID: "product-1", Price: decimal.NewFromInt(49), BillingPeriod: "monthly"}}

	for _, id := range []string{"m1", "m2", "m3", "m4"} {
		s.addMember(id, id+"@example.com", day("2024-01-10"))
	}
	s.addMembership("m1", "p1", entity.MembershipActive, "2024-01-10", "")
	s.addMembership("m2", "p1", entity.MembershipActive, "2024-01-10", "")
	s.addMembership("m3", "p1", entity.MembershipActive, "2024-03-01", "")
	s.addMembership("m4", "p1", entity.MembershipCancelled, "2024-01-10", "2024-05-20")

	s.addPayment("m1", entity.PaymentSucceeded, "49", "2024-06-10")
	s.addPayment("m2", entity.PaymentSucceeded, "49", "2024-06-10")
	s.addPayment("m3", entity.PaymentSucceeded, "49", "2024-06-01")
	s.addPayment("m4", entity.PaymentFailed, "49", "2024-05-10")
	s.addPayment("m4", entity.PaymentSucceeded, "49", "2024-04-10")
	return s
}

func newMetricsUC(s *fakeStore, cache ports.MetricsCache) *analytics.MetricsUseCase {
	return analytics.NewMetricsUseCase(membershipRepo{s}, paymentRepo{s}, productRepo{s}, cache, testConfig(), zerolog.Nop())
}
