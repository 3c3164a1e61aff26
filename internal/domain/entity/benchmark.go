package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BenchmarkData agregado entre empresas por (Niche, RevenueRange).
// ContributingCompanies evita que una empresa aporte dos veces al mismo bucket.
type BenchmarkData struct {
	ID                    string
	Niche                 string
	RevenueRange          string
	AvgMRR                decimal.Decimal
	AvgChurnRate          decimal.Decimal
	AvgLTV                decimal.Decimal
	AvgARPU               decimal.Decimal
	SampleSize            int
	ContributingCompanies []string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// HasContributor informa si la empresa ya aportó a este bucket.
func (b *BenchmarkData) HasContributor(companyID string) bool {
	for _, id := range b.ContributingCompanies {
		if id == companyID {
			return true
		}
	}
	return false
}
