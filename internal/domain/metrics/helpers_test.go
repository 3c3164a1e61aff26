package metrics_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Revenue-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(t time.Time) *time.Time { return &t }

var seq int

func nextID(prefix string) string {
	seq++
	return fmt.Sprintf("%s-%d", prefix, seq)
}

// membership construye una membresía; end vacío significa abierta.
func membership(memberID, planID, status, start, end string) *entity.Membership {
	m := &entity.Membership{
		ID:        nextID("ms"),
		CompanyID: "company-1",
		MemberID:  memberID,
		ProductID: "product-1",
		PlanID:    planID,
		Status:    status,
		StartDate: day(start),
	}
	if end != "" {
		m.EndDate = ptr(day(end))
	}
	return m
}

func payment(memberID, status, amount, date string) *entity.Payment {
	return &entity.Payment{
		ID:          nextID("pay"),
		CompanyID:   "company-1",
		MemberID:    memberID,
		Amount:      decimal.RequireFromString(amount),
		Currency:    "usd",
		Status:      status,
		PaymentDate: day(date),
	}
}

func plan(id, price, period string) *entity.Plan {
	return &entity.Plan{
		ID:            id,
		ProductID:     "product-1",
		Name:          id,
		Price:         decimal.RequireFromString(price),
		Currency:      "usd",
		BillingPeriod: period,
		IsActive:      true,
	}
}

// assertDecimal compara por valor (decimal.Equal), independiente de la escala.
func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "esperado %s, obtenido %s", want, got.String())
}
