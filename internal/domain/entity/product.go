package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product oferta vendible de la empresa. IsApp marca productos que son apps de la plataforma
// (no cuentan para clasificar el nicho).
type Product struct {
	ID         string
	CompanyID  string
	ExternalID string
	Name       string
	IsActive   bool
	IsApp      bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Periodos de facturación reconocidos (también se aceptan "month", "30", etc.).
const (
	BillingMonthly = "monthly"
	BillingYearly  = "yearly"
	BillingWeekly  = "weekly"
	BillingDaily   = "daily"
)

// Plan política de precio de un producto.
// BillingPeriod puede ser una palabra (monthly, year, ...) o una cantidad de días ("30", "90").
type Plan struct {
	ID            string
	ProductID     string
	ExternalID    string
	Name          string
	Price         decimal.Decimal
	Currency      string
	BillingPeriod string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
