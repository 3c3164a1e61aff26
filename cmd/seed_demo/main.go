// seed_demo genera un script SQL con datos de demostración para el motor de métricas:
// una empresa, productos con sus planes, miembros, membresías y pagos (incluye fallidos).
//
// Uso: go run ./cmd/seed_demo [-members 50] [-seed 1] [-company biz_demo] [-out demo.sql]
// Sin -out escribe en stdout: go run ./cmd/seed_demo | psql "$DATABASE_URL"
package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const day = 24 * time.Hour

type options struct {
	CompanyExternalID string
	Members           int
	Seed              uint64
	HistoryDays       int
	ChurnRatio        float64 // fracción de membresías canceladas
	FailedRatio       float64 // fracción de cobros fallidos
}

type seedCompany struct{ ID, ExternalID, Name string }

type seedProduct struct{ ID, ExternalID, Name string }

type seedPlan struct {
	ID, ProductID, ExternalID, Name string
	Price                           decimal.Decimal
	BillingPeriod                   string
	Every                           time.Duration // intervalo entre cobros
}

type seedMember struct {
	ID, ExternalID, Email, Username string
	JoinedAt                        time.Time
}

type seedMembership struct {
	ID, MemberID, ProductID, PlanID, ExternalID, Status string
	Start                                               time.Time
	End                                                 *time.Time
}

type seedPayment struct {
	ID, MemberID, MembershipID, ExternalID, Status string
	Amount                                         decimal.Decimal
	Date                                           time.Time
}

type dataset struct {
	Company     seedCompany
	Products    []seedProduct
	Plans       []seedPlan
	Members     []seedMember
	Memberships []seedMembership
	Payments    []seedPayment
}

func main() {
	var opts options
	var out string
	flag.StringVar(&opts.CompanyExternalID, "company", "biz_demo", "ID externo de la empresa")
	flag.IntVar(&opts.Members, "members", 50, "cantidad de miembros")
	flag.Uint64Var(&opts.Seed, "seed", 1, "semilla del generador (misma semilla, mismos datos)")
	flag.IntVar(&opts.HistoryDays, "days", 180, "días de historia hacia atrás")
	flag.Float64Var(&opts.ChurnRatio, "churn", 0.2, "fracción de membresías canceladas")
	flag.Float64Var(&opts.FailedRatio, "failed", 0.08, "fracción de cobros fallidos")
	flag.StringVar(&out, "out", "", "archivo de salida (vacío = stdout)")
	flag.Parse()

	if opts.Members <= 0 || opts.HistoryDays <= 0 {
		fmt.Fprintln(os.Stderr, "members y days deben ser positivos")
		os.Exit(1)
	}

	ds := buildDataset(opts, time.Now().UTC())

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}
	if err := writeSQL(w, ds); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Generado: %d miembros (%d activos), %d pagos, ingresos $%s\n",
		len(ds.Members), ds.activeCount(), len(ds.Payments), ds.revenue().StringFixed(2))
}

// buildDataset genera los datos de forma determinista a partir de opts.Seed.
func buildDataset(opts options, now time.Time) dataset {
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	title := cases.Title(language.English)

	ds := dataset{Company: seedCompany{
		ID:         uuid.NewString(),
		ExternalID: opts.CompanyExternalID,
		Name:       title.String(strings.ReplaceAll(opts.CompanyExternalID, "_", " ")),
	}}

	pro := seedProduct{ID: uuid.NewString(), ExternalID: "prod_pro", Name: "Pro Membership"}
	ent := seedProduct{ID: uuid.NewString(), ExternalID: "prod_enterprise", Name: "Enterprise Membership"}
	ds.Products = []seedProduct{pro, ent}
	ds.Plans = []seedPlan{
		{ID: uuid.NewString(), ProductID: pro.ID, ExternalID: "plan_pro_monthly", Name: "Pro Plan",
			Price: decimal.NewFromInt(49), BillingPeriod: "monthly", Every: 30 * day},
		{ID: uuid.NewString(), ProductID: ent.ID, ExternalID: "plan_enterprise_monthly", Name: "Enterprise Plan",
			Price: decimal.NewFromInt(149), BillingPeriod: "monthly", Every: 30 * day},
		{ID: uuid.NewString(), ProductID: pro.ID, ExternalID: "plan_pro_yearly", Name: "Pro Anual",
			Price: decimal.NewFromInt(490), BillingPeriod: "yearly", Every: 365 * day},
	}

	for i := 0; i < opts.Members; i++ {
		daysAgo := rng.IntN(opts.HistoryDays)
		joined := now.Add(-time.Duration(daysAgo) * day).Truncate(time.Hour)

		var plan seedPlan
		switch r := rng.Float64(); {
		case r < 0.45:
			plan = ds.Plans[0]
		case r < 0.9:
			plan = ds.Plans[1]
		default:
			plan = ds.Plans[2]
		}

		m := seedMember{
			ID:         uuid.NewString(),
			ExternalID: fmt.Sprintf("user_demo%d", i),
			Email:      fmt.Sprintf("user%d@demo.test", i),
			Username:   fmt.Sprintf("demouser%d", i),
			JoinedAt:   joined,
		}
		ms := seedMembership{
			ID:         uuid.NewString(),
			MemberID:   m.ID,
			ProductID:  plan.ProductID,
			PlanID:     plan.ID,
			ExternalID: fmt.Sprintf("mem_demo%d", i),
			Status:     "active",
			Start:      joined,
		}

		// Cancelada: termina en algún punto entre el alta y hoy.
		last := now
		if rng.Float64() < opts.ChurnRatio && daysAgo > 1 {
			end := joined.Add(time.Duration(1+rng.IntN(daysAgo)) * day)
			ms.Status = "cancelled"
			ms.End = &end
			last = end
		}

		for n, at := 0, joined; !at.After(last); n, at = n+1, at.Add(plan.Every) {
			status := "succeeded"
			if rng.Float64() < opts.FailedRatio {
				status = "failed"
			}
			ds.Payments = append(ds.Payments, seedPayment{
				ID:           uuid.NewString(),
				MemberID:     m.ID,
				MembershipID: ms.ID,
				ExternalID:   fmt.Sprintf("pay_demo%d_%d", i, n),
				Status:       status,
				Amount:       plan.Price,
				Date:         at,
			})
		}

		ds.Members = append(ds.Members, m)
		ds.Memberships = append(ds.Memberships, ms)
	}
	return ds
}

func (ds dataset) activeCount() int {
	n := 0
	for _, ms := range ds.Memberships {
		if ms.Status == "active" {
			n++
		}
	}
	return n
}

func (ds dataset) revenue() decimal.Decimal {
	total := decimal.Zero
	for _, p := range ds.Payments {
		if p.Status == "succeeded" {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// writeSQL escribe el dataset como un script transaccional.
func writeSQL(w io.Writer, ds dataset) error {
	var b strings.Builder

	b.WriteString("-- Datos de demostración del motor de métricas\n")
	b.WriteString("-- Generado por cmd/seed_demo\n\n")
	b.WriteString("BEGIN;\n\n")

	b.WriteString("-- 1. Empresa\n")
	// Falla (y revierte todo) si ya existe una empresa con ese external_id.
	fmt.Fprintf(&b, "INSERT INTO companies (id, external_id, name) VALUES ('%s', '%s', '%s');\n\n",
		ds.Company.ID, escapeSQL(ds.Company.ExternalID), escapeSQL(ds.Company.Name))

	companyRef := "'" + ds.Company.ID + "'"

	b.WriteString("-- 2. Productos y planes\n")
	for _, p := range ds.Products {
		fmt.Fprintf(&b, "INSERT INTO products (id, company_id, external_id, name) VALUES ('%s', %s, '%s', '%s');\n",
			p.ID, companyRef, p.ExternalID, escapeSQL(p.Name))
	}
	for _, p := range ds.Plans {
		fmt.Fprintf(&b, "INSERT INTO plans (id, product_id, external_id, name, price, billing_period) VALUES ('%s', '%s', '%s', '%s', %s, '%s');\n",
			p.ID, p.ProductID, p.ExternalID, escapeSQL(p.Name), p.Price.StringFixed(2), p.BillingPeriod)
	}

	b.WriteString("\n-- 3. Miembros\n")
	for _, m := range ds.Members {
		fmt.Fprintf(&b, "INSERT INTO members (id, company_id, external_user_id, email, username, created_at) VALUES ('%s', %s, '%s', '%s', '%s', %s);\n",
			m.ID, companyRef, m.ExternalID, escapeSQL(m.Email), escapeSQL(m.Username), sqlTime(m.JoinedAt))
	}

	b.WriteString("\n-- 4. Membresías\n")
	for _, ms := range ds.Memberships {
		end := "NULL"
		if ms.End != nil {
			end = sqlTime(*ms.End)
		}
		fmt.Fprintf(&b, "INSERT INTO memberships (id, company_id, member_id, product_id, plan_id, external_id, status, start_date, end_date) VALUES ('%s', %s, '%s', '%s', '%s', '%s', '%s', %s, %s);\n",
			ms.ID, companyRef, ms.MemberID, ms.ProductID, ms.PlanID, ms.ExternalID, ms.Status, sqlTime(ms.Start), end)
	}

	b.WriteString("\n-- 5. Pagos\n")
	for _, p := range ds.Payments {
		fmt.Fprintf(&b, "INSERT INTO payments (id, company_id, member_id, membership_id, external_id, amount, status, payment_date) VALUES ('%s', %s, '%s', '%s', '%s', %s, '%s', %s);\n",
			p.ID, companyRef, p.MemberID, p.MembershipID, p.ExternalID, p.Amount.StringFixed(2), p.Status, sqlTime(p.Date))
	}

	b.WriteString("\nCOMMIT;\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func sqlTime(t time.Time) string {
	return "'" + t.UTC().Format(time.RFC3339) + "'"
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
