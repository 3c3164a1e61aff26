package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func demoOptions() options {
	return options{CompanyExternalID: "biz_demo", Members: 30, Seed: 7, HistoryDays: 120, ChurnRatio: 0.3, FailedRatio: 0.1}
}

func TestBuildDataset_Estructura(t *testing.T) {
	ds := buildDataset(demoOptions(), seedNow)

	assert.Equal(t, "Biz Demo", ds.Company.Name)
	assert.Len(t, ds.Members, 30)
	assert.Len(t, ds.Memberships, 30)
	assert.NotEmpty(t, ds.Payments)

	for _, ms := range ds.Memberships {
		assert.False(t, ms.Start.After(seedNow), "alta en el futuro")
		if ms.End != nil {
			assert.Equal(t, "cancelled", ms.Status)
			assert.False(t, ms.End.Before(ms.Start), "fin antes del inicio")
		} else {
			assert.Equal(t, "active", ms.Status)
		}
	}
	for _, p := range ds.Payments {
		assert.False(t, p.Date.After(seedNow), "pago en el futuro")
		assert.Contains(t, []string{"succeeded", "failed"}, p.Status)
	}
}

func TestBuildDataset_MismaSemillaMismaForma(t *testing.T) {
	a := buildDataset(demoOptions(), seedNow)
	b := buildDataset(demoOptions(), seedNow)

	require.Len(t, b.Payments, len(a.Payments))
	assert.Equal(t, a.activeCount(), b.activeCount())
	assert.True(t, a.revenue().Equal(b.revenue()))
	for i := range a.Memberships {
		assert.Equal(t, a.Memberships[i].Start, b.Memberships[i].Start)
		assert.Equal(t, a.Memberships[i].Status, b.Memberships[i].Status)
	}
}

func TestWriteSQL_Transaccional(t *testing.T) {
	ds := buildDataset(demoOptions(), seedNow)

	var buf bytes.Buffer
	require.NoError(t, writeSQL(&buf, ds))
	sql := buf.String()

	assert.True(t, strings.Contains(sql, "BEGIN;"))
	assert.True(t, strings.HasSuffix(sql, "COMMIT;\n"))
	assert.Equal(t, len(ds.Payments), strings.Count(sql, "INSERT INTO payments"))
	assert.Equal(t, len(ds.Members), strings.Count(sql, "INSERT INTO members"))
	assert.Equal(t, 1, strings.Count(sql, "INSERT INTO companies"))
	assert.Contains(t, sql, "'"+ds.Company.ID+"'")
}

func TestEscapeSQL(t *testing.T) {
	assert.Equal(t, "O''Brien", escapeSQL("O'Brien"))
}
