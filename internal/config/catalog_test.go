package config

import (
	"testing"

	"gym_club_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogPlans(t *testing.T) {
	c := DefaultCatalog()

	plans := c.Plans()
	require.Len(t, plans, 3)

	basic, ok := c.PlanByID(1)
	require.True(t, ok)
	assert.Equal(t, "Basic", basic.Name)
	assert.Equal(t, 150000.0, basic.Price)
	assert.Equal(t, 8, basic.ClassLimit)

	vip, ok := c.PlanByName("VIP")
	require.True(t, ok)
	assert.True(t, vip.IsUnlimited())

	_, ok = c.PlanByID(99)
	assert.False(t, ok)

	// callers get a copy
	plans[0].Name = "Changed"
	again, _ := c.PlanByID(1)
	assert.Equal(t, "Basic", again.Name)
}

func TestCatalogFeesAndPrefixes(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, 4000.0, c.AdminFee(models.PaymentMethodBankTransfer, "bca"))
	assert.Equal(t, 0.0, c.AdminFee(models.PaymentMethodEWallet, "gopay"))
	assert.Equal(t, 0.0, c.AdminFee(models.PaymentMethodQRIS, ""))
	assert.Equal(t, 0.0, c.AdminFee("cash", ""))

	assert.Equal(t, "1234", c.VAPrefix("bca"))
	assert.Equal(t, "8900", c.VAPrefix("mandiri"))
	assert.Equal(t, "9999", c.VAPrefix("unknown"))
}

func TestLoadCatalogFile(t *testing.T) {
	fromFile, err := LoadCatalog("../../configs/catalog.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog().Plans(), fromFile.Plans())
	assert.Len(t, fromFile.PaymentMethods(), 4)

	fromDefault, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Len(t, fromDefault.Plans(), 3)

	_, err = LoadCatalog("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestParseCatalogValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no plans", "plans: []"},
		{"zero duration", "plans:\n  - {id: 1, name: Basic, price: 10, duration_days: 0, class_limit: 1}"},
		{"bad class limit", "plans:\n  - {id: 1, name: Basic, price: 10, duration_days: 30, class_limit: -2}"},
		{"duplicate id", "plans:\n  - {id: 1, name: Basic, price: 10, duration_days: 30}\n  - {id: 1, name: Gold, price: 10, duration_days: 30}"},
		{"duplicate name", "plans:\n  - {id: 1, name: Basic, price: 10, duration_days: 30}\n  - {id: 2, name: Basic, price: 10, duration_days: 30}"},
		{"method without id", "plans:\n  - {id: 1, name: Basic, price: 10, duration_days: 30}\npayment_methods:\n  - {name: Cash}"},
		{"not yaml", "plans: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestParseCatalogDefaultsPrefix(t *testing.T) {
	c, err := ParseCatalog([]byte("plans:\n  - {id: 5, name: Student, price: 90000, duration_days: 14, class_limit: 4}"))
	require.NoError(t, err)

	plan, ok := c.PlanByID(5)
	require.True(t, ok)
	assert.Equal(t, 14, plan.DurationDays)
	assert.Equal(t, "9999", c.VAPrefix("bca"))
}
