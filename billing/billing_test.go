package billing

import (
	"testing"
	"time"

	"invoicing-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(selling, cost float64, qty int) models.InvoiceLine {
	return models.InvoiceLine{
		Quantity:             qty,
		CostPriceSnapshot:    cost,
		SellingPriceSnapshot: selling,
	}
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name string
		line models.InvoiceLine
		want float64
	}{
		{"single unit", line(20, 10, 1), 20},
		{"multiple units", line(20, 10, 3), 60},
		{"zero price yields zero regardless of quantity", line(0, 10, 5), 0},
		{"zero quantity", line(20, 10, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LineTotal(tt.line))
		})
	}
}

func TestLineProfit(t *testing.T) {
	tests := []struct {
		name string
		line models.InvoiceLine
		want float64
	}{
		{"single unit", line(20, 10, 1), 10},
		{"multiple units", line(20, 10, 4), 40},
		{"negative profit is preserved", line(10, 15, 2), -10},
		{"zero price guard ignores cost", line(0, 10, 5), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LineProfit(tt.line))
		})
	}
}

func TestInvoiceSums(t *testing.T) {
	t.Run("empty line set", func(t *testing.T) {
		assert.Zero(t, InvoiceTotal(nil))
		assert.Zero(t, InvoiceProfit(nil))
	})

	t.Run("multiple lines", func(t *testing.T) {
		lines := []models.InvoiceLine{
			line(20, 10, 1),
			line(5, 2, 4),
			line(0, 99, 7), // contributes nothing
		}
		assert.Equal(t, 40.0, InvoiceTotal(lines))
		assert.Equal(t, 22.0, InvoiceProfit(lines))
	})
}

func attach(l models.InvoiceLine, inv *models.Invoice, productID string) models.InvoiceLine {
	l.Invoice = inv
	if productID != "" {
		l.ProductID = &productID
	}
	return l
}

func TestMonthlyProfitSeries(t *testing.T) {
	jan := &models.Invoice{ID: 1, Date: time.Date(2024, time.January, 14, 0, 0, 0, 0, time.UTC)}
	feb := &models.Invoice{ID: 2, Date: time.Date(2024, time.February, 3, 0, 0, 0, 0, time.UTC)}

	lines := []models.InvoiceLine{
		attach(line(20, 10, 1), feb, "p1"),
		attach(line(30, 10, 2), jan, "p1"),
		attach(line(20, 15, 1), jan, "p2"),
	}

	months, profits := MonthlyProfitSeries(lines)
	require.Len(t, months, 2)
	require.Len(t, profits, 2)
	assert.Equal(t, []string{"January 2024", "February 2024"}, months)
	assert.Equal(t, []float64{45, 10}, profits)
}

func TestMonthlyProfitSeriesSkipsDanglingReferences(t *testing.T) {
	jan := &models.Invoice{ID: 1, Date: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)}

	lines := []models.InvoiceLine{
		attach(line(20, 10, 1), jan, "p1"),
		attach(line(50, 10, 1), nil, "p1"), // invoice gone
		attach(line(50, 10, 1), jan, ""),   // product gone
	}

	months, profits := MonthlyProfitSeries(lines)
	assert.Equal(t, []string{"January 2024"}, months)
	assert.Equal(t, []float64{10}, profits)
}

func TestMonthlyProfitSeriesEmptyInput(t *testing.T) {
	months, profits := MonthlyProfitSeries(nil)
	assert.Empty(t, months)
	assert.Empty(t, profits)
}

func TestMonthlyProfitSeriesDeterministic(t *testing.T) {
	invs := []*models.Invoice{
		{ID: 1, Date: time.Date(2023, time.November, 2, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Date: time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)},
		{ID: 3, Date: time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)},
	}
	var lines []models.InvoiceLine
	for i, inv := range invs {
		lines = append(lines, attach(line(float64(10*(i+1)), 5, 2), inv, "p"))
	}

	wantMonths, wantProfits := MonthlyProfitSeries(lines)
	assert.Equal(t, []string{"November 2023", "January 2024", "March 2024"}, wantMonths)
	for i := 0; i < 10; i++ {
		months, profits := MonthlyProfitSeries(lines)
		require.Equal(t, wantMonths, months)
		require.Equal(t, wantProfits, profits)
	}
}
