// Package billing holds the derived-value arithmetic for invoices: per-line
// totals and profit from the frozen price snapshots, per-invoice sums, and
// the monthly profit aggregation used by reporting. Everything here is pure;
// persistence happens in the controllers.
package billing

import (
	"sort"
	"time"

	"invoicing-backend/models"
)

// LineTotal is the sale amount of one line: selling snapshot times quantity.
// A zero selling snapshot yields 0 regardless of quantity; missing price
// data degrades to zero instead of failing.
func LineTotal(line models.InvoiceLine) float64 {
	if line.SellingPriceSnapshot == 0 {
		return 0
	}
	return line.SellingPriceSnapshot * float64(line.Quantity)
}

// LineProfit is (selling - cost) snapshot times quantity, under the same
// zero-price guard as LineTotal. Profit may be negative when the product
// sold below cost; that is preserved, not clamped.
func LineProfit(line models.InvoiceLine) float64 {
	if line.SellingPriceSnapshot == 0 {
		return 0
	}
	return (line.SellingPriceSnapshot - line.CostPriceSnapshot) * float64(line.Quantity)
}

// InvoiceTotal sums LineTotal over the lines in their given order.
func InvoiceTotal(lines []models.InvoiceLine) float64 {
	var total float64
	for _, line := range lines {
		total += LineTotal(line)
	}
	return total
}

// InvoiceProfit sums LineProfit over the lines.
func InvoiceProfit(lines []models.InvoiceLine) float64 {
	var profit float64
	for _, line := range lines {
		profit += LineProfit(line)
	}
	return profit
}

// MonthlyProfitSeries groups lines by the calendar month of their owning
// invoice's date and sums LineProfit per month. Lines whose invoice or
// product reference no longer resolves are skipped. The result is two
// parallel slices, labels ("January 2006") and profit values, sorted
// ascending by month. Empty input yields two empty slices.
func MonthlyProfitSeries(lines []models.InvoiceLine) ([]string, []float64) {
	byMonth := make(map[time.Time]float64)
	for _, line := range lines {
		if line.Invoice == nil || line.ProductID == nil {
			continue
		}
		month := truncateToMonth(line.Invoice.Date)
		byMonth[month] += LineProfit(line)
	}

	months := make([]time.Time, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	labels := make([]string, 0, len(months))
	profits := make([]float64, 0, len(months))
	for _, month := range months {
		labels = append(labels, month.Format("January 2006"))
		profits = append(profits, byMonth[month])
	}
	return labels, profits
}

func truncateToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
