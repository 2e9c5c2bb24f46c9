package documents

import (
	"time"

	"github.com/xuri/excelize/v2"
)

// InvoiceSummary is one spreadsheet row in the all-invoices export.
type InvoiceSummary struct {
	Date     time.Time
	Customer string
	Contact  string
	Email    string
	Comments string
	Total    float64
}

// RenderInvoiceSheet writes one row per invoice into an xlsx workbook and
// returns its bytes.
func RenderInvoiceSheet(rows []InvoiceSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []any{"Date", "Customer", "Contact", "Email", "Comments", "Total"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []any{
			row.Date.Format("2006-01-02"),
			row.Customer,
			row.Contact,
			row.Email,
			row.Comments,
			row.Total,
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
