// Package documents renders row-shaped invoice data into downloadable
// bytes. It knows nothing about persistence or pricing rules; callers hand
// it already-computed values.
package documents

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// InvoiceRow is one printable line: product name, frozen selling price,
// quantity and the derived line total.
type InvoiceRow struct {
	Product  string
	Price    float64
	Quantity int
	Total    float64
}

// InvoiceDocument is everything the PDF needs about a single invoice.
type InvoiceDocument struct {
	ID       uint
	Date     time.Time
	Customer string
	Contact  string
	Email    string
	Comments string
	Total    float64
	Rows     []InvoiceRow
}

// RenderInvoicePDF produces the downloadable PDF for one invoice: a header
// block, a Product/Price/Quantity/Total table and the grand total, with
// comments appended when present.
func RenderInvoicePDF(doc InvoiceDocument) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 20)
		pdf.CellFormat(0, 10, "Invoice", "", 0, "C", false, 0, "")
		pdf.Ln(20)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 10, fmt.Sprintf("Invoice ID: %d", doc.ID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 10, "Date: "+doc.Date.Format("2006-01-02"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 10, "Customer: "+doc.Customer, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 10, "Contact: "+doc.Contact, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 10, "Email: "+doc.Email, "", 1, "L", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(60, 10, "Product", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 10, "Price", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 10, "Quantity", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 10, "Total", "1", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	for _, row := range doc.Rows {
		pdf.CellFormat(60, 10, row.Product, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 10, fmt.Sprintf("%.2f", row.Price), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 10, fmt.Sprintf("%d", row.Quantity), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 10, fmt.Sprintf("%.2f", row.Total), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("Total: %.2f", doc.Total), "", 1, "R", false, 0, "")

	if doc.Comments != "" {
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 10, "Comments:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.MultiCell(0, 10, doc.Comments, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
