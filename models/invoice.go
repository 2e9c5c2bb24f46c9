package models

import (
	"time"

	"gorm.io/datatypes"
)

// Invoice is the live state of a sales document.
//
// Total is a cached derived value: it is recomputed from the freshly
// persisted lines and written back inside the same transaction as every
// line-set mutation. The invoice controllers are the only code that mutates
// lines, so the cache cannot drift.
type Invoice struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Date     time.Time `json:"date"` // set once at creation, never updated
	Customer string    `json:"customer" gorm:"not null"`
	Contact  string    `json:"contact"`
	Email    string    `json:"email"`
	Comments string    `json:"comments"`
	Total    float64   `json:"total" gorm:"type:numeric(12,2)"`

	Lines []InvoiceLine `json:"lines" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
}

// InvoiceLine freezes the product's prices at the moment of sale. The two
// snapshot columns are copied from the product when the line is built and
// are immutable afterwards; later catalog edits must not change historical
// totals or profit. Both references are nullable so aggregation stays safe
// if a product or invoice row goes away.
type InvoiceLine struct {
	ID        uint     `json:"id" gorm:"primaryKey"`
	InvoiceID *uint    `json:"-" gorm:"index"`
	Invoice   *Invoice `json:"-" gorm:"foreignKey:InvoiceID"`
	ProductID *string  `json:"product_id" gorm:"index"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;references:Id"`

	Quantity             int     `json:"quantity"`
	CostPriceSnapshot    float64 `json:"cost_price" gorm:"type:numeric(12,2)"`
	SellingPriceSnapshot float64 `json:"selling_price" gorm:"type:numeric(12,2)"`
}

// InvoiceRevision is an immutable snapshot of an invoice's pre-edit state,
// appended whenever an edit replaces the line set.
type InvoiceRevision struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	InvoiceID  uint           `json:"invoice_id" gorm:"index:idx_invoice_revisions_invoice_rev,unique,priority:1"`
	RevisionNo int            `json:"revision_no" gorm:"not null;index:idx_invoice_revisions_invoice_rev,unique,priority:2"`
	Snapshot   datatypes.JSON `json:"snapshot"`
	CreatedAt  time.Time      `json:"created_at"`
}
