package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a catalog entry. CostPrice/SellingPrice are the *current*
// prices; invoice lines copy them at sale time and never read them again.
// Deleted products stay in the table so old invoice lines keep resolving.
type Product struct {
	Id           string    `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	CostPrice    float64   `json:"cost_price" gorm:"type:numeric(12,2)"`
	SellingPrice float64   `json:"selling_price" gorm:"type:numeric(12,2)"`
	Unit         string    `json:"unit"`
	Deleted      bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (product *Product) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	product.Id = uuid.NewString()
	return
}
