package models

import (
	"time"
)

// Warranty is one user-submitted product warranty entry with its two
// associated image URLs.
//
// WarrantyID is the caller-visible identifier; the surrogate primary key
// never leaves the store. OwnerID references UserMapping.ID, so records
// are always scoped to a resolved internal identity. Repeated identical
// submissions intentionally create distinct records: two warranties for
// the same product bought twice are both valid.
type Warranty struct {
	InternalID      uint         `gorm:"primaryKey;autoIncrement" json:"-"`
	WarrantyID      string       `gorm:"uniqueIndex;size:36;not null" json:"warranty_id"`
	OwnerID         string       `gorm:"index;size:36;not null" json:"owner_id"`
	Owner           *UserMapping `gorm:"foreignKey:OwnerID;references:ID" json:"-"`
	ProductName     string       `gorm:"size:255;not null" json:"product_name"`
	CompanyName     string       `gorm:"size:255;not null" json:"company_name"`
	PurchaseDate    Date         `gorm:"not null" json:"purchase_date"`
	ExpiryDate      Date         `gorm:"not null" json:"expiry_date"`
	AdditionalInfo  string       `gorm:"default:''" json:"additional_info"`
	ReceiptImageURL string       `gorm:"not null" json:"receipt_image_url"`
	ProductImageURL string       `gorm:"not null" json:"product_image_url"`
	CreatedAt       time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for Warranty.
func (Warranty) TableName() string {
	return "warranties"
}
