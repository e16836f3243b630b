package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice owns an ordered collection of line items. Tax and Total are fixed
// at creation from the prices in effect at that moment; AddressSnapshot is
// the client's address copied at the same time.
type Invoice struct {
	ID              uint            `gorm:"primaryKey"`
	InvoiceNo       string          `gorm:"not null;uniqueIndex"`
	IssueDate       time.Time       `gorm:"not null;index"`
	DueDate         time.Time       `gorm:"not null"`
	ClientID        uint            `gorm:"not null;index"`
	Client          Client          `gorm:"foreignKey:ClientID"`
	AddressSnapshot string          `gorm:"not null"`
	Tax             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status          Status          `gorm:"type:varchar(16);not null;default:'DRAFT'"`
	Items           []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// InvoiceItem stores the unit price and line total captured when the invoice
// was created, not a live view into the catalog. Items are inserted and read
// back in caller order.
type InvoiceItem struct {
	ID        uint            `gorm:"primaryKey"`
	InvoiceID uint            `gorm:"not null;index"`
	ProductID uint            `gorm:"not null"`
	Product   Product         `gorm:"foreignKey:ProductID"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}
