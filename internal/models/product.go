package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry, read-only from the invoicing core's point of
// view. The unit price in effect at creation time is copied onto each line
// item, so later price changes never alter existing invoices.
type Product struct {
	ID        uint            `gorm:"primaryKey"`
	Name      string          `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
