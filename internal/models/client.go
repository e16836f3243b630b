package models

import "time"

// Client is a billed party. Invoices reference it but never own it; the
// address is snapshotted onto each invoice at creation so later edits to the
// client do not rewrite history.
type Client struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"not null;index"`
	Address      string `gorm:"not null"`
	CompanyRegNo string `gorm:"not null"`
	// Email is where sent invoices are delivered. Optional; dispatch falls
	// back to a placeholder recipient when empty.
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
