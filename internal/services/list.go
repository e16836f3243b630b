package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/invoicing-app/internal/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListFilter narrows an invoice listing. Zero-valued fields are ignored; set
// fields apply conjunctively.
type ListFilter struct {
	ClientID      uint
	Status        models.Status
	IssueDateFrom *time.Time // inclusive lower bound
	Page          int
	PageSize      int
}

// InvoicePage is one page of fully hydrated invoices plus the pagination
// arithmetic computed over the whole matching set.
type InvoicePage struct {
	Items      []models.Invoice
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// List counts the matching invoices independent of pagination, then slices
// one page ordered by id ascending (insertion order, deterministic ties).
// Pages past the end yield an empty item list, not an error.
func (s *InvoiceService) List(f ListFilter) (*InvoicePage, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	size := f.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	// filters are applied twice: once for the count, once for the page slice
	where := func(db *gorm.DB) *gorm.DB {
		if f.ClientID != 0 {
			db = db.Where("client_id = ?", f.ClientID)
		}
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.IssueDateFrom != nil {
			db = db.Where("issue_date >= ?", *f.IssueDateFrom)
		}
		return db
	}

	var total int64
	if err := where(s.db.Model(&models.Invoice{})).Count(&total).Error; err != nil {
		return nil, err
	}
	invs := []models.Invoice{}
	err := where(s.db).
		Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("invoice_items.id") }).
		Preload("Items.Product").
		Order("invoices.id").
		Limit(size).
		Offset((page - 1) * size).
		Find(&invs).Error
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return &InvoicePage{
		Items:      invs,
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
	}, nil
}
