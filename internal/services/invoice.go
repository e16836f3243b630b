package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/diewo77/invoicing-app/internal/email"
	"github.com/diewo77/invoicing-app/internal/models"
)

// Renderer produces the PDF artifact for a fully hydrated invoice. It must
// not mutate state.
type Renderer interface {
	Render(inv *models.Invoice) ([]byte, error)
}

// PlaceholderRecipient is used when the client record carries no email.
const PlaceholderRecipient = "billing@example.com"

// InvoiceService owns persisted invoices: creation (validation, pricing,
// numbering, one transaction), hydration, listing, status transitions,
// deletion, and dispatch.
type InvoiceService struct {
	db        *gorm.DB
	catalog   *CatalogService
	numbering *Numbering
	renderer  Renderer
	sender    email.Sender
}

func NewInvoiceService(db *gorm.DB, catalog *CatalogService, numbering *Numbering, renderer Renderer, sender email.Sender) *InvoiceService {
	return &InvoiceService{db: db, catalog: catalog, numbering: numbering, renderer: renderer, sender: sender}
}

// CreateItem is one (product, quantity) request line.
type CreateItem struct {
	ProductID uint
	Quantity  int
}

type CreateInvoiceInput struct {
	ClientID  uint
	IssueDate time.Time
	DueDate   time.Time
	Items     []CreateItem
	Tax       decimal.Decimal
}

// Create validates, prices, numbers, and persists an invoice with its items
// in a single transaction. Fail-fast: every check runs before the first
// write, so a rejected request leaves no trace.
func (s *InvoiceService) Create(in CreateInvoiceInput) (*models.Invoice, error) {
	if len(in.Items) == 0 {
		return nil, &ValidationError{Field: "items", Reason: "at_least_one_item_required"}
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, &ValidationError{Field: "items", Reason: "quantity_must_be_positive"}
		}
	}
	if in.DueDate.Before(in.IssueDate) {
		return nil, &ValidationError{Field: "due_date", Reason: "must_not_precede_issue_date"}
	}
	if in.Tax.IsNegative() {
		return nil, &ValidationError{Field: "tax_amount", Reason: "must_not_be_negative"}
	}

	client, err := s.catalog.GetClient(in.ClientID)
	if err != nil {
		return nil, err
	}
	items, subtotal, err := s.price(in.Items)
	if err != nil {
		return nil, err
	}

	inv := models.Invoice{
		InvoiceNo:       s.numbering.Next(),
		IssueDate:       in.IssueDate,
		DueDate:         in.DueDate,
		ClientID:        client.ID,
		AddressSnapshot: client.Address,
		Tax:             in.Tax,
		Total:           subtotal.Add(in.Tax),
		Status:          models.StatusDraft,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].InvoiceID = inv.ID
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return s.Get(inv.ID)
}

// price resolves each requested product in caller order and snapshots its
// unit price into a line item. The first missing product aborts the whole
// computation.
func (s *InvoiceService) price(reqs []CreateItem) ([]models.InvoiceItem, decimal.Decimal, error) {
	items := make([]models.InvoiceItem, 0, len(reqs))
	subtotal := decimal.Zero
	for _, r := range reqs {
		p, err := s.catalog.GetProduct(r.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		lineTotal := p.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity)))
		items = append(items, models.InvoiceItem{
			ProductID: p.ID,
			Quantity:  r.Quantity,
			UnitPrice: p.UnitPrice,
			LineTotal: lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}
	return items, subtotal, nil
}

// Get returns a fully hydrated invoice: client plus line items with their
// products, items in insertion order.
func (s *InvoiceService) Get(id uint) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.
		Preload("Client").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("invoice_items.id") }).
		Preload("Items.Product").
		First(&inv, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invoice %d: %w", id, ErrInvoiceNotFound)
		}
		return nil, err
	}
	return &inv, nil
}

// Delete removes the invoice and all of its line items in one transaction.
func (s *InvoiceService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var inv models.Invoice
		if err := tx.First(&inv, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("invoice %d: %w", id, ErrInvoiceNotFound)
			}
			return err
		}
		if err := tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&inv).Error
	})
}

// UpdateStatus applies an explicit status transition. Values outside the
// enum are rejected before any persistence.
func (s *InvoiceService) UpdateStatus(id uint, raw string) (*models.Invoice, error) {
	status, ok := models.ParseStatus(raw)
	if !ok {
		return nil, &ValidationError{Field: "status", Reason: "must_be_one_of_DRAFT_SENT_PAID_OVERDUE"}
	}
	inv, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !inv.Status.CanTransitionTo(status) {
		return nil, &ValidationError{Field: "status", Reason: "transition_not_allowed"}
	}
	if err := s.db.Model(&models.Invoice{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return nil, err
	}
	inv.Status = status
	return inv, nil
}

// RenderPDF returns the PDF artifact for an invoice along with the hydrated
// invoice it was rendered from.
func (s *InvoiceService) RenderPDF(id uint) ([]byte, *models.Invoice, error) {
	inv, err := s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.renderer.Render(inv)
	if err != nil {
		return nil, nil, fmt.Errorf("render invoice %s: %w", inv.InvoiceNo, err)
	}
	return data, inv, nil
}

// Send renders the invoice, hands the artifact to the email sender, and then
// sets the status to SENT. The overwrite is unconditional, even from PAID.
func (s *InvoiceService) Send(id uint) (*models.Invoice, error) {
	data, inv, err := s.RenderPDF(id)
	if err != nil {
		return nil, err
	}
	to := inv.Client.Email
	if to == "" {
		to = PlaceholderRecipient
	}
	subject := "Invoice " + inv.InvoiceNo
	body := fmt.Sprintf("Please find attached invoice %s for %s, total %s, due %s.",
		inv.InvoiceNo, inv.Client.Name, inv.Total.StringFixed(2), inv.DueDate.Format(time.DateOnly))
	if err := s.sender.Send(to, subject, body, data); err != nil {
		return nil, fmt.Errorf("send invoice %s: %w", inv.InvoiceNo, err)
	}
	if err := s.db.Model(&models.Invoice{}).Where("id = ?", id).Update("status", models.StatusSent).Error; err != nil {
		return nil, err
	}
	inv.Status = models.StatusSent
	return inv, nil
}
