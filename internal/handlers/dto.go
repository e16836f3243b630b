package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/diewo77/invoicing-app/internal/models"
)

// Wire types. Dates travel as YYYY-MM-DD strings; monetary amounts are
// serialized by shopspring/decimal.

type createItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type createInvoiceRequest struct {
	ClientID  uint                `json:"client_id"`
	IssueDate string              `json:"issue_date"`
	DueDate   string              `json:"due_date"`
	Items     []createItemRequest `json:"items"`
	TaxAmount decimal.Decimal     `json:"tax_amount"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type clientResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	CompanyRegNo string `json:"company_reg_no"`
	Email        string `json:"email,omitempty"`
}

type productResponse struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type invoiceItemResponse struct {
	ID        uint            `json:"id"`
	Product   productResponse `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type invoiceResponse struct {
	ID              uint                  `json:"id"`
	InvoiceNo       string                `json:"invoice_no"`
	IssueDate       string                `json:"issue_date"`
	DueDate         string                `json:"due_date"`
	Client          clientResponse        `json:"client"`
	Items           []invoiceItemResponse `json:"items"`
	Tax             decimal.Decimal       `json:"tax"`
	Total           decimal.Decimal       `json:"total"`
	Status          string                `json:"status"`
	AddressSnapshot string                `json:"address_snapshot"`
}

type invoiceListResponse struct {
	Items      []invoiceResponse `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

func toClientResponse(c models.Client) clientResponse {
	return clientResponse{ID: c.ID, Name: c.Name, Address: c.Address, CompanyRegNo: c.CompanyRegNo, Email: c.Email}
}

func toProductResponse(p models.Product) productResponse {
	return productResponse{ID: p.ID, Name: p.Name, Price: p.UnitPrice}
}

func toInvoiceResponse(inv *models.Invoice) invoiceResponse {
	items := make([]invoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, invoiceItemResponse{
			ID:        it.ID,
			Product:   toProductResponse(it.Product),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
		})
	}
	return invoiceResponse{
		ID:              inv.ID,
		InvoiceNo:       inv.InvoiceNo,
		IssueDate:       inv.IssueDate.Format(time.DateOnly),
		DueDate:         inv.DueDate.Format(time.DateOnly),
		Client:          toClientResponse(inv.Client),
		Items:           items,
		Tax:             inv.Tax,
		Total:           inv.Total,
		Status:          inv.Status.String(),
		AddressSnapshot: inv.AddressSnapshot,
	}
}
