package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/diewo77/invoicing-app/internal/models"
)

// Generator renders an invoice as a PDF document: header, invoice details,
// bill-to block built from the address snapshot, items table, and totals.
// Render is a pure function of the hydrated invoice it receives.
type Generator struct{}

func NewGenerator() *Generator { return &Generator{} }

func (g *Generator) Render(inv *models.Invoice) ([]byte, error) {
	p := gofpdf.New("P", "mm", "A4", "")
	p.SetHeaderFunc(func() {
		p.SetFont("Arial", "B", 20)
		p.CellFormat(0, 10, "INVOICE", "", 1, "C", false, 0, "")
		p.Ln(10)
	})
	p.SetFooterFunc(func() {
		p.SetY(-15)
		p.SetFont("Arial", "I", 8)
		p.CellFormat(0, 10, fmt.Sprintf("Page %d", p.PageNo()), "", 0, "C", false, 0, "")
	})
	p.AddPage()

	p.SetFont("Arial", "B", 12)
	p.CellFormat(0, 10, "Invoice No: "+inv.InvoiceNo, "", 1, "", false, 0, "")
	p.SetFont("Arial", "", 12)
	p.CellFormat(0, 10, "Date: "+inv.IssueDate.Format(time.DateOnly), "", 1, "", false, 0, "")
	p.CellFormat(0, 10, "Due Date: "+inv.DueDate.Format(time.DateOnly), "", 1, "", false, 0, "")
	p.CellFormat(0, 10, "Status: "+inv.Status.String(), "", 1, "", false, 0, "")
	p.Ln(5)

	p.SetFont("Arial", "B", 12)
	p.CellFormat(0, 10, "Bill To:", "", 1, "", false, 0, "")
	p.SetFont("Arial", "", 12)
	p.CellFormat(0, 10, inv.Client.Name, "", 1, "", false, 0, "")
	p.MultiCell(0, 10, inv.AddressSnapshot+"\nReg No: "+inv.Client.CompanyRegNo, "", "", false)
	p.Ln(10)

	p.SetFont("Arial", "B", 12)
	p.CellFormat(80, 10, "Item", "1", 0, "", false, 0, "")
	p.CellFormat(30, 10, "Quantity", "1", 0, "C", false, 0, "")
	p.CellFormat(40, 10, "Unit Price", "1", 0, "R", false, 0, "")
	p.CellFormat(40, 10, "Total", "1", 0, "R", false, 0, "")
	p.Ln(-1)

	p.SetFont("Arial", "", 12)
	for _, it := range inv.Items {
		p.CellFormat(80, 10, it.Product.Name, "1", 0, "", false, 0, "")
		p.CellFormat(30, 10, fmt.Sprintf("%d", it.Quantity), "1", 0, "C", false, 0, "")
		p.CellFormat(40, 10, it.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		p.CellFormat(40, 10, it.LineTotal.StringFixed(2), "1", 0, "R", false, 0, "")
		p.Ln(-1)
	}
	p.Ln(5)

	p.SetFont("Arial", "B", 12)
	p.CellFormat(150, 10, "Tax", "", 0, "R", false, 0, "")
	p.CellFormat(40, 10, inv.Tax.StringFixed(2), "1", 0, "R", false, 0, "")
	p.Ln(-1)
	p.CellFormat(150, 10, "Grand Total", "", 0, "R", false, 0, "")
	p.CellFormat(40, 10, inv.Total.StringFixed(2), "1", 0, "R", false, 0, "")

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
