package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/diewo77/invoicing-app/internal/httpx"
	"github.com/diewo77/invoicing-app/internal/models"
	"github.com/diewo77/invoicing-app/internal/services"
)

// InvoiceHandler maps the HTTP surface onto the invoice service.
type InvoiceHandler struct {
	Svc *services.InvoiceService
}

func NewInvoiceHandler(svc *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{Svc: svc}
}

// Create: POST /invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "invalid_json", nil)
		return
	}
	if req.ClientID == 0 {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", map[string]string{"client_id": "required"})
		return
	}
	issue, ok := parseDate(req.IssueDate)
	if !ok {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", map[string]string{"issue_date": "invalid_date"})
		return
	}
	due, ok := parseDate(req.DueDate)
	if !ok {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", map[string]string{"due_date": "invalid_date"})
		return
	}
	in := services.CreateInvoiceInput{
		ClientID:  req.ClientID,
		IssueDate: issue,
		DueDate:   due,
		Tax:       req.TaxAmount,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, services.CreateItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	inv, err := h.Svc.Create(in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toInvoiceResponse(inv))
}

// List: GET /invoices?client_id=&status=&issue_date_from=&page=&page_size=
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f services.ListFilter
	if v := q.Get("client_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", map[string]string{"client_id": "invalid"})
			return
		}
		f.ClientID = uint(id)
	}
	if v := q.Get("status"); v != "" {
		status, ok := models.ParseStatus(v)
		if !ok {
			httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", map[string]string{"status": "must_be_one_of_DRAFT_SENT_PAID_OVERDUE"})
			return
		}
		f.Status = status
	}
	if v := q.Get("issue_date_from"); v != "" {
		t, ok := parseDate(v)
		if !ok {
			httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", map[string]string{"issue_date_from": "invalid_date"})
			return
		}
		f.IssueDateFrom = &t
	}
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Page = n
		}
	}
	if v := q.Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.PageSize = n
		}
	}
	page, err := h.Svc.List(f)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_invoices", nil)
		return
	}
	resp := invoiceListResponse{
		Items:      make([]invoiceResponse, 0, len(page.Items)),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
	for i := range page.Items {
		resp.Items = append(resp.Items, toInvoiceResponse(&page.Items[i]))
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// Get: GET /invoices/{id}
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "invoice_not_found", nil)
		return
	}
	inv, err := h.Svc.Get(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toInvoiceResponse(inv))
}

// Delete: DELETE /invoices/{id}
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "invoice_not_found", nil)
		return
	}
	if err := h.Svc.Delete(id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateStatus: PATCH /invoices/{id}/status
func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "invoice_not_found", nil)
		return
	}
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "invalid_json", nil)
		return
	}
	inv, err := h.Svc.UpdateStatus(id, req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toInvoiceResponse(inv))
}

// PDF: GET /invoices/{id}/pdf
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "invoice_not_found", nil)
		return
	}
	data, inv, err := h.Svc.RenderPDF(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+inv.InvoiceNo+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Send: POST /invoices/{id}/send
func (h *InvoiceHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusNotFound, "invoice_not_found", nil)
		return
	}
	inv, err := h.Svc.Send(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{
		"message": "invoice " + inv.InvoiceNo + " sent",
		"status":  inv.Status.String(),
	})
}
