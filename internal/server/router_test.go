package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/invoicing-app/internal/email"
	"github.com/diewo77/invoicing-app/internal/models"
	"github.com/diewo77/invoicing-app/internal/pdf"
	"github.com/diewo77/invoicing-app/internal/ratelimit"
	"github.com/diewo77/invoicing-app/internal/services"
)

func setupRouter(t *testing.T, limiter *ratelimit.Limiter) (http.Handler, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.Client{}, &models.Product{}, &models.Invoice{}, &models.InvoiceItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	numbering, err := services.NewNumbering(db)
	if err != nil {
		t.Fatalf("numbering: %v", err)
	}
	logger := zap.NewNop()
	catalog := services.NewCatalogService(db)
	invoices := services.NewInvoiceService(db, catalog, numbering, pdf.NewGenerator(), email.NewLogSender(logger))
	h := New(Deps{DB: db, Catalog: catalog, Invoice: invoices, Log: logger, Limiter: limiter})
	return h, db
}

func seedRouterFixtures(t *testing.T, db *gorm.DB) (client models.Client, product models.Product) {
	t.Helper()
	client = models.Client{Name: "Acme Corp", Address: "123 Main Street, Springfield", CompanyRegNo: "REG-0001", Email: "accounts@acme.example"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("client: %v", err)
	}
	product = models.Product{Name: "Widget", UnitPrice: decimal.RequireFromString("10.50")}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("product: %v", err)
	}
	return
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func createInvoiceBody(clientID, productID uint, quantity int) string {
	return fmt.Sprintf(`{"client_id":%d,"issue_date":"2023-01-01","due_date":"2023-01-31","items":[{"product_id":%d,"quantity":%d}],"tax_amount":5.0}`,
		clientID, productID, quantity)
}

func TestHealthEndpoints(t *testing.T) {
	h, _ := setupRouter(t, nil)
	if w := do(t, h, http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}
	if w := do(t, h, http.MethodGet, "/healthz", ""); w.Code != http.StatusOK {
		t.Fatalf("healthz: %d", w.Code)
	}
}

func TestInvoiceLifecycleOverHTTP(t *testing.T) {
	h, db := setupRouter(t, nil)
	client, product := seedRouterFixtures(t, db)

	// create
	w := do(t, h, http.MethodPost, "/invoices", createInvoiceBody(client.ID, product.ID, 5))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d body=%s", w.Code, w.Body.String())
	}
	var created struct {
		ID        uint            `json:"id"`
		InvoiceNo string          `json:"invoice_no"`
		Total     decimal.Decimal `json:"total"`
		Status    string          `json:"status"`
		Client    struct {
			ID uint `json:"id"`
		} `json:"client"`
		Items []struct {
			Quantity  int             `json:"quantity"`
			LineTotal decimal.Decimal `json:"line_total"`
			Product   struct {
				ID   uint   `json:"id"`
				Name string `json:"name"`
			} `json:"product"`
		} `json:"items"`
		AddressSnapshot string `json:"address_snapshot"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !created.Total.Equal(decimal.RequireFromString("57.5")) {
		t.Fatalf("total = %s, want 57.5", created.Total)
	}
	if created.Status != "DRAFT" {
		t.Fatalf("status = %s", created.Status)
	}
	if created.Client.ID != client.ID || len(created.Items) != 1 || created.Items[0].Product.Name != "Widget" {
		t.Fatalf("response not hydrated: %s", w.Body.String())
	}
	if created.AddressSnapshot != client.Address {
		t.Fatalf("address snapshot = %q", created.AddressSnapshot)
	}

	// fetch
	if w := do(t, h, http.MethodGet, fmt.Sprintf("/invoices/%d", created.ID), ""); w.Code != http.StatusOK {
		t.Fatalf("get: %d", w.Code)
	}

	// transition to PAID
	w = do(t, h, http.MethodPatch, fmt.Sprintf("/invoices/%d/status", created.ID), `{"status":"PAID"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("patch status: %d body=%s", w.Code, w.Body.String())
	}
	var patched struct {
		Status string `json:"status"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &patched)
	if patched.Status != "PAID" {
		t.Fatalf("status = %s, want PAID", patched.Status)
	}

	// delete, then fetch is 404
	if w := do(t, h, http.MethodDelete, fmt.Sprintf("/invoices/%d", created.ID), ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}
	if w := do(t, h, http.MethodGet, fmt.Sprintf("/invoices/%d", created.ID), ""); w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: %d", w.Code)
	}
}

func TestCreateInvoiceRejections(t *testing.T) {
	h, db := setupRouter(t, nil)
	client, product := seedRouterFixtures(t, db)

	cases := []struct {
		name string
		body string
		code int
	}{
		{"unknown client", createInvoiceBody(999, product.ID, 1), http.StatusNotFound},
		{"unknown product", createInvoiceBody(client.ID, 999, 1), http.StatusNotFound},
		{"negative quantity", createInvoiceBody(client.ID, product.ID, -5), http.StatusUnprocessableEntity},
		{"empty items", fmt.Sprintf(`{"client_id":%d,"issue_date":"2023-01-01","due_date":"2023-01-31","items":[]}`, client.ID), http.StatusUnprocessableEntity},
		{"due before issue", fmt.Sprintf(`{"client_id":%d,"issue_date":"2023-01-31","due_date":"2023-01-01","items":[{"product_id":%d,"quantity":1}]}`, client.ID, product.ID), http.StatusUnprocessableEntity},
		{"negative tax", fmt.Sprintf(`{"client_id":%d,"issue_date":"2023-01-01","due_date":"2023-01-31","items":[{"product_id":%d,"quantity":1}],"tax_amount":-1}`, client.ID, product.ID), http.StatusUnprocessableEntity},
		{"malformed date", fmt.Sprintf(`{"client_id":%d,"issue_date":"January 1","due_date":"2023-01-31","items":[{"product_id":%d,"quantity":1}]}`, client.ID, product.ID), http.StatusUnprocessableEntity},
		{"malformed json", `{"client_id":`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := do(t, h, http.MethodPost, "/invoices", tc.body); w.Code != tc.code {
				t.Fatalf("got %d, want %d (body=%s)", w.Code, tc.code, w.Body.String())
			}
		})
	}

	var count int64
	db.Model(&models.Invoice{}).Count(&count)
	if count != 0 {
		t.Fatalf("rejected creates persisted %d invoices", count)
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	h, db := setupRouter(t, nil)
	client, product := seedRouterFixtures(t, db)
	w := do(t, h, http.MethodPost, "/invoices", createInvoiceBody(client.ID, product.ID, 1))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d", w.Code)
	}
	var created struct {
		ID uint `json:"id"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	w = do(t, h, http.MethodPatch, fmt.Sprintf("/invoices/%d/status", created.ID), `{"status":"CANCELLED"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got %d, want 422", w.Code)
	}
	var inv models.Invoice
	if err := db.First(&inv, created.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if inv.Status != models.StatusDraft {
		t.Fatalf("stored status changed to %s", inv.Status)
	}
}

func TestListOverHTTP(t *testing.T) {
	h, db := setupRouter(t, nil)
	client, product := seedRouterFixtures(t, db)
	for i := 0; i < 5; i++ {
		if w := do(t, h, http.MethodPost, "/invoices", createInvoiceBody(client.ID, product.ID, 1)); w.Code != http.StatusCreated {
			t.Fatalf("create %d: %d", i, w.Code)
		}
	}

	w := do(t, h, http.MethodGet, "/invoices?page=1&page_size=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	var page struct {
		Items      []json.RawMessage `json:"items"`
		Total      int64             `json:"total"`
		Page       int               `json:"page"`
		PageSize   int               `json:"page_size"`
		TotalPages int               `json:"total_pages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total != 5 || page.TotalPages != 3 || len(page.Items) != 2 {
		t.Fatalf("unexpected page: %s", w.Body.String())
	}

	// filters reject values outside the enum
	if w := do(t, h, http.MethodGet, "/invoices?status=BOGUS", ""); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bogus status filter: %d", w.Code)
	}
	// beyond last page is still a success
	if w := do(t, h, http.MethodGet, "/invoices?page=50&page_size=2", ""); w.Code != http.StatusOK {
		t.Fatalf("beyond last page: %d", w.Code)
	}
}

func TestPDFAndSendOverHTTP(t *testing.T) {
	h, db := setupRouter(t, nil)
	client, product := seedRouterFixtures(t, db)
	w := do(t, h, http.MethodPost, "/invoices", createInvoiceBody(client.ID, product.ID, 1))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d", w.Code)
	}
	var created struct {
		ID uint `json:"id"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	w = do(t, h, http.MethodGet, fmt.Sprintf("/invoices/%d/pdf", created.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("pdf: %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content-type = %s", ct)
	}
	if w.Body.Len() == 0 {
		t.Fatal("empty pdf body")
	}

	w = do(t, h, http.MethodPost, fmt.Sprintf("/invoices/%d/send", created.ID), "")
	if w.Code != http.StatusOK {
		t.Fatalf("send: %d body=%s", w.Code, w.Body.String())
	}
	var sent struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &sent)
	if sent.Status != "SENT" || sent.Message == "" {
		t.Fatalf("send response: %s", w.Body.String())
	}

	if w := do(t, h, http.MethodGet, "/invoices/999/pdf", ""); w.Code != http.StatusNotFound {
		t.Fatalf("pdf for missing invoice: %d", w.Code)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	h, _ := setupRouter(t, nil)

	w := do(t, h, http.MethodPost, "/clients", `{"name":"Globex","address":"9 Side Street","company_reg_no":"REG-0002"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create client: %d body=%s", w.Code, w.Body.String())
	}
	if w := do(t, h, http.MethodPost, "/clients", `{"address":"no name"}`); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("client without name: %d", w.Code)
	}

	w = do(t, h, http.MethodPost, "/products", `{"name":"Widget","price":10.50}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create product: %d body=%s", w.Code, w.Body.String())
	}
	if w := do(t, h, http.MethodPost, "/products", `{"name":"Bad","price":-1}`); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("negative price: %d", w.Code)
	}

	if w := do(t, h, http.MethodGet, "/clients", ""); w.Code != http.StatusOK {
		t.Fatalf("list clients: %d", w.Code)
	}
	if w := do(t, h, http.MethodGet, "/products", ""); w.Code != http.StatusOK {
		t.Fatalf("list products: %d", w.Code)
	}
}

func TestRateLimitedRoutes(t *testing.T) {
	limiter := ratelimit.New(map[string]ratelimit.Limit{
		ratelimit.RouteInvoicePDF: ratelimit.PerMinute(5),
	})
	h, db := setupRouter(t, limiter)
	client, product := seedRouterFixtures(t, db)
	w := do(t, h, http.MethodPost, "/invoices", createInvoiceBody(client.ID, product.ID, 1))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d", w.Code)
	}
	var created struct {
		ID uint `json:"id"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	target := fmt.Sprintf("/invoices/%d/pdf", created.ID)

	for i := 0; i < 5; i++ {
		if w := do(t, h, http.MethodGet, target, ""); w.Code != http.StatusOK {
			t.Fatalf("request %d within budget: %d", i+1, w.Code)
		}
	}
	if w := do(t, h, http.MethodGet, target, ""); w.Code != http.StatusTooManyRequests {
		t.Fatalf("sixth request: %d, want 429", w.Code)
	}

	// Reset restores the budget for test isolation.
	limiter.Reset()
	if w := do(t, h, http.MethodGet, target, ""); w.Code != http.StatusOK {
		t.Fatalf("request after reset: %d", w.Code)
	}
}
