package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/diewo77/invoicing-app/internal/httpx"
	"github.com/diewo77/invoicing-app/internal/models"
	"github.com/diewo77/invoicing-app/internal/services"
)

// CatalogHandler exposes the client/product catalog so it can be populated
// over HTTP. Invoicing only ever reads from it.
type CatalogHandler struct {
	Svc *services.CatalogService
}

func NewCatalogHandler(svc *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{Svc: svc}
}

// ListClients: GET /clients
func (h *CatalogHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Svc.ListClients()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_clients", nil)
		return
	}
	out := make([]clientResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toClientResponse(c))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// CreateClient: POST /clients
func (h *CatalogHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		Address      string `json:"address"`
		CompanyRegNo string `json:"company_reg_no"`
		Email        string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "invalid_json", nil)
		return
	}
	c := models.Client{Name: req.Name, Address: req.Address, CompanyRegNo: req.CompanyRegNo, Email: req.Email}
	if err := h.Svc.CreateClient(&c); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toClientResponse(c))
}

// ListProducts: GET /products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Svc.ListProducts()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_products", nil)
		return
	}
	out := make([]productResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProductResponse(p))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// CreateProduct: POST /products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string          `json:"name"`
		Price decimal.Decimal `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "invalid_json", nil)
		return
	}
	p := models.Product{Name: req.Name, UnitPrice: req.Price}
	if err := h.Svc.CreateProduct(&p); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toProductResponse(p))
}
