package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/diewo77/invoicing-app/internal/models"
)

// CatalogService is the read-side of the client/product catalog plus the
// minimal create operations needed to populate it. Pure reads where invoice
// creation is concerned: it never writes as part of pricing.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) GetClient(id uint) (*models.Client, error) {
	var c models.Client
	if err := s.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("client %d: %w", id, ErrClientNotFound)
		}
		return nil, err
	}
	return &c, nil
}

func (s *CatalogService) GetProduct(id uint) (*models.Product, error) {
	var p models.Product
	if err := s.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrProductNotFound)
		}
		return nil, err
	}
	return &p, nil
}

func (s *CatalogService) ListClients() ([]models.Client, error) {
	var cs []models.Client
	if err := s.db.Order("id").Find(&cs).Error; err != nil {
		return nil, err
	}
	return cs, nil
}

func (s *CatalogService) CreateClient(c *models.Client) error {
	if c.Name == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if c.Address == "" {
		return &ValidationError{Field: "address", Reason: "required"}
	}
	return s.db.Create(c).Error
}

func (s *CatalogService) ListProducts() ([]models.Product, error) {
	var ps []models.Product
	if err := s.db.Order("id").Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

func (s *CatalogService) CreateProduct(p *models.Product) error {
	if p.Name == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if p.UnitPrice.IsNegative() {
		return &ValidationError{Field: "price", Reason: "must_not_be_negative"}
	}
	return s.db.Create(p).Error
}
