package services

import (
	"errors"

	"laundrypoint/internal/models"
)

// Catalog lookup errors.
var (
	ErrServiceNotFound = errors.New("service not found")
	ErrShopNotFound    = errors.New("service center not found")
)

// CatalogService is the read-only provider of shops, service categories,
// and orderable services. The catalog is reference data seeded at startup;
// the order core never mutates it.
type CatalogService struct {
	shops      []models.Shop
	categories []models.ServiceCategory
	services   []models.Service
}

// NewCatalogService creates a catalog over the given reference data.
func NewCatalogService(shops []models.Shop, categories []models.ServiceCategory, services []models.Service) *CatalogService {
	return &CatalogService{
		shops:      shops,
		categories: categories,
		services:   services,
	}
}

// Shops returns all service centers.
func (s *CatalogService) Shops() []models.Shop {
	return s.shops
}

// Categories returns all service categories.
func (s *CatalogService) Categories() []models.ServiceCategory {
	return s.categories
}

// Services returns all orderable services.
func (s *CatalogService) Services() []models.Service {
	return s.services
}

// FindService returns the service with the given ID.
func (s *CatalogService) FindService(id string) (*models.Service, error) {
	for i := range s.services {
		if s.services[i].ID == id {
			service := s.services[i]
			return &service, nil
		}
	}
	return nil, ErrServiceNotFound
}

// FindShop returns the service center with the given ID.
func (s *CatalogService) FindShop(id string) (*models.Shop, error) {
	for i := range s.shops {
		if s.shops[i].ID == id {
			shop := s.shops[i]
			return &shop, nil
		}
	}
	return nil, ErrShopNotFound
}
