package services

import (
	"context"

	"storefront/models"
	"storefront/repositories"
)

type CatalogService struct {
	catalogRepo repositories.CatalogRepository
}

func NewCatalogService(repo repositories.CatalogRepository) *CatalogService {
	if repo == nil {
		repo = repositories.NewStaticCatalogRepository(nil)
	}
	return &CatalogService{catalogRepo: repo}
}

func (s *CatalogService) ListItems(ctx context.Context) ([]models.Item, error) {
	return s.catalogRepo.ListItems(ctx)
}

func (s *CatalogService) GetItem(ctx context.Context, id int) (*models.Item, error) {
	if id <= 0 {
		return nil, repositories.ErrItemNotFound
	}
	return s.catalogRepo.GetItem(ctx, id)
}
