package catalog

import (
	"context"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
)

// QueryService serves the public catalog: categories, shops accepting
// orders and their listings
type QueryService struct {
	shopRepo        catalog.ShopRepository
	categoryRepo    catalog.CategoryRepository
	productInfoRepo catalog.ProductInfoRepository
}

// NewQueryService creates a new QueryService
func NewQueryService(
	shopRepo catalog.ShopRepository,
	categoryRepo catalog.CategoryRepository,
	productInfoRepo catalog.ProductInfoRepository,
) *QueryService {
	return &QueryService{
		shopRepo:        shopRepo,
		categoryRepo:    categoryRepo,
		productInfoRepo: productInfoRepo,
	}
}

// ListCategories lists all categories
func (s *QueryService) ListCategories(ctx context.Context, page shared.Page) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.List(ctx, page)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, ToCategoryResponse(&categories[i]))
	}
	return out, nil
}

// ListShops lists shops that accept orders
func (s *QueryService) ListShops(ctx context.Context, page shared.Page) ([]ShopResponse, error) {
	shops, err := s.shopRepo.ListActive(ctx, page)
	if err != nil {
		return nil, err
	}
	out := make([]ShopResponse, 0, len(shops))
	for i := range shops {
		out = append(out, ToShopResponse(&shops[i]))
	}
	return out, nil
}

// ListProducts lists listings of active shops, optionally narrowed to a
// shop and a category
func (s *QueryService) ListProducts(ctx context.Context, q ProductListQuery) ([]ProductInfoResponse, error) {
	infos, err := s.productInfoRepo.List(ctx, catalog.ProductInfoFilter{
		ShopID:     q.ShopID,
		CategoryID: q.CategoryID,
		Page:       shared.Page{Limit: q.Limit, Offset: q.Offset},
	})
	if err != nil {
		return nil, err
	}
	out := make([]ProductInfoResponse, 0, len(infos))
	for i := range infos {
		out = append(out, ToProductInfoResponse(&infos[i]))
	}
	return out, nil
}
