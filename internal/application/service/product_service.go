package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/deskastudio/kasir-umkm-api/internal/domain/entity"
	"github.com/deskastudio/kasir-umkm-api/internal/domain/repository"
	"github.com/deskastudio/kasir-umkm-api/internal/infrastructure/cache"
	"github.com/deskastudio/kasir-umkm-api/pkg/apperror"
	"github.com/deskastudio/kasir-umkm-api/pkg/pagination"
	"github.com/deskastudio/kasir-umkm-api/pkg/utils"
)

// ProductService handles catalog operations. List reads go through the
// Redis cache; every write invalidates it.
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	catalogCache *cache.CatalogCache
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	catalogCache *cache.CatalogCache,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		catalogCache: catalogCache,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Code       string
	Name       string
	CategoryID *uuid.UUID
	Price      int64
	Stock      int
	StockAlert int
}

// CreateProduct adds a product to the catalog
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if input.Price < 0 {
		return nil, apperror.NewBadRequestError("Price cannot be negative")
	}
	if input.Stock < 0 {
		return nil, apperror.NewBadRequestError("Stock cannot be negative")
	}

	code := input.Code
	if code == "" {
		code = utils.GenerateProductCode()
	} else {
		existing, err := s.productRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Product code already in use")
		}
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
	}

	product := &entity.Product{
		Code:       code,
		Name:       input.Name,
		CategoryID: input.CategoryID,
		Price:      input.Price,
		Stock:      input.Stock,
		StockAlert: input.StockAlert,
		Active:     true,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.catalogCache.Invalidate(ctx)
	return s.productRepo.GetByID(ctx, product.ID)
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProductInput represents the update product input; nil fields are
// left unchanged
type UpdateProductInput struct {
	Name       *string
	CategoryID *uuid.UUID
	Price      *int64
	StockAlert *int
	Active     *bool
}

// UpdateProduct updates catalog fields. Stock is deliberately not here;
// stock moves only through sales and stock adjustments.
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
		product.CategoryID = input.CategoryID
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperror.NewBadRequestError("Price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.StockAlert != nil {
		product.StockAlert = *input.StockAlert
	}
	if input.Active != nil {
		product.Active = *input.Active
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.catalogCache.Invalidate(ctx)
	return s.productRepo.GetByID(ctx, product.ID)
}

// DeleteProduct soft-deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.catalogCache.Invalidate(ctx)
	return nil
}

// ListProducts lists products with filtering, served from cache when the
// listing was seen recently
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.Result[entity.Product], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.Default()
	}
	params.Pagination.Validate()

	// Only plain listings are cached; id-filtered and sorted queries go to
	// the database
	cacheable := params.CategoryID == nil && !params.LowStock && params.SortBy == ""
	var key string
	if cacheable {
		key = cache.ProductKey(params.Search, params.Category, params.ActiveOnly, params.Pagination.Page, params.Pagination.PerPage)
		if products, total, ok := s.catalogCache.GetProducts(ctx, key); ok {
			pag := pagination.New(params.Pagination.Page, params.Pagination.PerPage, total)
			return pagination.NewResult(products, pag), nil
		}
	}

	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	if cacheable {
		s.catalogCache.SetProducts(ctx, key, products, total)
	}

	pag := pagination.New(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewResult(products, pag), nil
}

// GetLowStockProducts returns active products at or under their alert level
func (s *ProductService) GetLowStockProducts(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx)
}
