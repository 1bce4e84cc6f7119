package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/deskastudio/kasir-umkm-api/internal/domain/entity"
	"github.com/deskastudio/kasir-umkm-api/internal/domain/repository"
	"github.com/deskastudio/kasir-umkm-api/internal/infrastructure/cache"
	"github.com/deskastudio/kasir-umkm-api/pkg/apperror"
)

// CategoryService handles category operations
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	catalogCache *cache.CatalogCache
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo repository.CategoryRepository, catalogCache *cache.CatalogCache) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		catalogCache: catalogCache,
	}
}

// CreateCategory adds a category
func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*entity.Category, error) {
	if name == "" {
		return nil, apperror.NewBadRequestError("Category name is required")
	}

	existing, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Category already exists")
	}

	category := &entity.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.catalogCache.Invalidate(ctx)
	return category, nil
}

// GetCategory retrieves a category by ID
func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}
	return category, nil
}

// UpdateCategory renames a category
func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}

	existing, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != id {
		return nil, apperror.NewConflictError("Category already exists")
	}

	category.Name = name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	s.catalogCache.Invalidate(ctx)
	return category, nil
}

// DeleteCategory soft-deletes a category; its products become uncategorized
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return apperror.NewNotFoundError("Category")
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.catalogCache.Invalidate(ctx)
	return nil
}

// ListCategories lists all categories, cache-first
func (s *CategoryService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	if categories, ok := s.catalogCache.GetCategories(ctx); ok {
		return categories, nil
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.catalogCache.SetCategories(ctx, categories)
	return categories, nil
}
