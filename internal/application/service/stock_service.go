package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/deskastudio/kasir-umkm-api/internal/domain/entity"
	"github.com/deskastudio/kasir-umkm-api/internal/domain/enum"
	"github.com/deskastudio/kasir-umkm-api/internal/domain/repository"
	"github.com/deskastudio/kasir-umkm-api/internal/infrastructure/cache"
	"github.com/deskastudio/kasir-umkm-api/pkg/apperror"
	"github.com/deskastudio/kasir-umkm-api/pkg/pagination"
)

// StockService handles manual stock movements: restocks, write-offs and
// count corrections. Sales never go through here.
type StockService struct {
	adjustmentRepo repository.StockAdjustmentRepository
	productRepo    repository.ProductRepository
	catalogCache   *cache.CatalogCache
}

// NewStockService creates a new stock service
func NewStockService(
	adjustmentRepo repository.StockAdjustmentRepository,
	productRepo repository.ProductRepository,
	catalogCache *cache.CatalogCache,
) *StockService {
	return &StockService{
		adjustmentRepo: adjustmentRepo,
		productRepo:    productRepo,
		catalogCache:   catalogCache,
	}
}

// AdjustStockInput represents a manual stock movement
type AdjustStockInput struct {
	ProductID uuid.UUID
	UserID    uuid.UUID
	Type      enum.AdjustmentType
	Quantity  int
	Note      string
}

// AdjustStock applies the movement to the product and records it. In adds,
// Out removes with the same stock check as a sale, Correction sets stock to
// the counted value.
func (s *StockService) AdjustStock(ctx context.Context, input *AdjustStockInput) (*entity.StockAdjustment, error) {
	if !input.Type.Valid() {
		return nil, apperror.NewBadRequestError("Unknown adjustment type")
	}
	if input.Quantity < 0 {
		return nil, apperror.NewBadRequestError("Quantity cannot be negative")
	}
	if input.Quantity == 0 && input.Type != enum.AdjustmentCorrection {
		return nil, apperror.NewBadRequestError("Quantity must be positive")
	}

	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	switch input.Type {
	case enum.AdjustmentIn:
		err = s.productRepo.AtomicIncrementBatch(ctx, map[uuid.UUID]int{product.ID: input.Quantity})
	case enum.AdjustmentOut:
		var failedIDs []uuid.UUID
		failedIDs, err = s.productRepo.AtomicDecrementBatch(ctx, map[uuid.UUID]int{product.ID: input.Quantity})
		if err == nil && len(failedIDs) > 0 {
			return nil, apperror.NewInsufficientStockError([]string{product.Name})
		}
	case enum.AdjustmentCorrection:
		err = s.productRepo.SetStock(ctx, product.ID, input.Quantity)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply stock adjustment: %w", err)
	}

	adjustment := &entity.StockAdjustment{
		ProductID: input.ProductID,
		UserID:    input.UserID,
		Type:      input.Type,
		Quantity:  input.Quantity,
		Note:      input.Note,
	}
	if err := s.adjustmentRepo.Create(ctx, adjustment); err != nil {
		return nil, err
	}

	s.catalogCache.Invalidate(ctx)
	return adjustment, nil
}

// ListAdjustments lists stock adjustments with filtering
func (s *StockService) ListAdjustments(ctx context.Context, params *repository.AdjustmentFilterParams) (*pagination.Result[entity.StockAdjustment], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.Default()
	}
	params.Pagination.Validate()

	adjustments, total, err := s.adjustmentRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.New(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewResult(adjustments, pag), nil
}

// GetProductHistory lists all adjustments for one product
func (s *StockService) GetProductHistory(ctx context.Context, productID uuid.UUID) ([]entity.StockAdjustment, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return s.adjustmentRepo.GetByProductID(ctx, productID)
}
