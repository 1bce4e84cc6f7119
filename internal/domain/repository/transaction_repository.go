package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/deskastudio/kasir-umkm-api/internal/domain/entity"
	"github.com/deskastudio/kasir-umkm-api/pkg/pagination"
)

// TransactionRepository defines the interface for transaction data operations
type TransactionRepository interface {
	// Create stores a transaction together with its details in one insert
	Create(ctx context.Context, transaction *entity.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Transaction, error)
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
	// CountForDate counts transactions created on the given local date;
	// used to derive the daily invoice sequence
	CountForDate(ctx context.Context, date time.Time) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionFilterParams contains filtering parameters for transaction queries
type TransactionFilterParams struct {
	Pagination *pagination.Params
	Search     string
	CashierID  *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// StockAdjustmentRepository defines the interface for stock adjustment records
type StockAdjustmentRepository interface {
	Create(ctx context.Context, adjustment *entity.StockAdjustment) error
	List(ctx context.Context, params *AdjustmentFilterParams) ([]entity.StockAdjustment, int64, error)
	GetByProductID(ctx context.Context, productID uuid.UUID) ([]entity.StockAdjustment, error)
}

// AdjustmentFilterParams contains filtering parameters for adjustment queries
type AdjustmentFilterParams struct {
	Pagination *pagination.Params
	ProductID  *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}
