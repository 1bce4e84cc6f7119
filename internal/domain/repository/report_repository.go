package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SalesSummaryResult aggregates sales over a date range
type SalesSummaryResult struct {
	Revenue          int64
	DiscountGiven    int64
	TransactionCount int64
	ItemsSold        int64
}

// DailySalesResult represents sales data for a single day
type DailySalesResult struct {
	Date             time.Time
	Revenue          int64
	TransactionCount int64
}

// TopProductResult represents a product's sales performance
type TopProductResult struct {
	ProductID    uuid.UUID
	ProductName  string
	ProductCode  string
	QuantitySold int64
	Revenue      int64
}

// ReportRepository defines interface for sales aggregation queries
type ReportRepository interface {
	// GetSalesSummary aggregates revenue, discount and volume over a range
	GetSalesSummary(ctx context.Context, start, end time.Time) (*SalesSummaryResult, error)

	// GetDailySales returns per-day sales for the last N days
	GetDailySales(ctx context.Context, days int) ([]DailySalesResult, error)

	// GetTopProducts returns the best sellers by quantity over a range
	GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]TopProductResult, error)
}
