package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domainRepo "github.com/deskastudio/kasir-umkm-api/internal/domain/repository"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) GetSalesSummary(ctx context.Context, start, end time.Time) (*domainRepo.SalesSummaryResult, error) {
	var result domainRepo.SalesSummaryResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(t.total), 0) as revenue,
			COALESCE(SUM(t.discount), 0) as discount_given,
			COUNT(t.id) as transaction_count,
			COALESCE((
				SELECT SUM(td.quantity)
				FROM transaction_details td
				JOIN transactions t2 ON t2.id = td.transaction_id
				WHERE t2.created_at >= ? AND t2.created_at < ? AND t2.deleted_at IS NULL
			), 0) as items_sold
		FROM transactions t
		WHERE t.created_at >= ? AND t.created_at < ? AND t.deleted_at IS NULL
	`, start, end, start, end).Scan(&result).Error

	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *reportRepository) GetDailySales(ctx context.Context, days int) ([]domainRepo.DailySalesResult, error) {
	var results []domainRepo.DailySalesResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			DATE(t.created_at) as date,
			COALESCE(SUM(t.total), 0) as revenue,
			COUNT(t.id) as transaction_count
		FROM transactions t
		WHERE t.created_at >= CURRENT_DATE - (? * INTERVAL '1 day') AND t.deleted_at IS NULL
		GROUP BY DATE(t.created_at)
		ORDER BY date ASC
	`, days).Scan(&results).Error

	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *reportRepository) GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]domainRepo.TopProductResult, error) {
	var results []domainRepo.TopProductResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.id as product_id,
			p.name as product_name,
			p.code as product_code,
			COALESCE(SUM(td.quantity), 0) as quantity_sold,
			COALESCE(SUM(td.line_total), 0) as revenue
		FROM transaction_details td
		JOIN products p ON p.id = td.product_id
		JOIN transactions t ON t.id = td.transaction_id
		WHERE t.created_at >= ? AND t.created_at < ? AND t.deleted_at IS NULL
		GROUP BY p.id, p.name, p.code
		ORDER BY quantity_sold DESC
		LIMIT ?
	`, start, end, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}
	return results, nil
}
