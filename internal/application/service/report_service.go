package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/deskastudio/kasir-umkm-api/internal/domain/entity"
	"github.com/deskastudio/kasir-umkm-api/internal/domain/repository"
	"github.com/deskastudio/kasir-umkm-api/pkg/apperror"
)

// ReportService aggregates sales data for the back office
type ReportService struct {
	reportRepo      repository.ReportRepository
	transactionRepo repository.TransactionRepository
	productRepo     repository.ProductRepository
}

// NewReportService creates a new report service
func NewReportService(
	reportRepo repository.ReportRepository,
	transactionRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
) *ReportService {
	return &ReportService{
		reportRepo:      reportRepo,
		transactionRepo: transactionRepo,
		productRepo:     productRepo,
	}
}

// SalesSummary aggregates revenue and volume between start and end
func (s *ReportService) SalesSummary(ctx context.Context, start, end time.Time) (*repository.SalesSummaryResult, error) {
	if !end.After(start) {
		return nil, apperror.NewBadRequestError("End date must be after start date")
	}
	return s.reportRepo.GetSalesSummary(ctx, start, end)
}

// DailySales returns per-day revenue for the last N days
func (s *ReportService) DailySales(ctx context.Context, days int) ([]repository.DailySalesResult, error) {
	if days < 1 || days > 366 {
		return nil, apperror.NewBadRequestError("Days must be between 1 and 366")
	}
	return s.reportRepo.GetDailySales(ctx, days)
}

// TopProducts returns the best sellers between start and end
func (s *ReportService) TopProducts(ctx context.Context, start, end time.Time, limit int) ([]repository.TopProductResult, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.reportRepo.GetTopProducts(ctx, start, end, limit)
}

// ExportSales writes every transaction in the range into an XLSX workbook
// with one row per sold line, ready for the owner's bookkeeping.
func (s *ReportService) ExportSales(ctx context.Context, start, end time.Time) (*bytes.Buffer, error) {
	if !end.After(start) {
		return nil, apperror.NewBadRequestError("End date must be after start date")
	}

	transactions, _, err := s.transactionRepo.List(ctx, &repository.TransactionFilterParams{
		StartDate: &start,
		EndDate:   &end,
		SortBy:    "created_at",
		SortOrder: "asc",
	})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Penjualan"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Tanggal", "Invoice", "Kasir", "Produk", "Harga", "Qty", "Subtotal Baris", "Diskon Nota", "Total Nota", "Bayar", "Kembalian"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, tx := range transactions {
		for _, d := range tx.Details {
			values := []interface{}{
				tx.CreatedAt.Format("2006-01-02 15:04"),
				tx.InvoiceNo,
				tx.CashierName,
				d.ProductName,
				d.UnitPrice,
				d.Quantity,
				d.LineTotal,
				tx.Discount,
				tx.Total,
				tx.Payment,
				tx.Change,
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}
	}

	summary := s.summarize(transactions)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row+1), "Total transaksi")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row+1), len(transactions))
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row+2), "Total pendapatan")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row+2), summary)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func (s *ReportService) summarize(transactions []entity.Transaction) int64 {
	var revenue int64
	for _, tx := range transactions {
		revenue += tx.Total
	}
	return revenue
}

// LowStock returns products that need restocking
func (s *ReportService) LowStock(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx)
}
