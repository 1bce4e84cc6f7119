package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/deskastudio/kasir-umkm-api/internal/checkout"
	"github.com/deskastudio/kasir-umkm-api/internal/domain/entity"
	"github.com/deskastudio/kasir-umkm-api/internal/domain/repository"
	"github.com/deskastudio/kasir-umkm-api/internal/infrastructure/cache"
	"github.com/deskastudio/kasir-umkm-api/pkg/apperror"
	"github.com/deskastudio/kasir-umkm-api/pkg/pagination"
)

// TransactionService settles sales. Every amount is recomputed here from
// the product table; the request only names products, quantities, the
// discount spec and the payment.
type TransactionService struct {
	transactionRepo repository.TransactionRepository
	productRepo     repository.ProductRepository
	userRepo        repository.UserRepository
	catalogCache    *cache.CatalogCache
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	transactionRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	catalogCache *cache.CatalogCache,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		productRepo:     productRepo,
		userRepo:        userRepo,
		catalogCache:    catalogCache,
	}
}

// TransactionItemInput names a product and how many units were sold
type TransactionItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateTransactionInput represents the commit request
type CreateTransactionInput struct {
	CashierID uuid.UUID
	Items     []TransactionItemInput
	Discount  checkout.DiscountSpec
	Payment   int64
}

// CreateTransaction validates the sale, decrements stock atomically and
// records the transaction. Pricing uses the same routine the register runs,
// so the server total can never disagree with an honest client's display.
func (s *TransactionService) CreateTransaction(ctx context.Context, input *CreateTransactionInput) (*entity.Transaction, error) {
	if len(input.Items) == 0 {
		return nil, apperror.ErrEmptyCart
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Item quantity must be positive")
		}
	}

	cashier, err := s.userRepo.GetByID(ctx, input.CashierID)
	if err != nil {
		return nil, err
	}
	if cashier == nil {
		return nil, apperror.NewNotFoundError("Cashier")
	}

	// Batch fetch all products in one query (prevents N+1)
	productIDs := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	// Price every line from the product table, never from the request
	lines := make([]checkout.Line, 0, len(input.Items))
	details := make([]entity.TransactionDetail, 0, len(input.Items))
	stockDecrements := make(map[uuid.UUID]int)

	for _, item := range input.Items {
		product, exists := productMap[item.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}
		if !product.Active {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Product %s is not for sale", product.Name))
		}
		if _, dup := stockDecrements[product.ID]; dup {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Product %s listed twice", product.Name))
		}

		lines = append(lines, checkout.Line{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  item.Quantity,
		})
		details = append(details, entity.TransactionDetail{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    item.Quantity,
			LineTotal:   product.Price * int64(item.Quantity),
		})
		stockDecrements[product.ID] = item.Quantity
	}

	pricing := checkout.ComputePricing(lines, input.Discount)
	if input.Payment < pricing.Total {
		return nil, apperror.NewInsufficientPaymentError(input.Payment, pricing.Total)
	}

	// Atomically decrement stock; race-condition safe. If any product has
	// insufficient stock the whole batch is rolled back.
	failedIDs, err := s.productRepo.AtomicDecrementBatch(ctx, stockDecrements)
	if err != nil {
		return nil, err
	}
	if len(failedIDs) > 0 {
		var failedNames []string
		for _, id := range failedIDs {
			if product, exists := productMap[id]; exists {
				failedNames = append(failedNames, product.Name)
			}
		}
		return nil, apperror.NewInsufficientStockError(failedNames)
	}

	invoiceNo, err := s.nextInvoiceNo(ctx)
	if err != nil {
		_ = s.productRepo.AtomicIncrementBatch(ctx, stockDecrements)
		return nil, err
	}

	transaction := &entity.Transaction{
		InvoiceNo:   invoiceNo,
		CashierID:   cashier.ID,
		CashierName: cashier.Name,
		Subtotal:    pricing.Subtotal,
		Discount:    pricing.Discount,
		Total:       pricing.Total,
		Payment:     input.Payment,
		Change:      input.Payment - pricing.Total,
		Details:     details,
	}

	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		// Stock was already decremented, restore it
		_ = s.productRepo.AtomicIncrementBatch(ctx, stockDecrements)
		return nil, err
	}

	s.catalogCache.Invalidate(ctx)

	return s.transactionRepo.GetWithDetails(ctx, transaction.ID)
}

// nextInvoiceNo derives a daily sequential invoice number, INV-YYYYMMDD-NNNN.
func (s *TransactionService) nextInvoiceNo(ctx context.Context) (string, error) {
	now := time.Now()
	count, err := s.transactionRepo.CountForDate(ctx, now)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%s-%04d", now.Format("20060102"), count+1), nil
}

// GetTransaction retrieves a transaction with its details
func (s *TransactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	transaction, err := s.transactionRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return transaction, nil
}

// GetTransactionByInvoice retrieves a transaction by invoice number
func (s *TransactionService) GetTransactionByInvoice(ctx context.Context, invoiceNo string) (*entity.Transaction, error) {
	transaction, err := s.transactionRepo.GetByInvoiceNo(ctx, invoiceNo)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return transaction, nil
}

// ListTransactions lists transactions with filtering
func (s *TransactionService) ListTransactions(ctx context.Context, params *repository.TransactionFilterParams) (*pagination.Result[entity.Transaction], error) {
	transactions, total, err := s.transactionRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.New(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewResult(transactions, pag), nil
}
