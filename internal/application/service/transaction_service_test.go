package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskastudio/kasir-umkm-api/internal/checkout"
	"github.com/deskastudio/kasir-umkm-api/internal/domain/entity"
	"github.com/deskastudio/kasir-umkm-api/internal/domain/enum"
	"github.com/deskastudio/kasir-umkm-api/internal/domain/repository"
	"github.com/deskastudio/kasir-umkm-api/pkg/apperror"
	"github.com/deskastudio/kasir-umkm-api/pkg/pagination"
)

type fakeProductRepo struct {
	products map[uuid.UUID]*entity.Product
}

func (r *fakeProductRepo) Create(ctx context.Context, p *entity.Product) error { return nil }
func (r *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}
func (r *fakeProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) Update(ctx context.Context, p *entity.Product) error { return nil }
func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (r *fakeProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	return nil, 0, nil
}
func (r *fakeProductRepo) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) SetStock(ctx context.Context, id uuid.UUID, stock int) error {
	r.products[id].Stock = stock
	return nil
}

func (r *fakeProductRepo) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	var failed []uuid.UUID
	for id, amount := range decrements {
		p, ok := r.products[id]
		if !ok || p.Stock < amount {
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}
	for id, amount := range decrements {
		r.products[id].Stock -= amount
	}
	return nil, nil
}

func (r *fakeProductRepo) AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error {
	for id, amount := range increments {
		r.products[id].Stock += amount
	}
	return nil
}

type fakeTransactionRepo struct {
	created   []*entity.Transaction
	createErr error
	dateCount int64
}

func (r *fakeTransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	if r.createErr != nil {
		return r.createErr
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	r.created = append(r.created, t)
	return nil
}
func (r *fakeTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	return r.GetWithDetails(ctx, id)
}
func (r *fakeTransactionRepo) GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Transaction, error) {
	for _, t := range r.created {
		if t.InvoiceNo == invoiceNo {
			return t, nil
		}
	}
	return nil, nil
}
func (r *fakeTransactionRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	for _, t := range r.created {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}
func (r *fakeTransactionRepo) List(ctx context.Context, params *repository.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	out := make([]entity.Transaction, 0, len(r.created))
	for _, t := range r.created {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}
func (r *fakeTransactionRepo) CountForDate(ctx context.Context, date time.Time) (int64, error) {
	return r.dateCount, nil
}
func (r *fakeTransactionRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func (r *fakeUserRepo) Create(ctx context.Context, u *entity.User) error { return nil }
func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.users[id], nil
}
func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}
func (r *fakeUserRepo) Update(ctx context.Context, u *entity.User) error { return nil }
func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error   { return nil }
func (r *fakeUserRepo) List(ctx context.Context, params *pagination.Params, search string) ([]entity.User, int64, error) {
	return nil, 0, nil
}
func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) { return int64(len(r.users)), nil }

type commitFixture struct {
	svc      *TransactionService
	products *fakeProductRepo
	txRepo   *fakeTransactionRepo
	cashier  *entity.User
	kopi     *entity.Product
	gula     *entity.Product
}

func newCommitFixture(t *testing.T) *commitFixture {
	t.Helper()

	cashier := &entity.User{
		ID:       uuid.New(),
		Username: "siti",
		Name:     "Siti",
		Role:     enum.RoleKasir,
		Active:   true,
	}
	kopi := &entity.Product{ID: uuid.New(), Code: "KOPI-01", Name: "Kopi Sachet", Price: 2500, Stock: 10, Active: true}
	gula := &entity.Product{ID: uuid.New(), Code: "GULA-01", Name: "Gula 1kg", Price: 15000, Stock: 3, Active: true}

	products := &fakeProductRepo{products: map[uuid.UUID]*entity.Product{
		kopi.ID: kopi,
		gula.ID: gula,
	}}
	txRepo := &fakeTransactionRepo{}
	users := &fakeUserRepo{users: map[uuid.UUID]*entity.User{cashier.ID: cashier}}

	return &commitFixture{
		svc:      NewTransactionService(txRepo, products, users, nil),
		products: products,
		txRepo:   txRepo,
		cashier:  cashier,
		kopi:     kopi,
		gula:     gula,
	}
}

func TestCreateTransactionRepricesFromCatalog(t *testing.T) {
	f := newCommitFixture(t)

	tx, err := f.svc.CreateTransaction(context.Background(), &CreateTransactionInput{
		CashierID: f.cashier.ID,
		Items: []TransactionItemInput{
			{ProductID: f.kopi.ID, Quantity: 4}, // 10000
			{ProductID: f.gula.ID, Quantity: 1}, // 15000
		},
		Discount: checkout.DiscountSpec{Kind: checkout.DiscountPercent, Value: 10},
		Payment:  25000,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(25000), tx.Subtotal)
	assert.Equal(t, int64(2500), tx.Discount)
	assert.Equal(t, int64(22500), tx.Total)
	assert.Equal(t, int64(25000), tx.Payment)
	assert.Equal(t, int64(2500), tx.Change)
	assert.Equal(t, "Siti", tx.CashierName)

	// Prices came from the product table
	require.Len(t, tx.Details, 2)
	assert.Equal(t, int64(2500), tx.Details[0].UnitPrice)
	assert.Equal(t, int64(10000), tx.Details[0].LineTotal)

	// Stock decremented
	assert.Equal(t, 6, f.kopi.Stock)
	assert.Equal(t, 2, f.gula.Stock)
}

func TestCreateTransactionInvoiceNumber(t *testing.T) {
	f := newCommitFixture(t)
	f.txRepo.dateCount = 41

	tx, err := f.svc.CreateTransaction(context.Background(), &CreateTransactionInput{
		CashierID: f.cashier.ID,
		Items:     []TransactionItemInput{{ProductID: f.kopi.ID, Quantity: 1}},
		Payment:   2500,
	})
	require.NoError(t, err)

	want := "INV-" + time.Now().Format("20060102") + "-0042"
	assert.Equal(t, want, tx.InvoiceNo)
}

func TestCreateTransactionInsufficientPayment(t *testing.T) {
	f := newCommitFixture(t)

	_, err := f.svc.CreateTransaction(context.Background(), &CreateTransactionInput{
		CashierID: f.cashier.ID,
		Items:     []TransactionItemInput{{ProductID: f.gula.ID, Quantity: 2}},
		Payment:   29999,
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)

	// Nothing was persisted or decremented
	assert.Empty(t, f.txRepo.created)
	assert.Equal(t, 3, f.gula.Stock)
}

func TestCreateTransactionInsufficientStock(t *testing.T) {
	f := newCommitFixture(t)

	_, err := f.svc.CreateTransaction(context.Background(), &CreateTransactionInput{
		CashierID: f.cashier.ID,
		Items: []TransactionItemInput{
			{ProductID: f.kopi.ID, Quantity: 2},
			{ProductID: f.gula.ID, Quantity: 4}, // only 3 on hand
		},
		Payment: 100000,
	})
	require.Error(t, err)

	appErr := apperror.GetAppError(err)
	assert.Equal(t, 409, appErr.Code)
	assert.Contains(t, appErr.Message, "Gula 1kg")

	// The batch failed as a whole, kopi stock untouched
	assert.Equal(t, 10, f.kopi.Stock)
	assert.Equal(t, 3, f.gula.Stock)
}

func TestCreateTransactionDiscountClampedToSubtotal(t *testing.T) {
	f := newCommitFixture(t)

	tx, err := f.svc.CreateTransaction(context.Background(), &CreateTransactionInput{
		CashierID: f.cashier.ID,
		Items:     []TransactionItemInput{{ProductID: f.kopi.ID, Quantity: 2}}, // 5000
		Discount:  checkout.DiscountSpec{Kind: checkout.DiscountFixed, Value: 30000},
		Payment:   0,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5000), tx.Subtotal)
	assert.Equal(t, int64(5000), tx.Discount)
	assert.Equal(t, int64(0), tx.Total)
	assert.Equal(t, int64(0), tx.Change)
}

func TestCreateTransactionEmptyCart(t *testing.T) {
	f := newCommitFixture(t)

	_, err := f.svc.CreateTransaction(context.Background(), &CreateTransactionInput{
		CashierID: f.cashier.ID,
		Payment:   10000,
	})
	assert.ErrorIs(t, err, apperror.ErrEmptyCart)
}

func TestCreateTransactionUnknownProduct(t *testing.T) {
	f := newCommitFixture(t)

	_, err := f.svc.CreateTransaction(context.Background(), &CreateTransactionInput{
		CashierID: f.cashier.ID,
		Items:     []TransactionItemInput{{ProductID: uuid.New(), Quantity: 1}},
		Payment:   10000,
	})
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestCreateTransactionInactiveProduct(t *testing.T) {
	f := newCommitFixture(t)
	f.kopi.Active = false

	_, err := f.svc.CreateTransaction(context.Background(), &CreateTransactionInput{
		CashierID: f.cashier.ID,
		Items:     []TransactionItemInput{{ProductID: f.kopi.ID, Quantity: 1}},
		Payment:   10000,
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestCreateTransactionRestoresStockWhenCreateFails(t *testing.T) {
	f := newCommitFixture(t)
	f.txRepo.createErr = assert.AnError

	_, err := f.svc.CreateTransaction(context.Background(), &CreateTransactionInput{
		CashierID: f.cashier.ID,
		Items:     []TransactionItemInput{{ProductID: f.kopi.ID, Quantity: 5}},
		Payment:   50000,
	})
	require.Error(t, err)

	assert.Equal(t, 10, f.kopi.Stock)
}
