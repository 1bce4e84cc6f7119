package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	products   []Product
	categories []string
	err        error
	loads      int
}

func (f *fakeCatalog) Products(ctx context.Context, _ ProductFilter) ([]Product, error) {
	f.loads++
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeCatalog) Categories(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

type fakeCommitter struct {
	lastReq CommitRequest
	tx      *Transaction
	err     error
	calls   int
}

func (f *fakeCommitter) Submit(ctx context.Context, req CommitRequest) (*Transaction, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.tx, nil
}

func newTestSession(t *testing.T) (*Session, *fakeCatalog, *fakeCommitter, []Product) {
	t.Helper()
	products := []Product{
		testProduct("Kopi Sachet", 10000, 8),
		testProduct("Gula 1kg", 5000, 3),
	}
	catalog := &fakeCatalog{products: products, categories: []string{"Sembako"}}
	committer := &fakeCommitter{}
	s := NewSession(catalog, committer, Cashier{ID: uuid.New(), Name: "Siti"})
	require.NoError(t, s.Reload(context.Background(), ProductFilter{ActiveOnly: true}))
	return s, catalog, committer, products
}

func serverTransaction(items []TransactionItem, subtotal, discount, payment int64) *Transaction {
	total := subtotal - discount
	return &Transaction{
		ID:        uuid.New(),
		InvoiceNo: "INV-a1b2c3d4",
		Items:     items,
		Subtotal:  subtotal,
		Discount:  discount,
		Total:     total,
		Payment:   payment,
		Change:    payment - total,
		CreatedAt: time.Now(),
	}
}

func fillCart(t *testing.T, s *Session, products []Product) {
	t.Helper()
	// 2x Kopi Sachet, 1x Gula = 25000
	require.NoError(t, s.AddLine(products[0].ID))
	require.NoError(t, s.AddLine(products[0].ID))
	require.NoError(t, s.AddLine(products[1].ID))
}

func TestSessionHappyPath(t *testing.T) {
	s, catalog, committer, products := newTestSession(t)
	fillCart(t, s, products)

	pricing, err := s.BeginPayment(DiscountSpec{Kind: DiscountPercent, Value: 10})
	require.NoError(t, err)
	assert.Equal(t, Pricing{Subtotal: 25000, Discount: 2500, Total: 22500}, pricing)
	assert.Equal(t, StateAwaitingPayment, s.State())

	assert.False(t, s.CanCommit(20000))
	assert.True(t, s.CanCommit(22500))
	assert.True(t, s.CanCommit(25000))

	committer.tx = serverTransaction([]TransactionItem{
		{ProductID: products[0].ID, ProductName: "Kopi Sachet", UnitPrice: 10000, Quantity: 2},
		{ProductID: products[1].ID, ProductName: "Gula 1kg", UnitPrice: 5000, Quantity: 1},
	}, 25000, 2500, 25000)

	tx, err := s.Commit(context.Background(), 25000)
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, StateCommitted, s.State())
	assert.Equal(t, 0, len(s.Lines()), "cart clears after a successful checkout")

	req := committer.lastReq
	require.Len(t, req.Items, 2)
	assert.Equal(t, 2, req.Items[0].Quantity)
	assert.Equal(t, int64(25000), req.Payment)
	assert.Equal(t, DiscountPercent, req.Discount.Kind)

	receipt := s.Receipt()
	require.NotNil(t, receipt)
	assert.Equal(t, "INV-a1b2c3d4", receipt.InvoiceNo)
	assert.Equal(t, int64(25000), receipt.Subtotal)
	assert.Equal(t, int64(2500), receipt.Discount)
	assert.Equal(t, int64(22500), receipt.Total)
	assert.Equal(t, int64(25000), receipt.Payment)
	assert.Equal(t, int64(2500), receipt.Change)
	assert.Equal(t, "Siti", receipt.CashierName)
	require.Len(t, receipt.Items, 2)
	assert.Equal(t, "Kopi Sachet", receipt.Items[0].Name)

	loadsBefore := catalog.loads
	require.NoError(t, s.Reconcile(context.Background(), ProductFilter{ActiveOnly: true}))
	assert.Equal(t, loadsBefore+1, catalog.loads)
}

func TestSessionInsufficientPayment(t *testing.T) {
	s, _, committer, products := newTestSession(t)
	fillCart(t, s, products)

	_, err := s.BeginPayment(DiscountSpec{Kind: DiscountPercent, Value: 10})
	require.NoError(t, err)

	_, err = s.Commit(context.Background(), 20000)
	assert.ErrorIs(t, err, ErrInsufficientPayment)
	assert.Equal(t, 0, committer.calls, "an underpayment must never reach the server")
	assert.Equal(t, StateAwaitingPayment, s.State())
	assert.Len(t, s.Lines(), 2, "cart is preserved")
}

func TestSessionEmptyCart(t *testing.T) {
	s, _, _, _ := newTestSession(t)

	_, err := s.BeginPayment(NoDiscount)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, StateBuilding, s.State())
}

func TestSessionCartFrozenDuringSettlement(t *testing.T) {
	s, _, _, products := newTestSession(t)
	fillCart(t, s, products)
	_, err := s.BeginPayment(NoDiscount)
	require.NoError(t, err)

	assert.ErrorIs(t, s.AddLine(products[0].ID), ErrCartFrozen)
	assert.ErrorIs(t, s.AdjustQuantity(products[0].ID, 1), ErrCartFrozen)
	assert.ErrorIs(t, s.RemoveLine(products[0].ID), ErrCartFrozen)
	assert.ErrorIs(t, s.ClearCart(), ErrCartFrozen)

	// Back to Building re-enables mutation and forces a fresh BeginPayment.
	require.NoError(t, s.CancelPayment())
	assert.NoError(t, s.AddLine(products[0].ID))
	_, err = s.Commit(context.Background(), 100000)
	assert.ErrorIs(t, err, ErrNoPendingPayment)
}

func TestSessionCommitFailurePreservesCart(t *testing.T) {
	s, _, committer, products := newTestSession(t)
	fillCart(t, s, products)
	_, err := s.BeginPayment(NoDiscount)
	require.NoError(t, err)

	cause := errors.New("connection reset")
	committer.err = cause

	_, err = s.Commit(context.Background(), 30000)
	var commitErr *CommitError
	require.ErrorAs(t, err, &commitErr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, StateCommitFailed, s.State())
	assert.Len(t, s.Lines(), 2, "cart survives a commit failure so the cashier can retry")
	assert.Nil(t, s.Receipt())

	// The cashier checks the transaction list, then retries.
	require.NoError(t, s.CancelPayment())
	assert.Equal(t, StateBuilding, s.State())
}

func TestSessionRetryPaymentReusesIdempotencyKey(t *testing.T) {
	s, _, committer, products := newTestSession(t)
	fillCart(t, s, products)
	_, err := s.BeginPayment(NoDiscount)
	require.NoError(t, err)

	committer.err = errors.New("connection reset")
	_, err = s.Commit(context.Background(), 30000)
	require.Error(t, err)
	require.Equal(t, StateCommitFailed, s.State())

	firstKey := committer.lastReq.IdempotencyKey
	require.NotEmpty(t, firstKey)

	pricing, err := s.RetryPayment()
	require.NoError(t, err)
	assert.Equal(t, Pricing{Subtotal: 25000, Discount: 0, Total: 25000}, pricing,
		"retry keeps the frozen pricing")
	assert.Equal(t, StateAwaitingPayment, s.State())

	committer.err = nil
	committer.tx = serverTransaction(nil, 25000, 0, 30000)
	_, err = s.Commit(context.Background(), 30000)
	require.NoError(t, err)

	assert.Equal(t, firstKey, committer.lastReq.IdempotencyKey,
		"a resubmitted settlement carries the same key so the server can replay it")
	assert.Equal(t, 2, committer.calls)
}

func TestSessionRetryPaymentOnlyAfterFailure(t *testing.T) {
	s, _, _, products := newTestSession(t)
	fillCart(t, s, products)

	_, err := s.RetryPayment()
	assert.ErrorIs(t, err, ErrNoPendingPayment)

	_, err = s.BeginPayment(NoDiscount)
	require.NoError(t, err)
	_, err = s.RetryPayment()
	assert.ErrorIs(t, err, ErrNoPendingPayment)
}

func TestSessionReceiptUsesServerFigures(t *testing.T) {
	s, _, committer, products := newTestSession(t)
	fillCart(t, s, products)
	_, err := s.BeginPayment(NoDiscount)
	require.NoError(t, err)

	// The server repriced one line between snapshot and commit; its totals
	// win on the receipt.
	committer.tx = serverTransaction([]TransactionItem{
		{ProductID: products[0].ID, ProductName: "Kopi Sachet", UnitPrice: 9000, Quantity: 2},
		{ProductID: products[1].ID, ProductName: "Gula 1kg", UnitPrice: 5000, Quantity: 1},
	}, 23000, 0, 25000)

	_, err = s.Commit(context.Background(), 25000)
	require.NoError(t, err)

	receipt := s.Receipt()
	require.NotNil(t, receipt)
	assert.Equal(t, int64(23000), receipt.Subtotal)
	assert.Equal(t, int64(23000), receipt.Total)
	assert.Equal(t, int64(2000), receipt.Change)
	assert.Equal(t, int64(9000), receipt.Items[0].Price)
}

func TestSessionReconcileFailureIsNonFatal(t *testing.T) {
	s, catalog, committer, products := newTestSession(t)
	fillCart(t, s, products)
	_, err := s.BeginPayment(NoDiscount)
	require.NoError(t, err)

	committer.tx = serverTransaction(nil, 25000, 0, 25000)
	_, err = s.Commit(context.Background(), 25000)
	require.NoError(t, err)

	catalog.err = errors.New("gateway timeout")
	err = s.Reconcile(context.Background(), ProductFilter{})
	assert.ErrorIs(t, err, ErrStaleCatalog)
	assert.Equal(t, StateCommitted, s.State(), "a failed reload never un-commits the sale")
}

func TestSessionReloadFailureKeepsSnapshot(t *testing.T) {
	s, catalog, _, products := newTestSession(t)
	fillCart(t, s, products)

	catalog.err = errors.New("503 from server")
	err := s.Reload(context.Background(), ProductFilter{})
	require.Error(t, err)

	_, ok := s.Snapshot().Product(products[0].ID)
	assert.True(t, ok, "previous snapshot survives a failed reload")
	assert.Len(t, s.Lines(), 2)
}

func TestSessionAddUnknownProduct(t *testing.T) {
	s, _, _, _ := newTestSession(t)
	assert.ErrorIs(t, s.AddLine(uuid.New()), ErrUnknownProduct)
}

func TestSnapshotCategories(t *testing.T) {
	s, _, _, _ := newTestSession(t)
	assert.Equal(t, []string{"Sembako"}, s.Snapshot().Categories())
}
