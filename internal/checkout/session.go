package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle position of one checkout session.
type State string

const (
	// StateBuilding is the only state in which the cart may be mutated.
	StateBuilding State = "building"
	// StateAwaitingPayment freezes the pricing used for settlement.
	StateAwaitingPayment State = "awaiting_payment"
	// StateCommitting means the commit request is in flight.
	StateCommitting State = "committing"
	// StateCommitted is terminal; a new session starts a fresh cart.
	StateCommitted State = "committed"
	// StateCommitFailed means the commit request failed after submission.
	StateCommitFailed State = "commit_failed"
)

// CommitItem is one line of a commit request. Unit prices are deliberately
// absent: the server prices every sale from its own catalog.
type CommitItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// CommitRequest is what settlement sends to the server. It carries the
// discount spec, not the discount amount, so the server can recompute the
// discounted total authoritatively. IdempotencyKey is fixed when payment
// begins and reused on every retry of the same settlement, so an ambiguous
// failure cannot turn into a duplicate sale.
type CommitRequest struct {
	Items          []CommitItem `json:"items"`
	Discount       DiscountSpec `json:"discount"`
	Payment        int64        `json:"payment"`
	IdempotencyKey string       `json:"-"`
}

// TransactionItem is a committed line as recorded by the server, with name
// and price denormalized at sale time.
type TransactionItem struct {
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   int64
	Quantity    int
}

// Transaction is the server's authoritative record of a committed sale.
type Transaction struct {
	ID          uuid.UUID
	InvoiceNo   string
	Items       []TransactionItem
	Subtotal    int64
	Discount    int64
	Total       int64
	Payment     int64
	Change      int64
	CashierID   uuid.UUID
	CashierName string
	CreatedAt   time.Time
}

// Committer submits a commit request and returns the created transaction.
type Committer interface {
	Submit(ctx context.Context, req CommitRequest) (*Transaction, error)
}

// Cashier identifies the user running the session.
type Cashier struct {
	ID   uuid.UUID
	Name string
}

// Session drives one checkout from catalog load to receipt. It is not safe
// for concurrent use; each cashier terminal owns its own session.
type Session struct {
	catalog   Catalog
	committer Committer
	cashier   Cashier

	state          State
	snapshot       *Snapshot
	cart           *Cart
	discount       DiscountSpec
	pricing        Pricing
	idempotencyKey string
	receipt        *Receipt
}

// NewSession creates a session in the Building state with an empty cart and
// an empty snapshot. Call Reload before selling.
func NewSession(catalog Catalog, committer Committer, cashier Cashier) *Session {
	return &Session{
		catalog:   catalog,
		committer: committer,
		cashier:   cashier,
		state:     StateBuilding,
		snapshot:  NewSnapshot(nil, nil),
		cart:      NewCart(),
	}
}

// State returns the session's current state.
func (s *Session) State() State {
	return s.state
}

// Snapshot returns the last loaded catalog view.
func (s *Session) Snapshot() *Snapshot {
	return s.snapshot
}

// Lines returns the current cart lines.
func (s *Session) Lines() []Line {
	return s.cart.Lines()
}

// Reload fetches a fresh catalog snapshot. A failed load leaves both the
// previous snapshot and the cart untouched.
func (s *Session) Reload(ctx context.Context, f ProductFilter) error {
	products, err := s.catalog.Products(ctx, f)
	if err != nil {
		return err
	}
	categories, err := s.catalog.Categories(ctx)
	if err != nil {
		return err
	}
	s.snapshot = NewSnapshot(products, categories)
	return nil
}

// AddLine puts one unit of the product in the cart.
func (s *Session) AddLine(productID uuid.UUID) error {
	if s.state != StateBuilding {
		return ErrCartFrozen
	}
	p, ok := s.snapshot.Product(productID)
	if !ok {
		return ErrUnknownProduct
	}
	return s.cart.Add(p)
}

// AdjustQuantity applies delta to a line's quantity.
func (s *Session) AdjustQuantity(productID uuid.UUID, delta int) error {
	if s.state != StateBuilding {
		return ErrCartFrozen
	}
	p, ok := s.snapshot.Product(productID)
	if !ok {
		return ErrUnknownProduct
	}
	return s.cart.Adjust(productID, delta, p.Stock)
}

// RemoveLine deletes a cart line.
func (s *Session) RemoveLine(productID uuid.UUID) error {
	if s.state != StateBuilding {
		return ErrCartFrozen
	}
	s.cart.Remove(productID)
	return nil
}

// ClearCart empties the cart.
func (s *Session) ClearCart() error {
	if s.state != StateBuilding {
		return ErrCartFrozen
	}
	s.cart.Clear()
	return nil
}

// LivePricing computes display totals for the current cart and a candidate
// discount without freezing anything.
func (s *Session) LivePricing(spec DiscountSpec) Pricing {
	return ComputePricing(s.cart.Lines(), spec)
}

// BeginPayment freezes the pricing for settlement and moves to
// AwaitingPayment. Changing the cart or discount after this point requires
// CancelPayment first, so a stale total can never be settled.
func (s *Session) BeginPayment(spec DiscountSpec) (Pricing, error) {
	if s.state != StateBuilding {
		return Pricing{}, ErrCartFrozen
	}
	if s.cart.Len() == 0 {
		return Pricing{}, ErrEmptyCart
	}
	s.discount = spec
	s.pricing = ComputePricing(s.cart.Lines(), spec)
	s.idempotencyKey = uuid.New().String()
	s.state = StateAwaitingPayment
	return s.pricing, nil
}

// CancelPayment abandons a pending or failed settlement and returns to
// Building. Nothing was sent in AwaitingPayment, so there is no side
// effect to undo; after a commit failure the cart is preserved for retry.
// Use RetryPayment instead to resubmit a failed settlement unchanged.
func (s *Session) CancelPayment() error {
	if s.state != StateAwaitingPayment && s.state != StateCommitFailed {
		return ErrNoPendingPayment
	}
	s.state = StateBuilding
	return nil
}

// RetryPayment returns a failed settlement to AwaitingPayment with the
// frozen pricing and idempotency key intact. The resubmission carries the
// same key, so if the first attempt did reach the server the replay cache
// answers with the original transaction instead of selling twice.
func (s *Session) RetryPayment() (Pricing, error) {
	if s.state != StateCommitFailed {
		return Pricing{}, ErrNoPendingPayment
	}
	s.state = StateAwaitingPayment
	return s.pricing, nil
}

// CanCommit reports whether the tendered payment covers the frozen total.
func (s *Session) CanCommit(payment int64) bool {
	return s.state == StateAwaitingPayment && payment >= s.pricing.Total
}

// Commit validates the payment, submits the transaction and, on success,
// builds the receipt and clears the cart. Local validation failures are
// returned before anything is sent. A failure after submission comes back
// as *CommitError: the caller resubmits through RetryPayment, which keeps
// the idempotency key so a duplicate charge cannot occur.
func (s *Session) Commit(ctx context.Context, payment int64) (*Transaction, error) {
	if s.state != StateAwaitingPayment {
		return nil, ErrNoPendingPayment
	}
	if s.cart.Len() == 0 {
		return nil, ErrEmptyCart
	}
	if payment < s.pricing.Total {
		return nil, ErrInsufficientPayment
	}

	lines := s.cart.Lines()
	req := CommitRequest{
		Items:          make([]CommitItem, len(lines)),
		Discount:       s.discount,
		Payment:        payment,
		IdempotencyKey: s.idempotencyKey,
	}
	for i, l := range lines {
		req.Items[i] = CommitItem{ProductID: l.ProductID, Quantity: l.Quantity}
	}

	s.state = StateCommitting
	tx, err := s.committer.Submit(ctx, req)
	if err != nil {
		s.state = StateCommitFailed
		return nil, &CommitError{Err: err}
	}

	s.state = StateCommitted
	s.receipt = BuildReceipt(tx, s.pricing, payment, s.cashier.Name)
	s.cart.Clear()
	return tx, nil
}

// Receipt returns the receipt built at commit time, nil before Committed.
func (s *Session) Receipt() *Receipt {
	return s.receipt
}

// Reconcile reloads the catalog after a successful commit so displayed
// stock reflects the server-side decrement. A failed reload does not undo
// the checkout; it reports ErrStaleCatalog (joined with the cause) so the
// caller can warn and retry on the next catalog visit.
func (s *Session) Reconcile(ctx context.Context, f ProductFilter) error {
	if err := s.Reload(ctx, f); err != nil {
		return errors.Join(ErrStaleCatalog, err)
	}
	return nil
}
