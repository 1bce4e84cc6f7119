package checkout

import "errors"

// Errors reported before anything is sent to the server. All of these are
// recoverable: the cart is left exactly as it was.
var (
	// ErrInsufficientStock means the requested quantity would exceed the
	// product's stock as of the last snapshot. Best-effort pre-check only;
	// the server re-validates at commit.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInsufficientPayment means the tendered payment is below the total.
	ErrInsufficientPayment = errors.New("payment is less than total")

	// ErrEmptyCart means settlement was attempted with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrUnknownProduct means the product id is not in the current snapshot.
	ErrUnknownProduct = errors.New("product not in catalog snapshot")

	// ErrCartFrozen means a cart mutation was attempted outside the
	// Building state.
	ErrCartFrozen = errors.New("cart is frozen during settlement")

	// ErrNoPendingPayment means a settlement call was made outside the
	// AwaitingPayment state.
	ErrNoPendingPayment = errors.New("no payment is pending")

	// ErrStaleCatalog flags a failed post-commit reload: the transaction
	// committed, but displayed stock may be stale until the next load.
	ErrStaleCatalog = errors.New("catalog snapshot may be stale")
)

// CommitError wraps a failure after the commit request was sent. The
// outcome is ambiguous: the caller must not assume stock was or was not
// decremented, and should reload the catalog before re-attempting.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string {
	return "transaction commit failed: " + e.Err.Error()
}

func (e *CommitError) Unwrap() error {
	return e.Err
}
