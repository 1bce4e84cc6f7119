package checkout

import "github.com/google/uuid"

// Line is one cart entry. UnitPrice is captured when the product is first
// added, so a catalog reload does not silently reprice an open cart.
type Line struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unit_price"`
	Quantity  int       `json:"quantity"`
}

// Cart holds the in-progress selection for one checkout. Lines keep
// insertion order and there is never more than one line per product.
type Cart struct {
	lines []Line
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) find(productID uuid.UUID) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add puts one unit of the product in the cart: a new line with quantity 1,
// or an increment of the existing line. Returns ErrInsufficientStock, with
// the cart unchanged, when the result would exceed the product's stock.
func (c *Cart) Add(p Product) error {
	i := c.find(p.ID)
	if i < 0 {
		if p.Stock < 1 {
			return ErrInsufficientStock
		}
		c.lines = append(c.lines, Line{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  1,
		})
		return nil
	}
	if c.lines[i].Quantity+1 > p.Stock {
		return ErrInsufficientStock
	}
	c.lines[i].Quantity++
	return nil
}

// Adjust applies delta to the line's quantity against the given stock
// ceiling. A result of zero or below is a no-op: removing a line is an
// explicit Remove, never a decrement side effect.
func (c *Cart) Adjust(productID uuid.UUID, delta, stockOnHand int) error {
	i := c.find(productID)
	if i < 0 {
		return ErrUnknownProduct
	}
	next := c.lines[i].Quantity + delta
	if next <= 0 {
		return nil
	}
	if next > stockOnHand {
		return ErrInsufficientStock
	}
	c.lines[i].Quantity = next
	return nil
}

// Remove deletes the line unconditionally. Removing an absent product is a
// no-op.
func (c *Cart) Remove(productID uuid.UUID) {
	i := c.find(productID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// Quantity returns the quantity for a product, zero when absent.
func (c *Cart) Quantity(productID uuid.UUID) int {
	i := c.find(productID)
	if i < 0 {
		return 0
	}
	return c.lines[i].Quantity
}
