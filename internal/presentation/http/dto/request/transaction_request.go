package request

import "github.com/google/uuid"

// TransactionItemRequest names a product and quantity; unit prices are
// deliberately not accepted from clients.
type TransactionItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// DiscountRequest is the discount spec applied to the whole sale
type DiscountRequest struct {
	Kind  string  `json:"kind" binding:"omitempty,oneof=percent fixed"`
	Value float64 `json:"value"`
}

// CreateTransactionRequest represents a checkout commit
type CreateTransactionRequest struct {
	Items    []TransactionItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount DiscountRequest          `json:"discount"`
	Payment  int64                    `json:"payment" binding:"min=0"`
}

// TransactionFilterRequest represents transaction filter parameters
type TransactionFilterRequest struct {
	Search    string `form:"search"`
	CashierID string `form:"cashier_id"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
