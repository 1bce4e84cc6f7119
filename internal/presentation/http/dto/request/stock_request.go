package request

import "github.com/google/uuid"

// AdjustStockRequest represents a manual stock movement
type AdjustStockRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Type      string    `json:"type" binding:"required,oneof=in out correction"`
	Quantity  int       `json:"quantity" binding:"min=0"`
	Note      string    `json:"note" binding:"max=500"`
}

// AdjustmentFilterRequest represents adjustment filter parameters
type AdjustmentFilterRequest struct {
	ProductID string `form:"product_id"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
