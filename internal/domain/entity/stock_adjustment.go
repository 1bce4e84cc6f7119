package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deskastudio/kasir-umkm-api/internal/domain/enum"
)

// StockAdjustment is a manual stock movement outside of sales: restocks,
// spoilage and count corrections. Sales decrement stock through the
// transaction flow, never through adjustments.
type StockAdjustment struct {
	ID        uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	ProductID uuid.UUID           `gorm:"type:uuid;not null;index" json:"product_id"`
	UserID    uuid.UUID           `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      enum.AdjustmentType `gorm:"not null" json:"type"`
	Quantity  int                 `gorm:"not null" json:"quantity"`
	Note      string              `gorm:"type:text" json:"note"`
	CreatedAt time.Time           `json:"created_at"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new stock adjustment
func (a *StockAdjustment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockAdjustment model
func (StockAdjustment) TableName() string {
	return "stock_adjustments"
}
