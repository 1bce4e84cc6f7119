package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction represents a settled sale. All amounts are whole rupiah and
// are computed server-side at commit time; clients never send them.
type Transaction struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNo   string         `gorm:"size:100;unique;not null" json:"invoice_no"`
	CashierID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"cashier_id"`
	CashierName string         `gorm:"size:255;not null" json:"cashier_name"`
	Subtotal    int64          `gorm:"not null" json:"subtotal"`
	Discount    int64          `gorm:"default:0" json:"discount"`
	Total       int64          `gorm:"not null" json:"total"`
	Payment     int64          `gorm:"not null" json:"payment"`
	Change      int64          `gorm:"not null" json:"change"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Cashier User                `gorm:"foreignKey:CashierID" json:"-"`
	Details []TransactionDetail `gorm:"foreignKey:TransactionID" json:"details,omitempty"`
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionDetail is one line of a sale. Name and unit price are copied
// from the product at sale time, so later catalog edits cannot rewrite
// history.
type TransactionDetail struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID uuid.UUID `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName   string    `gorm:"size:255;not null" json:"product_name"`
	UnitPrice     int64     `gorm:"not null" json:"unit_price"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	LineTotal     int64     `gorm:"not null" json:"line_total"`
	CreatedAt     time.Time `json:"created_at"`

	// Relationships
	Transaction Transaction `gorm:"foreignKey:TransactionID" json:"-"`
	Product     Product     `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new transaction detail
func (d *TransactionDetail) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the TransactionDetail model
func (TransactionDetail) TableName() string {
	return "transaction_details"
}
