package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductSortColumn(t *testing.T) {
	tests := []struct {
		name   string
		sortBy string
		want   string
	}{
		{"empty falls back", "", "name"},
		{"listed column passes", "price", "price"},
		{"stock passes", "stock", "stock"},
		{"unknown column falls back", "category_id", "name"},
		{"sql fragment falls back", "price; DROP TABLE products--", "name"},
		{"quoted fragment falls back", `name" --`, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, productSortColumn(tt.sortBy))
		})
	}
}

func TestTransactionSortColumn(t *testing.T) {
	tests := []struct {
		name   string
		sortBy string
		want   string
	}{
		{"empty falls back", "", "created_at"},
		{"listed column passes", "total", "total"},
		{"invoice passes", "invoice_no", "invoice_no"},
		{"sql fragment falls back", "total, (SELECT password FROM users LIMIT 1)", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transactionSortColumn(tt.sortBy))
		})
	}
}
