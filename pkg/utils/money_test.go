package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   string
	}{
		{"zero", 0, "Rp 0"},
		{"under a thousand", 750, "Rp 750"},
		{"thousands", 2500, "Rp 2.500"},
		{"millions", 1250000, "Rp 1.250.000"},
		{"exact grouping", 1000000, "Rp 1.000.000"},
		{"negative", -22500, "-Rp 22.500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRupiah(tt.amount))
		})
	}
}
