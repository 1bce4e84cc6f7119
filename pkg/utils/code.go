package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateProductCode generates a unique product code
func GenerateProductCode() string {
	return "PRD-" + strings.ToUpper(uuid.New().String()[:8])
}
