package utils

import (
	"strings"

	"github.com/google/uuid"
)

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// shortCode takes n hex digits (at most 32) from a random UUID.
func shortCode(prefix string, n int) string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + "-" + strings.ToUpper(hex[:n])
}

// GenerateBillNo generates a human-facing bill number such as
// BILL-1A2B3C4D5E6F. Callers still retry on the rare duplicate.
func GenerateBillNo() string {
	return shortCode("BILL", 12)
}

// GenerateProductCode generates a product code such as PROD-1A2B3C4D
func GenerateProductCode() string {
	return shortCode("PROD", 8)
}
