package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "Vendor-25-0001", FormatNumber("Vendor", 2025, 1))
	assert.Equal(t, "PO-26-0042", FormatNumber("PO", 2026, 42))
	assert.Equal(t, "Contract-25-1234", FormatNumber("Contract", 2025, 1234))
	// sequence beyond four digits must not be truncated
	assert.Equal(t, "Invoice-25-12345", FormatNumber("Invoice", 2025, 12345))
	// century rollover keeps two year digits
	assert.Equal(t, "Asset-00-0001", FormatNumber("Asset", 2100, 1))
}
