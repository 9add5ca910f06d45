package entity

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/stockroom-api/internal/domain/enum"
)

func TestProduct_MarshalJSON(t *testing.T) {
	p := Product{
		Name:         "Steel bolt",
		Code:         "PROD-1",
		Category:     "Hardware",
		Price:        decimal.RequireFromString("12.50"),
		CurrentStock: 3,
		ReorderLevel: 5,
	}

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, 12.5, out["price"])
	assert.Equal(t, float64(3), out["current_stock"])
	assert.Equal(t, true, out["low_stock"])
	assert.Equal(t, "Hardware", out["category"])
}

func TestBill_MarshalJSON(t *testing.T) {
	b := Bill{
		BillNo:         "BILL-0000AAAA",
		Subtotal:       decimal.NewFromInt(200),
		DiscountAmount: decimal.NewFromInt(20),
		TaxAmount:      decimal.RequireFromString("32.4"),
		GrandTotal:     decimal.RequireFromString("212.4"),
		Status:         enum.BillStatusPaid,
	}

	raw, err := json.Marshal(b)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, 212.4, out["total_amount"])
	assert.Equal(t, float64(180), out["taxable_amount"])
	assert.Equal(t, "Paid", out["status"])
	assert.Equal(t, []interface{}{}, out["items"])
}

func TestProduct_StockValue(t *testing.T) {
	p := Product{Price: decimal.RequireFromString("2.25"), CurrentStock: 4}
	assert.True(t, p.StockValue().Equal(decimal.NewFromInt(9)))
}
