package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/stockroom-api/internal/domain/enum"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestBuildBill_EmptyCart(t *testing.T) {
	_, err := BuildBill(BuildInput{Cart: NewCart(), Customer: nil}, fixedClock)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestBuildBill_CustomerRequired(t *testing.T) {
	c := cartWith(t, "10", 1)

	_, err := BuildBill(BuildInput{Cart: c}, fixedClock)
	assert.ErrorIs(t, err, ErrCustomerRequired)

	_, err = BuildBill(BuildInput{Cart: c, Customer: &CustomerRef{Name: "nobody"}}, fixedClock)
	assert.ErrorIs(t, err, ErrCustomerRequired)
}

func TestBuildBill_SnapshotsCart(t *testing.T) {
	c := NewCart()
	widget := entry("Widget", "100", 5)
	require.NoError(t, c.AddItem(widget))
	require.NoError(t, c.AddItem(widget))

	customer := &CustomerRef{ID: uuid.New(), Name: "Acme Ltd"}
	userID := uuid.New()

	bill, err := BuildBill(BuildInput{
		Cart:     c,
		Customer: customer,
		Options:  TotalsOptions{DiscountPercent: d("10"), TaxEnabled: true, TaxRate: DefaultTaxRate},
		Notes:    "  deliver friday ",
		UserID:   userID,
	}, fixedClock)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, bill.ID)
	assert.Regexp(t, `^BILL-[0-9A-F]{8}$`, bill.BillNo)
	assert.Equal(t, fixedNow, bill.CreatedAt)
	assert.Equal(t, customer.ID, bill.CustomerID)
	assert.Equal(t, "Acme Ltd", bill.CustomerName)
	assert.Equal(t, userID, bill.UserID)
	assert.Equal(t, enum.BillStatusPaid, bill.Status)
	require.NotNil(t, bill.Notes)
	assert.Equal(t, "deliver friday", *bill.Notes)

	assert.Equal(t, "212.40", bill.GrandTotal.StringFixed(2))
	assert.Equal(t, "32.40", bill.TaxAmount.StringFixed(2))
	assert.Equal(t, "20.00", bill.DiscountAmount.StringFixed(2))

	require.Len(t, bill.Items, 1)
	assert.Equal(t, 2, bill.Items[0].Quantity)
	assert.Equal(t, bill.ID, bill.Items[0].BillID)

	// later cart changes must not reach the built bill
	require.NoError(t, c.AddItem(widget))
	c.Clear()
	assert.Equal(t, 2, bill.Items[0].Quantity)
	assert.Equal(t, "200.00", bill.Subtotal.StringFixed(2))
}

func TestBuildBill_BlankNotesAreDropped(t *testing.T) {
	bill, err := BuildBill(BuildInput{
		Cart:     cartWith(t, "5", 1),
		Customer: &CustomerRef{ID: uuid.New(), Name: "Walk-in"},
		Notes:    "   ",
	}, nil)
	require.NoError(t, err)
	assert.Nil(t, bill.Notes)
	assert.False(t, bill.CreatedAt.IsZero())
}

func TestBuildBill_UniqueIdentifiers(t *testing.T) {
	in := BuildInput{Cart: cartWith(t, "5", 1), Customer: &CustomerRef{ID: uuid.New(), Name: "A"}}

	a, err := BuildBill(in, fixedClock)
	require.NoError(t, err)
	b, err := BuildBill(in, fixedClock)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.BillNo, b.BillNo)
}

func TestSession_ResetAndTotals(t *testing.T) {
	s := NewSession(uuid.New(), fixedNow)
	widget := entry("Widget", "100", 5)
	require.NoError(t, s.Cart.AddItem(widget))
	require.NoError(t, s.Cart.AddItem(widget))
	s.DiscountPercent = d("10")
	s.Customer = &CustomerRef{ID: uuid.New(), Name: "Acme"}

	totals := s.Totals(DefaultTaxRate)
	assert.True(t, totals.GrandTotal.Equal(d("212.4")))

	s.Reset()
	assert.True(t, s.Cart.IsEmpty())
	assert.Nil(t, s.Customer)
	assert.True(t, s.DiscountPercent.IsZero())
	assert.True(t, s.TaxEnabled)
}
