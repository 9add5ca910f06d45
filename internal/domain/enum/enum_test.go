package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillStatus_JSON(t *testing.T) {
	raw, err := json.Marshal(BillStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, `"Cancelled"`, string(raw))

	var s BillStatus
	require.NoError(t, json.Unmarshal([]byte(`"Paid"`), &s))
	assert.Equal(t, BillStatusPaid, s)

	require.NoError(t, json.Unmarshal([]byte(`1`), &s))
	assert.Equal(t, BillStatusCancelled, s)

	assert.Error(t, json.Unmarshal([]byte(`"Refunded"`), &s))
}

func TestParseComplexity(t *testing.T) {
	c, err := ParseComplexity("HIGH")
	require.NoError(t, err)
	assert.Equal(t, ComplexityHigh, c)

	_, err = ParseComplexity("extreme")
	assert.Error(t, err)
}

func TestRole_Permissions(t *testing.T) {
	assert.True(t, RoleAdmin.Can(PermManageUsers))
	assert.True(t, RoleCashier.Can(PermManageBilling))
	assert.False(t, RoleCashier.Can(PermManageProduction))
	assert.False(t, RolePlanner.Can(PermManageBilling))

	perms := RoleCashier.Permissions()
	perms[0] = "tampered"
	assert.True(t, RoleCashier.Can(PermManageBilling))

	_, err := ParseRole("owner")
	assert.Error(t, err)
}
