package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/killbill"
)

func TestAccountFormSetFieldDropsBlanks(t *testing.T) {
	var f AccountForm
	f.SetField("name", "  ")
	f.SetField("email", "john@example.com")
	f.SetField("is_migrated", "1")
	f.SetField("is_notified_for_invoices", "0")
	f.SetField("bill_cycle_day_local", "15")
	f.SetField("unknown", "ignored")

	assert.Empty(t, f.Name)
	assert.Equal(t, "john@example.com", f.Email)
	assert.True(t, f.IsMigrated)
	assert.False(t, f.IsNotifiedForInvoices)
	assert.Equal(t, 15, f.BillCycleDayLocal)
}

func TestAccountFormCheckboxLastValueWins(t *testing.T) {
	var f AccountForm
	f.SetField("is_migrated", "0")
	f.SetField("is_migrated", "1")
	assert.True(t, f.IsMigrated)
}

func TestAccountFormValidate(t *testing.T) {
	valid := AccountForm{Name: "John", Email: "john@example.com", Currency: "USD", Country: "AR"}
	require.NoError(t, valid.Validate())

	invalid := AccountForm{Email: "not-an-email", Currency: "XXXX", Country: "Argentina", ParentAccountID: "abc"}
	err := invalid.Validate()
	require.Error(t, err)
	assert.Equal(t, "invalid email, invalid currency, invalid country, invalid parent_account_id", err.Error())
}

func TestAccountFormToAccount(t *testing.T) {
	f := AccountForm{Name: "John", Currency: "usd", Country: "ar", TimeZone: "-06:00", IsMigrated: true}
	a := f.ToAccount("acc-1")

	assert.Equal(t, "acc-1", a.AccountID)
	assert.Equal(t, "USD", a.Currency)
	assert.Equal(t, "AR", a.Country)
	assert.Equal(t, "-06:00", a.TimeZone)
	assert.True(t, a.IsMigrated)
	assert.False(t, a.IsNotifiedForInvoices)
}

func TestAccountFormFrom(t *testing.T) {
	f := AccountFormFrom(&killbill.Account{Name: "Jane", ParentAccountID: "p-1", IsPaymentDelegatedToParent: true})
	assert.Equal(t, "Jane", f.Name)
	assert.Equal(t, "p-1", f.ParentAccountID)
	assert.True(t, f.IsPaymentDelegatedToParent)
}

func TestFormFieldName(t *testing.T) {
	assert.Equal(t, "parent_account_id", formFieldName("ParentAccountID"))
	assert.Equal(t, "address1", formFieldName("Address1"))
	assert.Equal(t, "bill_cycle_day_local", formFieldName("BillCycleDayLocal"))
}

func TestTenantValidate(t *testing.T) {
	assert.NoError(t, (&Tenant{Name: "acme", APIKey: "acme", APISecret: "secret"}).Validate())
	assert.Error(t, (&Tenant{Name: "", APIKey: "acme", APISecret: "secret"}).Validate())
	assert.Error(t, (&Tenant{Name: "acme", APIKey: "acme", APISecret: "secret", KBTenantID: "nope"}).Validate())
	assert.Equal(t, "kaui_tenants", Tenant{}.TableName())
}
