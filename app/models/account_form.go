package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/killbill"
)

// AccountForm is the account[...] payload of the new, edit and link forms.
// Blank fields are never sent to Kill Bill.
type AccountForm struct {
	Name                       string `form:"name" validate:"max=100"`
	FirstNameLength            int    `form:"first_name_length" validate:"min=0,max=100"`
	ExternalKey                string `form:"external_key" validate:"max=255"`
	Email                      string `form:"email" validate:"omitempty,email,max=128"`
	Currency                   string `form:"currency" validate:"omitempty,iso4217"`
	TimeZone                   string `form:"time_zone" validate:"max=50"`
	ReferenceTime              string `form:"reference_time" validate:"max=30"`
	BillCycleDayLocal          int    `form:"bill_cycle_day_local" validate:"min=0,max=31"`
	Address1                   string `form:"address1" validate:"max=100"`
	Address2                   string `form:"address2" validate:"max=100"`
	PostalCode                 string `form:"postal_code" validate:"max=16"`
	Company                    string `form:"company" validate:"max=50"`
	City                       string `form:"city" validate:"max=50"`
	State                      string `form:"state" validate:"max=50"`
	Country                    string `form:"country" validate:"omitempty,iso3166_1_alpha2"`
	Locale                     string `form:"locale" validate:"max=5"`
	Phone                      string `form:"phone" validate:"max=25"`
	Notes                      string `form:"notes" validate:"max=4096"`
	ParentAccountID            string `form:"parent_account_id" validate:"omitempty,uuid"`
	IsPaymentDelegatedToParent bool   `form:"is_payment_delegated_to_parent"`
	IsMigrated                 bool   `form:"is_migrated"`
	IsNotifiedForInvoices      bool   `form:"is_notified_for_invoices"`
}

var accountFormValidator = validator.New()

// Validate checks the form locally and names every invalid field.
func (f *AccountForm) Validate() error {
	err := accountFormValidator.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("invalid %s", formFieldName(fe.StructField())))
	}
	return errors.New(strings.Join(msgs, ", "))
}

// ToAccount maps the form onto the Kill Bill resource.
func (f *AccountForm) ToAccount(accountID string) *killbill.Account {
	return &killbill.Account{
		AccountID:                  accountID,
		Name:                       f.Name,
		FirstNameLength:            f.FirstNameLength,
		ExternalKey:                f.ExternalKey,
		Email:                      f.Email,
		Currency:                   strings.ToUpper(f.Currency),
		TimeZone:                   f.TimeZone,
		ReferenceTime:              f.ReferenceTime,
		BillCycleDayLocal:          f.BillCycleDayLocal,
		Address1:                   f.Address1,
		Address2:                   f.Address2,
		PostalCode:                 f.PostalCode,
		Company:                    f.Company,
		City:                       f.City,
		State:                      f.State,
		Country:                    strings.ToUpper(f.Country),
		Locale:                     f.Locale,
		Phone:                      f.Phone,
		Notes:                      f.Notes,
		ParentAccountID:            f.ParentAccountID,
		IsPaymentDelegatedToParent: f.IsPaymentDelegatedToParent,
		IsMigrated:                 f.IsMigrated,
		IsNotifiedForInvoices:      f.IsNotifiedForInvoices,
	}
}

// AccountFormFrom fills the form from a stored account.
func AccountFormFrom(a *killbill.Account) AccountForm {
	return AccountForm{
		Name:                       a.Name,
		FirstNameLength:            a.FirstNameLength,
		ExternalKey:                a.ExternalKey,
		Email:                      a.Email,
		Currency:                   a.Currency,
		TimeZone:                   a.TimeZone,
		ReferenceTime:              a.ReferenceTime,
		BillCycleDayLocal:          a.BillCycleDayLocal,
		Address1:                   a.Address1,
		Address2:                   a.Address2,
		PostalCode:                 a.PostalCode,
		Company:                    a.Company,
		City:                       a.City,
		State:                      a.State,
		Country:                    a.Country,
		Locale:                     a.Locale,
		Phone:                      a.Phone,
		Notes:                      a.Notes,
		ParentAccountID:            a.ParentAccountID,
		IsPaymentDelegatedToParent: a.IsPaymentDelegatedToParent,
		IsMigrated:                 a.IsMigrated,
		IsNotifiedForInvoices:      a.IsNotifiedForInvoices,
	}
}

// SetField assigns one account[...] form value. Blank values are ignored,
// checkboxes are true for "1" or "true", unknown fields are skipped.
func (f *AccountForm) SetField(name, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	switch name {
	case "name":
		f.Name = value
	case "first_name_length":
		f.FirstNameLength, _ = strconv.Atoi(value)
	case "external_key":
		f.ExternalKey = value
	case "email":
		f.Email = value
	case "currency":
		f.Currency = strings.ToUpper(value)
	case "time_zone":
		f.TimeZone = value
	case "reference_time":
		f.ReferenceTime = value
	case "bill_cycle_day_local":
		f.BillCycleDayLocal, _ = strconv.Atoi(value)
	case "address1":
		f.Address1 = value
	case "address2":
		f.Address2 = value
	case "postal_code":
		f.PostalCode = value
	case "company":
		f.Company = value
	case "city":
		f.City = value
	case "state":
		f.State = value
	case "country":
		f.Country = strings.ToUpper(value)
	case "locale":
		f.Locale = value
	case "phone":
		f.Phone = value
	case "notes":
		f.Notes = value
	case "parent_account_id":
		f.ParentAccountID = value
	case "is_payment_delegated_to_parent":
		f.IsPaymentDelegatedToParent = isChecked(value)
	case "is_migrated":
		f.IsMigrated = isChecked(value)
	case "is_notified_for_invoices":
		f.IsNotifiedForInvoices = isChecked(value)
	}
}

func isChecked(value string) bool {
	return value == "1" || strings.EqualFold(value, "true")
}

func formFieldName(structField string) string {
	var b strings.Builder
	for i, r := range structField {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(structField[i-1] >= 'A' && structField[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
