package viewmodel

import (
	"github.com/kitty-tang-hs/killbill-admin-ui/app/models"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/killbill"
)

// AccountsIndex backs the account list. Rows are loaded by the table from
// /accounts/pagination.
type AccountsIndex struct {
	Search string
	Total  int
}

type AccountShow struct {
	CSRF           string
	Account        *killbill.Account
	Parent         *killbill.Account
	Tags           []killbill.Tag
	Emails         []killbill.AccountEmail
	OverdueState   *killbill.OverdueState
	PaymentMethods []killbill.PaymentMethod

	EmailNotificationsEnabled bool
	// EmailNotifications are the event types the account is subscribed to
	EmailNotifications        []string
	EventTypes                []string
}

// Subscribed reports whether the account receives emails for eventType.
func (vm AccountShow) Subscribed(eventType string) bool {
	for _, et := range vm.EmailNotifications {
		if et == eventType {
			return true
		}
	}
	return false
}

// AccountForm backs the new and edit pages.
type AccountForm struct {
	CSRF      string
	AccountID string
	Form      models.AccountForm
	Action    string
}

func (vm AccountForm) IsNew() bool {
	return vm.AccountID == ""
}
