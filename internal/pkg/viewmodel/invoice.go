package viewmodel

import "github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/killbill"

type InvoiceShow struct {
	Account *killbill.Account
	Invoice *killbill.Invoice
}

// DryRun reports whether the invoice is a preview that was not persisted.
func (vm InvoiceShow) DryRun() bool {
	return vm.Invoice != nil && vm.Invoice.IsDryRun()
}
