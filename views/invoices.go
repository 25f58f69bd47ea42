package views

import (
	"github.com/a-h/templ"

	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/constants"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/viewmodel"
)

func InvoicePath(invoiceID string) string {
	return constants.InvoicesRoute + "/" + invoiceID
}

func InvoiceShow(vm viewmodel.InvoiceShow) templ.Component {
	return component(func(p *page) {
		inv := vm.Invoice
		p.raw(`<section class="invoice"><h1>`)
		if vm.DryRun() {
			p.raw(`Dry run invoice`)
		} else {
			p.raw(`Invoice `)
			p.text(inv.InvoiceNumber)
		}
		p.raw(`</h1>`)
		if vm.Account != nil {
			p.raw(`<p>Account: <a href="`)
			p.text(AccountPath(vm.Account.AccountID))
			p.raw(`">`)
			p.text(vm.Account.Name)
			p.raw(`</a></p>`)
		}
		p.raw(`<dl>`)
		if !vm.DryRun() {
			p.definition("Invoice ID", inv.InvoiceID)
			p.definition("Invoice date", inv.InvoiceDate)
			p.definition("Status", inv.Status)
		}
		p.definition("Target date", inv.TargetDate)
		p.definition("Currency", inv.Currency)
		p.definition("Amount", inv.Amount.StringFixed(2))
		p.definition("Balance", inv.Balance.StringFixed(2))
		p.definition("Credit adjustment", inv.CreditAdj.StringFixed(2))
		p.definition("Refund adjustment", inv.RefundAdj.StringFixed(2))
		p.raw(`</dl>`)

		p.raw(`<table class="invoice-items"><thead><tr><th>Type</th><th>Description</th><th>Plan</th><th>Start</th><th>End</th><th>Amount</th></tr></thead><tbody>`)
		for _, item := range inv.Items {
			p.raw(`<tr><td>`)
			p.text(item.ItemType)
			p.raw(`</td><td>`)
			p.text(item.Description)
			p.raw(`</td><td>`)
			p.text(item.PlanName)
			p.raw(`</td><td>`)
			p.text(item.StartDate)
			p.raw(`</td><td>`)
			p.text(item.EndDate)
			p.raw(`</td><td>`)
			p.text(item.Amount.StringFixed(2))
			p.raw(`</td></tr>`)
		}
		p.raw(`</tbody></table></section>`)
	})
}
