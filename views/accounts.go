package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/constants"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/killbill"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/viewmodel"
)

func AccountPath(accountID string) string {
	return constants.AccountsRoute + "/" + accountID
}

func AccountsIndex(vm viewmodel.AccountsIndex) templ.Component {
	return component(func(p *page) {
		p.raw(`<section class="accounts"><h1>Accounts</h1>`)
		p.rawf(`<p class="total">%d accounts</p>`, vm.Total)
		p.raw(`<p><a href="/accounts/new">New account</a></p>`)
		p.raw(`<table id="accounts-table" data-source="/accounts/pagination" data-search="`)
		p.text(vm.Search)
		p.raw(`"><thead><tr><th>ID</th><th>Name</th><th>External key</th><th>Email</th><th>Currency</th></tr></thead>`)
		p.raw(`<tbody></tbody></table></section>`)
	})
}

func AccountShow(vm viewmodel.AccountShow) templ.Component {
	return component(func(p *page) {
		a := vm.Account
		path := AccountPath(a.AccountID)

		p.raw(`<section class="account"><h1>`)
		p.text(a.Name)
		p.raw(`</h1><p><a href="`)
		p.text(path + "/edit")
		p.raw(`">Edit</a></p><dl>`)
		p.definition("Account ID", a.AccountID)
		p.definition("External key", a.ExternalKey)
		p.definition("Email", a.Email)
		p.definition("Currency", a.Currency)
		p.definition("Balance", amount(a.AccountBalance))
		p.definition("Credit (CBA)", amount(a.AccountCBA))
		p.definition("Bill cycle day", strconv.Itoa(a.BillCycleDayLocal))
		p.definition("Time zone", a.TimeZone)
		p.definition("Locale", a.Locale)
		p.definition("Company", a.Company)
		p.definition("Address", a.Address1+" "+a.Address2)
		p.definition("City", a.City)
		p.definition("State", a.State)
		p.definition("Postal code", a.PostalCode)
		p.definition("Country", a.Country)
		p.definition("Phone", a.Phone)
		p.definition("Notified for invoices", yesNo(a.IsNotifiedForInvoices))
		p.definition("Migrated", yesNo(a.IsMigrated))
		p.raw(`</dl>`)
		p.raw(`<p>Next invoice date: <span class="next-invoice-date" data-url="`)
		p.text(path + "/next_invoice_date")
		p.raw(`"></span></p>`)
		p.raw(`</section>`)

		accountParent(p, vm)
		accountOverdue(p, vm.OverdueState)
		accountTags(p, vm.Tags)
		accountEmails(p, vm.Emails)
		accountPaymentMethods(p, vm)
		accountInvoicing(p, vm)
		if vm.EmailNotificationsEnabled {
			accountEmailNotifications(p, vm)
		}
	})
}

func accountParent(p *page, vm viewmodel.AccountShow) {
	path := AccountPath(vm.Account.AccountID)
	p.raw(`<section class="parent"><h2>Parent account</h2>`)
	if vm.Parent != nil {
		p.raw(`<p><a href="`)
		p.text(AccountPath(vm.Parent.AccountID))
		p.raw(`">`)
		p.text(vm.Parent.Name)
		p.raw(`</a> (payment delegated: `)
		p.text(yesNo(vm.Account.IsPaymentDelegatedToParent))
		p.raw(`)</p>`)
		p.postButton(path+"/unlink_to_parent", vm.CSRF, "Unlink", nil)
	}
	p.raw(`<form method="post" action="`)
	p.text(path + "/link_to_parent")
	p.raw(`">`)
	p.csrfField(vm.CSRF)
	p.raw(`<input type="text" name="account[parent_account_id]" placeholder="Parent account id or external key">`)
	p.raw(`<input type="hidden" name="account[is_payment_delegated_to_parent]" value="0">`)
	p.raw(`<label><input type="checkbox" name="account[is_payment_delegated_to_parent]" value="1"> Delegate payments</label>`)
	p.raw(`<button type="submit">Link</button></form></section>`)
}

func accountOverdue(p *page, state *killbill.OverdueState) {
	if state == nil {
		return
	}
	p.raw(`<section class="overdue"><h2>Overdue state</h2><p>`)
	if state.IsClearState {
		p.raw(`Good standing`)
	} else {
		p.text(state.Name)
		if state.ExternalMessage != "" {
			p.raw(`: `)
			p.text(state.ExternalMessage)
		}
	}
	p.raw(`</p></section>`)
}

func accountTags(p *page, tags []killbill.Tag) {
	p.raw(`<section class="tags"><h2>Tags</h2><ul>`)
	for _, tag := range tags {
		p.raw(`<li>`)
		p.text(tag.TagDefinitionName)
		p.raw(`</li>`)
	}
	p.raw(`</ul></section>`)
}

func accountEmails(p *page, emails []killbill.AccountEmail) {
	p.raw(`<section class="emails"><h2>Additional emails</h2><ul>`)
	for _, e := range emails {
		p.raw(`<li>`)
		p.text(e.Email)
		p.raw(`</li>`)
	}
	p.raw(`</ul></section>`)
}

func accountPaymentMethods(p *page, vm viewmodel.AccountShow) {
	path := AccountPath(vm.Account.AccountID)
	p.raw(`<section class="payment-methods"><h2>Payment methods</h2><table><thead><tr><th>ID</th><th>Plugin</th><th>Default</th><th></th></tr></thead><tbody>`)
	for _, pm := range vm.PaymentMethods {
		p.raw(`<tr><td>`)
		p.text(pm.PaymentMethodID)
		p.raw(`</td><td>`)
		p.text(pm.PluginName)
		p.raw(`</td><td>`)
		p.text(yesNo(pm.IsDefault))
		p.raw(`</td><td>`)
		if !pm.IsDefault {
			p.postButton(path+"/set_default_payment_method", vm.CSRF, "Set default", map[string]string{"payment_method_id": pm.PaymentMethodID})
		}
		p.raw(`</td></tr>`)
	}
	p.raw(`</tbody></table></section>`)
}

func accountInvoicing(p *page, vm viewmodel.AccountShow) {
	path := AccountPath(vm.Account.AccountID)
	p.raw(`<section class="invoicing"><h2>Invoices and payments</h2>`)

	p.raw(`<form method="post" action="`)
	p.text(path + "/trigger_invoice")
	p.raw(`">`)
	p.csrfField(vm.CSRF)
	p.raw(`<input type="date" name="target_date">`)
	p.raw(`<label><input type="checkbox" name="dry_run" value="1"> Dry run</label>`)
	p.raw(`<button type="submit">Trigger invoice</button></form>`)

	p.raw(`<form method="post" action="`)
	p.text(path + "/pay_all_invoices")
	p.raw(`">`)
	p.csrfField(vm.CSRF)
	p.raw(`<label><input type="checkbox" name="is_external_payment" value="true"> External payment</label>`)
	p.raw(`<button type="submit">Pay all unpaid invoices</button></form></section>`)
}

func accountEmailNotifications(p *page, vm viewmodel.AccountShow) {
	p.raw(`<section class="email-notifications"><h2>Email notifications</h2>`)
	p.raw(`<form method="post" action="/accounts/email_notifications">`)
	p.csrfField(vm.CSRF)
	p.raw(`<input type="hidden" name="configuration[account_id]" value="`)
	p.text(vm.Account.AccountID)
	p.raw(`">`)
	for _, et := range vm.EventTypes {
		p.raw(`<label><input type="checkbox" name="configuration[event_types][]" value="`)
		p.text(et)
		p.raw(`"`)
		if vm.Subscribed(et) {
			p.raw(` checked`)
		}
		p.raw(`> `)
		p.text(et)
		p.raw(`</label>`)
	}
	p.raw(`<button type="submit">Save</button></form></section>`)
}

type formField struct {
	label string
	name  string
	value string
}

func AccountForm(vm viewmodel.AccountForm) templ.Component {
	return component(func(p *page) {
		f := vm.Form
		title := "New account"
		if !vm.IsNew() {
			title = "Edit account"
		}

		p.raw(`<section class="account-form"><h1>`)
		p.text(title)
		p.raw(`</h1><form method="post" action="`)
		p.text(vm.Action)
		p.raw(`">`)
		p.csrfField(vm.CSRF)

		fields := []formField{{"Name", "name", f.Name}}
		if vm.IsNew() {
			fields = append(fields,
				formField{"External key", "external_key", f.ExternalKey},
				formField{"Currency", "currency", f.Currency},
			)
		} else {
			hiddenField(p, "external_key", f.ExternalKey)
			hiddenField(p, "currency", f.Currency)
			// Updates reset absent fields, the parent link has its own form
			hiddenField(p, "parent_account_id", f.ParentAccountID)
			if f.IsPaymentDelegatedToParent {
				hiddenField(p, "is_payment_delegated_to_parent", "1")
			}
		}
		fields = append(fields,
			formField{"First name length", "first_name_length", intValue(f.FirstNameLength)},
			formField{"Email", "email", f.Email},
			formField{"Bill cycle day", "bill_cycle_day_local", intValue(f.BillCycleDayLocal)},
			formField{"Time zone", "time_zone", f.TimeZone},
			formField{"Reference time", "reference_time", f.ReferenceTime},
			formField{"Locale", "locale", f.Locale},
			formField{"Company", "company", f.Company},
			formField{"Address 1", "address1", f.Address1},
			formField{"Address 2", "address2", f.Address2},
			formField{"City", "city", f.City},
			formField{"State", "state", f.State},
			formField{"Postal code", "postal_code", f.PostalCode},
			formField{"Country", "country", f.Country},
			formField{"Phone", "phone", f.Phone},
			formField{"Notes", "notes", f.Notes},
		)
		for _, field := range fields {
			p.raw(`<label>`)
			p.text(field.label)
			p.raw(` <input type="text" name="account[`)
			p.text(field.name)
			p.raw(`]" value="`)
			p.text(field.value)
			p.raw(`"></label>`)
		}

		checkbox(p, "Notified for invoices", "is_notified_for_invoices", f.IsNotifiedForInvoices)
		checkbox(p, "Migrated", "is_migrated", f.IsMigrated)

		p.raw(`<button type="submit">Save</button></form></section>`)
	})
}

func hiddenField(p *page, name, value string) {
	if value == "" {
		return
	}
	p.raw(`<input type="hidden" name="account[`)
	p.text(name)
	p.raw(`]" value="`)
	p.text(value)
	p.raw(`">`)
}

// checkbox sends "0" when unchecked, the checked value comes last and wins.
func checkbox(p *page, label, name string, checked bool) {
	p.raw(`<input type="hidden" name="account[`)
	p.text(name)
	p.raw(`]" value="0"><label><input type="checkbox" name="account[`)
	p.text(name)
	p.raw(`]" value="1"`)
	if checked {
		p.raw(` checked`)
	}
	p.raw(`> `)
	p.text(label)
	p.raw(`</label>`)
}

func intValue(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
