package views

import (
	"github.com/a-h/templ"

	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/viewmodel"
)

func TenantsIndex(vm viewmodel.Tenants) templ.Component {
	return component(func(p *page) {
		p.raw(`<section class="tenants"><h1>Tenants</h1>`)
		if len(vm.Tenants) == 0 {
			p.raw(`<p>No tenant registered, the default Kill Bill credentials are used.</p>`)
		}
		p.raw(`<table><thead><tr><th>Name</th><th>Kill Bill tenant</th><th>API key</th><th></th></tr></thead><tbody>`)
		for _, t := range vm.Tenants {
			p.raw(`<tr><td>`)
			p.text(t.Name)
			p.raw(`</td><td>`)
			p.text(t.KBTenantID)
			p.raw(`</td><td>`)
			p.text(t.APIKey)
			p.raw(`</td><td>`)
			if t.KBTenantID == vm.SelectedID {
				p.raw(`<strong>Selected</strong>`)
			} else {
				p.postButton("/tenants/select", vm.CSRF, "Select", map[string]string{"tenant_id": t.KBTenantID})
			}
			p.raw(`</td></tr>`)
		}
		p.raw(`</tbody></table>`)

		p.raw(`<h2>Register a tenant</h2><form method="post" action="/tenants">`)
		p.csrfField(vm.CSRF)
		p.raw(`<label>Name <input type="text" name="name"></label>`)
		p.raw(`<label>API key <input type="text" name="api_key"></label>`)
		p.raw(`<label>API secret <input type="password" name="api_secret"></label>`)
		p.raw(`<button type="submit">Register</button></form></section>`)
	})
}
