package views

import "github.com/a-h/templ"

// HomeContent is the landing page with the fast account lookup.
func HomeContent() templ.Component {
	return component(func(p *page) {
		p.raw(`<section class="home"><h1>Find an account</h1>`)
		p.raw(`<form method="get" action="/accounts"><input type="hidden" name="fast" value="1">`)
		p.raw(`<input type="search" name="q" autofocus placeholder="Account id or external key">`)
		p.raw(`<button type="submit">Go</button></form>`)
		p.raw(`<p><a href="/accounts">All accounts</a> | <a href="/accounts/new">New account</a></p></section>`)
	})
}
