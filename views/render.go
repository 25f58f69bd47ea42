package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"
)

// page accumulates the first write error so components can be written as a
// flat sequence of calls.
type page struct {
	ctx context.Context
	w   io.Writer
	err error
}

func component(fn func(p *page)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{ctx: ctx, w: w}
		fn(p)
		return p.err
	})
}

func (p *page) raw(s string) {
	if p.err == nil {
		_, p.err = io.WriteString(p.w, s)
	}
}

func (p *page) rawf(format string, args ...any) {
	p.raw(fmt.Sprintf(format, args...))
}

// text writes s HTML escaped. It is safe for element content and quoted attributes.
func (p *page) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *page) render(c templ.Component) {
	if p.err == nil && c != nil {
		p.err = c.Render(p.ctx, p.w)
	}
}

func (p *page) csrfField(token string) {
	p.raw(`<input type="hidden" name="_csrf" value="`)
	p.text(token)
	p.raw(`">`)
}

// postButton renders a one button form posting to action.
func (p *page) postButton(action, csrf, label string, hidden map[string]string) {
	p.raw(`<form method="post" action="`)
	p.text(action)
	p.raw(`" class="inline">`)
	p.csrfField(csrf)
	for name, value := range hidden {
		p.raw(`<input type="hidden" name="`)
		p.text(name)
		p.raw(`" value="`)
		p.text(value)
		p.raw(`">`)
	}
	p.raw(`<button type="submit">`)
	p.text(label)
	p.raw(`</button></form>`)
}

func (p *page) definition(term, value string) {
	p.raw(`<dt>`)
	p.text(term)
	p.raw(`</dt><dd>`)
	p.text(value)
	p.raw(`</dd>`)
}

func amount(d *decimal.Decimal) string {
	if d == nil {
		return "0.00"
	}
	return d.StringFixed(2)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
