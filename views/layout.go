package views

import (
	"fmt"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"

	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/usercontext"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/viewmodel"
)

// HomeCtx wraps content in the console layout for the current operator.
func HomeCtx(c *fiber.Ctx, page string, msg fiber.Map, content templ.Component) templ.Component {
	uc := usercontext.GetUserContext(c)
	return Home(viewmodel.Layout{
		Page:       page,
		Msg:        msg,
		Username:   uc.Username,
		TenantName: uc.TenantName,
	}, content)
}

func Home(vm viewmodel.Layout, content templ.Component) templ.Component {
	return component(func(p *page) {
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>Kaui`)
		p.text(vm.Page)
		p.raw(`</title><link rel="stylesheet" href="/css/kaui.css"></head><body>`)

		p.raw(`<nav><a href="/" class="brand">Kaui</a> <a href="/accounts">Accounts</a> <a href="/tenants">Tenants</a>`)
		p.raw(`<form method="get" action="/accounts" class="inline"><input type="hidden" name="fast" value="1">`)
		p.raw(`<input type="search" name="q" placeholder="Account id or external key"></form>`)
		p.raw(`<span class="operator">`)
		if vm.TenantName != "" {
			p.text(vm.TenantName)
			p.raw(` | `)
		}
		p.text(vm.Username)
		p.raw(`</span></nav>`)

		flashMessage(p, vm.Msg)

		p.raw(`<main>`)
		p.render(content)
		p.raw(`</main><script src="/js/kaui.js"></script></body></html>`)
	})
}

func flashMessage(p *page, msg fiber.Map) {
	message, ok := msg["message"]
	if !ok || message == nil || fmt.Sprint(message) == "" {
		return
	}
	kind := "info"
	if t, ok := msg["type"]; ok && t != nil {
		kind = fmt.Sprint(t)
	}
	p.raw(`<div class="alert alert-`)
	p.text(kind)
	p.raw(`" role="alert">`)
	p.text(fmt.Sprint(message))
	if link, ok := msg["link"]; ok && link != nil && fmt.Sprint(link) != "" {
		p.raw(` <a href="`)
		p.text(fmt.Sprint(link))
		p.raw(`">View</a>`)
	}
	p.raw(`</div>`)
}
