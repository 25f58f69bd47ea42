package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/killbill"
	"github.com/kitty-tang-hs/killbill-admin-ui/internal/pkg/viewmodel"
	"github.com/kitty-tang-hs/killbill-admin-ui/views"
)

type InvoicesController struct {
	kb *killbill.Client
}

func NewInvoicesController(kb *killbill.Client) *InvoicesController {
	return &InvoicesController{kb: kb}
}

// HandleShow renders an invoice with its items and account
func (ic *InvoicesController) HandleShow(c *fiber.Ctx) error {
	ctx := c.UserContext()
	opts := requestOptions(c)
	invoiceID := c.Params("invoice_id")

	invoice, err := ic.kb.GetInvoice(ctx, invoiceID, opts)
	if err != nil {
		fiberlog.Error(fmt.Sprintf("[Invoices] loading %s failed: %v", invoiceID, err))
		return redirectBackWithError(c, kbErrorMessage(err))
	}
	account, err := ic.kb.GetAccount(ctx, invoice.AccountID, opts)
	if err != nil {
		fiberlog.Error(fmt.Sprintf("[Invoices] loading account %s failed: %v", invoice.AccountID, err))
		return redirectBackWithError(c, kbErrorMessage(err))
	}

	content := views.InvoiceShow(viewmodel.InvoiceShow{Account: account, Invoice: invoice})
	return render(c, " | Invoice "+invoice.InvoiceNumber, content)
}
