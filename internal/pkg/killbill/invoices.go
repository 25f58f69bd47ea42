package killbill

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
)

const invoicesPath = "/1.0/kb/invoices"

func (c *Client) GetInvoice(ctx context.Context, invoiceID string, opts RequestOptions) (*Invoice, error) {
	req := c.request(ctx, opts).
		SetPathParam("invoiceId", invoiceID).
		SetQueryParam("withItems", "true")
	resp, err := c.execute(req, http.MethodGet, invoicesPath+"/{invoiceId}")
	if err != nil {
		return nil, err
	}

	var invoice Invoice
	if err := decode(resp, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// CreateInvoice generates and persists the invoice due at targetDate (today
// when empty). It returns nil without error when there is nothing to invoice.
func (c *Client) CreateInvoice(ctx context.Context, accountID, targetDate string, opts RequestOptions) (*Invoice, error) {
	req := c.request(ctx, opts).SetQueryParam("accountId", accountID)
	if targetDate != "" {
		req.SetQueryParam("targetDate", targetDate)
	}
	resp, err := c.execute(req, http.MethodPost, invoicesPath)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNoContent {
		return nil, nil
	}

	id, err := createdID(resp)
	if err != nil {
		return nil, err
	}
	return c.GetInvoice(ctx, id, opts)
}

// DryRunInvoice computes the invoice Kill Bill would generate without
// persisting it. It returns nil without error when nothing would be invoiced.
func (c *Client) DryRunInvoice(ctx context.Context, accountID, targetDate, dryRunType string, opts RequestOptions) (*Invoice, error) {
	req := c.request(ctx, opts).
		SetQueryParam("accountId", accountID).
		SetHeader("Content-Type", "application/json").
		SetBody(InvoiceDryRun{DryRunType: dryRunType})
	if targetDate != "" {
		req.SetQueryParam("targetDate", targetDate)
	}
	resp, err := c.execute(req, http.MethodPost, invoicesPath+"/dryRun")
	if err != nil {
		return nil, err
	}
	return decodeOptionalInvoice(resp)
}

func decodeOptionalInvoice(resp *resty.Response) (*Invoice, error) {
	if isNoContent(resp) {
		return nil, nil
	}
	var invoice Invoice
	if err := decode(resp, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}
