package killbill

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"
)

const accountsPath = "/1.0/kb/accounts"

// GetAccount loads an account together with its balance and CBA.
func (c *Client) GetAccount(ctx context.Context, accountID string, opts RequestOptions) (*Account, error) {
	req := c.request(ctx, opts).
		SetPathParam("accountId", accountID).
		SetQueryParam("accountWithBalanceAndCBA", "true")
	resp, err := c.execute(req, http.MethodGet, accountsPath+"/{accountId}")
	if err != nil {
		return nil, err
	}

	var account Account
	if err := decode(resp, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) GetAccountByExternalKey(ctx context.Context, externalKey string, opts RequestOptions) (*Account, error) {
	req := c.request(ctx, opts).
		SetQueryParam("externalKey", externalKey).
		SetQueryParam("accountWithBalanceAndCBA", "true")
	resp, err := c.execute(req, http.MethodGet, accountsPath)
	if err != nil {
		return nil, err
	}

	var account Account
	if err := decode(resp, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// ListAccounts returns one page of the tenant's accounts. A zero limit only
// fetches the record counts.
func (c *Client) ListAccounts(ctx context.Context, offset, limit int, opts RequestOptions) (*AccountsPage, error) {
	req := c.request(ctx, opts).
		SetQueryParam("offset", strconv.Itoa(offset)).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetQueryParam("accountWithBalance", "false")
	return c.accountsPage(req, accountsPath+"/pagination")
}

// SearchAccounts matches searchKey against id, name, email, external key and company.
func (c *Client) SearchAccounts(ctx context.Context, searchKey string, offset, limit int, opts RequestOptions) (*AccountsPage, error) {
	req := c.request(ctx, opts).
		SetPathParam("searchKey", searchKey).
		SetQueryParam("offset", strconv.Itoa(offset)).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetQueryParam("accountWithBalance", "false")
	return c.accountsPage(req, accountsPath+"/search/{searchKey}")
}

func (c *Client) accountsPage(req *resty.Request, url string) (*AccountsPage, error) {
	resp, err := c.execute(req, http.MethodGet, url)
	if err != nil {
		return nil, err
	}

	page := &AccountsPage{
		TotalNbRecords: headerInt(resp, HeaderTotalNbRecords),
		MaxNbRecords:   headerInt(resp, HeaderMaxNbRecords),
	}
	if len(resp.Body()) > 0 {
		if err := decode(resp, &page.Accounts); err != nil {
			return nil, err
		}
	}
	return page, nil
}

// CreateAccount creates the account and returns it as stored by Kill Bill.
func (c *Client) CreateAccount(ctx context.Context, account *Account, opts RequestOptions) (*Account, error) {
	req := c.request(ctx, opts).
		SetHeader("Content-Type", "application/json").
		SetBody(account)
	resp, err := c.execute(req, http.MethodPost, accountsPath)
	if err != nil {
		return nil, err
	}

	id, err := createdID(resp)
	if err != nil {
		return nil, err
	}
	return c.GetAccount(ctx, id, opts)
}

// UpdateAccount sends the account's fields. With treatNullAsReset the
// omitted fields are cleared on the server, otherwise they are left untouched.
func (c *Client) UpdateAccount(ctx context.Context, account *Account, treatNullAsReset bool, opts RequestOptions) error {
	req := c.request(ctx, opts).
		SetPathParam("accountId", account.AccountID).
		SetQueryParam("treatNullAsReset", strconv.FormatBool(treatNullAsReset)).
		SetHeader("Content-Type", "application/json").
		SetBody(account)
	_, err := c.execute(req, http.MethodPut, accountsPath+"/{accountId}")
	return err
}

func (c *Client) GetAccountTags(ctx context.Context, accountID string, opts RequestOptions) ([]Tag, error) {
	req := c.request(ctx, opts).
		SetPathParam("accountId", accountID).
		SetQueryParam("includedDeleted", "false").
		SetQueryParam("audit", "NONE")
	resp, err := c.execute(req, http.MethodGet, accountsPath+"/{accountId}/tags")
	if err != nil {
		return nil, err
	}

	var tags []Tag
	if err := decode(resp, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *Client) GetAccountEmails(ctx context.Context, accountID string, opts RequestOptions) ([]AccountEmail, error) {
	req := c.request(ctx, opts).SetPathParam("accountId", accountID)
	resp, err := c.execute(req, http.MethodGet, accountsPath+"/{accountId}/emails")
	if err != nil {
		return nil, err
	}

	var emails []AccountEmail
	if err := decode(resp, &emails); err != nil {
		return nil, err
	}
	return emails, nil
}

func (c *Client) GetOverdueState(ctx context.Context, accountID string, opts RequestOptions) (*OverdueState, error) {
	req := c.request(ctx, opts).SetPathParam("accountId", accountID)
	resp, err := c.execute(req, http.MethodGet, accountsPath+"/{accountId}/overdue")
	if err != nil {
		return nil, err
	}

	var state OverdueState
	if err := decode(resp, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) GetPaymentMethods(ctx context.Context, accountID string, opts RequestOptions) ([]PaymentMethod, error) {
	req := c.request(ctx, opts).
		SetPathParam("accountId", accountID).
		SetQueryParam("withPluginInfo", "false")
	resp, err := c.execute(req, http.MethodGet, accountsPath+"/{accountId}/paymentMethods")
	if err != nil {
		return nil, err
	}

	var methods []PaymentMethod
	if err := decode(resp, &methods); err != nil {
		return nil, err
	}
	return methods, nil
}

func (c *Client) SetDefaultPaymentMethod(ctx context.Context, accountID, paymentMethodID string, opts RequestOptions) error {
	req := c.request(ctx, opts).
		SetPathParam("accountId", accountID).
		SetPathParam("paymentMethodId", paymentMethodID).
		SetQueryParam("payAllUnpaidInvoices", "false")
	_, err := c.execute(req, http.MethodPut, accountsPath+"/{accountId}/paymentMethods/{paymentMethodId}/setDefault")
	return err
}

// PayAllInvoices triggers a payment for every unpaid invoice of the account.
func (c *Client) PayAllInvoices(ctx context.Context, accountID string, externalPayment bool, opts RequestOptions) error {
	req := c.request(ctx, opts).
		SetPathParam("accountId", accountID).
		SetQueryParam("externalPayment", strconv.FormatBool(externalPayment))
	_, err := c.execute(req, http.MethodPost, accountsPath+"/{accountId}/invoicePayments")
	return err
}
