package killbill

import (
	"context"
	"net/http"
)

// GetTenantByAPIKey resolves the Kill Bill tenant owning apiKey.
func (c *Client) GetTenantByAPIKey(ctx context.Context, apiKey string, opts RequestOptions) (*Tenant, error) {
	req := c.request(ctx, opts).SetQueryParam("apiKey", apiKey)
	resp, err := c.execute(req, http.MethodGet, "/1.0/kb/tenants")
	if err != nil {
		return nil, err
	}

	var tenant Tenant
	if err := decode(resp, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}
