package killbill

import (
	"context"
	"log"
	"net/http"
)

// Plugin names and states used by the console.
const (
	EmailNotificationsPlugin = "killbill-email-notifications"
	PluginStateRunning       = "RUNNING"
)

// EmailNotificationEventTypes are the events the email notifications plugin can send.
var EmailNotificationEventTypes = []string{
	"INVOICE_NOTIFICATION",
	"INVOICE_CREATION",
	"INVOICE_PAYMENT_SUCCESS",
	"INVOICE_PAYMENT_FAILED",
	"PAYMENT_REFUND",
	"SUBSCRIPTION_CANCEL",
}

const emailNotificationsPath = "/plugins/" + EmailNotificationsPlugin + "/v1/accounts/{accountId}"

func (c *Client) GetNodesInfo(ctx context.Context, opts RequestOptions) ([]NodeInfo, error) {
	resp, err := c.execute(c.request(ctx, opts), http.MethodGet, "/1.0/kb/nodesInfo")
	if err != nil {
		return nil, err
	}

	var nodes []NodeInfo
	if err := decode(resp, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// IsPluginRunning reports whether a node runs the named plugin. Answers are
// cached for the configured TTL when the client has a cache.
func (c *Client) IsPluginRunning(ctx context.Context, pluginName string, opts RequestOptions) (bool, error) {
	key := "killbill:plugin:" + pluginName
	if c.cache != nil {
		val, err := c.cache.Get(ctx, key)
		if err != nil {
			log.Printf("killbill: plugin cache read failed: %v", err)
		}
		if val != "" {
			c.metrics.PluginCacheHits.Inc()
			return val == "1", nil
		}
	}
	c.metrics.PluginCacheMiss.Inc()

	nodes, err := c.GetNodesInfo(ctx, opts)
	if err != nil {
		return false, err
	}

	running := false
	for _, node := range nodes {
		for _, plugin := range node.PluginsInfo {
			if plugin.PluginName == pluginName && plugin.State == PluginStateRunning {
				running = true
			}
		}
	}

	if c.cache != nil {
		val := "0"
		if running {
			val = "1"
		}
		if err := c.cache.Set(ctx, key, val, c.cfg.PluginCacheTTL); err != nil {
			log.Printf("killbill: plugin cache write failed: %v", err)
		}
	}
	return running, nil
}

// GetEmailNotifications returns the event types the account is subscribed to.
func (c *Client) GetEmailNotifications(ctx context.Context, accountID string, opts RequestOptions) ([]EmailNotification, error) {
	req := c.request(ctx, opts).SetPathParam("accountId", accountID)
	resp, err := c.execute(req, http.MethodGet, emailNotificationsPath)
	if err != nil {
		return nil, err
	}
	if isNoContent(resp) {
		return nil, nil
	}

	var notifications []EmailNotification
	if err := decode(resp, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// SetEmailNotifications replaces the account's event type subscriptions.
func (c *Client) SetEmailNotifications(ctx context.Context, accountID string, eventTypes []string, opts RequestOptions) error {
	if eventTypes == nil {
		eventTypes = []string{}
	}
	req := c.request(ctx, opts).
		SetPathParam("accountId", accountID).
		SetHeader("Content-Type", "application/json").
		SetBody(eventTypes)
	_, err := c.execute(req, http.MethodPost, emailNotificationsPath)
	return err
}
