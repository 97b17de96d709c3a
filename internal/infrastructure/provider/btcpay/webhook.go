package btcpay

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/formworks/payments/internal/domain/provider"
	"go.uber.org/zap"
)

type webhookResponse struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
	URL    string `json:"url"`

	AuthorizedEvents struct {
		Everything     bool     `json:"everything"`
		SpecificEvents []string `json:"specificEvents"`
	} `json:"authorizedEvents"`
}

func (r *webhookResponse) toWebhook() *provider.Webhook {
	return &provider.Webhook{
		ID:     r.ID,
		Secret: r.Secret,
		URL:    r.URL,
		Events: r.AuthorizedEvents.SpecificEvents,
	}
}

// CreateWebhook registers a webhook on the store for the given events.
// The processor generates a secret when none is supplied.
// POST /api/v1/stores/{storeId}/webhooks
func (c *Client) CreateWebhook(ctx context.Context, storeID, webhookURL string, events []string, secret string) (*provider.Webhook, error) {
	body := map[string]interface{}{
		"url":     webhookURL,
		"enabled": true,
		"authorizedEvents": map[string]interface{}{
			"everything":     false,
			"specificEvents": events,
		},
	}
	if secret != "" {
		body["secret"] = secret
	}

	var result webhookResponse
	path := fmt.Sprintf("/stores/%s/webhooks", url.PathEscape(storeID))
	if err := c.do(ctx, http.MethodPost, path, body, &result); err != nil {
		return nil, err
	}

	c.logger.Info("BTCPay webhook registered",
		zap.String("store_id", storeID),
		zap.String("webhook_id", result.ID),
		zap.String("url", webhookURL))

	return result.toWebhook(), nil
}

// GetWebhook fetches an existing webhook registration.
// GET /api/v1/stores/{storeId}/webhooks/{webhookId}
func (c *Client) GetWebhook(ctx context.Context, storeID, webhookID string) (*provider.Webhook, error) {
	var result webhookResponse
	path := fmt.Sprintf("/stores/%s/webhooks/%s", url.PathEscape(storeID), url.PathEscape(webhookID))
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.toWebhook(), nil
}
