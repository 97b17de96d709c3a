package btcpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/formworks/payments/internal/domain/provider"
	"go.uber.org/zap"
)

const apiVersion = "v1"

// defaultTimeout bounds outbound calls; a timed-out fetch is treated as
// recoverable and handled by sender redelivery.
const defaultTimeout = 15 * time.Second

// Client talks to a BTCPay Server instance's Greenfield API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a client for the given server URL and API key.
func NewClient(siteURL, apiKey string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(siteURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
}

// do sends a JSON request and decodes the response into out. Non-2xx
// responses become ProviderError with the server's code and message.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return &provider.ProviderError{
				Code:    "MARSHAL_ERROR",
				Message: "Failed to prepare request",
				Details: err.Error(),
			}
		}
		reader = bytes.NewReader(jsonBody)
	}

	url := fmt.Sprintf("%s/api/%s%s", c.baseURL, apiVersion, path)
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &provider.ProviderError{
			Code:    "REQUEST_ERROR",
			Message: "Failed to create request",
			Details: err.Error(),
		}
	}
	req.Header.Set("Authorization", "token "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("BTCPay API request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return &provider.ProviderError{
			Code:    "API_ERROR",
			Message: "BTCPay API request failed",
			Details: err.Error(),
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &provider.ProviderError{
			Code:    "RESPONSE_ERROR",
			Message: "Failed to read response",
			Details: err.Error(),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(respBody, &errResp)

		c.logger.Error("BTCPay API returned an error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("code", errResp.Code))

		return &provider.ProviderError{
			Code:    errResp.Code,
			Message: errResp.Message,
			Details: string(respBody),
		}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &provider.ProviderError{
				Code:    "PARSE_ERROR",
				Message: "Failed to parse response",
				Details: err.Error(),
			}
		}
	}
	return nil
}
