package authnet

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
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const requestPath = "/xml/v1/request.api"

const defaultTimeout = 15 * time.Second

// Client talks to the card processor's JSON reporting API.
type Client struct {
	baseURL        string
	loginID        string
	transactionKey string
	client         *http.Client
	logger         *zap.Logger
}

// NewClient creates a client for the given endpoint and credentials.
func NewClient(siteURL, loginID, transactionKey string, logger *zap.Logger) *Client {
	return &Client{
		baseURL:        strings.TrimRight(siteURL, "/"),
		loginID:        loginID,
		transactionKey: transactionKey,
		client:         &http.Client{Timeout: defaultTimeout},
		logger:         logger,
	}
}

type merchantAuthentication struct {
	Name           string `json:"name"`
	TransactionKey string `json:"transactionKey"`
}

type apiMessages struct {
	ResultCode string `json:"resultCode"`
	Message    []struct {
		Code string `json:"code"`
		Text string `json:"text"`
	} `json:"message"`
}

func (m *apiMessages) ok() bool {
	return strings.EqualFold(m.ResultCode, "Ok")
}

func (m *apiMessages) providerError() *provider.ProviderError {
	perr := &provider.ProviderError{Code: "API_ERROR", Message: "Card gateway request rejected"}
	if len(m.Message) > 0 {
		perr.Code = m.Message[0].Code
		perr.Message = m.Message[0].Text
	}
	return perr
}

// post sends one named request envelope and decodes the response.
func (c *Client) post(ctx context.Context, requestName string, payload, out interface{}) error {
	jsonBody, err := json.Marshal(map[string]interface{}{requestName: payload})
	if err != nil {
		return &provider.ProviderError{
			Code:    "MARSHAL_ERROR",
			Message: "Failed to prepare request",
			Details: err.Error(),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+requestPath, bytes.NewReader(jsonBody))
	if err != nil {
		return &provider.ProviderError{
			Code:    "REQUEST_ERROR",
			Message: "Failed to create request",
			Details: err.Error(),
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Card gateway request failed",
			zap.String("request", requestName),
			zap.Error(err))
		return &provider.ProviderError{
			Code:    "API_ERROR",
			Message: "Card gateway request failed",
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

	// The API answers 200 even on failures; the resultCode in the
	// messages block is the real outcome.
	if resp.StatusCode != http.StatusOK {
		return &provider.ProviderError{
			Code:    fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message: "Card gateway returned an unexpected status",
			Details: string(respBody),
		}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &provider.ProviderError{
			Code:    "PARSE_ERROR",
			Message: "Failed to parse response",
			Details: err.Error(),
		}
	}
	return nil
}

func (c *Client) auth() merchantAuthentication {
	return merchantAuthentication{Name: c.loginID, TransactionKey: c.transactionKey}
}

// GetTransaction fetches a transaction's authoritative state by id.
func (c *Client) GetTransaction(ctx context.Context, transactionID string) (*provider.CardTransaction, error) {
	payload := map[string]interface{}{
		"merchantAuthentication": c.auth(),
		"transId":                transactionID,
	}

	var result struct {
		Transaction struct {
			TransID           string          `json:"transId"`
			TransactionStatus string          `json:"transactionStatus"`
			AuthAmount        decimal.Decimal `json:"authAmount"`
			Currency          string          `json:"currencyCode"`
			Subscription      struct {
				ID json.Number `json:"id"`
			} `json:"subscription"`
		} `json:"transaction"`
		Messages apiMessages `json:"messages"`
	}
	if err := c.post(ctx, "getTransactionDetailsRequest", payload, &result); err != nil {
		return nil, err
	}
	if !result.Messages.ok() {
		return nil, result.Messages.providerError()
	}

	return &provider.CardTransaction{
		ID:             result.Transaction.TransID,
		SubscriptionID: result.Transaction.Subscription.ID.String(),
		Amount:         result.Transaction.AuthAmount,
		Currency:       result.Transaction.Currency,
		Status:         result.Transaction.TransactionStatus,
	}, nil
}

// GetSubscription fetches a recurring-billing subscription by id.
func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (*provider.CardSubscription, error) {
	payload := map[string]interface{}{
		"merchantAuthentication": c.auth(),
		"subscriptionId":         subscriptionID,
	}

	var result struct {
		Subscription struct {
			Status  string `json:"status"`
			Profile struct {
				CustomerProfileID json.Number `json:"customerProfileId"`
			} `json:"profile"`
		} `json:"subscription"`
		Messages apiMessages `json:"messages"`
	}
	if err := c.post(ctx, "ARBGetSubscriptionRequest", payload, &result); err != nil {
		return nil, err
	}
	if !result.Messages.ok() {
		return nil, result.Messages.providerError()
	}

	return &provider.CardSubscription{
		ID:                subscriptionID,
		Status:            strings.ToLower(result.Subscription.Status),
		CustomerProfileID: result.Subscription.Profile.CustomerProfileID.String(),
	}, nil
}

// ListSubscriptionTransactions returns the transactions charged under
// a subscription so far.
func (c *Client) ListSubscriptionTransactions(ctx context.Context, subscriptionID string) ([]provider.CardTransaction, error) {
	payload := map[string]interface{}{
		"merchantAuthentication": c.auth(),
		"searchType":             "transactionsForSubscription",
		"subscriptionId":         subscriptionID,
		"sorting": map[string]interface{}{
			"orderBy":         "submitTimeUTC",
			"orderDescending": false,
		},
	}

	var result struct {
		Transactions []struct {
			TransID           string          `json:"transId"`
			TransactionStatus string          `json:"transactionStatus"`
			SettleAmount      decimal.Decimal `json:"settleAmount"`
			Currency          string          `json:"currencyCode"`
		} `json:"transactions"`
		Messages apiMessages `json:"messages"`
	}
	if err := c.post(ctx, "getTransactionListRequest", payload, &result); err != nil {
		return nil, err
	}
	if !result.Messages.ok() {
		return nil, result.Messages.providerError()
	}

	transactions := make([]provider.CardTransaction, 0, len(result.Transactions))
	for _, t := range result.Transactions {
		transactions = append(transactions, provider.CardTransaction{
			ID:             t.TransID,
			SubscriptionID: subscriptionID,
			Amount:         t.SettleAmount,
			Currency:       t.Currency,
			Status:         t.TransactionStatus,
		})
	}
	return transactions, nil
}
