package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/formworks/payments/internal/domain/entity"
	domainErrors "github.com/formworks/payments/internal/domain/errors"
	"github.com/formworks/payments/internal/domain/provider"
	"github.com/formworks/payments/internal/domain/repository"
	"go.uber.org/zap"
)

// WebhookEvents is the event list registered on the crypto processor's
// webhook during provisioning.
var WebhookEvents = []string{
	string(entity.EventInvoiceReceivedPayment),
	string(entity.EventInvoicePaymentSettled),
	string(entity.EventInvoiceProcessing),
	string(entity.EventInvoiceExpired),
	string(entity.EventInvoiceSettled),
	string(entity.EventInvoiceInvalid),
}

// WebhookClientFactory builds a webhook-management client from mode
// settings that may not yet be persisted.
type WebhookClientFactory func(ms *entity.ModeSettings) provider.WebhookClient

// SettingsService resolves per-mode gateway settings and applies
// settings updates, provisioning the processor-side webhook when
// credentials change.
type SettingsService struct {
	repo      repository.SettingsRepository
	webhooks  WebhookClientFactory
	publicURL string
	logger    *zap.Logger
}

// NewSettingsService creates a new SettingsService. publicURL is the
// externally reachable base URL webhooks are registered under.
func NewSettingsService(repo repository.SettingsRepository, webhooks WebhookClientFactory, publicURL string, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		repo:      repo,
		webhooks:  webhooks,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

func requiredKeys(gateway string) []string {
	switch gateway {
	case entity.GatewayBTCPay:
		return []string{"api_key", "store_id", "site_url", "webhook"}
	case entity.GatewayAuthNet:
		return []string{"api_key", "store_id", "site_url", "signature_key"}
	}
	return nil
}

// ModeSettings resolves the configuration for the gateway's active
// mode. Settings are all-or-nothing: any missing required field makes
// the whole gateway unconfigured, returning (nil, nil).
func (s *SettingsService) ModeSettings(ctx context.Context, gateway string) (*entity.ModeSettings, error) {
	values, err := s.repo.GetAll(ctx, gateway)
	if err != nil {
		return nil, err
	}

	mode, ok := entity.ParseMode(values["mode"])
	if !ok {
		return nil, nil
	}

	ms := &entity.ModeSettings{Mode: mode}
	for _, key := range requiredKeys(gateway) {
		value := values[string(mode)+"_"+key]
		if value == "" {
			return nil, nil
		}
		switch key {
		case "api_key":
			ms.APIKey = value
		case "store_id":
			ms.StoreID = value
		case "site_url":
			ms.SiteURL = value
		case "signature_key":
			ms.SignatureKey = value
		case "webhook":
			if err := json.Unmarshal([]byte(value), &ms.Webhook); err != nil {
				s.logger.Error("Stored webhook settings are malformed",
					zap.String("gateway", gateway),
					zap.String("mode", string(mode)),
					zap.Error(err))
				return nil, nil
			}
			if ms.Webhook.ID == "" || ms.Webhook.Secret == "" {
				return nil, nil
			}
		}
	}
	return ms, nil
}

// UpdateSettingsRequest is the admin settings update payload.
type UpdateSettingsRequest struct {
	Mode         string `json:"mode" validate:"required,oneof=sandbox live"`
	APIKey       string `json:"api_key" validate:"required"`
	StoreID      string `json:"store_id" validate:"required"`
	SiteURL      string `json:"site_url" validate:"required,url"`
	SignatureKey string `json:"signature_key"`
}

// UpdateSettingsResult reports whether credentials actually changed.
type UpdateSettingsResult struct {
	Mode    string `json:"mode"`
	Updated bool   `json:"updated"`
}

// Update applies a settings change for one gateway. Unchanged
// credentials only switch the active mode; changed credentials are
// persisted and, for the crypto gateway, the processor webhook is
// provisioned first so a half-configured mode is never stored.
func (s *SettingsService) Update(ctx context.Context, gateway string, req *UpdateSettingsRequest) (*UpdateSettingsResult, error) {
	req.APIKey = strings.TrimSpace(req.APIKey)
	req.StoreID = strings.TrimSpace(req.StoreID)
	req.SiteURL = strings.TrimSpace(req.SiteURL)
	req.SignatureKey = strings.TrimSpace(req.SignatureKey)

	if gateway == entity.GatewayAuthNet && req.SignatureKey == "" {
		return nil, fmt.Errorf("signature key is required for the card gateway")
	}

	current, err := s.repo.GetAll(ctx, gateway)
	if err != nil {
		return nil, err
	}

	mode := req.Mode
	unchanged := current[mode+"_api_key"] == req.APIKey &&
		current[mode+"_store_id"] == req.StoreID &&
		current[mode+"_site_url"] == req.SiteURL &&
		(gateway != entity.GatewayAuthNet || current[mode+"_signature_key"] == req.SignatureKey)
	if unchanged {
		if err := s.repo.Update(ctx, gateway, map[string]string{"mode": mode}); err != nil {
			return nil, err
		}
		return &UpdateSettingsResult{Mode: mode, Updated: false}, nil
	}

	values := map[string]string{
		"mode":             mode,
		mode + "_api_key":  req.APIKey,
		mode + "_store_id": req.StoreID,
		mode + "_site_url": req.SiteURL,
	}

	switch gateway {
	case entity.GatewayBTCPay:
		webhook, err := s.ensureWebhook(ctx, entity.Mode(mode), req, current[mode+"_webhook"])
		if err != nil {
			s.logger.Error("Webhook provisioning failed",
				zap.String("gateway", gateway),
				zap.String("mode", mode),
				zap.Error(err))
			return nil, fmt.Errorf("%w: %v", domainErrors.ErrWebhookProvisioning, err)
		}
		raw, err := json.Marshal(webhook)
		if err != nil {
			return nil, fmt.Errorf("failed to encode webhook settings: %w", err)
		}
		values[mode+"_webhook"] = string(raw)
	case entity.GatewayAuthNet:
		values[mode+"_signature_key"] = req.SignatureKey
	}

	if err := s.repo.Update(ctx, gateway, values); err != nil {
		return nil, err
	}

	s.logger.Info("Gateway settings updated",
		zap.String("gateway", gateway),
		zap.String("mode", mode))
	return &UpdateSettingsResult{Mode: mode, Updated: true}, nil
}

// ensureWebhook reuses the stored processor webhook when the processor
// still knows its id, otherwise registers a fresh one.
func (s *SettingsService) ensureWebhook(ctx context.Context, mode entity.Mode, req *UpdateSettingsRequest, storedJSON string) (*entity.WebhookSettings, error) {
	client := s.webhooks(&entity.ModeSettings{
		Mode:    mode,
		APIKey:  req.APIKey,
		StoreID: req.StoreID,
		SiteURL: req.SiteURL,
	})

	if storedJSON != "" {
		var stored entity.WebhookSettings
		if err := json.Unmarshal([]byte(storedJSON), &stored); err == nil && stored.ID != "" {
			existing, err := client.GetWebhook(ctx, req.StoreID, stored.ID)
			if err == nil && existing.ID == stored.ID {
				return &stored, nil
			}
		}
	}

	created, err := client.CreateWebhook(ctx, req.StoreID, s.WebhookURL(mode), WebhookEvents, "")
	if err != nil {
		return nil, err
	}
	return &entity.WebhookSettings{
		ID:     created.ID,
		Secret: created.Secret,
		URL:    created.URL,
	}, nil
}

// WebhookURL is the inbound endpoint registered with the processor for
// a mode.
func (s *SettingsService) WebhookURL(mode entity.Mode) string {
	return fmt.Sprintf("%s/webhooks/%s?mode=%s", s.publicURL, entity.GatewayBTCPay, mode)
}

// ModeView is the redacted per-mode state exposed to the admin UI.
type ModeView struct {
	Configured bool   `json:"configured"`
	StoreID    string `json:"store_id,omitempty"`
	SiteURL    string `json:"site_url,omitempty"`
}

// SettingsView is the redacted gateway state exposed to the admin UI;
// secrets never leave the service.
type SettingsView struct {
	Mode    string   `json:"mode,omitempty"`
	Sandbox ModeView `json:"sandbox"`
	Live    ModeView `json:"live"`
}

// View returns the redacted settings state for one gateway.
func (s *SettingsService) View(ctx context.Context, gateway string) (*SettingsView, error) {
	values, err := s.repo.GetAll(ctx, gateway)
	if err != nil {
		return nil, err
	}

	view := &SettingsView{Mode: values["mode"]}
	view.Sandbox = s.modeView(gateway, entity.ModeSandbox, values)
	view.Live = s.modeView(gateway, entity.ModeLive, values)
	return view, nil
}

func (s *SettingsService) modeView(gateway string, mode entity.Mode, values map[string]string) ModeView {
	configured := true
	for _, key := range requiredKeys(gateway) {
		if values[string(mode)+"_"+key] == "" {
			configured = false
			break
		}
	}
	return ModeView{
		Configured: configured,
		StoreID:    values[string(mode)+"_store_id"],
		SiteURL:    values[string(mode)+"_site_url"],
	}
}
