package repository

import "context"

// SettingsRepository persists gateway settings as mode-prefixed keys
// ("{mode}_api_key", "{mode}_store_id", ...) plus a global "mode" key,
// scoped per gateway slug.
type SettingsRepository interface {
	// Get returns the value for one key, or "" when absent.
	Get(ctx context.Context, gateway, key string) (string, error)

	// GetAll returns every stored key/value pair for a gateway.
	GetAll(ctx context.Context, gateway string) (map[string]string, error)

	// Update upserts the given key/value pairs atomically.
	Update(ctx context.Context, gateway string, values map[string]string) error
}
